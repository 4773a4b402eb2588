package xpath_test

import (
	"errors"
	"math"
	"testing"

	"github.com/damedic/xpath-toolbox-go/xpath"
	"github.com/google/go-cmp/cmp"
)

func TestCastFromString(t *testing.T) {
	tests := []struct {
		lexical string
		to      xpath.Kind
		want    string
		wantErr error
	}{
		{"  12 ", xpath.KindInteger, "12", nil},
		{"+007", xpath.KindInteger, "7", nil},
		{"-0", xpath.KindInteger, "0", nil},
		{"1.5", xpath.KindInteger, "", xpath.ErrInvalidCast},
		{".5", xpath.KindDecimal, "0.5", nil},
		{"1.", xpath.KindDecimal, "1", nil},
		{"-0.0", xpath.KindDecimal, "0", nil},
		{"1.500", xpath.KindDecimal, "1.5", nil},
		{"1e3", xpath.KindDecimal, "", xpath.ErrInvalidCast},
		{"INF", xpath.KindDecimal, "", xpath.ErrInvalidCast},
		{"1e3", xpath.KindDouble, "1000", nil},
		{"1e6", xpath.KindDouble, "1.0E6", nil},
		{"1.5e-7", xpath.KindDouble, "1.5E-7", nil},
		{"1e400", xpath.KindDouble, "INF", nil},
		{"-INF", xpath.KindFloat, "-INF", nil},
		{"inf", xpath.KindDouble, "", xpath.ErrInvalidCast},
		{"NaN", xpath.KindDouble, "NaN", nil},
		{"abc", xpath.KindDouble, "", xpath.ErrInvalidCast},
		{"0.1", xpath.KindFloat, "0.1", nil},
		{"1", xpath.KindBoolean, "true", nil},
		{"false", xpath.KindBoolean, "false", nil},
		{"yes", xpath.KindBoolean, "", xpath.ErrInvalidCast},
		{"P1Y13M", xpath.KindYearMonthDuration, "P2Y1M", nil},
		{"P1D", xpath.KindYearMonthDuration, "", xpath.ErrInvalidCast},
		{"PT36H", xpath.KindDayTimeDuration, "P1DT12H", nil},
		{"-PT0.000S", xpath.KindDayTimeDuration, "PT0S", nil},
		{"P0D", xpath.KindDuration, "PT0S", nil},
		{"P1Y0M", xpath.KindYearMonthDuration, "P1Y", nil},
		{"P0Y", xpath.KindYearMonthDuration, "P0M", nil},
		{"P", xpath.KindDuration, "", xpath.ErrInvalidCast},
		{"P1YT", xpath.KindDuration, "", xpath.ErrInvalidCast},
		{"2000-02-29T24:00:00Z", xpath.KindDateTime, "2000-03-01T00:00:00Z", nil},
		{"2000-01-01T00:00:00.1234567891+00:00", xpath.KindDateTime, "2000-01-01T00:00:00.123456789Z", nil},
		{"2000-01-01T12:00:00.500-05:00", xpath.KindDateTime, "2000-01-01T12:00:00.5-05:00", nil},
		{"2001-02-29", xpath.KindDate, "", xpath.ErrInvalidCast},
		{"-0044-03-15", xpath.KindDate, "-0044-03-15", nil},
		{"2000-01-01+14:01", xpath.KindDate, "", xpath.ErrInvalidCast},
		{"25:00:00", xpath.KindTime, "", xpath.ErrInvalidCast},
		{"--02-29", xpath.KindGMonthDay, "--02-29", nil},
		{"---32", xpath.KindGDay, "", xpath.ErrInvalidCast},
		{"2000-13", xpath.KindGYearMonth, "", xpath.ErrInvalidCast},
		{"12345", xpath.KindGYear, "12345", nil},
		{"999999999-12-31", xpath.KindDate, "999999999-12-31", nil},
		{"999999999999999-01-01T00:00:00Z", xpath.KindDateTime, "", xpath.ErrInvalidCast},
		{"-1000000000", xpath.KindGYear, "", xpath.ErrInvalidCast},
		{"--12Z", xpath.KindGMonth, "--12Z", nil},
	}

	for _, tt := range tests {
		t.Run(tt.lexical+" as "+tt.to.String(), func(t *testing.T) {
			got, err := xpath.Cast(xpath.String(tt.lexical), tt.to)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Cast() error = %v, want %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if diff := cmp.Diff(typed{tt.to, tt.want}, typedOf(got)); diff != "" {
				t.Errorf("Cast() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCast(t *testing.T) {
	tests := []struct {
		name    string
		in      xpath.Value
		to      xpath.Kind
		want    string
		wantErr error
	}{
		{"double to integer truncates", xpath.Double(2.9), xpath.KindInteger, "2", nil},
		{"negative double to integer", xpath.Double(-2.9), xpath.KindInteger, "-2", nil},
		{"infinity to integer", xpath.Double(math.Inf(1)), xpath.KindInteger, "", xpath.ErrInvalidValue},
		{"NaN to decimal", xpath.Float(float32(math.NaN())), xpath.KindDecimal, "", xpath.ErrInvalidValue},
		{"float to decimal", xpath.Float(0.1), xpath.KindDecimal, "0.1", nil},
		{"large double to decimal", xpath.Double(1e20), xpath.KindDecimal, "100000000000000000000", nil},
		{"large integer to float", mustInteger(t, "12345678901234567890"), xpath.KindFloat, "1.2345679E19", nil},
		{"decimal just below a float midpoint", mustDecimal(t, "1.00000017881393432617187499"), xpath.KindFloat, "1.0000001", nil},
		{"integer just above a float midpoint", mustInteger(t, "18446745173221179393"), xpath.KindFloat, "1.8446746E19", nil},
		{"decimal to boolean", mustDecimal(t, "0.5"), xpath.KindBoolean, "true", nil},
		{"NaN to boolean", xpath.Double(math.NaN()), xpath.KindBoolean, "false", nil},
		{"boolean to integer", xpath.Boolean(true), xpath.KindInteger, "1", nil},
		{"boolean to double", xpath.Boolean(false), xpath.KindDouble, "0", nil},
		{"double to string", xpath.Double(1e6), xpath.KindString, "1.0E6", nil},
		{"integer to untypedAtomic", xpath.NewInteger(-42), xpath.KindUntypedAtomic, "-42", nil},
		{"boolean to duration", xpath.Boolean(true), xpath.KindDuration, "", xpath.ErrType},
		{"duration to yearMonthDuration", mustDuration(t, "P1Y2M3DT4H"), xpath.KindYearMonthDuration, "P1Y2M", nil},
		{"duration to dayTimeDuration", mustDuration(t, "-P1Y2M3DT4H"), xpath.KindDayTimeDuration, "-P3DT4H", nil},
		{"dateTime to date", mustDateTime(t, "2000-01-15T10:30:00-05:00"), xpath.KindDate, "2000-01-15-05:00", nil},
		{"dateTime to time", mustDateTime(t, "2000-01-15T10:30:00-05:00"), xpath.KindTime, "10:30:00-05:00", nil},
		{"dateTime to gMonthDay", mustDateTime(t, "2000-01-15T10:30:00"), xpath.KindGMonthDay, "--01-15", nil},
		{"date to dateTime", xpath.Date{Year: 2000, Month: 1, Day: 15, Timezone: xpath.UTC}, xpath.KindDateTime, "2000-01-15T00:00:00Z", nil},
		{"date to time", xpath.Date{Year: 2000, Month: 1, Day: 15}, xpath.KindTime, "", xpath.ErrType},
		{"time to date", xpath.Time{Hour: 1}, xpath.KindDate, "", xpath.ErrType},
		{"gYear to integer", xpath.GYear{Year: 2000}, xpath.KindInteger, "", xpath.ErrType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := xpath.Cast(tt.in, tt.to)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Cast() error = %v, want %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if diff := cmp.Diff(typed{tt.to, tt.want}, typedOf(got)); diff != "" {
				t.Errorf("Cast() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseLiteral(t *testing.T) {
	tests := []struct {
		literal string
		want    typed
	}{
		{"1", typed{xpath.KindInteger, "1"}},
		{"007", typed{xpath.KindInteger, "7"}},
		{"1.0", typed{xpath.KindDecimal, "1"}},
		{".25", typed{xpath.KindDecimal, "0.25"}},
		{"1e0", typed{xpath.KindDouble, "1"}},
		{".5E1", typed{xpath.KindDouble, "5"}},
		{"1.5e-7", typed{xpath.KindDouble, "1.5E-7"}},
	}

	for _, tt := range tests {
		t.Run(tt.literal, func(t *testing.T) {
			got, err := xpath.ParseLiteral(tt.literal)
			if err != nil {
				t.Fatalf("ParseLiteral() error = %v", err)
			}
			if diff := cmp.Diff(tt.want, typedOf(got)); diff != "" {
				t.Errorf("ParseLiteral() mismatch (-want +got):\n%s", diff)
			}
		})
	}

	if _, err := xpath.ParseLiteral("1e"); !errors.Is(err, xpath.ErrInvalidCast) {
		t.Errorf("ParseLiteral(1e) error = %v, want %v", err, xpath.ErrInvalidCast)
	}
}

func mustInteger(t *testing.T, lexical string) xpath.Value {
	return mustCast(t, lexical, xpath.KindInteger)
}

func mustDecimal(t *testing.T, lexical string) xpath.Value {
	return mustCast(t, lexical, xpath.KindDecimal)
}

func mustDuration(t *testing.T, lexical string) xpath.Value {
	return mustCast(t, lexical, xpath.KindDuration)
}

func mustDateTime(t *testing.T, lexical string) xpath.Value {
	return mustCast(t, lexical, xpath.KindDateTime)
}
