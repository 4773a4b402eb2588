package xpath

import (
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

var (
	integerLexical = regexp.MustCompile(`^[+-]?[0-9]+$`)
	decimalLexical = regexp.MustCompile(`^[+-]?(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)$`)
	doubleLexical  = regexp.MustCompile(`^[+-]?(?:[0-9]+(?:\.[0-9]*)?|\.[0-9]+)(?:[eE][+-]?[0-9]+)?$`)
)

// Cast converts v to the atomic type to, following the XPath casting rules for the
// types this package supports. Strings and untyped values are parsed from their
// lexical form; a lexical mismatch yields FORG0001. Pairs of types that can never be
// cast yield XPTY0004.
func Cast(v Value, to Kind) (Value, error) {
	from := v.Kind()
	if from == to {
		return v, nil
	}

	switch to {
	case KindString:
		return String(v.String()), nil
	case KindUntypedAtomic:
		return UntypedAtomic(v.String()), nil
	}

	if isStringLike(from) {
		return parseLexical(v.String(), to)
	}

	switch {
	case to.IsNumeric() && (from.IsNumeric() || from == KindBoolean):
		return castNumeric(v, to)
	case to == KindBoolean && from.IsNumeric():
		return castToBoolean(v), nil
	case to.IsDuration() && from.IsDuration():
		return castDuration(v, to), nil
	case to.IsTemporal() && (from == KindDateTime || from == KindDate):
		if dt, ok := castTemporal(v.(temporalValue).template(), from, to); ok {
			return dt, nil
		}
	}
	return nil, newError(CodeType, "can not cast %s to %s", from, to)
}

func parseLexical(s string, to Kind) (Value, error) {
	s = strings.TrimSpace(s)
	switch to {
	case KindBoolean:
		switch s {
		case "true", "1":
			return Boolean(true), nil
		case "false", "0":
			return Boolean(false), nil
		}
	case KindInteger:
		if integerLexical.MatchString(s) {
			d, _, err := apd.NewFromString(strings.TrimPrefix(s, "+"))
			if err == nil {
				return Integer{Value: normalizeZero(d)}, nil
			}
		}
	case KindDecimal:
		if d, ok := parseDecimalLexical(s); ok {
			return Decimal{Value: d}, nil
		}
	case KindDouble:
		if f, ok := parseFloatLexical(s, 64); ok {
			return Double(f), nil
		}
	case KindFloat:
		if f, ok := parseFloatLexical(s, 32); ok {
			return Float(float32(f)), nil
		}
	case KindDuration:
		return ParseDuration(s)
	case KindYearMonthDuration:
		return ParseYearMonthDuration(s)
	case KindDayTimeDuration:
		return ParseDayTimeDuration(s)
	case KindDateTime:
		return ParseDateTime(s)
	case KindDate:
		return ParseDate(s)
	case KindTime:
		return ParseTime(s)
	case KindGYear:
		return ParseGYear(s)
	case KindGYearMonth:
		return ParseGYearMonth(s)
	case KindGMonth:
		return ParseGMonth(s)
	case KindGMonthDay:
		return ParseGMonthDay(s)
	case KindGDay:
		return ParseGDay(s)
	default:
		return nil, newError(CodeType, "can not cast %s to %s", KindString, to)
	}
	return nil, newError(CodeInvalidCast, "invalid lexical value %q for %s", s, to)
}

func parseDecimalLexical(s string) (*apd.Decimal, bool) {
	if !decimalLexical.MatchString(s) {
		return nil, false
	}
	negative := strings.HasPrefix(s, "-")
	s = strings.TrimLeft(s, "+-")
	if strings.HasPrefix(s, ".") {
		s = "0" + s
	}
	s = strings.TrimSuffix(s, ".")
	d, _, err := apd.NewFromString(s)
	if err != nil {
		return nil, false
	}
	if negative {
		d.Neg(d)
	}
	return normalizeZero(d), true
}

func parseFloatLexical(s string, bitSize int) (float64, bool) {
	switch s {
	case "INF", "+INF":
		return math.Inf(1), true
	case "-INF":
		return math.Inf(-1), true
	case "NaN":
		return math.NaN(), true
	}
	if !doubleLexical.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, bitSize)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return 0, false
	}
	return f, true
}

func castNumeric(v Value, to Kind) (Value, error) {
	switch to {
	case KindDouble:
		return Double(toFloat64(v)), nil
	case KindFloat:
		return Float(toFloat32(v)), nil
	case KindDecimal:
		d, err := toDecimal(v)
		if err != nil {
			return nil, err
		}
		return Decimal{Value: d}, nil
	case KindInteger:
		d, err := toDecimal(v)
		if err != nil {
			return nil, err
		}
		return Integer{Value: truncate(d)}, nil
	}
	return nil, newError(CodeType, "can not cast %s to %s", v.Kind(), to)
}

// toFloat64 widens a numeric or boolean value to float64. Integer and decimal values
// are rounded to the nearest double.
func toFloat64(v Value) float64 {
	switch n := v.(type) {
	case Double:
		return float64(n)
	case Float:
		return float64(n)
	case Integer:
		f, _ := strconv.ParseFloat(n.Value.Text('E'), 64)
		return f
	case Decimal:
		f, _ := strconv.ParseFloat(n.Value.Text('E'), 64)
		return f
	case Boolean:
		if n {
			return 1
		}
		return 0
	}
	return math.NaN()
}

// toDecimal converts a numeric or boolean value to an exact decimal. NaN and the
// infinities have no decimal counterpart.
func toDecimal(v Value) (*apd.Decimal, error) {
	switch n := v.(type) {
	case Integer:
		return n.Value, nil
	case Decimal:
		return n.Value, nil
	case Boolean:
		if n {
			return apd.New(1, 0), nil
		}
		return apd.New(0, 0), nil
	case Float, Double:
		f := toFloat64(v)
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, newError(CodeInvalidValue, "%s can not be represented as %s", v, KindDecimal)
		}
		// Float values are converted through their shortest float32 spelling so that
		// xs:float(0.1) becomes 0.1 rather than its binary expansion.
		d, _, err := apd.NewFromString(strconv.FormatFloat(f, 'E', -1, floatBits(v.Kind())))
		if err != nil {
			return nil, newError(CodeInvalidValue, "%v", err)
		}
		return normalizeZero(d), nil
	}
	return nil, newError(CodeType, "can not cast %s to %s", v.Kind(), KindDecimal)
}

func floatBits(k Kind) int {
	if k == KindFloat {
		return 32
	}
	return 64
}

// truncate drops the fractional digits of d, rounding toward zero.
func truncate(d *apd.Decimal) *apd.Decimal {
	var res apd.Decimal
	c := *integralContext
	c.Rounding = apd.RoundDown
	_, _ = c.RoundToIntegralValue(&res, d)
	if res.Exponent != 0 {
		_, _ = c.Quantize(&res, &res, 0)
	}
	return normalizeZero(&res)
}

func castToBoolean(v Value) Boolean {
	switch n := v.(type) {
	case Integer:
		return Boolean(!n.Value.IsZero())
	case Decimal:
		return Boolean(!n.Value.IsZero())
	}
	f := toFloat64(v)
	return Boolean(f != 0 && !math.IsNaN(f))
}

func castDuration(v Value, to Kind) Value {
	months, seconds, _ := durationParts(v)
	switch to {
	case KindYearMonthDuration:
		return YearMonthDuration{Months: months}
	case KindDayTimeDuration:
		return DayTimeDuration{Seconds: seconds}
	default:
		return Duration{Months: months, Seconds: seconds}
	}
}

// castTemporal projects a dateTime (dates are read at midnight) onto the components of
// the target kind, keeping the timezone.
func castTemporal(dt DateTime, from, to Kind) (Value, bool) {
	tz := dt.Timezone
	switch to {
	case KindDateTime:
		return dt, true
	case KindDate:
		return Date{Year: dt.Year, Month: dt.Month, Day: dt.Day, Timezone: tz}, true
	case KindTime:
		if from != KindDateTime {
			return nil, false
		}
		return Time{Hour: dt.Hour, Minute: dt.Minute, Second: dt.Second, Nanosecond: dt.Nanosecond, Timezone: tz}, true
	case KindGYear:
		return GYear{Year: dt.Year, Timezone: tz}, true
	case KindGYearMonth:
		return GYearMonth{Year: dt.Year, Month: dt.Month, Timezone: tz}, true
	case KindGMonth:
		return GMonth{Month: dt.Month, Timezone: tz}, true
	case KindGMonthDay:
		return GMonthDay{Month: dt.Month, Day: dt.Day, Timezone: tz}, true
	case KindGDay:
		return GDay{Day: dt.Day, Timezone: tz}, true
	}
	return nil, false
}

// ParseLiteral parses an unsigned XPath numeric literal. A literal with an exponent is
// an xs:double, one with a decimal point an xs:decimal, and anything else an xs:integer.
func ParseLiteral(s string) (Value, error) {
	switch {
	case strings.ContainsAny(s, "eE"):
		return parseLexical(s, KindDouble)
	case strings.Contains(s, "."):
		return parseLexical(s, KindDecimal)
	default:
		return parseLexical(s, KindInteger)
	}
}
