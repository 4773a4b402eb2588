package xpath_test

import (
	"context"
	"errors"
	"testing"

	"github.com/damedic/xpath-toolbox-go/xpath"
	"github.com/google/go-cmp/cmp"
)

func TestSequenceSingle(t *testing.T) {
	v, ok, err := xpath.Sequence{}.Single()
	if v != nil || ok || err != nil {
		t.Errorf("Single() of the empty sequence = %v, %v, %v", v, ok, err)
	}

	v, ok, err = xpath.Sequence{xpath.String("a")}.Single()
	if v != xpath.String("a") || !ok || err != nil {
		t.Errorf("Single() of a singleton = %v, %v, %v", v, ok, err)
	}

	_, _, err = xpath.Sequence{xpath.String("a"), xpath.String("b")}.Single()
	if !errors.Is(err, xpath.ErrType) {
		t.Errorf("Single() of two items error = %v, want %v", err, xpath.ErrType)
	}
}

func TestSequenceOperators(t *testing.T) {
	one := xpath.Sequence{xpath.NewInteger(1)}
	two := xpath.Sequence{xpath.NewInteger(2)}
	pair := xpath.Sequence{xpath.NewInteger(1), xpath.NewInteger(2)}
	var empty xpath.Sequence

	propagate := xpath.WithEmptyOperandMode(context.Background(), xpath.EmptyPropagate)
	static := xpath.WithEmptyOperandMode(context.Background(), xpath.EmptyStatic)

	tests := []struct {
		name    string
		eval    func() (xpath.Sequence, error)
		want    string
		wantErr error
	}{
		{"sum", func() (xpath.Sequence, error) { return one.Arithmetic(propagate, xpath.OpAdd, two) }, "{ 3 }", nil},
		{"empty sum", func() (xpath.Sequence, error) { return one.Arithmetic(propagate, xpath.OpAdd, empty) }, "{ }", nil},
		{"static empty sum", func() (xpath.Sequence, error) { return empty.Arithmetic(static, xpath.OpAdd, one) }, "", xpath.ErrStaticEmpty},
		{"sum of two items", func() (xpath.Sequence, error) { return pair.Arithmetic(propagate, xpath.OpAdd, one) }, "", xpath.ErrType},
		{"two items before empty", func() (xpath.Sequence, error) { return pair.Arithmetic(static, xpath.OpAdd, empty) }, "", xpath.ErrType},
		{"comparison", func() (xpath.Sequence, error) { return one.Compare(propagate, xpath.OpLt, two) }, "{ true }", nil},
		{"empty comparison", func() (xpath.Sequence, error) { return empty.Compare(propagate, xpath.OpEq, empty) }, "{ }", nil},
		{"static empty comparison", func() (xpath.Sequence, error) { return one.Compare(static, xpath.OpEq, empty) }, "", xpath.ErrStaticEmpty},
		{"concat", func() (xpath.Sequence, error) { return one.Concat(two) }, "{ 12 }", nil},
		{"concat with empty", func() (xpath.Sequence, error) { return empty.Concat(two) }, "{ 2 }", nil},
		{"concat of two items", func() (xpath.Sequence, error) { return one.Concat(pair) }, "", xpath.ErrType},
		{"negate", func() (xpath.Sequence, error) { return two.Negate() }, "{ -2 }", nil},
		{"negate empty", func() (xpath.Sequence, error) { return empty.Negate() }, "{ }", nil},
		{"identity", func() (xpath.Sequence, error) { return two.Identity() }, "{ 2 }", nil},
		{"identity of two items", func() (xpath.Sequence, error) { return pair.Identity() }, "", xpath.ErrType},
		{"division by zero", func() (xpath.Sequence, error) {
			return one.Arithmetic(propagate, xpath.OpDivide, xpath.Sequence{xpath.NewInteger(0)})
		}, "", xpath.ErrDivisionByZero},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.eval()
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if diff := cmp.Diff(tt.want, got.String()); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSequenceString(t *testing.T) {
	tests := []struct {
		in   xpath.Sequence
		want string
	}{
		{nil, "{ }"},
		{xpath.Sequence{xpath.Boolean(false)}, "{ false }"},
		{xpath.Sequence{xpath.Double(1e6), xpath.UntypedAtomic("x"), xpath.YearMonthDuration{}}, "{ 1.0E6, x, P0M }"},
	}

	for _, tt := range tests {
		if diff := cmp.Diff(tt.want, tt.in.String()); diff != "" {
			t.Errorf("String() mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestConcat(t *testing.T) {
	tests := []struct {
		a, b xpath.Value
		want xpath.String
	}{
		{xpath.String("a"), xpath.String("b"), "ab"},
		{xpath.NewInteger(12), xpath.Double(0.5), "120.5"},
		{nil, xpath.Boolean(true), "true"},
		{xpath.DayTimeDuration{}, nil, "PT0S"},
		{nil, nil, ""},
	}

	for _, tt := range tests {
		if got := xpath.Concat(tt.a, tt.b); got != tt.want {
			t.Errorf("Concat(%v, %v) = %q, want %q", tt.a, tt.b, got, tt.want)
		}
	}
}
