package xpath

import (
	"cmp"
	"context"
	"math"
	"strings"
)

// Compare applies a value comparison (eq ne lt le gt ge) to two atomic values.
//
// Numeric operands are compared in their promoted type, string and untyped operands by
// codepoints, and temporal operands by their starting instants after the implicit
// timezone of ctx has been substituted for a missing timezone. Comparisons involving NaN
// and comparisons whose outcome depends on an unknown timezone are false, except ne.
func Compare(ctx context.Context, op Operator, a, b Value) (bool, error) {
	if !op.IsComparison() {
		return false, typeError(op, a.Kind(), b.Kind())
	}
	domain, err := Promote(op, a.Kind(), b.Kind())
	if err != nil {
		return false, err
	}

	var c int
	switch {
	case domain.IsNumeric():
		var ordered bool
		if c, ordered = compareNumeric(domain, a, b); !ordered {
			return op == OpNe, nil
		}
	case domain == KindString:
		c = strings.Compare(a.String(), b.String())
	case domain == KindBoolean:
		c = compareBoolean(bool(a.(Boolean)), bool(b.(Boolean)))
	case domain.IsTemporal():
		var determinate bool
		c, determinate = compareTemporal(a.(temporalValue), b.(temporalValue), ImplicitTimezone(ctx))
		if !determinate {
			return op == OpNe, nil
		}
	case domain.IsDuration():
		c = compareDuration(a, b)
	default:
		return false, typeError(op, a.Kind(), b.Kind())
	}
	return comparisonHolds(op, c), nil
}

func comparisonHolds(op Operator, c int) bool {
	switch op {
	case OpEq:
		return c == 0
	case OpNe:
		return c != 0
	case OpLt:
		return c < 0
	case OpLe:
		return c <= 0
	case OpGt:
		return c > 0
	case OpGe:
		return c >= 0
	}
	return false
}

// compareNumeric compares a and b in the numeric domain. ordered is false when either
// operand is NaN.
func compareNumeric(domain Kind, a, b Value) (c int, ordered bool) {
	switch domain {
	case KindDouble:
		return compareFloat(toFloat64(a), toFloat64(b))
	case KindFloat:
		return compareFloat(float64(toFloat32(a)), float64(toFloat32(b)))
	}
	x, _ := toDecimal(a)
	y, _ := toDecimal(b)
	return x.Cmp(y), true
}

func compareFloat(x, y float64) (int, bool) {
	if math.IsNaN(x) || math.IsNaN(y) {
		return 0, false
	}
	// -0 and +0 are equal
	if x == y {
		return 0, true
	}
	return cmp.Compare(x, y), true
}

func compareBoolean(x, y bool) int {
	switch {
	case x == y:
		return 0
	case x:
		return 1
	default:
		return -1
	}
}

// compareDuration orders durations by months first and seconds second. The order is
// only meaningful within one of the two duration subtypes, where the other component is
// always zero; Promote restricts xs:duration to eq and ne.
func compareDuration(a, b Value) int {
	monthsA, secondsA, _ := durationParts(a)
	monthsB, secondsB, _ := durationParts(b)
	if c := cmp.Compare(monthsA, monthsB); c != 0 {
		return c
	}
	return secondsA.Cmp(secondsB)
}
