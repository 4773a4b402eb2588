package xpath

import (
	"context"
	"math"
	"strconv"

	"github.com/cockroachdb/apd/v3"
)

// Arithmetic applies one of + - * div idiv mod to two atomic values.
//
// The result type is resolved with Promote, so operand types that do not support the
// operator fail with XPTY0004 before anything is computed. Untyped operands are cast to
// xs:double first, which fails with FORG0001 for non-numeric text.
//
// Integer and decimal addition, subtraction and multiplication are exact. Decimal
// division that does not terminate is rounded using the apd.Context set with
// WithAPDContext.
func Arithmetic(ctx context.Context, op Operator, a, b Value) (Value, error) {
	if !op.IsArithmetic() {
		return nil, typeError(op, a.Kind(), b.Kind())
	}
	if _, err := Promote(op, a.Kind(), b.Kind()); err != nil {
		return nil, err
	}
	var err error
	if a, err = untypedToDouble(a); err != nil {
		return nil, err
	}
	if b, err = untypedToDouble(b); err != nil {
		return nil, err
	}

	switch ka, kb := a.Kind(), b.Kind(); {
	case ka.IsNumeric() && kb.IsNumeric():
		return arithmeticNumeric(ctx, op, widerNumeric(ka, kb), a, b)
	case ka.IsDuration() || kb.IsDuration():
		return arithmeticDuration(ctx, op, a, b)
	default:
		return subtractTemporal(ctx, a.(temporalValue), b.(temporalValue))
	}
}

func untypedToDouble(v Value) (Value, error) {
	if v.Kind() != KindUntypedAtomic {
		return v, nil
	}
	return Cast(v, KindDouble)
}

// Negate implements unary minus on numeric and duration values.
func Negate(v Value) (Value, error) {
	v, err := untypedToDouble(v)
	if err != nil {
		return nil, err
	}
	switch n := v.(type) {
	case Integer:
		var res apd.Decimal
		res.Neg(n.Value)
		return Integer{Value: normalizeZero(&res)}, nil
	case Decimal:
		var res apd.Decimal
		res.Neg(n.Value)
		return Decimal{Value: normalizeZero(&res)}, nil
	case Float:
		return -n, nil
	case Double:
		return -n, nil
	case YearMonthDuration:
		return YearMonthDuration{Months: -n.Months}, nil
	case DayTimeDuration:
		var res apd.Decimal
		res.Neg(orZero(n.Seconds))
		return DayTimeDuration{Seconds: normalizeZero(&res)}, nil
	}
	return nil, newError(CodeType, "unary minus is not defined for %s", v.Kind())
}

// Identity implements unary plus: numeric operands are returned unchanged and untyped
// operands are cast to xs:double.
func Identity(v Value) (Value, error) {
	v, err := untypedToDouble(v)
	if err != nil {
		return nil, err
	}
	if !v.Kind().IsNumeric() {
		return nil, newError(CodeType, "unary plus is not defined for %s", v.Kind())
	}
	return v, nil
}

func arithmeticNumeric(ctx context.Context, op Operator, domain Kind, a, b Value) (Value, error) {
	switch domain {
	case KindDouble:
		return arithmeticFloat(op, KindDouble, toFloat64(a), toFloat64(b))
	case KindFloat:
		return arithmeticFloat(op, KindFloat, float64(toFloat32(a)), float64(toFloat32(b)))
	}

	x, _ := toDecimal(a)
	y, _ := toDecimal(b)
	if op == OpDivide || op == OpIntegerDivide || op == OpMod {
		if y.IsZero() {
			return nil, newError(CodeDivisionByZero, "%s %s %s", a, op, b)
		}
	}

	var res apd.Decimal
	var err error
	switch op {
	case OpAdd:
		_, err = exactContext.Add(&res, x, y)
	case OpSubtract:
		_, err = exactContext.Sub(&res, x, y)
	case OpMultiply:
		_, err = exactContext.Mul(&res, x, y)
	case OpDivide:
		if _, err = apdContext(ctx).Quo(&res, x, y); err == nil {
			res.Reduce(&res)
		}
	case OpIntegerDivide:
		_, err = integralContextFor(x, y).QuoInteger(&res, x, y)
	case OpMod:
		_, err = integralContextFor(x, y).Rem(&res, x, y)
	}
	if err != nil {
		return nil, newError(CodeNumericOverflow, "%s %s %s: %v", a, op, b, err)
	}
	normalizeZero(&res)

	if op == OpIntegerDivide || (domain == KindInteger && op != OpDivide) {
		if res.Exponent != 0 {
			return Integer{Value: truncate(&res)}, nil
		}
		return Integer{Value: &res}, nil
	}
	return Decimal{Value: &res}, nil
}

// arithmeticFloat computes in float64 and narrows to float32 for KindFloat, which gives
// the correctly rounded float32 result for + - * div.
func arithmeticFloat(op Operator, domain Kind, x, y float64) (Value, error) {
	var f float64
	switch op {
	case OpAdd:
		f = x + y
	case OpSubtract:
		f = x - y
	case OpMultiply:
		f = x * y
	case OpDivide:
		f = x / y
	case OpMod:
		f = math.Mod(x, y)
	case OpIntegerDivide:
		if y == 0 {
			return nil, newError(CodeDivisionByZero, "integer division of %v by zero", x)
		}
		if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) {
			return nil, newError(CodeNumericOverflow, "integer division of %v by %v", x, y)
		}
		q := x / y
		if domain == KindFloat {
			q = float64(float32(q))
		}
		d, err := toDecimal(Double(math.Trunc(q)))
		if err != nil {
			return nil, newError(CodeNumericOverflow, "integer division of %v by %v", x, y)
		}
		return Integer{Value: truncate(d)}, nil
	}
	if domain == KindFloat {
		return Float(float32(f)), nil
	}
	return Double(f), nil
}

// toFloat32 rounds v to the nearest xs:float. Integer and decimal values are rounded
// once from their exact digits; going through float64 first would round twice.
func toFloat32(v Value) float32 {
	switch n := v.(type) {
	case Float:
		return float32(n)
	case Integer:
		f, _ := strconv.ParseFloat(n.Value.Text('E'), 32)
		return float32(f)
	case Decimal:
		f, _ := strconv.ParseFloat(n.Value.Text('E'), 32)
		return float32(f)
	}
	return float32(toFloat64(v))
}

var half = apd.New(5, -1)

func arithmeticDuration(ctx context.Context, op Operator, a, b Value) (Value, error) {
	if a.Kind().IsNumeric() {
		a, b = b, a
	}
	switch x := a.(type) {
	case YearMonthDuration:
		y, ok := b.(YearMonthDuration)
		switch {
		case !ok:
			return scaleYearMonth(ctx, op, x, b)
		case op == OpDivide:
			return durationRatio(ctx, apd.New(x.Months, 0), apd.New(y.Months, 0))
		default:
			return yearMonthSum(op, x, y)
		}
	case DayTimeDuration:
		y, ok := b.(DayTimeDuration)
		switch {
		case !ok:
			return scaleDayTime(ctx, op, x, b)
		case op == OpDivide:
			return durationRatio(ctx, orZero(x.Seconds), orZero(y.Seconds))
		default:
			return dayTimeSum(op, x, y)
		}
	}
	return nil, typeError(op, a.Kind(), b.Kind())
}

func dayTimeSum(op Operator, x, y DayTimeDuration) (Value, error) {
	var res apd.Decimal
	var err error
	if op == OpAdd {
		_, err = exactContext.Add(&res, orZero(x.Seconds), orZero(y.Seconds))
	} else {
		_, err = exactContext.Sub(&res, orZero(x.Seconds), orZero(y.Seconds))
	}
	if err != nil {
		return nil, newError(CodeDurationOverflow, "%s %s %s: %v", x, op, y, err)
	}
	return DayTimeDuration{Seconds: normalizeZero(&res)}, nil
}

func yearMonthSum(op Operator, x, y YearMonthDuration) (Value, error) {
	months := y.Months
	if op == OpSubtract {
		months = -months
	}
	sum := x.Months + months
	if (months > 0 && sum < x.Months) || (months < 0 && sum > x.Months) {
		return nil, newError(CodeDurationOverflow, "%s %s %s overflows", x, op, y)
	}
	return YearMonthDuration{Months: sum}, nil
}

// durationFactor validates the numeric operand of a duration multiplication or division.
func durationFactor(op Operator, d, n Value) (*apd.Decimal, error) {
	if f := toFloat64(n); n.Kind() == KindFloat || n.Kind() == KindDouble {
		switch {
		case math.IsNaN(f):
			return nil, newError(CodeNaNOperand, "%s %s NaN", d, op)
		case math.IsInf(f, 0) && op == OpMultiply:
			return nil, newError(CodeDurationOverflow, "%s %s %s", d, op, n)
		case math.IsInf(f, 0):
			return apd.New(0, 0), nil
		}
	}
	factor, err := toDecimal(n)
	if err != nil {
		return nil, err
	}
	if op == OpDivide && factor.IsZero() {
		return nil, newError(CodeDurationOverflow, "%s div %s", d, n)
	}
	return factor, nil
}

func scaleYearMonth(ctx context.Context, op Operator, d YearMonthDuration, n Value) (Value, error) {
	factor, err := durationFactor(op, d, n)
	if err != nil {
		return nil, err
	}
	months := apd.New(d.Months, 0)
	var res apd.Decimal
	switch {
	case op == OpMultiply:
		_, err = exactContext.Mul(&res, months, factor)
	case factor.IsZero():
		// division by an infinite divisor
		return YearMonthDuration{}, nil
	default:
		_, err = apdContext(ctx).Quo(&res, months, factor)
	}
	if err != nil {
		return nil, newError(CodeDurationOverflow, "%s %s %s: %v", d, op, n, err)
	}

	// Months are rounded half toward positive infinity, like fn:round.
	if _, err = integralContext.Add(&res, &res, half); err == nil {
		_, err = integralContext.Floor(&res, &res)
	}
	if err != nil {
		return nil, newError(CodeDurationOverflow, "%s %s %s: %v", d, op, n, err)
	}
	total, err := truncate(&res).Int64()
	if err != nil {
		return nil, newError(CodeDurationOverflow, "%s %s %s overflows", d, op, n)
	}
	return YearMonthDuration{Months: total}, nil
}

func scaleDayTime(ctx context.Context, op Operator, d DayTimeDuration, n Value) (Value, error) {
	factor, err := durationFactor(op, d, n)
	if err != nil {
		return nil, err
	}
	var res apd.Decimal
	switch {
	case op == OpMultiply:
		_, err = exactContext.Mul(&res, orZero(d.Seconds), factor)
	case factor.IsZero():
		return DayTimeDuration{Seconds: apd.New(0, 0)}, nil
	default:
		if _, err = apdContext(ctx).Quo(&res, orZero(d.Seconds), factor); err == nil {
			res.Reduce(&res)
		}
	}
	if err != nil {
		return nil, newError(CodeDurationOverflow, "%s %s %s: %v", d, op, n, err)
	}
	return DayTimeDuration{Seconds: normalizeZero(&res)}, nil
}

// durationRatio divides two durations of the same kind.
func durationRatio(ctx context.Context, x, y *apd.Decimal) (Value, error) {
	if y.IsZero() {
		return nil, newError(CodeDivisionByZero, "division by a zero duration")
	}
	var res apd.Decimal
	if _, err := apdContext(ctx).Quo(&res, x, y); err != nil {
		return nil, newError(CodeNumericOverflow, "%v", err)
	}
	res.Reduce(&res)
	return Decimal{Value: normalizeZero(&res)}, nil
}

// subtractTemporal returns the xs:dayTimeDuration between the starting instants of two
// dateTime, date or time values. Zoneless operands take the implicit timezone, or are
// read as UTC when there is none.
func subtractTemporal(ctx context.Context, a, b temporalValue) (Value, error) {
	implicit := ImplicitTimezone(ctx)
	ta, _ := a.template().instant(implicit)
	tb, _ := b.template().instant(implicit)

	seconds := apd.New(ta.Unix()-tb.Unix(), 0)
	nanos := apd.New(int64(ta.Nanosecond()-tb.Nanosecond()), -9)
	var res apd.Decimal
	if _, err := exactContext.Add(&res, seconds, nanos); err != nil {
		return nil, newError(CodeDurationOverflow, "%s - %s: %v", a, b, err)
	}
	res.Reduce(&res)
	return DayTimeDuration{Seconds: normalizeZero(&res)}, nil
}
