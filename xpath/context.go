package xpath

import (
	"context"
	"math"

	"github.com/cockroachdb/apd/v3"
)

type apdContextKey struct{}

// WithAPDContext sets the apd.Context used for inexact decimal operations.
//
// Integer and decimal addition, subtraction and multiplication are always exact. The
// context only controls the precision and rounding of decimal division results that do
// not terminate, such as 1 div 3. By default defaultAPDContext is used, which keeps 34
// significant digits (roughly Decimal128).
//
// Example:
//
//	// Round non-terminating quotients to 18 significant digits
//	ctx := xpath.WithAPDContext(context.Background(), apd.BaseContext.WithPrecision(18))
//	result, err := xpath.Arithmetic(ctx, xpath.OpDivide, one, three)
func WithAPDContext(
	ctx context.Context,
	apdContext *apd.Context,
) context.Context {
	return context.WithValue(ctx, apdContextKey{}, apdContext)
}

const defaultDecimalPrecision uint32 = 34

var defaultAPDContext = apd.BaseContext.WithPrecision(defaultDecimalPrecision)

var (
	// exactContext never rounds; a zero precision disables rounding in apd.
	exactContext = apd.BaseContext.WithPrecision(0)
	// integralContext is the narrowest context for integer quotients and remainders,
	// which apd refuses to compute without a precision.
	integralContext = apd.BaseContext.WithPrecision(2000)
)

// integralContextFor returns a context wide enough to hold both the integer quotient
// and the remainder of x divided by y.
func integralContextFor(x, y *apd.Decimal) *apd.Context {
	scale := int64(x.Exponent) - int64(y.Exponent)
	if scale < 0 {
		scale = -scale
	}
	digits := x.NumDigits() + y.NumDigits() + scale
	if digits <= int64(integralContext.Precision) || digits > math.MaxUint32 {
		return integralContext
	}
	return apd.BaseContext.WithPrecision(uint32(digits))
}

func apdContext(ctx context.Context) *apd.Context {
	if ctx != nil {
		if apdContext, ok := ctx.Value(apdContextKey{}).(*apd.Context); ok && apdContext != nil {
			return apdContext
		}
	}
	return defaultAPDContext
}

type implicitTimezoneKey struct{}

// WithImplicitTimezone sets the implicit timezone of the dynamic context.
//
// The implicit timezone is substituted for the missing timezone of temporal operands
// before they are compared or subtracted. Pass NoTimezone to disable the substitution;
// zoneless values are then only comparable as local values. Without this option the
// implicit timezone is UTC.
func WithImplicitTimezone(ctx context.Context, tz Timezone) context.Context {
	return context.WithValue(ctx, implicitTimezoneKey{}, tz)
}

// ImplicitTimezone returns the implicit timezone carried by ctx.
func ImplicitTimezone(ctx context.Context) Timezone {
	if ctx != nil {
		if tz, ok := ctx.Value(implicitTimezoneKey{}).(Timezone); ok {
			return tz
		}
	}
	return UTC
}

// EmptyOperandMode selects how an operator reacts to an empty-sequence operand.
type EmptyOperandMode uint8

const (
	// EmptyPropagate returns the empty sequence, as a dynamically typed evaluator does.
	EmptyPropagate EmptyOperandMode = iota
	// EmptyStatic signals XPST0005, as an evaluator with static typing does.
	EmptyStatic
)

func (m EmptyOperandMode) String() string {
	switch m {
	case EmptyPropagate:
		return "propagate"
	case EmptyStatic:
		return "static"
	default:
		return "unknown"
	}
}

type emptyOperandModeKey struct{}

// WithEmptyOperandMode sets the empty-operand mode for arithmetic and comparison alike,
// so that one context never mixes the two behaviours.
func WithEmptyOperandMode(ctx context.Context, mode EmptyOperandMode) context.Context {
	return context.WithValue(ctx, emptyOperandModeKey{}, mode)
}

func emptyOperandMode(ctx context.Context) EmptyOperandMode {
	if ctx != nil {
		if mode, ok := ctx.Value(emptyOperandModeKey{}).(EmptyOperandMode); ok {
			return mode
		}
	}
	return EmptyPropagate
}
