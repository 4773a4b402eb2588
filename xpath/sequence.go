package xpath

import (
	"context"
	"fmt"
	"strings"
)

// Sequence is an ordered sequence of atomic values as produced by evaluating an
// expression. The operator methods apply the operand rules of a dynamic evaluator
// before handing single values to the engines: an empty operand short-circuits (or
// fails with XPST0005 under EmptyStatic) and an operand with more than one item fails
// with XPTY0004.
type Sequence []Value

// Single returns the only item of s. ok is false for the empty sequence.
func (s Sequence) Single() (v Value, ok bool, err error) {
	switch len(s) {
	case 0:
		return nil, false, nil
	case 1:
		return s[0], true, nil
	default:
		return nil, false, newError(CodeType, "expected at most one item, got %d: %v", len(s), s)
	}
}

// operands reduces both sides of a binary operator to single values. ok is false when
// the operator yields the empty sequence.
func (s Sequence) operands(ctx context.Context, op Operator, other Sequence) (a, b Value, ok bool, err error) {
	a, okA, err := s.Single()
	if err != nil {
		return nil, nil, false, fmt.Errorf("left operand of %s: %w", op, err)
	}
	b, okB, err := other.Single()
	if err != nil {
		return nil, nil, false, fmt.Errorf("right operand of %s: %w", op, err)
	}
	if okA && okB {
		return a, b, true, nil
	}
	if emptyOperandMode(ctx) == EmptyStatic {
		return nil, nil, false, newError(CodeStaticEmpty, "operand of %s is the empty sequence", op)
	}
	return nil, nil, false, nil
}

func (s Sequence) Arithmetic(ctx context.Context, op Operator, other Sequence) (Sequence, error) {
	a, b, ok, err := s.operands(ctx, op, other)
	if err != nil || !ok {
		return nil, err
	}
	res, err := Arithmetic(ctx, op, a, b)
	if err != nil {
		return nil, err
	}
	return Sequence{res}, nil
}

func (s Sequence) Compare(ctx context.Context, op Operator, other Sequence) (Sequence, error) {
	a, b, ok, err := s.operands(ctx, op, other)
	if err != nil || !ok {
		return nil, err
	}
	res, err := Compare(ctx, op, a, b)
	if err != nil {
		return nil, err
	}
	return Sequence{Boolean(res)}, nil
}

// Concat applies || to two sequences. Empty operands contribute the empty string in
// every mode.
func (s Sequence) Concat(other Sequence) (Sequence, error) {
	a, _, err := s.Single()
	if err != nil {
		return nil, fmt.Errorf("left operand of ||: %w", err)
	}
	b, _, err := other.Single()
	if err != nil {
		return nil, fmt.Errorf("right operand of ||: %w", err)
	}
	return Sequence{Concat(a, b)}, nil
}

// Negate applies unary minus; the empty sequence stays empty.
func (s Sequence) Negate() (Sequence, error) {
	return s.unary(Negate)
}

// Identity applies unary plus; the empty sequence stays empty.
func (s Sequence) Identity() (Sequence, error) {
	return s.unary(Identity)
}

func (s Sequence) unary(fn func(Value) (Value, error)) (Sequence, error) {
	v, ok, err := s.Single()
	if err != nil || !ok {
		return nil, err
	}
	res, err := fn(v)
	if err != nil {
		return nil, err
	}
	return Sequence{res}, nil
}

func (s Sequence) String() string {
	if len(s) == 0 {
		return "{ }"
	}

	var b strings.Builder
	b.WriteString("{ ")
	for i, v := range s {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(v.String())
	}
	b.WriteString(" }")
	return b.String()
}
