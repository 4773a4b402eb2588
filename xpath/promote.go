package xpath

// Operator is a binary operator handled by the engine.
type Operator uint8

const (
	OpAdd Operator = iota
	OpSubtract
	OpMultiply
	OpDivide
	OpIntegerDivide
	OpMod
	OpEq
	OpNe
	OpLt
	OpLe
	OpGt
	OpGe
	OpConcat
)

var operatorTokens = [...]string{
	OpAdd:           "+",
	OpSubtract:      "-",
	OpMultiply:      "*",
	OpDivide:        "div",
	OpIntegerDivide: "idiv",
	OpMod:           "mod",
	OpEq:            "eq",
	OpNe:            "ne",
	OpLt:            "lt",
	OpLe:            "le",
	OpGt:            "gt",
	OpGe:            "ge",
	OpConcat:        "||",
}

func (op Operator) String() string {
	if int(op) < len(operatorTokens) {
		return operatorTokens[op]
	}
	return "?"
}

// LookupOperator maps an operator token such as "div" or "||" to its Operator.
func LookupOperator(token string) (Operator, bool) {
	for op, t := range operatorTokens {
		if t == token {
			return Operator(op), true
		}
	}
	return 0, false
}

// IsArithmetic reports whether op is one of + - * div idiv mod.
func (op Operator) IsArithmetic() bool {
	return op <= OpMod
}

// IsComparison reports whether op is a value comparison.
func (op Operator) IsComparison() bool {
	return op >= OpEq && op <= OpGe
}

// Promote resolves the type an operator works in for the given operand kinds.
//
// For arithmetic operators the returned kind is the dynamic type of the result. For
// comparison operators it is the kind both operands are compared as; no value of that
// kind is produced. Invalid combinations are reported as XPTY0004.
func Promote(op Operator, lhs, rhs Kind) (Kind, error) {
	switch {
	case op == OpConcat:
		return KindString, nil
	case op.IsArithmetic():
		return promoteArithmetic(op, lhs, rhs)
	case op.IsComparison():
		return promoteComparison(op, lhs, rhs)
	}
	return KindInvalid, typeError(op, lhs, rhs)
}

func promoteArithmetic(op Operator, lhs, rhs Kind) (Kind, error) {
	if lhs == KindUntypedAtomic {
		lhs = KindDouble
	}
	if rhs == KindUntypedAtomic {
		rhs = KindDouble
	}

	switch {
	case lhs.IsNumeric() && rhs.IsNumeric():
		switch op {
		case OpIntegerDivide:
			return KindInteger, nil
		case OpDivide:
			if lhs == KindInteger && rhs == KindInteger {
				return KindDecimal, nil
			}
		}
		return widerNumeric(lhs, rhs), nil

	case isOrderedDuration(lhs) && lhs == rhs:
		switch op {
		case OpAdd, OpSubtract:
			return lhs, nil
		case OpDivide:
			return KindDecimal, nil
		}

	case isOrderedDuration(lhs) && rhs.IsNumeric():
		if op == OpMultiply || op == OpDivide {
			return lhs, nil
		}

	case lhs.IsNumeric() && isOrderedDuration(rhs):
		if op == OpMultiply {
			return rhs, nil
		}

	case lhs == rhs && (lhs == KindDateTime || lhs == KindDate || lhs == KindTime):
		if op == OpSubtract {
			return KindDayTimeDuration, nil
		}
	}
	return KindInvalid, typeError(op, lhs, rhs)
}

func isOrderedDuration(k Kind) bool {
	return k == KindYearMonthDuration || k == KindDayTimeDuration
}

func promoteComparison(op Operator, lhs, rhs Kind) (Kind, error) {
	var domain Kind
	switch {
	case lhs.IsNumeric() && rhs.IsNumeric():
		domain = widerNumeric(lhs, rhs)
	case isStringLike(lhs) && isStringLike(rhs):
		domain = KindString
	case lhs == KindBoolean && rhs == KindBoolean:
		domain = KindBoolean
	case lhs.IsTemporal() && lhs == rhs:
		domain = lhs
	case lhs.IsDuration() && lhs == rhs:
		domain = lhs
	case lhs.IsDuration() && rhs.IsDuration() && (lhs == KindDuration || rhs == KindDuration):
		domain = KindDuration
	default:
		return KindInvalid, typeError(op, lhs, rhs)
	}

	if op != OpEq && op != OpNe && !totallyOrdered(domain) {
		return KindInvalid, typeError(op, lhs, rhs)
	}
	return domain, nil
}

func isStringLike(k Kind) bool {
	return k == KindString || k == KindUntypedAtomic
}
