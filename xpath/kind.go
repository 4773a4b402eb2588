package xpath

//go:generate go run ../internal/cmd/generate -out kind_string.go

// Kind identifies the dynamic type of an atomic value.
type Kind uint8

const (
	KindInvalid Kind = iota
	KindBoolean
	KindString
	KindUntypedAtomic
	KindInteger
	KindDecimal
	KindFloat
	KindDouble
	KindDuration
	KindYearMonthDuration
	KindDayTimeDuration
	KindDateTime
	KindDate
	KindTime
	KindGYear
	KindGYearMonth
	KindGMonth
	KindGMonthDay
	KindGDay
)

// IsNumeric reports whether k is one of integer, decimal, float or double.
func (k Kind) IsNumeric() bool {
	return numericRank(k) > 0
}

// IsTemporal reports whether k is a date, time or gregorian kind.
func (k Kind) IsTemporal() bool {
	return k >= KindDateTime && k <= KindGDay
}

// IsDuration reports whether k is xs:duration or one of its two subtypes.
func (k Kind) IsDuration() bool {
	return k == KindDuration || k == KindYearMonthDuration || k == KindDayTimeDuration
}

// numericRank orders the numeric promotion lattice. Non-numeric kinds rank 0.
func numericRank(k Kind) int {
	switch k {
	case KindInteger:
		return 1
	case KindDecimal:
		return 2
	case KindFloat:
		return 3
	case KindDouble:
		return 4
	default:
		return 0
	}
}

func widerNumeric(a, b Kind) Kind {
	if numericRank(a) >= numericRank(b) {
		return a
	}
	return b
}

// totallyOrdered reports whether lt/le/gt/ge are defined between two values of kind k.
func totallyOrdered(k Kind) bool {
	switch k {
	case KindBoolean, KindString,
		KindInteger, KindDecimal, KindFloat, KindDouble,
		KindYearMonthDuration, KindDayTimeDuration,
		KindDateTime, KindDate, KindTime:
		return true
	default:
		return false
	}
}
