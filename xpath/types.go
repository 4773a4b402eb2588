// Package xpath implements the XPath 3.1 operators on atomic values: arithmetic with
// numeric type promotion, value comparison, and string concatenation, together with the
// casts and the small expression language needed to exercise them.
package xpath

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// Value is an atomic value.
//
// The set of implementations is closed: Boolean, String, UntypedAtomic, Integer,
// Decimal, Float, Double, the three duration types and the eight temporal types.
// String returns the canonical lexical representation.
type Value interface {
	Kind() Kind
	fmt.Stringer
	atomic()
}

type Boolean bool

func (b Boolean) Kind() Kind { return KindBoolean }
func (b Boolean) String() string {
	return strconv.FormatBool(bool(b))
}
func (Boolean) atomic() {}

type String string

func (s String) Kind() Kind { return KindString }
func (s String) String() string { return string(s) }
func (String) atomic() {}

// UntypedAtomic is the type of atomized untyped data. It is promoted to xs:double in
// arithmetic and compared as xs:string.
type UntypedAtomic string

func (u UntypedAtomic) Kind() Kind { return KindUntypedAtomic }
func (u UntypedAtomic) String() string { return string(u) }
func (UntypedAtomic) atomic() {}

// Integer is an arbitrary-precision xs:integer. Value always has a zero exponent.
type Integer struct {
	Value *apd.Decimal
}

// NewInteger returns the Integer with value i.
func NewInteger(i int64) Integer {
	return Integer{Value: apd.New(i, 0)}
}

func (i Integer) Kind() Kind { return KindInteger }
func (i Integer) String() string {
	return canonicalDecimal(i.Value)
}
func (Integer) atomic() {}

// Decimal is an arbitrary-precision xs:decimal.
type Decimal struct {
	Value *apd.Decimal
}

func (d Decimal) Kind() Kind { return KindDecimal }
func (d Decimal) String() string {
	return canonicalDecimal(d.Value)
}
func (Decimal) atomic() {}

// Float is an IEEE-754 single precision xs:float.
type Float float32

func (f Float) Kind() Kind { return KindFloat }
func (f Float) String() string {
	return formatFloat(float64(f), 32)
}
func (Float) atomic() {}

// Double is an IEEE-754 double precision xs:double.
type Double float64

func (d Double) Kind() Kind { return KindDouble }
func (d Double) String() string {
	return formatFloat(float64(d), 64)
}
func (Double) atomic() {}

// canonicalDecimal renders d without exponent and without trailing fractional zeros.
func canonicalDecimal(d *apd.Decimal) string {
	if d == nil || d.IsZero() {
		return "0"
	}
	var reduced apd.Decimal
	reduced.Reduce(d)
	return reduced.Text('f')
}

// formatFloat renders a float or double the way casting to xs:string does: plain
// notation between 1e-6 and 1e6, otherwise the shortest round-tripping mantissa with
// at least one fractional digit and an exponent.
func formatFloat(f float64, bitSize int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "INF"
	case math.IsInf(f, -1):
		return "-INF"
	case f == 0:
		if math.Signbit(f) {
			return "-0"
		}
		return "0"
	}

	abs := math.Abs(f)
	if abs >= 1e-6 && abs < 1e6 {
		return strconv.FormatFloat(f, 'f', -1, bitSize)
	}

	s := strconv.FormatFloat(f, 'E', -1, bitSize)
	mantissa, exponent, _ := strings.Cut(s, "E")
	if !strings.Contains(mantissa, ".") {
		mantissa += ".0"
	}
	exp, err := strconv.Atoi(exponent)
	if err != nil {
		return s
	}
	return mantissa + "E" + strconv.Itoa(exp)
}

// normalizeZero clears the sign of a zero decimal; xs:decimal has no negative zero.
func normalizeZero(d *apd.Decimal) *apd.Decimal {
	if d.IsZero() && d.Negative {
		d.Negative = false
	}
	return d
}
