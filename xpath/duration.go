package xpath

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/cockroachdb/apd/v3"
)

// Duration is an xs:duration: a signed month count and a signed second count. Both
// components carry the same sign.
type Duration struct {
	Months  int64
	Seconds *apd.Decimal
}

func (d Duration) Kind() Kind { return KindDuration }
func (d Duration) String() string {
	return formatDuration(d.Months, d.Seconds)
}
func (Duration) atomic() {}

type YearMonthDuration struct {
	Months int64
}

func (d YearMonthDuration) Kind() Kind { return KindYearMonthDuration }
func (d YearMonthDuration) String() string {
	if d.Months == 0 {
		return "P0M"
	}
	return formatDuration(d.Months, nil)
}
func (YearMonthDuration) atomic() {}

type DayTimeDuration struct {
	Seconds *apd.Decimal
}

func (d DayTimeDuration) Kind() Kind { return KindDayTimeDuration }
func (d DayTimeDuration) String() string {
	return formatDuration(0, d.Seconds)
}
func (DayTimeDuration) atomic() {}

// durationParts returns the (months, seconds) pair of any duration kind.
func durationParts(v Value) (months int64, seconds *apd.Decimal, ok bool) {
	switch d := v.(type) {
	case Duration:
		return d.Months, orZero(d.Seconds), true
	case YearMonthDuration:
		return d.Months, apd.New(0, 0), true
	case DayTimeDuration:
		return 0, orZero(d.Seconds), true
	}
	return 0, nil, false
}

func orZero(d *apd.Decimal) *apd.Decimal {
	if d == nil {
		return apd.New(0, 0)
	}
	return d
}

var (
	secondsPerDay    = apd.New(86400, 0)
	secondsPerHour   = apd.New(3600, 0)
	secondsPerMinute = apd.New(60, 0)
)

func formatDuration(months int64, seconds *apd.Decimal) string {
	seconds = orZero(seconds)
	if months == 0 && seconds.IsZero() {
		return "PT0S"
	}

	var b strings.Builder
	if months < 0 || seconds.Negative {
		b.WriteByte('-')
	}
	b.WriteByte('P')

	if months < 0 {
		months = -months
	}
	if y := months / 12; y > 0 {
		b.WriteString(strconv.FormatInt(y, 10))
		b.WriteByte('Y')
	}
	if m := months % 12; m > 0 {
		b.WriteString(strconv.FormatInt(m, 10))
		b.WriteByte('M')
	}

	if seconds.IsZero() {
		return b.String()
	}

	var rest, days, hours, minutes apd.Decimal
	rest.Abs(seconds)
	splitUnit(&days, &rest, secondsPerDay)
	splitUnit(&hours, &rest, secondsPerHour)
	splitUnit(&minutes, &rest, secondsPerMinute)

	if !days.IsZero() {
		b.WriteString(days.Text('f'))
		b.WriteByte('D')
	}
	if hours.IsZero() && minutes.IsZero() && rest.IsZero() {
		return b.String()
	}
	b.WriteByte('T')
	if !hours.IsZero() {
		b.WriteString(hours.Text('f'))
		b.WriteByte('H')
	}
	if !minutes.IsZero() {
		b.WriteString(minutes.Text('f'))
		b.WriteByte('M')
	}
	if !rest.IsZero() {
		b.WriteString(canonicalDecimal(&rest))
		b.WriteByte('S')
	}
	return b.String()
}

// splitUnit moves the whole number of units contained in rest into whole.
func splitUnit(whole, rest, unit *apd.Decimal) {
	if _, err := integralContextFor(rest, unit).QuoInteger(whole, rest, unit); err != nil {
		whole.SetInt64(0)
		return
	}
	var consumed apd.Decimal
	_, _ = exactContext.Mul(&consumed, whole, unit)
	_, _ = exactContext.Sub(rest, rest, &consumed)
}

var durationRegex = regexp.MustCompile(
	`^(-)?P(?:([0-9]+)Y)?(?:([0-9]+)M)?(?:([0-9]+)D)?` +
		`(T(?:([0-9]+)H)?(?:([0-9]+)M)?(?:([0-9]+(?:\.[0-9]+)?)S)?)?$`,
)

type durationLexical struct {
	negative                bool
	years, months, days     string
	hasTime                 bool
	hours, minutes, seconds string
}

func parseDurationLexical(kind Kind, s string) (durationLexical, error) {
	s = strings.TrimSpace(s)
	g := durationRegex.FindStringSubmatch(s)
	if g == nil {
		return durationLexical{}, newError(CodeInvalidCast, "invalid %s %q", kind, s)
	}
	l := durationLexical{
		negative: g[1] == "-",
		years:    g[2],
		months:   g[3],
		days:     g[4],
		hasTime:  g[5] != "",
		hours:    g[6],
		minutes:  g[7],
		seconds:  g[8],
	}
	noDate := l.years == "" && l.months == "" && l.days == ""
	noTime := l.hours == "" && l.minutes == "" && l.seconds == ""
	if (noDate && noTime) || (l.hasTime && noTime) {
		return durationLexical{}, newError(CodeInvalidCast, "invalid %s %q: no components", kind, s)
	}
	return l, nil
}

func (l durationLexical) totalMonths() (int64, error) {
	var years, months int64
	var err error
	if l.years != "" {
		if years, err = strconv.ParseInt(l.years, 10, 64); err != nil {
			return 0, newError(CodeDurationOverflow, "years %s out of range", l.years)
		}
	}
	if l.months != "" {
		if months, err = strconv.ParseInt(l.months, 10, 64); err != nil {
			return 0, newError(CodeDurationOverflow, "months %s out of range", l.months)
		}
	}
	total := years*12 + months
	if years > (1<<62)/12 || total < 0 {
		return 0, newError(CodeDurationOverflow, "duration of %s years out of range", l.years)
	}
	if l.negative {
		total = -total
	}
	return total, nil
}

func (l durationLexical) totalSeconds() (*apd.Decimal, error) {
	total := apd.New(0, 0)
	add := func(component string, unit *apd.Decimal) error {
		if component == "" {
			return nil
		}
		v, _, err := apd.NewFromString(component)
		if err != nil {
			return newError(CodeInvalidCast, "invalid duration component %q", component)
		}
		if _, err := exactContext.Mul(v, v, unit); err != nil {
			return newError(CodeDurationOverflow, "%v", err)
		}
		if _, err := exactContext.Add(total, total, v); err != nil {
			return newError(CodeDurationOverflow, "%v", err)
		}
		return nil
	}
	if err := add(l.days, secondsPerDay); err != nil {
		return nil, err
	}
	if err := add(l.hours, secondsPerHour); err != nil {
		return nil, err
	}
	if err := add(l.minutes, secondsPerMinute); err != nil {
		return nil, err
	}
	if err := add(l.seconds, apd.New(1, 0)); err != nil {
		return nil, err
	}
	if l.negative {
		total.Neg(total)
	}
	return normalizeZero(total), nil
}

func ParseDuration(s string) (Duration, error) {
	l, err := parseDurationLexical(KindDuration, s)
	if err != nil {
		return Duration{}, err
	}
	months, err := l.totalMonths()
	if err != nil {
		return Duration{}, err
	}
	seconds, err := l.totalSeconds()
	if err != nil {
		return Duration{}, err
	}
	return Duration{Months: months, Seconds: seconds}, nil
}

func ParseYearMonthDuration(s string) (YearMonthDuration, error) {
	l, err := parseDurationLexical(KindYearMonthDuration, s)
	if err != nil {
		return YearMonthDuration{}, err
	}
	if l.days != "" || l.hasTime {
		return YearMonthDuration{}, newError(CodeInvalidCast, "invalid %s %q: day or time component", KindYearMonthDuration, s)
	}
	months, err := l.totalMonths()
	if err != nil {
		return YearMonthDuration{}, err
	}
	return YearMonthDuration{Months: months}, nil
}

func ParseDayTimeDuration(s string) (DayTimeDuration, error) {
	l, err := parseDurationLexical(KindDayTimeDuration, s)
	if err != nil {
		return DayTimeDuration{}, err
	}
	if l.years != "" || l.months != "" {
		return DayTimeDuration{}, newError(CodeInvalidCast, "invalid %s %q: year or month component", KindDayTimeDuration, s)
	}
	seconds, err := l.totalSeconds()
	if err != nil {
		return DayTimeDuration{}, err
	}
	return DayTimeDuration{Seconds: seconds}, nil
}
