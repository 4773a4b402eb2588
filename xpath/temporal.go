package xpath

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Timezone is an optional UTC offset in minutes.
//
// The zero value has no timezone, which is distinct from every concrete offset
// including UTC.
type Timezone struct {
	Minutes int
	Present bool
}

var (
	NoTimezone = Timezone{}
	UTC        = Timezone{Present: true}
)

const maxTimezoneMinutes = 14 * 60

// Offset returns the timezone with the given offset in minutes.
func Offset(minutes int) Timezone {
	return Timezone{Minutes: minutes, Present: true}
}

// ParseTimezone parses "Z" or an offset of the form ±hh:mm. The empty string yields
// NoTimezone.
func ParseTimezone(s string) (Timezone, error) {
	switch s {
	case "":
		return NoTimezone, nil
	case "Z":
		return UTC, nil
	}
	if len(s) != 6 || (s[0] != '+' && s[0] != '-') || s[3] != ':' ||
		!isDigits(s[1:3]) || !isDigits(s[4:6]) {
		return NoTimezone, newError(CodeInvalidCast, "invalid timezone %q", s)
	}
	hours, err1 := strconv.Atoi(s[1:3])
	minutes, err2 := strconv.Atoi(s[4:6])
	if err1 != nil || err2 != nil || minutes > 59 {
		return NoTimezone, newError(CodeInvalidCast, "invalid timezone %q", s)
	}
	total := hours*60 + minutes
	if total > maxTimezoneMinutes {
		return NoTimezone, newError(CodeInvalidCast, "timezone %q out of range", s)
	}
	if s[0] == '-' {
		total = -total
	}
	return Offset(total), nil
}

func isDigits(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return s != ""
}

// String renders the timezone as it appears in canonical lexical forms: "Z" for a
// zero offset, ±hh:mm otherwise, and nothing when absent.
func (tz Timezone) String() string {
	if !tz.Present {
		return ""
	}
	if tz.Minutes == 0 {
		return "Z"
	}
	sign := '+'
	m := tz.Minutes
	if m < 0 {
		sign = '-'
		m = -m
	}
	return fmt.Sprintf("%c%02d:%02d", sign, m/60, m%60)
}

// temporalValue is implemented by every date, time and gregorian type. template fills
// the components the type lacks from the reference dateTime 1972-12-31T00:00:00, the
// way the XPath comparison functions define starting instants.
type temporalValue interface {
	Value
	template() DateTime
}

type DateTime struct {
	Year       int
	Month      int
	Day        int
	Hour       int
	Minute     int
	Second     int
	Nanosecond int
	Timezone   Timezone
}

func (dt DateTime) Kind() Kind { return KindDateTime }
func (dt DateTime) String() string {
	return formatDate(dt.Year, dt.Month, dt.Day) + "T" +
		formatTime(dt.Hour, dt.Minute, dt.Second, dt.Nanosecond) +
		dt.Timezone.String()
}
func (DateTime) atomic() {}
func (dt DateTime) template() DateTime {
	return dt
}

// instant maps dt onto the UTC time line. Without an own or implicit timezone the
// local fields are read as UTC and zoned reports false.
func (dt DateTime) instant(implicit Timezone) (t time.Time, zoned bool) {
	tz := dt.Timezone
	if !tz.Present {
		tz = implicit
	}
	t = time.Date(dt.Year, time.Month(dt.Month), dt.Day, dt.Hour, dt.Minute, dt.Second, dt.Nanosecond, time.UTC)
	if tz.Present {
		t = t.Add(-time.Duration(tz.Minutes) * time.Minute)
	}
	return t, tz.Present
}

type Date struct {
	Year     int
	Month    int
	Day      int
	Timezone Timezone
}

func (d Date) Kind() Kind { return KindDate }
func (d Date) String() string {
	return formatDate(d.Year, d.Month, d.Day) + d.Timezone.String()
}
func (Date) atomic() {}
func (d Date) template() DateTime {
	return DateTime{Year: d.Year, Month: d.Month, Day: d.Day, Timezone: d.Timezone}
}

type Time struct {
	Hour       int
	Minute     int
	Second     int
	Nanosecond int
	Timezone   Timezone
}

func (t Time) Kind() Kind { return KindTime }
func (t Time) String() string {
	return formatTime(t.Hour, t.Minute, t.Second, t.Nanosecond) + t.Timezone.String()
}
func (Time) atomic() {}
func (t Time) template() DateTime {
	return DateTime{
		Year: 1972, Month: 12, Day: 31,
		Hour: t.Hour, Minute: t.Minute, Second: t.Second, Nanosecond: t.Nanosecond,
		Timezone: t.Timezone,
	}
}

type GYear struct {
	Year     int
	Timezone Timezone
}

func (g GYear) Kind() Kind { return KindGYear }
func (g GYear) String() string {
	return formatYear(g.Year) + g.Timezone.String()
}
func (GYear) atomic() {}
func (g GYear) template() DateTime {
	return DateTime{Year: g.Year, Month: 1, Day: 1, Timezone: g.Timezone}
}

type GYearMonth struct {
	Year     int
	Month    int
	Timezone Timezone
}

func (g GYearMonth) Kind() Kind { return KindGYearMonth }
func (g GYearMonth) String() string {
	return fmt.Sprintf("%s-%02d%s", formatYear(g.Year), g.Month, g.Timezone)
}
func (GYearMonth) atomic() {}
func (g GYearMonth) template() DateTime {
	return DateTime{Year: g.Year, Month: g.Month, Day: 1, Timezone: g.Timezone}
}

type GMonth struct {
	Month    int
	Timezone Timezone
}

func (g GMonth) Kind() Kind { return KindGMonth }
func (g GMonth) String() string {
	return fmt.Sprintf("--%02d%s", g.Month, g.Timezone)
}
func (GMonth) atomic() {}
func (g GMonth) template() DateTime {
	return DateTime{Year: 1972, Month: g.Month, Day: 1, Timezone: g.Timezone}
}

type GMonthDay struct {
	Month    int
	Day      int
	Timezone Timezone
}

func (g GMonthDay) Kind() Kind { return KindGMonthDay }
func (g GMonthDay) String() string {
	return fmt.Sprintf("--%02d-%02d%s", g.Month, g.Day, g.Timezone)
}
func (GMonthDay) atomic() {}
func (g GMonthDay) template() DateTime {
	return DateTime{Year: 1972, Month: g.Month, Day: g.Day, Timezone: g.Timezone}
}

type GDay struct {
	Day      int
	Timezone Timezone
}

func (g GDay) Kind() Kind { return KindGDay }
func (g GDay) String() string {
	return fmt.Sprintf("---%02d%s", g.Day, g.Timezone)
}
func (GDay) atomic() {}
func (g GDay) template() DateTime {
	return DateTime{Year: 1972, Month: 12, Day: g.Day, Timezone: g.Timezone}
}

// compareTemporal orders two temporal values of the same kind by their starting
// instants. determinate is false when a zoned value falls within 14 hours of a zoneless
// one and no implicit timezone is available to decide.
func compareTemporal(a, b temporalValue, implicit Timezone) (cmp int, determinate bool) {
	ta, zonedA := a.template().instant(implicit)
	tb, zonedB := b.template().instant(implicit)
	if zonedA == zonedB {
		return ta.Compare(tb), true
	}
	if zonedA {
		return compareZonedToLocal(ta, tb)
	}
	cmp, determinate = compareZonedToLocal(tb, ta)
	return -cmp, determinate
}

// compareZonedToLocal places a zoneless value anywhere between UTC-14:00 and UTC+14:00.
func compareZonedToLocal(zoned, local time.Time) (int, bool) {
	window := maxTimezoneMinutes * time.Minute
	if zoned.Before(local.Add(-window)) {
		return -1, true
	}
	if zoned.After(local.Add(window)) {
		return 1, true
	}
	return 0, false
}

func formatYear(year int) string {
	if year < 0 {
		return fmt.Sprintf("-%04d", -year)
	}
	return fmt.Sprintf("%04d", year)
}

func formatDate(year, month, day int) string {
	return fmt.Sprintf("%s-%02d-%02d", formatYear(year), month, day)
}

func formatTime(hour, minute, second, nanosecond int) string {
	s := fmt.Sprintf("%02d:%02d:%02d", hour, minute, second)
	if nanosecond > 0 {
		s += "." + strings.TrimRight(fmt.Sprintf("%09d", nanosecond), "0")
	}
	return s
}

const (
	yearPattern     = `(-?(?:[1-9][0-9]{4,}|[0-9]{4}))`
	timePattern     = `([0-9]{2}):([0-9]{2}):([0-9]{2})(\.[0-9]+)?`
	timezonePattern = `(Z|[+-][0-9]{2}:[0-9]{2})?`
)

var (
	dateTimeRegex   = regexp.MustCompile(`^` + yearPattern + `-([0-9]{2})-([0-9]{2})T` + timePattern + timezonePattern + `$`)
	dateRegex       = regexp.MustCompile(`^` + yearPattern + `-([0-9]{2})-([0-9]{2})` + timezonePattern + `$`)
	timeRegex       = regexp.MustCompile(`^` + timePattern + timezonePattern + `$`)
	gYearRegex      = regexp.MustCompile(`^` + yearPattern + timezonePattern + `$`)
	gYearMonthRegex = regexp.MustCompile(`^` + yearPattern + `-([0-9]{2})` + timezonePattern + `$`)
	gMonthRegex     = regexp.MustCompile(`^--([0-9]{2})` + timezonePattern + `$`)
	gMonthDayRegex  = regexp.MustCompile(`^--([0-9]{2})-([0-9]{2})` + timezonePattern + `$`)
	gDayRegex       = regexp.MustCompile(`^---([0-9]{2})` + timezonePattern + `$`)
)

// temporalParser accumulates the first validation failure while fields are read, so
// the Parse functions below can read all groups before checking once.
type temporalParser struct {
	kind    Kind
	lexical string
	err     error
}

func (p *temporalParser) fail(format string, args ...any) {
	if p.err == nil {
		p.err = newError(CodeInvalidCast, "invalid %s %q: %s", p.kind, p.lexical, fmt.Sprintf(format, args...))
	}
}

func (p *temporalParser) int(s string) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		p.fail("%v", err)
	}
	return i
}

// maxYear bounds the years whose instants the time package represents exactly, with
// room left for differences in seconds to fit an int64.
const maxYear = 999_999_999

func (p *temporalParser) year(s string) int {
	y := p.int(s)
	if y > maxYear || y < -maxYear {
		p.fail("year %s out of range", s)
	}
	return y
}

func (p *temporalParser) month(s string) int {
	m := p.int(s)
	if m < 1 || m > 12 {
		p.fail("month %d out of range", m)
	}
	return m
}

func (p *temporalParser) day(s string, year, month int) int {
	d := p.int(s)
	if d < 1 || d > daysIn(year, month) {
		p.fail("day %d out of range", d)
	}
	return d
}

func (p *temporalParser) timezone(s string) Timezone {
	tz, err := ParseTimezone(s)
	if err != nil {
		p.fail("%v", err)
	}
	return tz
}

// clock reads hour, minute, second and fraction groups. end24 reports the lexical form
// 24:00:00, which denotes midnight at the end of the day.
func (p *temporalParser) clock(hour, minute, second, fraction string) (h, m, s, ns int, end24 bool) {
	h, m, s = p.int(hour), p.int(minute), p.int(second)
	if fraction != "" {
		digits := fraction[1:]
		if len(digits) > 9 {
			digits = digits[:9]
		}
		ns = p.int(digits + strings.Repeat("0", 9-len(digits)))
	}
	if h == 24 && m == 0 && s == 0 && ns == 0 {
		return 0, 0, 0, 0, true
	}
	if h > 23 || m > 59 || s > 59 {
		p.fail("time %s:%s:%s out of range", hour, minute, second)
	}
	return h, m, s, ns, false
}

func (p *temporalParser) match(re *regexp.Regexp) []string {
	groups := re.FindStringSubmatch(p.lexical)
	if groups == nil {
		p.fail("does not match the lexical space")
	}
	return groups
}

func newTemporalParser(kind Kind, s string) *temporalParser {
	return &temporalParser{kind: kind, lexical: strings.TrimSpace(s)}
}

// daysIn returns the number of days in the month; month 2 of a year divisible by 4
// (and not by 100 unless by 400) has 29.
func daysIn(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func ParseDateTime(s string) (DateTime, error) {
	p := newTemporalParser(KindDateTime, s)
	g := p.match(dateTimeRegex)
	if p.err != nil {
		return DateTime{}, p.err
	}
	year := p.year(g[1])
	month := p.month(g[2])
	day := p.day(g[3], year, month)
	h, m, sec, ns, end24 := p.clock(g[4], g[5], g[6], g[7])
	tz := p.timezone(g[8])
	if p.err != nil {
		return DateTime{}, p.err
	}
	if end24 {
		next := time.Date(year, time.Month(month), day+1, 0, 0, 0, 0, time.UTC)
		year, month, day = next.Year(), int(next.Month()), next.Day()
	}
	return DateTime{
		Year: year, Month: month, Day: day,
		Hour: h, Minute: m, Second: sec, Nanosecond: ns,
		Timezone: tz,
	}, nil
}

func ParseDate(s string) (Date, error) {
	p := newTemporalParser(KindDate, s)
	g := p.match(dateRegex)
	if p.err != nil {
		return Date{}, p.err
	}
	year := p.year(g[1])
	month := p.month(g[2])
	day := p.day(g[3], year, month)
	tz := p.timezone(g[4])
	if p.err != nil {
		return Date{}, p.err
	}
	return Date{Year: year, Month: month, Day: day, Timezone: tz}, nil
}

func ParseTime(s string) (Time, error) {
	p := newTemporalParser(KindTime, s)
	g := p.match(timeRegex)
	if p.err != nil {
		return Time{}, p.err
	}
	h, m, sec, ns, _ := p.clock(g[1], g[2], g[3], g[4])
	tz := p.timezone(g[5])
	if p.err != nil {
		return Time{}, p.err
	}
	return Time{Hour: h, Minute: m, Second: sec, Nanosecond: ns, Timezone: tz}, nil
}

func ParseGYear(s string) (GYear, error) {
	p := newTemporalParser(KindGYear, s)
	g := p.match(gYearRegex)
	if p.err != nil {
		return GYear{}, p.err
	}
	year := p.year(g[1])
	tz := p.timezone(g[2])
	if p.err != nil {
		return GYear{}, p.err
	}
	return GYear{Year: year, Timezone: tz}, nil
}

func ParseGYearMonth(s string) (GYearMonth, error) {
	p := newTemporalParser(KindGYearMonth, s)
	g := p.match(gYearMonthRegex)
	if p.err != nil {
		return GYearMonth{}, p.err
	}
	year := p.year(g[1])
	month := p.month(g[2])
	tz := p.timezone(g[3])
	if p.err != nil {
		return GYearMonth{}, p.err
	}
	return GYearMonth{Year: year, Month: month, Timezone: tz}, nil
}

func ParseGMonth(s string) (GMonth, error) {
	p := newTemporalParser(KindGMonth, s)
	g := p.match(gMonthRegex)
	if p.err != nil {
		return GMonth{}, p.err
	}
	month := p.month(g[1])
	tz := p.timezone(g[2])
	if p.err != nil {
		return GMonth{}, p.err
	}
	return GMonth{Month: month, Timezone: tz}, nil
}

func ParseGMonthDay(s string) (GMonthDay, error) {
	p := newTemporalParser(KindGMonthDay, s)
	g := p.match(gMonthDayRegex)
	if p.err != nil {
		return GMonthDay{}, p.err
	}
	month := p.month(g[1])
	// --02-29 is valid: the reference year 1972 is a leap year.
	day := p.day(g[2], 1972, month)
	tz := p.timezone(g[3])
	if p.err != nil {
		return GMonthDay{}, p.err
	}
	return GMonthDay{Month: month, Day: day, Timezone: tz}, nil
}

func ParseGDay(s string) (GDay, error) {
	p := newTemporalParser(KindGDay, s)
	g := p.match(gDayRegex)
	if p.err != nil {
		return GDay{}, p.err
	}
	day := p.day(g[1], 1972, 12)
	tz := p.timezone(g[2])
	if p.err != nil {
		return GDay{}, p.err
	}
	return GDay{Day: day, Timezone: tz}, nil
}
