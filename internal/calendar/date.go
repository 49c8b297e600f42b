package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrFormat is returned when a date string is not a well formed YYYY-MM-DD value.
var ErrFormat = errors.New("calendar: malformed date")

// Date is a plain calendar day without a time-of-day component.
type Date struct {
	Year  int
	Month time.Month
	Day   int
}

// NewDate constructs a Date, normalising overflowing components the same way time.Date does.
func NewDate(year int, month time.Month, day int) Date {
	return fromTime(time.Date(year, month, day, 0, 0, 0, 0, time.UTC))
}

// Today returns the calendar day of now as observed in loc. If loc is nil, UTC is used.
func Today(now time.Time, loc *time.Location) Date {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := now.In(loc).Date()
	return Date{Year: y, Month: m, Day: d}
}

func fromTime(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Year: y, Month: m, Day: d}
}

// utc anchors the date at midnight UTC so day arithmetic never crosses a DST transition.
func (d Date) utc() time.Time {
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC)
}

// In returns midnight of the date in loc.
func (d Date) In(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, loc)
}

// IsZero reports whether d is the zero Date.
func (d Date) IsZero() bool {
	return d == Date{}
}

// AddDays returns the date n days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	return fromTime(d.utc().AddDate(0, 0, n))
}

// Weekday returns the ISO day of week of d.
func (d Date) Weekday() DayOfWeek {
	return FromWeekday(d.utc().Weekday())
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or after other.
func (d Date) Compare(other Date) int {
	return d.utc().Compare(other.utc())
}

// Before reports whether d is strictly before other.
func (d Date) Before(other Date) bool { return d.Compare(other) < 0 }

// After reports whether d is strictly after other.
func (d Date) After(other Date) bool { return d.Compare(other) > 0 }

// String formats the date as YYYY-MM-DD.
func (d Date) String() string {
	return FormatISO(d)
}

// GermanFormat renders the date as DD.MM.YYYY.
func (d Date) GermanFormat() string {
	return fmt.Sprintf("%02d.%02d.%04d", d.Day, int(d.Month), d.Year)
}

// MarshalText implements encoding.TextMarshaler.
func (d Date) MarshalText() ([]byte, error) {
	return []byte(FormatISO(d)), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Date) UnmarshalText(text []byte) error {
	parsed, err := ParseISO(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// FormatISO renders d as YYYY-MM-DD.
func FormatISO(d Date) string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, int(d.Month), d.Day)
}

// ParseISO parses a YYYY-MM-DD string. The value must consist of exactly three
// dash separated numeric segments that denote an existing calendar day.
func ParseISO(value string) (Date, error) {
	parts := strings.Split(strings.TrimSpace(value), "-")
	if len(parts) != 3 {
		return Date{}, fmt.Errorf("%w: %q: expected YYYY-MM-DD", ErrFormat, value)
	}

	nums := make([]int, 3)
	for i, part := range parts {
		if part == "" || !allDigits(part) {
			return Date{}, fmt.Errorf("%w: %q: segment %d is not numeric", ErrFormat, value, i+1)
		}
		n, err := strconv.Atoi(part)
		if err != nil {
			return Date{}, fmt.Errorf("%w: %q: %v", ErrFormat, value, err)
		}
		nums[i] = n
	}

	year, month, day := nums[0], nums[1], nums[2]
	if year < 1 || year > 9999 {
		return Date{}, fmt.Errorf("%w: %q: year out of range", ErrFormat, value)
	}
	if month < 1 || month > 12 {
		return Date{}, fmt.Errorf("%w: %q: month out of range", ErrFormat, value)
	}
	if day < 1 || day > daysIn(time.Month(month), year) {
		return Date{}, fmt.Errorf("%w: %q: day out of range", ErrFormat, value)
	}

	return Date{Year: year, Month: time.Month(month), Day: day}, nil
}

func daysIn(month time.Month, year int) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func allDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

var (
	germanMonths      = [...]string{"Januar", "Februar", "März", "April", "Mai", "Juni", "Juli", "August", "September", "Oktober", "November", "Dezember"}
	germanMonthsShort = [...]string{"Jan", "Feb", "Mär", "Apr", "Mai", "Jun", "Jul", "Aug", "Sep", "Okt", "Nov", "Dez"}
)

// GermanMonthName returns the German name of month, abbreviated when short is set.
func GermanMonthName(month time.Month, short bool) string {
	if month < time.January || month > time.December {
		return ""
	}
	if short {
		return germanMonthsShort[month-1]
	}
	return germanMonths[month-1]
}
