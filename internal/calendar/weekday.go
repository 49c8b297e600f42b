package calendar

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDay indicates a numeric weekday outside the configured convention.
var ErrInvalidDay = errors.New("calendar: invalid day of week")

// DayOfWeek is the canonical Monday-first weekday. The zero value is invalid.
type DayOfWeek int

const (
	Monday DayOfWeek = iota + 1
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

// Workdays lists the days shown in the weekly grid.
var Workdays = [...]DayOfWeek{Monday, Tuesday, Wednesday, Thursday, Friday}

var (
	germanDays      = [...]string{"Montag", "Dienstag", "Mittwoch", "Donnerstag", "Freitag", "Samstag", "Sonntag"}
	germanDaysShort = [...]string{"Mo", "Di", "Mi", "Do", "Fr", "Sa", "So"}
	englishDays     = [...]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}
)

// FromWeekday converts a time.Weekday (Sunday=0) into the canonical enumeration.
func FromWeekday(w time.Weekday) DayOfWeek {
	if w == time.Sunday {
		return Sunday
	}
	return DayOfWeek(w)
}

// ISODayOfWeek returns the weekday of d (Monday=1 … Sunday=7).
func ISODayOfWeek(d Date) DayOfWeek {
	return d.Weekday()
}

// Valid reports whether d names one of the seven weekdays.
func (d DayOfWeek) Valid() bool {
	return d >= Monday && d <= Sunday
}

// IsWorkday reports whether d falls on Monday through Friday.
func (d DayOfWeek) IsWorkday() bool {
	return d >= Monday && d <= Friday
}

// Index returns the zero-based Monday-first offset of d within its week.
func (d DayOfWeek) Index() int {
	return int(d) - 1
}

func (d DayOfWeek) String() string {
	if !d.Valid() {
		return fmt.Sprintf("DayOfWeek(%d)", int(d))
	}
	return englishDays[d-1]
}

// GermanName returns the German weekday name ("Montag"), or its two-letter abbreviation.
func (d DayOfWeek) GermanName(short bool) string {
	if !d.Valid() {
		return ""
	}
	if short {
		return germanDaysShort[d-1]
	}
	return germanDays[d-1]
}

// ParseDayName resolves a German or English weekday name, full or abbreviated, case-insensitively.
func ParseDayName(name string) (DayOfWeek, error) {
	trimmed := strings.TrimSpace(name)
	for i := range germanDays {
		if strings.EqualFold(trimmed, germanDays[i]) ||
			strings.EqualFold(trimmed, germanDaysShort[i]) ||
			strings.EqualFold(trimmed, englishDays[i]) ||
			strings.EqualFold(trimmed, englishDays[i][:3]) {
			return DayOfWeek(i + 1), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidDay, name)
}

// DayConvention describes how an external system numbers weekdays. It is the
// single place where raw integers are turned into DayOfWeek values.
type DayConvention int

const (
	// DayConventionISO numbers Monday=1 through Sunday=7.
	DayConventionISO DayConvention = iota
	// DayConventionZeroBased numbers Monday=0 through Sunday=6.
	DayConventionZeroBased
)

// ParseDayConvention accepts "iso" (or "1") and "zero" (or "0").
func ParseDayConvention(value string) (DayConvention, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "", "iso", "1", "one":
		return DayConventionISO, nil
	case "zero", "0", "zero-based":
		return DayConventionZeroBased, nil
	default:
		return 0, fmt.Errorf("calendar: unknown day convention %q", value)
	}
}

func (c DayConvention) String() string {
	if c == DayConventionZeroBased {
		return "zero"
	}
	return "iso"
}

func (c DayConvention) offset() int {
	if c == DayConventionZeroBased {
		return 1
	}
	return 0
}

// ToDay converts a raw weekday number under the convention.
func (c DayConvention) ToDay(n int) (DayOfWeek, error) {
	day := DayOfWeek(n + c.offset())
	if !day.Valid() {
		return 0, fmt.Errorf("%w: %d under %s convention", ErrInvalidDay, n, c)
	}
	return day, nil
}

// FromDay converts a canonical weekday into the convention's raw number.
func (c DayConvention) FromDay(d DayOfWeek) (int, error) {
	if !d.Valid() {
		return 0, fmt.Errorf("%w: %d", ErrInvalidDay, int(d))
	}
	return int(d) - c.offset(), nil
}
