// Package timeofday converts between clock-time strings and minutes since midnight
// and provides the small amount of interval arithmetic schedule cells need.
package timeofday

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrFormat is returned for clock strings that are not "HH:MM" or "HH:MM:SS".
var ErrFormat = errors.New("timeofday: malformed clock time")

// MinutesPerDay bounds valid clock values.
const MinutesPerDay = 24 * 60

// Minutes counts minutes since midnight.
type Minutes int

// Parse accepts "HH:MM" or "HH:MM:SS"; seconds are validated and discarded.
func Parse(text string) (Minutes, error) {
	value := strings.TrimSpace(text)
	parts := strings.Split(value, ":")
	if len(parts) != 2 && len(parts) != 3 {
		return 0, fmt.Errorf("%w: %q", ErrFormat, text)
	}

	limits := [...]int{23, 59, 59}
	nums := make([]int, len(parts))
	for i, part := range parts {
		if len(part) != 2 || !isDigits(part) {
			return 0, fmt.Errorf("%w: %q", ErrFormat, text)
		}
		n, err := strconv.Atoi(part)
		if err != nil || n > limits[i] {
			return 0, fmt.Errorf("%w: %q", ErrFormat, text)
		}
		nums[i] = n
	}

	return Minutes(nums[0]*60 + nums[1]), nil
}

// MustParse is Parse for literals known to be valid; it panics otherwise.
func MustParse(text string) Minutes {
	m, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return m
}

// Normalize returns the canonical "HH:MM" form of a clock string.
func Normalize(text string) (string, error) {
	m, err := Parse(text)
	if err != nil {
		return "", err
	}
	return FormatPadded(m), nil
}

// FormatCompact renders "H:MM" without a leading zero on the hour.
func FormatCompact(m Minutes) string {
	return fmt.Sprintf("%d:%02d", int(m)/60, int(m)%60)
}

// FormatPadded renders "HH:MM".
func FormatPadded(m Minutes) string {
	return fmt.Sprintf("%02d:%02d", int(m)/60, int(m)%60)
}

// String renders the padded form.
func (m Minutes) String() string {
	return FormatPadded(m)
}

// Duration returns end − start. ok is false when end lies before start, in which
// case there is no valid duration.
func Duration(start, end Minutes) (d Minutes, ok bool) {
	if end < start {
		return 0, false
	}
	return end - start, true
}

// FormatDuration renders "8h" for whole hours and "7h 45min" otherwise.
func FormatDuration(m Minutes) string {
	hours, minutes := int(m)/60, int(m)%60
	if minutes == 0 {
		return fmt.Sprintf("%dh", hours)
	}
	return fmt.Sprintf("%dh %dmin", hours, minutes)
}

// FormatHours renders a minute total as "H:MM", e.g. 450 → "7:30".
func FormatHours(m Minutes) string {
	return FormatCompact(m)
}

// Overlaps reports whether [s1,e1) and [s2,e2) intersect. Touching intervals do not overlap.
func Overlaps(s1, e1, s2, e2 Minutes) bool {
	return s1 < e2 && s2 < e1
}

// OverlapMinutes returns the length of the intersection of [s1,e1) and [s2,e2).
func OverlapMinutes(s1, e1, s2, e2 Minutes) Minutes {
	lo, hi := max(s1, s2), min(e1, e2)
	if hi <= lo {
		return 0
	}
	return hi - lo
}

// BreakThreshold is the shift length above which a break is deducted.
const BreakThreshold Minutes = 6 * 60

// StandardBreak is deducted from shifts longer than BreakThreshold.
const StandardBreak Minutes = 30

// Shift splits a shift into working and break minutes. Shifts that do not end
// after they start yield zero for both.
func Shift(start, end Minutes) (working, breakTime Minutes) {
	total, ok := Duration(start, end)
	if !ok || total == 0 {
		return 0, 0
	}
	if total > BreakThreshold {
		breakTime = StandardBreak
	}
	return total - breakTime, breakTime
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
