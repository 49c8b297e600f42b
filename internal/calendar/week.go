// Package calendar implements ISO-8601 week arithmetic over plain calendar dates.
//
// Every function is pure: results depend only on the arguments, there is no
// ambient clock and no shared state, so callers may use the package from any
// number of goroutines. Day arithmetic is carried out on UTC midnights so that
// daylight-saving transitions never shift a result by a day.
package calendar

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidWeek indicates a week number that does not exist in the given ISO year.
var ErrInvalidWeek = errors.New("calendar: invalid week")

// WeekID identifies an ISO week by its week-owning year and week number.
type WeekID struct {
	Year int
	Week int
}

// Range holds the Monday and Sunday of a week as YYYY-MM-DD strings.
type Range struct {
	Start string
	End   string
}

// WeekNumber returns the ISO-8601 week number of d.
//
// The date is moved to the Thursday of its week; the week number is then the
// count of whole weeks between January 1st of that Thursday's year and the
// Thursday, plus one.
func WeekNumber(d Date) int {
	thursday := thursdayOf(d)
	jan1 := time.Date(thursday.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
	days := int(thursday.Sub(jan1).Hours() / 24)
	return 1 + days/7
}

// WeekYear returns the ISO-8601 week-owning year of d, which differs from the
// calendar year for some dates around New Year.
func WeekYear(d Date) int {
	return thursdayOf(d).Year()
}

// WeekOf returns the WeekID containing d.
func WeekOf(d Date) WeekID {
	return WeekID{Year: WeekYear(d), Week: WeekNumber(d)}
}

func thursdayOf(d Date) time.Time {
	t := d.utc()
	isoDay := int(FromWeekday(t.Weekday()))
	return t.AddDate(0, 0, int(Thursday)-isoDay)
}

// WeeksInYear returns 52 or 53, the number of ISO weeks in year.
func WeeksInYear(year int) int {
	// December 28th always lies in the last ISO week of its year.
	return WeekNumber(Date{Year: year, Month: time.December, Day: 28})
}

// MondayOfWeek returns the Monday starting ISO week `week` of `year`.
//
// It starts from January 1st plus 7×(week−1) days and snaps to the Monday of
// the ISO week containing that day: Sunday through Thursday snap back into the
// same week (Sunday forward to the next Monday), Friday and Saturday belong to
// the preceding year's last week and therefore move forward.
func MondayOfWeek(year, week int) Date {
	simple := time.Date(year, time.January, 1+(week-1)*7, 0, 0, 0, 0, time.UTC)
	dow := int(simple.Weekday())
	if dow <= int(time.Thursday) {
		return fromTime(simple.AddDate(0, 0, 1-dow))
	}
	return fromTime(simple.AddDate(0, 0, 8-dow))
}

// WeekDays returns Monday through Sunday of the week.
func WeekDays(year, week int) [7]Date {
	monday := MondayOfWeek(year, week)
	var days [7]Date
	for i := range days {
		days[i] = monday.AddDays(i)
	}
	return days
}

// WeekDates returns the first and last day of the week as ISO strings.
func WeekDates(year, week int) Range {
	monday := MondayOfWeek(year, week)
	return Range{
		Start: FormatISO(monday),
		End:   FormatISO(monday.AddDays(6)),
	}
}

// NextWeek returns the week following (year, week), rolling over ISO year boundaries.
func NextWeek(year, week int) WeekID {
	return WeekOf(MondayOfWeek(year, week).AddDays(7))
}

// PreviousWeek returns the week preceding (year, week), rolling over ISO year boundaries.
func PreviousWeek(year, week int) WeekID {
	return WeekOf(MondayOfWeek(year, week).AddDays(-7))
}

// DateFromWeekAndDay returns the date of day within the ISO week.
func DateFromWeekAndDay(year, week int, day DayOfWeek) Date {
	return MondayOfWeek(year, week).AddDays(day.Index())
}

// CurrentWeek returns the week containing today. The caller supplies today so
// that results stay reproducible.
func CurrentWeek(today Date) WeekID {
	return WeekOf(today)
}

// Validate reports whether the week exists in its ISO year.
func (w WeekID) Validate() error {
	if w.Year < 1 || w.Year > 9999 {
		return fmt.Errorf("%w: year %d out of range", ErrInvalidWeek, w.Year)
	}
	if w.Week < 1 || w.Week > WeeksInYear(w.Year) {
		return fmt.Errorf("%w: %d has no week %d", ErrInvalidWeek, w.Year, w.Week)
	}
	return nil
}

// Monday returns the first day of the week.
func (w WeekID) Monday() Date { return MondayOfWeek(w.Year, w.Week) }

// Days returns Monday through Sunday of the week.
func (w WeekID) Days() [7]Date { return WeekDays(w.Year, w.Week) }

// Dates returns the Monday/Sunday range of the week.
func (w WeekID) Dates() Range { return WeekDates(w.Year, w.Week) }

// Next returns the following week.
func (w WeekID) Next() WeekID { return NextWeek(w.Year, w.Week) }

// Previous returns the preceding week.
func (w WeekID) Previous() WeekID { return PreviousWeek(w.Year, w.Week) }

// Date returns the date of day within the week.
func (w WeekID) Date(day DayOfWeek) Date { return DateFromWeekAndDay(w.Year, w.Week, day) }

// String renders the week as "2024-W03".
func (w WeekID) String() string {
	return fmt.Sprintf("%04d-W%02d", w.Year, w.Week)
}

// ParseWeekID parses the "YYYY-Www" form produced by String.
func ParseWeekID(value string) (WeekID, error) {
	year, week, ok := strings.Cut(strings.ToUpper(strings.TrimSpace(value)), "-W")
	if !ok {
		return WeekID{}, fmt.Errorf("%w: %q: expected YYYY-Www", ErrInvalidWeek, value)
	}
	y, err := strconv.Atoi(year)
	if err != nil {
		return WeekID{}, fmt.Errorf("%w: %q: %v", ErrInvalidWeek, value, err)
	}
	n, err := strconv.Atoi(week)
	if err != nil {
		return WeekID{}, fmt.Errorf("%w: %q: %v", ErrInvalidWeek, value, err)
	}
	id := WeekID{Year: y, Week: n}
	if err := id.Validate(); err != nil {
		return WeekID{}, err
	}
	return id, nil
}
