package roster

import (
	"errors"
	"fmt"
	"strings"

	"github.com/example/kita-dienstplan/internal/calendar"
	"github.com/example/kita-dienstplan/internal/timeofday"
)

// ErrInvalidStatus indicates an unknown status code.
var ErrInvalidStatus = errors.New("roster: invalid status")

// Status governs how a schedule cell is rendered.
type Status string

const (
	StatusNormal   Status = "NORMAL"
	StatusFree     Status = "FREI"
	StatusVacation Status = "URLAUB"
	StatusSick     Status = "KRANK"
	StatusTraining Status = "FORTBILDUNG"
)

// Statuses lists every known status in display order.
var Statuses = [...]Status{StatusNormal, StatusFree, StatusVacation, StatusSick, StatusTraining}

var statusLabels = map[Status]string{
	StatusNormal:   "Normal",
	StatusFree:     "Frei",
	StatusVacation: "Urlaub",
	StatusSick:     "Krank",
	StatusTraining: "Fortbildung",
}

// ParseStatus resolves a status code case-insensitively ("frei" → FREI).
func ParseStatus(value string) (Status, error) {
	s := Status(strings.ToUpper(strings.TrimSpace(value)))
	if _, ok := statusLabels[s]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidStatus, value)
	}
	return s, nil
}

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// Label returns the German display label.
func (s Status) Label() string {
	return statusLabels[s]
}

// Class returns the lower-cased status token used for styling.
func (s Status) Class() string {
	return strings.ToLower(string(s))
}

// Entry is one staff member's schedule for one day. It is read-only input to
// the grid builder; the data store owns it.
type Entry struct {
	ID        string
	PeriodID  string
	StaffID   int64
	StaffName string
	StaffRole string
	Trainee   bool
	Day       calendar.DayOfWeek
	WorkDate  calendar.Date
	Start     timeofday.Minutes
	End       timeofday.Minutes
	Status    Status
	Notes     string
}

// HasTimeRange reports whether the entry is a NORMAL shift that ends after it starts.
func (e Entry) HasTimeRange() bool {
	return e.Status == StatusNormal && e.End > e.Start
}

// WorkingMinutes returns the working and break minutes of a NORMAL shift; other
// statuses count as zero.
func (e Entry) WorkingMinutes() (working, breakTime timeofday.Minutes) {
	if e.Status != StatusNormal {
		return 0, 0
	}
	return timeofday.Shift(e.Start, e.End)
}
