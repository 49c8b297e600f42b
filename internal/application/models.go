package application

import (
	"strings"
	"time"

	"github.com/example/kita-dienstplan/internal/calendar"
	"github.com/example/kita-dienstplan/internal/roster"
)

// StaffInput captures caller provided staff fields.
type StaffInput struct {
	FirstName string
	LastName  string
	Role      string
	Trainee   bool
}

// Staff represents a member of the Kita team.
type Staff struct {
	ID        int64
	FirstName string
	LastName  string
	Role      string
	Trainee   bool
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DisplayName returns "First Last".
func (s Staff) DisplayName() string {
	return strings.TrimSpace(s.FirstName + " " + s.LastName)
}

// WeeklyPeriod is the record entries of one ISO week attach to.
type WeeklyPeriod struct {
	ID        string
	Week      calendar.WeekID
	StartDate calendar.Date
	EndDate   calendar.Date
	CreatedAt time.Time
}

// EntryForm holds the values of the entry dialog. StaffID 0 and Day 0 mean
// "not chosen"; times are "HH:MM" strings as typed.
type EntryForm struct {
	StaffID   int64
	Day       calendar.DayOfWeek
	StartTime string
	EndTime   string
	Status    string
	Notes     string
}

// EntryPatch limits an update to the fields that may change after creation.
// Nil fields keep their stored value.
type EntryPatch struct {
	StartTime *string
	EndTime   *string
	Status    *string
	Notes     *string
}

// CreateEntryParams wraps the data required to create a schedule entry.
type CreateEntryParams struct {
	Week calendar.WeekID
	Form EntryForm
}

// UpdateEntryParams wraps the data required to update a schedule entry.
type UpdateEntryParams struct {
	EntryID string
	Patch   EntryPatch
}

// WeekView is everything needed to render one week of the roster.
type WeekView struct {
	Week     calendar.WeekID
	Dates    calendar.Range
	Days     [7]calendar.Date
	Previous calendar.WeekID
	Next     calendar.WeekID
	// Period is nil when nothing has been planned for the week yet.
	Period *WeeklyPeriod
	Rows   []roster.StaffWeekRow
	Totals [len(calendar.Workdays)]roster.DayTotal
}
