package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/example/kita-dienstplan/internal/application"
	"github.com/example/kita-dienstplan/internal/calendar"
	"github.com/example/kita-dienstplan/internal/persistence"
	"github.com/example/kita-dienstplan/internal/roster"
	"github.com/example/kita-dienstplan/internal/timeofday"
)

var (
	staffCounter uint64
	entryCounter uint64
)

// Monday of 2024-W03, mid-morning.
var referenceTime = time.Date(2024, time.January, 15, 9, 30, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ReferenceWeek is the ISO week containing ReferenceTime.
func ReferenceWeek() calendar.WeekID {
	return calendar.WeekID{Year: 2024, Week: 3}
}

// ----------------------------- Staff fixtures -----------------------------

// StaffFixture is a deterministic staff member.
type StaffFixture struct {
	ID        int64
	FirstName string
	LastName  string
	Role      string
	Trainee   bool
	Active    bool
	CreatedAt time.Time
}

// StaffOption configures the generated staff fixture.
type StaffOption func(*StaffFixture)

// NewStaffFixture returns a staff fixture with a unique name.
func NewStaffFixture(opts ...StaffOption) StaffFixture {
	idx := atomic.AddUint64(&staffCounter, 1)
	fixture := StaffFixture{
		ID:        int64(idx),
		FirstName: fmt.Sprintf("Erzieherin%03d", idx),
		LastName:  "Muster",
		Role:      "Erzieher/in",
		Active:    true,
		CreatedAt: referenceTime.Add(time.Duration(idx) * time.Minute),
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithStaffID overrides the generated id.
func WithStaffID(id int64) StaffOption {
	return func(f *StaffFixture) { f.ID = id }
}

// WithStaffName sets first and last name.
func WithStaffName(first, last string) StaffOption {
	return func(f *StaffFixture) {
		f.FirstName = first
		f.LastName = last
	}
}

// WithStaffRole overrides the role.
func WithStaffRole(role string) StaffOption {
	return func(f *StaffFixture) { f.Role = role }
}

// AsTrainee marks the staff member as a trainee.
func AsTrainee() StaffOption {
	return func(f *StaffFixture) { f.Trainee = true }
}

// Inactive marks the staff member as no longer active.
func Inactive() StaffOption {
	return func(f *StaffFixture) { f.Active = false }
}

// DisplayName returns "First Last".
func (f StaffFixture) DisplayName() string {
	return f.Application().DisplayName()
}

// Input converts the fixture to a creation request.
func (f StaffFixture) Input() application.StaffInput {
	return application.StaffInput{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Role:      f.Role,
		Trainee:   f.Trainee,
	}
}

// Application converts the fixture to the service model.
func (f StaffFixture) Application() application.Staff {
	return application.Staff{
		ID:        f.ID,
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Role:      f.Role,
		Trainee:   f.Trainee,
		Active:    f.Active,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.CreatedAt,
	}
}

// Persistence converts the fixture to a storage row. The id is left for the
// database to assign.
func (f StaffFixture) Persistence() persistence.Staff {
	return persistence.Staff{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Role:      f.Role,
		Trainee:   f.Trainee,
		Active:    f.Active,
		CreatedAt: f.CreatedAt,
		UpdatedAt: f.CreatedAt,
	}
}

// ----------------------------- Entry fixtures -----------------------------

// EntryFixture is a deterministic schedule entry in ReferenceWeek unless
// overridden. Times are "HH:MM".
type EntryFixture struct {
	ID        string
	PeriodID  string
	Week      calendar.WeekID
	Staff     StaffFixture
	Day       calendar.DayOfWeek
	StartTime string
	EndTime   string
	Status    roster.Status
	Notes     string
}

// EntryOption configures the generated entry fixture.
type EntryOption func(*EntryFixture)

// NewEntryFixture returns a NORMAL 08:00 to 16:00 Monday shift for staff.
func NewEntryFixture(staff StaffFixture, opts ...EntryOption) EntryFixture {
	idx := atomic.AddUint64(&entryCounter, 1)
	fixture := EntryFixture{
		ID:        fmt.Sprintf("entry-%03d", idx),
		PeriodID:  "period-2024-W03",
		Week:      ReferenceWeek(),
		Staff:     staff,
		Day:       calendar.Monday,
		StartTime: "08:00",
		EndTime:   "16:00",
		Status:    roster.StatusNormal,
	}
	for _, opt := range opts {
		opt(&fixture)
	}
	return fixture
}

// WithEntryID overrides the generated id.
func WithEntryID(id string) EntryOption {
	return func(f *EntryFixture) { f.ID = id }
}

// WithPeriod places the entry in a different week and period.
func WithPeriod(periodID string, week calendar.WeekID) EntryOption {
	return func(f *EntryFixture) {
		f.PeriodID = periodID
		f.Week = week
	}
}

// OnDay overrides the weekday.
func OnDay(day calendar.DayOfWeek) EntryOption {
	return func(f *EntryFixture) { f.Day = day }
}

// WithTimes overrides start and end.
func WithTimes(start, end string) EntryOption {
	return func(f *EntryFixture) {
		f.StartTime = start
		f.EndTime = end
	}
}

// WithStatus overrides the status.
func WithStatus(status roster.Status) EntryOption {
	return func(f *EntryFixture) { f.Status = status }
}

// WithNotes sets the notes.
func WithNotes(notes string) EntryOption {
	return func(f *EntryFixture) { f.Notes = notes }
}

// Entry converts the fixture to a roster entry. It panics on malformed times.
func (f EntryFixture) Entry() roster.Entry {
	return roster.Entry{
		ID:        f.ID,
		PeriodID:  f.PeriodID,
		StaffID:   f.Staff.ID,
		StaffName: f.Staff.DisplayName(),
		StaffRole: f.Staff.Role,
		Trainee:   f.Staff.Trainee,
		Day:       f.Day,
		WorkDate:  f.Week.Date(f.Day),
		Start:     timeofday.MustParse(f.StartTime),
		End:       timeofday.MustParse(f.EndTime),
		Status:    f.Status,
		Notes:     f.Notes,
	}
}

// Form converts the fixture to the entry dialog values.
func (f EntryFixture) Form() application.EntryForm {
	return application.EntryForm{
		StaffID:   f.Staff.ID,
		Day:       f.Day,
		StartTime: f.StartTime,
		EndTime:   f.EndTime,
		Status:    string(f.Status),
		Notes:     f.Notes,
	}
}

// CreateParams wraps Form with the fixture's week.
func (f EntryFixture) CreateParams() application.CreateEntryParams {
	return application.CreateEntryParams{Week: f.Week, Form: f.Form()}
}

// Entries converts several fixtures at once.
func Entries(fixtures ...EntryFixture) []roster.Entry {
	entries := make([]roster.Entry, 0, len(fixtures))
	for _, f := range fixtures {
		entries = append(entries, f.Entry())
	}
	return entries
}
