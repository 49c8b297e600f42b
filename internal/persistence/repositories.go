package persistence

import "context"

// StaffRepository exposes operations for staff rows. CreateStaff returns the
// assigned id.
type StaffRepository interface {
	CreateStaff(ctx context.Context, staff Staff) (int64, error)
	UpdateStaff(ctx context.Context, staff Staff) error
	GetStaff(ctx context.Context, id int64) (Staff, error)
	FindStaffByName(ctx context.Context, firstName, lastName string) (Staff, error)
	ListStaff(ctx context.Context, activeOnly bool) ([]Staff, error)
}

// WeeklyScheduleRepository stores weekly periods, unique per (year, week).
type WeeklyScheduleRepository interface {
	CreateWeeklySchedule(ctx context.Context, schedule WeeklySchedule) error
	GetWeeklySchedule(ctx context.Context, year, week int) (WeeklySchedule, error)
	ListWeeklySchedules(ctx context.Context, year int) ([]WeeklySchedule, error)
}

// ScheduleEntryRepository stores schedule entries, unique per (period, staff, day).
type ScheduleEntryRepository interface {
	CreateEntry(ctx context.Context, entry ScheduleEntry) error
	UpdateEntry(ctx context.Context, entry ScheduleEntry) error
	GetEntry(ctx context.Context, id string) (EntryWithStaff, error)
	ListEntries(ctx context.Context, weeklyScheduleID string) ([]EntryWithStaff, error)
	DeleteEntry(ctx context.Context, id string) error
}
