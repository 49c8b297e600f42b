package persistence

import "time"

// Staff represents a team member row.
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

// WeeklySchedule is the period row entries of one ISO week hang off.
// StartDate and EndDate are "YYYY-MM-DD".
type WeeklySchedule struct {
	ID        string
	Year      int
	Week      int
	StartDate string
	EndDate   string
	CreatedAt time.Time
}

// ScheduleEntry is a stored entry. DayOfWeek is the raw number in whatever
// convention the database was set up with; StartTime and EndTime are "HH:MM".
type ScheduleEntry struct {
	ID               string
	WeeklyScheduleID string
	StaffID          int64
	DayOfWeek        int
	WorkDate         string
	StartTime        string
	EndTime          string
	Status           string
	Notes            string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// EntryWithStaff joins an entry with the columns of its staff member.
type EntryWithStaff struct {
	ScheduleEntry
	StaffFirstName string
	StaffLastName  string
	StaffRole      string
	StaffTrainee   bool
}
