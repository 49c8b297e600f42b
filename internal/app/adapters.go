package app

import (
	"context"
	"fmt"
	"time"

	"github.com/example/kita-dienstplan/internal/application"
	"github.com/example/kita-dienstplan/internal/calendar"
	"github.com/example/kita-dienstplan/internal/persistence"
	"github.com/example/kita-dienstplan/internal/roster"
	"github.com/example/kita-dienstplan/internal/timeofday"
)

// entryRepositoryAdapter translates between stored rows and roster entries.
// The stored weekday number is interpreted with days and nowhere else.
type entryRepositoryAdapter struct {
	repo persistence.ScheduleEntryRepository
	days calendar.DayConvention
	now  func() time.Time
}

func newEntryRepositoryAdapter(repo persistence.ScheduleEntryRepository, days calendar.DayConvention, now func() time.Time) *entryRepositoryAdapter {
	if now == nil {
		now = time.Now
	}
	return &entryRepositoryAdapter{repo: repo, days: days, now: now}
}

func (a *entryRepositoryAdapter) ListEntries(ctx context.Context, periodID string) ([]roster.Entry, error) {
	models, err := a.repo.ListEntries(ctx, periodID)
	if err != nil {
		return nil, err
	}
	entries := make([]roster.Entry, 0, len(models))
	for _, model := range models {
		entry, err := toRosterEntry(model, a.days)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

func (a *entryRepositoryAdapter) GetEntry(ctx context.Context, id string) (roster.Entry, error) {
	stored, err := a.repo.GetEntry(ctx, id)
	if err != nil {
		return roster.Entry{}, err
	}
	return toRosterEntry(stored, a.days)
}

func (a *entryRepositoryAdapter) CreateEntry(ctx context.Context, entry roster.Entry) (roster.Entry, error) {
	model, err := toPersistenceEntry(entry, a.days)
	if err != nil {
		return roster.Entry{}, err
	}
	model.CreatedAt = a.now()
	model.UpdatedAt = model.CreatedAt
	if err := a.repo.CreateEntry(ctx, model); err != nil {
		return roster.Entry{}, err
	}
	return a.GetEntry(ctx, entry.ID)
}

func (a *entryRepositoryAdapter) UpdateEntry(ctx context.Context, entry roster.Entry) (roster.Entry, error) {
	model, err := toPersistenceEntry(entry, a.days)
	if err != nil {
		return roster.Entry{}, err
	}
	model.UpdatedAt = a.now()
	if err := a.repo.UpdateEntry(ctx, model); err != nil {
		return roster.Entry{}, err
	}
	return a.GetEntry(ctx, entry.ID)
}

func (a *entryRepositoryAdapter) DeleteEntry(ctx context.Context, id string) error {
	return a.repo.DeleteEntry(ctx, id)
}

type periodRepositoryAdapter struct {
	repo persistence.WeeklyScheduleRepository
}

func newPeriodRepositoryAdapter(repo persistence.WeeklyScheduleRepository) *periodRepositoryAdapter {
	return &periodRepositoryAdapter{repo: repo}
}

func (a *periodRepositoryAdapter) FindPeriod(ctx context.Context, week calendar.WeekID) (application.WeeklyPeriod, error) {
	stored, err := a.repo.GetWeeklySchedule(ctx, week.Year, week.Week)
	if err != nil {
		return application.WeeklyPeriod{}, err
	}
	return toApplicationPeriod(stored)
}

func (a *periodRepositoryAdapter) CreatePeriod(ctx context.Context, period application.WeeklyPeriod) (application.WeeklyPeriod, error) {
	if err := a.repo.CreateWeeklySchedule(ctx, toPersistencePeriod(period)); err != nil {
		return application.WeeklyPeriod{}, err
	}
	return a.FindPeriod(ctx, period.Week)
}

// staffRepositoryAdapter serves both the staff service and the schedule
// service's staff directory.
type staffRepositoryAdapter struct {
	repo persistence.StaffRepository
}

func newStaffRepositoryAdapter(repo persistence.StaffRepository) *staffRepositoryAdapter {
	return &staffRepositoryAdapter{repo: repo}
}

func (a *staffRepositoryAdapter) CreateStaff(ctx context.Context, staff application.Staff) (application.Staff, error) {
	id, err := a.repo.CreateStaff(ctx, toPersistenceStaff(staff))
	if err != nil {
		return application.Staff{}, err
	}
	return a.GetStaff(ctx, id)
}

func (a *staffRepositoryAdapter) GetStaff(ctx context.Context, id int64) (application.Staff, error) {
	stored, err := a.repo.GetStaff(ctx, id)
	if err != nil {
		return application.Staff{}, err
	}
	return toApplicationStaff(stored), nil
}

func (a *staffRepositoryAdapter) FindStaffByName(ctx context.Context, firstName, lastName string) (application.Staff, error) {
	stored, err := a.repo.FindStaffByName(ctx, firstName, lastName)
	if err != nil {
		return application.Staff{}, err
	}
	return toApplicationStaff(stored), nil
}

func (a *staffRepositoryAdapter) ListStaff(ctx context.Context, activeOnly bool) ([]application.Staff, error) {
	models, err := a.repo.ListStaff(ctx, activeOnly)
	if err != nil {
		return nil, err
	}
	staff := make([]application.Staff, 0, len(models))
	for _, model := range models {
		staff = append(staff, toApplicationStaff(model))
	}
	return staff, nil
}

func toRosterEntry(model persistence.EntryWithStaff, days calendar.DayConvention) (roster.Entry, error) {
	day, err := days.ToDay(model.DayOfWeek)
	if err != nil {
		return roster.Entry{}, fmt.Errorf("entry %s: %w", model.ID, err)
	}
	workDate, err := calendar.ParseISO(model.WorkDate)
	if err != nil {
		return roster.Entry{}, fmt.Errorf("entry %s: work date: %w", model.ID, err)
	}
	start, err := timeofday.Parse(model.StartTime)
	if err != nil {
		return roster.Entry{}, fmt.Errorf("entry %s: start time: %w", model.ID, err)
	}
	end, err := timeofday.Parse(model.EndTime)
	if err != nil {
		return roster.Entry{}, fmt.Errorf("entry %s: end time: %w", model.ID, err)
	}
	status, err := roster.ParseStatus(model.Status)
	if err != nil {
		return roster.Entry{}, fmt.Errorf("entry %s: %w", model.ID, err)
	}

	staff := application.Staff{FirstName: model.StaffFirstName, LastName: model.StaffLastName}
	return roster.Entry{
		ID:        model.ID,
		PeriodID:  model.WeeklyScheduleID,
		StaffID:   model.StaffID,
		StaffName: staff.DisplayName(),
		StaffRole: model.StaffRole,
		Trainee:   model.StaffTrainee,
		Day:       day,
		WorkDate:  workDate,
		Start:     start,
		End:       end,
		Status:    status,
		Notes:     model.Notes,
	}, nil
}

func toPersistenceEntry(entry roster.Entry, days calendar.DayConvention) (persistence.ScheduleEntry, error) {
	raw, err := days.FromDay(entry.Day)
	if err != nil {
		return persistence.ScheduleEntry{}, err
	}
	return persistence.ScheduleEntry{
		ID:               entry.ID,
		WeeklyScheduleID: entry.PeriodID,
		StaffID:          entry.StaffID,
		DayOfWeek:        raw,
		WorkDate:         calendar.FormatISO(entry.WorkDate),
		StartTime:        timeofday.FormatPadded(entry.Start),
		EndTime:          timeofday.FormatPadded(entry.End),
		Status:           string(entry.Status),
		Notes:            entry.Notes,
	}, nil
}

func toApplicationPeriod(model persistence.WeeklySchedule) (application.WeeklyPeriod, error) {
	start, err := calendar.ParseISO(model.StartDate)
	if err != nil {
		return application.WeeklyPeriod{}, fmt.Errorf("weekly schedule %s: start date: %w", model.ID, err)
	}
	end, err := calendar.ParseISO(model.EndDate)
	if err != nil {
		return application.WeeklyPeriod{}, fmt.Errorf("weekly schedule %s: end date: %w", model.ID, err)
	}
	return application.WeeklyPeriod{
		ID:        model.ID,
		Week:      calendar.WeekID{Year: model.Year, Week: model.Week},
		StartDate: start,
		EndDate:   end,
		CreatedAt: model.CreatedAt,
	}, nil
}

func toPersistencePeriod(period application.WeeklyPeriod) persistence.WeeklySchedule {
	return persistence.WeeklySchedule{
		ID:        period.ID,
		Year:      period.Week.Year,
		Week:      period.Week.Week,
		StartDate: calendar.FormatISO(period.StartDate),
		EndDate:   calendar.FormatISO(period.EndDate),
		CreatedAt: period.CreatedAt,
	}
}

func toApplicationStaff(model persistence.Staff) application.Staff {
	return application.Staff{
		ID:        model.ID,
		FirstName: model.FirstName,
		LastName:  model.LastName,
		Role:      model.Role,
		Trainee:   model.Trainee,
		Active:    model.Active,
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func toPersistenceStaff(staff application.Staff) persistence.Staff {
	return persistence.Staff{
		ID:        staff.ID,
		FirstName: staff.FirstName,
		LastName:  staff.LastName,
		Role:      staff.Role,
		Trainee:   staff.Trainee,
		Active:    staff.Active,
		CreatedAt: staff.CreatedAt,
		UpdatedAt: staff.UpdatedAt,
	}
}
