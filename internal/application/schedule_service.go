package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/kita-dienstplan/internal/calendar"
	"github.com/example/kita-dienstplan/internal/persistence"
	"github.com/example/kita-dienstplan/internal/roster"
	"github.com/example/kita-dienstplan/internal/timeofday"
)

// EntryRepository captures the persistence interactions needed by the service.
// Entries come back with the staff columns filled in.
type EntryRepository interface {
	ListEntries(ctx context.Context, periodID string) ([]roster.Entry, error)
	GetEntry(ctx context.Context, id string) (roster.Entry, error)
	CreateEntry(ctx context.Context, entry roster.Entry) (roster.Entry, error)
	UpdateEntry(ctx context.Context, entry roster.Entry) (roster.Entry, error)
	DeleteEntry(ctx context.Context, id string) error
}

// StaffDirectory exposes staff lookups.
type StaffDirectory interface {
	GetStaff(ctx context.Context, id int64) (Staff, error)
}

// ScheduleOptions carries the optional collaborators of a ScheduleService.
type ScheduleOptions struct {
	// Collation orders staff names; BinaryCollation when nil.
	Collation roster.CompareFunc
	// Location turns the wall clock into today's date; UTC when nil.
	Location *time.Location
	Logger   *slog.Logger
}

// ScheduleService orchestrates validation, period resolution and persistence
// for schedule entries and builds the weekly grid.
type ScheduleService struct {
	entries     EntryRepository
	periods     *PeriodResolver
	staff       StaffDirectory
	idGenerator func() string
	now         func() time.Time
	collation   roster.CompareFunc
	location    *time.Location
	logger      *slog.Logger
}

// NewScheduleService wires dependencies for schedule operations.
func NewScheduleService(entries EntryRepository, periods *PeriodResolver, staff StaffDirectory, idGenerator func() string, now func() time.Time, opts ScheduleOptions) *ScheduleService {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	if opts.Collation == nil {
		opts.Collation = roster.BinaryCollation
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	return &ScheduleService{
		entries:     entries,
		periods:     periods,
		staff:       staff,
		idGenerator: idGenerator,
		now:         now,
		collation:   opts.Collation,
		location:    opts.Location,
		logger:      defaultLogger(opts.Logger),
	}
}

func (s *ScheduleService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "ScheduleService", operation, attrs...)
}

// Today returns the current date in the configured location.
func (s *ScheduleService) Today() calendar.Date {
	return calendar.Today(s.now(), s.location)
}

// CurrentWeek returns the ISO week containing today.
func (s *ScheduleService) CurrentWeek() calendar.WeekID {
	return calendar.CurrentWeek(s.Today())
}

// ListEntries returns the entries planned for week. A week without a period has no entries.
func (s *ScheduleService) ListEntries(ctx context.Context, week calendar.WeekID) ([]roster.Entry, error) {
	if s == nil {
		return nil, fmt.Errorf("ScheduleService is nil")
	}
	_, entries, err := s.loadWeek(ctx, week)
	return entries, err
}

// WeekView builds the grid, dates and totals for week.
func (s *ScheduleService) WeekView(ctx context.Context, week calendar.WeekID) (WeekView, error) {
	if s == nil {
		return WeekView{}, fmt.Errorf("ScheduleService is nil")
	}
	period, entries, err := s.loadWeek(ctx, week)
	if err != nil {
		s.loggerWith(ctx, "WeekView", "week", week.String()).
			ErrorContext(ctx, "failed to load week", "error", err, "error_kind", ErrorKind(err))
		return WeekView{}, err
	}

	return WeekView{
		Week:     week,
		Dates:    week.Dates(),
		Days:     week.Days(),
		Previous: week.Previous(),
		Next:     week.Next(),
		Period:   period,
		Rows:     roster.BuildGrid(entries, s.collation),
		Totals:   roster.DailyTotals(entries),
	}, nil
}

// DailyTotals sums the NORMAL shifts of week per workday.
func (s *ScheduleService) DailyTotals(ctx context.Context, week calendar.WeekID) ([len(calendar.Workdays)]roster.DayTotal, error) {
	var zero [len(calendar.Workdays)]roster.DayTotal
	if s == nil {
		return zero, fmt.Errorf("ScheduleService is nil")
	}
	_, entries, err := s.loadWeek(ctx, week)
	if err != nil {
		return zero, err
	}
	return roster.DailyTotals(entries), nil
}

// StaffTotals sums working and break time per staff member for week.
func (s *ScheduleService) StaffTotals(ctx context.Context, week calendar.WeekID) ([]roster.StaffTotal, error) {
	if s == nil {
		return nil, fmt.Errorf("ScheduleService is nil")
	}
	_, entries, err := s.loadWeek(ctx, week)
	if err != nil {
		return nil, err
	}
	return roster.StaffTotals(entries, s.collation), nil
}

// WorkingAt lists who is on shift at the given date and clock time.
func (s *ScheduleService) WorkingAt(ctx context.Context, date calendar.Date, at timeofday.Minutes) ([]roster.Entry, error) {
	if s == nil {
		return nil, fmt.Errorf("ScheduleService is nil")
	}
	_, entries, err := s.loadWeek(ctx, calendar.WeekOf(date))
	if err != nil {
		return nil, err
	}
	return roster.WorkingAt(entries, date, at, s.collation), nil
}

// CoverageDuring lists who is on shift at some point in [start, end) on date.
func (s *ScheduleService) CoverageDuring(ctx context.Context, date calendar.Date, start, end timeofday.Minutes) ([]roster.Entry, error) {
	if s == nil {
		return nil, fmt.Errorf("ScheduleService is nil")
	}
	if end <= start {
		vErr := &ValidationError{}
		vErr.add(FieldTimeRange, msgTimeRange)
		return nil, vErr
	}
	_, entries, err := s.loadWeek(ctx, calendar.WeekOf(date))
	if err != nil {
		return nil, err
	}
	return roster.CoverageDuring(entries, date.Weekday(), start, end, s.collation), nil
}

// CreateEntry validates the form, resolves the weekly period and persists the entry.
func (s *ScheduleService) CreateEntry(ctx context.Context, params CreateEntryParams) (entry roster.Entry, err error) {
	if s == nil {
		err = fmt.Errorf("ScheduleService is nil")
		return
	}

	form := normalizeEntryForm(params.Form)
	logger := s.loggerWith(ctx, "CreateEntry",
		"week", params.Week.String(),
		"staff_id", form.StaffID,
		"day", form.Day.String(),
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create entry", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("entry_id", entry.ID).InfoContext(ctx, "entry created")
	}()

	if err = params.Week.Validate(); err != nil {
		return
	}
	if vErr := ValidateEntryForm(form); vErr != nil {
		err = vErr
		return
	}
	if s.entries == nil || s.periods == nil {
		err = fmt.Errorf("schedule repositories not configured")
		return
	}

	staff, err := s.lookupStaff(ctx, form.StaffID)
	if err != nil {
		return
	}

	res, err := s.periods.Resolve(ctx, params.Week)
	if err != nil {
		return
	}
	period := res.Period

	existing, err := s.entries.ListEntries(ctx, period.ID)
	if err != nil && !isNotFoundError(err) {
		return
	}
	for _, e := range existing {
		if e.StaffID == form.StaffID && e.Day == form.Day {
			err = fmt.Errorf("%w: entry for staff %d on %s", ErrAlreadyExists, form.StaffID, form.Day)
			return
		}
	}

	status, _ := roster.ParseStatus(form.Status)
	candidate := roster.Entry{
		ID:        s.idGenerator(),
		PeriodID:  period.ID,
		StaffID:   staff.ID,
		StaffName: staff.DisplayName(),
		StaffRole: staff.Role,
		Trainee:   staff.Trainee,
		Day:       form.Day,
		WorkDate:  params.Week.Date(form.Day),
		Start:     timeofday.MustParse(form.StartTime),
		End:       timeofday.MustParse(form.EndTime),
		Status:    status,
		Notes:     form.Notes,
	}

	entry, err = s.entries.CreateEntry(ctx, candidate)
	if err != nil {
		err = mapEntryRepoError(err)
		return
	}
	return entry, nil
}

// UpdateEntry applies a partial change and re-validates the merged entry.
func (s *ScheduleService) UpdateEntry(ctx context.Context, params UpdateEntryParams) (entry roster.Entry, err error) {
	if s == nil {
		err = fmt.Errorf("ScheduleService is nil")
		return
	}
	logger := s.loggerWith(ctx, "UpdateEntry", "entry_id", params.EntryID)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to update entry", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "entry updated")
	}()

	if s.entries == nil {
		err = fmt.Errorf("entry repository not configured")
		return
	}

	existing, err := s.entries.GetEntry(ctx, params.EntryID)
	if err != nil {
		err = mapEntryRepoError(err)
		return
	}

	form := EntryForm{
		StaffID:   existing.StaffID,
		Day:       existing.Day,
		StartTime: timeofday.FormatPadded(existing.Start),
		EndTime:   timeofday.FormatPadded(existing.End),
		Status:    string(existing.Status),
		Notes:     existing.Notes,
	}
	patch := params.Patch
	if patch.StartTime != nil {
		form.StartTime = *patch.StartTime
	}
	if patch.EndTime != nil {
		form.EndTime = *patch.EndTime
	}
	if patch.Status != nil {
		form.Status = *patch.Status
	}
	if patch.Notes != nil {
		form.Notes = *patch.Notes
	}

	form = normalizeEntryForm(form)
	if vErr := ValidateEntryForm(form); vErr != nil {
		err = vErr
		return
	}

	updated := existing
	updated.Start = timeofday.MustParse(form.StartTime)
	updated.End = timeofday.MustParse(form.EndTime)
	updated.Status, _ = roster.ParseStatus(form.Status)
	updated.Notes = form.Notes

	entry, err = s.entries.UpdateEntry(ctx, updated)
	if err != nil {
		err = mapEntryRepoError(err)
		return
	}
	return entry, nil
}

// DeleteEntry removes an entry by id.
func (s *ScheduleService) DeleteEntry(ctx context.Context, id string) (err error) {
	if s == nil {
		return fmt.Errorf("ScheduleService is nil")
	}
	logger := s.loggerWith(ctx, "DeleteEntry", "entry_id", id)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to delete entry", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "entry deleted")
	}()

	if s.entries == nil {
		return fmt.Errorf("entry repository not configured")
	}
	if err = s.entries.DeleteEntry(ctx, id); err != nil {
		err = mapEntryRepoError(err)
	}
	return err
}

// EnsurePeriod resolves the weekly period for week, creating it if needed.
func (s *ScheduleService) EnsurePeriod(ctx context.Context, week calendar.WeekID) (Resolution, error) {
	if s == nil || s.periods == nil {
		return Resolution{}, fmt.Errorf("period resolver not configured")
	}
	return s.periods.Resolve(ctx, week)
}

func (s *ScheduleService) loadWeek(ctx context.Context, week calendar.WeekID) (*WeeklyPeriod, []roster.Entry, error) {
	if err := week.Validate(); err != nil {
		return nil, nil, err
	}
	if s.periods == nil || s.entries == nil {
		return nil, []roster.Entry{}, nil
	}

	period, err := s.periods.Find(ctx, week)
	if err != nil {
		if errors.Is(err, ErrPeriodMissing) {
			return nil, []roster.Entry{}, nil
		}
		return nil, nil, err
	}

	entries, err := s.entries.ListEntries(ctx, period.ID)
	if err != nil {
		if isNotFoundError(err) {
			return &period, []roster.Entry{}, nil
		}
		return nil, nil, &PersistenceError{Op: "list entries", Week: week, Err: err}
	}
	return &period, entries, nil
}

func (s *ScheduleService) lookupStaff(ctx context.Context, id int64) (Staff, error) {
	if s.staff == nil {
		return Staff{ID: id}, nil
	}
	staff, err := s.staff.GetStaff(ctx, id)
	if err != nil {
		if isNotFoundError(err) {
			vErr := &ValidationError{}
			vErr.add(FieldStaffID, msgStaffUnknown)
			return Staff{}, vErr
		}
		return Staff{}, err
	}
	return staff, nil
}

func mapEntryRepoError(err error) error {
	if err == nil {
		return nil
	}
	if isNotFoundError(err) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrDuplicate) {
		return ErrAlreadyExists
	}
	if errors.Is(err, persistence.ErrConstraintViolation) {
		vErr := &ValidationError{}
		vErr.add(FieldTimeRange, msgTimeRange)
		return vErr
	}
	if errors.Is(err, persistence.ErrForeignKeyViolation) {
		vErr := &ValidationError{}
		vErr.add(FieldStaffID, msgStaffUnknown)
		return vErr
	}
	return err
}

func isNotFoundError(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound)
}
