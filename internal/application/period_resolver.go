package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/kita-dienstplan/internal/calendar"
)

// PeriodRepository captures the persistence interactions for weekly periods.
// FindPeriod returns ErrNotFound when no period exists for the week.
type PeriodRepository interface {
	FindPeriod(ctx context.Context, week calendar.WeekID) (WeeklyPeriod, error)
	CreatePeriod(ctx context.Context, period WeeklyPeriod) (WeeklyPeriod, error)
}

// ResolveState is a step of the get-or-create sequence.
type ResolveState int

const (
	StateAttemptRead ResolveState = iota
	StateFound
	StateAttemptCreate
	StateCreated
	StateFailed
)

func (s ResolveState) String() string {
	switch s {
	case StateAttemptRead:
		return "attempt_read"
	case StateFound:
		return "found"
	case StateAttemptCreate:
		return "attempt_create"
	case StateCreated:
		return "created"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("ResolveState(%d)", int(s))
	}
}

// Resolution describes how a period was obtained.
type Resolution struct {
	Period WeeklyPeriod
	// Trace lists every state visited, ending in StateFound, StateCreated or StateFailed.
	Trace []ResolveState
}

// Final returns the terminal state.
func (r Resolution) Final() ResolveState {
	if len(r.Trace) == 0 {
		return StateAttemptRead
	}
	return r.Trace[len(r.Trace)-1]
}

// PeriodResolver finds the weekly period for a week and creates it once when it
// is missing. A failed creation is reported, never retried.
type PeriodResolver struct {
	periods     PeriodRepository
	idGenerator func() string
	now         func() time.Time
	logger      *slog.Logger
}

// NewPeriodResolver wires the resolver.
func NewPeriodResolver(periods PeriodRepository, idGenerator func() string, now func() time.Time, logger *slog.Logger) *PeriodResolver {
	if idGenerator == nil {
		idGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	return &PeriodResolver{periods: periods, idGenerator: idGenerator, now: now, logger: defaultLogger(logger)}
}

// Find returns the period for week without creating it. ErrPeriodMissing is
// returned when there is none.
func (r *PeriodResolver) Find(ctx context.Context, week calendar.WeekID) (WeeklyPeriod, error) {
	if r == nil || r.periods == nil {
		return WeeklyPeriod{}, fmt.Errorf("period repository not configured")
	}
	if err := week.Validate(); err != nil {
		return WeeklyPeriod{}, err
	}
	period, err := r.periods.FindPeriod(ctx, week)
	if err != nil {
		if isNotFoundError(err) {
			return WeeklyPeriod{}, ErrPeriodMissing
		}
		return WeeklyPeriod{}, &PersistenceError{Op: "find weekly period", Week: week, Err: err}
	}
	return period, nil
}

// Resolve runs AttemptRead → Found | AttemptCreate → Created | Failed. Any read
// failure leads to a single create attempt; if that fails the result is a
// *PersistenceError that also matches ErrPeriodMissing.
func (r *PeriodResolver) Resolve(ctx context.Context, week calendar.WeekID) (res Resolution, err error) {
	if r == nil || r.periods == nil {
		return Resolution{}, fmt.Errorf("period repository not configured")
	}
	if err := week.Validate(); err != nil {
		return Resolution{}, err
	}

	logger := serviceLogger(ctx, r.logger, "PeriodResolver", "Resolve", "week", week.String())

	var readErr error
	state := StateAttemptRead
	for {
		res.Trace = append(res.Trace, state)
		switch state {
		case StateAttemptRead:
			period, findErr := r.periods.FindPeriod(ctx, week)
			if findErr == nil {
				res.Period = period
				state = StateFound
				continue
			}
			if !isNotFoundError(findErr) {
				readErr = findErr
				logger.WarnContext(ctx, "weekly period lookup failed, creating instead", "error", findErr)
			}
			state = StateAttemptCreate

		case StateAttemptCreate:
			days := week.Days()
			candidate := WeeklyPeriod{
				ID:        r.idGenerator(),
				Week:      week,
				StartDate: days[0],
				EndDate:   days[6],
				CreatedAt: r.now(),
			}
			period, createErr := r.periods.CreatePeriod(ctx, candidate)
			if createErr != nil {
				err = &PersistenceError{
					Op:   "create weekly period",
					Week: week,
					Err:  errors.Join(ErrPeriodMissing, readErr, createErr),
				}
				state = StateFailed
				continue
			}
			res.Period = period
			logger.InfoContext(ctx, "weekly period created", "period_id", period.ID, "start", period.StartDate.String(), "end", period.EndDate.String())
			state = StateCreated

		case StateFailed:
			logger.ErrorContext(ctx, "failed to resolve weekly period", "error", err, "error_kind", ErrorKind(err))
			return res, err

		case StateFound, StateCreated:
			return res, nil
		}
	}
}
