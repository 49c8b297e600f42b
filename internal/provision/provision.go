// Package provision keeps weekly periods in place ahead of time so that the
// roster for the coming weeks can be filled without a first write creating it.
package provision

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/example/kita-dienstplan/internal/application"
	"github.com/example/kita-dienstplan/internal/calendar"
)

type periodEnsurer interface {
	EnsurePeriod(ctx context.Context, week calendar.WeekID) (application.Resolution, error)
}

// Result is the outcome for one week of a run.
type Result struct {
	Week  calendar.WeekID
	State application.ResolveState
	Err   error
}

// Job ensures periods for the current week and the following WeeksAhead weeks.
type Job struct {
	periods    periodEnsurer
	now        func() time.Time
	location   *time.Location
	weeksAhead int
	logger     *slog.Logger
}

// NewJob wires a provisioning job. A nil now uses time.Now, a nil location UTC.
func NewJob(periods periodEnsurer, now func() time.Time, location *time.Location, weeksAhead int, logger *slog.Logger) *Job {
	if now == nil {
		now = time.Now
	}
	if location == nil {
		location = time.UTC
	}
	if weeksAhead < 0 {
		weeksAhead = 0
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Job{periods: periods, now: now, location: location, weeksAhead: weeksAhead, logger: logger}
}

// Weeks returns the weeks a run at the current time covers.
func (j *Job) Weeks() []calendar.WeekID {
	week := calendar.CurrentWeek(calendar.Today(j.now(), j.location))
	weeks := make([]calendar.WeekID, 0, j.weeksAhead+1)
	for i := 0; i <= j.weeksAhead; i++ {
		weeks = append(weeks, week)
		week = week.Next()
	}
	return weeks
}

// Run ensures every covered week. A failing week does not stop the others;
// all failures are joined into the returned error.
func (j *Job) Run(ctx context.Context) ([]Result, error) {
	weeks := j.Weeks()
	results := make([]Result, 0, len(weeks))
	var errs []error
	for _, week := range weeks {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		res, err := j.periods.EnsurePeriod(ctx, week)
		results = append(results, Result{Week: week, State: res.Final(), Err: err})
		if err != nil {
			j.logger.ErrorContext(ctx, "period provisioning failed",
				"week", week.String(), "error", err, "error_kind", application.ErrorKind(err))
			errs = append(errs, fmt.Errorf("provision %s: %w", week, err))
			continue
		}
		j.logger.DebugContext(ctx, "period ensured", "week", week.String(), "state", res.Final().String())
	}
	return results, errors.Join(errs...)
}

// Scheduler runs a Job on a cron schedule.
type Scheduler struct {
	mu     sync.Mutex
	cron   *cron.Cron
	job    *Job
	logger *slog.Logger
}

// NewScheduler parses spec (standard five-field cron or a descriptor such as
// "@weekly") and registers job. The schedule is evaluated in location.
func NewScheduler(spec string, location *time.Location, job *Job, logger *slog.Logger) (*Scheduler, error) {
	if job == nil {
		return nil, errors.New("provision: job is nil")
	}
	if location == nil {
		location = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	c := cron.New(cron.WithParser(parser), cron.WithLocation(location))
	s := &Scheduler{cron: c, job: job, logger: logger.With("component", "provision")}

	if _, err := c.AddFunc(spec, s.tick); err != nil {
		return nil, fmt.Errorf("provision: invalid schedule %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) tick() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	results, err := s.job.Run(ctx)
	if err != nil {
		s.logger.Error("scheduled provisioning finished with errors", "weeks", len(results), "error", err)
		return
	}
	s.logger.Info("scheduled provisioning finished", "weeks", len(results))
}

// Start runs the job once immediately and then on schedule.
func (s *Scheduler) Start(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.job.Run(ctx); err != nil {
		s.logger.ErrorContext(ctx, "initial provisioning failed", "error", err)
	}
	s.cron.Start()
	s.logger.InfoContext(ctx, "provisioning scheduled", "next", s.next())
}

// Stop halts the schedule and waits for a running job, or for ctx to end.
func (s *Scheduler) Stop(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

func (s *Scheduler) next() time.Time {
	entries := s.cron.Entries()
	if len(entries) == 0 {
		return time.Time{}
	}
	return entries[0].Next
}
