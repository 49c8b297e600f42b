// Package app wires storage, services and transports into a runnable
// Dienstplan instance. It is shared by the CLI, the server and the tests.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/example/kita-dienstplan/internal/application"
	"github.com/example/kita-dienstplan/internal/config"
	httptransport "github.com/example/kita-dienstplan/internal/http"
	"github.com/example/kita-dienstplan/internal/importer"
	"github.com/example/kita-dienstplan/internal/persistence/sqlite"
	"github.com/example/kita-dienstplan/internal/provision"
	"github.com/example/kita-dienstplan/internal/roster"
)

// Options overrides the clock and id source. Zero values use time.Now and
// random UUIDs.
type Options struct {
	Now         func() time.Time
	IDGenerator func() string
}

// App holds the open database and the services built on top of it.
type App struct {
	Config   config.Config
	Logger   *slog.Logger
	Pool     *sqlite.ConnectionPool
	Periods  *application.PeriodResolver
	Schedule *application.ScheduleService
	Staff    *application.StaffService
	Importer *importer.Importer

	now func() time.Time
}

// New opens the database, applies pending migrations and builds the services.
func New(ctx context.Context, cfg config.Config, logger *slog.Logger, opts Options) (*App, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.IDGenerator == nil {
		opts.IDGenerator = func() string { return uuid.NewString() }
	}

	pool, err := sqlite.Open(ctx, cfg.SQLiteDSN, logger)
	if err != nil {
		return nil, fmt.Errorf("open storage: %w", err)
	}
	if err := pool.Migrate(ctx); err != nil {
		_ = pool.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}
	return build(cfg, logger, pool, opts), nil
}

func build(cfg config.Config, logger *slog.Logger, pool *sqlite.ConnectionPool, opts Options) *App {
	collation := roster.NewGermanCollation()

	staffRepo := newStaffRepositoryAdapter(sqlite.NewStaffRepository(pool))
	periodRepo := newPeriodRepositoryAdapter(sqlite.NewWeeklyScheduleRepository(pool))
	entryRepo := newEntryRepositoryAdapter(sqlite.NewScheduleEntryRepository(pool), cfg.DayConvention, opts.Now)

	periods := application.NewPeriodResolver(periodRepo, opts.IDGenerator, opts.Now, logger)
	schedule := application.NewScheduleService(entryRepo, periods, staffRepo, opts.IDGenerator, opts.Now, application.ScheduleOptions{
		Collation: collation,
		Location:  cfg.Location,
		Logger:    logger,
	})
	staff := application.NewStaffService(staffRepo, opts.Now, collation, logger)

	return &App{
		Config:   cfg,
		Logger:   logger,
		Pool:     pool,
		Periods:  periods,
		Schedule: schedule,
		Staff:    staff,
		Importer: importer.New(staff, schedule, cfg.DayConvention, logger),
		now:      opts.Now,
	}
}

// Close releases the database.
func (a *App) Close() error {
	if a == nil || a.Pool == nil {
		return nil
	}
	return a.Pool.Close()
}

// Handler returns the HTTP API with request logging and rate limiting.
func (a *App) Handler() http.Handler {
	return httptransport.NewRouter(httptransport.RouterConfig{
		Weeks:   httptransport.NewWeekHandler(a.Schedule, a.Logger),
		Entries: httptransport.NewEntryHandler(a.Schedule, a.Logger),
		Staff:   httptransport.NewStaffHandler(a.Staff, a.Logger),
		Middleware: []func(http.Handler) http.Handler{
			httptransport.RequestLogger(a.Logger),
			httptransport.RateLimit(a.Config.RateLimit, a.Config.RateBurst, a.Logger),
		},
	})
}

// ProvisionJob creates the current and the configured number of following
// weekly periods.
func (a *App) ProvisionJob() *provision.Job {
	return provision.NewJob(a.Schedule, a.now, a.Config.Location, a.Config.ProvisionWeeksAhead, a.Logger)
}

// Provisioner schedules ProvisionJob on the configured cron spec. It returns
// nil when provisioning is disabled.
func (a *App) Provisioner() (*provision.Scheduler, error) {
	if a.Config.ProvisionCron == "" {
		return nil, nil
	}
	return provision.NewScheduler(a.Config.ProvisionCron, a.Config.Location, a.ProvisionJob(), a.Logger)
}
