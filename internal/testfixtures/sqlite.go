package testfixtures

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/example/kita-dienstplan/internal/app"
	"github.com/example/kita-dienstplan/internal/calendar"
	"github.com/example/kita-dienstplan/internal/config"
	"github.com/example/kita-dienstplan/internal/persistence"
	"github.com/example/kita-dienstplan/internal/persistence/sqlite"
)

// SQLiteHarness provides a fully wired App and raw repository access backed by
// a temporary, migrated SQLite file.
type SQLiteHarness struct {
	App     *app.App
	Config  config.Config
	Factory *ServiceFactory

	Staff   persistence.StaffRepository
	Periods persistence.WeeklyScheduleRepository
	Entries persistence.ScheduleEntryRepository
}

// HarnessOption adjusts the configuration before the App is opened.
type HarnessOption func(*config.Config)

// WithDayConvention stores weekdays under convention.
func WithDayConvention(convention calendar.DayConvention) HarnessOption {
	return func(cfg *config.Config) { cfg.DayConvention = convention }
}

// NewSQLiteHarness opens a temporary database through app.New using the
// factory's clock and ids. The harness is closed with tb's cleanup.
func NewSQLiteHarness(tb testing.TB, factory *ServiceFactory, opts ...HarnessOption) *SQLiteHarness {
	tb.Helper()
	if factory == nil {
		factory = NewServiceFactory()
	}

	cfg := config.Default()
	cfg.SQLiteDSN = filepath.Join(tb.TempDir(), "dienstplan.db")
	cfg.Location = factory.Location
	cfg.ProvisionCron = ""
	cfg.RateLimit = 0
	for _, opt := range opts {
		opt(&cfg)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	instance, err := app.New(context.Background(), cfg, logger, app.Options{
		Now:         factory.Clock.NowFunc(),
		IDGenerator: factory.IDGenerator.NextFunc(),
	})
	if err != nil {
		tb.Fatalf("failed to open app: %v", err)
	}
	tb.Cleanup(func() { _ = instance.Close() })

	return &SQLiteHarness{
		App:     instance,
		Config:  cfg,
		Factory: factory,
		Staff:   sqlite.NewStaffRepository(instance.Pool),
		Periods: sqlite.NewWeeklyScheduleRepository(instance.Pool),
		Entries: sqlite.NewScheduleEntryRepository(instance.Pool),
	}
}

// SeedStaff registers the fixture through the staff service and returns it
// with the assigned id.
func (h *SQLiteHarness) SeedStaff(tb testing.TB, fixture StaffFixture) StaffFixture {
	tb.Helper()
	created, err := h.App.Staff.CreateStaff(context.Background(), fixture.Input())
	if err != nil {
		tb.Fatalf("failed to seed staff %s: %v", fixture.DisplayName(), err)
	}
	fixture.ID = created.ID
	return fixture
}
