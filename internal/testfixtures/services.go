package testfixtures

import (
	"log/slog"
	"time"

	"github.com/example/kita-dienstplan/internal/application"
	"github.com/example/kita-dienstplan/internal/roster"
)

// ServiceFactory assists tests with constructing application services using
// deterministic identifiers and clocks.
type ServiceFactory struct {
	Clock       *Clock
	IDGenerator *IDGenerator
	Location    *time.Location
}

// ServiceFactoryOption configures a ServiceFactory instance.
type ServiceFactoryOption func(*ServiceFactory)

// NewServiceFactory constructs a ServiceFactory with defaults.
func NewServiceFactory(opts ...ServiceFactoryOption) *ServiceFactory {
	factory := &ServiceFactory{
		Clock:       NewClock(time.Time{}),
		IDGenerator: NewIDGenerator("id"),
		Location:    time.UTC,
	}
	for _, opt := range opts {
		opt(factory)
	}
	if factory.Clock == nil {
		factory.Clock = NewClock(time.Time{})
	}
	if factory.IDGenerator == nil {
		factory.IDGenerator = NewIDGenerator("id")
	}
	if factory.Location == nil {
		factory.Location = time.UTC
	}
	return factory
}

// WithClock overrides the clock used by the factory.
func WithClock(clock *Clock) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Clock = clock
	}
}

// WithIDGenerator overrides the identifier generator used by the factory.
func WithIDGenerator(generator *IDGenerator) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.IDGenerator = generator
	}
}

// WithLocation overrides the time zone "today" is computed in.
func WithLocation(loc *time.Location) ServiceFactoryOption {
	return func(factory *ServiceFactory) {
		factory.Location = loc
	}
}

// NewPeriodResolver builds a resolver over periods.
func (f *ServiceFactory) NewPeriodResolver(periods application.PeriodRepository, logger *slog.Logger) *application.PeriodResolver {
	return application.NewPeriodResolver(periods, f.IDGenerator.NextFunc(), f.Clock.NowFunc(), logger)
}

// ScheduleServiceDeps captures dependencies for constructing a schedule service.
type ScheduleServiceDeps struct {
	Entries   application.EntryRepository
	Periods   application.PeriodRepository
	Staff     application.StaffDirectory
	Collation roster.CompareFunc
	Logger    *slog.Logger
}

// NewScheduleService builds a schedule service using the supplied dependencies
// combined with the factory defaults.
func (f *ServiceFactory) NewScheduleService(deps ScheduleServiceDeps) *application.ScheduleService {
	return application.NewScheduleService(
		deps.Entries,
		f.NewPeriodResolver(deps.Periods, deps.Logger),
		deps.Staff,
		f.IDGenerator.NextFunc(),
		f.Clock.NowFunc(),
		application.ScheduleOptions{
			Collation: deps.Collation,
			Location:  f.Location,
			Logger:    deps.Logger,
		},
	)
}

// StaffServiceDeps captures dependencies for constructing a staff service.
type StaffServiceDeps struct {
	Staff     application.StaffRepository
	Collation roster.CompareFunc
	Logger    *slog.Logger
}

// NewStaffService builds a staff service using the supplied dependencies.
func (f *ServiceFactory) NewStaffService(deps StaffServiceDeps) *application.StaffService {
	return application.NewStaffService(deps.Staff, f.Clock.NowFunc(), deps.Collation, deps.Logger)
}
