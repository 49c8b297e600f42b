package application

import (
	"context"
	"errors"
	"log/slog"

	"github.com/example/kita-dienstplan/internal/calendar"
	"github.com/example/kita-dienstplan/internal/logging"
	"github.com/example/kita-dienstplan/internal/roster"
	"github.com/example/kita-dienstplan/internal/timeofday"
)

func defaultLogger(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}

func serviceLogger(ctx context.Context, base *slog.Logger, serviceName, operation string, attrs ...any) *slog.Logger {
	logger := logging.FromContext(ctx)
	if logger == nil {
		logger = base
	}
	if logger == nil {
		logger = slog.Default()
	}

	pairs := []any{"service", serviceName}
	if operation != "" {
		pairs = append(pairs, "operation", operation)
	}
	if len(attrs) > 0 {
		pairs = append(pairs, attrs...)
	}
	return logger.With(pairs...)
}

// ErrorKind maps sentinel and validation errors to a stable logging label.
func ErrorKind(err error) string {
	if err == nil {
		return ""
	}

	var pErr *PersistenceError
	if errors.As(err, &pErr) {
		return "persistence"
	}

	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrAlreadyExists):
		return "already_exists"
	case errors.Is(err, ErrPeriodMissing):
		return "dependency_missing"
	case errors.Is(err, calendar.ErrFormat), errors.Is(err, timeofday.ErrFormat):
		return "format"
	case errors.Is(err, calendar.ErrInvalidWeek),
		errors.Is(err, calendar.ErrInvalidDay),
		errors.Is(err, roster.ErrInvalidStatus):
		return "validation"
	}

	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return "validation"
	}

	return "unexpected"
}
