package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/example/kita-dienstplan/internal/persistence"
)

// WeeklyScheduleRepository implements persistence.WeeklyScheduleRepository
type WeeklyScheduleRepository struct {
	pool *ConnectionPool
}

// NewWeeklyScheduleRepository creates a new SQLite weekly schedule repository
func NewWeeklyScheduleRepository(pool *ConnectionPool) *WeeklyScheduleRepository {
	return &WeeklyScheduleRepository{pool: pool}
}

// CreateWeeklySchedule inserts a period. A second period for the same
// (year, week) yields persistence.ErrDuplicate.
func (r *WeeklyScheduleRepository) CreateWeeklySchedule(ctx context.Context, schedule persistence.WeeklySchedule) error {
	if schedule.ID == "" {
		return persistence.ErrConstraintViolation
	}
	if schedule.CreatedAt.IsZero() {
		schedule.CreatedAt = time.Now().UTC()
	}
	_, err := r.pool.DB().ExecContext(ctx, `
		INSERT INTO weekly_schedules (id, year, week, start_date, end_date, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		schedule.ID,
		schedule.Year,
		schedule.Week,
		schedule.StartDate,
		schedule.EndDate,
		formatTimestamp(schedule.CreatedAt),
	)
	return MapError(err)
}

// GetWeeklySchedule retrieves the period of an ISO week
func (r *WeeklyScheduleRepository) GetWeeklySchedule(ctx context.Context, year, week int) (persistence.WeeklySchedule, error) {
	row := r.pool.DB().QueryRowContext(ctx, `
		SELECT id, year, week, start_date, end_date, created_at
		FROM weekly_schedules
		WHERE year = ? AND week = ?
	`, year, week)
	return scanWeeklySchedule(row)
}

// ListWeeklySchedules returns the periods of a year in week order
func (r *WeeklyScheduleRepository) ListWeeklySchedules(ctx context.Context, year int) ([]persistence.WeeklySchedule, error) {
	rows, err := r.pool.DB().QueryContext(ctx, `
		SELECT id, year, week, start_date, end_date, created_at
		FROM weekly_schedules
		WHERE year = ?
		ORDER BY week
	`, year)
	if err != nil {
		return nil, MapError(err)
	}
	defer rows.Close()

	var schedules []persistence.WeeklySchedule
	for rows.Next() {
		s, err := scanWeeklySchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return schedules, nil
}

func scanWeeklySchedule(row rowScanner) (persistence.WeeklySchedule, error) {
	var (
		s         persistence.WeeklySchedule
		createdAt string
	)
	if err := row.Scan(&s.ID, &s.Year, &s.Week, &s.StartDate, &s.EndDate, &createdAt); err != nil {
		if err == sql.ErrNoRows {
			return persistence.WeeklySchedule{}, persistence.ErrNotFound
		}
		return persistence.WeeklySchedule{}, MapError(err)
	}
	var err error
	if s.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return persistence.WeeklySchedule{}, err
	}
	return s, nil
}
