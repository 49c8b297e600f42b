package sqlite

import (
	"context"
	"database/sql"
	"time"

	"github.com/example/kita-dienstplan/internal/persistence"
)

// ScheduleEntryRepository implements persistence.ScheduleEntryRepository
type ScheduleEntryRepository struct {
	pool *ConnectionPool
}

// NewScheduleEntryRepository creates a new SQLite schedule entry repository
func NewScheduleEntryRepository(pool *ConnectionPool) *ScheduleEntryRepository {
	return &ScheduleEntryRepository{pool: pool}
}

const entryWithStaffQuery = `
	SELECT e.id, e.weekly_schedule_id, e.staff_id, e.day_of_week, e.work_date,
	       e.start_time, e.end_time, e.status, e.notes, e.created_at, e.updated_at,
	       s.first_name, s.last_name, s.role, s.is_trainee
	FROM schedule_entries e
	JOIN staff s ON s.id = e.staff_id
`

// CreateEntry inserts an entry. The period, staff member and day must form a
// unique triple.
func (r *ScheduleEntryRepository) CreateEntry(ctx context.Context, entry persistence.ScheduleEntry) error {
	if entry.ID == "" || entry.WeeklyScheduleID == "" {
		return persistence.ErrConstraintViolation
	}
	now := time.Now().UTC()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = entry.CreatedAt
	}

	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, `
			INSERT INTO schedule_entries (
				id, weekly_schedule_id, staff_id, day_of_week, work_date,
				start_time, end_time, status, notes, created_at, updated_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			entry.ID,
			entry.WeeklyScheduleID,
			entry.StaffID,
			entry.DayOfWeek,
			entry.WorkDate,
			entry.StartTime,
			entry.EndTime,
			entry.Status,
			entry.Notes,
			formatTimestamp(entry.CreatedAt),
			formatTimestamp(entry.UpdatedAt),
		)
		return MapError(err)
	})
}

// UpdateEntry overwrites time range, status and notes of an entry
func (r *ScheduleEntryRepository) UpdateEntry(ctx context.Context, entry persistence.ScheduleEntry) error {
	if entry.ID == "" {
		return persistence.ErrNotFound
	}
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = time.Now().UTC()
	}
	result, err := r.pool.DB().ExecContext(ctx, `
		UPDATE schedule_entries
		SET start_time = ?, end_time = ?, status = ?, notes = ?, updated_at = ?
		WHERE id = ?
	`,
		entry.StartTime,
		entry.EndTime,
		entry.Status,
		entry.Notes,
		formatTimestamp(entry.UpdatedAt),
		entry.ID,
	)
	if err != nil {
		return MapError(err)
	}
	return requireAffected(result)
}

// GetEntry retrieves an entry joined with its staff member
func (r *ScheduleEntryRepository) GetEntry(ctx context.Context, id string) (persistence.EntryWithStaff, error) {
	row := r.pool.DB().QueryRowContext(ctx, entryWithStaffQuery+` WHERE e.id = ?`, id)
	return scanEntryWithStaff(row)
}

// ListEntries returns the entries of one period ordered by work date
func (r *ScheduleEntryRepository) ListEntries(ctx context.Context, weeklyScheduleID string) ([]persistence.EntryWithStaff, error) {
	rows, err := r.pool.DB().QueryContext(ctx,
		entryWithStaffQuery+` WHERE e.weekly_schedule_id = ? ORDER BY e.work_date, e.staff_id`,
		weeklyScheduleID)
	if err != nil {
		return nil, MapError(err)
	}
	defer rows.Close()

	var entries []persistence.EntryWithStaff
	for rows.Next() {
		e, err := scanEntryWithStaff(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return entries, nil
}

// DeleteEntry removes an entry
func (r *ScheduleEntryRepository) DeleteEntry(ctx context.Context, id string) error {
	result, err := r.pool.DB().ExecContext(ctx, `DELETE FROM schedule_entries WHERE id = ?`, id)
	if err != nil {
		return MapError(err)
	}
	return requireAffected(result)
}

func scanEntryWithStaff(row rowScanner) (persistence.EntryWithStaff, error) {
	var (
		e                  persistence.EntryWithStaff
		createdAt, updated string
		trainee            int
	)
	err := row.Scan(
		&e.ID, &e.WeeklyScheduleID, &e.StaffID, &e.DayOfWeek, &e.WorkDate,
		&e.StartTime, &e.EndTime, &e.Status, &e.Notes, &createdAt, &updated,
		&e.StaffFirstName, &e.StaffLastName, &e.StaffRole, &trainee,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return persistence.EntryWithStaff{}, persistence.ErrNotFound
		}
		return persistence.EntryWithStaff{}, MapError(err)
	}
	e.StaffTrainee = trainee == 1
	if e.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return persistence.EntryWithStaff{}, err
	}
	if e.UpdatedAt, err = parseTimestamp(updated); err != nil {
		return persistence.EntryWithStaff{}, err
	}
	return e, nil
}
