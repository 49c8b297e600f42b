package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/example/kita-dienstplan/internal/persistence"
)

// StaffRepository implements persistence.StaffRepository using SQLite
type StaffRepository struct {
	pool *ConnectionPool
}

// NewStaffRepository creates a new SQLite staff repository
func NewStaffRepository(pool *ConnectionPool) *StaffRepository {
	return &StaffRepository{pool: pool}
}

const staffColumns = `id, first_name, last_name, role, is_trainee, is_active, created_at, updated_at`

// CreateStaff inserts a staff member and returns the assigned id
func (r *StaffRepository) CreateStaff(ctx context.Context, staff persistence.Staff) (int64, error) {
	if strings.TrimSpace(staff.FirstName) == "" || strings.TrimSpace(staff.LastName) == "" {
		return 0, persistence.ErrConstraintViolation
	}
	now := time.Now().UTC()
	if staff.CreatedAt.IsZero() {
		staff.CreatedAt = now
	}
	if staff.UpdatedAt.IsZero() {
		staff.UpdatedAt = staff.CreatedAt
	}

	result, err := r.pool.DB().ExecContext(ctx, `
		INSERT INTO staff (first_name, last_name, role, is_trainee, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		staff.FirstName,
		staff.LastName,
		staff.Role,
		boolToInt(staff.Trainee),
		boolToInt(staff.Active),
		formatTimestamp(staff.CreatedAt),
		formatTimestamp(staff.UpdatedAt),
	)
	if err != nil {
		return 0, MapError(err)
	}
	id, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read staff id: %w", err)
	}
	return id, nil
}

// UpdateStaff overwrites the mutable columns of an existing staff member
func (r *StaffRepository) UpdateStaff(ctx context.Context, staff persistence.Staff) error {
	if staff.ID == 0 {
		return persistence.ErrNotFound
	}
	if staff.UpdatedAt.IsZero() {
		staff.UpdatedAt = time.Now().UTC()
	}
	result, err := r.pool.DB().ExecContext(ctx, `
		UPDATE staff
		SET first_name = ?, last_name = ?, role = ?, is_trainee = ?, is_active = ?, updated_at = ?
		WHERE id = ?
	`,
		staff.FirstName,
		staff.LastName,
		staff.Role,
		boolToInt(staff.Trainee),
		boolToInt(staff.Active),
		formatTimestamp(staff.UpdatedAt),
		staff.ID,
	)
	if err != nil {
		return MapError(err)
	}
	return requireAffected(result)
}

// GetStaff retrieves a staff member by id
func (r *StaffRepository) GetStaff(ctx context.Context, id int64) (persistence.Staff, error) {
	row := r.pool.DB().QueryRowContext(ctx, `SELECT `+staffColumns+` FROM staff WHERE id = ?`, id)
	return scanStaff(row)
}

// FindStaffByName looks a staff member up by exact first and last name
func (r *StaffRepository) FindStaffByName(ctx context.Context, firstName, lastName string) (persistence.Staff, error) {
	row := r.pool.DB().QueryRowContext(ctx,
		`SELECT `+staffColumns+` FROM staff WHERE first_name = ? AND last_name = ?`,
		strings.TrimSpace(firstName), strings.TrimSpace(lastName))
	return scanStaff(row)
}

// ListStaff returns staff ordered by last and first name. Callers that need
// locale-aware order sort again.
func (r *StaffRepository) ListStaff(ctx context.Context, activeOnly bool) ([]persistence.Staff, error) {
	query := `SELECT ` + staffColumns + ` FROM staff`
	if activeOnly {
		query += ` WHERE is_active = 1`
	}
	query += ` ORDER BY last_name, first_name, id`

	rows, err := r.pool.DB().QueryContext(ctx, query)
	if err != nil {
		return nil, MapError(err)
	}
	defer rows.Close()

	var staff []persistence.Staff
	for rows.Next() {
		s, err := scanStaff(rows)
		if err != nil {
			return nil, err
		}
		staff = append(staff, s)
	}
	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}
	return staff, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanStaff(row rowScanner) (persistence.Staff, error) {
	var (
		s                  persistence.Staff
		trainee, active    int
		createdAt, updated string
	)
	if err := row.Scan(&s.ID, &s.FirstName, &s.LastName, &s.Role, &trainee, &active, &createdAt, &updated); err != nil {
		if err == sql.ErrNoRows {
			return persistence.Staff{}, persistence.ErrNotFound
		}
		return persistence.Staff{}, MapError(err)
	}
	s.Trainee = trainee == 1
	s.Active = active == 1

	var err error
	if s.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return persistence.Staff{}, err
	}
	if s.UpdatedAt, err = parseTimestamp(updated); err != nil {
		return persistence.Staff{}, err
	}
	return s, nil
}
