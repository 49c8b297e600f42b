package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/kita-dienstplan/internal/persistence"
)

func setupPool(t *testing.T) *ConnectionPool {
	t.Helper()

	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	pool, err := Open(ctx, filepath.Join(t.TempDir(), "dienstplan.db"), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = pool.Close() })
	require.NoError(t, pool.Migrate(ctx))
	return pool
}

var created = time.Date(2024, 1, 3, 9, 0, 0, 0, time.UTC)

func seedStaff(t *testing.T, pool *ConnectionPool, first, last string, trainee bool) int64 {
	t.Helper()
	id, err := NewStaffRepository(pool).CreateStaff(context.Background(), persistence.Staff{
		FirstName: first, LastName: last, Role: "Erzieher/in", Trainee: trainee, Active: true, CreatedAt: created,
	})
	require.NoError(t, err)
	return id
}

func seedWeek(t *testing.T, pool *ConnectionPool, id string, year, week int, start, end string) {
	t.Helper()
	require.NoError(t, NewWeeklyScheduleRepository(pool).CreateWeeklySchedule(context.Background(), persistence.WeeklySchedule{
		ID: id, Year: year, Week: week, StartDate: start, EndDate: end, CreatedAt: created,
	}))
}

func TestMigrateIsIdempotent(t *testing.T) {
	t.Parallel()

	pool := setupPool(t)
	ctx := context.Background()
	require.NoError(t, pool.Migrate(ctx))

	status, err := pool.MigrationStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, "001", status.CurrentVersion)
	assert.Empty(t, status.Pending)
}

func TestStaffRepository(t *testing.T) {
	t.Parallel()

	pool := setupPool(t)
	repo := NewStaffRepository(pool)
	ctx := context.Background()

	annaID := seedStaff(t, pool, "Anna", "Schmidt", false)
	seedStaff(t, pool, "Ben", "Albers", true)

	anna, err := repo.GetStaff(ctx, annaID)
	require.NoError(t, err)
	assert.Equal(t, "Schmidt", anna.LastName)
	assert.True(t, anna.Active)
	assert.False(t, anna.Trainee)
	assert.True(t, created.Equal(anna.CreatedAt))

	_, err = repo.CreateStaff(ctx, persistence.Staff{FirstName: "Anna", LastName: "Schmidt", Role: "x", Active: true})
	assert.ErrorIs(t, err, persistence.ErrDuplicate)

	found, err := repo.FindStaffByName(ctx, " Ben ", "Albers")
	require.NoError(t, err)
	assert.True(t, found.Trainee)

	_, err = repo.GetStaff(ctx, 999)
	assert.ErrorIs(t, err, persistence.ErrNotFound)

	anna.Active = false
	require.NoError(t, repo.UpdateStaff(ctx, anna))

	all, err := repo.ListStaff(ctx, false)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "Albers", all[0].LastName)

	active, err := repo.ListStaff(ctx, true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Ben", active[0].FirstName)

	assert.ErrorIs(t, repo.UpdateStaff(ctx, persistence.Staff{ID: 999, FirstName: "X", LastName: "Y"}), persistence.ErrNotFound)
}

func TestWeeklyScheduleRepository(t *testing.T) {
	t.Parallel()

	pool := setupPool(t)
	repo := NewWeeklyScheduleRepository(pool)
	ctx := context.Background()

	seedWeek(t, pool, "w2", 2024, 2, "2024-01-08", "2024-01-14")
	seedWeek(t, pool, "w1", 2024, 1, "2024-01-01", "2024-01-07")

	got, err := repo.GetWeeklySchedule(ctx, 2024, 1)
	require.NoError(t, err)
	assert.Equal(t, "w1", got.ID)
	assert.Equal(t, "2024-01-07", got.EndDate)

	err = repo.CreateWeeklySchedule(ctx, persistence.WeeklySchedule{ID: "other", Year: 2024, Week: 1, StartDate: "2024-01-01", EndDate: "2024-01-07"})
	assert.ErrorIs(t, err, persistence.ErrDuplicate)

	_, err = repo.GetWeeklySchedule(ctx, 2024, 3)
	assert.ErrorIs(t, err, persistence.ErrNotFound)

	list, err := repo.ListWeeklySchedules(ctx, 2024)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, 1, list[0].Week)

	err = repo.CreateWeeklySchedule(ctx, persistence.WeeklySchedule{ID: "bad", Year: 2024, Week: 54, StartDate: "x", EndDate: "y"})
	assert.ErrorIs(t, err, persistence.ErrConstraintViolation)
}

func TestScheduleEntryRepository(t *testing.T) {
	t.Parallel()

	pool := setupPool(t)
	repo := NewScheduleEntryRepository(pool)
	ctx := context.Background()

	annaID := seedStaff(t, pool, "Anna", "Schmidt", false)
	benID := seedStaff(t, pool, "Ben", "Albers", true)
	seedWeek(t, pool, "w1", 2024, 1, "2024-01-01", "2024-01-07")

	entry := persistence.ScheduleEntry{
		ID: "e1", WeeklyScheduleID: "w1", StaffID: annaID, DayOfWeek: 2, WorkDate: "2024-01-02",
		StartTime: "08:00", EndTime: "16:00", Status: "NORMAL", CreatedAt: created,
	}
	require.NoError(t, repo.CreateEntry(ctx, entry))
	require.NoError(t, repo.CreateEntry(ctx, persistence.ScheduleEntry{
		ID: "e2", WeeklyScheduleID: "w1", StaffID: benID, DayOfWeek: 1, WorkDate: "2024-01-01",
		StartTime: "08:00", EndTime: "16:00", Status: "FREI",
	}))

	dup := entry
	dup.ID = "e3"
	assert.ErrorIs(t, repo.CreateEntry(ctx, dup), persistence.ErrDuplicate)

	orphan := entry
	orphan.ID, orphan.StaffID = "e4", 999
	assert.ErrorIs(t, repo.CreateEntry(ctx, orphan), persistence.ErrForeignKeyViolation)

	badStatus := entry
	badStatus.ID, badStatus.DayOfWeek, badStatus.Status = "e5", 3, "PARTY"
	assert.ErrorIs(t, repo.CreateEntry(ctx, badStatus), persistence.ErrConstraintViolation)

	got, err := repo.GetEntry(ctx, "e1")
	require.NoError(t, err)
	assert.Equal(t, "Anna", got.StaffFirstName)
	assert.Equal(t, "08:00", got.StartTime)
	assert.False(t, got.StaffTrainee)

	got.ScheduleEntry.StartTime = "09:30"
	got.ScheduleEntry.Notes = "Elternabend"
	require.NoError(t, repo.UpdateEntry(ctx, got.ScheduleEntry))

	list, err := repo.ListEntries(ctx, "w1")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "e2", list[0].ID, "ordered by work date")
	assert.True(t, list[0].StaffTrainee)
	assert.Equal(t, "09:30", list[1].StartTime)
	assert.Equal(t, "Elternabend", list[1].Notes)

	require.NoError(t, repo.DeleteEntry(ctx, "e1"))
	assert.ErrorIs(t, repo.DeleteEntry(ctx, "e1"), persistence.ErrNotFound)
	_, err = repo.GetEntry(ctx, "e1")
	assert.ErrorIs(t, err, persistence.ErrNotFound)
}

func TestWithTransactionRollsBack(t *testing.T) {
	t.Parallel()

	pool := setupPool(t)
	ctx := context.Background()
	seedWeek(t, pool, "w1", 2024, 1, "2024-01-01", "2024-01-07")

	err := pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM weekly_schedules`); err != nil {
			return err
		}
		return persistence.ErrConstraintViolation
	})
	assert.ErrorIs(t, err, persistence.ErrConstraintViolation)

	_, err = NewWeeklyScheduleRepository(pool).GetWeeklySchedule(ctx, 2024, 1)
	assert.NoError(t, err)
}

func TestMapError(t *testing.T) {
	t.Parallel()

	assert.NoError(t, MapError(nil))
	assert.ErrorIs(t, MapError(sql.ErrNoRows), persistence.ErrNotFound)
	assert.ErrorIs(t, MapError(errors.New("UNIQUE constraint failed: staff.first_name")), persistence.ErrDuplicate)
	other := errors.New("disk I/O error")
	assert.Same(t, other, MapError(other))
}
