package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/example/kita-dienstplan/internal/persistence"
	"github.com/example/kita-dienstplan/internal/roster"
)

// StaffRepository captures the persistence operations needed by the staff service.
type StaffRepository interface {
	CreateStaff(ctx context.Context, staff Staff) (Staff, error)
	GetStaff(ctx context.Context, id int64) (Staff, error)
	FindStaffByName(ctx context.Context, firstName, lastName string) (Staff, error)
	ListStaff(ctx context.Context, activeOnly bool) ([]Staff, error)
}

// StaffService orchestrates validation and persistence for the team list.
type StaffService struct {
	staff     StaffRepository
	now       func() time.Time
	collation roster.CompareFunc
	logger    *slog.Logger
}

// NewStaffService wires dependencies for the staff service.
func NewStaffService(staff StaffRepository, now func() time.Time, collation roster.CompareFunc, logger *slog.Logger) *StaffService {
	if now == nil {
		now = time.Now
	}
	if collation == nil {
		collation = roster.BinaryCollation
	}
	return &StaffService{staff: staff, now: now, collation: collation, logger: defaultLogger(logger)}
}

// CreateStaff validates input and persists a new, active staff member.
func (s *StaffService) CreateStaff(ctx context.Context, input StaffInput) (staff Staff, err error) {
	if s == nil {
		err = fmt.Errorf("StaffService is nil")
		return
	}

	normalized := normalizeStaffInput(input)
	logger := serviceLogger(ctx, s.logger, "StaffService", "CreateStaff",
		"name", strings.TrimSpace(normalized.FirstName+" "+normalized.LastName),
	)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "failed to create staff", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.With("staff_id", staff.ID).InfoContext(ctx, "staff created")
	}()

	if vErr := validateStaffInput(normalized); vErr.HasErrors() {
		err = vErr
		return
	}
	if s.staff == nil {
		err = fmt.Errorf("staff repository not configured")
		return
	}

	if _, findErr := s.staff.FindStaffByName(ctx, normalized.FirstName, normalized.LastName); findErr == nil {
		err = fmt.Errorf("%w: staff %s %s", ErrAlreadyExists, normalized.FirstName, normalized.LastName)
		return
	} else if !isNotFoundError(findErr) {
		err = findErr
		return
	}

	created := s.now()
	staff, err = s.staff.CreateStaff(ctx, Staff{
		FirstName: normalized.FirstName,
		LastName:  normalized.LastName,
		Role:      normalized.Role,
		Trainee:   normalized.Trainee,
		Active:    true,
		CreatedAt: created,
		UpdatedAt: created,
	})
	if err != nil {
		err = mapStaffRepoError(err)
	}
	return staff, err
}

// GetStaff returns one staff member.
func (s *StaffService) GetStaff(ctx context.Context, id int64) (Staff, error) {
	if s == nil || s.staff == nil {
		return Staff{}, fmt.Errorf("staff repository not configured")
	}
	staff, err := s.staff.GetStaff(ctx, id)
	if err != nil {
		return Staff{}, mapStaffRepoError(err)
	}
	return staff, nil
}

// FindByName resolves a display name ("Anna Schmidt" or "Schmidt, Anna").
func (s *StaffService) FindByName(ctx context.Context, fullName string) (Staff, error) {
	if s == nil || s.staff == nil {
		return Staff{}, fmt.Errorf("staff repository not configured")
	}
	first, last := roster.SplitName(fullName)
	staff, err := s.staff.FindStaffByName(ctx, first, last)
	if err != nil {
		return Staff{}, mapStaffRepoError(err)
	}
	return staff, nil
}

// ListStaff returns the team ordered by display name.
func (s *StaffService) ListStaff(ctx context.Context, activeOnly bool) ([]Staff, error) {
	if s == nil {
		return nil, fmt.Errorf("StaffService is nil")
	}
	if s.staff == nil {
		return nil, nil
	}

	staff, err := s.staff.ListStaff(ctx, activeOnly)
	if err != nil {
		return nil, err
	}

	out := slices.Clone(staff)
	slices.SortStableFunc(out, func(a, b Staff) int {
		if c := s.collation(a.DisplayName(), b.DisplayName()); c != 0 {
			return c
		}
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		default:
			return 0
		}
	})
	return out, nil
}

func normalizeStaffInput(input StaffInput) StaffInput {
	return StaffInput{
		FirstName: strings.TrimSpace(input.FirstName),
		LastName:  strings.TrimSpace(input.LastName),
		Role:      strings.TrimSpace(input.Role),
		Trainee:   input.Trainee,
	}
}

func validateStaffInput(input StaffInput) *ValidationError {
	vErr := &ValidationError{}
	if input.FirstName == "" {
		vErr.add("firstName", msgRequired)
	}
	if input.LastName == "" {
		vErr.add("lastName", msgRequired)
	}
	if input.Role == "" {
		vErr.add("role", msgRequired)
	}
	return vErr
}

func mapStaffRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case isNotFoundError(err):
		return ErrNotFound
	case errors.Is(err, persistence.ErrDuplicate):
		return ErrAlreadyExists
	default:
		return err
	}
}
