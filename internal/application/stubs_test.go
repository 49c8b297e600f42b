package application

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/example/kita-dienstplan/internal/calendar"
	"github.com/example/kita-dienstplan/internal/persistence"
	"github.com/example/kita-dienstplan/internal/roster"
)

type periodRepoStub struct {
	mu        sync.Mutex
	periods   map[calendar.WeekID]WeeklyPeriod
	findErr   error
	createErr error
	finds     int
	creates   int
}

func newPeriodRepoStub() *periodRepoStub {
	return &periodRepoStub{periods: make(map[calendar.WeekID]WeeklyPeriod)}
}

func (s *periodRepoStub) FindPeriod(ctx context.Context, week calendar.WeekID) (WeeklyPeriod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.finds++
	if s.findErr != nil {
		return WeeklyPeriod{}, s.findErr
	}
	p, ok := s.periods[week]
	if !ok {
		return WeeklyPeriod{}, persistence.ErrNotFound
	}
	return p, nil
}

func (s *periodRepoStub) CreatePeriod(ctx context.Context, period WeeklyPeriod) (WeeklyPeriod, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.creates++
	if s.createErr != nil {
		return WeeklyPeriod{}, s.createErr
	}
	s.periods[period.Week] = period
	return period, nil
}

type entryRepoStub struct {
	mu        sync.Mutex
	entries   []roster.Entry
	createErr error
	listErr   error
}

func (s *entryRepoStub) ListEntries(ctx context.Context, periodID string) ([]roster.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listErr != nil {
		return nil, s.listErr
	}
	out := make([]roster.Entry, 0)
	for _, e := range s.entries {
		if e.PeriodID == periodID {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *entryRepoStub) GetEntry(ctx context.Context, id string) (roster.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return roster.Entry{}, persistence.ErrNotFound
}

func (s *entryRepoStub) CreateEntry(ctx context.Context, entry roster.Entry) (roster.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.createErr != nil {
		return roster.Entry{}, s.createErr
	}
	s.entries = append(s.entries, entry)
	return entry, nil
}

func (s *entryRepoStub) UpdateEntry(ctx context.Context, entry roster.Entry) (roster.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.entries {
		if e.ID == entry.ID {
			s.entries[i] = entry
			return entry, nil
		}
	}
	return roster.Entry{}, persistence.ErrNotFound
}

func (s *entryRepoStub) DeleteEntry(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, e := range s.entries {
		if e.ID == id {
			s.entries = slices.Delete(s.entries, i, i+1)
			return nil
		}
	}
	return persistence.ErrNotFound
}

type staffRepoStub struct {
	mu     sync.Mutex
	staff  []Staff
	nextID int64
}

func newStaffRepoStub(members ...Staff) *staffRepoStub {
	s := &staffRepoStub{}
	for _, m := range members {
		if m.ID > s.nextID {
			s.nextID = m.ID
		}
		s.staff = append(s.staff, m)
	}
	return s
}

func (s *staffRepoStub) CreateStaff(ctx context.Context, staff Staff) (Staff, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	staff.ID = s.nextID
	s.staff = append(s.staff, staff)
	return staff, nil
}

func (s *staffRepoStub) GetStaff(ctx context.Context, id int64) (Staff, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.staff {
		if m.ID == id {
			return m, nil
		}
	}
	return Staff{}, persistence.ErrNotFound
}

func (s *staffRepoStub) FindStaffByName(ctx context.Context, firstName, lastName string) (Staff, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, m := range s.staff {
		if m.FirstName == firstName && m.LastName == lastName {
			return m, nil
		}
	}
	return Staff{}, persistence.ErrNotFound
}

func (s *staffRepoStub) ListStaff(ctx context.Context, activeOnly bool) ([]Staff, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Staff, 0, len(s.staff))
	for _, m := range s.staff {
		if activeOnly && !m.Active {
			continue
		}
		out = append(out, m)
	}
	return out, nil
}

func sequentialIDs(prefix string) func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s-%d", prefix, n)
	}
}
