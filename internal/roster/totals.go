package roster

import (
	"slices"

	"github.com/example/kita-dienstplan/internal/calendar"
	"github.com/example/kita-dienstplan/internal/timeofday"
)

// DayTotal aggregates the NORMAL shifts of one weekday.
type DayTotal struct {
	Day calendar.DayOfWeek
	// Minutes counts net working time of all staff.
	Minutes timeofday.Minutes
	// MinutesWithoutTrainees leaves trainees out, which is what the staffing ratio uses.
	MinutesWithoutTrainees timeofday.Minutes
	Staff                  int
	StaffWithoutTrainees   int
}

// DailyTotals returns one total per workday, Monday first.
func DailyTotals(entries []Entry) [len(calendar.Workdays)]DayTotal {
	var totals [len(calendar.Workdays)]DayTotal
	for i, day := range calendar.Workdays {
		totals[i].Day = day
	}
	for _, e := range entries {
		if !e.Day.IsWorkday() || !e.HasTimeRange() {
			continue
		}
		working, _ := e.WorkingMinutes()
		t := &totals[e.Day.Index()]
		t.Minutes += working
		t.Staff++
		if !e.Trainee {
			t.MinutesWithoutTrainees += working
			t.StaffWithoutTrainees++
		}
	}
	return totals
}

// StaffTotal aggregates one staff member's week.
type StaffTotal struct {
	StaffID     int64
	DisplayName string
	Trainee     bool
	Working     timeofday.Minutes
	Break       timeofday.Minutes
	// Days counts entries per status.
	Days map[Status]int
}

// StaffTotals sums working and break minutes per staff member, ordered by name.
func StaffTotals(entries []Entry, cmp CompareFunc) []StaffTotal {
	if cmp == nil {
		cmp = BinaryCollation
	}
	index := make(map[int64]int)
	totals := make([]StaffTotal, 0)
	for _, e := range entries {
		pos, ok := index[e.StaffID]
		if !ok {
			totals = append(totals, StaffTotal{
				StaffID:     e.StaffID,
				DisplayName: e.StaffName,
				Trainee:     e.Trainee,
				Days:        make(map[Status]int),
			})
			pos = len(totals) - 1
			index[e.StaffID] = pos
		}
		t := &totals[pos]
		working, brk := e.WorkingMinutes()
		t.Working += working
		t.Break += brk
		t.Days[e.Status]++
	}
	slices.SortStableFunc(totals, func(a, b StaffTotal) int {
		if c := cmp(a.DisplayName, b.DisplayName); c != 0 {
			return c
		}
		return compareIDs(a.StaffID, b.StaffID)
	})
	return totals
}

// WorkingAt returns the NORMAL entries on date whose shift includes minute,
// both ends inclusive, ordered by staff name.
func WorkingAt(entries []Entry, date calendar.Date, minute timeofday.Minutes, cmp CompareFunc) []Entry {
	return filterSorted(entries, cmp, func(e Entry) bool {
		return e.WorkDate == date && e.HasTimeRange() && e.Start <= minute && minute <= e.End
	})
}

// CoverageDuring returns the NORMAL entries on day whose shift overlaps the
// half-open interval [start, end), ordered by staff name.
func CoverageDuring(entries []Entry, day calendar.DayOfWeek, start, end timeofday.Minutes, cmp CompareFunc) []Entry {
	return filterSorted(entries, cmp, func(e Entry) bool {
		return e.Day == day && e.HasTimeRange() && timeofday.Overlaps(e.Start, e.End, start, end)
	})
}

func filterSorted(entries []Entry, cmp CompareFunc, keep func(Entry) bool) []Entry {
	if cmp == nil {
		cmp = BinaryCollation
	}
	out := make([]Entry, 0)
	for _, e := range entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	slices.SortStableFunc(out, func(a, b Entry) int {
		if c := cmp(a.StaffName, b.StaffName); c != 0 {
			return c
		}
		return compareIDs(a.StaffID, b.StaffID)
	})
	return out
}

func compareIDs(a, b int64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
