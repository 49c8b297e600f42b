// Package roster turns the flat list of schedule entries for one week into the
// staff-by-weekday grid and derives the totals shown next to it.
package roster

import (
	"slices"

	"github.com/example/kita-dienstplan/internal/calendar"
	"github.com/example/kita-dienstplan/internal/timeofday"
)

// RangeSeparator joins start and end of a NORMAL cell.
const RangeSeparator = "–"

// Cell is one populated slot of the grid.
type Cell struct {
	Entry Entry
	// Text is "HH:MM–HH:MM" for NORMAL entries and the status code otherwise.
	Text string
	// StatusClass is the lower-cased status, independent of Text.
	StatusClass string
	// WorkHours is the net working time ("7h 30min"), empty for non-NORMAL entries.
	WorkHours string
}

// StaffWeekRow is one staff member's week. Slots are indexed Monday..Friday.
type StaffWeekRow struct {
	StaffID     int64
	DisplayName string
	FirstName   string
	LastName    string
	Initials    string
	Role        string
	Trainee     bool
	Slots       [len(calendar.Workdays)]*Cell
}

// Slot returns the cell for day, nil when the day is empty or not a workday.
func (r StaffWeekRow) Slot(day calendar.DayOfWeek) *Cell {
	if !day.IsWorkday() {
		return nil
	}
	return r.Slots[day.Index()]
}

// WorkedMinutes sums the net working minutes of the row's NORMAL cells.
func (r StaffWeekRow) WorkedMinutes() timeofday.Minutes {
	var total timeofday.Minutes
	for _, c := range r.Slots {
		if c == nil {
			continue
		}
		working, _ := c.Entry.WorkingMinutes()
		total += working
	}
	return total
}

// NewCell computes the display values for a single entry.
func NewCell(e Entry) Cell {
	c := Cell{Entry: e, StatusClass: e.Status.Class()}
	if e.Status == StatusNormal {
		c.Text = timeofday.FormatPadded(e.Start) + RangeSeparator + timeofday.FormatPadded(e.End)
		if working, _ := e.WorkingMinutes(); working > 0 {
			c.WorkHours = timeofday.FormatDuration(working)
		}
		return c
	}
	c.Text = string(e.Status)
	return c
}

// BuildGrid groups entries by staff, places them into Monday..Friday slots and
// sorts the rows by display name using cmp. Weekend entries are dropped. Staff
// metadata is taken from the first entry seen for each staff member. When a
// staff member has more than one entry for the same day the first one wins.
// Rows with equal names keep a stable order by staff id. A nil cmp falls back
// to BinaryCollation.
func BuildGrid(entries []Entry, cmp CompareFunc) []StaffWeekRow {
	if cmp == nil {
		cmp = BinaryCollation
	}

	index := make(map[int64]int)
	rows := make([]StaffWeekRow, 0)
	for _, e := range entries {
		pos, ok := index[e.StaffID]
		if !ok {
			first, last := SplitName(e.StaffName)
			rows = append(rows, StaffWeekRow{
				StaffID:     e.StaffID,
				DisplayName: e.StaffName,
				FirstName:   first,
				LastName:    last,
				Initials:    Initials(first, last),
				Role:        e.StaffRole,
				Trainee:     e.Trainee,
			})
			pos = len(rows) - 1
			index[e.StaffID] = pos
		}

		if !e.Day.IsWorkday() {
			continue
		}
		slot := &rows[pos].Slots[e.Day.Index()]
		if *slot != nil {
			continue
		}
		cell := NewCell(e)
		*slot = &cell
	}

	slices.SortStableFunc(rows, func(a, b StaffWeekRow) int {
		if c := cmp(a.DisplayName, b.DisplayName); c != 0 {
			return c
		}
		return compareIDs(a.StaffID, b.StaffID)
	})
	return rows
}
