package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/example/kita-dienstplan/internal/application"
	"github.com/example/kita-dienstplan/internal/calendar"
	"github.com/example/kita-dienstplan/internal/roster"
	"github.com/example/kita-dienstplan/internal/timeofday"
)

func sampleView() application.WeekView {
	week := calendar.WeekID{Year: 2024, Week: 3}
	entries := []roster.Entry{
		{
			ID: "e1", StaffID: 1, StaffName: "Anna Schmidt", StaffRole: "Erzieherin",
			Day: calendar.Monday, WorkDate: week.Date(calendar.Monday),
			Start: timeofday.MustParse("08:00"), End: timeofday.MustParse("16:00"), Status: roster.StatusNormal,
		},
		{
			ID: "e2", StaffID: 1, StaffName: "Anna Schmidt", StaffRole: "Erzieherin",
			Day: calendar.Tuesday, WorkDate: week.Date(calendar.Tuesday),
			Start: timeofday.MustParse("08:00"), End: timeofday.MustParse("16:00"), Status: roster.StatusVacation,
		},
	}
	return application.WeekView{
		Week:   week,
		Days:   week.Days(),
		Dates:  week.Dates(),
		Rows:   roster.BuildGrid(entries, nil),
		Totals: roster.DailyTotals(entries),
	}
}

func TestNames(t *testing.T) {
	t.Parallel()

	week := calendar.WeekID{Year: 2024, Week: 3}
	assert.Equal(t, "KW 03 2024", SheetName(week))
	assert.Equal(t, "dienstplan-2024-W03.xlsx", FileName(week))
}

func TestWriteWeek(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, WriteWeek(&buf, sampleView()))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	assert.Equal(t, []string{"KW 03 2024"}, f.GetSheetList())

	read := func(cell string) string {
		t.Helper()
		v, err := f.GetCellValue("KW 03 2024", cell)
		require.NoError(t, err)
		return v
	}

	assert.Equal(t, "Dienstplan KW 3/2024 (15.01.2024 bis 21.01.2024)", read("A1"))
	assert.Equal(t, "Mitarbeiter/in", read("A3"))
	assert.Equal(t, "Montag 15.01.2024", read("C3"))
	assert.Equal(t, "Freitag 19.01.2024", read("G3"))
	assert.Equal(t, "Stunden", read("H3"))

	assert.Equal(t, "Anna Schmidt", read("A4"))
	assert.Equal(t, "08:00–16:00", read("C4"))
	assert.Equal(t, "URLAUB", read("D4"))
	assert.Empty(t, read("E4"))
	assert.Equal(t, "7:30", read("H4"))

	assert.Equal(t, "Summe", read("A5"))
	assert.Equal(t, "7:30", read("C5"))
	assert.Equal(t, "0:00", read("D5"))
}
