// Package export writes weekly rosters as XLSX workbooks.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/example/kita-dienstplan/internal/application"
	"github.com/example/kita-dienstplan/internal/calendar"
	"github.com/example/kita-dienstplan/internal/timeofday"
)

// ContentType is the media type of the written workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	titleRow  = 1
	headerRow = 3
	firstRow  = 4
)

// SheetName returns the worksheet title for a week, "KW 03 2024".
func SheetName(week calendar.WeekID) string {
	return fmt.Sprintf("KW %02d %d", week.Week, week.Year)
}

// FileName returns the suggested download name, "dienstplan-2024-W03.xlsx".
func FileName(week calendar.WeekID) string {
	return fmt.Sprintf("dienstplan-%s.xlsx", week)
}

// Workbook renders view into a new workbook with a single sheet. Columns are
// staff name, role, Montag..Freitag and the weekly working hours; the last
// row holds the daily totals. The caller closes the returned file.
func Workbook(view application.WeekView) (*excelize.File, error) {
	f := excelize.NewFile()
	sheet := SheetName(view.Week)
	index, err := f.NewSheet(sheet)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("export: create sheet: %w", err)
	}
	f.SetActiveSheet(index)
	if err := f.DeleteSheet("Sheet1"); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("export: drop default sheet: %w", err)
	}

	if err := fill(f, sheet, view); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}

// WriteWeek writes the workbook for view to w.
func WriteWeek(w io.Writer, view application.WeekView) error {
	f, err := Workbook(view)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("export: write workbook: %w", err)
	}
	return nil
}

func fill(f *excelize.File, sheet string, view application.WeekView) error {
	lastCol := len(calendar.Workdays) + 3

	title := fmt.Sprintf("Dienstplan KW %d/%d (%s bis %s)", view.Week.Week, view.Week.Year,
		view.Days[0].GermanFormat(), view.Days[6].GermanFormat())
	if err := f.SetCellValue(sheet, cellName(1, titleRow), title); err != nil {
		return fmt.Errorf("export: title: %w", err)
	}
	if err := f.MergeCell(sheet, cellName(1, titleRow), cellName(lastCol, titleRow)); err != nil {
		return fmt.Errorf("export: merge title: %w", err)
	}

	header := []any{"Mitarbeiter/in", "Funktion"}
	for _, day := range calendar.Workdays {
		header = append(header, fmt.Sprintf("%s %s", day.GermanName(false), view.Week.Date(day).GermanFormat()))
	}
	header = append(header, "Stunden")
	if err := f.SetSheetRow(sheet, cellName(1, headerRow), &header); err != nil {
		return fmt.Errorf("export: header: %w", err)
	}

	row := firstRow
	for _, staff := range view.Rows {
		values := []any{staff.DisplayName, staff.Role}
		for _, cell := range staff.Slots {
			if cell == nil {
				values = append(values, "")
				continue
			}
			values = append(values, cell.Text)
		}
		values = append(values, timeofday.FormatHours(staff.WorkedMinutes()))
		if err := f.SetSheetRow(sheet, cellName(1, row), &values); err != nil {
			return fmt.Errorf("export: row %d: %w", row, err)
		}
		row++
	}

	totals := []any{"Summe", ""}
	for _, total := range view.Totals {
		totals = append(totals, timeofday.FormatHours(total.Minutes))
	}
	if err := f.SetSheetRow(sheet, cellName(1, row), &totals); err != nil {
		return fmt.Errorf("export: totals: %w", err)
	}

	return style(f, sheet, lastCol, row)
}

func style(f *excelize.File, sheet string, lastCol, lastRow int) error {
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("export: style: %w", err)
	}
	title, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true, Size: 14}})
	if err != nil {
		return fmt.Errorf("export: style: %w", err)
	}
	if err := f.SetCellStyle(sheet, cellName(1, titleRow), cellName(1, titleRow), title); err != nil {
		return fmt.Errorf("export: style title: %w", err)
	}
	if err := f.SetCellStyle(sheet, cellName(1, headerRow), cellName(lastCol, headerRow), bold); err != nil {
		return fmt.Errorf("export: style header: %w", err)
	}
	if err := f.SetCellStyle(sheet, cellName(1, lastRow), cellName(lastCol, lastRow), bold); err != nil {
		return fmt.Errorf("export: style totals: %w", err)
	}
	if err := f.SetColWidth(sheet, "A", "A", 24); err != nil {
		return fmt.Errorf("export: column width: %w", err)
	}
	last, err := excelize.ColumnNumberToName(lastCol)
	if err != nil {
		return fmt.Errorf("export: column name: %w", err)
	}
	if err := f.SetColWidth(sheet, "B", last, 18); err != nil {
		return fmt.Errorf("export: column width: %w", err)
	}
	return nil
}

func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col, row)
	return name
}
