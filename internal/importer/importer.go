// Package importer loads weekly rosters from YAML files and feeds every row
// through the same service path as interactive entry creation.
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	yaml "go.yaml.in/yaml/v3"

	"github.com/example/kita-dienstplan/internal/application"
	"github.com/example/kita-dienstplan/internal/calendar"
	"github.com/example/kita-dienstplan/internal/roster"
)

// Times applied when a row leaves start or end empty.
const (
	DefaultStart = "08:00"
	DefaultEnd   = "16:00"
)

// File is the document layout:
//
//	year: 2024
//	week: 3
//	entries:
//	  - staff: Anna Schmidt
//	    day: Montag
//	    start: "07:30"
//	    end: "15:30"
//	    status: NORMAL
type File struct {
	Year    int   `yaml:"year"`
	Week    int   `yaml:"week"`
	Entries []Row `yaml:"entries"`
}

// Row is one entry line. Day is a German or English weekday name or a number
// in the importer's day convention. Status defaults to NORMAL.
type Row struct {
	Staff  string `yaml:"staff"`
	Day    string `yaml:"day"`
	Start  string `yaml:"start"`
	End    string `yaml:"end"`
	Status string `yaml:"status"`
	Notes  string `yaml:"notes"`
}

type staffFinder interface {
	FindByName(ctx context.Context, fullName string) (application.Staff, error)
}

type entryCreator interface {
	CreateEntry(ctx context.Context, params application.CreateEntryParams) (roster.Entry, error)
}

// RowError reports a row that could not be imported. Row is 1-based.
type RowError struct {
	Row   int
	Staff string
	Err   error
}

func (e RowError) Error() string {
	return fmt.Sprintf("Zeile %d (%s): %v", e.Row, e.Staff, e.Err)
}

func (e RowError) Unwrap() error { return e.Err }

// Report summarizes an import run.
type Report struct {
	Week    calendar.WeekID
	Created []roster.Entry
	Failed  []RowError
}

// Importer turns YAML week files into schedule entries.
type Importer struct {
	staff      staffFinder
	entries    entryCreator
	convention calendar.DayConvention
	logger     *slog.Logger
}

// New wires an Importer. Numeric days are read in convention.
func New(staff staffFinder, entries entryCreator, convention calendar.DayConvention, logger *slog.Logger) *Importer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Importer{staff: staff, entries: entries, convention: convention, logger: logger}
}

// Decode parses a week file. Unknown keys are rejected.
func Decode(r io.Reader) (File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return File{}, fmt.Errorf("importer: empty document")
		}
		return File{}, fmt.Errorf("importer: yaml: %w", err)
	}
	return f, nil
}

// Import reads a week file from r and creates its entries. Row failures are
// collected in the report and do not stop the run; a malformed document or an
// invalid week fails the whole import.
func (im *Importer) Import(ctx context.Context, r io.Reader) (Report, error) {
	f, err := Decode(r)
	if err != nil {
		return Report{}, err
	}
	week := calendar.WeekID{Year: f.Year, Week: f.Week}
	if err := week.Validate(); err != nil {
		return Report{}, fmt.Errorf("importer: %w", err)
	}

	logger := im.logger.With("component", "importer", "week", week.String())
	report := Report{Week: week}
	for i, row := range f.Entries {
		entry, err := im.importRow(ctx, week, row)
		if err != nil {
			rowErr := RowError{Row: i + 1, Staff: row.Staff, Err: err}
			logger.WarnContext(ctx, "row skipped", "row", rowErr.Row, "staff", row.Staff, "error", err, "error_kind", application.ErrorKind(err))
			report.Failed = append(report.Failed, rowErr)
			continue
		}
		report.Created = append(report.Created, entry)
	}

	logger.InfoContext(ctx, "import finished", "created", len(report.Created), "failed", len(report.Failed))
	return report, nil
}

func (im *Importer) importRow(ctx context.Context, week calendar.WeekID, row Row) (roster.Entry, error) {
	day, err := im.parseDay(row.Day)
	if err != nil {
		return roster.Entry{}, err
	}
	staff, err := im.staff.FindByName(ctx, row.Staff)
	if err != nil {
		return roster.Entry{}, err
	}

	form := application.EntryForm{
		StaffID:   staff.ID,
		Day:       day,
		StartTime: withDefault(row.Start, DefaultStart),
		EndTime:   withDefault(row.End, DefaultEnd),
		Status:    withDefault(row.Status, string(roster.StatusNormal)),
		Notes:     row.Notes,
	}
	return im.entries.CreateEntry(ctx, application.CreateEntryParams{Week: week, Form: form})
}

func (im *Importer) parseDay(value string) (calendar.DayOfWeek, error) {
	value = strings.TrimSpace(value)
	if n, err := strconv.Atoi(value); err == nil {
		return im.convention.ToDay(n)
	}
	return calendar.ParseDayName(value)
}

func withDefault(value, fallback string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return fallback
}
