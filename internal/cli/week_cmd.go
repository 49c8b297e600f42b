package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/kita-dienstplan/internal/app"
	"github.com/example/kita-dienstplan/internal/calendar"
	"github.com/example/kita-dienstplan/internal/roster"
	"github.com/example/kita-dienstplan/internal/timeofday"
)

// weekFlags selects a week: --week wins, otherwise the current week shifted
// by --next and --prev.
type weekFlags struct {
	week string
	next int
	prev int
}

func (f *weekFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.week, "week", "", `Kalenderwoche, z.B. "2024-W03" (Standard: aktuelle Woche)`)
	cmd.Flags().IntVar(&f.next, "next", 0, "Wochen vorwärts")
	cmd.Flags().IntVar(&f.prev, "prev", 0, "Wochen zurück")
}

func (f *weekFlags) resolve(a *app.App) (calendar.WeekID, error) {
	var week calendar.WeekID
	if strings.TrimSpace(f.week) != "" {
		parsed, err := calendar.ParseWeekID(f.week)
		if err != nil {
			return calendar.WeekID{}, err
		}
		week = parsed
	} else {
		week = a.Schedule.CurrentWeek()
	}
	for range f.next {
		week = week.Next()
	}
	for range f.prev {
		week = week.Previous()
	}
	return week, nil
}

func newWeekCmd(s *session) *cobra.Command {
	var wf weekFlags
	cmd := &cobra.Command{
		Use:     "week",
		Aliases: []string{"grid"},
		Short:   "Wochenplan anzeigen",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, release, err := s.open(cmd, oneShot)
			if err != nil {
				return err
			}
			defer release()

			week, err := wf.resolve(a)
			if err != nil {
				return err
			}
			view, err := a.Schedule.WeekView(commandContext(cmd), week)
			if err != nil {
				return err
			}

			p := newPrinter(cmd.OutOrStdout())
			p.title(fmt.Sprintf("Dienstplan KW %d/%d (%s bis %s)",
				week.Week, week.Year, view.Days[0].GermanFormat(), view.Days[4].GermanFormat()))
			if len(view.Rows) == 0 {
				printf(cmd, "Keine Einträge.\n")
				return nil
			}

			headers := []string{"Mitarbeiter/in"}
			for _, day := range calendar.Workdays {
				headers = append(headers, day.GermanName(true)+" "+view.Days[day.Index()].GermanFormat()[:6])
			}
			headers = append(headers, "Stunden")

			rows := make([][]string, 0, len(view.Rows)+1)
			for _, row := range view.Rows {
				name := row.DisplayName
				if row.Trainee {
					name += " (Azubi)"
				}
				line := []string{name}
				for _, cell := range row.Slots {
					if cell == nil {
						line = append(line, "")
						continue
					}
					line = append(line, p.status(cell.Entry.Status, cell.Text))
				}
				line = append(line, timeofday.FormatHours(row.WorkedMinutes()))
				rows = append(rows, line)
			}

			sum := []string{"Summe"}
			for _, t := range view.Totals {
				sum = append(sum, fmt.Sprintf("%s (%d)", timeofday.FormatHours(t.Minutes), t.Staff))
			}
			rows = append(rows, sum)

			p.table(headers, rows)
			return nil
		},
	}
	wf.register(cmd)
	return cmd
}

func newTotalsCmd(s *session) *cobra.Command {
	var wf weekFlags
	cmd := &cobra.Command{
		Use:   "totals",
		Short: "Stunden pro Tag und Mitarbeiter/in",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, release, err := s.open(cmd, oneShot)
			if err != nil {
				return err
			}
			defer release()

			week, err := wf.resolve(a)
			if err != nil {
				return err
			}
			ctx := commandContext(cmd)
			days, err := a.Schedule.DailyTotals(ctx, week)
			if err != nil {
				return err
			}
			staff, err := a.Schedule.StaffTotals(ctx, week)
			if err != nil {
				return err
			}

			p := newPrinter(cmd.OutOrStdout())
			p.title("Tagessummen " + week.String())
			dayRows := make([][]string, 0, len(days))
			for _, t := range days {
				dayRows = append(dayRows, []string{
					t.Day.GermanName(false),
					timeofday.FormatHours(t.Minutes),
					strconv.Itoa(t.Staff),
					timeofday.FormatHours(t.MinutesWithoutTrainees),
					strconv.Itoa(t.StaffWithoutTrainees),
				})
			}
			p.table([]string{"Tag", "Stunden", "Personal", "Stunden ohne Azubis", "Personal ohne Azubis"}, dayRows)

			printf(cmd, "\n")
			p.title("Wochensummen " + week.String())
			staffRows := make([][]string, 0, len(staff))
			for _, t := range staff {
				staffRows = append(staffRows, []string{
					t.DisplayName,
					timeofday.FormatHours(t.Working),
					timeofday.FormatHours(t.Break),
					statusCounts(t.Days),
				})
			}
			p.table([]string{"Mitarbeiter/in", "Arbeitszeit", "Pausen", "Tage"}, staffRows)
			return nil
		},
	}
	wf.register(cmd)
	return cmd
}

func statusCounts(days map[roster.Status]int) string {
	parts := make([]string, 0, len(days))
	for _, status := range roster.Statuses {
		if n := days[status]; n > 0 {
			parts = append(parts, fmt.Sprintf("%s %d", status.Label(), n))
		}
	}
	return strings.Join(parts, ", ")
}

func newWorkingCmd(s *session) *cobra.Command {
	var date, at, until string
	cmd := &cobra.Command{
		Use:   "working",
		Short: "Wer arbeitet zu einem Zeitpunkt?",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, release, err := s.open(cmd, oneShot)
			if err != nil {
				return err
			}
			defer release()

			day := a.Schedule.Today()
			if date != "" {
				if day, err = calendar.ParseISO(date); err != nil {
					return err
				}
			}
			minute, err := timeofday.Parse(at)
			if err != nil {
				return err
			}

			p := newPrinter(cmd.OutOrStdout())
			var entries []roster.Entry
			if until != "" {
				end, err := timeofday.Parse(until)
				if err != nil {
					return err
				}
				if entries, err = a.Schedule.CoverageDuring(commandContext(cmd), day, minute, end); err != nil {
					return err
				}
				p.title(fmt.Sprintf("Im Dienst am %s zwischen %s und %s", day.GermanFormat(), timeofday.FormatPadded(minute), timeofday.FormatPadded(end)))
			} else {
				if entries, err = a.Schedule.WorkingAt(commandContext(cmd), day, minute); err != nil {
					return err
				}
				p.title(fmt.Sprintf("Im Dienst am %s um %s", day.GermanFormat(), timeofday.FormatPadded(minute)))
			}
			if len(entries) == 0 {
				printf(cmd, "Niemand.\n")
				return nil
			}
			rows := make([][]string, 0, len(entries))
			for _, e := range entries {
				rows = append(rows, []string{e.StaffName, e.StaffRole, timeofday.FormatPadded(e.Start) + roster.RangeSeparator + timeofday.FormatPadded(e.End)})
			}
			p.table([]string{"Mitarbeiter/in", "Funktion", "Dienst"}, rows)
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Datum YYYY-MM-DD (Standard: heute)")
	cmd.Flags().StringVar(&at, "time", "", "Uhrzeit HH:MM")
	cmd.Flags().StringVar(&until, "until", "", "Ende eines Zeitraums HH:MM (statt eines Zeitpunkts)")
	_ = cmd.MarkFlagRequired("time")
	return cmd
}
