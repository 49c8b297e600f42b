package cli

import (
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/example/kita-dienstplan/internal/application"
	"github.com/example/kita-dienstplan/internal/calendar"
	"github.com/example/kita-dienstplan/internal/roster"
)

func newEntryCmd(s *session) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entry",
		Short: "Dienstplaneinträge verwalten",
	}
	cmd.AddCommand(
		newEntryAddCmd(s),
		newEntryUpdateCmd(s),
		newEntryDeleteCmd(s),
	)
	return cmd
}

// parseDay accepts a German or English day name or an ISO day number.
func parseDay(value string) (calendar.DayOfWeek, error) {
	value = strings.TrimSpace(value)
	if n, err := strconv.Atoi(value); err == nil {
		return calendar.DayConventionISO.ToDay(n)
	}
	return calendar.ParseDayName(value)
}

func newEntryAddCmd(s *session) *cobra.Command {
	var wf weekFlags
	var staffID int64
	var day, start, end, status, notes string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Eintrag anlegen",
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
			weekday, err := parseDay(day)
			if err != nil {
				return err
			}

			entry, err := a.Schedule.CreateEntry(commandContext(cmd), application.CreateEntryParams{
				Week: week,
				Form: application.EntryForm{
					StaffID:   staffID,
					Day:       weekday,
					StartTime: start,
					EndTime:   end,
					Status:    status,
					Notes:     notes,
				},
			})
			if err != nil {
				return err
			}
			printf(cmd, "Eintrag %s angelegt: %s\n", entry.ID, describeEntry(entry))
			return nil
		},
	}
	wf.register(cmd)
	cmd.Flags().Int64Var(&staffID, "staff", 0, "ID der Mitarbeiterin / des Mitarbeiters")
	cmd.Flags().StringVar(&day, "day", "", "Wochentag (Name oder 1-7)")
	cmd.Flags().StringVar(&start, "start", "08:00", "Dienstbeginn HH:MM")
	cmd.Flags().StringVar(&end, "end", "16:00", "Dienstende HH:MM")
	cmd.Flags().StringVar(&status, "status", string(roster.StatusNormal), "NORMAL, FREI, URLAUB, KRANK oder FORTBILDUNG")
	cmd.Flags().StringVar(&notes, "notes", "", "Notiz")
	_ = cmd.MarkFlagRequired("staff")
	_ = cmd.MarkFlagRequired("day")
	return cmd
}

func newEntryUpdateCmd(s *session) *cobra.Command {
	var start, end, status, notes string

	cmd := &cobra.Command{
		Use:   "update ID",
		Short: "Zeiten, Status oder Notiz eines Eintrags ändern",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, release, err := s.open(cmd, oneShot)
			if err != nil {
				return err
			}
			defer release()

			var patch application.EntryPatch
			flags := cmd.Flags()
			if flags.Changed("start") {
				patch.StartTime = &start
			}
			if flags.Changed("end") {
				patch.EndTime = &end
			}
			if flags.Changed("status") {
				patch.Status = &status
			}
			if flags.Changed("notes") {
				patch.Notes = &notes
			}

			entry, err := a.Schedule.UpdateEntry(commandContext(cmd), application.UpdateEntryParams{EntryID: args[0], Patch: patch})
			if err != nil {
				return err
			}
			printf(cmd, "Eintrag %s geändert: %s\n", entry.ID, describeEntry(entry))
			return nil
		},
	}
	cmd.Flags().StringVar(&start, "start", "", "Dienstbeginn HH:MM")
	cmd.Flags().StringVar(&end, "end", "", "Dienstende HH:MM")
	cmd.Flags().StringVar(&status, "status", "", "NORMAL, FREI, URLAUB, KRANK oder FORTBILDUNG")
	cmd.Flags().StringVar(&notes, "notes", "", "Notiz")
	return cmd
}

func newEntryDeleteCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "delete ID",
		Short: "Eintrag löschen",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, release, err := s.open(cmd, oneShot)
			if err != nil {
				return err
			}
			defer release()

			if err := a.Schedule.DeleteEntry(commandContext(cmd), args[0]); err != nil {
				return err
			}
			printf(cmd, "Eintrag %s gelöscht\n", args[0])
			return nil
		},
	}
}

func describeEntry(e roster.Entry) string {
	text := roster.NewCell(e).Text
	return e.StaffName + ", " + e.Day.GermanName(false) + " " + e.WorkDate.GermanFormat() + ", " + text
}
