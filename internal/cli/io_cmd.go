package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/kita-dienstplan/internal/export"
)

func newImportCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "import DATEI",
		Short: `Wochenplan aus einer YAML-Datei einlesen ("-" für stdin)`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, release, err := s.open(cmd, oneShot)
			if err != nil {
				return err
			}
			defer release()

			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}

			report, err := a.Importer.Import(commandContext(cmd), r)
			if err != nil {
				return err
			}
			printf(cmd, "%s: %d Einträge angelegt, %d fehlgeschlagen\n", report.Week, len(report.Created), len(report.Failed))
			for _, failed := range report.Failed {
				printf(cmd, "  %s\n", failed.Error())
			}
			if len(report.Failed) > 0 {
				return fmt.Errorf("%d Zeilen konnten nicht importiert werden", len(report.Failed))
			}
			return nil
		},
	}
}

func newExportCmd(s *session) *cobra.Command {
	var wf weekFlags
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Wochenplan als Excel-Datei speichern",
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
			view, err := a.Schedule.WeekView(commandContext(cmd), week)
			if err != nil {
				return err
			}

			path := out
			if path == "" {
				path = export.FileName(week)
			}
			f, err := os.Create(path)
			if err != nil {
				return err
			}
			if err := export.WriteWeek(f, view); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			printf(cmd, "%s gespeichert\n", path)
			return nil
		},
	}
	wf.register(cmd)
	cmd.Flags().StringVarP(&out, "out", "o", "", "Zieldatei (Standard: dienstplan-JJJJ-Www.xlsx)")
	return cmd
}
