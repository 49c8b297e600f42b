package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newServeCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "HTTP-API und automatische Wochenanlage starten",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()
			cmd.SetContext(ctx)

			a, release, err := s.open(cmd, longRunning)
			if err != nil {
				return err
			}
			defer release()
			return a.Serve(ctx)
		},
	}
}

func newMigrateCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Datenbankschema aktualisieren und Stand anzeigen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			// opening the app applies pending migrations
			a, release, err := s.open(cmd, oneShot)
			if err != nil {
				return err
			}
			defer release()

			status, err := a.Pool.MigrationStatus(commandContext(cmd))
			if err != nil {
				return err
			}
			printf(cmd, "Schema-Version: %s\n", status.CurrentVersion)
			rows := make([][]string, 0, len(status.Applied))
			for _, m := range status.Applied {
				rows = append(rows, []string{m.Version, m.AppliedAt.Local().Format("02.01.2006 15:04:05"), m.ExecutionTime.String()})
			}
			newPrinter(cmd.OutOrStdout()).table([]string{"Version", "Angewendet", "Dauer"}, rows)
			return nil
		},
	}
}

func newProvisionCmd(s *session) *cobra.Command {
	return &cobra.Command{
		Use:   "provision",
		Short: "Aktuelle und kommende Wochen einmalig anlegen",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, release, err := s.open(cmd, oneShot)
			if err != nil {
				return err
			}
			defer release()

			results, runErr := a.ProvisionJob().Run(commandContext(cmd))
			rows := make([][]string, 0, len(results))
			for _, r := range results {
				state := r.State.String()
				if r.Err != nil {
					state += ": " + r.Err.Error()
				}
				rows = append(rows, []string{r.Week.String(), state})
			}
			newPrinter(cmd.OutOrStdout()).table([]string{"Woche", "Ergebnis"}, rows)
			return runErr
		},
	}
}
