// Package cli implements the dienstplan command line.
package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/kita-dienstplan/internal/app"
	"github.com/example/kita-dienstplan/internal/config"
	"github.com/example/kita-dienstplan/internal/logging"
)

// Env holds what commands take from their surroundings.
type Env struct {
	// App is used as-is when set and never closed by a command. Otherwise
	// each command opens its own from the loaded configuration.
	App *app.App
	// EnvFiles are passed to config.Load.
	EnvFiles []string
}

type rootFlags struct {
	dsn      string
	logLevel string
}

// NewRootCmd creates the top-level "dienstplan" command and registers all
// subcommands.
func NewRootCmd(env Env) *cobra.Command {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "dienstplan",
		Short:         "Wochendienstplan für die Kita",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.dsn, "db", "", "SQLite-Datenbank (überschreibt DIENSTPLAN_SQLITE_DSN)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log-Level (debug, info, warn, error)")

	s := &session{env: env, flags: flags}
	root.AddCommand(
		newServeCmd(s),
		newMigrateCmd(s),
		newProvisionCmd(s),
		newWeekCmd(s),
		newTotalsCmd(s),
		newWorkingCmd(s),
		newEntryCmd(s),
		newStaffCmd(s),
		newImportCmd(s),
		newExportCmd(s),
	)
	return root
}

// session resolves configuration and the App for one command invocation.
type session struct {
	env   Env
	flags *rootFlags
}

type runMode int

const (
	// oneShot commands log warnings and above as text on stderr.
	oneShot runMode = iota
	// longRunning commands log with the configured level and format on stdout.
	longRunning
)

func (s *session) config(mode runMode) (config.Config, error) {
	if s.env.App != nil {
		return s.env.App.Config, nil
	}
	cfg, err := config.Load(s.env.EnvFiles...)
	if err != nil {
		return config.Config{}, err
	}
	if s.flags.dsn != "" {
		cfg.SQLiteDSN = s.flags.dsn
	}
	if mode == oneShot {
		cfg.LogLevel = "warn"
		cfg.LogFormat = "text"
	}
	if s.flags.logLevel != "" {
		cfg.LogLevel = s.flags.logLevel
	}
	return cfg, nil
}

// open returns the App for cmd and a release func the caller must defer.
func (s *session) open(cmd *cobra.Command, mode runMode) (*app.App, func(), error) {
	if s.env.App != nil {
		return s.env.App, func() {}, nil
	}
	cfg, err := s.config(mode)
	if err != nil {
		return nil, nil, err
	}
	out := cmd.ErrOrStderr()
	if mode == longRunning {
		out = cmd.OutOrStdout()
	}
	logger := logging.New(out, cfg.LogLevel, cfg.LogFormat)
	instance, err := app.New(commandContext(cmd), cfg, logger, app.Options{})
	if err != nil {
		return nil, nil, err
	}
	release := func() {
		if err := instance.Close(); err != nil {
			logger.Error("failed to close storage", "error", err)
		}
	}
	return instance, release, nil
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func printf(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.OutOrStdout(), format, args...)
}
