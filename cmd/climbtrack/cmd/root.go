package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/exp/slog"

	"climbtrack/cmd/climbtrack/cmd/data"
	"climbtrack/cmd/climbtrack/cmd/profile"
	"climbtrack/cmd/climbtrack/cmd/session"
	"climbtrack/internal/app"
	"climbtrack/internal/config"
	"climbtrack/internal/utils/logger"
)

var (
	cfg         *config.Config
	log         *slog.Logger
	application *app.App

	jsonOutput  bool
	backend     string
	storagePath string
)

var rootCmd = &cobra.Command{
	Use:   "climbtrack",
	Short: "climbtrack - local climbing-session tracker",
	Long: `climbtrack records climbing-gym sessions on this device: visits,
durations, grades and ratings, with derived statistics like streaks and
monthly rollups, plus export/import backups.`,
	PersistentPreRunE:  setupApp,
	PersistentPostRunE: teardownApp,
	SilenceUsage:       true,
	SilenceErrors:      true,
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func setupApp(cmd *cobra.Command, _ []string) error {
	cfg = config.MustLoad()

	if backend != "" {
		cfg.Backend = backend
	}
	if storagePath != "" {
		cfg.StoragePath = storagePath
	}

	log = logger.New(cfg.Env)

	var err error
	application, err = app.New(cfg, log)
	if err != nil {
		return fmt.Errorf("initialize application: %w", err)
	}

	cmd.SetContext(context.WithValue(cmd.Context(), "app", application))
	return nil
}

func teardownApp(_ *cobra.Command, _ []string) error {
	if application != nil {
		return application.Close()
	}
	return nil
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "machine-readable JSON output")
	rootCmd.PersistentFlags().StringVar(&backend, "backend", "", "storage backend (sqlite, redis, memory)")
	rootCmd.PersistentFlags().StringVar(&storagePath, "storage", "", "path to the sqlite storage file")

	rootCmd.AddCommand(session.SessionCmd)
	session.SessionCmd.AddCommand(session.AddCmd)
	session.SessionCmd.AddCommand(session.ListCmd)
	session.SessionCmd.AddCommand(session.EditCmd)
	session.SessionCmd.AddCommand(session.RmCmd)

	rootCmd.AddCommand(profile.ProfileCmd)
	profile.ProfileCmd.AddCommand(profile.SetCmd)
	profile.ProfileCmd.AddCommand(profile.ShowCmd)
	profile.ProfileCmd.AddCommand(profile.EditCmd)

	rootCmd.AddCommand(statsCmd)

	rootCmd.AddCommand(data.DataCmd)
	data.DataCmd.AddCommand(data.ExportCmd)
	data.DataCmd.AddCommand(data.ImportCmd)
	data.DataCmd.AddCommand(data.WipeCmd)
}
