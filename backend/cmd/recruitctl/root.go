package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"teamshub/backend/internal/config"
	"teamshub/backend/internal/storage"
)

func newRootCmd() *cobra.Command {
	var envFile string

	cmd := &cobra.Command{
		Use:          "recruitctl",
		Short:        "TeamsHub recruitment maintenance tools",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&envFile, "env-file", ".env", "Path to .env file (optional)")

	loadConfig := func() (*config.Config, error) {
		return config.Load(envFile)
	}

	cmd.AddCommand(
		newMigrateCmd(loadConfig),
		newSweepCmd(loadConfig),
		newStatsCmd(loadConfig),
		newTokenCmd(loadConfig),
	)
	return cmd
}

type configLoader func() (*config.Config, error)

func connectDB(cfg *config.Config, logger *zap.Logger) (*storage.Database, error) {
	return storage.NewDatabase(cfg.DatabaseURL, logger)
}

func newLogger() *zap.Logger {
	logger, err := zap.NewDevelopment()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
