package main

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"teamshub/backend/internal/api/middleware"
	"teamshub/backend/internal/services"
)

func newMigrateCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply database migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			logger := newLogger()
			defer logger.Sync()

			db, err := connectDB(cfg, logger)
			if err != nil {
				return err
			}
			defer db.Close()

			return db.Migrate(cmd.Context())
		},
	}
}

type sweepOutput struct {
	Command    string `json:"command"`
	DurationMS int64  `json:"duration_ms"`
	Expired    int    `json:"expired"`
}

func newSweepCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "sweep-expired",
		Short: "Close active job postings past their closing date",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			logger := newLogger()
			defer logger.Sync()

			db, err := connectDB(cfg, logger)
			if err != nil {
				return err
			}
			defer db.Close()

			// Без Redis: события не публикуются, лимит просмотров не нужен
			jobs := services.NewJobPostingService(db, nil, services.ViewLimitConfig{}, nil, nil, logger)
			sweeper := services.NewExpirySweeper(jobs, logger)

			start := time.Now()
			expired, err := sweeper.RunOnce(cmd.Context())
			if err != nil {
				return err
			}

			return writeJSON(cmd.OutOrStdout(), sweepOutput{
				Command:    "sweep-expired",
				DurationMS: time.Since(start).Milliseconds(),
				Expired:    expired,
			})
		},
	}
}

func newStatsCmd(load configLoader) *cobra.Command {
	var workspace string

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Print recruitment statistics for a workspace",
		RunE: func(cmd *cobra.Command, args []string) error {
			workspaceID, err := uuid.Parse(workspace)
			if err != nil {
				return fmt.Errorf("invalid --workspace: %w", err)
			}

			cfg, err := load()
			if err != nil {
				return err
			}
			logger := newLogger()
			defer logger.Sync()

			db, err := connectDB(cfg, logger)
			if err != nil {
				return err
			}
			defer db.Close()

			result, err := services.NewStatsService(db, logger).Compute(cmd.Context(), workspaceID)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&workspace, "workspace", "", "Workspace UUID (required)")
	_ = cmd.MarkFlagRequired("workspace")
	return cmd
}

type tokenOutput struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}

func newTokenCmd(load configLoader) *cobra.Command {
	var (
		user      string
		workspace string
		email     string
	)

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a workspace API token for local testing",
		RunE: func(cmd *cobra.Command, args []string) error {
			userID, err := uuid.Parse(user)
			if err != nil {
				return fmt.Errorf("invalid --user: %w", err)
			}
			workspaceID, err := uuid.Parse(workspace)
			if err != nil {
				return fmt.Errorf("invalid --workspace: %w", err)
			}

			cfg, err := load()
			if err != nil {
				return err
			}

			auth := middleware.NewAuthenticator(cfg.JWTSecret, cfg.JWTTokenTTL)
			token, err := auth.GenerateToken(userID, workspaceID, email)
			if err != nil {
				return err
			}

			newLogger().Debug("Token issued", zap.String("workspace_id", workspaceID.String()))

			return writeJSON(cmd.OutOrStdout(), tokenOutput{
				Token:     token,
				ExpiresAt: time.Now().Add(cfg.JWTTokenTTL),
			})
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "User UUID (required)")
	cmd.Flags().StringVar(&workspace, "workspace", "", "Workspace UUID (required)")
	cmd.Flags().StringVar(&email, "email", "", "Email claim")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("workspace")
	return cmd
}
