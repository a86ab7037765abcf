package main

import (
	"context"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"foodgram-backend/internal/config"
	"foodgram-backend/internal/infrastructure/database"
	"foodgram-backend/migrations"
	"foodgram-backend/pkg/container"
	"foodgram-backend/pkg/logger"
)

// bootDB loads config and opens the database connection.
func bootDB(ctx context.Context) (*config.Config, *database.PostgresDB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	logger.Init(cfg.App.Environment)

	db, err := container.OpenDatabase(ctx)
	if err != nil {
		return nil, nil, err
	}
	return cfg, db, nil
}

func withRunner(cmd *cobra.Command, fn func(context.Context, *migrations.Runner) error) error {
	ctx := cmd.Context()
	_, db, err := bootDB(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	runner, err := migrations.NewRunner(db.Pool)
	if err != nil {
		return err
	}
	return fn(ctx, runner)
}

// manage migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withRunner(cmd, func(ctx context.Context, r *migrations.Runner) error {
			n, err := r.Up(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s)\n", n)
			return nil
		})
	},
}

// manage migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withRunner(cmd, func(ctx context.Context, r *migrations.Runner) error {
			n, err := r.Rollback(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rolled back %d migration(s)\n", n)
			return nil
		})
	},
}

// manage migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withRunner(cmd, func(ctx context.Context, r *migrations.Runner) error {
			statuses, err := r.Status(ctx)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "MIGRATION\tBATCH\tSTATE")
			for _, s := range statuses {
				state := "applied"
				if s.Batch == 0 {
					state = "pending"
				}
				fmt.Fprintf(w, "%s\t%d\t%s\n", s.Name, s.Batch, state)
			}
			return w.Flush()
		})
	},
}

