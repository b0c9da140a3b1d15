package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/yskaart/sentry/internal/db"
)

func (a *App) newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Apply session journal migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			scene, err := a.loadScene()
			if err != nil {
				return err
			}
			if err := db.RunMigrations(cmd.Context(), scene.Database.DSN()); err != nil {
				return fmt.Errorf("migrating journal database: %w", err)
			}
			slog.Info("database migrations applied", "host", scene.Database.Host, "dbname", scene.Database.DBName)
			fmt.Fprintln(a.stdout, "migrations applied")
			return nil
		},
	}
}
