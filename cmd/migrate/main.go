package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fhuszti/stored-images-ms-go/internal/config"
	"github.com/fhuszti/stored-images-ms-go/internal/db"
	"github.com/fhuszti/stored-images-ms-go/internal/logger"
	"github.com/fhuszti/stored-images-ms-go/internal/migration"
	"github.com/go-sql-driver/mysql"
	"github.com/spf13/cobra"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Init()

	if err := newRootCommand().ExecuteContext(ctx); err != nil {
		logger.Errorf(ctx, "❌  %v", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "migrate",
		Short:        "Apply or roll back the stored_images schema migrations",
		SilenceUsage: true,
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply every pending migration",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDb(cmd.Context(), func(database *db.Database) error {
					if err := migration.MigrateUp(database.DB); err != nil {
						return fmt.Errorf("migration up failed: %w", err)
					}
					logger.Info(cmd.Context(), "✅  Migrations applied successfully")
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "down",
			Short: "Roll back every migration",
			RunE: func(cmd *cobra.Command, args []string) error {
				return withDb(cmd.Context(), func(database *db.Database) error {
					if err := migration.MigrateDown(database.DB); err != nil {
						return fmt.Errorf("migration down failed: %w", err)
					}
					logger.Info(cmd.Context(), "✅  Migrations rolled back successfully")
					return nil
				})
			},
		},
	)
	return cmd
}

func withDb(ctx context.Context, fn func(*db.Database) error) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	dsn, err := mysql.ParseDSN(cfg.MariaDBDSN)
	if err != nil {
		return fmt.Errorf("parse DSN: %w", err)
	}
	dsn.MultiStatements = true

	database, err := db.New(dsn.FormatDSN(), cfg.MaxOpenConns, cfg.MaxIdleConns, cfg.ConnMaxLifetime)
	if err != nil {
		return fmt.Errorf("failed to connect to db: %w", err)
	}
	defer func() {
		if err := database.Close(); err != nil {
			logger.Warnf(ctx, "DB close error: %v", err)
		}
	}()

	return fn(database)
}
