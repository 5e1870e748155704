package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/lil-bank-buddy/internal/cli"
	"github.com/Veraticus/lil-bank-buddy/internal/storage"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Initialize or update the database schema to the latest version.

Every other command migrates on open, so this is only needed to prepare a
database ahead of time or to check its schema version.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			status, _ := cmd.Flags().GetBool("status")
			dbPath := appConfig.Database.Path

			slog.Info("Starting database migration", "database", dbPath, "status_only", status)

			open := storage.NewSQLiteStorage
			if status {
				open = storage.OpenSQLiteStorage
			}
			store, err := open(dbPath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() { _ = store.Close() }()

			return runMigrate(cmd.Context(), cmd.OutOrStdout(), store, status)
		},
	}

	cmd.Flags().Bool("status", false, "Show current migration status without applying changes")

	return cmd
}

type schemaStore interface {
	SchemaVersion(ctx context.Context) (int, error)
	Migrate(ctx context.Context) error
	Path() string
}

func runMigrate(ctx context.Context, w io.Writer, store schemaStore, statusOnly bool) error {
	current, err := store.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	//nolint:forbidigo // User-facing output
	if statusOnly {
		fmt.Fprintln(w, cli.FormatTitle("Database migration status"))
		fmt.Fprintln(w, cli.FormatKeyValue("Database", store.Path()))
		fmt.Fprintln(w, cli.FormatKeyValue("Current version", fmt.Sprint(current)))
		fmt.Fprintln(w, cli.FormatKeyValue("Latest version", fmt.Sprint(storage.ExpectedSchemaVersion)))
		if current < storage.ExpectedSchemaVersion {
			fmt.Fprintln(w, cli.FormatWarning("Migrations pending; run `buddy migrate`"))
		} else {
			fmt.Fprintln(w, cli.FormatSuccess("Schema is up to date"))
		}
		return nil
	}

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	//nolint:forbidigo // User-facing output
	fmt.Fprintln(w, cli.FormatSuccess(fmt.Sprintf("Database migrated from version %d to %d",
		current, storage.ExpectedSchemaVersion)))
	return nil
}
