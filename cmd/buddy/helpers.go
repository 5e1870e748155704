package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/Veraticus/lil-bank-buddy/internal/common"
	"github.com/Veraticus/lil-bank-buddy/internal/storage"
)

// initStorage opens the database, creating it when needed, and runs migrations.
func initStorage(ctx context.Context, dbPath string) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	slog.Debug("Storage ready", "path", store.Path())
	return store, nil
}

// openStorage opens an existing database for the read-only commands.
func openStorage(ctx context.Context, dbPath string) (*storage.SQLiteStorage, error) {
	store, err := storage.OpenSQLiteStorage(dbPath)
	if err != nil {
		if errors.Is(err, storage.ErrDatabaseNotFound) {
			return nil, common.NewUserError("no transaction database found; run `buddy import` first", err)
		}
		return nil, fmt.Errorf("failed to open storage: %w", err)
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}
