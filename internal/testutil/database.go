// Package testutil provides shared fixtures for lil-bank-buddy tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/Veraticus/lil-bank-buddy/internal/model"
	"github.com/Veraticus/lil-bank-buddy/internal/storage"
)

// TestDB is a migrated SQLite database in a temporary directory.
type TestDB struct {
	Storage *storage.SQLiteStorage
	Path    string
	t       *testing.T
}

// SetupTestDB creates a migrated database that is closed when the test ends.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "buddy.db")
	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{
		Storage: store,
		Path:    dbPath,
		t:       t,
	}
}

// Seed writes transactions to an account or fails the test.
func (db *TestDB) Seed(account string, transactions ...model.Transaction) {
	db.t.Helper()
	if _, err := db.Storage.Write(context.Background(), account, transactions); err != nil {
		db.t.Fatalf("failed to seed account %q: %v", account, err)
	}
}
