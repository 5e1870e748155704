// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/Veraticus/lil-bank-buddy/internal/model"
)

// TransactionStore is the persistence contract consumed by the analysis core.
type TransactionStore interface {
	// ReadAll returns every transaction recorded for the account, in insertion order.
	ReadAll(ctx context.Context, account string) ([]model.Transaction, error)
	// Write appends transactions to the account and reports how many rows were added.
	Write(ctx context.Context, account string, transactions []model.Transaction) (int, error)
	// Exists reports whether the account has ever been written.
	Exists(ctx context.Context, account string) (bool, error)
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	TransactionStore

	// Account operations
	ListAccounts(ctx context.Context) ([]model.Account, error)

	// Import history
	RecordImport(ctx context.Context, record *model.ImportRecord) error
	GetImports(ctx context.Context, account string) ([]model.ImportRecord, error)

	// Database operations
	Migrate(ctx context.Context) error
	Close() error
}
