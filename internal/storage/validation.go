// Package storage provides the data persistence layer for lil-bank-buddy.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/lil-bank-buddy/internal/model"
)

// Validation and lookup errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrNilParameter       = errors.New("parameter cannot be nil")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidImport      = errors.New("invalid import record")
	ErrAccountNotFound    = errors.New("account not found")
	ErrDatabaseNotFound   = errors.New("database not found")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateTransactions validates a slice of transactions. An empty slice is
// allowed: writing it only registers the account.
func validateTransactions(transactions []model.Transaction) error {
	for i := range transactions {
		if err := validateTransaction(&transactions[i]); err != nil {
			return fmt.Errorf("transaction at index %d: %w", i, err)
		}
	}
	return nil
}

// validateTransaction validates a single transaction.
func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}
	if strings.TrimSpace(txn.Description) == "" && strings.TrimSpace(txn.OriginalDescription) == "" {
		return fmt.Errorf("%w: missing description", ErrInvalidTransaction)
	}
	return nil
}

// validateImportRecord validates an import history entry.
func validateImportRecord(record *model.ImportRecord) error {
	if record == nil {
		return fmt.Errorf("%w: import record", ErrNilParameter)
	}
	if err := validateString(record.AccountID, "accountID"); err != nil {
		return err
	}
	if record.RowsAdded < 0 || record.RowsRead < 0 || record.RowsAdded > record.RowsRead {
		return fmt.Errorf("%w: rows added %d, rows read %d", ErrInvalidImport, record.RowsAdded, record.RowsRead)
	}
	return nil
}
