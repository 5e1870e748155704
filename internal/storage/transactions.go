package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/lil-bank-buddy/internal/model"
)

// Write appends transactions to an account, registering the account on first
// use. Rows whose hash is already stored for the account are skipped, so
// re-importing an export is harmless. It returns the number of rows added.
func (s *SQLiteStorage) Write(ctx context.Context, account string, transactions []model.Transaction) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateString(account, "account"); err != nil {
		return 0, err
	}
	if err := validateTransactions(transactions); err != nil {
		return 0, err
	}

	var added int
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		tx, err := conn.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		added, err = s.writeTx(ctx, tx, account, transactions)
		if err != nil {
			return err
		}

		return tx.Commit()
	})
	if err != nil {
		return 0, err
	}

	slog.Debug("Wrote transactions",
		"account", account,
		"received", len(transactions),
		"added", added)

	return added, nil
}

func (s *SQLiteStorage) writeTx(ctx context.Context, tx *sql.Tx, account string, transactions []model.Transaction) (int, error) {
	if _, err := tx.ExecContext(ctx, `INSERT OR IGNORE INTO accounts (id) VALUES (?)`, account); err != nil {
		return 0, fmt.Errorf("failed to register account %s: %w", account, err)
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO transactions (
			account_id, hash, date, description, original_description,
			category, amount, status
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	// Identical rows within one batch get increasing ordinals.
	occurrences := make(map[string]int)
	added := 0

	for i := range transactions {
		txn := transactions[i]
		if txn.Hash == "" {
			key := txn.GenerateHash(0)
			txn.Hash = txn.GenerateHash(occurrences[key])
			occurrences[key]++
		}

		result, err := stmt.ExecContext(ctx,
			account,
			txn.Hash,
			formatStoredDate(txn.Date),
			txn.Description,
			nullString(txn.OriginalDescription),
			nullString(txn.Category),
			txn.Amount.String(),
			nullString(txn.Status),
		)
		if err != nil {
			return 0, fmt.Errorf("failed to insert transaction at index %d: %w", i, err)
		}

		n, err := result.RowsAffected()
		if err != nil {
			return 0, fmt.Errorf("failed to read affected rows: %w", err)
		}
		added += int(n)
	}

	return added, nil
}

// ReadAll returns every transaction of an account in insertion order.
func (s *SQLiteStorage) ReadAll(ctx context.Context, account string) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(account, "account"); err != nil {
		return nil, err
	}

	var transactions []model.Transaction
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		exists, err := accountExists(ctx, conn, account)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: %s", ErrAccountNotFound, account)
		}

		transactions, err = readTransactions(ctx, conn, account)
		return err
	})
	if err != nil {
		return nil, err
	}

	return transactions, nil
}

func readTransactions(ctx context.Context, q queryable, account string) ([]model.Transaction, error) {
	rows, err := q.QueryContext(ctx, `
		SELECT hash, date, description, original_description, category, amount, status
		FROM transactions
		WHERE account_id = ?
		ORDER BY id ASC
	`, account)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	transactions := make([]model.Transaction, 0)
	for rows.Next() {
		var txn model.Transaction
		var date, original, category, status sql.NullString
		var amount decimal.Decimal

		if err := rows.Scan(&txn.Hash, &date, &txn.Description, &original, &category, &amount, &status); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}

		txn.Date = parseStoredDate(date)
		txn.OriginalDescription = original.String
		txn.Category = category.String
		txn.Status = status.String
		txn.Amount = amount

		transactions = append(transactions, txn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}

	return transactions, nil
}

// Exists reports whether an account has ever been written.
func (s *SQLiteStorage) Exists(ctx context.Context, account string) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateString(account, "account"); err != nil {
		return false, err
	}

	var exists bool
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		var err error
		exists, err = accountExists(ctx, conn, account)
		return err
	})
	return exists, err
}

func accountExists(ctx context.Context, q queryable, account string) (bool, error) {
	var count int
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM accounts WHERE id = ?`, account).Scan(&count); err != nil {
		return false, fmt.Errorf("failed to check account %s: %w", account, err)
	}
	return count > 0, nil
}

// formatStoredDate renders a date for storage; invalid dates are stored as NULL.
func formatStoredDate(t time.Time) sql.NullString {
	if t.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: t.Format(time.RFC3339), Valid: true}
}

// parseStoredDate is the inverse of formatStoredDate. Unreadable values
// become the zero time, which the analysis layer treats as an invalid date.
func parseStoredDate(s sql.NullString) time.Time {
	if !s.Valid || s.String == "" {
		return time.Time{}
	}
	if t, err := time.Parse(time.RFC3339, s.String); err == nil {
		return t
	}
	if t, err := time.Parse(model.DateLayout, s.String); err == nil {
		return t
	}
	return time.Time{}
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
