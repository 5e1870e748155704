package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/lil-bank-buddy/internal/model"
)

// RecordImport stores an import history entry. A missing ID is generated and
// a zero ImportedAt is set to the current time; both are written back to record.
func (s *SQLiteStorage) RecordImport(ctx context.Context, record *model.ImportRecord) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateImportRecord(record); err != nil {
		return err
	}

	if record.ID == "" {
		record.ID = uuid.NewString()
	}
	if record.ImportedAt.IsZero() {
		record.ImportedAt = time.Now()
	}

	return s.withConn(ctx, func(conn *sql.Conn) error {
		exists, err := accountExists(ctx, conn, record.AccountID)
		if err != nil {
			return err
		}
		if !exists {
			return fmt.Errorf("%w: %s", ErrAccountNotFound, record.AccountID)
		}

		_, err = conn.ExecContext(ctx, `
			INSERT INTO imports (id, account_id, source, rows_read, rows_added, imported_at)
			VALUES (?, ?, ?, ?, ?, ?)
		`,
			record.ID,
			record.AccountID,
			record.Source,
			record.RowsRead,
			record.RowsAdded,
			record.ImportedAt.Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("failed to record import %s: %w", record.ID, err)
		}
		return nil
	})
}

// GetImports returns the import history of an account, newest first.
func (s *SQLiteStorage) GetImports(ctx context.Context, account string) ([]model.ImportRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(account, "account"); err != nil {
		return nil, err
	}

	var records []model.ImportRecord
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, `
			SELECT id, account_id, source, rows_read, rows_added, imported_at
			FROM imports
			WHERE account_id = ?
			ORDER BY imported_at DESC, rowid DESC
		`, account)
		if err != nil {
			return fmt.Errorf("failed to query imports: %w", err)
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			var record model.ImportRecord
			var importedAt sql.NullString
			if err := rows.Scan(&record.ID, &record.AccountID, &record.Source,
				&record.RowsRead, &record.RowsAdded, &importedAt); err != nil {
				return fmt.Errorf("failed to scan import: %w", err)
			}
			record.ImportedAt = parseStoredDate(importedAt)
			records = append(records, record)
		}

		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	return records, nil
}
