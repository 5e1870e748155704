package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Veraticus/lil-bank-buddy/internal/model"
)

// ListAccounts returns every known account with its transaction count and
// the time of its most recent import, ordered by account id.
func (s *SQLiteStorage) ListAccounts(ctx context.Context) ([]model.Account, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var accounts []model.Account
	err := s.withConn(ctx, func(conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, `
			SELECT a.id,
			       (SELECT COUNT(*) FROM transactions t WHERE t.account_id = a.id),
			       (SELECT MAX(i.imported_at) FROM imports i WHERE i.account_id = a.id)
			FROM accounts a
			ORDER BY a.id ASC
		`)
		if err != nil {
			return fmt.Errorf("failed to query accounts: %w", err)
		}
		defer func() { _ = rows.Close() }()

		for rows.Next() {
			var account model.Account
			var lastImport sql.NullString
			if err := rows.Scan(&account.ID, &account.TransactionCount, &lastImport); err != nil {
				return fmt.Errorf("failed to scan account: %w", err)
			}
			account.LastImport = parseStoredDate(lastImport)
			accounts = append(accounts, account)
		}

		return rows.Err()
	})
	if err != nil {
		return nil, err
	}

	return accounts, nil
}
