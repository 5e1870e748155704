package model

import "time"

// Account is a named collection of transactions, such as a credit card or
// checking account. Balances are derived from its transactions, never stored.
type Account struct {
	LastImport       time.Time
	ID               string
	TransactionCount int
}

// ImportRecord describes one completed import into an account.
type ImportRecord struct {
	ImportedAt time.Time
	ID         string
	AccountID  string
	Source     string
	RowsRead   int
	RowsAdded  int
}
