package testutil

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/lil-bank-buddy/internal/model"
)

// Date parses a YYYY-MM-DD date in UTC and panics on malformed input.
func Date(s string) time.Time {
	t, err := time.Parse(model.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return t
}

// Clock returns a time source fixed at the given date.
func Clock(s string) func() time.Time {
	now := Date(s)
	return func() time.Time { return now }
}

// Txn builds a transaction. An empty date produces an invalid (zero) date.
func Txn(date, description, amount, category string) model.Transaction {
	txn := model.Transaction{
		Description:         description,
		OriginalDescription: description,
		Category:            category,
		Status:              "Posted",
		Amount:              decimal.RequireFromString(amount),
	}
	if date != "" {
		txn.Date = Date(date)
	}
	return txn
}

// Dec parses a decimal and panics on malformed input.
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}
