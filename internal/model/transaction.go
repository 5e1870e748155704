package model

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-date format used for storage and display.
const DateLayout = "2006-01-02"

// Transaction represents a single row from a bank export.
// Transactions are never modified after import.
type Transaction struct {
	Date                time.Time // Zero when the export date could not be parsed
	Description         string
	OriginalDescription string
	Category            string // Empty when the bank assigned no category
	Status              string
	Hash                string
	Amount              decimal.Decimal // Positive = charge/expense, negative = payment/credit
}

// HasDate reports whether the transaction carries a usable date.
func (t *Transaction) HasDate() bool {
	return !t.Date.IsZero()
}

// HasCategory reports whether the transaction carries a category.
func (t *Transaction) HasCategory() bool {
	return strings.TrimSpace(t.Category) != ""
}

// FormatDate returns the calendar date, or "N/A" when the date is invalid.
func (t *Transaction) FormatDate() string {
	if !t.HasDate() {
		return "N/A"
	}
	return t.Date.Format(DateLayout)
}

// GenerateHash creates a content hash for duplicate detection.
// The ordinal distinguishes identical rows within one export, so that two
// genuine same-day purchases survive while a re-imported file does not.
func (t *Transaction) GenerateHash(ordinal int) string {
	date := "invalid"
	if t.HasDate() {
		date = t.Date.Format(DateLayout)
	}
	data := fmt.Sprintf("%s:%s:%s:%s:%s:%s:%d",
		date,
		t.Amount.String(),
		t.Description,
		t.OriginalDescription,
		t.Category,
		t.Status,
		ordinal)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}
