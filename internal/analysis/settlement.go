package analysis

import (
	"slices"
	"strings"
	"time"

	"github.com/Veraticus/lil-bank-buddy/internal/model"
)

// SettlementWindowDays is how far before the latest payment other payments
// still count toward the same settlement.
const SettlementWindowDays = 30

var (
	// settlementPatterns mark a debit as a settlement candidate.
	settlementPatterns = []string{"credit card payment", "payment"}
	// cardPaymentPatterns are the stricter patterns for payment history.
	cardPaymentPatterns = []string{"credit card payment"}
)

// IsSettlementCandidate reports whether a transaction looks like the payment
// two people make when they settle up: a debit described as a payment.
func IsSettlementCandidate(txn model.Transaction) bool {
	return txn.Amount.IsNegative() && matchesAny(txn.Description, settlementPatterns)
}

// IsCreditCardPayment reports whether a transaction is a debit described as
// a credit card payment.
func IsCreditCardPayment(txn model.Transaction) bool {
	return txn.Amount.IsNegative() && matchesAny(txn.Description, cardPaymentPatterns)
}

func matchesAny(description string, patterns []string) bool {
	lower := strings.ToLower(description)
	for _, pattern := range patterns {
		if strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}

// DetectSettlement finds the most recent settlement event in a history.
// The settlement date is always the latest candidate's date. The number of
// candidates inside the window ending on that date is reported for messaging
// only and never moves the date.
func DetectSettlement(transactions []model.Transaction) Settlement {
	var candidates []model.Transaction
	for _, txn := range transactions {
		// Undated payments cannot anchor a window.
		if txn.HasDate() && IsSettlementCandidate(txn) {
			candidates = append(candidates, txn)
		}
	}

	if len(candidates) == 0 {
		return Settlement{}
	}

	candidates = sortByDateDesc(candidates)
	latest := candidates[0].Date
	windowStart := latest.AddDate(0, 0, -SettlementWindowDays)

	inWindow := 0
	for _, txn := range candidates {
		if !txn.Date.Before(windowStart) && !txn.Date.After(latest) {
			inWindow++
		}
	}

	return Settlement{
		Date:             latest,
		Found:            true,
		Candidates:       len(candidates),
		PaymentsInWindow: inWindow,
	}
}

// FindSettlementDate returns the date of the most recent settlement, or
// false when the history holds no settlement-like payment.
func FindSettlementDate(transactions []model.Transaction) (time.Time, bool) {
	settlement := DetectSettlement(transactions)
	return settlement.Date, settlement.Found
}

// sortByDateDesc returns a copy sorted newest first; undated rows go last and
// rows with equal dates keep their relative order.
func sortByDateDesc(transactions []model.Transaction) []model.Transaction {
	sorted := slices.Clone(transactions)
	slices.SortStableFunc(sorted, func(a, b model.Transaction) int {
		switch {
		case !a.HasDate() && !b.HasDate():
			return 0
		case !a.HasDate():
			return 1
		case !b.HasDate():
			return -1
		}
		return b.Date.Compare(a.Date)
	})
	return sorted
}
