package analysis

import (
	"github.com/shopspring/decimal"

	"github.com/Veraticus/lil-bank-buddy/internal/model"
)

// RecentPaymentLimit is the number of payments listed in PaymentPatterns.
const RecentPaymentLimit = 4

// ComputePaymentPatterns lists the most recent credit card payments, newest
// first, with their absolute amounts. Generic "payment" descriptions that the
// settlement detector accepts are not counted here.
func ComputePaymentPatterns(account string, transactions []model.Transaction) *PaymentPatterns {
	patterns := &PaymentPatterns{
		Account:             account,
		RecentPayments:      []Payment{},
		TotalRecentPayments: decimal.Zero,
	}

	for _, txn := range sortByDateDesc(transactions) {
		if len(patterns.RecentPayments) == RecentPaymentLimit {
			break
		}
		if !IsCreditCardPayment(txn) {
			continue
		}

		patterns.RecentPayments = append(patterns.RecentPayments, Payment{
			Date:        txn.FormatDate(),
			Amount:      txn.Amount.Abs(),
			Description: txn.Description,
		})
		patterns.TotalRecentPayments = patterns.TotalRecentPayments.Add(txn.Amount)
	}

	patterns.TotalRecentPayments = patterns.TotalRecentPayments.Abs()
	patterns.PaymentCount = len(patterns.RecentPayments)

	return patterns
}
