package analysis

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/lil-bank-buddy/internal/model"
)

const (
	// NearFutureDays is how far ahead a pending transaction may be dated.
	NearFutureDays = 7
	// FarFutureSampleSize caps the far-future sample in DateQuality.
	FarFutureSampleSize = 5
	// FutureSampleSize caps the future-dated sample in DataQualityReport.
	FutureSampleSize = 10
)

// ComputeAccountSummary derives headline statistics for an account. The date
// range ignores every future-dated row, since scheduled transactions would
// otherwise stretch it past today.
func ComputeAccountSummary(account string, transactions []model.Transaction, now time.Time) *AccountSummary {
	summary := &AccountSummary{
		Account:              account,
		TotalTransactions:    len(transactions),
		TotalAmount:          decimal.Zero,
		LargestTransaction:   decimal.Zero,
		SmallestTransaction:  decimal.Zero,
		MostFrequentCategory: mostFrequentCategory(transactions),
		DateRange:            RealisticDateRange(transactions, now, false),
		DataQuality:          AnalyzeDateQuality(transactions, now),
	}

	for i, txn := range transactions {
		summary.TotalAmount = summary.TotalAmount.Add(txn.Amount)
		if i == 0 || txn.Amount.GreaterThan(summary.LargestTransaction) {
			summary.LargestTransaction = txn.Amount
		}
		if i == 0 || txn.Amount.LessThan(summary.SmallestTransaction) {
			summary.SmallestTransaction = txn.Amount
		}
	}

	return summary
}

// mostFrequentCategory returns the most common category. Ties go to the
// alphabetically first category; no categorized rows yields "".
func mostFrequentCategory(transactions []model.Transaction) string {
	counts := make(map[string]int)
	for _, txn := range transactions {
		if txn.HasCategory() {
			counts[txn.Category]++
		}
	}

	best := ""
	bestCount := 0
	for category, count := range counts {
		if count > bestCount || (count == bestCount && category < best) {
			best = category
			bestCount = count
		}
	}
	return best
}

// AnalyzeDateQuality buckets transactions into historical (on or before
// today), near future (within NearFutureDays), far future, and invalid dates.
// Buckets are calendar days; now's time of day does not move them.
func AnalyzeDateQuality(transactions []model.Transaction, now time.Time) DateQuality {
	today := calendarDay(now)
	cutoff := daysFrom(now, NearFutureDays)

	quality := DateQuality{
		TotalTransactions:     len(transactions),
		FarFutureTransactions: []model.Transaction{},
	}

	var historical []model.Transaction
	for _, txn := range transactions {
		switch {
		case !txn.HasDate():
			quality.InvalidDatesCount++
		case !afterDay(txn.Date, today):
			quality.HistoricalCount++
			historical = append(historical, txn)
		case !afterDay(txn.Date, cutoff):
			quality.NearFutureCount++
		default:
			quality.FarFutureCount++
			if len(quality.FarFutureTransactions) < FarFutureSampleSize {
				quality.FarFutureTransactions = append(quality.FarFutureTransactions, txn)
			}
		}
	}

	quality.DateRangeAll = dateRange(transactions)
	quality.DateRangeHistorical = dateRange(historical)

	return quality
}

// RealisticDateRange returns the date range of transactions dated no later
// than today, or no later than NearFutureDays ahead when includeNearFuture is set.
func RealisticDateRange(transactions []model.Transaction, now time.Time, includeNearFuture bool) DateRange {
	limit := calendarDay(now)
	if includeNearFuture {
		limit = daysFrom(now, NearFutureDays)
	}

	var filtered []model.Transaction
	for _, txn := range transactions {
		if txn.HasDate() && !afterDay(txn.Date, limit) {
			filtered = append(filtered, txn)
		}
	}

	return dateRange(filtered)
}

// ComputeDataQualityReport lists rows dated after today and rows without a
// valid date, with the first FutureSampleSize future rows as a sample.
func ComputeDataQualityReport(account string, transactions []model.Transaction, now time.Time) *DataQualityReport {
	today := calendarDay(now)
	report := &DataQualityReport{
		Account:            account,
		TotalRows:          len(transactions),
		FutureTransactions: []model.Transaction{},
		DateRangeValid:     dateRange(transactions),
	}

	for _, txn := range transactions {
		switch {
		case !txn.HasDate():
			report.NullDatesCount++
		case afterDay(txn.Date, today):
			report.FutureDatesCount++
			if len(report.FutureTransactions) < FutureSampleSize {
				report.FutureTransactions = append(report.FutureTransactions, txn)
			}
		}
	}

	return report
}
