package analysis

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/lil-bank-buddy/internal/model"
)

const (
	// DefaultRecentDays is the default recent-activity window.
	DefaultRecentDays = 30
	// TopCategoryLimit is the number of categories reported as top categories.
	TopCategoryLimit = 3
)

// ComputeRecentActivity summarizes transactions dated on or after the
// calendar day days before now, whatever now's time of day. Top categories
// are ranked by transaction count; equal counts keep the order in which the
// categories first appear.
func ComputeRecentActivity(account string, transactions []model.Transaction, days int, now time.Time) *RecentActivity {
	cutoff := daysFrom(now, -days)

	activity := &RecentActivity{
		Account:       account,
		Days:          days,
		TotalAmount:   decimal.Zero,
		TopCategories: []CategoryCount{},
	}

	var counts []CategoryCount
	index := make(map[string]int)

	for _, txn := range transactions {
		if !txn.HasDate() || !onOrAfterDay(txn.Date, cutoff) {
			continue
		}

		activity.NumTransactions++
		activity.TotalAmount = activity.TotalAmount.Add(txn.Amount)

		if !txn.HasCategory() {
			continue
		}
		if i, ok := index[txn.Category]; ok {
			counts[i].Count++
			continue
		}
		index[txn.Category] = len(counts)
		counts = append(counts, CategoryCount{Category: txn.Category, Count: 1})
	}

	slices.SortStableFunc(counts, func(a, b CategoryCount) int {
		return b.Count - a.Count
	})

	if len(counts) > TopCategoryLimit {
		counts = counts[:TopCategoryLimit]
	}
	activity.TopCategories = append(activity.TopCategories, counts...)

	return activity
}
