package analysis

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/lil-bank-buddy/internal/model"
)

// FallbackWindowDays is the lookback used when no settlement is detected.
const FallbackWindowDays = 30

// ErrInvalidPercentage is returned when a split percentage is outside [0, 100].
var ErrInvalidPercentage = errors.New("percentage must be between 0 and 100")

// SplitParams names the two people sharing an account and person 1's share.
type SplitParams struct {
	Person1Name       string
	Person2Name       string
	Person1Percentage int
}

// DefaultSplitParams returns an even split between "Person 1" and "Person 2".
func DefaultSplitParams() SplitParams {
	return SplitParams{
		Person1Name:       "Person 1",
		Person2Name:       "Person 2",
		Person1Percentage: 50,
	}
}

// Validate rejects percentages outside [0, 100]. Callers validate before
// computing a split; the split functions assume valid parameters.
func (p SplitParams) Validate() error {
	if p.Person1Percentage < 0 || p.Person1Percentage > 100 {
		return fmt.Errorf("%w: got %d", ErrInvalidPercentage, p.Person1Percentage)
	}
	return nil
}

// Person2Percentage returns the share of person 2.
func (p SplitParams) Person2Percentage() int {
	return 100 - p.Person1Percentage
}

// Shares splits total into total*pct/100 and total*(100-pct)/100. Decimal
// shifting keeps the division exact, so the two shares always add up to total.
func (p SplitParams) Shares(total decimal.Decimal) (person1, person2 decimal.Decimal) {
	person1 = total.Mul(decimal.NewFromInt(int64(p.Person1Percentage))).Shift(-2)
	person2 = total.Mul(decimal.NewFromInt(int64(p.Person2Percentage()))).Shift(-2)
	return person1, person2
}

// ComputeBalanceSplit splits the net balance of an account's whole history.
// The balance keeps its sign: a negative balance is a net overpayment.
// Expenses are the positive amounts; the category breakdown covers those.
func ComputeBalanceSplit(account string, transactions []model.Transaction, params SplitParams) *BalanceSplit {
	totalBalance := decimal.Zero
	payments := decimal.Zero
	var expenses []model.Transaction

	for _, txn := range transactions {
		totalBalance = totalBalance.Add(txn.Amount)
		switch {
		case txn.Amount.IsPositive():
			expenses = append(expenses, txn)
		case txn.Amount.IsNegative():
			payments = payments.Add(txn.Amount)
		}
	}

	person1, person2 := params.Shares(totalBalance)

	return &BalanceSplit{
		Account:                account,
		TotalBalance:           totalBalance,
		TotalExpenses:          sumAmounts(expenses),
		TotalPaymentsCredits:   payments.Abs(),
		Person1Name:            params.Person1Name,
		Person2Name:            params.Person2Name,
		Person1Percentage:      params.Person1Percentage,
		Person2Percentage:      params.Person2Percentage(),
		Person1Owes:            person1,
		Person2Owes:            person2,
		CategoryBreakdown:      categoryBreakdown(expenses, params, false),
		NumExpenseTransactions: len(expenses),
		DateRange:              dateRange(expenses),
	}
}

// ComputeExpenseSplit splits the expenses recorded after the last settlement.
// Without a settlement the window is the FallbackWindowDays before now.
// In this view debits (negative amounts) are the expenses, and totals are
// reported as absolute values.
func ComputeExpenseSplit(account string, transactions []model.Transaction, params SplitParams, now time.Time) *ExpenseSplit {
	sorted := sortByDateDesc(transactions)
	settlement := DetectSettlement(sorted)

	var inWindow func(model.Transaction) bool
	var info string
	if settlement.Found {
		inWindow = func(txn model.Transaction) bool {
			return txn.Date.After(settlement.Date)
		}
		info = "Since last settlement on " + settlement.Date.Format(model.DateLayout)
	} else {
		cutoff := daysFrom(now, -FallbackWindowDays)
		inWindow = func(txn model.Transaction) bool {
			return onOrAfterDay(txn.Date, cutoff)
		}
		info = fmt.Sprintf("Last %d days (no settlement pattern detected)", FallbackWindowDays)
	}

	var expenses []model.Transaction
	for _, txn := range sorted {
		if txn.HasDate() && inWindow(txn) && txn.Amount.IsNegative() {
			expenses = append(expenses, txn)
		}
	}

	total := sumAmounts(expenses).Abs()
	person1, person2 := params.Shares(total)

	return &ExpenseSplit{
		Account:                account,
		TotalExpenses:          total,
		Person1Name:            params.Person1Name,
		Person2Name:            params.Person2Name,
		Person1Percentage:      params.Person1Percentage,
		Person2Percentage:      params.Person2Percentage(),
		Person1Share:           person1,
		Person2Share:           person2,
		CategoryBreakdown:      categoryBreakdown(expenses, params, true),
		NumExpenseTransactions: len(expenses),
		Settlement:             settlement,
		SettlementInfo:         info,
		DateRange:              dateRange(expenses),
	}
}

// categoryBreakdown totals amounts per category, splits each total, and
// sorts by total descending. Equal totals keep first-seen order.
// Uncategorized transactions are left out.
func categoryBreakdown(transactions []model.Transaction, params SplitParams, absolute bool) []CategoryShare {
	var order []string
	totals := make(map[string]decimal.Decimal)

	for _, txn := range transactions {
		if !txn.HasCategory() {
			continue
		}
		if _, seen := totals[txn.Category]; !seen {
			order = append(order, txn.Category)
		}
		totals[txn.Category] = totals[txn.Category].Add(txn.Amount)
	}

	breakdown := make([]CategoryShare, 0, len(order))
	for _, category := range order {
		total := totals[category]
		if absolute {
			total = total.Abs()
		}
		person1, person2 := params.Shares(total)
		breakdown = append(breakdown, CategoryShare{
			Category:     category,
			Total:        total,
			Person1Share: person1,
			Person2Share: person2,
		})
	}

	slices.SortStableFunc(breakdown, func(a, b CategoryShare) int {
		return b.Total.Cmp(a.Total)
	})

	return breakdown
}

func sumAmounts(transactions []model.Transaction) decimal.Decimal {
	total := decimal.Zero
	for _, txn := range transactions {
		total = total.Add(txn.Amount)
	}
	return total
}

// dateRange returns the earliest and latest valid dates; undated rows are ignored.
func dateRange(transactions []model.Transaction) DateRange {
	var earliest, latest time.Time
	for _, txn := range transactions {
		if !txn.HasDate() {
			continue
		}
		if earliest.IsZero() || txn.Date.Before(earliest) {
			earliest = txn.Date
		}
		if latest.IsZero() || txn.Date.After(latest) {
			latest = txn.Date
		}
	}

	if earliest.IsZero() {
		return EmptyDateRange
	}

	return DateRange{
		Start: earliest.Format(model.DateLayout),
		End:   latest.Format(model.DateLayout),
	}
}
