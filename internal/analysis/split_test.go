package analysis

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/lil-bank-buddy/internal/model"
	"github.com/Veraticus/lil-bank-buddy/internal/testutil"
)

func TestSplitParams_Validate(t *testing.T) {
	tests := []struct {
		name       string
		percentage int
		wantErr    bool
	}{
		{name: "zero", percentage: 0},
		{name: "even", percentage: 50},
		{name: "hundred", percentage: 100},
		{name: "negative", percentage: -1, wantErr: true},
		{name: "over hundred", percentage: 101, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := DefaultSplitParams()
			params.Person1Percentage = tt.percentage

			err := params.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidPercentage)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 100, params.Person1Percentage+params.Person2Percentage())
		})
	}
}

func TestSplitParams_SharesAlwaysSumToTotal(t *testing.T) {
	totals := []string{"0", "0.01", "33.33", "100.00", "1234.57", "-1234.57", "999999.99"}

	for percentage := 0; percentage <= 100; percentage++ {
		params := SplitParams{Person1Percentage: percentage}
		for _, total := range totals {
			person1, person2 := params.Shares(testutil.Dec(total))
			assertAmount(t, total, person1.Add(person2), "pct=%d total=%s", percentage, total)
		}
	}
}

func TestSplitParams_SharesBoundaries(t *testing.T) {
	total := testutil.Dec("80.40")

	person1, person2 := SplitParams{Person1Percentage: 0}.Shares(total)
	assert.True(t, person1.IsZero())
	assertAmount(t, "80.40", person2)

	person1, person2 = SplitParams{Person1Percentage: 100}.Shares(total)
	assertAmount(t, "80.40", person1)
	assert.True(t, person2.IsZero())

	person1, person2 = SplitParams{Person1Percentage: 60}.Shares(total)
	assertAmount(t, "48.24", person1)
	assertAmount(t, "32.16", person2)
}

func balanceFixture() []model.Transaction {
	return []model.Transaction{
		testutil.Txn("2024-01-10", "Groceries", "100.00", "Food"),
		testutil.Txn("2024-01-15", "Restaurant", "50.25", "Food"),
		testutil.Txn("2024-01-05", "Gas station", "40.00", "Transport"),
		testutil.Txn("2024-01-20", "CREDIT CARD PAYMENT", "-120.00", ""),
		testutil.Txn("2024-01-25", "Refund", "-10.25", "Shopping"),
		testutil.Txn("2024-01-12", "Unknown merchant", "5.00", ""),
	}
}

func TestComputeBalanceSplit(t *testing.T) {
	params := SplitParams{Person1Name: "Alex", Person2Name: "Sam", Person1Percentage: 60}

	split := ComputeBalanceSplit("team_beeb_cc", balanceFixture(), params)

	assert.Equal(t, "team_beeb_cc", split.Account)
	assertAmount(t, "65.00", split.TotalBalance)
	assertAmount(t, "195.25", split.TotalExpenses)
	assertAmount(t, "130.25", split.TotalPaymentsCredits)
	assertAmount(t, "39.00", split.Person1Owes)
	assertAmount(t, "26.00", split.Person2Owes)
	assert.Equal(t, "Alex", split.Person1Name)
	assert.Equal(t, "Sam", split.Person2Name)
	assert.Equal(t, 60, split.Person1Percentage)
	assert.Equal(t, 40, split.Person2Percentage)
	assert.Equal(t, 4, split.NumExpenseTransactions)
	assert.Equal(t, DateRange{Start: "2024-01-05", End: "2024-01-15"}, split.DateRange)

	require.Len(t, split.CategoryBreakdown, 2)
	food := split.CategoryBreakdown[0]
	assert.Equal(t, "Food", food.Category)
	assertAmount(t, "150.25", food.Total)
	assertAmount(t, "90.15", food.Person1Share)
	assertAmount(t, "60.10", food.Person2Share)
	assert.Equal(t, "Transport", split.CategoryBreakdown[1].Category)
	assertAmount(t, "40.00", split.CategoryBreakdown[1].Total)
}

func TestComputeBalanceSplit_NegativeBalanceKeepsSign(t *testing.T) {
	transactions := []model.Transaction{
		testutil.Txn("2024-01-01", "Coffee", "4.00", "Food"),
		testutil.Txn("2024-01-02", "CREDIT CARD PAYMENT", "-10.00", ""),
	}

	split := ComputeBalanceSplit("cc", transactions, DefaultSplitParams())

	assertAmount(t, "-6.00", split.TotalBalance)
	assertAmount(t, "-3.00", split.Person1Owes)
	assertAmount(t, "-3.00", split.Person2Owes)
	assertAmount(t, "4.00", split.TotalExpenses)
	assertAmount(t, "10.00", split.TotalPaymentsCredits)
}

func TestComputeBalanceSplit_CategoryTotalsMatchExpenses(t *testing.T) {
	transactions := []model.Transaction{
		testutil.Txn("2024-01-01", "A", "10.10", "Food"),
		testutil.Txn("2024-01-02", "B", "20.20", "Fun"),
		testutil.Txn("2024-01-03", "C", "30.30", "Food"),
		testutil.Txn("2024-01-04", "D", "-5.00", "Food"),
	}

	split := ComputeBalanceSplit("cc", transactions, SplitParams{Person1Percentage: 33})

	sum, person1, person2 := testutil.Dec("0"), testutil.Dec("0"), testutil.Dec("0")
	for _, share := range split.CategoryBreakdown {
		sum = sum.Add(share.Total)
		person1 = person1.Add(share.Person1Share)
		person2 = person2.Add(share.Person2Share)
		assert.True(t, share.Total.Equal(share.Person1Share.Add(share.Person2Share)))
	}
	assert.True(t, split.TotalExpenses.Equal(sum))
	assert.True(t, split.TotalExpenses.Equal(person1.Add(person2)))
}

func TestComputeBalanceSplit_BreakdownTiesKeepFirstSeenOrder(t *testing.T) {
	transactions := []model.Transaction{
		testutil.Txn("2024-01-01", "A", "10.00", "Alpha"),
		testutil.Txn("2024-01-02", "B", "10.00", "Beta"),
		testutil.Txn("2024-01-03", "C", "20.00", "Gamma"),
	}

	split := ComputeBalanceSplit("cc", transactions, DefaultSplitParams())

	var categories []string
	for _, share := range split.CategoryBreakdown {
		categories = append(categories, share.Category)
	}
	assert.Equal(t, []string{"Gamma", "Alpha", "Beta"}, categories)
}

func TestComputeBalanceSplit_Empty(t *testing.T) {
	split := ComputeBalanceSplit("cc", nil, DefaultSplitParams())

	assert.True(t, split.TotalBalance.IsZero())
	assert.True(t, split.TotalExpenses.IsZero())
	assert.True(t, split.TotalPaymentsCredits.IsZero())
	assert.True(t, split.Person1Owes.IsZero())
	assert.True(t, split.Person2Owes.IsZero())
	assert.Empty(t, split.CategoryBreakdown)
	assert.NotNil(t, split.CategoryBreakdown)
	assert.Equal(t, EmptyDateRange, split.DateRange)
	assert.False(t, split.DateRange.IsAvailable())
}

func TestComputeExpenseSplit_SinceSettlement(t *testing.T) {
	transactions := []model.Transaction{
		testutil.Txn("2024-02-01", "CREDIT CARD PAYMENT", "-500.00", ""),
		testutil.Txn("2024-02-15", "Groceries", "-75.00", "Food"),
	}

	split := ComputeExpenseSplit("cc", transactions, DefaultSplitParams(), testutil.Date("2024-03-01"))

	require.True(t, split.Settlement.Found)
	assert.Equal(t, "Since last settlement on 2024-02-01", split.SettlementInfo)
	assertAmount(t, "75.00", split.TotalExpenses)
	assertAmount(t, "37.50", split.Person1Share)
	assertAmount(t, "37.50", split.Person2Share)
	assert.Equal(t, 1, split.NumExpenseTransactions)
	assert.Equal(t, DateRange{Start: "2024-02-15", End: "2024-02-15"}, split.DateRange)
}

func TestComputeExpenseSplit_WindowFilters(t *testing.T) {
	transactions := []model.Transaction{
		testutil.Txn("2024-01-20", "Before settlement", "-30.00", "Food"),
		testutil.Txn("2024-02-01", "CREDIT CARD PAYMENT", "-500.00", ""),
		testutil.Txn("2024-02-01", "Same day purchase", "-20.00", "Food"),
		testutil.Txn("2024-02-10", "Dinner", "-40.00", "Food"),
		testutil.Txn("2024-02-12", "Taxi", "-15.50", "Transport"),
		testutil.Txn("2024-02-14", "Refund", "60.00", "Food"),
		testutil.Txn("2024-02-20", "Misc", "-9.50", ""),
		testutil.Txn("", "Undated", "-99.00", "Food"),
	}

	split := ComputeExpenseSplit("cc", transactions, SplitParams{Person1Percentage: 70}, testutil.Date("2024-03-01"))

	assertAmount(t, "65.00", split.TotalExpenses)
	assertAmount(t, "45.50", split.Person1Share)
	assertAmount(t, "19.50", split.Person2Share)
	assert.Equal(t, 3, split.NumExpenseTransactions)
	assert.Equal(t, DateRange{Start: "2024-02-10", End: "2024-02-20"}, split.DateRange)

	require.Len(t, split.CategoryBreakdown, 2)
	assert.Equal(t, "Food", split.CategoryBreakdown[0].Category)
	assertAmount(t, "40.00", split.CategoryBreakdown[0].Total)
	assert.Equal(t, "Transport", split.CategoryBreakdown[1].Category)
	assertAmount(t, "15.50", split.CategoryBreakdown[1].Total)
}

func TestComputeExpenseSplit_FallbackWindow(t *testing.T) {
	transactions := []model.Transaction{
		testutil.Txn("2024-02-29", "Too old", "-20.00", "Food"),
		testutil.Txn("2024-03-01", "Boundary", "-10.00", "Food"),
		testutil.Txn("2024-03-20", "Cinema", "-5.00", "Fun"),
	}

	split := ComputeExpenseSplit("cc", transactions, DefaultSplitParams(), testutil.Date("2024-03-31"))

	assert.False(t, split.Settlement.Found)
	assert.Equal(t, "Last 30 days (no settlement pattern detected)", split.SettlementInfo)
	assertAmount(t, "15.00", split.TotalExpenses)
	assertAmount(t, "7.50", split.Person1Share)
	assert.Equal(t, 2, split.NumExpenseTransactions)
	assert.Equal(t, DateRange{Start: "2024-03-01", End: "2024-03-20"}, split.DateRange)
}

func TestComputeExpenseSplit_FallbackWindowIgnoresTimeOfDay(t *testing.T) {
	transactions := []model.Transaction{
		testutil.Txn("2024-02-29", "Too old", "-20.00", "Food"),
		testutil.Txn("2024-03-01", "Boundary", "-10.00", "Food"),
		testutil.Txn("2024-03-20", "Cinema", "-5.00", "Fun"),
	}
	now := time.Date(2024, 3, 31, 15, 0, 0, 0, time.UTC)

	split := ComputeExpenseSplit("cc", transactions, DefaultSplitParams(), now)

	assertAmount(t, "15.00", split.TotalExpenses)
	assert.Equal(t, 2, split.NumExpenseTransactions)
	assert.Equal(t, DateRange{Start: "2024-03-01", End: "2024-03-20"}, split.DateRange)
}

func TestComputeExpenseSplit_SettlementIsIdempotent(t *testing.T) {
	transactions := []model.Transaction{
		testutil.Txn("2024-02-01", "CREDIT CARD PAYMENT", "-500.00", ""),
		testutil.Txn("2024-02-15", "Groceries", "-75.00", "Food"),
	}
	now := testutil.Date("2024-03-01")

	first := ComputeExpenseSplit("cc", transactions, DefaultSplitParams(), now)
	second := ComputeExpenseSplit("cc", transactions, DefaultSplitParams(), now)

	assert.Equal(t, first.Settlement, second.Settlement)
	assert.True(t, first.TotalExpenses.Equal(second.TotalExpenses))
}

func TestComputeExpenseSplit_Empty(t *testing.T) {
	split := ComputeExpenseSplit("cc", nil, DefaultSplitParams(), testutil.Date("2024-03-01"))

	assert.True(t, split.TotalExpenses.IsZero())
	assert.True(t, split.Person1Share.IsZero())
	assert.True(t, split.Person2Share.IsZero())
	assert.Equal(t, 0, split.NumExpenseTransactions)
	assert.Empty(t, split.CategoryBreakdown)
	assert.Equal(t, EmptyDateRange, split.DateRange)
	assert.Equal(t, "Last 30 days (no settlement pattern detected)", split.SettlementInfo)
}
