package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/lil-bank-buddy/internal/storage"
	"github.com/Veraticus/lil-bank-buddy/internal/testutil"
)

func TestAnalyzer_ExpenseSplitWithSQLite(t *testing.T) {
	db := testutil.SetupTestDB(t)
	db.Seed("team_beeb_cc",
		testutil.Txn("2024-02-01", "CREDIT CARD PAYMENT", "-500.00", ""),
		testutil.Txn("2024-02-15", "Groceries", "-75.00", "Food"),
	)

	analyzer := NewAnalyzer(db.Storage, WithClock(testutil.Clock("2024-03-01")))

	split, err := analyzer.ExpenseSplit(context.Background(), "team_beeb_cc", DefaultSplitParams())
	require.NoError(t, err)

	assertAmount(t, "75.00", split.TotalExpenses)
	assertAmount(t, "37.50", split.Person1Share)
	assertAmount(t, "37.50", split.Person2Share)
	assert.Equal(t, "Since last settlement on 2024-02-01", split.SettlementInfo)
}

func TestAnalyzer_MissingAccount(t *testing.T) {
	analyzer := NewAnalyzer(testutil.NewMemoryStore(), WithClock(testutil.Clock("2024-03-01")))
	ctx := context.Background()

	_, err := analyzer.AccountSummary(ctx, "nope")
	require.Error(t, err)
	assert.ErrorIs(t, err, storage.ErrAccountNotFound)
	assert.Contains(t, err.Error(), "failed to load account nope")

	_, err = analyzer.ExpenseSplit(ctx, "nope", DefaultSplitParams())
	assert.ErrorIs(t, err, storage.ErrAccountNotFound)

	_, err = analyzer.AnalyzeAccount(ctx, "nope", DefaultSplitParams(), DefaultRecentDays)
	assert.ErrorIs(t, err, storage.ErrAccountNotFound)
}

func TestAnalyzer_StoreErrorPropagates(t *testing.T) {
	boom := errors.New("disk on fire")
	store := testutil.NewMemoryStore().FailWith("cc", boom)
	analyzer := NewAnalyzer(store)

	_, err := analyzer.ValidateDataQuality(context.Background(), "cc")
	assert.ErrorIs(t, err, boom)
}

func TestAnalyzer_EmptyAccount(t *testing.T) {
	store := testutil.NewMemoryStore().With("empty")
	analyzer := NewAnalyzer(store, WithClock(testutil.Clock("2024-03-01")))

	result, err := analyzer.AnalyzeAccount(context.Background(), "empty", DefaultSplitParams(), DefaultRecentDays)
	require.NoError(t, err)

	assert.Equal(t, 0, result.Summary.TotalTransactions)
	assert.Equal(t, EmptyDateRange, result.Summary.DateRange)
	assert.Equal(t, 0, result.Recent.NumTransactions)
	assert.Equal(t, 0, result.Payments.PaymentCount)
	assert.True(t, result.Balance.TotalBalance.IsZero())
	assert.True(t, result.Expenses.TotalExpenses.IsZero())
	assert.Equal(t, 0, result.Quality.TotalRows)
}

func TestAnalyzer_AnalyzeAccountReadsOnceAndFresh(t *testing.T) {
	store := testutil.NewMemoryStore().With("cc",
		testutil.Txn("2024-02-20", "Groceries", "42.00", "Food"),
		testutil.Txn("2024-02-25", "CREDIT CARD PAYMENT", "-42.00", ""),
	)
	analyzer := NewAnalyzer(store, WithClock(testutil.Clock("2024-03-01")))
	ctx := context.Background()

	result, err := analyzer.AnalyzeAccount(ctx, "cc", DefaultSplitParams(), 7)
	require.NoError(t, err)

	assert.Equal(t, "cc", result.Account)
	assert.Equal(t, 2, result.Summary.TotalTransactions)
	assert.Equal(t, 1, result.Recent.NumTransactions)
	assert.Equal(t, 1, result.Payments.PaymentCount)
	assert.True(t, result.Balance.TotalBalance.IsZero())
	assert.Equal(t, 1, store.Reads("cc"), "one read serves every report")

	store.With("cc", testutil.Txn("2024-02-28", "Dinner", "-30.00", "Food"))

	split, err := analyzer.ExpenseSplit(ctx, "cc", DefaultSplitParams())
	require.NoError(t, err)
	assertAmount(t, "30.00", split.TotalExpenses)
	assert.Equal(t, 2, store.Reads("cc"))
}

func TestAnalyzer_RecentActivityUsesClock(t *testing.T) {
	store := testutil.NewMemoryStore().With("cc",
		testutil.Txn("2024-03-01", "Old", "1.00", "Food"),
		testutil.Txn("2024-03-30", "New", "2.00", "Food"),
	)

	analyzer := NewAnalyzer(store, WithClock(testutil.Clock("2024-03-31")))
	activity, err := analyzer.RecentActivity(context.Background(), "cc", 7)
	require.NoError(t, err)

	assert.Equal(t, 1, activity.NumTransactions)
	assertAmount(t, "2.00", activity.TotalAmount)
}

func TestAnalyzer_RecentActivityWithAfternoonClock(t *testing.T) {
	store := testutil.NewMemoryStore().With("cc",
		testutil.Txn("2024-03-01", "Thirty days ago", "12.00", "Food"),
	)
	afternoon := func() time.Time { return time.Date(2024, 3, 31, 15, 0, 0, 0, time.UTC) }

	analyzer := NewAnalyzer(store, WithClock(afternoon))
	activity, err := analyzer.RecentActivity(context.Background(), "cc", 30)
	require.NoError(t, err)

	assert.Equal(t, 1, activity.NumTransactions)
	assert.Equal(t, []CategoryCount{{Category: "Food", Count: 1}}, activity.TopCategories)
}
