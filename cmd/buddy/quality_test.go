package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/lil-bank-buddy/internal/analysis"
	"github.com/Veraticus/lil-bank-buddy/internal/config"
	"github.com/Veraticus/lil-bank-buddy/internal/storage"
	"github.com/Veraticus/lil-bank-buddy/internal/testutil"
)

func TestRunQuality(t *testing.T) {
	store := testutil.NewMemoryStore().With("team_beeb_cc",
		testutil.Txn("2024-02-15", "Groceries", "75.00", "Food"),
		testutil.Txn("2024-04-01", "Preorder", "20.00", "Fun"),
		testutil.Txn("", "Mystery", "5.00", ""),
	).With("team_beeb_checking",
		testutil.Txn("2024-02-10", "Paycheck", "-1000.00", "Income"),
	)
	analyzer := analysis.NewAnalyzer(store, analysis.WithClock(testutil.Clock("2024-03-01")))

	var out bytes.Buffer
	require.NoError(t, runQuality(context.Background(), &out, analyzer, config.DefaultAccounts()))

	output := out.String()
	assert.Contains(t, output, "Data quality: Credit Card (team_beeb_cc)")
	assert.Contains(t, output, "2024-04-01")
	assert.Contains(t, output, "Preorder")
	assert.Contains(t, output, "Data quality: Checking (team_beeb_checking)")
	assert.Contains(t, output, "No date problems found")
}

func TestRunQuality_UnknownAccount(t *testing.T) {
	analyzer := analysis.NewAnalyzer(testutil.NewMemoryStore())

	err := runQuality(context.Background(), &bytes.Buffer{}, analyzer, config.DefaultAccounts())
	require.ErrorIs(t, err, storage.ErrAccountNotFound)
}
