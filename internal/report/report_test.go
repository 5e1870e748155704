package report

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/lil-bank-buddy/internal/analysis"
	"github.com/Veraticus/lil-bank-buddy/internal/config"
	"github.com/Veraticus/lil-bank-buddy/internal/testutil"
)

type fakeCharts struct {
	err    error
	titles []string
}

func (f *fakeCharts) RenderPie(w io.Writer, title string, _ []analysis.CategoryCount) error {
	f.titles = append(f.titles, title)
	if f.err != nil {
		return f.err
	}
	_, err := w.Write([]byte("fake png"))
	return err
}

func newTestGenerator(charts PieChartRenderer) *Generator {
	store := testutil.NewMemoryStore().With("team_beeb_cc",
		testutil.Txn("2024-02-01", "CREDIT CARD PAYMENT", "-500.00", ""),
		testutil.Txn("2024-02-15", "Groceries", "-75.00", "Food"),
		testutil.Txn("2024-02-20", "Restaurant", "40.00", "Food"),
		testutil.Txn("2024-02-25", "Movies", "20.00", "Fun"),
	)
	clock := testutil.Clock("2024-03-01")
	analyzer := analysis.NewAnalyzer(store, analysis.WithClock(clock))

	return NewGenerator(analyzer, config.DefaultAccounts(),
		WithChartRenderer(charts),
		WithClock(clock))
}

func generate(t *testing.T, g *Generator, charts bool) (string, string) {
	t.Helper()

	dir := t.TempDir()
	path, err := g.Generate(context.Background(), Options{
		OutputPath: filepath.Join(dir, "reports", "Bank_Transaction_Report.md"),
		Split:      analysis.DefaultSplitParams(),
		RecentDays: 30,
		Charts:     charts,
	})
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(content), filepath.Dir(path)
}

func TestGenerate(t *testing.T) {
	charts := &fakeCharts{}
	report, dir := generate(t, newTestGenerator(charts), true)

	expected := []string{
		"# Bank Accounts Transaction Report",
		"## Overview",
		"| Credit Card (team_beeb_cc) | 4 | -$515.00 | $40.00 | Food | 2024-02-01 to 2024-02-25 |",
		"**Split Ratio:** Person 1 50% / Person 2 50%",
		"### Credit Card Current Balance",
		"- **Total Outstanding Balance:** -$515.00",
		"- **Total Expenses (All Time):** $60.00",
		"- **Total Payments Made:** $575.00",
		"- **Person 1 Owes:** -$257.50",
		"| 2024-02-01 | $500.00 | CREDIT CARD PAYMENT |",
		"| Food | $40.00 | $20.00 | $20.00 |",
		"| **TOTAL EXPENSES** | **$60.00** | **$30.00** | **$30.00** |",
		"**Total Current Balance Across All Accounts:** -$515.00",
		"**💸 Person 1 owes:** -$257.50",
		"- **Period:** Since last settlement on 2024-02-01",
		"- **New Expenses:** $75.00",
		"- **Person 1 Share:** $37.50",
		"- **Date Range:** 2024-02-15 to 2024-02-15",
		"- *Settlement date based on a single payment.*",
		"## Recent Activity (Last 30 Days)",
		"| Food | 2 |",
		"| Fun | 1 |",
		"![Credit Card Top Categories Pie Chart](./team_beeb_cc_top_categories.png)",
		"## Data Quality",
		"- **Future-Dated Rows:** 0",
		"*Report generated on: 2024-03-01*",
	}
	for _, want := range expected {
		assert.Contains(t, report, want)
	}

	assert.Equal(t, []string{"Top Categories - Credit Card"}, charts.titles)
	chart, err := os.ReadFile(filepath.Join(dir, "team_beeb_cc_top_categories.png"))
	require.NoError(t, err)
	assert.Equal(t, "fake png", string(chart))
}

func TestGenerate_FailedAccountIsNoted(t *testing.T) {
	report, _ := generate(t, newTestGenerator(&fakeCharts{}), true)

	assert.Contains(t, report, "| Checking (team_beeb_checking) | *unavailable* |")
	assert.Contains(t, report, "> **Checking (team_beeb_checking):** failed to load account team_beeb_checking")
	assert.NotContains(t, report, "### Checking Current Balance")
	assert.NotContains(t, report, "### Checking New Expenses")
}

func TestGenerate_WithoutCharts(t *testing.T) {
	charts := &fakeCharts{}
	report, dir := generate(t, newTestGenerator(charts), false)

	assert.Empty(t, charts.titles)
	assert.NotContains(t, report, "Pie Chart")
	assert.NoFileExists(t, filepath.Join(dir, "team_beeb_cc_top_categories.png"))
}

func TestGenerate_ChartFailureKeepsReport(t *testing.T) {
	report, _ := generate(t, newTestGenerator(&fakeCharts{err: errors.New("no fonts")}), true)

	assert.NotContains(t, report, "Pie Chart")
	assert.Contains(t, report, "| Food | 2 |")
}

func TestGenerate_EmptyAccount(t *testing.T) {
	analyzer := analysis.NewAnalyzer(testutil.NewMemoryStore().With("team_beeb_cc"),
		analysis.WithClock(testutil.Clock("2024-03-01")))
	accounts := config.DefaultAccounts()[:1]
	g := NewGenerator(analyzer, accounts, WithChartRenderer(&fakeCharts{}))

	report, _ := generate(t, g, true)

	assert.Contains(t, report, "| Credit Card (team_beeb_cc) | 0 | $0.00 | $0.00 | N/A | N/A to N/A |")
	assert.Contains(t, report, "No recent payments found")
	assert.Contains(t, report, "No expense data available")
	assert.Contains(t, report, "- **Period:** Last 30 days (no settlement pattern detected)")
	assert.NotContains(t, report, "- **Date Range:**")
	assert.Contains(t, report, "None")
}

func TestGenerate_InvalidOptions(t *testing.T) {
	g := newTestGenerator(&fakeCharts{})

	_, err := g.Generate(context.Background(), Options{})
	assert.Error(t, err)

	_, err = g.Generate(context.Background(), Options{
		OutputPath: filepath.Join(t.TempDir(), "report.md"),
		Split:      analysis.SplitParams{Person1Percentage: 120},
	})
	assert.ErrorIs(t, err, analysis.ErrInvalidPercentage)
}

func TestGoChartRenderer(t *testing.T) {
	var buf bytes.Buffer
	err := NewGoChartRenderer().RenderPie(&buf, "Top Categories - Credit Card", []analysis.CategoryCount{
		{Category: "Food", Count: 3},
		{Category: "Fun", Count: 1},
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")))

	assert.ErrorIs(t, NewGoChartRenderer().RenderPie(&buf, "empty", nil), ErrNoCategories)
}

func TestEscapeCell(t *testing.T) {
	assert.Equal(t, `A \| B C`, escapeCell("A | B\nC"))
}
