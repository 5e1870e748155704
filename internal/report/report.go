// Package report renders the Markdown transaction report and its charts.
package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/lil-bank-buddy/internal/analysis"
	"github.com/Veraticus/lil-bank-buddy/internal/config"
	"github.com/Veraticus/lil-bank-buddy/internal/model"
)

// AccountAnalyzer runs every analysis for one account.
type AccountAnalyzer interface {
	AnalyzeAccount(ctx context.Context, account string, params analysis.SplitParams, days int) (*analysis.AccountAnalysis, error)
}

// Options controls one report run.
type Options struct {
	OutputPath string
	Split      analysis.SplitParams
	RecentDays int
	Charts     bool
}

// Generator writes the Markdown report for a set of accounts.
type Generator struct {
	analyzer AccountAnalyzer
	charts   PieChartRenderer
	now      func() time.Time
	accounts []config.Account
}

// Option configures a Generator.
type Option func(*Generator)

// WithChartRenderer replaces the go-chart renderer.
func WithChartRenderer(r PieChartRenderer) Option {
	return func(g *Generator) {
		g.charts = r
	}
}

// WithClock sets the time source used for the report date.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// NewGenerator creates a report generator over accounts.
func NewGenerator(analyzer AccountAnalyzer, accounts []config.Account, opts ...Option) *Generator {
	g := &Generator{
		analyzer: analyzer,
		accounts: accounts,
		charts:   NewGoChartRenderer(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

type shareTotals struct {
	Balance decimal.Decimal
	Person1 decimal.Decimal
	Person2 decimal.Decimal
}

type accountSection struct {
	*analysis.AccountAnalysis
	Err           error
	ID            string
	Name          string
	Label         string
	Chart         string
	ExpenseTotals shareTotals
}

type reportData struct {
	Generated  string
	Accounts   []accountSection
	Combined   shareTotals
	Split      analysis.SplitParams
	RecentDays int
}

// Generate analyzes every account, writes charts next to the report, and
// writes the report to opts.OutputPath, returning that path. An account that
// fails to load is noted in the report and does not stop the others.
func (g *Generator) Generate(ctx context.Context, opts Options) (string, error) {
	if opts.OutputPath == "" {
		return "", errors.New("report output path is required")
	}
	if err := opts.Split.Validate(); err != nil {
		return "", err
	}
	if opts.RecentDays <= 0 {
		opts.RecentDays = analysis.DefaultRecentDays
	}

	outputDir := filepath.Dir(opts.OutputPath)
	if err := os.MkdirAll(outputDir, 0750); err != nil {
		return "", fmt.Errorf("failed to create report directory: %w", err)
	}

	data := reportData{
		Generated:  g.now().Format(model.DateLayout),
		Split:      opts.Split,
		RecentDays: opts.RecentDays,
		Combined: shareTotals{
			Balance: decimal.Zero,
			Person1: decimal.Zero,
			Person2: decimal.Zero,
		},
	}

	for _, account := range g.accounts {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		section := accountSection{
			ID:    account.ID,
			Name:  account.DisplayName(),
			Label: fmt.Sprintf("%s (%s)", account.DisplayName(), account.ID),
		}

		result, err := g.analyzer.AnalyzeAccount(ctx, account.ID, opts.Split, opts.RecentDays)
		if err != nil {
			slog.Warn("Account left out of report", "account", account.ID, "error", err)
			section.Err = err
			data.Accounts = append(data.Accounts, section)
			continue
		}
		section.AccountAnalysis = result

		person1, person2 := opts.Split.Shares(result.Balance.TotalExpenses)
		section.ExpenseTotals = shareTotals{Balance: result.Balance.TotalExpenses, Person1: person1, Person2: person2}

		data.Combined.Balance = data.Combined.Balance.Add(result.Balance.TotalBalance)
		data.Combined.Person1 = data.Combined.Person1.Add(result.Balance.Person1Owes)
		data.Combined.Person2 = data.Combined.Person2.Add(result.Balance.Person2Owes)

		if opts.Charts && len(result.Recent.TopCategories) > 0 {
			section.Chart = g.writeChart(outputDir, account, result.Recent.TopCategories)
		}

		data.Accounts = append(data.Accounts, section)
	}

	var buf bytes.Buffer
	if err := reportTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}

	if err := os.WriteFile(opts.OutputPath, buf.Bytes(), 0600); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	slog.Info("Report written", "path", opts.OutputPath, "accounts", len(data.Accounts))
	return opts.OutputPath, nil
}

// writeChart renders the top-category chart and returns its file name, or ""
// when the chart could not be written. A missing chart never fails the report.
func (g *Generator) writeChart(dir string, account config.Account, categories []analysis.CategoryCount) string {
	name := account.ID + "_top_categories.png"
	path := filepath.Join(dir, name)

	var buf bytes.Buffer
	title := "Top Categories - " + account.DisplayName()
	if err := g.charts.RenderPie(&buf, title, categories); err != nil {
		slog.Warn("Skipping chart", "account", account.ID, "error", err)
		return ""
	}

	if err := os.WriteFile(path, buf.Bytes(), 0600); err != nil {
		slog.Warn("Skipping chart", "account", account.ID, "path", path, "error", err)
		return ""
	}
	return name
}
