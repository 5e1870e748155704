// Package analysis derives account statistics, settlement detection and
// two-person expense splits from stored transactions.
//
// Every Analyzer method reads the full history of one account from the store
// and recomputes its result; nothing is cached between calls.
package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/lil-bank-buddy/internal/model"
	"github.com/Veraticus/lil-bank-buddy/internal/service"
)

// Analyzer computes reports for accounts held in a TransactionStore.
type Analyzer struct {
	store service.TransactionStore
	now   func() time.Time
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithClock sets the time source used for date windows.
func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		if now != nil {
			a.now = now
		}
	}
}

// NewAnalyzer creates an Analyzer reading from store.
func NewAnalyzer(store service.TransactionStore, opts ...Option) *Analyzer {
	a := &Analyzer{
		store: store,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Analyzer) load(ctx context.Context, account string) ([]model.Transaction, error) {
	transactions, err := a.store.ReadAll(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to load account %s: %w", account, err)
	}
	slog.Debug("Loaded account", "account", account, "transactions", len(transactions))
	return transactions, nil
}

// AccountSummary returns headline statistics for an account.
func (a *Analyzer) AccountSummary(ctx context.Context, account string) (*AccountSummary, error) {
	transactions, err := a.load(ctx, account)
	if err != nil {
		return nil, err
	}
	return ComputeAccountSummary(account, transactions, a.now()), nil
}

// RecentActivity summarizes the last days days of an account.
func (a *Analyzer) RecentActivity(ctx context.Context, account string, days int) (*RecentActivity, error) {
	transactions, err := a.load(ctx, account)
	if err != nil {
		return nil, err
	}
	return ComputeRecentActivity(account, transactions, days, a.now()), nil
}

// PaymentPatterns lists the most recent credit card payments of an account.
func (a *Analyzer) PaymentPatterns(ctx context.Context, account string) (*PaymentPatterns, error) {
	transactions, err := a.load(ctx, account)
	if err != nil {
		return nil, err
	}
	return ComputePaymentPatterns(account, transactions), nil
}

// ValidateDataQuality reports future-dated and undated rows of an account.
func (a *Analyzer) ValidateDataQuality(ctx context.Context, account string) (*DataQualityReport, error) {
	transactions, err := a.load(ctx, account)
	if err != nil {
		return nil, err
	}
	return ComputeDataQualityReport(account, transactions, a.now()), nil
}

// CurrentBalanceSplit splits the balance of an account's whole history.
// params must already be validated.
func (a *Analyzer) CurrentBalanceSplit(ctx context.Context, account string, params SplitParams) (*BalanceSplit, error) {
	transactions, err := a.load(ctx, account)
	if err != nil {
		return nil, err
	}
	return ComputeBalanceSplit(account, transactions, params), nil
}

// ExpenseSplit splits the expenses recorded since the last settlement.
// params must already be validated.
func (a *Analyzer) ExpenseSplit(ctx context.Context, account string, params SplitParams) (*ExpenseSplit, error) {
	transactions, err := a.load(ctx, account)
	if err != nil {
		return nil, err
	}

	split := ComputeExpenseSplit(account, transactions, params, a.now())
	if split.Settlement.Found && !split.Settlement.Confident() {
		slog.Debug("Settlement based on a single payment",
			"account", account,
			"date", split.Settlement.Date.Format(model.DateLayout))
	}
	return split, nil
}

// AnalyzeAccount runs every report for one account over a single read of
// its history. A failed read aborts the whole analysis of that account.
func (a *Analyzer) AnalyzeAccount(ctx context.Context, account string, params SplitParams, days int) (*AccountAnalysis, error) {
	transactions, err := a.load(ctx, account)
	if err != nil {
		return nil, err
	}

	now := a.now()
	return &AccountAnalysis{
		Account:  account,
		Summary:  ComputeAccountSummary(account, transactions, now),
		Recent:   ComputeRecentActivity(account, transactions, days, now),
		Payments: ComputePaymentPatterns(account, transactions),
		Balance:  ComputeBalanceSplit(account, transactions, params),
		Expenses: ComputeExpenseSplit(account, transactions, params, now),
		Quality:  ComputeDataQualityReport(account, transactions, now),
	}, nil
}
