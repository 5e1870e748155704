package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/lil-bank-buddy/internal/analysis"
	"github.com/Veraticus/lil-bank-buddy/internal/cli"
	"github.com/Veraticus/lil-bank-buddy/internal/common"
	"github.com/Veraticus/lil-bank-buddy/internal/config"
	"github.com/Veraticus/lil-bank-buddy/internal/report"
)

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [accounts...]",
		Short: "Analyze accounts and show who owes what",
		Long: `Print the summary, recent activity, payments and both expense splits for
each selected account. Accounts are selected by id or alias; with no arguments
every configured account is analyzed.`,
		Example: `  # Analyze every account
  buddy analyze

  # Only the credit card, with a 60/40 split
  buddy analyze cc --person1-pct 60`,
		RunE: func(cmd *cobra.Command, args []string) error {
			accounts, err := appConfig.SelectAccounts(args...)
			if err != nil {
				return err
			}

			store, err := openStorage(cmd.Context(), appConfig.Database.Path)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			return runAnalyze(cmd.Context(), cmd.OutOrStdout(), analysis.NewAnalyzer(store), accounts,
				appConfig.SplitParams(), appConfig.Analysis.RecentDays)
		},
	}

	cmd.Flags().Int("days", analysis.DefaultRecentDays, "length of the recent activity window in days")
	addSplitFlags(cmd)

	return cmd
}

// addSplitFlags registers the flags that override the configured split.
func addSplitFlags(cmd *cobra.Command) {
	cmd.Flags().String("person1-name", "", "name of the first person")
	cmd.Flags().String("person2-name", "", "name of the second person")
	cmd.Flags().Int("person1-pct", 50, "first person's share of expenses, 0-100")
}

func runAnalyze(ctx context.Context, w io.Writer, analyzer report.AccountAnalyzer, accounts []config.Account,
	params analysis.SplitParams, days int) error {
	failed := 0
	for i, account := range accounts {
		if err := ctx.Err(); err != nil {
			return err
		}
		if i > 0 {
			fmt.Fprintln(w) //nolint:forbidigo // User-facing output
		}

		result, err := analyzer.AnalyzeAccount(ctx, account.ID, params, days)
		if err != nil {
			failed++
			slog.Warn("Account analysis failed", "account", account.ID, "error", err)
			fmt.Fprintln(w, cli.FormatError(fmt.Sprintf("%s: %v", accountLabel(account), err))) //nolint:forbidigo // User-facing output
			continue
		}

		fmt.Fprintln(w, cli.FormatTitle(accountLabel(account))) //nolint:forbidigo // User-facing output
		printSummary(w, result.Summary)
		printRecent(w, result.Recent)
		printPayments(w, result.Payments)
		printBalanceSplit(w, result.Balance)
		printExpenseSplit(w, result.Expenses)
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d accounts", common.ErrPartialFailure, failed, len(accounts))
	}
	return nil
}

func accountLabel(account config.Account) string {
	if account.Name == "" || account.Name == account.ID {
		return account.ID
	}
	return fmt.Sprintf("%s (%s)", account.Name, account.ID)
}

//nolint:forbidigo // User-facing output
func printSummary(w io.Writer, s *analysis.AccountSummary) {
	fmt.Fprintln(w, cli.FormatHeading("Summary"))
	fmt.Fprintln(w, cli.FormatKeyValue("Total transactions", fmt.Sprint(s.TotalTransactions)))
	fmt.Fprintln(w, cli.FormatKeyValue("Total amount", analysis.FormatDollar(s.TotalAmount)))
	fmt.Fprintln(w, cli.FormatKeyValue("Largest transaction", analysis.FormatDollar(s.LargestTransaction)))
	fmt.Fprintln(w, cli.FormatKeyValue("Smallest transaction", analysis.FormatDollar(s.SmallestTransaction)))

	category := s.MostFrequentCategory
	if category == "" {
		category = analysis.NotAvailable
	}
	fmt.Fprintln(w, cli.FormatKeyValue("Most frequent category", category))
	fmt.Fprintln(w, cli.FormatKeyValue("Date range", s.DateRange.String()))

	quality := s.DataQuality
	if quality.FarFutureCount > 0 {
		fmt.Fprintln(w, cli.FormatWarning(fmt.Sprintf("%d transactions are dated more than a year ahead", quality.FarFutureCount)))
	}
	if quality.InvalidDatesCount > 0 {
		fmt.Fprintln(w, cli.FormatWarning(fmt.Sprintf("%d transactions have no valid date", quality.InvalidDatesCount)))
	}
	fmt.Fprintln(w)
}

//nolint:forbidigo // User-facing output
func printRecent(w io.Writer, r *analysis.RecentActivity) {
	fmt.Fprintln(w, cli.FormatHeading(fmt.Sprintf("Recent activity (last %d days)", r.Days)))
	fmt.Fprintln(w, cli.FormatKeyValue("Transactions", fmt.Sprint(r.NumTransactions)))
	fmt.Fprintln(w, cli.FormatKeyValue("Total amount", analysis.FormatDollar(r.TotalAmount)))

	if len(r.TopCategories) == 0 {
		fmt.Fprintln(w, cli.FormatKeyValue("Top categories", "None"))
	} else {
		lines := make([]string, 0, len(r.TopCategories))
		for _, c := range r.TopCategories {
			lines = append(lines, fmt.Sprintf("%s: %d", c.Category, c.Count))
		}
		fmt.Fprintln(w, cli.FormatKeyValue("Top categories", ""))
		fmt.Fprintln(w, cli.FormatList(lines))
	}
	fmt.Fprintln(w)
}

//nolint:forbidigo // User-facing output
func printPayments(w io.Writer, p *analysis.PaymentPatterns) {
	fmt.Fprintln(w, cli.FormatHeading("Recent payments"))
	if p.PaymentCount == 0 {
		fmt.Fprintln(w, cli.SubtleStyle.Render("No credit card payments found"))
		fmt.Fprintln(w)
		return
	}

	lines := make([]string, 0, len(p.RecentPayments))
	for _, payment := range p.RecentPayments {
		lines = append(lines, fmt.Sprintf("%s  %-10s %s", payment.Date,
			analysis.FormatDollar(payment.Amount), analysis.TruncateDescription(payment.Description, 40)))
	}
	fmt.Fprintln(w, cli.FormatList(lines))
	fmt.Fprintln(w, cli.FormatKeyValue("Total of recent payments", analysis.FormatDollar(p.TotalRecentPayments)))
	fmt.Fprintln(w)
}

//nolint:forbidigo // User-facing output
func printBalanceSplit(w io.Writer, b *analysis.BalanceSplit) {
	fmt.Fprintln(w, cli.FormatHeading("Current balance"))
	fmt.Fprintln(w, cli.FormatKeyValue("Balance", analysis.FormatDollar(b.TotalBalance)))
	fmt.Fprintln(w, cli.FormatKeyValue("Expenses", fmt.Sprintf("%s (%d transactions)",
		analysis.FormatDollar(b.TotalExpenses), b.NumExpenseTransactions)))
	fmt.Fprintln(w, cli.FormatKeyValue("Payments and credits", analysis.FormatDollar(b.TotalPaymentsCredits)))
	fmt.Fprintln(w, cli.FormatKeyValue(shareLabel(b.Person1Name, b.Person1Percentage), analysis.FormatDollar(b.Person1Owes)))
	fmt.Fprintln(w, cli.FormatKeyValue(shareLabel(b.Person2Name, b.Person2Percentage), analysis.FormatDollar(b.Person2Owes)))
	fmt.Fprintln(w)
}

//nolint:forbidigo // User-facing output
func printExpenseSplit(w io.Writer, e *analysis.ExpenseSplit) {
	fmt.Fprintln(w, cli.FormatHeading("New expenses since last settlement"))
	fmt.Fprintln(w, cli.FormatKeyValue("Period", e.SettlementInfo))
	if e.Settlement.Found && !e.Settlement.Confident() {
		fmt.Fprintln(w, cli.SubtleStyle.Render("Settlement date based on a single payment"))
	}
	fmt.Fprintln(w, cli.FormatKeyValue("New expenses", fmt.Sprintf("%s (%d transactions)",
		analysis.FormatDollar(e.TotalExpenses), e.NumExpenseTransactions)))
	fmt.Fprintln(w, cli.FormatKeyValue(shareLabel(e.Person1Name, e.Person1Percentage), analysis.FormatDollar(e.Person1Share)))
	fmt.Fprintln(w, cli.FormatKeyValue(shareLabel(e.Person2Name, e.Person2Percentage), analysis.FormatDollar(e.Person2Share)))

	if len(e.CategoryBreakdown) > 0 {
		lines := make([]string, 0, len(e.CategoryBreakdown))
		for _, c := range e.CategoryBreakdown {
			lines = append(lines, fmt.Sprintf("%s: %s", c.Category, analysis.FormatDollar(c.Total)))
		}
		fmt.Fprintln(w, cli.FormatKeyValue("By category", ""))
		fmt.Fprintln(w, cli.FormatList(lines))
	}
}

func shareLabel(name string, pct int) string {
	return fmt.Sprintf("%s owes (%s)", strings.TrimSpace(name), analysis.FormatPercentage(float64(pct), 0))
}
