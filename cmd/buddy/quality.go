package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Veraticus/lil-bank-buddy/internal/analysis"
	"github.com/Veraticus/lil-bank-buddy/internal/cli"
	"github.com/Veraticus/lil-bank-buddy/internal/config"
)

// qualityChecker is the part of the analyzer the quality command needs.
type qualityChecker interface {
	ValidateDataQuality(ctx context.Context, account string) (*analysis.DataQualityReport, error)
}

func qualityCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "quality [accounts...]",
		Short: "Report future-dated and undated transactions",
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

			return runQuality(cmd.Context(), cmd.OutOrStdout(), analysis.NewAnalyzer(store), accounts)
		},
	}
}

//nolint:forbidigo // User-facing output
func runQuality(ctx context.Context, w io.Writer, checker qualityChecker, accounts []config.Account) error {
	for i, account := range accounts {
		if i > 0 {
			fmt.Fprintln(w)
		}

		report, err := checker.ValidateDataQuality(ctx, account.ID)
		if err != nil {
			return fmt.Errorf("failed to check %s: %w", account.ID, err)
		}

		fmt.Fprintln(w, cli.FormatTitle("Data quality: "+accountLabel(account)))
		fmt.Fprintln(w, cli.FormatKeyValue("Total rows", fmt.Sprint(report.TotalRows)))
		fmt.Fprintln(w, cli.FormatKeyValue("Future-dated rows", fmt.Sprint(report.FutureDatesCount)))
		fmt.Fprintln(w, cli.FormatKeyValue("Rows without a valid date", fmt.Sprint(report.NullDatesCount)))
		fmt.Fprintln(w, cli.FormatKeyValue("Valid date range", report.DateRangeValid.String()))

		if len(report.FutureTransactions) > 0 {
			lines := make([]string, 0, len(report.FutureTransactions))
			for _, txn := range report.FutureTransactions {
				lines = append(lines, fmt.Sprintf("%s  %-10s %s", txn.FormatDate(),
					analysis.FormatDollar(txn.Amount), analysis.TruncateDescription(txn.Description, 40)))
			}
			fmt.Fprintln(w, cli.FormatWarning("Future-dated transactions:"))
			fmt.Fprintln(w, cli.FormatList(lines))
		}

		if report.FutureDatesCount == 0 && report.NullDatesCount == 0 {
			fmt.Fprintln(w, cli.FormatSuccess("No date problems found"))
		}
	}
	return nil
}
