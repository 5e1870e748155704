package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Veraticus/lil-bank-buddy/internal/analysis"
	"github.com/Veraticus/lil-bank-buddy/internal/cli"
	"github.com/Veraticus/lil-bank-buddy/internal/report"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [accounts...]",
		Short: "Write the Markdown transaction report",
		Long: `Analyze the selected accounts (all by default) and write a Markdown report
with account summaries, balance and settlement splits, recent activity and
data quality notes. Top-category pie charts are written next to the report.`,
		Example: `  # Write the report to the configured location
  buddy report

  # Write it somewhere else, without charts
  buddy report --output /tmp/report.md --charts=false`,
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

			generator := report.NewGenerator(analysis.NewAnalyzer(store), accounts)
			return runReport(cmd.Context(), cmd.OutOrStdout(), generator, report.Options{
				OutputPath: appConfig.Report.Output,
				Split:      appConfig.SplitParams(),
				RecentDays: appConfig.Analysis.RecentDays,
				Charts:     appConfig.Report.Charts,
			})
		},
	}

	cmd.Flags().StringP("output", "o", "", "report file path (default from config)")
	cmd.Flags().Bool("charts", true, "write top-category pie charts")
	cmd.Flags().Int("days", analysis.DefaultRecentDays, "length of the recent activity window in days")
	addSplitFlags(cmd)

	return cmd
}

func runReport(ctx context.Context, w io.Writer, generator *report.Generator, opts report.Options) error {
	path, err := generator.Generate(ctx, opts)
	if err != nil {
		return fmt.Errorf("failed to generate report: %w", err)
	}

	fmt.Fprintln(w, cli.FormatSuccess("Report written to "+path)) //nolint:forbidigo // User-facing output
	return nil
}
