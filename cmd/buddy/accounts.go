package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/Veraticus/lil-bank-buddy/internal/cli"
	"github.com/Veraticus/lil-bank-buddy/internal/config"
	"github.com/Veraticus/lil-bank-buddy/internal/model"
	"github.com/Veraticus/lil-bank-buddy/internal/service"
)

func accountsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "accounts",
		Short: "List accounts with transaction counts and last import time",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := openStorage(cmd.Context(), appConfig.Database.Path)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			return runAccounts(cmd.Context(), cmd.OutOrStdout(), store, appConfig.Accounts)
		},
	}
}

// runAccounts lists stored accounts, then configured accounts that have
// never been imported.
func runAccounts(ctx context.Context, w io.Writer, store service.Storage, configured []config.Account) error {
	stored, err := store.ListAccounts(ctx)
	if err != nil {
		return fmt.Errorf("failed to list accounts: %w", err)
	}

	names := make(map[string]config.Account, len(configured))
	for _, account := range configured {
		names[account.ID] = account
	}

	lines := make([]string, 0, len(stored)+len(configured))
	seen := make(map[string]bool, len(stored))
	for _, account := range stored {
		seen[account.ID] = true
		label := account.ID
		if cfg, ok := names[account.ID]; ok {
			label = accountLabel(cfg)
		}
		lines = append(lines, label+": "+describeAccount(account))
	}

	for _, account := range configured {
		if seen[account.ID] {
			continue
		}
		lines = append(lines, accountLabel(account)+": "+cli.SubtleStyle.Render("not imported yet"))
	}

	fmt.Fprintln(w, cli.FormatTitle("Accounts")) //nolint:forbidigo // User-facing output
	fmt.Fprintln(w, cli.FormatList(lines))       //nolint:forbidigo // User-facing output

	if len(stored) == 0 {
		fmt.Fprintf(w, "\n%s\n", cli.FormatInfo("Run `buddy import` to load bank exports")) //nolint:forbidigo // User-facing output
	}
	return nil
}

func describeAccount(account model.Account) string {
	desc := fmt.Sprintf("%d transactions", account.TransactionCount)
	if !account.LastImport.IsZero() {
		desc += ", last import " + account.LastImport.Format("2006-01-02 15:04")
	}
	return desc
}
