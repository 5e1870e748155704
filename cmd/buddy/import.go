package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Veraticus/lil-bank-buddy/internal/cli"
	"github.com/Veraticus/lil-bank-buddy/internal/common"
	"github.com/Veraticus/lil-bank-buddy/internal/config"
	"github.com/Veraticus/lil-bank-buddy/internal/importer"
	"github.com/Veraticus/lil-bank-buddy/internal/model"
	"github.com/Veraticus/lil-bank-buddy/internal/service"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import bank exports into the transaction database",
		Long: `Import CSV, OFX and QFX bank exports. With no arguments every supported
file in the export directory is imported. Each file is assigned to the first
configured account whose file patterns match its name.`,
		Example: `  # Import everything in the export directory
  buddy import

  # Preview which account each file would go to
  buddy import --dry-run

  # Import one file into a specific account
  buddy import ~/Downloads/statement.qfx --account cc`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := importOptions{
				Paths:     args,
				ExportDir: appConfig.Import.ExportDir,
			}
			opts.DryRun, _ = cmd.Flags().GetBool("dry-run")
			opts.Account, _ = cmd.Flags().GetString("account")

			if opts.Account != "" {
				account, ok := appConfig.Account(opts.Account)
				if !ok {
					return fmt.Errorf("%w: %s", common.ErrUnknownAccount, opts.Account)
				}
				opts.Account = account.ID
			}

			runner := &importRunner{
				out:      cmd.OutOrStdout(),
				progress: cmd.ErrOrStderr(),
				registry: importer.NewRegistry(),
				accounts: appConfig.Accounts,
			}

			if opts.DryRun {
				return runner.run(cmd.Context(), opts)
			}

			store, err := initStorage(cmd.Context(), appConfig.Database.Path)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			runner.store = store
			return runner.run(cmd.Context(), opts)
		},
	}

	cmd.Flags().String("export-dir", "", "directory containing bank exports (default from config)")
	cmd.Flags().Bool("dry-run", false, "show what would be imported without writing")
	cmd.Flags().String("account", "", "import every file into this account (id or alias)")

	return cmd
}

type importOptions struct {
	ExportDir string
	Account   string
	Paths     []string
	DryRun    bool
}

type importJob struct {
	File    importer.FileInfo
	Account string
}

type importResult struct {
	Err       error
	Job       importJob
	RowsRead  int
	RowsAdded int
}

// importRunner parses export files and writes them to the store. A nil
// store is only valid for dry runs.
type importRunner struct {
	out      io.Writer
	progress io.Writer
	store    service.Storage
	registry *importer.Registry
	accounts []config.Account
}

func (r *importRunner) run(ctx context.Context, opts importOptions) error {
	jobs, err := r.plan(opts)
	if err != nil {
		return err
	}

	if len(jobs) == 0 {
		fmt.Fprintln(r.out, cli.FormatWarning("No export files found")) //nolint:forbidigo // User-facing output
		return nil
	}

	if opts.DryRun {
		return r.dryRun(ctx, jobs)
	}

	slog.Info("Starting import", "files", len(jobs))

	progress := cli.NewImportProgress(r.progress, len(jobs))
	results := make([]importResult, 0, len(jobs))
	for _, job := range jobs {
		if err := ctx.Err(); err != nil {
			progress.Finish()
			return err
		}
		results = append(results, r.importFile(ctx, job))
		progress.Step(job.File.Name)
	}
	progress.Finish()

	return r.printResults(results)
}

// plan lists the files to import and the account each one belongs to.
func (r *importRunner) plan(opts importOptions) ([]importJob, error) {
	var files []importer.FileInfo
	if len(opts.Paths) == 0 {
		scanned, err := r.registry.Scan(opts.ExportDir)
		if err != nil {
			return nil, common.NewUserError(
				fmt.Sprintf("export directory %s not found; set import.export_dir or pass files", opts.ExportDir), err)
		}
		files = scanned
	} else {
		for _, path := range opts.Paths {
			info, err := os.Stat(path)
			if err != nil {
				return nil, fmt.Errorf("failed to stat %s: %w", path, err)
			}
			if info.IsDir() {
				scanned, err := r.registry.Scan(path)
				if err != nil {
					return nil, err
				}
				files = append(files, scanned...)
				continue
			}
			if !r.registry.Supports(path) {
				return nil, fmt.Errorf("%w: %s", importer.ErrUnsupportedFormat, filepath.Base(path))
			}
			files = append(files, importer.FileInfo{
				Name: filepath.Base(path),
				Path: path,
				Size: info.Size(),
			})
		}
	}

	jobs := make([]importJob, 0, len(files))
	for _, file := range files {
		account := opts.Account
		if account == "" {
			account = importer.ResolveAccount(file.Name, r.accounts)
		}
		jobs = append(jobs, importJob{File: file, Account: account})
	}
	return jobs, nil
}

func (r *importRunner) dryRun(ctx context.Context, jobs []importJob) error {
	fmt.Fprintln(r.out, cli.FormatTitle("Import preview (dry run)")) //nolint:forbidigo // User-facing output

	failed := 0
	for _, job := range jobs {
		transactions, err := r.registry.Parse(ctx, job.File.Path)
		if err != nil {
			failed++
			fmt.Fprintln(r.out, cli.FormatError(fmt.Sprintf("%s: %v", job.File.Name, err))) //nolint:forbidigo // User-facing output
			continue
		}
		//nolint:forbidigo // User-facing output
		fmt.Fprintf(r.out, "  %s → %s (%d rows)\n", job.File.Name, job.Account, len(transactions))
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d files could not be parsed", common.ErrPartialFailure, failed, len(jobs))
	}
	return nil
}

func (r *importRunner) importFile(ctx context.Context, job importJob) importResult {
	result := importResult{Job: job}

	transactions, err := r.registry.Parse(ctx, job.File.Path)
	if err != nil {
		result.Err = err
		return result
	}
	result.RowsRead = len(transactions)

	err = common.WithRetry(ctx, func() error {
		added, writeErr := r.store.Write(ctx, job.Account, transactions)
		result.RowsAdded = added
		return writeErr
	}, common.DefaultRetryOptions())
	if err != nil {
		result.Err = fmt.Errorf("failed to write %s: %w", job.File.Name, err)
		return result
	}

	record := &model.ImportRecord{
		AccountID: job.Account,
		Source:    job.File.Name,
		RowsRead:  result.RowsRead,
		RowsAdded: result.RowsAdded,
	}
	if err := r.store.RecordImport(ctx, record); err != nil {
		// The rows are already stored; only the history entry is missing.
		common.LogError(err, "Failed to record import", common.Fields{"file": job.File.Name})
	}

	slog.Info("Imported export",
		"file", job.File.Name,
		"account", job.Account,
		"rows_read", result.RowsRead,
		"rows_added", result.RowsAdded)

	return result
}

func (r *importRunner) printResults(results []importResult) error {
	total, failed := 0, 0
	for _, result := range results {
		if result.Err != nil {
			failed++
			fmt.Fprintln(r.out, cli.FormatError(fmt.Sprintf("%s: %v", result.Job.File.Name, result.Err))) //nolint:forbidigo // User-facing output
			continue
		}

		total += result.RowsAdded
		msg := fmt.Sprintf("%s → %s: %d rows added", result.Job.File.Name, result.Job.Account, result.RowsAdded)
		if skipped := result.RowsRead - result.RowsAdded; skipped > 0 {
			msg += fmt.Sprintf(" (%d already imported)", skipped)
		}
		fmt.Fprintln(r.out, cli.FormatSuccess(msg)) //nolint:forbidigo // User-facing output
	}

	fmt.Fprintf(r.out, "\n%s\n", cli.FormatKeyValue("Total rows imported", fmt.Sprint(total))) //nolint:forbidigo // User-facing output

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d files failed to import", common.ErrPartialFailure, failed, len(results))
	}
	return nil
}
