package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/roach88/inferc/internal/analyzer"
	"github.com/roach88/inferc/internal/store"
)

// HistoryOptions holds flags for the history command.
type HistoryOptions struct {
	*RootOptions
	Database string // history database path
	Digest   string // only runs of this module digest
	Code     string // only runs that reported this diagnostic code
	Limit    int    // most recent runs to show
}

// HistoryResult lists recorded runs.
type HistoryResult struct {
	Runs  []store.Run `json:"runs"`
	Total int         `json:"total"`
}

// NewHistoryCommand creates the history command.
func NewHistoryCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &HistoryOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded validation runs",
		Long: `List runs recorded by validate --record.

Runs are listed newest first. With --digest only runs of that module
are shown, oldest first, so a rule set's history reads in order.
With --code only runs that reported that diagnostic code are shown,
newest first.

Examples:
  inferc history --db runs.db
  inferc history --db runs.db --limit 5
  inferc history --db runs.db --digest 3f2a...
  inferc history --db runs.db --code E206`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runHistory(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Database, "db", "", "history database path")
	cmd.Flags().StringVar(&opts.Digest, "digest", "", "only runs of this module digest")
	cmd.Flags().StringVar(&opts.Code, "code", "", "only runs that reported this diagnostic code")
	cmd.Flags().IntVar(&opts.Limit, "limit", 20, "number of runs to show")
	cmd.MarkFlagsMutuallyExclusive("digest", "code")

	return cmd
}

func runHistory(opts *HistoryOptions, cmd *cobra.Command) error {
	if err := opts.checkFormat(); err != nil {
		return err
	}
	formatter := opts.formatter(cmd)

	db := opts.historyDB(opts.Database)
	if db == "" {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, "no history database: pass --db or set history_db")
	}
	if _, err := os.Stat(db); os.IsNotExist(err) {
		return formatter.Fail(ExitCommandError, ErrCodeNotFound, fmt.Sprintf("history database not found: %s", db))
	}
	if opts.Limit <= 0 {
		return formatter.Fail(ExitCommandError, ErrCodeGeneric, fmt.Sprintf("limit must be positive, got %d", opts.Limit))
	}

	st, err := store.Open(db)
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStoreFailed, err.Error())
	}
	defer st.Close()

	var runs []store.Run
	switch {
	case opts.Digest != "":
		runs, err = st.RunsForDigest(cmd.Context(), opts.Digest)
		if len(runs) > opts.Limit {
			runs = runs[len(runs)-opts.Limit:]
		}
	case opts.Code != "":
		runs, err = st.RunsWithCode(cmd.Context(), analyzer.Code(opts.Code), opts.Limit)
	default:
		runs, err = st.ListRuns(cmd.Context(), opts.Limit)
	}
	if err != nil {
		return formatter.Fail(ExitCommandError, ErrCodeStoreFailed, err.Error())
	}
	formatter.VerboseLog("Read %d run(s) from %s", len(runs), db)

	if formatter.Format == "json" {
		return formatter.Success(HistoryResult{Runs: runs, Total: len(runs)})
	}
	return outputHistoryText(formatter, runs)
}

// outputHistoryText prints one line per run.
func outputHistoryText(formatter *OutputFormatter, runs []store.Run) error {
	w := formatter.Writer
	if len(runs) == 0 {
		fmt.Fprintln(w, "No runs recorded.")
		return nil
	}

	for _, run := range runs {
		res := analyzer.Result{Pass: run.Pass, Diagnostics: run.Diagnostics}
		fmt.Fprintf(w, "%s #%d %s %s %s (%d error(s), %d warning(s))\n",
			mark(run.Pass), run.Seq, run.ID, shortDigest(run.Digest), run.Source, res.Errors(), res.Warnings())
		if formatter.Verbose {
			formatter.WriteDiagnostics("    ", run.Diagnostics)
		}
	}
	return nil
}

// shortDigest returns the first 12 characters of a digest.
func shortDigest(d string) string {
	if len(d) > 12 {
		return d[:12]
	}
	return d
}
