package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/linkscout/internal/config"
	"github.com/nao1215/linkscout/internal/database"
	"github.com/nao1215/linkscout/internal/model"
	"github.com/spf13/cobra"
)

// errNotEnoughHistory is returned when a diff needs more stored runs.
var errNotEnoughHistory = errors.New("not enough history")

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [seed-url]",
		Short: "Show and compare recorded discoveries",
		Long: `History shows the discoveries recorded for a seed, newest first.

With --diff the two most recent successful runs are compared and the links
that appeared or disappeared are listed. --with-id compares the latest run
against a specific earlier run instead.

Examples:
  # List the runs of a seed
  linkscout history https://example.com/docs/

  # What changed since the previous run?
  linkscout history --diff https://example.com/docs/

  # Compare the latest run with run 5
  linkscout history --diff --with-id 5 https://example.com/docs/

  # List every seed in the database
  linkscout history --list-seeds`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().BoolP("diff", "d", false,
		"Compare the two most recent successful runs")
	cmd.Flags().Int64P("with-id", "i", 0,
		"With --diff, compare the latest run against this run id")
	cmd.Flags().BoolP("list-seeds", "L", false,
		"List all seeds in the database")
	cmd.Flags().IntP("max-runs", "n", 0,
		"Show at most this many runs (0 shows all)")

	cmd.Flags().BoolP("json", "j", false,
		"Output JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown (mutually exclusive with --json)")
	cmd.Flags().String("db-dir", config.XDGDataDir(),
		"Directory of the history database")

	return cmd
}

// historyOptions holds the parsed flags of the history command.
type historyOptions struct {
	seed      string
	diff      bool
	withID    int64
	listSeeds bool
	maxRuns   int
	json      bool
	markdown  bool
	dbDir     string
	verbose   bool
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	opts, err := parseHistoryFlags(cmd, args)
	if err != nil {
		return err
	}

	// Validate before opening the database so bad flags leave no file behind.
	if opts.json && opts.markdown {
		return config.ErrConflictingReportFormats
	}
	if !opts.listSeeds && opts.seed == "" {
		return errors.New("seed URL is required (use --list-seeds to see recorded seeds)")
	}
	if opts.withID != 0 && !opts.diff {
		return errors.New("--with-id requires --diff")
	}

	db, err := database.Open(opts.dbDir, database.DefaultOptions())
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	switch {
	case opts.listSeeds:
		return listSeeds(ctx, db, out, opts.json)
	case opts.diff:
		return showDiff(ctx, db, out, opts)
	default:
		return showHistory(ctx, db, out, opts)
	}
}

func parseHistoryFlags(cmd *cobra.Command, args []string) (*historyOptions, error) {
	flags := cmd.Flags()
	opts := &historyOptions{verbose: getVerboseFlag(cmd)}

	if len(args) > 0 {
		opts.seed = strings.TrimSpace(args[0])
	}

	var err error
	if opts.diff, err = flags.GetBool("diff"); err != nil {
		return nil, err
	}
	if opts.withID, err = flags.GetInt64("with-id"); err != nil {
		return nil, err
	}
	if opts.listSeeds, err = flags.GetBool("list-seeds"); err != nil {
		return nil, err
	}
	if opts.maxRuns, err = flags.GetInt("max-runs"); err != nil {
		return nil, err
	}
	if opts.json, err = flags.GetBool("json"); err != nil {
		return nil, err
	}
	if opts.markdown, err = flags.GetBool("markdown"); err != nil {
		return nil, err
	}
	if opts.dbDir, err = flags.GetString("db-dir"); err != nil {
		return nil, err
	}
	return opts, nil
}

// listSeeds prints every recorded seed, one per line or as a JSON array.
func listSeeds(ctx context.Context, db *database.HistoryDB, out io.Writer, jsonOutput bool) error {
	seeds, err := db.ListSeeds(ctx)
	if err != nil {
		return err
	}

	if jsonOutput {
		if seeds == nil {
			seeds = []string{}
		}
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(seeds)
	}

	if len(seeds) == 0 {
		fmt.Fprintln(out, "No seeds found in the database.")
		fmt.Fprintln(out, "\nUse 'linkscout discover <url>' to record a discovery.")
		return nil
	}

	fmt.Fprintf(out, "Recorded seeds (%d):\n\n", len(seeds))
	for _, seed := range seeds {
		fmt.Fprintf(out, "  %s\n", seed)
	}
	return nil
}

// showHistory prints the runs of a seed, newest first.
func showHistory(ctx context.Context, db *database.HistoryDB, out io.Writer, opts *historyOptions) error {
	history, err := db.GetHistory(ctx, opts.seed)
	if err != nil {
		return err
	}
	if opts.maxRuns > 0 && len(history) > opts.maxRuns {
		history = history[:opts.maxRuns]
	}

	_, err = newReportWriter(out, opts.json, opts.markdown, opts.verbose).WriteHistory(opts.seed, history)
	return err
}

// showDiff compares two runs of a seed.
func showDiff(ctx context.Context, db *database.HistoryDB, out io.Writer, opts *historyOptions) error {
	previous, current, err := selectRuns(ctx, db, opts.seed, opts.withID)
	if err != nil {
		return err
	}

	_, err = newReportWriter(out, opts.json, opts.markdown, opts.verbose).WriteDiff(model.Compare(previous, current))
	return err
}

// selectRuns picks the runs to compare. Without withID these are the two
// most recent successful runs. With withID the given run is compared to the
// latest run of the seed.
func selectRuns(ctx context.Context, db *database.HistoryDB, seed string, withID int64) (*model.Discovery, *model.Discovery, error) {
	if withID > 0 {
		previous, err := db.GetDiscoveryByID(ctx, withID)
		if errors.Is(err, database.ErrNotFound) {
			return nil, nil, fmt.Errorf("run with id %d not found", withID)
		}
		if err != nil {
			return nil, nil, err
		}
		if previous.Seed != seed {
			return nil, nil, fmt.Errorf("run %d belongs to %s, not %s", withID, previous.Seed, seed)
		}

		current, err := db.GetLatestDiscovery(ctx, seed)
		if err != nil {
			return nil, nil, err
		}
		if current.ID == previous.ID {
			return nil, nil, fmt.Errorf("%w: run %d is the latest run of %s", errNotEnoughHistory, withID, seed)
		}
		return previous, current, nil
	}

	history, err := db.GetHistory(ctx, seed)
	if err != nil {
		return nil, nil, err
	}

	successful := make([]*model.Discovery, 0, 2)
	for _, d := range history {
		if !d.Failed() {
			successful = append(successful, d)
		}
		if len(successful) == 2 {
			break
		}
	}
	if len(successful) < 2 {
		return nil, nil, fmt.Errorf("%w: at least 2 successful runs of %s are required (found %d)",
			errNotEnoughHistory, seed, len(successful))
	}
	return successful[1], successful[0], nil
}
