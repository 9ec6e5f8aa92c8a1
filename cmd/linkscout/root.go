package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/nao1215/linkscout/internal/log"
	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for linkscout.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "linkscout",
		Short: "Discover the pages a seed page links to",
		Long: `linkscout fetches seed pages and lists the same-site pages they link to.

Each seed is fetched exactly once. Links rooted at "/" are resolved against
the seed, deduplicated and cut off at a per-seed limit. Results are printed
and recorded in a local history database so runs can be compared later.

Seeds can be given as arguments or listed in a .linkscout config file
(see 'linkscout init').`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON")

	cmd.AddCommand(NewDiscoverCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command
// context so running discoveries stop and completed ones are still saved.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := NewRootCmd().ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	return getGlobalBool(cmd, "verbose")
}

// getGlobalBool reads a persistent flag of the root command. Before
// parsing, persistent flags are only visible on the root.
func getGlobalBool(cmd *cobra.Command, name string) bool {
	value, err := cmd.Flags().GetBool(name)
	if err != nil {
		value, err = cmd.Root().PersistentFlags().GetBool(name)
		if err != nil {
			return false
		}
	}
	return value
}

// setupLogger creates the redacting logger selected by the global flags.
// Logs go to the command's error stream so reports on stdout stay clean.
func setupLogger(cmd *cobra.Command) *slog.Logger {
	verbose := getVerboseFlag(cmd)

	if getGlobalBool(cmd, "log-json") {
		return log.NewSecureJSONLogger(cmd.ErrOrStderr(), verbose)
	}
	return log.NewSecureLogger(cmd.ErrOrStderr(), verbose)
}
