package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "overture",
	Short: "Container startup orchestrator",
	Long: `overture sequences a web application container's startup: it waits for
the database to accept connections, runs the maintenance commands that
refresh derived state (schema, caches, published assets), prepares the
writable working directories, then replaces itself with the supervised
runtime. It stays out of the way after that; the hand-off command owns
the process from then on.

Exit Codes:
  0  - Success (the hand-off command now owns the exit status)
  1  - Database never became reachable within the retry budget
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration or parameters
  12 - Maintenance step failed without a usable child status
  13 - Hand-off command could not be executed

A failed maintenance step with a known child exit status passes that
status through unchanged.`,
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
}

// getVerboseFlag safely retrieves the verbose flag value.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
