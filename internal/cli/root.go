package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "dvload",
	Short: "Incremental Data Vault load engine for PostgreSQL",
	Long: `dvload moves staged delta rows into append-only Data Vault target
structures (hubs, links, satellites and point-in-time tables), one insert-only
batch transfer per target table, sharing a single load timestamp across the
whole run. Every operation appends one audit entry to a durable log table and
reports row-level metrics.

Loads are declarative: model.yaml maps delta columns to target columns, and
dvload.yaml carries the project identity, connection and parameters.

Exit Codes:
  0  - Success
  1  - General error
  2  - CLI usage error (invalid arguments or flags)
  3  - Panic or unexpected system error
  10 - Invalid configuration
  11 - Database connection failed
  12 - User denied overwrite approval
  13 - Load statement failed
  14 - model.yaml not found
  15 - Malformed load timestamp parameter
  16 - Audit log append failed
  17 - Deployment run failed`,
	SilenceUsage: true,
}

// Execute runs the root command
func Execute() error {
	if len(os.Args) > 1 && os.Args[1] == "--version" {
		printVersionInfo()
		return nil
	}
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().Bool("help", false, "Help for dvload")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output for all commands")
}

// getVerboseFlag safely retrieves the verbose flag value
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: Failed to get verbose flag: %v\n", err)
		return false
	}
	return verbose
}
