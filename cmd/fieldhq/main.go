package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/fieldhq/fieldhq/cmd/fieldhq/commands"
	"github.com/fieldhq/fieldhq/logger"
)

var rootCmd = &cobra.Command{
	Use:   "fieldhq",
	Short: "FieldHQ - Agent roster and lead distribution backend",
	Long: `FieldHQ - Admin backend for agent management and lead distribution.

FieldHQ manages a roster of field agents and distributes uploaded lead
lists (CSV/XLSX) across the roster in round-robin order.

Available commands:
  serve   - Start the FieldHQ HTTP server
  seed    - Create or reset the admin account
  db      - Manage the FieldHQ database
  version - Show version information

Examples:
  fieldhq serve                       # Start the API server
  fieldhq seed                        # Seed the default admin account
  fieldhq db migrate                  # Apply pending migrations
  fieldhq db stats                    # Show roster and record counts`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := logger.Initialize(false); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(commands.ServeCmd)
	rootCmd.AddCommand(commands.SeedCmd)
	rootCmd.AddCommand(commands.DbCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
