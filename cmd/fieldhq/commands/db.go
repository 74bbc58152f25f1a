package commands

import (
	"fmt"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/fieldhq/fieldhq/logger"
	"github.com/fieldhq/fieldhq/store"
)

// DbCmd represents the db (database) command
var DbCmd = &cobra.Command{
	Use:   "db",
	Short: "Manage the FieldHQ database",
	Long: `Manage FieldHQ database operations.

Examples:
  fieldhq db migrate              # Apply pending schema migrations
  fieldhq db stats                # Show roster and record counts`,
}

var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Apply pending schema migrations",
	RunE:  runDbMigrate,
}

var dbStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show database statistics",
	Long:  "Display agent roster size, distributed record count, and admin account count",
	RunE:  runDbStats,
}

func init() {
	DbCmd.AddCommand(dbMigrateCmd)
	DbCmd.AddCommand(dbStatsCmd)
}

func runDbMigrate(cmd *cobra.Command, args []string) error {
	// openDatabase migrates as part of opening
	database, cfg, err := openDatabase("")
	if err != nil {
		return err
	}
	defer database.Close()

	pterm.Success.Printf("Database up to date: %s\n", cfg.Database.Path)
	return nil
}

func runDbStats(cmd *cobra.Command, args []string) error {
	database, cfg, err := openDatabase("")
	if err != nil {
		return err
	}
	defer database.Close()

	agents := store.NewAgentStore(database, logger.Logger)
	records := store.NewRecordStore(database, logger.Logger)

	totalAgents, err := agents.Count()
	if err != nil {
		return err
	}
	totalRecords, err := records.Count()
	if err != nil {
		return err
	}

	var totalAdmins int
	if err := database.QueryRow("SELECT COUNT(*) FROM admins").Scan(&totalAdmins); err != nil {
		return err
	}

	fmt.Printf("Database Statistics\n")
	fmt.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━\n\n")
	fmt.Printf("Database Path: %s\n", cfg.Database.Path)
	fmt.Printf("Agents:        %d\n", totalAgents)
	fmt.Printf("Records:       %d\n", totalRecords)
	fmt.Printf("Admins:        %d\n", totalAdmins)

	return nil
}
