package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/fieldhq/fieldhq/auth"
	"github.com/fieldhq/fieldhq/logger"
)

// SeedCmd creates or resets the admin account
var SeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create or reset the admin account",
	Long: `Create the admin account used to log in to FieldHQ, or reset its
password when the account already exists.

Examples:
  fieldhq seed                                       # Default credentials
  fieldhq seed --email ops@corp.com --password s3cr3t`,
	RunE: runSeed,
}

var (
	seedEmail    string
	seedPassword string
)

func init() {
	SeedCmd.Flags().StringVar(&seedEmail, "email", "admin@example.com", "Admin email")
	SeedCmd.Flags().StringVar(&seedPassword, "password", "admin123", "Admin password")
}

func runSeed(cmd *cobra.Command, args []string) error {
	database, _, err := openDatabase("")
	if err != nil {
		return err
	}
	defer database.Close()

	admins := auth.NewAdminStore(database, logger.Logger)
	admin, err := admins.Seed(seedEmail, seedPassword)
	if err != nil {
		return err
	}

	pterm.Success.Printf("Admin account ready: %s\n", admin.Email)
	return nil
}
