package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/fieldhq/fieldhq/errors"
	"github.com/fieldhq/fieldhq/logger"
	"github.com/fieldhq/fieldhq/server"
	"github.com/fieldhq/fieldhq/version"
)

// ServeCmd starts the FieldHQ HTTP server
var ServeCmd = &cobra.Command{
	Use:     "serve",
	Aliases: []string{"server"},
	Short:   "Start the FieldHQ HTTP server",
	Long:    `Launch the FieldHQ API server: admin login, agent CRUD, lead file upload and distribution, and a WebSocket feed of import events.`,
	RunE:    runServe,
}

var serveDBPath string

func init() {
	ServeCmd.Flags().StringVar(&serveDBPath, "db-path", "", "Custom database path (overrides config)")
}

func runServe(cmd *cobra.Command, args []string) error {
	database, cfg, err := openDatabase(serveDBPath)
	if err != nil {
		return err
	}
	defer database.Close()

	srv, err := server.New(database, cfg, logger.Logger)
	if err != nil {
		return errors.Wrap(err, "failed to create server")
	}

	info := version.Get()
	pterm.Info.Printf("FieldHQ %s (commit %s)\n", info.Version, info.Short())
	pterm.Info.Printf("Database: %s\n", cfg.Database.Path)
	pterm.Info.Printf("Listening on port %d, press Ctrl+C to stop\n", cfg.Server.Port)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx); err != nil {
		return errors.Wrap(err, "server failed")
	}
	pterm.Success.Println("Server stopped cleanly")
	return nil
}
