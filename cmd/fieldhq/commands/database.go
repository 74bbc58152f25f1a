package commands

import (
	"database/sql"

	"github.com/fieldhq/fieldhq/config"
	"github.com/fieldhq/fieldhq/db"
	"github.com/fieldhq/fieldhq/errors"
	"github.com/fieldhq/fieldhq/logger"
)

// openDatabase opens and migrates the database at the given path.
// If dbPath is empty, the configured path is used.
func openDatabase(dbPath string) (*sql.DB, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, errors.Wrap(err, "failed to load configuration")
	}

	if dbPath == "" {
		dbPath = cfg.Database.Path
	}

	database, err := db.Open(dbPath, logger.Logger)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "failed to open database at %s", dbPath)
	}

	if err := db.Migrate(database, logger.Logger); err != nil {
		database.Close()
		return nil, nil, errors.Wrapf(err, "failed to run migrations on %s", dbPath)
	}

	return database, cfg, nil
}
