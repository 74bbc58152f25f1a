package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func TestOpen(t *testing.T) {
	logger := zaptest.NewLogger(t).Sugar()
	path := filepath.Join(t.TempDir(), "test.db")

	database, err := Open(path, logger)
	require.NoError(t, err)
	defer database.Close()

	var journalMode string
	require.NoError(t, database.QueryRow("PRAGMA journal_mode").Scan(&journalMode))
	assert.Equal(t, "wal", journalMode)

	var foreignKeys int
	require.NoError(t, database.QueryRow("PRAGMA foreign_keys").Scan(&foreignKeys))
	assert.Equal(t, 1, foreignKeys)
}

func TestOpenNilLogger(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.db")

	database, err := Open(path, nil)
	require.NoError(t, err)
	defer database.Close()

	require.NoError(t, database.Ping())
}
