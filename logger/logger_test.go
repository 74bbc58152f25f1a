package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeConsole(t *testing.T) {
	err := Initialize(false)
	require.NoError(t, err)
	require.NotNil(t, Logger)
	assert.False(t, JSONOutput)

	// Must not panic
	Infow("test message", FieldCount, 3)
}

func TestInitializeJSON(t *testing.T) {
	err := Initialize(true)
	require.NoError(t, err)
	assert.True(t, JSONOutput)
}

func TestPackageHelpersBeforeInitialize(t *testing.T) {
	// The package-level no-op logger must absorb calls safely.
	Infow("info")
	Warnw("warn")
	Errorw("error")
	Debugw("debug")
}
