package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDbCommandWiring(t *testing.T) {
	names := make(map[string]bool)
	for _, sub := range DbCmd.Commands() {
		names[sub.Name()] = true
	}
	assert.True(t, names["migrate"])
	assert.True(t, names["stats"])
}

func TestSeedCommandDefaults(t *testing.T) {
	email, err := SeedCmd.Flags().GetString("email")
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", email)

	password, err := SeedCmd.Flags().GetString("password")
	require.NoError(t, err)
	assert.Equal(t, "admin123", password)
}

func TestServeCommandAlias(t *testing.T) {
	assert.Contains(t, ServeCmd.Aliases, "server")
	assert.NotNil(t, ServeCmd.Flags().Lookup("db-path"))
}
