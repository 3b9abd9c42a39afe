package main

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRootFlagsOverrideConfig(t *testing.T) {
	t.Chdir(t.TempDir())
	dbPath := filepath.Join(t.TempDir(), "store", "favorites.db")

	var stdout, stderr bytes.Buffer
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs([]string{
		"--favorites-driver", "sqlite",
		"--favorites-path", dbPath,
		"--log-level", "error",
		"favorites", "list", "--format", "json",
	})
	t.Cleanup(func() {
		rootCmd.SetArgs(nil)
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		application = nil
	})

	require.NoError(t, rootCmd.Execute())

	require.NotNil(t, application)
	assert.Equal(t, "sqlite", application.Config.Favorites.Driver)
	assert.Equal(t, dbPath, application.Config.Favorites.Path)
	assert.Equal(t, "error", application.Config.Log.Level)
	assert.FileExists(t, dbPath)
	assert.JSONEq(t, `[]`, stdout.String())
	assert.Empty(t, stderr.String())
}
