// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSyncCommand(t *testing.T, flags map[string]string) *cobra.Command {
	t.Helper()
	cmd := &cobra.Command{}
	initSyncCommandFlags(cmd.Flags())
	for name, value := range flags {
		require.NoError(t, cmd.Flags().Set(name, value))
	}
	return cmd
}

func TestInitSyncConfig(t *testing.T) {
	settingsPath := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(settingsPath, []byte("simulate: true\nuse_checksum: true\npath_a: /data/a\npath_b: /data/b\n"), 0600))

	v, err := initViper(newSyncCommand(t, map[string]string{
		flagConfig:      settingsPath,
		flagUseChecksum: "false",
	}))
	require.NoError(t, err)

	c, err := initSyncConfig(v, nil)
	require.NoError(t, err)
	assert.True(t, c.Simulate)
	assert.False(t, c.UseChecksum)
	assert.True(t, c.SkipHidden)
	assert.Equal(t, "/data/a", c.PathA)
	assert.Equal(t, "/data/b", c.PathB)

	c, err = initSyncConfig(v, []string{"/other/a", "/other/b"})
	require.NoError(t, err)
	assert.Equal(t, "/other/a", c.PathA)
	assert.Equal(t, "/other/b", c.PathB)
}

func TestInitSyncConfigSettingsError(t *testing.T) {
	settingsPath := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(settingsPath, []byte("path_a: /data/a\npath_b: /data/b\nexit_code: 2\n"), 0600))

	v, err := initViper(newSyncCommand(t, map[string]string{
		flagConfig: settingsPath,
	}))
	require.NoError(t, err)

	// a settings error is not a path error
	_, err = initSyncConfig(v, nil)
	assert.Error(t, err)

	v, err = initViper(newSyncCommand(t, map[string]string{
		flagConfig: filepath.Join(t.TempDir(), "missing.yaml"),
	}))
	require.NoError(t, err)
	_, err = initSyncConfig(v, nil)
	assert.Error(t, err)
}

func TestCheckPaths(t *testing.T) {
	v, err := initViper(newSyncCommand(t, nil))
	require.NoError(t, err)

	c, err := initSyncConfig(v, []string{"/data/a", "/data/a/b"})
	require.NoError(t, err)
	_, _, err = checkPaths(c)
	assert.EqualError(t, err, `cycle error: path A "/data/a" is a parent of path B "/data/a/b"`)

	c, err = initSyncConfig(v, nil)
	require.NoError(t, err)
	_, _, err = checkPaths(c)
	assert.EqualError(t, err, "path A is missing")

	c, err = initSyncConfig(v, []string{"a", "b"})
	require.NoError(t, err)
	pathA, pathB, err := checkPaths(c)
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(pathA))
	assert.True(t, filepath.IsAbs(pathB))
}
