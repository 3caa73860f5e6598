// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSettings(t *testing.T, name string, contents string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(contents), 0600))
	return p
}

func TestDefault(t *testing.T) {
	s := Default()
	assert.True(t, s.DebugMode)
	assert.False(t, s.Simulate)
	assert.True(t, s.SkipHidden)
	assert.False(t, s.UseChecksum)
	assert.Empty(t, s.PathA)
	assert.Empty(t, s.PathB)
}

func TestLoadYAML(t *testing.T) {
	p := writeSettings(t, "settings.yaml", `
debug_mode: false
simulate: true
use_checksum: true
path_a: /home/user
path_b: /media/backup/home
`)
	s, err := Load(p)
	require.NoError(t, err)
	assert.False(t, s.DebugMode)
	assert.True(t, s.Simulate)
	assert.True(t, s.SkipHidden) // default
	assert.True(t, s.UseChecksum)
	assert.Equal(t, "/home/user", s.PathA)
	assert.Equal(t, "/media/backup/home", s.PathB)

	c := s.SyncConfig()
	assert.True(t, c.Simulate)
	assert.Equal(t, "/media/backup/home", c.PathB)
}

func TestLoadJSON(t *testing.T) {
	p := writeSettings(t, "settings.json", `{"skip_hidden": false, "path_a": "a", "path_b": "b"}`)
	s, err := Load(p)
	require.NoError(t, err)
	assert.False(t, s.SkipHidden)
	assert.True(t, s.DebugMode)
	assert.Equal(t, "a", s.PathA)
}

func TestLoadUnknownKey(t *testing.T) {
	p := writeSettings(t, "settings.yaml", "simulate: true\nexit_code: 3\n")
	_, err := Load(p)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exit_code")
}

func TestLoadMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
