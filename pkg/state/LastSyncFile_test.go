// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package state

import (
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLastSyncFileLoad(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/state/.last-sync", []byte("1700000000"), 0644))

	lastSync, err := NewLastSyncFile(fs, "/state/.last-sync").Load()
	require.NoError(t, err)
	assert.Equal(t, time.Unix(1700000000, 0), lastSync)
	assert.False(t, IsNever(lastSync))
}

func TestLastSyncFileLoadTrailingNewline(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, ".last-sync", []byte("42\n"), 0644))

	lastSync, err := NewLastSyncFile(fs, "").Load()
	require.NoError(t, err)
	assert.Equal(t, int64(42), lastSync.Unix())
}

func TestLastSyncFileLoadMissing(t *testing.T) {
	lastSync, err := NewLastSyncFile(afero.NewMemMapFs(), "/missing").Load()
	assert.Error(t, err)
	assert.Equal(t, Never, lastSync)
	assert.True(t, IsNever(lastSync))
}

func TestLastSyncFileLoadInvalid(t *testing.T) {
	fs := afero.NewMemMapFs()
	for _, contents := range []string{"", "abc", "-12", "12a", " 12", "1.5"} {
		require.NoError(t, afero.WriteFile(fs, "/last-sync", []byte(contents), 0644))
		lastSync, err := NewLastSyncFile(fs, "/last-sync").Load()
		assert.ErrorIs(t, err, ErrInvalidFormat, contents)
		assert.Equal(t, Never, lastSync, contents)
	}
}

func TestLastSyncFileLoadOnlyFirstBytes(t *testing.T) {
	fs := afero.NewMemMapFs()
	// 25 digits, of which only the first 20 are read, overflowing int64
	require.NoError(t, afero.WriteFile(fs, "/last-sync", []byte("1234567890123456789012345"), 0644))
	lastSync, err := NewLastSyncFile(fs, "/last-sync").Load()
	assert.ErrorIs(t, err, ErrInvalidFormat)
	assert.Equal(t, Never, lastSync)
}

func TestLastSyncFileSave(t *testing.T) {
	fs := afero.NewMemMapFs()
	f := NewLastSyncFile(fs, "/state/.last-sync")
	require.NoError(t, fs.MkdirAll("/state", 0755))
	require.NoError(t, afero.WriteFile(fs, "/state/.last-sync", []byte("99999999999"), 0644))

	now := time.Unix(1700000123, 999)
	require.NoError(t, f.Save(now))

	b, err := afero.ReadFile(fs, "/state/.last-sync")
	require.NoError(t, err)
	assert.Equal(t, "1700000123", string(b))

	lastSync, err := f.Load()
	require.NoError(t, err)
	assert.Equal(t, time.Unix(1700000123, 0), lastSync)
}
