// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/navwar/bisync/pkg/fs"
	"github.com/navwar/bisync/pkg/lfs"
	"github.com/navwar/bisync/pkg/state"
)

func TestSynchronizeLocalFileSystemRepeatedRuns(t *testing.T) {
	dir := t.TempDir()
	pathA := filepath.Join(dir, "a")
	pathB := filepath.Join(dir, "b")
	require.NoError(t, os.MkdirAll(filepath.Join(pathA, "docs"), 0755))
	require.NoError(t, os.MkdirAll(pathB, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(pathA, "x.txt"), []byte("hello"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(pathA, "docs", "readme.txt"), []byte("readme"), 0644))

	c := fs.DefaultSyncConfig()
	c.PathA = pathA
	c.PathB = pathB

	lastSyncFile := state.NewLocalLastSyncFile(filepath.Join(dir, state.DefaultLastSyncFile))

	for run := 1; run <= 4; run++ {
		lastSyncTime, err := lastSyncFile.Load()
		if run == 1 {
			require.Error(t, err)
			require.True(t, state.IsNever(lastSyncTime))
		} else {
			require.NoError(t, err)
		}

		logger := &recordingLogger{}
		s := fs.NewSynchronizer(&fs.NewSynchronizerInput{
			Config:       c,
			FileSystem:   lfs.NewLocalFileSystem(),
			LastSyncTime: lastSyncTime,
			Logger:       logger,
		})
		result, err := s.Run(context.Background())
		require.NoError(t, err)

		if run == 1 {
			assert.Equal(t, &fs.Result{FilesCopied: 2, DirectoriesCreated: 1}, result, "run %d: %v", run, logger.lines)
		} else {
			assert.Zero(t, result.Changes(), "run %d: %v", run, logger.lines)
		}

		require.NoError(t, lastSyncFile.Save(time.Now()))
	}

	for _, name := range []string{"x.txt", filepath.Join("docs", "readme.txt")} {
		a, err := os.ReadFile(filepath.Join(pathA, name))
		require.NoError(t, err)
		b, err := os.ReadFile(filepath.Join(pathB, name))
		require.NoError(t, err)
		assert.Equal(t, a, b, name)
	}
}
