// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package fs_test

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"

	"github.com/navwar/bisync/pkg/fs"
	"github.com/navwar/bisync/pkg/lfs"
)

// T is the last synchronization time used throughout the tests.
var T = time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	t   *testing.T
	afs afero.Fs
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	afs := afero.NewMemMapFs()
	require.NoError(t, afs.MkdirAll("/a", 0755))
	require.NoError(t, afs.MkdirAll("/b", 0755))
	return &fixture{t: t, afs: afs}
}

func (f *fixture) mkdir(name string, mtime time.Time) {
	f.t.Helper()
	require.NoError(f.t, f.afs.MkdirAll(name, 0755))
	require.NoError(f.t, f.afs.Chtimes(name, mtime, mtime))
}

func (f *fixture) writeFile(name string, contents string, mtime time.Time) {
	f.t.Helper()
	require.NoError(f.t, afero.WriteFile(f.afs, name, []byte(contents), 0644))
	require.NoError(f.t, f.afs.Chtimes(name, mtime, mtime))
}

func (f *fixture) readFile(name string) string {
	f.t.Helper()
	b, err := afero.ReadFile(f.afs, name)
	require.NoError(f.t, err)
	return string(b)
}

func (f *fixture) exists(name string) bool {
	f.t.Helper()
	ok, err := afero.Exists(f.afs, name)
	require.NoError(f.t, err)
	return ok
}

func (f *fixture) modTime(name string) time.Time {
	f.t.Helper()
	fi, err := f.afs.Stat(name)
	require.NoError(f.t, err)
	return fi.ModTime()
}

// tree returns the relative paths under root mapped to their contents.
// Directories are mapped to "/".
func (f *fixture) tree(root string, skipHidden bool) map[string]string {
	f.t.Helper()
	m := map[string]string{}
	err := afero.Walk(f.afs, root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if p == root {
			return nil
		}
		if skipHidden && strings.HasPrefix(info.Name(), ".") {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		if info.IsDir() {
			m[rel] = "/"
			return nil
		}
		b, err := afero.ReadFile(f.afs, p)
		if err != nil {
			return err
		}
		m[rel] = string(b)
		return nil
	})
	require.NoError(f.t, err)
	return m
}

// snapshot returns the tree under root including modification times.
func (f *fixture) snapshot(root string) map[string]string {
	f.t.Helper()
	m := f.tree(root, false)
	for k, v := range m {
		m[k] = v + "@" + f.modTime(filepath.Join(root, k)).Format(time.RFC3339Nano)
	}
	return m
}

func (f *fixture) fileSystem() *lfs.LocalFileSystem {
	return lfs.NewLocalFileSystemFromFs(f.afs)
}

func (f *fixture) readOnlyFileSystem() *lfs.LocalFileSystem {
	return lfs.NewLocalFileSystemFromFs(afero.NewReadOnlyFs(f.afs))
}

// fixedClock returns a clock that always returns t.
func fixedClock(t time.Time) func() time.Time {
	return func() time.Time {
		return t
	}
}

func (f *fixture) synchronizer(config fs.SyncConfig, logger fs.Logger) *fs.Synchronizer {
	return fs.NewSynchronizer(&fs.NewSynchronizerInput{
		Config:       config,
		FileSystem:   f.fileSystem(),
		LastSyncTime: T,
		Logger:       logger,
		Clock:        fixedClock(T.Add(20 * time.Second)),
	})
}

type recordingLogger struct {
	lines []string
}

func (l *recordingLogger) Log(msg string, fields ...map[string]interface{}) error {
	parts := []string{msg}
	for _, f := range fields {
		keys := make([]string, 0, len(f))
		for k := range f {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			parts = append(parts, k+"="+f[k].(string))
		}
	}
	l.lines = append(l.lines, strings.Join(parts, " "))
	return nil
}

func config() fs.SyncConfig {
	c := fs.DefaultSyncConfig()
	c.PathA = "/a"
	c.PathB = "/b"
	return c
}
