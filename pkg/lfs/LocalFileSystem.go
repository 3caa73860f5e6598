// =================================================================
//
// Work of the U.S. Department of Defense, Defense Digital Service.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

package lfs

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/afero"

	"github.com/navwar/bisync/pkg/fs"
)

type LocalFileSystem struct {
	fs   afero.Fs
	iofs afero.IOFS
}

func (lfs *LocalFileSystem) Chtimes(ctx context.Context, name string, atime time.Time, mtime time.Time) error {
	return lfs.fs.Chtimes(name, atime, mtime)
}

func (lfs *LocalFileSystem) IsNotExist(err error) bool {
	return os.IsNotExist(err)
}

func (lfs *LocalFileSystem) Join(name ...string) string {
	return filepath.Join(name...)
}

func (lfs *LocalFileSystem) Mkdir(ctx context.Context, name string, mode os.FileMode) error {
	return lfs.fs.Mkdir(name, mode)
}

func (lfs *LocalFileSystem) Open(ctx context.Context, name string) (fs.File, error) {
	f, err := lfs.fs.Open(name)
	if err != nil {
		return nil, err
	}
	return NewLocalFile(f), nil
}

func (lfs *LocalFileSystem) OpenFile(ctx context.Context, name string, flag int, perm os.FileMode) (fs.File, error) {
	f, err := lfs.fs.OpenFile(name, flag, perm)
	if err != nil {
		return nil, err
	}
	return NewLocalFile(f), nil
}

// ReadDir returns the entries of the directory sorted by name.
func (lfs *LocalFileSystem) ReadDir(ctx context.Context, name string) ([]fs.DirectoryEntry, error) {
	readDirOutput, err := lfs.iofs.ReadDir(name)
	if err != nil {
		return nil, err
	}
	directoryEntries := make([]fs.DirectoryEntry, 0, len(readDirOutput))
	for _, directoryEntry := range readDirOutput {
		directoryEntries = append(directoryEntries, &LocalDirectoryEntry{
			de: directoryEntry,
		})
	}
	return directoryEntries, nil
}

func (lfs *LocalFileSystem) Relative(ctx context.Context, basepath string, targpath string) (string, error) {
	return filepath.Rel(basepath, targpath)
}

func (lfs *LocalFileSystem) Remove(ctx context.Context, name string) error {
	return lfs.fs.Remove(name)
}

func (lfs *LocalFileSystem) Stat(ctx context.Context, name string) (fs.FileInfo, error) {
	fi, err := lfs.fs.Stat(name)
	if err != nil {
		return nil, err
	}
	return NewLocalFileInfo(fi.Name(), fi.ModTime(), changeTime(fi), fi.IsDir(), fi.Size()), nil
}

func NewLocalFileSystem() *LocalFileSystem {
	return NewLocalFileSystemFromFs(afero.NewOsFs())
}

func NewReadOnlyLocalSystem() *LocalFileSystem {
	return NewLocalFileSystemFromFs(afero.NewReadOnlyFs(afero.NewOsFs()))
}

// NewLocalFileSystemFromFs returns a LocalFileSystem backed by the given afero file system.
func NewLocalFileSystemFromFs(base afero.Fs) *LocalFileSystem {
	return &LocalFileSystem{
		fs:   base,
		iofs: afero.NewIOFS(base),
	}
}
