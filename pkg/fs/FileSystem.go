// =================================================================
//
// Work of the U.S. Department of Defense, Defense Digital Service.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

package fs

import (
	"context"
	"os"
	"time"
)

// FileSystem is the set of primitive operations the Synchronizer performs on a directory tree.
type FileSystem interface {
	Chtimes(ctx context.Context, name string, atime time.Time, mtime time.Time) error
	IsNotExist(err error) bool
	Join(name ...string) string
	Mkdir(ctx context.Context, name string, mode os.FileMode) error
	Open(ctx context.Context, name string) (File, error)
	OpenFile(ctx context.Context, name string, flag int, perm os.FileMode) (File, error)
	ReadDir(ctx context.Context, name string) ([]DirectoryEntry, error)
	Relative(ctx context.Context, basepath string, targpath string) (string, error)
	Remove(ctx context.Context, name string) error
	Stat(ctx context.Context, name string) (FileInfo, error)
}
