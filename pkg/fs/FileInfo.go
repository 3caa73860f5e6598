// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package fs

import (
	"time"
)

type FileInfo interface {
	IsDir() bool
	MarshalJSON() ([]byte, error)
	Name() string
	// ChangeTime returns the metadata change time, or the modification time
	// when the underlying file system does not track it.
	ChangeTime() time.Time
	ModTime() time.Time
	Size() int64
	String() string
}
