// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

//go:build !linux && !openbsd && !darwin && !freebsd && !netbsd

package lfs

import (
	"os"
	"time"
)

// changeTime returns the modification time, since the change time is not available.
func changeTime(fi os.FileInfo) time.Time {
	return fi.ModTime()
}
