// =================================================================
//
// Work of the U.S. Department of Defense, Defense Digital Service.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

package fs

import (
	"context"
	"time"
)

// Epoch is the instant used for "never synchronized" and for entries that cannot be stated.
var Epoch = time.Unix(0, 0)

// EffectiveModTime returns the later of the modification time and the change time.
func EffectiveModTime(fi FileInfo) time.Time {
	mtime := fi.ModTime()
	if ctime := fi.ChangeTime(); ctime.After(mtime) {
		return ctime
	}
	return mtime
}

// StatEffectiveModTime stats name and returns its effective modification time, or Epoch if the stat fails.
func StatEffectiveModTime(ctx context.Context, fileSystem FileSystem, name string) time.Time {
	fi, err := fileSystem.Stat(ctx, name)
	if err != nil {
		return Epoch
	}
	return EffectiveModTime(fi)
}
