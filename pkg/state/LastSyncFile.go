// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

// Package state persists the time of the last synchronization.
package state

import (
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/afero"

	"github.com/navwar/bisync/pkg/fs"
)

const (
	DefaultLastSyncFile = ".last-sync"

	// maxLastSyncBytes is the number of bytes read from the file.
	maxLastSyncBytes = 20
)

var (
	ErrInvalidFormat = errors.New("last synchronization time does not have the right format")

	lastSyncFormat = regexp.MustCompile("^[0-9]+$")
)

// Never is the last synchronization time of paths that have never been synchronized.
var Never = fs.Epoch

// LastSyncFile reads and writes the UNIX timestamp of the last synchronization.
type LastSyncFile struct {
	fs   afero.Fs
	path string
}

func (f *LastSyncFile) Path() string {
	return f.path
}

// Load returns the time of the last synchronization.
// If the file cannot be read or is malformed, then Load returns Never and the reason.
func (f *LastSyncFile) Load() (time.Time, error) {
	file, err := f.fs.Open(f.path)
	if err != nil {
		return Never, fmt.Errorf("error opening last synchronization file %q: %w", f.path, err)
	}
	defer file.Close()

	b := make([]byte, maxLastSyncBytes)
	n, err := io.ReadFull(file, b)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return Never, fmt.Errorf("error reading last synchronization file %q: %w", f.path, err)
	}

	// a single trailing newline is allowed
	str := strings.TrimSuffix(string(b[:n]), "\n")
	if !lastSyncFormat.MatchString(str) {
		return Never, fmt.Errorf("%w: %q", ErrInvalidFormat, str)
	}

	seconds, err := strconv.ParseInt(str, 10, 64)
	if err != nil {
		return Never, fmt.Errorf("%w: %q: %s", ErrInvalidFormat, str, err.Error())
	}

	return time.Unix(seconds, 0), nil
}

// Save overwrites the file with the UNIX timestamp of t in seconds.
func (f *LastSyncFile) Save(t time.Time) error {
	err := afero.WriteFile(f.fs, f.path, []byte(strconv.FormatInt(t.Unix(), 10)), 0644)
	if err != nil {
		return fmt.Errorf("error writing last synchronization file %q: %w", f.path, err)
	}
	return nil
}

func NewLastSyncFile(fs afero.Fs, path string) *LastSyncFile {
	if len(path) == 0 {
		path = DefaultLastSyncFile
	}
	return &LastSyncFile{
		fs:   fs,
		path: path,
	}
}

// NewLocalLastSyncFile returns a LastSyncFile on the local file system.
func NewLocalLastSyncFile(path string) *LastSyncFile {
	return NewLastSyncFile(afero.NewOsFs(), path)
}

// IsNever reports whether t means the paths have never been synchronized.
func IsNever(t time.Time) bool {
	return !t.After(Never)
}
