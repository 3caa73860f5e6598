// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package fs

import (
	"errors"
	"fmt"
)

// Sentinel errors for each kind of synchronization failure.
var (
	ErrInvalidPath      = errors.New("invalid path")
	ErrResourceMismatch = errors.New("resource type mismatch")
	ErrFileDelete       = errors.New("cannot delete file")
	ErrDirectoryRemove  = errors.New("cannot remove directory")
	ErrFileCopy         = errors.New("cannot copy file")
	ErrDirectoryCreate  = errors.New("cannot create directory")
	ErrDirectoryRead    = errors.New("cannot read directory")
)

// Exit codes returned to the operating system for each kind of failure.
const (
	ExitCodeInvalidPath      = 1
	ExitCodeResourceMismatch = 3
	ExitCodeFileDelete       = 4
	ExitCodeDirectoryRemove  = 4
	ExitCodeFileCopy         = 5
	ExitCodeDirectoryCreate  = 6
	ExitCodeDirectoryRead    = 7
)

var exitCodes = map[error]int{
	ErrInvalidPath:      ExitCodeInvalidPath,
	ErrResourceMismatch: ExitCodeResourceMismatch,
	ErrFileDelete:       ExitCodeFileDelete,
	ErrDirectoryRemove:  ExitCodeDirectoryRemove,
	ErrFileCopy:         ExitCodeFileCopy,
	ErrDirectoryCreate:  ExitCodeDirectoryCreate,
	ErrDirectoryRead:    ExitCodeDirectoryRead,
}

// SyncError is returned by the Synchronizer for every failure that aborts a run.
type SyncError struct {
	Kind   error  // one of the sentinel errors
	Path   string // the entry being acted on
	Target string // the counterpart of Path, if any
	Err    error  // the underlying cause, if any
}

func (e *SyncError) Error() string {
	msg := e.Kind.Error()
	if len(e.Target) > 0 {
		msg = fmt.Sprintf("%s: %q -> %q", msg, e.Path, e.Target)
	} else if len(e.Path) > 0 {
		msg = fmt.Sprintf("%s: %q", msg, e.Path)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %s", msg, e.Err.Error())
	}
	return msg
}

func (e *SyncError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the kind of this error.
func (e *SyncError) Is(target error) bool {
	return target == e.Kind
}

func (e *SyncError) ExitCode() int {
	if code, ok := exitCodes[e.Kind]; ok {
		return code
	}
	return 1
}

// ExitCode returns the process exit code for err.
// Errors that are not synchronization errors map to 1.
func ExitCode(err error) int {
	if err == nil {
		return 0
	}
	var syncError *SyncError
	if errors.As(err, &syncError) {
		return syncError.ExitCode()
	}
	return 1
}

func newSyncError(kind error, path string, target string, err error) *SyncError {
	return &SyncError{
		Kind:   kind,
		Path:   path,
		Target: target,
		Err:    err,
	}
}
