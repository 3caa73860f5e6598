// =================================================================
//
// Work of the U.S. Department of Defense, Defense Digital Service.
// Released as open source under the MIT License.  See LICENSE file.
//
// =================================================================

package fs

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

const (
	DefaultDirectoryMode = 0755
)

type NewSynchronizerInput struct {
	Config     SyncConfig
	FileSystem FileSystem
	// LastSyncTime is the time of the last completed synchronization.
	// The zero value and Epoch both mean the trees have never been synchronized.
	LastSyncTime time.Time
	Logger       Logger
	// Clock returns the current time.  Defaults to time.Now.
	Clock func() time.Time
}

// Synchronizer reconciles two directory trees in both directions.
// A Synchronizer is not safe for concurrent use.
type Synchronizer struct {
	config        SyncConfig
	fileSystem    FileSystem
	logger        Logger
	clock         func() time.Time
	lastSyncTime  time.Time
	syncStartTime time.Time
	result        *Result
	// written holds the destinations copied during the current run.
	written map[string]struct{}
}

func NewSynchronizer(input *NewSynchronizerInput) *Synchronizer {
	clock := input.Clock
	if clock == nil {
		clock = time.Now
	}
	lastSyncTime := input.LastSyncTime
	if lastSyncTime.IsZero() {
		lastSyncTime = Epoch
	}
	return &Synchronizer{
		config:       input.Config,
		fileSystem:   input.FileSystem,
		logger:       input.Logger,
		clock:        clock,
		lastSyncTime: lastSyncTime,
	}
}

func (s *Synchronizer) Config() SyncConfig {
	return s.config
}

func (s *Synchronizer) LastSyncTime() time.Time {
	return s.lastSyncTime
}

// SyncStartTime returns the time the most recent call to Synchronize began.
func (s *Synchronizer) SyncStartTime() time.Time {
	return s.syncStartTime
}

// Run synchronizes the paths in the configuration.
func (s *Synchronizer) Run(ctx context.Context) (*Result, error) {
	return s.Synchronize(ctx, s.config.PathA, s.config.PathB)
}

// Synchronize reconciles pathA into pathB and then pathB into pathA.
// The first error aborts the run.  Changes made before the error are not undone.
func (s *Synchronizer) Synchronize(ctx context.Context, pathA string, pathB string) (*Result, error) {
	if err := s.checkRoot(ctx, pathA); err != nil {
		return nil, err
	}
	if err := s.checkRoot(ctx, pathB); err != nil {
		return nil, err
	}
	if err := s.checkRoots(ctx, pathA, pathB); err != nil {
		return nil, err
	}

	// captured once and shared by both passes
	s.syncStartTime = s.clock()
	s.result = &Result{}
	s.written = map[string]struct{}{}

	s.log("Synchronizing", map[string]interface{}{
		"src": pathA,
		"dst": pathB,
	})
	if err := s.reconcileDirection(ctx, pathA, pathB); err != nil {
		return nil, err
	}

	s.log("Synchronizing", map[string]interface{}{
		"src": pathB,
		"dst": pathA,
	})
	if err := s.reconcileDirection(ctx, pathB, pathA); err != nil {
		return nil, err
	}

	return s.result, nil
}

func (s *Synchronizer) checkRoot(ctx context.Context, p string) error {
	if len(p) == 0 {
		return newSyncError(ErrInvalidPath, p, "", errors.New("path is empty"))
	}
	fi, err := s.fileSystem.Stat(ctx, p)
	if err != nil {
		return newSyncError(ErrInvalidPath, p, "", fmt.Errorf("path is not accessible: %w", err))
	}
	if !fi.IsDir() {
		return newSyncError(ErrInvalidPath, p, "", errors.New("path is not a directory"))
	}
	return nil
}

// checkRoots returns an error if the paths are the same or one contains the other.
func (s *Synchronizer) checkRoots(ctx context.Context, pathA string, pathB string) error {
	rel, err := s.fileSystem.Relative(ctx, pathA, pathB)
	if err != nil {
		return newSyncError(ErrInvalidPath, pathA, pathB, err)
	}
	if rel == "." {
		return newSyncError(ErrInvalidPath, pathA, pathB, errors.New("paths must be different"))
	}
	if !isOutside(rel) {
		return newSyncError(ErrInvalidPath, pathA, pathB, fmt.Errorf("cycle error: %q is a parent of %q", pathA, pathB))
	}
	rel, err = s.fileSystem.Relative(ctx, pathB, pathA)
	if err != nil {
		return newSyncError(ErrInvalidPath, pathB, pathA, err)
	}
	if !isOutside(rel) {
		return newSyncError(ErrInvalidPath, pathA, pathB, fmt.Errorf("cycle error: %q is a parent of %q", pathB, pathA))
	}
	return nil
}

func isOutside(rel string) bool {
	rel = filepath.ToSlash(rel)
	return rel == ".." || strings.HasPrefix(rel, "../")
}

func (s *Synchronizer) log(msg string, fields map[string]interface{}) {
	if !s.config.DebugMode || s.logger == nil {
		return
	}
	_ = s.logger.Log(msg, fields)
}

// skip reports whether a directory entry is ignored.
// The pseudo-entries "." and ".." are always ignored.
func skip(name string, skipHidden bool) bool {
	if !strings.HasPrefix(name, ".") {
		return false
	}
	if skipHidden {
		return true
	}
	return name == "." || name == ".."
}

// stat returns whether name is a directory and its effective modification time.
// If name cannot be stated, then it is reported as a file last modified at Epoch.
func (s *Synchronizer) stat(ctx context.Context, name string) (bool, time.Time) {
	fi, err := s.fileSystem.Stat(ctx, name)
	if err != nil {
		return false, Epoch
	}
	return fi.IsDir(), EffectiveModTime(fi)
}

// reconcileDirection makes sure every entry in src has been propagated to dst,
// or removed from src if it was deleted from dst since the last synchronization.
func (s *Synchronizer) reconcileDirection(ctx context.Context, src string, dst string) error {
	entries, err := s.fileSystem.ReadDir(ctx, src)
	if err != nil {
		return newSyncError(ErrDirectoryRead, src, "", err)
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}

		name := entry.Name()
		if skip(name, s.config.SkipHidden) {
			continue
		}

		srcPath := s.fileSystem.Join(src, name)
		dstPath := s.fileSystem.Join(dst, name)

		srcIsDir, srcModTime := s.stat(ctx, srcPath)

		dstFileInfo, err := s.fileSystem.Stat(ctx, dstPath)
		if err != nil && !s.fileSystem.IsNotExist(err) {
			return newSyncError(ErrDirectoryRead, dstPath, "", err)
		}

		// destination does not exist
		if err != nil {
			if !srcModTime.After(s.lastSyncTime) {
				// unchanged since the last synchronization, so it was deleted from the destination
				if srcIsDir {
					if err := s.removeTree(ctx, srcPath); err != nil {
						return err
					}
					continue
				}
				if err := s.removeFile(ctx, srcPath); err != nil {
					return err
				}
				continue
			}
			// new since the last synchronization
			s.log("Copying", map[string]interface{}{
				"src": srcPath,
				"dst": dstPath,
			})
			if srcIsDir {
				if err := s.copyTree(ctx, srcPath, dstPath); err != nil {
					return err
				}
				continue
			}
			if err := s.copyFile(ctx, srcPath, dstPath); err != nil {
				return err
			}
			continue
		}

		if srcIsDir != dstFileInfo.IsDir() {
			return newSyncError(ErrResourceMismatch, srcPath, dstPath, nil)
		}

		if srcIsDir {
			s.log("Synchronizing", map[string]interface{}{
				"src": srcPath,
				"dst": dstPath,
			})
			if err := s.reconcileDirection(ctx, srcPath, dstPath); err != nil {
				return err
			}
			continue
		}

		// copied by this run, so its change time is not a modification
		if _, ok := s.written[srcPath]; ok {
			continue
		}

		overwriteFile, err := s.overwrite(ctx, srcPath, srcModTime, dstPath, EffectiveModTime(dstFileInfo))
		if err != nil {
			return err
		}
		if overwriteFile {
			s.log("Copying", map[string]interface{}{
				"src": srcPath,
				"dst": dstPath,
			})
			if err := s.copyFile(ctx, srcPath, dstPath); err != nil {
				return err
			}
		}
	}

	return nil
}

// overwrite reports whether the file at dst should be overwritten by the file at src.
// Times are compared in whole seconds, the resolution of the last synchronization time.
func (s *Synchronizer) overwrite(ctx context.Context, src string, srcModTime time.Time, dst string, dstModTime time.Time) (bool, error) {
	srcSeconds := srcModTime.Unix()
	// modified since the last synchronization
	if srcSeconds <= s.lastSyncTime.Unix() {
		return false, nil
	}
	// newer than the destination
	if srcSeconds <= dstModTime.Unix() {
		return false, nil
	}
	// not modified while this synchronization is running
	if srcSeconds >= s.syncStartTime.Unix() {
		return false, nil
	}
	if !s.config.UseChecksum {
		return true, nil
	}
	differ, err := ChecksumsDiffer(ctx, s.fileSystem, src, dst)
	if err != nil {
		return false, newSyncError(ErrFileCopy, src, dst, fmt.Errorf("error comparing checksums: %w", err))
	}
	return differ, nil
}

func (s *Synchronizer) copyFile(ctx context.Context, src string, dst string) error {
	s.result.FilesCopied++
	s.written[dst] = struct{}{}
	if s.config.Simulate {
		return nil
	}
	err := Copy(ctx, &CopyInput{
		SourceName:            src,
		SourceFileSystem:      s.fileSystem,
		DestinationName:       dst,
		DestinationFileSystem: s.fileSystem,
		PreserveModTime:       true,
	})
	if err != nil {
		return newSyncError(ErrFileCopy, src, dst, err)
	}
	return nil
}

func (s *Synchronizer) removeFile(ctx context.Context, name string) error {
	s.log("Removing", map[string]interface{}{
		"path": name,
	})
	s.result.FilesDeleted++
	if s.config.Simulate {
		return nil
	}
	if err := s.fileSystem.Remove(ctx, name); err != nil {
		return newSyncError(ErrFileDelete, name, "", err)
	}
	return nil
}

// copyTree creates dst and copies every entry of src into it.
func (s *Synchronizer) copyTree(ctx context.Context, src string, dst string) error {
	s.log("Creating", map[string]interface{}{
		"path": dst,
	})
	s.result.DirectoriesCreated++
	if !s.config.Simulate {
		if err := s.fileSystem.Mkdir(ctx, dst, DefaultDirectoryMode); err != nil {
			return newSyncError(ErrDirectoryCreate, dst, "", err)
		}
	}

	entries, err := s.fileSystem.ReadDir(ctx, src)
	if err != nil {
		return newSyncError(ErrFileCopy, src, dst, fmt.Errorf("error reading source directory: %w", err))
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		name := entry.Name()
		if skip(name, s.config.SkipHidden) {
			continue
		}
		srcPath := s.fileSystem.Join(src, name)
		dstPath := s.fileSystem.Join(dst, name)
		s.log("Copying", map[string]interface{}{
			"src": srcPath,
			"dst": dstPath,
		})
		if isDir, _ := s.stat(ctx, srcPath); isDir {
			if err := s.copyTree(ctx, srcPath, dstPath); err != nil {
				return err
			}
			continue
		}
		if err := s.copyFile(ctx, srcPath, dstPath); err != nil {
			return err
		}
	}

	return nil
}

// removeTree removes name and everything under it, including hidden entries.
func (s *Synchronizer) removeTree(ctx context.Context, name string) error {
	entries, err := s.fileSystem.ReadDir(ctx, name)
	if err != nil {
		return newSyncError(ErrDirectoryRemove, name, "", fmt.Errorf("error reading directory: %w", err))
	}

	for _, entry := range entries {
		if err := ctx.Err(); err != nil {
			return err
		}
		if entry.Name() == "." || entry.Name() == ".." {
			continue
		}
		p := s.fileSystem.Join(name, entry.Name())
		if isDir, _ := s.stat(ctx, p); isDir {
			if err := s.removeTree(ctx, p); err != nil {
				return err
			}
			continue
		}
		if err := s.removeFile(ctx, p); err != nil {
			return err
		}
	}

	s.log("Removing", map[string]interface{}{
		"path": name,
	})
	s.result.DirectoriesRemoved++
	if s.config.Simulate {
		return nil
	}
	if err := s.fileSystem.Remove(ctx, name); err != nil {
		return newSyncError(ErrDirectoryRemove, name, "", err)
	}
	return nil
}
