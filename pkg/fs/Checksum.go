// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package fs

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"
)

// Checksum returns the hex-encoded SHA-1 digest of the contents of a file.
func Checksum(ctx context.Context, fileSystem FileSystem, name string) (string, error) {
	f, err := fileSystem.Open(ctx, name)
	if err != nil {
		return "", fmt.Errorf("error opening file at %q: %w", name, err)
	}
	h := sha1.New()
	if _, err := io.Copy(h, f); err != nil {
		_ = f.Close() // silently close file
		return "", fmt.Errorf("error reading file at %q: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("error closing file at %q: %w", name, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// ChecksumsDiffer computes the checksums of both files in parallel and reports whether they differ.
func ChecksumsDiffer(ctx context.Context, fileSystem FileSystem, a string, b string) (bool, error) {
	var checksumA, checksumB string

	wg, ctx := errgroup.WithContext(ctx)
	wg.Go(func() error {
		c, err := Checksum(ctx, fileSystem, a)
		if err != nil {
			return err
		}
		checksumA = c
		return nil
	})
	wg.Go(func() error {
		c, err := Checksum(ctx, fileSystem, b)
		if err != nil {
			return err
		}
		checksumB = c
		return nil
	})
	if err := wg.Wait(); err != nil {
		return false, err
	}

	return checksumA != checksumB, nil
}
