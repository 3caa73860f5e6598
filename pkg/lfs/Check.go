// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package lfs

import (
	"fmt"
)

// Check returns an error if the two synchronization roots are the same directory
// or if one of them contains the other.
func Check(pathA string, pathB string) error {
	directoriesA := Split(pathA)
	directoriesB := Split(pathB)
	i := 0
	for ; i < len(directoriesA) && i < len(directoriesB); i++ {
		if directoriesA[i] != directoriesB[i] {
			return nil
		}
	}
	switch {
	case len(directoriesA) > i:
		return fmt.Errorf("cycle error: path B %q is a parent of path A %q", pathB, pathA)
	case len(directoriesB) > i:
		return fmt.Errorf("cycle error: path A %q is a parent of path B %q", pathA, pathB)
	}
	return fmt.Errorf("path A and path B must be different: %q", pathA)
}
