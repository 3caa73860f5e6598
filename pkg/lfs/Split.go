// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package lfs

import (
	"os"
)

// Split splits the path into its directories using the path separator for the local operating system.
// An absolute path starts with "/" and empty elements are dropped.
func Split(p string) []string {
	dirs := []string{}
	d := []byte{}
	for i := 0; i < len(p); i++ {
		if !os.IsPathSeparator(p[i]) {
			d = append(d, p[i])
			continue
		}
		switch {
		case i == 0:
			dirs = append(dirs, "/")
		case len(d) > 0:
			dirs = append(dirs, string(d))
		}
		d = []byte{}
	}
	if len(d) > 0 {
		dirs = append(dirs, string(d))
	}
	return dirs
}
