// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package fs

// Result counts the actions taken during a synchronization run.
// In simulate mode the counts are those of the actions that would have been taken.
type Result struct {
	FilesCopied        int
	FilesDeleted       int
	DirectoriesCreated int
	DirectoriesRemoved int
}

// Changes returns the total number of actions.
func (r *Result) Changes() int {
	return r.FilesCopied + r.FilesDeleted + r.DirectoriesCreated + r.DirectoriesRemoved
}

func (r *Result) Fields() map[string]interface{} {
	return map[string]interface{}{
		"filesCopied":        r.FilesCopied,
		"filesDeleted":       r.FilesDeleted,
		"directoriesCreated": r.DirectoriesCreated,
		"directoriesRemoved": r.DirectoriesRemoved,
	}
}
