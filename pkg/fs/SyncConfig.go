// ==================================================================================
//
// Work of the U.S. Department of the Navy, Naval Information Warfare Center Pacific.
// Released as open source under the MIT License.  See LICENSE file.
//
// ==================================================================================

package fs

// SyncConfig holds the settings for a synchronization run.
// It is not modified by the Synchronizer.
type SyncConfig struct {
	// DebugMode logs every action the Synchronizer takes or, when simulating, would take.
	DebugMode bool
	// Simulate replaces every change to the file system with a no-op.
	Simulate bool
	// SkipHidden skips entries whose names begin with a dot.
	SkipHidden bool
	// UseChecksum only overwrites a file if its contents differ from its counterpart.
	UseChecksum bool
	PathA       string
	PathB       string
}

// DefaultSyncConfig returns the default settings.
func DefaultSyncConfig() SyncConfig {
	return SyncConfig{
		DebugMode:   true,
		Simulate:    false,
		SkipHidden:  true,
		UseChecksum: false,
	}
}
