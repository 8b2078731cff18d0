// Package fileutil provides file-related utility functions and constants.
package fileutil

// Standard file permission constants
const (
	// ReadWriteUserReadOthers represents read/write for owner, read for others (0644 in octal)
	ReadWriteUserReadOthers = 0o644
	// ReadWriteExecuteUserReadExecuteOthers represents rwx for owner, r-x for others (0755 in octal)
	ReadWriteExecuteUserReadExecuteOthers = 0o755
)
