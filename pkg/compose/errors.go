package compose

import "errors"

// Sentinel errors returned by Load, Parse and the walkers. Callers match them with errors.Is.
var (
	// ErrNotFound indicates the compose file does not exist.
	ErrNotFound = errors.New("file not found")
	// ErrInvalidFormat indicates the content is not YAML, is not rooted in a
	// mapping, or has a 'services' key whose value is not a mapping.
	ErrInvalidFormat = errors.New("invalid compose file format")
)
