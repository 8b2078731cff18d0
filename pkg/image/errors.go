package image

import "errors"

// Sentinel errors related to image reference handling.
var (
	ErrEmptyImageString   = errors.New("cannot parse empty image string")
	ErrInvalidImageString = errors.New("invalid image string format")
)
