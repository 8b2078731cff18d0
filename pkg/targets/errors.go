package targets

import (
	"errors"
	"fmt"
)

// ErrNotFound is matched by errors.Is when the target list file does not exist.
var ErrNotFound = errors.New("target images file not found")

// NotFoundError indicates the target list file does not exist.
type NotFoundError struct {
	Path string
	Err  error
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("target images file not found: %s", e.Path)
}

func (e *NotFoundError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrNotFound) match.
func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ReadError indicates the target list file exists but could not be read.
type ReadError struct {
	Path string
	Err  error
}

func (e *ReadError) Error() string {
	return fmt.Sprintf("failed to read target images file '%s': %v", e.Path, e.Err)
}

func (e *ReadError) Unwrap() error {
	return e.Err
}
