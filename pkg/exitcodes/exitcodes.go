// Package exitcodes provides centralized exit code definitions and error handling for cmig.
// Exit codes are organized in ranges to categorize different types of failures:
//
//	0:     Success
//	1-9:   Input/Configuration Errors (e.g., missing flags, missing compose file)
//	10-19: Document Processing Errors (e.g., unparsable compose file)
//	20-29: Runtime Errors (e.g., I/O errors, system failures)
package exitcodes

import (
	"errors"
	"fmt"
)

// Exit code constants organized by category
const (
	// Success (0)
	ExitSuccess = 0

	// Input/Configuration Errors (1-9)
	ExitMissingRequiredFlag     = 1 // Required command flag not provided
	ExitInputConfigurationError = 2 // General configuration error
	ExitFileNotFound            = 4 // Compose file not found

	// Document Processing Errors (10-19)
	ExitInvalidFormat = 10 // Compose file does not parse as a mapping-rooted document

	// Runtime Errors (20-29)
	ExitGeneralRuntimeError = 20 // General runtime/system error
	ExitIOError             = 21 // IO operation error
)

// ExitCodeError wraps an error with an exit code so the code travels up to main.
type ExitCodeError struct {
	Code int   // Exit code to return
	Err  error // Underlying error
}

func (e *ExitCodeError) Error() string {
	return fmt.Sprintf("exit code %d: %v", e.Code, e.Err)
}

func (e *ExitCodeError) Unwrap() error {
	return e.Err
}

// IsExitCodeError checks if an error is an ExitCodeError and returns its code.
// Returns false and 0 if the error is not an ExitCodeError.
func IsExitCodeError(err error) (int, bool) {
	var exitErr *ExitCodeError
	if errors.As(err, &exitErr) {
		return exitErr.Code, true
	}
	return 0, false
}

// CodeDescriptions maps exit codes to their human-readable descriptions
var CodeDescriptions = map[int]string{
	ExitSuccess:                 "Success",
	ExitMissingRequiredFlag:     "Required command flag not provided",
	ExitInputConfigurationError: "General configuration error",
	ExitFileNotFound:            "Compose file not found",
	ExitInvalidFormat:           "Invalid compose file format",
	ExitGeneralRuntimeError:     "General runtime/system error",
	ExitIOError:                 "IO operation error",
}
