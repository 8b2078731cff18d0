package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/lucas-albers-lz4/cmig/pkg/exitcodes"
)

// main runs the root command and turns a returned error into a message on
// stderr and a non-zero exit code.
func main() {
	if err := Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", errorMessage(err))
		os.Exit(exitCode(err))
	}
}

// exitCode picks the code carried by an ExitCodeError. Anything else comes
// from cobra's argument and flag parsing and is treated as a usage error.
func exitCode(err error) int {
	if code, ok := exitcodes.IsExitCodeError(err); ok {
		return code
	}
	return exitcodes.ExitInputConfigurationError
}

// errorMessage strips the "exit code N" prefix from ExitCodeErrors.
func errorMessage(err error) error {
	var exitErr *exitcodes.ExitCodeError
	if errors.As(err, &exitErr) && exitErr.Err != nil {
		return exitErr.Err
	}
	return err
}
