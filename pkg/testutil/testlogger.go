// Package testutil provides helpers shared by cmig tests.
package testutil

import (
	"bytes"
	"sync"
	"testing"

	"github.com/lucas-albers-lz4/cmig/pkg/log"
)

// mutex serializes redirection of the global logger.
var mutex sync.Mutex

// CaptureLogging redirects pkg/log output into a buffer.
// Call the returned function to restore the original writer and get the captured output.
func CaptureLogging() func() string {
	mutex.Lock()

	var logBuf bytes.Buffer
	logRestore := log.SetOutput(&logBuf)

	return func() string {
		defer mutex.Unlock()
		logRestore()
		return logBuf.String()
	}
}

// UseTestLogger captures log output for the duration of t and prints it only
// when the test fails. Verbose runs log straight through.
func UseTestLogger(t *testing.T) {
	t.Helper()

	if testing.Verbose() {
		return
	}

	restoreAndGetLogs := CaptureLogging()
	t.Cleanup(func() {
		capturedLogs := restoreAndGetLogs()
		if t.Failed() {
			t.Logf("Log output captured during test:\n%s", capturedLogs)
		}
	})
}
