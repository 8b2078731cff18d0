package testutil

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/lucas-albers-lz4/cmig/pkg/log"
)

// CaptureLogOutput runs testFunc with the logger set to logLevel and returns
// everything logged meanwhile. Output and level are restored afterwards.
func CaptureLogOutput(logLevel log.Level, testFunc func()) string {
	originalLevel := log.CurrentLevel()
	restore := CaptureLogging()

	log.SetLevel(logLevel)
	defer log.SetLevel(originalLevel)

	testFunc()
	return restore()
}

// ParseJSONLogs decodes JSON-lines log output into one map per entry.
func ParseJSONLogs(output string) ([]map[string]any, error) {
	var entries []map[string]any
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			return nil, fmt.Errorf("failed to parse log line %q: %w", line, err)
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan log output: %w", err)
	}
	return entries, nil
}

// FindLog returns the first entry with the given level and message, or nil.
func FindLog(entries []map[string]any, level, msg string) map[string]any {
	for _, entry := range entries {
		if entry["level"] == level && entry["msg"] == msg {
			return entry
		}
	}
	return nil
}
