package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lucas-albers-lz4/cmig/pkg/log"
)

func TestCaptureLogOutput(t *testing.T) {
	require.NoError(t, log.SetFormat(log.FormatJSON))
	before := log.CurrentLevel()

	output := CaptureLogOutput(log.LevelDebug, func() {
		log.Debug("walking services", "count", 2)
		log.Warn("target images file not found", "file", "targets.txt")
	})

	assert.Equal(t, before, log.CurrentLevel(), "level should be restored")

	entries, err := ParseJSONLogs(output)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	warn := FindLog(entries, "WARN", "target images file not found")
	require.NotNil(t, warn)
	assert.Equal(t, "targets.txt", warn["file"])
	assert.Nil(t, FindLog(entries, "ERROR", "walking services"))
}

func TestParseJSONLogsRejectsText(t *testing.T) {
	_, err := ParseJSONLogs("level=INFO msg=hello\n")
	assert.Error(t, err)
}

func TestUseTestLogger(t *testing.T) {
	UseTestLogger(t)
	log.Info("captured unless the test fails")
}
