// Package log provides a small leveled logger built on top of the standard library's slog package.
//
// A single global logger writes JSON (or text when the format is set to "text")
// to os.Stderr, keeping stdout free for command output. The level is controlled
// globally via SetLevel and is normally set once by the cmig root command from
// flags, environment or config file.
//
// SetOutput redirects log output, mainly for tests. It returns a function that
// restores the previous writer.
package log

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
)

const (
	levelDebugStr = "DEBUG"
	levelInfoStr  = "INFO"
	levelWarnStr  = "WARN"
	levelErrorStr = "ERROR"

	// FormatJSON selects the JSON handler (default).
	FormatJSON = "json"
	// FormatText selects the logfmt-style text handler.
	FormatText = "text"
)

var (
	logger        *slog.Logger
	globalLeveler           = &slog.LevelVar{}
	outputWriter  io.Writer = os.Stderr
	outputFormat            = FormatJSON

	// ErrInvalidLogLevel indicates an invalid log level string was provided.
	ErrInvalidLogLevel = fmt.Errorf("invalid log level")
	// ErrInvalidLogFormat indicates an unknown log format was requested.
	ErrInvalidLogFormat = fmt.Errorf("invalid log format")
)

func init() {
	globalLeveler.Set(slog.LevelInfo)
	if strings.EqualFold(os.Getenv("LOG_FORMAT"), FormatText) {
		outputFormat = FormatText
	}
	configureLogger()
}

// configureLogger rebuilds the logger from outputWriter, outputFormat and globalLeveler.
func configureLogger() {
	opts := &slog.HandlerOptions{Level: globalLeveler}

	var handler slog.Handler
	if outputFormat == FormatText {
		handler = slog.NewTextHandler(outputWriter, opts)
	} else {
		// Timestamps make CLI logs noisy and tests brittle.
		opts.ReplaceAttr = func(_ []string, a slog.Attr) slog.Attr {
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		}
		handler = slog.NewJSONHandler(outputWriter, opts)
	}
	logger = slog.New(handler)
}

// SetOutput changes the output destination for the logger.
// It returns a function that restores the original writer.
func SetOutput(w io.Writer) (restore func()) {
	originalWriter := outputWriter
	outputWriter = w
	configureLogger()
	return func() {
		outputWriter = originalWriter
		configureLogger()
	}
}

// SetFormat switches between the JSON and text handlers.
func SetFormat(format string) error {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatJSON:
		outputFormat = FormatJSON
	case FormatText:
		outputFormat = FormatText
	default:
		return fmt.Errorf("%w: %s", ErrInvalidLogFormat, format)
	}
	configureLogger()
	return nil
}

// Debug logs a debug message with optional key-value pairs
func Debug(msg string, args ...any) {
	logger.Debug(msg, args...)
}

// Info logs an info message with optional key-value pairs
func Info(msg string, args ...any) {
	logger.Info(msg, args...)
}

// Warn logs a warning message with optional key-value pairs
func Warn(msg string, args ...any) {
	logger.Warn(msg, args...)
}

// Error logs an error message with optional key-value pairs
func Error(msg string, args ...any) {
	logger.Error(msg, args...)
}

// Logger returns the underlying slog.Logger
func Logger() *slog.Logger {
	return logger
}

// SetLevel changes the log level at runtime.
func SetLevel(level Level) {
	globalLeveler.Set(slog.Level(level))
}

// CurrentLevel returns the active level.
func CurrentLevel() Level {
	return Level(globalLeveler.Level())
}

// IsDebugEnabled reports whether debug messages are emitted.
func IsDebugEnabled() bool {
	return globalLeveler.Level() <= slog.LevelDebug
}

// Level mirrors slog.Level so callers do not need to import log/slog.
type Level int8

// Log level definitions.
const (
	LevelDebug Level = Level(slog.LevelDebug)
	LevelInfo  Level = Level(slog.LevelInfo)
	LevelWarn  Level = Level(slog.LevelWarn)
	LevelError Level = Level(slog.LevelError)
)

// String returns the string representation of the log level.
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return levelDebugStr
	case LevelInfo:
		return levelInfoStr
	case LevelWarn:
		return levelWarnStr
	case LevelError:
		return levelErrorStr
	default:
		return "UNKNOWN"
	}
}

// ParseLevel parses a level name. Unknown names yield LevelInfo and an error.
func ParseLevel(levelStr string) (Level, error) {
	switch strings.ToUpper(strings.TrimSpace(levelStr)) {
	case levelDebugStr:
		return LevelDebug, nil
	case levelInfoStr:
		return LevelInfo, nil
	case levelWarnStr, "WARNING":
		return LevelWarn, nil
	case levelErrorStr:
		return LevelError, nil
	default:
		return LevelInfo, fmt.Errorf("%w: %s", ErrInvalidLogLevel, levelStr)
	}
}
