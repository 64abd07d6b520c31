// Package logs holds the logging section of the host configuration.
package logs

import (
	"errors"
	"fmt"
)

const (
	FormatUnspecified Format = ""
	FormatText        Format = "text"
	FormatJSON        Format = "json"
)

const (
	LevelUnspecified Level = ""
	LevelTrace       Level = "trace"
	LevelDebug       Level = "debug"
	LevelInfo        Level = "info"
	LevelWarn        Level = "warn"
	LevelError       Level = "error"
)

// DefaultOutput is where logs go when no output is configured.
const DefaultOutput = "stderr"

// Config contains logging-related configuration options
type Config struct {
	Format Format
	Level  Level
	// Output is "stdout", "stderr", a file:// URL or a path.
	Output string `env_interpolation:"yes"`
}

// Format represents the logging output format
type Format string

// Level represents the logging verbosity level
type Level string

func (f Format) String() string {
	return string(f)
}

func (l Level) String() string {
	return string(l)
}

// IsValid checks if the Format is valid
func (f Format) IsValid() bool {
	switch f {
	case FormatUnspecified, FormatText, FormatJSON:
		return true
	default:
		return false
	}
}

// IsValid checks if the Level is valid
func (l Level) IsValid() bool {
	switch l {
	case LevelUnspecified, LevelTrace, LevelDebug, LevelInfo, LevelWarn, LevelError:
		return true
	default:
		return false
	}
}

// FormatFromString converts a string to a Format
func FormatFromString(format string) (Format, error) {
	switch format {
	case "json":
		return FormatJSON, nil
	case "text", "txt":
		return FormatText, nil
	case "":
		return FormatUnspecified, nil
	default:
		return FormatUnspecified, fmt.Errorf("%w: %s", ErrInvalidLogFormat, format)
	}
}

// LevelFromString converts a string to a Level
func LevelFromString(level string) (Level, error) {
	switch level {
	case "trace":
		return LevelTrace, nil
	case "debug":
		return LevelDebug, nil
	case "info":
		return LevelInfo, nil
	case "warn", "warning":
		return LevelWarn, nil
	case "error":
		return LevelError, nil
	case "":
		return LevelUnspecified, nil
	default:
		return LevelUnspecified, fmt.Errorf("%w: %s", ErrInvalidLogLevel, level)
	}
}

// FromStrings builds a Config from raw values, reporting both bad fields at once.
func FromStrings(format, level, output string) (Config, error) {
	f, fErr := FormatFromString(format)
	l, lErr := LevelFromString(level)
	cfg := Config{Format: f, Level: l, Output: output}
	if fErr != nil || lErr != nil {
		return cfg, errors.Join(fErr, lErr)
	}
	return cfg, nil
}

// WithDefaults fills unspecified fields.
func (lc Config) WithDefaults() Config {
	if lc.Format == FormatUnspecified {
		lc.Format = FormatText
	}
	if lc.Level == LevelUnspecified {
		lc.Level = LevelInfo
	}
	if lc.Output == "" {
		lc.Output = DefaultOutput
	}
	return lc
}
