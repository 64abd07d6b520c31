// Package logging builds the slog handlers used by the CLI.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/atlanticdynamic/nosorog/internal/config/logs"
	"github.com/atlanticdynamic/nosorog/internal/logging/writers"
)

// levelSpec is what a level name means for both handler kinds.
type levelSpec struct {
	level     slog.Level
	trace     bool
	timestamp bool
}

func parseLevel(logLevel string) levelSpec {
	switch strings.ToLower(logLevel) {
	case "trace":
		return levelSpec{level: slog.LevelDebug, trace: true, timestamp: true}
	case "debug":
		return levelSpec{level: slog.LevelDebug, timestamp: true}
	case "warn", "warning":
		return levelSpec{level: slog.LevelWarn}
	case "error":
		return levelSpec{level: slog.LevelError}
	default:
		return levelSpec{level: slog.LevelInfo}
	}
}

// SetupHandlerText configures a charmbracelet text handler. A nil writer means
// stderr. The trace level adds caller and timestamp reporting.
func SetupHandlerText(logLevel string, writer io.Writer) slog.Handler {
	if writer == nil {
		writer = os.Stderr
	}
	spec := parseLevel(logLevel)

	return log.NewWithOptions(writer, log.Options{
		ReportTimestamp: spec.timestamp,
		ReportCaller:    spec.trace,
		Level:           log.Level(spec.level),
	})
}

// SetupHandlerJSON configures a JSON slog handler. A nil writer means stdout.
func SetupHandlerJSON(logLevel string, writer io.Writer) slog.Handler {
	if writer == nil {
		writer = os.Stdout
	}
	spec := parseLevel(logLevel)

	return slog.NewJSONHandler(writer, &slog.HandlerOptions{
		Level:     spec.level,
		AddSource: spec.trace,
	})
}

// NewHandler builds the handler described by cfg, opening its output.
func NewHandler(cfg logs.Config) (slog.Handler, error) {
	cfg = cfg.WithDefaults()
	writer, err := writers.CreateWriter(cfg.Output)
	if err != nil {
		return nil, fmt.Errorf("logging output: %w", err)
	}

	if cfg.Format == logs.FormatJSON {
		return SetupHandlerJSON(cfg.Level.String(), writer), nil
	}
	return SetupHandlerText(cfg.Level.String(), writer), nil
}

// SetupLogger configures the default logger based on provided log level
func SetupLogger(logLevel string) {
	slog.SetDefault(slog.New(SetupHandlerText(logLevel, nil)))
}

// Setup installs the handler described by cfg as the default and returns it.
func Setup(cfg logs.Config) (slog.Handler, error) {
	handler, err := NewHandler(cfg)
	if err != nil {
		return nil, err
	}
	slog.SetDefault(slog.New(handler))
	return handler, nil
}
