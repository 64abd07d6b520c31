package hostlib

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/uuid/v5"
)

// Console writes lines for a script.
type Console struct {
	mu sync.Mutex
	w  io.Writer
}

func NewConsole(w io.Writer) *Console {
	return &Console{w: w}
}

// Println writes the arguments separated by spaces.
func (c *Console) Println(args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintln(c.w, args...)
}

// Printf writes a formatted string.
func (c *Console) Printf(format string, args ...any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprintf(c.w, format, args...)
}

// Strings carries the string helpers as statics.
type Strings struct{}

func stringsStatics() map[string]any {
	return map[string]any{
		"upper":     strings.ToUpper,
		"lower":     strings.ToLower,
		"trim":      strings.TrimSpace,
		"repeat":    strings.Repeat,
		"contains":  strings.Contains,
		"hasPrefix": strings.HasPrefix,
		"hasSuffix": strings.HasSuffix,
		"replace":   strings.ReplaceAll,
		"split":     strings.Split,
		"join":      strings.Join,
		"format":    fmt.Sprintf,
		"EMPTY":     "",
	}
}

// Clock tells the time.
type Clock interface {
	Now() time.Time
}

// SystemClock is the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock time.Time

func (c FixedClock) Now() time.Time { return time.Time(c) }

func clockStatics() map[string]any {
	return map[string]any{
		"now":     time.Now,
		"unix":    func() int64 { return time.Now().Unix() },
		"RFC3339": time.RFC3339,
		"format":  func(t time.Time, layout string) string { return t.Format(layout) },
	}
}

func durationStatics() map[string]any {
	return map[string]any{
		"parse":       time.ParseDuration,
		"MILLISECOND": int64(time.Millisecond),
		"SECOND":      int64(time.Second),
		"MINUTE":      int64(time.Minute),
		"HOUR":        int64(time.Hour),
	}
}

// Logger is the structured logger injected into scripts.
type Logger struct {
	logger *slog.Logger
}

func NewLogger(handler slog.Handler) *Logger {
	return &Logger{logger: slog.New(handler).WithGroup("script")}
}

func (l *Logger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.logger.Info(msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.logger.Warn(msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }

// With returns a Logger that adds args to every record.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{logger: l.logger.With(args...)}
}

// Init satisfies injector.Initializer.
func (l *Logger) Init(context.Context) error {
	l.logger.Debug("Script logger ready")
	return nil
}

// IDs generates identifiers.
type IDs struct{}

func idStatics() map[string]any {
	return map[string]any{
		"v4": func() (string, error) {
			id, err := uuid.NewV4()
			return id.String(), err
		},
		"v6": func() (string, error) {
			id, err := uuid.NewV6()
			return id.String(), err
		},
		"v7": func() (string, error) {
			id, err := uuid.NewV7()
			return id.String(), err
		},
	}
}

// Env reads the process environment.
type Env struct{}

func envStatics() map[string]any {
	return map[string]any{
		"get": func(name string, fallback string) string {
			if v, ok := os.LookupEnv(name); ok {
				return v
			}
			return fallback
		},
		"has": func(name string) bool {
			_, ok := os.LookupEnv(name)
			return ok
		},
	}
}
