package engine

import (
	"io"
	"log/slog"
)

type config struct {
	host   HandleLookup
	output io.Writer
	logger *slog.Logger
}

func newConfig(opts []Option) *config {
	cfg := &config{
		output: io.Discard,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	cfg.logger = cfg.logger.WithGroup("engine")
	return cfg
}

// Option configures an engine.
type Option func(*config)

// WithHost sets where class handles come from. Polyscript engines need a Catalog
// to publish handles; a plain HandleLookup only serves Goja.
func WithHost(host HandleLookup) Option {
	return func(c *config) {
		c.host = host
	}
}

// WithOutput sets the destination of the print global.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		if w != nil {
			c.output = w
		}
	}
}

// WithLogHandler sets the log handler.
func WithLogHandler(handler slog.Handler) Option {
	return func(c *config) {
		if handler != nil {
			c.logger = slog.New(handler)
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}
