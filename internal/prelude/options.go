package prelude

import "log/slog"

// Option configures a Generator.
type Option func(*Generator)

// WithDialect sets the output language. The default is JavaScript.
func WithDialect(d Dialect) Option {
	return func(g *Generator) {
		if d != nil {
			g.dialect = d
		}
	}
}

// WithLogHandler sets the log handler.
func WithLogHandler(handler slog.Handler) Option {
	return func(g *Generator) {
		if handler != nil {
			g.logger = slog.New(handler)
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}
