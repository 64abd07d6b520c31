package binder

import (
	"log/slog"
	"slices"
)

// Option configures a Binder.
type Option func(*Binder)

// WithSequence sets the carrier sequence.
func WithSequence(seq Sequence) Option {
	return func(b *Binder) {
		if seq != nil {
			b.sequence = seq
		}
	}
}

// WithMarkerEncoder replaces TagEncoder.
func WithMarkerEncoder(enc MarkerEncoder) Option {
	return func(b *Binder) {
		if enc != nil {
			b.encoder = enc
		}
	}
}

// WithDefaultPackages replaces DefaultPackages for simple-name resolution.
func WithDefaultPackages(pkgs ...string) Option {
	return func(b *Binder) {
		b.defaultPackages = slices.Clone(pkgs)
	}
}

// WithLogHandler sets the log handler.
func WithLogHandler(handler slog.Handler) Option {
	return func(b *Binder) {
		if handler != nil {
			b.logger = slog.New(handler)
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(b *Binder) {
		if logger != nil {
			b.logger = logger
		}
	}
}
