package script

import (
	"log/slog"

	"github.com/atlanticdynamic/nosorog/internal/binder"
	"github.com/atlanticdynamic/nosorog/internal/prelude"
)

// Option configures a Loader.
type Option func(*Loader)

// WithDialect sets the language the prelude is rendered in.
func WithDialect(d prelude.Dialect) Option {
	return func(l *Loader) {
		if d != nil {
			l.dialect = d
		}
	}
}

// WithSequence sets the counter used for carrier identities.
func WithSequence(seq binder.Sequence) Option {
	return func(l *Loader) {
		if seq != nil {
			l.binderOpts = append(l.binderOpts, binder.WithSequence(seq))
		}
	}
}

// WithMarkerEncoder sets how field markers are written into carrier tags.
func WithMarkerEncoder(enc binder.MarkerEncoder) Option {
	return func(l *Loader) {
		if enc != nil {
			l.binderOpts = append(l.binderOpts, binder.WithMarkerEncoder(enc))
		}
	}
}

// WithDefaultPackages replaces the packages searched for unimported simple type names.
func WithDefaultPackages(pkgs ...string) Option {
	return func(l *Loader) {
		l.binderOpts = append(l.binderOpts, binder.WithDefaultPackages(pkgs...))
	}
}

// WithLogHandler sets the handler that receives build logs.
func WithLogHandler(handler slog.Handler) Option {
	return func(l *Loader) {
		if handler != nil {
			l.handler = handler
		}
	}
}
