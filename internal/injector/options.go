package injector

import (
	"log/slog"
)

// Option configures an Injector.
type Option func(*Injector)

// WithResources seeds named resources.
func WithResources(resources map[string]any) Option {
	return func(i *Injector) {
		for name, value := range resources {
			i.resources[name] = value
		}
	}
}

// WithStringResources seeds named resources from configuration.
func WithStringResources(resources map[string]string) Option {
	return func(i *Injector) {
		for name, value := range resources {
			i.resources[name] = value
		}
	}
}

// WithPostConstruct adds a hook run after every carrier is populated, in the order
// the hooks were added.
func WithPostConstruct(hook PostConstructFunc) Option {
	return func(i *Injector) {
		if hook != nil {
			i.postConstruct = append(i.postConstruct, hook)
		}
	}
}

// WithLogHandler sets the log handler.
func WithLogHandler(handler slog.Handler) Option {
	return func(i *Injector) {
		if handler != nil {
			i.logger = slog.New(handler)
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(i *Injector) {
		if logger != nil {
			i.logger = logger
		}
	}
}
