// Package hostlib is the built-in class library exposed to scripts: the lang
// primitives used for resource fields, console output, string helpers, a clock,
// a logger and identifiers.
package hostlib

import (
	"io"
	"log/slog"
	"os"
	"reflect"
	"time"

	"github.com/atlanticdynamic/nosorog/internal/classpath"
	"github.com/atlanticdynamic/nosorog/internal/injector"
)

// Fully-qualified names of the built-in classes.
const (
	ClassString   = "lang.String"
	ClassInt      = "lang.Int"
	ClassFloat    = "lang.Float"
	ClassBool     = "lang.Bool"
	ClassAny      = "lang.Any"
	ClassMap      = "lang.Map"
	ClassList     = "lang.List"
	ClassDuration = "lang.Duration"

	ClassConsole = "nosorog.io.Console"
	ClassStrings = "nosorog.text.Strings"
	ClassClock   = "nosorog.time.Clock"
	ClassLogger  = "nosorog.log.Logger"
	ClassIDs     = "nosorog.util.IDs"
	ClassEnv     = "nosorog.sys.Env"
)

// Classes returns the class definitions of the library.
func Classes() []classpath.Class {
	return []classpath.Class{
		{Name: ClassString, Type: reflect.TypeFor[string]()},
		{Name: ClassInt, Type: reflect.TypeFor[int64]()},
		{Name: ClassFloat, Type: reflect.TypeFor[float64]()},
		{Name: ClassBool, Type: reflect.TypeFor[bool]()},
		{Name: ClassAny, Type: reflect.TypeFor[any]()},
		{Name: ClassMap, Type: reflect.TypeFor[map[string]any]()},
		{Name: ClassList, Type: reflect.TypeFor[[]any]()},
		{Name: ClassDuration, Type: reflect.TypeFor[time.Duration](), Statics: durationStatics()},

		{Name: ClassConsole, Type: reflect.TypeFor[*Console](), Constructor: func() *Console { return NewConsole(os.Stdout) }},
		{Name: ClassStrings, Type: reflect.TypeFor[Strings](), Statics: stringsStatics()},
		{Name: ClassClock, Type: reflect.TypeFor[Clock](), Statics: clockStatics()},
		{Name: ClassLogger, Type: reflect.TypeFor[*Logger]()},
		{Name: ClassIDs, Type: reflect.TypeFor[IDs](), Statics: idStatics()},
		{Name: ClassEnv, Type: reflect.TypeFor[Env](), Statics: envStatics()},
	}
}

// NewRegistry returns a registry holding the library classes plus extra.
func NewRegistry(extra ...classpath.Class) (*classpath.Registry, error) {
	return classpath.NewRegistry(append(Classes(), extra...)...)
}

type provideConfig struct {
	output  io.Writer
	handler slog.Handler
	clock   Clock
}

// ProvideOption configures Provide.
type ProvideOption func(*provideConfig)

// WithOutput sets where the injected Console writes.
func WithOutput(w io.Writer) ProvideOption {
	return func(c *provideConfig) {
		if w != nil {
			c.output = w
		}
	}
}

// WithLogHandler sets the handler behind the injected Logger.
func WithLogHandler(handler slog.Handler) ProvideOption {
	return func(c *provideConfig) {
		if handler != nil {
			c.handler = handler
		}
	}
}

// WithClock replaces the system clock.
func WithClock(clock Clock) ProvideOption {
	return func(c *provideConfig) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// Provide registers providers for the injectable library classes.
func Provide(i *injector.Injector, opts ...ProvideOption) error {
	cfg := &provideConfig{
		output:  os.Stdout,
		handler: slog.Default().Handler(),
		clock:   SystemClock{},
	}
	for _, opt := range opts {
		opt(cfg)
	}

	if err := injector.ProvideValue(i, NewConsole(cfg.output)); err != nil {
		return err
	}
	if err := injector.ProvideValue(i, cfg.clock); err != nil {
		return err
	}
	return injector.ProvideValue(i, NewLogger(cfg.handler))
}
