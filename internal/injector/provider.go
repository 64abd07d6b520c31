package injector

import (
	"context"
	"fmt"
	"reflect"
	"sync"
)

// Initializer is implemented by produced values that need setup before use.
type Initializer interface {
	Init(ctx context.Context) error
}

// ProviderFunc produces a value for a requested type.
type ProviderFunc func(ctx context.Context) (any, error)

type providerKey struct {
	typ       reflect.Type
	qualifier string
}

type provider struct {
	key       providerKey
	produce   ProviderFunc
	singleton bool

	mu    sync.Mutex
	done  bool
	value any
}

// get produces a value, running Init on it. Singletons are produced and
// initialized once; a failed attempt is retried on the next call.
func (p *provider) get(ctx context.Context) (any, error) {
	if !p.singleton {
		return p.create(ctx)
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.done {
		return p.value, nil
	}
	v, err := p.create(ctx)
	if err != nil {
		return nil, err
	}
	p.value, p.done = v, true
	return v, nil
}

func (p *provider) create(ctx context.Context) (any, error) {
	v, err := p.produce(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrProviderFailed, p.key.typ, err)
	}
	if v != nil && !reflect.TypeOf(v).AssignableTo(p.key.typ) {
		return nil, fmt.Errorf("%w: %s produced %T", ErrInvalidProvider, p.key.typ, v)
	}
	if init, ok := v.(Initializer); ok {
		if err := init.Init(ctx); err != nil {
			return nil, fmt.Errorf("%w: %T: %w", ErrInit, v, err)
		}
	}
	return v, nil
}

// ProvideOption configures one registration.
type ProvideOption func(*provider)

// Named registers the provider under a qualifier matched by @Named("...").
func Named(qualifier string) ProvideOption {
	return func(p *provider) {
		p.key.qualifier = qualifier
	}
}

// Singleton produces the value once and reuses it for every carrier.
func Singleton() ProvideOption {
	return func(p *provider) {
		p.singleton = true
	}
}

// Provide registers fn as the provider of T.
func Provide[T any](i *Injector, fn func(ctx context.Context) (T, error), opts ...ProvideOption) error {
	return i.Register(reflect.TypeFor[T](), func(ctx context.Context) (any, error) {
		return fn(ctx)
	}, opts...)
}

// ProvideValue registers a fixed value of T. It is a singleton by construction.
func ProvideValue[T any](i *Injector, value T, opts ...ProvideOption) error {
	opts = append(opts, Singleton())
	return i.Register(reflect.TypeFor[T](), func(context.Context) (any, error) {
		return value, nil
	}, opts...)
}
