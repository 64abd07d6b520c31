// Package binder turns a script's declared capabilities into bindings.
//
// Each capability's declared type is resolved against the script imports, a
// carrier struct type is synthesized with one tagged field per capability, and a
// Resolver populates an instance of it. The populated fields become the bindings.
package binder

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strconv"

	"github.com/atlanticdynamic/nosorog/internal/classpath"
	"github.com/atlanticdynamic/nosorog/internal/descriptor"
)

// Resolver populates a carrier. It returns a pointer to an instance of
// carrier.Type(), usually one obtained from carrier.New().
type Resolver interface {
	Resolve(ctx context.Context, carrier *Carrier) (any, error)
}

// ResolverFunc adapts a function to Resolver.
type ResolverFunc func(ctx context.Context, carrier *Carrier) (any, error)

func (f ResolverFunc) Resolve(ctx context.Context, carrier *Carrier) (any, error) {
	return f(ctx, carrier)
}

// Result is the outcome of Bind.
type Result struct {
	Carrier  *Carrier
	Bindings BindingSet
	// Diagnostics holds a *TypeResolutionError for every dropped capability.
	Diagnostics []error
}

// Binder synthesizes carriers and collects bindings.
type Binder struct {
	lookup          classpath.TypeLookup
	resolver        Resolver
	sequence        Sequence
	encoder         MarkerEncoder
	defaultPackages []string
	logger          *slog.Logger
}

// New creates a Binder resolving types through lookup and values through resolver.
func New(lookup classpath.TypeLookup, resolver Resolver, opts ...Option) *Binder {
	b := &Binder{
		lookup:          lookup,
		resolver:        resolver,
		sequence:        defaultSequence,
		encoder:         TagEncoder{},
		defaultPackages: slices.Clone(DefaultPackages),
		logger:          slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	b.logger = b.logger.WithGroup("binder")
	return b
}

// Synthesize resolves types and builds the carrier without populating it.
func (b *Binder) Synthesize(d *descriptor.Descriptor) (*Carrier, []error, error) {
	types := NewTypeResolver(b.lookup, d.Imports(), b.defaultPackages)

	var diags []error
	var specs []slotSpec
	for _, field := range d.Capabilities() {
		typ, fq, err := types.Resolve(field)
		if err != nil {
			b.logger.Warn("Dropping capability", "script", d.Name(), "variable", field.VariableName, "error", err)
			diags = append(diags, err)
			continue
		}
		specs = append(specs, slotSpec{field: field, class: fq, typ: typ})
	}

	name := d.Name() + "$" + strconv.FormatUint(b.sequence.Next(), 10)
	carrier, err := newCarrier(name, specs, b.encoder)
	if err != nil {
		return nil, diags, err
	}
	b.logger.Debug("Carrier synthesized", "carrier", carrier.Name(), "slots", len(specs), "dropped", len(diags))
	return carrier, diags, nil
}

// Bind synthesizes the carrier, asks the Resolver to populate it and reads the
// bindings back. On error no bindings are returned.
func (b *Binder) Bind(ctx context.Context, d *descriptor.Descriptor) (*Result, error) {
	carrier, diags, err := b.Synthesize(d)
	if err != nil {
		return nil, err
	}

	instance, err := b.resolver.Resolve(ctx, carrier)
	if err != nil {
		if errors.Is(err, ErrResolutionHost) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %s: %w", ErrResolutionHost, carrier.Name(), err)
	}

	bindings, err := carrier.Bindings(instance)
	if err != nil {
		return nil, err
	}
	return &Result{Carrier: carrier, Bindings: bindings, Diagnostics: diags}, nil
}
