package script

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/robbyt/go-loglater"

	"github.com/atlanticdynamic/nosorog/internal/binder"
	"github.com/atlanticdynamic/nosorog/internal/classpath"
	"github.com/atlanticdynamic/nosorog/internal/descriptor"
	"github.com/atlanticdynamic/nosorog/internal/finitestate"
	"github.com/atlanticdynamic/nosorog/internal/header"
	"github.com/atlanticdynamic/nosorog/internal/prelude"
)

// Loader builds executable Scripts from source.
type Loader struct {
	host       classpath.Host
	resolver   binder.Resolver
	dialect    prelude.Dialect
	binderOpts []binder.Option
	handler    slog.Handler
}

// NewLoader creates a Loader that answers class questions through host and
// populates carriers through resolver.
func NewLoader(host classpath.Host, resolver binder.Resolver, opts ...Option) *Loader {
	l := &Loader{
		host:     host,
		resolver: resolver,
		dialect:  prelude.JavaScript{},
		handler:  slog.Default().Handler(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Dialect returns the prelude dialect of the loaded scripts.
func (l *Loader) Dialect() prelude.Dialect {
	return l.dialect
}

// Load reads a script from r.
func (l *Loader) Load(ctx context.Context, r io.Reader) (*Script, error) {
	return l.LoadNamed(ctx, "", r)
}

// LoadFile reads the script stored at path.
func (l *Loader) LoadFile(ctx context.Context, path string) (*Script, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{ID: uuid.Must(uuid.NewV6()), Source: path, Phase: PhaseRead, Err: err}
	}
	defer func() { _ = f.Close() }()
	return l.LoadNamed(ctx, path, f)
}

// LoadNamed reads a script from r and labels it with source in logs and errors.
// No Script is returned on error.
func (l *Loader) LoadNamed(ctx context.Context, source string, r io.Reader) (*Script, error) {
	id := uuid.Must(uuid.NewV6())

	logCollector := loglater.NewLogCollector(l.handler)
	logger := slog.New(logCollector).With("id", id, "source", source)

	sm, err := finitestate.NewScriptMachine(logCollector)
	if err != nil {
		return nil, &LoadError{ID: id, Source: source, Phase: PhaseRead, Err: err}
	}

	s := &Script{
		id:           id,
		source:       source,
		fsm:          sm,
		logger:       logger,
		logCollector: logCollector,
	}
	b := &build{script: s, logger: logger}

	parsed, err := header.Parse(r, header.WithLogger(logger))
	if err != nil {
		return nil, b.fail(PhaseRead, err)
	}
	b.note(parsed.Diagnostics)
	s.body = parsed.Body

	d, diags, err := descriptor.Build(parsed.Nodes)
	if err != nil {
		return nil, b.fail(PhaseDescribe, err)
	}
	b.note(diags)
	s.descriptor = d
	s.logger = logger.With("script", d.Name())
	b.logger = s.logger
	if err := b.transition(finitestate.ScriptDescribed); err != nil {
		return nil, b.fail(PhaseDescribe, err)
	}

	gen := prelude.NewGenerator(l.host, prelude.WithDialect(l.dialect), prelude.WithLogger(s.logger))
	p, err := gen.Generate(d.Imports())
	if err != nil {
		return nil, b.fail(PhasePrelude, err)
	}
	b.note(p.Diagnostics())
	s.prelude = p

	if err := ctx.Err(); err != nil {
		return nil, b.fail(PhaseBind, fmt.Errorf("%w: %w", ErrCanceled, err))
	}
	bnd := binder.New(l.host, l.resolver, append(slices.Clone(l.binderOpts), binder.WithLogger(s.logger))...)
	res, err := bnd.Bind(ctx, d)
	if err != nil {
		return nil, b.fail(PhaseBind, err)
	}
	b.note(res.Diagnostics)
	s.carrier = res.Carrier
	s.bindings = res.Bindings
	if err := b.transition(finitestate.ScriptSynthesized); err != nil {
		return nil, b.fail(PhaseBind, err)
	}

	s.diagnostics = b.diagnostics
	s.loadedAt = time.Now()
	if err := b.transition(finitestate.ScriptExecutable); err != nil {
		return nil, b.fail(PhaseBind, err)
	}
	s.logger.Info("Script loaded",
		"bindings", len(s.bindings),
		"statements", len(p.Statements()),
		"diagnostics", len(s.diagnostics),
	)
	return s, nil
}

// build tracks one LoadNamed call.
type build struct {
	script      *Script
	logger      *slog.Logger
	diagnostics []error
}

func (b *build) note(diags []error) {
	b.diagnostics = append(b.diagnostics, diags...)
}

func (b *build) transition(state string) error {
	if err := b.script.fsm.Transition(state); err != nil {
		b.logger.Error("Failed to transition script state", "state", state, "error", err)
		return err
	}
	return nil
}

func (b *build) fail(phase Phase, err error) error {
	if tErr := b.script.fsm.Transition(finitestate.ScriptFailed); tErr != nil {
		b.logger.Error("Failed to transition to failed state", "error", tErr)
	}
	b.logger.Error("Script load failed", "phase", phase, "error", err)

	name := ""
	if b.script.descriptor != nil {
		name = b.script.descriptor.Name()
	}
	return &LoadError{
		ID:     b.script.id,
		Script: name,
		Source: b.script.source,
		Phase:  phase,
		Err:    err,
	}
}
