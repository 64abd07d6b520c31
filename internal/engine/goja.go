package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/dop251/goja"

	"github.com/atlanticdynamic/nosorog/internal/prelude"
)

// Goja runs JavaScript. Go values are exposed by reference, and exported Go field
// and method names are seen by scripts with a lower-case first letter, so
// Greeter.Hello is called as greeter.hello().
//
// A Goja engine is not safe for concurrent use.
type Goja struct {
	vm     *goja.Runtime
	host   HandleLookup
	logger *slog.Logger
}

var _ Engine = (*Goja)(nil)

// NewGoja creates a JavaScript engine with the host and print globals installed.
func NewGoja(opts ...Option) *Goja {
	cfg := newConfig(opts)
	g := &Goja{
		vm:     goja.New(),
		host:   cfg.host,
		logger: cfg.logger.With("language", LanguageJavaScript),
	}
	g.vm.SetFieldNameMapper(goja.UncapFieldNameMapper())

	// registration of fixed globals cannot fail on a fresh runtime
	_ = g.vm.Set(prelude.HostGlobal, map[string]any{"type": g.typeHandle})
	_ = g.vm.Set("print", func(args ...any) {
		_, _ = fmt.Fprintln(cfg.output, args...)
	})
	return g
}

// typeHandle backs host.type(fq). An unknown name is thrown as a script exception.
func (g *Goja) typeHandle(fq string) (map[string]any, error) {
	if g.host != nil {
		if h, ok := g.host.Handle(fq); ok {
			return h, nil
		}
	}
	return nil, fmt.Errorf("%w: %s", ErrUnknownClass, fq)
}

func (g *Goja) InstallBindings(bindings map[string]any) error {
	for name, value := range bindings {
		if err := g.vm.Set(name, value); err != nil {
			return fmt.Errorf("%w: %s: %w", ErrInvalidBinding, name, err)
		}
	}
	return nil
}

// Evaluate runs src. Cancelling ctx interrupts the script.
func (g *Goja) Evaluate(ctx context.Context, src string) (any, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInterrupted, err)
	}

	stop := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		select {
		case <-ctx.Done():
			g.vm.Interrupt(ctx.Err())
		case <-stop:
		}
	}()

	start := time.Now()
	result, err := g.vm.RunString(src)
	close(stop)
	wg.Wait()
	g.vm.ClearInterrupt()

	if err != nil {
		g.logger.Debug("Evaluation failed", "error", err, "duration", time.Since(start))
		var interrupted *goja.InterruptedError
		if errors.As(err, &interrupted) {
			if cause := ctx.Err(); cause != nil {
				return nil, fmt.Errorf("%w: %w", ErrInterrupted, cause)
			}
			return nil, fmt.Errorf("%w: %v", ErrInterrupted, interrupted.Value())
		}
		var jsErr *goja.Exception
		if errors.As(err, &jsErr) {
			return nil, &ScriptError{Message: jsErr.String(), Err: err}
		}
		var syntaxErr *goja.CompilerSyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, fmt.Errorf("%w: %w", ErrCompile, err)
		}
		return nil, err
	}
	g.logger.Debug("Evaluation finished", "duration", time.Since(start))

	if result == nil || goja.IsUndefined(result) || goja.IsNull(result) {
		return nil, nil
	}
	return result.Export(), nil
}

// Interrupt stops a running evaluation from another goroutine.
func (g *Goja) Interrupt(reason any) {
	g.vm.Interrupt(reason)
}
