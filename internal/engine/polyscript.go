package engine

import (
	"context"
	"fmt"
	"log/slog"
	"maps"
	"reflect"
	"regexp"
	"slices"
	"strings"
	"time"

	"github.com/robbyt/go-polyscript/engines/risor"
	"github.com/robbyt/go-polyscript/engines/starlark"
	"github.com/robbyt/go-polyscript/platform"
	"github.com/robbyt/go-polyscript/platform/constants"
	"github.com/robbyt/go-polyscript/platform/data"
	"github.com/robbyt/go-polyscript/platform/script/loader"

	"github.com/atlanticdynamic/nosorog/internal/prelude"
)

var identifier = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Polyscript runs Risor or Starlark through go-polyscript. Every evaluation is an
// independent program, so each Evaluate call replays the sources of the previous
// successful calls before src. Bindings and class handles travel in the eval data
// under their own names and under "host"; only data values (strings, numbers,
// booleans, lists and maps of those) can cross.
type Polyscript struct {
	language string
	catalog  Catalog
	bindings map[string]any
	sources  []string
	logger   *slog.Logger
}

var _ Engine = (*Polyscript)(nil)

// NewPolyscript creates an engine for LanguageRisor or LanguageStarlark.
func NewPolyscript(language string, opts ...Option) (*Polyscript, error) {
	if language != LanguageRisor && language != LanguageStarlark {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, language)
	}
	cfg := newConfig(opts)
	p := &Polyscript{
		language: language,
		bindings: make(map[string]any),
		logger:   cfg.logger.With("language", language),
	}
	if catalog, ok := cfg.host.(Catalog); ok {
		p.catalog = catalog
	}
	return p, nil
}

// InstallBindings records bindings. Names must be identifiers and values must be
// plain data.
func (p *Polyscript) InstallBindings(bindings map[string]any) error {
	for name, value := range bindings {
		if !identifier.MatchString(name) || name == prelude.HostGlobal || name == "ctx" {
			return fmt.Errorf("%w: %q is not usable as a %s global", ErrInvalidBinding, name, p.language)
		}
		if !isData(reflect.ValueOf(value)) {
			return fmt.Errorf("%w: %s: %T cannot be passed to %s", ErrInvalidBinding, name, value, p.language)
		}
		p.bindings[name] = value
	}
	return nil
}

func (p *Polyscript) Evaluate(ctx context.Context, src string) (any, error) {
	program := p.program(src)

	scriptLoader, err := loader.NewFromString(program)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompile, err)
	}

	var evaluator platform.Evaluator
	switch p.language {
	case LanguageRisor:
		evaluator, err = risor.FromRisorLoader(p.logger.Handler(), scriptLoader)
	default:
		evaluator, err = starlark.FromStarlarkLoader(p.logger.Handler(), scriptLoader)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompile, err)
	}

	evalData := make(map[string]any, len(p.bindings)+1)
	maps.Copy(evalData, p.bindings)
	evalData[prelude.HostGlobal] = p.handles()

	contextProvider := data.NewContextProvider(constants.EvalData)
	enrichedCtx, err := contextProvider.AddDataToContext(ctx, evalData)
	if err != nil {
		return nil, fmt.Errorf("%w: adding eval data: %w", ErrEngine, err)
	}

	start := time.Now()
	result, err := evaluator.Eval(enrichedCtx)
	if err != nil {
		p.logger.Debug("Evaluation failed", "error", err, "duration", time.Since(start))
		if cause := ctx.Err(); cause != nil {
			return nil, fmt.Errorf("%w: %w", ErrInterrupted, cause)
		}
		return nil, &ScriptError{Message: err.Error(), Err: err}
	}
	p.logger.Debug("Evaluation finished", "duration", time.Since(start))

	p.sources = append(p.sources, maskHeader(src))
	if result == nil {
		return nil, nil
	}
	return result.Interface(), nil
}

// program prefixes src with binding declarations and the replayed sources.
func (p *Polyscript) program(src string) string {
	var b strings.Builder
	for _, name := range slices.Sorted(maps.Keys(p.bindings)) {
		switch p.language {
		case LanguageRisor:
			fmt.Fprintf(&b, "%s := ctx.get(%q)\n", name, name)
		default:
			fmt.Fprintf(&b, "%s = ctx[%q]\n", name, name)
		}
	}
	for _, s := range p.sources {
		b.WriteString(s)
		if !strings.HasSuffix(s, "\n") {
			b.WriteByte('\n')
		}
	}
	b.WriteString(maskHeader(src))
	return b.String()
}

// maskHeader blanks a leading /** ... */ block, which neither Risor nor Starlark
// accepts as a comment. Line breaks are kept so error positions stay meaningful.
func maskHeader(src string) string {
	lines := strings.SplitAfter(src, "\n")
	start := -1
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		if trimmed == "/**" {
			start = i
		}
		break
	}
	if start < 0 {
		return src
	}
	for i := start; i < len(lines); i++ {
		closing := strings.TrimSpace(lines[i]) == "*/"
		lines[i] = lines[i][len(strings.TrimRight(lines[i], "\r\n")):]
		if closing {
			return strings.Join(lines, "")
		}
	}
	return src
}

// handles collects the data-only part of every class handle.
func (p *Polyscript) handles() map[string]any {
	out := make(map[string]any)
	if p.catalog == nil {
		return out
	}
	for _, fq := range p.catalog.Classes() {
		h, ok := p.catalog.Handle(fq)
		if !ok {
			continue
		}
		members := make(map[string]any, len(h))
		for name, v := range h {
			if isData(reflect.ValueOf(v)) {
				members[name] = v
			}
		}
		out[fq] = members
	}
	return out
}

func isData(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}
	switch v.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	case reflect.Slice, reflect.Array:
		for i := range v.Len() {
			if !isData(v.Index(i)) {
				return false
			}
		}
		return true
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return false
		}
		iter := v.MapRange()
		for iter.Next() {
			if !isData(iter.Value()) {
				return false
			}
		}
		return true
	case reflect.Interface:
		return isData(v.Elem())
	}
	return false
}
