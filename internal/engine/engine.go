// Package engine runs script source. Two implementations are provided: Goja runs
// JavaScript in-process with host objects passed by reference, and Polyscript runs
// Risor or Starlark through go-polyscript, passing data values only.
package engine

import (
	"context"
	"fmt"
	"strings"
)

// Engine evaluates script source with installed global bindings.
type Engine interface {
	// InstallBindings makes every entry a global visible to later evaluations.
	InstallBindings(bindings map[string]any) error
	// Evaluate runs src and returns its value converted to Go.
	Evaluate(ctx context.Context, src string) (any, error)
}

// Language names accepted by New.
const (
	LanguageJavaScript = "javascript"
	LanguageRisor      = "risor"
	LanguageStarlark   = "starlark"
)

// Languages lists the supported languages.
var Languages = []string{LanguageJavaScript, LanguageRisor, LanguageStarlark}

// HandleLookup returns the script-visible handle of a host class.
type HandleLookup interface {
	Handle(fq string) (map[string]any, bool)
}

// Catalog is a HandleLookup that can enumerate its classes.
type Catalog interface {
	HandleLookup
	Classes() []string
}

// New creates a fresh engine for language. Engines are single-use: build one per run.
func New(language string, opts ...Option) (Engine, error) {
	switch strings.ToLower(language) {
	case "", LanguageJavaScript, "js":
		return NewGoja(opts...), nil
	case LanguageRisor:
		return NewPolyscript(LanguageRisor, opts...)
	case LanguageStarlark:
		return NewPolyscript(LanguageStarlark, opts...)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, language)
}

// Extension returns the conventional file extension for a language.
func Extension(language string) string {
	switch strings.ToLower(language) {
	case LanguageRisor:
		return ".risor"
	case LanguageStarlark:
		return ".star"
	default:
		return ".js"
	}
}
