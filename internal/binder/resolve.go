package binder

import (
	"reflect"
	"slices"
	"strings"

	"github.com/atlanticdynamic/nosorog/internal/classpath"
	"github.com/atlanticdynamic/nosorog/internal/descriptor"
)

// DefaultPackages are searched for simple names after the wildcard imports.
var DefaultPackages = []string{"lang"}

// TypeResolver resolves declared type names against a script's imports.
type TypeResolver struct {
	lookup   classpath.TypeLookup
	classes  []string
	packages []string
}

// NewTypeResolver prepares the import table. Static imports do not contribute to
// type resolution.
func NewTypeResolver(lookup classpath.TypeLookup, imports []descriptor.ImportSpec, defaultPackages []string) *TypeResolver {
	r := &TypeResolver{lookup: lookup}
	for _, imp := range imports {
		switch imp.Shape() {
		case descriptor.ImportClass:
			r.classes = append(r.classes, imp.QualifiedName)
		case descriptor.ImportPackage:
			if !slices.Contains(r.packages, imp.QualifiedName) {
				r.packages = append(r.packages, imp.QualifiedName)
			}
		}
	}
	for _, pkg := range defaultPackages {
		if !slices.Contains(r.packages, pkg) {
			r.packages = append(r.packages, pkg)
		}
	}
	return r
}

// Resolve returns the Go type and fully-qualified name for a declared type.
//
// A dotted name is looked up as written. A simple name is matched first against
// single-class imports, then against every wildcard-imported and default package;
// within either step more than one distinct match is ambiguous.
func (r *TypeResolver) Resolve(field descriptor.FieldSpec) (reflect.Type, string, error) {
	name := field.DeclaredType
	fail := func(err error, candidates []string) (reflect.Type, string, error) {
		return nil, "", &TypeResolutionError{
			Variable:     field.VariableName,
			DeclaredType: name,
			Candidates:   candidates,
			Err:          err,
		}
	}

	if strings.Contains(name, ".") {
		if typ, ok := r.lookup.Type(name); ok {
			return typ, name, nil
		}
		return fail(ErrTypeNotFound, nil)
	}

	var explicit []string
	for _, fq := range r.classes {
		if descriptor.SimpleName(fq) == name && !slices.Contains(explicit, fq) {
			explicit = append(explicit, fq)
		}
	}
	switch len(explicit) {
	case 0:
	case 1:
		if typ, ok := r.lookup.Type(explicit[0]); ok {
			return typ, explicit[0], nil
		}
		return fail(ErrTypeNotFound, explicit)
	default:
		return fail(ErrAmbiguousType, explicit)
	}

	var found []string
	for _, pkg := range r.packages {
		fq := pkg + "." + name
		if _, ok := r.lookup.Type(fq); ok {
			found = append(found, fq)
		}
	}
	switch len(found) {
	case 0:
		return fail(ErrTypeNotFound, nil)
	case 1:
		typ, _ := r.lookup.Type(found[0])
		return typ, found[0], nil
	default:
		return fail(ErrAmbiguousType, found)
	}
}
