package descriptor

import (
	"fmt"
	"strings"

	"github.com/atlanticdynamic/nosorog/internal/header"
)

// Literal is a marker argument value as written in the header.
type Literal = header.Literal

// Field-level marker kinds that decide which capability sequence a field joins.
const (
	KindInject   = "Inject"
	KindObserves = "Observes"
	KindNamed    = "Named"

	KindResource           = "Resource"
	KindEJB                = "EJB"
	KindWebServiceRef      = "WebServiceRef"
	KindPersistenceUnit    = "PersistenceUnit"
	KindPersistenceContext = "PersistenceContext"
)

// Capability says which declared sequence a FieldSpec belongs to.
type Capability int

const (
	CapabilityUnspecified Capability = iota
	CapabilityObserved
	CapabilityInjected
	CapabilityResource
)

// String returns a string representation of the Capability.
func (c Capability) String() string {
	switch c {
	case CapabilityObserved:
		return "Observed"
	case CapabilityInjected:
		return "Injected"
	case CapabilityResource:
		return "Resource"
	case CapabilityUnspecified:
		return "Unspecified"
	default:
		return fmt.Sprintf("Unknown(%d)", int(c))
	}
}

// CapabilityOf maps a marker kind to the capability it introduces.
func CapabilityOf(kind string) Capability {
	switch kind {
	case KindObserves:
		return CapabilityObserved
	case KindInject:
		return CapabilityInjected
	case KindResource, KindEJB, KindWebServiceRef, KindPersistenceUnit, KindPersistenceContext:
		return CapabilityResource
	}
	return CapabilityUnspecified
}

// MarkerSpec is an opaque capture of one marker: its kind and literal arguments.
// The core never interprets marker semantics; it only carries them to the resolution host.
type MarkerSpec struct {
	Kind string
	Args map[string]Literal
}

// Value returns the single-value argument, as in @Named("x").
func (m MarkerSpec) Value() (Literal, bool) {
	lit, ok := m.Args[header.ValueArg]
	return lit, ok
}

// String renders the marker in header syntax.
func (m MarkerSpec) String() string {
	return header.Marker{Kind: m.Kind, Args: m.Args}.String()
}

// FieldSpec is one declared capability field.
type FieldSpec struct {
	VariableName string
	DeclaredType string
	Markers      []MarkerSpec
	Capability   Capability
	// Line is the header line the field was declared on.
	Line int
}

// Marker returns the first marker of the given kind.
func (f FieldSpec) Marker(kind string) (MarkerSpec, bool) {
	for _, m := range f.Markers {
		if m.Kind == kind {
			return m, true
		}
	}
	return MarkerSpec{}, false
}

// String returns a compact representation such as "@Inject Greeter greeter".
func (f FieldSpec) String() string {
	parts := make([]string, 0, len(f.Markers)+2)
	for _, m := range f.Markers {
		parts = append(parts, m.String())
	}
	parts = append(parts, f.DeclaredType, f.VariableName)
	return strings.Join(parts, " ")
}

// ImportShape enumerates the four disjoint import forms.
type ImportShape int

const (
	ImportClass ImportShape = iota
	ImportPackage
	ImportStaticWildcard
	ImportStaticMember
)

// String returns a string representation of the ImportShape.
func (s ImportShape) String() string {
	switch s {
	case ImportClass:
		return "Class"
	case ImportPackage:
		return "Package"
	case ImportStaticWildcard:
		return "StaticWildcard"
	case ImportStaticMember:
		return "StaticMember"
	default:
		return fmt.Sprintf("Unknown(%d)", int(s))
	}
}

// ImportSpec is a parsed import. For static single-member imports QualifiedName is
// the class and Member the member name; Member is empty for every other shape.
type ImportSpec struct {
	Static        bool
	Wildcard      bool
	QualifiedName string
	Member        string
}

// NewImportSpec converts a header import node.
func NewImportSpec(imp header.Import) ImportSpec {
	spec := ImportSpec{Static: imp.Static, Wildcard: imp.Wildcard, QualifiedName: imp.Path}
	if imp.Static && !imp.Wildcard {
		if i := strings.LastIndex(imp.Path, "."); i > 0 {
			spec.QualifiedName = imp.Path[:i]
			spec.Member = imp.Path[i+1:]
		}
	}
	return spec
}

// Shape classifies the import.
func (i ImportSpec) Shape() ImportShape {
	switch {
	case i.Static && i.Wildcard:
		return ImportStaticWildcard
	case i.Static:
		return ImportStaticMember
	case i.Wildcard:
		return ImportPackage
	default:
		return ImportClass
	}
}

// SimpleName returns the last segment of QualifiedName.
func (i ImportSpec) SimpleName() string {
	return SimpleName(i.QualifiedName)
}

// String renders the import in header syntax.
func (i ImportSpec) String() string {
	path := i.QualifiedName
	if i.Member != "" {
		path += "." + i.Member
	}
	return header.Import{Static: i.Static, Wildcard: i.Wildcard, Path: path}.String()
}

// SimpleName returns the part of a dotted name after the last dot.
func SimpleName(qualified string) string {
	if i := strings.LastIndex(qualified, "."); i >= 0 {
		return qualified[i+1:]
	}
	return qualified
}

// PackageName returns the part of a dotted name before the last dot.
func PackageName(qualified string) string {
	if i := strings.LastIndex(qualified, "."); i >= 0 {
		return qualified[:i]
	}
	return ""
}
