package header

import (
	"fmt"
	"sort"
	"strings"
)

// NodeKind identifies which declaration shape a header line was parsed into.
type NodeKind int

const (
	NodeUnknown NodeKind = iota
	// NodeImport is an `import ...` line.
	NodeImport
	// NodeMarker is one of the fixed script-level markers (@Name, @Description, @Startup, @Schedule).
	NodeMarker
	// NodeField is a capability field declaration carrying one or more markers.
	NodeField
)

// Script-level marker kinds. Any other marker opens a field declaration.
const (
	MarkerName        = "Name"
	MarkerDescription = "Description"
	MarkerStartup     = "Startup"
	MarkerSchedule    = "Schedule"
)

// ValueArg is the argument key used for single-value markers such as @Name("x").
const ValueArg = "value"

// String returns a string representation of the NodeKind.
func (k NodeKind) String() string {
	switch k {
	case NodeImport:
		return "Import"
	case NodeMarker:
		return "Marker"
	case NodeField:
		return "Field"
	case NodeUnknown:
		return "Unknown"
	default:
		return fmt.Sprintf("Unknown(%d)", int(k))
	}
}

// IsScriptMarker reports whether kind is one of the fixed script-level markers.
func IsScriptMarker(kind string) bool {
	switch kind {
	case MarkerName, MarkerDescription, MarkerStartup, MarkerSchedule:
		return true
	}
	return false
}

// Literal is a marker argument value. Raw keeps the source text, Value the decoded
// Go value: string, int64, float64, bool, or the identifier text for bare names.
type Literal struct {
	Raw   string
	Value any
}

// String returns the literal decoded as a string, using Raw for non-string values.
func (l Literal) String() string {
	if s, ok := l.Value.(string); ok {
		return s
	}
	return l.Raw
}

// Marker is an `@Kind` or `@Kind(args)` annotation from a header line.
type Marker struct {
	Kind string
	Args map[string]Literal
}

// Value returns the single-value argument of the marker, if present.
func (m Marker) Value() (Literal, bool) {
	lit, ok := m.Args[ValueArg]
	return lit, ok
}

// String renders the marker back into header syntax with arguments sorted by key.
func (m Marker) String() string {
	if len(m.Args) == 0 {
		return "@" + m.Kind
	}
	if lit, ok := m.Args[ValueArg]; ok && len(m.Args) == 1 {
		return fmt.Sprintf("@%s(%s)", m.Kind, lit.Raw)
	}
	keys := make([]string, 0, len(m.Args))
	for k := range m.Args {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+m.Args[k].Raw)
	}
	return fmt.Sprintf("@%s(%s)", m.Kind, strings.Join(parts, ", "))
}

// Import is a parsed import line. Path is the dotted name without a trailing `.*`.
type Import struct {
	Static   bool
	Wildcard bool
	Path     string
}

// String renders the import back into header syntax.
func (i Import) String() string {
	var sb strings.Builder
	sb.WriteString("import ")
	if i.Static {
		sb.WriteString("static ")
	}
	sb.WriteString(i.Path)
	if i.Wildcard {
		sb.WriteString(".*")
	}
	return sb.String()
}

// Field is a capability declaration: markers followed by a type and a variable name.
type Field struct {
	Markers []Marker
	Type    string
	Name    string
}

// Node is one recognized header declaration. Exactly one of Import, Marker or
// Field is set, matching Kind.
type Node struct {
	Kind   NodeKind
	Line   int
	Import *Import
	Marker *Marker
	Field  *Field
}
