// Package classpath is the host side of name resolution. Scripts name host types and
// their static members with dotted names such as "nosorog.text.Strings.upper"; a
// Registry maps those names to Go types and values, and answers the existence and
// enumeration questions asked while generating a prelude and synthesizing bindings.
package classpath

import (
	"reflect"
)

// Introspector answers questions about classes visible to scripts.
type Introspector interface {
	// ClassExists reports whether fq names a registered class.
	ClassExists(fq string) bool
	// TopLevelClasses returns the fully-qualified names of the top-level classes in
	// pkg, sorted.
	TopLevelClasses(pkg string) []string
	// StaticMembers returns the names of every static member of fq, sorted.
	StaticMembers(fq string) []string
	// HasStaticMember reports whether fq has a static member called name.
	HasStaticMember(fq, name string) bool
}

// TypeLookup maps a fully-qualified class name to its Go type.
type TypeLookup interface {
	Type(fq string) (reflect.Type, bool)
}

// HandleLookup returns the script-visible handle of a class.
type HandleLookup interface {
	Handle(fq string) (map[string]any, bool)
}

// Host is the full host surface used by the loader and the engines.
type Host interface {
	Introspector
	TypeLookup
	HandleLookup
}
