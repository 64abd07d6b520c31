package classpath

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
	"sync"
)

// ConstructorKey is the handle entry holding a class constructor.
const ConstructorKey = "new"

// NestedSeparator separates an enclosing class from a nested one, as in "a.Outer$Inner".
// Nested classes are registered and resolvable but are not top-level.
const NestedSeparator = "$"

// Class describes one host type.
type Class struct {
	// Name is the fully-qualified dotted name, e.g. "nosorog.io.Console".
	Name string
	// Type is the Go type a binding of this class holds.
	Type reflect.Type
	// Constructor, if set, is exposed on the handle under ConstructorKey.
	Constructor any
	// Statics are the static members: functions and constants.
	Statics map[string]any
}

// Package returns the package part of the class name.
func (c Class) Package() string {
	if i := strings.LastIndex(c.Name, "."); i >= 0 {
		return c.Name[:i]
	}
	return ""
}

// SimpleName returns the class name without its package.
func (c Class) SimpleName() string {
	return c.Name[strings.LastIndex(c.Name, ".")+1:]
}

// TopLevel reports whether the class is not nested in another class.
func (c Class) TopLevel() bool {
	return !strings.Contains(c.SimpleName(), NestedSeparator)
}

// Validate checks the class can be registered.
func (c Class) Validate() error {
	if !validName(c.Name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, c.Name)
	}
	if c.Type == nil {
		return fmt.Errorf("%w: %s", ErrMissingType, c.Name)
	}
	if _, ok := c.Statics[ConstructorKey]; ok && c.Constructor != nil {
		return fmt.Errorf("%w: %s.%s", ErrReservedMember, c.Name, ConstructorKey)
	}
	return nil
}

func validName(name string) bool {
	if name == "" {
		return false
	}
	for _, part := range strings.Split(name, ".") {
		if part == "" || strings.ContainsAny(part, " \t*;()") {
			return false
		}
	}
	return true
}

// Registry is an in-memory, concurrency safe Host.
type Registry struct {
	mu       sync.RWMutex
	classes  map[string]Class
	packages map[string][]string
}

// NewRegistry creates a Registry holding the given classes.
func NewRegistry(classes ...Class) (*Registry, error) {
	r := &Registry{
		classes:  make(map[string]Class),
		packages: make(map[string][]string),
	}
	for _, c := range classes {
		if err := r.Register(c); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Register adds a class. Registering the same name twice is an error.
func (r *Registry) Register(c Class) error {
	if err := c.Validate(); err != nil {
		return err
	}
	c.Statics = maps.Clone(c.Statics)

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.classes[c.Name]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateClass, c.Name)
	}
	r.classes[c.Name] = c
	if c.TopLevel() {
		pkg := c.Package()
		names := append(r.packages[pkg], c.Name)
		slices.Sort(names)
		r.packages[pkg] = names
	}
	return nil
}

// Class returns the registered class.
func (r *Registry) Class(fq string) (Class, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	c, ok := r.classes[fq]
	return c, ok
}

// Classes returns every registered class name, sorted.
func (r *Registry) Classes() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.classes))
}

func (r *Registry) ClassExists(fq string) bool {
	_, ok := r.Class(fq)
	return ok
}

func (r *Registry) TopLevelClasses(pkg string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.packages[pkg])
}

func (r *Registry) StaticMembers(fq string) []string {
	c, ok := r.Class(fq)
	if !ok {
		return nil
	}
	return slices.Sorted(maps.Keys(c.Statics))
}

func (r *Registry) HasStaticMember(fq, name string) bool {
	c, ok := r.Class(fq)
	if !ok {
		return false
	}
	_, ok = c.Statics[name]
	return ok
}

func (r *Registry) Type(fq string) (reflect.Type, bool) {
	c, ok := r.Class(fq)
	if !ok {
		return nil, false
	}
	return c.Type, true
}

// Handle returns a fresh map of the class statics, plus the constructor if any.
func (r *Registry) Handle(fq string) (map[string]any, bool) {
	c, ok := r.Class(fq)
	if !ok {
		return nil, false
	}
	h := make(map[string]any, len(c.Statics)+1)
	maps.Copy(h, c.Statics)
	if c.Constructor != nil {
		h[ConstructorKey] = c.Constructor
	}
	return h, true
}
