package binder

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strconv"
	"strings"

	"github.com/atlanticdynamic/nosorog/internal/descriptor"
)

// identityField is the name of the leading zero-size field of every carrier.
const identityField = "Carrier"

// BindingSet maps script variable names to the values bound to them.
type BindingSet map[string]any

// Names returns the variable names, sorted.
func (b BindingSet) Names() []string {
	return slices.Sorted(maps.Keys(b))
}

// Slot describes one carrier field.
type Slot struct {
	// Field is the Go field name inside the carrier struct.
	Field string
	// Binding is the script variable the slot value is bound to.
	Binding    string
	Class      string
	Type       reflect.Type
	Capability descriptor.Capability
	Markers    []descriptor.MarkerSpec
	Tag        reflect.StructTag
	index      int
}

// Carrier is a struct type synthesized for one script. Each declared capability is
// an exported field carrying its markers as struct tags, so a resolution host can
// populate it with ordinary reflection.
type Carrier struct {
	name  string
	typ   reflect.Type
	slots []Slot
}

// Name returns "<scriptName>$<seq>".
func (c *Carrier) Name() string { return c.name }

// Type returns the synthesized struct type.
func (c *Carrier) Type() reflect.Type { return c.typ }

// Slots returns the slot table in declaration order.
func (c *Carrier) Slots() []Slot { return slices.Clone(c.slots) }

// New returns a pointer to a zero carrier instance.
func (c *Carrier) New() any {
	return reflect.New(c.typ).Interface()
}

// Bindings reads every slot of instance, which must be a carrier value or a
// pointer to one.
func (c *Carrier) Bindings(instance any) (BindingSet, error) {
	v := reflect.ValueOf(instance)
	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, fmt.Errorf("%w: nil carrier instance", ErrResolutionHost)
		}
		v = v.Elem()
	}
	if !v.IsValid() || v.Type() != c.typ {
		return nil, fmt.Errorf("%w: expected instance of carrier %s, got %T", ErrResolutionHost, c.name, instance)
	}

	bindings := make(BindingSet, len(c.slots))
	for _, s := range c.slots {
		bindings[s.Binding] = v.Field(s.index).Interface()
	}
	return bindings, nil
}

type slotSpec struct {
	field descriptor.FieldSpec
	class string
	typ   reflect.Type
}

// newCarrier builds the struct type. reflect.StructOf panics on invalid input; the
// panic is returned as ErrCarrierConstruction.
func newCarrier(name string, specs []slotSpec, enc MarkerEncoder) (c *Carrier, err error) {
	fields := make([]reflect.StructField, 0, len(specs)+1)
	fields = append(fields, reflect.StructField{
		Name: identityField,
		Type: reflect.TypeFor[struct{}](),
		Tag:  reflect.StructTag(tagPair(TagCarrier, name)),
	})

	slots := make([]Slot, 0, len(specs))
	seen := make(map[string]bool, len(specs))
	for i, s := range specs {
		if seen[s.field.VariableName] {
			return nil, fmt.Errorf("%w: duplicate binding %q", ErrCarrierConstruction, s.field.VariableName)
		}
		seen[s.field.VariableName] = true

		markers, err := enc.EncodeMarkers(s.field.Markers)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrCarrierConstruction, s.field.VariableName, err)
		}
		tag := strings.Join(slices.DeleteFunc([]string{
			tagPair(TagBinding, s.field.VariableName),
			tagPair(TagClass, s.class),
			tagPair(TagCapability, strings.ToLower(s.field.Capability.String())),
			markers,
		}, func(p string) bool { return p == "" }), " ")

		slot := Slot{
			Field:      "Slot" + strconv.Itoa(i),
			Binding:    s.field.VariableName,
			Class:      s.class,
			Type:       s.typ,
			Capability: s.field.Capability,
			Markers:    slices.Clone(s.field.Markers),
			Tag:        reflect.StructTag(tag),
			index:      i + 1,
		}
		slots = append(slots, slot)
		fields = append(fields, reflect.StructField{Name: slot.Field, Type: slot.Type, Tag: slot.Tag})
	}

	defer func() {
		if r := recover(); r != nil {
			c, err = nil, fmt.Errorf("%w: %s: %v", ErrCarrierConstruction, name, r)
		}
	}()
	typ := reflect.StructOf(fields)
	return &Carrier{name: name, typ: typ, slots: slots}, nil
}
