// Package descriptor turns parsed header nodes into the dependency descriptor of a
// script: its name and metadata, the capability fields it declares in three
// sequences, and its imports in source order.
package descriptor

import (
	"fmt"
	"maps"
	"slices"

	"github.com/atlanticdynamic/nosorog/internal/header"
)

// Descriptor is built once by Build and is read-only afterwards.
type Descriptor struct {
	name           string
	description    string
	hasDescription bool
	startup        bool
	startupArgs    map[string]Literal
	schedule       string
	hasSchedule    bool

	observed  []FieldSpec
	injected  []FieldSpec
	resources []FieldSpec
	imports   []ImportSpec
}

// Name returns the required script name.
func (d *Descriptor) Name() string { return d.name }

// Description returns the optional description.
func (d *Descriptor) Description() string { return d.description }

// HasDescription reports whether @Description was present.
func (d *Descriptor) HasDescription() bool { return d.hasDescription }

// IsStartup reports whether the script carries @Startup.
func (d *Descriptor) IsStartup() bool { return d.startup }

// StartupArgs returns the arguments given to @Startup, if any.
func (d *Descriptor) StartupArgs() map[string]Literal { return maps.Clone(d.startupArgs) }

// Schedule returns the raw @Schedule expression. It is never interpreted.
func (d *Descriptor) Schedule() string { return d.schedule }

// HasSchedule reports whether @Schedule was present.
func (d *Descriptor) HasSchedule() bool { return d.hasSchedule }

// Observed returns the @Observes fields in declaration order.
func (d *Descriptor) Observed() []FieldSpec { return slices.Clone(d.observed) }

// Injected returns the @Inject fields in declaration order.
func (d *Descriptor) Injected() []FieldSpec { return slices.Clone(d.injected) }

// Resources returns the resource-family fields in declaration order.
func (d *Descriptor) Resources() []FieldSpec { return slices.Clone(d.resources) }

// Capabilities returns observed, injected and resource fields, in that order.
func (d *Descriptor) Capabilities() []FieldSpec {
	all := make([]FieldSpec, 0, len(d.observed)+len(d.injected)+len(d.resources))
	all = append(all, d.observed...)
	all = append(all, d.injected...)
	return append(all, d.resources...)
}

// Imports returns the imports in source order.
func (d *Descriptor) Imports() []ImportSpec { return slices.Clone(d.imports) }

// Build applies header nodes in order. Fatal problems (a missing name, a variable
// declared twice) are returned as the error. Problems that only drop one node are
// returned as diagnostics alongside a usable Descriptor.
func Build(nodes []header.Node) (*Descriptor, []error, error) {
	d := &Descriptor{}
	var diags []error
	seen := make(map[string]int)
	hasName := false

	for _, node := range nodes {
		switch node.Kind {
		case header.NodeMarker:
			if node.Marker == nil {
				continue
			}
			if err := d.applyMarker(*node.Marker, &hasName); err != nil {
				diags = append(diags, &NodeError{Line: node.Line, Err: err})
			}

		case header.NodeField:
			if node.Field == nil {
				continue
			}
			spec, err := newFieldSpec(*node.Field, node.Line)
			if err != nil {
				diags = append(diags, &NodeError{Line: node.Line, Err: err})
				continue
			}
			if first, dup := seen[spec.VariableName]; dup {
				return nil, diags, fmt.Errorf(
					"%w: %q declared on line %d and line %d",
					ErrDuplicateField, spec.VariableName, first, node.Line,
				)
			}
			seen[spec.VariableName] = node.Line
			d.addField(spec)

		case header.NodeImport:
			if node.Import != nil {
				d.imports = append(d.imports, NewImportSpec(*node.Import))
			}
		}
	}

	if !hasName {
		return nil, diags, ErrMissingName
	}
	return d, diags, nil
}

func (d *Descriptor) applyMarker(m header.Marker, hasName *bool) error {
	value := func() string {
		lit, _ := m.Value()
		s, _ := lit.Value.(string)
		return s
	}

	switch m.Kind {
	case header.MarkerName:
		if *hasName {
			return fmt.Errorf("%w: @%s", ErrDuplicateMarker, m.Kind)
		}
		d.name = value()
		*hasName = true
	case header.MarkerDescription:
		if d.hasDescription {
			return fmt.Errorf("%w: @%s", ErrDuplicateMarker, m.Kind)
		}
		d.description = value()
		d.hasDescription = true
	case header.MarkerStartup:
		if d.startup {
			return fmt.Errorf("%w: @%s", ErrDuplicateMarker, m.Kind)
		}
		d.startup = true
		if len(m.Args) > 0 {
			d.startupArgs = maps.Clone(m.Args)
		}
	case header.MarkerSchedule:
		if d.hasSchedule {
			return fmt.Errorf("%w: @%s", ErrDuplicateMarker, m.Kind)
		}
		d.schedule = value()
		d.hasSchedule = true
	default:
		return fmt.Errorf("%w: @%s", ErrUnknownMarker, m.Kind)
	}
	return nil
}

func (d *Descriptor) addField(spec FieldSpec) {
	switch spec.Capability {
	case CapabilityObserved:
		d.observed = append(d.observed, spec)
	case CapabilityInjected:
		d.injected = append(d.injected, spec)
	case CapabilityResource:
		d.resources = append(d.resources, spec)
	}
}

// newFieldSpec assigns the field to the sequence of its first capability marker.
func newFieldSpec(f header.Field, line int) (FieldSpec, error) {
	spec := FieldSpec{
		VariableName: f.Name,
		DeclaredType: f.Type,
		Line:         line,
		Markers:      make([]MarkerSpec, 0, len(f.Markers)),
	}
	for _, m := range f.Markers {
		spec.Markers = append(spec.Markers, MarkerSpec{Kind: m.Kind, Args: maps.Clone(m.Args)})
		if spec.Capability == CapabilityUnspecified {
			spec.Capability = CapabilityOf(m.Kind)
		}
	}
	if spec.Capability == CapabilityUnspecified {
		return FieldSpec{}, fmt.Errorf("%w: %s", ErrNoCapability, spec)
	}
	return spec, nil
}
