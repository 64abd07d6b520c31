package script

import (
	"fmt"
	"strings"

	"github.com/atlanticdynamic/nosorog/internal/fancy"
)

// String returns the rendered tree.
func (s *Script) String() string {
	return s.ToTree().String()
}

// ToTree describes the script for display: header metadata, the carrier slots,
// the prelude statements and the diagnostics.
func (s *Script) ToTree() *fancy.ComponentTree {
	if !s.executable() {
		return fancy.NewComponentTree(fancy.ErrorText(fmt.Sprintf("script (%s)", s.State())))
	}

	t := fancy.ScriptTree(s.Name())
	if s.source != "" {
		t.AddChild(fmt.Sprintf("Source: %s", fancy.PathText(s.source)))
	}
	if s.descriptor.HasDescription() {
		t.AddChild(fmt.Sprintf("Description: %s", s.descriptor.Description()))
	}
	if s.descriptor.IsStartup() {
		startup := "Startup: yes"
		if args := s.descriptor.StartupArgs(); len(args) > 0 {
			startup = fmt.Sprintf("Startup: yes %v", args)
		}
		t.AddChild(startup)
	}
	if s.descriptor.HasSchedule() {
		t.AddChild(fmt.Sprintf("Schedule: %q", s.descriptor.Schedule()))
	}
	t.AddChild(fmt.Sprintf("Carrier: %s", s.carrier.Name()))

	slots := s.carrier.Slots()
	bindings := make([]string, 0, len(slots))
	for _, slot := range slots {
		markers := make([]string, 0, len(slot.Markers))
		for _, m := range slot.Markers {
			markers = append(markers, fancy.MarkerText(m.String()))
		}
		bindings = append(bindings, fmt.Sprintf("%s %s %s (%s)",
			strings.Join(markers, " "),
			fancy.ClassText(slot.Class),
			fancy.BindingText(slot.Binding),
			slot.Capability,
		))
	}
	t.AddSection("Bindings", bindings)

	imports := s.descriptor.Imports()
	importLines := make([]string, 0, len(imports))
	for _, imp := range imports {
		importLines = append(importLines, fancy.ImportText(imp.String()))
	}
	t.AddSection("Imports", importLines)

	statements := s.prelude.Statements()
	preludeLines := make([]string, 0, len(statements))
	for _, st := range statements {
		preludeLines = append(preludeLines, fmt.Sprintf("%s = %s", fancy.BindingText(st.Binding), st.Target()))
	}
	t.AddSection(fmt.Sprintf("Prelude [%s]", s.prelude.Dialect()), preludeLines)

	diags := make([]string, 0, len(s.diagnostics))
	for _, d := range s.diagnostics {
		diags = append(diags, fancy.ErrorText(d.Error()))
	}
	t.AddSection("Diagnostics", diags)

	return t
}
