package finitestate

import (
	"log/slog"

	"github.com/robbyt/go-fsm"
)

// Script lifecycle states
const (
	ScriptUnparsed    = "unparsed"    // source not read yet
	ScriptDescribed   = "described"   // header parsed and descriptor built
	ScriptSynthesized = "synthesized" // prelude generated and bindings resolved
	ScriptExecutable  = "executable"  // ready for RunWith (terminal)
	ScriptFailed      = "failed"      // construction failed (terminal)
)

// ScriptTransitions defines the valid transitions while a script is loaded.
// Synthesis happens once: there is no way back from synthesized.
var ScriptTransitions = map[string][]string{
	ScriptUnparsed:    {ScriptDescribed, ScriptFailed},
	ScriptDescribed:   {ScriptSynthesized, ScriptFailed},
	ScriptSynthesized: {ScriptExecutable, ScriptFailed},
	ScriptExecutable:  {},
	ScriptFailed:      {},
}

// ScriptFactory creates script lifecycle machines
type ScriptFactory struct{}

// NewMachine creates a new script lifecycle machine
func (f *ScriptFactory) NewMachine(handler slog.Handler) (Machine, error) {
	return fsm.New(handler, ScriptUnparsed, ScriptTransitions)
}

// NewScriptMachine creates a new script lifecycle machine directly
func NewScriptMachine(handler slog.Handler) (Machine, error) {
	factory := &ScriptFactory{}
	return factory.NewMachine(handler)
}
