// Package script ties the pipeline together. A Loader parses the header,
// describes it, generates the import prelude and resolves the declared
// capabilities; the resulting Script runs its prelude and body on any Engine with
// the resolved bindings installed.
package script

import (
	"context"
	"log/slog"
	"maps"
	"slices"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/robbyt/go-loglater"
	"github.com/robbyt/go-loglater/storage"

	"github.com/atlanticdynamic/nosorog/internal/binder"
	"github.com/atlanticdynamic/nosorog/internal/descriptor"
	"github.com/atlanticdynamic/nosorog/internal/engine"
	"github.com/atlanticdynamic/nosorog/internal/finitestate"
	"github.com/atlanticdynamic/nosorog/internal/prelude"
)

// Script is a loaded, executable script. Accessors on a Script that did not reach
// the executable state return zero values.
type Script struct {
	id     uuid.UUID
	source string

	descriptor  *descriptor.Descriptor
	carrier     *binder.Carrier
	bindings    binder.BindingSet
	prelude     *prelude.Prelude
	body        string
	diagnostics []error
	loadedAt    time.Time

	fsm          finitestate.Machine
	logger       *slog.Logger
	logCollector *loglater.LogCollector
}

func (s *Script) executable() bool {
	return s != nil && s.fsm != nil && s.fsm.GetState() == finitestate.ScriptExecutable
}

// ID identifies the load that produced the Script.
func (s *Script) ID() uuid.UUID {
	if s == nil {
		return uuid.Nil
	}
	return s.id
}

// Source is the path or label the Script was loaded from.
func (s *Script) Source() string {
	if s == nil {
		return ""
	}
	return s.source
}

// State returns the lifecycle state.
func (s *Script) State() string {
	if s == nil || s.fsm == nil {
		return finitestate.ScriptUnparsed
	}
	return s.fsm.GetState()
}

// LoadedAt is when the Script became executable.
func (s *Script) LoadedAt() time.Time {
	if !s.executable() {
		return time.Time{}
	}
	return s.loadedAt
}

func (s *Script) Name() string {
	name, _ := s.NameE()
	return name
}

// NameE returns the declared name, or ErrNotSynthesized.
func (s *Script) NameE() (string, error) {
	if !s.executable() {
		return "", ErrNotSynthesized
	}
	return s.descriptor.Name(), nil
}

func (s *Script) Description() string {
	if !s.executable() {
		return ""
	}
	return s.descriptor.Description()
}

// Schedule returns the raw schedule expression. Nothing interprets it.
func (s *Script) Schedule() string {
	if !s.executable() {
		return ""
	}
	return s.descriptor.Schedule()
}

func (s *Script) IsStartup() bool {
	return s.executable() && s.descriptor.IsStartup()
}

func (s *Script) Descriptor() *descriptor.Descriptor {
	if !s.executable() {
		return nil
	}
	return s.descriptor
}

func (s *Script) Carrier() *binder.Carrier {
	if !s.executable() {
		return nil
	}
	return s.carrier
}

// Bindings returns a copy of the resolved bindings.
func (s *Script) Bindings() binder.BindingSet {
	bindings, _ := s.BindingsE()
	return bindings
}

// BindingsE returns a copy of the resolved bindings, or ErrNotSynthesized.
func (s *Script) BindingsE() (binder.BindingSet, error) {
	if !s.executable() {
		return nil, ErrNotSynthesized
	}
	return maps.Clone(s.bindings), nil
}

func (s *Script) Prelude() *prelude.Prelude {
	if !s.executable() {
		return nil
	}
	return s.prelude
}

// Body is the full source text, header included.
func (s *Script) Body() string {
	if !s.executable() {
		return ""
	}
	return s.body
}

// Diagnostics returns the non-fatal problems of every load phase in order.
func (s *Script) Diagnostics() []error {
	if !s.executable() {
		return nil
	}
	return slices.Clone(s.diagnostics)
}

// RunWith installs the bindings into eng, evaluates the prelude and then the
// body. Engine errors are returned unchanged.
func (s *Script) RunWith(ctx context.Context, eng engine.Engine) (any, error) {
	if !s.executable() {
		return nil, ErrNotSynthesized
	}
	runID := uuid.Must(uuid.NewV6())
	logger := s.logger.With("run", runID)
	start := time.Now()

	if err := eng.InstallBindings(s.bindings); err != nil {
		logger.Error("Failed to install bindings", "error", err)
		return nil, err
	}
	if text := s.prelude.Text(); text != "" {
		if _, err := eng.Evaluate(ctx, text); err != nil {
			logger.Error("Prelude failed", "error", err)
			return nil, err
		}
	}
	result, err := eng.Evaluate(ctx, s.body)
	if err != nil {
		logger.Error("Script failed", "error", err, "duration", time.Since(start))
		return nil, err
	}
	logger.Info("Script finished", "duration", time.Since(start))
	return result, nil
}

// PlaybackLogs replays the load and run logs to handler.
func (s *Script) PlaybackLogs(handler slog.Handler) error {
	if s == nil || s.logCollector == nil {
		return nil
	}
	return s.logCollector.PlayLogs(handler)
}

// Logs returns the captured load and run log records.
func (s *Script) Logs() []storage.Record {
	if s == nil || s.logCollector == nil {
		return nil
	}
	return s.logCollector.GetLogs()
}
