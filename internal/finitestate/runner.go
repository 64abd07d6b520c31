package finitestate

import (
	"context"
	"log/slog"
	"time"

	"github.com/robbyt/go-fsm"
)

const (
	StatusNew       = fsm.StatusNew
	StatusBooting   = fsm.StatusBooting
	StatusRunning   = fsm.StatusRunning
	StatusReloading = fsm.StatusReloading
	StatusStopping  = fsm.StatusStopping
	StatusStopped   = fsm.StatusStopped
	StatusError     = fsm.StatusError
	StatusUnknown   = fsm.StatusUnknown
)

// TypicalTransitions is a set of standard transitions for a finite state machine.
var TypicalTransitions = fsm.TypicalTransitions

// RunnerFSM embeds fsm.Machine and overrides GetStateChan for sync broadcast
type RunnerFSM struct {
	*fsm.Machine
}

// GetStateChan returns a sync broadcast channel with 5-second timeout to ensure state
// updates are delivered during shutdown
func (m *RunnerFSM) GetStateChan(ctx context.Context) <-chan string {
	return m.GetStateChanWithOptions(ctx, fsm.WithSyncTimeout(5*time.Second))
}

// NewRunnerMachine creates a machine with the standard runnable lifecycle.
func NewRunnerMachine(handler slog.Handler) (*RunnerFSM, error) {
	machine, err := fsm.New(handler, StatusNew, TypicalTransitions)
	if err != nil {
		return nil, err
	}
	return &RunnerFSM{Machine: machine}, nil
}
