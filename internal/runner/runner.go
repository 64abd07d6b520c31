// Package runner supervises a directory of scripts: every @Startup script runs
// when the runner boots and again on each reload.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/robbyt/go-supervisor/supervisor"

	"github.com/atlanticdynamic/nosorog/internal/config"
	"github.com/atlanticdynamic/nosorog/internal/engine"
	"github.com/atlanticdynamic/nosorog/internal/finitestate"
	"github.com/atlanticdynamic/nosorog/internal/script"
)

var (
	_ supervisor.Runnable   = (*Runner)(nil)
	_ supervisor.Reloadable = (*Runner)(nil)
	_ supervisor.Stateable  = (*Runner)(nil)
)

// EngineFactory builds a fresh engine for one script run.
type EngineFactory func() (engine.Engine, error)

type Runner struct {
	scripts   config.Scripts
	timeout   time.Duration
	loader    *script.Loader
	newEngine EngineFactory

	lastReport atomic.Pointer[Report]
	passMu     sync.Mutex

	logger *slog.Logger
	fsm    finitestate.Machine

	mu        sync.Mutex
	runCtx    context.Context
	runCancel context.CancelFunc
	parentCtx context.Context
	watchers  sync.WaitGroup
}

// NewRunner creates a Runner for the scripts section of cfg.
func NewRunner(cfg *config.Config, loader *script.Loader, newEngine EngineFactory, opts ...Option) (*Runner, error) {
	switch {
	case cfg == nil:
		return nil, ErrNilConfig
	case loader == nil:
		return nil, ErrNilLoader
	case newEngine == nil:
		return nil, ErrNilEngine
	}

	runner := &Runner{
		scripts:   cfg.Scripts,
		timeout:   cfg.Engine.Timeout.AsDuration(),
		loader:    loader,
		newEngine: newEngine,
		logger:    slog.Default().WithGroup("runner.Runner"),
		parentCtx: context.Background(),
		runCtx:    context.Background(),
	}

	for _, opt := range opts {
		opt(runner)
	}

	fsmLogger := runner.logger.WithGroup("fsm")
	fsm, err := finitestate.NewRunnerMachine(fsmLogger.Handler())
	if err != nil {
		return nil, fmt.Errorf("failed to create state machine: %w", err)
	}
	runner.fsm = fsm

	return runner, nil
}

// String implements the supervisor.Runnable interface
func (r *Runner) String() string {
	return "runner.Runner"
}

// Run implements the supervisor.Runnable interface
func (r *Runner) Run(ctx context.Context) error {
	r.logger.Debug("Starting Runner", "dir", r.scripts.Dir)

	if err := r.fsm.Transition(finitestate.StatusBooting); err != nil {
		return fmt.Errorf("failed to transition to booting state: %w", err)
	}

	r.mu.Lock()
	r.runCtx, r.runCancel = context.WithCancel(ctx)
	runCtx := r.runCtx
	r.mu.Unlock()

	if err := r.boot(runCtx); err != nil {
		if stateErr := r.fsm.Transition(finitestate.StatusError); stateErr != nil {
			r.logger.Error("Failed to transition to error state", "error", stateErr)
		}
		r.cancel()
		return fmt.Errorf("failed to boot runner: %w", err)
	}

	if err := r.fsm.Transition(finitestate.StatusRunning); err != nil {
		r.cancel()
		return fmt.Errorf("failed to transition to running state: %w", err)
	}

	// block here waiting for a context cancellation
	select {
	case <-r.parentCtx.Done():
		r.logger.Debug("Parent context canceled")
	case <-runCtx.Done():
		r.logger.Debug("Run context canceled")
	}

	r.logger.Info("Runner shutting down")
	r.cancel()
	r.watchers.Wait()

	if r.fsm.GetState() != finitestate.StatusStopping {
		if err := r.fsm.Transition(finitestate.StatusStopping); err != nil {
			r.logger.Error("Failed to transition to stopping state", "error", err)
		}
	}

	if err := r.fsm.Transition(finitestate.StatusStopped); err != nil {
		return fmt.Errorf("failed to transition to stopped state: %w", err)
	}
	return nil
}

// boot runs the first pass and starts the directory watcher when enabled.
func (r *Runner) boot(ctx context.Context) error {
	if _, err := r.pass(ctx); err != nil {
		return err
	}
	if !r.scripts.Watch {
		return nil
	}

	w, err := newWatcher(r.scripts, r.logger.WithGroup("watcher"))
	if err != nil {
		return err
	}
	r.watchers.Go(func() {
		w.run(ctx, r.Reload)
	})
	return nil
}

// Stop implements the supervisor.Runnable interface
func (r *Runner) Stop() {
	r.logger.Debug("Stopping Runner")
	if err := r.fsm.Transition(finitestate.StatusStopping); err != nil {
		r.logger.Error("Failed to transition to stopping state", "error", err)
	}
	r.cancel()
}

func (r *Runner) cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.runCancel != nil {
		r.runCancel()
	}
}

func (r *Runner) context() context.Context {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.runCtx
}

// Reload implements the supervisor.Reloadable interface. It rescans the
// directory and runs the @Startup scripts again.
func (r *Runner) Reload() {
	r.logger.Debug("Starting Reload...")
	if err := r.fsm.TransitionIfCurrentState(finitestate.StatusRunning, finitestate.StatusReloading); err != nil {
		r.logger.Warn("Runner is not running, skipping reload", "state", r.fsm.GetState())
		return
	}

	if _, err := r.pass(r.context()); err != nil {
		r.logger.Error("Reload failed", "error", err)
	}

	if err := r.fsm.TransitionIfCurrentState(finitestate.StatusReloading, finitestate.StatusRunning); err != nil {
		r.logger.Debug("Runner left the reloading state during reload", "state", r.fsm.GetState())
	}
	r.logger.Debug("Reload completed")
}

// LastReport returns the report of the most recent pass, or nil before the first.
func (r *Runner) LastReport() *Report {
	return r.lastReport.Load()
}

// pass loads every script in the directory and runs the @Startup ones.
// Script failures are recorded in the report; only a directory that cannot
// be read fails the pass.
func (r *Runner) pass(ctx context.Context) (*Report, error) {
	r.passMu.Lock()
	defer r.passMu.Unlock()

	paths, err := r.scan()
	if err != nil {
		return nil, err
	}

	report := &Report{
		ID:        uuid.Must(uuid.NewV6()),
		StartedAt: time.Now(),
	}
	logger := r.logger.With("pass", report.ID)
	logger.Debug("Scanning scripts", "files", len(paths))

	for _, path := range paths {
		if ctx.Err() != nil {
			break
		}
		s, err := r.loader.LoadFile(ctx, path)
		if err != nil {
			logger.Error("Failed to load script", "path", path, "error", err)
			report.Failed = append(report.Failed, Result{Path: path, Err: err})
			continue
		}

		switch {
		case s.IsStartup():
			res := r.execute(ctx, path, s)
			report.Executed = append(report.Executed, res)
			if res.Err != nil {
				logger.Error("Startup script failed", "script", res.Script, "error", res.Err)
			} else {
				logger.Info("Startup script finished", "script", res.Script, "duration", res.Duration)
			}
		case s.Schedule() != "":
			report.Scheduled = append(report.Scheduled, s.Name())
			logger.Info("Scheduled script found, schedules are not run", "script", s.Name(), "schedule", s.Schedule())
		default:
			logger.Debug("Skipping script", "script", s.Name())
		}
	}

	r.lastReport.Store(report)
	return report, nil
}

// execute runs s on a fresh engine, bounded by the configured timeout.
func (r *Runner) execute(ctx context.Context, path string, s *script.Script) Result {
	res := Result{Path: path, Script: s.Name()}
	start := time.Now()

	eng, err := r.newEngine()
	if err != nil {
		res.Err = fmt.Errorf("%w: %w", ErrEngineCreate, err)
		res.Duration = time.Since(start)
		return res
	}

	if r.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.timeout)
		defer cancel()
	}
	res.Value, res.Err = s.RunWith(ctx, eng)
	res.Duration = time.Since(start)
	return res
}

// scan lists the script files of the directory in name order. Hidden files and
// subdirectories are skipped.
func (r *Runner) scan() ([]string, error) {
	entries, err := os.ReadDir(r.scripts.Dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanDir, err)
	}
	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || isHidden(entry.Name()) {
			continue
		}
		path := filepath.Join(r.scripts.Dir, entry.Name())
		if r.scripts.HasExtension(path) {
			paths = append(paths, path)
		}
	}
	slices.Sort(paths)
	return paths, nil
}
