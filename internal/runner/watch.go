package runner

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/atlanticdynamic/nosorog/internal/config"
)

// watcher reports changes to script files, coalescing bursts of events.
type watcher struct {
	fs       *fsnotify.Watcher
	scripts  config.Scripts
	debounce time.Duration
	logger   *slog.Logger
}

func newWatcher(scripts config.Scripts, logger *slog.Logger) (*watcher, error) {
	fs, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWatch, err)
	}
	if err := fs.Add(scripts.Dir); err != nil {
		_ = fs.Close()
		return nil, fmt.Errorf("%w: %s: %w", ErrWatch, scripts.Dir, err)
	}
	return &watcher{
		fs:       fs,
		scripts:  scripts,
		debounce: scripts.Debounce.AsDuration(),
		logger:   logger,
	}, nil
}

// run calls onChange once per burst of relevant events until ctx is done.
func (w *watcher) run(ctx context.Context, onChange func()) {
	defer func() {
		if err := w.fs.Close(); err != nil {
			w.logger.Warn("Failed to close watcher", "error", err)
		}
	}()
	w.logger.Debug("Watching script directory", "dir", w.scripts.Dir, "debounce", w.debounce)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("Script change", "path", event.Name, "op", event.Op.String())
			timer.Reset(w.debounce)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", "error", err)
		case <-timer.C:
			onChange()
		}
	}
}

func (w *watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	if isHidden(filepath.Base(event.Name)) {
		return false
	}
	return w.scripts.HasExtension(event.Name)
}

func isHidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
