package config

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches a configuration file for changes and triggers reloads.
// Writes are debounced so editors that write in multiple syscalls trigger
// a single reload.
type Watcher struct {
	path     string
	debounce time.Duration
	logger   *slog.Logger
}

// DefaultDebounceInterval is the delay between the last observed write
// and the reload callback.
const DefaultDebounceInterval = 200 * time.Millisecond

// NewWatcher creates a watcher for the configuration file at path.
func NewWatcher(path string) *Watcher {
	return &Watcher{
		path:     path,
		debounce: DefaultDebounceInterval,
		logger:   slog.Default().With("component", "config.watcher"),
	}
}

// Watch blocks until the context is cancelled, invoking onReload after
// each debounced change to the watched file. Reload errors are logged and
// watching continues; a broken config written by the operator should not
// kill a running balancer.
func (w *Watcher) Watch(ctx context.Context, onReload func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	// Watch the directory, not the file: editors commonly replace the
	// file via rename, which drops a file-level watch.
	dir := filepath.Dir(w.path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %q: %w", dir, err)
	}

	w.logger.Info("config watcher started",
		"path", w.path,
		"debounce_ms", w.debounce.Milliseconds(),
	)

	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			w.logger.Info("config watcher stopped")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher events channel closed")
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				timer.Reset(w.debounce)
			}

		case <-timerC:
			timer = nil
			timerC = nil
			w.logger.Info("config file changed, reloading", "path", w.path)
			if err := onReload(); err != nil {
				w.logger.Error("config reload failed", "error", err)
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher errors channel closed")
			}
			w.logger.Error("config watcher error", "error", err)
		}
	}
}
