package watch

import (
	"context"
	"fmt"
	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"path/filepath"
	"time"
)

const DEFAULT_DEBOUNCE = time.Millisecond * 300

type Watcher struct {
	logger   *zap.Logger
	path     string
	debounce time.Duration
	fn       func(ctx context.Context) error
}

// New calls fn once at start and again after path was written or re-created.
// Bursts of events within debounce end up in one call.
func New(logger *zap.Logger, path string, debounce time.Duration, fn func(ctx context.Context) error) *Watcher {
	if debounce <= 0 {
		debounce = DEFAULT_DEBOUNCE
	}
	return &Watcher{logger: logger, path: filepath.Clean(path), debounce: debounce, fn: fn}
}

// Run blocks until ctx is cancelled. Errors of fn are logged, they do not stop the watch.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("fsnotify.NewWatcher failed: %w", err)
	}
	defer fw.Close()

	// Editors replace files instead of writing them, so the directory is watched.
	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("fw.Add failed: %w", err)
	}

	w.call(ctx)

	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != w.path || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Watch error", zap.String("path", w.path), zap.Error(err))
		case <-timer.C:
			w.call(ctx)
		}
	}
}

func (w *Watcher) call(ctx context.Context) {
	if err := w.fn(ctx); err != nil {
		w.logger.Error("Reconvert failed", zap.String("path", w.path), zap.Error(err))
	}
}
