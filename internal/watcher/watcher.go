// Package watcher re-runs settings validation when a settings file changes.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/realmcfg/runtime/internal/logger"
	"github.com/realmcfg/runtime/internal/pathutil"
)

// DefaultDebounce is the quiet period after the last change before the
// callback runs.
const DefaultDebounce = 200 * time.Millisecond

// relevantOps are the operations that may change a file's content.
// Editors often save by renaming a temporary file over the original.
const relevantOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove

// Watcher calls a function whenever one settings file changes.
type Watcher struct {
	path     string
	debounce time.Duration
	onChange func(path string)
	watcher  *fsnotify.Watcher
}

// New watches the file at path. The parent directory is watched so that
// the file may be replaced or created later. A non-positive debounce uses
// DefaultDebounce.
func New(path string, debounce time.Duration, onChange func(path string)) (*Watcher, error) {
	if err := pathutil.ValidateFilePath(path); err != nil {
		return nil, err
	}
	if onChange == nil {
		return nil, fmt.Errorf("watcher: nil change callback")
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	dir := filepath.Dir(path)
	if err := fw.Add(dir); err != nil {
		_ = fw.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	return &Watcher{
		path:     path,
		debounce: debounce,
		onChange: onChange,
		watcher:  fw,
	}, nil
}

// Path returns the watched file path.
func (w *Watcher) Path() string {
	return w.path
}

// Run delivers debounced change notifications until ctx is done.
// The callback runs on the calling goroutine, one call at a time.
// Run closes the watcher before returning.
func (w *Watcher) Run(ctx context.Context) error {
	defer func() { _ = w.watcher.Close() }()

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&relevantOps == 0 || !pathutil.SamePath(event.Name, w.path) {
				continue
			}
			logger.Debug("settings file changed",
				slog.String("path", w.path),
				slog.String("op", event.Op.String()),
			)
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error("file watcher error",
				slog.String("path", w.path),
				slog.String("error", err.Error()),
			)

		case <-fire:
			fire = nil
			logger.Info("reloading settings", slog.String("path", w.path))
			w.onChange(w.path)
		}
	}
}
