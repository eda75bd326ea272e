package server

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// defaultDebounce lets a burst of writes to the fibers file settle before a reload.
const defaultDebounce = 500 * time.Millisecond

// RebuildFunc produces a fresh dataset, typically by re-reading the fibers
// file and re-running the analysis.
type RebuildFunc func(ctx context.Context) (*Dataset, error)

// Watcher reloads the served dataset when the fibers file changes.
type Watcher struct {
	server   *Server
	path     string
	rebuild  RebuildFunc
	debounce time.Duration
	reloaded chan struct{}
}

// NewWatcher watches path on behalf of s.
func NewWatcher(s *Server, path string, rebuild RebuildFunc) *Watcher {
	return &Watcher{
		server:   s,
		path:     filepath.Clean(path),
		rebuild:  rebuild,
		debounce: defaultDebounce,
		reloaded: make(chan struct{}, 1),
	}
}

// Run blocks until ctx is done. The parent directory is watched rather than
// the file, since atomic writes replace the file with a rename.
// A failed rebuild is logged and the previous dataset stays in place.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(w.path), err)
	}
	slog.Info("Watching fibers file for changes", "path", w.path)

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

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path || !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Write) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("File watcher error", "error", err)

		case <-fire:
			fire = nil
			w.reload(ctx)
		}
	}
}

func (w *Watcher) reload(ctx context.Context) {
	d, err := w.rebuild(ctx)
	if err != nil {
		slog.Error("Reload failed, keeping previous dataset", "path", w.path, "error", err)
		return
	}
	w.server.SetDataset(d)
	slog.Info("Dataset reloaded", "path", w.path, "fibers", len(d.Fibers), "run_id", d.Report.RunID)

	select {
	case w.reloaded <- struct{}{}:
	default:
	}
}
