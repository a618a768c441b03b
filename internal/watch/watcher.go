// Package watch reloads the selected presentation when its file changes
// on disk.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dgallion1/slidedeck/internal/scheduler"
)

// Target is the pipeline side of the watcher.
type Target interface {
	Selected() scheduler.Request
	Reload() (scheduler.Request, bool)
}

// Stats counts watcher activity.
type Stats struct {
	Events        int       `json:"events"`
	Reloads       int       `json:"reloads"`
	Errors        int       `json:"errors"`
	LastEventPath string    `json:"last_event_path,omitempty"`
	LastEventTime time.Time `json:"last_event_time,omitempty"`
}

// Watcher follows a presentations directory.
type Watcher struct {
	dir     string
	target  Target
	log     *slog.Logger
	watcher *fsnotify.Watcher

	mu    sync.Mutex
	stats Stats
}

// New starts watching dir. Call Run to process events and Close when done.
func New(dir string, target Target, log *slog.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fw.Add(dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	return &Watcher{dir: dir, target: target, log: log, watcher: fw}, nil
}

// Run processes events until ctx is cancelled or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	w.log.Info("watching presentations", "dir", w.dir)
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			w.handle(ev)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			w.log.Error("watch error", "error", err)
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()
		}
	}
}

// Close releases the underlying watcher. Run returns once it is closed.
func (w *Watcher) Close() error {
	return w.watcher.Close()
}

// Stats returns a copy of the activity counters.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

func (w *Watcher) handle(ev fsnotify.Event) {
	if !strings.HasSuffix(ev.Name, ".md") {
		return
	}
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return
	}

	w.mu.Lock()
	w.stats.Events++
	w.stats.LastEventPath = ev.Name
	w.stats.LastEventTime = time.Now()
	w.mu.Unlock()

	selected := w.target.Selected().Path
	if selected == "" || path.Base(selected) != filepath.Base(ev.Name) {
		return
	}

	req, ok := w.target.Reload()
	if !ok {
		return
	}
	w.log.Info("presentation changed, reloading", "file", filepath.Base(ev.Name), "token", req.Token)

	w.mu.Lock()
	w.stats.Reloads++
	w.mu.Unlock()
}
