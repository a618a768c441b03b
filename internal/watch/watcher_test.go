package watch

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dgallion1/slidedeck/internal/scheduler"
)

type fakeTarget struct {
	mu       sync.Mutex
	selected string
	reloads  int
	notify   chan struct{}
}

func (f *fakeTarget) Selected() scheduler.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return scheduler.Request{Path: f.selected}
}

func (f *fakeTarget) Reload() (scheduler.Request, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.selected == "" {
		return scheduler.Request{}, false
	}
	f.reloads++
	if f.notify != nil {
		select {
		case f.notify <- struct{}{}:
		default:
		}
	}
	return scheduler.Request{Path: f.selected, Token: uint64(f.reloads)}, true
}

func (f *fakeTarget) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.reloads
}

func discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestHandle(t *testing.T) {
	tests := []struct {
		name     string
		selected string
		event    fsnotify.Event
		reload   bool
	}{
		{"write to selected", "/presentations/demo.md", fsnotify.Event{Name: "/data/demo.md", Op: fsnotify.Write}, true},
		{"create selected", "/presentations/demo.md", fsnotify.Event{Name: "/data/demo.md", Op: fsnotify.Create}, true},
		{"other file", "/presentations/demo.md", fsnotify.Event{Name: "/data/other.md", Op: fsnotify.Write}, false},
		{"not markdown", "/presentations/demo.md", fsnotify.Event{Name: "/data/demo.md.swp", Op: fsnotify.Write}, false},
		{"chmod only", "/presentations/demo.md", fsnotify.Event{Name: "/data/demo.md", Op: fsnotify.Chmod}, false},
		{"nothing selected", "", fsnotify.Event{Name: "/data/demo.md", Op: fsnotify.Write}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			target := &fakeTarget{selected: tt.selected}
			w := &Watcher{target: target, log: discard()}
			w.handle(tt.event)

			if got := target.count() == 1; got != tt.reload {
				t.Errorf("expected reload=%v, got %d reloads", tt.reload, target.count())
			}
			if got := w.Stats().Reloads == 1; got != tt.reload {
				t.Errorf("expected stats reload=%v, got %+v", tt.reload, w.Stats())
			}
		})
	}
}

func TestWatcher_ReloadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "demo.md")
	if err := os.WriteFile(file, []byte("One"), 0o644); err != nil {
		t.Fatal(err)
	}

	target := &fakeTarget{selected: "/presentations/demo.md", notify: make(chan struct{}, 1)}
	w, err := New(dir, target, discard())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	if err := os.WriteFile(file, []byte("One\n---\nTwo"), 0o644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-target.notify:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for reload")
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("unexpected run error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("unexpected close error: %v", err)
	}
	if w.Stats().Events == 0 {
		t.Error("expected events to be counted")
	}
}

func TestNew_MissingDir(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "nope"), &fakeTarget{}, discard()); err == nil {
		t.Error("expected error for missing directory")
	}
}
