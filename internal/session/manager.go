package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/slidedeck/internal/deck"
	"github.com/dgallion1/slidedeck/internal/engine"
	"github.com/dgallion1/slidedeck/internal/slides"
	"github.com/google/uuid"
)

// Manager owns the render session lifecycle: teardown of the previous
// session, population of the stage, and initialization of a new engine
// handle. At most one handle is live at any time.
type Manager struct {
	mu     sync.Mutex
	stage  *deck.Stage
	engine engine.Engine
	cfg    engine.Config
	log    *slog.Logger
	hook   func(Transition)

	state   State
	owner   uint64 // token of the load that owns the stage
	current *Session
}

// Option configures a Manager.
type Option func(*Manager)

// WithTransitionHook observes every state change. The hook runs with the
// manager's lock held and must not call back into the Manager.
func WithTransitionHook(fn func(Transition)) Option {
	return func(m *Manager) { m.hook = fn }
}

func NewManager(stage *deck.Stage, eng engine.Engine, log *slog.Logger, opts ...Option) *Manager {
	m := &Manager{
		stage:  stage,
		engine: eng,
		cfg:    engine.DefaultConfig(),
		log:    log,
		state:  StateIdle,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Begin tears down the previous session and enters Loading for the load
// identified by token. Teardown completes before Begin returns.
func (m *Manager) Begin(path string, token uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.teardownLocked()
	m.owner = token
	m.current = &Session{
		ID:        uuid.NewString(),
		Token:     token,
		Path:      path,
		StartedAt: time.Now(),
	}
	m.setStateLocked(StateLoading)
}

// Render populates the stage with outline and initializes a new engine
// handle. current is consulted after initialization; when it reports false
// the fresh handle is destroyed and ErrSuperseded is returned.
func (m *Manager) Render(ctx context.Context, token uint64, outline slides.Outline, current func() bool) (Snapshot, error) {
	sess, err := m.populate(token, outline)
	if err != nil {
		return Snapshot{}, err
	}
	log := m.log.With("session_id", sess.ID, "path", sess.Path, "token", token)

	h, err := m.engine.Initialize(ctx, m.stage, m.cfg)

	m.mu.Lock()
	defer m.mu.Unlock()

	stale := m.owner != token || (current != nil && !current())
	if stale {
		if h != nil {
			h.Destroy()
		}
		if m.owner == token {
			m.current = nil
			m.setStateLocked(StateIdle)
		}
		log.Info("discarded superseded session")
		return Snapshot{}, ErrSuperseded
	}

	if err != nil {
		m.current = nil
		m.setStateLocked(StateIdle)
		log.Error("engine initialization failed", "error", err)
		return Snapshot{}, &RenderInitError{Path: sess.Path, Err: err}
	}

	sess.handle = h
	h.GotoSlide(0, 0)
	m.stage.ClearFragment()
	m.setStateLocked(StateActive)
	log.Info("session active")

	return m.snapshotLocked(), nil
}

// populate fills the stage for the load identified by token and leaves the
// manager Initializing.
func (m *Manager) populate(token uint64, outline slides.Outline) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.owner != token || m.state != StateLoading {
		return nil, ErrSuperseded
	}
	sess := m.current

	m.setStateLocked(StatePopulating)
	for _, g := range outline {
		m.stage.AppendGroup(g)
	}
	sess.Outline = slides.Summarize(outline)
	m.log.Info("populated stage", "session_id", sess.ID, "groups", sess.Outline.Groups, "slides", sess.Outline.Slides)

	m.setStateLocked(StateInitializing)
	return sess, nil
}

// Clear tears down any session and returns to Idle with the placeholder
// restored. No population or initialization follows.
func (m *Manager) Clear(token uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.teardownLocked()
	m.owner = token
	m.current = nil
	m.setStateLocked(StateIdle)
}

// Fail moves the load identified by token to Idle after a failed stage.
// It is a no-op when a newer load owns the stage.
func (m *Manager) Fail(token uint64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.owner != token {
		return
	}
	if m.current != nil && m.current.handle != nil {
		m.current.handle.Destroy()
	}
	m.current = nil
	m.setStateLocked(StateIdle)
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// LiveHandles returns the number of live engine handles (0 or 1).
func (m *Manager) LiveHandles() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.current != nil && m.current.handle != nil {
		return 1
	}
	return 0
}

// GotoSlide moves the active session. It reports false when no session is
// active.
func (m *Manager) GotoSlide(h, v int) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state != StateActive || m.current == nil || m.current.handle == nil {
		return false
	}
	m.current.handle.GotoSlide(h, v)
	return true
}

// Snapshot returns a copy of the manager state.
func (m *Manager) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.snapshotLocked()
}

func (m *Manager) snapshotLocked() Snapshot {
	snap := Snapshot{
		State: m.state,
		Token: m.owner,
	}
	if m.current == nil {
		return snap
	}
	snap.SessionID = m.current.ID
	snap.Path = m.current.Path
	started := m.current.StartedAt
	snap.StartedAt = &started
	if m.state == StateActive || m.state == StateInitializing {
		summary := m.current.Outline
		snap.Outline = &summary
	}
	if m.current.handle != nil {
		snap.Live = true
		snap.Slide.H, snap.Slide.V = m.current.handle.Position()
	}
	return snap
}

// teardownLocked destroys the live handle, clears the populated stage,
// restores the placeholder, and clears the navigation fragment.
func (m *Manager) teardownLocked() {
	if m.current != nil && m.current.handle != nil {
		m.current.handle.Destroy()
		m.current.handle = nil
		m.log.Info("destroyed session", "session_id", m.current.ID, "path", m.current.Path)
	}
	m.stage.ClearSlides()
	m.stage.ShowPlaceholder()
	m.stage.ClearFragment()
}

func (m *Manager) setStateLocked(to State) {
	from := m.state
	m.state = to
	if m.hook != nil {
		m.hook(Transition{From: from, To: to, Token: m.owner})
	}
}
