package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgallion1/slidedeck/internal/engine"
	"github.com/dgallion1/slidedeck/internal/slides"
)

// State is the lifecycle state of the render session.
type State string

const (
	StateIdle         State = "idle"
	StateLoading      State = "loading"
	StatePopulating   State = "populating"
	StateInitializing State = "initializing"
	StateActive       State = "active"
)

// Transition is a single state change, reported to the transition hook.
type Transition struct {
	From  State
	To    State
	Token uint64
}

// ErrSuperseded is returned when a newer load took over the stage while
// this one was suspended.
var ErrSuperseded = errors.New("load superseded by a newer request")

// RenderInitError wraps a failure of the engine to initialize.
type RenderInitError struct {
	Path string
	Err  error
}

func (e *RenderInitError) Error() string {
	return fmt.Sprintf("initialize renderer for %s: %v", e.Path, e.Err)
}

func (e *RenderInitError) Unwrap() error {
	return e.Err
}

// Session is one load's binding of an outline to an engine handle.
// The handle is only reachable through the Manager.
type Session struct {
	ID        string
	Token     uint64
	Path      string
	StartedAt time.Time
	Outline   slides.Summary

	handle engine.Handle
}

// Snapshot is a read-only, JSON-safe copy of the manager state.
type Snapshot struct {
	State     State           `json:"state"`
	SessionID string          `json:"session_id,omitempty"`
	Token     uint64          `json:"token"`
	Path      string          `json:"path"`
	Live      bool            `json:"live"`
	Slide     Position        `json:"slide"`
	Outline   *slides.Summary `json:"outline,omitempty"`
	StartedAt *time.Time      `json:"started_at,omitempty"`
}

// Position is a horizontal/vertical slide index pair.
type Position struct {
	H int `json:"h"`
	V int `json:"v"`
}
