// Package engine defines the capability interface of a presentation engine
// and ships a goldmark-backed implementation.
package engine

import (
	"context"

	"github.com/dgallion1/slidedeck/internal/deck"
)

// Config is the engine configuration recognized at initialization.
type Config struct {
	TrackNavigationHash  bool `json:"hash"`
	EnableMarkdownPlugin bool `json:"markdown"`
}

// DefaultConfig is the fixed configuration sessions are initialized with.
func DefaultConfig() Config {
	return Config{
		TrackNavigationHash:  true,
		EnableMarkdownPlugin: true,
	}
}

// Engine constructs handles bound to a populated stage.
type Engine interface {
	Initialize(ctx context.Context, stage *deck.Stage, cfg Config) (Handle, error)
}

// Handle is a live engine instance. Destroy must be safe to call twice.
type Handle interface {
	GotoSlide(h, v int)
	Position() (h, v int)
	Destroy()
}
