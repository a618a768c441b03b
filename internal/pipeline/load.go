package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/dgallion1/slidedeck/internal/frontmatter"
	"github.com/dgallion1/slidedeck/internal/scheduler"
	"github.com/dgallion1/slidedeck/internal/session"
	"github.com/dgallion1/slidedeck/internal/slides"
	"github.com/dgallion1/slidedeck/internal/theme"
)

// Result is the outcome of one load: a session snapshot on success, an
// error otherwise. Cleared is set for the empty-path clear.
type Result struct {
	Request scheduler.Request `json:"request"`
	Session *session.Snapshot `json:"session,omitempty"`
	Cleared bool              `json:"cleared,omitempty"`
	Err     error             `json:"-"`
}

// OK reports whether the load completed.
func (r Result) OK() bool {
	return r.Err == nil
}

// Superseded reports whether a newer request replaced this one.
func (r Result) Superseded() bool {
	return errors.Is(r.Err, session.ErrSuperseded)
}

// Load runs the pipeline for req: teardown, fetch, strip, segment, populate,
// initialize. The request's token is re-checked after every suspension
// point, so a superseded load never populates or activates a session.
// Failures are reported once and leave the session manager Idle.
func (p *Pipeline) Load(ctx context.Context, req scheduler.Request) (res Result) {
	log := p.log.With("path", req.Path, "token", req.Token)
	res.Request = req

	if !p.sched.IsCurrent(req.Token) {
		res.Err = session.ErrSuperseded
		return res
	}

	defer func() {
		if r := recover(); r != nil {
			res = p.fail(log, req, fmt.Errorf("load panicked: %v", r))
		}
	}()

	p.reporter.HideError()

	if req.Path == "" {
		p.sessions.Clear(req.Token)
		theme.Apply(p.stage, theme.Default, log)
		log.Info("cleared presentation")
		res.Cleared = true
		return res
	}

	p.sessions.Begin(req.Path, req.Token)
	p.stage.HidePlaceholder()

	doc, err := p.fetcher.Fetch(ctx, req.Path)
	if !p.sched.IsCurrent(req.Token) {
		log.Info("discarding superseded fetch")
		res.Err = session.ErrSuperseded
		return res
	}
	if err != nil {
		return p.fail(log, req, err)
	}
	log.Info("fetched document", "bytes", len(doc))

	outline := slides.Segment(frontmatter.Strip(doc))
	log.Info("segmented document", "groups", len(outline), "slides", outline.Len())

	snap, err := p.sessions.Render(ctx, req.Token, outline, func() bool {
		return p.sched.IsCurrent(req.Token)
	})
	if errors.Is(err, session.ErrSuperseded) {
		res.Err = err
		return res
	}
	if err != nil {
		return p.fail(log, req, err)
	}

	res.Session = &snap
	return res
}

// fail reports err and moves the session manager to Idle.
func (p *Pipeline) fail(log *slog.Logger, req scheduler.Request, err error) Result {
	p.sessions.Fail(req.Token)
	log.Error("load failed", "error", err)
	p.reporter.ShowError(err.Error())
	return Result{Request: req, Err: err}
}
