package pipeline

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/dgallion1/slidedeck/internal/deck"
	"github.com/dgallion1/slidedeck/internal/scheduler"
	"github.com/dgallion1/slidedeck/internal/session"
	"github.com/dgallion1/slidedeck/internal/theme"
)

// Fetcher retrieves raw document text.
type Fetcher interface {
	Fetch(ctx context.Context, path string) (string, error)
}

// Reporter is the single sink for load failures.
type Reporter interface {
	ShowError(msg string)
	HideError()
}

// Pipeline turns presentation selections into rendered sessions.
type Pipeline struct {
	sched    *scheduler.Scheduler
	fetcher  Fetcher
	sessions *session.Manager
	stage    *deck.Stage
	reporter Reporter
	log      *slog.Logger
	onResult func(Result)
	stats    *Stats

	ctx    context.Context
	cancel context.CancelFunc

	mu   sync.Mutex
	last Result
}

// Option configures a Pipeline.
type Option func(*options)

type options struct {
	delay     time.Duration
	schedOpts []scheduler.Option
	reporter  Reporter
	onResult  func(Result)
}

// WithDelay sets the debounce delay.
func WithDelay(d time.Duration) Option {
	return func(o *options) { o.delay = d }
}

// WithSchedulerOptions passes options to the underlying scheduler.
func WithSchedulerOptions(opts ...scheduler.Option) Option {
	return func(o *options) { o.schedOpts = append(o.schedOpts, opts...) }
}

// WithReporter replaces the stage's error panel as the failure sink.
func WithReporter(r Reporter) Option {
	return func(o *options) { o.reporter = r }
}

// WithResultHook is called after every load that was not superseded.
func WithResultHook(fn func(Result)) Option {
	return func(o *options) { o.onResult = fn }
}

// New creates a pipeline. Call Start before selecting presentations.
func New(fetcher Fetcher, sessions *session.Manager, stage *deck.Stage, log *slog.Logger, opts ...Option) *Pipeline {
	o := options{delay: scheduler.DefaultDelay}
	for _, opt := range opts {
		opt(&o)
	}

	p := &Pipeline{
		fetcher:  fetcher,
		sessions: sessions,
		stage:    stage,
		reporter: o.reporter,
		log:      log,
		onResult: o.onResult,
		stats:    NewStats(time.Hour),
		ctx:      context.Background(),
	}
	if p.reporter == nil {
		p.reporter = stage
	}
	p.sched = scheduler.New(o.delay, p.run, o.schedOpts...)
	return p
}

// Start binds in-flight loads to ctx.
func (p *Pipeline) Start(ctx context.Context) {
	p.ctx, p.cancel = context.WithCancel(ctx)
}

// Stop aborts in-flight work and waits for running loads to return.
func (p *Pipeline) Stop() {
	if p.cancel != nil {
		p.cancel()
	}
	p.sched.Stop()
}

// Select applies the presentation's theme and schedules its load. An empty
// path schedules a clear.
func (p *Pipeline) Select(path, themeName string) scheduler.Request {
	if path != "" && themeName != "" {
		theme.Apply(p.stage, themeName, p.log)
	}
	req := p.sched.Schedule(path)
	p.log.Debug("scheduled load", "path", path, "token", req.Token)
	return req
}

// Reload re-schedules the current selection. It reports false when nothing
// is selected.
func (p *Pipeline) Reload() (scheduler.Request, bool) {
	latest := p.sched.Latest()
	if latest.Path == "" {
		return scheduler.Request{}, false
	}
	return p.sched.Schedule(latest.Path), true
}

// Selected returns the most recent selection.
func (p *Pipeline) Selected() scheduler.Request {
	return p.sched.Latest()
}

// Last returns the most recent load result that was not superseded.
func (p *Pipeline) Last() Result {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.last
}

// Sessions exposes the session manager for status queries.
func (p *Pipeline) Sessions() *session.Manager {
	return p.sessions
}

// Stats returns load counters and recent load durations.
func (p *Pipeline) Stats() StatsSnapshot {
	return p.stats.Snapshot()
}

// run is the scheduler callback for an effective request.
func (p *Pipeline) run(req scheduler.Request) {
	start := time.Now()
	res := p.Load(p.ctx, req)
	p.stats.Record(res, time.Since(start))
	if res.Superseded() {
		return
	}

	p.mu.Lock()
	p.last = res
	p.mu.Unlock()

	if p.onResult != nil {
		p.onResult(res)
	}
}
