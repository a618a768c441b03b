// Package scheduler debounces rapid selection changes into a single load.
package scheduler

import (
	"sync"
	"time"
)

// DefaultDelay is the quiet period before a scheduled load fires.
const DefaultDelay = 800 * time.Millisecond

// Request identifies one scheduled load. Tokens increase monotonically, so
// a request is current only while no later Schedule call has been made.
type Request struct {
	Path     string    `json:"path"`
	Token    uint64    `json:"token"`
	IssuedAt time.Time `json:"issued_at"`
}

// Timer is the subset of *time.Timer the scheduler needs.
type Timer interface {
	Stop() bool
}

// Clock arms timers. The default uses time.AfterFunc.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
	Now() time.Time
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer { return time.AfterFunc(d, f) }
func (realClock) Now() time.Time                            { return time.Now() }

// Scheduler records the most recent request and runs it once the delay
// elapses without a newer request.
type Scheduler struct {
	mu     sync.Mutex
	delay  time.Duration
	clock  Clock
	run    func(Request)
	timer  Timer
	latest Request
	next   uint64
	closed bool

	wg sync.WaitGroup
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithClock replaces the timer source.
func WithClock(c Clock) Option {
	return func(s *Scheduler) { s.clock = c }
}

// New creates a scheduler that calls run for each effective request.
func New(delay time.Duration, run func(Request), opts ...Option) *Scheduler {
	if delay <= 0 {
		delay = DefaultDelay
	}
	s := &Scheduler{
		delay: delay,
		clock: realClock{},
		run:   run,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Schedule records path as the latest target and re-arms the timer,
// discarding any previously armed one. An empty path is a valid request.
func (s *Scheduler) Schedule(path string) Request {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.next++
	req := Request{Path: path, Token: s.next, IssuedAt: s.clock.Now()}
	s.latest = req

	if s.closed {
		return req
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = s.clock.AfterFunc(s.delay, func() { s.fire(req) })
	return req
}

// fire runs req if it is still the latest request.
func (s *Scheduler) fire(req Request) {
	s.mu.Lock()
	if s.closed || s.latest.Token != req.Token || s.latest.Path != req.Path {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	s.wg.Add(1)
	s.mu.Unlock()

	defer s.wg.Done()
	s.run(req)
}

// IsCurrent reports whether token belongs to the latest request.
func (s *Scheduler) IsCurrent(token uint64) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest.Token == token
}

// Latest returns the most recently scheduled request.
func (s *Scheduler) Latest() Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.latest
}

// Stop disarms the pending timer and waits for running loads to return.
// Later Schedule calls record requests but never fire.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.mu.Unlock()

	s.wg.Wait()
}
