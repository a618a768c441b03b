package pipeline

import (
	"sort"
	"sync"
	"time"
)

type loadSample struct {
	at       time.Time
	duration time.Duration
}

// StatsSnapshot aggregates load outcomes and the durations of loads that
// reached the engine or failed, over a rolling window.
type StatsSnapshot struct {
	Loaded     int `json:"loaded"`
	Failed     int `json:"failed"`
	Cleared    int `json:"cleared"`
	Superseded int `json:"superseded"`

	Count int     `json:"count"`
	MinMs int64   `json:"min_ms"`
	MaxMs int64   `json:"max_ms"`
	AvgMs float64 `json:"avg_ms"`
	P50Ms float64 `json:"p50_ms"`
	P95Ms float64 `json:"p95_ms"`
}

// Stats records pipeline results.
type Stats struct {
	mu      sync.Mutex
	samples []loadSample
	maxAge  time.Duration
	now     func() time.Time

	loaded, failed, cleared, superseded int
}

func NewStats(maxAge time.Duration) *Stats {
	if maxAge <= 0 {
		maxAge = time.Hour
	}
	return &Stats{maxAge: maxAge, now: time.Now}
}

// Record counts res and, for completed or failed loads, its duration.
func (s *Stats) Record(res Result, d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch {
	case res.Superseded():
		s.superseded++
		return
	case res.Cleared:
		s.cleared++
		return
	case res.Err != nil:
		s.failed++
	default:
		s.loaded++
	}

	now := s.now()
	s.pruneLocked(now)
	s.samples = append(s.samples, loadSample{at: now, duration: max(d, 0)})
}

func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.pruneLocked(s.now())
	snap := StatsSnapshot{
		Loaded:     s.loaded,
		Failed:     s.failed,
		Cleared:    s.cleared,
		Superseded: s.superseded,
		Count:      len(s.samples),
	}
	if len(s.samples) == 0 {
		return snap
	}

	ms := make([]int64, 0, len(s.samples))
	var sum int64
	for _, sm := range s.samples {
		v := sm.duration.Milliseconds()
		ms = append(ms, v)
		sum += v
	}
	sort.Slice(ms, func(i, j int) bool { return ms[i] < ms[j] })

	snap.MinMs = ms[0]
	snap.MaxMs = ms[len(ms)-1]
	snap.AvgMs = float64(sum) / float64(len(ms))
	snap.P50Ms = percentile(ms, 50)
	snap.P95Ms = percentile(ms, 95)
	return snap
}

func (s *Stats) pruneLocked(now time.Time) {
	cutoff := now.Add(-s.maxAge)
	kept := s.samples[:0]
	for _, sm := range s.samples {
		if !sm.at.Before(cutoff) {
			kept = append(kept, sm)
		}
	}
	s.samples = kept
}

// percentile interpolates linearly between the closest ranks.
func percentile(sorted []int64, pct float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := float64(len(sorted)-1) * pct / 100
	lo := int(idx)
	if lo >= len(sorted)-1 {
		return float64(sorted[len(sorted)-1])
	}
	w := idx - float64(lo)
	return float64(sorted[lo]) + (float64(sorted[lo+1])-float64(sorted[lo]))*w
}
