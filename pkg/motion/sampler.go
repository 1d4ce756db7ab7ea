package motion

import "time"

// Sampler coalesces a bursty attitude stream: it keeps only the latest
// reading, holds a burst for Debounce after its first reading, and emits at
// most once per Interval. A continuous stream still emits at the throttle
// rate. Not safe for concurrent use.
type Sampler struct {
	interval time.Duration
	debounce time.Duration

	pending      Attitude
	hasPending   bool
	firstArrival time.Time // arrival of the oldest unemitted reading
	lastEmit     time.Time
}

// Default sampler timing: 60 Hz throttle with a short debounce.
const (
	DefaultSampleInterval = time.Second / 60
	DefaultDebounce       = 4 * time.Millisecond
)

// NewSampler returns a Sampler. Non-positive durations use the defaults.
func NewSampler(interval, debounce time.Duration) *Sampler {
	if interval <= 0 {
		interval = DefaultSampleInterval
	}
	if debounce < 0 {
		debounce = DefaultDebounce
	}
	return &Sampler{interval: interval, debounce: debounce}
}

// Push records a reading that arrived at now, replacing any pending one.
func (s *Sampler) Push(a Attitude, now time.Time) {
	if !s.hasPending {
		s.firstArrival = now
	}
	s.pending = a
	s.hasPending = true
}

// Poll returns the latest pending reading once Debounce has passed since the
// first reading of the burst and Interval has passed since the previous
// emission.
func (s *Sampler) Poll(now time.Time) (Attitude, bool) {
	if !s.hasPending {
		return Attitude{}, false
	}
	if now.Sub(s.firstArrival) < s.debounce {
		return Attitude{}, false
	}
	if !s.lastEmit.IsZero() && now.Sub(s.lastEmit) < s.interval {
		return Attitude{}, false
	}
	s.hasPending = false
	s.lastEmit = now
	return s.pending, true
}

// Pending reports whether a reading is waiting.
func (s *Sampler) Pending() bool {
	return s.hasPending
}

// Reset drops any pending reading so nothing buffered is replayed later.
func (s *Sampler) Reset() {
	s.pending = Attitude{}
	s.hasPending = false
	s.firstArrival = time.Time{}
	s.lastEmit = time.Time{}
}
