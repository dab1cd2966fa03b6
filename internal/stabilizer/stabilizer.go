package stabilizer

import (
	"slices"
	"time"

	"gonum.org/v1/gonum/stat"
)

const (
	DefaultCapacity = 3
	DefaultHold     = 500 * time.Millisecond
)

// State is the display state of the stabilizer
type State int

const (
	Idle         State = iota // no reading
	Tracking                  // reading backed by recent estimates
	PendingClear              // reading held while the clear deadline runs
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Tracking:
		return "tracking"
	case PendingClear:
		return "pending-clear"
	default:
		return "unknown"
	}
}

// Stabilizer turns a noisy per-frame frequency stream into a display value.
// It median-filters the last few estimates and holds the reading through
// short dropouts. It is not safe for concurrent use.
type Stabilizer struct {
	capacity int
	hold     time.Duration

	history  []float64 // oldest first
	display  float64
	hasValue bool
	deadline time.Time
	pending  bool
}

// New creates a stabilizer with the given history capacity and hold duration
func New(capacity int, hold time.Duration) *Stabilizer {
	if capacity < 1 {
		capacity = 1
	}
	return &Stabilizer{
		capacity: capacity,
		hold:     hold,
		history:  make([]float64, 0, capacity),
	}
}

// Observe records a valid estimate and returns the display frequency.
// Until the history is full the latest value is used as is; after that the
// median of the history.
func (s *Stabilizer) Observe(freq float64) float64 {
	s.pending = false
	s.deadline = time.Time{}

	if len(s.history) == s.capacity {
		copy(s.history, s.history[1:])
		s.history = s.history[:s.capacity-1]
	}
	s.history = append(s.history, freq)

	if len(s.history) < s.capacity {
		s.display = freq
	} else {
		sorted := slices.Clone(s.history)
		slices.Sort(sorted)
		s.display = stat.Quantile(0.5, stat.Empirical, sorted, nil)
	}
	s.hasValue = true

	return s.display
}

// Miss records a frame without an estimate. The current reading survives
// until hold has elapsed since the first miss in a row.
func (s *Stabilizer) Miss(now time.Time) (float64, bool) {
	if !s.hasValue && len(s.history) == 0 {
		return 0, false
	}

	if !s.pending {
		s.pending = true
		s.deadline = now.Add(s.hold)
	}

	if !now.Before(s.deadline) {
		s.Reset()
		return 0, false
	}

	return s.display, s.hasValue
}

// Current returns the display frequency without changing state
func (s *Stabilizer) Current() (float64, bool) {
	return s.display, s.hasValue
}

// State reports the current display state
func (s *Stabilizer) State() State {
	switch {
	case !s.hasValue:
		return Idle
	case s.pending:
		return PendingClear
	default:
		return Tracking
	}
}

// Deadline returns the pending clear deadline, if one is armed
func (s *Stabilizer) Deadline() (time.Time, bool) {
	return s.deadline, s.pending
}

// Len returns the number of estimates in the history
func (s *Stabilizer) Len() int {
	return len(s.history)
}

// Reset discards the history, the reading and any pending deadline
func (s *Stabilizer) Reset() {
	s.history = s.history[:0]
	s.display = 0
	s.hasValue = false
	s.pending = false
	s.deadline = time.Time{}
}
