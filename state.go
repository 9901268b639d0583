package cimba

import "sync/atomic"

// TrialState is the lifecycle of one Simulation trial as seen by a Batch
// runner (runner.go), generalizing the teacher's FastState machine
// (state.go) from an I/O event loop's awake/running/sleeping states to the
// four states a batch of independent trials actually has. Cimba's Non-goal
// of "real concurrency within one trial" does not exclude running many
// independent trials concurrently — each still drives its own single-
// threaded Simulation — so this atomic state machine stays genuinely
// concurrent and exercised, coordinating a Batch's goroutines with an
// external caller polling progress.
type TrialState uint64

const (
	// TrialQueued means a trial has been registered with a Batch but its
	// goroutine has not yet started running Simulation.Execute.
	TrialQueued TrialState = 0
	// TrialRunning means the trial's goroutine is actively executing.
	TrialRunning TrialState = 1
	// TrialCompleted means the trial's Run function returned without a
	// panic.
	TrialCompleted TrialState = 2
	// TrialFailed means the trial's goroutine recovered a panic (an
	// AssertionError or otherwise) and the trial was abandoned.
	TrialFailed TrialState = 3
)

func (s TrialState) String() string {
	switch s {
	case TrialQueued:
		return "Queued"
	case TrialRunning:
		return "Running"
	case TrialCompleted:
		return "Completed"
	case TrialFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// FastState is a lock-free state machine with cache-line padding, adapted
// unchanged in structure from the teacher's own FastState: a Batch may poll
// hundreds of trial states from a reporting goroutine while each trial's own
// goroutine transitions its state, so the cache-line separation avoiding
// false sharing still matters here exactly as it did guarding the teacher's
// event loop's hot state word.
type FastState struct { //nolint:govet
	_ [64]byte
	v atomic.Uint64
	_ [56]byte
}

// NewFastState creates a new state machine in the Queued state.
func NewFastState() *FastState {
	s := &FastState{}
	s.v.Store(uint64(TrialQueued))
	return s
}

// Load returns the current state atomically.
func (s *FastState) Load() TrialState { return TrialState(s.v.Load()) }

// Store atomically stores a new state.
func (s *FastState) Store(state TrialState) { s.v.Store(uint64(state)) }

// TryTransition attempts to atomically transition from one state to
// another, returning true on success.
func (s *FastState) TryTransition(from, to TrialState) bool {
	return s.v.CompareAndSwap(uint64(from), uint64(to))
}

// IsTerminal reports whether the trial has finished, successfully or not.
func (s *FastState) IsTerminal() bool {
	st := s.Load()
	return st == TrialCompleted || st == TrialFailed
}
