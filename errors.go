package cimba

import (
	"errors"
	"fmt"
)

// AssertionError is the typed error carried by the panic value raised when
// an assertRelease or assertDebug condition fails, per §7.1. Programmer
// contract violations are never reported as a Signal or a Logger
// call — they abort the coroutine that discovered them, and a driver that
// recovers at the trial boundary can distinguish "the simulation itself is
// broken" from an ordinary application panic via errors.As.
type AssertionError struct {
	Cond  string
	File  string
	Func  string
	Line  int
	Cause error
}

func (e *AssertionError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s:%d: %s: assertion failed: %s: %v", e.File, e.Line, e.Func, e.Cond, e.Cause)
	}
	return fmt.Sprintf("%s:%d: %s: assertion failed: %s", e.File, e.Line, e.Func, e.Cond)
}

// Unwrap returns the underlying cause, if any, for use with errors.Is/As.
func (e *AssertionError) Unwrap() error { return e.Cause }

// ErrObserverCycle is returned by ResourceGuard.RegisterObserver when adding
// an observer would create a cycle in the observer graph, per §9 Q2. A cycle
// would make a single Signal fan out to itself forever; Cimba rejects it at
// registration time rather than detecting it live.
var ErrObserverCycle = errors.New("cimba: registering this observer would create a cycle")

// ErrNotScheduled names the condition of a handle that no longer identifies
// an entry — either it was never valid, or a prior Cancel already removed
// it. No function in this package returns it: Cancel, Reschedule and
// Reprioritize report that condition by returning false.
var ErrNotScheduled = errors.New("cimba: handle is not currently scheduled")

// ErrSimulationTerminated names the condition of a Simulation used after
// Terminate, per §4.C's lifecycle (Initialize/Terminate/Clear). No function
// in this package returns it: Schedule panics and ExecuteNext returns false
// in that state.
var ErrSimulationTerminated = errors.New("cimba: simulation has been terminated")

// WrapError wraps an error with a message, preserving it as the cause for
// errors.Is/As, in the teacher's own cause-chain idiom.
func WrapError(message string, cause error) error {
	return fmt.Errorf("%s: %w", message, cause)
}
