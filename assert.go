package cimba

import "runtime"

// assertRelease panics with an *AssertionError if cond is false. It is
// always compiled in and guards preconditions — programmer contract
// violations that must never be silently tolerated (an out-of-range
// priority, transferring into a coroutine that isn't suspended, waiting on
// a guard that was never initialized).
func assertRelease(cond bool, msg string) {
	if cond {
		return
	}
	pc, file, line, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	name := "unknown"
	if fn != nil {
		name = fn.Name()
	}
	panic(&AssertionError{Cond: msg, File: file, Func: name, Line: line})
}

// assertInvariant checks an invariant that is normally only worth its cost
// under the cimbadebug build tag, but can be forced on in a release build
// via WithStrictAsserts(true) — e.g. for a driver that would rather pay the
// overhead than risk a silent invariant violation in a long batch run.
func (s *Simulation) assertInvariant(cond bool, msg string) {
	if cond || !(debugAssertionsEnabled || s.opts.strictAsserts) {
		return
	}
	pc, file, line, _ := runtime.Caller(1)
	fn := runtime.FuncForPC(pc)
	name := "unknown"
	if fn != nil {
		name = fn.Name()
	}
	panic(&AssertionError{Cond: msg, File: file, Func: name, Line: line})
}
