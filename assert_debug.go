//go:build cimbadebug

package cimba

import "runtime"

// assertDebug panics with an *AssertionError if cond is false. It compiles
// only under the cimbadebug build tag and guards postconditions and
// invariants expensive enough (an O(n) heap-consistency walk, a check that
// waits_for was cleared exactly once) that production trials shouldn't pay
// for them, per §7.1's debug/release assert-tier split.
func assertDebug(cond bool, msg string) {
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

const debugAssertionsEnabled = true
