//go:build !cimbadebug

package cimba

// assertDebug is a no-op outside the cimbadebug build tag, so expensive
// invariant checks cost nothing in a production build.
func assertDebug(cond bool, msg string) {
	_ = cond
	_ = msg
}

const debugAssertionsEnabled = false
