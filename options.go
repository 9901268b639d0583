// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package cimba

// simOptions holds configuration resolved from SimOption values, generalizing
// the teacher's loopOptions/LoopOption pattern (options.go) from event-loop
// concerns (microtask ordering, fast-path mode) to the simulation kernel's
// own concerns: start time, default coroutine stack size, assertion
// strictness, metrics, and logging.
type simOptions struct {
	startTime      float64
	defaultStack   int
	strictAsserts  bool
	metricsEnabled bool
	logger         *Logger
}

// SimOption configures a Simulation instance.
type SimOption interface {
	applySim(*simOptions)
}

type simOptionFunc func(*simOptions)

func (f simOptionFunc) applySim(opts *simOptions) { f(opts) }

// WithStartTime sets the simulation's initial clock value (§4.C's
// Initialize). Defaults to 0.
func WithStartTime(t float64) SimOption {
	return simOptionFunc(func(opts *simOptions) { opts.startTime = t })
}

// WithDefaultStackSize sets the stack size hint passed to Scheduler.Create
// when a Process is created without an explicit override. It has no effect
// on Go goroutines (they grow their own stacks) but is kept for API parity
// with the original's fixed-size stack allocation model, per §3.
func WithDefaultStackSize(bytes int) SimOption {
	return simOptionFunc(func(opts *simOptions) { opts.defaultStack = bytes })
}

// WithStrictAsserts forces Simulation.assertInvariant checks on even in a
// non-cimbadebug build, at the cost of their normal debug-tier overhead; see
// assert.go.
func WithStrictAsserts(enabled bool) SimOption {
	return simOptionFunc(func(opts *simOptions) { opts.strictAsserts = enabled })
}

// WithMetrics enables queue-depth and wait-latency metric collection on the
// Simulation (see metrics.go). Disabled by default to keep the hot path
// allocation-free, matching the teacher's own WithMetrics rationale.
func WithMetrics(enabled bool) SimOption {
	return simOptionFunc(func(opts *simOptions) { opts.metricsEnabled = enabled })
}

// WithLogger injects a *Logger. If omitted, NewSimulation constructs a
// default text-format logger writing to the configured default writer.
func WithLogger(l *Logger) SimOption {
	return simOptionFunc(func(opts *simOptions) { opts.logger = l })
}

// resolveSimOptions applies opts over the zero-value defaults (start time 0,
// a default stack size, asserts non-strict, metrics off, default logger).
func resolveSimOptions(opts []SimOption) simOptions {
	cfg := simOptions{
		defaultStack: 64 * 1024,
		logger:       NewLogger(nil),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt.applySim(&cfg)
	}
	return cfg
}
