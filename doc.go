// Package cimba provides a process-interaction discrete-event simulation
// kernel: processes are coroutines that run forward in simulated time,
// blocking on Hold, WaitEvent, WaitProcess, or a ResourceGuard-backed
// resource until the simulation's dispatch loop advances the clock far
// enough to wake them.
//
// # Architecture
//
// A [Simulation] owns a single event queue ([HandleHeap] of scheduled
// actions) and a [Scheduler] that runs every [Process] on its own stackful
// coroutine ([Coroutine]), emulated with a goroutine-per-coroutine and a
// pair of unbuffered channels rather than assembly stack-switching, since Go
// gives no portable way to swap stacks directly.
//
// Processes block cooperatively, never by parking the whole simulation:
// [Process.Hold] schedules a wake-up event and transfers control back to the
// dispatch loop; [Process.WaitEvent] and [Process.WaitProcess] do the same,
// chaining a wake onto an existing event or another process's termination;
// and anything contending for a shared resource — [Resource], [Store],
// [Buffer], [ObjectQueue], or [Condition] — blocks on a [ResourceGuard],
// component E's generic priority-ordered wait queue.
//
// # Execution Model
//
// [Simulation.ExecuteNext] dequeues the earliest-scheduled event (ties
// broken by priority, then insertion order, giving deterministic FIFO
// ordering for same-time same-priority events) and runs it; [Simulation.Execute]
// loops until the queue drains or the simulation is terminated. A Simulation
// and everything it schedules is confined to a single goroutine — the
// concurrency this package offers is across independent trials (see
// [Batch]), never within one trial's timeline.
//
// # Resources
//
//	printer := sim.NewResource("printer", 2)
//	sig := printer.Acquire(proc, 0)
//	if sig == SUCCESS {
//	    defer printer.Release(proc)
//	}
//
// Every resource type is a thin wrapper around [ResourceGuard][D]
// instantiated with a demand type (an amount for Resource/Store/Buffer, an
// empty struct for ObjectQueue, a predicate for Condition): Signal scans the
// wait queue in priority order, granting every waiter whose demand the
// caller-supplied predicate accepts, until the first it rejects.
//
// # Logging
//
// [Logger] wraps a [github.com/joeycumines/logiface] logger configured with
// a package-local text backend that stamps every line with the owning
// trial's index (when nonzero), the seed (at Warning and above), the
// simulated time it was logged at, and the name of the process that last
// started or resumed — one human-readable text line per record, without a
// function name or source line. [NewLoggerWithOptions]
// tunes that same text backend (e.g. lowering the minimum level); a
// structured backend such as [github.com/joeycumines/logiface-slog] is
// driven independently: [NewSlogLogger] builds its own logiface.Logger
// against its own Event type, for callers who want slog-compatible output
// alongside (or instead of) the Simulation's own text lines.
//
// # Metrics
//
// Passing [WithMetrics](true) to [NewSimulation] enables [Metrics]: a
// P-Square streaming percentile estimator (psquare.go) for resource-wait
// latency, exponentially-weighted-average depth tracking for the event
// queue and any named [ResourceGuard], and a rolling-window counter for
// events executed per wall-clock second.
//
// # Usage
//
//	sim := cimba.NewSimulation(cimba.WithMetrics(true))
//	sim.Initialize()
//
//	sim.CreateProcess("customer", 0, func(p *cimba.Process, arg any) any {
//	    p.Hold(5)
//	    return nil
//	}).Start(0, 0, nil)
//
//	sim.Execute()
package cimba
