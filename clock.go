package cimba

import "strings"

// eventEntry is one scheduled action on the simulation timeline, per §4.C.
// subject and object are opaque tags a caller can later match on via Find;
// the event queue never interprets them.
type eventEntry struct {
	action  func()
	subject any
	object  any
}

// eventLess orders eventEntry Keys by (DKey asc, IKey desc, Handle asc): time
// first, then higher priority before lower (§4.C: "dkey ascending, ikey
// descending, handle ascending" — a larger IKey is more urgent and runs
// first among events due at the same instant), and insertion order last,
// giving deterministic FIFO among equal time+priority entries exactly as
// §8's "FIFO at equal time+priority" scenario requires.
func eventLess(a, b Keys) bool {
	if a.DKey != b.DKey {
		return a.DKey < b.DKey
	}
	if a.IKey != b.IKey {
		return a.IKey > b.IKey
	}
	return a.Handle < b.Handle
}

// SimState is the lifecycle state of a Simulation, generalizing the
// teacher's FastState machine (state.go) from an I/O reactor's
// awake/running/sleeping/terminating states to the three states a DES trial
// actually has, per §4.C.
type SimState int32

const (
	SimCreated SimState = iota
	SimRunning
	SimTerminated
)

// Simulation is the event queue and clock of component C: a single logical
// timeline of scheduled actions, advanced one event at a time by
// ExecuteNext. It owns the Scheduler (component B) that every Process
// (component D) runs on, and is never shared between goroutines — one
// Simulation models one trial, with its own Scheduler rather than one
// global to the program.
type Simulation struct {
	queue *HandleHeap[*eventEntry]
	now   float64
	state SimState
	sched *Scheduler
	opts  simOptions
	log   *Logger

	processes map[*Process]struct{}
	registry  *processRegistry
	metrics   *Metrics
}

// NewSimulation creates a Simulation ready for Initialize. opts configure
// the start time, default stack size, assertion strictness, metrics, and
// logger, per SPEC_FULL.md's configuration section.
func NewSimulation(opts ...SimOption) *Simulation {
	cfg := resolveSimOptions(opts)
	s := &Simulation{
		queue:     NewHandleHeap[*eventEntry](eventLess),
		now:       cfg.startTime,
		state:     SimCreated,
		sched:     NewScheduler(),
		opts:      cfg,
		log:       cfg.logger,
		processes: make(map[*Process]struct{}),
		registry:  newProcessRegistry(),
	}
	s.log.SetClock(func() float64 { return s.now })
	if cfg.metricsEnabled {
		s.metrics = NewMetrics()
	}
	return s
}

// ScavengeProcesses walks up to batchSize entries of the process registry,
// reclaiming bookkeeping for any process that has been garbage collected or
// has terminated. Drivers running long or many-process trials should call
// this periodically (e.g. once per N events) rather than never, per the
// teacher's own registry scavenging idiom.
func (s *Simulation) ScavengeProcesses(batchSize int) { s.registry.Scavenge(batchSize) }

// LiveProcessCount returns the registry's current count of processes it
// believes are still alive, as of the last ScavengeProcesses call.
func (s *Simulation) LiveProcessCount() int { return s.registry.Live() }

// Metrics returns the simulation's metrics collector, or nil if
// WithMetrics(true) was not passed to NewSimulation.
func (s *Simulation) Metrics() *Metrics { return s.metrics }

// Log returns the simulation's own logger, so process bodies can emit
// trial-tagged diagnostics (e.g. p.sim.Log().Debug().Log("acquired printer"))
// without threading a separate logger through application code.
func (s *Simulation) Log() *Logger { return s.log }

// Initialize transitions the simulation into SimRunning at its configured
// start time. Calling it twice is a programmer error.
func (s *Simulation) Initialize() {
	assertRelease(s.state == SimCreated, "Simulation.Initialize: already initialized")
	s.state = SimRunning
}

// Terminate transitions the simulation to SimTerminated. Further ExecuteNext
// calls return false, and a further Schedule call is a programmer error
// (it panics).
func (s *Simulation) Terminate() {
	s.state = SimTerminated
}

// Clear empties the event queue without changing the clock or lifecycle
// state, per §4.C. It is used by drivers resetting a trial for reuse.
func (s *Simulation) Clear() {
	s.queue = NewHandleHeap[*eventEntry](eventLess)
}

// Now returns the simulation's current time.
func (s *Simulation) Now() float64 { return s.now }

// State returns the simulation's lifecycle state.
func (s *Simulation) State() SimState { return s.state }

// Scheduler returns the coroutine scheduler driving this simulation's
// processes.
func (s *Simulation) Scheduler() *Scheduler { return s.sched }

// Schedule enqueues action to run at the given absolute time and priority,
// tagged with subject/object for later Find/Count/Cancel matching, and
// returns its Handle. time must be >= Now(); scheduling into the past is a
// programmer error (§4.C).
func (s *Simulation) Schedule(action func(), subject, object any, time float64, priority int64) Handle {
	assertRelease(s.state != SimTerminated, "Simulation.Schedule: simulation is terminated")
	assertRelease(time >= s.now, "Simulation.Schedule: time is in the past")
	return s.queue.Enqueue(&eventEntry{action: action, subject: subject, object: object}, time, priority, 0)
}

// ExecuteNext advances the clock to the earliest scheduled event, removes
// it, and runs its action. It returns false (a no-op) if the queue is empty
// or the simulation is not running.
func (s *Simulation) ExecuteNext() bool {
	if s.state != SimRunning || s.queue.IsEmpty() {
		return false
	}
	keys, _ := s.queue.PeekKeys()
	e := s.queue.Dequeue()
	s.now = keys.DKey
	if s.metrics != nil {
		s.metrics.Queue.UpdateEventQueue(s.queue.Len())
		s.metrics.Throughput.Increment()
	}
	e.action()
	return true
}

// Execute runs ExecuteNext in a loop until the queue is exhausted or the
// simulation is terminated.
func (s *Simulation) Execute() {
	for s.ExecuteNext() {
	}
}

// IsScheduled reports whether handle still identifies a pending event.
func (s *Simulation) IsScheduled(handle Handle) bool { return s.queue.IsScheduled(handle) }

// Time returns the scheduled time of handle, if pending.
func (s *Simulation) Time(handle Handle) (float64, bool) {
	k, ok := s.queue.Keys(handle)
	if !ok {
		return 0, false
	}
	return k.DKey, true
}

// Priority returns the scheduled priority of handle, if pending.
func (s *Simulation) Priority(handle Handle) (int64, bool) {
	k, ok := s.queue.Keys(handle)
	if !ok {
		return 0, false
	}
	return k.IKey, true
}

// Cancel withdraws the pending event identified by handle. It returns false
// if handle is not (or is no longer) scheduled.
func (s *Simulation) Cancel(handle Handle) bool { return s.queue.Cancel(handle) }

// Reschedule moves the pending event identified by handle to a new time.
func (s *Simulation) Reschedule(handle Handle, newTime float64) bool {
	return s.queue.Reschedule(handle, newTime)
}

// Reprioritize changes the priority of the pending event identified by
// handle.
func (s *Simulation) Reprioritize(handle Handle, newPriority int64) bool {
	return s.queue.Reprioritize(handle, newPriority)
}

// Find returns the handle of the first pending event whose subject/object
// satisfy match, per §4.C's pattern search (generalized per §9's
// closure-over-sentinel-wildcard resolution, see handleheap.go's Find).
func (s *Simulation) Find(match func(subject, object any) bool) (Handle, bool) {
	return s.queue.Find(func(e *eventEntry) bool { return match(e.subject, e.object) })
}

// Count returns the number of pending events whose subject/object satisfy
// match.
func (s *Simulation) Count(match func(subject, object any) bool) int {
	return s.queue.Count(func(e *eventEntry) bool { return match(e.subject, e.object) })
}

// CancelMatching cancels every pending event whose subject/object satisfy
// match and returns the count cancelled.
func (s *Simulation) CancelMatching(match func(subject, object any) bool) int {
	return s.queue.CancelMatching(func(e *eventEntry) bool { return match(e.subject, e.object) })
}

// QueuePrint dumps the pending event queue, one line per entry, for
// debugging only (§6): not a stable interface.
func (s *Simulation) QueuePrint(format func(subject, object any) string) string {
	var sb strings.Builder
	s.queue.Print(&sb, func(e *eventEntry) string { return format(e.subject, e.object) })
	return sb.String()
}
