package cimba

// guardLess orders waiters by (priority desc, handle asc): matching the
// event queue's own convention (§4.E/§4.C), a higher priority number is
// more urgent — the process placed at higher priority is served first when
// a guard signals — with FIFO among equal priorities.
func guardLess(a, b Keys) bool {
	if a.IKey != b.IKey {
		return a.IKey > b.IKey
	}
	return a.Handle < b.Handle
}

// waiter is one pending demand registered against a ResourceGuard[D].
type waiter[D any] struct {
	process    *Process
	demand     D
	enqueuedAt float64
}

// ResourceGuard is component E: a priority-ordered wait queue of processes
// each registered with a demand of type D (amount requested from a Store,
// side requested from a Buffer, predicate state for a Condition, and so
// on), tested against a caller-supplied satisfaction predicate whenever
// Signal is called. It owns none of the resource's actual state — callers
// (Resource/Store/Buffer/ObjectQueue/Condition, component F) hold that and
// pass it into Signal's predicate closure.
type ResourceGuard[D any] struct {
	sim         *Simulation
	queue       *HandleHeap[*waiter[D]]
	observers   []*ResourceGuard[D]
	metricsName string
}

// SetMetricsName assigns the name this guard's depth is reported under via
// QueueMetrics.UpdateGuard, when the owning Simulation has metrics enabled.
// Resource/Store/Buffer/ObjectQueue/Condition each call this with a
// descriptive name (component F).
func (g *ResourceGuard[D]) SetMetricsName(name string) { g.metricsName = name }

func (g *ResourceGuard[D]) reportDepth() {
	if m := g.sim.metrics; m != nil && g.metricsName != "" {
		m.Queue.UpdateGuard(g.metricsName, g.queue.Len())
	}
}

// NewResourceGuard creates an empty guard attached to sim.
func NewResourceGuard[D any](sim *Simulation) *ResourceGuard[D] {
	return &ResourceGuard[D]{
		sim:   sim,
		queue: NewHandleHeap[*waiter[D]](guardLess),
	}
}

// Wait enqueues p with demand at priority, suspending p until Signal grants
// it, Cancel withdraws it, or it is Interrupted/Stopped externally. It
// returns the Signal the process was ultimately woken with.
func (g *ResourceGuard[D]) Wait(p *Process, demand D, priority int64) Signal {
	assertRelease(p.sim.GetCurrent() == p, "ResourceGuard.Wait: called by a process that is not current")
	assertRelease(g.sim == p.sim, "ResourceGuard.Wait: process belongs to a different simulation")
	handle := g.queue.Enqueue(&waiter[D]{process: p, demand: demand, enqueuedAt: p.sim.now}, 0, priority, 0)
	p.waits = waitToken{handle: handle, owned: false}
	p.guardWaitCancel = func() { g.queue.Cancel(handle) }
	g.reportDepth()
	sig := p.sim.sched.Yield(nil)
	return sig.(Signal)
}

// recordWait reports a waiter's completed wait duration to the simulation's
// metrics, if enabled.
func (g *ResourceGuard[D]) recordWait(w *waiter[D]) {
	if m := g.sim.metrics; m != nil {
		m.WaitLatency.Record(g.sim.now - w.enqueuedAt)
	}
}

// Signal scans the queue in priority order, calling satisfy(demand) for
// each waiter in turn; whenever satisfy returns true, that waiter is
// removed and its process is woken with SUCCESS, and the scan continues —
// letting a single Signal call (e.g. "units became available") grant
// several waiters in one pass, per §4.E. Signal stops at the first waiter
// satisfy rejects, preserving priority-queue semantics (a later, lower-
// priority waiter is never served ahead of one that is blocked on a demand
// too large to fill yet).
//
// After granting what it can, Signal propagates to every registered
// observer, per §4.E's observer chaining.
func (g *ResourceGuard[D]) Signal(satisfy func(demand D) bool) {
	for {
		w, ok := g.queue.PeekRoot()
		if !ok {
			break
		}
		if !satisfy(w.demand) {
			break
		}
		g.queue.Dequeue()
		g.recordWait(w)
		w.process.guardWaitCancel = nil
		w.process.wake(SUCCESS)
	}
	g.reportDepth()
	for _, obs := range g.observers {
		obs.Signal(func(d D) bool { return satisfy(d) })
	}
}

// Cancel withdraws p's own pending wait (called by p itself, or on its
// behalf), waking it with CANCELLED. It is a no-op if p is not currently
// waiting on this guard.
func (g *ResourceGuard[D]) Cancel(p *Process) bool {
	handle, ok := g.queue.Find(func(w *waiter[D]) bool { return w.process == p })
	if !ok {
		return false
	}
	g.queue.Cancel(handle)
	p.guardWaitCancel = nil
	g.reportDepth()
	p.wake(CANCELLED)
	return true
}

// Remove withdraws p's wait without waking it — used when the process is
// being destroyed or has already been woken via some other path, per §4.E.
func (g *ResourceGuard[D]) Remove(p *Process) bool {
	handle, ok := g.queue.Find(func(w *waiter[D]) bool { return w.process == p })
	if !ok {
		return false
	}
	g.queue.Cancel(handle)
	p.guardWaitCancel = nil
	g.reportDepth()
	return true
}

// Len returns the number of processes currently waiting on this guard.
func (g *ResourceGuard[D]) Len() int { return g.queue.Len() }

// RegisterObserver adds obs as an observer of g: every Signal on g also
// invokes Signal on obs (and transitively, obs's own observers). It returns
// ErrObserverCycle, per §9 Q2, if obs can already reach g through the
// observer graph — registering it would otherwise loop forever.
func (g *ResourceGuard[D]) RegisterObserver(obs *ResourceGuard[D]) error {
	if obs == g || obs.reaches(g) {
		return ErrObserverCycle
	}
	g.observers = append(g.observers, obs)
	return nil
}

// reaches reports whether g can reach target by following observer edges.
func (g *ResourceGuard[D]) reaches(target *ResourceGuard[D]) bool {
	if g == target {
		return true
	}
	for _, obs := range g.observers {
		if obs.reaches(target) {
			return true
		}
	}
	return false
}

// UnregisterObserver removes obs from g's observer list, if present.
func (g *ResourceGuard[D]) UnregisterObserver(obs *ResourceGuard[D]) {
	for i, o := range g.observers {
		if o == obs {
			g.observers = append(g.observers[:i], g.observers[i+1:]...)
			return
		}
	}
}
