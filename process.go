package cimba

// ProcState is the lifecycle state of a Process, per §4.D.
type ProcState int32

const (
	ProcCreated ProcState = iota
	ProcScheduled
	ProcRunning
	ProcWaiting
	ProcTerminated
)

// waitToken records what a waiting Process is waiting on; it is a value
// field of the Process (waits). Its cleared flag is set exactly once, by
// whichever of wake or Stop's event finds it still uncleared first, and
// every later wake is a no-op — this is the resolution to §9 Q3 (the
// stop-vs-guard-cancel race) recorded in DESIGN.md.
type waitToken struct {
	handle  Handle // the pending event or guard-queue entry, if any
	owned   bool   // true if handle belongs solely to this wait and may be cancelled
	cleared bool
}

// Process is a named, prioritized coroutine driven by a Simulation, per
// component D. Its body function runs on the Coroutine engine (component B)
// and blocks by calling Hold/WaitEvent/WaitProcess, which Transfer back to
// the simulation's dispatch loop until the corresponding event fires.
type Process struct {
	sim      *Simulation
	co       *Coroutine
	name     string
	priority int64
	state    ProcState
	waits    waitToken
	exitSig  Signal
	exitVal  any
	body     func(p *Process, arg any) any

	// onTerminate, if set, is invoked exactly once when the process
	// finishes, used by WaitProcess to chain a wake-up without a
	// dedicated guard.
	onTerminate func()

	// guardWaitCancel, if set, withdraws this process's pending entry from
	// whichever ResourceGuard it is currently waiting on. Generic guards
	// live outside this package's non-generic Process type, so this is a
	// closure rather than a typed back-reference.
	guardWaitCancel func()
}

// CreateProcess allocates a new Process with the given name, initial priority, and
// body. The body receives the Process and the argument passed to Start (or
// whatever later resumes it), and its return value becomes the process's
// exit value, per §4.D.
func (s *Simulation) CreateProcess(name string, priority int64, body func(p *Process, arg any) any) *Process {
	p := &Process{
		sim:      s,
		co:       s.sched.Create(s.opts.defaultStack),
		name:     name,
		priority: priority,
		body:     body,
	}
	s.processes[p] = struct{}{}
	s.registry.register(p)
	return p
}

// Name returns the process's name.
func (p *Process) Name() string { return p.name }

// Priority returns the process's current priority.
func (p *Process) Priority() int64 { return p.priority }

// SetPriority changes the process's priority for future scheduling
// decisions. It does not reprioritize an event or guard-queue entry the
// process is already waiting on.
func (p *Process) SetPriority(priority int64) { p.priority = priority }

// SetName renames the process, e.g. for diagnostics.
func (p *Process) SetName(name string) { p.name = name }

// State returns the process's current lifecycle state.
func (p *Process) State() ProcState { return p.state }

// GetExitValue returns the value the process exited with, and the Signal it
// exited under. Only meaningful once State is ProcTerminated.
func (p *Process) GetExitValue() (any, Signal) { return p.exitVal, p.exitSig }

// GetCurrent returns the process currently running on this simulation's
// Scheduler, or nil if the dispatch loop itself (not a Process) is current.
func (s *Simulation) GetCurrent() *Process {
	cur := s.sched.Current()
	for p := range s.processes {
		if p.co == cur {
			return p
		}
	}
	return nil
}

// Start schedules the process to begin running at atTime with the given
// dispatch priority (an event-queue priority, independent of the process's
// own Priority field), passing arg as the body's argument. It is a
// programmer error to Start a process more than once.
func (p *Process) Start(atTime float64, dispatchPriority int64, arg any) Handle {
	assertRelease(p.state == ProcCreated, "Process.Start: process already started")
	p.state = ProcScheduled
	return p.sim.Schedule(func() {
		p.run(arg)
	}, p, nil, atTime, dispatchPriority)
}

// run is the trampoline executed by the simulation's dispatch loop when a
// process's start (or resume) event fires.
func (p *Process) run(arg any) {
	p.state = ProcRunning
	p.sim.log.SetProcessName(p.name)
	var ret any
	if p.co.State() == CoroCreated {
		ret = p.sim.sched.Start(p.co, func(cp *Coroutine, a any) any {
			return p.body(p, a)
		}, arg)
	} else {
		ret = p.sim.sched.Transfer(p.co, arg)
	}
	p.onSuspendOrExit(ret)
}

// onSuspendOrExit interprets the value handed back across the last Transfer:
// if the coroutine finished, its state becomes ProcTerminated; otherwise the
// body has yielded from a wait (Hold, WaitEvent, WaitProcess or a guard
// wait) whose event or guard entry is already in flight, and the process
// becomes ProcWaiting.
func (p *Process) onSuspendOrExit(ret any) {
	if p.co.State() == CoroFinished {
		p.state = ProcTerminated
		p.exitVal = p.co.ExitValue()
		p.exitSig = NORMAL
		p.runOnTerminate()
		return
	}
	p.state = ProcWaiting
}

// Hold suspends the current process for duration (simulated time units),
// per §4.D, resuming it with SUCCESS once that much time has passed, or
// earlier with the interrupt's signal (INTERRUPTED, PREEMPTED, ...) if
// another process interrupts it. A process that is Stopped while holding is
// never resumed, so Hold does not return in that case.
func (p *Process) Hold(duration float64) Signal {
	assertRelease(p.sim.GetCurrent() == p, "Process.Hold: called by a process that is not current")
	handle := p.sim.Schedule(func() {
		p.wake(SUCCESS)
	}, p, "hold", p.sim.now+duration, p.priority)
	p.waits = waitToken{handle: handle, owned: true}
	sig := p.sim.sched.Yield(nil)
	return sig.(Signal)
}

// wake resumes p with sig, transferring control back into its coroutine.
// Called from the dispatch loop (a Hold timer, a WaitEvent wrapper, an
// interrupt event), from a ResourceGuard granting or cancelling p's entry,
// and from the termination hook WaitProcess installs. Stop does not call it.
func (p *Process) wake(sig Signal) {
	if p.waits.cleared {
		return
	}
	p.sim.assertInvariant(p.state == ProcWaiting, "Process.wake: process was not waiting")
	p.waits.cleared = true
	p.state = ProcRunning
	p.sim.log.SetProcessName(p.name)
	ret := p.sim.sched.Transfer(p.co, sig)
	p.onSuspendOrExit(ret)
}

// Interrupt wakes a waiting process early with INTERRUPTED, withdrawing
// whatever event or guard-queue entry it was waiting on, at priority 0.
func (p *Process) Interrupt() {
	p.InterruptWithSignal(INTERRUPTED, 0)
}

// InterruptWithSignal implements §4.D's interrupt(pp, sig, pri): it schedules
// an interrupt event at now, priority pri, rather than resuming p directly.
// When that event fires, if p is still waiting, its pending event or
// guard-queue entry is withdrawn and p is woken with sig; otherwise the
// event is a no-op (p already ran, so an earlier interrupt or the natural
// wake got there first — "only the first that arrives with the process
// still holding actually preempts it"). Deferring through a scheduled event,
// rather than transferring into p's coroutine from inside the caller's own
// body, is what §5 means by "cancellation always reaches the blocked
// process via a scheduled wake event... never by direct resume" — it also
// keeps p's own onward Yield targeting whoever the dispatcher resumes it
// from, not a coroutine.caller left stale by a nested transfer.
//
// sig must be nonzero; PREEMPTED (used by Resource.Preempt, §4.F) is the
// one concrete case the spec names besides the default INTERRUPTED.
func (p *Process) InterruptWithSignal(sig Signal, pri int64) {
	assertRelease(sig != 0, "Process.InterruptWithSignal: sig must be nonzero")
	p.sim.Schedule(func() {
		if p.state != ProcWaiting || p.waits.cleared {
			return
		}
		if p.waits.owned && p.waits.handle != NoHandle {
			p.sim.Cancel(p.waits.handle)
		}
		if p.guardWaitCancel != nil {
			cancel := p.guardWaitCancel
			p.guardWaitCancel = nil
			cancel()
		}
		p.wake(sig)
	}, p, "interrupt", p.sim.now, pri)
}

// WaitEvent suspends the current process until any scheduled event matching
// match fires, per §4.D. The matching event's own action still runs
// normally; the waiting process is additionally resumed with SUCCESS once
// it has, via a wrapper installed in place of the event's original action —
// the event's Handle is never cancelled by Interrupt here, since it is not
// this process's alone to withdraw (the wake is simply a no-op if this
// process was already interrupted or stopped first, via waitToken.cleared).
func (p *Process) WaitEvent(match func(subject, object any) bool) Signal {
	assertRelease(p.sim.GetCurrent() == p, "Process.WaitEvent: called by a process that is not current")
	handle, ok := p.sim.Find(match)
	if !ok {
		return CANCELLED
	}
	entry, _ := p.sim.queue.Payload(handle)
	original := entry.action
	entry.action = func() {
		original()
		p.wake(SUCCESS)
	}
	p.waits = waitToken{handle: handle, owned: false}
	sig := p.sim.sched.Yield(nil)
	return sig.(Signal)
}

// WaitProcess suspends the current process until other terminates, resuming
// with NORMAL if other finished via Exit (or its body returned), or STOPPED
// if other was finished externally via Stop, per §4.D/§8 ("its return value
// encodes which terminator ran"). other's exit value is retrievable via
// other.GetExitValue once it has terminated.
func (p *Process) WaitProcess(other *Process) Signal {
	assertRelease(p.sim.GetCurrent() == p, "Process.WaitProcess: called by a process that is not current")
	if other.state == ProcTerminated {
		return other.exitSig
	}
	prevBody := other.onTerminate
	other.onTerminate = func() {
		if prevBody != nil {
			prevBody()
		}
		p.wake(other.exitSig)
	}
	p.waits = waitToken{}
	sig := p.sim.sched.Yield(nil)
	return sig.(Signal)
}

// Stop forcibly terminates the process with retval, per §4.D: "schedule a
// 'stop event' at now that sets pp.exit_value, marks the coroutine FINISHED,
// and cancels any outstanding waits_for entry. Does not switch." If it is
// currently waiting, the backing goroutine is released via the Coroutine
// engine's stop mechanism once that event fires; if it is the current
// process, this behaves like Exit (there is nothing to defer — it is
// already running inside the dispatch of its own event). Like
// InterruptWithSignal, deferring through a scheduled event rather than
// tearing the process down synchronously from inside whatever other
// process's body called Stop is what keeps any WaitProcess waiters woken
// from dispatcher context, never a direct resume out of a nested call.
func (p *Process) Stop(retval any) {
	if p.sim.GetCurrent() == p {
		p.Exit(retval)
		return
	}
	p.sim.Schedule(func() {
		if p.state == ProcTerminated {
			return
		}
		if !p.waits.cleared {
			if p.waits.owned && p.waits.handle != NoHandle {
				p.sim.Cancel(p.waits.handle)
			}
			if p.guardWaitCancel != nil {
				cancel := p.guardWaitCancel
				p.guardWaitCancel = nil
				cancel()
			}
			p.waits.cleared = true
		}
		p.sim.sched.Stop(p.co, retval)
		p.state = ProcTerminated
		p.exitVal = retval
		p.exitSig = STOPPED
		p.runOnTerminate()
	}, p, "stop", p.sim.now, p.priority)
}

// Exit finishes the current process with retval, per §4.D. It must be
// called from within the process's own body.
func (p *Process) Exit(retval any) {
	assertRelease(p.sim.GetCurrent() == p, "Process.Exit: called by a process that is not current")
	p.exitSig = NORMAL
	p.sim.sched.Exit(p.co, retval)
}

// Destroy releases a terminated process's resources.
func (p *Process) Destroy() {
	assertRelease(p.state == ProcTerminated, "Process.Destroy: process has not terminated")
	delete(p.sim.processes, p)
	p.sim.sched.Destroy(p.co)
}

func (p *Process) runOnTerminate() {
	if p.onTerminate != nil {
		fn := p.onTerminate
		p.onTerminate = nil
		fn()
	}
}
