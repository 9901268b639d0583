package cimba

// Signal is the application-level outcome of a blocking operation, per §6 and
// §7.2. Unlike Go's usual error values, a Signal is not a failure to be
// propagated up a call chain — it's a plain int64 the awaiting process
// inspects directly, exactly as the original distinguishes "programmer
// error" (assertion, §7.1) from "application signal" (§7.2, a Signal) from
// "operational log event" (§7.3, a Logger level).
type Signal int64

const (
	// SUCCESS (alias NORMAL) means a hold, wait_event, wait_process, or
	// guard wait completed the way the caller asked for — the timer
	// expired, the event arrived, the process finished, the resource was
	// granted.
	SUCCESS Signal = 0
	// NORMAL is an alias for SUCCESS, matching the vocabulary used for
	// process exit specifically (§4.D).
	NORMAL Signal = SUCCESS
	// INTERRUPTED means another process called Interrupt on the waiting
	// process before its wait was satisfied.
	INTERRUPTED Signal = 1
	// CANCELLED means the wait ended without being satisfied and without an
	// interrupt: ResourceGuard.Cancel withdrew the guard-queue entry, or
	// WaitEvent found no matching event to wait for.
	CANCELLED Signal = 2
	// STOPPED is the exit signal of a process finished by §4.D's Stop
	// operation: WaitProcess returns it to a process waiting on such a
	// target, and GetExitValue reports it. The stopped process itself is
	// never resumed with it.
	STOPPED Signal = 3
	// PREEMPTED means Resource.Preempt evicted this process from a unit it
	// had already been granted; the eviction is unconditional, whatever the
	// priorities involved.
	PREEMPTED Signal = 4
)

// FirstUserSignal is the lowest value reserved for caller-defined signals
// (§6: "user-defined ≥ 10"). Values in [10,FirstUserSignal+N) are free for
// callers to define their own Signal constants without colliding with the
// kernel's reserved range [0,10).
const FirstUserSignal Signal = 10
