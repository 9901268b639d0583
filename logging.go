package cimba

import (
	"io"
	"sync/atomic"

	"github.com/joeycumines/logiface"
)

// Level is Cimba's log level type, a direct alias of logiface.Level so the
// teacher's own syslog-style level vocabulary (and its String method) is
// reused rather than reinvented, per §7.3.
type Level = logiface.Level

const (
	LevelTrace   = logiface.LevelTrace
	LevelDebug   = logiface.LevelDebug
	LevelInfo    = logiface.LevelInformational
	LevelNotice  = logiface.LevelNotice
	LevelWarning = logiface.LevelWarning
	LevelError   = logiface.LevelError
)

// Logger is Cimba's structured-logging facade, wrapping a
// logiface.Logger[*textEvent], per SPEC_FULL.md's ambient-stack logging
// section. It stamps every record with the trial index (written only when
// nonzero), seed (for Warning and above), current simulated time, and the
// process name last set by SetProcessName, in the line layout documented on
// textEvent (which has no function name or source line field).
//
// A Logger is not safe for concurrent use from more than one goroutine, same
// as the Simulation it is attached to (§5: single timeline per trial).
type Logger struct {
	inner   *logiface.Logger[*textEvent]
	backend *textBackend
}

// NewLogger constructs a Logger writing the legacy text format to w. If w is
// nil, it writes to os.Stderr, matching the teacher's DefaultLogger
// fallback.
func NewLogger(w io.Writer) *Logger {
	backend := newDefaultBackend()
	if w != nil {
		backend.out = w
	}
	inner := logiface.New[*textEvent](
		logiface.WithEventFactory[*textEvent](backend),
		logiface.WithWriter[*textEvent](backend),
		logiface.WithEventReleaser[*textEvent](backend),
		logiface.WithLevel[*textEvent](LevelTrace),
	)
	return &Logger{inner: inner, backend: backend}
}

// NewLoggerWithOptions constructs a Logger from caller-supplied logiface
// options against the concrete *textEvent type — e.g. to lower the minimum
// level — composed with Cimba's own factory/writer/releaser.
func NewLoggerWithOptions(w io.Writer, opts ...logiface.Option[*textEvent]) *Logger {
	backend := newDefaultBackend()
	if w != nil {
		backend.out = w
	}
	all := append([]logiface.Option[*textEvent]{
		logiface.WithEventFactory[*textEvent](backend),
		logiface.WithWriter[*textEvent](backend),
		logiface.WithEventReleaser[*textEvent](backend),
	}, opts...)
	return &Logger{inner: logiface.New[*textEvent](all...), backend: backend}
}

// SetTrialIndex stamps subsequent records with trialIndex, per §6 ("omitted
// for a single, non-indexed trial" when left at 0).
func (l *Logger) SetTrialIndex(trialIndex int) {
	l.backend.mu.Lock()
	l.backend.trialIndex = trialIndex
	l.backend.mu.Unlock()
}

// SetSeed stamps subsequent Warning-and-above records with seed.
func (l *Logger) SetSeed(seed int64) {
	l.backend.mu.Lock()
	l.backend.seed = seed
	l.backend.mu.Unlock()
}

// SetProcessName stamps subsequent records with the name of the
// currently-running process. The process runtime calls this when a process
// starts or resumes (Process.run and Process.wake); it is not reset when
// control returns to the dispatch loop, so a record logged from an event
// action carries the name of the process that ran last.
func (l *Logger) SetProcessName(name string) {
	l.backend.mu.Lock()
	l.backend.process = name
	l.backend.mu.Unlock()
}

// SetClock installs a callback returning the simulation's current time, so
// every record is stamped with the simulated time it was logged at (not wall
// time).
func (l *Logger) SetClock(now func() float64) {
	l.backend.simTime = now
}

// Trace, Debug, Info, Notice, Warn, and Err return a *logiface.Builder for
// the named level, or nil if that level is disabled; nil builders are safe
// no-ops for every chained call (logiface's own contract).
func (l *Logger) Trace() *logiface.Builder[*textEvent] { return l.inner.Trace() }
func (l *Logger) Debug() *logiface.Builder[*textEvent] { return l.inner.Debug() }
func (l *Logger) Info() *logiface.Builder[*textEvent]  { return l.inner.Info() }
func (l *Logger) Notice() *logiface.Builder[*textEvent] {
	return l.inner.Notice()
}
func (l *Logger) Warn() *logiface.Builder[*textEvent] { return l.inner.Warning() }
func (l *Logger) Err() *logiface.Builder[*textEvent]  { return l.inner.Err() }

// Fatal logs at logiface's Alert level then panics with an *AssertionError,
// aborting the whole simulation, per §7.3's Fatal/Error/Warning split
// ("Fatal" aborts the run; "Error" is left for the driver to decide whether
// to abandon just the current trial).
func (l *Logger) Fatal(msg string) {
	if b := l.inner.Alert(); b != nil {
		b.Log(msg)
	}
	fatalSeq.Add(1)
	panic(&AssertionError{Cond: "fatal: " + msg})
}

// fatalSeq counts Fatal calls, so tests can assert one occurred without
// depending on panic/recover ordering.
var fatalSeq atomic.Int64

// FatalCount returns the number of Fatal calls made by any Logger in this
// process, for test diagnostics only.
func FatalCount() int64 { return fatalSeq.Load() }
