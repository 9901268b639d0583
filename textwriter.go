package cimba

import (
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/joeycumines/logiface"
)

// textEvent is Cimba's concrete logiface.Event implementation, producing one
// text line per record:
//
//	[<trial_index>] [seed=<seed>] <time> <process_name> [<Level>]: <msg>: <err> <key>=<val>...
//
// The trial index is written only when it is nonzero, the seed only at
// Warning or more severe, the process name as "-" when none is set, and the
// message and error parts only when present. The line carries no function
// name or source line number.
//
// It is grounded directly on the pack's logiface-slog and logiface-stumpy
// adapters (both implement EventFactory/Writer/EventReleaser against a
// concrete Event struct rather than the generic logiface.Event interface),
// adapted here to Cimba's own fixed text layout instead of JSON.
type textEvent struct {
	logiface.UnimplementedEvent

	level Level
	msg   string
	err   error
	kv    []textField

	trialIndex int
	seed       int64
	simTime    float64
	process    string
}

type textField struct {
	key string
	val string
}

func (e *textEvent) Level() logiface.Level { return e.level }

func (e *textEvent) AddField(key string, val any) {
	e.kv = append(e.kv, textField{key, fmt.Sprint(val)})
}

func (e *textEvent) AddMessage(msg string) bool { e.msg = msg; return true }

func (e *textEvent) AddError(err error) bool { e.err = err; return true }

func (e *textEvent) AddString(key string, val string) bool {
	e.kv = append(e.kv, textField{key, val})
	return true
}

func (e *textEvent) AddInt(key string, val int) bool {
	e.kv = append(e.kv, textField{key, fmt.Sprint(val)})
	return true
}

func (e *textEvent) AddInt64(key string, val int64) bool {
	e.kv = append(e.kv, textField{key, fmt.Sprint(val)})
	return true
}

func (e *textEvent) AddFloat64(key string, val float64) bool {
	e.kv = append(e.kv, textField{key, fmt.Sprint(val)})
	return true
}

func (e *textEvent) AddBool(key string, val bool) bool {
	e.kv = append(e.kv, textField{key, fmt.Sprint(val)})
	return true
}

func (e *textEvent) AddTime(key string, val time.Time) bool {
	e.kv = append(e.kv, textField{key, val.Format(time.RFC3339Nano)})
	return true
}

func (e *textEvent) AddDuration(key string, val time.Duration) bool {
	e.kv = append(e.kv, textField{key, val.String()})
	return true
}

func (e *textEvent) AddBase64Bytes(key string, val []byte, enc *base64.Encoding) bool {
	e.kv = append(e.kv, textField{key, enc.EncodeToString(val)})
	return true
}

func (e *textEvent) reset() {
	e.level = 0
	e.msg = ""
	e.err = nil
	e.kv = e.kv[:0]
	e.trialIndex = 0
	e.seed = 0
	e.simTime = 0
	e.process = ""
}

// textEventPool recycles textEvent instances, mirroring the pooling idiom
// used by logiface-slog's eventPool.
var textEventPool = sync.Pool{New: func() any { return new(textEvent) }}

// textBackend implements logiface.EventFactory[*textEvent],
// logiface.Writer[*textEvent], and logiface.EventReleaser[*textEvent], and
// carries the ambient identity (trial index, seed, current process name)
// that gets stamped onto every event at creation time.
type textBackend struct {
	out        io.Writer
	mu         sync.Mutex
	trialIndex int
	seed       int64
	process    string
	simTime    func() float64
}

func (b *textBackend) NewEvent(level logiface.Level) *textEvent {
	e := textEventPool.Get().(*textEvent)
	e.level = Level(level)
	b.mu.Lock()
	e.trialIndex = b.trialIndex
	e.seed = b.seed
	e.process = b.process
	if b.simTime != nil {
		e.simTime = b.simTime()
	}
	b.mu.Unlock()
	return e
}

func (b *textBackend) ReleaseEvent(e *textEvent) {
	e.reset()
	textEventPool.Put(e)
}

func (b *textBackend) Write(e *textEvent) error {
	var line string
	if e.trialIndex > 0 {
		line += fmt.Sprintf("[%d] ", e.trialIndex)
	}
	// Syslog-style severity is numerically ascending from most to least
	// severe (Emergency=0 ... Trace=8), so "Warning or more severe" is
	// e.level <= LevelWarning, not >=.
	if e.level <= LevelWarning {
		line += fmt.Sprintf("[seed=%d] ", e.seed)
	}
	proc := e.process
	if proc == "" {
		proc = "-"
	}
	line += fmt.Sprintf("%g %s [%s]", e.simTime, proc, e.level.String())
	if e.msg != "" {
		line += ": " + e.msg
	}
	if e.err != nil {
		line += ": " + e.err.Error()
	}
	for _, f := range e.kv {
		line += fmt.Sprintf(" %s=%s", f.key, f.val)
	}
	b.mu.Lock()
	_, err := fmt.Fprintln(b.out, line)
	b.mu.Unlock()
	return err
}

// newDefaultBackend constructs a textBackend writing to os.Stderr, matching
// the teacher's own DefaultLogger falling back to stderr when unconfigured.
func newDefaultBackend() *textBackend {
	return &textBackend{out: os.Stderr}
}
