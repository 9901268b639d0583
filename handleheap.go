package cimba

import (
	"container/heap"
	"fmt"
	"io"
)

// Handle is a stable, monotonically increasing, nonzero identifier for an
// entry in a HandleHeap. Each HandleHeap numbers its own entries starting
// at 1, so handles are unique within one heap, not across heaps. Handle
// zero is reserved to mean "none" and is never returned by Enqueue.
type Handle uint64

// NoHandle is the reserved "none" value. No live entry ever carries it.
const NoHandle Handle = 0

// Keys are the three sort fields carried by every heap entry, per §3/§4.A:
// dkey (time), ikey (priority), and ukey (a reserved/FIFO auxiliary field).
// The event queue and each resource guard supply their own LessFunc over
// these fields plus the entry's Handle; callers wanting FIFO tie-breaking
// must fold the handle into their LessFunc themselves (ascending handle is
// chronological order of Enqueue calls).
type Keys struct {
	Handle Handle
	DKey   float64
	IKey   int64
	UKey   uint64
}

// LessFunc orders two sets of Keys. It must be a strict weak ordering.
type LessFunc func(a, b Keys) bool

// element is one slot of the underlying binary heap.
type element[P any] struct {
	handle  Handle
	keys    Keys
	payload P
}

// innerHeap adapts element[P] to container/heap.Interface, additionally
// maintaining the handle -> slot_index map on every mutation so cancellation
// and in-place reprioritize/reschedule stay O(log n). This generalizes the
// teacher's container/heap-based timerHeap (go-eventloop's loop.go) with the
// stable-handle index the spec requires but a plain timer heap does not.
type innerHeap[P any] struct {
	data []*element[P]
	idx  map[Handle]int
	less LessFunc
}

func (h *innerHeap[P]) Len() int { return len(h.data) }

func (h *innerHeap[P]) Less(i, j int) bool {
	return h.less(h.data[i].keys, h.data[j].keys)
}

func (h *innerHeap[P]) Swap(i, j int) {
	h.data[i], h.data[j] = h.data[j], h.data[i]
	h.idx[h.data[i].handle] = i
	h.idx[h.data[j].handle] = j
}

func (h *innerHeap[P]) Push(x any) {
	e := x.(*element[P])
	h.idx[e.handle] = len(h.data)
	h.data = append(h.data, e)
}

func (h *innerHeap[P]) Pop() any {
	old := h.data
	n := len(old)
	e := old[n-1]
	old[n-1] = nil
	h.data = old[:n-1]
	delete(h.idx, e.handle)
	return e
}

// HandleHeap is a min-heap (under LessFunc) of payloads of type P, each
// addressable by a stable Handle independent of its current slot. It
// implements component A of the design: O(log n) Enqueue, O(1) Peek, O(log
// n) Cancel/Reschedule/Reprioritize keyed by handle.
//
// HandleHeap is not safe for concurrent use; callers (the event queue, each
// resource guard) own their instance and only ever touch it from the single
// goroutine driving that simulation trial.
type HandleHeap[P any] struct {
	h       innerHeap[P]
	counter uint64
}

// NewHandleHeap creates an empty heap ordered by less.
func NewHandleHeap[P any](less LessFunc) *HandleHeap[P] {
	return &HandleHeap[P]{
		h: innerHeap[P]{
			idx:  make(map[Handle]int),
			less: less,
		},
	}
}

// Enqueue inserts payload with the given sort keys and returns its handle.
// Handles are assigned in strictly increasing order starting at 1, so two
// entries enqueued with otherwise-identical keys sort FIFO if the LessFunc
// includes Handle ascending as its final tie-break.
func (q *HandleHeap[P]) Enqueue(payload P, dkey float64, ikey int64, ukey uint64) Handle {
	q.counter++
	handle := Handle(q.counter)
	e := &element[P]{
		handle:  handle,
		keys:    Keys{Handle: handle, DKey: dkey, IKey: ikey, UKey: ukey},
		payload: payload,
	}
	heap.Push(&q.h, e)
	return handle
}

// Dequeue removes and returns the root (smallest under LessFunc) payload.
// It is undefined (panics on an empty heap, per §4.A) to call it when
// IsEmpty is true.
func (q *HandleHeap[P]) Dequeue() P {
	e := heap.Pop(&q.h).(*element[P])
	return e.payload
}

// PeekRoot returns the root payload without removing it, and whether the
// heap was non-empty.
func (q *HandleHeap[P]) PeekRoot() (P, bool) {
	var zero P
	if len(q.h.data) == 0 {
		return zero, false
	}
	return q.h.data[0].payload, true
}

// PeekKeys returns the root entry's sort keys without removing it.
func (q *HandleHeap[P]) PeekKeys() (Keys, bool) {
	if len(q.h.data) == 0 {
		return Keys{}, false
	}
	return q.h.data[0].keys, true
}

// Keys returns the current sort keys for handle, if scheduled.
func (q *HandleHeap[P]) Keys(handle Handle) (Keys, bool) {
	idx, ok := q.h.idx[handle]
	if !ok {
		return Keys{}, false
	}
	return q.h.data[idx].keys, true
}

// Payload returns the current payload for handle, if scheduled.
func (q *HandleHeap[P]) Payload(handle Handle) (P, bool) {
	var zero P
	idx, ok := q.h.idx[handle]
	if !ok {
		return zero, false
	}
	return q.h.data[idx].payload, true
}

// IsScheduled reports whether handle currently identifies a live entry.
func (q *HandleHeap[P]) IsScheduled(handle Handle) bool {
	_, ok := q.h.idx[handle]
	return ok
}

// Cancel removes the entry identified by handle. It returns false, as a
// no-op, if handle is not currently scheduled — calling Cancel twice in a
// row on the same handle returns true then false, per §8.
func (q *HandleHeap[P]) Cancel(handle Handle) bool {
	idx, ok := q.h.idx[handle]
	if !ok {
		return false
	}
	heap.Remove(&q.h, idx)
	return true
}

// Reschedule updates the DKey of handle in place and restores heap order.
// It returns false if handle is not scheduled.
func (q *HandleHeap[P]) Reschedule(handle Handle, newDKey float64) bool {
	idx, ok := q.h.idx[handle]
	if !ok {
		return false
	}
	q.h.data[idx].keys.DKey = newDKey
	heap.Fix(&q.h, idx)
	return true
}

// Reprioritize updates the IKey of handle in place and restores heap order.
// It returns false if handle is not scheduled.
func (q *HandleHeap[P]) Reprioritize(handle Handle, newIKey int64) bool {
	idx, ok := q.h.idx[handle]
	if !ok {
		return false
	}
	q.h.data[idx].keys.IKey = newIKey
	heap.Fix(&q.h, idx)
	return true
}

// Find returns the first handle (no ordering guarantee, per §4.C) whose
// payload satisfies match. This is the generalization of the original's
// sentinel-wildcard pattern search (§9: "use explicit sum-type fields in the
// search descriptor" instead of a magic pointer value) — callers build
// match as a closure that treats any field it doesn't care about as a
// wildcard.
func (q *HandleHeap[P]) Find(match func(P) bool) (Handle, bool) {
	for _, e := range q.h.data {
		if match(e.payload) {
			return e.handle, true
		}
	}
	return NoHandle, false
}

// Count returns the number of payloads satisfying match.
func (q *HandleHeap[P]) Count(match func(P) bool) int {
	n := 0
	for _, e := range q.h.data {
		if match(e.payload) {
			n++
		}
	}
	return n
}

// CancelMatching cancels every entry satisfying match and returns the count
// cancelled.
func (q *HandleHeap[P]) CancelMatching(match func(P) bool) int {
	var handles []Handle
	for _, e := range q.h.data {
		if match(e.payload) {
			handles = append(handles, e.handle)
		}
	}
	for _, h := range handles {
		q.Cancel(h)
	}
	return len(handles)
}

// Len returns the number of live entries.
func (q *HandleHeap[P]) Len() int { return len(q.h.data) }

// IsEmpty reports whether the heap holds no entries.
func (q *HandleHeap[P]) IsEmpty() bool { return len(q.h.data) == 0 }

// Print dumps one line per entry via format, for debugging only; the
// format is not a stable interface (§6).
func (q *HandleHeap[P]) Print(w io.Writer, format func(P) string) {
	for _, e := range q.h.data {
		fmt.Fprintf(w, "%d\t%g\t%d\t%s\n", e.handle, e.keys.DKey, e.keys.IKey, format(e.payload))
	}
}
