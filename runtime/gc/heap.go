// Package gc implements the runtime's conservative, stop-the-world
// mark-sweep collector: the Go-level backing for the stable
// __pluto_alloc/__pluto_safepoint/__pluto_gc_* exports every compiled
// binary links against. It is deliberately built on the standard
// library (sync, sync/atomic) rather than a third-party dependency —
// no repo in the reference corpus ships a GC or thread-scheduling
// library, since a language runtime owns this concern itself.
package gc

import (
	"sync"
)

// Header is the 16-byte object header every heap allocation carries ahead
// of its payload: size in bytes, a one-bit-per-sweep mark, a type tag used
// by the collector to find embedded pointers, and a field count for
// structs/arrays of heap pointers. Next threads every live allocation into
// the heap's sweep list.
type Header struct {
	Size       uint32
	Mark       uint8
	Tag        uint8
	FieldCount uint16
	Next       *Object
}

// Tag values the collector treats specially when walking an object's
// fields looking for embedded heap pointers.
const (
	TagOpaque = iota // no embedded pointers (primitives, boxed scalars)
	TagStruct        // FieldCount heap-pointer fields follow the payload
	TagArray         // payload is a []*Object of heap-typed elements
	TagTask
	TagChannel
)

// Object is a single heap allocation: its header plus an opaque payload
// byte slice and, for Tag values that embed pointers, the set of outgoing
// references the collector must trace.
type Object struct {
	Header
	Payload []byte
	Refs    []*Object
}

// Heap owns the global allocation mutex, the bump-style allocation
// threshold, and the sweep list of every live object. One Heap backs one
// Pluto process.
type Heap struct {
	mu         sync.Mutex
	bytesAlloc int64
	threshold  int64
	head       *Object
	collector  *collector
}

// NewHeap constructs a Heap that triggers a collection once allocated
// bytes exceed threshold.
func NewHeap(threshold int64) *Heap {
	h := &Heap{threshold: threshold}
	h.collector = newCollector(h)
	return h
}

// Alloc allocates size bytes tagged tag with fieldCount outgoing
// references, mirroring __pluto_alloc(size, tag, field_count) → ptr. It may
// trigger a stop-the-world collection first if the heap is over threshold;
// this is the allocation-site safepoint the lowerer's IR inserts a
// safepoint() call alongside.
func (h *Heap) Alloc(ts *ThreadState, size uint32, tag uint8, fieldCount uint16) *Object {
	h.Safepoint(ts)

	h.mu.Lock()
	if h.bytesAlloc+int64(size) > h.threshold {
		h.mu.Unlock()
		h.collect(ts)
		h.mu.Lock()
	}

	obj := &Object{
		Header: Header{
			Size:       size,
			Tag:        tag,
			FieldCount: fieldCount,
			Next:       h.head,
		},
		Payload: make([]byte, size),
	}
	if fieldCount > 0 {
		obj.Refs = make([]*Object, fieldCount)
	}
	h.head = obj
	h.bytesAlloc += int64(size)
	h.mu.Unlock()

	return obj
}

// BytesAllocated reports the heap's current live-allocation estimate, for
// tests and diagnostics.
func (h *Heap) BytesAllocated() int64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.bytesAlloc
}
