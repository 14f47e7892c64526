package gc

import (
	"runtime"
	"sync"
	"sync/atomic"
)

// collector holds the atomic coordination state described in §5
// (Concurrency & Resource Model): a CAS-guarded "who's collecting" flag,
// a "stop requested" flag safepoints poll, a count of threads that have
// checked in, and a resume generation stopped threads spin-wait on.
type collector struct {
	heap *Heap

	mu      sync.Mutex
	threads []*ThreadState

	collecting int32 // CAS 0->1: only the winner runs the collector
	stopReq    int32 // gc_safepoint_requested
	stopped    int32 // gc_stw_stopped: count of threads parked at a safepoint
	resumeGen  int32 // gc_stw_resume: bumped once per completed collection
}

func newCollector(h *Heap) *collector { return &collector{heap: h} }

// checkIn is called from every safepoint. If a collection has been
// requested, it parks this thread until the collector bumps resumeGen.
func (c *collector) checkIn(ts *ThreadState) {
	if atomic.LoadInt32(&c.stopReq) == 0 {
		return
	}
	gen := atomic.LoadInt32(&c.resumeGen)
	atomic.AddInt32(&c.stopped, 1)
	for atomic.LoadInt32(&c.resumeGen) == gen {
		runtime.Gosched()
	}
	atomic.AddInt32(&c.stopped, -1)
}

// run attempts to initiate a collection. Only the thread that wins the
// CAS on `collecting` actually runs mark-sweep; every other thread that
// raced in spins on `collecting` until it clears, per §5's "eliminates
// the double-GC race" rule.
func (c *collector) run(ts *ThreadState) {
	if !atomic.CompareAndSwapInt32(&c.collecting, 0, 1) {
		for atomic.LoadInt32(&c.collecting) != 0 {
			runtime.Gosched()
		}
		return
	}
	defer atomic.StoreInt32(&c.collecting, 0)

	c.stopTheWorld(ts)
	c.mark()
	c.sweep()
	c.resumeTheWorld()
}

// stopTheWorld requests every other registered thread park at its next
// safepoint and waits, without timeout, until they all have (§5 "STW
// wait" — proceeding on a partial STW would be a use-after-free during
// sweep).
func (c *collector) stopTheWorld(initiator *ThreadState) {
	atomic.StoreInt32(&c.stopReq, 1)

	c.mu.Lock()
	want := 0
	for _, t := range c.threads {
		if t != initiator {
			want++
		}
	}
	c.mu.Unlock()

	for atomic.LoadInt32(&c.stopped) < int32(want) {
		runtime.Gosched()
	}
}

func (c *collector) resumeTheWorld() {
	atomic.StoreInt32(&c.stopReq, 0)
	atomic.AddInt32(&c.resumeGen, 1)
}

// mark conservatively treats every registered thread's current-error slot
// as a root (§5 "Error-state TLS... GC scans this TLS slot as a root") and
// walks reachable objects via their Refs, flood-fill style. Scanning raw
// stack memory for conservative roots is the codegen backend's job (out
// of scope here); this collector only traces the roots Go itself can see.
func (c *collector) mark() {
	c.mu.Lock()
	threads := append([]*ThreadState{}, c.threads...)
	c.mu.Unlock()

	var roots []*Object
	for _, t := range threads {
		if err, ok := t.CurrentError().(interface{ HeapObject() *Object }); ok {
			roots = append(roots, err.HeapObject())
		}
	}

	seen := map[*Object]bool{}
	var visit func(o *Object)
	visit = func(o *Object) {
		if o == nil || seen[o] {
			return
		}
		seen[o] = true
		o.Mark = 1
		for _, ref := range o.Refs {
			visit(ref)
		}
	}
	for _, r := range roots {
		visit(r)
	}
}

// sweep walks the heap's linked allocation list, freeing (unlinking) every
// object whose mark bit wasn't set this cycle and clearing marks on
// survivors for the next collection.
func (c *collector) sweep() {
	h := c.heap
	h.mu.Lock()
	defer h.mu.Unlock()

	var freed int64
	var newHead *Object
	var tail *Object
	for o := h.head; o != nil; {
		next := o.Next
		if o.Mark == 1 {
			o.Mark = 0
			o.Next = nil
			if newHead == nil {
				newHead = o
			} else {
				tail.Next = o
			}
			tail = o
		} else {
			freed += int64(o.Size)
		}
		o = next
	}
	h.head = newHead
	h.bytesAlloc -= freed
}
