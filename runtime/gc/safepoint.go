package gc

import "sync"

// ThreadState is the runtime's per-OS-thread bookkeeping: the registered
// stack bounds the collector conservatively scans as roots, and the
// thread-local "current error" slot `raise`/`catch` read and clear. Go
// gives us no real thread-local storage, so every entry point that would
// read §5's TLS slot takes an explicit *ThreadState instead — the
// equivalent of each OS thread carrying its own state pointer.
type ThreadState struct {
	Lo, Hi uintptr // registered stack bounds, for conservative root scanning

	mu           sync.Mutex
	currentError error // the TLS "current error" pointer raise/catch use

	registered bool
	stopped    bool // true while parked at a safepoint during STW
}

// NewThreadState allocates an unregistered per-thread state.
func NewThreadState() *ThreadState { return &ThreadState{} }

// RaiseError stores err into the thread's current-error slot, the
// runtime-level counterpart of a Pluto `raise` statement.
func (ts *ThreadState) RaiseError(err error) {
	ts.mu.Lock()
	ts.currentError = err
	ts.mu.Unlock()
}

// CurrentError reads the thread's current-error slot without clearing it,
// the counterpart of __pluto_current_error().
func (ts *ThreadState) CurrentError() error {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return ts.currentError
}

// TakeError reads and clears the thread's current-error slot, the
// counterpart of a Pluto `catch` clause.
func (ts *ThreadState) TakeError() error {
	ts.mu.Lock()
	err := ts.currentError
	ts.currentError = nil
	ts.mu.Unlock()
	return err
}

// RegisterThreadStack records ts's stack bounds with the heap so the
// collector treats it as a scan root, mirroring
// __pluto_gc_register_thread_stack(lo, hi). Every spawned task's
// trampoline calls this before running its function body.
func (h *Heap) RegisterThreadStack(ts *ThreadState, lo, hi uintptr) {
	ts.Lo, ts.Hi = lo, hi
	ts.registered = true

	h.collector.mu.Lock()
	h.collector.threads = append(h.collector.threads, ts)
	h.collector.mu.Unlock()
}

// DeregisterThreadStack removes ts from the collector's root set,
// mirroring __pluto_gc_deregister_thread_stack(). A task's trampoline
// calls this after its function body returns, before releasing its
// TaskSync reference.
func (h *Heap) DeregisterThreadStack(ts *ThreadState) {
	h.collector.mu.Lock()
	defer h.collector.mu.Unlock()
	for i, t := range h.collector.threads {
		if t == ts {
			h.collector.threads = append(h.collector.threads[:i], h.collector.threads[i+1:]...)
			break
		}
	}
	ts.registered = false
}

// Safepoint is the runtime counterpart of __pluto_safepoint(): it reads
// the collector's atomic "stop requested" flag and, if set, checks this
// thread in and spin-waits for the collector to finish. The lowerer
// inserts a call to this at every loop back-edge, function prologue, and
// allocation site (§5 "Safepoints").
func (h *Heap) Safepoint(ts *ThreadState) {
	h.collector.checkIn(ts)
}

// collect runs a full stop-the-world mark-sweep pass, racing against any
// other thread that also observed the heap over threshold. Only the CAS
// winner actually collects; losers spin on gc_collecting until it clears
// (§5 "GC initiation" — this is what eliminates the double-GC race).
func (h *Heap) collect(ts *ThreadState) {
	h.collector.run(ts)
}
