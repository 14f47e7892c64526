// Package task implements the runtime's spawn/get primitive: §4.13's one
// goroutine-backed OS thread per spawned task, a refcounted TaskSync
// controlling the shared mutex/cond pair's lifetime, and get()'s
// block-until-done-then-reraise semantics.
package task

import (
	"runtime"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/pluto-lang/pluto/runtime/gc"
)

// TaskSync guards the done/result/raised fields a task handle and its
// worker thread share, and is refcounted because either side can outlive
// the other: the GC may collect the task handle while the worker is still
// running, or the handle may still be live after the worker finishes and
// calls release. The last release destroys the struct.
type TaskSync struct {
	mu   sync.Mutex
	cond *sync.Cond

	done   bool
	result any
	raised error

	refcount int32
}

func newTaskSync() *TaskSync {
	s := &TaskSync{refcount: 2} // one ref for the task handle, one for the worker
	s.cond = sync.NewCond(&s.mu)
	return s
}

// release decrements the refcount; the side that brings it to zero is
// responsible for nothing further in Go (the GC reclaims the struct), but
// the decrement itself mirrors the reference-counted destroy the runtime
// spec describes for a native allocator.
func (s *TaskSync) release() {
	if atomic.AddInt32(&s.refcount, -1) < 0 {
		panic("task: TaskSync released more times than it was held")
	}
}

// Task is the handle `spawn f(args)` returns: a heap object tagged Task
// wrapping a TaskSync the worker thread and the handle both reference.
type Task struct {
	sync *TaskSync
}

// Func is a spawned function's signature once its arguments have already
// been evaluated eagerly on the calling thread (§4.13 step 1): it returns
// either a result or a raised error, never both.
type Func func(args []any) (any, error)

// Spawn evaluates args eagerly on the calling goroutine, then launches a
// worker goroutine whose trampoline mirrors §4.13 step 3: register its
// stack with the GC, call f, store the result, mark done, signal, release,
// deregister. heap may be nil when no GC-backed allocation is in play
// (e.g. in tests exercising only the scheduling behavior).
func Spawn(heap *gc.Heap, f Func, args ...any) *Task {
	sync := newTaskSync()
	t := &Task{sync: sync}

	go func() {
		runtime.LockOSThread()
		defer runtime.UnlockOSThread()

		var ts *gc.ThreadState
		if heap != nil {
			ts = gc.NewThreadState()
			// Go keeps no stable, inspectable native stack for us to bound
			// exactly; stamp a single-word marker as a placeholder range so
			// RegisterThreadStack has something non-zero to record. Real
			// conservative root scanning over this range is the codegen
			// backend's concern (out of scope, per §4.11).
			var stackMarker uintptr
			lo := uintptr(unsafe.Pointer(&stackMarker))
			hi := lo + unsafe.Sizeof(stackMarker)
			heap.RegisterThreadStack(ts, lo, hi)
		}

		result, err := f(args)

		sync.mu.Lock()
		sync.result = result
		sync.raised = err
		sync.done = true
		sync.cond.Broadcast()
		sync.mu.Unlock()

		sync.release()
		if heap != nil {
			heap.DeregisterThreadStack(ts)
		}
	}()

	return t
}

// Get blocks until the spawned function has finished, matching §4.13's
// get(): locks sync's mutex, waits on cond until done, unlocks, and
// returns the stored result — or, if f raised, re-raises that error so it
// participates in the caller's own fallibility.
func (t *Task) Get() (any, error) {
	t.sync.mu.Lock()
	for !t.sync.done {
		t.sync.cond.Wait()
	}
	result, err := t.sync.result, t.sync.raised
	t.sync.mu.Unlock()

	t.sync.release()
	return result, err
}
