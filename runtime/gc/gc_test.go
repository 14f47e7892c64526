package gc

import "testing"

func TestAllocTracksBytes(t *testing.T) {
	h := NewHeap(1 << 20)
	ts := NewThreadState()

	obj := h.Alloc(ts, 32, TagOpaque, 0)
	if obj == nil {
		t.Fatal("Alloc returned nil")
	}
	if obj.Size != 32 {
		t.Errorf("expected size 32, got %d", obj.Size)
	}
	if got := h.BytesAllocated(); got != 32 {
		t.Errorf("expected 32 bytes allocated, got %d", got)
	}
}

func TestAllocOverThresholdTriggersCollection(t *testing.T) {
	h := NewHeap(16)
	ts := NewThreadState()

	// First allocation fits under threshold.
	first := h.Alloc(ts, 8, TagOpaque, 0)
	_ = first

	// Nothing marks `first` as reachable, so the collection this second
	// allocation triggers should sweep it away.
	h.Alloc(ts, 8, TagOpaque, 0)
	h.Alloc(ts, 8, TagOpaque, 0)

	if got := h.BytesAllocated(); got > 16 {
		t.Errorf("expected sweep to reclaim unreachable objects, got %d bytes live", got)
	}
}

func TestRegisterDeregisterThreadStack(t *testing.T) {
	h := NewHeap(1 << 20)
	ts := NewThreadState()

	h.RegisterThreadStack(ts, 0x1000, 0x2000)
	if len(h.collector.threads) != 1 {
		t.Fatalf("expected 1 registered thread, got %d", len(h.collector.threads))
	}

	h.DeregisterThreadStack(ts)
	if len(h.collector.threads) != 0 {
		t.Fatalf("expected 0 registered threads after deregister, got %d", len(h.collector.threads))
	}
}

func TestThreadStateErrorSlot(t *testing.T) {
	ts := NewThreadState()
	if ts.CurrentError() != nil {
		t.Fatal("expected nil current error on a fresh ThreadState")
	}

	sentinel := &testError{"boom"}
	ts.RaiseError(sentinel)
	if ts.CurrentError() != sentinel {
		t.Fatal("CurrentError did not return the raised error")
	}

	taken := ts.TakeError()
	if taken != sentinel {
		t.Fatal("TakeError did not return the raised error")
	}
	if ts.CurrentError() != nil {
		t.Fatal("TakeError should clear the current-error slot")
	}
}

func TestSafepointIsNoOpWithoutCollectionRequested(t *testing.T) {
	h := NewHeap(1 << 20)
	ts := NewThreadState()
	h.RegisterThreadStack(ts, 0x1000, 0x2000)

	// Should return immediately: no collection has been requested.
	h.Safepoint(ts)
}

type testError struct{ msg string }

func (e *testError) Error() string { return e.msg }
