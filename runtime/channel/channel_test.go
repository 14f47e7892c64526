package channel

import (
	"errors"
	"testing"
	"time"

	"github.com/pluto-lang/pluto/runtime/rterr"
)

func TestSendRecvRoundTrip(t *testing.T) {
	c := New(2)

	if err := c.Send(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := c.Send(2); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	v, err := c.Recv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 1 {
		t.Errorf("expected 1, got %v", v)
	}

	v, err = c.Recv()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v != 2 {
		t.Errorf("expected 2, got %v", v)
	}
}

func TestTrySendFullRaisesChannelFull(t *testing.T) {
	c := New(1)
	if err := c.TrySend("a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	err := c.TrySend("b")
	var full *rterr.ChannelFull
	if !errors.As(err, &full) {
		t.Fatalf("expected ChannelFull, got %v", err)
	}
}

func TestTryRecvEmptyRaisesChannelEmpty(t *testing.T) {
	c := New(1)
	_, err := c.TryRecv()
	var empty *rterr.ChannelEmpty
	if !errors.As(err, &empty) {
		t.Fatalf("expected ChannelEmpty, got %v", err)
	}
}

func TestCloseIsIdempotentAndWakesWaiters(t *testing.T) {
	c := New(1)

	done := make(chan error, 1)
	go func() {
		_, err := c.Recv()
		done <- err
	}()

	// Give the receiver a moment to start waiting on notEmpty.
	time.Sleep(10 * time.Millisecond)
	c.Close()
	c.Close() // idempotent

	select {
	case err := <-done:
		var closed *rterr.ChannelClosed
		if !errors.As(err, &closed) {
			t.Fatalf("expected ChannelClosed, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Recv did not wake up after Close")
	}
}

func TestSendAfterCloseRaisesChannelClosed(t *testing.T) {
	c := New(1)
	c.Close()

	err := c.Send("x")
	var closed *rterr.ChannelClosed
	if !errors.As(err, &closed) {
		t.Fatalf("expected ChannelClosed, got %v", err)
	}
}

func TestRecvDrainsBufferBeforeRaisingClosed(t *testing.T) {
	c := New(2)
	if err := c.Send(1); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c.Close()

	v, err := c.Recv()
	if err != nil {
		t.Fatalf("expected buffered value before ChannelClosed, got error %v", err)
	}
	if v != 1 {
		t.Errorf("expected 1, got %v", v)
	}

	_, err = c.Recv()
	var closed *rterr.ChannelClosed
	if !errors.As(err, &closed) {
		t.Fatalf("expected ChannelClosed once drained, got %v", err)
	}
}
