package task

import (
	"errors"
	"testing"

	"github.com/pluto-lang/pluto/runtime/gc"
)

func TestSpawnGetReturnsResult(t *testing.T) {
	tsk := Spawn(nil, func(args []any) (any, error) {
		a, b := args[0].(int), args[1].(int)
		return a + b, nil
	}, 2, 3)

	result, err := tsk.Get()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != 5 {
		t.Errorf("expected 5, got %v", result)
	}
}

func TestGetReraisesError(t *testing.T) {
	sentinel := errors.New("task failed")
	tsk := Spawn(nil, func(args []any) (any, error) {
		return nil, sentinel
	})

	_, err := tsk.Get()
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected Get to re-raise the worker's error, got %v", err)
	}
}

func TestSpawnRegistersAndDeregistersWithTheHeap(t *testing.T) {
	h := gc.NewHeap(1 << 20)
	tsk := Spawn(h, func(args []any) (any, error) {
		return nil, nil
	})

	if _, err := tsk.Get(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestGetBlocksUntilDone(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})

	tsk := Spawn(nil, func(args []any) (any, error) {
		close(started)
		<-release
		return "done", nil
	})

	<-started
	done := make(chan struct{})
	go func() {
		result, err := tsk.Get()
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
		if result != "done" {
			t.Errorf("expected \"done\", got %v", result)
		}
		close(done)
	}()

	close(release)
	<-done
}
