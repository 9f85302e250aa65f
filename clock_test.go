package kernelsim

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestClockStepAdvancesExactTickCount(t *testing.T) {
	sim := NewSimulator(4096)
	clock := NewClock(sim, 0)

	clock.Step(5)
	if sim.TickCount() != 5 {
		t.Fatalf("TickCount after Step(5) = %d, expected 5", sim.TickCount())
	}
}

func TestClockStartStopRunsInBackground(t *testing.T) {
	sim := NewSimulator(4096)
	clock := NewClock(sim, time.Millisecond)

	if err := clock.Start(context.Background()); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if !clock.Running() {
		t.Fatal("Running() false immediately after Start")
	}
	time.Sleep(20 * time.Millisecond)
	clock.Stop()

	if clock.Running() {
		t.Fatal("Running() true after Stop")
	}
	if sim.TickCount() == 0 {
		t.Fatal("TickCount == 0 after running the background clock for 20ms")
	}
}

func TestClockStartWhileRunningFails(t *testing.T) {
	sim := NewSimulator(4096)
	clock := NewClock(sim, time.Millisecond)

	if err := clock.Start(context.Background()); err != nil {
		t.Fatalf("first Start: %v", err)
	}
	if err := clock.Start(context.Background()); !errors.Is(err, ErrClockRunning) {
		t.Fatalf("second Start: err = %v, expected ErrClockRunning", err)
	}

	clock.Stop()
	clock.Stop() // idempotent

	if clock.Running() {
		t.Fatal("Running() true after double Stop")
	}
}

func TestClockStopBeforeStartIsNoop(t *testing.T) {
	sim := NewSimulator(4096)
	clock := NewClock(sim, 0)
	clock.Stop()
	if clock.Running() {
		t.Fatal("Running() true on a clock that was never started")
	}
}
