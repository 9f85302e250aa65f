package kernelsim

import "testing"

func TestPrioritySchedulerDispatchesLowestValue(t *testing.T) {
	cpu := NewRegisterFile()
	s := NewPriorityScheduler(cpu, DefaultSchedulerConfig(4096))

	_, _ = s.CreateTask("low", 20, 0, 64)
	high, _ := s.CreateTask("high", 5, 0, 64)

	s.Tick(1)
	cur, ok := s.Current()
	if !ok || cur.ID != high.ID {
		t.Fatalf("Current = (%+v,%v), expected high-priority task %d", cur, ok, high.ID)
	}
}

func TestPrioritySchedulerPreemptsOnHigherPriorityArrival(t *testing.T) {
	cpu := NewRegisterFile()
	s := NewPriorityScheduler(cpu, DefaultSchedulerConfig(4096))

	low, _ := s.CreateTask("low", 20, 0, 64)
	s.Tick(1)
	cur, _ := s.Current()
	if cur.ID != low.ID {
		t.Fatalf("initial dispatch = %d, expected %d", cur.ID, low.ID)
	}

	high, _ := s.CreateTask("high", 1, 0, 64)
	s.Tick(2)

	cur, ok := s.Current()
	if !ok || cur.ID != high.ID {
		t.Fatalf("after preemption Current = (%+v,%v), expected %d", cur, ok, high.ID)
	}
	if s.Metrics().Preemptions != 1 {
		t.Fatalf("Preemptions = %d, expected 1", s.Metrics().Preemptions)
	}
}

func TestPrioritySchedulerNoPreemptionOnEqualOrLowerPriority(t *testing.T) {
	cpu := NewRegisterFile()
	s := NewPriorityScheduler(cpu, DefaultSchedulerConfig(4096))

	high, _ := s.CreateTask("high", 5, 0, 64)
	s.Tick(1)
	_, _ = s.CreateTask("equal", 5, 0, 64)
	_, _ = s.CreateTask("lower", 9, 0, 64)
	s.Tick(2)

	cur, _ := s.Current()
	if cur.ID != high.ID {
		t.Fatalf("Current after equal- and lower-priority arrivals = %d, expected unchanged %d", cur.ID, high.ID)
	}
	if s.Metrics().Preemptions != 0 {
		t.Fatalf("Preemptions = %d, expected 0", s.Metrics().Preemptions)
	}
}

func TestPrioritySchedulerType(t *testing.T) {
	s := NewPriorityScheduler(NewRegisterFile(), DefaultSchedulerConfig(4096))
	if s.SchedulerType() != "priority" {
		t.Fatalf("SchedulerType() = %q, expected priority", s.SchedulerType())
	}
}
