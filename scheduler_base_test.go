package kernelsim

import (
	"errors"
	"testing"
)

func TestSchedulerBaseCreateTaskInvalidPriority(t *testing.T) {
	cpu := NewRegisterFile()
	s := NewPriorityScheduler(cpu, DefaultSchedulerConfig(4096))

	if _, err := s.CreateTask("bad", 0, 0, 64); !errors.Is(err, ErrInvalidPriority) {
		t.Fatalf("CreateTask priority 0: err = %v, expected ErrInvalidPriority", err)
	}
	if _, err := s.CreateTask("bad", MaxPriority+1, 0, 64); !errors.Is(err, ErrInvalidPriority) {
		t.Fatalf("CreateTask priority over max: err = %v, expected ErrInvalidPriority", err)
	}
}

func TestSchedulerBaseCreateTaskOutOfMemory(t *testing.T) {
	cpu := NewRegisterFile()
	cfg := DefaultSchedulerConfig(4096)
	cfg.StackArenaBase = 0
	cfg.StackArenaSize = 64
	s := NewPriorityScheduler(cpu, cfg)

	if _, err := s.CreateTask("a", 5, 0, 64); err != nil {
		t.Fatalf("first CreateTask: %v", err)
	}
	if _, err := s.CreateTask("b", 5, 0, 1); !errors.Is(err, ErrOutOfMemory) {
		t.Fatalf("second CreateTask: err = %v, expected ErrOutOfMemory", err)
	}
}

func TestSchedulerBaseTerminateFreesStackForReuse(t *testing.T) {
	cpu := NewRegisterFile()
	cfg := DefaultSchedulerConfig(4096)
	cfg.StackArenaBase = 0
	cfg.StackArenaSize = 64
	s := NewPriorityScheduler(cpu, cfg)

	task1, err := s.CreateTask("a", 5, 0, 64)
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	if _, err := s.CreateTask("b", 5, 0, 1); !errors.Is(err, ErrOutOfMemory) {
		t.Fatalf("expected OOM before free, got %v", err)
	}
	if err := s.Terminate(task1.ID); err != nil {
		t.Fatalf("Terminate: %v", err)
	}
	if _, err := s.CreateTask("c", 5, 0, 64); err != nil {
		t.Fatalf("CreateTask after free: %v", err)
	}
}

func TestSchedulerBaseUnknownTask(t *testing.T) {
	cpu := NewRegisterFile()
	s := NewPriorityScheduler(cpu, DefaultSchedulerConfig(4096))

	if err := s.Terminate(999); !errors.Is(err, ErrUnknownTask) {
		t.Fatalf("Terminate(999): err = %v, expected ErrUnknownTask", err)
	}
	if err := s.Block(999); !errors.Is(err, ErrUnknownTask) {
		t.Fatalf("Block(999): err = %v, expected ErrUnknownTask", err)
	}
}

func TestSchedulerBaseBlockUnblockRoundTrip(t *testing.T) {
	cpu := NewRegisterFile()
	s := NewPriorityScheduler(cpu, DefaultSchedulerConfig(4096))
	task, _ := s.CreateTask("a", 5, 0, 64)

	if err := s.Block(task.ID); err != nil {
		t.Fatalf("Block: %v", err)
	}
	tasks := s.Tasks()
	if tasks[0].State != Blocked {
		t.Fatalf("state after Block = %s, expected BLOCKED", tasks[0].State)
	}
	if err := s.Unblock(task.ID); err != nil {
		t.Fatalf("Unblock: %v", err)
	}
	tasks = s.Tasks()
	if tasks[0].State != Ready {
		t.Fatalf("state after Unblock = %s, expected READY", tasks[0].State)
	}
}

func TestSchedulerBaseBlockTerminatedFails(t *testing.T) {
	cpu := NewRegisterFile()
	s := NewPriorityScheduler(cpu, DefaultSchedulerConfig(4096))
	task, _ := s.CreateTask("a", 5, 0, 64)
	_ = s.Terminate(task.ID)

	if err := s.Block(task.ID); !errors.Is(err, ErrBadState) {
		t.Fatalf("Block on terminated task: err = %v, expected ErrBadState", err)
	}
}

func TestSchedulerBaseSleepAndWake(t *testing.T) {
	cpu := NewRegisterFile()
	s := NewPriorityScheduler(cpu, DefaultSchedulerConfig(4096))
	task, _ := s.CreateTask("a", 5, 0, 64)

	if err := s.Sleep(task.ID, 3); err != nil {
		t.Fatalf("Sleep: %v", err)
	}
	tasks := s.Tasks()
	if tasks[0].State != Sleeping {
		t.Fatalf("state after Sleep = %s, expected SLEEPING", tasks[0].State)
	}

	s.Tick(1)
	s.Tick(2)
	tasks = s.Tasks()
	if tasks[0].State != Sleeping {
		t.Fatalf("state at tick 2 = %s, expected still SLEEPING", tasks[0].State)
	}

	s.Tick(3)
	tasks = s.Tasks()
	if tasks[0].State != Ready && tasks[0].State != Running {
		t.Fatalf("state at tick 3 = %s, expected READY or RUNNING", tasks[0].State)
	}
}

func TestSchedulerBaseSetPriorityOutOfRange(t *testing.T) {
	cpu := NewRegisterFile()
	s := NewPriorityScheduler(cpu, DefaultSchedulerConfig(4096))
	task, _ := s.CreateTask("a", 5, 0, 64)

	if err := s.SetPriority(task.ID, 0); !errors.Is(err, ErrInvalidPriority) {
		t.Fatalf("SetPriority(0): err = %v, expected ErrInvalidPriority", err)
	}
	if err := s.SetPriority(task.ID, MaxPriority); err != nil {
		t.Fatalf("SetPriority(MaxPriority): %v", err)
	}
}

func TestSchedulerBaseAgingLiftsStarvedTask(t *testing.T) {
	cpu := NewRegisterFile()
	cfg := DefaultSchedulerConfig(4096)
	cfg.AgingInterval = 1
	cfg.AgingThreshold = 1
	s := NewPriorityScheduler(cpu, cfg)

	high, _ := s.CreateTask("high", 5, 0, 64)
	low, _ := s.CreateTask("low", 10, 0, 64)

	s.Tick(1)
	cur, _ := s.Current()
	if cur.ID != high.ID {
		t.Fatalf("dispatched %d, expected higher-priority task %d", cur.ID, high.ID)
	}

	for i := uint64(2); i <= 4; i++ {
		s.Tick(i)
	}

	tasks := s.Tasks()
	var lowTask Task
	for _, tk := range tasks {
		if tk.ID == low.ID {
			lowTask = tk
		}
	}
	if lowTask.Priority >= 10 {
		t.Fatalf("low task priority after aging = %d, expected improved from 10", lowTask.Priority)
	}
}

func TestSchedulerBaseResetClearsEverything(t *testing.T) {
	cpu := NewRegisterFile()
	s := NewPriorityScheduler(cpu, DefaultSchedulerConfig(4096))
	_, _ = s.CreateTask("a", 5, 0, 64)
	s.Tick(1)

	s.Reset()

	if len(s.Tasks()) != 0 {
		t.Fatal("Tasks non-empty after Reset")
	}
	if _, ok := s.Current(); ok {
		t.Fatal("Current still set after Reset")
	}
	m := s.Metrics()
	if m.ContextSwitches != 0 {
		t.Fatalf("ContextSwitches after Reset = %d, expected 0", m.ContextSwitches)
	}

	task, err := s.CreateTask("b", 5, 0, 64)
	if err != nil {
		t.Fatalf("CreateTask after Reset: %v", err)
	}
	if task.ID != 1 {
		t.Fatalf("id allocator after Reset gave %d, expected restart at 1", task.ID)
	}
}
