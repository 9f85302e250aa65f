// scheduler_priority.go - Preemptive priority scheduler

package kernelsim

// PriorityScheduler dispatches the Ready task with the lowest current
// priority value, preempting the running task the instant a strictly
// higher-priority task becomes Ready.
type PriorityScheduler struct {
	*SchedulerBase
}

// NewPriorityScheduler constructs a priority scheduler over cpu.
func NewPriorityScheduler(cpu CPUHost, cfg SchedulerConfig) *PriorityScheduler {
	return &PriorityScheduler{SchedulerBase: newSchedulerBase(cpu, cfg)}
}

// SchedulerType returns the human-readable scheduler name.
func (s *PriorityScheduler) SchedulerType() string { return "priority" }

// Tick wakes sleepers, ages waiting tasks, then either picks a fresh
// task (if nothing is running) or preempts the running task if a
// strictly higher-priority task has become Ready.
func (s *PriorityScheduler) Tick(tickCount uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickCount = tickCount
	s.wakeSleepers()
	s.applyAging()

	best := s.bestReady()

	if s.current == nil {
		s.contextSwitch(best)
		return
	}

	if best != nil && best.Priority < s.current.Priority {
		s.contextSwitch(best)
		s.metrics.Preemptions++
	}
}

// bestReady returns the Ready task with the lowest priority value,
// ties broken by lowest id (readyTasks is already id-ascending, so
// the first minimum encountered wins ties).
func (s *PriorityScheduler) bestReady() *Task {
	var best *Task
	for _, t := range s.readyTasks() {
		if best == nil || t.Priority < best.Priority {
			best = t
		}
	}
	return best
}
