// scheduler_roundrobin.go - Time-sliced round-robin scheduler

package kernelsim

// RoundRobinScheduler ignores priority and rotates through Ready
// tasks in ascending id order once the current task has run for
// TimeSlice ticks.
type RoundRobinScheduler struct {
	*SchedulerBase
	currentSlice int
}

// NewRoundRobinScheduler constructs a round-robin scheduler over cpu.
func NewRoundRobinScheduler(cpu CPUHost, cfg SchedulerConfig) *RoundRobinScheduler {
	return &RoundRobinScheduler{SchedulerBase: newSchedulerBase(cpu, cfg)}
}

// SchedulerType returns the human-readable scheduler name.
func (s *RoundRobinScheduler) SchedulerType() string { return "round-robin" }

// Tick wakes sleepers and ages waiting tasks (aging runs for
// consistency but never changes rotation order, since priority is not
// consulted), then rotates to the next Ready task once the current
// slice is exhausted.
func (s *RoundRobinScheduler) Tick(tickCount uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickCount = tickCount
	s.wakeSleepers()
	s.applyAging()

	if s.current == nil {
		next := s.nextInRotation(0)
		s.contextSwitch(next)
		s.currentSlice = 0
		return
	}

	s.currentSlice++
	if s.currentSlice >= s.cfg.TimeSlice {
		if next := s.nextInRotation(s.current.ID); next != nil {
			s.contextSwitch(next)
		}
		s.currentSlice = 0
	}
}

// nextInRotation returns the Ready task with the smallest id strictly
// greater than afterID, wrapping to the smallest Ready id if none is
// greater. Returns nil if no task is Ready (the current task, if any,
// simply keeps running).
func (s *RoundRobinScheduler) nextInRotation(afterID uint64) *Task {
	ready := s.readyTasks()
	if len(ready) == 0 {
		return nil
	}
	for _, t := range ready {
		if t.ID > afterID {
			return t
		}
	}
	return ready[0]
}
