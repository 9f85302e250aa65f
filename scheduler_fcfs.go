// scheduler_fcfs.go - Non-preemptive first-come-first-served scheduler

package kernelsim

// FCFSScheduler never preempts a running task. A voluntary exit from
// Running (block, sleep or terminate) is the only way the current
// task yields the CPU.
type FCFSScheduler struct {
	*SchedulerBase
}

// NewFCFSScheduler constructs an FCFS scheduler over cpu.
func NewFCFSScheduler(cpu CPUHost, cfg SchedulerConfig) *FCFSScheduler {
	return &FCFSScheduler{SchedulerBase: newSchedulerBase(cpu, cfg)}
}

// SchedulerType returns the human-readable scheduler name.
func (s *FCFSScheduler) SchedulerType() string { return "fcfs" }

// Tick wakes sleepers and ages waiting tasks, then, only if nothing is
// currently running, dispatches the Ready task with the smallest
// last_run_tick (ties broken by lowest id).
func (s *FCFSScheduler) Tick(tickCount uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tickCount = tickCount
	s.wakeSleepers()
	s.applyAging()

	if s.current != nil {
		return
	}

	ready := s.readyTasks()
	if len(ready) == 0 {
		return
	}
	best := ready[0]
	for _, t := range ready[1:] {
		if t.LastRunTick < best.LastRunTick {
			best = t
		}
	}
	s.contextSwitch(best)
}
