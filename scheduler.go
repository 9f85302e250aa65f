// scheduler.go - Scheduler contract and shared configuration

package kernelsim

// CPUHost is the non-owning handle a scheduler uses to read and write
// the simulator's CPU state during a context switch. The simulator
// owns the concrete RegisterFile; the scheduler only ever sees it
// through this interface, matching the Design Notes' "neither embeds
// the other" relation.
type CPUHost interface {
	Snapshot() RegisterSnapshot
	Restore(RegisterSnapshot)
}

// Scheduler is the contract shared by all scheduling policies. The
// Priority, RoundRobin and FCFS variants each implement it on top of
// a shared *SchedulerBase.
type Scheduler interface {
	CreateTask(name string, priority int, entryPoint uint32, stackSize uint32) (Task, error)
	Terminate(id uint64) error
	Block(id uint64) error
	Unblock(id uint64) error
	Sleep(id uint64, ticks int64) error
	SetPriority(id uint64, p int) error

	Tasks() []Task
	Current() (Task, bool)
	Metrics() Metrics
	SchedulerType() string

	// Tick advances scheduling state for tickCount: wakes expired
	// sleepers, applies aging, and makes the variant's schedule/switch
	// decision. Called once per simulator tick, before the "execute"
	// step.
	Tick(tickCount uint64)

	// RecordExecutedTick credits the running task, if any, with one more
	// tick of actual execution. Called once per simulator tick, from the
	// "execute" step, after Tick.
	RecordExecutedTick()

	// Reset clears all tasks and metrics, as on a simulator reset.
	Reset()
}

// SchedulerConfig bundles the tunables shared by every scheduler
// variant plus the stack arena it allocates task stacks from.
type SchedulerConfig struct {
	// TimeSlice is consulted only by the round-robin variant.
	TimeSlice int

	AgingEnabled   bool
	AgingInterval  uint64
	AgingThreshold uint64

	StackArenaBase uint32
	StackArenaSize uint32
}

// DefaultSchedulerConfig returns the spec's defaults: a 10-tick time
// slice, aging every 10 ticks once a task has waited 20, and a stack
// arena occupying the upper half of a memSize-byte address space.
func DefaultSchedulerConfig(memSize uint32) SchedulerConfig {
	return SchedulerConfig{
		TimeSlice:      10,
		AgingEnabled:   true,
		AgingInterval:  10,
		AgingThreshold: 20,
		StackArenaBase: memSize / 2,
		StackArenaSize: memSize - memSize/2,
	}
}
