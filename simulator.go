// simulator.go - Host for the simulated hart's CPU, memory and interrupts

package kernelsim

import "sync"

// DefaultTimerPeriod is the default number of ticks between automatic
// TIMER interrupt assertions.
const DefaultTimerPeriod = 1

// Simulator owns the one simulated hart: its register file, flat
// memory and interrupt controller. It advances logical time one tick
// at a time and routes each tick to the pluggable scheduler, which it
// holds only through the Scheduler interface (the scheduler, in turn,
// is handed the Simulator's register file only through CPUHost) — a
// relation, not ownership in either direction, per the Design Notes.
type Simulator struct {
	mu sync.Mutex

	registers  *RegisterFile
	memory     *Memory
	interrupts *InterruptController
	scheduler  Scheduler

	tickCount    uint64
	timerPeriod  uint64
	timerCounter uint64
}

// NewSimulator builds a Simulator with memSize bytes of memory (0
// selects DefaultMemorySize) and a TIMER interrupt pre-registered at
// handler address 0; callers that want a real handler address call
// Interrupts().Register(InterruptTimer, ...) to override it.
func NewSimulator(memSize uint32) *Simulator {
	s := &Simulator{
		registers:   NewRegisterFile(),
		memory:      NewMemory(memSize),
		interrupts:  NewInterruptController(),
		timerPeriod: DefaultTimerPeriod,
	}
	s.interrupts.Register(InterruptTimer, InterruptTimer, 0, "timer")
	s.interrupts.Register(InterruptSoftware, InterruptSoftware, 0, "software")
	s.interrupts.Register(InterruptExternal, InterruptExternal, 0, "external")
	return s
}

// SetScheduler installs the scheduler this simulator drives. Until one
// is installed, Tick still advances time, the timer and interrupt
// dispatch, but executes no task.
func (s *Simulator) SetScheduler(sched Scheduler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.scheduler = sched
}

// SetTimerPeriod configures how many ticks elapse between automatic
// TIMER interrupt assertions. A period of 0 disables the automatic
// timer (interrupts can still be triggered manually via Interrupts()).
func (s *Simulator) SetTimerPeriod(period uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.timerPeriod = period
}

// Registers returns the simulator's register file.
func (s *Simulator) Registers() *RegisterFile { return s.registers }

// Memory returns the simulator's flat memory.
func (s *Simulator) Memory() *Memory { return s.memory }

// Interrupts returns the simulator's interrupt controller.
func (s *Simulator) Interrupts() *InterruptController { return s.interrupts }

// TickCount returns the number of ticks elapsed since construction or
// the last Reset.
func (s *Simulator) TickCount() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tickCount
}

// LoadProgram writes words into memory starting at base, little-endian,
// four bytes apart.
func (s *Simulator) LoadProgram(words []uint32, base uint32) error {
	return s.memory.LoadWords(words, base)
}

// Reset zeroes memory and registers, clears pending interrupts, and
// asks the scheduler (if any) to reset its own state.
func (s *Simulator) Reset() {
	s.mu.Lock()
	s.memory.Reset()
	s.registers.Reset()
	s.interrupts.Reset()
	s.tickCount = 0
	s.timerCounter = 0
	sched := s.scheduler
	s.mu.Unlock()

	if sched != nil {
		sched.Reset()
	}
}

// Tick advances logical time by one and runs the per-tick pipeline:
// timer bookkeeping, interrupt dispatch, scheduler wakeups/aging/
// switch, then a single "execute" step of the current task's PC. A
// bounds failure fetching the instruction word is swallowed (per the
// error-handling policy, a corrupted PC must not abort the tick) — the
// PC still advances. The execute step also credits the running task's
// run_count with one tick of actual execution.
func (s *Simulator) Tick() {
	s.mu.Lock()
	s.tickCount++
	tick := s.tickCount

	if s.timerPeriod > 0 {
		s.timerCounter++
		if s.timerCounter >= s.timerPeriod {
			s.timerCounter = 0
			_ = s.interrupts.Trigger(InterruptTimer)
		}
	}

	if irq, ok := s.interrupts.HighestPending(); ok {
		if handler, err := s.interrupts.Dispatch(irq.ID); err == nil {
			s.registers.WritePC(handler)
		}
	}

	sched := s.scheduler
	s.mu.Unlock()

	if sched != nil {
		sched.Tick(tick)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if sched == nil {
		return
	}
	if _, running := sched.Current(); !running {
		return
	}
	pc := s.registers.ReadPC()
	s.memory.ReadWordFault(pc)
	s.registers.WritePC(pc + 4)
	sched.RecordExecutedTick()
}
