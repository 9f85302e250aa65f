// scheduler_base.go - Shared task table, lifecycle, aging and context switching

package kernelsim

import (
	"fmt"
	"sort"
	"sync"
)

// RegSP is the RISC-V ABI register index for the stack pointer (x2).
const RegSP = 2

// SchedulerBase holds the task table, id allocator, stack arena,
// current-task pointer and metrics shared by every scheduling policy.
// It implements every operation in spec.md §4.5 except schedule(),
// which each variant provides. Composition, not inheritance: variants
// embed a *SchedulerBase and add their own Tick/SchedulerType.
type SchedulerBase struct {
	mu sync.Mutex

	cpu    CPUHost
	stacks *stackAllocator
	cfg    SchedulerConfig

	tasks   map[uint64]*Task
	nextID  uint64
	current *Task

	tickCount uint64
	metrics   Metrics
}

// newSchedulerBase constructs the shared state. cpu is the simulator's
// register file, held only through the CPUHost interface.
func newSchedulerBase(cpu CPUHost, cfg SchedulerConfig) *SchedulerBase {
	return &SchedulerBase{
		cpu:     cpu,
		stacks:  newStackAllocator(cfg.StackArenaBase, cfg.StackArenaSize),
		cfg:     cfg,
		tasks:   make(map[uint64]*Task),
		nextID:  1,
		metrics: newMetrics(),
	}
}

// createTask allocates a new task in state Ready. Caller must hold mu.
func (b *SchedulerBase) createTask(name string, priority int, entryPoint uint32, stackSize uint32) (Task, error) {
	if priority < MinPriority || priority > MaxPriority {
		return Task{}, fmt.Errorf("%w: %d", ErrInvalidPriority, priority)
	}
	if stackSize == 0 {
		stackSize = DefaultStackSize
	}
	base, ok := b.stacks.alloc(stackSize)
	if !ok {
		return Task{}, fmt.Errorf("%w: stack size %d", ErrOutOfMemory, stackSize)
	}

	id := b.nextID
	b.nextID++

	t := &Task{
		ID:               id,
		Name:             name,
		State:            Ready,
		Priority:         priority,
		OriginalPriority: priority,
		EntryPoint:       entryPoint,
		StackBase:        base,
		StackSize:        stackSize,
		CreatedTick:      b.tickCount,
		LastRunTick:      b.tickCount,
	}
	t.Registers.PC = entryPoint
	t.Registers.Regs[RegSP] = t.stackPointer()

	b.tasks[id] = t
	return t.clone(), nil
}

func (b *SchedulerBase) lookup(id uint64) (*Task, error) {
	t, ok := b.tasks[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", ErrUnknownTask, id)
	}
	return t, nil
}

// terminate marks a task Terminated and frees its stack region. Caller
// must hold mu.
func (b *SchedulerBase) terminate(id uint64) error {
	t, err := b.lookup(id)
	if err != nil {
		return err
	}
	if t.State == Terminated {
		return nil
	}
	old := t.State
	t.State = Terminated
	b.stacks.release(t.StackBase, t.StackSize)
	if b.current == t {
		b.current = nil
	}
	b.metrics.recordTransition(old, Terminated)
	return nil
}

// block transitions Ready/Running to Blocked. Caller must hold mu.
func (b *SchedulerBase) block(id uint64) error {
	t, err := b.lookup(id)
	if err != nil {
		return err
	}
	switch t.State {
	case Blocked:
		return nil
	case Terminated:
		return fmt.Errorf("%w: task %d is terminated", ErrBadState, id)
	case Ready, Running:
		old := t.State
		if b.current == t {
			b.current = nil
		}
		t.State = Blocked
		b.metrics.recordTransition(old, Blocked)
		return nil
	default:
		return fmt.Errorf("%w: task %d is %s", ErrBadState, id, t.State)
	}
}

// unblock transitions Blocked to Ready. Caller must hold mu.
func (b *SchedulerBase) unblock(id uint64) error {
	t, err := b.lookup(id)
	if err != nil {
		return err
	}
	switch t.State {
	case Ready:
		return nil
	case Blocked:
		t.State = Ready
		t.WaitTicks = 0
		b.metrics.recordTransition(Blocked, Ready)
		return nil
	default:
		return fmt.Errorf("%w: task %d is %s", ErrBadState, id, t.State)
	}
}

// sleep transitions Ready/Running to Sleeping. ticks <= 0 is
// equivalent to an immediate transition to Ready. Caller must hold mu.
func (b *SchedulerBase) sleep(id uint64, ticks int64) error {
	t, err := b.lookup(id)
	if err != nil {
		return err
	}
	if t.State != Ready && t.State != Running {
		return fmt.Errorf("%w: task %d is %s", ErrBadState, id, t.State)
	}
	old := t.State
	if b.current == t {
		b.current = nil
	}
	if ticks <= 0 {
		t.State = Ready
		t.WaitTicks = 0
		b.metrics.recordTransition(old, Ready)
		return nil
	}
	t.State = Sleeping
	t.SleepUntil = b.tickCount + uint64(ticks)
	b.metrics.recordTransition(old, Sleeping)
	return nil
}

// setPriority sets both the current and original priority without
// changing state. Caller must hold mu.
func (b *SchedulerBase) setPriority(id uint64, p int) error {
	if p < MinPriority || p > MaxPriority {
		return fmt.Errorf("%w: %d", ErrInvalidPriority, p)
	}
	t, err := b.lookup(id)
	if err != nil {
		return err
	}
	t.Priority = p
	t.OriginalPriority = p
	return nil
}

// wakeSleepers moves every Sleeping task whose deadline has passed
// back to Ready. Caller must hold mu.
func (b *SchedulerBase) wakeSleepers() {
	for _, t := range b.tasks {
		if t.State == Sleeping && t.SleepUntil <= b.tickCount {
			t.State = Ready
			t.WaitTicks = 0
			b.metrics.recordTransition(Sleeping, Ready)
		}
	}
}

// applyAging increments wait_ticks for every Ready task and, every
// AgingInterval ticks, lowers (raises effective priority of) any Ready
// task that has waited at least AgingThreshold ticks. Caller must hold
// mu.
func (b *SchedulerBase) applyAging() {
	if !b.cfg.AgingEnabled || b.cfg.AgingInterval == 0 {
		return
	}
	for _, t := range b.tasks {
		if t.State == Ready {
			t.WaitTicks++
		}
	}
	if b.tickCount%b.cfg.AgingInterval != 0 {
		return
	}
	for _, t := range b.tasks {
		if t.State == Ready && t.WaitTicks >= b.cfg.AgingThreshold {
			if t.Priority > MinPriority {
				t.Priority--
			}
			t.WaitTicks = 0
		}
	}
}

// contextSwitch saves the outgoing Running task (if any) and dispatches
// next. A nil next idles the CPU: current_task is cleared and register
// state is left untouched. Caller must hold mu.
//
// RunCount is not touched here: it counts ticks of actual execution, one
// per call to RecordExecutedTick, not dispatches.
func (b *SchedulerBase) contextSwitch(next *Task) {
	if b.current != nil && b.current.State == Running {
		out := b.current
		out.Registers = b.cpu.Snapshot()
		out.State = Ready
		out.WaitTicks = 0
		b.metrics.recordTransition(Running, Ready)
		b.current = nil
	}
	if next == nil {
		return
	}

	prevState := next.State
	b.cpu.Restore(next.Registers)
	next.State = Running
	if next.Priority < next.OriginalPriority {
		next.Priority++
	}
	b.current = next
	b.metrics.ContextSwitches++
	next.LastRunTick = b.tickCount
	b.metrics.recordTransition(prevState, Running)
}

// readyTasks returns every Ready task, sorted by ascending id.
func (b *SchedulerBase) readyTasks() []*Task {
	var out []*Task
	for _, t := range b.tasks {
		if t.State == Ready {
			out = append(out, t)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Tasks returns a snapshot of every task, sorted by ascending id.
func (b *SchedulerBase) Tasks() []Task {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Task, 0, len(b.tasks))
	for _, t := range b.tasks {
		out = append(out, t.clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Current returns a snapshot of the running task, if any.
func (b *SchedulerBase) Current() (Task, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		return Task{}, false
	}
	return b.current.clone(), true
}

// Metrics returns a snapshot of the accounting counters.
func (b *SchedulerBase) Metrics() Metrics {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.metrics.snapshot()
}

// CreateTask, Terminate, Block, Unblock, Sleep and SetPriority are the
// exported, lock-acquiring wrappers around the unexported helpers
// above; they are shared verbatim by every variant via embedding.

func (b *SchedulerBase) CreateTask(name string, priority int, entryPoint uint32, stackSize uint32) (Task, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.createTask(name, priority, entryPoint, stackSize)
}

func (b *SchedulerBase) Terminate(id uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.terminate(id)
}

func (b *SchedulerBase) Block(id uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.block(id)
}

func (b *SchedulerBase) Unblock(id uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.unblock(id)
}

func (b *SchedulerBase) Sleep(id uint64, ticks int64) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sleep(id, ticks)
}

func (b *SchedulerBase) SetPriority(id uint64, p int) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.setPriority(id, p)
}

// RecordExecutedTick credits the running task, if any, with one tick of
// actual execution. Called once per simulator tick from the "execute"
// step.
func (b *SchedulerBase) RecordExecutedTick() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current != nil {
		b.current.RunCount++
	}
}

// Reset clears the task table, id allocator, stack arena and metrics.
// Caller must not hold mu.
func (b *SchedulerBase) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tasks = make(map[uint64]*Task)
	b.nextID = 1
	b.current = nil
	b.tickCount = 0
	b.metrics = newMetrics()
	b.stacks = newStackAllocator(b.cfg.StackArenaBase, b.cfg.StackArenaSize)
}
