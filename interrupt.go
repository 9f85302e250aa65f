// interrupt.go - Interrupt controller for the simulated hart

package kernelsim

import (
	"fmt"
	"sort"
	"sync"
)

// Standard interrupt ids. Priority equals id by convention: a lower id
// is a higher priority.
const (
	InterruptSoftware = 3
	InterruptTimer    = 7
	InterruptExternal = 11
)

// Interrupt describes one registered interrupt source.
type Interrupt struct {
	ID             uint32
	Priority       uint32
	HandlerAddress uint32
	Description    string
	Pending        bool
}

// InterruptController tracks registered interrupt sources, their
// pending bits, and dispatch priority. It is a small registration
// table scanned linearly on lookup, as the Design Notes prescribe.
type InterruptController struct {
	mu      sync.Mutex
	table   map[uint32]*Interrupt
	enabled bool
}

// NewInterruptController returns an enabled controller with no
// registered interrupts.
func NewInterruptController() *InterruptController {
	return &InterruptController{
		table:   make(map[uint32]*Interrupt),
		enabled: true,
	}
}

// Register adds or replaces an interrupt source. Registering an
// already-known id resets its pending bit to false.
func (ic *InterruptController) Register(id, priority, handlerAddress uint32, desc string) {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	ic.table[id] = &Interrupt{
		ID:             id,
		Priority:       priority,
		HandlerAddress: handlerAddress,
		Description:    desc,
	}
}

// Trigger sets the pending bit for id. Fails with ErrUnknownInterrupt
// if id was never registered.
func (ic *InterruptController) Trigger(id uint32) error {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	irq, ok := ic.table[id]
	if !ok {
		return fmt.Errorf("%w: id %d", ErrUnknownInterrupt, id)
	}
	irq.Pending = true
	return nil
}

// Clear clears the pending bit for id. Fails with ErrUnknownInterrupt
// if id was never registered. Clearing an already-clear interrupt is
// a no-op success.
func (ic *InterruptController) Clear(id uint32) error {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	irq, ok := ic.table[id]
	if !ok {
		return fmt.Errorf("%w: id %d", ErrUnknownInterrupt, id)
	}
	irq.Pending = false
	return nil
}

// HasPending reports whether any interrupt is pending. Always false
// when the controller is disabled.
func (ic *InterruptController) HasPending() bool {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	if !ic.enabled {
		return false
	}
	for _, irq := range ic.table {
		if irq.Pending {
			return true
		}
	}
	return false
}

// HighestPending returns the pending interrupt with the lowest
// priority value (ties broken by lowest id), and whether one exists.
// Always (Interrupt{}, false) when disabled.
func (ic *InterruptController) HighestPending() (Interrupt, bool) {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	if !ic.enabled {
		return Interrupt{}, false
	}

	var pending []*Interrupt
	for _, irq := range ic.table {
		if irq.Pending {
			pending = append(pending, irq)
		}
	}
	if len(pending) == 0 {
		return Interrupt{}, false
	}
	sort.Slice(pending, func(i, j int) bool {
		if pending[i].Priority != pending[j].Priority {
			return pending[i].Priority < pending[j].Priority
		}
		return pending[i].ID < pending[j].ID
	})
	return *pending[0], true
}

// Enable allows pending interrupts to be observed and dispatched.
func (ic *InterruptController) Enable() {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	ic.enabled = true
}

// Disable suppresses HasPending/HighestPending without discarding
// pending bits.
func (ic *InterruptController) Disable() {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	ic.enabled = false
}

// Reset clears every pending bit but keeps registrations intact.
func (ic *InterruptController) Reset() {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	for _, irq := range ic.table {
		irq.Pending = false
	}
}

// Dispatch clears the given interrupt's pending bit and returns its
// handler address, for use by the simulator's per-tick pipeline.
func (ic *InterruptController) Dispatch(id uint32) (uint32, error) {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	irq, ok := ic.table[id]
	if !ok {
		return 0, fmt.Errorf("%w: id %d", ErrUnknownInterrupt, id)
	}
	irq.Pending = false
	return irq.HandlerAddress, nil
}
