// errors.go - Sentinel errors for the kernel simulator core

package kernelsim

import "errors"

// Sentinel errors returned across the register, memory, interrupt,
// scheduler and simulator APIs. Callers compare with errors.Is; wrapped
// errors (fmt.Errorf with %w) add the offending id/address/tag.
var (
	ErrBounds           = errors.New("kernelsim: memory access out of bounds")
	ErrUnknownInterrupt = errors.New("kernelsim: unregistered interrupt id")
	ErrInvalidPriority  = errors.New("kernelsim: priority outside [1,32]")
	ErrUnknownTask      = errors.New("kernelsim: task id not found")
	ErrBadState         = errors.New("kernelsim: invalid state transition")
	ErrOutOfMemory      = errors.New("kernelsim: no stack region fits")
	ErrUnknownScheduler = errors.New("kernelsim: unrecognized scheduler tag")
	ErrClockRunning     = errors.New("kernelsim: clock is already running")
)
