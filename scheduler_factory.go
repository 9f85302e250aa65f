// scheduler_factory.go - Builds a Scheduler from a string tag

package kernelsim

import "fmt"

// NewScheduler maps a string tag to the corresponding scheduler
// variant, forwarding cfg (in particular TimeSlice, consulted only by
// "round-robin"). Unknown tags fail with ErrUnknownScheduler.
func NewScheduler(tag string, cpu CPUHost, cfg SchedulerConfig) (Scheduler, error) {
	switch tag {
	case "priority":
		return NewPriorityScheduler(cpu, cfg), nil
	case "round-robin":
		return NewRoundRobinScheduler(cpu, cfg), nil
	case "fcfs":
		return NewFCFSScheduler(cpu, cfg), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScheduler, tag)
	}
}
