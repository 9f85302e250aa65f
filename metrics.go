// metrics.go - Scheduler accounting, exposed as read-only snapshots

package kernelsim

import "fmt"

// Metrics is a value-type snapshot of scheduler accounting counters.
// It is always returned by copy (never a shared pointer into live
// scheduler state), in the spirit of the teacher's
// CoprocessorManager.GetActiveWorkers()/CoprocDebugInfo snapshot
// pattern and of procstat's Stat.Update()-then-read model.
type Metrics struct {
	ContextSwitches uint64
	Preemptions     uint64

	// Transitions counts state changes keyed by "FROM->TO", e.g.
	// "READY->RUNNING".
	Transitions map[string]uint64
}

// transitionKey formats a (from, to) pair the way Metrics.Transitions
// keys them.
func transitionKey(from, to TaskState) string {
	return fmt.Sprintf("%s->%s", from, to)
}

// newMetrics returns a zeroed, ready-to-use Metrics value.
func newMetrics() Metrics {
	return Metrics{Transitions: make(map[string]uint64)}
}

// snapshot returns a deep copy of m suitable for handing to a caller.
func (m Metrics) snapshot() Metrics {
	cp := Metrics{
		ContextSwitches: m.ContextSwitches,
		Preemptions:     m.Preemptions,
		Transitions:     make(map[string]uint64, len(m.Transitions)),
	}
	for k, v := range m.Transitions {
		cp.Transitions[k] = v
	}
	return cp
}

// recordTransition increments the (from, to) transition counter.
func (m *Metrics) recordTransition(from, to TaskState) {
	if m.Transitions == nil {
		m.Transitions = make(map[string]uint64)
	}
	m.Transitions[transitionKey(from, to)]++
}
