// clock.go - Tick loop driver with step and continuous modes

package kernelsim

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
)

// stopWait bounds how long Stop waits for the background tick
// goroutine to exit, mirroring the teacher's CoprocessorManager
// worker-shutdown timeout (stop() + <-done + time.After(2*time.Second)
// in coprocessor_manager.go).
const stopWait = 2 * time.Second

// Clock drives a Simulator at a configurable rate, either
// synchronously one tick at a time (Step) or continuously from a
// background goroutine (Start/Stop).
type Clock struct {
	sim  *Simulator
	rate time.Duration

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	group   *errgroup.Group
}

// NewClock returns a Clock driving sim at one tick per rate interval. A
// non-positive rate defaults to one millisecond.
func NewClock(sim *Simulator, rate time.Duration) *Clock {
	if rate <= 0 {
		rate = time.Millisecond
	}
	return &Clock{sim: sim, rate: rate}
}

// Step synchronously advances the simulator by exactly n ticks and
// returns once all n have completed.
func (c *Clock) Step(n int) {
	for i := 0; i < n; i++ {
		c.sim.Tick()
	}
}

// Start launches a background goroutine that calls Tick once per rate
// interval until Stop is called or ctx is cancelled, returning
// immediately. It fails with ErrClockRunning if the clock is already
// running.
func (c *Clock) Start(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.running {
		return ErrClockRunning
	}

	runCtx, cancel := context.WithCancel(ctx)
	group, groupCtx := errgroup.WithContext(runCtx)
	c.cancel = cancel
	c.group = group
	c.running = true

	group.Go(func() error {
		ticker := time.NewTicker(c.rate)
		defer ticker.Stop()
		for {
			select {
			case <-groupCtx.Done():
				return nil
			case <-ticker.C:
				c.sim.Tick()
			}
		}
	})
	return nil
}

// Stop halts the background tick goroutine, blocking until it has
// exited or stopWait has elapsed. Idempotent: calling Stop while not
// running is a no-op.
func (c *Clock) Stop() {
	c.mu.Lock()
	if !c.running {
		c.mu.Unlock()
		return
	}
	cancel, group := c.cancel, c.group
	c.running = false
	c.mu.Unlock()

	cancel()
	done := make(chan struct{})
	go func() {
		_ = group.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(stopWait):
	}
}

// Running reports whether the background tick goroutine is active.
func (c *Clock) Running() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.running
}
