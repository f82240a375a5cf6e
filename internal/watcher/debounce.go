package watcher

import (
	"sync"
	"time"
)

// DefaultDelay is the quiet period that has to pass after the last event
// before a reload is requested.
const DefaultDelay = 300 * time.Millisecond

// Debouncer collapses bursts of Trigger calls into a single signal on C.
// Every Trigger re-arms one timer; the timer only signals when it is the
// latest one armed and a trigger is still pending.
type Debouncer struct {
	delay time.Duration
	out   chan struct{}

	mu         sync.Mutex
	timer      *time.Timer
	pending    bool
	generation uint64
}

func NewDebouncer(delay time.Duration) *Debouncer {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Debouncer{
		delay: delay,
		out:   make(chan struct{}, 1),
	}
}

// C delivers one value per settled burst.
func (d *Debouncer) C() <-chan struct{} {
	return d.out
}

func (d *Debouncer) Delay() time.Duration {
	return d.delay
}

// Trigger records an event and restarts the quiet timer.
func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.pending = true
	if d.timer != nil {
		d.timer.Stop()
	}

	d.generation++
	gen := d.generation
	d.timer = time.AfterFunc(d.delay, func() {
		d.fire(gen)
	})
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	defer d.mu.Unlock()

	// Stale tick from a timer that was replaced or stopped.
	if gen != d.generation || !d.pending {
		return
	}

	d.pending = false
	d.timer = nil

	select {
	case d.out <- struct{}{}:
	default:
		// A signal is already queued; the consumer will reload the latest file.
	}
}

// Stop cancels the timer, clears the pending flag and drops any signal that
// has not been consumed yet.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
	d.pending = false
	d.generation++

	select {
	case <-d.out:
	default:
	}
}

// Pending reports whether a burst is waiting for its quiet period.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.pending
}
