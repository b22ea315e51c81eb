// Package frame provides the clock and frame-pacing primitives that every
// animated component schedules itself through. Everything runs on the host's
// single frame callback; nothing here starts a goroutine.
package frame

import "time"

// Clock supplies wall-clock readings.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the real monotonic clock.
type SystemClock struct{}

// Now returns time.Now().
func (SystemClock) Now() time.Time { return time.Now() }

// ManualClock is a controllable clock for tests and headless runs.
type ManualClock struct {
	now time.Time
}

// NewManualClock creates a clock frozen at start.
func NewManualClock(start time.Time) *ManualClock {
	return &ManualClock{now: start}
}

// Now returns the current manual time.
func (c *ManualClock) Now() time.Time { return c.now }

// Set jumps the clock to t.
func (c *ManualClock) Set(t time.Time) { c.now = t }

// Advance moves the clock forward by d.
func (c *ManualClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// Callback is invoked by a Pacer on the next frame.
type Callback func(now time.Time)

// Task is one scheduled frame callback. It fires at most once.
type Task struct {
	cb        Callback
	cancelled bool
	fired     bool
}

// Cancel prevents the task from firing. Safe on nil and safe to repeat.
func (t *Task) Cancel() {
	if t == nil {
		return
	}
	t.cancelled = true
	t.cb = nil
}

// Pending reports whether the task is still waiting to fire.
func (t *Task) Pending() bool {
	return t != nil && !t.cancelled && !t.fired
}

// Pacer schedules callbacks for the next display frame.
type Pacer interface {
	Request(cb Callback) *Task
}

// ManualPacer queues callbacks until the host calls Flush. The ebiten viewer
// flushes once per Update; tests and the headless harness flush explicitly.
type ManualPacer struct {
	queue []*Task
	spare []*Task
}

// NewManualPacer creates an empty pacer.
func NewManualPacer() *ManualPacer {
	return &ManualPacer{}
}

// Request queues cb for the next Flush.
func (p *ManualPacer) Request(cb Callback) *Task {
	t := &Task{cb: cb}
	p.queue = append(p.queue, t)
	return t
}

// Flush fires every task queued before the call. Tasks requested from inside
// a callback wait for the next Flush. Returns the number of callbacks fired.
func (p *ManualPacer) Flush(now time.Time) int {
	batch := p.queue
	p.queue = p.spare[:0]
	fired := 0
	for i, t := range batch {
		batch[i] = nil
		if t.cancelled || t.fired {
			continue
		}
		t.fired = true
		cb := t.cb
		t.cb = nil
		cb(now)
		fired++
	}
	p.spare = batch[:0]
	return fired
}

// Pending returns how many queued tasks would fire on the next Flush.
func (p *ManualPacer) Pending() int {
	n := 0
	for _, t := range p.queue {
		if t.Pending() {
			n++
		}
	}
	return n
}
