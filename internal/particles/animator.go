package particles

import (
	"time"

	"github.com/asdfgtrewq748/kuangyaxitong/internal/frame"
)

// Updater advances animated state by dt seconds.
type Updater interface {
	Update(dt float64)
}

// UpdaterFunc adapts a function to Updater.
type UpdaterFunc func(dt float64)

func (f UpdaterFunc) Update(dt float64) { f(dt) }

// Animator drives an Updater once per frame: dt since the previous frame,
// Update, render, reschedule.
type Animator struct {
	pacer  frame.Pacer
	clock  frame.Clock
	target Updater

	render func()
	last   time.Time
	task   *frame.Task
	frames int
}

func NewAnimator(pacer frame.Pacer, clock frame.Clock, target Updater) *Animator {
	return &Animator{pacer: pacer, clock: clock, target: target}
}

// Start begins the loop, replacing any loop already running.
func (a *Animator) Start(render func()) {
	a.Stop()
	a.render = render
	a.last = a.clock.Now()
	a.task = a.pacer.Request(a.loop)
}

// Stop cancels the pending frame. Safe to repeat.
func (a *Animator) Stop() {
	a.task.Cancel()
	a.task = nil
}

// Running reports whether a frame is scheduled.
func (a *Animator) Running() bool { return a.task.Pending() }

// Frames returns how many frames the loop has run.
func (a *Animator) Frames() int { return a.frames }

func (a *Animator) loop(now time.Time) {
	current := a.task
	dt := now.Sub(a.last).Seconds()
	if dt < 0 {
		dt = 0
	}
	a.last = now
	a.frames++
	a.target.Update(dt)
	if a.render != nil {
		a.render()
	}
	// render may have stopped or restarted the loop
	if a.task != current {
		return
	}
	a.task = a.pacer.Request(a.loop)
}
