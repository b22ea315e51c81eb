// Package mining simulates a longwall face advancing through a panel and
// derives the front line, goaf and stress/relief zones from its state.
package mining

import (
	"math"
	"time"

	"github.com/asdfgtrewq748/kuangyaxitong/internal/frame"
	"github.com/asdfgtrewq748/kuangyaxitong/internal/geom"
)

const (
	MinSpeed = 0.1
	MaxSpeed = 10.0

	// StepPercent is the progress change of one step forward or back.
	StepPercent = 2.0
)

// Config holds the simulator's fixed parameters.
type Config struct {
	// TotalDistance is the full advance length in metres.
	TotalDistance float64

	// ProgressPerSecond is the percent advanced per second at 1x.
	ProgressPerSecond float64

	AutoPlay bool
}

// DefaultConfig returns a 500 m panel advancing 10% per second.
func DefaultConfig() Config {
	return Config{TotalDistance: 500, ProgressPerSecond: 10}
}

// Option adjusts a Config.
type Option func(*Config)

// WithTotalDistance sets the advance length in metres.
func WithTotalDistance(m float64) Option {
	return func(c *Config) {
		if m > 0 {
			c.TotalDistance = m
		}
	}
}

// WithProgressPerSecond sets the 1x advance rate in percent per second.
func WithProgressPerSecond(p float64) Option {
	return func(c *Config) {
		if p > 0 {
			c.ProgressPerSecond = p
		}
	}
}

// WithAutoPlay starts playback on construction.
func WithAutoPlay(on bool) Option {
	return func(c *Config) { c.AutoPlay = on }
}

// ProgressFunc receives the progress after every tick.
type ProgressFunc func(progress float64)

// Simulator is the playback state machine. All methods must be called from
// the frame thread.
type Simulator struct {
	cfg      Config
	workface *Workface
	clock    frame.Clock
	pacer    frame.Pacer

	progress  float64
	direction float64
	speed     float64
	running   bool

	last     time.Time
	task     *frame.Task
	listener ProgressFunc
}

// NewSimulator creates a paused simulator at progress 0 heading 0°.
func NewSimulator(wf *Workface, clock frame.Clock, pacer frame.Pacer, opts ...Option) *Simulator {
	cfg := DefaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	s := &Simulator{
		cfg:      cfg,
		workface: wf,
		clock:    clock,
		pacer:    pacer,
		speed:    1,
	}
	if cfg.AutoPlay {
		s.Play()
	}
	return s
}

// SetWorkface replaces the panel. Playback state is kept.
func (s *Simulator) SetWorkface(wf *Workface) { s.workface = wf }

// Extent returns the panel bounds, if any.
func (s *Simulator) Extent() (geom.Bounds, bool) { return s.workface.Extent() }

// Config returns the fixed parameters.
func (s *Simulator) Config() Config { return s.cfg }

// Progress returns the advance in percent.
func (s *Simulator) Progress() float64 { return s.progress }

// Direction returns the heading in degrees.
func (s *Simulator) Direction() float64 { return s.direction }

func (s *Simulator) Speed() float64 { return s.speed }

func (s *Simulator) Running() bool { return s.running }

// IsComplete reports whether the face reached the end of the panel.
func (s *Simulator) IsComplete() bool { return s.progress >= 100 }

// CurrentDistance returns metres advanced so far.
func (s *Simulator) CurrentDistance() float64 {
	return s.progress / 100 * s.cfg.TotalDistance
}

// RemainingDistance returns metres left to advance.
func (s *Simulator) RemainingDistance() float64 {
	return s.cfg.TotalDistance - s.CurrentDistance()
}

// Play starts the tick loop, rewinding first if the run is complete.
func (s *Simulator) Play() {
	if s.IsComplete() {
		s.progress = 0
	}
	s.running = true
	s.last = s.clock.Now()
	s.schedule()
}

// Pause stops the tick loop. Safe to call when already paused.
func (s *Simulator) Pause() {
	s.running = false
	s.task.Cancel()
	s.task = nil
}

// TogglePlay pauses a running simulator and plays a paused one.
func (s *Simulator) TogglePlay() {
	if s.running {
		s.Pause()
		return
	}
	s.Play()
}

// Seek jumps to v, clamped to [0, 100]. Works while running or paused.
func (s *Simulator) Seek(v float64) {
	if math.IsNaN(v) {
		return
	}
	s.progress = geom.Clamp(v, 0, 100)
}

func (s *Simulator) StepForward() { s.Seek(s.progress + StepPercent) }
func (s *Simulator) StepBackward() { s.Seek(s.progress - StepPercent) }
func (s *Simulator) SkipToStart() { s.Seek(0) }
func (s *Simulator) SkipToEnd() { s.Seek(100) }

// SetDirection sets the heading, normalized into [0, 360).
func (s *Simulator) SetDirection(angle float64) {
	if math.IsNaN(angle) || math.IsInf(angle, 0) {
		return
	}
	d := math.Mod(math.Mod(angle, 360)+360, 360)
	if d >= 360 {
		d = 0
	}
	s.direction = d
}

// SetPlaybackSpeed sets the multiplier, clamped to [0.1, 10].
func (s *Simulator) SetPlaybackSpeed(v float64) {
	if math.IsNaN(v) {
		return
	}
	s.speed = geom.Clamp(v, MinSpeed, MaxSpeed)
}

// OnProgress registers the single progress listener, replacing any previous
// one. Nil removes it.
func (s *Simulator) OnProgress(fn ProgressFunc) { s.listener = fn }

// Teardown pauses and drops the listener.
func (s *Simulator) Teardown() {
	s.Pause()
	s.listener = nil
}

func (s *Simulator) schedule() {
	s.task.Cancel()
	s.task = s.pacer.Request(s.tick)
}

func (s *Simulator) tick(now time.Time) {
	s.task = nil
	if !s.running {
		return
	}
	dt := now.Sub(s.last).Seconds()
	if dt < 0 {
		dt = 0
	}
	s.last = now

	next := s.progress + dt*s.cfg.ProgressPerSecond*s.speed
	if next >= 100 {
		s.progress = 100
		s.running = false
	} else {
		s.progress = next
		s.schedule()
	}
	if s.listener != nil {
		s.listener(s.progress)
	}
}
