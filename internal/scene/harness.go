package scene

import (
	"math/rand"
	"time"

	"github.com/asdfgtrewq748/kuangyaxitong/internal/canvas"
	"github.com/asdfgtrewq748/kuangyaxitong/internal/frame"
	"github.com/asdfgtrewq748/kuangyaxitong/internal/mining"
	"github.com/asdfgtrewq748/kuangyaxitong/internal/palette"
	"github.com/asdfgtrewq748/kuangyaxitong/internal/particles"
	"github.com/asdfgtrewq748/kuangyaxitong/internal/survey"
)

// DefaultFrameInterval is one 60 Hz display frame.
const DefaultFrameInterval = time.Second / 60

// Sample is the scene state recorded after one harness frame.
type Sample struct {
	Frame     int
	Progress  float64
	Particles int
	Ripples   int
	Running   bool
}

// Harness runs a Scene headlessly on a manual clock and pacer, drawing every
// frame into a Recorder. Used by tests and the headless reporter.
type Harness struct {
	Clock   *frame.ManualClock
	Pacer   *frame.ManualPacer
	Surface *canvas.Recorder
	Scene   *Scene
	Samples []Sample
	Frame   int

	interval time.Duration
	seed     int64
	dataset  *survey.Dataset
	cfg      Config
}

// harnessOptionKind controls the pass in which an option is applied.
type harnessOptionKind int

const (
	harnessOptInfra harnessOptionKind = iota // seed, size, interval, dataset, engine options
	harnessOptScene                          // applied once the scene exists
)

// HarnessOption is a builder function applied to a Harness during construction.
type HarnessOption struct {
	kind harnessOptionKind
	fn   func(*Harness)
}

// WithSeed seeds the particle and ripple RNG and the synthetic panel.
func WithSeed(seed int64) HarnessOption {
	return HarnessOption{kind: harnessOptInfra, fn: func(h *Harness) { h.seed = seed }}
}

// WithDataset replaces the synthetic panel.
func WithDataset(ds *survey.Dataset) HarnessOption {
	return HarnessOption{kind: harnessOptInfra, fn: func(h *Harness) { h.dataset = ds }}
}

// WithSurfaceSize sets the recorder size in pixels.
func WithSurfaceSize(w, h int) HarnessOption {
	return HarnessOption{kind: harnessOptInfra, fn: func(hs *Harness) {
		hs.cfg.Width, hs.cfg.Height = w, h
	}}
}

// WithFrameInterval sets the clock advance per frame.
func WithFrameInterval(d time.Duration) HarnessOption {
	return HarnessOption{kind: harnessOptInfra, fn: func(h *Harness) {
		if d > 0 {
			h.interval = d
		}
	}}
}

// WithMetric selects the displayed metric.
func WithMetric(m palette.Metric) HarnessOption {
	return HarnessOption{kind: harnessOptInfra, fn: func(h *Harness) { h.cfg.Metric = m }}
}

// WithSimOptions forwards options to the simulator.
func WithSimOptions(opts ...mining.Option) HarnessOption {
	return HarnessOption{kind: harnessOptInfra, fn: func(h *Harness) {
		h.cfg.Sim = append(h.cfg.Sim, opts...)
	}}
}

// WithParticleOptions forwards options to the particle engine.
func WithParticleOptions(opts ...particles.Option) HarnessOption {
	return HarnessOption{kind: harnessOptInfra, fn: func(h *Harness) {
		h.cfg.Particles = append(h.cfg.Particles, opts...)
	}}
}

// WithRippleOptions forwards options to the ripple engine.
func WithRippleOptions(opts ...particles.RippleOption) HarnessOption {
	return HarnessOption{kind: harnessOptInfra, fn: func(h *Harness) {
		h.cfg.Ripples = append(h.cfg.Ripples, opts...)
	}}
}

// WithScene runs fn on the constructed scene before the first frame, e.g. to
// set a direction or start playback.
func WithScene(fn func(*Scene)) HarnessOption {
	return HarnessOption{kind: harnessOptScene, fn: func(h *Harness) { fn(h.Scene) }}
}

// WithPlaying starts playback before the first frame.
func WithPlaying() HarnessOption {
	return WithScene(func(s *Scene) { s.Play() })
}

// NewHarness constructs a Harness from the given options in ordered passes:
//  1. Infrastructure (seed, size, interval, dataset, engine options)
//  2. Build the scene, synthesizing a panel if none was given
//  3. Scene options
func NewHarness(opts ...HarnessOption) *Harness {
	h := &Harness{
		Clock:    frame.NewManualClock(time.Unix(0, 0)),
		Pacer:    frame.NewManualPacer(),
		interval: DefaultFrameInterval,
		seed:     1,
		cfg:      DefaultConfig(),
	}
	for _, o := range opts {
		if o.kind == harnessOptInfra {
			o.fn(h)
		}
	}
	if h.dataset == nil {
		h.dataset = survey.Synthesize(h.seed, survey.DefaultSynthOptions())
	}
	rng := rand.New(rand.NewSource(h.seed)) // #nosec G404 -- reproducible runs
	h.Scene = New(h.dataset, h.Clock, h.Pacer, rng, h.cfg)
	w, ht := h.Scene.Size()
	h.Surface = canvas.NewRecorder(w, ht)
	h.Scene.Start(h.render)
	for _, o := range opts {
		if o.kind == harnessOptScene {
			o.fn(h)
		}
	}
	return h
}

func (h *Harness) render() {
	h.Surface.Reset()
	h.Scene.Draw(h.Surface)
}

// Interval returns the simulated time per frame.
func (h *Harness) Interval() time.Duration { return h.interval }

// Step advances the clock one frame and flushes the pacer.
func (h *Harness) Step() {
	h.Clock.Advance(h.interval)
	h.Pacer.Flush(h.Clock.Now())
	h.Frame++
	h.Samples = append(h.Samples, Sample{
		Frame:     h.Frame,
		Progress:  h.Scene.Sim.Progress(),
		Particles: h.Scene.Particles.Count(),
		Ripples:   h.Scene.Ripples.Count(),
		Running:   h.Scene.Sim.Running(),
	})
}

// RunFrames advances n frames.
func (h *Harness) RunFrames(n int) {
	for i := 0; i < n; i++ {
		h.Step()
	}
}

// RunUntil advances up to maxFrames, stopping early once predicate returns
// true. Returns the frame at which it was satisfied, or -1.
func (h *Harness) RunUntil(predicate func(*Harness) bool, maxFrames int) int {
	for i := 0; i < maxFrames; i++ {
		h.Step()
		if predicate(h) {
			return h.Frame
		}
	}
	return -1
}

// Teardown stops the scene; later frames change nothing.
func (h *Harness) Teardown() {
	h.Scene.Teardown()
}
