// Package particles animates stress and relief flow around the mining face
// with fixed-capacity record pools, plus expanding ripples at the face.
package particles

import (
	"math"
	"math/rand"
	"time"

	"github.com/asdfgtrewq748/kuangyaxitong/internal/canvas"
	"github.com/asdfgtrewq748/kuangyaxitong/internal/geom"
	"github.com/asdfgtrewq748/kuangyaxitong/internal/palette"
	"github.com/asdfgtrewq748/kuangyaxitong/internal/viewport"
)

// Kind separates stress particles (ahead of the face) from relief particles
// (behind it).
type Kind int

const (
	Stress Kind = iota
	Relief
)

func (k Kind) String() string {
	if k == Relief {
		return "relief"
	}
	return "stress"
}

// Particle is one pool record. Positions are world metres, velocities metres
// per second, Size pixels.
type Particle struct {
	Pos    geom.Point
	Vel    geom.Point
	Kind   Kind
	Life   float64
	Hue    float64
	Size   float64
	Active bool

	age     float64
	maxLife float64
}

// Config holds the particle engine parameters. Slack is storage
// preallocated beyond MaxParticles; the active count never exceeds
// MaxParticles.
type Config struct {
	MaxParticles int
	Slack        int

	Life       time.Duration
	LifeJitter time.Duration
	EmitRate   int
	Spread     float64
	Turbulence float64
	Damping    float64
}

// DefaultConfig returns 200 particles living 2s±0.25s, two per emission.
func DefaultConfig() Config {
	return Config{
		MaxParticles: 200,
		Slack:        2,
		Life:         2 * time.Second,
		LifeJitter:   250 * time.Millisecond,
		EmitRate:     2,
		Spread:       0.3,
		Turbulence:   0.02,
		Damping:      0.99,
	}
}

// Option adjusts a Config.
type Option func(*Config)

func WithMaxParticles(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.MaxParticles = n
		}
	}
}

func WithEmitRate(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.EmitRate = n
			c.Slack = n
		}
	}
}

func WithLife(base, jitter time.Duration) Option {
	return func(c *Config) {
		if base > 0 {
			c.Life = base
		}
		if jitter >= 0 {
			c.LifeJitter = jitter
		}
	}
}

func WithSpread(v float64) Option { return func(c *Config) { c.Spread = v } }

func WithTurbulence(v float64) Option { return func(c *Config) { c.Turbulence = v } }

func WithDamping(v float64) Option { return func(c *Config) { c.Damping = v } }

// Engine owns the particle pool. It is not safe for concurrent use.
type Engine struct {
	cfg    Config
	rng    *rand.Rand
	slots  []Particle
	active int
	live   []Particle
}

// NewEngine preallocates MaxParticles+Slack records.
func NewEngine(rng *rand.Rand, opts ...Option) *Engine {
	cfg := DefaultConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return &Engine{
		cfg:   cfg,
		rng:   rng,
		slots: make([]Particle, 0, cfg.MaxParticles+cfg.Slack),
		live:  make([]Particle, 0, cfg.MaxParticles),
	}
}

// Config returns the engine parameters.
func (e *Engine) Config() Config { return e.cfg }

// Capacity returns the preallocated record count.
func (e *Engine) Capacity() int { return cap(e.slots) }

// Count returns the number of active particles.
func (e *Engine) Count() int { return e.active }

// acquire returns the first inactive record, growing the pool by one when all
// are in use. Nil at the active limit or when storage is exhausted.
func (e *Engine) acquire() *Particle {
	if e.active >= e.cfg.MaxParticles {
		return nil
	}
	for i := range e.slots {
		if !e.slots[i].Active {
			e.active++
			return &e.slots[i]
		}
	}
	if len(e.slots) == cap(e.slots) {
		return nil
	}
	e.slots = append(e.slots, Particle{})
	e.active++
	return &e.slots[len(e.slots)-1]
}

// minLife floors the jittered lifespan so every particle expires.
const minLife = 0.01

func (e *Engine) spawn(p *Particle, kind Kind, pos, vel geom.Point, hue float64) {
	jitter := e.cfg.LifeJitter.Seconds()
	*p = Particle{
		Pos:     pos,
		Vel:     vel,
		Kind:    kind,
		Life:    1,
		Hue:     hue,
		Size:    2 + e.rng.Float64()*2,
		Active:  true,
		maxLife: math.Max(minLife, e.cfg.Life.Seconds()+e.rng.Float64()*2*jitter-jitter),
	}
}

// EmitStressParticles emits EmitRate particles at random points along seg,
// moving along dir at speed with lateral spread. Warm hues.
func (e *Engine) EmitStressParticles(seg geom.Segment, dir geom.Point, speed float64) int {
	if e.active >= e.cfg.MaxParticles {
		return 0
	}
	n := 0
	for i := 0; i < e.cfg.EmitRate; i++ {
		p := e.acquire()
		if p == nil {
			break
		}
		pos := seg.At(e.rng.Float64())
		vel := geom.Point{
			X: dir.X*speed + (e.rng.Float64()-0.5)*e.cfg.Spread,
			Y: dir.Y*speed + (e.rng.Float64()-0.5)*e.cfg.Spread,
		}
		e.spawn(p, Stress, pos, vel, e.rng.Float64()*30)
		n++
	}
	e.rebuild()
	return n
}

// EmitReliefParticles emits half of EmitRate particles (rounded up) at
// random points inside area, heading in random directions. Cool hues.
func (e *Engine) EmitReliefParticles(area geom.Bounds, speed float64) int {
	if e.active >= e.cfg.MaxParticles {
		return 0
	}
	count := max(1, (e.cfg.EmitRate+1)/2)
	n := 0
	for i := 0; i < count; i++ {
		p := e.acquire()
		if p == nil {
			break
		}
		pos := geom.Point{
			X: area.MinX + e.rng.Float64()*area.Width(),
			Y: area.MinY + e.rng.Float64()*area.Height(),
		}
		angle := e.rng.Float64() * math.Pi * 2
		vel := geom.Point{X: math.Cos(angle) * speed, Y: math.Sin(angle) * speed}
		e.spawn(p, Relief, pos, vel, 200+e.rng.Float64()*40)
		n++
	}
	e.rebuild()
	return n
}

// Update ages every active particle by dt seconds, retires the expired ones
// and integrates the rest.
func (e *Engine) Update(dt float64) {
	if dt < 0 {
		dt = 0
	}
	for i := range e.slots {
		p := &e.slots[i]
		if !p.Active {
			continue
		}
		p.age += dt
		p.Life = 1 - p.age/p.maxLife
		if p.Life <= 0 {
			p.Active = false
			p.Life = 0
			e.active--
			continue
		}
		p.Pos = p.Pos.Add(p.Vel.Scale(dt))
		p.Vel.X += (e.rng.Float64() - 0.5) * e.cfg.Turbulence
		p.Vel.Y += (e.rng.Float64() - 0.5) * e.cfg.Turbulence
		p.Vel = p.Vel.Scale(e.cfg.Damping)
	}
	e.rebuild()
}

func (e *Engine) rebuild() {
	e.live = e.live[:0]
	for i := range e.slots {
		if e.slots[i].Active {
			e.live = append(e.live, e.slots[i])
		}
	}
}

// Live returns a copy of the active particles.
func (e *Engine) Live() []Particle {
	out := make([]Particle, len(e.live))
	copy(out, e.live)
	return out
}

// Clear retires every particle.
func (e *Engine) Clear() {
	for i := range e.slots {
		e.slots[i].Active = false
	}
	e.active = 0
	e.live = e.live[:0]
}

// Draw fills one circle per live particle, shrinking and fading with life.
func (e *Engine) Draw(s canvas.Surface, proj viewport.Projection) {
	for _, p := range e.live {
		sp := proj.WorldToScreen(p.Pos.X, p.Pos.Y)
		s.FillCircle(sp.X, sp.Y, p.Size*p.Life, palette.HSLA(p.Hue, 0.8, 0.6, p.Life*0.6))
	}
}
