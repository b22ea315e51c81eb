package particles

import (
	"math/rand"
	"time"

	"github.com/asdfgtrewq748/kuangyaxitong/internal/canvas"
	"github.com/asdfgtrewq748/kuangyaxitong/internal/frame"
	"github.com/asdfgtrewq748/kuangyaxitong/internal/geom"
	"github.com/asdfgtrewq748/kuangyaxitong/internal/palette"
	"github.com/asdfgtrewq748/kuangyaxitong/internal/viewport"
)

// Ripple is one expanding ring. Origin is in world metres; Radius, MaxRadius
// and Width are pixels.
type Ripple struct {
	Origin    geom.Point
	Radius    float64
	MaxRadius float64
	Life      float64
	Speed     float64
	Width     float64
	Active    bool
}

// RippleConfig holds the ripple engine parameters.
type RippleConfig struct {
	MaxRipples   int
	Speed        float64
	SpeedJitter  float64
	Interval     time.Duration
	MinRadius    float64
	RadiusJitter float64
}

// DefaultRippleConfig returns at most 10 ripples, one per 800ms, growing at
// 50-70 px/s to 100-150 px.
func DefaultRippleConfig() RippleConfig {
	return RippleConfig{
		MaxRipples:   10,
		Speed:        50,
		SpeedJitter:  20,
		Interval:     800 * time.Millisecond,
		MinRadius:    100,
		RadiusJitter: 50,
	}
}

// RippleOption adjusts a RippleConfig.
type RippleOption func(*RippleConfig)

func WithMaxRipples(n int) RippleOption {
	return func(c *RippleConfig) {
		if n > 0 {
			c.MaxRipples = n
		}
	}
}

func WithRippleInterval(d time.Duration) RippleOption {
	return func(c *RippleConfig) {
		if d >= 0 {
			c.Interval = d
		}
	}
}

func WithRippleSpeed(v float64) RippleOption {
	return func(c *RippleConfig) {
		if v > 0 {
			c.Speed = v
		}
	}
}

var rippleColor = palette.RGBA(239, 68, 68, 1)

// Ripples owns the ripple pool.
type Ripples struct {
	cfg    RippleConfig
	clock  frame.Clock
	rng    *rand.Rand
	slots  []Ripple
	active int
	live   []Ripple

	last    time.Time
	emitted bool
}

// NewRipples preallocates MaxRipples records.
func NewRipples(clock frame.Clock, rng *rand.Rand, opts ...RippleOption) *Ripples {
	cfg := DefaultRippleConfig()
	for _, o := range opts {
		o(&cfg)
	}
	return &Ripples{
		cfg:   cfg,
		clock: clock,
		rng:   rng,
		slots: make([]Ripple, 0, cfg.MaxRipples),
		live:  make([]Ripple, 0, cfg.MaxRipples),
	}
}

// Config returns the ripple parameters.
func (r *Ripples) Config() RippleConfig { return r.cfg }

// Count returns the number of active ripples.
func (r *Ripples) Count() int { return r.active }

func (r *Ripples) acquire() *Ripple {
	if r.active >= r.cfg.MaxRipples {
		return nil
	}
	for i := range r.slots {
		if !r.slots[i].Active {
			r.active++
			return &r.slots[i]
		}
	}
	if len(r.slots) == cap(r.slots) {
		return nil
	}
	r.slots = append(r.slots, Ripple{})
	r.active++
	return &r.slots[len(r.slots)-1]
}

// Emit starts a ripple at world point (x, y) unless one was started less
// than Interval ago or the pool is full.
func (r *Ripples) Emit(x, y float64) bool {
	now := r.clock.Now()
	if r.emitted && now.Sub(r.last) < r.cfg.Interval {
		return false
	}
	rp := r.acquire()
	if rp == nil {
		return false
	}
	*rp = Ripple{
		Origin:    geom.Point{X: x, Y: y},
		MaxRadius: r.cfg.MinRadius + r.rng.Float64()*r.cfg.RadiusJitter,
		Life:      1,
		Speed:     r.cfg.Speed + r.rng.Float64()*r.cfg.SpeedJitter,
		Width:     2 + r.rng.Float64()*2,
		Active:    true,
	}
	r.last = now
	r.emitted = true
	r.rebuild()
	return true
}

// Update grows every ripple by dt seconds and retires the spent ones.
func (r *Ripples) Update(dt float64) {
	if dt < 0 {
		dt = 0
	}
	for i := range r.slots {
		rp := &r.slots[i]
		if !rp.Active {
			continue
		}
		rp.Radius += rp.Speed * dt
		rp.Life = 1 - rp.Radius/rp.MaxRadius
		if rp.Life <= 0 {
			rp.Active = false
			rp.Life = 0
			r.active--
		}
	}
	r.rebuild()
}

func (r *Ripples) rebuild() {
	r.live = r.live[:0]
	for i := range r.slots {
		if r.slots[i].Active {
			r.live = append(r.live, r.slots[i])
		}
	}
}

// Live returns a copy of the active ripples.
func (r *Ripples) Live() []Ripple {
	out := make([]Ripple, len(r.live))
	copy(out, r.live)
	return out
}

// Clear retires every ripple and resets the emission interval.
func (r *Ripples) Clear() {
	for i := range r.slots {
		r.slots[i].Active = false
	}
	r.active = 0
	r.live = r.live[:0]
	r.emitted = false
}

// Draw strokes each live ripple, thinning and fading as it grows.
func (r *Ripples) Draw(s canvas.Surface, proj viewport.Projection) {
	for _, rp := range r.live {
		if rp.Radius <= 0 {
			continue
		}
		c := proj.WorldToScreen(rp.Origin.X, rp.Origin.Y)
		s.StrokeCircle(c.X, c.Y, rp.Radius, rp.Width*rp.Life, palette.WithAlpha(rippleColor, rp.Life*0.5))
	}
}
