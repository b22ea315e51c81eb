package field

import (
	"image/color"
	"math"

	"github.com/asdfgtrewq748/kuangyaxitong/internal/canvas"
	"github.com/asdfgtrewq748/kuangyaxitong/internal/geom"
	"github.com/asdfgtrewq748/kuangyaxitong/internal/palette"
	"github.com/asdfgtrewq748/kuangyaxitong/internal/viewport"
)

// DefaultPickRadius is the screen distance within which a point can be picked.
const DefaultPickRadius = 14.0

const (
	radiusHover   = 7.5
	radiusFocused = 6.6
	radiusBase    = 5.8

	mutedRatio = 0.84
	mutedAlpha = 0.24
)

var (
	hoverStroke   = palette.MustHex("#111827")
	defaultStroke = palette.RGBA(255, 255, 255, 0.95)
	missingFill   = palette.MustHex("#94a3b8")
)

// Point is one surveyed borehole with its per-metric readings.
type Point struct {
	ID     string                     `json:"id"`
	Name   string                     `json:"name"`
	X      float64                    `json:"x"`
	Y      float64                    `json:"y"`
	Values map[palette.Metric]float64 `json:"values"`
}

// Pos returns the world position.
func (p Point) Pos() geom.Point { return geom.Point{X: p.X, Y: p.Y} }

// Value returns the reading for m, if present and finite.
func (p Point) Value(m palette.Metric) (float64, bool) {
	v, ok := p.Values[m]
	if !ok || !finite(v) {
		return 0, false
	}
	return v, true
}

// Focus highlights a subset of points by index.
type Focus struct {
	Active  bool
	Indices map[int]bool
	Accent  color.NRGBA
	Animate bool
	PulseT  float64
}

func (f Focus) on() bool { return f.Active && len(f.Indices) > 0 }

// Toggle adds i to the set, or removes it if already present.
func (f *Focus) Toggle(i int) {
	if f.Indices == nil {
		f.Indices = make(map[int]bool)
	}
	if f.Indices[i] {
		delete(f.Indices, i)
	} else {
		f.Indices[i] = true
	}
	f.Active = len(f.Indices) > 0
}

// DrawPoints draws one marker per point colored by its own reading for m.
func DrawPoints(s canvas.Surface, pts []Point, proj viewport.Projection, m palette.Metric, stats palette.Stats, hoveredID string, focus Focus) {
	hasFocus := focus.on()
	accent := focus.Accent
	if accent.A == 0 {
		accent = hoverStroke
	}
	for i, pt := range pts {
		p := proj.WorldToScreen(pt.X, pt.Y)
		hover := hoveredID != "" && hoveredID == pt.ID
		selected := !hasFocus || focus.Indices[i]

		radius := radiusBase
		switch {
		case hover:
			radius = radiusHover
		case selected && hasFocus:
			radius = radiusFocused
		}

		fill := missingFill
		if v, ok := pt.Value(m); ok {
			fill = palette.Color(m, v, stats)
		}
		alpha := 1.0
		if hasFocus && !selected {
			fill = palette.MutedGray(fill, mutedRatio)
			alpha = mutedAlpha
		}
		stroke := defaultStroke
		switch {
		case hover:
			stroke = hoverStroke
		case selected && hasFocus:
			stroke = accent
		}
		width := 1.8
		if hover {
			width = 2.4
		}

		s.FillCircle(p.X, p.Y, radius, fade(fill, alpha))
		s.StrokeCircle(p.X, p.Y, radius, width, fade(stroke, alpha))

		if !selected || !hasFocus || hover {
			continue
		}
		s.StrokeCircle(p.X, p.Y, radius+3.6, 2, fade(accent, 0.95))
		if focus.Animate {
			pulse := (math.Sin(focus.PulseT*5+float64(i)*0.35) + 1) / 2
			s.StrokeCircle(p.X, p.Y, radius+6+pulse*5.5, 1.6+pulse*0.9, fade(accent, 0.35+pulse*0.45))
		}
	}
}

// NearestPoint returns the index of the point closest to (sx, sy) on screen
// if it lies within radius pixels. Ties keep the earlier point.
func NearestPoint(sx, sy float64, pts []Point, proj viewport.Projection, radius float64) (int, bool) {
	best := -1
	bestDist := math.Inf(1)
	for i, pt := range pts {
		p := proj.WorldToScreen(pt.X, pt.Y)
		d := math.Hypot(sx-p.X, sy-p.Y)
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	if best < 0 || bestDist > radius {
		return -1, false
	}
	return best, true
}

// fade multiplies c's alpha by a.
func fade(c color.NRGBA, a float64) color.NRGBA {
	c.A = uint8(math.Round(float64(c.A) * math.Max(0, math.Min(1, a))))
	return c
}
