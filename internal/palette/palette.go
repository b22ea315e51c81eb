// Package palette maps metric values to colors through per-metric ramps with
// uniform B-spline interpolation.
package palette

import (
	"fmt"
	"image/color"
	"math"
	"strings"

	"github.com/crazy3lf/colorconv"
	"github.com/lucasb-eyer/go-colorful"
)

// Metric identifies one geophysical index.
type Metric string

const (
	MPI Metric = "mpi"
	RSI Metric = "rsi"
	BRI Metric = "bri"
	ASI Metric = "asi"
)

// Metrics lists the known metrics in display order.
var Metrics = []Metric{MPI, RSI, BRI, ASI}

// Meta describes a metric for legends and readouts.
type Meta struct {
	Key   Metric
	Title string
	Note  string
}

var metas = map[Metric]Meta{
	MPI: {Key: MPI, Title: "MPI", Note: "Composite pressure index"},
	RSI: {Key: RSI, Title: "RSI", Note: "Roof stability"},
	BRI: {Key: BRI, Title: "BRI", Note: "Burst risk"},
	ASI: {Key: ASI, Title: "ASI", Note: "Abutment stress"},
}

// Known reports whether m is one of the four metrics.
func Known(m Metric) bool {
	_, ok := metas[m]
	return ok
}

// MetaFor returns the description of m, falling back to MPI.
func MetaFor(m Metric) Meta {
	if meta, ok := metas[m]; ok {
		return meta
	}
	return metas[MPI]
}

var rampHex = map[Metric][]string{
	MPI: {"#3b82f6", "#facc15", "#fb923c", "#f87171", "#dc2626"},
	RSI: {"#dc2626", "#fb923c", "#facc15", "#84cc16", "#16a34a"},
	BRI: {"#dc2626", "#fb923c", "#facc15", "#84cc16", "#16a34a"},
	ASI: {"#3b82f6", "#6366f1", "#8b5cf6", "#ec4899", "#dc2626"},
}

// ramps holds the parsed stops as 0..255 channel triples.
var ramps = func() map[Metric][][3]float64 {
	out := make(map[Metric][][3]float64, len(rampHex))
	for m, hexes := range rampHex {
		stops := make([][3]float64, len(hexes))
		for i, h := range hexes {
			c, err := colorful.Hex(h)
			if err != nil {
				panic(fmt.Sprintf("palette: bad ramp stop %q for %s: %v", h, m, err))
			}
			r, g, b := c.RGB255()
			stops[i] = [3]float64{float64(r), float64(g), float64(b)}
		}
		out[m] = stops
	}
	return out
}()

func stopsFor(m Metric) (Metric, [][3]float64) {
	if s, ok := ramps[m]; ok {
		return m, s
	}
	return MPI, ramps[MPI]
}

// Stats is the value range a color is normalized against.
type Stats struct {
	Min float64
	Max float64
}

// DefaultStats is used whenever a range is missing or degenerate.
var DefaultStats = Stats{Min: 0, Max: 100}

// Safe returns s, or DefaultStats when either end is non-finite or the range
// is empty.
func (s Stats) Safe() Stats {
	if math.IsNaN(s.Min) || math.IsNaN(s.Max) || math.IsInf(s.Min, 0) || math.IsInf(s.Max, 0) || s.Min == s.Max {
		return DefaultStats
	}
	return s
}

// Normalize maps v into [0, 1] against the safe range.
func (s Stats) Normalize(v float64) float64 {
	safe := s.Safe()
	t := (v - safe.Min) / (safe.Max - safe.Min)
	if math.IsNaN(t) {
		return 0
	}
	return math.Max(0, math.Min(1, t))
}

// Color maps value to the metric's ramp. Unknown metrics use the MPI ramp.
func Color(m Metric, value float64, stats Stats) color.NRGBA {
	_, stops := stopsFor(m)
	return basis(stops, stats.Normalize(value))
}

// At samples the metric's ramp at t in [0, 1].
func At(m Metric, t float64) color.NRGBA {
	_, stops := stopsFor(m)
	return basis(stops, math.Max(0, math.Min(1, t)))
}

// basis evaluates a uniform cubic B-spline through stops with reflected end
// control points, so t=0 and t=1 land exactly on the first and last stop.
func basis(stops [][3]float64, t float64) color.NRGBA {
	n := len(stops) - 1
	var i int
	switch {
	case t <= 0:
		t, i = 0, 0
	case t >= 1:
		t, i = 1, n-1
	default:
		i = int(math.Floor(t * float64(n)))
	}
	v1, v2 := stops[i], stops[i+1]
	var out [3]float64
	for ch := 0; ch < 3; ch++ {
		p0 := 2*v1[ch] - v2[ch]
		if i > 0 {
			p0 = stops[i-1][ch]
		}
		p3 := 2*v2[ch] - v1[ch]
		if i < n-1 {
			p3 = stops[i+2][ch]
		}
		out[ch] = spline((t-float64(i)/float64(n))*float64(n), p0, v1[ch], v2[ch], p3)
	}
	return color.NRGBA{R: channel(out[0]), G: channel(out[1]), B: channel(out[2]), A: 255}
}

func spline(t1, v0, v1, v2, v3 float64) float64 {
	t2 := t1 * t1
	t3 := t2 * t1
	return ((1-3*t1+3*t2-t3)*v0 +
		(4-6*t2+3*t3)*v1 +
		(1+3*t1+3*t2-3*t3)*v2 +
		t3*v3) / 6
}

func channel(v float64) uint8 {
	return uint8(math.Max(0, math.Min(255, math.Round(v))))
}

// Ramp returns the metric's stop colors in order.
func Ramp(m Metric) []color.NRGBA {
	_, stops := stopsFor(m)
	out := make([]color.NRGBA, len(stops))
	for i, s := range stops {
		out[i] = color.NRGBA{R: channel(s[0]), G: channel(s[1]), B: channel(s[2]), A: 255}
	}
	return out
}

// LegendGradient returns a CSS linear-gradient over the metric's stops.
func LegendGradient(m Metric) string {
	key, _ := stopsFor(m)
	return "linear-gradient(90deg, " + strings.Join(rampHex[key], ",") + ")"
}

// MutedGray converts c to its luminance gray and blends it toward 235 by
// 1-ratio. Alpha is preserved.
func MutedGray(c color.Color, ratio float64) color.NRGBA {
	cf, _ := colorful.MakeColor(c)
	r, g, b := cf.RGB255()
	gray := math.Round(float64(r)*0.299 + float64(g)*0.587 + float64(b)*0.114)
	blended := channel(gray*ratio + 235*(1-ratio))
	a := color.NRGBAModel.Convert(c).(color.NRGBA).A
	return color.NRGBA{R: blended, G: blended, B: blended, A: a}
}

// HSLA builds a color from hue in degrees, saturation and lightness in [0,1]
// and alpha in [0,1].
func HSLA(h, s, l, a float64) color.NRGBA {
	h = math.Mod(h, 360)
	if h < 0 {
		h += 360
	}
	r, g, b, err := colorconv.HSLToRGB(h, clamp01(s), clamp01(l))
	if err != nil {
		return color.NRGBA{A: alpha(a)}
	}
	return color.NRGBA{R: r, G: g, B: b, A: alpha(a)}
}

// WithAlpha returns c with its alpha replaced by a in [0,1].
func WithAlpha(c color.NRGBA, a float64) color.NRGBA {
	c.A = alpha(a)
	return c
}

// RGBA builds a color from 0..255 channels and alpha in [0,1].
func RGBA(r, g, b uint8, a float64) color.NRGBA {
	return color.NRGBA{R: r, G: g, B: b, A: alpha(a)}
}

// MustHex parses a #rrggbb literal.
func MustHex(h string) color.NRGBA {
	c, err := colorful.Hex(h)
	if err != nil {
		panic(fmt.Sprintf("palette: bad hex %q: %v", h, err))
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

func alpha(a float64) uint8 { return channel(clamp01(a) * 255) }

func clamp01(v float64) float64 { return math.Max(0, math.Min(1, v)) }
