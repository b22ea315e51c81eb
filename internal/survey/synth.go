package survey

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/aquilax/go-perlin"

	"github.com/asdfgtrewq748/kuangyaxitong/internal/field"
	"github.com/asdfgtrewq748/kuangyaxitong/internal/geom"
	"github.com/asdfgtrewq748/kuangyaxitong/internal/mining"
	"github.com/asdfgtrewq748/kuangyaxitong/internal/palette"
)

// SynthOptions shapes a generated panel.
type SynthOptions struct {
	Rows      int
	Cols      int
	Bounds    geom.Bounds
	Boreholes int
	// Frequency is noise cycles across the panel's long side.
	Frequency float64
}

// DefaultSynthOptions is a 250×100 m panel sampled on a 40×100 grid with 24
// boreholes.
func DefaultSynthOptions() SynthOptions {
	return SynthOptions{
		Rows:      40,
		Cols:      100,
		Bounds:    geom.Bounds{MinX: 0, MaxX: 250, MinY: 0, MaxY: 100},
		Boreholes: 24,
		Frequency: 3,
	}
}

const (
	noiseAlpha  = 2.0
	noiseBeta   = 2.0
	noiseOctave = 3
)

// metricBias shapes each field on top of the noise: t runs 0..1 along the
// advance axis.
var metricBias = map[palette.Metric]func(t float64) float64{
	palette.MPI: func(t float64) float64 { return 20 * math.Sin(t*math.Pi) },
	palette.RSI: func(t float64) float64 { return -15 * t },
	palette.BRI: func(t float64) float64 { return 25 * t * t },
	palette.ASI: func(t float64) float64 { return 10 * math.Cos(t*2*math.Pi) },
}

// Synthesize builds a deterministic dataset from fractal Perlin noise, one
// independent field per metric, with boreholes sampled from those fields.
func Synthesize(seed int64, opts SynthOptions) *Dataset {
	if opts.Rows < 2 {
		opts.Rows = 2
	}
	if opts.Cols < 2 {
		opts.Cols = 2
	}
	if opts.Frequency <= 0 {
		opts.Frequency = 1
	}
	b := opts.Bounds
	ds := &Dataset{
		Name:   fmt.Sprintf("synthetic-%d", seed),
		Bounds: b,
		Grids:  make(map[palette.Metric]*field.ScalarGrid, len(palette.Metrics)),
	}
	inset := geom.Bounds{
		MinX: b.MinX,
		MaxX: b.MaxX,
		MinY: b.MinY + b.Height()*0.05,
		MaxY: b.MaxY - b.Height()*0.05,
	}
	ds.Workface = &mining.Workface{Bounds: &inset}

	long := math.Max(b.SafeWidth(), b.SafeHeight())
	for i, m := range palette.Metrics {
		gen := perlin.NewPerlin(noiseAlpha, noiseBeta, noiseOctave, seed+int64(i)*7919)
		g := &field.ScalarGrid{
			Rows:   opts.Rows,
			Cols:   opts.Cols,
			Values: make([]float64, opts.Rows*opts.Cols),
			Bounds: b,
		}
		bias := metricBias[m]
		for r := 0; r < opts.Rows; r++ {
			for c := 0; c < opts.Cols; c++ {
				w := g.IndexToWorld(float64(c), float64(r))
				nx := (w.X - b.MinX) / long * opts.Frequency
				ny := (w.Y - b.MinY) / long * opts.Frequency
				t := (w.X - b.MinX) / b.SafeWidth()
				v := 50 + 45*gen.Noise2D(nx, ny) + bias(t)
				g.Set(r, c, geom.Clamp(v, 0, 100))
			}
		}
		ds.Grids[m] = g
	}

	rng := rand.New(rand.NewSource(seed)) // #nosec G404 -- reproducible fixtures
	for i := 0; i < opts.Boreholes; i++ {
		p := field.Point{
			ID:     fmt.Sprintf("ZK%02d", i+1),
			Name:   fmt.Sprintf("Borehole %d", i+1),
			X:      b.MinX + rng.Float64()*b.Width(),
			Y:      b.MinY + rng.Float64()*b.Height(),
			Values: make(map[palette.Metric]float64, len(palette.Metrics)),
		}
		for _, m := range palette.Metrics {
			if v, ok := ds.Grids[m].Sample(p.X, p.Y); ok {
				p.Values[m] = v
			}
		}
		ds.Points = append(ds.Points, p)
	}
	return ds
}
