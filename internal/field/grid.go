// Package field holds rectangular scalar grids over a panel and draws them as
// colored cells, contour rings and survey point markers.
package field

import (
	"fmt"
	"math"

	"github.com/asdfgtrewq748/kuangyaxitong/internal/geom"
	"github.com/asdfgtrewq748/kuangyaxitong/internal/palette"
)

// ScalarGrid is a rows×cols matrix stored row-major. Row 0 is the top
// (max_y) edge of Bounds.
type ScalarGrid struct {
	Rows   int
	Cols   int
	Values []float64
	Bounds geom.Bounds
}

// NewScalarGrid copies rows into a grid. Every row must have the same length.
func NewScalarGrid(rows [][]float64, b geom.Bounds) (*ScalarGrid, error) {
	g := &ScalarGrid{Bounds: b}
	if len(rows) == 0 {
		return g, nil
	}
	g.Rows = len(rows)
	g.Cols = len(rows[0])
	g.Values = make([]float64, 0, g.Rows*g.Cols)
	for i, row := range rows {
		if len(row) != g.Cols {
			return nil, fmt.Errorf("row %d has %d values, expected %d", i, len(row), g.Cols)
		}
		g.Values = append(g.Values, row...)
	}
	return g, nil
}

// Empty reports whether the grid has no cells.
func (g *ScalarGrid) Empty() bool {
	return g == nil || g.Rows == 0 || g.Cols == 0
}

// At returns the value at row i, column j.
func (g *ScalarGrid) At(i, j int) float64 { return g.Values[i*g.Cols+j] }

// Set stores v at row i, column j.
func (g *ScalarGrid) Set(i, j int, v float64) { g.Values[i*g.Cols+j] = v }

// Stats summarizes the finite values of a grid.
type Stats struct {
	Min   float64
	Max   float64
	Mean  float64
	Std   float64
	Count int
}

// Range returns the min/max pair used for coloring.
func (s Stats) Range() palette.Stats { return palette.Stats{Min: s.Min, Max: s.Max} }

// Stats computes min, max, mean and population standard deviation over the
// finite cells. A grid with no finite cells yields a zero Stats.
func (g *ScalarGrid) Stats() Stats {
	var s Stats
	if g.Empty() {
		return s
	}
	sum := 0.0
	for _, v := range g.Values {
		if !finite(v) {
			continue
		}
		if s.Count == 0 || v < s.Min {
			s.Min = v
		}
		if s.Count == 0 || v > s.Max {
			s.Max = v
		}
		sum += v
		s.Count++
	}
	if s.Count == 0 {
		return s
	}
	s.Mean = sum / float64(s.Count)
	sq := 0.0
	for _, v := range g.Values {
		if finite(v) {
			d := v - s.Mean
			sq += d * d
		}
	}
	s.Std = math.Sqrt(sq / float64(s.Count))
	return s
}

// Delta returns a−b cellwise over the common extent with a's bounds. Cells
// where either side is non-finite are NaN.
func Delta(a, b *ScalarGrid) *ScalarGrid {
	if a.Empty() || b.Empty() {
		return &ScalarGrid{}
	}
	rows := min(a.Rows, b.Rows)
	cols := min(a.Cols, b.Cols)
	out := &ScalarGrid{Rows: rows, Cols: cols, Values: make([]float64, rows*cols), Bounds: a.Bounds}
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			va, vb := a.At(i, j), b.At(i, j)
			if !finite(va) || !finite(vb) {
				out.Set(i, j, math.NaN())
				continue
			}
			out.Set(i, j, va-vb)
		}
	}
	return out
}

// Sample returns the value of the cell nearest world point (wx, wy), clamped
// into the grid. False for an empty grid.
func (g *ScalarGrid) Sample(wx, wy float64) (float64, bool) {
	if g.Empty() {
		return 0, false
	}
	b := g.Bounds
	tx := geom.Clamp01((wx - b.MinX) / b.SafeWidth())
	ty := geom.Clamp01((b.MaxY - wy) / b.SafeHeight())
	col := int(geom.Clamp(math.Round(tx*float64(g.Cols-1)), 0, float64(g.Cols-1)))
	row := int(geom.Clamp(math.Round(ty*float64(g.Rows-1)), 0, float64(g.Rows-1)))
	return g.At(row, col), true
}

// IndexToWorld maps fractional grid coordinates (column x, row y) to world
// space, spreading rows and columns over the full bounds.
func (g *ScalarGrid) IndexToWorld(x, y float64) geom.Point {
	b := g.Bounds
	return geom.Point{
		X: b.MinX + x/math.Max(float64(g.Cols-1), 1)*b.SafeWidth(),
		Y: b.MaxY - y/math.Max(float64(g.Rows-1), 1)*b.SafeHeight(),
	}
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
