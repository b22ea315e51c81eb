// Package survey loads panel datasets: workface geometry, borehole readings and
// one scalar grid per metric.
package survey

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/asdfgtrewq748/kuangyaxitong/internal/field"
	"github.com/asdfgtrewq748/kuangyaxitong/internal/geom"
	"github.com/asdfgtrewq748/kuangyaxitong/internal/mining"
	"github.com/asdfgtrewq748/kuangyaxitong/internal/palette"
)

// Dataset is everything the scene renders for one panel.
type Dataset struct {
	Name     string
	Bounds   geom.Bounds
	Workface *mining.Workface
	Points   []field.Point
	Grids    map[palette.Metric]*field.ScalarGrid
}

type datasetJSON struct {
	Name     string              `json:"name"`
	Bounds   *geom.Bounds        `json:"bounds,omitempty"`
	Workface *workfaceJSON       `json:"workface,omitempty"`
	Points   []field.Point       `json:"points"`
	Grids    map[string]gridJSON `json:"grids"`
}

type workfaceJSON struct {
	Bounds *geom.Bounds `json:"bounds,omitempty"`
	Points [][2]float64 `json:"points,omitempty"`
}

type gridJSON struct {
	Rows   [][]float64  `json:"rows"`
	Bounds *geom.Bounds `json:"bounds,omitempty"`
}

// Load reads and parses a dataset file.
func Load(path string) (*Dataset, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path comes from the command line
	if err != nil {
		return nil, fmt.Errorf("read survey %s: %w", path, err)
	}
	ds, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("load survey %s: %w", path, err)
	}
	return ds, nil
}

// Parse decodes a dataset from JSON. Panel bounds default to the workface
// extent, then to the extent of the boreholes.
func Parse(data []byte) (*Dataset, error) {
	var raw datasetJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse survey: %w", err)
	}
	ds := &Dataset{
		Name:   raw.Name,
		Points: raw.Points,
		Grids:  make(map[palette.Metric]*field.ScalarGrid, len(raw.Grids)),
	}
	if raw.Workface != nil {
		wf := &mining.Workface{Bounds: raw.Workface.Bounds}
		for _, p := range raw.Workface.Points {
			wf.Points = append(wf.Points, geom.Point{X: p[0], Y: p[1]})
		}
		ds.Workface = wf
	}

	switch {
	case raw.Bounds != nil:
		ds.Bounds = *raw.Bounds
	case ds.Workface != nil:
		b, ok := ds.Workface.Extent()
		if !ok {
			return nil, errors.New("workface has neither bounds nor points")
		}
		ds.Bounds = b
	default:
		pts := make([]geom.Point, len(ds.Points))
		for i, p := range ds.Points {
			pts[i] = geom.Point{X: p.X, Y: p.Y}
		}
		b, ok := geom.BoundsOf(pts)
		if !ok {
			return nil, errors.New("survey has no bounds, workface or points")
		}
		ds.Bounds = b
	}
	if ds.Workface == nil {
		b := ds.Bounds
		ds.Workface = &mining.Workface{Bounds: &b}
	}

	for key, g := range raw.Grids {
		m := palette.Metric(key)
		if !palette.Known(m) {
			return nil, fmt.Errorf("grid %q: unknown metric", key)
		}
		b := ds.Bounds
		if g.Bounds != nil {
			b = *g.Bounds
		}
		grid, err := field.NewScalarGrid(g.Rows, b)
		if err != nil {
			return nil, fmt.Errorf("grid %q: %w", key, err)
		}
		ds.Grids[m] = grid
	}
	for i, p := range ds.Points {
		for m := range p.Values {
			if !palette.Known(m) {
				return nil, fmt.Errorf("point %d (%s): unknown metric %q", i, p.ID, m)
			}
		}
	}
	return ds, nil
}

// Grid returns the grid for m, or nil.
func (d *Dataset) Grid(m palette.Metric) *field.ScalarGrid {
	if d == nil {
		return nil
	}
	return d.Grids[m]
}

// Metrics returns the metrics that have a grid, in display order.
func (d *Dataset) Metrics() []palette.Metric {
	var out []palette.Metric
	for _, m := range palette.Metrics {
		if d.Grid(m) != nil {
			out = append(out, m)
		}
	}
	return out
}

// PointIndex returns the index of the point with id, or -1.
func (d *Dataset) PointIndex(id string) int {
	for i, p := range d.Points {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// Encode renders the dataset back to JSON.
func (d *Dataset) Encode() ([]byte, error) {
	raw := datasetJSON{
		Name:   d.Name,
		Bounds: &d.Bounds,
		Points: d.Points,
		Grids:  make(map[string]gridJSON, len(d.Grids)),
	}
	if d.Workface != nil {
		wf := &workfaceJSON{Bounds: d.Workface.Bounds}
		for _, p := range d.Workface.Points {
			wf.Points = append(wf.Points, [2]float64{p.X, p.Y})
		}
		raw.Workface = wf
	}
	for m, g := range d.Grids {
		rows := make([][]float64, g.Rows)
		for i := range rows {
			rows[i] = append([]float64(nil), g.Values[i*g.Cols:(i+1)*g.Cols]...)
		}
		b := g.Bounds
		raw.Grids[string(m)] = gridJSON{Rows: rows, Bounds: &b}
	}
	out, err := json.MarshalIndent(raw, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode survey: %w", err)
	}
	return out, nil
}
