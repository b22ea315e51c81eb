package field

import (
	"image/color"
	"math"

	"github.com/asdfgtrewq748/kuangyaxitong/internal/canvas"
	"github.com/asdfgtrewq748/kuangyaxitong/internal/geom"
	"github.com/asdfgtrewq748/kuangyaxitong/internal/palette"
	"github.com/asdfgtrewq748/kuangyaxitong/internal/viewport"
)

const (
	cellOverlap      = 0.8
	miniCellOverlap  = 0.4
	gridLineMinScale = 3.2
	gridLineWidth    = 1.0
)

var (
	gridLineColor   = palette.RGBA(255, 255, 255, 0.18)
	contourColor    = palette.RGBA(15, 23, 42, 0.32)
	miniBorderColor = palette.RGBA(255, 255, 255, 0.35)
)

// Renderer draws scalar grids and their contours.
type Renderer struct {
	ContourLevels int
	ContourColor  color.NRGBA
	ShowContours  bool
}

// NewRenderer returns a renderer with contours enabled at the default level
// count.
func NewRenderer() *Renderer {
	return &Renderer{
		ContourLevels: DefaultContourLevels,
		ContourColor:  contourColor,
		ShowContours:  true,
	}
}

// DrawGrid fills every on-screen cell with its metric color and returns the
// number of cells drawn. Non-finite cells are left empty.
func (r *Renderer) DrawGrid(s canvas.Surface, g *ScalarGrid, proj viewport.Projection, m palette.Metric, stats palette.Stats) int {
	if g.Empty() {
		return 0
	}
	cw, ch := s.Size()
	b := g.Bounds
	cellW := b.Width() / float64(g.Cols)
	cellH := b.Height() / float64(g.Rows)
	drawn := 0
	for i := 0; i < g.Rows; i++ {
		wy := b.MaxY - float64(i)*cellH
		for j := 0; j < g.Cols; j++ {
			v := g.At(i, j)
			if !finite(v) {
				continue
			}
			wx := b.MinX + float64(j)*cellW
			p1 := proj.WorldToScreen(wx, wy)
			p2 := proj.WorldToScreen(wx+cellW, wy-cellH)
			rect := geom.Rect{
				X: math.Min(p1.X, p2.X),
				Y: math.Min(p1.Y, p2.Y),
				W: math.Abs(p2.X-p1.X) + cellOverlap,
				H: math.Abs(p2.Y-p1.Y) + cellOverlap,
			}
			if rect.Outside(float64(cw), float64(ch)) {
				continue
			}
			s.FillRect(rect.X, rect.Y, rect.W, rect.H, palette.Color(m, v, stats))
			drawn++
		}
	}
	return drawn
}

// DrawContours strokes the closed isolines of g at the interior nice ticks of
// [stats.Min, stats.Max] and returns the ring count. A flat or degenerate
// range draws nothing.
func (r *Renderer) DrawContours(s canvas.Surface, g *ScalarGrid, proj viewport.Projection, stats palette.Stats) int {
	if g.Empty() || g.Rows < 2 || g.Cols < 2 {
		return 0
	}
	thresholds := ContourThresholds(stats.Min, stats.Max, r.ContourLevels)
	if len(thresholds) == 0 {
		return 0
	}
	width := 0.9
	if proj.Scale() > 2 {
		width = 1.2
	}
	opacity := 0.7
	if proj.Scale() < 0.65 {
		opacity = 0.45
	}
	c := r.ContourColor
	c.A = uint8(math.Round(float64(c.A) * opacity))

	count := 0
	var path []geom.Point
	for _, th := range thresholds {
		for _, ring := range Isolines(g, th) {
			path = path[:0]
			for _, gp := range ring {
				w := g.IndexToWorld(gp.X, gp.Y)
				path = append(path, proj.WorldToScreen(w.X, w.Y))
			}
			s.StrokePath(path, true, width, c)
			count++
		}
	}
	return count
}

// DrawGridLines strokes the cell mesh once the scale exceeds 3.2 px/m.
// Returns the number of lines drawn.
func (r *Renderer) DrawGridLines(s canvas.Surface, g *ScalarGrid, proj viewport.Projection) int {
	if g.Empty() || proj.Scale() <= gridLineMinScale {
		return 0
	}
	b := g.Bounds
	cellW := b.Width() / float64(g.Cols)
	cellH := b.Height() / float64(g.Rows)
	n := 0
	for i := 0; i <= g.Rows; i++ {
		wy := b.MaxY - float64(i)*cellH
		a := proj.WorldToScreen(b.MinX, wy)
		c := proj.WorldToScreen(b.MaxX, wy)
		s.StrokeLine(a.X, a.Y, c.X, c.Y, gridLineWidth, gridLineColor)
		n++
	}
	for j := 0; j <= g.Cols; j++ {
		wx := b.MinX + float64(j)*cellW
		a := proj.WorldToScreen(wx, b.MinY)
		c := proj.WorldToScreen(wx, b.MaxY)
		s.StrokeLine(a.X, a.Y, c.X, c.Y, gridLineWidth, gridLineColor)
		n++
	}
	return n
}

// Draw renders cells, then contours when enabled, then the grid-line mesh.
func (r *Renderer) Draw(s canvas.Surface, g *ScalarGrid, proj viewport.Projection, m palette.Metric, stats palette.Stats) {
	r.DrawGrid(s, g, proj, m, stats)
	if r.ShowContours {
		gs := g.Stats()
		r.DrawContours(s, g, proj, gs.Range())
	}
	r.DrawGridLines(s, g, proj)
}

// DrawMiniHeatmap fits the whole grid into rect and outlines it.
func DrawMiniHeatmap(s canvas.Surface, g *ScalarGrid, rect geom.Rect, m palette.Metric, stats palette.Stats) {
	if g.Empty() {
		return
	}
	cellW := rect.W / float64(g.Cols)
	cellH := rect.H / float64(g.Rows)
	for i := 0; i < g.Rows; i++ {
		for j := 0; j < g.Cols; j++ {
			v := g.At(i, j)
			if !finite(v) {
				continue
			}
			s.FillRect(rect.X+float64(j)*cellW, rect.Y+float64(i)*cellH,
				cellW+miniCellOverlap, cellH+miniCellOverlap, palette.Color(m, v, stats))
		}
	}
	s.StrokeRect(rect.X, rect.Y, rect.W, rect.H, 1, miniBorderColor)
}
