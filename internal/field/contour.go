package field

import (
	"math"

	"github.com/asdfgtrewq748/kuangyaxitong/internal/geom"
)

// DefaultContourLevels is the tick count requested when none is configured.
const DefaultContourLevels = 9

const minContourLevels = 5

var (
	tickE10 = math.Sqrt(50)
	tickE5  = math.Sqrt(10)
	tickE2  = math.Sqrt(2)
)

// NiceTicks returns roughly count evenly spaced round numbers within
// [lo, hi], each a multiple of 1, 2 or 5 times a power of ten.
func NiceTicks(lo, hi float64, count int) []float64 {
	if count <= 0 || !finite(lo) || !finite(hi) {
		return nil
	}
	if lo == hi {
		return []float64{lo}
	}
	reverse := hi < lo
	if reverse {
		lo, hi = hi, lo
	}
	i1, i2, inc := tickSpec(lo, hi, float64(count))
	if i2 < i1 {
		return nil
	}
	n := int(i2 - i1 + 1)
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		if inc < 0 {
			out[i] = (i1 + float64(i)) / -inc
		} else {
			out[i] = (i1 + float64(i)) * inc
		}
	}
	if reverse {
		for l, r := 0, n-1; l < r; l, r = l+1, r-1 {
			out[l], out[r] = out[r], out[l]
		}
	}
	return out
}

func tickSpec(lo, hi, count float64) (i1, i2, inc float64) {
	step := (hi - lo) / math.Max(0, count)
	power := math.Floor(math.Log10(step))
	e := step / math.Pow(10, power)
	factor := 1.0
	switch {
	case e >= tickE10:
		factor = 10
	case e >= tickE5:
		factor = 5
	case e >= tickE2:
		factor = 2
	}
	if power < 0 {
		inc = math.Pow(10, -power) / factor
		i1 = math.Round(lo * inc)
		i2 = math.Round(hi * inc)
		if i1/inc < lo {
			i1++
		}
		if i2/inc > hi {
			i2--
		}
		inc = -inc
	} else {
		inc = math.Pow(10, power) * factor
		i1 = math.Round(lo / inc)
		i2 = math.Round(hi / inc)
		if i1*inc < lo {
			i1++
		}
		if i2*inc > hi {
			i2--
		}
	}
	if i2 < i1 && count >= 0.5 && count < 2 {
		return tickSpec(lo, hi, count*2)
	}
	return i1, i2, inc
}

// ContourThresholds picks the interior contour levels for a field spanning
// [lo, hi]: nice ticks with the first and last dropped. Nil when the span is
// empty or nothing interior remains.
func ContourThresholds(lo, hi float64, levels int) []float64 {
	if !finite(lo) || !finite(hi) || hi <= lo {
		return nil
	}
	ticks := NiceTicks(lo, hi, max(minContourLevels, levels))
	if len(ticks) <= 2 {
		return nil
	}
	return ticks[1 : len(ticks)-1]
}

// Isolines traces the closed rings where the grid crosses threshold. Ring
// vertices are in grid coordinates (x = column, y = row). Cells outside the
// grid and non-finite cells count as below the threshold, so every ring
// closes. Saddles separate the two above corners.
func Isolines(g *ScalarGrid, threshold float64) [][]geom.Point {
	if g.Empty() || g.Rows < 2 || g.Cols < 2 {
		return nil
	}
	t := tracer{g: g, threshold: threshold, adj: make(map[edgeKey][2]edgeKey)}
	for y := -1; y < g.Rows; y++ {
		for x := -1; x < g.Cols; x++ {
			t.cell(x, y)
		}
	}
	return t.rings()
}

// edgeKey addresses a cell edge in doubled coordinates: (2x+1, 2y) is the
// horizontal edge right of (x, y), (2x, 2y+1) the vertical edge below it.
type edgeKey struct{ x, y int }

var noEdge = edgeKey{x: math.MinInt32, y: math.MinInt32}

type tracer struct {
	g         *ScalarGrid
	threshold float64
	adj       map[edgeKey][2]edgeKey
	order     []edgeKey
}

func (t *tracer) value(x, y int) (float64, bool) {
	if x < 0 || y < 0 || x >= t.g.Cols || y >= t.g.Rows {
		return 0, false
	}
	v := t.g.At(y, x)
	return v, finite(v)
}

func (t *tracer) above(x, y int) bool {
	v, ok := t.value(x, y)
	return ok && v >= t.threshold
}

func (t *tracer) cell(x, y int) {
	top := edgeKey{2*x + 1, 2 * y}
	bottom := edgeKey{2*x + 1, 2*y + 2}
	left := edgeKey{2 * x, 2*y + 1}
	right := edgeKey{2*x + 2, 2*y + 1}

	idx := 0
	if t.above(x, y) {
		idx |= 8
	}
	if t.above(x+1, y) {
		idx |= 4
	}
	if t.above(x+1, y+1) {
		idx |= 2
	}
	if t.above(x, y+1) {
		idx |= 1
	}
	switch idx {
	case 1, 14:
		t.link(left, bottom)
	case 2, 13:
		t.link(bottom, right)
	case 3, 12:
		t.link(left, right)
	case 4, 11:
		t.link(top, right)
	case 5:
		t.link(top, right)
		t.link(left, bottom)
	case 6, 9:
		t.link(top, bottom)
	case 7, 8:
		t.link(top, left)
	case 10:
		t.link(top, left)
		t.link(bottom, right)
	}
}

func (t *tracer) link(a, b edgeKey) {
	t.attach(a, b)
	t.attach(b, a)
}

func (t *tracer) attach(from, to edgeKey) {
	n, ok := t.adj[from]
	if !ok {
		n = [2]edgeKey{noEdge, noEdge}
		t.order = append(t.order, from)
	}
	if n[0] == noEdge {
		n[0] = to
	} else {
		n[1] = to
	}
	t.adj[from] = n
}

func (t *tracer) rings() [][]geom.Point {
	seen := make(map[edgeKey]bool, len(t.adj))
	var out [][]geom.Point
	for _, start := range t.order {
		if seen[start] {
			continue
		}
		var ring []geom.Point
		prev, cur := noEdge, start
		for !seen[cur] {
			seen[cur] = true
			p := t.crossing(cur)
			if len(ring) == 0 || ring[len(ring)-1] != p {
				ring = append(ring, p)
			}
			n := t.adj[cur]
			next := n[0]
			if next == prev || seen[next] {
				next = n[1]
			}
			if next == noEdge {
				break
			}
			prev, cur = cur, next
		}
		if len(ring) > 1 && ring[0] == ring[len(ring)-1] {
			ring = ring[:len(ring)-1]
		}
		if len(ring) >= 2 {
			out = append(out, ring)
		}
	}
	return out
}

// crossing interpolates where the threshold crosses edge k. An edge touching
// an outside or non-finite sample crosses at its finite end.
func (t *tracer) crossing(k edgeKey) geom.Point {
	var x0, y0, x1, y1 int
	if k.x%2 != 0 {
		x0 = (k.x - 1) / 2
		y0 = k.y / 2
		x1, y1 = x0+1, y0
	} else {
		x0 = k.x / 2
		y0 = (k.y - 1) / 2
		x1, y1 = x0, y0+1
	}
	v0, ok0 := t.value(x0, y0)
	v1, ok1 := t.value(x1, y1)
	p0 := geom.Point{X: float64(x0), Y: float64(y0)}
	p1 := geom.Point{X: float64(x1), Y: float64(y1)}
	switch {
	case ok0 && !ok1:
		return p0
	case ok1 && !ok0:
		return p1
	case !ok0 && !ok1:
		return p0.Lerp(p1, 0.5)
	}
	d := v1 - v0
	if d == 0 {
		return p0.Lerp(p1, 0.5)
	}
	return p0.Lerp(p1, geom.Clamp01((t.threshold-v0)/d))
}
