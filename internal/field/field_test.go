package field

import (
	"math"
	"testing"

	"github.com/asdfgtrewq748/kuangyaxitong/internal/canvas"
	"github.com/asdfgtrewq748/kuangyaxitong/internal/geom"
	"github.com/asdfgtrewq748/kuangyaxitong/internal/palette"
	"github.com/asdfgtrewq748/kuangyaxitong/internal/viewport"
)

var square = geom.Bounds{MinX: 0, MaxX: 100, MinY: 0, MaxY: 100}

func mustGrid(t *testing.T, rows [][]float64) *ScalarGrid {
	t.Helper()
	g, err := NewScalarGrid(rows, square)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return g
}

func TestNewScalarGrid_RaggedRows(t *testing.T) {
	if _, err := NewScalarGrid([][]float64{{1, 2}, {3}}, square); err == nil {
		t.Fatal("expected an error for ragged rows")
	}
}

func TestStats_SkipsNonFinite(t *testing.T) {
	g := mustGrid(t, [][]float64{{1, 2, math.NaN()}, {3, 4, math.Inf(1)}})
	s := g.Stats()
	if s.Min != 1 || s.Max != 4 || s.Count != 4 {
		t.Fatalf("unexpected stats %+v", s)
	}
	if s.Mean != 2.5 {
		t.Fatalf("expected mean 2.5, got %g", s.Mean)
	}
	if math.Abs(s.Std-math.Sqrt(1.25)) > 1e-12 {
		t.Fatalf("expected std %g, got %g", math.Sqrt(1.25), s.Std)
	}
}

func TestDelta_CommonExtentAndNaN(t *testing.T) {
	a := mustGrid(t, [][]float64{{5, 6, 7}, {8, math.NaN(), 9}})
	b := mustGrid(t, [][]float64{{1, 1}, {2, 2}, {3, 3}})
	d := Delta(a, b)
	if d.Rows != 2 || d.Cols != 2 {
		t.Fatalf("expected 2x2 delta, got %dx%d", d.Rows, d.Cols)
	}
	if d.At(0, 0) != 4 || d.At(1, 0) != 6 {
		t.Fatalf("unexpected delta values %v", d.Values)
	}
	if !math.IsNaN(d.At(1, 1)) {
		t.Fatalf("expected NaN where a is NaN, got %g", d.At(1, 1))
	}
}

func TestSample_NearestClamped(t *testing.T) {
	g := mustGrid(t, [][]float64{
		{1, 2, 3},
		{4, 5, 6},
		{7, 8, 9},
	})
	cases := []struct {
		wx, wy float64
		want   float64
	}{
		{0, 100, 1},
		{100, 0, 9},
		{-50, 500, 1},
		{40, 60, 5},
		{90, 95, 3},
	}
	for _, c := range cases {
		got, ok := g.Sample(c.wx, c.wy)
		if !ok || got != c.want {
			t.Fatalf("sample(%g,%g): expected %g, got %g (ok=%v)", c.wx, c.wy, c.want, got, ok)
		}
	}
	if _, ok := (&ScalarGrid{}).Sample(1, 1); ok {
		t.Fatal("expected no sample from an empty grid")
	}
}

func TestNiceTicks(t *testing.T) {
	got := NiceTicks(0, 1, 5)
	want := []float64{0, 0.2, 0.4, 0.6, 0.8, 1}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Fatalf("expected %v, got %v", want, got)
		}
	}
}

func TestContourThresholds_DropsEndpoints(t *testing.T) {
	got := ContourThresholds(0, 100, DefaultContourLevels)
	if len(got) != 9 || got[0] != 10 || got[8] != 90 {
		t.Fatalf("expected 10..90 in steps of 10, got %v", got)
	}
	if th := ContourThresholds(5, 5, 9); th != nil {
		t.Fatalf("expected no thresholds for a flat field, got %v", th)
	}
	if th := ContourThresholds(0, 100, 1); len(th) == 0 {
		t.Fatal("expected the level count to be raised to at least 5")
	}
}

func TestIsolines_SinglePeakRing(t *testing.T) {
	g := mustGrid(t, [][]float64{
		{0, 0, 0},
		{0, 10, 0},
		{0, 0, 0},
	})
	rings := Isolines(g, 5)
	if len(rings) != 1 {
		t.Fatalf("expected 1 ring, got %d", len(rings))
	}
	if len(rings[0]) != 4 {
		t.Fatalf("expected 4 vertices, got %v", rings[0])
	}
	for _, p := range rings[0] {
		if math.Abs(p.Dist(geom.Point{X: 1, Y: 1})-0.5) > 1e-12 {
			t.Fatalf("expected vertices half a cell from the peak, got %+v", p)
		}
	}
}

func TestIsolines_PlateauClosesAlongBoundary(t *testing.T) {
	g := mustGrid(t, [][]float64{
		{5, 5, 5},
		{5, 5, 5},
		{5, 5, 5},
	})
	rings := Isolines(g, 1)
	if len(rings) != 1 {
		t.Fatalf("expected 1 boundary ring, got %d", len(rings))
	}
	if len(rings[0]) != 8 {
		t.Fatalf("expected the 8 boundary samples, got %v", rings[0])
	}
	for _, p := range rings[0] {
		if p.X < 0 || p.X > 2 || p.Y < 0 || p.Y > 2 {
			t.Fatalf("ring left the grid: %+v", p)
		}
	}
}

func TestIsolines_NonFiniteCellOpensHole(t *testing.T) {
	g := mustGrid(t, [][]float64{
		{10, 10, 10},
		{10, math.NaN(), 10},
		{10, 10, 10},
	})
	rings := Isolines(g, 5)
	if len(rings) != 2 {
		t.Fatalf("expected a boundary ring and a hole, got %d rings", len(rings))
	}
	var hole []geom.Point
	for _, r := range rings {
		if len(r) == 4 {
			hole = r
		}
	}
	if hole == nil {
		t.Fatalf("expected a 4-vertex hole ring, got %v", rings)
	}
	for _, p := range hole {
		if math.Abs(p.Dist(geom.Point{X: 1, Y: 1})-1) > 1e-12 {
			t.Fatalf("expected the hole to cross at the finite neighbours, got %+v", p)
		}
	}
}

func TestIsolines_SaddleSeparatesCorners(t *testing.T) {
	g := mustGrid(t, [][]float64{
		{10, 0},
		{0, 10},
	})
	if rings := Isolines(g, 5); len(rings) != 2 {
		t.Fatalf("expected the saddle to split into 2 rings, got %d", len(rings))
	}
}

func TestDrawGrid_CullsOffscreenCells(t *testing.T) {
	g := mustGrid(t, [][]float64{{1, 2}, {3, 4}})
	vp := viewport.New()
	r := NewRenderer()
	rec := canvas.NewRecorder(100, 100)
	if n := r.DrawGrid(rec, g, vp.Bind(square), palette.MPI, palette.Stats{Min: 1, Max: 4}); n != 4 {
		t.Fatalf("expected 4 cells, got %d", n)
	}
	first := rec.Filter(canvas.OpFillRect)[0]
	if math.Abs(first.Args[2]-50.8) > 1e-9 {
		t.Fatalf("expected 0.8px overlap on cell width, got %g", first.Args[2])
	}

	rec.Reset()
	vp.X = -60
	if n := r.DrawGrid(rec, g, vp.Bind(square), palette.MPI, palette.Stats{Min: 1, Max: 4}); n != 2 {
		t.Fatalf("expected the left column culled, got %d cells", n)
	}
	rec.Reset()
	vp.X = -1000
	if n := r.DrawGrid(rec, g, vp.Bind(square), palette.MPI, palette.Stats{Min: 1, Max: 4}); n != 0 {
		t.Fatalf("expected every cell culled, got %d", n)
	}
}

func TestDrawGridLines_OnlyWhenZoomedIn(t *testing.T) {
	g := mustGrid(t, [][]float64{{1, 2}, {3, 4}})
	vp := viewport.New()
	r := NewRenderer()
	rec := canvas.NewRecorder(800, 800)
	if n := r.DrawGridLines(rec, g, vp.Bind(square)); n != 0 {
		t.Fatalf("expected no grid lines at scale 1, got %d", n)
	}
	vp.Scale = 4
	if n := r.DrawGridLines(rec, g, vp.Bind(square)); n != 6 {
		t.Fatalf("expected 6 grid lines, got %d", n)
	}
}

func TestDrawContours_FlatFieldSkipped(t *testing.T) {
	g := mustGrid(t, [][]float64{{3, 3}, {3, 3}})
	r := NewRenderer()
	rec := canvas.NewRecorder(100, 100)
	r.Draw(rec, g, viewport.New().Bind(square), palette.MPI, palette.Stats{Min: 3, Max: 3})
	if rec.Count(canvas.OpStrokePath) != 0 {
		t.Fatal("expected no contour paths for a flat field")
	}
	if rec.Count(canvas.OpFillRect) != 4 {
		t.Fatalf("expected the cells still filled, got %d", rec.Count(canvas.OpFillRect))
	}
}

func TestDrawContours_StyleByScale(t *testing.T) {
	g := mustGrid(t, [][]float64{
		{0, 0, 0},
		{0, 100, 0},
		{0, 0, 0},
	})
	r := NewRenderer()
	vp := viewport.New()
	vp.Scale = 0.5
	rec := canvas.NewRecorder(100, 100)
	n := r.DrawContours(rec, g, vp.Bind(square), palette.Stats{Min: 0, Max: 100})
	if n == 0 {
		t.Fatal("expected contour rings")
	}
	op := rec.Filter(canvas.OpStrokePath)[0]
	if op.Width != 0.9 || !op.Closed {
		t.Fatalf("expected closed 0.9px path at low zoom, got width=%g closed=%v", op.Width, op.Closed)
	}
	if op.Color.A != uint8(math.Round(math.Round(0.32*255)*0.45)) {
		t.Fatalf("expected dimmed contour alpha, got %d", op.Color.A)
	}
}

func TestDrawPoints_HoverAndFocus(t *testing.T) {
	pts := []Point{
		{ID: "a", X: 10, Y: 90, Values: map[palette.Metric]float64{palette.MPI: 20}},
		{ID: "b", X: 50, Y: 50, Values: map[palette.Metric]float64{palette.MPI: 80}},
	}
	rec := canvas.NewRecorder(100, 100)
	proj := viewport.New().Bind(square)
	DrawPoints(rec, pts, proj, palette.MPI, palette.Stats{Min: 0, Max: 100}, "a", Focus{})
	fills := rec.Filter(canvas.OpFillCircle)
	if fills[0].Args[2] != radiusHover || fills[1].Args[2] != radiusBase {
		t.Fatalf("unexpected radii %g / %g", fills[0].Args[2], fills[1].Args[2])
	}

	rec.Reset()
	focus := Focus{}
	focus.Toggle(1)
	DrawPoints(rec, pts, proj, palette.MPI, palette.Stats{Min: 0, Max: 100}, "", focus)
	fills = rec.Filter(canvas.OpFillCircle)
	if fills[0].Color.A != uint8(math.Round(255*mutedAlpha)) {
		t.Fatalf("expected dimmed non-focused point, got alpha %d", fills[0].Color.A)
	}
	if fills[0].Color.R != fills[0].Color.G || fills[0].Color.G != fills[0].Color.B {
		t.Fatalf("expected a gray non-focused point, got %+v", fills[0].Color)
	}
	if fills[1].Args[2] != radiusFocused {
		t.Fatalf("expected focused radius, got %g", fills[1].Args[2])
	}
	// focused point: outline + accent ring
	if rec.Count(canvas.OpStrokeCircle) != 3 {
		t.Fatalf("expected 3 stroked circles, got %d", rec.Count(canvas.OpStrokeCircle))
	}
}

func TestNearestPoint(t *testing.T) {
	pts := []Point{{ID: "a", X: 10, Y: 90}, {ID: "dup", X: 10, Y: 90}, {ID: "b", X: 50, Y: 50}}
	proj := viewport.New().Bind(square)
	// (10,90) projects to (10,10)
	i, ok := NearestPoint(14, 10, pts, proj, DefaultPickRadius)
	if !ok || i != 0 {
		t.Fatalf("expected the first of the tied points, got %d ok=%v", i, ok)
	}
	if _, ok := NearestPoint(30, 30, pts, proj, DefaultPickRadius); ok {
		t.Fatal("expected nothing within the pick radius")
	}
	if _, ok := NearestPoint(0, 0, nil, proj, DefaultPickRadius); ok {
		t.Fatal("expected nothing from an empty point set")
	}
}

func TestDrawMiniHeatmap_Border(t *testing.T) {
	g := mustGrid(t, [][]float64{{1, 2}, {3, 4}})
	rec := canvas.NewRecorder(200, 200)
	DrawMiniHeatmap(rec, g, geom.Rect{X: 10, Y: 10, W: 150, H: 110}, palette.RSI, palette.Stats{Min: 1, Max: 4})
	if rec.Count(canvas.OpFillRect) != 4 || rec.Count(canvas.OpStrokeRect) != 1 {
		t.Fatalf("unexpected ops %d fills / %d borders", rec.Count(canvas.OpFillRect), rec.Count(canvas.OpStrokeRect))
	}
}
