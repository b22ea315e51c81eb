package scene

import (
	"math"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/asdfgtrewq748/kuangyaxitong/internal/canvas"
	"github.com/asdfgtrewq748/kuangyaxitong/internal/field"
	"github.com/asdfgtrewq748/kuangyaxitong/internal/frame"
	"github.com/asdfgtrewq748/kuangyaxitong/internal/geom"
	"github.com/asdfgtrewq748/kuangyaxitong/internal/mining"
	"github.com/asdfgtrewq748/kuangyaxitong/internal/palette"
	"github.com/asdfgtrewq748/kuangyaxitong/internal/survey"
)

// barePanel has geometry and one borehole but no grids.
func barePanel() *survey.Dataset {
	b := geom.Bounds{MinX: 0, MaxX: 200, MinY: 0, MaxY: 80}
	return &survey.Dataset{
		Name:     "bare",
		Bounds:   b,
		Workface: &mining.Workface{Bounds: &b},
		Points: []field.Point{
			{ID: "A", Name: "A", X: 120, Y: 40, Values: map[palette.Metric]float64{palette.MPI: 42}},
		},
	}
}

func kinds(ops []canvas.Op) []canvas.OpKind {
	out := make([]canvas.OpKind, len(ops))
	for i, op := range ops {
		out[i] = op.Kind
	}
	return out
}

func TestScene_NewFitsPanelAndHeadsAlongX(t *testing.T) {
	h := NewHarness(WithDataset(barePanel()), WithSurfaceSize(800, 400))
	s := h.Scene
	// min((800-112)/200, (400-112)/80) = 3.44
	if math.Abs(s.Viewport.Scale-3.44) > 1e-9 {
		t.Fatalf("expected fitted scale 3.44, got %g", s.Viewport.Scale)
	}
	if s.Sim.Direction() != DefaultDirection {
		t.Fatalf("expected direction %g, got %g", DefaultDirection, s.Sim.Direction())
	}
	s.Seek(50)
	front, ok := s.Sim.FrontLine()
	if !ok {
		t.Fatal("expected a front line")
	}
	if math.Abs(front.Center.X-100) > 1e-9 || math.Abs(front.Center.Y-40) > 1e-9 {
		t.Fatalf("expected the face at (100,40) halfway along x, got %+v", front.Center)
	}
}

func TestScene_DrawOrderWithoutGrid(t *testing.T) {
	h := NewHarness(WithDataset(barePanel()), WithScene(func(s *Scene) { s.Seek(50) }))
	h.Step()
	got := kinds(h.Surface.Ops())
	want := []canvas.OpKind{
		canvas.OpFillRect,     // background
		canvas.OpStrokePath,   // goaf
		canvas.OpStrokeLine,   // front line
		canvas.OpFillCircle,   // point fill
		canvas.OpStrokeCircle, // point outline
	}
	if len(got) != len(want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("op %d: expected %v, got %v", i, want[i], got[i])
		}
	}
	goaf := h.Surface.Ops()[1]
	if !goaf.Closed || len(goaf.Points) != 4 {
		t.Fatalf("expected a closed 4-point goaf, got closed=%v n=%d", goaf.Closed, len(goaf.Points))
	}
}

func TestScene_DrawOrderWhilePlaying(t *testing.T) {
	ds := barePanel()
	ds.Points = nil
	h := NewHarness(WithDataset(ds), WithPlaying())
	h.RunFrames(3)
	got := kinds(h.Surface.Ops())
	if len(got) < 5 || got[0] != canvas.OpFillRect || got[1] != canvas.OpStrokePath || got[2] != canvas.OpStrokeLine {
		t.Fatalf("expected background, goaf, front line first, got %v", got)
	}
	rest := got[3:]
	circles := 0
	for circles < len(rest) && rest[circles] == canvas.OpFillCircle {
		circles++
	}
	if circles != h.Scene.Particles.Count() {
		t.Fatalf("expected %d particle circles after the face, got %d", h.Scene.Particles.Count(), circles)
	}
	for _, k := range rest[circles:] {
		if k != canvas.OpStrokeCircle {
			t.Fatalf("expected only ripple strokes after particles, got %v", rest)
		}
	}
	if len(rest)-circles != h.Scene.Ripples.Count() {
		t.Fatalf("expected %d ripple strokes, got %d", h.Scene.Ripples.Count(), len(rest)-circles)
	}
}

func TestScene_DrawWithGridAndPoints(t *testing.T) {
	h := NewHarness(WithSeed(2))
	h.Step()
	g := h.Scene.Grid()
	if g == nil {
		t.Fatal("expected a synthetic mpi grid")
	}
	// whole panel on screen: background plus every cell
	if n := h.Surface.Count(canvas.OpFillRect); n != 1+g.Rows*g.Cols {
		t.Fatalf("expected %d rects, got %d", 1+g.Rows*g.Cols, n)
	}
	if h.Surface.Count(canvas.OpStrokePath) == 0 {
		t.Fatal("expected contour rings on a noise field")
	}
	pts := len(h.Scene.Dataset().Points)
	if n := h.Surface.Count(canvas.OpFillCircle); n != pts {
		t.Fatalf("expected %d point markers, got %d", pts, n)
	}

	h.Scene.ToggleContours()
	h.Step()
	if n := h.Surface.Count(canvas.OpStrokePath); n != 0 {
		t.Fatalf("expected no contours once hidden, got %d paths", n)
	}
}

func TestScene_ZonesOutlinedWhenEnabled(t *testing.T) {
	h := NewHarness(WithDataset(barePanel()))
	h.Scene.ToggleZones()
	h.Step()
	if n := h.Surface.Count(canvas.OpStrokeRect); n != 2 {
		t.Fatalf("expected stress and relief outlines, got %d", n)
	}
}

func TestScene_HoverAndClickToggleFocus(t *testing.T) {
	h := NewHarness(WithDataset(barePanel()))
	s := h.Scene
	p := s.Projection().WorldToScreen(120, 40)

	s.Hover(p.X+3, p.Y-2)
	if s.HoverID() != "A" {
		t.Fatalf("expected hover on A, got %q", s.HoverID())
	}
	if pt, ok := s.Hovered(); !ok || pt.ID != "A" {
		t.Fatal("expected Hovered to return A")
	}
	if !s.Click() || !s.Focus().Indices[0] || !s.Focus().Active {
		t.Fatal("expected click to focus A")
	}
	if !s.Log.HasEntry(CatFocus, "toggle", "A on") {
		t.Fatal("expected a focus toggle entry")
	}
	s.Click()
	if s.Focus().Active {
		t.Fatal("expected a second click to clear focus")
	}

	s.Hover(p.X+200, p.Y)
	if s.HoverID() != "" {
		t.Fatalf("expected no hover far from the point, got %q", s.HoverID())
	}
	if s.Click() {
		t.Fatal("expected click with nothing hovered to do nothing")
	}
	if n := s.Log.CountCategory(CatPointer, "hover"); n != 1 {
		t.Fatalf("expected one hover entry, got %d", n)
	}
}

func TestScene_ControlsAreLogged(t *testing.T) {
	h := NewHarness(WithDataset(barePanel()))
	s := h.Scene

	s.SetDirection(-90)
	if s.Sim.Direction() != 270 || !s.Log.HasEntry(CatControl, "direction", "270°") {
		t.Fatalf("expected direction 270 logged, got %g", s.Sim.Direction())
	}
	s.Rotate(DirectionStep * 7)
	if math.Abs(s.Sim.Direction()-15) > 1e-9 {
		t.Fatalf("expected wrap to 15°, got %g", s.Sim.Direction())
	}

	s.SpeedUp()
	if s.Sim.Speed() != 2 {
		t.Fatalf("expected 2x, got %g", s.Sim.Speed())
	}
	s.SlowDown()
	s.SlowDown()
	if s.Sim.Speed() != 0.5 {
		t.Fatalf("expected 0.5x, got %g", s.Sim.Speed())
	}
	s.SetSpeed(50)
	s.SpeedUp()
	if s.Sim.Speed() != mining.MaxSpeed {
		t.Fatalf("expected the speed to stay clamped at max, got %g", s.Sim.Speed())
	}

	s.SetMetric(palette.RSI)
	s.SetMetric("bogus")
	if s.Metric() != palette.RSI || s.Log.CountCategory(CatView, "metric") != 1 {
		t.Fatalf("expected one metric switch to rsi, got %s", s.Metric())
	}

	s.TogglePlay()
	s.TogglePlay()
	if s.Log.CountCategory(CatControl, "play") != 1 || s.Log.CountCategory(CatControl, "pause") != 1 {
		t.Fatal("expected one play and one pause entry")
	}

	s.StepForward()
	s.StepForward()
	s.StepBackward()
	if s.Sim.Progress() != 2 {
		t.Fatalf("expected progress 2 after steps, got %g", s.Sim.Progress())
	}
	s.SkipToEnd()
	if !s.Sim.IsComplete() || !s.Log.HasEntry(CatControl, "skip_end", "100.0%") {
		t.Fatal("expected skip to end logged at 100%")
	}
	s.SkipToStart()
	if s.Sim.Progress() != 0 {
		t.Fatalf("expected progress 0, got %g", s.Sim.Progress())
	}
}

func TestScene_ZoomPanAndFit(t *testing.T) {
	h := NewHarness(WithDataset(barePanel()))
	s := h.Scene
	fitted := *s.Viewport

	cx, cy := 400.0, 200.0
	s.ZoomAt(2, cx, cy)
	if math.Abs(s.Viewport.Scale-fitted.Scale*2) > 1e-9 {
		t.Fatalf("expected scale %g, got %g", fitted.Scale*2, s.Viewport.Scale)
	}
	s.StartDrag(10, 10)
	s.DragTo(40, 30)
	s.EndDrag()
	s.EndDrag()
	if n := s.Log.CountCategory(CatView, "pan"); n != 1 {
		t.Fatalf("expected one pan entry, got %d", n)
	}

	s.Fit()
	if s.Viewport.X != fitted.X || s.Viewport.Y != fitted.Y || s.Viewport.Scale != fitted.Scale {
		t.Fatalf("expected fit to restore %+v, got %+v", fitted, *s.Viewport)
	}

	s.ZoomAt(1e9, cx, cy)
	if s.Viewport.Scale != 50 {
		t.Fatalf("expected zoom clamped at 50, got %g", s.Viewport.Scale)
	}
}

func TestScene_NilDatasetIsEmptyPanel(t *testing.T) {
	clock := frame.NewManualClock(time.Unix(0, 0))
	pacer := frame.NewManualPacer()
	rng := rand.New(rand.NewSource(1)) // #nosec G404 -- deterministic test seed
	s := New(nil, clock, pacer, rng, DefaultConfig())

	if s.Dataset() == nil || s.Grid() != nil || s.Bounds() != (geom.Bounds{}) {
		t.Fatal("expected an empty panel in place of a nil dataset")
	}
	if _, ok := s.Sim.FrontLine(); ok {
		t.Fatal("expected no front line without geometry")
	}
	s.Play()
	s.Update(0.1)
	if s.Particles.Count() != 0 || s.Emitted() != 0 {
		t.Fatalf("expected no emission without geometry, got %d", s.Particles.Count())
	}
	rec := canvas.NewRecorder(s.Size())
	s.Draw(rec)
	if got := kinds(rec.Ops()); len(got) != 1 || got[0] != canvas.OpFillRect {
		t.Fatalf("expected only the background, got %v", got)
	}

	s.SetDataset(barePanel())
	s.SetDataset(nil)
	if s.Dataset() == nil || len(s.Dataset().Points) != 0 {
		t.Fatal("expected SetDataset(nil) to install an empty panel")
	}
}

func TestScene_SetDatasetClearsAndRefits(t *testing.T) {
	h := NewHarness(WithSeed(4), WithPlaying())
	h.RunFrames(5)
	if h.Scene.Particles.Count() == 0 {
		t.Fatal("expected particles before the swap")
	}
	h.Scene.SetDataset(barePanel())
	if h.Scene.Particles.Count() != 0 || h.Scene.Ripples.Count() != 0 {
		t.Fatal("expected pools cleared on dataset swap")
	}
	if h.Scene.Grid() != nil || h.Scene.Stats() != palette.DefaultStats {
		t.Fatal("expected no grid and default stats on the bare panel")
	}
	if !h.Scene.Log.HasEntry(CatView, "dataset", "bare") {
		t.Fatal("expected a dataset entry")
	}
}

func TestSimLog_FilterAndFormat(t *testing.T) {
	sl := NewSimLog()
	var seen []string
	sl.OnEntry(func(e SimLogEntry) { seen = append(seen, e.Key) })
	sl.Add(1, CatControl, "play", "from 0.0%", 0)
	sl.Add(4, CatProgress, "milestone", "10%", 10)
	sl.Add(9, CatProgress, "milestone", "20%", 20)

	if sl.Len() != 3 || len(seen) != 3 {
		t.Fatalf("expected 3 entries and 3 callbacks, got %d / %d", sl.Len(), len(seen))
	}
	if n := sl.CountCategory(CatProgress, ""); n != 2 {
		t.Fatalf("expected 2 progress entries, got %d", n)
	}
	last, ok := sl.LastOf(CatProgress, "milestone")
	if !ok || last.NumVal != 20 {
		t.Fatalf("expected the last milestone at 20, got %+v", last)
	}
	if _, ok := sl.LastOf(CatFocus, ""); ok {
		t.Fatal("expected no focus entries")
	}
	out := sl.Format()
	if strings.Count(out, "\n") != 3 || !strings.HasPrefix(out, "[F=0001] control") {
		t.Fatalf("unexpected format:\n%s", out)
	}
	sl.Reset()
	if sl.Len() != 0 {
		t.Fatal("expected reset to drop entries")
	}
}
