package viewport

import (
	"math"
	"testing"

	"github.com/asdfgtrewq748/kuangyaxitong/internal/geom"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

var panel = geom.Bounds{MinX: 0, MaxX: 250, MinY: 0, MaxY: 100}

func TestWorldToScreen_RoundTrip(t *testing.T) {
	v := &Viewport{X: 17, Y: -4, Scale: 2.5}
	for _, w := range []geom.Point{{X: 0, Y: 0}, {X: 125, Y: 50}, {X: 250, Y: 100}, {X: -10, Y: 300}} {
		s := v.WorldToScreen(w.X, w.Y, panel)
		back := v.ScreenToWorld(s.X, s.Y, panel)
		if !near(back.X, w.X) || !near(back.Y, w.Y) {
			t.Fatalf("expected %+v after round trip, got %+v", w, back)
		}
	}
}

func TestWorldToScreen_YAxisFlipped(t *testing.T) {
	v := New()
	top := v.WorldToScreen(0, panel.MaxY, panel)
	bottom := v.WorldToScreen(0, panel.MinY, panel)
	if top.Y != 0 || bottom.Y <= top.Y {
		t.Fatalf("expected max_y at the top, got top=%v bottom=%v", top.Y, bottom.Y)
	}
}

func TestFitToBounds_ScaleAndCentre(t *testing.T) {
	v := New()
	v.FitToBounds(panel, 800, 400, DefaultPadding)
	// min((800-112)/250, (400-112)/100) = min(2.752, 2.88)
	if !near(v.Scale, 2.752) {
		t.Fatalf("expected scale 2.752, got %g", v.Scale)
	}
	c := v.WorldToScreen(125, 50, panel)
	if !near(c.X, 400) || !near(c.Y, 200) {
		t.Fatalf("expected panel centre at (400,200), got %+v", c)
	}
}

func TestFitToBounds_TallScreenUsesHeightLimit(t *testing.T) {
	v := New()
	v.FitToBounds(panel, 1000, 400, DefaultPadding)
	if !near(v.Scale, 2.88) {
		t.Fatalf("expected scale 2.88, got %g", v.Scale)
	}
}

func TestFitToBounds_DegenerateInputs(t *testing.T) {
	v := &Viewport{X: 3, Y: 4, Scale: 7}
	v.FitToBounds(panel, 0, 400, DefaultPadding)
	if v.X != 3 || v.Y != 4 || v.Scale != 7 {
		t.Fatalf("expected no-op for zero width, got %+v", v)
	}
	v.FitToBounds(panel, 50, 50, DefaultPadding)
	if v.Scale != minFitScale {
		t.Fatalf("expected floor scale %g when padding exceeds the screen, got %g", minFitScale, v.Scale)
	}
	v.FitToBounds(geom.Bounds{MinX: 5, MaxX: 5, MinY: 5, MaxY: 5}, 800, 600, DefaultPadding)
	if v.Scale <= 0 || math.IsInf(v.Scale, 0) {
		t.Fatalf("expected finite positive scale for a point bounds, got %g", v.Scale)
	}
}

func TestZoomAt_AnchorStaysPut(t *testing.T) {
	v := &Viewport{X: 40, Y: 30, Scale: 1.5}
	sx, sy := 310.0, 127.0
	before := v.ScreenToWorld(sx, sy, panel)
	if !v.ZoomAt(1.2, sx, sy, panel, DefaultMinScale, DefaultMaxScale) {
		t.Fatal("expected zoom to change scale")
	}
	after := v.WorldToScreen(before.X, before.Y, panel)
	if !near(after.X, sx) || !near(after.Y, sy) {
		t.Fatalf("anchor moved: expected (%g,%g), got %+v", sx, sy, after)
	}
}

func TestZoomAt_ClampedNoOp(t *testing.T) {
	v := &Viewport{X: 1, Y: 2, Scale: DefaultMaxScale}
	if v.ZoomAt(2, 100, 100, panel, DefaultMinScale, DefaultMaxScale) {
		t.Fatal("expected no change at max scale")
	}
	if v.X != 1 || v.Y != 2 {
		t.Fatalf("offset changed on a no-op zoom: %+v", v)
	}
	v.ZoomAt(1e-9, 0, 0, panel, DefaultMinScale, DefaultMaxScale)
	if v.Scale != DefaultMinScale {
		t.Fatalf("expected min scale clamp, got %g", v.Scale)
	}
}

func TestZoomAt_NaNFactorIgnored(t *testing.T) {
	v := &Viewport{X: 1, Y: 2, Scale: 3}
	if v.ZoomAt(math.NaN(), 10, 10, panel, DefaultMinScale, DefaultMaxScale) {
		t.Fatal("expected a NaN factor to be rejected")
	}
	if v.Scale != 3 || v.X != 1 || v.Y != 2 {
		t.Fatalf("expected the viewport unchanged, got %+v", v)
	}
}

func TestDrag_AccumulatesDelta(t *testing.T) {
	v := New()
	v.DragTo(50, 50)
	if v.X != 0 || v.Y != 0 {
		t.Fatal("drag without start moved the viewport")
	}
	v.StartDrag(10, 10)
	v.DragTo(15, 12)
	v.DragTo(25, 2)
	if v.X != 15 || v.Y != -8 {
		t.Fatalf("expected offset (15,-8), got (%g,%g)", v.X, v.Y)
	}
	v.EndDrag()
	v.DragTo(100, 100)
	if v.X != 15 {
		t.Fatal("drag after end moved the viewport")
	}
}

func TestBind_TracksLiveViewport(t *testing.T) {
	v := New()
	p := v.Bind(panel)
	v.Scale = 4
	if p.Scale() != 4 {
		t.Fatalf("expected bound projection to see scale 4, got %g", p.Scale())
	}
	s := p.WorldToScreen(10, 100)
	if s.X != 40 || s.Y != 0 {
		t.Fatalf("expected (40,0), got %+v", s)
	}
}
