package palette

import (
	"image/color"
	"math"
	"testing"
)

func TestColor_EndpointsHitFirstAndLastStop(t *testing.T) {
	for _, m := range Metrics {
		ramp := Ramp(m)
		lo := Color(m, 0, Stats{Min: 0, Max: 10})
		hi := Color(m, 10, Stats{Min: 0, Max: 10})
		if lo != ramp[0] {
			t.Fatalf("%s: expected first stop %+v at min, got %+v", m, ramp[0], lo)
		}
		if hi != ramp[len(ramp)-1] {
			t.Fatalf("%s: expected last stop %+v at max, got %+v", m, ramp[len(ramp)-1], hi)
		}
	}
}

func TestColor_ClampsOutOfRange(t *testing.T) {
	s := Stats{Min: 20, Max: 80}
	if Color(MPI, -1000, s) != Color(MPI, 20, s) {
		t.Fatal("expected values below min to clamp")
	}
	if Color(MPI, 1e9, s) != Color(MPI, 80, s) {
		t.Fatal("expected values above max to clamp")
	}
}

func TestColor_BasisMidpoint(t *testing.T) {
	// t=0.5 sits on the middle knot: (stop1 + 4*stop2 + stop3) / 6.
	got := Color(MPI, 50, Stats{Min: 0, Max: 100})
	want := color.NRGBA{R: 250, G: 150, B: 62, A: 255}
	if got != want {
		t.Fatalf("expected %+v, got %+v", want, got)
	}
}

func TestColor_IsContinuousNotBucketed(t *testing.T) {
	s := Stats{Min: 0, Max: 1000}
	prev := Color(ASI, 0, s)
	for v := 1.0; v <= 1000; v++ {
		c := Color(ASI, v, s)
		if absDiff(c.R, prev.R) > 3 || absDiff(c.G, prev.G) > 3 || absDiff(c.B, prev.B) > 3 {
			t.Fatalf("jump between %g and %g: %+v -> %+v", v-1, v, prev, c)
		}
		prev = c
	}
}

func TestStats_DegenerateFallsBack(t *testing.T) {
	cases := []Stats{
		{Min: 5, Max: 5},
		{Min: math.NaN(), Max: 3},
		{Min: 0, Max: math.Inf(1)},
	}
	for _, s := range cases {
		if s.Safe() != DefaultStats {
			t.Fatalf("expected default stats for %+v, got %+v", s, s.Safe())
		}
	}
	// With the fallback 100 maps to the last stop.
	if Color(MPI, 100, Stats{Min: 5, Max: 5}) != Ramp(MPI)[4] {
		t.Fatal("expected value 100 to reach the last stop under default stats")
	}
}

func TestColor_UnknownMetricUsesMPI(t *testing.T) {
	s := Stats{Min: 0, Max: 1}
	if Color("tsi", 0.3, s) != Color(MPI, 0.3, s) {
		t.Fatal("expected unknown metric to use the mpi ramp")
	}
	if LegendGradient("tsi") != LegendGradient(MPI) {
		t.Fatal("expected unknown metric legend to use the mpi ramp")
	}
}

func TestLegendGradient_StopOrder(t *testing.T) {
	want := "linear-gradient(90deg, #dc2626,#fb923c,#facc15,#84cc16,#16a34a)"
	if got := LegendGradient(RSI); got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestMutedGray(t *testing.T) {
	g := MutedGray(color.NRGBA{R: 255, G: 255, B: 255, A: 255}, 0.84)
	if g.R != 252 || g.G != 252 || g.B != 252 {
		t.Fatalf("expected rgb(252,252,252), got %+v", g)
	}
	black := MutedGray(color.NRGBA{A: 255}, 0.84)
	// 0*0.84 + 235*0.16 = 37.6
	if black.R != 38 {
		t.Fatalf("expected 38 for black, got %d", black.R)
	}
}

func TestHSLA_WarmHue(t *testing.T) {
	c := HSLA(0, 0.8, 0.6, 0.5)
	if c.R <= c.G || c.G != c.B {
		t.Fatalf("expected a red with equal g/b, got %+v", c)
	}
	if c.A != 128 {
		t.Fatalf("expected alpha 128, got %d", c.A)
	}
	cool := HSLA(220, 0.8, 0.6, 1)
	if cool.B <= cool.R {
		t.Fatalf("expected a blue, got %+v", cool)
	}
}

func TestMetaFor_Fallback(t *testing.T) {
	if MetaFor(RSI).Note != "Roof stability" {
		t.Fatalf("unexpected rsi meta %+v", MetaFor(RSI))
	}
	if MetaFor("zzz").Key != MPI {
		t.Fatal("expected mpi meta fallback")
	}
}

func absDiff(a, b uint8) int {
	if a > b {
		return int(a - b)
	}
	return int(b - a)
}
