// Package geom holds the planar primitives shared by the viewer and the
// simulator.
package geom

import "math"

// Epsilon guards divisions by near-zero spans.
const Epsilon = 1e-6

// Point is a 2-D point. World points are metres, screen points are pixels.
type Point struct {
	X float64
	Y float64
}

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{X: p.X + q.X, Y: p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{X: p.X - q.X, Y: p.Y - q.Y} }

// Scale returns p*k.
func (p Point) Scale(k float64) Point { return Point{X: p.X * k, Y: p.Y * k} }

// Dist returns the Euclidean distance between p and q.
func (p Point) Dist(q Point) float64 { return math.Hypot(p.X-q.X, p.Y-q.Y) }

// Lerp interpolates from p (t=0) to q (t=1).
func (p Point) Lerp(q Point, t float64) Point {
	return Point{X: p.X + (q.X-p.X)*t, Y: p.Y + (q.Y-p.Y)*t}
}

// Polar returns the point at distance d from p along angle a (radians).
func (p Point) Polar(a, d float64) Point {
	return Point{X: p.X + math.Cos(a)*d, Y: p.Y + math.Sin(a)*d}
}

// Bounds is an axis-aligned world-space box. MaxY is the top edge on screen.
type Bounds struct {
	MinX float64 `json:"min_x"`
	MaxX float64 `json:"max_x"`
	MinY float64 `json:"min_y"`
	MaxY float64 `json:"max_y"`
}

// Width returns the x extent.
func (b Bounds) Width() float64 { return b.MaxX - b.MinX }

// Height returns the y extent.
func (b Bounds) Height() float64 { return b.MaxY - b.MinY }

// SafeWidth returns the x extent floored at Epsilon.
func (b Bounds) SafeWidth() float64 { return math.Max(b.Width(), Epsilon) }

// SafeHeight returns the y extent floored at Epsilon.
func (b Bounds) SafeHeight() float64 { return math.Max(b.Height(), Epsilon) }

// Center returns the midpoint of the box.
func (b Bounds) Center() Point {
	return Point{X: (b.MinX + b.MaxX) / 2, Y: (b.MinY + b.MaxY) / 2}
}

// Contains reports whether p lies inside the box, edges included.
func (b Bounds) Contains(p Point) bool {
	return p.X >= b.MinX && p.X <= b.MaxX && p.Y >= b.MinY && p.Y <= b.MaxY
}

// BoundsOf returns the bounding box of pts, or false when pts is empty.
func BoundsOf(pts []Point) (Bounds, bool) {
	if len(pts) == 0 {
		return Bounds{}, false
	}
	b := Bounds{MinX: pts[0].X, MaxX: pts[0].X, MinY: pts[0].Y, MaxY: pts[0].Y}
	for _, p := range pts[1:] {
		b.MinX = math.Min(b.MinX, p.X)
		b.MaxX = math.Max(b.MaxX, p.X)
		b.MinY = math.Min(b.MinY, p.Y)
		b.MaxY = math.Max(b.MaxY, p.Y)
	}
	return b, true
}

// Segment is a line segment from A to B.
type Segment struct {
	A Point
	B Point
}

// Length returns the segment length.
func (s Segment) Length() float64 { return s.A.Dist(s.B) }

// At returns the point at fraction t along the segment.
func (s Segment) At(t float64) Point { return s.A.Lerp(s.B, t) }

// Midpoint returns the centre of the segment.
func (s Segment) Midpoint() Point { return s.At(0.5) }

// Translate returns the segment shifted by d.
func (s Segment) Translate(d Point) Segment {
	return Segment{A: s.A.Add(d), B: s.B.Add(d)}
}

// Rect is an axis-aligned rectangle given by its top-left corner and size.
type Rect struct {
	X, Y float64
	W, H float64
}

// Outside reports whether r lies entirely outside a w×h canvas.
func (r Rect) Outside(w, h float64) bool {
	return r.X > w || r.X+r.W < 0 || r.Y > h || r.Y+r.H < 0
}

// Clamp limits v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Clamp01 limits v to [0, 1].
func Clamp01(v float64) float64 { return Clamp(v, 0, 1) }
