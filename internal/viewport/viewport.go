// Package viewport maps world metres to screen pixels with a pan offset and a
// uniform scale. World y grows up, screen y grows down.
package viewport

import (
	"math"

	"github.com/asdfgtrewq748/kuangyaxitong/internal/geom"
)

const (
	DefaultPadding  = 56.0
	DefaultMinScale = 0.1
	DefaultMaxScale = 50.0

	minFitScale = 0.01
)

// Viewport is the pan/zoom state. Scale is always positive.
type Viewport struct {
	X     float64
	Y     float64
	Scale float64

	dragging bool
	lastX    float64
	lastY    float64
}

// New returns a viewport at the origin with unit scale.
func New() *Viewport {
	return &Viewport{Scale: 1}
}

// WorldToScreen projects a world point. x grows right from b.MinX, y grows
// down from b.MaxY.
func (v *Viewport) WorldToScreen(wx, wy float64, b geom.Bounds) geom.Point {
	return geom.Point{
		X: (wx-b.MinX)*v.Scale + v.X,
		Y: (b.MaxY-wy)*v.Scale + v.Y,
	}
}

// ScreenToWorld is the inverse of WorldToScreen.
func (v *Viewport) ScreenToWorld(sx, sy float64, b geom.Bounds) geom.Point {
	if v.Scale == 0 {
		return geom.Point{}
	}
	return geom.Point{
		X: b.MinX + (sx-v.X)/v.Scale,
		Y: b.MaxY - (sy-v.Y)/v.Scale,
	}
}

// FitToBounds scales b to fill a width×height screen inset by padding on
// every side, centred. Non-positive sizes leave the viewport unchanged.
func (v *Viewport) FitToBounds(b geom.Bounds, width, height, padding float64) {
	if width <= 0 || height <= 0 {
		return
	}
	scale := math.Min((width-padding*2)/b.SafeWidth(), (height-padding*2)/b.SafeHeight())
	v.Scale = math.Max(minFitScale, scale)
	mid := b.Center()
	v.X = width/2 - (mid.X-b.MinX)*v.Scale
	v.Y = height/2 - (b.MaxY-mid.Y)*v.Scale
}

// ZoomAt multiplies the scale by factor, clamped to [minScale, maxScale],
// keeping the world point under (sx, sy) fixed on screen. Returns false when
// the clamped scale did not change.
func (v *Viewport) ZoomAt(factor, sx, sy float64, b geom.Bounds, minScale, maxScale float64) bool {
	next := geom.Clamp(v.Scale*factor, minScale, maxScale)
	if math.IsNaN(next) || next == v.Scale || next <= 0 {
		return false
	}
	anchor := v.ScreenToWorld(sx, sy, b)
	v.Scale = next
	v.X = sx - (anchor.X-b.MinX)*v.Scale
	v.Y = sy - (b.MaxY-anchor.Y)*v.Scale
	return true
}

// StartDrag begins a pan gesture at screen position (x, y).
func (v *Viewport) StartDrag(x, y float64) {
	v.dragging = true
	v.lastX = x
	v.lastY = y
}

// DragTo moves the offset by the delta since the last drag position. No-op
// unless a drag is in progress.
func (v *Viewport) DragTo(x, y float64) {
	if !v.dragging {
		return
	}
	v.X += x - v.lastX
	v.Y += y - v.lastY
	v.lastX = x
	v.lastY = y
}

// EndDrag finishes the pan gesture.
func (v *Viewport) EndDrag() { v.dragging = false }

// Dragging reports whether a pan gesture is in progress.
func (v *Viewport) Dragging() bool { return v.dragging }

// Projection is a viewport bound to one set of world bounds.
type Projection struct {
	vp     *Viewport
	bounds geom.Bounds
}

// Bind returns a projection over b. It reads the viewport live, so later pans
// and zooms are reflected.
func (v *Viewport) Bind(b geom.Bounds) Projection {
	return Projection{vp: v, bounds: b}
}

// WorldToScreen projects (wx, wy).
func (p Projection) WorldToScreen(wx, wy float64) geom.Point {
	return p.vp.WorldToScreen(wx, wy, p.bounds)
}

// ScreenToWorld unprojects (sx, sy).
func (p Projection) ScreenToWorld(sx, sy float64) geom.Point {
	return p.vp.ScreenToWorld(sx, sy, p.bounds)
}

// Scale returns the current pixels-per-metre.
func (p Projection) Scale() float64 { return p.vp.Scale }

// Bounds returns the bound world box.
func (p Projection) Bounds() geom.Bounds { return p.bounds }
