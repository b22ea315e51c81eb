package mining

import "github.com/asdfgtrewq748/kuangyaxitong/internal/geom"

// Workface is the panel being mined: either an explicit box or a polygon.
type Workface struct {
	Bounds *geom.Bounds `json:"bounds,omitempty"`
	Points []geom.Point `json:"points,omitempty"`
}

// Extent returns the panel's bounding box. An explicit box wins over the
// polygon. False when neither is present.
func (w *Workface) Extent() (geom.Bounds, bool) {
	if w == nil {
		return geom.Bounds{}, false
	}
	if w.Bounds != nil {
		return *w.Bounds, true
	}
	return geom.BoundsOf(w.Points)
}

// Length returns the transverse (y) extent of the panel.
func (w *Workface) Length() float64 {
	b, ok := w.Extent()
	if !ok {
		return 0
	}
	return b.Height()
}
