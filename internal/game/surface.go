package game

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/asdfgtrewq748/kuangyaxitong/internal/geom"
)

// ebitenSurface draws scene commands onto an ebiten image with the vector
// package. Size reports the viewport area, not the whole window.
type ebitenSurface struct {
	img *ebiten.Image
	w   int
	h   int
}

func (s *ebitenSurface) Size() (int, int) { return s.w, s.h }

func (s *ebitenSurface) FillRect(x, y, w, h float64, c color.Color) {
	vector.FillRect(s.img, float32(x), float32(y), float32(w), float32(h), c, false)
}

func (s *ebitenSurface) StrokeRect(x, y, w, h, width float64, c color.Color) {
	vector.StrokeRect(s.img, float32(x), float32(y), float32(w), float32(h), float32(width), c, false)
}

func (s *ebitenSurface) StrokeLine(x0, y0, x1, y1, width float64, c color.Color) {
	vector.StrokeLine(s.img, float32(x0), float32(y0), float32(x1), float32(y1), float32(width), c, true)
}

// StrokePath strokes consecutive segments; closed paths get the closing edge.
func (s *ebitenSurface) StrokePath(pts []geom.Point, closed bool, width float64, c color.Color) {
	if len(pts) < 2 {
		return
	}
	w := float32(width)
	for i := 1; i < len(pts); i++ {
		a, b := pts[i-1], pts[i]
		vector.StrokeLine(s.img, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), w, c, true)
	}
	if closed {
		a, b := pts[len(pts)-1], pts[0]
		vector.StrokeLine(s.img, float32(a.X), float32(a.Y), float32(b.X), float32(b.Y), w, c, true)
	}
}

func (s *ebitenSurface) FillCircle(cx, cy, r float64, c color.Color) {
	if r <= 0 {
		return
	}
	vector.FillCircle(s.img, float32(cx), float32(cy), float32(r), c, true)
}

func (s *ebitenSurface) StrokeCircle(cx, cy, r, width float64, c color.Color) {
	if r <= 0 || width <= 0 {
		return
	}
	vector.StrokeCircle(s.img, float32(cx), float32(cy), float32(r), float32(width), c, true)
}
