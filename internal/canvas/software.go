package canvas

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"math"

	tcanvas "github.com/tfriedel6/canvas"
	"github.com/tfriedel6/canvas/backend/softwarebackend"

	"github.com/asdfgtrewq748/kuangyaxitong/internal/geom"
)

// Software rasterizes Surface commands into an in-memory RGBA image.
type Software struct {
	w, h    int
	backend *softwarebackend.SoftwareBackend
	cv      *tcanvas.Canvas
}

// NewSoftware creates a w×h software surface cleared to bg.
func NewSoftware(w, h int, bg color.Color) *Software {
	if w < 1 {
		w = 1
	}
	if h < 1 {
		h = 1
	}
	backend := softwarebackend.New(w, h)
	s := &Software{w: w, h: h, backend: backend, cv: tcanvas.New(backend)}
	if bg != nil {
		s.FillRect(0, 0, float64(w), float64(h), bg)
	}
	return s
}

func (s *Software) Size() (int, int) { return s.w, s.h }

func (s *Software) FillRect(x, y, w, h float64, c color.Color) {
	s.cv.SetFillStyle(c)
	s.cv.FillRect(x, y, w, h)
}

func (s *Software) StrokeRect(x, y, w, h, width float64, c color.Color) {
	s.cv.SetStrokeStyle(c)
	s.cv.SetLineWidth(width)
	s.cv.StrokeRect(x, y, w, h)
}

func (s *Software) StrokeLine(x0, y0, x1, y1, width float64, c color.Color) {
	s.cv.SetStrokeStyle(c)
	s.cv.SetLineWidth(width)
	s.cv.BeginPath()
	s.cv.MoveTo(x0, y0)
	s.cv.LineTo(x1, y1)
	s.cv.Stroke()
}

func (s *Software) StrokePath(pts []geom.Point, closed bool, width float64, c color.Color) {
	if len(pts) < 2 {
		return
	}
	s.cv.SetStrokeStyle(c)
	s.cv.SetLineWidth(width)
	s.cv.BeginPath()
	s.cv.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		s.cv.LineTo(p.X, p.Y)
	}
	if closed {
		s.cv.ClosePath()
	}
	s.cv.Stroke()
}

func (s *Software) FillCircle(cx, cy, r float64, c color.Color) {
	if r <= 0 {
		return
	}
	s.cv.SetFillStyle(c)
	s.cv.BeginPath()
	s.cv.Arc(cx, cy, r, 0, math.Pi*2, false)
	s.cv.Fill()
}

func (s *Software) StrokeCircle(cx, cy, r, width float64, c color.Color) {
	if r <= 0 {
		return
	}
	s.cv.SetStrokeStyle(c)
	s.cv.SetLineWidth(width)
	s.cv.BeginPath()
	s.cv.Arc(cx, cy, r, 0, math.Pi*2, false)
	s.cv.Stroke()
}

// Image returns the backing raster.
func (s *Software) Image() *image.RGBA { return s.backend.Image }

// WritePNG encodes the current raster as PNG.
func (s *Software) WritePNG(w io.Writer) error {
	if err := png.Encode(w, s.backend.Image); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}
