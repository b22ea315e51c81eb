// Package canvas defines the pixel-space drawing surface the renderers issue
// commands to, plus two backends that need no window: a command recorder and
// a software rasterizer.
package canvas

import (
	"image/color"

	"github.com/asdfgtrewq748/kuangyaxitong/internal/geom"
)

// Surface is a mutable 2-D raster target. Coordinates are pixels with the
// origin at the top-left corner. Implementations never retain pts.
type Surface interface {
	Size() (w, h int)
	FillRect(x, y, w, h float64, c color.Color)
	StrokeRect(x, y, w, h, width float64, c color.Color)
	StrokeLine(x0, y0, x1, y1, width float64, c color.Color)
	StrokePath(pts []geom.Point, closed bool, width float64, c color.Color)
	FillCircle(cx, cy, r float64, c color.Color)
	StrokeCircle(cx, cy, r, width float64, c color.Color)
}

// OpKind identifies a recorded drawing command.
type OpKind int

const (
	OpFillRect OpKind = iota
	OpStrokeRect
	OpStrokeLine
	OpStrokePath
	OpFillCircle
	OpStrokeCircle
)

func (k OpKind) String() string {
	switch k {
	case OpFillRect:
		return "fill_rect"
	case OpStrokeRect:
		return "stroke_rect"
	case OpStrokeLine:
		return "stroke_line"
	case OpStrokePath:
		return "stroke_path"
	case OpFillCircle:
		return "fill_circle"
	case OpStrokeCircle:
		return "stroke_circle"
	default:
		return "unknown"
	}
}

// Op is one recorded drawing command. Args holds the scalar parameters in
// call order (x, y, w, h for rects; cx, cy, r for circles; x0, y0, x1, y1 for lines).
type Op struct {
	Kind   OpKind
	Args   []float64
	Points []geom.Point
	Closed bool
	Width  float64
	Color  color.NRGBA
}

// Recorder is a Surface that records every command instead of drawing it.
type Recorder struct {
	W, H int
	ops  []Op
}

// NewRecorder creates a recorder reporting a w×h canvas.
func NewRecorder(w, h int) *Recorder {
	return &Recorder{W: w, H: h}
}

// Size returns the recorder's canvas size.
func (r *Recorder) Size() (int, int) { return r.W, r.H }

func (r *Recorder) add(op Op, c color.Color) {
	op.Color = color.NRGBAModel.Convert(c).(color.NRGBA)
	r.ops = append(r.ops, op)
}

func (r *Recorder) FillRect(x, y, w, h float64, c color.Color) {
	r.add(Op{Kind: OpFillRect, Args: []float64{x, y, w, h}}, c)
}

func (r *Recorder) StrokeRect(x, y, w, h, width float64, c color.Color) {
	r.add(Op{Kind: OpStrokeRect, Args: []float64{x, y, w, h}, Width: width}, c)
}

func (r *Recorder) StrokeLine(x0, y0, x1, y1, width float64, c color.Color) {
	r.add(Op{Kind: OpStrokeLine, Args: []float64{x0, y0, x1, y1}, Width: width}, c)
}

func (r *Recorder) StrokePath(pts []geom.Point, closed bool, width float64, c color.Color) {
	cp := make([]geom.Point, len(pts))
	copy(cp, pts)
	r.add(Op{Kind: OpStrokePath, Points: cp, Closed: closed, Width: width}, c)
}

func (r *Recorder) FillCircle(cx, cy, rad float64, c color.Color) {
	r.add(Op{Kind: OpFillCircle, Args: []float64{cx, cy, rad}}, c)
}

func (r *Recorder) StrokeCircle(cx, cy, rad, width float64, c color.Color) {
	r.add(Op{Kind: OpStrokeCircle, Args: []float64{cx, cy, rad}, Width: width}, c)
}

// Ops returns every recorded command in call order.
func (r *Recorder) Ops() []Op { return r.ops }

// Count returns how many commands of kind k were recorded.
func (r *Recorder) Count(k OpKind) int {
	n := 0
	for _, op := range r.ops {
		if op.Kind == k {
			n++
		}
	}
	return n
}

// Filter returns the recorded commands of kind k.
func (r *Recorder) Filter(k OpKind) []Op {
	var out []Op
	for _, op := range r.ops {
		if op.Kind == k {
			out = append(out, op)
		}
	}
	return out
}

// Reset drops all recorded commands.
func (r *Recorder) Reset() { r.ops = r.ops[:0] }
