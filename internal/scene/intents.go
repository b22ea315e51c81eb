package scene

import (
	"fmt"

	"github.com/asdfgtrewq748/kuangyaxitong/internal/field"
	"github.com/asdfgtrewq748/kuangyaxitong/internal/palette"
	"github.com/asdfgtrewq748/kuangyaxitong/internal/viewport"
)

// SpeedLadder lists the playback multipliers the speed keys step through.
var SpeedLadder = []float64{0.1, 0.25, 0.5, 1, 2, 4, 10}

// Play starts or resumes the advance.
func (s *Scene) Play() {
	s.Sim.Play()
	s.milestone = s.milestoneAt(s.Sim.Progress())
	s.log(CatControl, "play", fmt.Sprintf("from %.1f%%", s.Sim.Progress()), s.Sim.Progress())
}

// Pause stops the advance.
func (s *Scene) Pause() {
	s.Sim.Pause()
	s.log(CatControl, "pause", fmt.Sprintf("at %.1f%%", s.Sim.Progress()), s.Sim.Progress())
}

func (s *Scene) TogglePlay() {
	if s.Sim.Running() {
		s.Pause()
		return
	}
	s.Play()
}

// Seek jumps to progress v without emitting milestones for the skipped range.
func (s *Scene) Seek(v float64) {
	s.Sim.Seek(v)
	s.resync("seek")
}

func (s *Scene) StepForward() {
	s.Sim.StepForward()
	s.resync("step_forward")
}

func (s *Scene) StepBackward() {
	s.Sim.StepBackward()
	s.resync("step_backward")
}

func (s *Scene) SkipToStart() {
	s.Sim.SkipToStart()
	s.resync("skip_start")
}

func (s *Scene) SkipToEnd() {
	s.Sim.SkipToEnd()
	s.resync("skip_end")
}

func (s *Scene) resync(key string) {
	p := s.Sim.Progress()
	s.milestone = s.milestoneAt(p)
	s.log(CatControl, key, fmt.Sprintf("%.1f%%", p), p)
}

// SetDirection sets the advance heading in degrees.
func (s *Scene) SetDirection(angle float64) {
	s.Sim.SetDirection(angle)
	d := s.Sim.Direction()
	s.log(CatControl, "direction", fmt.Sprintf("%.0f°", d), d)
}

// Rotate turns the heading by delta degrees.
func (s *Scene) Rotate(delta float64) { s.SetDirection(s.Sim.Direction() + delta) }

// SetSpeed sets the playback multiplier.
func (s *Scene) SetSpeed(v float64) {
	s.Sim.SetPlaybackSpeed(v)
	sp := s.Sim.Speed()
	s.log(CatControl, "speed", fmt.Sprintf("%gx", sp), sp)
}

// SpeedUp moves to the next faster ladder step.
func (s *Scene) SpeedUp() {
	cur := s.Sim.Speed()
	for _, v := range SpeedLadder {
		if v > cur+1e-9 {
			s.SetSpeed(v)
			return
		}
	}
}

// SlowDown moves to the next slower ladder step.
func (s *Scene) SlowDown() {
	cur := s.Sim.Speed()
	for i := len(SpeedLadder) - 1; i >= 0; i-- {
		if SpeedLadder[i] < cur-1e-9 {
			s.SetSpeed(SpeedLadder[i])
			return
		}
	}
}

// Resize records a new surface size and refits the view.
func (s *Scene) Resize(w, h int) {
	if w <= 0 || h <= 0 || (w == s.width && h == s.height) {
		return
	}
	s.width, s.height = w, h
	s.Fit()
}

// Fit frames the whole panel in the surface.
func (s *Scene) Fit() {
	s.Viewport.FitToBounds(s.Bounds(), float64(s.width), float64(s.height), viewport.DefaultPadding)
	s.log(CatView, "fit", fmt.Sprintf("scale %.3f", s.Viewport.Scale), s.Viewport.Scale)
}

// ZoomAt scales by factor keeping the world point under (sx, sy) fixed.
func (s *Scene) ZoomAt(factor, sx, sy float64) {
	if !s.Viewport.ZoomAt(factor, sx, sy, s.Bounds(), viewport.DefaultMinScale, viewport.DefaultMaxScale) {
		return
	}
	s.log(CatView, "zoom", fmt.Sprintf("scale %.3f", s.Viewport.Scale), s.Viewport.Scale)
}

func (s *Scene) StartDrag(x, y float64) { s.Viewport.StartDrag(x, y) }
func (s *Scene) DragTo(x, y float64) { s.Viewport.DragTo(x, y) }

// EndDrag finishes a pan gesture.
func (s *Scene) EndDrag() {
	if !s.Viewport.Dragging() {
		return
	}
	s.Viewport.EndDrag()
	s.log(CatView, "pan", fmt.Sprintf("offset %.0f,%.0f", s.Viewport.X, s.Viewport.Y), 0)
}

// SetMetric switches the displayed field.
func (s *Scene) SetMetric(m palette.Metric) {
	if !palette.Known(m) || m == s.metric {
		return
	}
	s.metric = m
	s.log(CatView, "metric", string(m), 0)
}

// ToggleContours shows or hides isolines.
func (s *Scene) ToggleContours() {
	s.Renderer.ShowContours = !s.Renderer.ShowContours
	s.log(CatView, "contours", onOff(s.Renderer.ShowContours), 0)
}

// ToggleZones shows or hides the stress and relief zone outlines.
func (s *Scene) ToggleZones() {
	s.showZones = !s.showZones
	s.log(CatView, "zones", onOff(s.showZones), 0)
}

// Hover picks the nearest point within the pick radius of (sx, sy).
func (s *Scene) Hover(sx, sy float64) {
	id := ""
	if s.dataset != nil {
		if i, ok := field.NearestPoint(sx, sy, s.dataset.Points, s.Projection(), field.DefaultPickRadius); ok {
			id = s.dataset.Points[i].ID
		}
	}
	if id == s.hoverID {
		return
	}
	s.hoverID = id
	if id != "" {
		s.log(CatPointer, "hover", id, 0)
	}
}

// Click toggles focus on the hovered point. Returns false if nothing is hovered.
func (s *Scene) Click() bool {
	if s.hoverID == "" {
		return false
	}
	i := s.dataset.PointIndex(s.hoverID)
	if i < 0 {
		return false
	}
	s.focus.Toggle(i)
	state := "off"
	if s.focus.Indices[i] {
		state = "on"
	}
	s.log(CatFocus, "toggle", fmt.Sprintf("%s %s", s.hoverID, state), float64(len(s.focus.Indices)))
	return true
}

// ClearFocus drops every focused point.
func (s *Scene) ClearFocus() {
	if !s.focus.Active {
		return
	}
	s.focus = field.Focus{Animate: s.focus.Animate}
	s.log(CatFocus, "clear", "", 0)
}

func onOff(on bool) string {
	if on {
		return "on"
	}
	return "off"
}
