package game

import (
	"fmt"
	"image/color"
	"sort"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/asdfgtrewq748/kuangyaxitong/internal/palette"
	"github.com/asdfgtrewq748/kuangyaxitong/internal/scene"
)

const (
	inspWidth = 300
	inspPad   = 8
	inspLineH = 16

	// statusFrames is how long a copy result stays on screen.
	statusFrames = 120
)

// Inspector shows the readout for the hovered point and the face, and copies
// it to the system clipboard on request.
type Inspector struct {
	status      string
	statusTicks int

	// write is the clipboard sink, swapped out in tests.
	write func(string) error
}

func newInspector() Inspector {
	return Inspector{write: clipboard.WriteAll}
}

// Readout returns the inspector text for the current scene state.
func Readout(s *scene.Scene) []string {
	sim := s.Sim
	meta := palette.MetaFor(s.Metric())
	lines := []string{
		fmt.Sprintf("panel     %s", s.Dataset().Name),
		fmt.Sprintf("metric    %s (%s)", meta.Title, meta.Key),
		fmt.Sprintf("progress  %.1f%%  %.1f / %.0f m", sim.Progress(), sim.CurrentDistance(), sim.Config().TotalDistance),
		fmt.Sprintf("heading   %.0f°  speed %gx", sim.Direction(), sim.Speed()),
		fmt.Sprintf("particles %d  ripples %d", s.Particles.Count(), s.Ripples.Count()),
	}
	if front, ok := sim.FrontLine(); ok {
		lines = append(lines, fmt.Sprintf("face      (%.1f, %.1f) len %.1f m", front.Center.X, front.Center.Y, front.Length))
	}
	if g := s.Grid(); g != nil {
		st := g.Stats()
		lines = append(lines, fmt.Sprintf("field     min %.2f max %.2f mean %.2f", st.Min, st.Max, st.Mean))
	}
	if f := s.Focus(); f.Active {
		lines = append(lines, fmt.Sprintf("focus     %d points", len(f.Indices)))
	}
	p, ok := s.Hovered()
	if !ok {
		return lines
	}
	lines = append(lines, fmt.Sprintf("point     %s  %s", p.ID, p.Name))
	lines = append(lines, fmt.Sprintf("  at      (%.1f, %.1f)", p.X, p.Y))
	keys := make([]string, 0, len(p.Values))
	for m := range p.Values {
		keys = append(keys, string(m))
	}
	sort.Strings(keys)
	for _, k := range keys {
		v, ok := p.Value(palette.Metric(k))
		if !ok {
			continue
		}
		lines = append(lines, fmt.Sprintf("  %-7s %.2f", strings.ToUpper(k), v))
	}
	return lines
}

// Copy writes the readout to the clipboard and sets a status line.
func (in *Inspector) Copy(s *scene.Scene) error {
	err := in.write(strings.Join(Readout(s), "\n"))
	if err != nil {
		in.flash("copy failed: " + err.Error())
		return fmt.Errorf("copy readout: %w", err)
	}
	in.flash("readout copied")
	return nil
}

func (in *Inspector) flash(msg string) {
	in.status = msg
	in.statusTicks = statusFrames
}

// Tick ages the status line by one frame.
func (in *Inspector) Tick() {
	if in.statusTicks > 0 {
		in.statusTicks--
		if in.statusTicks == 0 {
			in.status = ""
		}
	}
}

// Status returns the transient status line, if any.
func (in *Inspector) Status() string { return in.status }

// Draw renders the readout panel with its top-right corner at (right, top).
func (in *Inspector) Draw(screen *ebiten.Image, face *text.GoTextFace, s *scene.Scene, right, top int) {
	lines := Readout(s)
	if in.status != "" {
		lines = append(lines, "", in.status)
	}
	h := float32(len(lines)*inspLineH + inspPad*2)
	x := float32(right - inspWidth)
	y := float32(top)
	vector.FillRect(screen, x, y, inspWidth, h, color.RGBA{R: 15, G: 23, B: 42, A: 220}, false)
	vector.StrokeRect(screen, x, y, inspWidth, h, 1.0, color.RGBA{R: 71, G: 85, B: 105, A: 200}, false)
	for i, l := range lines {
		drawText(screen, face, l, float64(x)+inspPad, float64(y)+inspPad+float64(i*inspLineH), color.RGBA{R: 226, G: 232, B: 240, A: 255})
	}
}
