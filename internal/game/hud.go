package game

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/asdfgtrewq748/kuangyaxitong/internal/field"
	"github.com/asdfgtrewq748/kuangyaxitong/internal/geom"
	"github.com/asdfgtrewq748/kuangyaxitong/internal/palette"
	"github.com/asdfgtrewq748/kuangyaxitong/internal/scene"
)

const (
	hudFontSize   = 13
	hudLineHeight = 16
	legendWidth   = 240
	legendHeight  = 12
	legendSlices  = 48
	miniWidth     = 200
	miniHeight    = 80
)

// loadFace parses the bundled Go Regular font.
func loadFace(size float64) (*text.GoTextFace, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("load hud font: %w", err)
	}
	return &text.GoTextFace{Source: src, Size: size}, nil
}

func drawText(dst *ebiten.Image, face *text.GoTextFace, s string, x, y float64, c color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(c)
	text.Draw(dst, s, face, op)
}

// helpLines is the key legend shown when the HUD is on.
func helpLines(s *scene.Scene) []string {
	state := "PAUSED"
	if s.Sim.Running() {
		state = "PLAYING"
	}
	contours := "off"
	if s.Renderer.ShowContours {
		contours = "on"
	}
	return []string{
		fmt.Sprintf("%s  %gx  Space=play  -/= speed", state, s.Sim.Speed()),
		"Left/Right=step  Home/End=skip  [ ]=rotate",
		fmt.Sprintf("1-4=metric  Tab=contours (%s)  Z=zones", contours),
		"drag=pan  wheel=zoom  F=fit  click=focus  Esc=clear",
		"C=copy readout  H=hide HUD",
	}
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	lines := helpLines(g.scene)
	maxW := 0.0
	for _, l := range lines {
		w, _ := text.Measure(l, g.face, hudLineHeight)
		maxW = max(maxW, w)
	}
	const pad = 6
	boxW := float32(maxW + pad*2)
	boxH := float32(len(lines)*hudLineHeight + pad*2)
	bx := float32(8)
	by := float32(g.viewH) - boxH - 8

	vector.FillRect(screen, bx, by, boxW, boxH, color.RGBA{R: 6, G: 10, B: 20, A: 210}, false)
	vector.StrokeRect(screen, bx, by, boxW, boxH, 1.0, color.RGBA{R: 71, G: 85, B: 105, A: 180}, false)
	vector.StrokeLine(screen, bx+1, by+1, bx+boxW-1, by+1, 1.0, color.RGBA{R: 100, G: 116, B: 139, A: 80}, false)
	for i, l := range lines {
		drawText(screen, g.face, l, float64(bx)+pad, float64(by)+pad+float64(i*hudLineHeight), color.White)
	}
}

// drawProgress renders the advance bar along the top of the viewport.
func (g *Game) drawProgress(screen *ebiten.Image) {
	sim := g.scene.Sim
	w := float32(g.viewW - 16)
	vector.FillRect(screen, 8, 8, w, 6, color.RGBA{R: 30, G: 41, B: 59, A: 220}, false)
	vector.FillRect(screen, 8, 8, w*float32(sim.Progress()/100), 6, color.RGBA{R: 249, G: 115, B: 22, A: 255}, false)
	label := fmt.Sprintf("%.1f%%  %.1f m advanced  %.1f m remaining", sim.Progress(), sim.CurrentDistance(), sim.RemainingDistance())
	drawText(screen, g.face, label, 8, 18, color.RGBA{R: 226, G: 232, B: 240, A: 255})
}

// drawLegend renders the active metric's ramp with its range.
func (g *Game) drawLegend(screen *ebiten.Image) {
	m := g.scene.Metric()
	stats := g.scene.Stats().Safe()
	x := 8.0
	y := 40.0
	meta := palette.MetaFor(m)
	drawText(screen, g.face, meta.Title, x, y, color.White)
	y += hudLineHeight + 2
	step := float64(legendWidth) / legendSlices
	for i := 0; i < legendSlices; i++ {
		t := (float64(i) + 0.5) / legendSlices
		vector.FillRect(screen, float32(x+float64(i)*step), float32(y), float32(step+0.5), legendHeight, palette.At(m, t), false)
	}
	vector.StrokeRect(screen, float32(x), float32(y), legendWidth, legendHeight, 1, color.RGBA{R: 255, G: 255, B: 255, A: 90}, false)
	y += legendHeight + 2
	drawText(screen, g.face, fmt.Sprintf("%.1f", stats.Min), x, y, color.White)
	hi := fmt.Sprintf("%.1f", stats.Max)
	w, _ := text.Measure(hi, g.face, hudLineHeight)
	drawText(screen, g.face, hi, x+legendWidth-w, y, color.White)
}

// drawMiniMap renders the whole field small in the corner with the face on it.
func (g *Game) drawMiniMap(screen *ebiten.Image) {
	grid := g.scene.Grid()
	if grid == nil {
		return
	}
	rect := geom.Rect{X: float64(g.viewW - miniWidth - 8), Y: float64(g.viewH - miniHeight - 8), W: miniWidth, H: miniHeight}
	g.surface.img = screen
	field.DrawMiniHeatmap(&g.surface, grid, rect, g.scene.Metric(), g.scene.Stats())

	front, ok := g.scene.Sim.FrontLine()
	if !ok {
		return
	}
	b := grid.Bounds
	toMini := func(p geom.Point) geom.Point {
		return geom.Point{
			X: rect.X + (p.X-b.MinX)/b.SafeWidth()*rect.W,
			Y: rect.Y + (b.MaxY-p.Y)/b.SafeHeight()*rect.H,
		}
	}
	a, c := toMini(front.Segment.A), toMini(front.Segment.B)
	g.surface.StrokeLine(a.X, a.Y, c.X, c.Y, 2, color.RGBA{R: 249, G: 115, B: 22, A: 255})
}
