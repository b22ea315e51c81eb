// Package game is the ebiten viewer: it maps mouse and keyboard input to
// scene intents and flushes the frame pacer once per ebiten Update.
package game

import (
	"image/color"
	"log"
	"math"
	"math/rand"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/asdfgtrewq748/kuangyaxitong/internal/frame"
	"github.com/asdfgtrewq748/kuangyaxitong/internal/mining"
	"github.com/asdfgtrewq748/kuangyaxitong/internal/palette"
	"github.com/asdfgtrewq748/kuangyaxitong/internal/scene"
	"github.com/asdfgtrewq748/kuangyaxitong/internal/survey"
)

// clickSlop is how far the pointer may move between press and release for
// the gesture to count as a click rather than a pan.
const clickSlop = 4.0

// Config sets up a viewer window.
type Config struct {
	Width    int
	Height   int
	Seed     int64
	AutoPlay bool
	Dataset  *survey.Dataset
}

// DefaultConfig is a 1600×900 window over a synthetic panel.
func DefaultConfig() Config {
	return Config{Width: 1600, Height: 900, Seed: 1}
}

// Game is the ebiten front end: it pumps input into a scene.Scene, flushes
// its animation pacer once per tick and draws the overlays around it.
type Game struct {
	width  int
	height int
	viewW  int // viewport width (event panel takes the rest)
	viewH  int

	clock frame.Clock
	pacer *frame.ManualPacer
	scene *scene.Scene

	face      *text.GoTextFace
	surface   ebitenSurface
	events    *EventLog
	inspector Inspector
	showHUD   bool

	pressX  float64
	pressY  float64
	pressed bool
	moved   bool
}

// New builds the viewer. A nil Dataset is replaced with a synthetic panel.
func New(cfg Config) (*Game, error) {
	d := DefaultConfig()
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = d.Width, d.Height
	}
	if cfg.Dataset == nil {
		cfg.Dataset = survey.Synthesize(cfg.Seed, survey.DefaultSynthOptions())
	}
	face, err := loadFace(hudFontSize)
	if err != nil {
		return nil, err
	}
	clock := frame.SystemClock{}
	pacer := frame.NewManualPacer()
	rng := rand.New(rand.NewSource(cfg.Seed)) // #nosec G404 -- visual effects only
	viewW := cfg.Width - logPanelWidth
	sc := scene.New(cfg.Dataset, clock, pacer, rng, scene.Config{
		Width:  viewW,
		Height: cfg.Height,
		Metric: palette.MPI,
		Sim:    []mining.Option{mining.WithAutoPlay(cfg.AutoPlay)},
	})
	return newGame(sc, clock, pacer, face, cfg.Width, cfg.Height), nil
}

func newGame(sc *scene.Scene, clock frame.Clock, pacer *frame.ManualPacer, face *text.GoTextFace, w, h int) *Game {
	g := &Game{
		width:     w,
		height:    h,
		viewW:     w - logPanelWidth,
		viewH:     h,
		clock:     clock,
		pacer:     pacer,
		scene:     sc,
		face:      face,
		events:    NewEventLog(),
		inspector: newInspector(),
		showHUD:   true,
	}
	g.surface = ebitenSurface{w: g.viewW, h: g.viewH}
	sc.Log.OnEntry(g.events.Add)
	// drawing happens in Draw; the loop only advances state
	sc.Start(nil)
	return g
}

// Scene returns the driven scene.
func (g *Game) Scene() *scene.Scene { return g.scene }

func (g *Game) Update() error {
	g.handleInput()
	g.step()
	return nil
}

// step runs one frame of scene callbacks.
func (g *Game) step() {
	g.pacer.Flush(g.clock.Now())
	g.inspector.Tick()
}

// keyBindings maps edge-triggered keys to scene intents.
var keyBindings = map[ebiten.Key]func(g *Game){
	ebiten.KeySpace:        func(g *Game) { g.scene.TogglePlay() },
	ebiten.KeyArrowRight:   func(g *Game) { g.scene.StepForward() },
	ebiten.KeyArrowLeft:    func(g *Game) { g.scene.StepBackward() },
	ebiten.KeyHome:         func(g *Game) { g.scene.SkipToStart() },
	ebiten.KeyEnd:          func(g *Game) { g.scene.SkipToEnd() },
	ebiten.KeyBracketLeft:  func(g *Game) { g.scene.Rotate(-scene.DirectionStep) },
	ebiten.KeyBracketRight: func(g *Game) { g.scene.Rotate(scene.DirectionStep) },
	ebiten.KeyMinus:        func(g *Game) { g.scene.SlowDown() },
	ebiten.KeyEqual:        func(g *Game) { g.scene.SpeedUp() },
	ebiten.KeyDigit1:       func(g *Game) { g.scene.SetMetric(palette.MPI) },
	ebiten.KeyDigit2:       func(g *Game) { g.scene.SetMetric(palette.RSI) },
	ebiten.KeyDigit3:       func(g *Game) { g.scene.SetMetric(palette.BRI) },
	ebiten.KeyDigit4:       func(g *Game) { g.scene.SetMetric(palette.ASI) },
	ebiten.KeyF:            func(g *Game) { g.scene.Fit() },
	ebiten.KeyH:            func(g *Game) { g.showHUD = !g.showHUD },
	ebiten.KeyTab:          func(g *Game) { g.scene.ToggleContours() },
	ebiten.KeyZ:            func(g *Game) { g.scene.ToggleZones() },
	ebiten.KeyEscape:       func(g *Game) { g.scene.ClearFocus() },
	ebiten.KeyC:            (*Game).copyReadout,
}

func (g *Game) copyReadout() {
	if err := g.inspector.Copy(g.scene); err != nil {
		log.Printf("viewer: %v", err)
	}
}

// handleInput processes keys (edge-triggered) and the mouse.
func (g *Game) handleInput() {
	for k, fn := range keyBindings {
		if inpututil.IsKeyJustPressed(k) {
			fn(g)
		}
	}

	mx, my := ebiten.CursorPosition()
	g.pointer(float64(mx), float64(my),
		inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft),
		ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft),
		inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft))

	if _, wy := ebiten.Wheel(); wy != 0 && g.inView(float64(mx), float64(my)) {
		g.scene.ZoomAt(math.Pow(scene.ZoomStep, wy), float64(mx), float64(my))
	}
}

// pointer applies one frame of mouse state: press starts a drag, motion pans,
// release without motion toggles focus on the hovered point.
func (g *Game) pointer(x, y float64, justPressed, down, justReleased bool) {
	switch {
	case justPressed && g.inView(x, y):
		g.pressX, g.pressY = x, y
		g.pressed, g.moved = true, false
		g.scene.StartDrag(x, y)
	case g.pressed && down:
		if math.Hypot(x-g.pressX, y-g.pressY) > clickSlop {
			g.moved = true
		}
		if g.moved {
			g.scene.DragTo(x, y)
		}
	case g.pressed && (justReleased || !down):
		g.pressed = false
		if g.moved {
			g.scene.EndDrag()
		} else {
			g.scene.Viewport.EndDrag()
			g.scene.Click()
		}
	}
	if !g.pressed && g.inView(x, y) {
		g.scene.Hover(x, y)
	}
}

func (g *Game) inView(x, y float64) bool {
	return x >= 0 && y >= 0 && x < float64(g.viewW) && y < float64(g.viewH)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{R: 8, G: 12, B: 22, A: 255})
	g.surface.img = screen
	g.scene.Draw(&g.surface)

	g.drawProgress(screen)
	g.drawLegend(screen)
	g.drawMiniMap(screen)
	if g.showHUD {
		g.drawHUD(screen)
	}
	g.inspector.Draw(screen, g.face, g.scene, g.viewW-8, 40)

	vector.StrokeRect(screen, 0, 0, float32(g.viewW), float32(g.viewH), 1.0, color.RGBA{R: 51, G: 65, B: 85, A: 255}, false)
	g.events.Draw(screen, g.face, g.viewW, g.height)
}

// Layout tracks the outside size and refits the scene when it changes.
func (g *Game) Layout(outsideW, outsideH int) (int, int) {
	if outsideW > logPanelWidth && outsideH > 0 && (outsideW != g.width || outsideH != g.height) {
		g.width, g.height = outsideW, outsideH
		g.viewW, g.viewH = outsideW-logPanelWidth, outsideH
		g.surface.w, g.surface.h = g.viewW, g.viewH
		g.scene.Resize(g.viewW, g.viewH)
	}
	return g.width, g.height
}
