// Package scene ties one panel together: viewport, advance simulator, particle
// and ripple engines, grid renderer and survey points, driven by a single
// per-frame tick.
package scene

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/asdfgtrewq748/kuangyaxitong/internal/canvas"
	"github.com/asdfgtrewq748/kuangyaxitong/internal/field"
	"github.com/asdfgtrewq748/kuangyaxitong/internal/frame"
	"github.com/asdfgtrewq748/kuangyaxitong/internal/geom"
	"github.com/asdfgtrewq748/kuangyaxitong/internal/mining"
	"github.com/asdfgtrewq748/kuangyaxitong/internal/palette"
	"github.com/asdfgtrewq748/kuangyaxitong/internal/particles"
	"github.com/asdfgtrewq748/kuangyaxitong/internal/survey"
	"github.com/asdfgtrewq748/kuangyaxitong/internal/viewport"
)

const (
	// DefaultDirection advances the face along +x.
	DefaultDirection = 90.0

	// StressSpeed and ReliefSpeed are particle speeds in m/s at 1x playback.
	StressSpeed = 12.0
	ReliefSpeed = 6.0

	// ZoomStep is the wheel and keyboard zoom factor.
	ZoomStep = 1.1

	// DirectionStep is the keyboard rotation in degrees.
	DirectionStep = 15.0

	milestoneEvery = 10.0
)

var (
	backgroundColor = palette.MustHex("#0f172a")
	goafStroke      = palette.RGBA(148, 163, 184, 0.85)
	frontStroke     = palette.MustHex("#f97316")
	zoneStroke      = palette.RGBA(250, 204, 21, 0.35)
)

// Config collects the construction parameters of a Scene.
type Config struct {
	Width  int
	Height int
	Metric palette.Metric

	Sim       []mining.Option
	Particles []particles.Option
	Ripples   []particles.RippleOption
}

// DefaultConfig is a 1280×720 surface showing MPI.
func DefaultConfig() Config {
	return Config{Width: 1280, Height: 720, Metric: palette.MPI}
}

// Scene owns every piece of one visualization. All methods must be called
// from the frame thread.
type Scene struct {
	Viewport  *viewport.Viewport
	Sim       *mining.Simulator
	Particles *particles.Engine
	Ripples   *particles.Ripples
	Renderer  *field.Renderer
	Log       *SimLog

	dataset  *survey.Dataset
	animator *particles.Animator
	metric   palette.Metric
	width    int
	height   int

	hoverID   string
	focus     field.Focus
	showZones bool
	elapsed   float64
	frame     int
	milestone int
	emitted   int
	firstEmit int
}

// New builds a scene over ds, fitted to the configured surface size. A nil
// ds is an empty panel: no geometry, grids or points.
func New(ds *survey.Dataset, clock frame.Clock, pacer frame.Pacer, rng *rand.Rand, cfg Config) *Scene {
	if ds == nil {
		ds = &survey.Dataset{}
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		d := DefaultConfig()
		cfg.Width, cfg.Height = d.Width, d.Height
	}
	if !palette.Known(cfg.Metric) {
		cfg.Metric = palette.MPI
	}
	s := &Scene{
		Viewport:  viewport.New(),
		Sim:       mining.NewSimulator(ds.Workface, clock, pacer, cfg.Sim...),
		Particles: particles.NewEngine(rng, cfg.Particles...),
		Ripples:   particles.NewRipples(clock, rng, cfg.Ripples...),
		Renderer:  field.NewRenderer(),
		Log:       NewSimLog(),
		dataset:   ds,
		metric:    cfg.Metric,
		width:     cfg.Width,
		height:    cfg.Height,
		focus:     field.Focus{Animate: true},
	}
	s.animator = particles.NewAnimator(pacer, clock, s)
	s.Sim.SetDirection(DefaultDirection)
	s.Sim.OnProgress(s.onProgress)
	s.milestone = s.milestoneAt(s.Sim.Progress())
	s.Fit()
	return s
}

// Start runs the per-frame loop; render is invoked after every Update.
func (s *Scene) Start(render func()) { s.animator.Start(render) }

// Teardown cancels every scheduled callback and retires both pools.
func (s *Scene) Teardown() {
	s.animator.Stop()
	s.Sim.Teardown()
	s.Particles.Clear()
	s.Ripples.Clear()
}

// Update advances one frame by dt seconds: emit while the face is moving,
// then age particles and ripples.
func (s *Scene) Update(dt float64) {
	s.frame++
	s.elapsed += dt
	s.focus.PulseT = s.elapsed
	if s.Sim.Running() {
		s.emit()
	}
	s.Particles.Update(dt)
	s.Ripples.Update(dt)
}

func (s *Scene) emit() {
	stress, ok := s.Sim.StressZone()
	if !ok {
		return
	}
	relief, _ := s.Sim.ReliefZone()
	speed := s.Sim.Speed()
	n := s.Particles.EmitStressParticles(stress.Segment, stress.Direction, StressSpeed*speed)
	n += s.Particles.EmitReliefParticles(relief.Area, ReliefSpeed*speed)
	if n > 0 && s.emitted == 0 {
		s.firstEmit = s.frame
		s.log(CatParticles, "first_emit", fmt.Sprintf("%d particles", n), float64(n))
	}
	s.emitted += n
	c := stress.Front.Center
	s.Ripples.Emit(c.X, c.Y)
}

// Draw renders the frame back to front: grid, contours and mesh, goaf, front
// line, particles, ripples, then survey points.
func (s *Scene) Draw(surf canvas.Surface) {
	w, h := surf.Size()
	surf.FillRect(0, 0, float64(w), float64(h), backgroundColor)
	proj := s.Projection()

	if g := s.Grid(); g != nil {
		s.Renderer.Draw(surf, g, proj, s.metric, s.Stats())
	}
	s.drawFace(surf, proj)
	s.Particles.Draw(surf, proj)
	s.Ripples.Draw(surf, proj)
	field.DrawPoints(surf, s.dataset.Points, proj, s.metric, s.Stats(), s.hoverID, s.focus)
}

func (s *Scene) drawFace(surf canvas.Surface, proj viewport.Projection) {
	front, ok := s.Sim.FrontLine()
	if !ok {
		return
	}
	if s.Sim.Progress() > 0 {
		goaf, _ := s.Sim.Goaf()
		screen := make([]geom.Point, len(goaf))
		for i, p := range goaf {
			screen[i] = proj.WorldToScreen(p.X, p.Y)
		}
		surf.StrokePath(screen, true, 1.5, goafStroke)
	}
	if s.showZones {
		for _, z := range s.zones() {
			a := proj.WorldToScreen(z.Area.MinX, z.Area.MaxY)
			b := proj.WorldToScreen(z.Area.MaxX, z.Area.MinY)
			surf.StrokeRect(a.X, a.Y, b.X-a.X, b.Y-a.Y, 1, zoneStroke)
		}
	}
	a := proj.WorldToScreen(front.Segment.A.X, front.Segment.A.Y)
	b := proj.WorldToScreen(front.Segment.B.X, front.Segment.B.Y)
	surf.StrokeLine(a.X, a.Y, b.X, b.Y, 3, frontStroke)
}

func (s *Scene) zones() []mining.Zone {
	var out []mining.Zone
	if z, ok := s.Sim.StressZone(); ok {
		out = append(out, z)
	}
	if z, ok := s.Sim.ReliefZone(); ok {
		out = append(out, z)
	}
	return out
}

// Projection binds the viewport to the panel bounds.
func (s *Scene) Projection() viewport.Projection {
	return s.Viewport.Bind(s.Bounds())
}

// Bounds returns the panel bounds.
func (s *Scene) Bounds() geom.Bounds { return s.dataset.Bounds }

// Grid returns the grid of the active metric, or nil.
func (s *Scene) Grid() *field.ScalarGrid { return s.dataset.Grid(s.metric) }

// Stats returns the color range of the active metric.
func (s *Scene) Stats() palette.Stats {
	g := s.Grid()
	if g == nil {
		return palette.DefaultStats
	}
	return g.Stats().Range()
}

func (s *Scene) Dataset() *survey.Dataset { return s.dataset }
func (s *Scene) Metric() palette.Metric { return s.metric }
func (s *Scene) HoverID() string { return s.hoverID }
func (s *Scene) Focus() field.Focus { return s.focus }
func (s *Scene) Frame() int { return s.frame }
func (s *Scene) Elapsed() float64 { return s.elapsed }
func (s *Scene) Size() (int, int) { return s.width, s.height }

// Emitted returns the total number of particles emitted so far.
func (s *Scene) Emitted() int { return s.emitted }

// FirstEmitFrame returns the frame of the first emission, or 0.
func (s *Scene) FirstEmitFrame() int { return s.firstEmit }

// Hovered returns the point under the pointer, if any.
func (s *Scene) Hovered() (field.Point, bool) {
	if s.hoverID == "" {
		return field.Point{}, false
	}
	i := s.dataset.PointIndex(s.hoverID)
	if i < 0 {
		return field.Point{}, false
	}
	return s.dataset.Points[i], true
}

// SetDataset replaces the panel and refits the view. Pools are cleared. A nil
// ds is an empty panel.
func (s *Scene) SetDataset(ds *survey.Dataset) {
	if ds == nil {
		ds = &survey.Dataset{}
	}
	s.dataset = ds
	s.Sim.SetWorkface(ds.Workface)
	s.Particles.Clear()
	s.Ripples.Clear()
	s.hoverID = ""
	s.focus = field.Focus{Animate: s.focus.Animate}
	s.log(CatView, "dataset", ds.Name, float64(len(ds.Points)))
	s.Fit()
}

func (s *Scene) log(category, key, value string, num float64) {
	s.Log.Add(s.frame, category, key, value, num)
}

func (s *Scene) milestoneAt(p float64) int {
	return int(math.Floor(p / milestoneEvery))
}

func (s *Scene) onProgress(p float64) {
	m := s.milestoneAt(p)
	for s.milestone < m {
		s.milestone++
		pct := float64(s.milestone) * milestoneEvery
		s.log(CatProgress, "milestone", fmt.Sprintf("%.0f%%", pct), pct)
	}
	if s.Sim.IsComplete() {
		s.log(CatProgress, "complete", fmt.Sprintf("%.1f m", s.Sim.CurrentDistance()), p)
	}
}
