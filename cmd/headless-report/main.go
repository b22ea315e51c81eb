package main

import (
	"bytes"
	"flag"
	"fmt"
	"image/color"
	"io"
	"log"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/asdfgtrewq748/kuangyaxitong/internal/canvas"
	"github.com/asdfgtrewq748/kuangyaxitong/internal/scene"
	"github.com/asdfgtrewq748/kuangyaxitong/internal/survey"
)

var (
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("208")).Bold(true)
	labelStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
)

type runConfig struct {
	frames    int
	fps       int
	speed     float64
	direction float64
	seed      int64
	survey    string
	png       string
	chart     string
}

type runStats struct {
	frames    int
	panel     string
	metric    string
	emitted   int
	milestone int
	completes int

	firstEmitFrame int
	halfwayFrame   int
	completeFrame  int

	peakParticles int
	avgParticles  float64
	peakRipples   int
	rippleSpawns  int

	samples []scene.Sample
}

func main() {
	var cfg runConfig
	flag.IntVar(&cfg.frames, "frames", 900, "frames to simulate")
	flag.IntVar(&cfg.fps, "fps", 60, "simulated display refresh rate")
	flag.Float64Var(&cfg.speed, "speed", 1, "playback speed multiplier")
	flag.Float64Var(&cfg.direction, "direction", scene.DefaultDirection, "advance heading in degrees")
	flag.Int64Var(&cfg.seed, "seed", 1, "RNG seed for particles and the synthetic panel")
	flag.StringVar(&cfg.survey, "survey", "", "survey fixture JSON (default: synthetic panel)")
	flag.StringVar(&cfg.png, "png", "", "write a snapshot of the last frame to this PNG path")
	flag.StringVar(&cfg.chart, "chart", "", "write a progress/particle chart to this PNG path")
	flag.Parse()

	if cfg.frames <= 0 {
		fmt.Println("error: -frames must be > 0")
		return
	}
	if cfg.fps <= 0 {
		fmt.Println("error: -fps must be > 0")
		return
	}

	var ds *survey.Dataset
	if cfg.survey != "" {
		var err error
		ds, err = survey.Load(cfg.survey)
		if err != nil {
			log.Fatal(err)
		}
	}

	h := newHarness(cfg, ds)
	h.RunFrames(cfg.frames)
	rs := collect(h)

	printRun(cfg, rs)
	printPlots(rs)

	if cfg.png != "" {
		if err := writeSnapshot(h, cfg.png); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("snapshot=%s\n", cfg.png)
	}
	if cfg.chart != "" {
		if err := writeChart(rs.samples, cfg.chart); err != nil {
			log.Fatal(err)
		}
		fmt.Printf("chart=%s\n", cfg.chart)
	}
	h.Teardown()
}

func newHarness(cfg runConfig, ds *survey.Dataset) *scene.Harness {
	opts := []scene.HarnessOption{
		scene.WithSeed(cfg.seed),
		scene.WithFrameInterval(time.Second / time.Duration(cfg.fps)),
		scene.WithScene(func(s *scene.Scene) {
			s.SetDirection(cfg.direction)
			s.SetSpeed(cfg.speed)
			s.Play()
		}),
	}
	if ds != nil {
		opts = append(opts, scene.WithDataset(ds))
	}
	return scene.NewHarness(opts...)
}

// collect reduces the harness samples and log to report figures.
func collect(h *scene.Harness) runStats {
	rs := runStats{
		frames:         h.Frame,
		panel:          h.Scene.Dataset().Name,
		metric:         string(h.Scene.Metric()),
		emitted:        h.Scene.Emitted(),
		milestone:      h.Scene.Log.CountCategory(scene.CatProgress, "milestone"),
		completes:      h.Scene.Log.CountCategory(scene.CatProgress, "complete"),
		firstEmitFrame: -1,
		halfwayFrame:   -1,
		completeFrame:  -1,
		samples:        h.Samples,
	}
	if h.Scene.Emitted() > 0 {
		rs.firstEmitFrame = h.Scene.FirstEmitFrame()
	}
	summarize(&rs)
	return rs
}

// summarize fills the sample-derived markers and particle figures.
func summarize(rs *runStats) {
	total := 0
	prevRipples := 0
	for _, s := range rs.samples {
		if rs.halfwayFrame < 0 && s.Progress >= 50 {
			rs.halfwayFrame = s.Frame
		}
		if rs.completeFrame < 0 && s.Progress >= 100 {
			rs.completeFrame = s.Frame
		}
		rs.peakParticles = max(rs.peakParticles, s.Particles)
		rs.peakRipples = max(rs.peakRipples, s.Ripples)
		if s.Ripples > prevRipples {
			rs.rippleSpawns += s.Ripples - prevRipples
		}
		prevRipples = s.Ripples
		total += s.Particles
	}
	if len(rs.samples) > 0 {
		rs.avgParticles = float64(total) / float64(len(rs.samples))
	}
}

func printRun(cfg runConfig, rs runStats) {
	fmt.Println(headerStyle.Render("=== Headless Advance Report ==="))
	fmt.Printf("panel=%s metric=%s frames=%d fps=%d speed=%g direction=%g seed=%d\n\n",
		rs.panel, rs.metric, rs.frames, cfg.fps, cfg.speed, cfg.direction, cfg.seed)
	fmt.Println(labelStyle.Render("--- phase markers ---"))
	fmt.Printf("phase_markers: %s\n", joinMarkers(rs))
	fmt.Printf("progress_events: milestones=%d complete=%d\n", rs.milestone, rs.completes)
	fmt.Printf("particles: emitted=%d peak_live=%d avg_live=%.1f\n", rs.emitted, rs.peakParticles, rs.avgParticles)
	fmt.Printf("ripples: spawned=%d peak_live=%d\n", rs.rippleSpawns, rs.peakRipples)
	if n := len(rs.samples); n > 0 {
		last := rs.samples[n-1]
		fmt.Printf("final: progress=%.1f running=%t particles=%d ripples=%d\n",
			last.Progress, last.Running, last.Particles, last.Ripples)
	}
	fmt.Println()
}

func printPlots(rs runStats) {
	if len(rs.samples) < 2 {
		return
	}
	progress := make([]float64, len(rs.samples))
	live := make([]float64, len(rs.samples))
	for i, s := range rs.samples {
		progress[i] = s.Progress
		live[i] = float64(s.Particles)
	}
	fmt.Println(graphStyle.Render(asciigraph.Plot(progress,
		asciigraph.Height(8), asciigraph.Width(60), asciigraph.Caption("progress %"))))
	fmt.Println(graphStyle.Render(asciigraph.Plot(live,
		asciigraph.Height(8), asciigraph.Width(60), asciigraph.Caption("live particles"))))
}

// writeSnapshot rasterizes the final frame through the software backend.
func writeSnapshot(h *scene.Harness, path string) error {
	w, ht := h.Scene.Size()
	sw := canvas.NewSoftware(w, ht, color.Black)
	h.Scene.Draw(sw)
	f, err := os.Create(path) // #nosec G304 -- path comes from the command line
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	return encodeSnapshot(sw, f)
}

// encodeSnapshot writes the PNG to wc and closes it. A failed close is an error.
func encodeSnapshot(sw *canvas.Software, wc io.WriteCloser) error {
	if err := sw.WritePNG(wc); err != nil {
		_ = wc.Close()
		return err
	}
	if err := wc.Close(); err != nil {
		return fmt.Errorf("close snapshot: %w", err)
	}
	return nil
}

func seriesStyle(c drawing.Color) chart.Style {
	return chart.Style{StrokeColor: c, StrokeWidth: 2}
}

// writeChart renders progress and live particles against frame number.
func writeChart(samples []scene.Sample, path string) error {
	if len(samples) < 2 {
		return fmt.Errorf("write chart: need at least 2 samples, got %d", len(samples))
	}
	xs := make([]float64, len(samples))
	progress := make([]float64, len(samples))
	live := make([]float64, len(samples))
	for i, s := range samples {
		xs[i] = float64(s.Frame)
		progress[i] = s.Progress
		live[i] = float64(s.Particles)
	}
	series := []chart.Series{
		chart.ContinuousSeries{Name: "progress", XValues: xs, YValues: progress, Style: seriesStyle(chart.ColorBlue)},
		chart.ContinuousSeries{Name: "particles", XValues: xs, YValues: live, Style: seriesStyle(drawing.ColorFromHex("f97316")), YAxis: chart.YAxisSecondary},
	}
	ch := chart.Chart{
		Width:          960,
		Height:         400,
		Background:     chart.Style{Padding: chart.Box{Top: 14, Left: 16, Right: 12, Bottom: 12}},
		XAxis:          chart.XAxis{Name: "frame"},
		YAxis:          chart.YAxis{Name: "progress %", Range: &chart.ContinuousRange{Min: 0, Max: 100}},
		YAxisSecondary: chart.YAxis{Name: "particles"},
		Series:         series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		return fmt.Errorf("render chart: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("write chart: %w", err)
	}
	return nil
}

// formatMarker renders a frame marker, -1 meaning never reached.
func formatMarker(frame int) string {
	if frame < 0 {
		return "n/a"
	}
	return fmt.Sprintf("%d", frame)
}

func joinMarkers(rs runStats) string {
	return strings.Join([]string{
		"first_emit=" + formatMarker(rs.firstEmitFrame),
		"halfway=" + formatMarker(rs.halfwayFrame),
		"complete=" + formatMarker(rs.completeFrame),
	}, " ")
}
