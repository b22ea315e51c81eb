package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/asdfgtrewq748/kuangyaxitong/internal/scene"
)

const (
	logPanelWidth = 320
	logMaxEntries = 60
	logLineHeight = 15
)

var categoryColors = map[string]color.RGBA{
	scene.CatControl:   {R: 96, G: 165, B: 250, A: 255},
	scene.CatView:      {R: 148, G: 163, B: 184, A: 255},
	scene.CatPointer:   {R: 203, G: 213, B: 225, A: 255},
	scene.CatFocus:     {R: 250, G: 204, B: 21, A: 255},
	scene.CatProgress:  {R: 74, G: 222, B: 128, A: 255},
	scene.CatParticles: {R: 249, G: 115, B: 22, A: 255},
}

// EventLog is a ring buffer of recent scene events rendered on-screen.
type EventLog struct {
	entries []scene.SimLogEntry
	head    int
	count   int
}

// NewEventLog creates an event log with a fixed capacity.
func NewEventLog() *EventLog {
	return &EventLog{
		entries: make([]scene.SimLogEntry, logMaxEntries),
	}
}

// Add appends an entry, overwriting the oldest once full.
func (el *EventLog) Add(e scene.SimLogEntry) {
	el.entries[el.head] = e
	el.head = (el.head + 1) % logMaxEntries
	if el.count < logMaxEntries {
		el.count++
	}
}

// Len returns the number of buffered entries.
func (el *EventLog) Len() int { return el.count }

// Recent returns entries in chronological order (oldest first).
func (el *EventLog) Recent() []scene.SimLogEntry {
	result := make([]scene.SimLogEntry, el.count)
	for i := 0; i < el.count; i++ {
		idx := (el.head - el.count + i + logMaxEntries) % logMaxEntries
		result[i] = el.entries[idx]
	}
	return result
}

// Draw renders the log panel at panelX, newest entry at the bottom.
func (el *EventLog) Draw(screen *ebiten.Image, face *text.GoTextFace, panelX, panelH int) {
	x := float32(panelX)
	vector.FillRect(screen, x, 0, logPanelWidth, float32(panelH), color.RGBA{R: 10, G: 14, B: 24, A: 248}, false)
	vector.StrokeLine(screen, x, 0, x, float32(panelH), 1.0, color.RGBA{R: 51, G: 65, B: 85, A: 255}, false)
	vector.FillRect(screen, x, 0, logPanelWidth, 20, color.RGBA{R: 22, G: 30, B: 46, A: 255}, false)
	drawText(screen, face, "EVENTS", float64(panelX+8), 3, color.White)
	vector.StrokeLine(screen, x, 20, x+logPanelWidth, 20, 1.0, color.RGBA{R: 51, G: 65, B: 85, A: 200}, false)

	entries := el.Recent()
	maxVisible := (panelH - 28) / logLineHeight
	if len(entries) > maxVisible {
		entries = entries[len(entries)-maxVisible:]
	}
	recent := 3

	y := 24
	for i, e := range entries {
		isRecent := i >= len(entries)-recent
		if isRecent {
			vector.FillRect(screen, x+2, float32(y), logPanelWidth-4, logLineHeight, color.RGBA{R: 30, G: 41, B: 59, A: 160}, false)
		}
		dot, ok := categoryColors[e.Category]
		if !ok {
			dot = color.RGBA{R: 100, G: 116, B: 139, A: 255}
		}
		vector.FillRect(screen, x+5, float32(y+4), 3, 7, dot, false)

		fg := color.RGBA{R: 148, G: 163, B: 184, A: 255}
		if isRecent {
			fg = color.RGBA{R: 241, G: 245, B: 249, A: 255}
		}
		line := fmt.Sprintf("%5d %s %s", e.Frame, e.Key, e.Value)
		drawText(screen, face, line, float64(panelX+12), float64(y), fg)
		y += logLineHeight
	}
}
