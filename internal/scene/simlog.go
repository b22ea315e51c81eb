package scene

import (
	"fmt"
	"strings"
)

// Log categories.
const (
	CatControl   = "control"
	CatView      = "view"
	CatPointer   = "pointer"
	CatFocus     = "focus"
	CatProgress  = "progress"
	CatParticles = "particles"
)

// SimLogEntry is one recorded scene event.
type SimLogEntry struct {
	Frame    int
	Category string  // control, view, pointer, focus, progress, particles
	Key      string  // event name within the category
	Value    string  // human-readable detail
	NumVal   float64 // optional numeric value for threshold checks
}

// String formats the entry as a fixed-width log line.
//
//	[F=0042] control   direction        90°
func (e SimLogEntry) String() string {
	return fmt.Sprintf("[F=%04d] %-9s %-16s %s", e.Frame, e.Category, e.Key, e.Value)
}

// SimLog collects structured scene events. It is unbounded; the viewer keeps
// its own ring buffer for display.
type SimLog struct {
	entries []SimLogEntry
	sink    func(SimLogEntry)
}

func NewSimLog() *SimLog {
	return &SimLog{}
}

// OnEntry registers a callback invoked for every new entry.
func (sl *SimLog) OnEntry(fn func(SimLogEntry)) { sl.sink = fn }

// Add records a new entry.
func (sl *SimLog) Add(frame int, category, key, value string, numVal float64) {
	e := SimLogEntry{
		Frame:    frame,
		Category: category,
		Key:      key,
		Value:    value,
		NumVal:   numVal,
	}
	sl.entries = append(sl.entries, e)
	if sl.sink != nil {
		sl.sink(e)
	}
}

// Entries returns all recorded entries.
func (sl *SimLog) Entries() []SimLogEntry {
	return sl.entries
}

// Len returns the number of entries.
func (sl *SimLog) Len() int { return len(sl.entries) }

// Filter returns entries matching the given category and/or key.
// Pass empty string to match any value for that field.
func (sl *SimLog) Filter(category, key string) []SimLogEntry {
	var out []SimLogEntry
	for _, e := range sl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		out = append(out, e)
	}
	return out
}

// CountCategory returns how many entries match the given category and key.
func (sl *SimLog) CountCategory(category, key string) int {
	return len(sl.Filter(category, key))
}

// LastOf returns the most recent entry matching category+key, or false if none.
func (sl *SimLog) LastOf(category, key string) (SimLogEntry, bool) {
	entries := sl.Filter(category, key)
	if len(entries) == 0 {
		return SimLogEntry{}, false
	}
	return entries[len(entries)-1], true
}

// HasEntry returns true if at least one entry matches category, key, and value substring.
func (sl *SimLog) HasEntry(category, key, valueSubstr string) bool {
	for _, e := range sl.entries {
		if category != "" && e.Category != category {
			continue
		}
		if key != "" && e.Key != key {
			continue
		}
		if valueSubstr != "" && !strings.Contains(e.Value, valueSubstr) {
			continue
		}
		return true
	}
	return false
}

// Format returns the full log as a single string for t.Log output.
func (sl *SimLog) Format() string {
	var sb strings.Builder
	for _, e := range sl.entries {
		sb.WriteString(e.String())
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Reset drops every entry.
func (sl *SimLog) Reset() { sl.entries = sl.entries[:0] }
