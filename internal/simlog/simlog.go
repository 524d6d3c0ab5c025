// Package simlog buffers narrative simulation events by category and
// flushes them once per simulated day. Runtime diagnostics go through
// slog directly; this logger is for the story of the village.
package simlog

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
)

// Log categories.
const (
	Activity  = "ACTIVITY"
	Trade     = "TRADE"
	Social    = "SOCIAL"
	Lifecycle = "LIFECYCLE"
	Marriage  = "MARRIAGE"
	Event     = "EVENT"
	Knowledge = "KNOWLEDGE"
	Sentiment = "SENTIMENT"
)

// Verbosity required to emit each category. Level 0 shows only the
// lifecycle backbone, 3 shows everything.
var categoryVerbosity = map[string]int{
	Lifecycle: 0,
	Marriage:  0,
	Event:     0,
	Activity:  1,
	Trade:     2,
	Social:    2,
	Knowledge: 2,
	Sentiment: 3,
}

// Entry is one buffered log line.
type Entry struct {
	Day         int    `json:"day"`
	Category    string `json:"category"`
	Message     string `json:"message"`
	VillagerIDs []int  `json:"villager_ids,omitempty"`
}

// Logger collects entries during a tick and emits them at day end.
type Logger struct {
	verbosity int
	out       *slog.Logger
	buffer    []Entry
	all       []Entry
}

// New builds a logger at the given verbosity, emitting through out.
// A nil out falls back to slog.Default.
func New(verbosity int, out *slog.Logger) *Logger {
	if out == nil {
		out = slog.Default()
	}
	return &Logger{verbosity: verbosity, out: out}
}

// Log buffers one event.
func (l *Logger) Log(day int, category, message string, villagerIDs ...int) {
	l.buffer = append(l.buffer, Entry{
		Day:         day,
		Category:    category,
		Message:     message,
		VillagerIDs: villagerIDs,
	})
}

// Logf buffers one formatted event.
func (l *Logger) Logf(day int, category, format string, args ...any) {
	l.Log(day, category, fmt.Sprintf(format, args...))
}

// FlushDay emits the day's buffered entries that clear the verbosity
// bar and moves everything into the archive.
func (l *Logger) FlushDay() {
	for _, e := range l.buffer {
		required, ok := categoryVerbosity[e.Category]
		if !ok {
			required = 1
		}
		if required > l.verbosity {
			continue
		}
		if len(e.VillagerIDs) > 0 {
			l.out.Info(e.Message, "day", e.Day, "category", e.Category, "villagers", e.VillagerIDs)
		} else {
			l.out.Info(e.Message, "day", e.Day, "category", e.Category)
		}
	}
	l.all = append(l.all, l.buffer...)
	l.buffer = l.buffer[:0]
}

// Entries returns the archived entries, flushed days only.
func (l *Logger) Entries() []Entry { return l.all }

// DayNarrative renders one day's archived entries as readable text.
func (l *Logger) DayNarrative(day int) string {
	var lines []string
	for _, e := range l.all {
		if e.Day == day {
			lines = append(lines, fmt.Sprintf("  [%s] %s", e.Category, e.Message))
		}
	}
	if len(lines) == 0 {
		return fmt.Sprintf("Day %d: nothing notable happened.", day)
	}
	out := fmt.Sprintf("=== Day %d ===\n", day)
	for i, line := range lines {
		if i > 0 {
			out += "\n"
		}
		out += line
	}
	return out
}

// ExportJSON writes the archived entries to a JSON file.
func (l *Logger) ExportJSON(path string) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create log dir: %w", err)
		}
	}
	data, err := json.MarshalIndent(l.all, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal log entries: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
