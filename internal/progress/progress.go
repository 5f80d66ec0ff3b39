// Package progress reports pipeline milestones to whoever is listening.
package progress

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Topic is the notification channel used for analysis milestones.
const Topic = "analysis_info"

// Sink receives progress notifications. Emit must not block indefinitely;
// delivery failures are dropped. Notifications for different files may
// arrive interleaved and out of order.
type Sink interface {
	Emit(topic, message string)
}

// Discard drops every notification.
var Discard Sink = discard{}

type discard struct{}

func (discard) Emit(string, string) {}

// Multi fans notifications out to several sinks in order.
type Multi []Sink

func (m Multi) Emit(topic, message string) {
	for _, s := range m {
		s.Emit(topic, message)
	}
}

// LogSink records notifications as structured log entries.
type LogSink struct {
	Logger *slog.Logger
}

func (s LogSink) Emit(topic, message string) {
	s.Logger.Info(message, "topic", topic)
}

// ColorMode decides whether console output is colorized.
type ColorMode string

const (
	ColorAuto ColorMode = "auto"
	ColorOn   ColorMode = "on"
	ColorOff  ColorMode = "off"
)

// ParseColorMode validates a --color value.
func ParseColorMode(s string) (ColorMode, error) {
	switch m := ColorMode(s); m {
	case "", ColorAuto:
		return ColorAuto, nil
	case ColorOn, ColorOff:
		return m, nil
	default:
		return "", fmt.Errorf("unknown color mode %q (valid: auto, on, off)", s)
	}
}

// ConsoleSink prints notifications one per line, serialized across goroutines.
type ConsoleSink struct {
	mu     sync.Mutex
	w      io.Writer
	accent *color.Color
}

// NewConsoleSink writes to w. In auto mode color is used only when w is a
// terminal.
func NewConsoleSink(w io.Writer, mode ColorMode) *ConsoleSink {
	accent := color.New(color.FgCyan, color.Bold)
	if UseColor(w, mode) {
		accent.EnableColor()
	} else {
		accent.DisableColor()
	}
	return &ConsoleSink{w: w, accent: accent}
}

// UseColor resolves mode for output written to w.
func UseColor(w io.Writer, mode ColorMode) bool {
	switch mode {
	case ColorOn:
		return true
	case ColorOff:
		return false
	}
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (s *ConsoleSink) Emit(_ string, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, _ = fmt.Fprintln(s.w, s.accent.Sprint("==>")+" "+message)
}
