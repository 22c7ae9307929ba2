// Package tui renders simulation output in the terminal: a live strip view
// that follows a run as it records, and an interactive watcher for replaying
// stored runs.
package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/jondo2010/fmusim/internal/fmi"
)

const (
	liveWidth   = 64
	clearScreen = "\033[2J\033[H"
	hideCursor  = "\033[?25l"
	showCursor  = "\033[?25h"
)

var sparkRunes = []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

// LiveRenderer is a run observer that redraws one sparkline per numeric
// output as rows are recorded, throttled to a frame rate.
type LiveRenderer struct {
	model     string
	columns   []string
	frameRate int
	lastFrame time.Time

	history map[string][]float64
	latest  []fmi.Value
	time    float64
}

// NewLiveRenderer follows the named output columns of the given model.
func NewLiveRenderer(model string, columns []string, frameRate int) *LiveRenderer {
	if frameRate <= 0 {
		frameRate = 30
	}
	history := make(map[string][]float64, len(columns))
	for _, c := range columns {
		history[c] = make([]float64, 0, liveWidth)
	}
	return &LiveRenderer{
		model:     model,
		columns:   columns,
		frameRate: frameRate,
		history:   history,
	}
}

// OnRecord implements the run observer: values arrive in output declaration
// order matching the columns passed at construction.
func (r *LiveRenderer) OnRecord(t float64, values []fmi.Value) {
	r.time = t
	r.latest = values
	for i, name := range r.columns {
		if i >= len(values) {
			break
		}
		v := values[i]
		if v.Kind == fmi.KindString || v.Kind == fmi.KindBinary {
			continue
		}
		h := append(r.history[name], v.AsFloat64())
		if len(h) > liveWidth {
			h = h[1:]
		}
		r.history[name] = h
	}

	if time.Since(r.lastFrame) < time.Second/time.Duration(r.frameRate) {
		return
	}
	r.lastFrame = time.Now()
	r.render()
}

func (r *LiveRenderer) render() {
	var b strings.Builder
	b.WriteString(clearScreen)
	b.WriteString(fmt.Sprintf("  %s  t=%.3fs\n", r.model, r.time))
	b.WriteString("  " + strings.Repeat("-", liveWidth) + "\n")

	for i, name := range r.columns {
		h := r.history[name]
		if len(h) == 0 {
			continue
		}
		cur := ""
		if i < len(r.latest) {
			cur = r.latest[i].String()
		}
		b.WriteString(fmt.Sprintf("  %-10s %s  %s\n", name, sparkline(h, liveWidth), cur))
	}

	b.WriteString("  " + strings.Repeat("-", liveWidth) + "\n")
	fmt.Print(b.String())
}

func (r *LiveRenderer) Start() { fmt.Print(hideCursor) }
func (r *LiveRenderer) Stop()  { fmt.Print(showCursor + "\n") }

func sparkline(data []float64, width int) string {
	if len(data) == 0 {
		return ""
	}
	minVal, maxVal := data[0], data[0]
	for _, v := range data {
		minVal = math.Min(minVal, v)
		maxVal = math.Max(maxVal, v)
	}
	span := maxVal - minVal
	if span == 0 {
		span = 1
	}

	step := len(data) / width
	if step < 1 {
		step = 1
	}
	var sb strings.Builder
	for i := 0; i < width && i*step < len(data); i++ {
		idx := int((data[i*step] - minVal) / span * 7)
		if idx > 7 {
			idx = 7
		}
		if idx < 0 {
			idx = 0
		}
		sb.WriteRune(sparkRunes[idx])
	}
	return sb.String()
}
