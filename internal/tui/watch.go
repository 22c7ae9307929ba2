package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/guptarohit/asciigraph"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jondo2010/fmusim/internal/series"
	"github.com/jondo2010/fmusim/internal/storage"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
)

// watchModel replays a stored run: the plot grows along the time axis at a
// controllable speed, one numeric column at a time.
type watchModel struct {
	meta    *storage.RunMetadata
	times   []float64
	columns []watchColumn

	selected int
	cursor   int
	playing  bool
	speed    float64

	width  int
	height int
}

type watchColumn struct {
	name    string
	samples []float64
}

type watchTickMsg time.Time

func watchTick() tea.Cmd {
	return tea.Tick(33*time.Millisecond, func(t time.Time) tea.Msg { return watchTickMsg(t) })
}

// NewWatch builds the playback app for a loaded run.
func NewWatch(meta *storage.RunMetadata, tbl *series.Table) (*watchModel, error) {
	m := &watchModel{
		meta:    meta,
		times:   tbl.Times(),
		playing: true,
		speed:   1,
		width:   80,
		height:  24,
	}
	for _, c := range tbl.Columns() {
		if c.Kind.Numeric() {
			samples := make([]float64, c.Len())
			for i := range samples {
				samples[i] = c.Float(i)
			}
			m.columns = append(m.columns, watchColumn{name: c.Name, samples: samples})
		}
	}
	if len(m.columns) == 0 {
		return nil, fmt.Errorf("tui: run %s has no numeric outputs to watch", meta.ID)
	}
	return m, nil
}

func (m watchModel) Init() tea.Cmd { return watchTick() }

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "escape":
			return m, tea.Quit
		case " ", "p":
			m.playing = !m.playing
		case "r":
			m.cursor = 0
			m.playing = true
		case "tab", "right", "l":
			m.selected = (m.selected + 1) % len(m.columns)
		case "shift+tab", "left", "h":
			m.selected = (m.selected - 1 + len(m.columns)) % len(m.columns)
		case "+", "=":
			m.speed = math.Min(m.speed*2, 16)
		case "-", "_":
			m.speed = math.Max(m.speed/2, 0.25)
		case "0":
			m.speed = 1
		case "end":
			m.cursor = len(m.times) - 1
		}
		return m, nil
	case watchTickMsg:
		if m.playing {
			// advance so a full run replays in roughly ten seconds at 1x
			step := int(math.Max(1, m.speed*float64(len(m.times))/300))
			m.cursor += step
			if m.cursor >= len(m.times) {
				m.cursor = len(m.times) - 1
				m.playing = false
			}
		}
		return m, watchTick()
	}
	return m, nil
}

func (m watchModel) View() string {
	col := m.columns[m.selected]
	upto := m.cursor + 1
	if upto > len(col.samples) {
		upto = len(col.samples)
	}

	gw := m.width - 16
	gh := m.height - 10
	if gw < 40 {
		gw = 40
	}
	if gh < 8 {
		gh = 8
	}

	var b strings.Builder

	status := green.Render("▶ playing")
	if !m.playing {
		status = yellow.Render("⏸ paused")
	}
	b.WriteString(fmt.Sprintf("\n  %s  %s  %s  %s\n",
		cyan.Render(m.meta.Model),
		dim.Render(m.meta.ID),
		status,
		dim.Render(fmt.Sprintf("%gx", m.speed))))

	var tabs []string
	for i, c := range m.columns {
		if i == m.selected {
			tabs = append(tabs, white.Render("["+c.name+"]"))
		} else {
			tabs = append(tabs, dimmer.Render(c.name))
		}
	}
	b.WriteString("  " + strings.Join(tabs, " ") + "\n\n")

	if upto > 1 {
		plot := asciigraph.Plot(col.samples[:upto],
			asciigraph.Width(gw),
			asciigraph.Height(gh),
			asciigraph.Caption(fmt.Sprintf("%s, t=%.3fs", col.name, m.times[upto-1])))
		b.WriteString(plot + "\n")
	} else {
		b.WriteString(dim.Render("  waiting for samples...") + "\n")
	}

	b.WriteString("\n" + dim.Render("  space pause  tab column  ± speed  r restart  q quit") + "\n")
	return b.String()
}

// Watch replays a stored run in an alt-screen terminal app.
func Watch(meta *storage.RunMetadata, tbl *series.Table) error {
	m, err := NewWatch(meta, tbl)
	if err != nil {
		return err
	}
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}
