package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/fluidbg/internal/analysis"
	"github.com/san-kum/fluidbg/internal/anim"
	"github.com/san-kum/fluidbg/internal/fluid"
	"github.com/san-kum/fluidbg/internal/frame"
	"github.com/san-kum/fluidbg/internal/render"
)

const historyCapacity = 120

// Renderer produces preview frames. *fluid.Generator satisfies it.
type Renderer interface {
	Frame(t float64, scheme string) (*frame.PixelBuffer, error)
	Info() fluid.Info
}

type Options struct {
	// Speed is frame time advanced per wall-clock second.
	Speed   float64
	FPS     int
	Output  string
	DelayMs int
	GIF     anim.GIFOptions
}

type TickMsg time.Time

type exportDoneMsg struct {
	path   string
	frames int
	err    error
}

// Model is the live terminal preview. Each character cell shows two pixels
// using an upper half block with separate foreground and background colors.
type Model struct {
	gen       Renderer
	opts      Options
	schemes   []string
	scheme    int
	t         float64
	speed     float64
	running   bool
	buf       *frame.PixelBuffer
	err       error
	lum       []float64
	recording bool
	recorded  []anim.Frame
	status    string
	showHelp  bool
}

func NewModel(gen Renderer, opts Options) Model {
	if opts.Speed == 0 {
		opts.Speed = 0.3
	}
	if opts.FPS <= 0 {
		opts.FPS = 15
	}
	if opts.Output == "" {
		opts.Output = "fluid.gif"
	}
	if opts.DelayMs <= 0 {
		opts.DelayMs = anim.DefaultFrameDelayMs
	}

	schemes := render.Schemes()
	current := 0
	for i, s := range schemes {
		if s == gen.Info().Scheme {
			current = i
		}
	}

	m := Model{
		gen:     gen,
		opts:    opts,
		schemes: schemes,
		scheme:  current,
		speed:   opts.Speed,
		running: true,
		lum:     make([]float64, 0, historyCapacity),
	}
	m.renderFrame()
	return m
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.opts.FPS), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tick()
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "r":
			m.t = 0
			m.lum = m.lum[:0]
			m.renderFrame()
		case "+", "=":
			m.speed *= 1.25
		case "-", "_":
			m.speed /= 1.25
		case "s":
			m.scheme = (m.scheme + 1) % len(m.schemes)
			m.renderFrame()
		case "g":
			if m.recording {
				m.recording = false
				frames := m.recorded
				m.recorded = nil
				if len(frames) == 0 {
					m.status = "nothing recorded"
					return m, nil
				}
				m.status = fmt.Sprintf("exporting %d frames...", len(frames))
				return m, m.export(frames)
			}
			m.recording = true
			m.recorded = make([]anim.Frame, 0, 64)
			m.status = "recording"
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.t += m.speed / float64(m.opts.FPS)
			m.renderFrame()
			if m.recording && m.buf != nil {
				m.recorded = append(m.recorded, anim.Frame{Time: m.t, Buffer: m.buf})
			}
		}
		return m, m.tick()
	case exportDoneMsg:
		if msg.err != nil {
			m.status = "export failed: " + msg.err.Error()
		} else {
			m.status = fmt.Sprintf("saved %d frames to %s", msg.frames, msg.path)
		}
	}
	return m, nil
}

func (m Model) export(frames []anim.Frame) tea.Cmd {
	path, delay, opts := m.opts.Output, m.opts.DelayMs, m.opts.GIF
	return func() tea.Msg {
		err := anim.ExportGIF(frames, path, delay, opts)
		return exportDoneMsg{path: path, frames: len(frames), err: err}
	}
}

func (m *Model) renderFrame() {
	buf, err := m.gen.Frame(m.t, m.schemes[m.scheme])
	m.err = err
	if err != nil {
		return
	}
	m.buf = buf

	m.lum = append(m.lum, analysis.Stats(m.t, buf).Luminance)
	if len(m.lum) > historyCapacity {
		m.lum = m.lum[1:]
	}
}

func halfBlocks(buf *frame.PixelBuffer) string {
	var b strings.Builder
	for y := 0; y < buf.Height; y += 2 {
		for x := 0; x < buf.Width; x++ {
			style := lipgloss.NewStyle().Foreground(hexColor(buf.At(x, y)))
			if y+1 < buf.Height {
				style = style.Background(hexColor(buf.At(x, y+1)))
			}
			b.WriteString(style.Render("▀"))
		}
		if y+2 < buf.Height {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (m Model) View() string {
	canvas := ""
	if m.buf != nil {
		canvas = halfBlocks(m.buf)
	}

	var s strings.Builder
	s.WriteString(GradientText("FLUID BACKGROUND", "#0055ff", "#00ffd1") + "\n\n")

	switch {
	case m.recording:
		s.WriteString(StatusRecording.Render(fmt.Sprintf("● REC %d", len(m.recorded))))
	case m.running:
		s.WriteString(StatusRunning.Render("RUNNING"))
	default:
		s.WriteString(StatusPaused.Render("PAUSED"))
	}
	s.WriteString("\n\n")

	info := m.gen.Info()
	s.WriteString(MetricLabel.Render("Time") + MetricValue.Render(fmt.Sprintf("%.2f", m.t)) + "\n")
	s.WriteString(MetricLabel.Render("Speed") + MetricValue.Render(fmt.Sprintf("%.2fx", m.speed)) + "\n")
	s.WriteString(MetricLabel.Render("Scheme") + MetricValue.Render(m.schemes[m.scheme]) + "\n")
	s.WriteString(MetricLabel.Render("Size") + MetricValue.Render(fmt.Sprintf("%dx%d", info.Width, info.Height)) + "\n")
	s.WriteString(MetricLabel.Render("Device") + MetricValue.Render(info.Device) + "\n")

	if len(m.lum) > 1 {
		chart := asciigraph.Plot(m.lum, asciigraph.Height(4), asciigraph.Width(30), asciigraph.Caption("Luminance"))
		s.WriteString(graphStyle.Render(chart) + "\n")
	}
	if m.err != nil {
		s.WriteString(ErrorText.Render(m.err.Error()) + "\n")
	}
	if m.status != "" {
		s.WriteString(KeyHint.Render(m.status) + "\n")
	}
	s.WriteString(KeyHint.Render("\nSP:Pause  +/-:Speed  S:Scheme\nG:Record  R:Reset  Q:Quit  ?:Help"))

	body := lipgloss.JoinHorizontal(lipgloss.Top, canvas, GlassPanel.Render(s.String()))
	if m.showHelp {
		return helpText + "\n" + body
	}
	return body
}

const helpText = `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume animation   ║
║  + / -    - Faster / slower          ║
║  S        - Cycle color scheme       ║
║  R        - Restart from t=0         ║
║  G        - Start/stop GIF recording ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
╚══════════════════════════════════════╝`

// Run starts the preview in the alternate screen.
func Run(gen Renderer, opts Options) error {
	p := tea.NewProgram(NewModel(gen, opts), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
