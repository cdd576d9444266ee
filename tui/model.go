// Package tui is the terminal front panel: a live view of the LED matrix and
// telemetry, with keys for the encoders and buttons and a host command line.
package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-mixer/console"
	"go-mixer/theme"
	"go-mixer/widgets"
)

// frameInterval caps redraws; the console publishes every tick.
const frameInterval = time.Second / 30

// detentsPerStep is one volume step on the default scale.
const detentsPerStep = 2

// Controls moves the physical controls. Only the simulated panel has them.
type Controls interface {
	Turn(i, detents int)
	Mute(i int)
	SelectOutput(i int)
}

// Frame reads back all LEDs, index 0 holding LED 1.
type Frame func() [console.TotalLEDs]console.Color

// keyHelp is the footer shown under the panel.
var keyHelp = []widgets.KeySection{
	{Title: "mix", Keys: []widgets.KeyBinding{
		{Key: "h/l", Desc: "channel"},
		{Key: "j/k", Desc: "turn"},
		{Key: "J/K", Desc: "turn x10"},
		{Key: "space", Desc: "mute"},
	}},
	{Title: "output", Keys: []widgets.KeyBinding{
		{Key: "z/x/c/v", Desc: "select"},
	}},
	{Title: "host", Keys: []widgets.KeyBinding{
		{Key: "tab", Desc: "command"},
		{Key: "up", Desc: "last command"},
		{Key: "q", Desc: "quit"},
	}},
}

type Model struct {
	Console  *console.Console
	Frame    Frame
	Controls Controls          // nil on real hardware
	Send     func(string) bool // queues a host command line
	Theme    *theme.Theme
	Mode     string

	meters   *widgets.Meters
	cursor   int
	input    textinput.Model
	typing   bool
	history  []string
	status   string
	quitting bool
}

type UpdateMsg struct{}

// ThemeMsg swaps the panel colours, e.g. after the config file changed.
type ThemeMsg struct {
	Theme *theme.Theme
}

func NewModel(c *console.Console, frame Frame, controls Controls, send func(string) bool, th *theme.Theme, mode string) Model {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "V:0:0.5  C:1:#FF0000:00FF00  B:rgb  O:2"
	ti.CharLimit = console.MaxLineLength
	return Model{
		Console:  c,
		Frame:    frame,
		Controls: controls,
		Send:     send,
		Theme:    th,
		Mode:     mode,
		input:    ti,
		meters:   widgets.NewMeters(console.NumChannels, int(time.Second/frameInterval)),
	}
}

// ListenForUpdates waits for the next console tick after delay.
func ListenForUpdates(c *console.Console, delay time.Duration) tea.Cmd {
	return func() tea.Msg {
		if delay > 0 {
			time.Sleep(delay)
		}
		<-c.Updates
		return UpdateMsg{}
	}
}

func (m Model) Init() tea.Cmd {
	return ListenForUpdates(m.Console, 0)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.typing {
			return m.updateInput(msg)
		}
		return m.updateKeys(msg)

	case UpdateMsg:
		if values, ok := console.ParseTelemetry(m.Console.Snapshot().Telemetry); ok {
			m.meters.Step(values)
		}
		return m, ListenForUpdates(m.Console, frameInterval)

	case ThemeMsg:
		if msg.Theme != nil {
			m.Theme = msg.Theme
		}
	}
	return m, nil
}

func (m Model) updateKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key := msg.String(); key {
	case "q", "ctrl+c":
		m.quitting = true
		return m, tea.Quit

	case "h", "left":
		m.cursor = (m.cursor + console.NumChannels - 1) % console.NumChannels
	case "l", "right":
		m.cursor = (m.cursor + 1) % console.NumChannels
	case "1", "2", "3", "4", "5", "6":
		m.cursor = int(key[0] - '1')

	case "k", "up":
		m.turn(detentsPerStep)
	case "j", "down":
		m.turn(-detentsPerStep)
	case "K", "pgup":
		m.turn(10 * detentsPerStep)
	case "J", "pgdown":
		m.turn(-10 * detentsPerStep)

	case " ", "m":
		if m.Controls == nil {
			m.status = "no simulated controls on hardware"
			break
		}
		m.Controls.Mute(m.cursor)

	case "z", "x", "c", "v":
		if m.Controls == nil {
			m.status = "no simulated controls on hardware"
			break
		}
		m.Controls.SelectOutput(strings.Index("zxcv", key))

	case "tab", ":":
		m.typing = true
		m.status = ""
		return m, m.input.Focus()
	}
	return m, nil
}

func (m *Model) turn(detents int) {
	if m.Controls == nil {
		m.status = "no simulated controls on hardware"
		return
	}
	m.Controls.Turn(m.cursor, detents)
}

func (m Model) updateInput(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc, tea.KeyTab:
		m.typing = false
		m.input.Blur()
		return m, nil

	case tea.KeyEnter:
		line := strings.TrimSpace(m.input.Value())
		m.input.SetValue("")
		if line == "" {
			return m, nil
		}
		if _, ok := console.ParseCommand(line); !ok {
			m.status = fmt.Sprintf("sent %q (the console will ignore it)", line)
		} else {
			m.status = fmt.Sprintf("sent %q", line)
		}
		if m.Send == nil || !m.Send(line+"\n") {
			m.status = "command link busy, dropped"
		}
		m.history = append(m.history, line)
		return m, nil

	case tea.KeyUp:
		if n := len(m.history); n > 0 {
			m.input.SetValue(m.history[n-1])
			m.input.CursorEnd()
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	s := m.Console.Snapshot()
	frame := m.Frame()
	sym := m.Theme.Symbols

	headerStyle := lipgloss.NewStyle().Foreground(m.Theme.Accent()).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(m.Theme.Muted())
	fgStyle := lipgloss.NewStyle().Foreground(m.Theme.FG())
	cursorStyle := lipgloss.NewStyle().Foreground(m.Theme.Cursor())
	warnStyle := lipgloss.NewStyle().Foreground(m.Theme.Warning())
	panelStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(m.Theme.Surface()).
		Padding(0, 1)

	output := "-"
	if s.Selected != console.NoSelection {
		output = console.ButtonDefs[s.Selected].Name
	}
	header := headerStyle.Render(fmt.Sprintf("go-mixer  %s  tick:%d  out:%s  bg:%s",
		m.Mode, s.Tick, output, s.Background))

	var rows []string
	for i, def := range console.ChannelDefs {
		marker := " "
		if i == m.cursor {
			marker = cursorStyle.Render(string(sym.Cursor))
		}
		mute := " "
		if s.Muted[i] {
			mute = warnStyle.Render(string(sym.Muted))
		}
		leds := widgets.RenderLEDRow(widgets.Segment(frame, def), sym.LEDOn, sym.LEDOff)
		rows = append(rows, fmt.Sprintf("%s %s %s %s %3d", marker, fgStyle.Render(def.Name), leds, mute, s.Detents[i]))
	}
	channels := panelStyle.Render(strings.Join(rows, "\n"))

	var buttons []string
	for i, def := range console.ButtonDefs {
		pad := widgets.RenderLED(frame[def.LED-1], sym.Button, sym.Button)
		buttons = append(buttons, fmt.Sprintf("%s %s %s", pad, fgStyle.Render(def.Name), dimStyle.Render(string("zxcv"[i]))))
	}
	outputs := panelStyle.Render(strings.Join(buttons, "\n"))

	backlight := widgets.Backlight(frame)
	half := len(backlight) / 2
	light := panelStyle.Render(widgets.RenderLEDRow(backlight[:half], sym.LEDOn, sym.LEDOff) + "\n" +
		widgets.RenderLEDRow(backlight[half:], sym.LEDOn, sym.LEDOff))

	var meters []string
	values, _ := console.ParseTelemetry(s.Telemetry)
	bars := m.meters.Values()
	for i, v := range values {
		if i >= len(bars) {
			break
		}
		bar := widgets.RenderMeter(bars[i], console.TelemetryMax, 12, sym.MeterOn, sym.MeterOff)
		meters = append(meters, fmt.Sprintf("%d %s %4d", i, bar, v))
	}
	telemetry := panelStyle.Render(dimStyle.Render(s.Telemetry) + "\n" + strings.Join(meters, "\n"))

	var out strings.Builder
	out.WriteString("\n")
	out.WriteString(header)
	out.WriteString("\n")
	out.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, channels, outputs, telemetry))
	out.WriteString("\n")
	out.WriteString(light)
	out.WriteString("\n")

	if m.typing {
		out.WriteString(m.input.View())
		out.WriteString("\n")
	}
	if m.status != "" {
		out.WriteString(dimStyle.Render(m.status))
		out.WriteString("\n")
	}
	out.WriteString(widgets.RenderKeyHelp(keyHelp, fgStyle, dimStyle))
	return out.String()
}
