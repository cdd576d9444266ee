// Package console is the control engine of the mixing console: it turns encoder
// positions and button presses into volume levels, paints the LED matrix, and
// speaks the line protocol to the host.
package console

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"go-mixer/debug"
)

// Pin is a raw digital input. Buttons are wired active-low, so High means released.
type Pin interface {
	High() bool
}

// Hardware bundles the collaborators the engine drives.
type Hardware struct {
	Bus            LEDBus
	Encoders       [NumChannels]EncoderSource
	EncoderButtons [NumChannels]Pin
	OutputButtons  [NumButtons]Pin
}

// Settings are the tunable timing and scaling constants.
type Settings struct {
	TickPeriod     time.Duration
	DebounceWindow time.Duration
	VolumePerCount float64
}

// DefaultSettings matches the shipped firmware.
func DefaultSettings() Settings {
	return Settings{
		TickPeriod:     DefaultTickPeriod,
		DebounceWindow: DefaultDebounceWindow,
		VolumePerCount: DefaultVolumePerCount,
	}
}

// link is one inbound command stream with its own line buffer.
type link struct {
	name   string
	in     <-chan []byte
	reader LineReader
}

// Console owns all device state. Everything except Snapshot and Updates must
// be used from the goroutine that calls Tick or Run.
type Console struct {
	Channels   [NumChannels]EncoderChannel
	Buttons    [NumButtons]OutputButton
	Background BackgroundState
	Selection  SelectionState

	settings Settings
	scale    VolumeScale
	hw       Hardware
	host     io.Writer
	links    []*link
	now      func() time.Time
	ticks    uint64

	observers []func(Snapshot)
	snapshot  atomic.Pointer[Snapshot]

	// Updates receives a token after every tick (non-blocking, coalesced).
	Updates chan struct{}
}

// New builds a console in its power-on state. Call Boot before the first Tick.
func New(hw Hardware, host io.Writer, s Settings) *Console {
	c := &Console{
		Background: NewBackgroundState(),
		Selection:  NewSelectionState(),
		settings:   s,
		scale:      VolumeScale{PerCount: s.VolumePerCount},
		hw:         hw,
		host:       host,
		now:        time.Now,
		Updates:    make(chan struct{}, 1),
	}
	for i := range c.Channels {
		c.Channels[i] = EncoderChannel{
			Index:     i,
			Def:       ChannelDefs[i],
			Source:    hw.Encoders[i],
			Button:    NewDebouncer(s.DebounceWindow),
			ZeroColor: DefaultZeroColor,
			FullColor: DefaultFullColor,
		}
	}
	for i := range c.Buttons {
		c.Buttons[i] = OutputButton{
			Index:  i,
			Def:    ButtonDefs[i],
			Button: NewDebouncer(s.DebounceWindow),
		}
	}
	if !c.scale.Enabled() {
		debug.Warn("console", "volume_per_count=%v disables every channel", s.VolumePerCount)
	}
	return c
}

// SetClock replaces the time source used for debouncing.
func (c *Console) SetClock(now func() time.Time) {
	c.now = now
}

// AddLink registers an inbound command stream. The host link is usually the
// serial port; config reloads and the MIDI bridge add their own.
func (c *Console) AddLink(name string, in <-chan []byte) {
	c.links = append(c.links, &link{name: name, in: in})
}

// Observe registers fn to receive a snapshot after every tick.
func (c *Console) Observe(fn func(Snapshot)) {
	c.observers = append(c.observers, fn)
}

// Boot blanks the matrix, zeroes the encoders, draws every channel and selects
// the first output, announcing it to the host.
func (c *Console) Boot() {
	for n := 1; n <= TotalLEDs; n++ {
		SetLED(c.hw.Bus, n, Black)
	}
	for i := range c.Channels {
		ch := &c.Channels[i]
		ch.SetRawCount(0)
		ch.Detent = 0
		ch.Render(c.hw.Bus)
	}
	c.selectOutput(0, true)
	c.publish("")
	debug.Log("console", "booted: %d channels, %d outputs", NumChannels, NumButtons)
}

// Tick runs one pass of the control loop: encoders, buttons, host commands,
// backlight, telemetry. It never blocks.
func (c *Console) Tick() {
	now := c.now()
	c.ticks++

	for i := range c.Channels {
		ch := &c.Channels[i]
		if ch.Poll(c.scale) {
			ch.Render(c.hw.Bus)
		}
	}

	for i := range c.Channels {
		ch := &c.Channels[i]
		if ch.Button.Update(readPin(c.hw.EncoderButtons[i]), now) {
			ch.Muted = !ch.Muted
			debug.Log("console", "%s mute=%v", ch.Def.Name, ch.Muted)
			ch.Render(c.hw.Bus)
		}
	}

	for i := range c.Buttons {
		b := &c.Buttons[i]
		if b.Button.Update(readPin(c.hw.OutputButtons[i]), now) {
			c.selectOutput(i, true)
		}
	}

	c.drainLinks()
	c.Background.Render(c.hw.Bus)

	line := FormatTelemetry(c.levelSlice())
	c.writeHost(line)
	c.publish(line)
}

// Run ticks at the configured period until ctx is cancelled.
func (c *Console) Run(ctx context.Context) error {
	period := c.settings.TickPeriod
	if period <= 0 {
		period = DefaultTickPeriod
	}
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			c.Tick()
		}
	}
}

// Apply executes one host command. Out-of-range indices are ignored.
func (c *Console) Apply(cmd Command) {
	switch cmd.Kind {
	case CommandVolume:
		if cmd.Channel < 0 || cmd.Channel >= NumChannels {
			return
		}
		ch := &c.Channels[cmd.Channel]
		ch.SetFraction(cmd.Fraction, c.scale)
		ch.Render(c.hw.Bus)

	case CommandColor:
		if cmd.Channel < 0 || cmd.Channel >= NumChannels {
			return
		}
		ch := &c.Channels[cmd.Channel]
		ch.ZeroColor = cmd.Zero
		ch.FullColor = cmd.Full
		ch.Render(c.hw.Bus)

	case CommandBackground:
		switch cmd.Background {
		case BackgroundSolid:
			c.Background.SetSolid(cmd.Solid)
		default:
			c.Background.Mode = cmd.Background
		}

	case CommandOutput:
		// Host-originated selections are never echoed back.
		c.selectOutput(cmd.Output, false)
	}
}

// Levels returns the effective per-channel volume, zero for muted channels.
func (c *Console) Levels() [NumChannels]int {
	var out [NumChannels]int
	for i := range c.Channels {
		out[i] = c.Channels[i].Level()
	}
	return out
}

func (c *Console) levelSlice() []int {
	levels := c.Levels()
	return levels[:]
}

func (c *Console) selectOutput(i int, notify bool) {
	changed, ok := c.Selection.Select(i, c.Buttons[:], c.hw.Bus)
	if !ok {
		return
	}
	if notify && changed {
		c.writeHost(OutputNotification(c.Selection.Active))
	}
}

func (c *Console) drainLinks() {
	for _, l := range c.links {
		for drained := false; !drained; {
			select {
			case p, ok := <-l.in:
				if !ok {
					l.in = nil
					drained = true
					break
				}
				l.reader.Feed(p, func(line string) {
					c.handleLine(l.name, line)
				})
			default:
				drained = true
			}
		}
	}
}

func (c *Console) handleLine(from, line string) {
	cmd, ok := ParseCommand(line)
	if !ok {
		debug.Log("proto", "%s: dropped %q", from, line)
		return
	}
	c.Apply(cmd)
}

func (c *Console) writeHost(line string) {
	if c.host == nil {
		return
	}
	if _, err := io.WriteString(c.host, line+"\n"); err != nil {
		debug.WarnEvery(100, "console", "host write: %v", err)
	}
}

func readPin(p Pin) bool {
	if p == nil {
		return true
	}
	return p.High()
}
