package console

// Snapshot is an immutable copy of the console state taken at the end of a tick.
// It is safe to read from any goroutine.
type Snapshot struct {
	Tick       uint64
	Detents    [NumChannels]int
	Levels     [NumChannels]int
	Muted      [NumChannels]bool
	ZeroColors [NumChannels]Color
	FullColors [NumChannels]Color
	Background BackgroundMode
	Solid      Color
	Selected   int
	Telemetry  string
}

// Snapshot returns the state published by the most recent tick.
func (c *Console) Snapshot() Snapshot {
	if s := c.snapshot.Load(); s != nil {
		return *s
	}
	return Snapshot{Selected: NoSelection}
}

func (c *Console) publish(telemetry string) {
	s := &Snapshot{
		Tick:       c.ticks,
		Background: c.Background.Mode,
		Solid:      c.Background.Solid,
		Selected:   c.Selection.Active,
		Telemetry:  telemetry,
	}
	for i := range c.Channels {
		ch := &c.Channels[i]
		s.Detents[i] = ch.Detent
		s.Levels[i] = ch.Level()
		s.Muted[i] = ch.Muted
		s.ZeroColors[i] = ch.ZeroColor
		s.FullColors[i] = ch.FullColor
	}
	c.snapshot.Store(s)

	for _, fn := range c.observers {
		fn(*s)
	}
	select {
	case c.Updates <- struct{}{}:
	default:
	}
}
