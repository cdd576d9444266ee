package console

// BackgroundMode selects how the backlight segment is drawn.
type BackgroundMode int

const (
	BackgroundOff BackgroundMode = iota
	BackgroundSolid
	BackgroundRainbow
)

func (m BackgroundMode) String() string {
	switch m {
	case BackgroundOff:
		return "off"
	case BackgroundSolid:
		return "solid"
	case BackgroundRainbow:
		return "rainbow"
	}
	return "unknown"
}

// BackgroundState is the process-wide backlight configuration.
type BackgroundState struct {
	Mode  BackgroundMode
	Solid Color
	Phase int // rainbow phase, wraps at rainbowPeriod
}

// NewBackgroundState returns the power-on backlight: solid green.
func NewBackgroundState() BackgroundState {
	return BackgroundState{Mode: BackgroundSolid, Solid: DefaultBackgroundColor}
}

// SetSolid switches to solid mode with colour c.
func (b *BackgroundState) SetSolid(c Color) {
	b.Mode = BackgroundSolid
	b.Solid = c
}

// Pattern returns the backlight colours for the current frame, first LED first.
func (b *BackgroundState) Pattern() [BacklightLEDCount]Color {
	var out [BacklightLEDCount]Color
	switch b.Mode {
	case BackgroundSolid:
		for i := range out {
			out[i] = b.Solid
		}
	case BackgroundRainbow:
		for i := range out {
			out[i] = Wheel(uint8((i*256/BacklightLEDCount + b.Phase) & 255))
		}
	}
	return out
}

// Advance steps the rainbow phase by one tick. Other modes do not animate.
func (b *BackgroundState) Advance() {
	if b.Mode != BackgroundRainbow {
		return
	}
	b.Phase++
	if b.Phase >= rainbowPeriod {
		b.Phase = 0
	}
}

// Render writes the current frame to every backlight LED and advances the phase.
func (b *BackgroundState) Render(bus LEDBus) {
	for i, c := range b.Pattern() {
		SetLED(bus, BacklightFirstLED+i, c)
	}
	b.Advance()
}
