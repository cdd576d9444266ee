package console_test

import (
	"testing"

	"go-mixer/console"
	"go-mixer/sim"
)

func TestBackgroundModes(t *testing.T) {
	tests := []struct {
		name  string
		state console.BackgroundState
		want  console.Color
	}{
		{"off", console.BackgroundState{Mode: console.BackgroundOff, Solid: console.Color{9, 9, 9}}, console.Black},
		{"solid", console.BackgroundState{Mode: console.BackgroundSolid, Solid: console.Color{1, 2, 3}}, console.Color{1, 2, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chips := sim.NewChips()
			// Dirty the backlight so Off has something to clear.
			for n := console.BacklightFirstLED; n <= console.BacklightLastLED; n++ {
				console.SetLED(chips, n, console.Color{7, 7, 7})
			}
			tt.state.Render(chips)
			for n := console.BacklightFirstLED; n <= console.BacklightLastLED; n++ {
				if got := chips.LED(n); got != tt.want {
					t.Fatalf("LED %d = %v, want %v", n, got, tt.want)
				}
			}
			if tt.state.Phase != 0 {
				t.Errorf("phase advanced to %d outside rainbow mode", tt.state.Phase)
			}
		})
	}
}

func TestRainbowScrolls(t *testing.T) {
	chips := sim.NewChips()
	bg := console.BackgroundState{Mode: console.BackgroundRainbow}

	bg.Render(chips)
	first := chips.LED(console.BacklightFirstLED)
	bg.Render(chips)
	second := chips.LED(console.BacklightFirstLED)

	if first != console.Wheel(0) || second != console.Wheel(1) {
		t.Errorf("first two frames = %v, %v, want %v, %v", first, second, console.Wheel(0), console.Wheel(1))
	}
	if first == second {
		t.Error("rainbow did not move between ticks")
	}
}

func TestRainbowSpreadsAcrossSegment(t *testing.T) {
	bg := console.BackgroundState{Mode: console.BackgroundRainbow, Phase: 3}
	p := bg.Pattern()
	for i, c := range p {
		want := console.Wheel(uint8((i*256/console.BacklightLEDCount + 3) & 255))
		if c != want {
			t.Fatalf("LED %d = %v, want %v", i, c, want)
		}
	}
}

func TestRainbowPhaseWraps(t *testing.T) {
	bg := console.BackgroundState{Mode: console.BackgroundRainbow}
	for i := 0; i < 256*5-1; i++ {
		bg.Advance()
	}
	if bg.Phase != 256*5-1 {
		t.Fatalf("phase = %d, want %d", bg.Phase, 256*5-1)
	}
	bg.Advance()
	if bg.Phase != 0 {
		t.Errorf("phase = %d after full period, want 0", bg.Phase)
	}
}

func TestNewBackgroundState(t *testing.T) {
	bg := console.NewBackgroundState()
	if bg.Mode != console.BackgroundSolid || bg.Solid != console.DefaultBackgroundColor {
		t.Errorf("power-on background = %+v", bg)
	}
}
