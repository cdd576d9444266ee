package widgets

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"

	"go-mixer/console"
)

func TestLEDColorBrightens(t *testing.T) {
	got := LEDColor(console.Color{R: 0, G: 50, B: 0})
	if got[1] < 128 || got[0] != 0 || got[2] != 0 {
		t.Errorf("LEDColor(dim green) = %v, want bright pure green", got)
	}
	if LEDColor(console.Black) != offColor {
		t.Error("black is not drawn as the off colour")
	}
	lo, hi := LEDColor(console.Color{R: 10, G: 0, B: 0}), LEDColor(console.Color{R: 200, G: 0, B: 0})
	if lo[0] >= hi[0] {
		t.Errorf("brightness order lost: %v vs %v", lo, hi)
	}
}

func TestSegmentFollowsLitOrder(t *testing.T) {
	var frame [console.TotalLEDs]console.Color
	def := console.ChannelDefs[0]
	// Light the physical LED that is lit first.
	frame[def.StartLED+def.Order[0]-2] = console.Color{R: 1, G: 1, B: 1}

	seg := Segment(frame, def)
	if seg[0] != (console.Color{R: 1, G: 1, B: 1}) {
		t.Errorf("Segment[0] = %v", seg[0])
	}
	for _, c := range seg[1:] {
		if c != console.Black {
			t.Fatalf("unexpected lit LED in %v", seg)
		}
	}
}

func TestBacklightSlice(t *testing.T) {
	var frame [console.TotalLEDs]console.Color
	frame[console.BacklightFirstLED-1] = console.Color{R: 9, G: 0, B: 0}
	frame[console.BacklightLastLED-1] = console.Color{R: 0, G: 9, B: 0}
	b := Backlight(frame)
	if len(b) != console.BacklightLEDCount || b[0].R != 9 || b[len(b)-1].G != 9 {
		t.Errorf("Backlight = %v", b)
	}
}

func TestRenderMeter(t *testing.T) {
	tests := []struct {
		value, max, width int
		want              string
	}{
		{0, 100, 4, "...."},
		{50, 100, 4, "##.."},
		{100, 100, 4, "####"},
		{130, 100, 4, "####"},
		{-1, 100, 4, "...."},
		{1, 0, 4, ""},
	}
	for _, tt := range tests {
		if got := RenderMeter(tt.value, tt.max, tt.width, '#', '.'); got != tt.want {
			t.Errorf("RenderMeter(%d, %d, %d) = %q, want %q", tt.value, tt.max, tt.width, got, tt.want)
		}
	}
}

func TestRenderKeyHelp(t *testing.T) {
	sections := []KeySection{
		{Title: "Mix", Keys: []KeyBinding{{"h/l", "channel"}, {"space", "mute"}}},
		{Keys: []KeyBinding{{"q", "quit"}}},
	}
	out := RenderKeyHelp(sections, lipgloss.NewStyle(), lipgloss.NewStyle())
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want one per section:\n%s", len(lines), out)
	}
	if want := "Mix      h/l:channel  space:mute"; lines[0] != want {
		t.Errorf("line 0 = %q, want %q", lines[0], want)
	}
	if lines[1] != "q:quit" {
		t.Errorf("untitled line = %q, want %q", lines[1], "q:quit")
	}
}

func TestMetersSettle(t *testing.T) {
	m := NewMeters(3, 30)
	targets := []int{1023, 0, 512}
	for i := 0; i < 120; i++ {
		m.Step(targets)
	}
	got := m.Values()
	for i, want := range targets {
		if d := got[i] - want; d < -2 || d > 2 {
			t.Errorf("meter %d = %d, want about %d", i, got[i], want)
		}
	}
}

func TestMetersMoveGradually(t *testing.T) {
	m := NewMeters(1, 30)
	m.Step([]int{1000})
	if v := m.Values()[0]; v <= 0 || v >= 1000 {
		t.Errorf("after one frame = %d, want strictly between 0 and 1000", v)
	}
}
