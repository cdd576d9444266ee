package console_test

import (
	"testing"

	"go-mixer/console"
)

func TestLerp(t *testing.T) {
	red := console.Color{50, 0, 0}
	green := console.Color{0, 50, 0}

	tests := []struct {
		name string
		t    float64
		want console.Color
	}{
		{"start", 0, red},
		{"end", 1, green},
		{"middle truncates", 0.5, console.Color{25, 25, 0}},
		{"one ninth", 1.0 / 9, console.Color{44, 5, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := console.Lerp(red, green, tt.t); got != tt.want {
				t.Errorf("Lerp(t=%v) = %v, want %v", tt.t, got, tt.want)
			}
		})
	}
}

func TestWheel(t *testing.T) {
	tests := []struct {
		pos  uint8
		want console.Color
	}{
		{0, console.Color{255, 0, 0}},
		{1, console.Color{252, 3, 0}},
		{85, console.Color{0, 255, 0}},
		{170, console.Color{0, 0, 255}},
		{255, console.Color{255, 0, 0}},
	}

	for _, tt := range tests {
		if got := console.Wheel(tt.pos); got != tt.want {
			t.Errorf("Wheel(%d) = %v, want %v", tt.pos, got, tt.want)
		}
	}
}

func TestWheelStaysSaturated(t *testing.T) {
	for pos := 0; pos < 256; pos++ {
		c := console.Wheel(uint8(pos))
		sum := int(c.R) + int(c.G) + int(c.B)
		if sum != 255 {
			t.Fatalf("Wheel(%d) = %v, channel sum %d, want 255", pos, c, sum)
		}
	}
}

func TestParseHex(t *testing.T) {
	tests := []struct {
		in   string
		want console.Color
	}{
		{"#FF0000", console.Color{255, 0, 0}},
		{"00FF00", console.Color{0, 255, 0}},
		{"0000ff", console.Color{0, 0, 255}},
		{"#123456", console.Color{0x12, 0x34, 0x56}},
		{"", console.Color{}},
		{"#", console.Color{}},
		{"zzzzzz", console.Color{}},
		{"FF00GG", console.Color{0, 0xFF, 0x00}},
		{" 102030", console.Color{0x10, 0x20, 0x30}},
		{"\t#102030", console.Color{}},
		{"0x102030", console.Color{0x10, 0x20, 0x30}},
		{"#0X102030", console.Color{0x10, 0x20, 0x30}},
		{"0xZZ", console.Color{}},
		{"-1", console.Color{0xFF, 0xFF, 0xFF}},
		{"+00FF00", console.Color{0, 0xFF, 0}},
		{"FFFFFFFFFF", console.Color{0xFF, 0xFF, 0xFF}},
		{"-FFFFFFFFFF", console.Color{}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := console.ParseHex(tt.in); got != tt.want {
				t.Errorf("ParseHex(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestColorHex(t *testing.T) {
	c := console.Color{0x12, 0xAB, 0x0F}
	if got := c.Hex(); got != "12AB0F" {
		t.Errorf("Hex() = %q, want 12AB0F", got)
	}
	if back := console.ParseHex(c.Hex()); back != c {
		t.Errorf("ParseHex(Hex()) = %v, want %v", back, c)
	}
}
