// Package widgets renders the pieces of the front panel.
package widgets

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"go-mixer/console"
)

// offColor is how a dark LED is drawn.
var offColor = [3]uint8{0x3a, 0x3a, 0x3a}

// LEDColor converts a driver colour to something visible on a terminal. The
// console runs its LEDs dim (50 of 255 is typical), so the value channel is
// lifted while hue and saturation are kept. Black is drawn as a fixed grey.
func LEDColor(c console.Color) [3]uint8 {
	if c == console.Black {
		return offColor
	}
	col := colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
	h, s, v := col.Hsv()
	v = 0.55 + 0.45*v
	r, g, b := colorful.Hsv(h, s, v).Clamped().RGB255()
	return [3]uint8{r, g, b}
}

// RenderPad renders a single colored pad
func RenderPad(color [3]uint8, glyph rune) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color(rgbToHex(color)))
	return style.Render(string(glyph))
}

// RenderLED draws one console LED.
func RenderLED(c console.Color, on, off rune) string {
	if c == console.Black {
		return RenderPad(offColor, off)
	}
	return RenderPad(LEDColor(c), on)
}

// RenderLEDRow renders a row of LEDs with spacing
func RenderLEDRow(colors []console.Color, on, off rune) string {
	var out strings.Builder
	for i, c := range colors {
		if i > 0 {
			out.WriteString(" ")
		}
		out.WriteString(RenderLED(c, on, off))
	}
	return out.String()
}

// Segment returns a channel's LEDs in lit order (first lit LED first), which
// reads as a bar regardless of how the segment is wired.
func Segment(frame [console.TotalLEDs]console.Color, def console.ChannelDef) []console.Color {
	out := make([]console.Color, console.SegmentLength)
	for i, slot := range def.Order {
		out[i] = frame[def.StartLED+slot-2]
	}
	return out
}

// Backlight returns the backlight LEDs from a frame.
func Backlight(frame [console.TotalLEDs]console.Color) []console.Color {
	return frame[console.BacklightFirstLED-1 : console.BacklightLastLED]
}

// RenderMeter draws value out of max as a bar of width cells.
func RenderMeter(value, max, width int, on, off rune) string {
	if max <= 0 || width <= 0 {
		return ""
	}
	if value < 0 {
		value = 0
	}
	if value > max {
		value = max
	}
	filled := (value*width + max/2) / max
	return strings.Repeat(string(on), filled) + strings.Repeat(string(off), width-filled)
}

// KeyBinding is one key and what it does.
type KeyBinding struct {
	Key  string
	Desc string
}

// KeySection is a titled group of bindings, rendered as one help line.
type KeySection struct {
	Title string
	Keys  []KeyBinding
}

// RenderKeyHelp lays out one line per section: the title, then "key:desc"
// pairs. keyStyle and descStyle may be the zero style.
func RenderKeyHelp(sections []KeySection, keyStyle, descStyle lipgloss.Style) string {
	lines := make([]string, 0, len(sections))
	for _, sec := range sections {
		parts := make([]string, 0, len(sec.Keys)+1)
		if sec.Title != "" {
			parts = append(parts, descStyle.Render(fmt.Sprintf("%-7s", sec.Title)))
		}
		for _, k := range sec.Keys {
			parts = append(parts, keyStyle.Render(k.Key)+descStyle.Render(":"+k.Desc))
		}
		lines = append(lines, strings.Join(parts, "  "))
	}
	return strings.Join(lines, "\n")
}

func rgbToHex(c [3]uint8) string {
	return fmt.Sprintf("#%02x%02x%02x", c[0], c[1], c[2])
}
