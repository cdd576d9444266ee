package console

import (
	"math"
	"strings"
)

// Color is an 8-bit RGB triple as written to an LED driver's R,G,B registers.
type Color struct {
	R, G, B uint8
}

var (
	Black = Color{}

	DefaultZeroColor       = Color{50, 0, 0}
	DefaultFullColor       = Color{0, 50, 0}
	MutedColor             = Color{50, 0, 0}
	ButtonActiveColor      = Color{50, 50, 50}
	ButtonInactiveColor    = Color{0, 0, 0}
	DefaultBackgroundColor = Color{0, 50, 0}
)

// Lerp blends a towards b. t=0 gives a, t=1 gives b; channels truncate toward a.
func Lerp(a, b Color, t float64) Color {
	return Color{
		R: lerp8(a.R, b.R, t),
		G: lerp8(a.G, b.G, t),
		B: lerp8(a.B, b.B, t),
	}
}

func lerp8(a, b uint8, t float64) uint8 {
	return uint8(float64(a) + float64(int(b)-int(a))*t)
}

// Wheel maps a position on a 256-step colour wheel to a fully saturated colour.
// The wheel is three 85-wide bands: blue->red, red->green, green->blue (reading
// pos upward it runs backwards through them).
func Wheel(pos uint8) Color {
	pos = 255 - pos
	if pos < 85 {
		return Color{255 - pos*3, 0, pos * 3}
	}
	if pos < 170 {
		pos -= 85
		return Color{0, pos * 3, 255 - pos*3}
	}
	pos -= 170
	return Color{pos * 3, 255 - pos*3, 0}
}

// ParseHex reads "RRGGBB" or "#RRGGBB" the way strtol(s, NULL, 16) does on a
// 32-bit long: leading blanks, a sign and a 0x prefix are accepted, parsing
// stops at the first non-hex character and out-of-range values saturate.
// Garbage yields black rather than an error.
func ParseHex(s string) Color {
	if len(s) > 0 && s[0] == '#' {
		s = s[1:]
	}
	s = strings.TrimLeft(s, " \t\n\v\f\r")
	neg := false
	if len(s) > 0 && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}
	if len(s) > 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		if _, ok := hexDigit(s[2]); ok {
			s = s[2:]
		}
	}

	var n int64
	for i := 0; i < len(s); i++ {
		d, ok := hexDigit(s[i])
		if !ok {
			break
		}
		if n <= math.MaxInt32 {
			n = n<<4 | int64(d)
		}
	}
	switch {
	case !neg && n > math.MaxInt32:
		n = math.MaxInt32
	case neg && n > -math.MinInt32:
		n = math.MinInt32
	case neg:
		n = -n
	}
	return Color{uint8(n >> 16), uint8(n >> 8), uint8(n)}
}

// Hex formats c as upper-case RRGGBB without a leading '#'.
func (c Color) Hex() string {
	const digits = "0123456789ABCDEF"
	return string([]byte{
		digits[c.R>>4], digits[c.R&0xf],
		digits[c.G>>4], digits[c.G&0xf],
		digits[c.B>>4], digits[c.B&0xf],
	})
}

func hexDigit(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	}
	return 0, false
}
