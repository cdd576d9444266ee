package theme

import (
	"fmt"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

type RGB [3]uint8

// Palette is an ordered list of colour stops from background to highlight.
type Palette struct {
	Name   string
	Colors []RGB
}

// FromAccent derives a palette from one hex accent colour: a dark background
// tinted with the accent hue, readable foregrounds, the accent itself and
// warm warning and success colours.
func FromAccent(hex string) (*Palette, error) {
	accent, err := colorful.Hex(hex)
	if err != nil {
		return nil, fmt.Errorf("accent %q: %w", hex, err)
	}
	h, c, _ := accent.Hcl()

	stop := func(hue, chroma, light float64) colorful.Color {
		return colorful.Hcl(math.Mod(hue+360, 360), chroma, light).Clamped()
	}
	stops := []colorful.Color{
		stop(h, c*0.25, 0.12), // background
		stop(h, c*0.30, 0.22), // surface
		stop(h, c*0.35, 0.48), // muted
		stop(h, c*0.20, 0.80), // foreground
		accent,                // accent
		stop(h+40, c, 0.72),   // cursor
		stop(30, 0.55, 0.55),  // active
		stop(60, 0.60, 0.70),  // warning
		stop(95, 0.65, 0.90),  // success
	}

	p := &Palette{Name: hex}
	for _, s := range stops {
		r, g, b := s.RGB255()
		p.Colors = append(p.Colors, RGB{r, g, b})
	}
	return p, nil
}

// MustFromAccent panics on a malformed accent.
func MustFromAccent(hex string) *Palette {
	p, err := FromAccent(hex)
	if err != nil {
		panic(fmt.Sprintf("failed to build palette: %v", err))
	}
	return p
}

// Lookup returns interpolated color for normalized value 0-1
func (p *Palette) Lookup(norm float64) RGB {
	if norm <= 0 {
		return p.Colors[0]
	}
	if norm >= 1 {
		return p.Colors[len(p.Colors)-1]
	}

	pos := norm * float64(len(p.Colors)-1)
	i := int(pos)
	frac := pos - float64(i)
	if frac == 0 {
		return p.Colors[i]
	}

	return blend(p.Colors[i], p.Colors[i+1], frac)
}

// blend mixes in Lab space so intermediate stops stay perceptually even.
func blend(a, b RGB, t float64) RGB {
	ca := colorful.Color{R: float64(a[0]) / 255, G: float64(a[1]) / 255, B: float64(a[2]) / 255}
	cb := colorful.Color{R: float64(b[0]) / 255, G: float64(b[1]) / 255, B: float64(b[2]) / 255}
	r, g, bl := ca.BlendLab(cb, t).Clamped().RGB255()
	return RGB{r, g, bl}
}

// Index returns color at specific index (no interpolation)
func (p *Palette) Index(i int) RGB {
	if i < 0 {
		return p.Colors[0]
	}
	if i >= len(p.Colors) {
		return p.Colors[len(p.Colors)-1]
	}
	return p.Colors[i]
}
