package widgets

import (
	"math"

	"github.com/charmbracelet/harmonica"
)

// Meters eases a row of bar values toward their targets so jumps in
// telemetry read as motion rather than flicker.
type Meters struct {
	spring harmonica.Spring
	pos    []float64
	vel    []float64
}

// NewMeters animates n bars stepped fps times a second.
func NewMeters(n, fps int) *Meters {
	return &Meters{
		spring: harmonica.NewSpring(harmonica.FPS(fps), 12.0, 0.9),
		pos:    make([]float64, n),
		vel:    make([]float64, n),
	}
}

// Step advances every bar one frame toward targets. Extra targets are ignored.
func (m *Meters) Step(targets []int) {
	for i := range m.pos {
		if i >= len(targets) {
			break
		}
		m.pos[i], m.vel[i] = m.spring.Update(m.pos[i], m.vel[i], float64(targets[i]))
	}
}

// Values are the current bar positions, never negative.
func (m *Meters) Values() []int {
	out := make([]int, len(m.pos))
	for i, p := range m.pos {
		out[i] = int(math.Max(0, math.Round(p)))
	}
	return out
}
