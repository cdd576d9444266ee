package console

import "math"

// VolumeScale converts between encoder detents and volume units.
// PerCount is K, the volume change per detent. K <= 0 disables the channel.
type VolumeScale struct {
	PerCount float64
}

// Enabled reports whether the scale can be inverted.
func (s VolumeScale) Enabled() bool {
	return s.PerCount > 0
}

// CountToVolume maps a detent count to volume. Turning the knob clockwise
// decreases the count, hence the sign flip.
func (s VolumeScale) CountToVolume(count int64) float64 {
	return -float64(count) * s.PerCount
}

// VolumeToCount is the inverse of CountToVolume, rounded to the nearest detent.
func (s VolumeScale) VolumeToCount(volume float64) int64 {
	if !s.Enabled() {
		return 0
	}
	return int64(math.Round(-volume / s.PerCount))
}

// clampVolume limits v to [0, MaxVolume].
func clampVolume(v float64) float64 {
	return math.Max(0, math.Min(v, MaxVolume))
}

// roundDiv divides non-negative a by positive b rounding half up.
func roundDiv(a, b int) int {
	return (2*a + b) / (2 * b)
}
