package midi

import (
	"fmt"
	"math"
	"strconv"

	"go-mixer/console"
)

// ControlChange is one CC message. Channel is 0-based.
type ControlChange struct {
	Channel    uint8
	Controller uint8
	Value      uint8
}

// LevelToCC maps a 0..MaxVolume level onto the 7-bit CC range.
func LevelToCC(level int) uint8 {
	if level <= 0 {
		return 0
	}
	if level >= console.MaxVolume {
		return 127
	}
	return uint8(math.Round(float64(level) * 127 / console.MaxVolume))
}

// VolumeLine is the host command that forces channel i to a CC value.
func VolumeLine(i int, value uint8) string {
	f := float64(value) / 127
	return fmt.Sprintf("V:%d:%s\n", i, strconv.FormatFloat(f, 'f', 4, 64))
}
