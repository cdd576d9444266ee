package console

import "time"

// Physical layout of the console. These mirror the PCB and do not change at runtime.
const (
	NumChannels = 6
	NumButtons  = 4

	// MaxVolume is V_MAX: the volume domain is [0, MaxVolume] detents.
	MaxVolume = 100

	// TelemetryMax is the top of the host-facing value range.
	TelemetryMax = 1023

	// SegmentLength is the number of LEDs in each channel's ring segment.
	SegmentLength = 10

	LEDsPerChip  = 12
	ChipsPerBank = 4
	NumBanks     = 2
	LEDsPerBank  = LEDsPerChip * ChipsPerBank
	TotalLEDs    = LEDsPerBank * NumBanks

	BacklightFirstLED = 65
	BacklightLastLED  = 96
	BacklightLEDCount = BacklightLastLED - BacklightFirstLED + 1

	// LP50xx register map.
	RegDeviceConfig0 uint8 = 0x00
	RegOut0Color     uint8 = 0x14
	ChipEnable       uint8 = 0x40

	// rainbowPeriod is five full trips round the colour wheel.
	rainbowPeriod = 256 * 5
)

// ChipAddresses are the bus addresses of the driver chips, identical in each bank.
var ChipAddresses = [ChipsPerBank]uint8{0x30, 0x31, 0x32, 0x33}

// Default timing. The debounce window is a multiple of the tick period.
const (
	DefaultTickPeriod     = 10 * time.Millisecond
	DefaultDebounceWindow = 50 * time.Millisecond
	DefaultVolumePerCount = 0.5
)

// ChannelDef is the fixed wiring of one encoder channel.
type ChannelDef struct {
	Name     string
	StartLED int
	// Order maps a lit position to a 1-based LED offset inside the segment.
	Order [SegmentLength]int
}

// ButtonDef is the fixed wiring of one output selector button.
type ButtonDef struct {
	Name string
	LED  int
}

var ChannelDefs = [NumChannels]ChannelDef{
	{"E1", 1, [SegmentLength]int{10, 8, 6, 4, 1, 2, 3, 5, 7, 9}},
	{"E2", 11, [SegmentLength]int{1, 2, 10, 8, 6, 4, 3, 5, 7, 9}},
	{"E3", 21, [SegmentLength]int{1, 2, 3, 4, 8, 5, 6, 7, 9, 10}},
	{"E4", 31, [SegmentLength]int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}},
	{"E5", 41, [SegmentLength]int{2, 4, 6, 7, 8, 5, 3, 1, 9, 10}},
	{"E6", 51, [SegmentLength]int{2, 4, 6, 8, 9, 10, 7, 5, 3, 1}},
}

var ButtonDefs = [NumButtons]ButtonDef{
	{"Ror", 61},
	{"Rol", 62},
	{"Rur", 63},
	{"Rul", 64},
}
