package sim

import (
	"time"

	"go-mixer/console"
)

// TapHold is how long Tap keeps a simulated button down.
const TapHold = 80 * time.Millisecond

// Panel is a complete simulated front panel.
type Panel struct {
	Chips          *Chips
	Encoders       [console.NumChannels]*Encoder
	EncoderButtons [console.NumChannels]*Button
	OutputButtons  [console.NumButtons]*Button
	Host           *Host
}

// NewPanel builds a panel with every LED chip enabled.
func NewPanel() *Panel {
	p := &Panel{
		Chips: NewChips(),
		Host:  NewHost(256),
	}
	for i := range p.Encoders {
		p.Encoders[i] = &Encoder{}
		p.EncoderButtons[i] = &Button{}
	}
	for i := range p.OutputButtons {
		p.OutputButtons[i] = &Button{}
	}
	for bank := 0; bank < console.NumBanks; bank++ {
		p.Chips.SelectBank(bank)
		for _, addr := range console.ChipAddresses {
			p.Chips.WriteRegister(addr, console.RegDeviceConfig0, console.ChipEnable)
		}
	}
	p.Chips.SelectBank(0)
	return p
}

// Hardware wires the panel into a console. bus overrides the LED bus when
// non-nil, e.g. a Tee of real chips and p.Chips.
func (p *Panel) Hardware(bus console.LEDBus) console.Hardware {
	hw := console.Hardware{Bus: p.Chips}
	if bus != nil {
		hw.Bus = bus
	}
	for i := range p.Encoders {
		hw.Encoders[i] = p.Encoders[i]
		hw.EncoderButtons[i] = p.EncoderButtons[i]
	}
	for i := range p.OutputButtons {
		hw.OutputButtons[i] = p.OutputButtons[i]
	}
	return hw
}

// Turn rotates channel i's encoder. Out-of-range channels are ignored.
func (p *Panel) Turn(i, detents int) {
	if i >= 0 && i < len(p.Encoders) {
		p.Encoders[i].Turn(detents)
	}
}

// Mute taps channel i's encoder button.
func (p *Panel) Mute(i int) {
	if i >= 0 && i < len(p.EncoderButtons) {
		p.EncoderButtons[i].Tap(TapHold)
	}
}

// SelectOutput taps output button i.
func (p *Panel) SelectOutput(i int) {
	if i >= 0 && i < len(p.OutputButtons) {
		p.OutputButtons[i].Tap(TapHold)
	}
}
