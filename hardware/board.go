package hardware

import (
	"errors"
	"fmt"

	"go-mixer/console"
)

// EncoderPins are the GPIO offsets of one encoder.
type EncoderPins struct {
	Button int `mapstructure:"button" yaml:"button"`
	A      int `mapstructure:"a" yaml:"a"`
	B      int `mapstructure:"b" yaml:"b"`
}

// Pins is the board wiring.
type Pins struct {
	I2CBus     string        `mapstructure:"i2c_bus" yaml:"i2c_bus"`
	GPIOChip   string        `mapstructure:"gpio_chip" yaml:"gpio_chip"`
	BankSelect int           `mapstructure:"bank_select" yaml:"bank_select"`
	Encoders   []EncoderPins `mapstructure:"encoders" yaml:"encoders"`
	Buttons    []int         `mapstructure:"buttons" yaml:"buttons"`
}

// DefaultPins is the reference board.
func DefaultPins() Pins {
	return Pins{
		I2CBus:     "1",
		GPIOChip:   "gpiochip0",
		BankSelect: 42,
		Encoders: []EncoderPins{
			{Button: 4, A: 5, B: 6},
			{Button: 7, A: 10, B: 11},
			{Button: 12, A: 13, B: 14},
			{Button: 15, A: 16, B: 17},
			{Button: 18, A: 1, B: 2},
			{Button: 21, A: 35, B: 36},
		},
		Buttons: []int{38, 37, 40, 41},
	}
}

// Validate checks the pin table has one entry per control.
func (p Pins) Validate() error {
	if len(p.Encoders) != console.NumChannels {
		return fmt.Errorf("need %d encoders, got %d", console.NumChannels, len(p.Encoders))
	}
	if len(p.Buttons) != console.NumButtons {
		return fmt.Errorf("need %d buttons, got %d", console.NumButtons, len(p.Buttons))
	}
	seen := map[int]bool{p.BankSelect: true}
	claim := func(off int) error {
		if seen[off] {
			return fmt.Errorf("gpio %d used twice", off)
		}
		seen[off] = true
		return nil
	}
	for _, e := range p.Encoders {
		for _, off := range []int{e.Button, e.A, e.B} {
			if err := claim(off); err != nil {
				return err
			}
		}
	}
	for _, off := range p.Buttons {
		if err := claim(off); err != nil {
			return err
		}
	}
	return nil
}

// Board owns every opened device.
type Board struct {
	LEDs     *LP50xx
	Encoders [console.NumChannels]*Encoder
	EncBtns  [console.NumChannels]*Pin
	Buttons  [console.NumButtons]*Pin
}

// OpenBoard opens the LED bus and every input. On failure everything opened
// so far is closed again.
func OpenBoard(p Pins) (b *Board, err error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	b = &Board{}
	defer func() {
		if err != nil {
			b.Close()
			b = nil
		}
	}()

	if b.LEDs, err = OpenLP50xx(p.I2CBus, p.GPIOChip, p.BankSelect); err != nil {
		return b, err
	}
	for i, e := range p.Encoders {
		if b.Encoders[i], err = OpenEncoder(p.GPIOChip, e.A, e.B); err != nil {
			return b, err
		}
		if b.EncBtns[i], err = OpenPin(p.GPIOChip, e.Button); err != nil {
			return b, err
		}
	}
	for i, off := range p.Buttons {
		if b.Buttons[i], err = OpenPin(p.GPIOChip, off); err != nil {
			return b, err
		}
	}
	return b, nil
}

// Hardware wires the board into a console. bus overrides the LED bus when
// non-nil, e.g. a sim.Tee that mirrors writes to the front panel.
func (b *Board) Hardware(bus console.LEDBus) console.Hardware {
	hw := console.Hardware{Bus: b.LEDs}
	if bus != nil {
		hw.Bus = bus
	}
	for i := range b.Encoders {
		hw.Encoders[i] = b.Encoders[i]
		hw.EncoderButtons[i] = b.EncBtns[i]
	}
	for i := range b.Buttons {
		hw.OutputButtons[i] = b.Buttons[i]
	}
	return hw
}

func (b *Board) Close() error {
	var errs []error
	for _, e := range b.Encoders {
		if e != nil {
			errs = append(errs, e.Close())
		}
	}
	for _, p := range append(b.EncBtns[:], b.Buttons[:]...) {
		if p != nil {
			errs = append(errs, p.Close())
		}
	}
	if b.LEDs != nil {
		errs = append(errs, b.LEDs.Close())
	}
	return errors.Join(errs...)
}
