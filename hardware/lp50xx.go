// Package hardware drives the physical console: LP50xx LED drivers on I2C
// behind a bank-select line, rotary encoders and push buttons on GPIO, and
// the serial link to the host.
package hardware

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"

	"go-mixer/console"
	"go-mixer/debug"
)

// LP50xx is the LED bus: four driver chips per bank, two banks multiplexed by
// one GPIO output. It implements console.LEDBus.
type LP50xx struct {
	bus  i2c.BusCloser
	devs map[uint8]*i2c.Dev
	sel  *gpiocdev.Line
	bank int
}

// OpenLP50xx opens the I2C bus by name ("1" for /dev/i2c-1), claims the
// bank-select line and enables every chip in both banks.
func OpenLP50xx(busName, gpioChip string, bankSelect int) (*LP50xx, error) {
	if _, err := host.Init(); err != nil {
		return nil, fmt.Errorf("init periph host: %w", err)
	}
	bus, err := i2creg.Open(busName)
	if err != nil {
		return nil, fmt.Errorf("open i2c bus %q: %w", busName, err)
	}
	sel, err := gpiocdev.RequestLine(gpioChip, bankSelect,
		gpiocdev.AsOutput(0), gpiocdev.WithConsumer("go-mixer-bank"))
	if err != nil {
		bus.Close()
		return nil, fmt.Errorf("request bank select %s:%d: %w", gpioChip, bankSelect, err)
	}

	l := &LP50xx{
		bus:  bus,
		devs: make(map[uint8]*i2c.Dev, len(console.ChipAddresses)),
		sel:  sel,
	}
	for _, addr := range console.ChipAddresses {
		l.devs[addr] = &i2c.Dev{Bus: bus, Addr: uint16(addr)}
	}
	l.Enable()
	return l, nil
}

// Enable takes every chip out of standby, leaving bank 0 selected.
func (l *LP50xx) Enable() {
	for bank := 0; bank < console.NumBanks; bank++ {
		l.SelectBank(bank)
		for _, addr := range console.ChipAddresses {
			l.write(addr, []byte{console.RegDeviceConfig0, console.ChipEnable})
		}
	}
	l.SelectBank(0)
}

// SelectBank drives the bank-select line: low for bank 0, high for bank 1.
func (l *LP50xx) SelectBank(bank int) {
	v := 0
	if bank != 0 {
		v = 1
	}
	if err := l.sel.SetValue(v); err != nil {
		debug.WarnEvery(100, "hw", "bank select: %v", err)
		return
	}
	l.bank = bank
}

// WriteRegisters writes one RGB triple starting at reg. Failures are logged
// and otherwise ignored.
func (l *LP50xx) WriteRegisters(addr, reg uint8, data [3]uint8) {
	l.write(addr, []byte{reg, data[0], data[1], data[2]})
}

func (l *LP50xx) write(addr uint8, w []byte) {
	dev, ok := l.devs[addr]
	if !ok {
		return
	}
	if err := dev.Tx(w, nil); err != nil {
		debug.WarnEvery(100, "hw", "i2c bank %d chip %#02x: %v", l.bank, addr, err)
	}
}

// Close releases the bus and the select line.
func (l *LP50xx) Close() error {
	l.sel.Close()
	return l.bus.Close()
}
