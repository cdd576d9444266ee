// Package sim provides in-memory stand-ins for the console hardware: a
// register-level model of the LED driver chips, encoders and buttons that can
// be turned and pressed from code, and a loopback host link.
package sim

import (
	"sync"

	"go-mixer/console"
)

// Chips models every LED driver chip on both banks down to the register file.
// It implements console.LEDBus.
type Chips struct {
	mu     sync.RWMutex
	bank   int
	regs   [console.NumBanks][console.ChipsPerBank][256]uint8
	writes uint64
}

// NewChips returns a blank register model with bank 0 selected.
func NewChips() *Chips {
	return &Chips{}
}

// SelectBank latches the bank-select line.
func (c *Chips) SelectBank(bank int) {
	c.mu.Lock()
	c.bank = bank
	c.mu.Unlock()
}

// WriteRegisters stores data at reg, reg+1, reg+2 on the chip at addr in the
// currently selected bank. Writes to unknown addresses are dropped, as a real
// bus would NAK them.
func (c *Chips) WriteRegisters(addr, reg uint8, data [3]uint8) {
	c.mu.Lock()
	defer c.mu.Unlock()

	chip := chipIndex(addr)
	if chip < 0 || c.bank < 0 || c.bank >= console.NumBanks {
		return
	}
	for i, b := range data {
		c.regs[c.bank][chip][reg+uint8(i)] = b
	}
	c.writes++
}

// WriteRegister stores a single byte, as used for chip configuration.
func (c *Chips) WriteRegister(addr, reg, value uint8) {
	c.mu.Lock()
	defer c.mu.Unlock()

	chip := chipIndex(addr)
	if chip < 0 || c.bank < 0 || c.bank >= console.NumBanks {
		return
	}
	c.regs[c.bank][chip][reg] = value
	c.writes++
}

// Register reads back one register.
func (c *Chips) Register(bank int, addr, reg uint8) uint8 {
	c.mu.RLock()
	defer c.mu.RUnlock()

	chip := chipIndex(addr)
	if chip < 0 || bank < 0 || bank >= console.NumBanks {
		return 0
	}
	return c.regs[bank][chip][reg]
}

// LED reads back the colour of a 1-based global LED.
func (c *Chips) LED(n int) console.Color {
	addr, ok := console.AddressOf(n)
	if !ok {
		return console.Black
	}
	return console.Color{
		R: c.Register(addr.Bank, addr.Chip, addr.Register),
		G: c.Register(addr.Bank, addr.Chip, addr.Register+1),
		B: c.Register(addr.Bank, addr.Chip, addr.Register+2),
	}
}

// Frame reads back every LED, index 0 holding LED 1.
func (c *Chips) Frame() [console.TotalLEDs]console.Color {
	var out [console.TotalLEDs]console.Color
	for i := range out {
		out[i] = c.LED(i + 1)
	}
	return out
}

// Writes counts accepted register writes.
func (c *Chips) Writes() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.writes
}

func chipIndex(addr uint8) int {
	for i, a := range console.ChipAddresses {
		if a == addr {
			return i
		}
	}
	return -1
}

// Tee fans every bus operation out to several buses, e.g. real hardware and a
// Chips mirror for the front panel.
type Tee []console.LEDBus

func (t Tee) SelectBank(bank int) {
	for _, b := range t {
		b.SelectBank(bank)
	}
}

func (t Tee) WriteRegisters(addr, reg uint8, data [3]uint8) {
	for _, b := range t {
		b.WriteRegisters(addr, reg, data)
	}
}
