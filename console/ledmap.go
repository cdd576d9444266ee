package console

// Address locates one RGB LED on the multiplexed driver bus.
type Address struct {
	Bank     int   // bank-select line state (0 = low)
	Chip     uint8 // bus address of the driver chip
	Register uint8 // first of the three R,G,B colour registers
}

// AddressOf resolves a 1-based global LED number. ok is false outside 1..TotalLEDs.
func AddressOf(n int) (addr Address, ok bool) {
	if n < 1 || n > TotalLEDs {
		return Address{}, false
	}
	inBank := (n - 1) % LEDsPerBank
	onChip := inBank % LEDsPerChip
	return Address{
		Bank:     (n - 1) / LEDsPerBank,
		Chip:     ChipAddresses[inBank/LEDsPerChip],
		Register: RegOut0Color + uint8(3*onChip),
	}, true
}

// LEDAt is the inverse of AddressOf. ok is false if no LED lives at that address.
func LEDAt(addr Address) (n int, ok bool) {
	if addr.Bank < 0 || addr.Bank >= NumBanks || addr.Register < RegOut0Color {
		return 0, false
	}
	off := int(addr.Register - RegOut0Color)
	if off%3 != 0 || off/3 >= LEDsPerChip {
		return 0, false
	}
	for chip, a := range ChipAddresses {
		if a == addr.Chip {
			return addr.Bank*LEDsPerBank + chip*LEDsPerChip + off/3 + 1, true
		}
	}
	return 0, false
}

// LEDBus is the register-write primitive of the LED driver chips. Writes are
// fire-and-forget: implementations deal with their own bus errors.
type LEDBus interface {
	SelectBank(bank int)
	WriteRegisters(chip, reg uint8, data [3]uint8)
}

// SetLED writes one LED. The bank is re-selected before every write.
func SetLED(bus LEDBus, n int, c Color) {
	addr, ok := AddressOf(n)
	if !ok {
		return
	}
	bus.SelectBank(addr.Bank)
	bus.WriteRegisters(addr.Chip, addr.Register, [3]uint8{c.R, c.G, c.B})
}
