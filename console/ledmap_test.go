package console_test

import (
	"testing"

	"go-mixer/console"
)

// busOp records one bus call.
type busOp struct {
	bank  int // -1 for register writes
	chip  uint8
	reg   uint8
	data  [3]uint8
	write bool
}

// recordingBus captures bus traffic in order.
type recordingBus struct {
	ops []busOp
}

func (b *recordingBus) SelectBank(bank int) {
	b.ops = append(b.ops, busOp{bank: bank})
}

func (b *recordingBus) WriteRegisters(chip, reg uint8, data [3]uint8) {
	b.ops = append(b.ops, busOp{bank: -1, chip: chip, reg: reg, data: data, write: true})
}

func TestAddressOf(t *testing.T) {
	tests := []struct {
		led  int
		want console.Address
	}{
		{1, console.Address{Bank: 0, Chip: 0x30, Register: 0x14}},
		{2, console.Address{Bank: 0, Chip: 0x30, Register: 0x17}},
		{12, console.Address{Bank: 0, Chip: 0x30, Register: 0x14 + 33}},
		{13, console.Address{Bank: 0, Chip: 0x31, Register: 0x14}},
		{48, console.Address{Bank: 0, Chip: 0x33, Register: 0x14 + 33}},
		{49, console.Address{Bank: 1, Chip: 0x30, Register: 0x14}},
		{65, console.Address{Bank: 1, Chip: 0x31, Register: 0x14 + 12}},
		{96, console.Address{Bank: 1, Chip: 0x33, Register: 0x14 + 33}},
	}

	for _, tt := range tests {
		got, ok := console.AddressOf(tt.led)
		if !ok {
			t.Fatalf("AddressOf(%d) not ok", tt.led)
		}
		if got != tt.want {
			t.Errorf("AddressOf(%d) = %+v, want %+v", tt.led, got, tt.want)
		}
	}
}

func TestAddressOfOutOfRange(t *testing.T) {
	for _, n := range []int{-1, 0, console.TotalLEDs + 1, 1000} {
		if _, ok := console.AddressOf(n); ok {
			t.Errorf("AddressOf(%d) ok, want out of range", n)
		}
	}
}

func TestLEDAtInvertsAddressOf(t *testing.T) {
	seen := make(map[console.Address]int)
	for n := 1; n <= console.TotalLEDs; n++ {
		addr, _ := console.AddressOf(n)
		if prev, dup := seen[addr]; dup {
			t.Fatalf("LEDs %d and %d share address %+v", prev, n, addr)
		}
		seen[addr] = n

		back, ok := console.LEDAt(addr)
		if !ok || back != n {
			t.Errorf("LEDAt(AddressOf(%d)) = %d, %v", n, back, ok)
		}
	}
}

func TestSetLEDSelectsBankFirst(t *testing.T) {
	bus := &recordingBus{}
	console.SetLED(bus, 50, console.Color{1, 2, 3})

	want := []busOp{
		{bank: 1},
		{bank: -1, chip: 0x30, reg: 0x17, data: [3]uint8{1, 2, 3}, write: true},
	}
	if len(bus.ops) != len(want) {
		t.Fatalf("got %d ops, want %d: %+v", len(bus.ops), len(want), bus.ops)
	}
	for i := range want {
		if bus.ops[i] != want[i] {
			t.Errorf("op %d = %+v, want %+v", i, bus.ops[i], want[i])
		}
	}
}

func TestSetLEDOutOfRangeIsNoop(t *testing.T) {
	bus := &recordingBus{}
	console.SetLED(bus, 0, console.Color{1, 1, 1})
	console.SetLED(bus, 97, console.Color{1, 1, 1})
	if len(bus.ops) != 0 {
		t.Errorf("got %d bus ops for out-of-range LEDs, want 0", len(bus.ops))
	}
}
