package hardware

import (
	"strings"
	"testing"

	"github.com/warthog618/go-gpiocdev"
)

func TestEncoderQuadrature(t *testing.T) {
	e := &Encoder{pinA: 5, pinB: 6}
	edge := func(off int, rising bool) {
		typ := gpiocdev.LineEventFallingEdge
		if rising {
			typ = gpiocdev.LineEventRisingEdge
		}
		e.handle(gpiocdev.LineEvent{Offset: off, Type: typ})
	}

	// Clockwise: A leads B through one full cycle (one detent).
	e.a.Store(true)
	e.b.Store(true)
	edge(5, false) // A falls, B high
	edge(6, false)
	edge(5, true) // A rises, B low
	edge(6, true)
	if got := e.Read(); got != -2 {
		t.Errorf("clockwise detent = %d, want -2", got)
	}

	// And back.
	edge(6, false) // B leads
	edge(5, false) // A falls, B low
	edge(6, true)
	edge(5, true) // A rises, B high
	if got := e.Read(); got != 0 {
		t.Errorf("after reversing = %d, want 0", got)
	}

	e.SetPosition(40)
	if e.Read() != 40 {
		t.Errorf("SetPosition not stored")
	}
}

func TestDefaultPinsValid(t *testing.T) {
	if err := DefaultPins().Validate(); err != nil {
		t.Fatalf("DefaultPins: %v", err)
	}
}

func TestPinsValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Pins)
		want   string
	}{
		{"missing encoder", func(p *Pins) { p.Encoders = p.Encoders[:5] }, "encoders"},
		{"extra button", func(p *Pins) { p.Buttons = append(p.Buttons, 50) }, "buttons"},
		{"duplicate", func(p *Pins) { p.Buttons[0] = p.Encoders[0].A }, "used twice"},
		{"clash with bank select", func(p *Pins) { p.Buttons[3] = p.BankSelect }, "used twice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := DefaultPins()
			tt.mutate(&p)
			err := p.Validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Validate() = %v, want error containing %q", err, tt.want)
			}
		})
	}
}
