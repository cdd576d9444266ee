package hardware

import (
	"fmt"

	"github.com/warthog618/go-gpiocdev"

	"go-mixer/debug"
)

// Pin is an active-low push button with the internal pull-up enabled.
type Pin struct {
	line *gpiocdev.Line
}

// OpenPin requests offset on chip as a pulled-up input.
func OpenPin(chip string, offset int) (*Pin, error) {
	line, err := gpiocdev.RequestLine(chip, offset,
		gpiocdev.AsInput, gpiocdev.WithPullUp, gpiocdev.WithConsumer("go-mixer-button"))
	if err != nil {
		return nil, fmt.Errorf("request button %s:%d: %w", chip, offset, err)
	}
	return &Pin{line: line}, nil
}

// High reads the line. A failed read reports released.
func (p *Pin) High() bool {
	v, err := p.line.Value()
	if err != nil {
		debug.WarnEvery(1000, "hw", "read pin: %v", err)
		return true
	}
	return v != 0
}

func (p *Pin) Close() error {
	return p.line.Close()
}
