package midi

import (
	"fmt"

	gomidi "gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
)

// Controller is a connected MIDI surface.
type Controller interface {
	ID() string
	SendCC(cc ControlChange) error
	Close() error
}

// Surface is a generic CC controller: faders or knobs in, motor faders or LED
// rings out. Either port may be nil.
type Surface struct {
	id       string
	inPort   drivers.In
	outPort  drivers.Out
	send     func(msg gomidi.Message) error
	stopFunc func()
}

// NewSurface opens the ports and delivers incoming CC to onCC from the
// driver's goroutine.
func NewSurface(id string, inPort drivers.In, outPort drivers.Out, onCC func(ControlChange)) (*Surface, error) {
	s := &Surface{id: id, inPort: inPort, outPort: outPort}

	if outPort != nil {
		send, err := gomidi.SendTo(outPort)
		if err != nil {
			return nil, fmt.Errorf("open output: %w", err)
		}
		s.send = send
	}

	if inPort != nil && onCC != nil {
		stop, err := gomidi.ListenTo(inPort, func(msg gomidi.Message, timestampms int32) {
			var cc ControlChange
			if msg.GetControlChange(&cc.Channel, &cc.Controller, &cc.Value) {
				onCC(cc)
			}
		})
		if err != nil {
			return nil, fmt.Errorf("open input: %w", err)
		}
		s.stopFunc = stop
	}

	return s, nil
}

func (s *Surface) ID() string {
	return s.id
}

// SendCC is a no-op for input-only surfaces.
func (s *Surface) SendCC(cc ControlChange) error {
	if s.send == nil {
		return nil
	}
	return s.send(gomidi.ControlChange(cc.Channel, cc.Controller, cc.Value))
}

func (s *Surface) Close() error {
	if s.stopFunc != nil {
		s.stopFunc()
	}
	return nil
}
