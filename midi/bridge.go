// Package midi mirrors console levels onto MIDI control surfaces and turns
// their CC input back into host volume commands.
package midi

import (
	"context"

	"go-mixer/console"
	"go-mixer/debug"
)

// Devices is the source of connected controllers, normally a DeviceManager.
type Devices interface {
	Controllers() map[string]Controller
	Events() <-chan DeviceEvent
}

// Bridge maps channel i to CC FirstCC+i on Channel.
type Bridge struct {
	Channel uint8
	FirstCC uint8

	devices Devices
	lines   chan []byte
	out     chan ControlChange

	// last is owned by the console goroutine (Observe).
	last [console.NumChannels]int
	// sent is owned by Run.
	sent [console.NumChannels]uint8
}

// NewBridge returns a bridge; call SetDevices before Run.
func NewBridge(channel, firstCC uint8) *Bridge {
	b := &Bridge{
		Channel: channel,
		FirstCC: firstCC,
		lines:   make(chan []byte, 64),
		out:     make(chan ControlChange, 64),
	}
	for i := range b.last {
		b.last[i] = -1
	}
	return b
}

// SetDevices attaches the controller source.
func (b *Bridge) SetDevices(d Devices) {
	b.devices = d
}

// Lines carries V: commands for console.AddLink.
func (b *Bridge) Lines() <-chan []byte {
	return b.lines
}

// HandleCC converts an incoming CC into a volume command. CCs on other
// channels or outside the mapped range are ignored.
func (b *Bridge) HandleCC(cc ControlChange) {
	if cc.Channel != b.Channel || cc.Controller < b.FirstCC {
		return
	}
	i := int(cc.Controller - b.FirstCC)
	if i >= console.NumChannels {
		return
	}
	select {
	case b.lines <- []byte(VolumeLine(i, cc.Value)):
	default:
		debug.LogEvery(10, "midi", "command queue full")
	}
}

// Observe queues a CC for every channel whose level changed. It is meant for
// console.Observe and never blocks.
func (b *Bridge) Observe(s console.Snapshot) {
	for i, level := range s.Levels {
		if level == b.last[i] {
			continue
		}
		b.last[i] = level
		cc := ControlChange{Channel: b.Channel, Controller: b.FirstCC + uint8(i), Value: LevelToCC(level)}
		select {
		case b.out <- cc:
		default:
			debug.LogEvery(10, "midi", "output queue full")
		}
	}
}

// Run forwards queued CCs to every controller and brings newly connected
// controllers up to date.
func (b *Bridge) Run(ctx context.Context) {
	events := b.devices.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				events = nil
				continue
			}
			debug.Info("midi", "%s %s", ev.ID, ev.Type)
			if ev.Type == DeviceConnected && ev.Controller != nil {
				b.resync(ev.Controller)
			}
		case cc := <-b.out:
			b.sent[cc.Controller-b.FirstCC] = cc.Value
			for id, c := range b.devices.Controllers() {
				if err := c.SendCC(cc); err != nil {
					debug.LogEvery(100, "midi", "send to %s: %v", id, err)
				}
			}
		}
	}
}

func (b *Bridge) resync(c Controller) {
	for i, v := range b.sent {
		cc := ControlChange{Channel: b.Channel, Controller: b.FirstCC + uint8(i), Value: v}
		if err := c.SendCC(cc); err != nil {
			debug.LogEvery(100, "midi", "resync %s: %v", c.ID(), err)
			return
		}
	}
}
