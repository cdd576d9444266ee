package hardware

import (
	"fmt"
	"sync/atomic"

	"github.com/warthog618/go-gpiocdev"
)

// Encoder counts quadrature edges in the gpiocdev event goroutine. Both edges
// of A are counted, which gives two ticks per detent; B sets the direction.
// It implements console.EncoderSource.
type Encoder struct {
	pos   atomic.Int64
	a, b  atomic.Bool
	pinA  int
	pinB  int
	lines *gpiocdev.Lines
}

// OpenEncoder requests the A and B lines with edge detection on both.
func OpenEncoder(chip string, pinA, pinB int) (*Encoder, error) {
	e := &Encoder{pinA: pinA, pinB: pinB}
	lines, err := gpiocdev.RequestLines(chip, []int{pinA, pinB},
		gpiocdev.AsInput,
		gpiocdev.WithPullUp,
		gpiocdev.WithBothEdges,
		gpiocdev.WithConsumer("go-mixer-encoder"),
		gpiocdev.WithEventHandler(e.handle))
	if err != nil {
		return nil, fmt.Errorf("request encoder %s:%d/%d: %w", chip, pinA, pinB, err)
	}
	e.lines = lines

	vals := make([]int, 2)
	if err := lines.Values(vals); err == nil {
		e.a.Store(vals[0] != 0)
		e.b.Store(vals[1] != 0)
	}
	return e, nil
}

func (e *Encoder) handle(evt gpiocdev.LineEvent) {
	level := evt.Type == gpiocdev.LineEventRisingEdge
	switch evt.Offset {
	case e.pinB:
		e.b.Store(level)
	case e.pinA:
		e.a.Store(level)
		e.step(level, e.b.Load())
	}
}

// step applies one A edge. A leading B is a clockwise turn, which counts down.
func (e *Encoder) step(a, b bool) {
	if a != b {
		e.pos.Add(-1)
	} else {
		e.pos.Add(1)
	}
}

func (e *Encoder) Read() int64 {
	return e.pos.Load()
}

func (e *Encoder) SetPosition(pos int64) {
	e.pos.Store(pos)
}

func (e *Encoder) Close() error {
	return e.lines.Close()
}
