package sim

import (
	"sync/atomic"
	"time"
)

// Encoder is a position counter that can be turned from any goroutine, the
// way an interrupt handler would update it. Each detent moves it by two ticks.
type Encoder struct {
	pos atomic.Int64
}

func (e *Encoder) Read() int64 {
	return e.pos.Load()
}

func (e *Encoder) SetPosition(pos int64) {
	e.pos.Store(pos)
}

// Turn moves the knob by detents. Positive is clockwise, which raises volume.
func (e *Encoder) Turn(detents int) {
	e.pos.Add(-2 * int64(detents))
}

// Button is an active-low push button.
type Button struct {
	down atomic.Bool
}

// High reports the raw line level; released buttons read high.
func (b *Button) High() bool {
	return !b.down.Load()
}

// Set holds the button down or releases it.
func (b *Button) Set(down bool) {
	b.down.Store(down)
}

// Tap presses the button and releases it after hold. hold must exceed the
// console's debounce window for both edges to register.
func (b *Button) Tap(hold time.Duration) {
	b.Set(true)
	time.AfterFunc(hold, func() { b.Set(false) })
}
