package console

import "time"

// Debouncer stabilises one active-low digital input.
//
// A raw reading that differs from the accepted state is taken only when more
// than Window has passed since the last accepted transition. Anything else is
// bounce and is dropped; there is no queue.
type Debouncer struct {
	Window time.Duration

	high     bool      // accepted level, true = released
	lastEdge time.Time // time of the last accepted transition
}

// NewDebouncer returns a debouncer in the released (high) state.
func NewDebouncer(window time.Duration) Debouncer {
	return Debouncer{Window: window, high: true}
}

// Pressed reports the accepted logical state.
func (d *Debouncer) Pressed() bool {
	return !d.high
}

// Update feeds a raw reading taken at now and reports whether it was accepted
// as a new press (the high-to-low edge).
func (d *Debouncer) Update(high bool, now time.Time) (pressed bool) {
	if high == d.high || now.Sub(d.lastEdge) <= d.Window {
		return false
	}
	d.high = high
	d.lastEdge = now
	return !high
}
