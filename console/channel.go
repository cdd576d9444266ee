package console

import "math"

// EncoderSource is the interrupt-driven position counter behind a rotary encoder.
// Read is an atomic snapshot; the counter reports two ticks per detent.
type EncoderSource interface {
	Read() int64
	SetPosition(pos int64)
}

// ticksPerDetent is the double counting of the encoder position source.
const ticksPerDetent = 2

// EncoderChannel is one rotary volume control with its LED segment.
type EncoderChannel struct {
	Index int
	Def   ChannelDef

	Source EncoderSource
	Button Debouncer

	// Detent is the last rendered volume, rounded to whole detents.
	Detent    int
	Muted     bool
	ZeroColor Color
	FullColor Color
}

// RawCount is the source position in detents.
func (ch *EncoderChannel) RawCount() int64 {
	return ch.Source.Read() / ticksPerDetent
}

// SetRawCount writes a detent count back into the source.
func (ch *EncoderChannel) SetRawCount(count int64) {
	ch.Source.SetPosition(count * ticksPerDetent)
}

// Level is the volume reported downstream: zero while muted.
func (ch *EncoderChannel) Level() int {
	if ch.Muted {
		return 0
	}
	return ch.Detent
}

// Poll re-derives the volume from the encoder, clamps it, writes the clamped
// position back when the knob was turned past a limit, and reports whether the
// rounded detent changed. A disabled scale leaves the channel untouched.
func (ch *EncoderChannel) Poll(scale VolumeScale) (changed bool) {
	if !scale.Enabled() {
		return false
	}
	requested := scale.CountToVolume(ch.RawCount())
	clamped := clampVolume(requested)
	if requested != clamped {
		ch.SetRawCount(scale.VolumeToCount(clamped))
	}
	detent := int(math.Round(clamped))
	if detent == ch.Detent {
		return false
	}
	ch.Detent = detent
	return true
}

// SetFraction forces the volume to f (0..1 of MaxVolume) and moves the encoder
// position to match.
func (ch *EncoderChannel) SetFraction(f float64, scale VolumeScale) {
	if math.IsNaN(f) || f < 0 {
		f = 0
	} else if f > 1 {
		f = 1
	}
	ch.Detent = int(math.Round(f * MaxVolume))
	ch.SetRawCount(scale.VolumeToCount(float64(ch.Detent)))
}

// LitCount is how many segment LEDs show the current level.
func (ch *EncoderChannel) LitCount() int {
	return litCount(ch.Detent)
}

func litCount(detent int) int {
	if detent <= 0 {
		return 0
	}
	if detent >= MaxVolume {
		return SegmentLength
	}
	return roundDiv(detent*SegmentLength, MaxVolume)
}

// Pattern computes the colour of every LED in the segment, indexed by
// 1-based offset-1 inside the segment (physical order, not lit order).
func (ch *EncoderChannel) Pattern() [SegmentLength]Color {
	var out [SegmentLength]Color
	lit := ch.LitCount()
	for i := 0; i < lit; i++ {
		slot := ch.Def.Order[i] - 1
		if ch.Muted {
			out[slot] = MutedColor
			continue
		}
		t := float64(i) / float64(SegmentLength-1)
		if lit == 1 {
			t = 0
		}
		out[slot] = Lerp(ch.ZeroColor, ch.FullColor, t)
	}
	return out
}

// Render clears the segment and then paints the lit positions.
func (ch *EncoderChannel) Render(bus LEDBus) {
	for i := 0; i < SegmentLength; i++ {
		SetLED(bus, ch.Def.StartLED+i, Black)
	}
	pattern := ch.Pattern()
	lit := ch.LitCount()
	for i := 0; i < lit; i++ {
		slot := ch.Def.Order[i] - 1
		SetLED(bus, ch.Def.StartLED+slot, pattern[slot])
	}
}
