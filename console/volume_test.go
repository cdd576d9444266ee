package console_test

import (
	"math"
	"testing"

	"go-mixer/console"
	"go-mixer/sim"
)

func TestCountToVolumeSign(t *testing.T) {
	s := console.VolumeScale{PerCount: 0.5}
	if got := s.CountToVolume(-10); got != 5 {
		t.Errorf("CountToVolume(-10) = %v, want 5", got)
	}
	if got := s.CountToVolume(10); got != -5 {
		t.Errorf("CountToVolume(10) = %v, want -5", got)
	}
}

func TestVolumeCountRoundTrip(t *testing.T) {
	for _, k := range []float64{0.5, 1, 2, 0.3} {
		s := console.VolumeScale{PerCount: k}
		for r := int64(-400); r <= 0; r++ {
			v := s.CountToVolume(r)
			if v < 0 || v > console.MaxVolume {
				continue
			}
			if got := s.VolumeToCount(v); got != r {
				t.Fatalf("K=%v: VolumeToCount(CountToVolume(%d)) = %d", k, r, got)
			}
		}
	}
}

func TestDisabledScaleNeverDivides(t *testing.T) {
	for _, k := range []float64{0, -1} {
		s := console.VolumeScale{PerCount: k}
		if s.Enabled() {
			t.Errorf("K=%v reported enabled", k)
		}
		if got := s.VolumeToCount(50); got != 0 {
			t.Errorf("K=%v: VolumeToCount(50) = %d, want 0", k, got)
		}
	}
}

func newTestChannel() (*console.EncoderChannel, *sim.Encoder) {
	enc := &sim.Encoder{}
	ch := &console.EncoderChannel{
		Def:       console.ChannelDefs[0],
		Source:    enc,
		ZeroColor: console.DefaultZeroColor,
		FullColor: console.DefaultFullColor,
	}
	return ch, enc
}

func TestPollClampsAndWritesBack(t *testing.T) {
	scale := console.VolumeScale{PerCount: 0.5}

	tests := []struct {
		name    string
		detents int
		want    int
	}{
		{"past the top", 500, 100},
		{"past the bottom", -30, 0},
		{"inside", 90, 45},
		{"exactly full", 200, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ch, enc := newTestChannel()
			enc.Turn(tt.detents)
			ch.Poll(scale)
			if ch.Detent != tt.want {
				t.Fatalf("Detent = %d, want %d", ch.Detent, tt.want)
			}

			// The source now agrees with the clamped volume.
			if v := scale.CountToVolume(ch.RawCount()); math.Round(v) != float64(tt.want) {
				t.Errorf("recomputed volume %v, want %d", v, tt.want)
			}
			if changed := ch.Poll(scale); changed {
				t.Errorf("second Poll reported a change")
			}

			// Turning back moves off the limit immediately.
			if tt.want == console.MaxVolume {
				enc.Turn(-2)
				ch.Poll(scale)
				if ch.Detent != console.MaxVolume-1 {
					t.Errorf("after backing off: Detent = %d, want %d", ch.Detent, console.MaxVolume-1)
				}
			}
		})
	}
}

func TestPollNoDriftAcrossVolumes(t *testing.T) {
	scale := console.VolumeScale{PerCount: 0.5}
	for v := 0; v <= console.MaxVolume; v++ {
		ch, enc := newTestChannel()
		enc.SetPosition(2 * scale.VolumeToCount(float64(v)))
		ch.Poll(scale)
		for i := 0; i < 3; i++ {
			ch.Poll(scale)
		}
		if ch.Detent != v {
			t.Fatalf("volume %d drifted to %d", v, ch.Detent)
		}
	}
}

func TestPollDisabledScaleSkipsChannel(t *testing.T) {
	ch, enc := newTestChannel()
	enc.Turn(20)
	ch.Detent = 7
	if ch.Poll(console.VolumeScale{PerCount: 0}) {
		t.Error("disabled channel reported a change")
	}
	if ch.Detent != 7 {
		t.Errorf("Detent = %d, want untouched 7", ch.Detent)
	}
	if enc.Read() != -40 {
		t.Errorf("encoder position = %d, want untouched -40", enc.Read())
	}
}

func TestSetFraction(t *testing.T) {
	scale := console.VolumeScale{PerCount: 0.5}
	tests := []struct {
		f    float64
		want int
	}{
		{0.5, 50},
		{0, 0},
		{1, 100},
		{0.333, 33},
		{1.7, 100},
		{-0.2, 0},
		{math.NaN(), 0},
	}

	for _, tt := range tests {
		ch, _ := newTestChannel()
		ch.SetFraction(tt.f, scale)
		if ch.Detent != tt.want {
			t.Errorf("SetFraction(%v): Detent = %d, want %d", tt.f, ch.Detent, tt.want)
		}
		if ch.Poll(scale) {
			t.Errorf("SetFraction(%v): encoder disagrees with detent", tt.f)
		}
	}
}
