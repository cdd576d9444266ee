package midi

import (
	"context"
	"sync"
	"testing"
	"time"

	"go-mixer/console"
)

type fakeController struct {
	id   string
	mu   sync.Mutex
	sent []ControlChange
}

func (f *fakeController) ID() string { return f.id }

func (f *fakeController) SendCC(cc ControlChange) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, cc)
	return nil
}

func (f *fakeController) Close() error { return nil }

func (f *fakeController) Sent() []ControlChange {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ControlChange(nil), f.sent...)
}

type fakeDevices struct {
	ctrls  map[string]Controller
	events chan DeviceEvent
}

func (d *fakeDevices) Controllers() map[string]Controller { return d.ctrls }
func (d *fakeDevices) Events() <-chan DeviceEvent         { return d.events }

func TestLevelToCC(t *testing.T) {
	tests := []struct {
		level int
		want  uint8
	}{
		{-5, 0}, {0, 0}, {1, 1}, {50, 64}, {99, 126}, {100, 127}, {150, 127},
	}
	for _, tt := range tests {
		if got := LevelToCC(tt.level); got != tt.want {
			t.Errorf("LevelToCC(%d) = %d, want %d", tt.level, got, tt.want)
		}
	}
}

func TestVolumeLineParses(t *testing.T) {
	for _, v := range []uint8{0, 1, 64, 127} {
		line := VolumeLine(3, v)
		cmd, ok := console.ParseCommand(line[:len(line)-1])
		if !ok || cmd.Kind != console.CommandVolume || cmd.Channel != 3 {
			t.Fatalf("VolumeLine(3, %d) = %q did not parse", v, line)
		}
		if got := LevelToCC(int(cmd.Fraction*console.MaxVolume + 0.5)); got != v {
			t.Errorf("CC %d round-tripped to %d", v, got)
		}
	}
}

func TestHandleCC(t *testing.T) {
	b := NewBridge(2, 20)
	b.HandleCC(ControlChange{Channel: 2, Controller: 22, Value: 127})
	b.HandleCC(ControlChange{Channel: 1, Controller: 22, Value: 127}) // wrong channel
	b.HandleCC(ControlChange{Channel: 2, Controller: 19, Value: 127}) // below range
	b.HandleCC(ControlChange{Channel: 2, Controller: 26, Value: 127}) // above range

	select {
	case p := <-b.Lines():
		if string(p) != "V:2:1.0000\n" {
			t.Errorf("line = %q", p)
		}
	default:
		t.Fatal("no line queued")
	}
	if len(b.Lines()) != 0 {
		t.Errorf("%d extra lines queued", len(b.Lines()))
	}
}

func TestObserveSendsOnlyChanges(t *testing.T) {
	fc := &fakeController{id: "fader"}
	dev := &fakeDevices{ctrls: map[string]Controller{"fader": fc}, events: make(chan DeviceEvent)}
	b := NewBridge(0, 20)
	b.SetDevices(dev)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go b.Run(ctx)

	var s console.Snapshot
	b.Observe(s) // first snapshot announces every channel
	s.Levels[4] = 100
	b.Observe(s)
	b.Observe(s) // unchanged

	want := console.NumChannels + 1
	deadline := time.Now().Add(time.Second)
	for len(fc.Sent()) < want && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	sent := fc.Sent()
	if len(sent) != want {
		t.Fatalf("sent %d CCs, want %d: %v", len(sent), want, sent)
	}
	last := sent[len(sent)-1]
	if last != (ControlChange{Channel: 0, Controller: 24, Value: 127}) {
		t.Errorf("last CC = %+v", last)
	}
}

func TestMatches(t *testing.T) {
	tests := []struct {
		name, match string
		want        bool
	}{
		{"nanoKONTROL2 SLIDER/KNOB", "nanokontrol", true},
		{"Midi Through Port-0", "", false},
		{"X-Touch Mini", "", true},
		{"X-Touch Mini", "launchpad", false},
	}
	for _, tt := range tests {
		if got := Matches(tt.name, tt.match); got != tt.want {
			t.Errorf("Matches(%q, %q) = %v, want %v", tt.name, tt.match, got, tt.want)
		}
	}
}
