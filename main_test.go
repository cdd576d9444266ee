package main

import (
	"io"
	"strings"
	"testing"

	"go-mixer/console"
	"go-mixer/sim"
)

func TestHeadlessHostPrintsChanges(t *testing.T) {
	panel := sim.NewPanel()
	var out strings.Builder
	host := io.MultiWriter(panel.Host, &changedLines{w: &out})

	c := console.New(panel.Hardware(nil), host, console.DefaultSettings())
	c.AddLink("host", panel.Host.In())
	c.Boot()
	for i := 0; i < 3; i++ {
		c.Tick()
	}
	panel.Host.Send("V:1:1\n")
	c.Tick()
	c.Tick()

	want := "O:1\n0|0|0|0|0|0\n0|1023|0|0|0|0\n"
	if out.String() != want {
		t.Errorf("stdout = %q, want %q", out.String(), want)
	}
	// The simulated host still sees every line.
	if got := len(panel.Host.Lines()); got != 6 {
		t.Errorf("host received %d lines, want 6", got)
	}
}
