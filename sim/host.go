package sim

import (
	"bytes"
	"strings"
	"sync"
)

// Host is a loopback stand-in for the serial link. Commands sent with Send
// reach the console through In; everything the console writes is split into
// lines and kept for inspection.
type Host struct {
	in chan []byte

	mu      sync.Mutex
	partial []byte
	lines   []string
	last    string
	notices []string
	keep    int
}

// NewHost returns a link that keeps at most keep output lines (0 keeps all).
func NewHost(keep int) *Host {
	return &Host{in: make(chan []byte, 64), keep: keep}
}

// In is the console-side receive channel.
func (h *Host) In() <-chan []byte {
	return h.in
}

// Send queues raw bytes for the console. It drops data when the console is
// not draining, like a full UART FIFO.
func (h *Host) Send(p string) bool {
	select {
	case h.in <- []byte(p):
		return true
	default:
		return false
	}
}

// Write implements io.Writer for the console's outbound stream.
func (h *Host) Write(p []byte) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.partial = append(h.partial, p...)
	for {
		i := bytes.IndexByte(h.partial, '\n')
		if i < 0 {
			break
		}
		line := string(h.partial[:i])
		h.partial = h.partial[i+1:]
		h.record(line)
	}
	return len(p), nil
}

func (h *Host) record(line string) {
	if strings.HasPrefix(line, "O:") {
		h.notices = append(h.notices, line)
	} else {
		h.last = line
	}
	h.lines = append(h.lines, line)
	if h.keep > 0 && len(h.lines) > h.keep {
		h.lines = h.lines[len(h.lines)-h.keep:]
	}
}

// Lines returns the retained output lines, oldest first.
func (h *Host) Lines() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.lines...)
}

// LastTelemetry returns the most recent telemetry line.
func (h *Host) LastTelemetry() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.last
}

// Notices returns every output-selection notification seen so far.
func (h *Host) Notices() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.notices...)
}
