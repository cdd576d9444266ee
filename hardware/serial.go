package hardware

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/tarm/serial"

	"go-mixer/debug"
)

// Serial is the host link. Writes go straight to the port; reads are pumped
// into a channel the console drains once per tick.
type Serial struct {
	port *serial.Port
	in   chan []byte
}

// OpenSerial opens name at baud with a short read timeout so the reader can
// notice cancellation.
func OpenSerial(name string, baud int) (*Serial, error) {
	port, err := serial.OpenPort(&serial.Config{
		Name:        name,
		Baud:        baud,
		ReadTimeout: 100 * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("open serial %s: %w", name, err)
	}
	return &Serial{port: port, in: make(chan []byte, 64)}, nil
}

// In is the receive side for console.AddLink.
func (s *Serial) In() <-chan []byte {
	return s.in
}

func (s *Serial) Write(p []byte) (int, error) {
	return s.port.Write(p)
}

// Run reads until ctx is done or the port fails, then closes In. Data that
// arrives while the channel is full is dropped.
func (s *Serial) Run(ctx context.Context) error {
	defer close(s.in)
	buf := make([]byte, 256)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		n, err := s.port.Read(buf)
		if n > 0 {
			p := make([]byte, n)
			copy(p, buf[:n])
			select {
			case s.in <- p:
			default:
				debug.WarnEvery(10, "serial", "rx overflow, dropped %d bytes", n)
			}
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return fmt.Errorf("serial read: %w", err)
		}
	}
}

func (s *Serial) Close() error {
	return s.port.Close()
}
