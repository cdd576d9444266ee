package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"go-mixer/config"
	"go-mixer/console"
	"go-mixer/hardware"
	"go-mixer/midi"
)

func main() {
	if len(os.Args) < 2 {
		usage()
		return
	}

	var err error
	switch os.Args[1] {
	case "list":
		listPorts()
	case "leds":
		err = walkLEDs()
	case "decode":
		err = decode(os.Args[2:])
	case "monitor":
		err = monitor()
	case "send":
		err = send(os.Args[2:])
	default:
		usage()
	}
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Mixer Test Scripts")
	fmt.Println("")
	fmt.Println("Commands:")
	fmt.Println("  list             - List serial and MIDI ports")
	fmt.Println("  leds             - Walk every LED on the board (needs hardware)")
	fmt.Println("  decode <line>    - Decode a telemetry or command line, or bank:chip:reg")
	fmt.Println("  monitor          - Print what the console sends over serial")
	fmt.Println("  send <line>...   - Send command lines over serial")
}

func loadConfig() (*config.Config, error) {
	return config.Load(os.Getenv("GOMIXER_CONFIG"))
}

func listPorts() {
	fmt.Println("=== Serial Ports ===")
	for _, pattern := range []string{"/dev/ttyACM*", "/dev/ttyUSB*", "/dev/tty.usbmodem*"} {
		matches, _ := filepath.Glob(pattern)
		for _, m := range matches {
			fmt.Printf("  %s\n", m)
		}
	}

	fmt.Println("\n=== MIDI Input Ports ===")
	fmt.Println("(waiting up to 3 seconds...)")
	ins, outs, ok := midi.ListPorts(3 * time.Second)
	if !ok {
		fmt.Println("\nTIMEOUT! The MIDI driver did not answer.")
		return
	}
	for i, p := range ins {
		fmt.Printf("  %d: %s\n", i, p.String())
	}
	fmt.Println("\n=== MIDI Output Ports ===")
	for i, p := range outs {
		fmt.Printf("  %d: %s\n", i, p.String())
	}
}

func walkLEDs() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	pins := cfg.Hardware
	leds, err := hardware.OpenLP50xx(pins.I2CBus, pins.GPIOChip, pins.BankSelect)
	if err != nil {
		return err
	}
	defer leds.Close()

	fmt.Println("Walking LEDs 1..96 (white)...")
	for n := 1; n <= console.TotalLEDs; n++ {
		addr, _ := console.AddressOf(n)
		fmt.Printf("\r  LED %2d  bank %d chip %#02x reg %#02x", n, addr.Bank, addr.Chip, addr.Register)
		console.SetLED(leds, n, console.Color{R: 20, G: 20, B: 20})
		time.Sleep(60 * time.Millisecond)
		console.SetLED(leds, n, console.Black)
	}

	fmt.Println("\nRainbow on the backlight. Press Enter to clear...")
	bg := console.BackgroundState{Mode: console.BackgroundRainbow}
	done := make(chan struct{})
	go func() {
		fmt.Scanln()
		close(done)
	}()
	ticker := time.NewTicker(console.DefaultTickPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			(&console.BackgroundState{Mode: console.BackgroundOff}).Render(leds)
			fmt.Println("Done!")
			return nil
		case <-ticker.C:
			bg.Render(leds)
		}
	}
}

func decode(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("decode needs a line")
	}
	line := strings.Join(args, " ")

	if values, ok := console.ParseTelemetry(line); ok {
		fmt.Println("Telemetry:")
		for i, v := range values {
			name := fmt.Sprintf("ch%d", i)
			if i < len(console.ChannelDefs) {
				name = console.ChannelDefs[i].Name
			}
			fmt.Printf("  %-3s %4d  %5.1f%%\n", name, v, float64(v)*100/console.TelemetryMax)
		}
		return nil
	}
	if cmd, ok := console.ParseCommand(line); ok {
		fmt.Printf("Command: %s\n  %+v\n", cmd, cmd)
		return nil
	}
	if strings.HasPrefix(line, "O:") {
		fmt.Printf("Output notification: %s\n", line)
		return nil
	}
	if addr, ok := parseAddress(line); ok {
		n, found := console.LEDAt(addr)
		if !found {
			return fmt.Errorf("no LED at bank %d chip %#02x reg %#02x", addr.Bank, addr.Chip, addr.Register)
		}
		fmt.Printf("Register: bank %d chip %#02x reg %#02x is LED %d\n", addr.Bank, addr.Chip, addr.Register, n)
		return nil
	}
	return fmt.Errorf("%q is neither telemetry, a command nor a register address", line)
}

// parseAddress reads "<bank>:<chip>:<reg>", numbers in any Go base prefix,
// e.g. "1:0x31:0x17".
func parseAddress(s string) (console.Address, bool) {
	parts := strings.Split(s, ":")
	if len(parts) != 3 {
		return console.Address{}, false
	}
	var v [3]uint64
	for i, p := range parts {
		n, err := strconv.ParseUint(strings.TrimSpace(p), 0, 8)
		if err != nil {
			return console.Address{}, false
		}
		v[i] = n
	}
	return console.Address{Bank: int(v[0]), Chip: uint8(v[1]), Register: uint8(v[2])}, true
}

func openSerial() (*hardware.Serial, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	fmt.Printf("Using %s @ %d\n", cfg.Serial.Port, cfg.Serial.Baud)
	return hardware.OpenSerial(cfg.Serial.Port, cfg.Serial.Baud)
}

func monitor() error {
	port, err := openSerial()
	if err != nil {
		return err
	}
	defer port.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	go port.Run(ctx)

	fmt.Println("Ctrl+C to exit.")
	var reader console.LineReader
	last := ""
	for p := range port.In() {
		reader.Feed(p, func(line string) {
			// Telemetry repeats every tick; only print changes.
			if line == last {
				return
			}
			last = line
			fmt.Printf("[%s] %s\n", time.Now().Format("15:04:05.000"), line)
		})
	}
	if n := reader.Pending(); n > 0 {
		fmt.Printf("(%d bytes of an unterminated line discarded)\n", n)
	}
	return nil
}

func send(args []string) error {
	port, err := openSerial()
	if err != nil {
		return err
	}
	defer port.Close()

	lines := args
	if len(lines) == 0 {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			lines = append(lines, scanner.Text())
		}
	}
	for _, line := range lines {
		if _, ok := console.ParseCommand(line); !ok {
			fmt.Printf("warning: %q will be ignored by the console\n", line)
		}
		if _, err := port.Write([]byte(line + "\n")); err != nil {
			return err
		}
		fmt.Printf("sent %s\n", line)
	}
	return nil
}
