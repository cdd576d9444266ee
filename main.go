package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/sync/errgroup"
	"golang.org/x/term"

	"go-mixer/config"
	"go-mixer/console"
	"go-mixer/debug"
	"go-mixer/hardware"
	"go-mixer/midi"
	"go-mixer/sim"
	"go-mixer/theme"
	"go-mixer/tui"
)

func usage() {
	fmt.Println("usage: go-mixer [sim|hw]")
	fmt.Println("")
	fmt.Println("  sim  - simulated panel (default)")
	fmt.Println("  hw   - real LED drivers, encoders, buttons and serial link")
	fmt.Println("")
	fmt.Println("GOMIXER_CONFIG selects the config file; GOMIXER_* variables override keys.")
}

func main() {
	mode := "sim"
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}
	if mode != "sim" && mode != "hw" {
		usage()
		os.Exit(2)
	}

	if err := run(mode); err != nil {
		fmt.Fprintf(os.Stderr, "go-mixer: %v\n", err)
		os.Exit(1)
	}
}

func run(mode string) error {
	cfg, err := config.Load(os.Getenv("GOMIXER_CONFIG"))
	if err != nil {
		return err
	}
	if err := debug.Enable(cfg.Log.Path, cfg.Log.Verbose); err != nil {
		fmt.Fprintf(os.Stderr, "go-mixer: logging disabled: %v\n", err)
	}
	defer debug.Disable()
	for _, w := range cfg.Warnings {
		debug.Warn("config", "%s", w)
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	// Any background loop failing (e.g. the serial port vanishing) stops
	// everything else.
	g, ctx := errgroup.WithContext(sigCtx)

	// The panel's chip model mirrors the LEDs for the front panel in both
	// modes; in sim mode it also provides the inputs and the host.
	panel := sim.NewPanel()
	cmdLink := config.NewLink()

	interactive := term.IsTerminal(int(os.Stdout.Fd()))

	var (
		hw       console.Hardware
		host     io.Writer
		hostIn   <-chan []byte
		controls tui.Controls
		send     func(string) bool
	)
	switch mode {
	case "sim":
		hw = panel.Hardware(nil)
		host = panel.Host
		if !interactive {
			// Headless: stdout plays the host's receive side.
			host = io.MultiWriter(panel.Host, &changedLines{w: os.Stdout})
		}
		hostIn = panel.Host.In()
		controls = panel
		send = panel.Host.Send

	case "hw":
		board, err := hardware.OpenBoard(cfg.Hardware)
		if err != nil {
			return err
		}
		defer board.Close()
		hw = board.Hardware(sim.Tee{board.LEDs, panel.Chips})

		port, err := hardware.OpenSerial(cfg.Serial.Port, cfg.Serial.Baud)
		if err != nil {
			return err
		}
		defer port.Close()
		g.Go(func() error { return port.Run(ctx) })
		host = port
		hostIn = port.In()
		send = func(line string) bool {
			return cmdLink.Send(strings.TrimRight(line, "\n"))
		}
	}

	c := console.New(hw, host, cfg.Settings())
	c.AddLink("host", hostIn)
	c.AddLink("config", cmdLink.In())

	if cfg.MIDI.Enabled {
		bridge := midi.NewBridge(uint8(cfg.MIDI.Channel), uint8(cfg.MIDI.FirstCC))
		devices := midi.NewDeviceManager(cfg.MIDI.Port, bridge.HandleCC)
		bridge.SetDevices(devices)
		c.AddLink("midi", bridge.Lines())
		c.Observe(bridge.Observe)
		g.Go(func() error { devices.Run(ctx); return nil })
		g.Go(func() error { bridge.Run(ctx); return nil })
	}

	c.Boot()
	cmdLink.Send(cfg.CommandLines()...)
	watcher := cfg.Watch(cmdLink)
	defer watcher.Stop()
	watcher.OnReload(func(next *config.Config) {
		for _, key := range cfg.RestartKeys(next) {
			debug.Warn("config", "%s changed; restart go-mixer to apply it", key)
		}
	})

	g.Go(func() error { return c.Run(ctx) })
	debug.Info("main", "running in %s mode", mode)

	if !interactive {
		headless(ctx, mode, panel)
	} else if err := frontPanel(ctx, cfg, watcher, c, panel, controls, send, mode); err != nil {
		stop()
		g.Wait()
		return err
	}

	stop()
	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

func frontPanel(ctx context.Context, cfg *config.Config, watcher *config.Watcher, c *console.Console,
	panel *sim.Panel, controls tui.Controls, send func(string) bool, mode string) error {
	m := tui.NewModel(c, panel.Chips.Frame, controls, send, themeFor(cfg.TUI.Accent), mode)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	accent := cfg.TUI.Accent
	watcher.OnReload(func(next *config.Config) {
		if next.TUI.Accent == accent {
			return
		}
		accent = next.TUI.Accent
		p.Send(tui.ThemeMsg{Theme: themeFor(accent)})
	})
	if _, err := p.Run(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}

// themeFor builds the panel theme, falling back to the default accent.
func themeFor(accent string) *theme.Theme {
	palette, err := theme.FromAccent(accent)
	if err != nil {
		debug.Warn("main", "%v", err)
		palette = theme.MustFromAccent(config.DefaultConfig().TUI.Accent)
	}
	return theme.New(palette)
}

// headless runs without a terminal until signalled. In sim mode stdin is fed
// to the host link and the console's output is printed, so it can be scripted.
func headless(ctx context.Context, mode string, panel *sim.Panel) {
	fmt.Fprintf(os.Stderr, "go-mixer running headless (%s)\n", mode)
	if mode == "sim" {
		go func() {
			scanner := bufio.NewScanner(os.Stdin)
			for scanner.Scan() {
				if !panel.Host.Send(scanner.Text() + "\n") {
					debug.Warn("main", "host link full, dropped %q", scanner.Text())
				}
			}
		}()
	}
	<-ctx.Done()
}

// changedLines passes each written line through unless it repeats the one
// before. Telemetry goes out every tick and would otherwise flood stdout.
type changedLines struct {
	w    io.Writer
	last string
}

func (c *changedLines) Write(p []byte) (int, error) {
	if string(p) == c.last {
		return len(p), nil
	}
	c.last = string(p)
	return c.w.Write(p)
}
