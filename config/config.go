// Package config loads the mixer's settings from config.yaml with viper,
// watches the file for edits and writes it back with yaml.v3.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"go-mixer/console"
	"go-mixer/hardware"
)

const (
	configName = "config"
	configType = "yaml"
	envPrefix  = "GOMIXER"

	keySerialPort     = "serial.port"
	keySerialBaud     = "serial.baud"
	keyTickMS         = "engine.tick_ms"
	keyDebounceMS     = "engine.debounce_ms"
	keyVolumePerCount = "engine.volume_per_count"
	keyBackground     = "background"
	keyMIDIEnabled    = "midi.enabled"
	keyMIDIPort       = "midi.port"
	keyMIDIChannel    = "midi.channel"
	keyMIDIFirstCC    = "midi.first_cc"
	keyI2CBus         = "hardware.i2c_bus"
	keyGPIOChip       = "hardware.gpio_chip"
	keyBankSelect     = "hardware.bank_select"
	keyEncoders       = "hardware.encoders"
	keyButtons        = "hardware.buttons"
	keyLogPath        = "log.path"
	keyLogVerbose     = "log.verbose"
	keyAccent         = "tui.accent"

	defaultSerialPort = "/dev/ttyACM0"
	defaultBaudRate   = 9600
	defaultFirstCC    = 20
	defaultAccent     = "#5FAFFF"
)

type SerialConfig struct {
	Port string `mapstructure:"port" yaml:"port"`
	Baud int    `mapstructure:"baud" yaml:"baud"`
}

type EngineConfig struct {
	TickMS         int     `mapstructure:"tick_ms" yaml:"tick_ms"`
	DebounceMS     int     `mapstructure:"debounce_ms" yaml:"debounce_ms"`
	VolumePerCount float64 `mapstructure:"volume_per_count" yaml:"volume_per_count"`
}

// ColorConfig is the gradient of one channel as hex strings.
type ColorConfig struct {
	Zero string `mapstructure:"zero" yaml:"zero"`
	Full string `mapstructure:"full" yaml:"full"`
}

type MIDIConfig struct {
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
	Port    string `mapstructure:"port" yaml:"port"`
	Channel int    `mapstructure:"channel" yaml:"channel"`
	FirstCC int    `mapstructure:"first_cc" yaml:"first_cc"`
}

type LogConfig struct {
	Path    string `mapstructure:"path" yaml:"path,omitempty"`
	Verbose bool   `mapstructure:"verbose" yaml:"verbose"`
}

type TUIConfig struct {
	Accent string `mapstructure:"accent" yaml:"accent"`
}

// Config is the main configuration structure
type Config struct {
	Serial     SerialConfig           `mapstructure:"serial" yaml:"serial"`
	Engine     EngineConfig           `mapstructure:"engine" yaml:"engine"`
	Colors     map[string]ColorConfig `mapstructure:"colors" yaml:"colors,omitempty"`
	Background string                 `mapstructure:"background" yaml:"background"`
	MIDI       MIDIConfig             `mapstructure:"midi" yaml:"midi"`
	Hardware   hardware.Pins          `mapstructure:"hardware" yaml:"hardware"`
	Log        LogConfig              `mapstructure:"log" yaml:"log"`
	TUI        TUIConfig              `mapstructure:"tui" yaml:"tui"`

	// Warnings collects the adjustments made by validation.
	Warnings []string `mapstructure:"-" yaml:"-"`

	v *viper.Viper
}

// DefaultConfig returns a config with sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Serial: SerialConfig{Port: defaultSerialPort, Baud: defaultBaudRate},
		Engine: EngineConfig{
			TickMS:         int(console.DefaultTickPeriod / time.Millisecond),
			DebounceMS:     int(console.DefaultDebounceWindow / time.Millisecond),
			VolumePerCount: console.DefaultVolumePerCount,
		},
		Background: console.DefaultBackgroundColor.Hex(),
		MIDI:       MIDIConfig{FirstCC: defaultFirstCC},
		Hardware:   hardware.DefaultPins(),
		TUI:        TUIConfig{Accent: defaultAccent},
	}
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "go-mixer"), nil
}

// ConfigPath returns the full path to config.yaml
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, configName+"."+configType), nil
}

func newViper(path string) *viper.Viper {
	v := viper.New()
	v.SetConfigType(configType)
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName(configName)
		v.AddConfigPath(".")
		if dir, err := ConfigDir(); err == nil {
			v.AddConfigPath(dir)
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	d := DefaultConfig()
	v.SetDefault(keySerialPort, d.Serial.Port)
	v.SetDefault(keySerialBaud, d.Serial.Baud)
	v.SetDefault(keyTickMS, d.Engine.TickMS)
	v.SetDefault(keyDebounceMS, d.Engine.DebounceMS)
	v.SetDefault(keyVolumePerCount, d.Engine.VolumePerCount)
	v.SetDefault(keyBackground, d.Background)
	v.SetDefault(keyMIDIEnabled, d.MIDI.Enabled)
	v.SetDefault(keyMIDIPort, d.MIDI.Port)
	v.SetDefault(keyMIDIChannel, d.MIDI.Channel)
	v.SetDefault(keyMIDIFirstCC, d.MIDI.FirstCC)
	v.SetDefault(keyI2CBus, d.Hardware.I2CBus)
	v.SetDefault(keyGPIOChip, d.Hardware.GPIOChip)
	v.SetDefault(keyBankSelect, d.Hardware.BankSelect)
	v.SetDefault(keyEncoders, encoderDefaults(d.Hardware.Encoders))
	v.SetDefault(keyButtons, d.Hardware.Buttons)
	v.SetDefault(keyLogPath, d.Log.Path)
	v.SetDefault(keyLogVerbose, d.Log.Verbose)
	v.SetDefault(keyAccent, d.TUI.Accent)
	return v
}

// Load reads path (or config.yaml from . and ~/.config/go-mixer when path is
// empty). A missing file yields the defaults; a malformed one is an error.
func Load(path string) (*Config, error) {
	v := newViper(path)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return decode(v)
}

// encoderDefaults is the pin table in the generic form viper stores.
func encoderDefaults(pins []hardware.EncoderPins) []map[string]any {
	out := make([]map[string]any, len(pins))
	for i, p := range pins {
		out[i] = map[string]any{"button": p.Button, "a": p.A, "b": p.B}
	}
	return out
}

func decode(v *viper.Viper) (*Config, error) {
	cfg := DefaultConfig()
	// Slices come from viper whole; decoding over the defaults would keep
	// trailing entries from a longer default table.
	cfg.Hardware.Encoders = nil
	cfg.Hardware.Buttons = nil
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	cfg.v = v
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// File is the config file in use, or "" when running on defaults.
func (c *Config) File() string {
	if c.v == nil {
		return ""
	}
	return c.v.ConfigFileUsed()
}

// Validate rejects unusable values and normalises the rest, recording each
// adjustment in Warnings.
func (c *Config) Validate() error {
	warn := func(format string, args ...any) {
		c.Warnings = append(c.Warnings, fmt.Sprintf(format, args...))
	}

	if c.Engine.TickMS <= 0 {
		return fmt.Errorf("%s must be positive, got %d", keyTickMS, c.Engine.TickMS)
	}
	if c.Engine.DebounceMS < 0 {
		return fmt.Errorf("%s must not be negative, got %d", keyDebounceMS, c.Engine.DebounceMS)
	}
	if rem := c.Engine.DebounceMS % c.Engine.TickMS; rem != 0 || c.Engine.DebounceMS == 0 {
		rounded := c.Engine.DebounceMS + c.Engine.TickMS - rem
		warn("%s=%d is not a positive multiple of %s=%d, using %d",
			keyDebounceMS, c.Engine.DebounceMS, keyTickMS, c.Engine.TickMS, rounded)
		c.Engine.DebounceMS = rounded
	}
	if c.Engine.VolumePerCount <= 0 {
		warn("%s=%v disables every channel", keyVolumePerCount, c.Engine.VolumePerCount)
	}
	if c.Serial.Baud <= 0 {
		warn("%s=%d is invalid, using %d", keySerialBaud, c.Serial.Baud, defaultBaudRate)
		c.Serial.Baud = defaultBaudRate
	}
	if c.MIDI.Channel < 0 || c.MIDI.Channel > 15 {
		return fmt.Errorf("%s must be 0-15, got %d", keyMIDIChannel, c.MIDI.Channel)
	}
	if c.MIDI.FirstCC < 0 || c.MIDI.FirstCC+console.NumChannels > 128 {
		return fmt.Errorf("%s=%d leaves no room for %d controllers", keyMIDIFirstCC, c.MIDI.FirstCC, console.NumChannels)
	}
	for key := range c.Colors {
		if i, err := strconv.Atoi(key); err != nil || i < 0 || i >= console.NumChannels {
			return fmt.Errorf("colors: unknown channel %q", key)
		}
	}
	if err := c.Hardware.Validate(); err != nil {
		return fmt.Errorf("hardware: %w", err)
	}
	return nil
}

// Settings converts the engine section for console.New.
func (c *Config) Settings() console.Settings {
	return console.Settings{
		TickPeriod:     time.Duration(c.Engine.TickMS) * time.Millisecond,
		DebounceWindow: time.Duration(c.Engine.DebounceMS) * time.Millisecond,
		VolumePerCount: c.Engine.VolumePerCount,
	}
}

// CommandLines renders the colour and background settings as host commands,
// so they reach the console through the same parser as the serial link.
func (c *Config) CommandLines() []string {
	keys := make([]string, 0, len(c.Colors))
	for k := range c.Colors {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var lines []string
	for _, k := range keys {
		cc := c.Colors[k]
		zero, full := cc.Zero, cc.Full
		if zero == "" {
			zero = console.DefaultZeroColor.Hex()
		}
		if full == "" {
			full = console.DefaultFullColor.Hex()
		}
		lines = append(lines, fmt.Sprintf("C:%s:%s:%s", k, zero, full))
	}
	if c.Background != "" {
		lines = append(lines, "B:"+c.Background)
	}
	return lines
}

// Save writes the config to path (ConfigPath when empty).
func (c *Config) Save(path string) error {
	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return err
		}
		path = p
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// RestartKeys lists the sections that differ in next but are only read at
// startup. Colours and background are applied live and never listed.
func (c *Config) RestartKeys(next *Config) []string {
	var keys []string
	if c.Serial != next.Serial {
		keys = append(keys, "serial")
	}
	if c.Engine != next.Engine {
		keys = append(keys, "engine")
	}
	if c.MIDI != next.MIDI {
		keys = append(keys, "midi")
	}
	if !reflect.DeepEqual(c.Hardware, next.Hardware) {
		keys = append(keys, "hardware")
	}
	if c.Log != next.Log {
		keys = append(keys, "log")
	}
	return keys
}
