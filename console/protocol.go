package console

import (
	"strconv"
	"strings"
)

// MaxLineLength bounds the host line buffer. Longer lines are dropped whole.
const MaxLineLength = 128

// LineReader splits a byte stream into newline-terminated lines.
type LineReader struct {
	buf      []byte
	overflow bool
}

// Feed consumes p and calls fn for each completed line, without the newline
// or a trailing carriage return. Empty and over-long lines are skipped.
func (r *LineReader) Feed(p []byte, fn func(line string)) {
	for _, c := range p {
		if c != '\n' {
			if len(r.buf) >= MaxLineLength {
				r.overflow = true
				continue
			}
			r.buf = append(r.buf, c)
			continue
		}
		line := strings.TrimSuffix(string(r.buf), "\r")
		dropped := r.overflow
		r.buf = r.buf[:0]
		r.overflow = false
		if dropped || line == "" {
			continue
		}
		fn(line)
	}
}

// Pending reports how many bytes of an unterminated line are buffered.
func (r *LineReader) Pending() int {
	return len(r.buf)
}

// CommandKind identifies a host command.
type CommandKind int

const (
	CommandVolume     CommandKind = iota // V:<channel>:<fraction>
	CommandColor                         // C:<channel>:<zero hex>:<full hex>
	CommandBackground                    // B:rgb | B:off | B:<hex>
	CommandOutput                        // O:<1-based output>
)

// Command is one parsed host line.
type Command struct {
	Kind       CommandKind
	Channel    int
	Fraction   float64
	Zero, Full Color
	Background BackgroundMode
	Solid      Color
	Output     int // 0-based
}

// ParseCommand parses "<ID>:<payload>". ok is false for anything malformed or
// unknown; range checks on indices are left to the caller.
func ParseCommand(line string) (cmd Command, ok bool) {
	id, payload, found := strings.Cut(line, ":")
	if !found || id == "" {
		return Command{}, false
	}
	switch id {
	case "V":
		idx, frac, found := strings.Cut(payload, ":")
		if !found || idx == "" {
			return Command{}, false
		}
		ch, okCh := leadingInt(idx)
		f, okF := leadingFloat(frac)
		if !okCh || !okF {
			return Command{}, false
		}
		return Command{Kind: CommandVolume, Channel: ch, Fraction: f}, true

	case "C":
		first := strings.IndexByte(payload, ':')
		last := strings.LastIndexByte(payload, ':')
		if first <= 0 || last <= first {
			return Command{}, false
		}
		ch, okCh := leadingInt(payload[:first])
		if !okCh {
			return Command{}, false
		}
		return Command{
			Kind:    CommandColor,
			Channel: ch,
			Zero:    ParseHex(payload[first+1 : last]),
			Full:    ParseHex(payload[last+1:]),
		}, true

	case "B":
		switch {
		case strings.EqualFold(payload, "rgb"):
			return Command{Kind: CommandBackground, Background: BackgroundRainbow}, true
		case strings.EqualFold(payload, "off"):
			return Command{Kind: CommandBackground, Background: BackgroundOff}, true
		}
		return Command{Kind: CommandBackground, Background: BackgroundSolid, Solid: ParseHex(payload)}, true

	case "O":
		n, okN := leadingInt(payload)
		if !okN {
			return Command{}, false
		}
		return Command{Kind: CommandOutput, Output: n - 1}, true
	}
	return Command{}, false
}

// String renders cmd back into its wire form, without the newline.
func (cmd Command) String() string {
	switch cmd.Kind {
	case CommandVolume:
		return "V:" + strconv.Itoa(cmd.Channel) + ":" + strconv.FormatFloat(cmd.Fraction, 'f', -1, 64)
	case CommandColor:
		return "C:" + strconv.Itoa(cmd.Channel) + ":#" + cmd.Zero.Hex() + ":#" + cmd.Full.Hex()
	case CommandBackground:
		switch cmd.Background {
		case BackgroundRainbow:
			return "B:rgb"
		case BackgroundOff:
			return "B:off"
		}
		return "B:#" + cmd.Solid.Hex()
	case CommandOutput:
		return "O:" + strconv.Itoa(cmd.Output+1)
	}
	return ""
}

// leadingInt parses an optionally signed decimal prefix after leading spaces,
// the way C's atol does. ok is false when there are no digits.
func leadingInt(s string) (int, bool) {
	s = strings.TrimLeft(s, " \t")
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start || end-start > 9 {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return n, true
}

// leadingFloat parses a decimal prefix such as "0.5" or "-.25".
func leadingFloat(s string) (float64, bool) {
	s = strings.TrimLeft(s, " \t")
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
		digits++
	}
	if end < len(s) && s[end] == '.' {
		end++
		for end < len(s) && s[end] >= '0' && s[end] <= '9' {
			end++
			digits++
		}
	}
	if digits == 0 {
		return 0, false
	}
	f, err := strconv.ParseFloat(strings.TrimSuffix(s[:end], "."), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// FormatTelemetry renders per-channel levels (0..MaxVolume) as the host line
// "v0|v1|...", each rescaled to 0..TelemetryMax. No newline is appended.
func FormatTelemetry(levels []int) string {
	b := make([]byte, 0, len(levels)*5)
	for i, v := range levels {
		if i > 0 {
			b = append(b, '|')
		}
		b = strconv.AppendInt(b, int64(TelemetryValue(v)), 10)
	}
	return string(b)
}

// TelemetryValue rescales a level from 0..MaxVolume to 0..TelemetryMax, rounding half up.
func TelemetryValue(level int) int {
	if level <= 0 {
		return 0
	}
	if level >= MaxVolume {
		return TelemetryMax
	}
	return roundDiv(level*TelemetryMax, MaxVolume)
}

// ParseTelemetry decodes a host line produced by FormatTelemetry.
func ParseTelemetry(line string) ([]int, bool) {
	fields := strings.Split(strings.TrimSpace(line), "|")
	out := make([]int, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil || v < 0 || v > TelemetryMax {
			return nil, false
		}
		out = append(out, v)
	}
	return out, true
}

// OutputNotification is the line sent when a button press changes the output.
func OutputNotification(active int) string {
	return "O:" + strconv.Itoa(active+1)
}
