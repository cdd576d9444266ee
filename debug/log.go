package debug

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu      sync.Mutex
	logger  *zap.SugaredLogger
	enabled bool
)

// DefaultPath is ~/.config/go-mixer/debug.log.
func DefaultPath() string {
	homeDir, _ := os.UserHomeDir()
	return filepath.Join(homeDir, ".config", "go-mixer", "debug.log")
}

// Enable starts logging to path (DefaultPath when empty). verbose turns on
// debug-level entries; otherwise only warnings and above are kept.
func Enable(path string, verbose bool) error {
	mu.Lock()
	defer mu.Unlock()

	if enabled {
		return nil
	}
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create log dir: %w", err)
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.OutputPaths = []string{path}
	cfg.ErrorOutputPaths = []string{path}
	cfg.DisableStacktrace = true
	cfg.EncoderConfig.EncodeTime = zapcore.TimeEncoderOfLayout("15:04:05.000")
	if !verbose {
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	}

	l, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	logger = l.Sugar()
	enabled = true

	logger.Named("debug").Info("=== Debug logging started ===")
	return nil
}

// Disable flushes and stops logging.
func Disable() {
	mu.Lock()
	defer mu.Unlock()

	if logger != nil {
		_ = logger.Sync()
		logger = nil
	}
	enabled = false
}

func named(category string) *zap.SugaredLogger {
	mu.Lock()
	defer mu.Unlock()
	if !enabled || logger == nil {
		return nil
	}
	return logger.Named(category)
}

// Log writes a debug-level message under category.
func Log(category, format string, args ...any) {
	if l := named(category); l != nil {
		l.Debugf(format, args...)
	}
}

// Info writes an info-level message under category.
func Info(category, format string, args ...any) {
	if l := named(category); l != nil {
		l.Infof(format, args...)
	}
}

// Warn writes a warning under category.
func Warn(category, format string, args ...any) {
	if l := named(category); l != nil {
		l.Warnf(format, args...)
	}
}

// LogEvery logs only every N calls (use for high-frequency events)
var (
	countersMu sync.Mutex
	counters   = make(map[string]int)
)

func count(category, format string) int {
	countersMu.Lock()
	defer countersMu.Unlock()
	key := category + format
	counters[key]++
	return counters[key]
}

func LogEvery(n int, category, format string, args ...any) {
	if c := count(category, format); c%n == 0 {
		Log(category, format+" (every %d, count=%d)", append(args, n, c)...)
	}
}

// WarnEvery is LogEvery for device failures: the first occurrence and every
// Nth after it are written as warnings.
func WarnEvery(n int, category, format string, args ...any) {
	if c := count(category, format); c == 1 || c%n == 0 {
		Warn(category, format+" (every %d, count=%d)", append(args, n, c)...)
	}
}
