package debug

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readLog(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return string(data)
}

func TestLevels(t *testing.T) {
	tests := []struct {
		name      string
		verbose   bool
		wantDebug bool
	}{
		{"quiet", false, false},
		{"verbose", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "logs", "debug.log")
			if err := Enable(path, tt.verbose); err != nil {
				t.Fatalf("Enable: %v", err)
			}
			Log("proto", "dropped %q", "X:foo")
			Warn("config", "debounce rounded to %d", 50)
			Disable()

			out := readLog(t, path)
			if !strings.Contains(out, "debounce rounded to 50") || !strings.Contains(out, "config") {
				t.Errorf("warning missing from log:\n%s", out)
			}
			if got := strings.Contains(out, `dropped "X:foo"`); got != tt.wantDebug {
				t.Errorf("debug entry present = %v, want %v", got, tt.wantDebug)
			}
		})
	}
}

func TestDisabledIsSilent(t *testing.T) {
	Disable()
	// Must not panic without a logger.
	Log("x", "y")
	Info("x", "y")
	Warn("x", "y")
	LogEvery(1, "x", "y")
	WarnEvery(1, "x", "y")
}

func TestLogEvery(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	if err := Enable(path, true); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	for i := 0; i < 10; i++ {
		LogEvery(5, "hw", "i2c write failed")
	}
	Disable()

	if got := strings.Count(readLog(t, path), "i2c write failed"); got != 2 {
		t.Errorf("logged %d times, want 2", got)
	}
}

func TestWarnEveryShowsAtDefaultLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "debug.log")
	if err := Enable(path, false); err != nil {
		t.Fatalf("Enable: %v", err)
	}
	for i := 0; i < 10; i++ {
		WarnEvery(5, "hw", "bank select failed")
		LogEvery(5, "hw", "bank select retried")
	}
	Disable()

	out := readLog(t, path)
	// First failure, then the 5th and 10th.
	if got := strings.Count(out, "bank select failed"); got != 3 {
		t.Errorf("warned %d times, want 3:\n%s", got, out)
	}
	if strings.Contains(out, "bank select retried") {
		t.Error("debug-level LogEvery written at warn level")
	}
}
