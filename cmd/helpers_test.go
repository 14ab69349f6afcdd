package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"mermaid-live/internal/config"
)

// safeBuffer is a bytes.Buffer safe for one writer and one reader.
type safeBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *safeBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("condition not met before timeout")
}

func TestNewLoggerWritesToFile(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Level = "debug"
	cfg.Log.File = filepath.Join(t.TempDir(), "logs", "editor.log")
	log, closeLog, err := newLogger(cfg, nil)
	if err != nil {
		t.Fatalf("newLogger: %v", err)
	}
	log.WithField("id", "x").Debug("hello")
	closeLog()
	raw, err := os.ReadFile(cfg.Log.File)
	data := string(raw)
	if err != nil || !strings.Contains(data, "hello") || !strings.Contains(data, "id=x") {
		t.Fatalf("unexpected log file %q (%v)", data, err)
	}
}

func TestNewLoggerRejectsBadLevel(t *testing.T) {
	cfg := config.Default()
	cfg.Log.Level = "loud"
	if _, _, err := newLogger(cfg, &bytes.Buffer{}); err == nil {
		t.Fatalf("expected invalid level error")
	}
}

func TestNewReducerUsesConfigTimings(t *testing.T) {
	cfg := config.Default()
	cfg.Editor.DebounceMS = 120
	cfg.Editor.StatusTTLMS = 900
	r := newReducer(cfg)
	if r.Debounce != 120*time.Millisecond || r.StatusTTL != 900*time.Millisecond || r.NewID == nil {
		t.Fatalf("unexpected reducer %+v", r)
	}
}
