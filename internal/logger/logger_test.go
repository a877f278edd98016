package logger

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		verbose   bool
		wantDebug bool
	}{
		{"quiet hides debug", false, false},
		{"verbose shows debug", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			log := New(&buf, tt.verbose)
			log.Debug("fetching results", zap.String("term", "crispr"))
			log.Info("wrote file", zap.String("path", "out.html"))

			out := buf.String()
			if got := strings.Contains(out, "fetching results"); got != tt.wantDebug {
				t.Errorf("debug line present = %v, want %v\n%s", got, tt.wantDebug, out)
			}
			if !strings.Contains(out, "INFO") || !strings.Contains(out, `"path": "out.html"`) {
				t.Errorf("info line missing or malformed:\n%s", out)
			}
		})
	}
}

func TestNewJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := NewJSON(&buf, false)
	log.Info("request", zap.Int("status", 200))

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if entry["msg"] != "request" || entry["status"] != float64(200) {
		t.Errorf("entry = %v", entry)
	}
}

func TestNop(t *testing.T) {
	t.Parallel()

	// Must not panic
	Nop().Info("discarded")
}
