package logx

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pkt.systems/emoteoverlay/schema"
	"pkt.systems/pslog"
)

func TestWithNotificationAddsFields(t *testing.T) {
	capture := &logCapture{}
	logger := pslog.NewWithOptions(capture, pslog.Options{
		Mode:          pslog.ModeStructured,
		NoColor:       true,
		MinLevel:      pslog.InfoLevel,
		VerboseFields: true,
	})
	log := WithNotification(logger, schema.BotNotification{Username: "tom", Pattern: "nightly", EmoteCode: "LUL"})
	log.Info("hello")

	entry := capture.firstEntry(t)
	if entry["user"] != "tom" || entry["emote"] != "LUL" || entry["pattern"] != "nightly" {
		t.Fatalf("expected notification fields, got %+v", entry)
	}
}

func TestWithNotificationSkipsEmptyFields(t *testing.T) {
	capture := &logCapture{}
	logger := pslog.NewWithOptions(capture, pslog.Options{
		Mode:          pslog.ModeStructured,
		NoColor:       true,
		MinLevel:      pslog.InfoLevel,
		VerboseFields: true,
	})
	log := WithNotification(logger, schema.BotNotification{EmoteCode: "Kappa"})
	log.Info("hello")

	entry := capture.firstEntry(t)
	if _, ok := entry["user"]; ok {
		t.Fatalf("did not expect user for anonymous notification")
	}
	if _, ok := entry["pattern"]; ok {
		t.Fatalf("did not expect pattern field")
	}
}

func TestWithImageAndConn(t *testing.T) {
	capture := &logCapture{}
	logger := pslog.NewWithOptions(capture, pslog.Options{
		Mode:          pslog.ModeStructured,
		NoColor:       true,
		MinLevel:      pslog.InfoLevel,
		VerboseFields: true,
	})
	WithConn(WithImage(logger, "425618"), 3).Info("hello")

	entry := capture.firstEntry(t)
	if entry["image_id"] != "425618" {
		t.Fatalf("expected image_id field, got %+v", entry)
	}
	if entry["conn"] != float64(3) {
		t.Fatalf("expected conn field, got %+v", entry)
	}
}

func TestOpenFileTruncatesAndFiltersLevel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "overlay.log")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("stale\n"), 0o600); err != nil {
		t.Fatalf("seed log: %v", err)
	}
	logger, file, err := OpenFile(path, "warn")
	if err != nil {
		t.Fatalf("open file: %v", err)
	}
	logger.Info("quiet")
	logger.Error("loud")
	if err := file.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	text := string(data)
	if strings.Contains(text, "stale") {
		t.Fatalf("expected log file to be truncated, got %q", text)
	}
	if strings.Contains(text, "quiet") {
		t.Fatalf("expected info entry to be filtered, got %q", text)
	}
	if !strings.Contains(text, "loud") {
		t.Fatalf("expected error entry, got %q", text)
	}
}

func TestOpenFileRequiresPath(t *testing.T) {
	if _, _, err := OpenFile(" ", "info"); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

type logCapture struct {
	buf bytes.Buffer
}

func (c *logCapture) Write(p []byte) (int, error) {
	return c.buf.Write(p)
}

func (c *logCapture) firstEntry(t *testing.T) map[string]any {
	t.Helper()
	data := c.buf.Bytes()
	idx := bytes.IndexByte(data, '\n')
	if idx == -1 {
		idx = len(data)
	}
	line := bytes.TrimSpace(data[:idx])
	entry := map[string]any{}
	if err := json.Unmarshal(line, &entry); err != nil {
		t.Fatalf("parse log entry: %v", err)
	}
	return entry
}

func TestPreviewKeepsRuneBoundary(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"abcdef", 3, "abc"},
		{"aé", 2, "a"},
		{"日本", 4, "日"},
		{"日本", 0, "日本"},
	}
	for _, tc := range tests {
		if got := Preview([]byte(tc.in), tc.max); got != tc.want {
			t.Fatalf("Preview(%q, %d) = %q, want %q", tc.in, tc.max, got, tc.want)
		}
	}
}
