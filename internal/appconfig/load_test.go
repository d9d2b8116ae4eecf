package appconfig

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	t.Setenv("OVERLAY_TMP", "/var/tmp")
	path := writeConfig(t, `
config_version: 1
socket_path: $OVERLAY_TMP/bot.sock
render:
  frame_rate: 60
image:
  max_concurrent_fetches: 2
catalog:
  path: $OVERLAY_TMP/emotes.json
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.SocketPath != "/var/tmp/bot.sock" {
		t.Fatalf("unexpected socket path: %q", cfg.SocketPath)
	}
	if cfg.Catalog.Path != "/var/tmp/emotes.json" {
		t.Fatalf("unexpected catalog path: %q", cfg.Catalog.Path)
	}
	if cfg.Render.FrameRate != 60 || cfg.Render.EmoteTTLSeconds != 10 {
		t.Fatalf("unexpected render config: %+v", cfg.Render)
	}
	if cfg.Image.MaxConcurrentFetches != 2 || cfg.Image.TimeoutSeconds != 15 {
		t.Fatalf("unexpected image config: %+v", cfg.Image)
	}
}

func TestLoadRejectsUnsupportedConfigVersion(t *testing.T) {
	path := writeConfig(t, `
config_version: 3
socket_path: /tmp/x.sock
`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "unsupported config_version") {
		t.Fatalf("expected config_version error, got %v", err)
	}
}

func TestLoadRequiresConfigVersion(t *testing.T) {
	path := writeConfig(t, `
socket_path: /tmp/x.sock
`)
	if _, err := Load(path); err == nil || !strings.Contains(err.Error(), "config_version is required") {
		t.Fatalf("expected config_version error, got %v", err)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		body string
		want string
	}{
		{"render:\n  frame_rate: 0", "render.frame_rate"},
		{"render:\n  emote_ttl_seconds: -1", "render.emote_ttl_seconds"},
		{"image:\n  url_template: https://example.com/emote.png", "image.url_template"},
		{"log:\n  level: loud", "log.level"},
	}
	for _, tc := range tests {
		path := writeConfig(t, "config_version: 1\n"+tc.body)
		if _, err := Load(path); err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Fatalf("expected %s error, got %v", tc.want, err)
		}
	}
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("FOO", "bar")
	value := expandEnv("$FOO/$UID/$GID/$MISSING")
	if !strings.HasPrefix(value, "bar/") {
		t.Fatalf("expected env expansion, got %q", value)
	}
	if strings.Contains(value, "$UID") || strings.Contains(value, "$GID") {
		t.Fatalf("expected UID/GID expansion, got %q", value)
	}
	if !strings.HasSuffix(value, "/$MISSING") {
		t.Fatalf("expected missing vars to remain, got %q", value)
	}
}

func TestWriteDefaultRespectsOverwrite(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	written, err := WriteDefault(path, false)
	if err != nil {
		t.Fatalf("write default: %v", err)
	}
	if written != path {
		t.Fatalf("expected path %q, got %q", path, written)
	}
	if _, err := WriteDefault(path, false); err == nil {
		t.Fatalf("expected error when config exists")
	}
	if _, err := WriteDefault(path, true); err != nil {
		t.Fatalf("expected overwrite to succeed: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load written default: %v", err)
	}
	if cfg != DefaultConfig() {
		t.Fatalf("expected written defaults to round trip, got %+v", cfg)
	}
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(strings.TrimSpace(content)+"\n"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}
