package appconfig

import (
	"os"
	"path/filepath"
)

// Config is the top-level application configuration.
type Config struct {
	ConfigVersion int           `mapstructure:"config_version" yaml:"config_version"`
	SocketPath    string        `mapstructure:"socket_path" yaml:"socket_path"`
	Log           LogConfig     `mapstructure:"log" yaml:"log"`
	Render        RenderConfig  `mapstructure:"render" yaml:"render"`
	Image         ImageConfig   `mapstructure:"image" yaml:"image"`
	Catalog       CatalogConfig `mapstructure:"catalog" yaml:"catalog"`
}

// CurrentConfigVersion marks the supported config version.
const CurrentConfigVersion = 1

// LogConfig controls the plugin log file. The host owns stdout, so the
// renderer never logs there.
type LogConfig struct {
	Path  string `mapstructure:"path" yaml:"path"`
	Level string `mapstructure:"level" yaml:"level"`
}

// RenderConfig controls the frame loop.
type RenderConfig struct {
	FrameRate       int `mapstructure:"frame_rate" yaml:"frame_rate"`
	EmoteTTLSeconds int `mapstructure:"emote_ttl_seconds" yaml:"emote_ttl_seconds"`
	HostQueueDepth  int `mapstructure:"host_queue_depth" yaml:"host_queue_depth"`
	BotQueueDepth   int `mapstructure:"bot_queue_depth" yaml:"bot_queue_depth"`
}

// ImageConfig controls emote image downloads.
type ImageConfig struct {
	URLTemplate          string `mapstructure:"url_template" yaml:"url_template"`
	TimeoutSeconds       int    `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
	MaxBytes             int64  `mapstructure:"max_bytes" yaml:"max_bytes"`
	MaxConcurrentFetches int    `mapstructure:"max_concurrent_fetches" yaml:"max_concurrent_fetches"`
}

// CatalogConfig points at an optional emote table merged over the bundled one.
type CatalogConfig struct {
	Path string `mapstructure:"path" yaml:"path"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ConfigVersion: CurrentConfigVersion,
		SocketPath:    "/tmp/tattoy-twitch.sock",
		Log: LogConfig{
			Path:  "/tmp/tattoy-twitch.log",
			Level: "info",
		},
		Render: RenderConfig{
			FrameRate:       30,
			EmoteTTLSeconds: 10,
			HostQueueDepth:  16,
			BotQueueDepth:   16,
		},
		Image: ImageConfig{
			URLTemplate:          "https://static-cdn.jtvnw.net/emoticons/v2/{id}/static/light/3.0",
			TimeoutSeconds:       15,
			MaxBytes:             4 << 20,
			MaxConcurrentFetches: 4,
		},
		Catalog: CatalogConfig{
			Path: "",
		},
	}
}

// DefaultConfigPath returns the standard config path.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".emoteoverlay", "config.yaml"), nil
}
