package appconfig

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Load reads configuration from the provided path. If path is empty, uses
// DefaultConfigPath. A missing file yields the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return Config{}, err
		}
		path = defaultPath
	}

	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault("config_version", cfg.ConfigVersion)
	v.SetDefault("socket_path", cfg.SocketPath)
	v.SetDefault("log.path", cfg.Log.Path)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("render.frame_rate", cfg.Render.FrameRate)
	v.SetDefault("render.emote_ttl_seconds", cfg.Render.EmoteTTLSeconds)
	v.SetDefault("render.host_queue_depth", cfg.Render.HostQueueDepth)
	v.SetDefault("render.bot_queue_depth", cfg.Render.BotQueueDepth)
	v.SetDefault("image.url_template", cfg.Image.URLTemplate)
	v.SetDefault("image.timeout_seconds", cfg.Image.TimeoutSeconds)
	v.SetDefault("image.max_bytes", cfg.Image.MaxBytes)
	v.SetDefault("image.max_concurrent_fetches", cfg.Image.MaxConcurrentFetches)
	v.SetDefault("catalog.path", cfg.Catalog.Path)

	configLoaded := false
	if _, err := os.Stat(path); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return Config{}, err
		}
	} else if err := v.ReadInConfig(); err != nil {
		return Config{}, err
	} else {
		configLoaded = true
	}

	if configLoaded {
		if !v.InConfig("config_version") {
			return Config{}, fmt.Errorf("config_version is required; expected %d", CurrentConfigVersion)
		}
		if v.GetInt("config_version") != CurrentConfigVersion {
			return Config{}, fmt.Errorf("unsupported config_version %d; expected %d", v.GetInt("config_version"), CurrentConfigVersion)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	expandConfigEnv(&cfg)
	if err := validate(cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func validate(cfg Config) error {
	if strings.TrimSpace(cfg.SocketPath) == "" {
		return fmt.Errorf("socket_path is required")
	}
	if strings.TrimSpace(cfg.Log.Path) == "" {
		return fmt.Errorf("log.path is required")
	}
	switch strings.ToLower(strings.TrimSpace(cfg.Log.Level)) {
	case "trace", "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("unsupported log.level %q", cfg.Log.Level)
	}
	if cfg.Render.FrameRate <= 0 || cfg.Render.FrameRate > 240 {
		return fmt.Errorf("render.frame_rate must be between 1 and 240, got %d", cfg.Render.FrameRate)
	}
	if cfg.Render.EmoteTTLSeconds <= 0 {
		return fmt.Errorf("render.emote_ttl_seconds must be positive")
	}
	if cfg.Render.HostQueueDepth <= 0 || cfg.Render.BotQueueDepth <= 0 {
		return fmt.Errorf("render queue depths must be positive")
	}
	if !strings.Contains(cfg.Image.URLTemplate, "{id}") {
		return fmt.Errorf("image.url_template must contain an {id} placeholder")
	}
	if cfg.Image.TimeoutSeconds <= 0 {
		return fmt.Errorf("image.timeout_seconds must be positive")
	}
	if cfg.Image.MaxBytes <= 0 {
		return fmt.Errorf("image.max_bytes must be positive")
	}
	if cfg.Image.MaxConcurrentFetches <= 0 {
		return fmt.Errorf("image.max_concurrent_fetches must be positive")
	}
	return nil
}

func expandConfigEnv(cfg *Config) {
	if cfg == nil {
		return
	}
	cfg.SocketPath = expandEnv(cfg.SocketPath)
	cfg.Log.Path = expandEnv(cfg.Log.Path)
	cfg.Catalog.Path = expandEnv(cfg.Catalog.Path)
}

func expandEnv(value string) string {
	if value == "" {
		return value
	}
	return os.Expand(value, func(key string) string {
		if key == "" {
			return ""
		}
		if val, ok := lookupEnv(key); ok {
			return val
		}
		return "$" + key
	})
}

func lookupEnv(key string) (string, bool) {
	if val, ok := os.LookupEnv(key); ok {
		return val, true
	}
	switch key {
	case "UID":
		return fmt.Sprintf("%d", os.Getuid()), true
	case "GID":
		return fmt.Sprintf("%d", os.Getgid()), true
	}
	return "", false
}

// WriteDefault writes the default config to the target path.
func WriteDefault(path string, overwrite bool) (string, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return "", err
		}
		path = defaultPath
	}

	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("config already exists at %s", path)
		}
	}

	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}
