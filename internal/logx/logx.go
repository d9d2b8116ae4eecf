package logx

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"pkt.systems/emoteoverlay/schema"
	"pkt.systems/pslog"
)

// Ctx returns the logger bound to the provided context.
func Ctx(ctx context.Context) pslog.Logger {
	return pslog.Ctx(ctx)
}

// WithNotification annotates the logger with the bot notification fields
// that are present.
func WithNotification(log pslog.Logger, n schema.BotNotification) pslog.Logger {
	if n.Username != "" {
		log = log.With("user", n.Username)
	}
	if n.EmoteCode != "" {
		log = log.With("emote", n.EmoteCode)
	}
	if n.Pattern != "" {
		log = log.With("pattern", n.Pattern)
	}
	return log
}

// WithImage annotates the logger with an emote image id.
func WithImage(log pslog.Logger, imageID string) pslog.Logger {
	if imageID != "" {
		log = log.With("image_id", imageID)
	}
	return log
}

// WithConn annotates the logger with a bot connection sequence number.
func WithConn(log pslog.Logger, connID uint64) pslog.Logger {
	if connID != 0 {
		log = log.With("conn", connID)
	}
	return log
}

// Options returns structured logger options for the named minimum level.
// Unknown names fall back to info.
func Options(level string) pslog.Options {
	opts := pslog.Options{
		Mode:     pslog.ModeStructured,
		NoColor:  true,
		MinLevel: pslog.InfoLevel,
	}
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		opts.MinLevel = pslog.TraceLevel
	case "debug":
		opts.MinLevel = pslog.DebugLevel
	case "warn", "warning":
		opts.MinLevel = pslog.WarnLevel
	case "error":
		opts.MinLevel = pslog.ErrorLevel
	}
	return opts
}

// OpenFile truncates the log file at path and returns a structured logger
// writing to it. The caller closes the returned file.
func OpenFile(path string, level string) (pslog.Logger, *os.File, error) {
	if strings.TrimSpace(path) == "" {
		return nil, nil, fmt.Errorf("log path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	file, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return pslog.NewWithOptions(file, Options(level)), file, nil
}

// Preview returns at most max bytes of value for logging, cut back to a
// rune boundary.
func Preview(value []byte, max int) string {
	if max <= 0 || len(value) <= max {
		return string(value)
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(value[cut]) {
		cut--
	}
	return string(value[:cut])
}
