package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"pkt.systems/emoteoverlay/core"
	"pkt.systems/emoteoverlay/internal/appconfig"
	"pkt.systems/emoteoverlay/internal/botlink"
	"pkt.systems/emoteoverlay/internal/catalog"
	"pkt.systems/emoteoverlay/internal/emoteimage"
	"pkt.systems/emoteoverlay/internal/hostproto"
	"pkt.systems/emoteoverlay/internal/logx"
	"pkt.systems/emoteoverlay/internal/version"
	"pkt.systems/emoteoverlay/schema"
	"pkt.systems/pslog"
)

func newRunCmd() *cobra.Command {
	var cfgPath string
	var socketPath string
	var logPath string
	var logLevel string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the overlay renderer on stdin/stdout",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := appconfig.Load(cfgPath)
			if err != nil {
				return err
			}
			if socketPath != "" {
				cfg.SocketPath = socketPath
			}
			if logPath != "" {
				cfg.Log.Path = logPath
			}
			if logLevel != "" {
				cfg.Log.Level = logLevel
			}
			if stdinIsTerminal(cmd.InOrStdin()) {
				pslog.Ctx(cmd.Context()).Warn("stdin is a terminal; run expects the tattoy plugin protocol", "log", cfg.Log.Path)
			}
			logger, file, err := logx.OpenFile(cfg.Log.Path, cfg.Log.Level)
			if err != nil {
				return err
			}
			defer func() { _ = file.Close() }()
			build := version.Read()
			logger.Info("emoteoverlay starting", "version", build.Clean(), "revision", build.Revision, "modified", build.Modified, "socket", cfg.SocketPath)
			if err := runOverlay(cmd.Context(), cfg, logger, cmd.InOrStdin(), cmd.OutOrStdout()); err != nil {
				logger.Error("emoteoverlay stopped", "err", err)
				return err
			}
			logger.Info("emoteoverlay stopped")
			return nil
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to config file")
	cmd.Flags().StringVar(&socketPath, "socket", "", "bot socket path (overrides config)")
	cmd.Flags().StringVar(&logPath, "log", "", "log file path (overrides config)")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "log level: trace, debug, info, warn, error")
	return cmd
}

func stdinIsTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// runOverlay wires the host streams, the bot socket and the frame loop,
// and blocks until ctx is done or the host closes its input. A failing
// host read only stops host updates; frames keep flowing.
func runOverlay(ctx context.Context, cfg appconfig.Config, logger pslog.Logger, stdin io.Reader, stdout io.Writer) error {
	ctx = pslog.ContextWithLogger(ctx, logger)

	emotes, err := catalog.Load(cfg.Catalog.Path, logger)
	if err != nil {
		return err
	}
	logger.Info("emote catalog loaded", "emotes", emotes.Len())

	timeout := time.Duration(cfg.Image.TimeoutSeconds) * time.Second
	fetcher, err := emoteimage.NewFetcher(emoteimage.Config{
		URLTemplate:   cfg.Image.URLTemplate,
		Timeout:       timeout,
		MaxBytes:      cfg.Image.MaxBytes,
		MaxConcurrent: cfg.Image.MaxConcurrentFetches,
		Client:        &http.Client{Timeout: timeout},
	}, logger)
	if err != nil {
		return err
	}

	engine, err := core.NewEngine(core.EngineConfig{
		FrameRate: cfg.Render.FrameRate,
		EmoteTTL:  time.Duration(cfg.Render.EmoteTTLSeconds) * time.Second,
	}, core.EngineDeps{
		Catalog: emotes,
		Fetcher: fetcher,
		Sink:    hostproto.NewFrameWriter(stdout),
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("build renderer: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	host := make(chan schema.HostMessage, cfg.Render.HostQueueDepth)
	bot := make(chan schema.BotNotification, cfg.Render.BotQueueDepth)

	go func() {
		err := hostproto.NewReader(stdin, logger).Run(runCtx, host)
		switch {
		case err == nil:
			// Host closed its input.
			cancel()
		case errors.Is(err, context.Canceled):
		default:
			logger.Error("host reader stopped; rendering last snapshot", "err", err)
		}
	}()

	listenerDone := make(chan struct{})
	go func() {
		defer close(listenerDone)
		defer close(bot)
		listener := botlink.NewListener(cfg.SocketPath, logger)
		if err := listener.Serve(runCtx, bot); err != nil {
			logger.Error("bot listener stopped", "socket", listener.SocketPath(), "err", err)
		}
	}()

	err = engine.Run(runCtx, host, bot)
	cancel()
	<-listenerDone

	stats := engine.Stats()
	logger.Info("renderer summary",
		"frames", stats.FramesEmitted,
		"skipped", stats.FramesSkipped,
		"dropped", stats.NotificationsDropped,
		"fetch_failures", stats.FetchFailures,
		"emotes_added", stats.EmotesAdded,
		"emotes_expired", stats.EmotesExpired,
	)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
