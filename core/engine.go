package core

import (
	"context"
	"errors"
	"image"
	"time"

	"pkt.systems/emoteoverlay/internal/logx"
	"pkt.systems/emoteoverlay/schema"
	"pkt.systems/pslog"
)

// EngineConfig tunes the frame loop.
type EngineConfig struct {
	FrameRate int
	EmoteTTL  time.Duration
}

// Stats counts what the engine has done so far.
type Stats struct {
	FramesEmitted        uint64
	FramesSkipped        uint64
	NotificationsDropped uint64
	FetchFailures        uint64
	EmotesAdded          uint64
	EmotesExpired        uint64
}

// Engine is the frame scheduler. It exclusively owns the terminal snapshot,
// the active emote registry and the compositor; nothing else may touch them
// while Run is executing.
type Engine struct {
	catalog    Catalog
	fetcher    ImageFetcher
	sink       FrameSink
	clock      Clock
	log        pslog.Logger
	terminal   *Terminal
	registry   *Registry
	compositor *Compositor
	pacer      *pacer
	fetched    chan fetchResult
	stats      Stats
}

type fetchResult struct {
	notification schema.BotNotification
	imageID      string
	img          image.Image
	err          error
}

// NewEngine constructs an Engine.
func NewEngine(cfg EngineConfig, deps EngineDeps) (*Engine, error) {
	if deps.Catalog == nil {
		return nil, errors.New("engine requires an emote catalog")
	}
	if deps.Fetcher == nil {
		return nil, errors.New("engine requires an image fetcher")
	}
	if deps.Sink == nil {
		return nil, errors.New("engine requires a frame sink")
	}
	if deps.Clock == nil {
		deps.Clock = systemClock{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	return &Engine{
		catalog:    deps.Catalog,
		fetcher:    deps.Fetcher,
		sink:       deps.Sink,
		clock:      deps.Clock,
		log:        logger,
		terminal:   NewTerminal(),
		registry:   NewRegistry(cfg.EmoteTTL),
		compositor: NewCompositor(logger),
		pacer:      newPacer(cfg.FrameRate, deps.Clock.Now()),
		fetched:    make(chan fetchResult, 16),
	}, nil
}

// Run drives the frame loop until ctx is done. A closed producer channel
// only stops that producer's events; frames keep being rendered from the
// last snapshot and the remaining emotes.
func (e *Engine) Run(ctx context.Context, host <-chan schema.HostMessage, bot <-chan schema.BotNotification) error {
	e.log.Info("renderer started", "frame_period", e.pacer.period.String(), "emote_ttl", e.registry.TTL().String())
	timer := time.NewTimer(e.pacer.Wait(e.clock.Now()))
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			e.registry.Clear()
			e.log.Info("renderer stopped",
				"frames", e.stats.FramesEmitted,
				"skipped", e.stats.FramesSkipped,
				"emotes", e.stats.EmotesAdded,
			)
			return ctx.Err()
		case <-timer.C:
			now := e.clock.Now()
			e.pacer.Mark(now)
			e.tick(now)
		case n, ok := <-bot:
			if !ok {
				e.log.Warn("bot notification stream closed")
				bot = nil
				break
			}
			e.HandleNotification(ctx, n)
		case msg, ok := <-host:
			if !ok {
				e.log.Warn("host message stream closed")
				host = nil
				break
			}
			e.HandleHostMessage(msg)
		case res := <-e.fetched:
			e.handleFetched(res)
		}
		timer.Reset(e.pacer.Wait(e.clock.Now()))
	}
}

func (e *Engine) tick(now time.Time) {
	frame, ok := e.RenderFrame(now)
	if !ok {
		return
	}
	if err := e.sink.WriteFrame(frame); err != nil {
		e.log.Warn("frame write failed", "pixels", len(frame.Pixels), "err", err)
	}
}

// RenderFrame expires stale emotes and composes the frame for now. It
// reports false when the terminal has no size yet and nothing should be
// emitted.
func (e *Engine) RenderFrame(now time.Time) (schema.OutputFrame, bool) {
	if removed := e.registry.Expire(now); removed > 0 {
		e.stats.EmotesExpired += uint64(removed)
		e.log.Debug("emotes expired", "removed", removed, "active", e.registry.Len())
	}
	if e.terminal.Empty() {
		e.stats.FramesSkipped++
		return schema.OutputFrame{}, false
	}
	pixels := e.compositor.Compose(e.terminal, e.registry.Snapshot())
	e.stats.FramesEmitted++
	return schema.OutputFrame{Pixels: pixels}, true
}

// HandleNotification resolves the emote code and starts fetching its image.
// The fetch runs on its own goroutine; the result is inserted by the loop.
func (e *Engine) HandleNotification(ctx context.Context, n schema.BotNotification) {
	log := logx.WithNotification(e.log, n)
	if err := n.Validate(); err != nil {
		e.stats.NotificationsDropped++
		log.Warn("bot notification rejected", "err", err)
		return
	}
	imageID, ok := e.catalog.Resolve(n.EmoteCode)
	if !ok {
		e.stats.NotificationsDropped++
		log.Warn("emote code not in catalog")
		return
	}
	log.Info("adding active emote", "image_id", imageID)
	go func() {
		img, err := e.fetcher.Fetch(ctx, imageID)
		select {
		case e.fetched <- fetchResult{notification: n, imageID: imageID, img: img, err: err}:
		case <-ctx.Done():
		}
	}()
}

func (e *Engine) handleFetched(res fetchResult) {
	log := logx.WithImage(logx.WithNotification(e.log, res.notification), res.imageID)
	if res.err == nil && res.img == nil {
		res.err = schema.ErrImageDecode
	}
	if res.err != nil {
		e.stats.FetchFailures++
		log.Error("emote image unavailable", "err", res.err)
		return
	}
	emote := e.registry.Insert(res.notification.Pattern, res.img, e.clock.Now())
	e.stats.EmotesAdded++
	bounds := res.img.Bounds()
	log.Debug("active emote added", "id", emote.ID, "width", bounds.Dx(), "height", bounds.Dy(), "active", e.registry.Len())
}

// HandleHostMessage applies a host message. Kinds other than terminal
// updates are ignored.
func (e *Engine) HandleHostMessage(msg schema.HostMessage) {
	switch m := msg.(type) {
	case schema.TerminalUpdate:
		e.terminal.Apply(m)
	case schema.TerminalResize:
		e.log.Debug("terminal resize ignored", "width", m.Width, "height", m.Height)
	case nil:
		e.log.Debug("empty host message ignored")
	default:
		e.log.Debug("unhandled host message", "kind", msg.HostMessageKind())
	}
}

// Terminal exposes the terminal snapshot. It must only be used from the
// goroutine that drives the engine.
func (e *Engine) Terminal() *Terminal {
	return e.terminal
}

// Registry exposes the active emote registry. It must only be used from
// the goroutine that drives the engine.
func (e *Engine) Registry() *Registry {
	return e.registry
}

// Stats returns the engine counters. It must only be used from the
// goroutine that drives the engine, or after Run has returned.
func (e *Engine) Stats() Stats {
	return e.stats
}
