package core

import (
	"context"
	"image"
	"time"

	"pkt.systems/emoteoverlay/schema"
	"pkt.systems/pslog"
)

// Catalog resolves an emote code to an image identifier.
type Catalog interface {
	Resolve(code string) (imageID string, ok bool)
}

// ImageFetcher downloads and decodes an emote image.
type ImageFetcher interface {
	Fetch(ctx context.Context, imageID string) (image.Image, error)
}

// FrameSink receives rendered frames.
type FrameSink interface {
	WriteFrame(frame schema.OutputFrame) error
}

// Clock supplies monotonic instants.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// EngineDeps captures the collaborators of the engine.
type EngineDeps struct {
	Catalog Catalog
	Fetcher ImageFetcher
	Sink    FrameSink
	Clock   Clock
	Logger  pslog.Logger
}
