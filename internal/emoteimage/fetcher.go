package emoteimage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/semaphore"
	"pkt.systems/pslog"
)

const (
	// DefaultURLTemplate is the Twitch CDN location of the largest static
	// light-theme rendition.
	DefaultURLTemplate = "https://static-cdn.jtvnw.net/emoticons/v2/{id}/static/light/3.0"
	DefaultTimeout     = 15 * time.Second
	DefaultMaxBytes    = 4 << 20
	DefaultConcurrency = 4

	idPlaceholder = "{id}"
)

// Config configures a Fetcher. Zero values select the defaults.
type Config struct {
	URLTemplate   string
	Timeout       time.Duration
	MaxBytes      int64
	MaxConcurrent int
	Client        *http.Client
}

// Fetcher downloads and decodes emote images.
type Fetcher struct {
	template string
	timeout  time.Duration
	maxBytes int64
	client   *http.Client
	sem      *semaphore.Weighted
	log      pslog.Logger
}

// NewFetcher constructs a Fetcher.
func NewFetcher(cfg Config, logger pslog.Logger) (*Fetcher, error) {
	template := strings.TrimSpace(cfg.URLTemplate)
	if template == "" {
		template = DefaultURLTemplate
	}
	if !strings.Contains(template, idPlaceholder) {
		return nil, fmt.Errorf("image url template %q has no %s placeholder", template, idPlaceholder)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	concurrency := cfg.MaxConcurrent
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	client := cfg.Client
	if client == nil {
		client = http.DefaultClient
	}
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	return &Fetcher{
		template: template,
		timeout:  timeout,
		maxBytes: maxBytes,
		client:   client,
		sem:      semaphore.NewWeighted(int64(concurrency)),
		log:      logger,
	}, nil
}

// URL returns the download location for an image id.
func (f *Fetcher) URL(imageID string) string {
	return strings.ReplaceAll(f.template, idPlaceholder, imageID)
}

// Fetch downloads the image for imageID and decodes it as PNG.
func (f *Fetcher) Fetch(ctx context.Context, imageID string) (image.Image, error) {
	url := f.URL(imageID)
	if err := f.sem.Acquire(ctx, 1); err != nil {
		return nil, &FetchError{ImageID: imageID, URL: url, Err: err}
	}
	defer f.sem.Release(1)

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	started := time.Now()
	data, err := f.download(ctx, imageID, url)
	if err != nil {
		f.log.Debug("emote download failed", "image_id", imageID, "err", err, "duration_ms", time.Since(started).Milliseconds())
		return nil, err
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, &DecodeError{ImageID: imageID, Err: err}
	}
	bounds := img.Bounds()
	f.log.Debug("emote downloaded",
		"image_id", imageID,
		"bytes", len(data),
		"width", bounds.Dx(),
		"height", bounds.Dy(),
		"duration_ms", time.Since(started).Milliseconds(),
	)
	return img, nil
}

func (f *Fetcher) download(ctx context.Context, imageID, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &FetchError{ImageID: imageID, URL: url, Err: fmt.Errorf("build request: %w", err)}
	}
	req.Header.Set("Accept", "image/png")
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &FetchError{ImageID: imageID, URL: url, Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, &FetchError{ImageID: imageID, URL: url, Status: resp.StatusCode}
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, f.maxBytes+1))
	if err != nil {
		return nil, &FetchError{ImageID: imageID, URL: url, Err: fmt.Errorf("read body: %w", err)}
	}
	if int64(len(data)) > f.maxBytes {
		return nil, &FetchError{ImageID: imageID, URL: url, Err: errBodyTooLarge}
	}
	return data, nil
}

var errBodyTooLarge = errors.New("response body exceeds size limit")
