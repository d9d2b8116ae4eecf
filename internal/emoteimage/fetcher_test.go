package emoteimage

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"pkt.systems/emoteoverlay/schema"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: 200, G: 100, B: 50, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func newTestFetcher(t *testing.T, srv *httptest.Server, cfg Config) *Fetcher {
	t.Helper()
	cfg.URLTemplate = srv.URL + "/emoticons/v2/{id}/static/light/3.0"
	cfg.Client = srv.Client()
	f, err := NewFetcher(cfg, nil)
	if err != nil {
		t.Fatalf("new fetcher: %v", err)
	}
	return f
}

func TestFetchDecodesPNG(t *testing.T) {
	payload := pngBytes(t, 4, 3)
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	f := newTestFetcher(t, srv, Config{})
	img, err := f.Fetch(context.Background(), "425618")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if gotPath != "/emoticons/v2/425618/static/light/3.0" {
		t.Fatalf("unexpected path: %q", gotPath)
	}
	if b := img.Bounds(); b.Dx() != 4 || b.Dy() != 3 {
		t.Fatalf("unexpected bounds: %v", b)
	}
}

func TestFetchStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	f := newTestFetcher(t, srv, Config{})
	_, err := f.Fetch(context.Background(), "1")
	if !errors.Is(err, schema.ErrImageFetch) {
		t.Fatalf("expected fetch error, got %v", err)
	}
	var fetchErr *FetchError
	if !errors.As(err, &fetchErr) || fetchErr.Status != http.StatusNotFound || fetchErr.ImageID != "1" {
		t.Fatalf("unexpected fetch error: %#v", err)
	}
}

func TestFetchDecodeError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("GIF89a not a png"))
	}))
	defer srv.Close()

	f := newTestFetcher(t, srv, Config{})
	_, err := f.Fetch(context.Background(), "2")
	if !errors.Is(err, schema.ErrImageDecode) {
		t.Fatalf("expected decode error, got %v", err)
	}
	if errors.Is(err, schema.ErrImageFetch) {
		t.Fatalf("decode error must not be a fetch error")
	}
}

func TestFetchBodyLimit(t *testing.T) {
	payload := pngBytes(t, 16, 16)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	f := newTestFetcher(t, srv, Config{MaxBytes: 8})
	_, err := f.Fetch(context.Background(), "3")
	if !errors.Is(err, errBodyTooLarge) || !errors.Is(err, schema.ErrImageFetch) {
		t.Fatalf("expected size limit error, got %v", err)
	}
}

func TestFetchTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	f := newTestFetcher(t, srv, Config{Timeout: 50 * time.Millisecond})
	_, err := f.Fetch(context.Background(), "4")
	if !errors.Is(err, schema.ErrImageFetch) {
		t.Fatalf("expected fetch error, got %v", err)
	}
}

func TestFetchBoundedConcurrency(t *testing.T) {
	payload := pngBytes(t, 1, 1)
	var inflight, peak int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := atomic.AddInt32(&inflight, 1)
		for {
			old := atomic.LoadInt32(&peak)
			if n <= old || atomic.CompareAndSwapInt32(&peak, old, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt32(&inflight, -1)
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	f := newTestFetcher(t, srv, Config{MaxConcurrent: 2})
	var wg sync.WaitGroup
	for i := 0; i < 6; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := f.Fetch(context.Background(), "5"); err != nil {
				t.Errorf("fetch: %v", err)
			}
		}()
	}
	wg.Wait()
	if got := atomic.LoadInt32(&peak); got > 2 {
		t.Fatalf("expected at most 2 concurrent fetches, saw %d", got)
	}
}

func TestNewFetcherRejectsTemplateWithoutPlaceholder(t *testing.T) {
	if _, err := NewFetcher(Config{URLTemplate: "https://example.com/emote.png"}, nil); err == nil {
		t.Fatalf("expected template error")
	}
}

func TestURLDefaultTemplate(t *testing.T) {
	f, err := NewFetcher(Config{}, nil)
	if err != nil {
		t.Fatalf("new fetcher: %v", err)
	}
	got := f.URL("emotesv2_abc")
	if got != "https://static-cdn.jtvnw.net/emoticons/v2/emotesv2_abc/static/light/3.0" {
		t.Fatalf("unexpected url: %s", got)
	}
	if strings.Contains(got, idPlaceholder) {
		t.Fatalf("placeholder left in url")
	}
}
