package core

import (
	"context"
	"image"
	"strings"
	"unicode/utf8"

	"github.com/disintegration/imaging"

	"pkt.systems/emoteoverlay/schema"
	"pkt.systems/pslog"
)

// Compositor turns active emotes into pixel writes over the terminal.
type Compositor struct {
	log   pslog.Logger
	cache map[uint64]resizedEmote
}

type resizedEmote struct {
	width  int
	height int
	img    *image.NRGBA
}

// NewCompositor constructs a Compositor.
func NewCompositor(logger pslog.Logger) *Compositor {
	if logger == nil {
		logger = pslog.Ctx(context.Background())
	}
	return &Compositor{
		log:   logger,
		cache: make(map[uint64]resizedEmote),
	}
}

// Compose renders every emote that can be located on the terminal and
// returns the concatenated pixels in registry order.
func (c *Compositor) Compose(term *Terminal, emotes []ActiveEmote) []schema.Pixel {
	if term == nil || term.Empty() {
		return nil
	}
	rows := term.Rows()
	height := int(term.Size().Rows)
	var out []schema.Pixel
	live := make(map[uint64]struct{}, len(emotes))
	for _, emote := range emotes {
		live[emote.ID] = struct{}{}
		column, row, ok := Locate(rows, emote.Pattern)
		if !ok {
			c.log.Trace("emote pattern not on screen", "pattern", emote.Pattern)
			continue
		}
		resized := c.resize(emote, utf8.RuneCountInString(emote.Pattern), height)
		if resized == nil {
			continue
		}
		x, y := Place(column, row, resized.Bounds().Dy())
		out = EmitPixels(out, resized, x, y)
	}
	for id := range c.cache {
		if _, ok := live[id]; !ok {
			delete(c.cache, id)
		}
	}
	return out
}

func (c *Compositor) resize(emote ActiveEmote, width, height int) *image.NRGBA {
	if cached, ok := c.cache[emote.ID]; ok && cached.width == width && cached.height == height {
		return cached.img
	}
	img := Resize(emote.Image, width, height)
	if img == nil {
		return nil
	}
	c.cache[emote.ID] = resizedEmote{width: width, height: height, img: img}
	return img
}

// Locate finds the first row, top to bottom, containing pattern and returns
// the match's starting column (in characters) and row.
func Locate(rows []string, pattern string) (column, row int, ok bool) {
	if pattern == "" {
		return 0, 0, false
	}
	for y, line := range rows {
		offset := strings.Index(line, pattern)
		if offset < 0 {
			continue
		}
		return utf8.RuneCountInString(line[:offset]), y, true
	}
	return 0, 0, false
}

// Resize scales img to exactly width x height with a Lanczos filter. It
// returns nil when either dimension is zero.
func Resize(img image.Image, width, height int) *image.NRGBA {
	if img == nil || width <= 0 || height <= 0 {
		return nil
	}
	return imaging.Resize(img, width, height, imaging.Lanczos)
}

// Place returns the device pixel origin for an image of the given height
// anchored at a character cell. Device rows are twice as dense as terminal
// rows, and the image is centred vertically on the matched row.
func Place(column, row, height int) (x, y int) {
	return column, row*2 - height/2
}

// EmitPixels appends one fully opaque pixel per image pixel, offset by
// (originX, originY). Pixels at negative coordinates are clipped.
func EmitPixels(out []schema.Pixel, img *image.NRGBA, originX, originY int) []schema.Pixel {
	bounds := img.Bounds()
	for py := 0; py < bounds.Dy(); py++ {
		y := originY + py
		if y < 0 {
			continue
		}
		for px := 0; px < bounds.Dx(); px++ {
			x := originX + px
			if x < 0 {
				continue
			}
			offset := img.PixOffset(bounds.Min.X+px, bounds.Min.Y+py)
			out = append(out, schema.Pixel{
				Coordinates: schema.Point{X: uint32(x), Y: uint32(y)},
				Color: schema.Color{
					float32(img.Pix[offset]) / 255,
					float32(img.Pix[offset+1]) / 255,
					float32(img.Pix[offset+2]) / 255,
					1,
				},
			})
		}
	}
	return out
}
