// Package texture fetches and caches photo textures for the scene's photo
// frames. All network work happens off the frame tick; results are swapped
// into the cache atomically and failures degrade to a generated placeholder,
// never an error reaching the render path.
package texture

import (
	"bytes"
	"context"
	"fmt"
	"hash/fnv"
	"image"
	"image/color"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"

	"github.com/rs/zerolog/log"

	_ "golang.org/x/image/webp"
)

// Loader resolves content keys to decoded textures through a Cache.
type Loader struct {
	Cache  *Cache
	Client *http.Client
	// maximum accepted body size; guards against hostile sources
	MaxBytes int64
}

func NewLoader(cache *Cache) *Loader {
	return &Loader{
		Cache:    cache,
		Client:   http.DefaultClient,
		MaxBytes: 16 << 20,
	}
}

// Fetch asynchronously loads url into the cache under key and reports the
// outcome on done (which may be nil). Any failure stores a placeholder so
// the slot always has something to draw; a load finishing after the key was
// invalidated is dropped without touching the cache.
func (l *Loader) Fetch(ctx context.Context, key, url string, done chan<- string) {
	gen := l.Cache.begin(key)
	go func() {
		img, err := l.fetch(ctx, url)
		if err != nil {
			log.Warn().Err(err).Str("key", key).Msg("texture load failed, using placeholder")
			img = Placeholder(key)
		}
		if l.Cache.complete(key, gen, img) && done != nil {
			done <- key
		}
	}()
}

func (l *Loader) fetch(ctx context.Context, url string) (*image.NRGBA, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("texture: request %s: %w", url, err)
	}
	resp, err := l.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("texture: fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("texture: fetch %s: status %d", url, resp.StatusCode)
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, l.MaxBytes))
	if err != nil {
		return nil, fmt.Errorf("texture: read %s: %w", url, err)
	}
	return Decode(data)
}

// Decode decodes JPEG, PNG or WebP bytes into NRGBA.
func Decode(data []byte) (*image.NRGBA, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("texture: decode: %w", err)
	}
	return toNRGBA(img), nil
}

// Placeholder generates the fallback texture for a content key: a flat tint
// derived from the key with a lighter frame border, so broken photos stay
// recognizable without reading as errors.
func Placeholder(key string) *image.NRGBA {
	const size = 64
	h := fnv.New32a()
	h.Write([]byte(key))
	seed := h.Sum32()

	base := color.NRGBA{
		R: 140 + uint8(seed&0x3f),
		G: 140 + uint8((seed>>6)&0x3f),
		B: 140 + uint8((seed>>12)&0x3f),
		A: 255,
	}
	border := color.NRGBA{
		R: base.R/2 + 110,
		G: base.G/2 + 110,
		B: base.B/2 + 110,
		A: 255,
	}

	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			c := base
			if x < 4 || y < 4 || x >= size-4 || y >= size-4 {
				c = border
			}
			img.SetNRGBA(x, y, c)
		}
	}
	return img
}

func toNRGBA(src image.Image) *image.NRGBA {
	if n, ok := src.(*image.NRGBA); ok {
		return n
	}
	b := src.Bounds()
	dst := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			dst.Set(x, y, src.At(x, y))
		}
	}
	return dst
}
