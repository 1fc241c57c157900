// Package avatar downloads author avatars and reduces them to a small grid
// of colors that a terminal can draw with half blocks. Everything happens in
// memory.
package avatar

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog"
)

// maxBytes bounds a single avatar download
const maxBytes = 2 << 20

// Image is a downsampled avatar, Pixels[y][x]
type Image struct {
	Width  int
	Height int
	Pixels [][]color.RGBA
}

// Hex returns the pixel at x, y as #RRGGBB
func (img *Image) Hex(x, y int) string {
	c := img.Pixels[y][x]
	return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
}

// Decode reads a PNG, JPEG or GIF and downsamples it to width x height
func Decode(r io.Reader, width, height int) (*Image, error) {
	src, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode avatar: %w", err)
	}
	return Downsample(src, width, height), nil
}

// Downsample averages src into a width x height grid
func Downsample(src image.Image, width, height int) *Image {
	b := src.Bounds()
	out := &Image{Width: width, Height: height, Pixels: make([][]color.RGBA, height)}

	for y := 0; y < height; y++ {
		out.Pixels[y] = make([]color.RGBA, width)
		y0 := b.Min.Y + y*b.Dy()/height
		y1 := max(b.Min.Y+(y+1)*b.Dy()/height, y0+1)

		for x := 0; x < width; x++ {
			x0 := b.Min.X + x*b.Dx()/width
			x1 := max(b.Min.X+(x+1)*b.Dx()/width, x0+1)

			var r, g, bl, n uint64
			for sy := y0; sy < y1 && sy < b.Max.Y; sy++ {
				for sx := x0; sx < x1 && sx < b.Max.X; sx++ {
					cr, cg, cb, _ := src.At(sx, sy).RGBA()
					r += uint64(cr >> 8)
					g += uint64(cg >> 8)
					bl += uint64(cb >> 8)
					n++
				}
			}
			if n > 0 {
				out.Pixels[y][x] = color.RGBA{R: uint8(r / n), G: uint8(g / n), B: uint8(bl / n), A: 0xff}
			}
		}
	}

	return out
}

// Fetcher downloads and memoizes avatars by URL for the process lifetime
type Fetcher struct {
	client *retryablehttp.Client
	width  int
	height int
	log    zerolog.Logger

	mu       sync.Mutex
	images   map[string]*Image
	inflight map[string]bool
}

// NewFetcher creates a fetcher producing width x height images
func NewFetcher(width, height int, log zerolog.Logger) *Fetcher {
	client := retryablehttp.NewClient()
	client.RetryMax = 2
	client.RetryWaitMax = 2 * time.Second
	client.HTTPClient.Timeout = 10 * time.Second
	// retryablehttp logs to stderr by default, which would corrupt the screen
	client.Logger = nil

	return &Fetcher{
		client:   client,
		width:    width,
		height:   height,
		log:      log,
		images:   make(map[string]*Image),
		inflight: make(map[string]bool),
	}
}

// Lookup returns a cached avatar without blocking
func (f *Fetcher) Lookup(url string) (*Image, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	img, ok := f.images[url]
	return img, ok && img != nil
}

// Get returns the avatar for url, downloading it on first use
func (f *Fetcher) Get(ctx context.Context, url string) (*Image, error) {
	if img, ok := f.Lookup(url); ok {
		return img, nil
	}

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download avatar: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download avatar: unexpected status %s", resp.Status)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBytes))
	if err != nil {
		return nil, fmt.Errorf("download avatar: %w", err)
	}

	img, err := Decode(bytes.NewReader(data), f.width, f.height)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.images[url] = img
	f.mu.Unlock()
	return img, nil
}

// Prefetch downloads every missing avatar in the background and calls done
// once if at least one new image arrived. Failed URLs are not retried.
func (f *Fetcher) Prefetch(ctx context.Context, urls []string, done func()) {
	var missing []string

	f.mu.Lock()
	for _, u := range urls {
		if u == "" || f.inflight[u] {
			continue
		}
		if _, ok := f.images[u]; ok {
			continue
		}
		f.inflight[u] = true
		missing = append(missing, u)
	}
	f.mu.Unlock()

	if len(missing) == 0 {
		return
	}

	go func() {
		fetched := 0
		for _, u := range missing {
			if _, err := f.Get(ctx, u); err != nil {
				f.log.Warn().Err(err).Str("url", u).Msg("avatar unavailable")
				f.mu.Lock()
				// remember the failure so the next snapshot does not retry
				f.images[u] = nil
				f.mu.Unlock()
			} else {
				fetched++
			}
			f.mu.Lock()
			delete(f.inflight, u)
			f.mu.Unlock()
		}
		if fetched > 0 && done != nil {
			done()
		}
	}()
}
