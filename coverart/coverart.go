// Package coverart renders song thumbnails as ASCII art for the terminal.
package coverart

import (
	"context"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/qeesung/image2ascii/convert"

	"github.com/tunetui/tunetui/domain"
)

// Renderer downloads a song's thumbnail and converts it to ASCII art.
type Renderer struct {
	httpClient *http.Client
	converter  *convert.ImageConverter
	width      int
	height     int
}

func NewRenderer(width, height int) *Renderer {
	return &Renderer{
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		converter: convert.NewImageConverter(),
		width:     width,
		height:    height,
	}
}

// RenderSong fetches the song's highest-resolution thumbnail and returns it
// as ASCII art. Any failure falls back to the placeholder; the error is
// returned alongside so callers can log it.
func (r *Renderer) RenderSong(ctx context.Context, song *domain.Song) (string, error) {
	if song == nil {
		return Placeholder(), nil
	}
	thumb := song.LargestThumbnail()
	if thumb == nil || thumb.URL == "" {
		return Placeholder(), nil
	}
	return r.RenderURL(ctx, thumb.URL)
}

// RenderURL downloads and converts an image URL to ASCII art.
func (r *Renderer) RenderURL(ctx context.Context, url string) (string, error) {
	if url == "" {
		return Placeholder(), nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Placeholder(), errors.Wrap(err, "building cover art request")
	}
	resp, err := r.httpClient.Do(req)
	if err != nil {
		return Placeholder(), errors.Wrap(err, "downloading cover art")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Placeholder(), errors.Errorf("cover art download: status %d", resp.StatusCode)
	}

	img, _, err := image.Decode(resp.Body)
	if err != nil {
		return Placeholder(), errors.Wrap(err, "decoding cover art")
	}

	opts := convert.DefaultOptions
	opts.FixedWidth = r.width
	opts.FixedHeight = r.height
	// ANSI colors confuse tview's own color tags.
	opts.Colored = false

	return r.converter.Image2ASCIIString(img, &opts), nil
}

// Placeholder is shown when no thumbnail is available.
func Placeholder() string {
	return `[darkgray]┌──────────────────────────────┐
[darkgray]│                              │
[darkgray]│                              │
[darkgray]│          ♫  ♪  ♫             │
[darkgray]│        no cover art          │
[darkgray]│          ♫  ♪  ♫             │
[darkgray]│                              │
[darkgray]│                              │
[darkgray]└──────────────────────────────┘`
}
