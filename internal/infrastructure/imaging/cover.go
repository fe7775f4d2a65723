// Package imaging renders uploaded cover art into the stored thumbnail.
package imaging

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"

	// decoders for every accepted cover format
	_ "image/gif"
	_ "image/png"

	"github.com/you/neuraread/domain"
	"golang.org/x/image/draw"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/webp"
)

const (
	CoverBox     = 300
	CoverQuality = 90

	// MaxCoverPixels is checked against the header before any pixels are decoded
	MaxCoverPixels = 40_000_000
)

// CoverTranscoder fits an image inside a Box x Box square and re-encodes it as JPEG.
// Smaller images are re-encoded at their own size.
type CoverTranscoder struct {
	Box       int
	Quality   int
	MaxPixels int64
}

// NewCoverTranscoder returns the 300x300, quality 90 renderer
func NewCoverTranscoder() domain.CoverTranscoder {
	return &CoverTranscoder{Box: CoverBox, Quality: CoverQuality, MaxPixels: MaxCoverPixels}
}

// Transcode implements domain.CoverTranscoder
func (c *CoverTranscoder) Transcode(data []byte) ([]byte, error) {
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decode cover: %v", domain.ErrUnsupportedFormat, err)
	}
	if c.MaxPixels > 0 && int64(cfg.Width)*int64(cfg.Height) > c.MaxPixels {
		return nil, fmt.Errorf("%w: cover is %dx%d", domain.ErrPayloadTooLarge, cfg.Width, cfg.Height)
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: decode cover: %v", domain.ErrUnsupportedFormat, err)
	}

	w, h := FitInside(src.Bounds().Dx(), src.Bounds().Dy(), c.Box)
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)

	var out bytes.Buffer
	if err := jpeg.Encode(&out, dst, &jpeg.Options{Quality: c.Quality}); err != nil {
		return nil, fmt.Errorf("encode cover: %w", err)
	}
	return out.Bytes(), nil
}

// FitInside shrinks w x h so both sides fit in box, keeping the aspect
// ratio. Images already inside the box keep their size.
func FitInside(w, h, box int) (int, int) {
	if w <= 0 || h <= 0 {
		return box, box
	}
	if w <= box && h <= box {
		return w, h
	}
	if w >= h {
		nh := h * box / w
		if nh < 1 {
			nh = 1
		}
		return box, nh
	}
	nw := w * box / h
	if nw < 1 {
		nw = 1
	}
	return nw, box
}
