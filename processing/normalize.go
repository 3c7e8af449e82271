package processing

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/gif"
	"image/jpeg"
	_ "image/png"

	"github.com/nfnt/resize"
)

const (
	DefaultInputSize = 224
	// DefaultMaxPixels bounds the decoded size of an upload, about 160 MB as RGBA
	DefaultMaxPixels = 40_000_000
)

// ErrUnsupportedImage is returned for input that cannot be decoded as an image
var ErrUnsupportedImage = errors.New("unsupported image format")

// Normalized is a model-ready version of an uploaded image
type Normalized struct {
	JPEG  []byte
	OldX  int
	OldY  int
	Size  uint
	Input image.Image
}

// Normalize decodes raw image bytes of any supported format and resolution, flattens them
// onto an opaque RGB canvas and scales them to size x size, ignoring the aspect ratio.
// Images with more than maxPixels pixels are rejected before they are decoded.
func Normalize(raw []byte, size uint, maxPixels int64) (*Normalized, error) {
	if size == 0 {
		size = DefaultInputSize
	}
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > maxPixels {
		return nil, fmt.Errorf("%w: %dx%d exceeds %d pixels", ErrUnsupportedImage, cfg.Width, cfg.Height, maxPixels)
	}
	src, _, err := image.Decode(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnsupportedImage, err)
	}
	bounds := src.Bounds()
	// Transparent pixels end up white, the same as most viewers show them
	canvas := image.NewRGBA(image.Rect(0, 0, bounds.Dx(), bounds.Dy()))
	draw.Draw(canvas, canvas.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	draw.Draw(canvas, canvas.Bounds(), src, bounds.Min, draw.Over)

	scaled := resize.Resize(size, size, canvas, resize.Bilinear)
	var buf bytes.Buffer
	if err = jpeg.Encode(&buf, scaled, &jpeg.Options{Quality: 90}); err != nil {
		return nil, fmt.Errorf("encode image: %w", err)
	}
	return &Normalized{
		JPEG:  buf.Bytes(),
		OldX:  bounds.Dx(),
		OldY:  bounds.Dy(),
		Size:  size,
		Input: scaled,
	}, nil
}
