package processing

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testPNG builds a w x h image with a transparent left half
func testPNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			if x < w/2 {
				img.Set(x, y, color.NRGBA{})
			} else {
				img.Set(x, y, color.NRGBA{R: 200, G: 10, B: 10, A: 255})
			}
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		size uint
		want int
	}{
		{"wide", 640, 120, 224, 224},
		{"tall", 30, 500, 224, 224},
		{"tiny", 3, 2, 224, 224},
		{"default size", 100, 100, 0, DefaultInputSize},
		{"custom size", 100, 50, 64, 64},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(testPNG(t, tt.w, tt.h), tt.size, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.w, got.OldX)
			assert.Equal(t, tt.h, got.OldY)

			decoded, err := jpeg.Decode(bytes.NewReader(got.JPEG))
			require.NoError(t, err)
			assert.Equal(t, tt.want, decoded.Bounds().Dx())
			assert.Equal(t, tt.want, decoded.Bounds().Dy())
		})
	}
}

func TestNormalize_FlattensTransparency(t *testing.T) {
	got, err := Normalize(testPNG(t, 100, 100), 50, 0)
	require.NoError(t, err)
	r, g, b, a := got.Input.At(2, 25).RGBA()
	assert.Equal(t, uint32(0xffff), a)
	assert.Greater(t, r, uint32(0xf000))
	assert.Greater(t, g, uint32(0xf000))
	assert.Greater(t, b, uint32(0xf000))
}

func TestNormalize_RejectsGarbage(t *testing.T) {
	_, err := Normalize([]byte("definitely not an image"), 224, 0)
	require.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestNormalize_RejectsOversized(t *testing.T) {
	tests := []struct {
		name      string
		w, h      int
		maxPixels int64
		wantErr   bool
	}{
		{"at the limit", 100, 50, 5000, false},
		{"one row over", 100, 51, 5000, true},
		{"wide strip", 6000, 1, 5000, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Normalize(testPNG(t, tt.w, tt.h), 32, tt.maxPixels)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedImage)
				return
			}
			assert.NoError(t, err)
		})
	}
}

// A huge but flat PNG compresses to a few kilobytes, only the header is read before rejecting it
func TestNormalize_RejectsHugeDimensionsFromHeader(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, image.NewGray(image.Rect(0, 0, 6500, 6500))))
	assert.Less(t, buf.Len(), 1<<20)

	_, err := Normalize(buf.Bytes(), 224, 0)
	assert.ErrorIs(t, err, ErrUnsupportedImage)

	_, err = NopClassifier{InputSize: 224}.Classify(context.Background(), buf.Bytes())
	assert.ErrorIs(t, err, ErrUnsupportedImage)
}

func TestNopClassifier(t *testing.T) {
	labels, err := NopClassifier{}.Classify(context.Background(), testPNG(t, 10, 10))
	require.NoError(t, err)
	assert.Empty(t, labels)

	_, err = NopClassifier{}.Classify(context.Background(), []byte{0x00, 0x01})
	require.Error(t, err)
}
