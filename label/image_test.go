package label

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func uniform(w, h int, c color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestFromImageAllWhite(t *testing.T) {
	data, err := FromImage(uniform(284, 96, color.White), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, allWhite(), data)
}

func TestFromImageAllBlackPortrait(t *testing.T) {
	data, err := FromImage(uniform(96, 284, color.Black), DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, make([]byte, BitmapSize), data)
}

func TestFromImageAlwaysLabelSized(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	sizes := []image.Point{
		{1, 1}, {7, 3}, {96, 284}, {284, 96}, {500, 10}, {10, 500}, {640, 480}, {1000, 1000},
	}
	for _, sz := range sizes {
		img := image.NewRGBA(image.Rect(0, 0, sz.X, sz.Y))
		rng.Read(img.Pix)

		data, err := FromImage(img, DefaultOptions())
		require.NoError(t, err, "%v", sz)
		assert.Len(t, data, BitmapSize, "%v", sz)
	}
}

func TestFromImageSmallStaysTopLeft(t *testing.T) {
	data, err := FromImage(uniform(8, 8, color.Black), DefaultOptions())
	require.NoError(t, err)

	for row := 0; row < PrinterHeight; row++ {
		line := data[row*BytesPerRow : (row+1)*BytesPerRow]
		if row < 8 {
			assert.Equal(t, byte(0x00), line[0], "row %d", row)
			assert.Equal(t, bytes.Repeat([]byte{0xFF}, BytesPerRow-1), line[1:], "row %d", row)
		} else {
			assert.Equal(t, bytes.Repeat([]byte{0xFF}, BytesPerRow), line, "row %d", row)
		}
	}
}

func TestFromImageLandscapeTurnsCounterClockwise(t *testing.T) {
	img := uniform(284, 96, color.White)
	for y := 0; y < 96; y++ {
		img.Set(0, y, color.Black)
	}

	data, err := FromImage(img, DefaultOptions())
	require.NoError(t, err)

	// the left edge becomes the bottom row
	assert.Equal(t, make([]byte, BytesPerRow), data[BitmapSize-BytesPerRow:])
	assert.Equal(t, bytes.Repeat([]byte{0xFF}, BitmapSize-BytesPerRow), data[:BitmapSize-BytesPerRow])
}

func TestFromImageTransparentIsWhite(t *testing.T) {
	img := image.NewNRGBA(image.Rect(0, 0, 40, 60))
	data, err := FromImage(img, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, allWhite(), data)
}

func TestFromImageThreshold(t *testing.T) {
	gray := uniform(96, 284, color.Gray{Y: 170})

	data, err := FromImage(gray, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, make([]byte, BitmapSize), data)

	opts := DefaultOptions()
	opts.Threshold = 160
	data, err = FromImage(gray, opts)
	require.NoError(t, err)
	assert.Equal(t, allWhite(), data)
}

func TestFromImageDitherStretchesContrast(t *testing.T) {
	// dull vertical ramp, luma 140 at the top to 170 at the bottom
	img := image.NewGray(image.Rect(0, 0, PrinterWidth, PrinterHeight))
	for y := 0; y < PrinterHeight; y++ {
		for x := 0; x < PrinterWidth; x++ {
			img.SetGray(x, y, color.Gray{Y: uint8(140 + 30*y/(PrinterHeight-1))})
		}
	}

	opts := DefaultOptions()
	opts.Dither = true
	data, err := FromImage(img, opts)
	require.NoError(t, err)
	require.Len(t, data, BitmapSize)

	assert.Equal(t, make([]byte, BytesPerRow), data[:BytesPerRow], "top row black")
	assert.Equal(t, bytes.Repeat([]byte{0xFF}, BytesPerRow), data[BitmapSize-BytesPerRow:], "bottom row white")
}

func TestFromImageEmpty(t *testing.T) {
	_, err := FromImage(image.NewGray(image.Rect(0, 0, 0, 0)), DefaultOptions())
	assert.ErrorIs(t, err, ErrEmptyImage)
}

func TestFromImagePreviewIsReadableOrientation(t *testing.T) {
	prev := &capture{}
	opts := DefaultOptions()
	opts.Preview = prev

	_, err := FromImage(uniform(96, 284, color.Black), opts)
	require.NoError(t, err)

	require.Len(t, prev.images, 1)
	assert.Equal(t, image.Pt(ReadableWidth, ReadableHeight), prev.images[0].Bounds().Size())
}

func TestFromImageFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "white.png")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, png.Encode(f, uniform(284, 96, color.White)))
	require.NoError(t, f.Close())

	data, err := FromImageFile(path, DefaultOptions())
	require.NoError(t, err)
	assert.Equal(t, allWhite(), data)
}

func TestFromImageFileErrors(t *testing.T) {
	_, err := FromImageFile(filepath.Join(t.TempDir(), "missing.png"), DefaultOptions())
	assert.Error(t, err)

	garbage := filepath.Join(t.TempDir(), "garbage.png")
	require.NoError(t, os.WriteFile(garbage, []byte("not an image"), 0o644))
	_, err = FromImageFile(garbage, DefaultOptions())
	assert.Error(t, err)
}
