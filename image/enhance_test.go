package image

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEnhanceStretchesRange(t *testing.T) {
	img := image.NewGray(image.Rect(0, 0, 4, 1))
	for x, v := range []uint8{100, 120, 130, 150} {
		img.SetGray(x, 0, color.Gray{Y: v})
	}

	out := Enhance(img)
	lo, hi := lumaRange(out)
	assert.Equal(t, uint8(0), lo)
	assert.Equal(t, uint8(255), hi)

	// middle levels are pushed apart from mid-gray
	assert.Less(t, Luma(out.At(1, 0)), uint8(102))
	assert.Greater(t, Luma(out.At(2, 0)), uint8(153))
}

func TestEnhanceFlatImage(t *testing.T) {
	out := Enhance(filled(3, 3, color.White))
	assert.Equal(t, image.Pt(3, 3), out.Bounds().Size())
	assert.Equal(t, uint8(255), Luma(out.At(1, 1)))
}
