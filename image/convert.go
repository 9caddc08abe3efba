package image

import (
	"image"
	"image/color"

	"github.com/makeworld-the-better-one/dither/v2"
)

// DefaultThreshold is the luma cutoff (0-255) below which a pixel prints black.
const DefaultThreshold = 180

// Converter packs images into 1-bit raster rows for TSPL BITMAP.
//
// Rows are packed MSB first. A set bit is a white (unprinted) dot, a cleared
// bit is black; this is the polarity the BITMAP command expects in mode 0.
type Converter struct {
	// The maximum line width of the printer, in dots. Zero means no limit.
	MaxWidth int

	// Luma below Threshold prints black.
	Threshold uint8

	// Dither applies Floyd-Steinberg error diffusion before packing,
	// in which case Threshold is not used.
	Dither bool
}

// NewConverter returns a Converter with the default threshold.
func NewConverter(maxWidth int) *Converter {
	return &Converter{MaxWidth: maxWidth, Threshold: DefaultThreshold}
}

// ToRaster packs img row by row and returns the data together with the
// width in dots and bytes of a single row.
func (c *Converter) ToRaster(img image.Image) (data []byte, imageWidth, bytesWidth int) {
	threshold := c.Threshold
	if c.Dither {
		img = ditherBW(img)
		threshold = 128
	}

	b := img.Bounds()
	sz := b.Size()

	imageWidth = sz.X
	if c.MaxWidth > 0 && imageWidth > c.MaxWidth {
		// truncate if image is too large
		imageWidth = c.MaxWidth
	}

	bytesWidth = (imageWidth + 7) / 8

	data = make([]byte, bytesWidth*sz.Y)
	for i := range data {
		data[i] = 0xFF
	}

	for y := 0; y < sz.Y; y++ {
		for x := 0; x < imageWidth; x++ {
			if Luma(img.At(b.Min.X+x, b.Min.Y+y)) < threshold {
				// position in data is: line_start + x / 8
				data[y*bytesWidth+x/8] &^= 0x80 >> uint(x%8)
			}
		}
	}

	return
}

// Luma returns the ITU-R 601 luma of c, 0 (black) to 255 (white).
func Luma(c color.Color) uint8 {
	return color.GrayModel.Convert(c).(color.Gray).Y
}

func ditherBW(img image.Image) image.Image {
	d := dither.NewDitherer([]color.Color{color.Black, color.White})
	d.Matrix = dither.FloydSteinberg
	if out := d.DitherCopy(img); out != nil {
		return out
	}
	return img
}
