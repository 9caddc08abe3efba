package image

import (
	"image"
	"image/color"

	"github.com/disintegration/imaging"
)

// ContrastBoost is the AdjustContrast percentage applied by Enhance. 100
// doubles the distance of every level from mid-gray.
const ContrastBoost = 100

// Enhance prepares a photo for dithering: the luma range is stretched to
// the full 0..255 scale, then the contrast is doubled around mid-gray.
func Enhance(img image.Image) *image.NRGBA {
	out := imaging.Clone(img)
	lo, hi := lumaRange(out)
	if hi > lo {
		scale := 255 / float64(hi-lo)
		stretch := func(v uint8) uint8 {
			s := (float64(v) - float64(lo)) * scale
			switch {
			case s <= 0:
				return 0
			case s >= 255:
				return 255
			}
			return uint8(s + 0.5)
		}
		out = imaging.AdjustFunc(out, func(c color.NRGBA) color.NRGBA {
			return color.NRGBA{R: stretch(c.R), G: stretch(c.G), B: stretch(c.B), A: c.A}
		})
	}
	return imaging.AdjustContrast(out, ContrastBoost)
}

func lumaRange(img *image.NRGBA) (lo, hi uint8) {
	lo, hi = 255, 0
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			l := Luma(img.NRGBAAt(x, y))
			if l < lo {
				lo = l
			}
			if l > hi {
				hi = l
			}
		}
	}
	return lo, hi
}
