package image

import (
	"image"

	"go.uber.org/zap"

	logInternal "github.com/AlexStarov/tspl-label-GoLang-lib/log"
	"github.com/AlexStarov/tspl-label-GoLang-lib/util"
)

// White is the byte value of eight unprinted dots.
const White = 0xFF

// Fit clamps packed raster data to exactly size bytes. Missing bytes are
// filled with White, extra bytes are dropped. Corrections are logged, not
// returned as errors.
func Fit(data []byte, size int) []byte {
	out, delta := util.FitBytes(data, size, White)
	var msg string
	switch {
	case delta > 0:
		msg = "raster shorter than label, padding with white"
	case delta < 0:
		msg = "raster longer than label, truncating"
	default:
		return out
	}
	logInternal.LogMessage(logInternal.WARN, msg, zap.Int("got", len(data)), zap.Int("want", size))
	return out
}

// ToImage unpacks raster data produced by Converter.ToRaster back into a
// grayscale image, for previews.
func ToImage(data []byte, width, height int) *image.Gray {
	bytesWidth := (width + 7) / 8
	img := image.NewGray(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			i := y*bytesWidth + x/8
			if i >= len(data) || data[i]&(0x80>>uint(x%8)) != 0 {
				img.Pix[y*img.Stride+x] = 0xFF
			}
		}
	}
	return img
}
