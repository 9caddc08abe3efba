// Package label turns images, text and QR payloads into the fixed-size 1-bit
// bitmap a P21-class thermal label printer expects.
//
// The printer feeds a 14x40 mm label narrow side first, so the raster it
// receives is 96 dots wide and 284 rows tall. People read the same label as a
// 284x96 strip; renderers work in that readable orientation and rotate at the
// end.
package label

import (
	"errors"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"

	imgInternal "github.com/AlexStarov/tspl-label-GoLang-lib/image"
)

// Label geometry in dots.
const (
	ReadableWidth  = 284
	ReadableHeight = 96

	PrinterWidth  = ReadableHeight // 96
	PrinterHeight = ReadableWidth  // 284

	BytesPerRow = PrinterWidth / 8            // 12
	BitmapSize  = PrinterHeight * BytesPerRow // 3408
)

// Defaults used by the CLI.
const (
	DefaultFontPath = "/usr/share/fonts/truetype/dejavu/DejaVuSans-Bold.ttf"
	DefaultFontSize = 30
)

var (
	ErrEmptyText    = errors.New("label: text is empty")
	ErrUnrenderable = errors.New("label: font has no glyphs for text")
	ErrFontSize     = errors.New("label: font size must be positive")
	ErrEmptyImage   = errors.New("label: image has no pixels")
	ErrEmptyQR      = errors.New("label: qr content is empty")
)

// Options control rasterization. The zero value is not useful; start from
// DefaultOptions.
type Options struct {
	// Threshold is the luma cutoff for photos and screenshots.
	Threshold uint8
	// Dither replaces the hard threshold with error diffusion (images only).
	Dither bool

	FontPath string
	FontSize int

	// Preview, when set, receives the label in readable orientation before
	// it is packed.
	Preview Previewer
}

// DefaultOptions returns the settings the printer was calibrated with.
func DefaultOptions() Options {
	return Options{
		Threshold: imgInternal.DefaultThreshold,
		FontPath:  DefaultFontPath,
		FontSize:  DefaultFontSize,
	}
}

// renderedThreshold binarizes antialiased glyph and module edges.
const renderedThreshold = 128

// fromReadable rotates a 284x96 canvas clockwise into printer orientation
// and packs it.
func fromReadable(canvas image.Image, opts Options, title string) ([]byte, error) {
	if opts.Preview != nil {
		if err := opts.Preview.Preview(canvas, title); err != nil {
			return nil, err
		}
	}

	var rotated image.Image = imaging.Rotate270(canvas)
	if sz := rotated.Bounds().Size(); sz.X != PrinterWidth || sz.Y != PrinterHeight {
		rotated = resize.Resize(PrinterWidth, PrinterHeight, rotated, resize.NearestNeighbor)
	}

	conv := &imgInternal.Converter{MaxWidth: PrinterWidth, Threshold: renderedThreshold}
	data, _, _ := conv.ToRaster(rotated)
	return imgInternal.Fit(data, BitmapSize), nil
}

func whiteCanvas(w, h int) *image.NRGBA {
	return imaging.New(w, h, color.White)
}
