package label

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	"go.uber.org/zap"

	// extra decoders on top of what imaging registers
	_ "golang.org/x/image/webp"

	imgInternal "github.com/AlexStarov/tspl-label-GoLang-lib/image"
	logInternal "github.com/AlexStarov/tspl-label-GoLang-lib/log"
)

// FromImageFile decodes the image at path and converts it with FromImage.
// EXIF orientation is applied before anything else.
func FromImageFile(path string, opts Options) ([]byte, error) {
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("load image %s: %w", path, err)
	}
	logInternal.L().Debug("image loaded",
		zap.String("path", path),
		zap.Int("width", img.Bounds().Dx()),
		zap.Int("height", img.Bounds().Dy()))
	return FromImage(img, opts)
}

// FromImage normalizes img into a printer-orientation label bitmap.
//
// Transparent areas become white. Landscape images are turned 90 degrees
// counter-clockwise so the long side runs along the label. The result is
// shrunk (never enlarged) to fit 96x284, anchored top-left on a white label,
// and thresholded. With opts.Dither the contrast is stretched and boosted
// first and the result is dithered instead.
func FromImage(img image.Image, opts Options) ([]byte, error) {
	b := img.Bounds()
	if b.Empty() {
		return nil, ErrEmptyImage
	}

	flat := imaging.Overlay(whiteCanvas(b.Dx(), b.Dy()), imaging.Clone(img), image.Pt(0, 0), 1.0)
	gray := imaging.Grayscale(flat)
	if opts.Dither {
		gray = imgInternal.Enhance(gray)
	}

	var oriented image.Image = gray
	if b.Dx() > b.Dy() {
		oriented = imaging.Rotate90(gray)
	}

	thumb := resize.Thumbnail(PrinterWidth, PrinterHeight, oriented, resize.Lanczos3)
	canvas := imaging.Paste(whiteCanvas(PrinterWidth, PrinterHeight), thumb, image.Pt(0, 0))

	conv := &imgInternal.Converter{
		MaxWidth:  PrinterWidth,
		Threshold: opts.Threshold,
		Dither:    opts.Dither,
	}
	data, _, _ := conv.ToRaster(canvas)
	data = imgInternal.Fit(data, BitmapSize)

	logInternal.L().Debug("image rasterized",
		zap.Int("scaled_width", thumb.Bounds().Dx()),
		zap.Int("scaled_height", thumb.Bounds().Dy()),
		zap.Bool("rotated", b.Dx() > b.Dy()),
		zap.Bool("dither", opts.Dither))

	if opts.Preview != nil {
		bw := imgInternal.ToImage(data, PrinterWidth, PrinterHeight)
		if err := opts.Preview.Preview(imaging.Rotate270(bw), "Image label (printer orientation 96x284)"); err != nil {
			return nil, err
		}
	}
	return data, nil
}
