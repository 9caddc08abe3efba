package label

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/nfnt/resize"
	qrcode "github.com/skip2/go-qrcode"
)

// RenderQR draws content as a QR code as tall as the label, centered on a
// white 284x96 canvas.
func RenderQR(content string) (image.Image, error) {
	if content == "" {
		return nil, ErrEmptyQR
	}
	q, err := qrcode.New(content, qrcode.Medium)
	if err != nil {
		return nil, fmt.Errorf("encode qr: %w", err)
	}

	code := q.Image(ReadableHeight)
	if code.Bounds().Dy() > ReadableHeight {
		// payload too long for one dot per module at this size
		code = resize.Resize(ReadableHeight, ReadableHeight, code, resize.NearestNeighbor)
	}

	sz := code.Bounds().Size()
	pos := image.Pt((ReadableWidth-sz.X)/2, (ReadableHeight-sz.Y)/2)
	return imaging.Paste(whiteCanvas(ReadableWidth, ReadableHeight), code, pos), nil
}

// FromQR returns the printer-orientation bitmap for a QR label.
func FromQR(content string, opts Options) ([]byte, error) {
	canvas, err := RenderQR(content)
	if err != nil {
		return nil, err
	}
	return fromReadable(canvas, opts, "QR label (readable orientation)")
}
