package label

import (
	"fmt"
	"image"
	"os"
	"strings"
	"unicode"

	"go.uber.org/zap"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"

	logInternal "github.com/AlexStarov/tspl-label-GoLang-lib/log"
)

// Font is a parsed TrueType/OpenType font.
type Font struct {
	f *opentype.Font
}

// LoadFont reads and parses the font file at path.
func LoadFont(path string) (*Font, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read font: %w", err)
	}
	return ParseFont(data)
}

// ParseFont parses font file contents.
func ParseFont(data []byte) (*Font, error) {
	f, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	return &Font{f: f}, nil
}

// Face returns a face where size is the em size in pixels.
func (f *Font) Face(size int) (font.Face, error) {
	if size <= 0 {
		return nil, ErrFontSize
	}
	return opentype.NewFace(f.f, &opentype.FaceOptions{
		Size:    float64(size),
		DPI:     72,
		Hinting: font.HintingNone,
	})
}

// lineSpacing is the extra gap between stacked lines, in pixels.
const lineSpacing = 4

// covers reports whether the font has a glyph for at least one visible rune.
func (f *Font) covers(text string) bool {
	var buf sfnt.Buffer
	for _, r := range text {
		if unicode.IsSpace(r) {
			continue
		}
		if idx, err := f.f.GlyphIndex(&buf, r); err == nil && idx != 0 {
			return true
		}
	}
	return false
}

// splitLines breaks text at \n, \r\n or \r. Any other control rune has
// no glyph and is rejected.
func splitLines(text string) ([]string, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	for _, r := range text {
		if r != '\n' && unicode.IsControl(r) {
			return nil, fmt.Errorf("%w: control character %U", ErrUnrenderable, r)
		}
	}
	return strings.Split(text, "\n"), nil
}

// RenderText draws text in black, centered on both axes of a white 284x96
// canvas. Lines are stacked one font height plus lineSpacing apart and
// left-aligned inside the block. Centering uses the ink bounds of the
// block, not the font metrics, so short words sit in the optical middle of
// the label.
func RenderText(text string, f *Font, size int) (*image.Gray, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	lines, err := splitLines(text)
	if err != nil {
		return nil, err
	}
	if !f.covers(text) {
		return nil, fmt.Errorf("%w: %q", ErrUnrenderable, text)
	}
	face, err := f.Face(size)
	if err != nil {
		return nil, err
	}
	defer face.Close()

	canvas := image.NewGray(image.Rect(0, 0, ReadableWidth, ReadableHeight))
	for i := range canvas.Pix {
		canvas.Pix[i] = 0xFF
	}

	advance := face.Metrics().Height.Ceil() + lineSpacing

	// ink box of the whole block, baseline of the first line at y = 0
	var bounds fixed.Rectangle26_6
	for i, line := range lines {
		lb, _ := font.BoundString(face, line)
		if lb.Empty() {
			continue
		}
		lb = lb.Add(fixed.P(0, i*advance))
		if bounds.Empty() {
			bounds = lb
		} else {
			bounds = bounds.Union(lb)
		}
	}
	textW := (bounds.Max.X - bounds.Min.X).Ceil()
	textH := (bounds.Max.Y - bounds.Min.Y).Ceil()

	x := floorHalf(ReadableWidth-textW) - bounds.Min.X.Floor()
	y := floorHalf(ReadableHeight-textH) - bounds.Min.Y.Floor()

	d := &font.Drawer{
		Dst:  canvas,
		Src:  image.Black,
		Face: face,
	}
	for i, line := range lines {
		d.Dot = fixed.P(x, y+i*advance)
		d.DrawString(line)
	}

	logInternal.L().Debug("text rendered",
		zap.String("text", text),
		zap.Int("lines", len(lines)),
		zap.Int("size", size),
		zap.Int("text_width", textW),
		zap.Int("text_height", textH))
	if textW > ReadableWidth || textH > ReadableHeight {
		logInternal.L().Warn("text does not fit on label and will be clipped",
			zap.Int("text_width", textW),
			zap.Int("text_height", textH))
	}
	return canvas, nil
}

// floorHalf divides by two rounding toward negative infinity.
func floorHalf(n int) int {
	if n < 0 {
		return (n - 1) / 2
	}
	return n / 2
}

// FromText renders text with the font at opts.FontPath and returns the
// printer-orientation bitmap. The preview, if any, shows the readable
// 284x96 canvas.
func FromText(text string, opts Options) ([]byte, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	if opts.FontSize <= 0 {
		return nil, ErrFontSize
	}
	f, err := LoadFont(opts.FontPath)
	if err != nil {
		return nil, err
	}
	return FromTextFont(text, f, opts)
}

// FromTextFont is FromText with an already parsed font.
func FromTextFont(text string, f *Font, opts Options) ([]byte, error) {
	canvas, err := RenderText(text, f, opts.FontSize)
	if err != nil {
		return nil, err
	}
	return fromReadable(canvas, opts, "Text label (readable orientation)")
}
