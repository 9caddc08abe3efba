package label

import (
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pkg/browser"
	"go.uber.org/zap"

	logInternal "github.com/AlexStarov/tspl-label-GoLang-lib/log"
)

// Previewer shows a label to the operator before it is printed.
type Previewer interface {
	Preview(img image.Image, title string) error
}

// PreviewFunc adapts a function to Previewer.
type PreviewFunc func(img image.Image, title string) error

func (f PreviewFunc) Preview(img image.Image, title string) error { return f(img, title) }

// ViewerPreview writes the label to a PNG in Dir (the system temp dir when
// empty) and opens it with the desktop's default image viewer.
type ViewerPreview struct {
	Dir string
}

func (v ViewerPreview) Preview(img image.Image, title string) error {
	dir := v.Dir
	if dir == "" {
		dir = filepath.Join(os.TempDir(), "labelprint-preview")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create preview directory: %w", err)
	}

	f, err := os.CreateTemp(dir, previewPattern(title))
	if err != nil {
		return fmt.Errorf("create preview file: %w", err)
	}
	path := f.Name()
	f.Close()

	if err := imaging.Save(img, path); err != nil {
		return fmt.Errorf("write preview: %w", err)
	}
	logInternal.L().Info("opening preview", zap.String("title", title), zap.String("file", path))
	if err := browser.OpenFile(path); err != nil {
		return fmt.Errorf("open preview viewer: %w", err)
	}
	return nil
}

// FilePreview saves the label to Path; the format follows the extension.
type FilePreview struct {
	Path string
}

func (p FilePreview) Preview(img image.Image, title string) error {
	if err := imaging.Save(img, p.Path); err != nil {
		return fmt.Errorf("write preview %s: %w", p.Path, err)
	}
	logInternal.L().Info("preview saved", zap.String("title", title), zap.String("file", p.Path))
	return nil
}

// previewPattern turns "Text label (readable orientation)" into
// "text-label-*.png".
func previewPattern(title string) string {
	name := strings.ToLower(title)
	if i := strings.IndexByte(name, '('); i >= 0 {
		name = name[:i]
	}
	name = strings.Join(strings.Fields(name), "-")
	if name == "" {
		name = "label"
	}
	return name + "-*.png"
}
