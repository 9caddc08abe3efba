// Command labelprint prints an image, a line of text or a QR code on a
// P21-class thermal label printer over a serial (Bluetooth RFCOMM) link.
//
//	labelprint -t "Hello"
//	labelprint -i photo.jpg --density 10 --copies 2
//	labelprint -t "Hello" --preview-only
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/AlexStarov/tspl-label-GoLang-lib/config"
	"github.com/AlexStarov/tspl-label-GoLang-lib/label"
	logInternal "github.com/AlexStarov/tspl-label-GoLang-lib/log"
	"github.com/AlexStarov/tspl-label-GoLang-lib/printer"
)

// Exit codes.
const (
	exitInput     = 1
	exitUsage     = 2
	exitTransport = 3
)

// ExitError carries the process exit code out of run.
type ExitError struct {
	Code    int
	Message string
}

func (e *ExitError) Error() string { return e.Message }

// deps are the side effects run needs, swapped out in tests.
type deps struct {
	transmit  func(device string, cmd []byte) ([]byte, error)
	previewer func(cfg *config.Config) label.Previewer
	jobID     func() (string, error)
}

func defaultDeps() deps {
	return deps{
		transmit:  printer.Transmit,
		previewer: previewerFor,
		jobID:     newJobID,
	}
}

func newJobID() (string, error) { return gonanoid.New(10) }

func previewerFor(cfg *config.Config) label.Previewer {
	if cfg.PreviewOut != "" {
		return label.FilePreview{Path: cfg.PreviewOut}
	}
	return label.ViewerPreview{}
}

func main() {
	err := run(os.Args[1:], os.Stdout, os.Stderr, defaultDeps())
	logInternal.Sync()
	if err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			if exitErr.Message != "" {
				fmt.Fprintln(os.Stderr, exitErr.Message)
			}
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer, d deps) error {
	fs := config.NewFlagSet("labelprint")
	fs.SetOutput(stderr)

	cfg, err := config.Load(fs, args)
	if errors.Is(err, pflag.ErrHelp) {
		return nil
	}
	if err != nil {
		return &ExitError{Code: exitUsage, Message: err.Error()}
	}

	if err := logInternal.Init(cfg.LogConfig()); err != nil {
		return &ExitError{Code: exitUsage, Message: err.Error()}
	}

	jobID, err := d.jobID()
	if err != nil {
		logInternal.L().Debug("job id not generated", zap.Error(err))
		jobID = ""
	}
	logger := logInternal.L().With(
		zap.String("job", jobID),
		zap.Stringer("source", cfg.Source()))

	opts := cfg.LabelOptions()
	if cfg.PreviewOnly || cfg.PreviewOut != "" {
		opts.Preview = d.previewer(cfg)
	}

	bitmap, err := rasterize(cfg, opts)
	if err != nil {
		logger.Error("rasterizing label failed", zap.Error(err))
		return &ExitError{Code: exitInput, Message: err.Error()}
	}
	logger.Debug("label rasterized", zap.Int("bytes", len(bitmap)))

	if cfg.PreviewOnly {
		logger.Info("preview only, nothing sent to the printer")
		return nil
	}

	cmd := printer.BuildCommand(bitmap, cfg.Density, cfg.Copies)
	logger.Info("sending label",
		zap.String("device", cfg.Device),
		zap.Int("density", cfg.Density),
		zap.Int("copies", cfg.Copies),
		zap.Int("bytes", len(cmd)))

	resp, err := d.transmit(cfg.Device, cmd)
	if err != nil {
		logger.Error("sending to printer failed", zap.String("device", cfg.Device), zap.Error(err))
		return &ExitError{Code: exitTransport}
	}

	fmt.Fprintf(stdout, "%q\n", resp)
	return nil
}

func rasterize(cfg *config.Config, opts label.Options) ([]byte, error) {
	switch cfg.Source() {
	case config.SourceImage:
		return label.FromImageFile(cfg.Image, opts)
	case config.SourceText:
		return label.FromText(cfg.Text, opts)
	case config.SourceQR:
		return label.FromQR(cfg.QR, opts)
	default:
		return nil, fmt.Errorf("nothing to print")
	}
}
