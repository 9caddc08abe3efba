// Package config collects labelprint settings from command line flags and
// LABELPRINT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	imgInternal "github.com/AlexStarov/tspl-label-GoLang-lib/image"
	"github.com/AlexStarov/tspl-label-GoLang-lib/label"
	logInternal "github.com/AlexStarov/tspl-label-GoLang-lib/log"
	"github.com/AlexStarov/tspl-label-GoLang-lib/printer"
)

// EnvPrefix prefixes environment overrides, e.g. LABELPRINT_DEVICE.
const EnvPrefix = "LABELPRINT"

// ErrUsage wraps every invalid combination of settings.
var ErrUsage = errors.New("usage")

// Source is the kind of content being printed.
type Source int

const (
	SourceNone Source = iota
	SourceImage
	SourceText
	SourceQR
)

func (s Source) String() string {
	switch s {
	case SourceImage:
		return "image"
	case SourceText:
		return "text"
	case SourceQR:
		return "qr"
	default:
		return "none"
	}
}

// Config is one invocation's settings.
type Config struct {
	Image string
	Text  string
	QR    string

	FontSize int
	FontPath string

	Threshold int
	Dither    bool

	Density int
	Copies  int
	Device  string

	PreviewOnly bool
	PreviewOut  string

	LogLevel string
	LogFile  string

	source Source
}

// Flag names.
const (
	flagImage       = "image"
	flagText        = "text"
	flagQR          = "qr"
	flagFontSize    = "font-size"
	flagFontPath    = "font-path"
	flagThreshold   = "threshold"
	flagDither      = "dither"
	flagDensity     = "density"
	flagCopies      = "copies"
	flagDevice      = "device"
	flagPreviewOnly = "preview-only"
	flagPreviewOut  = "preview-out"
	flagLogLevel    = "log-level"
	flagLogFile     = "log-file"
)

// sources are never taken from the environment. Order matches Source.
var sources = []string{flagImage, flagText, flagQR}

// NewFlagSet defines all labelprint flags with their defaults.
func NewFlagSet(name string) *pflag.FlagSet {
	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SortFlags = false

	fs.StringP(flagImage, "i", "", "Path to an image file to print.")
	fs.StringP(flagText, "t", "", "Text to render as a centered label.")
	fs.StringP(flagQR, "q", "", "Content to print as a QR code label.")

	fs.Int(flagFontSize, label.DefaultFontSize, "Font size in pixels for text mode.")
	fs.String(flagFontPath, label.DefaultFontPath, "Path to a TrueType font.")
	fs.Int(flagThreshold, imgInternal.DefaultThreshold, "Luma cutoff 0-255 for image mode; darker prints black.")
	fs.Bool(flagDither, false, "Dither images instead of thresholding them.")

	fs.Int(flagDensity, printer.DefaultDensity, "Print density.")
	fs.Int(flagCopies, printer.DefaultCopies, "Number of copies to print.")
	fs.String(flagDevice, printer.DefaultDevice, "Serial device of the printer, or usb:VID:PID.")

	fs.Bool(flagPreviewOnly, false, "Preview the label only and exit. Nothing is sent to the printer.")
	fs.String(flagPreviewOut, "", "Write the preview to this PNG file instead of opening a viewer.")

	fs.String(flagLogLevel, logInternal.INFO, "Log level: DEBUG, INFO, WARN or ERROR.")
	fs.String(flagLogFile, "", "Also append log output to this file.")
	return fs
}

// Load parses args with fs, layers LABELPRINT_* environment variables under
// the flags and validates the result.
func Load(fs *pflag.FlagSet, args []string) (*Config, error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", ErrUsage, err)
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected arguments %q", ErrUsage, fs.Args())
	}

	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var bindErr error
	fs.VisitAll(func(f *pflag.Flag) {
		for _, s := range sources {
			if f.Name == s {
				return
			}
		}
		if err := v.BindPFlag(f.Name, f); err != nil && bindErr == nil {
			bindErr = err
		}
	})
	if bindErr != nil {
		return nil, bindErr
	}

	image, _ := fs.GetString(flagImage)
	text, _ := fs.GetString(flagText)
	qr, _ := fs.GetString(flagQR)

	cfg := &Config{
		Image:       image,
		Text:        text,
		QR:          qr,
		FontSize:    v.GetInt(flagFontSize),
		FontPath:    v.GetString(flagFontPath),
		Threshold:   v.GetInt(flagThreshold),
		Dither:      v.GetBool(flagDither),
		Density:     v.GetInt(flagDensity),
		Copies:      v.GetInt(flagCopies),
		Device:      v.GetString(flagDevice),
		PreviewOnly: v.GetBool(flagPreviewOnly),
		PreviewOut:  v.GetString(flagPreviewOut),
		LogLevel:    v.GetString(flagLogLevel),
		LogFile:     v.GetString(flagLogFile),
	}
	if err := cfg.validate(fs); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate(fs *pflag.FlagSet) error {
	var given []string
	for i, s := range sources {
		if fs.Changed(s) {
			given = append(given, "--"+s)
			c.source = Source(i + 1)
		}
	}
	switch len(given) {
	case 0:
		return fmt.Errorf("%w: one of --image, --text or --qr is required", ErrUsage)
	case 1:
	default:
		return fmt.Errorf("%w: %s are mutually exclusive", ErrUsage, strings.Join(given, ", "))
	}
	if c.Threshold < 0 || c.Threshold > 255 {
		return fmt.Errorf("%w: --threshold must be between 0 and 255, got %d", ErrUsage, c.Threshold)
	}
	if _, err := logInternal.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}
	return nil
}

// Source reports which content flag was given.
func (c *Config) Source() Source {
	return c.source
}

// LabelOptions converts the rasterization settings. Preview is left unset.
func (c *Config) LabelOptions() label.Options {
	return label.Options{
		Threshold: uint8(c.Threshold),
		Dither:    c.Dither,
		FontPath:  c.FontPath,
		FontSize:  c.FontSize,
	}
}

// LogConfig converts the logging settings.
func (c *Config) LogConfig() logInternal.Config {
	return logInternal.Config{Level: c.LogLevel, File: c.LogFile}
}
