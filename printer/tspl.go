package printer

import (
	"bytes"
	"fmt"
	"io"
)

// Label geometry as declared to the printer.
const (
	BitmapBytesPerRow = 12
	BitmapRows        = 284

	DefaultDensity = 7
	DefaultCopies  = 1
)

// BitmapMode is the TSPL BITMAP drawing mode.
type BitmapMode int

const (
	ModeOverwrite BitmapMode = 0
	ModeOR        BitmapMode = 1
	ModeXOR       BitmapMode = 2
)

// Fixed page setup for 14x40 mm labels with a 5 mm gap.
var header = []string{
	"SIZE 14.0 mm,40.0 mm",
	"GAP 5.0 mm,0 mm",
	"DIRECTION 1,1",
}

const crlf = "\r\n"

// Command is one TSPL print job: page setup, a single full-label bitmap
// and the print instruction.
//
// Density and Copies are sent as given; the firmware decides what is in
// range.
type Command struct {
	Bitmap  []byte
	Density int
	Copies  int
	Mode    BitmapMode

	// BytesPerRow and Rows describe Bitmap in the BITMAP line.
	BytesPerRow int
	Rows        int
}

// NewCommand returns a command for a 96x284 label bitmap with the
// default density, one copy and overwrite mode.
func NewCommand(bitmap []byte) *Command {
	return &Command{
		Bitmap:      bitmap,
		Density:     DefaultDensity,
		Copies:      DefaultCopies,
		Mode:        ModeOverwrite,
		BytesPerRow: BitmapBytesPerRow,
		Rows:        BitmapRows,
	}
}

// WriteTo writes the framed command to w.
func (c *Command) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	buf.Grow(128 + len(c.Bitmap))

	for _, line := range header {
		buf.WriteString(line)
		buf.WriteString(crlf)
	}
	fmt.Fprintf(&buf, "DENSITY %d\r\n", c.Density)
	buf.WriteString("CLS" + crlf)
	fmt.Fprintf(&buf, "BITMAP 0,0,%d,%d,%d,", c.BytesPerRow, c.Rows, c.Mode)
	buf.Write(c.Bitmap)
	buf.WriteString(crlf)
	fmt.Fprintf(&buf, "PRINT %d\r\n", c.Copies)

	return buf.WriteTo(w)
}

// Bytes returns the framed command.
func (c *Command) Bytes() []byte {
	var buf bytes.Buffer
	c.WriteTo(&buf)
	return buf.Bytes()
}

// BuildCommand frames bitmap with the given density and copies count.
func BuildCommand(bitmap []byte, density, copies int) []byte {
	c := NewCommand(bitmap)
	c.Density = density
	c.Copies = copies
	return c.Bytes()
}
