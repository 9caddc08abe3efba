package printer

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	logInternal "github.com/AlexStarov/tspl-label-GoLang-lib/log"
	"github.com/AlexStarov/tspl-label-GoLang-lib/util"
)

// Serial link settings of the label printer.
const (
	BaudRate    = 115200
	ReadTimeout = 3 * time.Second

	// DefaultDevice is the RFCOMM node a paired Bluetooth printer shows up as.
	DefaultDevice = "/dev/rfcomm0"

	usbPrefix = "usb:"
)

// Printer sends framed commands over a Transport and reads the reply.
type Printer struct {
	t Transport

	// ReadTimeout bounds the whole ReadLine call.
	ReadTimeout time.Duration

	sync.Mutex
}

// NewPrinter creates a new printer using the specified connection.
func NewPrinter(w io.ReadWriter) *Printer {
	var transport Transport
	if t, ok := w.(Transport); ok {
		transport = t
	} else {
		// Любой io.ReadWriter (например, bytes.Buffer) оборачиваем в nopCloser
		transport = &RawTransport{conn: nopCloser{w}}
	}
	return &Printer{
		t:           transport,
		ReadTimeout: ReadTimeout,
	}
}

// Open connects to device. "usb:VID:PID" (hex ids) selects a USB printer,
// anything else is taken as a serial port path.
func Open(device string) (*Printer, error) {
	if rest, ok := strings.CutPrefix(device, usbPrefix); ok {
		vid, pid, err := parseUSBDevice(rest)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrTransport, err)
		}
		return NewUSBPrinter(vid, pid)
	}
	return NewSerialPrinter(device, BaudRate)
}

func parseUSBDevice(s string) (vid, pid uint16, err error) {
	parts := strings.Split(s, ":")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("usb device must be usb:VID:PID, got %q", usbPrefix+s)
	}
	if vid, err = util.ParseHexID(parts[0]); err != nil {
		return 0, 0, fmt.Errorf("usb vendor id: %w", err)
	}
	if pid, err = util.ParseHexID(parts[1]); err != nil {
		return 0, 0, fmt.Errorf("usb product id: %w", err)
	}
	return vid, pid, nil
}

// Write writes buf to printer.
func (p *Printer) Write(buf []byte) (int, error) {
	return p.t.Write(buf)
}

// CloseConnection releases the underlying device.
func (p *Printer) CloseConnection() error {
	return p.t.Close()
}

// Send writes cmd in a single call and returns the first line the printer
// answers with. A printer that stays silent yields an empty response, not
// an error.
func (p *Printer) Send(cmd []byte) ([]byte, error) {
	p.Lock()
	defer p.Unlock()

	n, err := p.t.Write(cmd)
	if err != nil {
		return nil, fmt.Errorf("%w: write: %w", ErrTransport, err)
	}
	if n != len(cmd) {
		return nil, fmt.Errorf("%w: short write: %d of %d bytes", ErrTransport, n, len(cmd))
	}
	logInternal.L().Debug("command written", zap.Int("bytes", n))

	return p.readLine()
}

// ReadLine reads up to and including the next '\n'. It returns early with
// whatever arrived when the device times out or ReadTimeout elapses. The
// device read timeout is lowered before every read so the call as a whole
// never outlasts ReadTimeout.
func (p *Printer) ReadLine() ([]byte, error) {
	p.Lock()
	defer p.Unlock()
	return p.readLine()
}

// readTimeoutSetter is implemented by serial.Port and the USB connection.
type readTimeoutSetter interface {
	SetReadTimeout(t time.Duration) error
}

func (p *Printer) readLine() ([]byte, error) {
	deadline := time.Now().Add(p.ReadTimeout)
	setter, _ := p.t.(readTimeoutSetter)
	var line []byte
	b := make([]byte, 1)
	for {
		left := time.Until(deadline)
		if left <= 0 {
			break
		}
		if setter != nil {
			// Одно чтение не должно пережить общий таймаут
			if err := setter.SetReadTimeout(left); err != nil {
				return line, fmt.Errorf("%w: set read timeout: %w", ErrTransport, err)
			}
		}
		n, err := p.t.Read(b)
		if n == 1 {
			line = append(line, b[0])
			if b[0] == '\n' {
				break
			}
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return line, fmt.Errorf("%w: read: %w", ErrTransport, err)
		}
		// n == 0 без ошибки: таймаут чтения порта
		break
	}
	logInternal.L().Debug("response read", zap.ByteString("line", line))
	return line, nil
}

// Transmit opens device, sends cmd, reads one response line and closes the
// device again whatever happened.
func Transmit(device string, cmd []byte) (resp []byte, err error) {
	p, err := Open(device)
	if err != nil {
		return nil, err
	}
	defer func() {
		cerr := p.CloseConnection()
		logInternal.PrintIfErr("closing printer connection "+device, &cerr)
	}()
	return p.Send(cmd)
}
