package printer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/gousb"
	"go.uber.org/zap"

	logInternal "github.com/AlexStarov/tspl-label-GoLang-lib/log"
)

// defaultPacketSize is the bulk packet size of full-speed devices.
const defaultPacketSize = 64

// bulkIn is the reading half of a bulk endpoint.
type bulkIn interface {
	ReadContext(ctx context.Context, buf []byte) (int, error)
}

type usbConn struct {
	ctx  *gousb.Context
	dev  *gousb.Device
	cfg  *gousb.Config
	intf *gousb.Interface
	out  *gousb.OutEndpoint

	in         bulkIn
	packetSize int
	timeout    time.Duration
	// pending holds the rest of the last IN transfer.
	pending []byte
}

// NewUSBPrinter opens the first USB device matching vendorID:productID and
// talks to it over its bulk endpoints.
func NewUSBPrinter(vendorID, productID uint16) (*Printer, error) {
	conn, err := openUSB(gousb.ID(vendorID), gousb.ID(productID))
	if err != nil {
		return nil, fmt.Errorf("%w: usb %04x:%04x: %w", ErrTransport, vendorID, productID, err)
	}
	logInternal.L().Info("usb printer opened",
		zap.String("vid", hexID(vendorID)), zap.String("pid", hexID(productID)))
	return NewPrinter(conn), nil
}

func hexID(id uint16) string { return fmt.Sprintf("%04x", id) }

func openUSB(vendorID, productID gousb.ID) (*usbConn, error) {
	u := &usbConn{ctx: gousb.NewContext(), timeout: ReadTimeout}

	dev, err := u.ctx.OpenDeviceWithVIDPID(vendorID, productID)
	if err != nil {
		u.Close()
		return nil, err
	}
	if dev == nil {
		u.Close()
		return nil, errors.New("device not found")
	}
	u.dev = dev
	dev.SetAutoDetach(true)

	if u.cfg, err = dev.Config(1); err != nil {
		u.Close()
		return nil, err
	}
	if u.intf, err = u.cfg.Interface(0, 0); err != nil {
		u.Close()
		return nil, err
	}

	for _, ep := range u.intf.Setting.Endpoints {
		if ep.TransferType != gousb.TransferTypeBulk {
			continue
		}
		switch {
		case ep.Direction == gousb.EndpointDirectionOut && u.out == nil:
			u.out, err = u.intf.OutEndpoint(ep.Number)
		case ep.Direction == gousb.EndpointDirectionIn && u.in == nil:
			var in *gousb.InEndpoint
			if in, err = u.intf.InEndpoint(ep.Number); err == nil {
				u.in, u.packetSize = in, ep.MaxPacketSize
			}
		}
		if err != nil {
			u.Close()
			return nil, err
		}
	}
	if u.out == nil {
		u.Close()
		return nil, errors.New("no bulk out endpoint")
	}
	return u, nil
}

// SetReadTimeout bounds every following IN transfer.
func (u *usbConn) SetReadTimeout(t time.Duration) error {
	u.timeout = t
	return nil
}

// Read serves p from the last transfer and starts a new one only when that
// is used up. A timeout is reported as (0, nil), the same way a serial port
// does.
func (u *usbConn) Read(p []byte) (int, error) {
	if len(u.pending) == 0 {
		if u.in == nil {
			return 0, nil
		}
		if err := u.fill(len(p)); err != nil {
			return 0, err
		}
	}
	n := copy(p, u.pending)
	u.pending = u.pending[n:]
	return n, nil
}

// fill runs one IN transfer of whole packets. libusb fails a transfer
// with an overflow when the device sends more than the buffer holds.
func (u *usbConn) fill(want int) error {
	packet := u.packetSize
	if packet <= 0 {
		packet = defaultPacketSize
	}
	size := packet
	if want > size {
		size = (want + packet - 1) / packet * packet
	}
	buf := make([]byte, size)

	ctx, cancel := context.WithTimeout(context.Background(), u.timeout)
	defer cancel()

	n, err := u.in.ReadContext(ctx, buf)
	u.pending = buf[:n]
	// Отменённая по ctx передача тоже считается таймаутом
	if err == nil || n > 0 || isUSBTimeout(err) || ctx.Err() != nil {
		return nil
	}
	return err
}

func isUSBTimeout(err error) bool {
	return errors.Is(err, context.DeadlineExceeded) || errors.Is(err, gousb.ErrorTimeout)
}

func (u *usbConn) Write(p []byte) (int, error) {
	return u.out.Write(p)
}

func (u *usbConn) Close() error {
	if u.intf != nil {
		u.intf.Close()
	}
	if u.cfg != nil {
		u.cfg.Close()
	}
	if u.dev != nil {
		u.dev.Close()
	}
	if u.ctx != nil {
		u.ctx.Close()
	}
	return nil
}
