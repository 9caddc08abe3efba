package printer

import (
	"errors"
	"io"
)

// ErrTransport marks failures to open, write to or read from the device.
var ErrTransport = errors.New("printer transport")

// Transport is the byte pipe to the printer.
type Transport interface {
	Write([]byte) (int, error)
	Read([]byte) (int, error)
	Close() error
}

// RawTransport passes bytes straight through to the connection.
type RawTransport struct {
	conn io.ReadWriteCloser
}

func (r *RawTransport) Write(b []byte) (int, error) { return r.conn.Write(b) }
func (r *RawTransport) Read(b []byte) (int, error)  { return r.conn.Read(b) }
func (r *RawTransport) Close() error                { return r.conn.Close() }

type nopCloser struct {
	io.ReadWriter
}

func (n nopCloser) Close() error { return nil }
