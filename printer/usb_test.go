package printer

import (
	"context"
	"testing"
	"time"

	"github.com/google/gousb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// packetEndpoint delivers whole packets only. A buffer that is not a
// multiple of the packet size overflows, as it does in libusb.
type packetEndpoint struct {
	size    int
	packets [][]byte
	reads   []int
}

func (e *packetEndpoint) ReadContext(ctx context.Context, buf []byte) (int, error) {
	e.reads = append(e.reads, len(buf))
	if len(buf)%e.size != 0 {
		return 0, gousb.ErrorOverflow
	}
	if len(e.packets) == 0 {
		<-ctx.Done()
		return 0, ctx.Err()
	}
	n := copy(buf, e.packets[0])
	e.packets = e.packets[1:]
	return n, nil
}

func TestUSBReadLineAcrossPackets(t *testing.T) {
	ep := &packetEndpoint{size: 64, packets: [][]byte{[]byte("OK\r\nRE"), []byte("ST\r\n")}}
	p := NewPrinter(&usbConn{in: ep, packetSize: 64, timeout: ReadTimeout})
	p.ReadTimeout = 100 * time.Millisecond

	line, err := p.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, []byte("OK\r\n"), line)

	line, err = p.ReadLine()
	require.NoError(t, err)
	assert.Equal(t, []byte("REST\r\n"), line)

	assert.Equal(t, []int{64, 64}, ep.reads)
}

func TestUSBReadSilentDevice(t *testing.T) {
	ep := &packetEndpoint{size: 64}
	p := NewPrinter(&usbConn{in: ep, packetSize: 64, timeout: ReadTimeout})
	p.ReadTimeout = 50 * time.Millisecond

	start := time.Now()
	line, err := p.ReadLine()
	require.NoError(t, err)
	assert.Empty(t, line)
	assert.Less(t, time.Since(start), time.Second)
}

func TestUSBReadRoundsUpToPackets(t *testing.T) {
	ep := &packetEndpoint{size: 64, packets: [][]byte{[]byte("hello")}}
	conn := &usbConn{in: ep}

	buf := make([]byte, 100)
	n, err := conn.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(buf[:n]))
	assert.Equal(t, []int{128}, ep.reads)
}

func TestUSBReadWithoutInEndpoint(t *testing.T) {
	n, err := (&usbConn{}).Read(make([]byte, 1))
	assert.NoError(t, err)
	assert.Zero(t, n)
}
