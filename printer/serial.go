package printer

import (
	"fmt"

	"go.bug.st/serial"
	"go.uber.org/zap"

	logInternal "github.com/AlexStarov/tspl-label-GoLang-lib/log"
)

// openSerialPort is replaced in tests.
var openSerialPort = func(name string, mode *serial.Mode) (serial.Port, error) {
	return serial.Open(name, mode)
}

// NewSerialPrinter opens portName (e.g. /dev/rfcomm0, /dev/ttyUSB0, COM3)
// at baudRate 8N1 with the ReadTimeout applied to every read.
func NewSerialPrinter(portName string, baudRate int) (*Printer, error) {
	mode := &serial.Mode{
		BaudRate: baudRate,
		Parity:   serial.NoParity,
		DataBits: 8,
		StopBits: serial.OneStopBit,
	}

	logInternal.L().Debug("opening serial port",
		zap.String("port", portName), zap.Int("baud", baudRate))

	port, err := openSerialPort(portName, mode)
	if err != nil {
		// Список портов только для диагностики: rfcomm-узлы в нём обычно не видны.
		if ports, lerr := serial.GetPortsList(); lerr == nil {
			logInternal.L().Debug("available serial ports", zap.Strings("ports", ports))
		}
		return nil, fmt.Errorf("%w: open serial port %s: %w", ErrTransport, portName, err)
	}

	if err := port.SetReadTimeout(ReadTimeout); err != nil {
		port.Close()
		return nil, fmt.Errorf("%w: set read timeout on %s: %w", ErrTransport, portName, err)
	}
	logInternal.L().Info("serial port opened", zap.String("port", portName))

	return NewPrinter(port), nil
}
