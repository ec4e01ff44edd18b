package transport

import (
	"fmt"
	"io"
	"time"

	"go.bug.st/serial"
)

// SerialConfig describes how a serial port is opened.
type SerialConfig struct {
	// BaudRate is the line speed; control units run at 19200
	BaudRate int

	// ReadTimeout bounds every read
	ReadTimeout time.Duration
}

// DefaultSerialConfig returns 19200 8N1 with a 2 second read timeout.
func DefaultSerialConfig() SerialConfig {
	return SerialConfig{
		BaudRate:    19200,
		ReadTimeout: 2 * time.Second,
	}
}

// Conn is a Port that must be closed when the session is over.
type Conn interface {
	Port
	io.Closer
}

// OpenSerial opens the named serial port (e.g. "/dev/ttyUSB0", "COM3")
// and drops anything already waiting in its input buffer.
func OpenSerial(name string, cfg SerialConfig) (Conn, error) {
	mode := &serial.Mode{
		BaudRate: cfg.BaudRate,
		Parity:   serial.NoParity,
		DataBits: 8,
		StopBits: serial.OneStopBit,
	}

	port, err := serial.Open(name, mode)
	if err != nil {
		return nil, fmt.Errorf("failed to open port %s: %w", name, err)
	}

	if err := port.SetReadTimeout(cfg.ReadTimeout); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("failed to set read timeout: %w", err)
	}

	if err := port.ResetInputBuffer(); err != nil {
		_ = port.Close()
		return nil, fmt.Errorf("failed to reset input buffer: %w", err)
	}

	return port, nil
}

// ListPorts returns the names of the serial ports present on the system.
func ListPorts() ([]string, error) {
	return serial.GetPortsList()
}
