package transport

import (
	"errors"
	"fmt"
)

var (
	// ErrCorruptedEcho is returned when the frame reflected by the line
	// differs from the frame that was written.
	ErrCorruptedEcho = errors.New("corrupted packet echo")

	// ErrDeviceRejected is matched by RejectedError.
	ErrDeviceRejected = errors.New("control unit rejected the command")

	// ErrReadTimeout is returned when the port read timeout expires
	// before a frame is complete.
	ErrReadTimeout = errors.New("read timeout")

	// ErrShortWrite is returned when the port accepts fewer bytes than
	// the frame holds.
	ErrShortWrite = errors.New("short write")
)

// RejectedError is returned by RequestChecked when the response status
// byte is not protocol.StatusSuccess.
type RejectedError struct {
	// Command is the first payload byte of the request
	Command byte

	// Status is the first payload byte of the response
	Status byte
}

func (e *RejectedError) Error() string {
	return fmt.Sprintf("command 0x%02X rejected by control unit: status 0x%02X", e.Command, e.Status)
}

// Is reports whether target is ErrDeviceRejected.
func (e *RejectedError) Is(target error) bool {
	return target == ErrDeviceRejected
}
