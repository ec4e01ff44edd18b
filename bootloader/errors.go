package bootloader

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrIncompatibleHardware is matched by IncompatibleHardwareError.
	ErrIncompatibleHardware = errors.New("firmware is not compatible with control unit hardware")

	// ErrChecksumMismatch is matched by ChecksumMismatchError.
	ErrChecksumMismatch = errors.New("firmware checksum mismatch")
)

// IncompatibleHardwareError indicates that the unit's hardware is not in
// the container's hardware list.
type IncompatibleHardwareError struct {
	Hardware  string
	Supported []string
}

func (e *IncompatibleHardwareError) Error() string {
	return fmt.Sprintf("firmware supports %s, control unit hardware is %q",
		strings.Join(e.Supported, ","), e.Hardware)
}

// Is reports whether target is ErrIncompatibleHardware.
func (e *IncompatibleHardwareError) Is(target error) bool {
	return target == ErrIncompatibleHardware
}

// ChecksumMismatchError indicates that the checksum the unit computed
// over the received image differs from the container's checksum2.
type ChecksumMismatchError struct {
	Expected int
	Actual   uint32
}

func (e *ChecksumMismatchError) Error() string {
	return fmt.Sprintf("checksum mismatch: firmware expects 0x%06X, control unit computed 0x%06X",
		e.Expected, e.Actual)
}

// Is reports whether target is ErrChecksumMismatch.
func (e *ChecksumMismatchError) Is(target error) bool {
	return target == ErrChecksumMismatch
}
