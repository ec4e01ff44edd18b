package firmware

import (
	"errors"
	"fmt"
	"strings"
)

// Container format constants.
const (
	// Marker is the literal second header line
	Marker = "NICE.FIRMWARE"

	// EndOfData is the line that terminates the data records
	EndOfData = ":00000001FF"

	// RecordPrefix starts every data line
	RecordPrefix = ':'

	// headerLines is the number of lines before the first record
	headerLines = 5
)

var (
	// ErrInvalidFirmwareFile is returned when the header is missing or malformed.
	ErrInvalidFirmwareFile = errors.New("invalid firmware file")

	// ErrInvalidFirmwareData is returned when a data line cannot be decoded.
	ErrInvalidFirmwareData = errors.New("invalid firmware data")
)

// Header is the metadata block at the top of a container.
type Header struct {
	// Checksum1 is the first header line; the update does not use it
	Checksum1 int

	// Marker is always "NICE.FIRMWARE"
	Marker string

	// Version is the firmware version text
	Version string

	// Hardware lists the hardware names the image is built for
	Hardware []string

	// Checksum2 is the checksum the unit must report after the transfer
	Checksum2 int
}

// Supports reports whether hardware appears in the header's hardware
// list. The comparison is exact.
func (h *Header) Supports(hardware string) bool {
	for _, hw := range h.Hardware {
		if hw == hardware {
			return true
		}
	}
	return false
}

func (h *Header) String() string {
	return fmt.Sprintf("%s version %s for %s", h.Marker, h.Version, strings.Join(h.Hardware, ","))
}
