package protocol

// Frame structure constants.
const (
	// IdleByte precedes every frame read back from the line (0x00)
	IdleByte byte = 0x00

	// FrameMarker is the first byte of every frame (0xF0)
	FrameMarker byte = 0xF0

	// AddressingSize is the number of bytes counted by the length field
	// besides the payload: destination address/endpoint plus source
	// address/endpoint
	AddressingSize = 4

	// HeaderSize is MARKER(1) + LEN(1) + DST(2) + SRC(2)
	HeaderSize = 6

	// MinFrameSize is the size of a frame with an empty payload:
	// HeaderSize + HASH(1)
	MinFrameSize = HeaderSize + 1

	// MaxPayloadSize keeps the length field within a single byte
	MaxPayloadSize = 0xFF - AddressingSize
)

// Frame field offsets, counted from the frame marker.
const (
	offsetMarker      = 0
	offsetLength      = 1
	offsetDstAddress  = 2
	offsetDstEndpoint = 3
	offsetSrcAddress  = 4
	offsetSrcEndpoint = 5
	offsetPayload     = HeaderSize
)

// Command codes. The command is the first payload byte of a request.
const (
	// CmdData carries a firmware record; also used for the final commit record
	CmdData byte = 0x01

	// CmdIdentify asks the unit for its address, endpoint and hardware name
	CmdIdentify byte = 0x02

	// CmdChecksum asks the unit for the checksum of the received image
	CmdChecksum byte = 0x03

	// CmdRebootToBootloader restarts the unit into its bootloader
	CmdRebootToBootloader byte = 0x06

	// CmdErase prepares the unit for data reception
	CmdErase byte = 0x10
)

// StatusSuccess is the first payload byte of a successful response.
const StatusSuccess byte = 0x00

// MaxRecordSize is the largest firmware record that fits a CmdData payload.
const MaxRecordSize = MaxPayloadSize - 1

// Response layout, counted from the frame marker.
const (
	// identifyHardwareOffset is where the ASCII hardware name starts
	identifyHardwareOffset = 7

	// identifyTrailerSize is the number of bytes after the hardware name,
	// hash included
	identifyTrailerSize = 3

	// checksumOffset is where the 3-byte big-endian image checksum starts
	checksumOffset = 8

	// ChecksumSize is the width of the image checksum in bytes
	ChecksumSize = 3
)

// rebootToBootloaderFrame is sent as-is on the bus before the unit is
// known. It addresses every unit and carries CmdRebootToBootloader.
var rebootToBootloaderFrame = []byte{
	0x55, 0x0D, 0xFF, 0xFF, 0x50, 0x90, 0x08, CmdRebootToBootloader,
	0xCE, 0x00, 0xF0, 0xA9, 0x00, 0x00, 0x59, 0x0D,
}

// commitRecord is a zero-length record with the reboot flag set.
var commitRecord = []byte{0x00, 0x00, 0x00, 0x01, 0xFF}
