package protocol

import (
	"fmt"
	"io"
)

// Decode reads one frame from r.
//
// Every frame on the line is preceded by IdleByte, which is consumed and
// dropped. The returned packet starts at the frame marker and ends with
// the hash, so an echoed request compares equal to the Packet that was
// sent.
//
// A short read is returned as the reader's error; Decode never resyncs
// or retries.
func Decode(r io.Reader) (Packet, error) {
	var b [1]byte

	if _, err := io.ReadFull(r, b[:]); err != nil {
		return nil, fmt.Errorf("read idle byte: %w", err)
	}
	if b[0] != IdleByte {
		return nil, fmt.Errorf("%w: got 0x%02X, expected 0x%02X", ErrUnexpectedPacketStart, b[0], IdleByte)
	}

	if _, err := io.ReadFull(r, b[:]); err != nil {
		return nil, fmt.Errorf("read frame marker: %w", err)
	}
	if b[0] != FrameMarker {
		return nil, fmt.Errorf("%w: got 0x%02X, expected 0x%02X", ErrUnexpectedPacketType, b[0], FrameMarker)
	}

	if _, err := io.ReadFull(r, b[:]); err != nil {
		return nil, fmt.Errorf("read length: %w", err)
	}
	length := b[0]
	if length < AddressingSize {
		return nil, fmt.Errorf("%w: length field 0x%02X is below %d", ErrInvalidPacketLength, length, AddressingSize)
	}

	// LEN counts addressing and payload; the hash byte follows them.
	frame := make([]byte, 2+int(length)+1)
	frame[offsetMarker] = FrameMarker
	frame[offsetLength] = length
	if _, err := io.ReadFull(r, frame[2:]); err != nil {
		return nil, fmt.Errorf("read frame body (%d bytes): %w", int(length)+1, err)
	}

	if err := verifyHash(frame); err != nil {
		return nil, err
	}

	return Packet(frame), nil
}

// Parse validates a complete frame that does not carry the idle byte.
//
// Frame structure:
//
//	[0xF0][LEN][DST_ADDR][DST_EP][SRC_ADDR][SRC_EP][PAYLOAD...][HASH]
func Parse(frame []byte) (Packet, error) {
	if len(frame) < MinFrameSize {
		return nil, fmt.Errorf("%w: got %d bytes, minimum is %d", ErrInvalidPacketLength, len(frame), MinFrameSize)
	}

	if frame[offsetMarker] != FrameMarker {
		return nil, fmt.Errorf("%w: got 0x%02X, expected 0x%02X", ErrUnexpectedPacketType, frame[offsetMarker], FrameMarker)
	}

	expected := 2 + int(frame[offsetLength]) + 1
	if frame[offsetLength] < AddressingSize || len(frame) != expected {
		return nil, fmt.Errorf("%w: got %d bytes, length field promises %d", ErrInvalidPacketLength, len(frame), expected)
	}

	if err := verifyHash(frame); err != nil {
		return nil, err
	}

	return Packet(frame), nil
}

// verifyHash checks the trailing hash of a frame that starts at the marker.
func verifyHash(frame []byte) error {
	received := frame[len(frame)-1]
	computed := xorBytes(frame[offsetLength : len(frame)-1])
	if received != computed {
		return fmt.Errorf("%w: got 0x%02X, computed 0x%02X", ErrInvalidPacketHash, received, computed)
	}
	return nil
}

// ParseIdentifyResponse extracts the unit identity and hardware name from
// the response to BuildIdentifyCmd.
//
// Response structure:
//
//	[0xF0][LEN][0x50][0x90][UNIT_ADDR][UNIT_EP][STATUS][HARDWARE...][X][X][HASH]
//
// The hardware name is the ASCII text between the status byte and the
// last three bytes of the frame.
func ParseIdentifyResponse(p Packet) (*UnitInfo, error) {
	if len(p) < identifyHardwareOffset+identifyTrailerSize {
		return nil, fmt.Errorf("%w: identify response is %d bytes, minimum is %d",
			ErrShortResponse, len(p), identifyHardwareOffset+identifyTrailerSize)
	}

	hardware := p[identifyHardwareOffset : len(p)-identifyTrailerSize]
	for _, c := range hardware {
		if c > 0x7F {
			return nil, fmt.Errorf("hardware name is not ASCII: % X", hardware)
		}
	}

	return &UnitInfo{
		Identity: p.Source(),
		Hardware: string(hardware),
	}, nil
}

// ParseChecksumResponse extracts the image checksum from the response to
// BuildChecksumCmd.
//
// Response structure:
//
//	[0xF0][LEN][0x50][0x90][UNIT_ADDR][UNIT_EP][STATUS][X][SUM_H][SUM_M][SUM_L]...[HASH]
//
// The checksum is a 24-bit big-endian value.
func ParseChecksumResponse(p Packet) (uint32, error) {
	if len(p) < checksumOffset+ChecksumSize {
		return 0, fmt.Errorf("%w: checksum response is %d bytes, minimum is %d",
			ErrShortResponse, len(p), checksumOffset+ChecksumSize)
	}

	sum := p[checksumOffset : checksumOffset+ChecksumSize]
	return uint32(sum[0])<<16 | uint32(sum[1])<<8 | uint32(sum[2]), nil
}
