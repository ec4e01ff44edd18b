package protocol

import "fmt"

// Encode builds a frame carrying payload from Tool to dst.
//
// Frame structure:
//
//	[0xF0][LEN][DST_ADDR][DST_EP][0x50][0x90][PAYLOAD...][HASH]
//
// LEN is len(payload)+AddressingSize and HASH is the XOR of every byte
// from LEN through the last payload byte.
func Encode(payload []byte, dst Identity) (Packet, error) {
	return EncodeFrom(Tool, dst, payload)
}

// EncodeFrom builds a frame carrying payload from src to dst. Units use
// it to answer the tool.
func EncodeFrom(src, dst Identity, payload []byte) (Packet, error) {
	if len(payload) > MaxPayloadSize {
		return nil, fmt.Errorf("%w: got %d bytes, maximum is %d", ErrPayloadTooLarge, len(payload), MaxPayloadSize)
	}

	length := byte(len(payload) + AddressingSize)
	frame := make([]byte, 0, MinFrameSize+len(payload))

	frame = append(frame, FrameMarker, length)
	frame = append(frame, dst.Address, dst.Endpoint)
	frame = append(frame, src.Address, src.Endpoint)
	frame = append(frame, payload...)
	frame = append(frame, Hash(length, dst.Address, dst.Endpoint, src.Address, src.Endpoint, payload))

	return Packet(frame), nil
}

// RebootToBootloaderFrame returns the fixed frame that asks any unit on
// the bus to restart into its bootloader. It is written raw, not through
// Encode, and its reply is not meaningful: a unit that is already in the
// bootloader ignores it.
func RebootToBootloaderFrame() []byte {
	frame := make([]byte, len(rebootToBootloaderFrame))
	copy(frame, rebootToBootloaderFrame)
	return frame
}

// BuildIdentifyCmd returns the payload of an identification request.
func BuildIdentifyCmd() []byte {
	return []byte{CmdIdentify}
}

// BuildEraseCmd returns the payload that prepares the unit for data.
func BuildEraseCmd() []byte {
	return []byte{CmdErase}
}

// BuildDataCmd returns the payload that carries one firmware record.
//
// Payload structure:
//
//	[0x01][RECORD...]
func BuildDataCmd(record []byte) ([]byte, error) {
	if len(record) > MaxRecordSize {
		return nil, fmt.Errorf("%w: record is %d bytes, maximum is %d", ErrPayloadTooLarge, len(record), MaxRecordSize)
	}

	payload := make([]byte, 0, 1+len(record))
	payload = append(payload, CmdData)
	payload = append(payload, record...)
	return payload, nil
}

// BuildChecksumCmd returns the payload of an image checksum request.
func BuildChecksumCmd() []byte {
	return []byte{CmdChecksum}
}

// BuildCommitCmd returns the payload of the final record: a zero-length
// record with the reboot flag set, which makes the unit finalize the
// image and boot into it.
func BuildCommitCmd() []byte {
	payload := make([]byte, 0, 1+len(commitRecord))
	payload = append(payload, CmdData)
	payload = append(payload, commitRecord...)
	return payload
}
