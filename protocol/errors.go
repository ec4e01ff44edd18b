package protocol

import "errors"

var (
	// ErrUnexpectedPacketStart is returned when a received frame is not
	// preceded by IdleByte.
	ErrUnexpectedPacketStart = errors.New("unexpected packet start")

	// ErrUnexpectedPacketType is returned when a received frame does not
	// begin with FrameMarker.
	ErrUnexpectedPacketType = errors.New("unexpected packet type")

	// ErrInvalidPacketHash is returned when the received hash does not
	// match the hash computed over the received bytes.
	ErrInvalidPacketHash = errors.New("invalid packet hash")

	// ErrInvalidPacketLength is returned when the length field is too
	// small to hold the addressing fields, or a frame's size disagrees
	// with its length field.
	ErrInvalidPacketLength = errors.New("invalid packet length")

	// ErrPayloadTooLarge is returned when a payload cannot be described by
	// the single-byte length field.
	ErrPayloadTooLarge = errors.New("payload too large")

	// ErrShortResponse is returned when a response is too short to carry
	// the fields a command promises.
	ErrShortResponse = errors.New("response too short")
)
