// Package protocol implements the framed wire protocol spoken by NICE
// control units on their half-duplex service bus.
//
// # Frame Format
//
// Every frame has the same layout:
//
//	[0xF0][LEN][DST_ADDR][DST_EP][SRC_ADDR][SRC_EP][PAYLOAD...][HASH]
//
// Where:
//   - 0xF0 = FrameMarker
//   - LEN = len(PAYLOAD) + 4
//   - DST/SRC = address/endpoint pairs; this client is always 50:90
//   - HASH = XOR of every byte from LEN through the last payload byte
//
// On the receive side every frame is preceded by an idle byte (0x00).
// Frames are started on the line by a break condition, which is the job
// of the transport package.
//
// # Building Requests
//
// Request payloads start with a command byte:
//
//	payload := protocol.BuildIdentifyCmd()
//	frame, err := protocol.Encode(payload, protocol.Unknown)
//
// # Reading Responses
//
// Decode reads one frame from any io.Reader and validates its hash:
//
//	pkt, err := protocol.Decode(port)
//	if errors.Is(err, protocol.ErrInvalidPacketHash) {
//	    // line noise or a collision on the bus
//	}
//	info, err := protocol.ParseIdentifyResponse(pkt)
//
// # Error Handling
//
// Decode reports framing problems with the sentinel errors
// ErrUnexpectedPacketStart, ErrUnexpectedPacketType and
// ErrInvalidPacketHash, wrapped with the offending byte values. None of
// them is recoverable: the client never resynchronises a session.
package protocol
