package protocol

import "fmt"

// Identity is an address/endpoint pair on the bus.
type Identity struct {
	// Address is the bus address
	Address byte

	// Endpoint is the endpoint within the addressed device
	Endpoint byte
}

var (
	// Unknown addresses a control unit whose identity has not been learned yet.
	Unknown = Identity{Address: 0xFF, Endpoint: 0xFF}

	// Tool is the fixed identity this client presents on the bus.
	Tool = Identity{Address: 0x50, Endpoint: 0x90}
)

func (id Identity) String() string {
	return fmt.Sprintf("%02X:%02X", id.Address, id.Endpoint)
}

// UnitInfo is what a control unit reports in its identification response.
type UnitInfo struct {
	// Identity is the unit's own address/endpoint
	Identity Identity

	// Hardware is the unit's hardware name, e.g. "FG01h"
	Hardware string
}

// Packet is a complete frame as it appears on the wire, starting at the
// frame marker and ending with the hash byte. The idle byte that
// precedes received frames is not part of the packet.
//
//	[MARKER][LEN][DST_ADDR][DST_EP][SRC_ADDR][SRC_EP][PAYLOAD...][HASH]
type Packet []byte

// Length returns the length field: payload size plus AddressingSize.
func (p Packet) Length() byte {
	return p[offsetLength]
}

// Destination returns the identity the packet is addressed to.
func (p Packet) Destination() Identity {
	return Identity{Address: p[offsetDstAddress], Endpoint: p[offsetDstEndpoint]}
}

// Source returns the identity of the sender.
func (p Packet) Source() Identity {
	return Identity{Address: p[offsetSrcAddress], Endpoint: p[offsetSrcEndpoint]}
}

// Payload returns the bytes between the header and the hash.
func (p Packet) Payload() []byte {
	return p[offsetPayload : len(p)-1]
}

// Status returns the first payload byte. In a response this is the
// status code; StatusSuccess means the command was accepted.
// Packets with an empty payload report 0xFF.
func (p Packet) Status() byte {
	if len(p) <= MinFrameSize {
		return 0xFF
	}
	return p[offsetPayload]
}

// Hash returns the trailing hash byte.
func (p Packet) Hash() byte {
	return p[len(p)-1]
}

func (p Packet) String() string {
	return fmt.Sprintf("% X", []byte(p))
}
