package protocol

// Hash computes the frame hash: the XOR of the length byte, both
// identities and every payload byte.
//
// The hash is weak by construction: a corruption that leaves the XOR of
// the covered bytes unchanged goes undetected. It must stay bit-exact to
// interoperate with the control unit.
func Hash(length, address, endpoint, peerAddress, peerEndpoint byte, payload []byte) byte {
	hash := length ^ address ^ endpoint ^ peerAddress ^ peerEndpoint
	for _, b := range payload {
		hash ^= b
	}
	return hash
}

// xorBytes folds data with XOR.
func xorBytes(data []byte) byte {
	var hash byte
	for _, b := range data {
		hash ^= b
	}
	return hash
}
