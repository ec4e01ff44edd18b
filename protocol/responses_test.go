package protocol

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

// withIdle prefixes a frame with the idle byte, the way it arrives on the line.
func withIdle(frame []byte) []byte {
	return append([]byte{IdleByte}, frame...)
}

// buildTestResponse builds a response frame from unit to Tool.
func buildTestResponse(t *testing.T, unit Identity, payload []byte) []byte {
	t.Helper()

	length := byte(len(payload) + AddressingSize)
	frame := []byte{FrameMarker, length, Tool.Address, Tool.Endpoint, unit.Address, unit.Endpoint}
	frame = append(frame, payload...)
	frame = append(frame, Hash(length, Tool.Address, Tool.Endpoint, unit.Address, unit.Endpoint, payload))
	return frame
}

func TestDecodeRoundTrip(t *testing.T) {
	identities := []Identity{Unknown, Tool, {Address: 0x00, Endpoint: 0x00}, {Address: 0x12, Endpoint: 0x34}}

	for _, dst := range identities {
		for size := 0; size <= MaxPayloadSize; size++ {
			payload := make([]byte, size)
			for i := range payload {
				payload[i] = byte(i*7 + size)
			}

			frame, err := Encode(payload, dst)
			if err != nil {
				t.Fatalf("Encode(%d bytes, %s): %v", size, dst, err)
			}

			decoded, err := Decode(bytes.NewReader(withIdle(frame)))
			if err != nil {
				t.Fatalf("Decode(%d bytes, %s): %v", size, dst, err)
			}

			if !bytes.Equal(decoded.Payload(), payload) {
				t.Fatalf("payload mismatch for %d bytes to %s", size, dst)
			}
			if decoded.Destination() != dst {
				t.Fatalf("Destination() = %s, want %s", decoded.Destination(), dst)
			}
			if !bytes.Equal(decoded, frame) {
				t.Fatalf("decoded frame differs from encoded frame for %d bytes", size)
			}
		}
	}
}

func TestDecode(t *testing.T) {
	valid, _ := Encode([]byte{0x00, 0x41, 0x42}, Tool)

	tests := []struct {
		name    string
		input   []byte
		wantErr error
	}{
		{
			name:  "valid frame",
			input: withIdle(valid),
		},
		{
			name:    "missing idle byte",
			input:   valid,
			wantErr: ErrUnexpectedPacketStart,
		},
		{
			name:    "wrong marker",
			input:   withIdle(append([]byte{0x55}, valid[1:]...)),
			wantErr: ErrUnexpectedPacketType,
		},
		{
			name:    "bad hash",
			input:   withIdle(append(append([]byte{}, valid[:len(valid)-1]...), valid.Hash()^0x01)),
			wantErr: ErrInvalidPacketHash,
		},
		{
			name:    "length below addressing size",
			input:   []byte{IdleByte, FrameMarker, 0x03, 0x00, 0x00, 0x00, 0x03},
			wantErr: ErrInvalidPacketLength,
		},
		{
			name:    "empty input",
			input:   nil,
			wantErr: io.EOF,
		},
		{
			name:    "truncated body",
			input:   withIdle(valid[:len(valid)-2]),
			wantErr: io.ErrUnexpectedEOF,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkt, err := Decode(bytes.NewReader(tt.input))

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("error = %v, want %v", err, tt.wantErr)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !bytes.Equal(pkt, valid) {
				t.Errorf("Decode() = % X, want % X", []byte(pkt), []byte(valid))
			}
		})
	}
}

func TestDecodeConsumesExactlyOneFrame(t *testing.T) {
	first, _ := Encode([]byte{0x01}, Unknown)
	second, _ := Encode([]byte{0x02, 0x03}, Unknown)
	r := bytes.NewReader(append(withIdle(first), withIdle(second)...))

	got1, err := Decode(r)
	if err != nil {
		t.Fatalf("first Decode(): %v", err)
	}
	got2, err := Decode(r)
	if err != nil {
		t.Fatalf("second Decode(): %v", err)
	}

	if !bytes.Equal(got1, first) || !bytes.Equal(got2, second) {
		t.Errorf("frames decoded out of step: % X / % X", []byte(got1), []byte(got2))
	}
	if r.Len() != 0 {
		t.Errorf("%d bytes left unread", r.Len())
	}
}

// Flipping a single byte between the length field and the hash changes
// the XOR of the covered bytes, so it must always be caught. Collisions
// need at least two corrupted bytes.
func TestDecodeSingleByteCorruption(t *testing.T) {
	frame, _ := Encode([]byte{0x01, 0x10, 0x20, 0x30, 0x40}, Identity{Address: 0x01, Endpoint: 0x02})

	for i := offsetLength + 1; i < len(frame); i++ {
		for _, flip := range []byte{0x01, 0x80, 0xFF} {
			corrupted := append([]byte{}, frame...)
			corrupted[i] ^= flip

			_, err := Decode(bytes.NewReader(withIdle(corrupted)))
			if !errors.Is(err, ErrInvalidPacketHash) {
				t.Errorf("byte %d ^ 0x%02X: error = %v, want ErrInvalidPacketHash", i, flip, err)
			}
		}
	}
}

func TestDecodeTwoByteCollision(t *testing.T) {
	frame, _ := Encode([]byte{0x01, 0x10, 0x20}, Identity{Address: 0x01, Endpoint: 0x02})

	// Same flip on two covered bytes leaves the XOR unchanged: a known
	// blind spot of the frame hash.
	corrupted := append([]byte{}, frame...)
	corrupted[offsetPayload+1] ^= 0x0F
	corrupted[offsetPayload+2] ^= 0x0F

	pkt, err := Decode(bytes.NewReader(withIdle(corrupted)))
	if err != nil {
		t.Fatalf("collision was detected: %v", err)
	}
	if bytes.Equal(pkt, frame) {
		t.Error("corrupted frame decoded to the original")
	}
}

func TestParse(t *testing.T) {
	valid, _ := Encode([]byte{CmdErase}, Unknown)

	tests := []struct {
		name    string
		frame   []byte
		wantErr error
	}{
		{name: "valid", frame: valid},
		{name: "too short", frame: valid[:3], wantErr: ErrInvalidPacketLength},
		{name: "trailing byte", frame: append(append([]byte{}, valid...), 0x00), wantErr: ErrInvalidPacketLength},
		{name: "wrong marker", frame: append([]byte{0x00}, valid[1:]...), wantErr: ErrUnexpectedPacketType},
		{name: "bad hash", frame: append(append([]byte{}, valid[:len(valid)-1]...), 0x00), wantErr: ErrInvalidPacketHash},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.frame)
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseIdentifyResponse(t *testing.T) {
	unit := Identity{Address: 0x50, Endpoint: 0x90}

	tests := []struct {
		name         string
		payload      []byte
		wantHardware string
		wantErr      bool
	}{
		{
			name:         "two letter hardware",
			payload:      []byte{StatusSuccess, 'A', 'B', 0x00, 0x00},
			wantHardware: "AB",
		},
		{
			name:         "typical hardware name",
			payload:      []byte{StatusSuccess, 'F', 'G', '0', '1', 'h', 0x01, 0x02},
			wantHardware: "FG01h",
		},
		{
			name:         "empty hardware name",
			payload:      []byte{StatusSuccess, 0x00, 0x00},
			wantHardware: "",
		},
		{
			name:    "too short",
			payload: []byte{StatusSuccess, 0x00},
			wantErr: true,
		},
		{
			name:    "non ascii",
			payload: []byte{StatusSuccess, 0xC3, 0xA9, 0x00, 0x00},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkt, err := Decode(bytes.NewReader(withIdle(buildTestResponse(t, unit, tt.payload))))
			if err != nil {
				t.Fatalf("Decode(): %v", err)
			}

			info, err := ParseIdentifyResponse(pkt)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if info.Hardware != tt.wantHardware {
				t.Errorf("Hardware = %q, want %q", info.Hardware, tt.wantHardware)
			}
			if info.Identity != unit {
				t.Errorf("Identity = %s, want %s", info.Identity, unit)
			}
		})
	}
}

func TestParseIdentifyResponseLearnsSource(t *testing.T) {
	unit := Identity{Address: 0x0A, Endpoint: 0x0B}
	pkt, err := Parse(buildTestResponse(t, unit, []byte{StatusSuccess, 'X', 0x00, 0x00}))
	if err != nil {
		t.Fatalf("Parse(): %v", err)
	}

	info, err := ParseIdentifyResponse(pkt)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if info.Identity != unit {
		t.Errorf("Identity = %s, want %s", info.Identity, unit)
	}
}

func TestParseChecksumResponse(t *testing.T) {
	unit := Identity{Address: 0x01, Endpoint: 0x02}

	tests := []struct {
		name    string
		payload []byte
		want    uint32
		wantErr bool
	}{
		{
			name:    "checksum 0x010203",
			payload: []byte{StatusSuccess, 0x00, 0x01, 0x02, 0x03},
			want:    0x010203,
		},
		{
			name:    "trailing bytes ignored",
			payload: []byte{StatusSuccess, 0x00, 0xAB, 0xCD, 0xEF, 0x99},
			want:    0xABCDEF,
		},
		{
			name:    "too short",
			payload: []byte{StatusSuccess, 0x00, 0x01},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pkt, err := Parse(buildTestResponse(t, unit, tt.payload))
			if err != nil {
				t.Fatalf("Parse(): %v", err)
			}

			sum, err := ParseChecksumResponse(pkt)
			if tt.wantErr {
				if !errors.Is(err, ErrShortResponse) {
					t.Fatalf("error = %v, want ErrShortResponse", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if sum != tt.want {
				t.Errorf("checksum = 0x%06X, want 0x%06X", sum, tt.want)
			}
		})
	}
}

func TestPacketStatus(t *testing.T) {
	ok, _ := Parse(buildTestResponse(t, Tool, []byte{StatusSuccess}))
	if ok.Status() != StatusSuccess {
		t.Errorf("Status() = 0x%02X, want 0x%02X", ok.Status(), StatusSuccess)
	}

	empty, _ := Parse(buildTestResponse(t, Tool, nil))
	if empty.Status() == StatusSuccess {
		t.Error("empty payload reported success")
	}
}
