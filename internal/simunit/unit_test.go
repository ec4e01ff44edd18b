package simunit

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moffa90/go-nicefw/protocol"
)

func drain(t *testing.T, u *Unit) []byte {
	t.Helper()

	var buf bytes.Buffer
	p := make([]byte, 64)
	for {
		n, err := u.Read(p)
		require.NoError(t, err)
		if n == 0 {
			return buf.Bytes()
		}
		buf.Write(p[:n])
	}
}

// exchange writes a request and returns the echo and the reply.
func exchange(t *testing.T, u *Unit, payload []byte, dst protocol.Identity) (protocol.Packet, protocol.Packet) {
	t.Helper()

	frame, err := protocol.Encode(payload, dst)
	require.NoError(t, err)
	_, err = u.Write(frame)
	require.NoError(t, err)

	r := bytes.NewReader(drain(t, u))
	echo, err := protocol.Decode(r)
	require.NoError(t, err)

	reply, err := protocol.Decode(r)
	if errors.Is(err, io.EOF) {
		return echo, nil
	}
	require.NoError(t, err)
	return echo, reply
}

func TestRebootFrame(t *testing.T) {
	u := New()
	assert.False(t, u.InBootloader())

	frame := protocol.RebootToBootloaderFrame()
	_, err := u.Write(frame)
	require.NoError(t, err)

	out := drain(t, u)
	assert.Equal(t, append([]byte{protocol.IdleByte}, frame...), out[:len(frame)+1])
	assert.Equal(t, applicationReply, out[len(frame)+1:])
	assert.True(t, u.InBootloader())

	// A second reboot frame is only echoed.
	_, err = u.Write(frame)
	require.NoError(t, err)
	assert.Len(t, drain(t, u), len(frame)+1)
}

func TestApplicationIgnoresCommands(t *testing.T) {
	u := New()

	echo, reply := exchange(t, u, protocol.BuildIdentifyCmd(), protocol.Unknown)
	assert.NotNil(t, echo)
	assert.Nil(t, reply)
}

func TestIdentify(t *testing.T) {
	id := protocol.Identity{Address: 0x21, Endpoint: 0x22}
	u := New(WithBootloaderRunning(), WithIdentity(id), WithHardware("AB"))

	echo, reply := exchange(t, u, protocol.BuildIdentifyCmd(), protocol.Unknown)
	require.NotNil(t, reply)

	sent, _ := protocol.Encode(protocol.BuildIdentifyCmd(), protocol.Unknown)
	assert.Equal(t, sent, echo)

	info, err := protocol.ParseIdentifyResponse(reply)
	require.NoError(t, err)
	assert.Equal(t, id, info.Identity)
	assert.Equal(t, "AB", info.Hardware)
	assert.Equal(t, protocol.Tool, reply.Destination())
}

func TestOtherUnitIgnored(t *testing.T) {
	u := New(WithBootloaderRunning())

	_, reply := exchange(t, u, protocol.BuildIdentifyCmd(), protocol.Identity{Address: 0x77, Endpoint: 0x77})
	assert.Nil(t, reply)
}

func TestTransferSequence(t *testing.T) {
	u := New(WithBootloaderRunning())
	dst := DefaultIdentity

	data, _ := protocol.BuildDataCmd([]byte{0x01, 0x02})
	_, reply := exchange(t, u, data, dst)
	assert.Equal(t, StatusNotErased, reply.Status())

	_, reply = exchange(t, u, protocol.BuildEraseCmd(), dst)
	assert.Equal(t, protocol.StatusSuccess, reply.Status())

	for _, record := range [][]byte{{0x01, 0x02}, {0xFF}} {
		data, _ := protocol.BuildDataCmd(record)
		_, reply = exchange(t, u, data, dst)
		assert.Equal(t, protocol.StatusSuccess, reply.Status())
	}
	assert.Equal(t, [][]byte{{0x01, 0x02}, {0xFF}}, u.Records())

	_, reply = exchange(t, u, protocol.BuildChecksumCmd(), dst)
	sum, err := protocol.ParseChecksumResponse(reply)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x01+0x02+0xFF), sum)

	assert.False(t, u.Committed())
	_, reply = exchange(t, u, protocol.BuildCommitCmd(), dst)
	assert.Equal(t, protocol.StatusSuccess, reply.Status())
	assert.True(t, u.Committed())
	assert.Len(t, u.Records(), 2)
}

func TestOptions(t *testing.T) {
	t.Run("checksum", func(t *testing.T) {
		u := New(WithBootloaderRunning(), WithChecksum(0x010203))
		_, reply := exchange(t, u, protocol.BuildChecksumCmd(), protocol.Unknown)
		sum, err := protocol.ParseChecksumResponse(reply)
		require.NoError(t, err)
		assert.Equal(t, uint32(0x010203), sum)
	})

	t.Run("status", func(t *testing.T) {
		u := New(WithBootloaderRunning(), WithStatus(protocol.CmdErase, 0x07))
		_, reply := exchange(t, u, protocol.BuildEraseCmd(), protocol.Unknown)
		assert.Equal(t, byte(0x07), reply.Status())
	})

	t.Run("silence", func(t *testing.T) {
		u := New(WithBootloaderRunning(), WithSilence(protocol.CmdChecksum))
		_, reply := exchange(t, u, protocol.BuildChecksumCmd(), protocol.Unknown)
		assert.Nil(t, reply)
	})

	t.Run("corrupt echo", func(t *testing.T) {
		u := New(WithBootloaderRunning(), WithCorruptEcho())
		echo, _ := exchange(t, u, protocol.BuildIdentifyCmd(), protocol.Unknown)
		sent, _ := protocol.Encode(protocol.BuildIdentifyCmd(), protocol.Unknown)
		assert.NotEqual(t, sent, echo)
	})
}

func TestBreaksAndFrames(t *testing.T) {
	u := New()
	require.NoError(t, u.Break(0))
	_, err := u.Write(protocol.RebootToBootloaderFrame())
	require.NoError(t, err)

	assert.Equal(t, 1, u.Breaks())
	assert.Equal(t, 1, u.Frames())
	assert.NoError(t, u.Close())
}
