// Package simunit simulates a NICE control unit on the far side of a
// serial line. It plays back the echo the line produces and answers the
// bootloader commands, which is enough to run a full update without
// hardware.
package simunit

import (
	"bytes"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/moffa90/go-nicefw/protocol"
)

// applicationReply is what a unit running its application answers to the
// reboot-to-bootloader frame before it restarts.
var applicationReply = []byte{0x00, 0x55, 0x0D, 0x50, 0x90, 0xFF, 0xFF, 0x08, 0x06, 0x00, 0x0D}

// Unit is a simulated control unit. It implements transport.Port.
//
// Every written frame is queued back for reading, preceded by the idle
// byte, before the unit's own reply. A Read with nothing queued returns
// (0, nil), the way a serial port reports an expired read timeout.
type Unit struct {
	mu     sync.Mutex
	config Config

	out          bytes.Buffer
	inBootloader bool
	erased       bool
	committed    bool
	records      [][]byte
	frames       int
	breaks       int
}

// New creates a Unit that runs its application until it receives the
// reboot-to-bootloader frame.
func New(opts ...Option) *Unit {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Unit{
		config:       cfg,
		inBootloader: cfg.StartInBootloader,
	}
}

// Read returns queued line traffic.
func (u *Unit) Read(p []byte) (int, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.out.Len() == 0 {
		return 0, nil
	}
	return u.out.Read(p)
}

// Write takes one frame from the tool and queues the echo and the reply.
func (u *Unit) Write(p []byte) (int, error) {
	u.mu.Lock()
	defer u.mu.Unlock()

	if u.config.Latency > 0 {
		time.Sleep(u.config.Latency)
	}

	u.frames++
	u.echo(p)

	if bytes.Equal(p, protocol.RebootToBootloaderFrame()) {
		u.handleReboot()
		return len(p), nil
	}

	frame, err := protocol.Parse(p)
	if err != nil {
		u.log().WithError(err).Warn("dropping malformed frame")
		return len(p), nil
	}

	if !u.inBootloader {
		u.log().Debug("ignoring frame, application running")
		return len(p), nil
	}

	dst := frame.Destination()
	if dst != u.config.Identity && dst != protocol.Unknown {
		u.log().WithField("dst", dst.String()).Debug("frame for another unit")
		return len(p), nil
	}

	payload := frame.Payload()
	if len(payload) == 0 {
		return len(p), nil
	}

	cmd := payload[0]
	if _, silent := u.config.Silent[cmd]; silent {
		return len(p), nil
	}

	var reply []byte
	switch cmd {
	case protocol.CmdIdentify:
		reply = u.handleIdentify()
	case protocol.CmdErase:
		reply = u.handleErase()
	case protocol.CmdData:
		reply = u.handleData(payload[1:])
	case protocol.CmdChecksum:
		reply = u.handleChecksum()
	default:
		reply = []byte{StatusUnknownCommand}
	}

	if status, ok := u.config.Status[cmd]; ok {
		reply[0] = status
	}

	u.reply(reply)
	return len(p), nil
}

// Break counts the break that starts every frame.
func (u *Unit) Break(time.Duration) error {
	u.mu.Lock()
	defer u.mu.Unlock()

	u.breaks++
	return nil
}

// Close implements io.Closer so a Unit can stand in for a serial port.
func (u *Unit) Close() error {
	return nil
}

// Records returns the records received since the last erase, in order.
func (u *Unit) Records() [][]byte {
	u.mu.Lock()
	defer u.mu.Unlock()

	records := make([][]byte, len(u.records))
	copy(records, u.records)
	return records
}

// Committed reports whether the commit record has been received.
func (u *Unit) Committed() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.committed
}

// InBootloader reports whether the unit is running its bootloader.
func (u *Unit) InBootloader() bool {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.inBootloader
}

// Frames returns the number of frames written to the unit.
func (u *Unit) Frames() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.frames
}

// Breaks returns the number of break conditions seen.
func (u *Unit) Breaks() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.breaks
}

// Checksum returns the image checksum the unit would report now.
func (u *Unit) Checksum() uint32 {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.checksum()
}

func (u *Unit) handleReboot() {
	if u.inBootloader {
		u.log().Debug("reboot ignored, already in bootloader")
		return
	}

	u.out.Write(applicationReply)
	u.inBootloader = true
	u.log().Info("rebooted into bootloader")
}

func (u *Unit) handleIdentify() []byte {
	reply := []byte{protocol.StatusSuccess}
	reply = append(reply, u.config.Hardware...)
	reply = append(reply, identifyTrailer...)
	return reply
}

func (u *Unit) handleErase() []byte {
	u.erased = true
	u.committed = false
	u.records = nil
	u.log().Info("application area erased")
	return []byte{protocol.StatusSuccess}
}

func (u *Unit) handleData(record []byte) []byte {
	if !u.erased {
		return []byte{StatusNotErased}
	}

	if bytes.Equal(record, commitRecord) {
		u.committed = true
		u.log().WithField("records", len(u.records)).Info("image committed")
		return []byte{protocol.StatusSuccess}
	}

	u.records = append(u.records, append([]byte(nil), record...))
	return []byte{protocol.StatusSuccess}
}

func (u *Unit) handleChecksum() []byte {
	sum := u.checksum()
	return []byte{protocol.StatusSuccess, 0x00, byte(sum >> 16), byte(sum >> 8), byte(sum)}
}

// checksum is the configured value, or else the 24-bit sum of every
// record byte received.
func (u *Unit) checksum() uint32 {
	if u.config.Checksum != nil {
		return *u.config.Checksum & 0xFFFFFF
	}

	var sum uint32
	for _, record := range u.records {
		for _, b := range record {
			sum += uint32(b)
		}
	}
	return sum & 0xFFFFFF
}

func (u *Unit) echo(p []byte) {
	echo := append([]byte{protocol.IdleByte}, p...)
	if u.config.CorruptEcho && len(p) >= protocol.MinFrameSize && p[0] == protocol.FrameMarker {
		// Flip the destination address and the hash together so the echo
		// is still a well-formed frame, just not the one that was sent.
		echo[3] ^= 0x01
		echo[len(echo)-1] ^= 0x01
	}
	u.out.Write(echo)
}

func (u *Unit) reply(payload []byte) {
	frame, err := protocol.EncodeFrom(u.config.Identity, protocol.Tool, payload)
	if err != nil {
		u.log().WithError(err).Error("cannot encode reply")
		return
	}
	u.out.WriteByte(protocol.IdleByte)
	u.out.Write(frame)
}

func (u *Unit) log() logrus.FieldLogger {
	return u.config.Logger
}
