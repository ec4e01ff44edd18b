package transport

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/moffa90/go-nicefw/protocol"
)

// Port is a byte channel to the bus that can signal a break.
// go.bug.st/serial ports satisfy it.
type Port interface {
	io.ReadWriter

	// Break holds the line in break condition for d
	Break(d time.Duration) error
}

// Session is the single logical connection to a control unit.
//
// It holds the unit identity that outgoing frames are addressed to. The
// identity starts as protocol.Unknown and is replaced once the unit has
// identified itself.
//
// Session is not safe for concurrent use; the line carries one request
// at a time.
type Session struct {
	port   Port
	reader io.Reader
	peer   protocol.Identity
	config Config
}

// New creates a Session on port.
func New(port Port, opts ...Option) *Session {
	if port == nil {
		panic("port cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Session{
		port:   port,
		reader: timeoutReader{r: port},
		peer:   protocol.Unknown,
		config: cfg,
	}
}

// Peer returns the identity requests are currently addressed to.
func (s *Session) Peer() protocol.Identity {
	return s.peer
}

// SetPeer sets the identity subsequent requests are addressed to.
func (s *Session) SetPeer(id protocol.Identity) {
	s.peer = id
}

// SendRaw holds the line in break and then writes frame.
func (s *Session) SendRaw(frame []byte) error {
	if err := s.port.Break(s.config.BreakDuration); err != nil {
		return fmt.Errorf("send break: %w", err)
	}

	n, err := s.port.Write(frame)
	if err != nil {
		return fmt.Errorf("write frame: %w", err)
	}
	if n != len(frame) {
		return fmt.Errorf("%w: wrote %d of %d bytes", ErrShortWrite, n, len(frame))
	}

	s.logDebug("tx", "frame", fmt.Sprintf("% X", frame))
	if s.config.Observer != nil {
		s.config.Observer.FrameSent(frame)
	}

	return nil
}

// ReadPacket reads one frame from the line.
func (s *Session) ReadPacket() (protocol.Packet, error) {
	pkt, err := protocol.Decode(s.reader)
	if err != nil {
		return nil, err
	}

	s.logDebug("rx", "frame", pkt.String())
	if s.config.Observer != nil {
		s.config.Observer.FrameReceived(pkt)
	}

	return pkt, nil
}

// RequestResponse sends payload to the current peer, verifies the echo
// and returns the unit's response.
func (s *Session) RequestResponse(payload []byte) (protocol.Packet, error) {
	frame, err := protocol.Encode(payload, s.peer)
	if err != nil {
		return nil, err
	}

	if err := s.SendRaw(frame); err != nil {
		return nil, err
	}

	echo, err := s.ReadPacket()
	if err != nil {
		return nil, fmt.Errorf("read echo: %w", err)
	}
	if !bytes.Equal(echo, frame) {
		return nil, fmt.Errorf("%w: sent % X, got % X", ErrCorruptedEcho, []byte(frame), []byte(echo))
	}

	response, err := s.ReadPacket()
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	return response, nil
}

// RequestChecked is RequestResponse for commands whose response must
// carry protocol.StatusSuccess.
func (s *Session) RequestChecked(payload []byte) (protocol.Packet, error) {
	response, err := s.RequestResponse(payload)
	if err != nil {
		return nil, err
	}

	if response.Status() != protocol.StatusSuccess {
		var command byte
		if len(payload) > 0 {
			command = payload[0]
		}
		return nil, &RejectedError{Command: command, Status: response.Status()}
	}

	return response, nil
}

// Discard reads and drops incoming bytes until the line stays quiet for
// one read timeout or DiscardLimit bytes have been read. It returns the
// number of bytes dropped.
func (s *Session) Discard() (int, error) {
	buf := make([]byte, s.config.DiscardLimit)
	total := 0

	for total < len(buf) {
		n, err := s.reader.Read(buf[total:])
		total += n
		if errors.Is(err, ErrReadTimeout) || errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return total, fmt.Errorf("discard: %w", err)
		}
	}

	if total > 0 {
		s.logDebug("discarded", "bytes", total, "data", fmt.Sprintf("% X", buf[:total]))
	}

	return total, nil
}

func (s *Session) logDebug(msg string, keysAndValues ...interface{}) {
	if s.config.Logger != nil {
		s.config.Logger.Debug(msg, keysAndValues...)
	}
}

// timeoutReader turns the (0, nil) a port returns when its read timeout
// expires into ErrReadTimeout, so io.ReadFull cannot spin on a silent line.
type timeoutReader struct {
	r io.Reader
}

func (t timeoutReader) Read(p []byte) (int, error) {
	n, err := t.r.Read(p)
	if n == 0 && err == nil && len(p) > 0 {
		return 0, ErrReadTimeout
	}
	return n, err
}
