// Package transport owns the half-duplex serial line to a control unit.
//
// # Turn Taking
//
// The service bus is a single wire shared by both sides. Every frame the
// client writes is reflected back to it before the unit answers, so one
// request always produces two frames on the receive side:
//
//	write:  <break> [request]
//	read:   0x00 [request echo]
//	read:   0x00 [response]
//
// Session.RequestResponse performs exactly this exchange and fails with
// ErrCorruptedEcho when the reflected frame differs from what was sent.
//
// # Hardware
//
// Session works with any Port: an io.ReadWriter that can also hold the
// line in a break condition. A Read that returns no bytes is taken as
// the end of the port's read timeout. OpenSerial opens a real serial
// port through go.bug.st/serial:
//
//	port, err := transport.OpenSerial("/dev/ttyUSB0", transport.DefaultSerialConfig())
//	if err != nil {
//	    return err
//	}
//	defer port.Close()
//
//	session := transport.New(port)
//	resp, err := session.RequestResponse(protocol.BuildIdentifyCmd())
//
// Nothing in this package retries: a timeout, a corrupted echo or a bad
// hash ends the session.
package transport
