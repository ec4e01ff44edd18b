package bootloader

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/moffa90/go-nicefw/firmware"
	"github.com/moffa90/go-nicefw/protocol"
)

// Transport is the session the Updater drives. *transport.Session
// implements it.
type Transport interface {
	// SendRaw breaks the line and writes frame as is
	SendRaw(frame []byte) error

	// Discard drops whatever arrives until the line is quiet
	Discard() (int, error)

	// RequestResponse sends payload, verifies the echo and returns the reply
	RequestResponse(payload []byte) (protocol.Packet, error)

	// RequestChecked is RequestResponse that also requires a success status
	RequestChecked(payload []byte) (protocol.Packet, error)

	// SetPeer sets the identity subsequent requests are addressed to
	SetPeer(id protocol.Identity)
}

// Updater drives a control unit through a firmware update.
//
// Updater is not safe for concurrent use. One Updater serves one run.
type Updater struct {
	transport Transport
	config    Config

	state   State
	started time.Time
	records int
	bytes   int
}

// New creates a new Updater on the given transport.
//
// Example:
//
//	session := transport.New(port)
//	u := bootloader.New(session,
//	    bootloader.WithProgressCallback(progressFunc),
//	    bootloader.WithLogger(logger),
//	)
func New(t Transport, opts ...Option) *Updater {
	if t == nil {
		panic("transport cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Updater{
		transport: t,
		config:    cfg,
		state:     StateInit,
	}
}

// State returns the state the Updater is in.
func (u *Updater) State() State {
	return u.state
}

// Update performs the complete update sequence:
//  1. Reboot the unit into its bootloader
//  2. Identify the unit and address it from then on
//  3. Check its hardware against the container's hardware list
//  4. Erase the application area
//  5. Transfer every record in file order
//  6. Compare the unit's image checksum with the container's
//  7. Commit the image and reboot the unit
//
// Any failure is final. Nothing is retried or rolled back, and a unit
// that fails the checksum is left without a committed image. The context
// is checked between steps and between records.
//
// Example:
//
//	fw, _ := firmware.Open("FG01h.hex")
//	defer fw.Close()
//	err := u.Update(context.Background(), fw)
func (u *Updater) Update(ctx context.Context, fw *firmware.Reader) (err error) {
	if fw == nil {
		return fmt.Errorf("firmware cannot be nil")
	}

	u.started = time.Now()
	u.records = 0
	u.bytes = 0

	defer func() {
		if err != nil {
			failedIn := u.state
			u.setState(StateFailed)
			u.logError("update failed", "state", failedIn.String(), "error", err.Error())
		}
	}()

	unit, err := u.Probe(ctx, &fw.Header)
	if err != nil {
		return err
	}

	u.logInfo("starting update",
		"unit", unit.Identity.String(),
		"hardware", unit.Hardware,
		"version", fw.Header.Version,
	)

	u.setState(StateEraseOrInit)
	if err := u.Prepare(ctx); err != nil {
		return fmt.Errorf("erase: %w", err)
	}

	u.setState(StateTransfer)
	for {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("cancelled: %w", err)
		}

		record, err := fw.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return fmt.Errorf("read firmware: %w", err)
		}

		if err := u.TransferRecord(ctx, record); err != nil {
			return fmt.Errorf("transfer record %d (line %d): %w", u.records+1, fw.Line(), err)
		}

		u.records++
		u.bytes += len(record)
		u.reportProgress()
	}

	u.logInfo("transfer complete", "records", u.records, "bytes", u.bytes)

	u.setState(StateVerifyChecksum)
	if err := u.VerifyChecksum(ctx, fw.Header.Checksum2); err != nil {
		return fmt.Errorf("verify checksum: %w", err)
	}

	u.setState(StateCommit)
	if err := u.Commit(ctx); err != nil {
		return fmt.Errorf("commit: %w", err)
	}

	u.setState(StateDone)
	u.logInfo("update complete",
		"records", u.records,
		"bytes", u.bytes,
		"elapsed", time.Since(u.started).String(),
	)

	return nil
}

// Probe reboots the unit into its bootloader, identifies it and, when
// header is not nil, checks that the container supports its hardware.
// It leaves the unit waiting in the bootloader.
func (u *Updater) Probe(ctx context.Context, header *firmware.Header) (*protocol.UnitInfo, error) {
	if u.started.IsZero() {
		u.started = time.Now()
	}

	u.setState(StateBootloaderEntry)
	if err := u.EnterBootloader(ctx); err != nil {
		return nil, fmt.Errorf("enter bootloader: %w", err)
	}

	u.setState(StateIdentify)
	unit, err := u.Identify(ctx)
	if err != nil {
		return nil, fmt.Errorf("identify: %w", err)
	}

	if header == nil {
		return unit, nil
	}

	u.setState(StateCompatibilityCheck)
	if err := u.CheckCompatibility(header, unit); err != nil {
		return unit, err
	}

	return unit, nil
}

// EnterBootloader writes the reboot-to-bootloader frame and drops the
// reply. A unit that is already in its bootloader does not answer, so
// the reply is never checked.
func (u *Updater) EnterBootloader(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("cancelled: %w", err)
	}

	if err := u.transport.SendRaw(protocol.RebootToBootloaderFrame()); err != nil {
		return err
	}

	n, err := u.transport.Discard()
	if err != nil {
		return err
	}

	u.logDebug("reboot to bootloader sent", "discarded", n)
	return nil
}

// Identify asks the unit for its identity and hardware name. Every
// request after it is addressed to the identity the unit reported.
func (u *Updater) Identify(ctx context.Context) (*protocol.UnitInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("cancelled: %w", err)
	}

	response, err := u.transport.RequestResponse(protocol.BuildIdentifyCmd())
	if err != nil {
		return nil, err
	}

	unit, err := protocol.ParseIdentifyResponse(response)
	if err != nil {
		return nil, err
	}

	u.transport.SetPeer(unit.Identity)
	u.logInfo("control unit identified",
		"unit", unit.Identity.String(),
		"hardware", unit.Hardware,
	)

	return unit, nil
}

// CheckCompatibility returns an IncompatibleHardwareError unless the
// unit's hardware is in the header's hardware list.
func (u *Updater) CheckCompatibility(header *firmware.Header, unit *protocol.UnitInfo) error {
	if header.Supports(unit.Hardware) {
		return nil
	}

	return &IncompatibleHardwareError{
		Hardware:  unit.Hardware,
		Supported: header.Hardware,
	}
}

// Prepare erases the unit's application area so it can take records.
func (u *Updater) Prepare(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("cancelled: %w", err)
	}

	_, err := u.transport.RequestChecked(protocol.BuildEraseCmd())
	return err
}

// TransferRecord sends one record and then waits the record delay.
func (u *Updater) TransferRecord(ctx context.Context, record []byte) error {
	payload, err := protocol.BuildDataCmd(record)
	if err != nil {
		return err
	}

	if _, err := u.transport.RequestChecked(payload); err != nil {
		return err
	}

	return u.wait(ctx, u.config.RecordDelay)
}

// VerifyChecksum asks the unit for the checksum of the image it has
// received and compares it with expected.
func (u *Updater) VerifyChecksum(ctx context.Context, expected int) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("cancelled: %w", err)
	}

	response, err := u.transport.RequestResponse(protocol.BuildChecksumCmd())
	if err != nil {
		return err
	}

	actual, err := protocol.ParseChecksumResponse(response)
	if err != nil {
		return err
	}

	u.logDebug("image checksum",
		"expected", fmt.Sprintf("0x%06X", expected),
		"actual", fmt.Sprintf("0x%06X", actual),
	)

	if int64(actual) != int64(expected) {
		return &ChecksumMismatchError{
			Expected: expected,
			Actual:   actual,
		}
	}

	return nil
}

// Commit sends the final record, which makes the unit keep the new
// image and reboot into it.
func (u *Updater) Commit(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("cancelled: %w", err)
	}

	_, err := u.transport.RequestChecked(protocol.BuildCommitCmd())
	return err
}

func (u *Updater) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}

	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("cancelled: %w", ctx.Err())
	}
}

func (u *Updater) setState(s State) {
	u.state = s
	u.logDebug("state", "state", s.String())

	if u.config.StateObserver != nil {
		u.config.StateObserver(s)
	}
	u.reportProgress()
}

// reportProgress calls the progress callback if configured.
func (u *Updater) reportProgress() {
	if u.config.ProgressCallback != nil {
		u.config.ProgressCallback(Progress{
			State:   u.state,
			Records: u.records,
			Bytes:   u.bytes,
			Elapsed: time.Since(u.started),
		})
	}
}

// logDebug logs a debug message if a logger is configured.
func (u *Updater) logDebug(msg string, keysAndValues ...interface{}) {
	if u.config.Logger != nil {
		u.config.Logger.Debug(msg, keysAndValues...)
	}
}

// logInfo logs an info message if a logger is configured.
func (u *Updater) logInfo(msg string, keysAndValues ...interface{}) {
	if u.config.Logger != nil {
		u.config.Logger.Info(msg, keysAndValues...)
	}
}

// logError logs an error message if a logger is configured.
func (u *Updater) logError(msg string, keysAndValues ...interface{}) {
	if u.config.Logger != nil {
		u.config.Logger.Error(msg, keysAndValues...)
	}
}
