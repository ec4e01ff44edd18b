// Package bootloader updates the firmware of NICE control units.
//
// # Overview
//
// An update walks through a fixed sequence of states:
//
//	init -> bootloader-entry -> identify -> compatibility-check ->
//	erase -> transfer -> verify-checksum -> commit -> done
//
// Any error moves the Updater to the failed state and ends the run.
// Nothing is retried. A unit whose image checksum does not match is left
// uncommitted.
//
// # Basic Usage
//
//	port, err := transport.OpenSerial("/dev/ttyUSB0", transport.DefaultSerialConfig())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer port.Close()
//
//	fw, err := firmware.Open("FG01h.hex")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer fw.Close()
//
//	u := bootloader.New(transport.New(port))
//	if err := u.Update(context.Background(), fw); err != nil {
//	    log.Fatal(err)
//	}
//
// Open the container before talking to the unit: a container with a bad
// header then fails before a single frame is sent.
//
// # Progress Tracking
//
//	u := bootloader.New(session,
//	    bootloader.WithProgressCallback(func(p bootloader.Progress) {
//	        fmt.Printf("[%s] %d records, %d bytes\n", p.State, p.Records, p.Bytes)
//	    }),
//	)
//
// # Configuration Options
//
//	u := bootloader.New(session,
//	    bootloader.WithProgressCallback(progressFunc),
//	    bootloader.WithStateObserver(stateFunc),
//	    bootloader.WithLogger(myLogger),
//	    bootloader.WithRecordDelay(10*time.Millisecond),
//	)
//
// # Single Steps
//
// Every step of Update is also a method, for tools that only need part
// of the sequence. Probe runs bootloader entry and identification and,
// given a header, the compatibility check:
//
//	unit, err := u.Probe(ctx, &fw.Header)
//	fmt.Printf("%s: %s\n", unit.Identity, unit.Hardware)
//
// # Context Support
//
// The context is checked between steps and between records, and it ends
// the wait after a record. A frame that is already on the line is always
// completed.
//
// # Error Handling
//
// Besides the protocol and transport errors that pass through, the
// package has two typed errors:
//   - IncompatibleHardwareError: the unit's hardware is not in the container's list
//   - ChecksumMismatchError: the unit computed a different image checksum
//
// Both match their sentinel with errors.Is.
package bootloader
