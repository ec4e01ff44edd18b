package bootloader

import "time"

// Progress describes where an update is.
// Passed to ProgressCallback on every state change and after every record.
type Progress struct {
	// State is the current step
	State State

	// Records is the number of records the unit has accepted so far
	Records int

	// Bytes is the number of record bytes the unit has accepted so far
	Bytes int

	// Elapsed is the time since the update started
	Elapsed time.Duration
}

// ProgressCallback is called during an update to report progress.
// Implementations should return quickly; the line is idle while it runs.
//
// Example:
//
//	u := bootloader.New(session,
//	    bootloader.WithProgressCallback(func(p bootloader.Progress) {
//	        fmt.Printf("[%s] %d records, %d bytes\n", p.State, p.Records, p.Bytes)
//	    }),
//	)
type ProgressCallback func(Progress)

// StateObserver is called with every state the Updater enters.
type StateObserver func(State)

// Logger is an optional logging interface that can be provided to the updater.
// This allows integration with any logging framework.
//
// Example with standard log package:
//
//	type StdLogger struct{}
//	func (l *StdLogger) Debug(msg string, kv ...interface{}) { log.Println(msg, kv) }
//	func (l *StdLogger) Info(msg string, kv ...interface{})  { log.Println(msg, kv) }
//	func (l *StdLogger) Error(msg string, kv ...interface{}) { log.Println(msg, kv) }
//
//	u := bootloader.New(session, bootloader.WithLogger(&StdLogger{}))
type Logger interface {
	// Debug logs a debug message with optional key-value pairs
	Debug(msg string, keysAndValues ...interface{})

	// Info logs an info message with optional key-value pairs
	Info(msg string, keysAndValues ...interface{})

	// Error logs an error message with optional key-value pairs
	Error(msg string, keysAndValues ...interface{})
}
