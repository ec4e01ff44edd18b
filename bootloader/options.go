package bootloader

import "time"

// DefaultRecordDelay is the pause after every record. The unit needs it
// to write the record to flash before the next one arrives.
const DefaultRecordDelay = 10 * time.Millisecond

// Config holds the updater configuration.
type Config struct {
	// ProgressCallback is called during the update to report progress (optional)
	ProgressCallback ProgressCallback

	// StateObserver is called on every state change (optional)
	StateObserver StateObserver

	// Logger is used for logging operations (optional)
	Logger Logger

	// RecordDelay is the fixed pause after each accepted record
	RecordDelay time.Duration
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		RecordDelay: DefaultRecordDelay,
	}
}

// Option is a functional option for configuring the Updater.
type Option func(*Config)

// WithProgressCallback sets a callback function to track update progress.
//
// Example:
//
//	u := bootloader.New(session,
//	    bootloader.WithProgressCallback(func(p bootloader.Progress) {
//	        fmt.Printf("%s: %d records\n", p.State, p.Records)
//	    }),
//	)
func WithProgressCallback(callback ProgressCallback) Option {
	return func(c *Config) {
		c.ProgressCallback = callback
	}
}

// WithStateObserver sets a function called on every state change.
func WithStateObserver(observer StateObserver) Option {
	return func(c *Config) {
		c.StateObserver = observer
	}
}

// WithLogger sets a logger for the updater operations.
//
// Example:
//
//	u := bootloader.New(session, bootloader.WithLogger(myLogger))
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithRecordDelay sets the pause after every record.
// Zero disables it, which only makes sense against a simulated unit.
//
// Example:
//
//	u := bootloader.New(session, bootloader.WithRecordDelay(20*time.Millisecond))
func WithRecordDelay(d time.Duration) Option {
	return func(c *Config) {
		if d >= 0 {
			c.RecordDelay = d
		}
	}
}
