package transport

import "time"

// DefaultBreakDuration is how long the line is held in break before
// every frame. The unit's receiver synchronises on it.
const DefaultBreakDuration = 700 * time.Microsecond

// DefaultDiscardLimit bounds how much Discard reads.
const DefaultDiscardLimit = 500

// Observer is notified of every frame written to and read from the line.
// Implementations should return quickly.
type Observer interface {
	// FrameSent is called after a frame has been written
	FrameSent(frame []byte)

	// FrameReceived is called after a frame has been decoded
	FrameReceived(frame []byte)
}

// Logger is the logging interface used by the session.
type Logger interface {
	// Debug logs a debug message with optional key-value pairs
	Debug(msg string, keysAndValues ...interface{})
}

// Config holds the session configuration.
type Config struct {
	// BreakDuration is the break held before each write
	BreakDuration time.Duration

	// DiscardLimit is the maximum number of bytes Discard reads
	DiscardLimit int

	// Observer is notified of traffic (optional)
	Observer Observer

	// Logger logs traffic at debug level (optional)
	Logger Logger
}

func defaultConfig() Config {
	return Config{
		BreakDuration: DefaultBreakDuration,
		DiscardLimit:  DefaultDiscardLimit,
	}
}

// Option is a functional option for configuring the Session.
type Option func(*Config)

// WithBreakDuration sets the break held before each frame.
func WithBreakDuration(d time.Duration) Option {
	return func(c *Config) {
		if d > 0 {
			c.BreakDuration = d
		}
	}
}

// WithDiscardLimit sets the maximum number of bytes Discard reads.
func WithDiscardLimit(n int) Option {
	return func(c *Config) {
		if n > 0 {
			c.DiscardLimit = n
		}
	}
}

// WithObserver sets an observer for line traffic.
func WithObserver(o Observer) Option {
	return func(c *Config) {
		c.Observer = o
	}
}

// WithLogger sets a logger for line traffic.
func WithLogger(l Logger) Option {
	return func(c *Config) {
		c.Logger = l
	}
}
