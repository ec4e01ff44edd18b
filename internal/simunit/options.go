package simunit

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/moffa90/go-nicefw/protocol"
)

// Status codes the simulated unit answers with besides success.
const (
	StatusNotErased      byte = 0x01
	StatusUnknownCommand byte = 0x02
)

// DefaultHardware is the hardware name a Unit reports unless configured.
const DefaultHardware = "FG01h"

// DefaultIdentity is the identity a Unit reports unless configured.
var DefaultIdentity = protocol.Identity{Address: 0x03, Endpoint: 0x04}

var (
	identifyTrailer = []byte{0x01, 0x00}
	commitRecord    = []byte{0x00, 0x00, 0x00, 0x01, 0xFF}
)

// Config holds the simulated unit's behaviour.
type Config struct {
	Identity          protocol.Identity
	Hardware          string
	StartInBootloader bool
	Checksum          *uint32
	CorruptEcho       bool
	Latency           time.Duration

	// Status overrides the reply status per command byte
	Status map[byte]byte

	// Silent lists command bytes the unit never answers
	Silent map[byte]struct{}

	Logger logrus.FieldLogger
}

func defaultConfig() Config {
	discard := logrus.New()
	discard.SetOutput(io.Discard)

	return Config{
		Identity: DefaultIdentity,
		Hardware: DefaultHardware,
		Status:   map[byte]byte{},
		Silent:   map[byte]struct{}{},
		Logger:   discard,
	}
}

// Option is a functional option for configuring the Unit.
type Option func(*Config)

// WithIdentity sets the identity the unit reports and answers to.
func WithIdentity(id protocol.Identity) Option {
	return func(c *Config) {
		c.Identity = id
	}
}

// WithHardware sets the hardware name the unit reports.
func WithHardware(hw string) Option {
	return func(c *Config) {
		c.Hardware = hw
	}
}

// WithBootloaderRunning starts the unit in its bootloader, so it ignores
// the reboot frame.
func WithBootloaderRunning() Option {
	return func(c *Config) {
		c.StartInBootloader = true
	}
}

// WithChecksum makes the unit report sum as its image checksum.
func WithChecksum(sum uint32) Option {
	return func(c *Config) {
		c.Checksum = &sum
	}
}

// WithStatus makes the unit answer cmd with status.
func WithStatus(cmd, status byte) Option {
	return func(c *Config) {
		c.Status[cmd] = status
	}
}

// WithSilence makes the unit never answer cmd.
func WithSilence(cmd byte) Option {
	return func(c *Config) {
		c.Silent[cmd] = struct{}{}
	}
}

// WithCorruptEcho flips a bit in every echoed frame.
func WithCorruptEcho() Option {
	return func(c *Config) {
		c.CorruptEcho = true
	}
}

// WithLatency delays every reply.
func WithLatency(d time.Duration) Option {
	return func(c *Config) {
		c.Latency = d
	}
}

// WithLogger sets the logger the unit reports its activity to.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Config) {
		if l != nil {
			c.Logger = l
		}
	}
}
