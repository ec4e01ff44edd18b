// Package config loads the nicefw configuration file.
package config

import (
	"bytes"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Serial  SerialConfig  `yaml:"serial"`
	Update  UpdateConfig  `yaml:"update"`
	Log     LogConfig     `yaml:"log"`
	Metrics MetricsConfig `yaml:"metrics"`
}

// ---- SERIAL ----

type SerialConfig struct {
	BaudRate      int `yaml:"baud_rate"`
	ReadTimeoutMs int `yaml:"read_timeout_ms"`
	BreakUs       int `yaml:"break_us"`
}

// ReadTimeout returns the per-read timeout.
func (s SerialConfig) ReadTimeout() time.Duration {
	return time.Duration(s.ReadTimeoutMs) * time.Millisecond
}

// Break returns the break held before every frame.
func (s SerialConfig) Break() time.Duration {
	return time.Duration(s.BreakUs) * time.Microsecond
}

// ---- UPDATE ----

type UpdateConfig struct {
	RecordDelayMs int `yaml:"record_delay_ms"`
}

// RecordDelay returns the pause after every record.
func (u UpdateConfig) RecordDelay() time.Duration {
	return time.Duration(u.RecordDelayMs) * time.Millisecond
}

// ---- LOG ----

type LogConfig struct {
	Level string `yaml:"level"`
}

// ---- METRICS ----

type MetricsConfig struct {
	// Textfile is where session counters are written; empty disables it
	Textfile string `yaml:"textfile"`
}

// Default returns the settings the control units are known to work with.
func Default() *Config {
	return &Config{
		Serial: SerialConfig{
			BaudRate:      19200,
			ReadTimeoutMs: 2000,
			BreakUs:       700,
		},
		Update: UpdateConfig{
			RecordDelayMs: 10,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
// Keys the file does not set keep their default value.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "read config")
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && err != io.EOF {
		return nil, errors.Wrapf(err, "parse config %s", path)
	}

	return cfg, nil
}
