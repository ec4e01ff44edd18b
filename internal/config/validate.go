package config

import (
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Validate checks configuration correctness.
// It MUST NOT mutate configuration.
func Validate(cfg *Config) error {
	if cfg == nil {
		return errors.New("config is nil")
	}

	// ---- serial ----

	if cfg.Serial.BaudRate <= 0 {
		return errors.Errorf("serial.baud_rate must be positive, got %d", cfg.Serial.BaudRate)
	}
	if cfg.Serial.ReadTimeoutMs <= 0 {
		return errors.Errorf("serial.read_timeout_ms must be positive, got %d", cfg.Serial.ReadTimeoutMs)
	}
	if cfg.Serial.BreakUs <= 0 || cfg.Serial.BreakUs >= 1000 {
		return errors.Errorf("serial.break_us must be between 1 and 999, got %d", cfg.Serial.BreakUs)
	}

	// ---- update ----

	if cfg.Update.RecordDelayMs < 0 {
		return errors.Errorf("update.record_delay_ms must not be negative, got %d", cfg.Update.RecordDelayMs)
	}

	// ---- log ----

	if _, err := logrus.ParseLevel(cfg.Log.Level); err != nil {
		return errors.Wrap(err, "log.level")
	}

	return nil
}
