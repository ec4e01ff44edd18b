package bootloader

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestIncompatibleHardwareError(t *testing.T) {
	err := &IncompatibleHardwareError{
		Hardware:  "EF",
		Supported: []string{"AB", "CD"},
	}

	errMsg := err.Error()

	if !strings.Contains(errMsg, `"EF"`) {
		t.Errorf("error message should contain unit hardware, got: %s", errMsg)
	}

	if !strings.Contains(errMsg, "AB,CD") {
		t.Errorf("error message should contain supported hardware, got: %s", errMsg)
	}

	if !errors.Is(fmt.Errorf("wrapped: %w", err), ErrIncompatibleHardware) {
		t.Error("wrapped error should match ErrIncompatibleHardware")
	}

	if errors.Is(err, ErrChecksumMismatch) {
		t.Error("error should not match ErrChecksumMismatch")
	}
}

func TestChecksumMismatchError(t *testing.T) {
	err := &ChecksumMismatchError{
		Expected: 0x010203,
		Actual:   0x0A0B0C,
	}

	errMsg := err.Error()

	if !strings.Contains(errMsg, "0x010203") {
		t.Errorf("error message should contain expected checksum, got: %s", errMsg)
	}

	if !strings.Contains(errMsg, "0x0A0B0C") {
		t.Errorf("error message should contain actual checksum, got: %s", errMsg)
	}

	if !errors.Is(fmt.Errorf("wrapped: %w", err), ErrChecksumMismatch) {
		t.Error("wrapped error should match ErrChecksumMismatch")
	}
}
