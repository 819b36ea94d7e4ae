package common

import (
	"errors"
	"os"
	"testing"
)

func TestAppErrorFormatsCodeAndCause(t *testing.T) {
	err := NewAppError("SCHEMA_MISMATCH", "column missing", ErrSchemaMismatch)
	if got := err.Error(); got != "SCHEMA_MISMATCH: column missing: required column missing" {
		t.Errorf("Error() = %q", got)
	}
	if !errors.Is(err, ErrSchemaMismatch) {
		t.Error("AppError does not unwrap to its cause")
	}

	bare := NewAppError("CONFIG_ERROR", "bad value", nil)
	if got := bare.Error(); got != "CONFIG_ERROR: bad value" {
		t.Errorf("Error() = %q", got)
	}
}

func TestWrapError(t *testing.T) {
	if WrapError(nil, "ignored") != nil {
		t.Error("wrapping nil should stay nil")
	}

	wrapped := WrapError(os.ErrNotExist, "open ledger")
	if !errors.Is(wrapped, os.ErrNotExist) {
		t.Error("wrapped error lost its cause")
	}
	if got := wrapped.Error(); got != "open ledger: file does not exist" {
		t.Errorf("Error() = %q", got)
	}
}
