package orchestrator

import (
	"errors"
	"testing"
)

func TestPermanentErrorMessage(t *testing.T) {
	err := &PermanentError{Reason: "record not found"}
	if err.Error() != "permanent: record not found" {
		t.Fatalf("unexpected message: %q", err.Error())
	}
}

func TestErrorsAsMatchesPermanentError(t *testing.T) {
	var wrapped error = &PermanentError{Reason: "bad id"}
	var perm *PermanentError
	if !errors.As(wrapped, &perm) {
		t.Fatalf("expected errors.As to match *PermanentError")
	}
	if perm.Reason != "bad id" {
		t.Fatalf("unexpected reason: %q", perm.Reason)
	}
}

func TestErrorsAsRejectsPlainError(t *testing.T) {
	var plain error = errors.New("transient db timeout")
	var perm *PermanentError
	if errors.As(plain, &perm) {
		t.Fatalf("plain error should not match *PermanentError")
	}
}
