package errors

import (
	"fmt"
	"testing"
)

func TestValidationErrorMessage(t *testing.T) {
	tests := []struct {
		name string
		err  *ValidationError
		want string
	}{
		{"with reason", &ValidationError{Field: "content", Reason: "cannot be blank"}, "invalid content: cannot be blank"},
		{"without reason", &ValidationError{Field: "date"}, "invalid date"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Errorf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestServerErrorMessage(t *testing.T) {
	withStatus := &ServerError{Status: 502, Detail: "bad gateway"}
	if got := withStatus.Error(); got != "server error (status 502): bad gateway" {
		t.Errorf("Error() = %q", got)
	}
	withoutStatus := &ServerError{Detail: "connection refused"}
	if got := withoutStatus.Error(); got != "server error: connection refused" {
		t.Errorf("Error() = %q", got)
	}
}

func TestSentinelsSurviveWrapping(t *testing.T) {
	for _, sentinel := range []error{ErrNotFound, ErrNoActiveContext, ErrSuperseded} {
		wrapped := fmt.Errorf("outer: %w", sentinel)
		if !Is(wrapped, sentinel) {
			t.Errorf("Is() lost %v through wrapping", sentinel)
		}
	}
}

func TestAsUnwrapsTypedErrors(t *testing.T) {
	wrapped := fmt.Errorf("create failed: %w", &ValidationError{Field: "name"})
	var verr *ValidationError
	if !As(wrapped, &verr) {
		t.Fatal("As() failed to find ValidationError")
	}
	if verr.Field != "name" {
		t.Errorf("Field = %q, want name", verr.Field)
	}
}

func TestFormat(t *testing.T) {
	if got := Format(nil); got != "" {
		t.Errorf("Format(nil) = %q, want empty", got)
	}
	if got := Format(ErrNotFound); got != "Error: record not found" {
		t.Errorf("Format() = %q", got)
	}
}
