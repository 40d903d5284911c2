package errors

import (
	"errors"
	"fmt"
	"os"

	"github.com/daybook-app/daybook/internal/logger"
)

var (
	// ErrNotFound is returned when a referenced id has no record.
	ErrNotFound = errors.New("record not found")

	// ErrNoActiveContext is returned when a lazy-create operation runs
	// before a (profile, date) context has been loaded.
	ErrNoActiveContext = errors.New("no active profile/date context")

	// ErrSuperseded is returned when a fetch resolves after a newer fetch
	// for the same view has been issued; the stale result is discarded.
	ErrSuperseded = errors.New("superseded by a newer request")
)

// ValidationError indicates bad input shape: a required field is missing
// or blank. It is raised before any network call where possible.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("invalid %s", e.Field)
	}
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// QueryError indicates a malformed filter or sort expression was rejected
// by the record server.
type QueryError struct {
	Query  string
	Detail string
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("bad query %q: %s", e.Query, e.Detail)
}

// ServerError is an opaque transport or server failure.
type ServerError struct {
	Status int
	Detail string
}

func (e *ServerError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("server error (status %d): %s", e.Status, e.Detail)
	}
	return fmt.Sprintf("server error: %s", e.Detail)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool { return errors.Is(err, target) }

// As finds the first error in err's chain matching target's type.
func As(err error, target any) bool { return errors.As(err, target) }

// Format formats an error message with a consistent "Error: " prefix
func Format(err error) string {
	if err == nil {
		return ""
	}
	return fmt.Sprintf("Error: %v", err)
}

// Fatal logs an error and exits the program with exit code 1
func Fatal(err error) {
	if err != nil {
		logger.Error("Command execution failed", "error", err)
		fmt.Fprintf(os.Stderr, "%s\n", Format(err))
		os.Exit(1)
	}
}
