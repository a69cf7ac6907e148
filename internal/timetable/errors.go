package timetable

import "fmt"

// ErrorKind enumerates the core's error taxonomy (spec §7). The HTTP service
// boundary translates these into pkg/errors.Error; the core itself stays
// unaware of HTTP status codes.
type ErrorKind string

const (
	// InputMissing: the snapshot lacks one of the required entity collections.
	InputMissing ErrorKind = "InputMissing"
	// InputInvalid: a value fails a structural invariant (bad time string,
	// working hours misconfigured, duration not a positive multiple of the
	// slot granularity, weight out of range, ...).
	InputInvalid ErrorKind = "InputInvalid"
	// Infeasible: the best vector still carries hard violations after
	// annealing. Not fatal — returned alongside a populated Result.
	Infeasible ErrorKind = "Infeasible"
	// Cancelled: the wall-clock budget expired or the caller cancelled.
	// Returned alongside a populated Result, not as a bare error.
	Cancelled ErrorKind = "Cancelled"
	// Internal: an invariant breach, e.g. a dangling id reference.
	Internal ErrorKind = "Internal"
)

// Error is the core's own error type. FieldPath is populated for
// InputInvalid errors so callers can report exactly what was wrong.
type Error struct {
	Kind      ErrorKind
	Message   string
	FieldPath string
}

func (e *Error) Error() string {
	if e.FieldPath != "" {
		return fmt.Sprintf("%s: %s (%s)", e.Kind, e.Message, e.FieldPath)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func newMissing(message string) *Error {
	return &Error{Kind: InputMissing, Message: message}
}

func newInvalid(field, message string) *Error {
	return &Error{Kind: InputInvalid, Message: message, FieldPath: field}
}

func newInternal(message string) *Error {
	return &Error{Kind: Internal, Message: message}
}
