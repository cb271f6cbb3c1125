// Package booking implements the venue booking core: the event
// scheduler state machine, the booking conflict checker, the lifecycle
// sweeper and the reminder dispatcher.  Storage is reached through the
// small store interfaces in stores.go so the logic is independent of
// the SQL layer.
package booking

import (
	"errors"
	"fmt"
)

// Kind classifies a booking failure so the HTTP layer can map it to a
// status code and clients can distinguish "pick a different time" from
// "pick a different venue" from "wait until the policy window opens".
type Kind int

const (
	// KindInvalidRequest marks malformed input, e.g. start >= end or
	// missing required fields.
	KindInvalidRequest Kind = iota + 1
	// KindNotFound marks a reference to a venue or event that does not exist.
	KindNotFound
	// KindPolicyViolation marks lead-time, business-hours or
	// no-capacity-available conditions.
	KindPolicyViolation
	// KindConflict marks a double-booking detected at commit time.
	KindConflict
	// KindStorage marks a transient infrastructure failure.
	KindStorage
)

// Error carries a machine-readable kind and code plus a human-readable
// message.  Validation and policy errors are produced before any
// mutation, so callers may retry the whole request safely.
type Error struct {
	Kind    Kind   `json:"-"`
	Code    string `json:"error"`
	Message string `json:"message"`
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// AsError extracts a booking *Error from an error chain.
func AsError(err error) (*Error, bool) {
	var be *Error
	if errors.As(err, &be) {
		return be, true
	}
	return nil, false
}

func invalidRequest(msg string) *Error {
	return &Error{Kind: KindInvalidRequest, Code: "invalid_request", Message: msg}
}

func notFound(code, msg string) *Error {
	return &Error{Kind: KindNotFound, Code: code, Message: msg}
}

func policyViolation(code, msg string) *Error {
	return &Error{Kind: KindPolicyViolation, Code: code, Message: msg}
}

func conflict(code, msg string) *Error {
	return &Error{Kind: KindConflict, Code: code, Message: msg}
}

func storageError(err error) *Error {
	return &Error{Kind: KindStorage, Code: "storage_error", Message: "storage operation failed", cause: err}
}
