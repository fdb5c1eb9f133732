package apperror

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindValidation     Kind = "VALIDATION_ERROR"
	KindConflict       Kind = "CONFLICT"
	KindNotFound       Kind = "NOT_FOUND"
	KindInvalidState   Kind = "INVALID_STATE"
	KindUnresolvedRate Kind = "UNRESOLVED_RATE"
)

// Error carries the record or field at fault so callers can act on it.
type Error struct {
	Kind     Kind
	Resource string
	RecordID string
	Field    string
	Message  string
	Details  map[string]string
	Err      error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.RecordID != "" {
		return fmt.Sprintf("%s (%s %s)", msg, e.Resource, e.RecordID)
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Conflict(err error, resource, recordID, message string) *Error {
	return &Error{Kind: KindConflict, Resource: resource, RecordID: recordID, Message: message, Err: err}
}

func NotFound(err error, resource, recordID string) *Error {
	return &Error{Kind: KindNotFound, Resource: resource, RecordID: recordID, Message: err.Error(), Err: err}
}

func InvalidState(err error, resource, recordID, message string) *Error {
	return &Error{Kind: KindInvalidState, Resource: resource, RecordID: recordID, Message: message, Err: err}
}

func Validation(err error, field, message string) *Error {
	return &Error{Kind: KindValidation, Field: field, Message: message, Err: err}
}

// UnresolvedRate reports a gap in a rate schedule. It is a business condition,
// not a missing entity.
func UnresolvedRate(err error, details map[string]string, message string) *Error {
	return &Error{Kind: KindUnresolvedRate, Resource: "rate_schedule", Message: message, Details: details, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) (Kind, bool) {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind, true
	}
	return "", false
}

// Is reports whether err carries the given kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}
