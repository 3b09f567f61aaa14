package domain

import "errors"

// ErrorKind tags a classified error. The string value is what clients see in
// the error_code field of an error response.
type ErrorKind string

const (
	// KindValidation marks client-supplied data that failed a domain rule.
	KindValidation ErrorKind = "VALIDATION_ERROR"
	// KindNotFound marks a read that legitimately matched zero rows.
	KindNotFound ErrorKind = "RIDES_NOT_FOUND_ERROR"
	// KindServer marks a failure reported by the underlying store.
	KindServer ErrorKind = "SERVER_ERROR"
)

// Messages used by the data access layer. Store failures always surface with
// MsgUnknown so driver details never reach clients.
const (
	MsgUnknown  = "Unknown error"
	MsgNotFound = "Could not find any rides"
)

// Error is a classified error: a kind plus a client-safe message. The
// optional cause is kept for logging and errors.Is/As, and is never
// serialized.
type Error struct {
	Kind    ErrorKind `json:"error_code"`
	Message string    `json:"message"`

	cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.cause != nil {
		return string(e.Kind) + ": " + e.Message + ": " + e.cause.Error()
	}
	return string(e.Kind) + ": " + e.Message
}

// Unwrap exposes the underlying cause, if any.
func (e *Error) Unwrap() error { return e.cause }

// Cause returns the suppressed underlying error (nil for validation and
// not-found errors).
func (e *Error) Cause() error { return e.cause }

// ValidationError builds a VALIDATION_ERROR with msg.
func ValidationError(msg string) *Error {
	return &Error{Kind: KindValidation, Message: msg}
}

// NotFoundError builds the RIDES_NOT_FOUND_ERROR returned for empty reads.
func NotFoundError() *Error {
	return &Error{Kind: KindNotFound, Message: MsgNotFound}
}

// ServerError wraps a store failure. The cause is retained for logs only.
func ServerError(cause error) *Error {
	return &Error{Kind: KindServer, Message: MsgUnknown, cause: cause}
}

// AsError converts any error into a classified one. Errors that are not
// already classified become SERVER_ERROR with their detail suppressed.
func AsError(err error) *Error {
	if err == nil {
		return nil
	}
	var ce *Error
	if errors.As(err, &ce) {
		return ce
	}
	return ServerError(err)
}

// KindOf returns the kind of err, defaulting to KindServer. A nil error has
// no kind.
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	return AsError(err).Kind
}
