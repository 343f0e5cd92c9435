// Package domainerrors defines the typed errors the service layer returns and
// the HTTP layer translates. Every failure a caller can act on carries a stable
// Code; handlers map codes to status lines without inspecting messages.
package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code identifies a class of domain failure.
type Code string

const (
	// CodeValidation covers malformed or missing input fields.
	CodeValidation Code = "validation_failed"
	// CodeVerification covers a wrong verification code.
	CodeVerification Code = "verification_failed"
	// CodeUnauthorized covers missing or invalid credentials.
	CodeUnauthorized Code = "unauthorized"
	// CodeForbidden covers callers that are not a legitimate party to the donation.
	CodeForbidden Code = "forbidden"
	// CodeNotFound covers unknown donation identifiers.
	CodeNotFound Code = "not_found"
	// CodeNotAvailable covers a lost reservation race; callers should re-fetch,
	// not retry the same call.
	CodeNotAvailable Code = "not_available"
	// CodeInvalidState covers operations that are not valid for the donation's
	// current status.
	CodeInvalidState Code = "invalid_state"
	// CodeAlreadyConfirmed marks the idempotency boundary of confirmation.
	CodeAlreadyConfirmed Code = "already_confirmed"
	// CodeTimeout covers request deadline expiry.
	CodeTimeout Code = "timeout"
	// CodeInternal covers everything the caller cannot act on.
	CodeInternal Code = "internal"
)

// Error is the concrete error type carried across the service boundary.
type Error struct {
	Code    Code
	Message string
	err     error
}

func (e *Error) Error() string {
	if e.err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.err }

// New constructs a domain error with the given code and message.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap attaches a code and message to an underlying error, preserving the
// chain for errors.Is / errors.As.
func Wrap(err error, code Code, message string) *Error {
	return &Error{Code: code, Message: message, err: err}
}

// Is reports whether err (or anything it wraps) is a domain error with the
// given code.
func Is(err error, code Code) bool {
	var de *Error
	if errors.As(err, &de) {
		return de.Code == code
	}
	return false
}

// CodeOf extracts the code from err, defaulting to CodeInternal for errors
// that did not originate in the domain layer.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// ToHTTPStatus maps a domain code to its HTTP status line.
func ToHTTPStatus(code Code) int {
	switch code {
	case CodeValidation, CodeVerification:
		return http.StatusBadRequest
	case CodeUnauthorized:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	case CodeNotFound:
		return http.StatusNotFound
	case CodeNotAvailable, CodeInvalidState, CodeAlreadyConfirmed:
		return http.StatusConflict
	case CodeTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}
