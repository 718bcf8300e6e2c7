package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies an operation failure for the view layer. Kinds are
// the contract between the core and the UI: the UI translates each kind into
// a message and clears it on the next user action.
type ErrorKind string

// error kinds
const (
	ErrInvalidCredential   ErrorKind = "invalid_credential"   // bad identity/secret pair
	ErrAccountExists       ErrorKind = "account_exists"       // sign-up against an existing identity
	ErrWeakSecret          ErrorKind = "weak_secret"          // secret policy violation
	ErrUserCancelled       ErrorKind = "user_cancelled"       // federated flow aborted, not a real failure
	ErrNotAuthenticated    ErrorKind = "not_authenticated"    // no valid session
	ErrRateLimited         ErrorKind = "rate_limited"         // retry budget exhausted on 429s
	ErrNetwork             ErrorKind = "network"              // transport-level failure
	ErrRequestFailed       ErrorKind = "request_failed"       // backend-reported failure
	ErrBackendVerification ErrorKind = "backend_verification" // provider accepted, backend profile lookup did not
)

// Error is a classified failure returned to the caller of the triggering
// operation. Status is set for backend-reported failures, zero otherwise.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
	Err     error
}

// Error implements the error interface
func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Status != 0:
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return string(e.Kind)
}

// Unwrap exposes the underlying cause for errors.Is/As chains
func (e *Error) Unwrap() error { return e.Err }

// NewError makes a classified error with a message
func NewError(kind ErrorKind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

// WrapError makes a classified error around an underlying cause
func WrapError(kind ErrorKind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}

// KindOf extracts the classification from err, empty if unclassified
func KindOf(err error) ErrorKind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// IsKind reports whether err carries the given classification
func IsKind(err error, kind ErrorKind) bool { return KindOf(err) == kind }
