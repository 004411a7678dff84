package errors

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Kind identifies one class in the closed failure taxonomy. Every error that
// crosses the dispatcher boundary is carried by exactly one Kind.
type Kind string

const (
	KindInvalidInput          Kind = "invalid_input"
	KindCapabilityUnavailable Kind = "capability_unavailable"
	KindUnauthorized          Kind = "unauthorized"
	KindRateLimited           Kind = "rate_limited"
	KindTransientNetwork      Kind = "transient_network"
	KindInsufficientBalance   Kind = "insufficient_balance"
	KindUserNotFound          Kind = "user_not_found"
	KindUnknown               Kind = "unknown"
)

// kindMessages holds the fixed user-safe message per kind. Raw causes are
// never forwarded to callers, only logged.
var kindMessages = map[Kind]string{
	KindInvalidInput:          "invalid request",
	KindCapabilityUnavailable: "ai service is temporarily unavailable",
	KindUnauthorized:          "ai service rejected the configured credentials",
	KindRateLimited:           "too many requests",
	KindTransientNetwork:      "request timed out, please try again",
	KindInsufficientBalance:   "insufficient balance",
	KindUserNotFound:          "user not found",
	KindUnknown:               "internal server error",
}

var kindStatus = map[Kind]int{
	KindInvalidInput:          http.StatusBadRequest,
	KindCapabilityUnavailable: http.StatusServiceUnavailable,
	KindUnauthorized:          http.StatusBadGateway,
	KindRateLimited:           http.StatusTooManyRequests,
	KindTransientNetwork:      http.StatusGatewayTimeout,
	KindInsufficientBalance:   http.StatusPaymentRequired,
	KindUserNotFound:          http.StatusNotFound,
	KindUnknown:               http.StatusInternalServerError,
}

var kindRetryable = map[Kind]bool{
	KindCapabilityUnavailable: true,
	KindRateLimited:           true,
	KindTransientNetwork:      true,
}

// Error is a classified failure. Message is safe to show to callers; Err is
// the internal cause and stays in logs.
type Error struct {
	Kind      Kind
	Message   string
	Retryable bool
	Err       error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the wrapped cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches classified errors by kind, so errors.Is works against a bare
// &Error{Kind: k} target alongside cause matching.
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return false
}

// StatusCode returns the HTTP status for the error's kind.
func (e *Error) StatusCode() int {
	if s, ok := kindStatus[e.Kind]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// New creates a classified error of the given kind with its fixed message.
func New(kind Kind, cause error) *Error {
	return &Error{
		Kind:      kind,
		Message:   kindMessages[kind],
		Retryable: kindRetryable[kind],
		Err:       cause,
	}
}

// InvalidInput creates a caller error with a validation message. The message
// comes from our own validation and is safe to return.
func InvalidInput(message string) *Error {
	return &Error{Kind: KindInvalidInput, Message: message}
}

// CapabilityUnavailable marks the external capability as not usable right now.
func CapabilityUnavailable(cause error) *Error {
	return New(KindCapabilityUnavailable, cause)
}

// Unauthorized marks a credential rejection by the external capability.
func Unauthorized(cause error) *Error {
	return New(KindUnauthorized, cause)
}

// RateLimited marks an upstream or local rate limit hit.
func RateLimited(cause error) *Error {
	return New(KindRateLimited, cause)
}

// TransientNetwork marks a timeout or transport failure worth retrying.
func TransientNetwork(cause error) *Error {
	return New(KindTransientNetwork, cause)
}

// InsufficientBalance marks a ledger balance too low for the requested spend.
func InsufficientBalance(cause error) *Error {
	return New(KindInsufficientBalance, cause)
}

// UserNotFound marks a ledger lookup for an unknown user.
func UserNotFound(cause error) *Error {
	return New(KindUserNotFound, cause)
}

// Unknown wraps an unrecognized failure with a generic safe message.
func Unknown(cause error) *Error {
	return New(KindUnknown, cause)
}

// Classify normalizes any failure into a classified Error. Discrimination is
// structural only: already-classified errors pass through, context and net
// timeouts become TransientNetwork, everything else is Unknown.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return TransientNetwork(err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return TransientNetwork(err)
	}

	return Unknown(err)
}

// KindOf returns the classified kind of err, or KindUnknown.
func KindOf(err error) Kind {
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Kind
	}
	return KindUnknown
}

// IsRetryable reports whether the caller may retry the failed request later.
func IsRetryable(err error) bool {
	var classified *Error
	if errors.As(err, &classified) {
		return classified.Retryable
	}
	return false
}
