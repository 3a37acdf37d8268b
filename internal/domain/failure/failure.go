// Package failure classifies the ways a market-data request can fail.
//
// Kinds:
//   - Transport: network unreachable, non-2xx status or timeout.
//   - Provider: well-formed response whose body signals an error or a rate limit.
//   - Shape: response parses but lacks the structure expected for its category.
//   - Caller: the request itself is invalid (e.g. no function name).
//
// Transport, Provider and Shape failures are absorbed by the aggregation facade.
// Caller failures are reported to whoever issued the request.
package failure

import (
	"errors"
	"fmt"
)

// Kind enumerates the failure taxonomy.
type Kind int

const (
	KindUnknown Kind = iota
	KindTransport
	KindProvider
	KindShape
	KindCaller
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindProvider:
		return "provider"
	case KindShape:
		return "shape"
	case KindCaller:
		return "caller"
	default:
		return "unknown"
	}
}

// Error is a classified failure. Err carries the underlying cause, if any.
type Error struct {
	Kind        Kind
	Op          string // provider function or category that failed
	Message     string
	Timeout     bool // transport failures only
	RateLimited bool // provider failures only
	Err         error
}

func (e *Error) Error() string {
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	if e.Op == "" {
		return fmt.Sprintf("%s error: %s", e.Kind, msg)
	}
	return fmt.Sprintf("%s error (%s): %s", e.Kind, e.Op, msg)
}

func (e *Error) Unwrap() error { return e.Err }

// Transport builds a transport failure wrapping cause.
func Transport(op string, cause error, timeout bool) *Error {
	return &Error{Kind: KindTransport, Op: op, Err: cause, Timeout: timeout}
}

// Status builds a transport failure for an unexpected HTTP status.
func Status(op string, code int) *Error {
	return &Error{Kind: KindTransport, Op: op, Message: fmt.Sprintf("unexpected status %d", code)}
}

// Provider builds a failure for an error payload returned by the provider.
func Provider(op, message string) *Error {
	return &Error{Kind: KindProvider, Op: op, Message: message}
}

// RateLimit builds a provider failure for a quota notice.
func RateLimit(op, message string) *Error {
	return &Error{Kind: KindProvider, Op: op, Message: message, RateLimited: true}
}

// Shape builds a failure for a payload with unexpected structure.
func Shape(op, format string, args ...any) *Error {
	return &Error{Kind: KindShape, Op: op, Message: fmt.Sprintf(format, args...)}
}

// Caller builds a failure for an invalid request.
func Caller(op, message string) *Error {
	return &Error{Kind: KindCaller, Op: op, Message: message}
}

// KindOf reports the Kind of err, or KindUnknown when err is not a classified failure.
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindUnknown
}

// IsTimeout reports whether err is a transport failure caused by a timeout.
func IsTimeout(err error) bool {
	var fe *Error
	return errors.As(err, &fe) && fe.Kind == KindTransport && fe.Timeout
}

// IsRateLimited reports whether err is a provider quota failure.
func IsRateLimited(err error) bool {
	var fe *Error
	return errors.As(err, &fe) && fe.Kind == KindProvider && fe.RateLimited
}
