package processor

import "fmt"

// ErrorKind classifies command failures. Every kind is recoverable at the
// command boundary: a failed command leaves the registries untouched.
type ErrorKind string

const (
	// KindNotFound means a get targeted an id absent from its registry.
	KindNotFound ErrorKind = "not_found"
	// KindUnresolvable means a verify-query commitment or model hash matched
	// no registered entry, or the resolved model is not approved.
	KindUnresolvable ErrorKind = "unresolvable"
	// KindMalformed means required command fields were missing or malformed.
	KindMalformed ErrorKind = "malformed"
	// KindIndeterminate means the oracle could not produce a definitive
	// answer. Nothing is persisted.
	KindIndeterminate ErrorKind = "verification_indeterminate"
	// KindInternal means a persistence failure while landing the command.
	KindInternal ErrorKind = "internal"
)

// Error is a classified command failure.
type Error struct {
	Kind    ErrorKind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func notFound(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func unresolvable(format string, args ...interface{}) *Error {
	return &Error{Kind: KindUnresolvable, Message: fmt.Sprintf(format, args...)}
}

func malformed(err error) *Error {
	return &Error{Kind: KindMalformed, Message: err.Error()}
}

func indeterminate(message string, err error) *Error {
	return &Error{Kind: KindIndeterminate, Message: message, Err: err}
}

func internal(message string, err error) *Error {
	return &Error{Kind: KindInternal, Message: message, Err: err}
}

// statusFor maps an error kind to the HTTP status rendered by the gateway.
func statusFor(kind ErrorKind) int {
	switch kind {
	case KindNotFound:
		return 404
	case KindMalformed:
		return 400
	case KindUnresolvable:
		return 422
	case KindIndeterminate:
		return 502
	default:
		return 500
	}
}
