package translate

import (
	"errors"
	"fmt"
)

// Kind classifies translation failures by how callers should react.
type Kind int

const (
	// KindUnknown is reported for errors that carry no Kind.
	KindUnknown Kind = iota
	// KindTransport is a network or server-side failure. Retryable.
	KindTransport
	// KindUndetectable means the backend could not identify the input
	// language (symbols, numerals). The text is passed through unchanged.
	KindUndetectable
	// KindClient is a request the backend rejected for good. Not retryable.
	KindClient
	// KindExhausted means every attempt failed.
	KindExhausted
	// KindInput is a request rejected because of the text itself (too long,
	// malformed). The text is passed through unchanged.
	KindInput
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindUndetectable:
		return "undetectable"
	case KindClient:
		return "client"
	case KindExhausted:
		return "exhausted"
	case KindInput:
		return "input"
	default:
		return "unknown"
	}
}

// Error is a translation failure with a policy-relevant Kind.
type Error struct {
	Kind     Kind
	Op       string
	Attempts int
	Err      error
}

func (e *Error) Error() string {
	msg := e.Op + ": " + e.Kind.String()
	if e.Attempts > 0 {
		msg += fmt.Sprintf(" after %d attempts", e.Attempts)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether the same request may succeed on another attempt.
func (e *Error) Retryable() bool {
	return e.Kind == KindTransport
}

// ErrUndefinedLanguage marks backend responses that name the "und" language.
var ErrUndefinedLanguage = errors.New("language undefined")

// TransportError wraps err as a retryable failure of op.
func TransportError(op string, err error) error {
	return &Error{Kind: KindTransport, Op: op, Err: err}
}

// ClientError wraps err as a non-retryable failure of op.
func ClientError(op string, err error) error {
	return &Error{Kind: KindClient, Op: op, Err: err}
}

// InputError reports that op rejected the text it was given.
func InputError(op string, err error) error {
	return &Error{Kind: KindInput, Op: op, Err: err}
}

// PassThrough reports whether err means the original text should be shown
// as is rather than surfaced as a failure.
func PassThrough(err error) bool {
	switch KindOf(err) {
	case KindUndetectable, KindInput:
		return true
	default:
		return false
	}
}

// UndetectableError reports that op could not determine the input language.
func UndetectableError(op string, err error) error {
	if err == nil {
		err = ErrUndefinedLanguage
	}
	return &Error{Kind: KindUndetectable, Op: op, Err: err}
}

// KindOf returns the Kind carried by err, or KindUnknown.
func KindOf(err error) Kind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return KindUnknown
}

// IsRetryable reports whether err is worth another attempt. Errors without a
// Kind are treated as transport failures.
func IsRetryable(err error) bool {
	if err == nil {
		return false
	}
	switch KindOf(err) {
	case KindTransport, KindUnknown:
		return true
	default:
		return false
	}
}
