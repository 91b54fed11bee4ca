package cbor

import (
	"fmt"

	"github.com/pkg/errors"
)

// ContextError reports a value written where a field name was expected,
// an end-container call of the wrong kind, a write after Close, or a
// field name written outside a map frame.
type ContextError struct {
	Msg string
}

func (e *ContextError) Error() string { return "cbor: context: " + e.Msg }

func newContextError(format string, args ...interface{}) *ContextError {
	return &ContextError{Msg: fmt.Sprintf(format, args...)}
}

// SizeMismatchError reports a definite-length container closed with a
// nonzero element count remaining, or a scalar written past remaining==0.
type SizeMismatchError struct {
	Msg string
}

func (e *SizeMismatchError) Error() string { return "cbor: size mismatch: " + e.Msg }

func newSizeMismatchError(format string, args ...interface{}) *SizeMismatchError {
	return &SizeMismatchError{Msg: fmt.Sprintf(format, args...)}
}

// EncodingError reports an invalid UCS-2 surrogate sequence encountered
// under strict UTF-8 transcoding.
type EncodingError struct {
	CodePoint uint16
	BadEnd    bool // true: unmatched high surrogate awaiting a low; false: unpaired low surrogate
}

func (e *EncodingError) Error() string {
	kind := "unmatched-start"
	if e.BadEnd {
		kind = "bad-end"
	}
	return fmt.Sprintf("cbor: encoding: invalid surrogate U+%04X (%s)", e.CodePoint, kind)
}

// ArgumentError reports a negative tag id, a negative length, or a
// negative length passed to a streaming binary write.
type ArgumentError struct {
	Msg string
}

func (e *ArgumentError) Error() string { return "cbor: argument: " + e.Msg }

func newArgumentError(format string, args ...interface{}) *ArgumentError {
	return &ArgumentError{Msg: fmt.Sprintf(format, args...)}
}

// IoError wraps an error surfaced verbatim from the Sink.
type IoError struct {
	Err error
}

func (e *IoError) Error() string { return "cbor: io: " + e.Err.Error() }
func (e *IoError) Unwrap() error { return e.Err }

func wrapIoError(err error, context string) error {
	if err == nil {
		return nil
	}
	return &IoError{Err: errors.Wrap(err, context)}
}

// ConstraintError reports nesting depth exceeding the configured maximum.
type ConstraintError struct {
	Msg string
}

func (e *ConstraintError) Error() string { return "cbor: constraint: " + e.Msg }

func newConstraintError(format string, args ...interface{}) *ConstraintError {
	return &ConstraintError{Msg: fmt.Sprintf(format, args...)}
}

// errShortRead is returned (wrapped in ArgumentError) when a streaming
// binary write's source reader produces fewer bytes than declared.
func errShortRead(missing int) error {
	return newArgumentError("short read: %d byte(s) missing from declared binary length", missing)
}
