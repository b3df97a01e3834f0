// Package vmerrors defines the structured error type shared by the vmprog
// build and verify pipelines. Callers distinguish failure cases by Kind,
// never by parsing the message (per the original spec's error handling
// design).
package vmerrors

import (
	"errors"
	"fmt"
)

// Kind enumerates the machine-readable failure codes a caller can switch
// on. The string form is only for humans.
type Kind int

const (
	KindUnknown Kind = iota

	// Build-time validation failures.
	KindStringTooLong
	KindMissingField
	KindInvalidVersion
	KindInvalidAbiRange
	KindTooManyParameters
	KindDuplicateParameterID
	KindInvalidParameter
	KindInvalidHardwareFlag
	KindInvalidCoreID
	KindTooManyArtifacts
	KindRecordSizeMismatch
	KindPackageTooLarge

	// Verify-time structural failures (§6 of the original spec).
	KindInvalidFileSize
	KindInvalidMagic
	KindInvalidVersionField
	KindInvalidHeaderSize
	KindInvalidTocOffset
	KindInvalidTocSize
	KindInvalidTocCount
	KindInvalidTocEntry
	KindInvalidPayloadOffset
	KindInvalidHash
	KindInvalidConfig
	KindInvalidDescriptor
	KindInvalidSignature
	KindDescriptorMismatch
)

func (k Kind) String() string {
	switch k {
	case KindStringTooLong:
		return "StringTooLong"
	case KindMissingField:
		return "MissingField"
	case KindInvalidVersion:
		return "InvalidVersion"
	case KindInvalidAbiRange:
		return "InvalidAbiRange"
	case KindTooManyParameters:
		return "TooManyParameters"
	case KindDuplicateParameterID:
		return "DuplicateParameterID"
	case KindInvalidParameter:
		return "InvalidParameter"
	case KindInvalidHardwareFlag:
		return "InvalidHardwareFlag"
	case KindInvalidCoreID:
		return "InvalidCoreID"
	case KindTooManyArtifacts:
		return "TooManyArtifacts"
	case KindRecordSizeMismatch:
		return "RecordSizeMismatch"
	case KindPackageTooLarge:
		return "PackageTooLarge"
	case KindInvalidFileSize:
		return "InvalidFileSize"
	case KindInvalidMagic:
		return "InvalidMagic"
	case KindInvalidVersionField:
		return "InvalidVersion"
	case KindInvalidHeaderSize:
		return "InvalidHeaderSize"
	case KindInvalidTocOffset:
		return "InvalidTocOffset"
	case KindInvalidTocSize:
		return "InvalidTocSize"
	case KindInvalidTocCount:
		return "InvalidTocCount"
	case KindInvalidTocEntry:
		return "InvalidTocEntry"
	case KindInvalidPayloadOffset:
		return "InvalidPayloadOffset"
	case KindInvalidHash:
		return "InvalidHash"
	case KindInvalidConfig:
		return "InvalidConfig"
	case KindInvalidDescriptor:
		return "InvalidDescriptor"
	case KindInvalidSignature:
		return "InvalidSignature"
	case KindDescriptorMismatch:
		return "DescriptorMismatch"
	default:
		return "Unknown"
	}
}

// Error is the single structured error type propagated to the boundary by
// both the builder and the verifier. Field/Offset/Expected/Actual are
// populated as available so a caller can localize the problem without
// parsing Msg.
type Error struct {
	Kind     Kind
	Field    string
	Offset   int64
	Expected any
	Actual   any
	Msg      string
	Wrapped  error
}

func (e *Error) Error() string {
	s := fmt.Sprintf("vmprog: %s", e.Kind)
	if e.Field != "" {
		s += fmt.Sprintf(" field=%s", e.Field)
	}
	if e.Offset != 0 {
		s += fmt.Sprintf(" offset=%d", e.Offset)
	}
	if e.Expected != nil || e.Actual != nil {
		s += fmt.Sprintf(" expected=%v actual=%v", e.Expected, e.Actual)
	}
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Wrapped != nil {
		s += ": " + e.Wrapped.Error()
	}
	return s
}

func (e *Error) Unwrap() error { return e.Wrapped }

// Is makes errors.Is report a match between two *Error values that share
// the same Kind.
func (e *Error) Is(target error) bool {
	var other *Error
	if errors.As(target, &other) {
		return e.Kind == other.Kind
	}
	return false
}

// New constructs a validation error with a field name and message. Used by
// the config record builder for §4.2 ValidationError{field, reason}.
func New(kind Kind, field, msg string) *Error {
	return &Error{Kind: kind, Field: field, Msg: msg}
}

// Newf is New with formatted message.
func Newf(kind Kind, field, format string, args ...any) *Error {
	return &Error{Kind: kind, Field: field, Msg: fmt.Sprintf(format, args...)}
}

// Wrap attaches Kind/context to an underlying error.
func Wrap(kind Kind, err error, msg string) *Error {
	return &Error{Kind: kind, Msg: msg, Wrapped: err}
}

// WithOffset returns a copy of e with Offset set, for verifier errors that
// need to localize a byte position.
func (e *Error) WithOffset(off int64) *Error {
	c := *e
	c.Offset = off
	return &c
}

// WithExpectedActual returns a copy of e with expected/actual populated.
func (e *Error) WithExpectedActual(expected, actual any) *Error {
	c := *e
	c.Expected = expected
	c.Actual = actual
	return &c
}

// Of returns true if err is a *Error with the given Kind.
func Of(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}
