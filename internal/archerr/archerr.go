// Copyright (c) Elliot Nunn
// Licensed under the MIT license

// Package archerr holds the failure kinds shared by every layer of the archive codec.
package archerr

import (
	"fmt"
)

// Kind says which way an archive operation failed.
type Kind int

const (
	KindUnknown Kind = iota
	CorruptedStream
	InvalidBlockSize
	EmptyInput
)

func (k Kind) String() string {
	switch k {
	case CorruptedStream:
		return "corrupted stream"
	case InvalidBlockSize:
		return "invalid block size"
	case EmptyInput:
		return "empty input"
	default:
		return "unknown failure"
	}
}

// Error is a failure of a known Kind.
// Two Errors match under errors.Is when their Kinds are equal,
// so callers compare against the sentinels below.
type Error struct {
	Kind   Kind
	Detail string
	Err    error
}

var (
	ErrCorruptedStream  = &Error{Kind: CorruptedStream}
	ErrInvalidBlockSize = &Error{Kind: InvalidBlockSize}
	ErrEmptyInput       = &Error{Kind: EmptyInput}
)

func (e *Error) Error() string {
	str := e.Kind.String()
	if e.Detail != "" {
		str += ": " + e.Detail
	}
	if e.Err != nil {
		str += ": " + e.Err.Error()
	}
	return str
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// Corrupt describes a stream that cannot be decoded.
func Corrupt(format string, args ...any) error {
	return &Error{Kind: CorruptedStream, Detail: fmt.Sprintf(format, args...)}
}

// CorruptCause wraps a lower-level error (usually a short read) as a corrupted stream.
func CorruptCause(err error, format string, args ...any) error {
	return &Error{Kind: CorruptedStream, Detail: fmt.Sprintf(format, args...), Err: err}
}

// BadBlockSize rejects a block size outside 1-65535.
func BadBlockSize(n int) error {
	return &Error{Kind: InvalidBlockSize, Detail: fmt.Sprintf("%d not in 1-65535", n)}
}

// KindOf extracts the Kind from anywhere in an error chain.
func KindOf(err error) Kind {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return KindUnknown
		}
		err = u.Unwrap()
	}
	return KindUnknown
}
