// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"errors"
	"fmt"
)

var (
	ErrUnrecognizedFormat     = errors.New("unrecognized audio format")
	ErrMalformed              = errors.New("malformed audio data")
	ErrUnsupportedCompression = errors.New("unsupported compression")
	ErrDecode                 = errors.New("audio decode failed")
	ErrBackend                = errors.New("playback backend failure")
	ErrDecoderNotRegistered   = errors.New("no decoder registered")
	ErrInvalidFormat          = errors.New("invalid PCM format")
)

// FormatError is returned by Sniff when the magic prefix matches no known format.
type FormatError struct {
	Magic []byte
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("unrecognized audio format: magic % x (%q)", e.Magic, e.Magic)
}

func (e *FormatError) Unwrap() error { return ErrUnrecognizedFormat }

// ParseError is a structural failure: a malformed or truncated header or chunk.
type ParseError struct {
	Section string
	Err     error
}

func (e *ParseError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("malformed %s", e.Section)
	}
	return fmt.Sprintf("malformed %s: %v", e.Section, e.Err)
}

func (e *ParseError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrMalformed}
	}
	return []error{ErrMalformed, e.Err}
}

// UnsupportedCompressionError marks a valid container holding a codec we cannot decode.
type UnsupportedCompressionError struct {
	Code uint16
}

func (e *UnsupportedCompressionError) Error() string {
	return fmt.Sprintf("unsupported compression code 0x%04x", e.Code)
}

func (e *UnsupportedCompressionError) Unwrap() error { return ErrUnsupportedCompression }

// DecodeError is corruption discovered while pulling samples from a streamed format.
type DecodeError struct {
	Format string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s decode: %v", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() []error { return []error{ErrDecode, e.Err} }

// BackendError is a failed playback device operation.
type BackendError struct {
	Op  string
	Err error
}

func (e *BackendError) Error() string {
	return fmt.Sprintf("backend %s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() []error { return []error{ErrBackend, e.Err} }
