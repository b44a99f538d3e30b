// SPDX-License-Identifier: EPL-2.0

package audio_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/ik5/audstream/audio"
)

func TestErrorCategories(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		err     error
		is      []error
		isNot   []error
		message string
	}{
		{
			name:    "format",
			err:     &audio.FormatError{Magic: []byte("abcd")},
			is:      []error{audio.ErrUnrecognizedFormat},
			isNot:   []error{audio.ErrMalformed},
			message: "abcd",
		},
		{
			name:    "parse",
			err:     &audio.ParseError{Section: "fmt chunk", Err: io.ErrUnexpectedEOF},
			is:      []error{audio.ErrMalformed, io.ErrUnexpectedEOF},
			isNot:   []error{audio.ErrDecode},
			message: "malformed fmt chunk",
		},
		{
			name:    "parse without cause",
			err:     &audio.ParseError{Section: "RIFF header"},
			is:      []error{audio.ErrMalformed},
			message: "malformed RIFF header",
		},
		{
			name:    "compression",
			err:     &audio.UnsupportedCompressionError{Code: 0x55},
			is:      []error{audio.ErrUnsupportedCompression},
			isNot:   []error{audio.ErrMalformed},
			message: "0x0055",
		},
		{
			name:    "decode",
			err:     &audio.DecodeError{Format: "mp3", Err: io.ErrUnexpectedEOF},
			is:      []error{audio.ErrDecode, io.ErrUnexpectedEOF},
			isNot:   []error{audio.ErrBackend},
			message: "mp3 decode",
		},
		{
			name:    "backend",
			err:     &audio.BackendError{Op: "queue", Err: io.ErrClosedPipe},
			is:      []error{audio.ErrBackend, io.ErrClosedPipe},
			isNot:   []error{audio.ErrDecode},
			message: "backend queue",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			for _, target := range tt.is {
				if !errors.Is(tt.err, target) {
					t.Errorf("errors.Is(%v, %v) = false", tt.err, target)
				}
			}
			for _, target := range tt.isNot {
				if errors.Is(tt.err, target) {
					t.Errorf("errors.Is(%v, %v) = true", tt.err, target)
				}
			}
			if !strings.Contains(tt.err.Error(), tt.message) {
				t.Errorf("Error() = %q, want it to mention %q", tt.err.Error(), tt.message)
			}
		})
	}
}
