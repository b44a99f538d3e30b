// SPDX-License-Identifier: EPL-2.0

package mp3

import (
	"errors"
	"fmt"
	"io"
	"time"

	gomp3 "github.com/hajimehoshi/go-mp3"
	"github.com/ik5/audstream/audio"
)

// go-mp3 always produces interleaved stereo, 16-bit little-endian.
const (
	channels      = 2
	bitsPerSample = 16
	frameSize     = channels * bitsPerSample / 8
)

// mp3Reader is an interface for gomp3.Decoder to allow testing
type mp3Reader interface {
	Read([]byte) (int, error)
	SampleRate() int
	Length() int64
}

type source struct {
	dec      mp3Reader
	format   audio.Format
	duration time.Duration
	finished bool
}

func newSource(dec mp3Reader) *source {
	s := &source{
		dec: dec,
		format: audio.Format{
			SampleRate:    dec.SampleRate(),
			Channels:      channels,
			BitsPerSample: bitsPerSample,
		},
	}

	// Length is -1 when the input cannot seek
	if l := dec.Length(); l > 0 {
		s.duration = s.format.DurationOf(l / frameSize)
	}

	return s
}

func (s *source) Format() audio.Format    { return s.format }
func (s *source) Duration() time.Duration { return s.duration }
func (s *source) Finished() bool          { return s.finished }
func (s *source) Close() error            { return nil }

func (s *source) ReadSamples(maxSamples int) (int, []byte, error) {
	if s.finished {
		return 0, nil, io.EOF
	}
	if maxSamples <= 0 {
		return 0, nil, nil
	}

	block := make([]byte, maxSamples*frameSize)
	n, err := io.ReadFull(s.dec, block)

	switch {
	case err == nil:
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		s.finished = true
	default:
		return 0, nil, &audio.DecodeError{Format: "mp3", Err: err}
	}

	n -= n % frameSize
	if n == 0 {
		return 0, nil, nil
	}

	return n / frameSize, block[:n], nil
}

func (s *source) ReadAll() ([]byte, error) {
	if s.finished {
		return nil, nil
	}

	data, err := io.ReadAll(s.dec)
	s.finished = true
	if err != nil {
		return nil, &audio.DecodeError{Format: "mp3", Err: err}
	}

	return data[:len(data)-len(data)%frameSize], nil
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, &audio.ParseError{Section: "mp3 frame header", Err: fmt.Errorf("%w", err)}
	}

	return newSource(dec), nil
}
