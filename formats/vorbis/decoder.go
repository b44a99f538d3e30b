// SPDX-License-Identifier: EPL-2.0

package vorbis

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ik5/audstream/audio"
	"github.com/ik5/audstream/utils"
	"github.com/jfreymuth/oggvorbis"
)

const bitsPerSample = 16

// oggReader is an interface for oggvorbis.Reader to allow testing
type oggReader interface {
	SampleRate() int
	Channels() int
	Length() int64
	// Read returns the number of interleaved values decoded.
	Read([]float32) (int, error)
}

type source struct {
	dec      oggReader
	format   audio.Format
	duration time.Duration
	frameBuf []float32 // reused between pulls
	finished bool
}

func newSource(dec oggReader) *source {
	s := &source{
		dec: dec,
		format: audio.Format{
			SampleRate:    dec.SampleRate(),
			Channels:      dec.Channels(),
			BitsPerSample: bitsPerSample,
		},
	}
	s.duration = s.format.DurationOf(dec.Length())

	return s
}

func (s *source) Format() audio.Format    { return s.format }
func (s *source) Duration() time.Duration { return s.duration }
func (s *source) Finished() bool          { return s.finished }
func (s *source) Close() error            { return nil }

// fill decodes up to len(buf) values, stopping early only at the end of the
// stream.
func (s *source) fill(buf []float32) (int, error) {
	var total int
	for total < len(buf) {
		n, err := s.dec.Read(buf[total:])
		total += n

		if errors.Is(err, io.EOF) {
			s.finished = true
			break
		}
		if err != nil {
			return total, &audio.DecodeError{Format: "vorbis", Err: err}
		}
		if n == 0 {
			break
		}
	}

	return total, nil
}

func (s *source) ReadSamples(maxSamples int) (int, []byte, error) {
	if s.finished {
		return 0, nil, io.EOF
	}
	if maxSamples <= 0 {
		return 0, nil, nil
	}

	want := maxSamples * s.format.Channels
	if cap(s.frameBuf) < want {
		s.frameBuf = make([]float32, want)
	}

	n, err := s.fill(s.frameBuf[:want])
	if err != nil {
		return 0, nil, err
	}

	n -= n % s.format.Channels
	if n == 0 {
		return 0, nil, nil
	}

	block := utils.AppendFloat32AsPCM16(make([]byte, 0, n*2), s.frameBuf[:n])

	return n / s.format.Channels, block, nil
}

func (s *source) ReadAll() ([]byte, error) {
	var out []byte
	for !s.finished {
		_, block, err := s.ReadSamples(s.format.SampleRate)
		if err != nil {
			return nil, err
		}
		if len(block) == 0 && !s.finished {
			break
		}
		out = append(out, block...)
	}

	s.finished = true
	s.frameBuf = nil

	return out, nil
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	dec, err := oggvorbis.NewReader(r)
	if err != nil {
		return nil, &audio.ParseError{Section: "vorbis headers", Err: fmt.Errorf("%w", err)}
	}
	if dec.Channels() <= 0 || dec.SampleRate() <= 0 {
		return nil, &audio.ParseError{Section: "vorbis headers", Err: audio.ErrInvalidFormat}
	}

	return newSource(dec), nil
}
