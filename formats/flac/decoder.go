// SPDX-License-Identifier: EPL-2.0

package flac

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ik5/audstream/audio"
	"github.com/ik5/audstream/utils"
	"github.com/mewkiz/flac"
)

// frameReader yields decoded frames as one sample slice per channel.
type frameReader interface {
	NextFrame() ([][]int32, error)
}

type streamFrames struct {
	stream *flac.Stream
}

func (f streamFrames) NextFrame() ([][]int32, error) {
	fr, err := f.stream.ParseNext()
	if err != nil {
		return nil, err
	}

	channels := make([][]int32, len(fr.Subframes))
	for i, sub := range fr.Subframes {
		channels[i] = sub.Samples
	}

	return channels, nil
}

type source struct {
	frames   frameReader
	format   audio.Format
	duration time.Duration
	// shift widens codec samples to the container width
	shift   int
	pending []byte
	eof     bool
}

func newSource(frames frameReader, sampleRate, channels, bitsPerSample int, totalSamples uint64) (*source, error) {
	bits := utils.ContainerBits(bitsPerSample)
	if bits == 0 {
		return nil, &audio.ParseError{
			Section: "STREAMINFO",
			Err:     fmt.Errorf("%d bits: %w", bitsPerSample, ErrUnsupportedBitDepth),
		}
	}

	format := audio.Format{SampleRate: sampleRate, Channels: channels, BitsPerSample: bits}
	if err := format.Validate(); err != nil {
		return nil, &audio.ParseError{Section: "STREAMINFO", Err: fmt.Errorf("%w", err)}
	}

	return &source{
		frames:   frames,
		format:   format,
		duration: format.DurationOf(int64(totalSamples)),
		shift:    bits - bitsPerSample,
	}, nil
}

func (s *source) Format() audio.Format    { return s.format }
func (s *source) Duration() time.Duration { return s.duration }
func (s *source) Finished() bool          { return s.eof && len(s.pending) == 0 }

func (s *source) Close() error {
	s.pending = nil
	return nil
}

// decodeFrame appends the next frame, interleaved, to s.pending.
func (s *source) decodeFrame() error {
	channels, err := s.frames.NextFrame()
	if errors.Is(err, io.EOF) {
		s.eof = true
		return nil
	}
	if err != nil {
		return &audio.DecodeError{Format: "flac", Err: err}
	}
	if len(channels) != s.format.Channels {
		return &audio.DecodeError{
			Format: "flac",
			Err:    fmt.Errorf("%d channels: %w", len(channels), ErrChannelMismatch),
		}
	}

	n := len(channels[0])
	for _, ch := range channels[1:] {
		n = min(n, len(ch))
	}

	for i := range n {
		for _, ch := range channels {
			s.pending = utils.AppendSample(s.pending, ch[i]<<s.shift, s.format.BitsPerSample)
		}
	}

	return nil
}

func (s *source) ReadSamples(maxSamples int) (int, []byte, error) {
	if s.Finished() {
		return 0, nil, io.EOF
	}
	if maxSamples <= 0 {
		return 0, nil, nil
	}

	frame := s.format.BytesPerSample()
	want := maxSamples * frame

	for len(s.pending) < want && !s.eof {
		if err := s.decodeFrame(); err != nil {
			return 0, nil, err
		}
	}

	size := min(want, len(s.pending))
	size -= size % frame
	if size == 0 {
		s.pending = nil
		return 0, nil, nil
	}

	block := make([]byte, size)
	copy(block, s.pending)
	s.pending = s.pending[size:]
	if len(s.pending) == 0 {
		s.pending = nil
	}

	return size / frame, block, nil
}

func (s *source) ReadAll() ([]byte, error) {
	for !s.eof {
		if err := s.decodeFrame(); err != nil {
			return nil, err
		}
	}

	rest := s.pending
	s.pending = nil

	return rest, nil
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	stream, err := flac.New(r)
	if err != nil {
		return nil, &audio.ParseError{Section: "flac metadata", Err: fmt.Errorf("%w", err)}
	}

	info := stream.Info
	src, err := newSource(
		streamFrames{stream: stream},
		int(info.SampleRate),
		int(info.NChannels),
		int(info.BitsPerSample),
		info.NSamples,
	)
	if err != nil {
		return nil, err
	}

	return src, nil
}
