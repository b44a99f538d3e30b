// SPDX-License-Identifier: EPL-2.0

package aiff

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/go-audio/aiff"
	goaudio "github.com/go-audio/audio"
	"github.com/ik5/audstream/audio"
	"github.com/ik5/audstream/utils"
)

// values pulled from go-audio per PCMBuffer call
const readChunk = 4096

// aiffReader is an interface for aiff.Decoder to allow testing
type aiffReader interface {
	Format() *goaudio.Format
	PCMBuffer(buf *goaudio.IntBuffer) (int, error)
}

// source serves PCM decoded up front from an AIFF file.
type source struct {
	format   audio.Format
	duration time.Duration
	data     []byte
	pos      int
}

func (s *source) Format() audio.Format    { return s.format }
func (s *source) Duration() time.Duration { return s.duration }
func (s *source) Finished() bool          { return s.pos >= len(s.data) }
func (s *source) Close() error            { return nil }

func (s *source) ReadSamples(maxSamples int) (int, []byte, error) {
	if s.Finished() {
		return 0, nil, io.EOF
	}
	if maxSamples <= 0 {
		return 0, nil, nil
	}

	frame := s.format.BytesPerSample()
	n := min(maxSamples, (len(s.data)-s.pos)/frame)

	block := make([]byte, n*frame)
	copy(block, s.data[s.pos:])
	s.pos += len(block)

	if s.Finished() {
		s.data = nil
		s.pos = 0
	}

	return n, block, nil
}

func (s *source) ReadAll() ([]byte, error) {
	if s.Finished() {
		return nil, nil
	}

	rest := s.data[s.pos:]
	s.data = nil
	s.pos = 0

	return rest, nil
}

// decodeAll drains dec into little-endian PCM at bitDepth.
func decodeAll(dec aiffReader, bitDepth int) (*source, error) {
	f := dec.Format()
	if f == nil || f.NumChannels <= 0 || f.SampleRate <= 0 {
		return nil, &audio.ParseError{Section: "COMM chunk", Err: ErrUnsupportedAiffLayout}
	}

	switch bitDepth {
	case 8, 16, 24, 32:
	default:
		return nil, &audio.ParseError{
			Section: "COMM chunk",
			Err:     fmt.Errorf("%d bits: %w", bitDepth, ErrUnsupportedBitDepth),
		}
	}

	format := audio.Format{
		SampleRate:    f.SampleRate,
		Channels:      f.NumChannels,
		BitsPerSample: bitDepth,
	}

	buf := &goaudio.IntBuffer{
		Data:           make([]int, readChunk-readChunk%f.NumChannels),
		Format:         f,
		SourceBitDepth: bitDepth,
	}

	var data []byte
	for {
		n, err := dec.PCMBuffer(buf)
		for _, v := range buf.Data[:n] {
			data = utils.AppendSample(data, int32(v), bitDepth)
		}

		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, &audio.DecodeError{Format: "aiff", Err: err}
		}
		if n == 0 {
			break
		}
	}

	frames := int64(len(data) / format.BytesPerSample())
	data = data[:frames*int64(format.BytesPerSample())]

	return &source{
		format:   format,
		duration: format.DurationOf(frames),
		data:     data,
	}, nil
}

type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	// go-audio requires io.ReadSeeker
	rs, ok := r.(io.ReadSeeker)
	if !ok {
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, fmt.Errorf("reading aiff data: %w", err)
		}
		rs = &readSeeker{data: data}
	}

	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, &audio.ParseError{Section: "FORM header", Err: ErrNotAiffFile}
	}

	dec.ReadInfo()

	src, err := decodeAll(dec, int(dec.BitDepth))
	if err != nil {
		return nil, err
	}

	return src, nil
}

// readSeeker implements io.ReadSeeker for in-memory data
type readSeeker struct {
	data   []byte
	offset int64
}

func (rs *readSeeker) Read(p []byte) (n int, err error) {
	if rs.offset >= int64(len(rs.data)) {
		return 0, io.EOF
	}
	n = copy(p, rs.data[rs.offset:])
	rs.offset += int64(n)
	return n, nil
}

func (rs *readSeeker) Seek(offset int64, whence int) (int64, error) {
	var newOffset int64
	switch whence {
	case io.SeekStart:
		newOffset = offset
	case io.SeekCurrent:
		newOffset = rs.offset + offset
	case io.SeekEnd:
		newOffset = int64(len(rs.data)) + offset
	default:
		return 0, fmt.Errorf("invalid whence: %d", whence)
	}

	if newOffset < 0 {
		return 0, fmt.Errorf("negative position")
	}

	rs.offset = newOffset
	return newOffset, nil
}
