// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"
	"time"

	"github.com/ik5/audstream/audio"
)

// Info holds the chunks parsed while opening a file.
type Info struct {
	Header RiffHeader
	Format FormatChunk
	Fact   *FactChunk
	Data   DataChunk
}

// Source serves PCM decoded up front from a WAV file.
type Source struct {
	info    Info
	format  audio.Format
	data    []byte
	pos     int
	samples int
}

func (s *Source) Format() audio.Format { return s.format }
func (s *Source) Info() Info           { return s.info }
func (s *Source) Close() error         { return nil }

// Duration is always 0: the container's sample count is not turned into a
// playback length. Use Info for the raw counts.
func (s *Source) Duration() time.Duration { return 0 }

func (s *Source) Finished() bool { return s.pos >= len(s.data) }

// Samples is the total number of decoded samples.
func (s *Source) Samples() int { return s.samples }

func (s *Source) ReadSamples(maxSamples int) (int, []byte, error) {
	if s.Finished() {
		return 0, nil, io.EOF
	}
	if maxSamples <= 0 {
		return 0, nil, nil
	}

	frame := s.format.BytesPerSample()
	n := min(maxSamples, (len(s.data)-s.pos)/frame)
	size := n * frame
	// a trailing partial frame goes out with the last block
	if n < maxSamples {
		size = len(s.data) - s.pos
	}

	block := make([]byte, size)
	copy(block, s.data[s.pos:])
	s.pos += size

	if s.Finished() {
		s.data = nil
		s.pos = 0
	}

	return n, block, nil
}

func (s *Source) ReadAll() ([]byte, error) {
	if s.Finished() {
		return nil, nil
	}

	rest := s.data[s.pos:]
	s.data = nil
	s.pos = 0

	return rest, nil
}

// Decoder parses RIFF/WAVE containers holding PCM or DVI-ADPCM audio.
type Decoder struct{}

func (Decoder) Decode(r io.Reader) (audio.Source, error) {
	src, err := Open(r)
	if err != nil {
		return nil, err
	}
	return src, nil
}

// Open parses r and decodes its whole data chunk.
func Open(r io.Reader) (*Source, error) {
	var (
		info Info
		err  error
	)

	if info.Header, err = parseRiffHeader(r); err != nil {
		return nil, err
	}

	c := &chunkReader{r: r, remaining: int64(info.Header.Size) - 4}

	if info.Format, err = parseFormatChunk(c); err != nil {
		return nil, err
	}

	if info.Fact, info.Data, err = parseDataHeader(c); err != nil {
		return nil, err
	}

	payload, err := c.readN("data chunk", info.Data.Size)
	if err != nil {
		return nil, err
	}

	var (
		pcm    []byte
		format audio.Format
	)

	switch info.Format.Compression {
	case CompressionPCM:
		pcm, format, err = decodePCM(payload, info.Format)
	case CompressionDVIADPCM:
		format = audio.Format{
			SampleRate:    int(info.Format.SampleRate),
			Channels:      int(info.Format.Channels),
			BitsPerSample: 16,
		}
		pcm, err = decodeDVIADPCM(payload, info.Format)
	default:
		err = &audio.UnsupportedCompressionError{Code: uint16(info.Format.Compression)}
	}
	if err != nil {
		return nil, err
	}

	if err := format.Validate(); err != nil {
		return nil, &audio.ParseError{Section: "fmt chunk", Err: fmt.Errorf("%w", err)}
	}

	return &Source{
		info:    info,
		format:  format,
		data:    pcm,
		samples: len(pcm) / format.BytesPerSample(),
	}, nil
}

// decodePCM is the identity: the payload already is linear PCM.
func decodePCM(payload []byte, f FormatChunk) ([]byte, audio.Format, error) {
	format := audio.Format{
		SampleRate:    int(f.SampleRate),
		Channels:      int(f.Channels),
		BitsPerSample: int(f.BitsPerSample),
	}

	switch f.BitsPerSample {
	case 8, 16, 24, 32:
	default:
		return nil, format, &audio.ParseError{
			Section: "fmt chunk",
			Err:     fmt.Errorf("%d bits: %w", f.BitsPerSample, ErrUnsupportedBitDepth),
		}
	}

	return payload, format, nil
}
