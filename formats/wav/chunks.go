// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/riff"
	"github.com/ik5/audstream/audio"
)

// CompressionCode is the wFormatTag of a fmt chunk.
type CompressionCode uint16

const (
	CompressionPCM      CompressionCode = 0x0001
	CompressionDVIADPCM CompressionCode = 0x0011
)

func (c CompressionCode) String() string {
	switch c {
	case CompressionPCM:
		return "PCM"
	case CompressionDVIADPCM:
		return "DVI-ADPCM"
	default:
		return fmt.Sprintf("0x%04x", uint16(c))
	}
}

var tagFact = [4]byte{'f', 'a', 'c', 't'}

// RiffHeader is the 12 byte file header.
type RiffHeader struct {
	ID     [4]byte
	Size   uint32
	Format [4]byte
}

// FormatChunk is the "fmt " chunk.
type FormatChunk struct {
	Size          uint32
	Compression   CompressionCode
	Channels      uint16
	SampleRate    uint32
	ByteRate      uint32
	BlockAlign    uint16
	BitsPerSample uint16
	// SamplesPerBlock is only present in the ADPCM extension.
	SamplesPerBlock uint16
}

// FactChunk is the optional "fact" chunk of compressed files.
type FactChunk struct {
	Size        uint32
	SampleCount uint32
}

// DataChunk is the "data" chunk header; the payload follows it.
type DataChunk struct {
	Size uint32
}

// chunkReader reads little-endian fields and tracks how much of the
// declared RIFF body is left.
type chunkReader struct {
	r         io.Reader
	remaining int64
}

func (c *chunkReader) read(section string, p []byte) error {
	if _, err := io.ReadFull(c.r, p); err != nil {
		if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
			return &audio.ParseError{Section: section, Err: io.ErrUnexpectedEOF}
		}
		return &audio.ParseError{Section: section, Err: err}
	}

	c.remaining -= int64(len(p))
	return nil
}

// readN reads n bytes, growing the result only as data arrives so a size
// field alone cannot force a large allocation.
func (c *chunkReader) readN(section string, n uint32) ([]byte, error) {
	buf := new(bytes.Buffer)
	if _, err := io.CopyN(buf, c.r, int64(n)); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &audio.ParseError{Section: section, Err: io.ErrUnexpectedEOF}
		}
		return nil, &audio.ParseError{Section: section, Err: err}
	}

	c.remaining -= int64(n)
	return buf.Bytes(), nil
}

func (c *chunkReader) header(section string) ([4]byte, uint32, error) {
	var b [8]byte
	if err := c.read(section, b[:]); err != nil {
		return [4]byte{}, 0, err
	}

	var id [4]byte
	copy(id[:], b[:4])
	size := binary.LittleEndian.Uint32(b[4:])

	if int64(size) > c.remaining {
		return id, size, &audio.ParseError{
			Section: section,
			Err:     fmt.Errorf("chunk %q size %d exceeds remaining %d: %w", id[:], size, c.remaining, ErrChunkOverrun),
		}
	}

	return id, size, nil
}

// skip discards size bytes plus the pad byte of odd sized chunks.
func (c *chunkReader) skip(section string, size uint32) error {
	n := int64(size)
	if size%2 == 1 && c.remaining > n {
		n++
	}

	copied, err := io.CopyN(io.Discard, c.r, n)
	c.remaining -= copied
	if err != nil {
		return &audio.ParseError{Section: section, Err: io.ErrUnexpectedEOF}
	}

	return nil
}

func parseRiffHeader(r io.Reader) (RiffHeader, error) {
	var b [12]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return RiffHeader{}, &audio.ParseError{Section: "RIFF header", Err: io.ErrUnexpectedEOF}
	}

	var h RiffHeader
	copy(h.ID[:], b[0:4])
	h.Size = binary.LittleEndian.Uint32(b[4:8])
	copy(h.Format[:], b[8:12])

	if h.ID != riff.RiffID || h.Format != riff.WavFormatID {
		return h, &audio.ParseError{Section: "RIFF header", Err: ErrNotRiffFile}
	}
	if h.Size < 4 {
		return h, &audio.ParseError{Section: "RIFF header", Err: fmt.Errorf("declared size %d", h.Size)}
	}

	return h, nil
}

func parseFormatChunk(c *chunkReader) (FormatChunk, error) {
	var (
		id   [4]byte
		size uint32
		err  error
	)

	// chunks ahead of fmt (LIST, JUNK, ...) are skipped; data is not allowed
	for {
		id, size, err = c.header("fmt chunk")
		if err != nil {
			return FormatChunk{}, err
		}
		if id == riff.FmtID {
			break
		}
		if id == riff.DataFormatID {
			return FormatChunk{}, &audio.ParseError{Section: "fmt chunk", Err: fmt.Errorf("found %q: %w", id[:], ErrUnexpectedChunk)}
		}
		if err := c.skip(string(id[:])+" chunk", size); err != nil {
			return FormatChunk{}, err
		}
	}
	if size < 16 {
		return FormatChunk{}, &audio.ParseError{Section: "fmt chunk", Err: fmt.Errorf("size %d too small", size)}
	}

	var b [16]byte
	if err := c.read("fmt chunk", b[:]); err != nil {
		return FormatChunk{}, err
	}

	f := FormatChunk{
		Size:          size,
		Compression:   CompressionCode(binary.LittleEndian.Uint16(b[0:2])),
		Channels:      binary.LittleEndian.Uint16(b[2:4]),
		SampleRate:    binary.LittleEndian.Uint32(b[4:8]),
		ByteRate:      binary.LittleEndian.Uint32(b[8:12]),
		BlockAlign:    binary.LittleEndian.Uint16(b[12:14]),
		BitsPerSample: binary.LittleEndian.Uint16(b[14:16]),
	}

	switch f.Compression {
	case CompressionPCM, CompressionDVIADPCM:
	default:
		return f, &audio.UnsupportedCompressionError{Code: uint16(f.Compression)}
	}

	extra := size - 16
	if f.Compression == CompressionDVIADPCM && extra >= 4 {
		var ext [4]byte
		if err := c.read("fmt chunk", ext[:]); err != nil {
			return f, err
		}
		// cbSize, then samples per block
		f.SamplesPerBlock = binary.LittleEndian.Uint16(ext[2:4])
		extra -= 4
	}

	if err := c.skip("fmt chunk", extra); err != nil {
		return f, err
	}

	if f.Channels == 0 {
		return f, &audio.ParseError{Section: "fmt chunk", Err: errors.New("zero channels")}
	}
	if f.SampleRate == 0 {
		return f, &audio.ParseError{Section: "fmt chunk", Err: errors.New("zero sample rate")}
	}

	return f, nil
}

// parseDataHeader walks the chunks after fmt up to and including the data
// chunk header. A fact chunk is captured when present; anything else is skipped.
func parseDataHeader(c *chunkReader) (*FactChunk, DataChunk, error) {
	var fact *FactChunk

	for {
		id, size, err := c.header("data chunk")
		if err != nil {
			return fact, DataChunk{}, err
		}

		switch id {
		case riff.DataFormatID:
			return fact, DataChunk{Size: size}, nil

		case tagFact:
			if size < 4 {
				return fact, DataChunk{}, &audio.ParseError{Section: "fact chunk", Err: fmt.Errorf("size %d too small", size)}
			}
			var b [4]byte
			if err := c.read("fact chunk", b[:]); err != nil {
				return fact, DataChunk{}, err
			}
			fact = &FactChunk{Size: size, SampleCount: binary.LittleEndian.Uint32(b[:])}
			if err := c.skip("fact chunk", size-4); err != nil {
				return fact, DataChunk{}, err
			}

		default:
			if err := c.skip(string(id[:])+" chunk", size); err != nil {
				return fact, DataChunk{}, err
			}
		}
	}
}
