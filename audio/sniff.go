// SPDX-License-Identifier: EPL-2.0

package audio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// Kind identifies a container/codec family.
type Kind int

const (
	KindUnknown Kind = iota
	KindWAV
	KindMP3
	KindVorbis
	KindAIFF
	KindFLAC
)

func (k Kind) String() string {
	switch k {
	case KindWAV:
		return "wav"
	case KindMP3:
		return "mp3"
	case KindVorbis:
		return "ogg vorbis"
	case KindAIFF:
		return "aiff"
	case KindFLAC:
		return "flac"
	default:
		return "unknown"
	}
}

// Streamed reports whether sources of this kind are decoded incrementally
// during playback rather than materialized up front.
func (k Kind) Streamed() bool {
	switch k {
	case KindMP3, KindVorbis, KindFLAC:
		return true
	default:
		return false
	}
}

var (
	magicRIFF = []byte("RIFF")
	magicOggS = []byte("OggS")
	magicFORM = []byte("FORM")
	magicFLAC = []byte("fLaC")
	magicID3  = [][]byte{
		[]byte("ID3\x01"),
		[]byte("ID3\x02"),
		[]byte("ID3\x03"),
	}
	mpegFrameSync = []byte{0xFF, 0xFB}
)

// Sniff reads the 4 byte magic prefix of rs and returns the matching Kind.
// rs is always rewound to offset 0, whether or not the prefix is recognized.
func Sniff(rs io.ReadSeeker) (Kind, error) {
	magic := make([]byte, 4)
	n, readErr := io.ReadFull(rs, magic)
	magic = magic[:n]

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return KindUnknown, fmt.Errorf("rewinding after sniff: %w", err)
	}

	if readErr != nil && !errors.Is(readErr, io.EOF) && !errors.Is(readErr, io.ErrUnexpectedEOF) {
		return KindUnknown, fmt.Errorf("reading magic: %w", readErr)
	}

	return KindOf(magic)
}

// KindOf classifies an already read magic prefix.
func KindOf(magic []byte) (Kind, error) {
	switch {
	case bytes.Equal(magic, magicRIFF):
		return KindWAV, nil
	case bytes.Equal(magic, magicOggS):
		return KindVorbis, nil
	case bytes.Equal(magic, magicFORM):
		return KindAIFF, nil
	case bytes.Equal(magic, magicFLAC):
		return KindFLAC, nil
	}

	for _, id3 := range magicID3 {
		if bytes.Equal(magic, id3) {
			return KindMP3, nil
		}
	}

	if bytes.HasPrefix(magic, mpegFrameSync) {
		return KindMP3, nil
	}

	return KindUnknown, &FormatError{Magic: bytes.Clone(magic)}
}
