// SPDX-License-Identifier: EPL-2.0

package audstream

import (
	"errors"
	"fmt"
	"io"

	"github.com/ik5/audstream/audio"
	"github.com/ik5/audstream/formats/aiff"
	"github.com/ik5/audstream/formats/flac"
	"github.com/ik5/audstream/formats/mp3"
	"github.com/ik5/audstream/formats/vorbis"
	"github.com/ik5/audstream/formats/wav"
	"github.com/ik5/audstream/playback"
	"github.com/ik5/audstream/stream"
)

// DefaultRegistry returns a registry holding a decoder for every supported
// format.
func DefaultRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register(audio.KindWAV, wav.Decoder{})
	reg.Register(audio.KindMP3, mp3.Decoder{})
	reg.Register(audio.KindVorbis, vorbis.Decoder{})
	reg.Register(audio.KindAIFF, aiff.Decoder{})
	reg.Register(audio.KindFLAC, flac.Decoder{})

	return reg
}

// Open sniffs rs and decodes it with the default decoders.
func Open(rs io.ReadSeeker) (audio.Source, audio.Kind, error) {
	return DefaultRegistry().Open(rs)
}

// NewStream opens rs with the default decoders and prepares it for playback
// on engine.
func NewStream(rs io.ReadSeeker, engine playback.Engine, opts ...stream.Option) (*stream.SoundStream, error) {
	return stream.New(rs, DefaultRegistry(), engine, opts...)
}

// Collect pulls every remaining sample from src in blocks of blockSize
// samples and returns the concatenated PCM.
//
// This is the streamed counterpart of Source.ReadAll: memory grows with the
// output only, one block at a time.
func Collect(src audio.Source, blockSize int) ([]byte, error) {
	if blockSize <= 0 {
		return nil, fmt.Errorf("block size %d: %w", blockSize, audio.ErrInvalidFormat)
	}

	// Pre-allocate from the duration when the decoder knows it
	var pcm []byte
	if d := src.Duration(); d > 0 {
		f := src.Format()
		pcm = make([]byte, 0, f.SamplesIn(d)*f.BytesPerSample())
	}

	for !src.Finished() {
		_, block, err := src.ReadSamples(blockSize)
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		pcm = append(pcm, block...)
	}

	return pcm, nil
}

// ConvertToWAV decodes rs, whatever its format, and writes it to w as a PCM
// WAV file. It returns the format written.
func ConvertToWAV(rs io.ReadSeeker, w io.Writer) (audio.Format, error) {
	src, _, err := Open(rs)
	if err != nil {
		return audio.Format{}, err
	}
	defer src.Close()

	pcm, err := Collect(src, src.Format().SampleRate)
	if err != nil {
		return audio.Format{}, err
	}

	if err := wav.WritePCM(w, src.Format(), pcm); err != nil {
		return audio.Format{}, fmt.Errorf("writing wav: %w", err)
	}

	return src.Format(), nil
}
