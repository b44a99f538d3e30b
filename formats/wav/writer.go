// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/ik5/audstream/audio"
)

const headerSize = 44

// WritePCM writes pcm as a canonical PCM WAV file: RIFF header, a 16 byte
// fmt chunk and a single data chunk.
func WritePCM(w io.Writer, f audio.Format, pcm []byte) error {
	if err := f.Validate(); err != nil {
		return fmt.Errorf("%w", err)
	}

	dataSize := uint32(len(pcm))
	riffSize := 36 + dataSize
	if len(pcm)%2 == 1 {
		riffSize++
	}

	header := make([]byte, headerSize)

	// RIFF header (12 bytes)
	copy(header[0:4], "RIFF")
	binary.LittleEndian.PutUint32(header[4:8], riffSize)
	copy(header[8:12], "WAVE")

	// fmt chunk (24 bytes)
	copy(header[12:16], "fmt ")
	binary.LittleEndian.PutUint32(header[16:20], 16)
	binary.LittleEndian.PutUint16(header[20:22], uint16(CompressionPCM))
	binary.LittleEndian.PutUint16(header[22:24], uint16(f.Channels))
	binary.LittleEndian.PutUint32(header[24:28], uint32(f.SampleRate))
	binary.LittleEndian.PutUint32(header[28:32], uint32(f.SampleRate*f.BytesPerSample()))
	binary.LittleEndian.PutUint16(header[32:34], uint16(f.BytesPerSample()))
	binary.LittleEndian.PutUint16(header[34:36], uint16(f.BitsPerSample))

	// data chunk header (8 bytes)
	copy(header[36:40], "data")
	binary.LittleEndian.PutUint32(header[40:44], dataSize)

	if _, err := w.Write(header); err != nil {
		return fmt.Errorf("%w", err)
	}

	if _, err := w.Write(pcm); err != nil {
		return fmt.Errorf("%w", err)
	}

	if len(pcm)%2 == 1 {
		if _, err := w.Write([]byte{0}); err != nil {
			return fmt.Errorf("%w", err)
		}
	}

	return nil
}

// WriteWAV16 writes a mono 16-bit PCM WAV at sampleRate.
func WriteWAV16(w io.Writer, sampleRate int, samples []int16) error {
	pcm := make([]byte, 0, len(samples)*2)
	for _, s := range samples {
		pcm = binary.LittleEndian.AppendUint16(pcm, uint16(s))
	}

	return WritePCM(w, audio.Format{SampleRate: sampleRate, Channels: 1, BitsPerSample: 16}, pcm)
}
