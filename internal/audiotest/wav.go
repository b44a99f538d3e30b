// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"bytes"
	"encoding/binary"
	"math"
)

// Chunk is a raw RIFF sub-chunk.
type Chunk struct {
	ID   string
	Data []byte
}

// WAVSpec describes a WAV file to build; zero values give a canonical file.
type WAVSpec struct {
	Compression   uint16
	Channels      uint16
	SampleRate    uint32
	BlockAlign    uint16
	BitsPerSample uint16
	// FmtExtra is appended to the 16 byte fmt body.
	FmtExtra []byte
	// Fact, when non-nil, adds a fact chunk with this sample count.
	Fact *uint32
	// Before holds chunks placed between fmt (and fact) and data.
	Before []Chunk
	Data   []byte
	// RiffSize overrides the declared RIFF size when non-zero.
	RiffSize uint32
}

// BuildWAV serializes s.
func BuildWAV(s WAVSpec) []byte {
	if s.Compression == 0 {
		s.Compression = 1
	}
	if s.Channels == 0 {
		s.Channels = 1
	}
	if s.SampleRate == 0 {
		s.SampleRate = 8000
	}
	if s.BitsPerSample == 0 {
		s.BitsPerSample = 16
	}
	if s.BlockAlign == 0 {
		s.BlockAlign = s.Channels * s.BitsPerSample / 8
	}

	body := new(bytes.Buffer)
	body.WriteString("WAVE")

	fmtBody := new(bytes.Buffer)
	binary.Write(fmtBody, binary.LittleEndian, s.Compression)
	binary.Write(fmtBody, binary.LittleEndian, s.Channels)
	binary.Write(fmtBody, binary.LittleEndian, s.SampleRate)
	binary.Write(fmtBody, binary.LittleEndian, s.SampleRate*uint32(s.BlockAlign))
	binary.Write(fmtBody, binary.LittleEndian, s.BlockAlign)
	binary.Write(fmtBody, binary.LittleEndian, s.BitsPerSample)
	fmtBody.Write(s.FmtExtra)
	writeChunk(body, "fmt ", fmtBody.Bytes())

	if s.Fact != nil {
		fact := binary.LittleEndian.AppendUint32(nil, *s.Fact)
		writeChunk(body, "fact", fact)
	}

	for _, c := range s.Before {
		writeChunk(body, c.ID, c.Data)
	}

	writeChunk(body, "data", s.Data)

	riffSize := uint32(body.Len())
	if s.RiffSize != 0 {
		riffSize = s.RiffSize
	}

	out := new(bytes.Buffer)
	out.WriteString("RIFF")
	binary.Write(out, binary.LittleEndian, riffSize)
	out.Write(body.Bytes())

	return out.Bytes()
}

func writeChunk(buf *bytes.Buffer, id string, data []byte) {
	buf.WriteString(id)
	binary.Write(buf, binary.LittleEndian, uint32(len(data)))
	buf.Write(data)
	if len(data)%2 == 1 {
		buf.WriteByte(0)
	}
}

// PCM16 packs samples as little-endian 16-bit PCM.
func PCM16(samples []int16) []byte {
	out := make([]byte, 0, len(samples)*2)
	for _, s := range samples {
		out = binary.LittleEndian.AppendUint16(out, uint16(s))
	}
	return out
}

// Sine returns n samples of a sine wave at freq Hz and the given amplitude.
func Sine(n, sampleRate int, freq float64, amplitude float64) []int16 {
	out := make([]int16, n)
	for i := range out {
		t := float64(i) / float64(sampleRate)
		out[i] = int16(amplitude * math.Sin(2*math.Pi*freq*t))
	}
	return out
}

// Uint32 returns a pointer to v, for WAVSpec.Fact.
func Uint32(v uint32) *uint32 { return &v }
