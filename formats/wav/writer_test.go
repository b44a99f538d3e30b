// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"testing"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/riff"
	gowav "github.com/go-audio/wav"
	"github.com/ik5/audstream/audio"
	"github.com/ik5/audstream/internal/audiotest"
)

func TestWritePCM_Header(t *testing.T) {
	t.Parallel()

	f := audio.Format{SampleRate: 44100, Channels: 2, BitsPerSample: 16}
	pcm := audiotest.PCM16(audiotest.Sine(200, 44100, 440, 9000))

	out := new(bytes.Buffer)
	if err := WritePCM(out, f, pcm); err != nil {
		t.Fatalf("WritePCM() error = %v", err)
	}

	p := riff.New(bytes.NewReader(out.Bytes()))
	if err := p.ParseHeaders(); err != nil {
		t.Fatalf("riff ParseHeaders() error = %v", err)
	}
	if p.ID != riff.RiffID || p.Format != riff.WavFormatID {
		t.Errorf("riff header = %q/%q, want RIFF/WAVE", p.ID[:], p.Format[:])
	}
	if p.Size != uint32(36+len(pcm)) {
		t.Errorf("riff size = %d, want %d", p.Size, 36+len(pcm))
	}

	fmtChunk, err := p.NextChunk()
	if err != nil {
		t.Fatalf("riff NextChunk() error = %v", err)
	}
	if fmtChunk.ID != riff.FmtID || fmtChunk.Size != 16 {
		t.Errorf("first chunk = %q size %d, want fmt  size 16", fmtChunk.ID[:], fmtChunk.Size)
	}

	header := out.Bytes()
	if got := binary.LittleEndian.Uint32(header[28:32]); got != 44100*4 {
		t.Errorf("byte rate = %d, want %d", got, 44100*4)
	}
	if got := binary.LittleEndian.Uint16(header[32:34]); got != 4 {
		t.Errorf("block align = %d, want 4", got)
	}
}

func TestWritePCM_ReadableByGoAudio(t *testing.T) {
	t.Parallel()

	samples := audiotest.Sine(2*500, 16000, 440, 12000)
	f := audio.Format{SampleRate: 16000, Channels: 2, BitsPerSample: 16}

	out := new(bytes.Buffer)
	if err := WritePCM(out, f, audiotest.PCM16(samples)); err != nil {
		t.Fatalf("WritePCM() error = %v", err)
	}

	d := gowav.NewDecoder(bytes.NewReader(out.Bytes()))
	if !d.IsValidFile() {
		t.Fatal("go-audio/wav rejects the written file")
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		t.Fatalf("FullPCMBuffer() error = %v", err)
	}

	if int(d.SampleRate) != 16000 || int(d.NumChans) != 2 || int(d.BitDepth) != 16 {
		t.Errorf("go-audio/wav read %dHz %dch %dbit", d.SampleRate, d.NumChans, d.BitDepth)
	}
	if len(buf.Data) != len(samples) {
		t.Fatalf("go-audio/wav read %d samples, want %d", len(buf.Data), len(samples))
	}
	for i := range samples {
		if buf.Data[i] != int(samples[i]) {
			t.Fatalf("sample %d = %d, want %d", i, buf.Data[i], samples[i])
		}
	}
}

func TestDecoder_ReadsGoAudioEncodedFile(t *testing.T) {
	t.Parallel()

	samples := audiotest.Sine(3000, 22050, 330, 15000)
	ints := make([]int, len(samples))
	for i, s := range samples {
		ints[i] = int(s)
	}

	path := filepath.Join(t.TempDir(), "encoded.wav")
	fh, err := os.Create(path)
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	enc := gowav.NewEncoder(fh, 22050, 16, 1, 1)
	err = enc.Write(&goaudio.IntBuffer{
		Data:           ints,
		Format:         &goaudio.Format{NumChannels: 1, SampleRate: 22050},
		SourceBitDepth: 16,
	})
	if err != nil {
		t.Fatalf("encoder Write() error = %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("encoder Close() error = %v", err)
	}
	if err := fh.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	src, err := Open(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}

	got, _ := src.ReadAll()
	if !bytes.Equal(got, audiotest.PCM16(samples)) {
		t.Error("decoded PCM differs from the samples go-audio/wav encoded")
	}
}

func TestWritePCM_RoundTrip(t *testing.T) {
	t.Parallel()

	formats := []audio.Format{
		{SampleRate: 8000, Channels: 1, BitsPerSample: 8},
		{SampleRate: 44100, Channels: 2, BitsPerSample: 16},
		{SampleRate: 48000, Channels: 2, BitsPerSample: 24},
		{SampleRate: 96000, Channels: 1, BitsPerSample: 32},
	}

	for _, f := range formats {
		pcm := make([]byte, f.BytesPerSample()*101)
		for i := range pcm {
			pcm[i] = byte(i)
		}

		out := new(bytes.Buffer)
		if err := WritePCM(out, f, pcm); err != nil {
			t.Fatalf("%s: WritePCM() error = %v", f, err)
		}

		src, err := Open(out)
		if err != nil {
			t.Fatalf("%s: Open() error = %v", f, err)
		}
		if src.Format() != f {
			t.Errorf("Format() = %s, want %s", src.Format(), f)
		}

		got, _ := src.ReadAll()
		if !bytes.Equal(got, pcm) {
			t.Errorf("%s: round trip changed the payload", f)
		}
	}
}

func TestWritePCM_InvalidFormat(t *testing.T) {
	t.Parallel()

	err := WritePCM(new(bytes.Buffer), audio.Format{SampleRate: 8000, Channels: 1, BitsPerSample: 12}, nil)
	if !errors.Is(err, audio.ErrInvalidFormat) {
		t.Errorf("WritePCM() error = %v, want ErrInvalidFormat", err)
	}
}

func TestWriteWAV16_Empty(t *testing.T) {
	t.Parallel()

	out := new(bytes.Buffer)
	if err := WriteWAV16(out, 8000, nil); err != nil {
		t.Fatalf("WriteWAV16() error = %v", err)
	}
	if out.Len() != headerSize {
		t.Errorf("wrote %d bytes, want %d", out.Len(), headerSize)
	}
}
