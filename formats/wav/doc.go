// SPDX-License-Identifier: EPL-2.0

// Package wav decodes RIFF/WAVE files and writes PCM WAV files.
//
// # Decoding
//
// Open (or Decoder.Decode) parses the container strictly in order: the RIFF
// header, the "fmt " chunk, an optional "fact" chunk and the "data" chunk.
// Unknown chunks such as LIST or JUNK are skipped. The whole data chunk is
// decoded up front, so the returned Source serves samples from memory:
//
//	src, err := wav.Open(file)
//	if err != nil {
//	    // *audio.ParseError, *audio.UnsupportedCompressionError
//	}
//	n, block, err := src.ReadSamples(8000)
//
// Supported sample formats:
//   - PCM, 8/16/24/32 bit, passed through unchanged
//   - DVI/IMA ADPCM (0x0011), expanded to 16-bit PCM
//
// Any other compression code fails with *audio.UnsupportedCompressionError so
// callers can tell a valid container with an unknown codec from a corrupt one
// (errors.Is(err, audio.ErrMalformed)).
//
// Duration is reported as 0; Info exposes the parsed chunks and Samples the
// decoded sample count.
//
// # Writing WAV Files
//
// WritePCM writes a canonical 44 byte header followed by the PCM payload:
//
//	err := wav.WritePCM(out, audio.Format{SampleRate: 8000, Channels: 1, BitsPerSample: 16}, pcm)
//
// WriteWAV16 is a shortcut for mono int16 samples.
package wav
