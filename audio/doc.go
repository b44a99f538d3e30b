// SPDX-License-Identifier: EPL-2.0

// Package audio provides the decoding contract shared by every format package.
//
// This package contains:
//   - Source, the decoded stream with an exclusive read cursor
//   - Decoder and Registry, which map a format Kind to the code that opens it
//   - Sniff, which picks a Kind from the first four bytes of the input
//   - Format, the PCM layout produced by a Source
//   - the error categories every decoder reports through
//
// # Source Interface
//
//	type Source interface {
//	    Format() Format
//	    Duration() time.Duration
//	    Finished() bool
//	    ReadSamples(maxSamples int) (n int, data []byte, err error)
//	    ReadAll() ([]byte, error)
//	    Close() error
//	}
//
// A sample is one frame: one value per channel. ReadSamples returns
// interleaved little-endian PCM and may return fewer than maxSamples at the
// end of the stream. Every returned block is a fresh allocation owned by the
// caller.
//
// # Format Detection
//
//	RIFF       -> KindWAV
//	OggS       -> KindVorbis
//	FORM       -> KindAIFF
//	fLaC       -> KindFLAC
//	ID3\x01-03 -> KindMP3
//	FF FB ..   -> KindMP3 (MPEG-1 Layer III frame sync)
//
// Sniff always rewinds the input to offset 0, so the chosen decoder parses
// from the first byte. Anything else is a *FormatError.
//
// # Format Registry
//
//	registry := audio.NewRegistry()
//	registry.Register(audio.KindWAV, wav.Decoder{})
//	src, kind, err := registry.Open(file)
//
// # Error Handling
//
// Errors fall into categories that can be tested with errors.Is:
//
//	ErrUnrecognizedFormat      unknown magic prefix
//	ErrMalformed               truncated or inconsistent header or chunk
//	ErrUnsupportedCompression  valid container, codec we cannot decode
//	ErrDecode                  corruption found while pulling samples
//	ErrBackend                 playback device failure
//
// The concrete types (*FormatError, *ParseError and so on) carry details
// such as the offending magic bytes or compression code.
package audio
