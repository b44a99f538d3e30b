// SPDX-License-Identifier: EPL-2.0

// Package mp3 provides MP3 audio decoding.
//
// This package uses github.com/hajimehoshi/go-mp3. Only the first frame header
// is parsed by Decode; frames are decoded incrementally as samples are pulled,
// so MP3 sources are played back streamed.
//
// # Output Format
//
//   - 16-bit little-endian PCM
//   - Channels: 2 (go-mp3 always produces stereo)
//   - Sample rate: taken from the stream
//
// Duration is known only when the input implements io.Seeker.
//
// # Errors
//
// A stream whose first frame cannot be found fails Decode with
// *audio.ParseError. Corruption found later is returned from ReadSamples as
// *audio.DecodeError.
package mp3
