// SPDX-License-Identifier: EPL-2.0

// Package vorbis provides Ogg Vorbis audio decoding.
//
// This package uses github.com/jfreymuth/oggvorbis. Decode reads the three
// Vorbis header packets; audio packets are decoded as samples are pulled, so
// Vorbis sources are played back streamed.
//
// # Output Format
//
//   - 16-bit little-endian PCM, converted from the decoder's float output
//   - Channels: taken from the stream, interleaved [L0, R0, L1, R1, ...]
//   - Sample rate: taken from the stream
//
// Duration is known only when the input implements io.Seeker, because the
// length comes from the granule position of the last page.
package vorbis
