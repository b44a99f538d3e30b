// SPDX-License-Identifier: EPL-2.0

// Package flac provides FLAC audio decoding.
//
// This package uses github.com/mewkiz/flac. Decode parses the metadata blocks;
// audio frames are decoded one at a time as samples are pulled, so FLAC
// sources are played back streamed.
//
// # Output Format
//
//   - Little-endian PCM
//   - Bit depth: the stream's depth rounded up to 8, 16, 24 or 32 bits;
//     narrower samples are shifted left to fill the container
//   - 8-bit output is unsigned, matching WAV conventions
//   - Channels and sample rate: taken from STREAMINFO
//
// Duration comes from the total sample count in STREAMINFO and is 0 when the
// encoder left it unset.
package flac
