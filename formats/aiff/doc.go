// SPDX-License-Identifier: EPL-2.0

// Package aiff provides AIFF (Audio Interchange File Format) decoding.
//
// This package uses github.com/go-audio/aiff. AIFF files are decoded whole
// when opened, so AIFF sources are played back from a single buffer like WAV.
//
// # Output Format
//
//   - Little-endian PCM at the file's bit depth (8, 16, 24 or 32 bits)
//   - 8-bit output is unsigned, matching WAV conventions
//   - Channels and sample rate: taken from the COMM chunk
//
// Unlike WAV, the duration is reported: it is the decoded frame count over the
// sample rate.
//
// go-audio needs an io.ReadSeeker. Readers that cannot seek are read into
// memory first.
package aiff
