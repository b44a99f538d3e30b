// SPDX-License-Identifier: EPL-2.0

// Package otoplay plays streams through the system audio device using
// github.com/ebitengine/oto/v3.
//
// Each Source owns an oto.Player that pulls PCM from the Source's buffer
// queue. oto permits a single context per process, so the first buffer an
// Engine plays fixes the device sample rate, channel count and bit depth.
//
// Supported PCM:
//   - 8-bit unsigned (oto.FormatUnsignedInt8)
//   - 16-bit signed little-endian (oto.FormatSignedInt16LE)
//
// Other bit depths are rejected with playback.ErrUnsupportedPCM.
//
// A buffer is reported as processed once the player has read it, which can
// be up to one device buffer ahead of what is audible.
package otoplay
