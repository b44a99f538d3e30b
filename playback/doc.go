// SPDX-License-Identifier: EPL-2.0

// Package playback defines the device side of streaming playback.
//
// An Engine hands out Sources and Buffers. A Buffer is loaded with one
// block of PCM and queued on a Source; the Source plays its queue in order and
// reports the buffers it has finished through Processed, so they can be
// loaded again.
//
// Two engines are provided:
//   - playback/memory keeps everything in memory. Buffers are played by
//     calling Consume, or in real time with memory.WithRealtime. It is used by
//     tests and by the CLI's --null flag.
//   - playback/otoplay plays through the system audio device with
//     github.com/ebitengine/oto/v3.
package playback
