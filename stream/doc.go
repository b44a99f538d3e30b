// SPDX-License-Identifier: EPL-2.0

// Package stream drives a decoder into a playback engine.
//
// A SoundStream owns one decoder and one device source. Formats whose
// Kind is Streamed (MP3, Ogg Vorbis, FLAC) go through a BufferChain: before
// Play, Prefill windows of decoded audio are queued, and once playing a
// refill worker wakes every RefillInterval and adds one more window whenever
// fewer than MaxQueued buffers are waiting on the device. Buffers the device
// has finished with are reused. Other formats are decoded whole into a single
// buffer at construction time.
//
// Lifecycle:
//
//	idle --Play--> playing --(end of audio, Stop, error)--> stopped
//
// Play is only valid from idle. Done is closed when playback ends for any
// reason; Err reports the refill failure that ended it, if any. A failed
// refill is not retried. Close stops playback and releases the source, every
// buffer and the decoder.
//
// Position is measured with a Timer that runs only while the stream plays.
package stream
