// SPDX-License-Identifier: EPL-2.0

// Package audstream decodes audio files and plays them through a playback
// engine, streaming formats that can be decoded incrementally.
//
// # Supported Formats
//
// The format is detected from the first four bytes of the input:
//   - WAV (PCM 8/16/24/32-bit and IMA/DVI ADPCM) via formats/wav
//   - AIFF via formats/aiff
//   - MP3 via formats/mp3 (streamed)
//   - Ogg Vorbis via formats/vorbis (streamed)
//   - FLAC via formats/flac (streamed)
//
// # Quick Start
//
//	f, _ := os.Open("song.mp3")
//	s, err := audstream.NewStream(f, otoplay.New())
//	if err != nil {
//	    // Handle error
//	}
//	defer s.Close()
//
//	s.Play()
//	<-s.Done()
//
// # Streamed Playback
//
// For streamed formats the stream queues two one-second windows before
// Play, then a refill worker tops the device queue back up to three buffers
// every 100 ms until the decoder runs out. WAV and AIFF files are decoded
// whole into a single buffer instead. See package stream for the options that
// tune this.
//
// # Decoding Without Playback
//
//	src, kind, err := audstream.Open(f)
//	pcm, err := audstream.Collect(src, 4096)
//
// ConvertToWAV combines the two and writes the result with formats/wav.
//
// # Packages
//
//   - audio: Source, Decoder, Registry, Sniff and the error categories
//   - formats/...: one decoder per format
//   - playback: the device interfaces, with memory and otoplay engines
//   - stream: SoundStream, BufferChain and Timer
package audstream
