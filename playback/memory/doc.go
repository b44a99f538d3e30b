// SPDX-License-Identifier: EPL-2.0

// Package memory is a playback engine without a device.
//
// Queued buffers are "played" by Source.Consume, or by the passage of time
// when the engine is created with WithRealtime. Played PCM is kept and can
// be inspected with Source.Played, which makes the engine suitable for tests
// and for dry runs.
//
//	engine := memory.New()
//	src, _ := engine.CreateSource()
//	buf, _ := engine.CreateBuffer()
//	buf.BufferData(pcm, format)
//	src.QueueBuffer(buf)
//	src.Play()
//	src.(*memory.Source).Consume(1)
package memory
