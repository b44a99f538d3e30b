// SPDX-License-Identifier: EPL-2.0

package audio_test

import (
	"errors"
	"testing"
	"time"

	"github.com/ik5/audstream/audio"
)

func TestFormat_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		format  audio.Format
		wantErr bool
	}{
		{name: "cd", format: audio.Format{SampleRate: 44100, Channels: 2, BitsPerSample: 16}},
		{name: "8-bit mono", format: audio.Format{SampleRate: 8000, Channels: 1, BitsPerSample: 8}},
		{name: "24-bit", format: audio.Format{SampleRate: 96000, Channels: 6, BitsPerSample: 24}},
		{name: "32-bit", format: audio.Format{SampleRate: 48000, Channels: 2, BitsPerSample: 32}},
		{name: "zero rate", format: audio.Format{Channels: 1, BitsPerSample: 16}, wantErr: true},
		{name: "zero channels", format: audio.Format{SampleRate: 8000, BitsPerSample: 16}, wantErr: true},
		{name: "4-bit", format: audio.Format{SampleRate: 8000, Channels: 1, BitsPerSample: 4}, wantErr: true},
		{name: "12-bit", format: audio.Format{SampleRate: 8000, Channels: 1, BitsPerSample: 12}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := tt.format.Validate()
			if tt.wantErr != (err != nil) {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, audio.ErrInvalidFormat) {
				t.Errorf("Validate() error = %v, want ErrInvalidFormat", err)
			}
		})
	}
}

func TestFormat_Sizes(t *testing.T) {
	t.Parallel()

	f := audio.Format{SampleRate: 8000, Channels: 2, BitsPerSample: 16}

	if got := f.BytesPerSample(); got != 4 {
		t.Errorf("BytesPerSample() = %d, want 4", got)
	}
	if got := f.SamplesIn(time.Second); got != 8000 {
		t.Errorf("SamplesIn(1s) = %d, want 8000", got)
	}
	if got := f.SamplesIn(100 * time.Millisecond); got != 800 {
		t.Errorf("SamplesIn(100ms) = %d, want 800", got)
	}
	if got := f.DurationOf(4000); got != 500*time.Millisecond {
		t.Errorf("DurationOf(4000) = %v, want 500ms", got)
	}
	if got := (audio.Format{}).DurationOf(4000); got != 0 {
		t.Errorf("DurationOf() with no rate = %v, want 0", got)
	}
	if got := f.String(); got != "8000Hz 2ch 16bit" {
		t.Errorf("String() = %q", got)
	}
}
