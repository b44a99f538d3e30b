// SPDX-License-Identifier: EPL-2.0

package playback

import "errors"

var (
	ErrClosed          = errors.New("playback object is closed")
	ErrForeignBuffer   = errors.New("buffer belongs to another engine")
	ErrVolumeRange     = errors.New("volume must be within [0, 1]")
	ErrUnsupportedPCM  = errors.New("PCM layout not supported by the device")
	ErrFormatMismatch  = errors.New("buffer format differs from the device format")
	ErrBufferQueued    = errors.New("buffer is queued on a source")
	ErrBufferNotLoaded = errors.New("buffer holds no data")
)
