// SPDX-License-Identifier: EPL-2.0

package flac

import "errors"

var (
	// ErrUnsupportedBitDepth indicates samples wider than 32 bits
	ErrUnsupportedBitDepth = errors.New("unsupported FLAC bit depth")

	// ErrChannelMismatch indicates a frame whose channel count differs from STREAMINFO
	ErrChannelMismatch = errors.New("frame channel count differs from stream")
)
