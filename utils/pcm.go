// SPDX-License-Identifier: EPL-2.0

// Package utils holds sample conversions shared by the format decoders.
package utils

import (
	"encoding/binary"
	"math"
)

// Float32ToInt16 scales x from [-1, 1] to the int16 range, clamping values
// outside it.
func Float32ToInt16(x float32) int16 {
	switch {
	case x >= 1:
		return math.MaxInt16
	case x <= -1:
		return math.MinInt16
	case x < 0:
		return int16(x * 32768)
	}

	return int16(x * 32767)
}

// AppendFloat32AsPCM16 appends src to dst as 16-bit little-endian PCM.
func AppendFloat32AsPCM16(dst []byte, src []float32) []byte {
	for _, v := range src {
		dst = binary.LittleEndian.AppendUint16(dst, uint16(Float32ToInt16(v)))
	}
	return dst
}

// AppendSample appends a signed sample as little-endian PCM of the given bit
// depth. 8-bit samples are stored unsigned with a 128 offset, as WAV does.
// bitsPerSample must be 8, 16, 24 or 32.
func AppendSample(dst []byte, v int32, bitsPerSample int) []byte {
	switch bitsPerSample {
	case 8:
		return append(dst, byte(v+128))
	case 16:
		return binary.LittleEndian.AppendUint16(dst, uint16(v))
	case 24:
		return append(dst, byte(v), byte(v>>8), byte(v>>16))
	default:
		return binary.LittleEndian.AppendUint32(dst, uint32(v))
	}
}

// ContainerBits rounds a codec bit depth up to the PCM width used to carry it.
// It returns 0 for depths wider than 32 bits.
func ContainerBits(bitsPerSample int) int {
	switch {
	case bitsPerSample <= 0:
		return 0
	case bitsPerSample <= 8:
		return 8
	case bitsPerSample <= 16:
		return 16
	case bitsPerSample <= 24:
		return 24
	case bitsPerSample <= 32:
		return 32
	}

	return 0
}
