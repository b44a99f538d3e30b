// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"encoding/binary"
	"math"
)

var stepTable = [89]int32{
	7, 8, 9, 10, 11, 12, 13, 14, 16, 17,
	19, 21, 23, 25, 28, 31, 34, 37, 41, 45,
	50, 55, 60, 66, 73, 80, 88, 97, 107, 118,
	130, 143, 157, 173, 190, 209, 230, 253, 279, 307,
	337, 371, 408, 449, 494, 544, 598, 658, 724, 796,
	876, 963, 1060, 1166, 1282, 1411, 1552, 1707, 1878, 2066,
	2272, 2499, 2749, 3024, 3327, 3660, 4026, 4428, 4871, 5358,
	5894, 6484, 7132, 7845, 8630, 9493, 10442, 11487, 12635, 13899,
	15289, 16818, 18500, 20350, 22385, 24623, 27086, 29794, 32767,
}

var indexTable = [8]int32{-1, -1, -1, -1, 2, 4, 6, 8}

type imaEncoder struct {
	predictor int32
	index     int32
}

func (e *imaEncoder) encode(sample int16) byte {
	step := stepTable[e.index]
	diff := int32(sample) - e.predictor

	var nibble byte
	if diff < 0 {
		nibble = 8
		diff = -diff
	}

	delta := step >> 3
	for mask := byte(4); mask > 0; mask >>= 1 {
		if diff >= step {
			nibble |= mask
			diff -= step
			delta += step
		}
		step >>= 1
	}

	if nibble&8 != 0 {
		delta = -delta
	}

	e.predictor = min(max(e.predictor+delta, math.MinInt16), math.MaxInt16)
	e.index = min(max(e.index+indexTable[nibble&7], 0), 88)

	return nibble
}

// EncodeADPCM encodes interleaved 16-bit samples as IMA/DVI ADPCM blocks of
// blockAlign bytes. It returns the data payload and the samples per block.
// The sample count per channel should be a multiple of the samples per block.
func EncodeADPCM(samples []int16, channels, blockAlign int) ([]byte, int) {
	samplesPerBlock := (blockAlign-4*channels)*2/channels + 1
	frames := len(samples) / channels
	enc := make([]imaEncoder, channels)

	var out []byte
	for start := 0; start+samplesPerBlock <= frames; start += samplesPerBlock {
		for c := range channels {
			first := samples[start*channels+c]
			enc[c].predictor = int32(first)
			out = binary.LittleEndian.AppendUint16(out, uint16(first))
			out = append(out, byte(enc[c].index), 0)
		}

		for g := 1; g < samplesPerBlock; g += 8 {
			for c := range channels {
				for i := 0; i < 8; i += 2 {
					lo := enc[c].encode(samples[(start+g+i)*channels+c])
					hi := enc[c].encode(samples[(start+g+i+1)*channels+c])
					out = append(out, lo|hi<<4)
				}
			}
		}
	}

	return out, samplesPerBlock
}

// ADPCMExtra is the fmt chunk extension (cbSize, samples per block).
func ADPCMExtra(samplesPerBlock int) []byte {
	out := binary.LittleEndian.AppendUint16(nil, 2)
	return binary.LittleEndian.AppendUint16(out, uint16(samplesPerBlock))
}
