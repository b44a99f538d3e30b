// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"encoding/binary"
	"fmt"
	"math"

	"github.com/ik5/audstream/audio"
)

var imaStepTable = [89]int32{
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

var imaIndexTable = [16]int32{
	-1, -1, -1, -1, 2, 4, 6, 8,
	-1, -1, -1, -1, 2, 4, 6, 8,
}

const maxStepIndex = int32(len(imaStepTable) - 1)

// adpcmChannel is the per-channel state carried across the nibbles of one block.
type adpcmChannel struct {
	predictor int32
	stepIndex int32
}

func (ch *adpcmChannel) expand(nibble byte) int16 {
	step := imaStepTable[ch.stepIndex]

	diff := step >> 3
	if nibble&1 != 0 {
		diff += step >> 2
	}
	if nibble&2 != 0 {
		diff += step >> 1
	}
	if nibble&4 != 0 {
		diff += step
	}
	if nibble&8 != 0 {
		diff = -diff
	}

	ch.predictor = min(max(ch.predictor+diff, math.MinInt16), math.MaxInt16)
	ch.stepIndex = min(max(ch.stepIndex+imaIndexTable[nibble&0x0F], 0), maxStepIndex)

	return int16(ch.predictor)
}

// decodeDVIADPCM expands 4-bit IMA/DVI blocks into 16-bit little-endian PCM.
//
// Every block starts with a 4 byte header per channel (predictor, step index,
// reserved). The header predictor is the first sample of the block. The body is
// interleaved in 4 byte words per channel, 8 nibbles each, low nibble first.
// A short trailing block decodes the words that are present.
func decodeDVIADPCM(data []byte, f FormatChunk) ([]byte, error) {
	channels := int(f.Channels)
	blockAlign := int(f.BlockAlign)
	headerSize := 4 * channels

	if blockAlign <= headerSize || (blockAlign-headerSize)%headerSize != 0 {
		return nil, &audio.ParseError{
			Section: "DVI-ADPCM data",
			Err:     fmt.Errorf("block align %d for %d channels: %w", blockAlign, channels, ErrInvalidBlockAlign),
		}
	}

	out := make([]byte, 0, adpcmDecodedSize(len(data), blockAlign, channels))
	state := make([]adpcmChannel, channels)
	frame := make([]int16, channels)
	groups := make([][8]int16, channels)

	for off := 0; off < len(data); off += blockAlign {
		block := data[off:min(off+blockAlign, len(data))]
		if len(block) < headerSize {
			break
		}

		for c := range channels {
			h := block[4*c : 4*c+4]
			state[c].predictor = int32(int16(binary.LittleEndian.Uint16(h[0:2])))
			state[c].stepIndex = min(max(int32(h[2]), 0), maxStepIndex)
			frame[c] = int16(state[c].predictor)
		}
		out = appendFrame(out, frame)

		body := block[headerSize:]
		for len(body) >= headerSize {
			for c := range channels {
				word := body[4*c : 4*c+4]
				for i, b := range word {
					groups[c][2*i] = state[c].expand(b & 0x0F)
					groups[c][2*i+1] = state[c].expand(b >> 4)
				}
			}

			for i := range 8 {
				for c := range channels {
					frame[c] = groups[c][i]
				}
				out = appendFrame(out, frame)
			}

			body = body[headerSize:]
		}
	}

	return out, nil
}

func appendFrame(out []byte, frame []int16) []byte {
	for _, s := range frame {
		out = binary.LittleEndian.AppendUint16(out, uint16(s))
	}
	return out
}

// adpcmDecodedSize is the PCM byte count produced from n bytes of ADPCM data.
func adpcmDecodedSize(n, blockAlign, channels int) int {
	samplesPerBlock := (blockAlign-4*channels)*2/channels + 1
	full := n / blockAlign
	size := full * samplesPerBlock

	if rest := n % blockAlign; rest >= 4*channels {
		size += 1 + (rest-4*channels)/(4*channels)*8
	}

	return size * channels * 2
}
