// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	ErrNotRiffFile         = errors.New("not a RIFF/WAVE file")
	ErrUnexpectedChunk     = errors.New("unexpected chunk")
	ErrChunkOverrun        = errors.New("chunk exceeds RIFF size")
	ErrUnsupportedBitDepth = errors.New("unsupported PCM bit depth")
	ErrInvalidBlockAlign   = errors.New("invalid ADPCM block align")
)
