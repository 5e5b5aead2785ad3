package smf

import (
	"encoding/binary"
	"fmt"

	"github.com/midisuite/midifile/miderr"
)

// Chunk identifiers defined by the SMF format.
var (
	headerMagic = [4]byte{'M', 'T', 'h', 'd'}
	trackMagic  = [4]byte{'M', 'T', 'r', 'k'}
)

const chunkHeaderSize = 8

// chunk is one tagged, length-prefixed block of an SMF file: a 4-byte ASCII
// identifier, a big-endian uint32 length, and exactly that many payload
// bytes.
type chunk struct {
	Magic [4]byte
	Data  []byte
}

func (c chunk) isHeader() bool { return c.Magic == headerMagic }
func (c chunk) isTrack() bool  { return c.Magic == trackMagic }

// splitChunk reads the chunk starting at data[offset] and returns it with
// the offset of the byte after it. The payload aliases data.
func splitChunk(data []byte, offset int) (chunk, int, error) {
	if offset+chunkHeaderSize > len(data) {
		return chunk{}, offset, miderr.At("read chunk", offset,
			fmt.Errorf("%d bytes left, chunk header needs %d: %w",
				len(data)-offset, chunkHeaderSize, miderr.ErrChunkLengthMismatch))
	}
	var c chunk
	copy(c.Magic[:], data[offset:offset+4])
	length := binary.BigEndian.Uint32(data[offset+4 : offset+8])

	start := offset + chunkHeaderSize
	end := start + int(length)
	if end > len(data) {
		return chunk{}, offset, miderr.At("read chunk", offset,
			fmt.Errorf("chunk %q declares %d payload bytes, %d remain: %w",
				c.Magic[:], length, len(data)-start, miderr.ErrChunkLengthMismatch))
	}
	c.Data = data[start:end]
	return c, end, nil
}

// appendChunk frames payload under the given magic and appends it to dst.
func appendChunk(dst []byte, magic [4]byte, payload []byte) []byte {
	dst = append(dst, magic[:]...)
	dst = binary.BigEndian.AppendUint32(dst, uint32(len(payload)))
	return append(dst, payload...)
}
