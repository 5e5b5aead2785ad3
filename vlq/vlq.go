// Package vlq implements MIDI's variable-length quantity encoding: 7 bits
// per byte, big-endian, high bit set on every byte but the last. SMF values
// never exceed 28 bits (0x0FFFFFFF), so a valid quantity is at most 4 bytes.
package vlq

import (
	"fmt"

	"github.com/midisuite/midifile/miderr"
)

// Max is the largest value a MIDI variable-length quantity can hold.
const Max = 0x0FFFFFFF

// Decode reads a variable-length quantity from the start of data and returns
// the value and the number of bytes consumed.
func Decode(data []byte) (uint32, int, error) {
	var v uint32
	for i := 0; i < 4; i++ {
		if i >= len(data) {
			return 0, i, fmt.Errorf("input ends inside quantity: %w", miderr.ErrTruncatedTrack)
		}
		b := data[i]
		v = (v << 7) | uint32(b&0x7F)
		if b&0x80 == 0 {
			return v, i + 1, nil
		}
	}
	return 0, 4, fmt.Errorf("no terminating byte in 4: %w", miderr.ErrMalformedVLQ)
}

// Encode returns the minimal encoding of v, so re-encoding a decoded value
// reproduces the original bytes.
func Encode(v uint32) ([]byte, error) {
	if v > Max {
		return nil, fmt.Errorf("%#x exceeds %#x: %w", v, uint32(Max), miderr.ErrValueOutOfRange)
	}
	return Append(nil, v), nil
}

// Append appends the minimal encoding of v to dst. v must be <= Max; values
// above it are masked, so validate with Encode when the input is untrusted.
func Append(dst []byte, v uint32) []byte {
	v &= Max
	var buf [4]byte
	i := 3
	buf[i] = byte(v & 0x7F)
	v >>= 7
	for v > 0 {
		i--
		buf[i] = byte(v&0x7F) | 0x80
		v >>= 7
	}
	return append(dst, buf[i:]...)
}

// Len returns the encoded size of v in bytes without allocating.
func Len(v uint32) int {
	switch {
	case v < 1<<7:
		return 1
	case v < 1<<14:
		return 2
	case v < 1<<21:
		return 3
	default:
		return 4
	}
}
