package smf

import (
	"encoding/binary"
	"fmt"

	"github.com/midisuite/midifile/miderr"
)

// Format is the overall organization of an SMF file.
type Format uint16

const (
	// FormatSingle holds one multi-channel track.
	FormatSingle Format = 0
	// FormatMultiSync holds simultaneous tracks of one sequence.
	FormatMultiSync Format = 1
	// FormatMultiAsync holds sequentially independent single-track patterns.
	FormatMultiAsync Format = 2
)

func (f Format) String() string {
	switch f {
	case FormatSingle:
		return "single track"
	case FormatMultiSync:
		return "multi track"
	case FormatMultiAsync:
		return "multi pattern"
	}
	return fmt.Sprintf("format %d", uint16(f))
}

// Division is the raw MThd division word. Bit 15 clear means ticks per
// quarter note in bits 0-14; bit 15 set means SMPTE timing, with a negative
// frames-per-second code in bits 8-14 and ticks per frame in bits 0-7.
type Division uint16

// DefaultDivision is the metric division used when building files
// programmatically without choosing one.
const DefaultDivision Division = 480

// MetricDivision returns a ticks-per-quarter-note division. tpq must fit in
// 15 bits.
func MetricDivision(tpq uint16) (Division, error) {
	if tpq == 0 || tpq > 0x7FFF {
		return 0, fmt.Errorf("ticks per quarter note %d: %w", tpq, miderr.ErrValueOutOfRange)
	}
	return Division(tpq), nil
}

// SMPTEDivision returns an SMPTE division. fps is one of 24, 25, 29 (for
// 29.97 drop frame) or 30.
func SMPTEDivision(fps, ticksPerFrame uint8) (Division, error) {
	if fps == 0 || fps > 0x7F || ticksPerFrame == 0 {
		return 0, fmt.Errorf("smpte %d fps, %d ticks per frame: %w",
			fps, ticksPerFrame, miderr.ErrValueOutOfRange)
	}
	return Division(uint16(-int8(fps))<<8 | uint16(ticksPerFrame)), nil
}

// IsSMPTE reports whether the division uses SMPTE timing.
func (d Division) IsSMPTE() bool { return d&0x8000 != 0 }

// TicksPerQuarterNote returns the metric resolution, or 0 for SMPTE
// divisions.
func (d Division) TicksPerQuarterNote() uint16 {
	if d.IsSMPTE() {
		return 0
	}
	return uint16(d)
}

// SMPTE returns the frames per second and ticks per frame, or 0, 0 for
// metric divisions.
func (d Division) SMPTE() (fps, ticksPerFrame uint8) {
	if !d.IsSMPTE() {
		return 0, 0
	}
	return uint8(-int8(d >> 8)), uint8(d)
}

// Valid reports whether the division carries usable timing information.
func (d Division) Valid() bool {
	if d.IsSMPTE() {
		fps, tpf := d.SMPTE()
		return fps > 0 && tpf > 0
	}
	return d.TicksPerQuarterNote() > 0
}

func (d Division) String() string {
	if d.IsSMPTE() {
		fps, tpf := d.SMPTE()
		return fmt.Sprintf("%d fps, %d ticks per frame", fps, tpf)
	}
	return fmt.Sprintf("%d ticks per quarter note", d.TicksPerQuarterNote())
}

// header is the decoded MThd payload.
type header struct {
	Format    Format
	NumTracks uint16
	Division  Division
}

const headerPayloadSize = 6

// decodeHeader interprets an MThd chunk payload. A payload longer than six
// bytes is accepted in lenient mode only, using the first six.
func decodeHeader(c chunk, strict bool) (header, error) {
	if !c.isHeader() {
		return header{}, miderr.At("read header", 0,
			fmt.Errorf("first chunk is %q, want %q: %w",
				c.Magic[:], headerMagic[:], miderr.ErrChunkMagicMismatch))
	}
	if len(c.Data) < headerPayloadSize || (strict && len(c.Data) != headerPayloadSize) {
		return header{}, miderr.At("read header", 0,
			fmt.Errorf("MThd payload is %d bytes, want %d: %w",
				len(c.Data), headerPayloadSize, miderr.ErrChunkLengthMismatch))
	}
	h := header{
		Format:   Format(binary.BigEndian.Uint16(c.Data[0:2])),
		NumTracks: binary.BigEndian.Uint16(c.Data[2:4]),
		Division: Division(binary.BigEndian.Uint16(c.Data[4:6])),
	}
	if h.Format > FormatMultiAsync {
		return header{}, miderr.At("read header", 0,
			fmt.Errorf("format %d: %w", uint16(h.Format), miderr.ErrUnsupportedFormat))
	}
	return h, nil
}

func (h header) append(dst []byte) []byte {
	var payload [headerPayloadSize]byte
	binary.BigEndian.PutUint16(payload[0:2], uint16(h.Format))
	binary.BigEndian.PutUint16(payload[2:4], h.NumTracks)
	binary.BigEndian.PutUint16(payload[4:6], uint16(h.Division))
	return appendChunk(dst, headerMagic, payload[:])
}
