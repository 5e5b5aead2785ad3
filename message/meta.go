package message

import (
	"fmt"

	"github.com/midisuite/midifile/miderr"
	"github.com/midisuite/midifile/vlq"
)

// Meta event type bytes.
const (
	MetaTypeSequenceNumber    = 0x00
	MetaTypeText              = 0x01
	MetaTypeCopyright         = 0x02
	MetaTypeTrackName         = 0x03
	MetaTypeInstrumentName    = 0x04
	MetaTypeLyric             = 0x05
	MetaTypeMarker            = 0x06
	MetaTypeCuePoint          = 0x07
	MetaTypeChannelPrefix     = 0x20
	MetaTypePortPrefix        = 0x21
	MetaTypeEndOfTrack        = 0x2F
	MetaTypeSetTempo          = 0x51
	MetaTypeSMPTEOffset       = 0x54
	MetaTypeTimeSignature     = 0x58
	MetaTypeKeySignature      = 0x59
	MetaTypeSequencerSpecific = 0x7F
)

func appendMetaHeader(dst []byte, metaType byte, length int) []byte {
	dst = append(dst, statusMeta, metaType)
	return vlq.Append(dst, uint32(length))
}

// MetaSequenceNumber is the 16-bit sequence number meta event.
type MetaSequenceNumber uint16

func (m MetaSequenceNumber) Status() byte { return statusMeta }

func (m MetaSequenceNumber) String() string { return fmt.Sprintf("sequence number %d", uint16(m)) }

func (m MetaSequenceNumber) appendSMF(dst []byte) ([]byte, error) {
	dst = appendMetaHeader(dst, MetaTypeSequenceNumber, 2)
	return append(dst, byte(m>>8), byte(m)), nil
}

// MetaText is one of the seven text meta events (types 0x01-0x07). Which
// one is carried in Kind.
type MetaText struct {
	Kind uint8
	Text string
}

func (m MetaText) Status() byte { return statusMeta }

func (m MetaText) String() string {
	kind := "text"
	switch m.Kind {
	case MetaTypeCopyright:
		kind = "copyright"
	case MetaTypeTrackName:
		kind = "track name"
	case MetaTypeInstrumentName:
		kind = "instrument name"
	case MetaTypeLyric:
		kind = "lyric"
	case MetaTypeMarker:
		kind = "marker"
	case MetaTypeCuePoint:
		kind = "cue point"
	}
	return fmt.Sprintf("%s: %s", kind, m.Text)
}

func (m MetaText) appendSMF(dst []byte) ([]byte, error) {
	if m.Kind < MetaTypeText || m.Kind > MetaTypeCuePoint {
		return dst, fmt.Errorf("text meta kind %#02x: %w", m.Kind, miderr.ErrValueOutOfRange)
	}
	dst = appendMetaHeader(dst, m.Kind, len(m.Text))
	return append(dst, m.Text...), nil
}

// MetaChannelPrefix associates subsequent meta and sysex events with a
// channel.
type MetaChannelPrefix uint8

func (m MetaChannelPrefix) Status() byte { return statusMeta }

func (m MetaChannelPrefix) String() string { return fmt.Sprintf("channel prefix %d", uint8(m)) }

func (m MetaChannelPrefix) appendSMF(dst []byte) ([]byte, error) {
	dst = appendMetaHeader(dst, MetaTypeChannelPrefix, 1)
	return append(dst, byte(m)), nil
}

// MetaPortPrefix selects the output port for subsequent events.
type MetaPortPrefix uint8

func (m MetaPortPrefix) Status() byte { return statusMeta }

func (m MetaPortPrefix) String() string { return fmt.Sprintf("port prefix %d", uint8(m)) }

func (m MetaPortPrefix) appendSMF(dst []byte) ([]byte, error) {
	dst = appendMetaHeader(dst, MetaTypePortPrefix, 1)
	return append(dst, byte(m)), nil
}

// MetaEndOfTrack terminates a track's event stream.
type MetaEndOfTrack struct{}

func (MetaEndOfTrack) Status() byte { return statusMeta }

func (MetaEndOfTrack) String() string { return "end of track" }

func (MetaEndOfTrack) appendSMF(dst []byte) ([]byte, error) {
	return appendMetaHeader(dst, MetaTypeEndOfTrack, 0), nil
}

// MetaSetTempo carries the tempo in microseconds per quarter note, a 24-bit
// value.
type MetaSetTempo uint32

// DefaultTempo is 120 BPM expressed as microseconds per quarter note, the
// tempo in effect before any set tempo event.
const DefaultTempo = 500000

func (m MetaSetTempo) Status() byte { return statusMeta }

func (m MetaSetTempo) String() string {
	return fmt.Sprintf("set tempo %d µs per quarter note (%.2f bpm)",
		uint32(m), 60e6/float64(m))
}

func (m MetaSetTempo) appendSMF(dst []byte) ([]byte, error) {
	if m > 0xFFFFFF {
		return dst, fmt.Errorf("tempo %d exceeds 24 bits: %w", uint32(m), miderr.ErrValueOutOfRange)
	}
	dst = appendMetaHeader(dst, MetaTypeSetTempo, 3)
	return append(dst, byte(m>>16), byte(m>>8), byte(m)), nil
}

// MetaSMPTEOffset is the SMPTE time the track should start at.
type MetaSMPTEOffset struct {
	Hours     uint8
	Minutes   uint8
	Seconds   uint8
	Frames    uint8
	SubFrames uint8 // hundredths of a frame
}

func (m MetaSMPTEOffset) Status() byte { return statusMeta }

func (m MetaSMPTEOffset) String() string {
	return fmt.Sprintf("smpte offset %02d:%02d:%02d, frame %d.%02d",
		m.Hours, m.Minutes, m.Seconds, m.Frames, m.SubFrames)
}

func (m MetaSMPTEOffset) appendSMF(dst []byte) ([]byte, error) {
	dst = appendMetaHeader(dst, MetaTypeSMPTEOffset, 5)
	return append(dst, m.Hours, m.Minutes, m.Seconds, m.Frames, m.SubFrames), nil
}

// MetaTimeSignature holds the notated time signature. Denominator is a
// negative power of two: 3 means an eighth-note beat in x/8 time.
type MetaTimeSignature struct {
	Numerator               uint8
	Denominator             uint8
	ClocksPerClick          uint8
	ThirtySecondsPerQuarter uint8
}

func (m MetaTimeSignature) Status() byte { return statusMeta }

func (m MetaTimeSignature) String() string {
	return fmt.Sprintf("time signature %d/%d", m.Numerator, uint32(1)<<m.Denominator)
}

func (m MetaTimeSignature) appendSMF(dst []byte) ([]byte, error) {
	dst = appendMetaHeader(dst, MetaTypeTimeSignature, 4)
	return append(dst, m.Numerator, m.Denominator, m.ClocksPerClick, m.ThirtySecondsPerQuarter), nil
}

// MetaKeySignature holds the notated key: -7 (7 flats) to +7 (7 sharps).
type MetaKeySignature struct {
	SharpsFlats int8
	Minor       bool
}

func (m MetaKeySignature) Status() byte { return statusMeta }

func (m MetaKeySignature) String() string {
	mode := "major"
	if m.Minor {
		mode = "minor"
	}
	return fmt.Sprintf("key signature %+d, %s", m.SharpsFlats, mode)
}

func (m MetaKeySignature) appendSMF(dst []byte) ([]byte, error) {
	if m.SharpsFlats < -7 || m.SharpsFlats > 7 {
		return dst, fmt.Errorf("key signature %d sharps/flats: %w",
			m.SharpsFlats, miderr.ErrValueOutOfRange)
	}
	minor := byte(0)
	if m.Minor {
		minor = 1
	}
	dst = appendMetaHeader(dst, MetaTypeKeySignature, 2)
	return append(dst, byte(m.SharpsFlats), minor), nil
}

// MetaSequencerSpecific carries sequencer-specific binary data verbatim.
type MetaSequencerSpecific struct {
	Data []byte
}

func (m MetaSequencerSpecific) Status() byte { return statusMeta }

func (m MetaSequencerSpecific) String() string {
	return fmt.Sprintf("sequencer specific, %d bytes", len(m.Data))
}

func (m MetaSequencerSpecific) appendSMF(dst []byte) ([]byte, error) {
	dst = appendMetaHeader(dst, MetaTypeSequencerSpecific, len(m.Data))
	return append(dst, m.Data...), nil
}

// MetaUnknown preserves a meta event with an unrecognized type byte so it
// survives a round trip untouched.
type MetaUnknown struct {
	Type uint8
	Data []byte
}

func (m MetaUnknown) Status() byte { return statusMeta }

func (m MetaUnknown) String() string {
	return fmt.Sprintf("meta %#02x, %d bytes", m.Type, len(m.Data))
}

func (m MetaUnknown) appendSMF(dst []byte) ([]byte, error) {
	dst = appendMetaHeader(dst, m.Type, len(m.Data))
	return append(dst, m.Data...), nil
}

// decodeMeta reads a meta event. The 0xFF status has been consumed; body
// starts at the type byte.
func decodeMeta(body []byte) (Message, int, error) {
	if len(body) == 0 {
		return nil, 0, fmt.Errorf("meta event without type byte: %w", miderr.ErrTruncatedTrack)
	}
	metaType := body[0]
	length, n, err := vlq.Decode(body[1:])
	if err != nil {
		return nil, 0, fmt.Errorf("meta event length: %w", err)
	}
	payloadStart := 1 + n
	payloadEnd := payloadStart + int(length)
	if payloadEnd > len(body) {
		return nil, 0, fmt.Errorf("meta event payload of %d bytes overruns input: %w",
			length, miderr.ErrTruncatedTrack)
	}
	payload := body[payloadStart:payloadEnd]

	m, err := metaFromPayload(metaType, payload)
	if err != nil {
		return nil, 0, err
	}
	return m, payloadEnd, nil
}

func metaFromPayload(metaType byte, payload []byte) (Message, error) {
	badLength := func(want int) error {
		return fmt.Errorf("meta %#02x payload of %d bytes, want %d: %w",
			metaType, len(payload), want, miderr.ErrValueOutOfRange)
	}

	switch metaType {
	case MetaTypeSequenceNumber:
		if len(payload) != 2 {
			return nil, badLength(2)
		}
		return MetaSequenceNumber(uint16(payload[0])<<8 | uint16(payload[1])), nil
	case MetaTypeText, MetaTypeCopyright, MetaTypeTrackName, MetaTypeInstrumentName,
		MetaTypeLyric, MetaTypeMarker, MetaTypeCuePoint:
		return MetaText{Kind: metaType, Text: string(payload)}, nil
	case MetaTypeChannelPrefix:
		if len(payload) != 1 {
			return nil, badLength(1)
		}
		return MetaChannelPrefix(payload[0]), nil
	case MetaTypePortPrefix:
		if len(payload) != 1 {
			return nil, badLength(1)
		}
		return MetaPortPrefix(payload[0]), nil
	case MetaTypeEndOfTrack:
		if len(payload) != 0 {
			return nil, badLength(0)
		}
		return MetaEndOfTrack{}, nil
	case MetaTypeSetTempo:
		if len(payload) != 3 {
			return nil, badLength(3)
		}
		tempo := uint32(payload[0])<<16 | uint32(payload[1])<<8 | uint32(payload[2])
		return MetaSetTempo(tempo), nil
	case MetaTypeSMPTEOffset:
		if len(payload) != 5 {
			return nil, badLength(5)
		}
		return MetaSMPTEOffset{
			Hours:     payload[0],
			Minutes:   payload[1],
			Seconds:   payload[2],
			Frames:    payload[3],
			SubFrames: payload[4],
		}, nil
	case MetaTypeTimeSignature:
		if len(payload) != 4 {
			return nil, badLength(4)
		}
		return MetaTimeSignature{
			Numerator:               payload[0],
			Denominator:             payload[1],
			ClocksPerClick:          payload[2],
			ThirtySecondsPerQuarter: payload[3],
		}, nil
	case MetaTypeKeySignature:
		if len(payload) != 2 {
			return nil, badLength(2)
		}
		return MetaKeySignature{SharpsFlats: int8(payload[0]), Minor: payload[1] != 0}, nil
	case MetaTypeSequencerSpecific:
		data := make([]byte, len(payload))
		copy(data, payload)
		return MetaSequencerSpecific{Data: data}, nil
	}
	// Unrecognized types are preserved, never rejected.
	data := make([]byte, len(payload))
	copy(data, payload)
	return MetaUnknown{Type: metaType, Data: data}, nil
}
