package message

import (
	"fmt"

	"github.com/midisuite/midifile/miderr"
)

// SysEx is a system exclusive message. Data holds everything between the
// leading 0xF0 and the terminating 0xF7, verbatim; embedded 0xF7-delimited
// continuation packets are not reinterpreted.
type SysEx struct {
	Data []byte
}

func (m SysEx) Status() byte { return statusSysEx }

func (m SysEx) String() string {
	return fmt.Sprintf("sysex, %d bytes", len(m.Data))
}

func (m SysEx) appendSMF(dst []byte) ([]byte, error) {
	dst = append(dst, statusSysEx)
	dst = append(dst, m.Data...)
	return append(dst, statusEOX), nil
}

// MTCQuarterFrame is a MIDI time code quarter frame.
type MTCQuarterFrame struct {
	MessageType uint8 // 0-7
	Values      uint8 // 0-15
}

func (m MTCQuarterFrame) Status() byte { return statusMTCQuarter }

func (m MTCQuarterFrame) String() string {
	return fmt.Sprintf("mtc quarter frame, type %d value %d", m.MessageType, m.Values)
}

func (m MTCQuarterFrame) appendSMF(dst []byte) ([]byte, error) {
	if m.MessageType > 7 || m.Values > 15 {
		return dst, fmt.Errorf("mtc quarter frame %d/%d: %w",
			m.MessageType, m.Values, miderr.ErrValueOutOfRange)
	}
	return append(dst, statusMTCQuarter, m.MessageType<<4|m.Values), nil
}

// SongPositionPointer holds a 14-bit position in MIDI beats.
type SongPositionPointer struct {
	Position uint16
}

func (m SongPositionPointer) Status() byte { return statusSongPos }

func (m SongPositionPointer) String() string {
	return fmt.Sprintf("song position %d", m.Position)
}

func (m SongPositionPointer) appendSMF(dst []byte) ([]byte, error) {
	if m.Position > 0x3FFF {
		return dst, fmt.Errorf("song position %d: %w", m.Position, miderr.ErrValueOutOfRange)
	}
	return append(dst, statusSongPos, byte(m.Position&0x7F), byte(m.Position>>7)), nil
}

// SongSelect chooses a song number.
type SongSelect struct {
	Song uint8
}

func (m SongSelect) Status() byte { return statusSongSelect }

func (m SongSelect) String() string { return fmt.Sprintf("song select %d", m.Song) }

func (m SongSelect) appendSMF(dst []byte) ([]byte, error) {
	if err := checkDataBytes("song select", m.Song); err != nil {
		return dst, err
	}
	return append(dst, statusSongSelect, m.Song), nil
}

// TuneRequest asks analog synthesizers to tune their oscillators.
type TuneRequest struct{}

func (TuneRequest) Status() byte { return statusTuneReq }

func (TuneRequest) String() string { return "tune request" }

func (TuneRequest) appendSMF(dst []byte) ([]byte, error) {
	return append(dst, statusTuneReq), nil
}

// Realtime is a single-byte system realtime message. Inside an SMF track a
// 0xFF byte always starts a meta event, so RealtimeReset decodes as meta;
// it exists here for programmatic construction.
type Realtime byte

const (
	RealtimeClock         Realtime = 0xF8
	RealtimeStart         Realtime = 0xFA
	RealtimeContinue      Realtime = 0xFB
	RealtimeStop          Realtime = 0xFC
	RealtimeActiveSensing Realtime = 0xFE
	RealtimeReset         Realtime = 0xFF
)

func (m Realtime) Status() byte { return byte(m) }

func (m Realtime) String() string {
	switch m {
	case RealtimeClock:
		return "timing clock"
	case RealtimeStart:
		return "start"
	case RealtimeContinue:
		return "continue"
	case RealtimeStop:
		return "stop"
	case RealtimeActiveSensing:
		return "active sensing"
	case RealtimeReset:
		return "reset"
	}
	return fmt.Sprintf("realtime %#02x", byte(m))
}

func (m Realtime) appendSMF(dst []byte) ([]byte, error) {
	return append(dst, byte(m)), nil
}

// decodeSystem handles status bytes 0xF0-0xFE. 0xFF is dispatched to meta
// by the caller. body starts after the status byte.
func decodeSystem(status byte, body []byte) (Message, int, error) {
	switch status {
	case statusSysEx:
		// Scan to the terminating 0xF7, which is consumed but not stored.
		for i, b := range body {
			if b == statusEOX {
				data := make([]byte, i)
				copy(data, body[:i])
				return SysEx{Data: data}, i + 1, nil
			}
		}
		return nil, 0, fmt.Errorf("sysex without terminating 0xF7: %w", miderr.ErrTruncatedTrack)
	case statusMTCQuarter:
		if len(body) < 1 {
			return nil, 0, fmt.Errorf("mtc quarter frame: %w", miderr.ErrTruncatedTrack)
		}
		if err := checkDataBytes("mtc quarter frame", body[0]); err != nil {
			return nil, 0, err
		}
		return MTCQuarterFrame{MessageType: body[0] >> 4, Values: body[0] & 0x0F}, 1, nil
	case statusSongPos:
		if len(body) < 2 {
			return nil, 0, fmt.Errorf("song position pointer: %w", miderr.ErrTruncatedTrack)
		}
		if err := checkDataBytes("song position pointer", body[0], body[1]); err != nil {
			return nil, 0, err
		}
		return SongPositionPointer{Position: uint16(body[0]) | uint16(body[1])<<7}, 2, nil
	case statusSongSelect:
		if len(body) < 1 {
			return nil, 0, fmt.Errorf("song select: %w", miderr.ErrTruncatedTrack)
		}
		if err := checkDataBytes("song select", body[0]); err != nil {
			return nil, 0, err
		}
		return SongSelect{Song: body[0]}, 1, nil
	case statusTuneReq:
		return TuneRequest{}, 0, nil
	case byte(RealtimeClock), 0xF9, byte(RealtimeStart), byte(RealtimeContinue),
		byte(RealtimeStop), 0xFD, byte(RealtimeActiveSensing):
		return Realtime(status), 0, nil
	}
	return nil, 0, fmt.Errorf("system status %#02x: %w", status, miderr.ErrValueOutOfRange)
}
