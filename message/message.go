// Package message models the MIDI 1.0 message set as it appears inside a
// Standard MIDI File track stream: channel voice and mode messages, system
// common and realtime messages, and SMF meta events. The set of
// implementations is closed; Decode and Encode dispatch over every kind.
package message

import (
	"fmt"

	"github.com/midisuite/midifile/miderr"
)

// Message is one decoded MIDI message. Implementations are value types so
// messages compare with ==, except the ones carrying a byte payload.
type Message interface {
	// Status returns the status byte the message encodes with. For channel
	// messages this includes the channel in the low nibble; for meta events
	// it is always 0xFF.
	Status() byte

	// appendSMF appends the full wire form, status byte included. Closed to
	// this package so the dispatch in Decode/Encode stays exhaustive.
	appendSMF(dst []byte) ([]byte, error)
}

// NoRunningStatus is the running-status value meaning "none in effect".
// Status bytes always have the high bit set, so zero is never a real status.
const NoRunningStatus byte = 0

const (
	statusSysEx      = 0xF0
	statusEOX        = 0xF7
	statusMeta       = 0xFF
	statusMTCQuarter = 0xF1
	statusSongPos    = 0xF2
	statusSongSelect = 0xF3
	statusTuneReq    = 0xF6
)

func isStatusByte(b byte) bool    { return b&0x80 != 0 }
func isChannelStatus(b byte) bool { return b >= 0x80 && b < 0xF0 }

// Decode reads one message from the start of data. A high-bit first byte is
// taken as the status; otherwise runningStatus supplies the status and the
// first byte is the first data byte. It returns the message, the bytes
// consumed, and the running status in effect afterwards: channel messages
// set it, everything else clears it.
func Decode(data []byte, runningStatus byte) (Message, int, byte, error) {
	if len(data) == 0 {
		return nil, 0, runningStatus, fmt.Errorf("empty message: %w", miderr.ErrTruncatedTrack)
	}

	status := data[0]
	body := data[1:]
	consumed := 1
	if !isStatusByte(status) {
		if runningStatus == NoRunningStatus {
			return nil, 0, runningStatus, fmt.Errorf("data byte %#02x with no status: %w",
				status, miderr.ErrInvalidRunningStatus)
		}
		status = runningStatus
		body = data
		consumed = 0
	}

	switch {
	case isChannelStatus(status):
		m, n, err := decodeChannel(status, body)
		if err != nil {
			return nil, 0, runningStatus, err
		}
		return m, consumed + n, status, nil
	case status == statusMeta:
		m, n, err := decodeMeta(body)
		if err != nil {
			return nil, 0, runningStatus, err
		}
		return m, consumed + n, NoRunningStatus, nil
	default:
		m, n, err := decodeSystem(status, body)
		if err != nil {
			return nil, 0, runningStatus, err
		}
		return m, consumed + n, NoRunningStatus, nil
	}
}

// Encode appends the wire form of m to dst, omitting the status byte when m
// is a channel message whose status equals runningStatus. It returns the
// extended slice and the running status in effect after m.
func Encode(dst []byte, m Message, runningStatus byte) ([]byte, byte, error) {
	status := m.Status()
	if !isChannelStatus(status) {
		out, err := m.appendSMF(dst)
		return out, NoRunningStatus, err
	}
	if status == runningStatus {
		full, err := m.appendSMF(nil)
		if err != nil {
			return dst, runningStatus, err
		}
		return append(dst, full[1:]...), status, nil
	}
	out, err := m.appendSMF(dst)
	if err != nil {
		return dst, runningStatus, err
	}
	return out, status, nil
}

func checkDataBytes(kind string, bs ...byte) error {
	for _, b := range bs {
		if b > 0x7F {
			return fmt.Errorf("%s data byte %#02x: %w", kind, b, miderr.ErrValueOutOfRange)
		}
	}
	return nil
}
