package message

import (
	"fmt"

	"github.com/midisuite/midifile/miderr"
)

// Channel voice status nibbles.
const (
	statusNoteOff         = 0x80
	statusNoteOn          = 0x90
	statusPolyPressure    = 0xA0
	statusControlChange   = 0xB0
	statusProgramChange   = 0xC0
	statusChannelPressure = 0xD0
	statusPitchBend       = 0xE0
)

// Channel mode controller numbers. A ControlChange with one of these in
// Controller is a channel mode message rather than a voice message.
const (
	ControllerAllSoundOff         = 120
	ControllerResetAllControllers = 121
	ControllerLocalControl        = 122
	ControllerAllNotesOff         = 123
	ControllerOmniModeOff         = 124
	ControllerOmniModeOn          = 125
	ControllerMonoModeOn          = 126
	ControllerPolyModeOn          = 127
)

// NoteOff releases a note on a channel.
type NoteOff struct {
	Channel  uint8
	Note     uint8
	Velocity uint8
}

func (m NoteOff) Status() byte { return statusNoteOff | m.Channel&0x0F }

func (m NoteOff) String() string {
	return fmt.Sprintf("channel %d: note %d off, velocity %d", m.Channel, m.Note, m.Velocity)
}

func (m NoteOff) appendSMF(dst []byte) ([]byte, error) {
	if err := checkDataBytes("note off", m.Note, m.Velocity); err != nil {
		return dst, err
	}
	return append(dst, m.Status(), m.Note, m.Velocity), nil
}

// NoteOn starts a note on a channel. Velocity 0 is conventionally a note
// off, but the codec preserves it as written.
type NoteOn struct {
	Channel  uint8
	Note     uint8
	Velocity uint8
}

func (m NoteOn) Status() byte { return statusNoteOn | m.Channel&0x0F }

func (m NoteOn) String() string {
	return fmt.Sprintf("channel %d: note %d on, velocity %d", m.Channel, m.Note, m.Velocity)
}

func (m NoteOn) appendSMF(dst []byte) ([]byte, error) {
	if err := checkDataBytes("note on", m.Note, m.Velocity); err != nil {
		return dst, err
	}
	return append(dst, m.Status(), m.Note, m.Velocity), nil
}

// PolyPressure is per-note aftertouch.
type PolyPressure struct {
	Channel  uint8
	Note     uint8
	Pressure uint8
}

func (m PolyPressure) Status() byte { return statusPolyPressure | m.Channel&0x0F }

func (m PolyPressure) String() string {
	return fmt.Sprintf("channel %d: note %d pressure %d", m.Channel, m.Note, m.Pressure)
}

func (m PolyPressure) appendSMF(dst []byte) ([]byte, error) {
	if err := checkDataBytes("poly pressure", m.Note, m.Pressure); err != nil {
		return dst, err
	}
	return append(dst, m.Status(), m.Note, m.Pressure), nil
}

// ControlChange sets a controller value, or carries a channel mode message
// when Controller is 120-127.
type ControlChange struct {
	Channel    uint8
	Controller uint8
	Value      uint8
}

func (m ControlChange) Status() byte { return statusControlChange | m.Channel&0x0F }

// IsChannelMode reports whether the message is a channel mode message.
func (m ControlChange) IsChannelMode() bool {
	return m.Controller >= ControllerAllSoundOff
}

func (m ControlChange) String() string {
	prefix := fmt.Sprintf("channel %d: ", m.Channel)
	switch m.Controller {
	case ControllerAllSoundOff:
		return prefix + "all sound off"
	case ControllerResetAllControllers:
		return prefix + "reset all controllers"
	case ControllerLocalControl:
		if m.Value == 127 {
			return prefix + "local control on"
		}
		return prefix + "local control off"
	case ControllerAllNotesOff:
		return prefix + "all notes off"
	case ControllerOmniModeOff:
		return prefix + "omni mode off"
	case ControllerOmniModeOn:
		return prefix + "omni mode on"
	case ControllerMonoModeOn:
		return prefix + fmt.Sprintf("mono mode on (%d channels)", m.Value)
	case ControllerPolyModeOn:
		return prefix + "poly mode on"
	}
	return prefix + fmt.Sprintf("controller %d = %d", m.Controller, m.Value)
}

func (m ControlChange) appendSMF(dst []byte) ([]byte, error) {
	if err := checkDataBytes("control change", m.Controller, m.Value); err != nil {
		return dst, err
	}
	return append(dst, m.Status(), m.Controller, m.Value), nil
}

// ProgramChange selects the program (instrument) for a channel.
type ProgramChange struct {
	Channel uint8
	Program uint8
}

func (m ProgramChange) Status() byte { return statusProgramChange | m.Channel&0x0F }

func (m ProgramChange) String() string {
	return fmt.Sprintf("channel %d: program change to %d", m.Channel, m.Program)
}

func (m ProgramChange) appendSMF(dst []byte) ([]byte, error) {
	if err := checkDataBytes("program change", m.Program); err != nil {
		return dst, err
	}
	return append(dst, m.Status(), m.Program), nil
}

// ChannelPressure is channel-wide aftertouch.
type ChannelPressure struct {
	Channel  uint8
	Pressure uint8
}

func (m ChannelPressure) Status() byte { return statusChannelPressure | m.Channel&0x0F }

func (m ChannelPressure) String() string {
	return fmt.Sprintf("channel %d: channel pressure %d", m.Channel, m.Pressure)
}

func (m ChannelPressure) appendSMF(dst []byte) ([]byte, error) {
	if err := checkDataBytes("channel pressure", m.Pressure); err != nil {
		return dst, err
	}
	return append(dst, m.Status(), m.Pressure), nil
}

// PitchBend carries a 14-bit bend value; 0x2000 is center.
type PitchBend struct {
	Channel uint8
	Value   uint16
}

// PitchBendCenter is the no-bend value.
const PitchBendCenter = 0x2000

func (m PitchBend) Status() byte { return statusPitchBend | m.Channel&0x0F }

func (m PitchBend) String() string {
	return fmt.Sprintf("channel %d: pitch bend %d", m.Channel, m.Value)
}

func (m PitchBend) appendSMF(dst []byte) ([]byte, error) {
	if m.Value > 0x3FFF {
		return dst, fmt.Errorf("pitch bend value %d: %w", m.Value, miderr.ErrValueOutOfRange)
	}
	return append(dst, m.Status(), byte(m.Value&0x7F), byte(m.Value>>7)), nil
}

// decodeChannel reads the data bytes of a channel message. status has
// already been consumed (or supplied by running status); body starts at the
// first data byte.
func decodeChannel(status byte, body []byte) (Message, int, error) {
	channel := status & 0x0F
	kind := status & 0xF0

	need := 2
	if kind == statusProgramChange || kind == statusChannelPressure {
		need = 1
	}
	if len(body) < need {
		return nil, 0, fmt.Errorf("channel message %#02x needs %d data bytes, have %d: %w",
			status, need, len(body), miderr.ErrTruncatedTrack)
	}
	if err := checkDataBytes("channel message", body[:need]...); err != nil {
		return nil, 0, err
	}

	switch kind {
	case statusNoteOff:
		return NoteOff{Channel: channel, Note: body[0], Velocity: body[1]}, need, nil
	case statusNoteOn:
		return NoteOn{Channel: channel, Note: body[0], Velocity: body[1]}, need, nil
	case statusPolyPressure:
		return PolyPressure{Channel: channel, Note: body[0], Pressure: body[1]}, need, nil
	case statusControlChange:
		return ControlChange{Channel: channel, Controller: body[0], Value: body[1]}, need, nil
	case statusProgramChange:
		return ProgramChange{Channel: channel, Program: body[0]}, need, nil
	case statusChannelPressure:
		return ChannelPressure{Channel: channel, Pressure: body[0]}, need, nil
	case statusPitchBend:
		value := uint16(body[0]) | uint16(body[1])<<7
		return PitchBend{Channel: channel, Value: value}, need, nil
	}
	// isChannelStatus guarantees one of the cases above matched.
	return nil, 0, fmt.Errorf("status %#02x: %w", status, miderr.ErrValueOutOfRange)
}
