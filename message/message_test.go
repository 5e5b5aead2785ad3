package message

import (
	"errors"
	"fmt"
	"testing"

	"github.com/midisuite/midifile/miderr"
	"github.com/stretchr/testify/assert"
)

func TestChannelMessageRoundTrip(t *testing.T) {
	cases := []struct {
		msg   Message
		bytes []byte
	}{
		{NoteOn{Channel: 0, Note: 60, Velocity: 100}, []byte{0x90, 60, 100}},
		{NoteOff{Channel: 3, Note: 64, Velocity: 0}, []byte{0x83, 64, 0}},
		{PolyPressure{Channel: 1, Note: 60, Pressure: 50}, []byte{0xA1, 60, 50}},
		{ControlChange{Channel: 2, Controller: 7, Value: 127}, []byte{0xB2, 7, 127}},
		{ProgramChange{Channel: 9, Program: 40}, []byte{0xC9, 40}},
		{ChannelPressure{Channel: 15, Pressure: 64}, []byte{0xDF, 64}},
		{PitchBend{Channel: 0, Value: PitchBendCenter}, []byte{0xE0, 0x00, 0x40}},
		{PitchBend{Channel: 0, Value: 0x3FFF}, []byte{0xE0, 0x7F, 0x7F}},
	}

	for _, c := range cases {
		t.Run(fmt.Sprintf("%v", c.msg), func(t *testing.T) {
			assert := assert.New(t)

			enc, rs, err := Encode(nil, c.msg, NoRunningStatus)
			assert.Nil(err)
			assert.Equal(enc, c.bytes)
			assert.Equal(rs, c.msg.Status())

			dec, n, rs, err := Decode(c.bytes, NoRunningStatus)
			assert.Nil(err)
			assert.Equal(dec, c.msg)
			assert.Equal(n, len(c.bytes))
			assert.Equal(rs, c.msg.Status())
		})
	}
}

func TestEncodeOmitsRepeatedChannelStatus(t *testing.T) {
	assert := assert.New(t)

	first := NoteOn{Channel: 0, Note: 60, Velocity: 100}
	second := NoteOn{Channel: 0, Note: 64, Velocity: 100}

	out, rs, err := Encode(nil, first, NoRunningStatus)
	assert.Nil(err)
	out, rs, err = Encode(out, second, rs)
	assert.Nil(err)
	assert.Equal(rs, byte(0x90))
	assert.Equal(out, []byte{0x90, 60, 100, 64, 100})
}

func TestEncodeKeepsStatusAcrossChannels(t *testing.T) {
	assert := assert.New(t)

	out, rs, err := Encode(nil, NoteOn{Channel: 0, Note: 60, Velocity: 1}, NoRunningStatus)
	assert.Nil(err)
	out, _, err = Encode(out, NoteOn{Channel: 1, Note: 60, Velocity: 1}, rs)
	assert.Nil(err)

	// a different channel is a different status byte, so no omission
	assert.Equal(out, []byte{0x90, 60, 1, 0x91, 60, 1})
}

func TestDecodeRunningStatus(t *testing.T) {
	assert := assert.New(t)

	m, n, rs, err := Decode([]byte{64, 100}, 0x90)
	assert.Nil(err)
	assert.Equal(m, Message(NoteOn{Channel: 0, Note: 64, Velocity: 100}))
	assert.Equal(n, 2)
	assert.Equal(rs, byte(0x90))
}

func TestDecodeDataByteWithoutStatus(t *testing.T) {
	_, _, _, err := Decode([]byte{64, 100}, NoRunningStatus)
	if !errors.Is(err, miderr.ErrInvalidRunningStatus) {
		t.Errorf("expected ErrInvalidRunningStatus, got %v", err)
	}
}

func TestMetaClearsRunningStatus(t *testing.T) {
	assert := assert.New(t)

	// set tempo 500000
	m, n, rs, err := Decode([]byte{0xFF, 0x51, 0x03, 0x07, 0xA1, 0x20}, 0x90)
	assert.Nil(err)
	assert.Equal(m, Message(MetaSetTempo(500000)))
	assert.Equal(n, 6)
	assert.Equal(rs, NoRunningStatus)
}

func TestSysExRoundTrip(t *testing.T) {
	assert := assert.New(t)

	raw := []byte{0xF0, 0x7E, 0x00, 0x09, 0x01, 0xF7}
	m, n, rs, err := Decode(raw, NoRunningStatus)
	assert.Nil(err)
	assert.Equal(n, len(raw))
	assert.Equal(rs, NoRunningStatus)

	sx, ok := m.(SysEx)
	if !ok {
		t.Fatalf("expected SysEx, got %T", m)
	}
	// the terminating 0xF7 is consumed but not part of the payload
	assert.Equal(sx.Data, []byte{0x7E, 0x00, 0x09, 0x01})

	enc, _, err := Encode(nil, m, NoRunningStatus)
	assert.Nil(err)
	assert.Equal(enc, raw)
}

func TestSysExWithoutTerminator(t *testing.T) {
	_, _, _, err := Decode([]byte{0xF0, 0x7E, 0x00}, NoRunningStatus)
	if !errors.Is(err, miderr.ErrTruncatedTrack) {
		t.Errorf("expected ErrTruncatedTrack, got %v", err)
	}
}

func TestSystemCommonRoundTrip(t *testing.T) {
	cases := []struct {
		msg   Message
		bytes []byte
	}{
		{MTCQuarterFrame{MessageType: 3, Values: 0x0A}, []byte{0xF1, 0x3A}},
		{SongPositionPointer{Position: 0x2000}, []byte{0xF2, 0x00, 0x40}},
		{SongSelect{Song: 5}, []byte{0xF3, 5}},
		{TuneRequest{}, []byte{0xF6}},
		{RealtimeClock, []byte{0xF8}},
		{RealtimeStart, []byte{0xFA}},
	}

	for _, c := range cases {
		t.Run(fmt.Sprintf("% X", c.bytes), func(t *testing.T) {
			assert := assert.New(t)

			enc, rs, err := Encode(nil, c.msg, 0x90)
			assert.Nil(err)
			assert.Equal(enc, c.bytes)
			assert.Equal(rs, NoRunningStatus)

			dec, n, _, err := Decode(c.bytes, NoRunningStatus)
			assert.Nil(err)
			assert.Equal(dec, c.msg)
			assert.Equal(n, len(c.bytes))
		})
	}
}

func TestMetaRoundTrip(t *testing.T) {
	cases := []struct {
		msg   Message
		bytes []byte
	}{
		{MetaSequenceNumber(2), []byte{0xFF, 0x00, 0x02, 0x00, 0x02}},
		{MetaText{Kind: MetaTypeTrackName, Text: "piano"},
			[]byte{0xFF, 0x03, 0x05, 'p', 'i', 'a', 'n', 'o'}},
		{MetaChannelPrefix(9), []byte{0xFF, 0x20, 0x01, 0x09}},
		{MetaPortPrefix(1), []byte{0xFF, 0x21, 0x01, 0x01}},
		{MetaEndOfTrack{}, []byte{0xFF, 0x2F, 0x00}},
		{MetaSetTempo(500000), []byte{0xFF, 0x51, 0x03, 0x07, 0xA1, 0x20}},
		{MetaSMPTEOffset{Hours: 1, Minutes: 2, Seconds: 3, Frames: 4, SubFrames: 5},
			[]byte{0xFF, 0x54, 0x05, 1, 2, 3, 4, 5}},
		{MetaTimeSignature{Numerator: 6, Denominator: 3, ClocksPerClick: 24, ThirtySecondsPerQuarter: 8},
			[]byte{0xFF, 0x58, 0x04, 6, 3, 24, 8}},
		{MetaKeySignature{SharpsFlats: -2, Minor: true}, []byte{0xFF, 0x59, 0x02, 0xFE, 0x01}},
		{MetaSequencerSpecific{Data: []byte{0x00, 0x42}}, []byte{0xFF, 0x7F, 0x02, 0x00, 0x42}},
	}

	for _, c := range cases {
		t.Run(fmt.Sprintf("%v", c.msg), func(t *testing.T) {
			assert := assert.New(t)

			enc, _, err := Encode(nil, c.msg, NoRunningStatus)
			assert.Nil(err)
			assert.Equal(enc, c.bytes)

			dec, n, _, err := Decode(c.bytes, NoRunningStatus)
			assert.Nil(err)
			assert.Equal(dec, c.msg)
			assert.Equal(n, len(c.bytes))
		})
	}
}

func TestUnknownMetaIsPreserved(t *testing.T) {
	assert := assert.New(t)

	raw := []byte{0xFF, 0x60, 0x02, 0xAB, 0xCD}
	m, n, _, err := Decode(raw, NoRunningStatus)
	assert.Nil(err)
	assert.Equal(n, len(raw))

	u, ok := m.(MetaUnknown)
	if !ok {
		t.Fatalf("expected MetaUnknown, got %T", m)
	}
	assert.Equal(u.Type, byte(0x60))
	assert.Equal(u.Data, []byte{0xAB, 0xCD})

	enc, _, err := Encode(nil, m, NoRunningStatus)
	assert.Nil(err)
	assert.Equal(enc, raw)
}

func TestEncodeRejectsOutOfRangeDataBytes(t *testing.T) {
	bad := []Message{
		NoteOn{Channel: 0, Note: 128, Velocity: 0},
		ControlChange{Channel: 0, Controller: 0x80, Value: 0},
		PitchBend{Channel: 0, Value: 0x4000},
		SongSelect{Song: 0xFF},
	}

	for _, m := range bad {
		_, _, err := Encode(nil, m, NoRunningStatus)
		if !errors.Is(err, miderr.ErrValueOutOfRange) {
			t.Errorf("%T: expected ErrValueOutOfRange, got %v", m, err)
		}
	}
}

func TestDecodeTruncatedChannelMessage(t *testing.T) {
	for _, data := range [][]byte{{0x90}, {0x90, 60}, {0xC0}} {
		_, _, _, err := Decode(data, NoRunningStatus)
		if !errors.Is(err, miderr.ErrTruncatedTrack) {
			t.Errorf("Decode(% X): expected ErrTruncatedTrack, got %v", data, err)
		}
	}
}
