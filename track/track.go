// Package track implements the SMF track event stream: a sequence of
// variable-length delta times and MIDI messages sharing running-status
// state, terminated by an end-of-track meta event.
package track

import (
	"fmt"

	"github.com/midisuite/midifile/message"
	"github.com/midisuite/midifile/miderr"
	"github.com/midisuite/midifile/vlq"
)

// Event is one entry in a track: the tick delta since the previous event
// and the message itself.
type Event struct {
	Delta   uint32
	Message message.Message
}

func (e Event) String() string {
	return fmt.Sprintf("+%d %v", e.Delta, e.Message)
}

// Track is an ordered sequence of events. A well-formed track's last event
// is the end-of-track meta event and no earlier event is one.
type Track struct {
	Events []Event
}

// Add appends an event with the given delta.
func (t *Track) Add(delta uint32, m message.Message) {
	t.Events = append(t.Events, Event{Delta: delta, Message: m})
}

// IsClosed reports whether the track already ends with end of track.
func (t *Track) IsClosed() bool {
	if len(t.Events) == 0 {
		return false
	}
	_, ok := t.Events[len(t.Events)-1].Message.(message.MetaEndOfTrack)
	return ok
}

// Close appends an end-of-track event unless one is already last.
func (t *Track) Close(delta uint32) {
	if !t.IsClosed() {
		t.Add(delta, message.MetaEndOfTrack{})
	}
}

// Validate checks the end-of-track invariant: exactly one, in final
// position.
func (t *Track) Validate() error {
	for i, ev := range t.Events {
		if _, ok := ev.Message.(message.MetaEndOfTrack); ok && i != len(t.Events)-1 {
			return fmt.Errorf("end of track at event %d of %d: %w",
				i, len(t.Events), miderr.ErrTruncatedTrack)
		}
	}
	if !t.IsClosed() {
		return fmt.Errorf("missing end of track: %w", miderr.ErrTruncatedTrack)
	}
	return nil
}

// Decode parses a complete track payload (the bytes inside an MTrk chunk).
// In strict mode the payload must end exactly at an end-of-track event.
// In lenient mode a payload that runs out early keeps every fully decoded
// event and is closed with a repaired end of track; trailing bytes after
// end of track are dropped. Each lenient repair is described in the
// returned warnings, which are nil after a clean decode.
func Decode(payload []byte, strict bool) (*Track, []string, error) {
	t := &Track{}
	var warnings []string
	runningStatus := message.NoRunningStatus
	offset := 0

	for offset < len(payload) {
		delta, n, err := vlq.Decode(payload[offset:])
		if err != nil {
			if !strict {
				warnings = append(warnings,
					fmt.Sprintf("dropped %d undecodable bytes at offset %d: %v",
						len(payload)-offset, offset, err))
				break
			}
			return nil, nil, miderr.At("decode delta time", offset, err)
		}

		m, consumed, nextStatus, err := message.Decode(payload[offset+n:], runningStatus)
		if err != nil {
			if !strict {
				warnings = append(warnings,
					fmt.Sprintf("dropped %d undecodable bytes at offset %d: %v",
						len(payload)-offset, offset, err))
				break
			}
			return nil, nil, miderr.At("decode message", offset+n, err)
		}

		t.Add(delta, m)
		runningStatus = nextStatus
		offset += n + consumed

		if _, ok := m.(message.MetaEndOfTrack); ok {
			if offset != len(payload) {
				if strict {
					return nil, nil, miderr.At("decode track", offset,
						fmt.Errorf("%d bytes after end of track: %w",
							len(payload)-offset, miderr.ErrTruncatedTrack))
				}
				warnings = append(warnings,
					fmt.Sprintf("dropped %d bytes after end of track", len(payload)-offset))
			}
			return t, warnings, nil
		}
	}

	// The payload ran out without an end-of-track event.
	if strict {
		return nil, nil, miderr.At("decode track", offset,
			fmt.Errorf("stream ended without end of track: %w", miderr.ErrTruncatedTrack))
	}
	t.Close(0)
	warnings = append(warnings, "missing end of track repaired")
	return t, warnings, nil
}

// AppendTo serializes the track's event stream to dst using running-status
// compression. A missing end of track is appended rather than reported, so
// the written stream is always well formed.
func (t *Track) AppendTo(dst []byte) ([]byte, error) {
	runningStatus := message.NoRunningStatus
	closed := false

	for i, ev := range t.Events {
		if ev.Delta > vlq.Max {
			return nil, miderr.At("encode delta time", i,
				fmt.Errorf("delta %d: %w", ev.Delta, miderr.ErrValueOutOfRange))
		}
		dst = vlq.Append(dst, ev.Delta)
		var err error
		dst, runningStatus, err = message.Encode(dst, ev.Message, runningStatus)
		if err != nil {
			return nil, miderr.At("encode message", i, err)
		}
		if _, ok := ev.Message.(message.MetaEndOfTrack); ok {
			closed = true
			break
		}
	}
	if !closed {
		dst = vlq.Append(dst, 0)
		var err error
		dst, _, err = message.Encode(dst, message.MetaEndOfTrack{}, runningStatus)
		if err != nil {
			return nil, err
		}
	}
	return dst, nil
}

// Bytes returns the serialized event stream.
func (t *Track) Bytes() ([]byte, error) {
	return t.AppendTo(nil)
}

// Name returns the text of the first track name meta event, or "".
func (t *Track) Name() string {
	for _, ev := range t.Events {
		if m, ok := ev.Message.(message.MetaText); ok && m.Kind == message.MetaTypeTrackName {
			return m.Text
		}
	}
	return ""
}
