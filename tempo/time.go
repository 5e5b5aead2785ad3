package tempo

import (
	"github.com/midisuite/midifile/message"
	"github.com/midisuite/midifile/track"
)

// AbsEvent pairs a message with its absolute position in ticks.
type AbsEvent struct {
	Tick    uint64
	Message message.Message
}

// ToAbsTime converts a delta-timed event list to absolute tick positions.
func ToAbsTime(events []track.Event) []AbsEvent {
	out := make([]AbsEvent, 0, len(events))
	var now uint64
	for _, ev := range events {
		now += uint64(ev.Delta)
		out = append(out, AbsEvent{Tick: now, Message: ev.Message})
	}
	return out
}

// ToRelTime converts absolutely timed events back to delta times. The input
// must be ordered by tick.
func ToRelTime(events []AbsEvent) []track.Event {
	out := make([]track.Event, 0, len(events))
	var now uint64
	for _, ev := range events {
		out = append(out, track.Event{Delta: uint32(ev.Tick - now), Message: ev.Message})
		now = ev.Tick
	}
	return out
}

// BPMToTempo converts beats per minute to microseconds per quarter note.
func BPMToTempo(bpm float64) uint32 {
	return uint32(60e6 / bpm)
}

// TempoToBPM converts microseconds per quarter note to beats per minute.
func TempoToBPM(tempo uint32) float64 {
	return 60e6 / float64(tempo)
}

// TickToSeconds converts a tick count to seconds at a fixed tempo.
func TickToSeconds(ticks uint64, ticksPerQuarter uint16, tempo uint32) float64 {
	return float64(ticks) * secondsPerTick(tempo, ticksPerQuarter)
}

// SecondsToTicks converts a duration in seconds to ticks at a fixed tempo.
func SecondsToTicks(seconds float64, ticksPerQuarter uint16, tempo uint32) uint64 {
	return uint64(seconds / secondsPerTick(tempo, ticksPerQuarter))
}
