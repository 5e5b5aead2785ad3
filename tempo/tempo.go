// Package tempo converts between MIDI ticks and wall-clock time.
package tempo

import (
	"fmt"

	"github.com/midisuite/midifile/message"
	"github.com/midisuite/midifile/miderr"
	"github.com/midisuite/midifile/smf"
)

// segment is a span of constant tempo starting at tick. seconds is the
// elapsed time at tick; secPerTick applies from tick until the next segment.
type segment struct {
	tick       uint64
	seconds    float64
	secPerTick float64
}

// Map translates absolute ticks to seconds for one file. Metric divisions
// follow the set-tempo events of a chosen tempo track; SMPTE divisions run
// at a fixed rate and ignore tempo entirely.
type Map struct {
	segments []segment
}

// New builds a map from the set-tempo events of f's tempo track
// (f.TempoTrack, track 0 unless chosen otherwise). Before the first
// set-tempo event the default of 500000 microseconds per quarter note
// applies.
func New(f *smf.File) (*Map, error) {
	return NewForTrack(f, f.TempoTrack)
}

// NewForTrack builds a map from the set-tempo events of a specific track.
func NewForTrack(f *smf.File, tempoTrack int) (*Map, error) {
	if !f.Division.Valid() {
		return nil, fmt.Errorf("cannot build tempo map: %w", miderr.ErrNoDivisionInfo)
	}

	if f.Division.IsSMPTE() {
		fps, tpf := f.Division.SMPTE()
		rate := 1.0 / (float64(fps) * float64(tpf))
		return &Map{segments: []segment{{secPerTick: rate}}}, nil
	}

	tpq := f.Division.TicksPerQuarterNote()
	m := &Map{segments: []segment{
		{secPerTick: secondsPerTick(message.DefaultTempo, tpq)},
	}}
	if tempoTrack < 0 || tempoTrack >= len(f.Tracks) {
		return m, nil
	}

	var now uint64
	for _, ev := range f.Tracks[tempoTrack].Events {
		now += uint64(ev.Delta)
		st, ok := ev.Message.(message.MetaSetTempo)
		if !ok {
			continue
		}
		m.addSegment(now, secondsPerTick(uint32(st), tpq))
	}
	return m, nil
}

func (m *Map) addSegment(tick uint64, secPerTick float64) {
	last := m.segments[len(m.segments)-1]
	if tick == last.tick {
		m.segments[len(m.segments)-1].secPerTick = secPerTick
		return
	}
	m.segments = append(m.segments, segment{
		tick:       tick,
		seconds:    last.seconds + float64(tick-last.tick)*last.secPerTick,
		secPerTick: secPerTick,
	})
}

// TicksToSeconds returns the time at which the given absolute tick occurs.
func (m *Map) TicksToSeconds(tick uint64) float64 {
	s := m.segments[0]
	for _, next := range m.segments[1:] {
		if next.tick > tick {
			break
		}
		s = next
	}
	return s.seconds + float64(tick-s.tick)*s.secPerTick
}

// Duration returns the playing time of f in seconds, honouring every
// set-tempo event in every track.
func Duration(f *smf.File) (float64, error) {
	if !f.Division.Valid() {
		return 0, fmt.Errorf("cannot compute duration: %w", miderr.ErrNoDivisionInfo)
	}

	merged, err := f.MergeTracks()
	if err != nil {
		return 0, err
	}

	if f.Division.IsSMPTE() {
		fps, tpf := f.Division.SMPTE()
		rate := 1.0 / (float64(fps) * float64(tpf))
		var ticks uint64
		for _, ev := range merged.Events {
			ticks += uint64(ev.Delta)
		}
		return float64(ticks) * rate, nil
	}

	tpq := f.Division.TicksPerQuarterNote()
	rate := secondsPerTick(message.DefaultTempo, tpq)
	var total float64
	for _, ev := range merged.Events {
		total += float64(ev.Delta) * rate
		if st, ok := ev.Message.(message.MetaSetTempo); ok {
			rate = secondsPerTick(uint32(st), tpq)
		}
	}
	return total, nil
}

func secondsPerTick(tempo uint32, tpq uint16) float64 {
	return float64(tempo) / 1e6 / float64(tpq)
}
