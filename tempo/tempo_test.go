package tempo

import (
	"errors"
	"math"
	"testing"

	"github.com/midisuite/midifile/message"
	"github.com/midisuite/midifile/miderr"
	"github.com/midisuite/midifile/smf"
	"github.com/midisuite/midifile/track"
	"github.com/stretchr/testify/assert"
)

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func newMetricFile(t *testing.T, tpq uint16) *smf.File {
	t.Helper()
	d, err := smf.MetricDivision(tpq)
	if err != nil {
		t.Fatal(err)
	}
	f := smf.New(smf.FormatMultiSync)
	f.Division = d
	return f
}

func TestDefaultTempoConversion(t *testing.T) {
	// at 500000 us per quarter and 96 ticks per quarter, 192 ticks is
	// exactly two quarter notes, one second
	f := newMetricFile(t, 96)
	tr := &track.Track{}
	tr.Add(0, message.MetaSetTempo(500000))
	tr.Close(192)
	f.Tracks = append(f.Tracks, tr)

	m, err := New(f)

	assert := assert.New(t)
	assert.Nil(err)
	assert.Equal(almostEqual(m.TicksToSeconds(192), 1.0), true)
	assert.Equal(almostEqual(m.TicksToSeconds(96), 0.5), true)
	assert.Equal(m.TicksToSeconds(0), 0.0)
}

func TestTempoChangeMidFile(t *testing.T) {
	f := newMetricFile(t, 480)
	tr := &track.Track{}
	// one quarter at 120 bpm, then double speed
	tr.Add(480, message.MetaSetTempo(250000))
	tr.Close(480)
	f.Tracks = append(f.Tracks, tr)

	m, err := New(f)

	assert := assert.New(t)
	assert.Nil(err)
	assert.Equal(almostEqual(m.TicksToSeconds(480), 0.5), true)
	assert.Equal(almostEqual(m.TicksToSeconds(960), 0.75), true)
}

func TestEmptyTempoTrackUsesDefault(t *testing.T) {
	f := newMetricFile(t, 480)
	tr := &track.Track{}
	tr.Close(0)
	f.Tracks = append(f.Tracks, tr)

	m, err := New(f)

	assert := assert.New(t)
	assert.Nil(err)
	assert.Equal(almostEqual(m.TicksToSeconds(480), 0.5), true)
}

func TestSMPTEDivisionIgnoresTempo(t *testing.T) {
	d, err := smf.SMPTEDivision(25, 40)
	if err != nil {
		t.Fatal(err)
	}
	f := smf.New(smf.FormatMultiSync)
	f.Division = d
	tr := &track.Track{}
	// tempo events are meaningless under SMPTE timing
	tr.Add(0, message.MetaSetTempo(250000))
	tr.Close(0)
	f.Tracks = append(f.Tracks, tr)

	m, err := New(f)

	assert := assert.New(t)
	assert.Nil(err)
	// 25 fps x 40 ticks per frame is 1000 ticks per second
	assert.Equal(almostEqual(m.TicksToSeconds(1000), 1.0), true)
}

func TestInvalidDivision(t *testing.T) {
	f := smf.New(smf.FormatMultiSync)
	f.Division = 0

	if _, err := New(f); !errors.Is(err, miderr.ErrNoDivisionInfo) {
		t.Errorf("expected ErrNoDivisionInfo, got %v", err)
	}
	if _, err := Duration(f); !errors.Is(err, miderr.ErrNoDivisionInfo) {
		t.Errorf("expected ErrNoDivisionInfo, got %v", err)
	}
}

func TestNewForTrackSelectsTempoTrack(t *testing.T) {
	f := newMetricFile(t, 480)
	silent := &track.Track{}
	silent.Close(0)
	tempoTrack := &track.Track{}
	tempoTrack.Add(0, message.MetaSetTempo(250000))
	tempoTrack.Close(0)
	f.Tracks = append(f.Tracks, silent, tempoTrack)

	m, err := NewForTrack(f, 1)

	assert := assert.New(t)
	assert.Nil(err)
	assert.Equal(almostEqual(m.TicksToSeconds(480), 0.25), true)
}

func TestDuration(t *testing.T) {
	f := newMetricFile(t, 96)
	tempoTrack := &track.Track{}
	tempoTrack.Add(0, message.MetaSetTempo(500000))
	tempoTrack.Close(0)
	notes := &track.Track{}
	notes.Add(0, message.NoteOn{Channel: 0, Note: 60, Velocity: 100})
	notes.Add(192, message.NoteOn{Channel: 0, Note: 60, Velocity: 0})
	notes.Close(0)
	f.Tracks = append(f.Tracks, tempoTrack, notes)

	secs, err := Duration(f)

	assert := assert.New(t)
	assert.Nil(err)
	assert.Equal(almostEqual(secs, 1.0), true)
}

func TestToAbsAndRelTime(t *testing.T) {
	rel := []track.Event{
		{Delta: 0, Message: message.NoteOn{Channel: 0, Note: 60, Velocity: 1}},
		{Delta: 10, Message: message.NoteOn{Channel: 0, Note: 62, Velocity: 1}},
		{Delta: 5, Message: message.NoteOn{Channel: 0, Note: 64, Velocity: 1}},
	}

	abs := ToAbsTime(rel)

	assert := assert.New(t)
	assert.Equal(abs[0].Tick, uint64(0))
	assert.Equal(abs[1].Tick, uint64(10))
	assert.Equal(abs[2].Tick, uint64(15))
	assert.Equal(ToRelTime(abs), rel)
}

func TestBPMConversions(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(BPMToTempo(120), uint32(500000))
	assert.Equal(almostEqual(TempoToBPM(500000), 120), true)
	assert.Equal(BPMToTempo(TempoToBPM(250000)), uint32(250000))
}

func TestFixedTempoTickConversions(t *testing.T) {
	assert := assert.New(t)
	assert.Equal(almostEqual(TickToSeconds(480, 480, 500000), 0.5), true)
	assert.Equal(SecondsToTicks(0.5, 480, 500000), uint64(480))
}
