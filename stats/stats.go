// Package stats produces summaries of decoded MIDI files.
package stats

import (
	"sort"

	"github.com/midisuite/midifile/message"
	"github.com/midisuite/midifile/model"
	"github.com/midisuite/midifile/smf"
	"github.com/midisuite/midifile/tempo"
	"github.com/midisuite/midifile/util"
)

// Summarize walks every track of f and collects the counts, channels and
// timing figures of a file report.
func Summarize(f *smf.File, path string) (model.FileSummary, error) {
	sum := model.FileSummary{
		Path:          path,
		Format:        f.Format.String(),
		Division:      f.Division.String(),
		NumTracks:     len(f.Tracks),
		InitialBPM:    tempo.TempoToBPM(message.DefaultTempo),
		Warnings:      f.Warnings,
		SkippedChunks: f.SkippedChunks,
	}

	channels := make(map[uint8]bool)
	sawTempo := false
	for _, t := range f.Tracks {
		ts := model.TrackSummary{Name: t.Name(), NumEvents: len(t.Events)}
		var absTicks uint64
		for _, ev := range t.Events {
			absTicks += uint64(ev.Delta)
			switch m := ev.Message.(type) {
			case message.NoteOn:
				channels[m.Channel] = true
				if m.Velocity > 0 {
					ts.NumNotes++
				}
			case message.NoteOff:
				channels[m.Channel] = true
			case message.ControlChange:
				channels[m.Channel] = true
			case message.ProgramChange:
				channels[m.Channel] = true
			case message.PitchBend:
				channels[m.Channel] = true
			case message.MetaSetTempo:
				if !sawTempo {
					sum.InitialBPM = tempo.TempoToBPM(uint32(m))
					sawTempo = true
				}
			}
		}
		ts.Ticks = absTicks
		sum.NumEvents += ts.NumEvents
		sum.NumNotes += ts.NumNotes
		sum.Tracks = append(sum.Tracks, ts)
	}

	sum.Channels = util.GetKeys(channels)
	sort.Slice(sum.Channels, func(i, j int) bool {
		return sum.Channels[i] < sum.Channels[j]
	})

	if f.Format != smf.FormatMultiAsync {
		secs, err := tempo.Duration(f)
		if err != nil {
			return sum, err
		}
		sum.Seconds = secs
	}
	return sum, nil
}
