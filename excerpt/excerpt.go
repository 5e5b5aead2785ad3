// Package excerpt cuts short previews out of MIDI files.
package excerpt

import (
	"github.com/midisuite/midifile/message"
	"github.com/midisuite/midifile/smf"
	"github.com/midisuite/midifile/track"
	"github.com/midisuite/midifile/util"
)

// Create returns a new file holding at most maxNotes note events per track,
// starting at ticksOffset. Non-note events before the offset are kept with
// their deltas collapsed so the excerpt still carries tempo, program and
// controller state.
func Create(f *smf.File, ticksOffset uint64, maxNotes int) *smf.File {
	res := smf.New(f.Format)
	res.Division = f.Division

	for _, t := range f.Tracks {
		newTrack := &track.Track{}
		var absTicks uint64
		var numNotes int
	TrackEventLoop:
		for _, evt := range t.Events {
			absTicks += uint64(evt.Delta)
			switch evt.Message.(type) {
			case message.NoteOn, message.NoteOff:
				if absTicks >= ticksOffset {
					newTrack.Add(evt.Delta, evt.Message)
					numNotes++
					if numNotes >= maxNotes {
						newTrack.Close(0)
						break TrackEventLoop
					}
				}
			case message.MetaEndOfTrack:
				newTrack.Close(evt.Delta)
				break TrackEventLoop
			default:
				newTrack.Add(util.Min(evt.Delta, 1), evt.Message)
			}
		}
		if !newTrack.IsClosed() {
			newTrack.Close(0)
		}
		res.Tracks = append(res.Tracks, newTrack)
	}

	return res
}
