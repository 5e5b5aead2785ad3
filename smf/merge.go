package smf

import (
	"fmt"
	"sort"

	"github.com/midisuite/midifile/message"
	"github.com/midisuite/midifile/miderr"
	"github.com/midisuite/midifile/track"
)

// MergeTracks returns a single track holding every event from every track
// in playback order, with deltas recomputed as if they had been recorded in
// one track. Tracks of an asynchronous (format 2) file are independent
// patterns and cannot be merged.
func (f *File) MergeTracks() (*track.Track, error) {
	if f.Format == FormatMultiAsync {
		return nil, fmt.Errorf("cannot merge tracks of an asynchronous file: %w",
			miderr.ErrUnsupportedFormat)
	}

	type absEvent struct {
		tick uint64
		msg  message.Message
	}

	var all []absEvent
	for _, t := range f.Tracks {
		var now uint64
		for _, ev := range t.Events {
			now += uint64(ev.Delta)
			all = append(all, absEvent{tick: now, msg: ev.Message})
		}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].tick < all[j].tick })

	// Intermediate end-of-track events would terminate the merged stream
	// early; drop them, carrying their time forward, and close once at the
	// end the way a single recorded track would be.
	merged := &track.Track{}
	var now, lastTick uint64
	for _, ev := range all {
		if _, ok := ev.msg.(message.MetaEndOfTrack); ok {
			lastTick = ev.tick
			continue
		}
		merged.Add(uint32(ev.tick-now), ev.msg)
		now = ev.tick
		lastTick = ev.tick
	}
	merged.Close(uint32(lastTick - now))
	return merged, nil
}
