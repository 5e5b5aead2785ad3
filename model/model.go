package model

// TrackSummary describes one track of an inspected file.
type TrackSummary struct {
	Name      string `json:"name,omitempty"`
	NumEvents int    `json:"num_events"`
	NumNotes  int    `json:"num_notes"`
	Ticks     uint64 `json:"ticks"`
}

// FileSummary is the report produced for one standard MIDI file.
type FileSummary struct {
	Path          string         `json:"path,omitempty"`
	Format        string         `json:"format"`
	Division      string         `json:"division"`
	NumTracks     int            `json:"num_tracks"`
	NumEvents     int            `json:"num_events"`
	NumNotes      int            `json:"num_notes"`
	Channels      []uint8        `json:"channels"`
	InitialBPM    float64        `json:"initial_bpm"`
	Seconds       float64        `json:"seconds"`
	Tracks        []TrackSummary `json:"tracks"`
	Warnings      []string       `json:"warnings,omitempty"`
	SkippedChunks int            `json:"skipped_chunks,omitempty"`
}

type ErrorResponse struct {
	Error string `json:"detail"`
}
