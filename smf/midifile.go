// Package smf reads and writes Standard MIDI Files: the MThd/MTrk chunk
// container around the track event streams decoded by package track.
package smf

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"

	"github.com/midisuite/midifile/miderr"
	"github.com/midisuite/midifile/track"
)

// File is a decoded Standard MIDI File.
type File struct {
	Format   Format
	Division Division
	Tracks   []*track.Track

	// SkippedChunks counts unknown chunk types dropped while reading, the
	// one place the codec is deliberately lossy.
	SkippedChunks int

	// TempoTrack is the index of the track whose set-tempo events drive
	// tick-to-time conversion. Track 0 unless overridden when reading.
	TempoTrack int

	// Warnings holds the tolerances taken in lenient mode. Empty after a
	// strict read.
	Warnings []string
}

// Options control reading. The zero value is strict mode with tempo
// track 0.
type Options struct {
	// Lenient downgrades track-count mismatches and truncated tracks from
	// errors to repairs recorded in File.Warnings.
	Lenient bool

	// TempoTrack selects the track whose set-tempo events drive timing.
	TempoTrack int
}

// Option mutates Options.
type Option func(*Options)

// WithLenient enables lenient reading.
func WithLenient() Option {
	return func(o *Options) { o.Lenient = true }
}

// WithTempoTrack selects track i as the tempo track.
func WithTempoTrack(i int) Option {
	return func(o *Options) { o.TempoTrack = i }
}

// New returns an empty file with the given format and a default metric
// division.
func New(format Format) *File {
	return &File{Format: format, Division: DefaultDivision}
}

// ReadBytes decodes an SMF byte buffer.
func ReadBytes(data []byte, opts ...Option) (*File, error) {
	var o Options
	for _, opt := range opts {
		opt(&o)
	}
	strict := !o.Lenient

	c, offset, err := splitChunk(data, 0)
	if err != nil {
		return nil, err
	}
	h, err := decodeHeader(c, strict)
	if err != nil {
		return nil, err
	}

	f := &File{Format: h.Format, Division: h.Division, TempoTrack: o.TempoTrack}

	// Split the remaining chunks first: track payloads are independent byte
	// regions, so they decode in parallel afterwards.
	var payloads [][]byte
	for offset < len(data) {
		c, offset, err = splitChunk(data, offset)
		if err != nil {
			return nil, err
		}
		if c.isTrack() {
			payloads = append(payloads, c.Data)
			continue
		}
		// Unknown chunk types are skipped by declared length for forward
		// compatibility; they are not retained.
		f.SkippedChunks++
	}

	if len(payloads) != int(h.NumTracks) {
		if strict {
			return nil, miderr.At("read file", offset,
				fmt.Errorf("header declares %d tracks, found %d: %w",
					h.NumTracks, len(payloads), miderr.ErrTrackCountMismatch))
		}
		f.warnf("header declares %d tracks, found %d", h.NumTracks, len(payloads))
	}

	f.Tracks = make([]*track.Track, len(payloads))
	errs := make([]error, len(payloads))
	repairs := make([][]string, len(payloads))
	var wg sync.WaitGroup
	for i, payload := range payloads {
		wg.Add(1)
		go func(i int, payload []byte) {
			defer wg.Done()
			t, warnings, err := track.Decode(payload, strict)
			if err != nil {
				errs[i] = miderr.AtTrack("read track", i, 0, err)
				return
			}
			f.Tracks[i] = t
			repairs[i] = warnings
		}(i, payload)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}
	for i, warnings := range repairs {
		for _, w := range warnings {
			f.warnf("track %d: %s", i, w)
		}
	}

	if err := f.validate(); err != nil {
		if strict {
			return nil, err
		}
		f.warnf("%v", err)
	}
	return f, nil
}

// ReadFile decodes the SMF file at path.
func ReadFile(path string, opts ...Option) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	f, err := ReadBytes(data, opts...)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return f, nil
}

// Bytes encodes the file. Tracks serialize to independent buffers
// concurrently and concatenate in order.
func (f *File) Bytes() ([]byte, error) {
	if err := f.validate(); err != nil {
		return nil, err
	}
	if len(f.Tracks) > 0xFFFF {
		return nil, fmt.Errorf("%d tracks exceed the uint16 track count: %w",
			len(f.Tracks), miderr.ErrValueOutOfRange)
	}

	h := header{Format: f.Format, NumTracks: uint16(len(f.Tracks)), Division: f.Division}
	out := h.append(nil)

	bufs := make([][]byte, len(f.Tracks))
	errs := make([]error, len(f.Tracks))
	var wg sync.WaitGroup
	for i, t := range f.Tracks {
		wg.Add(1)
		go func(i int, t *track.Track) {
			defer wg.Done()
			payload, err := t.Bytes()
			if err != nil {
				errs[i] = miderr.AtTrack("write track", i, 0, err)
				return
			}
			bufs[i] = payload
		}(i, t)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	for _, payload := range bufs {
		out = appendChunk(out, trackMagic, payload)
	}
	return out, nil
}

// WriteFile encodes the file and writes it to path atomically: the bytes
// land in a uniquely named temp file first and are renamed into place.
func (f *File) WriteFile(path string) error {
	data, err := f.Bytes()
	if err != nil {
		return err
	}
	tmp := filepath.Join(filepath.Dir(path),
		"."+filepath.Base(path)+"."+uuid.New().String()+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming into %s: %w", path, err)
	}
	return nil
}

// validate enforces the construction invariants shared by read and write.
func (f *File) validate() error {
	if f.Format > FormatMultiAsync {
		return fmt.Errorf("format %d: %w", uint16(f.Format), miderr.ErrUnsupportedFormat)
	}
	if f.Format == FormatSingle && len(f.Tracks) != 1 {
		return fmt.Errorf("single track format with %d tracks: %w",
			len(f.Tracks), miderr.ErrUnsupportedFormat)
	}
	return nil
}

func (f *File) warnf(format string, args ...any) {
	f.Warnings = append(f.Warnings, fmt.Sprintf(format, args...))
}
