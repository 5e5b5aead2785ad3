// Package miderr defines the error taxonomy shared by the SMF codec
// packages. Every parse failure wraps one of the sentinel errors below so
// callers can classify failures with errors.Is regardless of where in the
// file they occurred.
package miderr

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedVLQ means a variable-length quantity ran past 4 bytes
	// without a terminating byte.
	ErrMalformedVLQ = errors.New("malformed variable-length quantity")

	// ErrValueOutOfRange means a value does not fit its wire representation,
	// e.g. a VLQ above 0x0FFFFFFF or a data byte with the high bit set.
	ErrValueOutOfRange = errors.New("value out of range")

	// ErrChunkMagicMismatch means a chunk identifier was not the one required
	// at that position.
	ErrChunkMagicMismatch = errors.New("chunk magic mismatch")

	// ErrChunkLengthMismatch means a chunk's declared length overruns the
	// remaining input.
	ErrChunkLengthMismatch = errors.New("chunk length mismatch")

	// ErrTrackCountMismatch means the number of MTrk chunks differs from the
	// count declared in the header.
	ErrTrackCountMismatch = errors.New("track count mismatch")

	// ErrTruncatedTrack means a track's event stream ended mid-message or
	// without an end-of-track meta event.
	ErrTruncatedTrack = errors.New("truncated track")

	// ErrUnsupportedFormat means the header format field is outside 0-2, or
	// the format/track-count invariant is violated.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrInvalidRunningStatus means a data byte appeared where a status byte
	// was required and no running status was in effect.
	ErrInvalidRunningStatus = errors.New("invalid running status")

	// ErrNoDivisionInfo means the header's division field carries no usable
	// timing information.
	ErrNoDivisionInfo = errors.New("no division info")
)

// Error annotates a codec failure with where it happened. Track is -1 when
// the failure is not attributable to a particular track.
type Error struct {
	Op     string
	Track  int
	Offset int
	Err    error
}

func (e *Error) Error() string {
	if e.Track >= 0 {
		return fmt.Sprintf("%s: track %d, offset %d: %v", e.Op, e.Track, e.Offset, e.Err)
	}
	return fmt.Sprintf("%s: offset %d: %v", e.Op, e.Offset, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// At wraps err with an operation name and byte offset.
func At(op string, offset int, err error) error {
	return &Error{Op: op, Track: -1, Offset: offset, Err: err}
}

// AtTrack wraps err with an operation name, track index and byte offset
// relative to the track payload.
func AtTrack(op string, track, offset int, err error) error {
	return &Error{Op: op, Track: track, Offset: offset, Err: err}
}
