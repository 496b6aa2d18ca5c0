// Package queue holds the ordered list of local tracks for a session.
package queue

import (
	"path/filepath"
	"strings"
)

// TrackState represents the playback state of a track.
type TrackState int

const (
	Ready TrackState = iota
	Playing
	Done
	Failed
)

func (s TrackState) String() string {
	switch s {
	case Playing:
		return "playing"
	case Done:
		return "done"
	case Failed:
		return "failed"
	default:
		return "ready"
	}
}

// Track represents a single item in the queue.
type Track struct {
	Title string
	Path  string
	State TrackState
}

// FromPaths builds tracks titled after their file names.
func FromPaths(paths []string) []Track {
	tracks := make([]Track, len(paths))
	for i, p := range paths {
		base := filepath.Base(p)
		tracks[i] = Track{Title: strings.TrimSuffix(base, filepath.Ext(base)), Path: p}
	}
	return tracks
}

// Queue manages an ordered list of tracks.
// It is only mutated from Bubbletea's single-threaded Update loop.
type Queue struct {
	tracks  []Track
	current int
}

// New creates a Queue from the given tracks.
func New(tracks []Track) *Queue {
	return &Queue{tracks: tracks}
}

// Current returns a pointer to the current track, or nil if empty.
func (q *Queue) Current() *Track {
	return q.Track(q.current)
}

// Next returns a pointer to the track after the current one, or nil at the end.
func (q *Queue) Next() *Track {
	return q.Track(q.current + 1)
}

// Advance moves the current index forward by one. Returns false if already at end.
func (q *Queue) Advance() bool {
	if q.current+1 >= len(q.tracks) {
		return false
	}
	q.current++
	return true
}

// Previous moves the current index back by one. Returns false if already at start.
func (q *Queue) Previous() bool {
	if q.current <= 0 {
		return false
	}
	q.current--
	return true
}

// Peek returns up to n tracks after the current one.
func (q *Queue) Peek(n int) []Track {
	start := q.current + 1
	if start >= len(q.tracks) || n <= 0 {
		return nil
	}
	end := min(start+n, len(q.tracks))
	result := make([]Track, end-start)
	copy(result, q.tracks[start:end])
	return result
}

// Len returns the total number of tracks.
func (q *Queue) Len() int {
	return len(q.tracks)
}

// CurrentIndex returns the zero-based index of the current track.
func (q *Queue) CurrentIndex() int {
	return q.current
}

// SetCurrentIndex sets the current track index directly.
func (q *Queue) SetCurrentIndex(i int) {
	if i >= 0 && i < len(q.tracks) {
		q.current = i
	}
}

// SetTrackState sets the state of the track at the given index.
func (q *Queue) SetTrackState(i int, state TrackState) {
	if i >= 0 && i < len(q.tracks) {
		q.tracks[i].State = state
	}
}

// SetTrackTitle sets the title of the track at the given index.
func (q *Queue) SetTrackTitle(i int, title string) {
	if i >= 0 && i < len(q.tracks) && title != "" {
		q.tracks[i].Title = title
	}
}

// Track returns a pointer to the track at the given index, or nil if out of range.
func (q *Queue) Track(i int) *Track {
	if i < 0 || i >= len(q.tracks) {
		return nil
	}
	return &q.tracks[i]
}
