package queue

import (
	"path/filepath"
	"testing"
)

func sample() *Queue {
	return New(FromPaths([]string{
		filepath.Join("music", "one.mp3"),
		filepath.Join("music", "two.flac"),
		filepath.Join("music", "three.wav"),
	}))
}

func TestFromPathsUsesFileNames(t *testing.T) {
	q := sample()
	if got := q.Track(1).Title; got != "two" {
		t.Fatalf("expected title two, got %q", got)
	}
	if got := q.Track(2).Path; got != filepath.Join("music", "three.wav") {
		t.Fatalf("unexpected path %q", got)
	}
}

func TestAdvanceAndPrevious(t *testing.T) {
	q := sample()
	if q.Previous() {
		t.Fatal("expected Previous to fail at start")
	}
	if !q.Advance() || !q.Advance() {
		t.Fatal("expected to advance twice")
	}
	if q.Advance() {
		t.Fatal("expected Advance to fail at end")
	}
	if q.Next() != nil {
		t.Fatal("expected no next track at end")
	}
	if q.CurrentIndex() != 2 || q.Current().Title != "three" {
		t.Fatalf("unexpected current %d %q", q.CurrentIndex(), q.Current().Title)
	}
	if !q.Previous() || q.Current().Title != "two" {
		t.Fatal("expected Previous to move back to two")
	}
}

func TestPeek(t *testing.T) {
	q := sample()
	peek := q.Peek(5)
	if len(peek) != 2 || peek[0].Title != "two" {
		t.Fatalf("unexpected peek %+v", peek)
	}
	q.SetCurrentIndex(2)
	if q.Peek(1) != nil {
		t.Fatal("expected empty peek at end")
	}
}

func TestEmptyQueue(t *testing.T) {
	q := New(nil)
	if q.Current() != nil || q.Next() != nil || q.Advance() {
		t.Fatal("empty queue should have no tracks")
	}
}

func TestSetters(t *testing.T) {
	q := sample()
	q.SetTrackState(0, Playing)
	q.SetTrackState(9, Failed)
	q.SetTrackTitle(0, "Opening")
	q.SetTrackTitle(1, "")
	q.SetCurrentIndex(-1)

	if q.Track(0).State != Playing || q.Track(0).State.String() != "playing" {
		t.Fatalf("unexpected state %v", q.Track(0).State)
	}
	if q.Track(0).Title != "Opening" || q.Track(1).Title != "two" {
		t.Fatal("unexpected titles")
	}
	if q.CurrentIndex() != 0 {
		t.Fatalf("out of range index must be ignored, got %d", q.CurrentIndex())
	}
}
