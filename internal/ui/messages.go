package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/olivier-w/cymatic/internal/player"
)

type frameTickMsg time.Time

// trackOpenedMsg reports the result of opening the queue entry at index.
// seq ties it to the request so superseded opens can be discarded.
type trackOpenedMsg struct {
	seq   int
	index int
	track Playback
	meta  player.Metadata
	err   error
}

type playbackEndedMsg struct {
	track Playback
}

func tickCmd(fps int) tea.Cmd {
	return tea.Tick(time.Second/time.Duration(max(fps, 1)), func(t time.Time) tea.Msg {
		return frameTickMsg(t)
	})
}

func openCmd(open Opener, seq, index int, path string) tea.Cmd {
	return func() tea.Msg {
		track, err := open(path)
		msg := trackOpenedMsg{seq: seq, index: index, track: track, err: err}
		if err == nil {
			msg.meta = player.ReadMetadata(path)
		}
		return msg
	}
}

// waitDone reports the end of playback. It gives up quietly when the track
// is closed first.
func waitDone(t Playback) tea.Cmd {
	return func() tea.Msg {
		select {
		case <-t.Done():
			return playbackEndedMsg{track: t}
		case <-t.Closed():
			return nil
		}
	}
}
