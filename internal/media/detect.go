// Package media classifies local files and expands playlists and folders
// into ordered lists of playable tracks.
package media

import (
	"strings"
)

var audioExts = map[string]bool{
	".mp3":  true,
	".wav":  true,
	".aiff": true,
	".aif":  true,
	".flac": true,
	".ogg":  true,
}

var playlistExts = map[string]bool{
	".m3u":  true,
	".m3u8": true,
	".pls":  true,
}

// IsSupportedExt returns true if the extension is a playable audio format.
func IsSupportedExt(ext string) bool {
	return audioExts[strings.ToLower(ext)]
}

// IsPlaylistExt returns true if the extension is a supported playlist format.
func IsPlaylistExt(ext string) bool {
	return playlistExts[strings.ToLower(ext)]
}

// SupportedExtsList returns a human-readable list of playable audio formats.
func SupportedExtsList() string {
	return ".mp3, .wav, .aiff, .flac, .ogg"
}
