package player

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bogem/id3v2/v2"
	"github.com/dhowden/tag"
)

// Metadata holds track information shown in the header.
type Metadata struct {
	Title  string
	Artist string
	Album  string
}

// Display joins artist and title when both are known.
func (m Metadata) Display() string {
	if m.Artist == "" {
		return m.Title
	}
	return m.Artist + " - " + m.Title
}

// ReadMetadata reads ID3v2 tags from MP3 files and FLAC, Vorbis or MP4
// style tags from everything else, falling back to the file name for
// untagged files.
func ReadMetadata(path string) Metadata {
	var m Metadata
	if strings.EqualFold(filepath.Ext(path), ".mp3") {
		m = readID3(path)
	} else {
		m = readTags(path)
	}
	if m.Title != "" {
		return m
	}

	base := filepath.Base(path)
	return Metadata{Title: strings.TrimSuffix(base, filepath.Ext(base))}
}

func readID3(path string) Metadata {
	t, err := id3v2.Open(path, id3v2.Options{Parse: true})
	if err != nil {
		return Metadata{}
	}
	defer t.Close()
	return Metadata{
		Title:  strings.TrimSpace(t.Title()),
		Artist: strings.TrimSpace(t.Artist()),
		Album:  strings.TrimSpace(t.Album()),
	}
}

func readTags(path string) Metadata {
	f, err := os.Open(path)
	if err != nil {
		return Metadata{}
	}
	defer f.Close()

	md, err := tag.ReadFrom(f)
	if err != nil || md == nil {
		return Metadata{}
	}
	return Metadata{
		Title:  strings.TrimSpace(md.Title()),
		Artist: strings.TrimSpace(md.Artist()),
		Album:  strings.TrimSpace(md.Album()),
	}
}
