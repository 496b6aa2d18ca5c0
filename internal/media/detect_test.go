package media

import (
	"strings"
	"testing"
)

func TestIsSupportedExt(t *testing.T) {
	for _, ext := range []string{".mp3", ".WAV", ".aiff", ".aif", ".flac", ".ogg"} {
		if !IsSupportedExt(ext) {
			t.Fatalf("expected %s to be supported", ext)
		}
	}
	for _, ext := range []string{".m4a", ".txt", ""} {
		if IsSupportedExt(ext) {
			t.Fatalf("expected %s to be rejected", ext)
		}
	}
}

func TestSupportedExtsListMatchesDecoders(t *testing.T) {
	list := SupportedExtsList()
	for _, ext := range []string{".mp3", ".wav", ".aiff", ".flac", ".ogg"} {
		if !strings.Contains(list, ext) {
			t.Fatalf("expected supported ext list to include %s, got %q", ext, list)
		}
	}
}

func TestIsPlaylistExt(t *testing.T) {
	if !IsPlaylistExt(".M3U8") || IsPlaylistExt(".mp3") {
		t.Fatal("unexpected playlist classification")
	}
}
