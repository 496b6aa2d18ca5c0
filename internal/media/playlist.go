package media

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"
)

// ErrNoTracks is returned when a playlist has no playable local entries.
var ErrNoTracks = errors.New("no playable tracks")

// ParseLocalPlaylist parses a local .m3u/.m3u8/.pls file into local path entries.
// Relative entries are resolved against the playlist file directory.
func ParseLocalPlaylist(path string) ([]string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	if !IsPlaylistExt(ext) {
		return nil, fmt.Errorf("unsupported playlist format %s", ext)
	}

	absPlaylistPath, err := filepath.Abs(path)
	if err != nil {
		absPlaylistPath = path
	}

	data, err := os.ReadFile(absPlaylistPath)
	if err != nil {
		return nil, fmt.Errorf("reading playlist: %w", err)
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("playlist is not valid UTF-8")
	}

	baseDir := filepath.Dir(absPlaylistPath)
	scanner := bufio.NewScanner(strings.NewReader(string(data)))

	switch ext {
	case ".pls":
		return parsePLS(scanner, baseDir), nil
	default:
		return parseM3U(scanner, baseDir), nil
	}
}

// FilterPlayableLocalPaths keeps only existing, non-directory, supported
// audio files and reports how many entries were dropped.
func FilterPlayableLocalPaths(paths []string) ([]string, int) {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil || info.IsDir() {
			continue
		}
		if !IsSupportedExt(filepath.Ext(p)) {
			continue
		}
		abs, err := filepath.Abs(p)
		if err == nil {
			p = abs
		}
		out = append(out, p)
	}
	return out, len(paths) - len(out)
}

// Expand turns a command-line path into an ordered track list and the index
// to start from. A playlist yields its playable entries starting at 0. An
// audio file yields every playable file in its directory, sorted by name,
// starting at the file itself.
func Expand(path string) ([]string, int, error) {
	ext := filepath.Ext(path)
	switch {
	case IsPlaylistExt(ext):
		entries, err := ParseLocalPlaylist(path)
		if err != nil {
			return nil, 0, err
		}
		tracks, _ := FilterPlayableLocalPaths(entries)
		if len(tracks) == 0 {
			return nil, 0, fmt.Errorf("%s: %w", path, ErrNoTracks)
		}
		return tracks, 0, nil
	case IsSupportedExt(ext):
		return siblings(path)
	default:
		return nil, 0, fmt.Errorf("%s: unsupported file type %q (supported: %s)", path, ext, SupportedExtsList())
	}
}

func siblings(path string) ([]string, int, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, 0, err
	}
	if info, err := os.Stat(abs); err != nil {
		return nil, 0, err
	} else if info.IsDir() {
		return nil, 0, fmt.Errorf("%s is a directory", path)
	}

	entries, err := os.ReadDir(filepath.Dir(abs))
	if err != nil {
		return []string{abs}, 0, nil
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !IsSupportedExt(filepath.Ext(e.Name())) {
			continue
		}
		names = append(names, filepath.Join(filepath.Dir(abs), e.Name()))
	}
	sort.Strings(names)

	start := sort.SearchStrings(names, abs)
	if start >= len(names) || names[start] != abs {
		return []string{abs}, 0, nil
	}
	return names, start, nil
}

func parseM3U(scanner *bufio.Scanner, baseDir string) []string {
	entries := make([]string, 0)
	for scanner.Scan() {
		line := strings.Trim(strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "\uFEFF")), `"`)
		if line == "" || strings.HasPrefix(line, "#") || isRemote(line) {
			continue
		}
		entries = append(entries, resolvePlaylistEntryPath(line, baseDir))
	}
	return entries
}

func parsePLS(scanner *bufio.Scanner, baseDir string) []string {
	entries := make([]string, 0)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		eq := strings.Index(line, "=")
		if eq <= 0 {
			continue
		}
		key := strings.TrimSpace(line[:eq])
		val := strings.TrimSpace(line[eq+1:])
		if val == "" || isRemote(val) || !isPLSFileKey(strings.ToLower(key)) {
			continue
		}

		entries = append(entries, resolvePlaylistEntryPath(val, baseDir))
	}
	return entries
}

// isRemote reports entries that point at network streams. Only local files
// can be analysed.
func isRemote(entry string) bool {
	return strings.Contains(entry, "://")
}

func isPLSFileKey(key string) bool {
	if !strings.HasPrefix(key, "file") {
		return false
	}
	rest := key[len("file"):]
	if rest == "" {
		return false
	}
	for i := 0; i < len(rest); i++ {
		if rest[i] < '0' || rest[i] > '9' {
			return false
		}
	}
	return true
}

func resolvePlaylistEntryPath(raw, baseDir string) string {
	p := filepath.Clean(raw)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Clean(filepath.Join(baseDir, p))
}
