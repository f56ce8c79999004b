package monitor

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// sniffLen is how many leading bytes are inspected when a file has no
// extension.
const sniffLen = 512

// trackableExts is the allow-list of extensions eligible for content
// tracking and diffing.
var trackableExts = map[string]struct{}{
	".txt": {}, ".py": {}, ".js": {}, ".html": {}, ".css": {}, ".json": {},
	".xml": {}, ".md": {}, ".yml": {}, ".yaml": {}, ".ini": {}, ".cfg": {},
	".conf": {}, ".log": {}, ".sql": {}, ".sh": {}, ".bat": {}, ".ps1": {},
	".c": {}, ".cpp": {}, ".h": {}, ".java": {}, ".cs": {}, ".go": {},
	".rs": {}, ".php": {}, ".rb": {}, ".pl": {}, ".r": {}, ".swift": {},
	".kt": {}, ".dart": {}, ".ts": {}, ".jsx": {}, ".tsx": {}, ".vue": {},
	".svelte": {}, ".scss": {}, ".sass": {}, ".less": {}, ".styl": {},
}

// IsTrackable reports whether a path looks like a text file whose content is
// worth snapshotting for diffs. Known text extensions pass immediately.
// Extensionless files are sniffed: a NUL byte or invalid UTF-8 in the first
// 512 bytes disqualifies them. Every other extension, and any I/O error,
// means not trackable; this never raises.
func IsTrackable(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	if _, ok := trackableExts[ext]; ok {
		return true
	}
	if ext != "" {
		return false
	}

	f, err := os.Open(path)
	if err != nil {
		return false
	}
	defer f.Close()

	buf := make([]byte, sniffLen)
	n, err := f.Read(buf)
	if err != nil && n == 0 {
		return false
	}
	chunk := buf[:n]

	if bytes.IndexByte(chunk, 0) >= 0 {
		return false
	}
	return utf8.Valid(trimPartialRune(chunk))
}

// trimPartialRune drops trailing bytes that may be the start of a UTF-8
// sequence cut off by the 512-byte read window.
func trimPartialRune(b []byte) []byte {
	for i := 0; i < utf8.UTFMax && len(b) > 0; i++ {
		r, size := utf8.DecodeLastRune(b)
		if r != utf8.RuneError || size != 1 {
			return b
		}
		b = b[:len(b)-1]
	}
	return b
}
