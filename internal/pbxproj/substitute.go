package pbxproj

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

// idTokenPattern matches the two shapes an object identifier can take:
// Xcode-native 24 uppercase-alphanumeric characters, or this tool's own
// 32-character uppercase-hex MD5 digest. Go's RE2 engine has no
// lookaround, so boundary characters (whitespace before, whitespace or
// ';' after) are checked separately in findIDs rather than consumed here.
// The 32-character alternative comes first: RE2 prefers the leftmost
// alternative, and a 24-character match taken from the front of a 32-hex
// id would then fail the right-boundary check.
var idTokenPattern = regexp.MustCompile(`[0-9A-F]{32}|[0-9A-Z]{24}`)

func isBoundary(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	default:
		return false
	}
}

// findIDs returns every identifier token on the line that is preceded by
// whitespace and followed by whitespace or ';'.
func findIDs(line string) []string {
	var ids []string
	for _, loc := range idTokenPattern.FindAllStringIndex(line, -1) {
		start, end := loc[0], loc[1]
		if start == 0 || !isBoundary(line[start-1]) {
			continue
		}
		if end < len(line) && !isBoundary(line[end]) && line[end] != ';' {
			continue
		}
		ids = append(ids, line[start:end])
	}
	return ids
}

// substituteResult reports what the Identifier Substitutor stage did.
type substituteResult struct {
	Modified     bool
	RemovedLines []string
}

// substitute streams pbxprojPath line by line, replacing every old
// identifier with its assigned new identifier and dropping lines that
// reference a removed or dangling identifier.
func substitute(pbxprojPath string, result *resultStore) (substituteResult, error) {
	original, err := os.ReadFile(pbxprojPath)
	if err != nil {
		return substituteResult{}, fmt.Errorf("reading %q: %w", pbxprojPath, err)
	}

	var out bytes.Buffer
	var removed []string

	for _, line := range splitLines(original) {
		ids := findIDs(line)
		switch {
		case len(ids) == 0:
			out.WriteString(line)
		case anyRemovedOrDangling(ids, result):
			removed = append(removed, line)
		default:
			out.WriteString(rewriteLine(line, ids, result))
		}
	}

	if bytes.Equal(out.Bytes(), original) {
		return substituteResult{Modified: false, RemovedLines: removed}, nil
	}

	if err := writeAtomically(pbxprojPath, out.Bytes()); err != nil {
		return substituteResult{}, err
	}
	return substituteResult{Modified: true, RemovedLines: removed}, nil
}

func anyRemovedOrDangling(ids []string, result *resultStore) bool {
	for _, id := range ids {
		if result.isRemoved(id) {
			return true
		}
		if _, ok := result.get(id); !ok {
			return true
		}
	}
	return false
}

func rewriteLine(line string, ids []string, result *resultStore) string {
	for _, id := range ids {
		entry, ok := result.get(id)
		if !ok || entry.NewID == "" {
			continue
		}
		line = strings.ReplaceAll(line, id, entry.NewID)
	}
	return line
}

// writeAtomically implements the scoped write-temp-then-replace pattern
//: write to a sibling temp file, then rename over the
// original so every exit path leaves exactly one complete file on disk.
func writeAtomically(path string, content []byte) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), ".pbxproj-tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(content); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("writing temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("closing temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("renaming temp file into place: %w", err)
	}
	return nil
}
