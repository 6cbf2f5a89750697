package pbxproj

import "bytes"

// splitLines splits content into lines that each retain their trailing
// "\n" (or "\r\n"), except a possible final partial line with none. This
// preserves the file's exact byte layout through a rewrite stage so an
// unmodified file compares byte-equal to its input.
func splitLines(content []byte) []string {
	parts := bytes.SplitAfter(content, []byte("\n"))
	if len(parts) > 0 && len(parts[len(parts)-1]) == 0 {
		parts = parts[:len(parts)-1]
	}
	lines := make([]string, len(parts))
	for i, p := range parts {
		lines[i] = string(p)
	}
	return lines
}
