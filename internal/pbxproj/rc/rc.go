// Package rc reads the optional .xcuniqrc dotfile that seeds default CLI
// flag values for a project, the way axe reads its own .axerc.
package rc

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"
)

// Read parses the .xcuniqrc file in the current directory and returns its
// KEY=VALUE pairs. Lines starting with '#' are comments. Returns an empty,
// non-nil map if the file does not exist or cannot be read.
func Read() map[string]string {
	m := make(map[string]string)

	cwd, err := os.Getwd()
	if err != nil {
		return m
	}

	f, err := os.Open(filepath.Join(cwd, ".xcuniqrc"))
	if err != nil {
		return m
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if k, v, ok := strings.Cut(line, "="); ok {
			m[strings.TrimSpace(k)] = strings.TrimSpace(v)
		}
	}
	return m
}

// Bool reads key from rc as a boolean flag default: "1", "true" and "yes"
// (case-insensitive) are true, everything else is false.
func Bool(rcMap map[string]string, key string) bool {
	switch strings.ToLower(rcMap[key]) {
	case "1", "true", "yes":
		return true
	default:
		return false
	}
}
