package pbxproj

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
)

// Loaded is what the Object Loader yields: every reachable object keyed by
// its identifier, plus the identifier of the root PBXProject node.
type Loaded struct {
	RootID  string
	Objects Store
}

// resolveProjectPath accepts either a '.xcodeproj' directory or a direct
// 'project.pbxproj' file path and returns the absolute pbxproj file path
// plus the '.xcodeproj' directory it lives in.
func resolveProjectPath(target string) (pbxprojPath, xcodeprojDir string, err error) {
	abs, err := filepath.Abs(target)
	if err != nil {
		return "", "", fmt.Errorf("resolving path %q: %w", target, err)
	}
	if _, statErr := os.Stat(abs); statErr != nil {
		return "", "", &PathNotFoundError{Path: abs}
	}
	switch {
	case strings.HasSuffix(abs, ".xcodeproj"):
		return filepath.Join(abs, "project.pbxproj"), abs, nil
	case strings.HasSuffix(abs, "project.pbxproj"):
		return abs, filepath.Dir(abs), nil
	default:
		return "", "", &PathNotProjectError{Path: abs}
	}
}

// load invokes `plutil -convert json -o -` over the pbxproj file, using
// the platform converter rather than a hand-rolled ASCII-plist parser,
// and decodes the resulting JSON into a Store plus the root object id.
func load(pbxprojPath string) (Loaded, error) {
	cmd := exec.Command("plutil", "-convert", "json", "-o", "-", pbxprojPath)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		out := strings.TrimSpace(stderr.String())
		if out == "" {
			out = err.Error()
		}
		return Loaded{}, &LoaderFailureError{Output: out}
	}

	var doc struct {
		RootObject string         `json:"rootObject"`
		Objects    map[string]any `json:"objects"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &doc); err != nil {
		return Loaded{}, &LoaderFailureError{Output: fmt.Sprintf("failed to parse plutil JSON output: %s", err)}
	}

	objects := make(Store, len(doc.Objects))
	for id, raw := range doc.Objects {
		m, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		objects[id] = Object(m)
	}
	return Loaded{RootID: doc.RootObject, Objects: objects}, nil
}

var projectNameLine = regexp.MustCompile(`PBXProject "([^"]*)"`)

// projectDisplayName scans the raw pbxproj file line by line for the
// comment introducing the root PBXProject object and returns its name.
// The canonical project-root path is "<name>.xcodeproj".
func projectDisplayName(pbxprojPath string) (string, error) {
	f, err := os.Open(pbxprojPath)
	if err != nil {
		return "", fmt.Errorf("opening %q: %w", pbxprojPath, err)
	}
	defer func() { _ = f.Close() }()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		if m := projectNameLine.FindStringSubmatch(line); m != nil {
			return m[1], nil
		}
	}
	return "", &ProjectNameNotFoundError{Path: pbxprojPath}
}
