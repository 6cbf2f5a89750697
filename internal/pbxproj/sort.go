package pbxproj

import (
	"bytes"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
)

// sortSectionNames is the closed set of sections the structural sorter
// reorders.
var sortSectionNames = map[string]bool{
	"PBXGroup":                true,
	"PBXFileReference":        true,
	"PBXBuildFile":            true,
	"PBXContainerItemProxy":   true,
	"PBXReferenceProxy":       true,
	"PBXNativeTarget":         true,
	"PBXTargetDependency":     true,
	"PBXSourcesBuildPhase":    true,
	"PBXFrameworksBuildPhase": true,
	"PBXResourcesBuildPhase":  true,
	"PBXCopyFilesBuildPhase":  true,
	"PBXShellScriptBuildPhase": true,
	"XCBuildConfiguration":     true,
	"XCConfigurationList":      true,
	"XCVersionGroup":           true,
	"PBXVariantGroup":          true,
	"PBXProject":               true,
}

// sortByNameSections are sorted by display name instead of by id, and only
// when sortByFilename is requested.
var sortByNameSections = map[string]bool{
	"PBXFileReference": true,
	"PBXBuildFile":     true,
}

var (
	sectionStartPtn = regexp.MustCompile(`^\s*/\*\s*Begin (.+) section.*\s*$`)
	filesStartPtn   = regexp.MustCompile(`^(\s*)files = \(\s*$`)
	childrenStartPtn = regexp.MustCompile(`^(\s*)children = \(\s*$`)
	emptyLinePtn    = regexp.MustCompile(`^\s*$`)

	// filesKeyPtn pulls the symbolic build-file name out of a line like
	// "\t\t\tHEXID /* Name in Frameworks */,\n".
	filesKeyPtn = regexp.MustCompile(`(?:[0-9A-Z]{24}|[0-9A-F]{32}) /\* (.+?) in .*?\*/`)
	// childrenKeyPtn pulls the display name out of a "children" array
	// member line like "\t\t\tHEXID /* Name.swift */,\n".
	childrenKeyPtn = regexp.MustCompile(`(?:[0-9A-Z]{24}|[0-9A-F]{32}) /\* (.+?) \*/`)

	// sectionItemPtn recognizes a section-item line's opening:
	// group 1 = indent, group 2 = id, group 3 = optional display name.
	// Whether the item closes on this same line is decided separately by
	// inspecting the line's trailing characters (see isOnelineClose),
	// since the body between "= " and the close can itself legally
	// contain "};" substrings inside comments or string literals.
	sectionItemPtn = regexp.MustCompile(`^(\s*)([0-9A-Z]{24}|[0-9A-F]{32})\s+(?:/\* (.+?) \*/\s*)?= `)
)

// itemSortName extracts the display name to sort by when
// --sort-pbx-by-filename is set. A PBXBuildFile's own comment carries
// "<name> in <Phase>"; only PBXFileReference's comment is the bare name.
func itemSortName(sectionName, comment string) string {
	if sectionName == "PBXBuildFile" {
		if i := strings.LastIndex(comment, " in "); i >= 0 {
			return comment[:i]
		}
	}
	return comment
}

// isOnelineClose reports whether a section-item opening line also closes
// the item (i.e. "ID /* Name */ = {isa = ...; ...; };" on one line).
func isOnelineClose(line string) bool {
	return strings.HasSuffix(strings.TrimRight(line, " \t\r\n"), "};")
}

func sectionEndPtn(name string) *regexp.Regexp {
	return regexp.MustCompile(`^\s*/\*\s*End ` + regexp.QuoteMeta(name) + ` section.*\s*$`)
}

func arrayEndPtn(indent string) *regexp.Regexp {
	return regexp.MustCompile(`^` + indent + `\);\s*$`)
}

func sectionItemEndPtn(indent string) *regexp.Regexp {
	return regexp.MustCompile(`^` + indent + `\};\s*$`)
}

// sortResult reports what the Structural Sorter stage did.
type sortResult struct {
	Modified     bool
	RemovedLines []string
}

// sortItem is a (sortKey, rawText) pair buffered by a section or array
// handler until its closing line is seen.
type sortItem struct {
	key  string
	text string
}

// sorter implements a stack-driven streaming rewriter: an output stack
// (top receives emitted text) and a handler stack (top consumes the
// next line).
type sorter struct {
	sortByFilename bool
	noSortGroups   map[string]bool
	removedLines   []string
	bufOut         *strings.Builder

	outputStack  []func(string)
	handlerStack []func(string) error
}

func newSorter(sortByFilename bool, noSortGroups map[string]bool) *sorter {
	s := &sorter{sortByFilename: sortByFilename, noSortGroups: noSortGroups, bufOut: &strings.Builder{}}
	s.outputStack = []func(string){func(l string) { s.bufOut.WriteString(l) }}
	s.handlerStack = []func(string) error{s.dealGlobalLine}
	return s
}

func (s *sorter) write(line string) {
	s.outputStack[len(s.outputStack)-1](line)
}

func (s *sorter) pushOutput(f func(string)) {
	s.outputStack = append(s.outputStack, f)
}

func (s *sorter) popOutput() {
	s.outputStack = s.outputStack[:len(s.outputStack)-1]
}

func (s *sorter) pushHandler(h func(string) error) {
	s.handlerStack = append(s.handlerStack, h)
}

func (s *sorter) popHandler() {
	s.handlerStack = s.handlerStack[:len(s.handlerStack)-1]
}

func (s *sorter) deal(line string) error {
	return s.handlerStack[len(s.handlerStack)-1](line)
}

func (s *sorter) dealGlobalLine(line string) error {
	handled, err := s.checkSection(line)
	if err != nil || handled {
		return err
	}
	handled, err = s.checkFiles(line)
	if err != nil || handled {
		return err
	}
	handled, err = s.checkChildren(line)
	if err != nil || handled {
		return err
	}
	s.write(line)
	return nil
}

// checkSection recognizes a "/* Begin X section */" line and, for every
// recognized section kind, pushes a handler that buffers each contained
// object until the matching "/* End X section */" line.
func (s *sorter) checkSection(line string) (bool, error) {
	m := sectionStartPtn.FindStringSubmatch(line)
	if m == nil {
		return false, nil
	}
	s.write(line)
	sectionName := m[1]
	if !sortSectionNames[sectionName] {
		return true, nil
	}

	var items []sortItem
	endPtn := sectionEndPtn(sectionName)
	byName := s.sortByFilename && sortByNameSections[sectionName]

	var dealSectionLine func(line string) error
	dealSectionLine = func(line string) error {
		if endPtn.MatchString(line) {
			if len(items) > 0 {
				sortItems(items)
				var b strings.Builder
				for _, it := range items {
					b.WriteString(it.text)
				}
				s.write(b.String())
			}
			s.write(line)
			s.popHandler()
			return nil
		}

		itemMatch := sectionItemPtn.FindStringSubmatch(line)
		if itemMatch == nil {
			if emptyLinePtn.MatchString(line) {
				return nil
			}
			return &UnexpectedLineError{Line: line}
		}

		indent, id, name := itemMatch[1], itemMatch[2], itemMatch[3]
		key := id
		if byName {
			key = itemSortName(sectionName, name)
		}

		if isOnelineClose(line) {
			items = append(items, sortItem{key: key, text: line})
			return nil
		}

		// Multi-line item: buffer lines until a matching-indent "};".
		var lines []string
		lines = append(lines, line)
		itemEndPtn := sectionItemEndPtn(indent)
		// noSortGroups is keyed by whatever id actually appears in the file
		// at sort time: the new id when Substitute already ran, the raw
		// old id otherwise. Either way it matches id as read here.
		shouldSortChildren := !s.noSortGroups[id]

		var dealItemLine func(line string) error
		dealItemLine = func(line string) error {
			if itemEndPtn.MatchString(line) {
				lines = append(lines, line)
				items = append(items, sortItem{key: key, text: strings.Join(lines, "")})
				s.popOutput()
				s.popHandler()
				return nil
			}
			if shouldSortChildren {
				if handled, err := s.checkFiles(line); err != nil || handled {
					return err
				}
				if handled, err := s.checkChildren(line); err != nil || handled {
					return err
				}
			}
			lines = append(lines, line)
			return nil
		}

		s.pushOutput(func(l string) { lines = append(lines, l) })
		s.pushHandler(dealItemLine)
		return nil
	}
	s.pushHandler(dealSectionLine)
	return true, nil
}

// checkFiles recognizes a "files = ( ... );" array and sorts its members
// by the symbolic build-file name.
func (s *sorter) checkFiles(line string) (bool, error) {
	m := filesStartPtn.FindStringSubmatch(line)
	if m == nil {
		return false, nil
	}
	s.write(line)
	var lines []string
	endPtn := arrayEndPtn(m[1])

	var dealFiles func(string) error
	dealFiles = func(line string) error {
		if endPtn.MatchString(line) {
			if len(lines) > 0 {
				sortLinesStable(lines, func(l string) string {
					if km := filesKeyPtn.FindStringSubmatch(l); km != nil {
						return km[1]
					}
					return l
				})
				s.write(strings.Join(lines, ""))
			}
			s.write(line)
			s.popHandler()
			return nil
		}
		if filesKeyPtn.MatchString(line) {
			if containsLine(lines, line) {
				s.removedLines = append(s.removedLines, line)
			} else {
				lines = append(lines, line)
			}
			return nil
		}
		if emptyLinePtn.MatchString(line) {
			return nil
		}
		return &UnexpectedLineError{Line: line}
	}
	s.pushHandler(dealFiles)
	return true, nil
}

// checkChildren recognizes a "children = ( ... );" array and sorts its
// members so directories precede files, lexicographically within each
// group.
func (s *sorter) checkChildren(line string) (bool, error) {
	m := childrenStartPtn.FindStringSubmatch(line)
	if m == nil {
		return false, nil
	}
	s.write(line)
	var lines []string
	endPtn := arrayEndPtn(m[1])

	var dealChildren func(string) error
	dealChildren = func(line string) error {
		if endPtn.MatchString(line) {
			if len(lines) > 0 {
				sortLinesByDirThenName(lines)
				s.write(strings.Join(lines, ""))
			}
			s.write(line)
			s.popHandler()
			return nil
		}
		if childrenKeyPtn.MatchString(line) {
			if containsLine(lines, line) {
				s.removedLines = append(s.removedLines, line)
			} else {
				lines = append(lines, line)
			}
			return nil
		}
		if emptyLinePtn.MatchString(line) {
			return nil
		}
		return &UnexpectedLineError{Line: line}
	}
	s.pushHandler(dealChildren)
	return true, nil
}

func containsLine(lines []string, line string) bool {
	for _, l := range lines {
		if l == line {
			return true
		}
	}
	return false
}

// sortItems sorts section items by key, stably.
func sortItems(items []sortItem) {
	sort.SliceStable(items, func(i, j int) bool { return items[i].key < items[j].key })
}

// sortLinesStable sorts lines by the string keyFn extracts, stably.
func sortLinesStable(lines []string, keyFn func(string) string) {
	sort.SliceStable(lines, func(i, j int) bool {
		return keyFn(lines[i]) < keyFn(lines[j])
	})
}

// sortLinesByDirThenName sorts children lines so entries without a dot in
// their name (directories/groups) precede entries with one (files),
// lexicographic within each group.
func sortLinesByDirThenName(lines []string) {
	sort.SliceStable(lines, func(i, j int) bool {
		a, b := childDirOrderKey(lines[i]), childDirOrderKey(lines[j])
		if a.hasDot != b.hasDot {
			return !a.hasDot
		}
		return a.name < b.name
	})
}

type dirOrderKey struct {
	hasDot bool
	name   string
}

func childDirOrderKey(line string) dirOrderKey {
	name := line
	if m := childrenKeyPtn.FindStringSubmatch(line); m != nil {
		name = m[1]
	}
	return dirOrderKey{hasDot: strings.Contains(name, "."), name: name}
}

// sortFile applies the structural sorter to pbxprojPath using the caller's
// projectReferences ProductGroup pin set and sort-by-filename preference.
func sortFile(pbxprojPath string, noSortGroups map[string]bool, sortByFilename bool) (sortResult, error) {
	original, err := os.ReadFile(pbxprojPath)
	if err != nil {
		return sortResult{}, fmt.Errorf("reading %q: %w", pbxprojPath, err)
	}

	s := newSorter(sortByFilename, noSortGroups)
	for _, line := range splitLines(original) {
		if err := s.deal(line); err != nil {
			return sortResult{}, err
		}
	}
	if len(s.outputStack) != 1 || len(s.handlerStack) != 1 {
		return sortResult{}, fmt.Errorf("sorter left %d output frame(s) and %d handler frame(s) open at EOF", len(s.outputStack), len(s.handlerStack))
	}

	rewritten := []byte(s.bufOut.String())
	if bytes.Equal(rewritten, original) {
		return sortResult{Modified: false, RemovedLines: s.removedLines}, nil
	}
	if err := writeAtomically(pbxprojPath, rewritten); err != nil {
		return sortResult{}, err
	}
	return sortResult{Modified: true, RemovedLines: s.removedLines}, nil
}
