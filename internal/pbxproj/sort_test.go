package pbxproj

import (
	"os"
	"strings"
	"testing"
)

func TestSortFilePBXBuildFileSectionByID(t *testing.T) {
	content := "" +
		"/* Begin PBXBuildFile section */\n" +
		"\t\tBBBBBBBBBBBBBBBBBBBBBBBB /* b.swift in Sources */ = {isa = PBXBuildFile; fileRef = FFFFFFFFFFFFFFFFFFFFFFFF /* b.swift */; };\n" +
		"\t\tAAAAAAAAAAAAAAAAAAAAAAAA /* a.swift in Sources */ = {isa = PBXBuildFile; fileRef = EEEEEEEEEEEEEEEEEEEEEEEE /* a.swift */; };\n" +
		"/* End PBXBuildFile section */\n"

	path := writeTempProject(t, content)
	result, err := sortFile(path, map[string]bool{}, false)
	if err != nil {
		t.Fatalf("sortFile() error = %v", err)
	}
	if !result.Modified {
		t.Fatal("expected Modified = true")
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	gotStr := string(got)
	aIdx := strings.Index(gotStr, "AAAAAAAAAAAAAAAAAAAAAAAA")
	bIdx := strings.Index(gotStr, "BBBBBBBBBBBBBBBBBBBBBBBB")
	if aIdx < 0 || bIdx < 0 || aIdx > bIdx {
		t.Fatalf("expected AAAA... before BBBB..., got:\n%s", gotStr)
	}
}

func TestSortFileByFilename(t *testing.T) {
	content := "" +
		"/* Begin PBXBuildFile section */\n" +
		"\t\tBBBBBBBBBBBBBBBBBBBBBBBB /* zebra.swift in Sources */ = {isa = PBXBuildFile; fileRef = FFFFFFFFFFFFFFFFFFFFFFFF /* zebra.swift */; };\n" +
		"\t\tAAAAAAAAAAAAAAAAAAAAAAAA /* apple.swift in Sources */ = {isa = PBXBuildFile; fileRef = EEEEEEEEEEEEEEEEEEEEEEEE /* apple.swift */; };\n" +
		"/* End PBXBuildFile section */\n"

	path := writeTempProject(t, content)
	if _, err := sortFile(path, map[string]bool{}, true); err != nil {
		t.Fatalf("sortFile() error = %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	gotStr := string(got)
	appleIdx := strings.Index(gotStr, "apple.swift")
	zebraIdx := strings.Index(gotStr, "zebra.swift")
	if appleIdx < 0 || zebraIdx < 0 || appleIdx > zebraIdx {
		t.Fatalf("expected apple.swift before zebra.swift when sorting by filename, got:\n%s", gotStr)
	}
}

func TestSortFileFilesArrayDropsDuplicates(t *testing.T) {
	content := "" +
		"/* Begin PBXSourcesBuildPhase section */\n" +
		"\t\tCCCCCCCCCCCCCCCCCCCCCCCC /* Sources */ = {\n" +
		"\t\t\tisa = PBXSourcesBuildPhase;\n" +
		"\t\t\tbuildActionMask = 2147483647;\n" +
		"\t\t\tfiles = (\n" +
		"\t\t\t\tBBBBBBBBBBBBBBBBBBBBBBBB /* b.swift in Sources */,\n" +
		"\t\t\t\tAAAAAAAAAAAAAAAAAAAAAAAA /* a.swift in Sources */,\n" +
		"\t\t\t\tBBBBBBBBBBBBBBBBBBBBBBBB /* b.swift in Sources */,\n" +
		"\t\t\t);\n" +
		"\t\t\trunOnlyForDeploymentPostprocessing = 0;\n" +
		"\t\t};\n" +
		"/* End PBXSourcesBuildPhase section */\n"

	path := writeTempProject(t, content)
	result, err := sortFile(path, map[string]bool{}, false)
	if err != nil {
		t.Fatalf("sortFile() error = %v", err)
	}
	if len(result.RemovedLines) != 1 {
		t.Fatalf("expected 1 duplicate removed, got %d: %v", len(result.RemovedLines), result.RemovedLines)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	gotStr := string(got)
	if strings.Count(gotStr, "BBBBBBBBBBBBBBBBBBBBBBBB") != 1 {
		t.Fatalf("expected the duplicate to be dropped, got:\n%s", gotStr)
	}
	aIdx := strings.Index(gotStr, "AAAAAAAAAAAAAAAAAAAAAAAA")
	bIdx := strings.Index(gotStr, "BBBBBBBBBBBBBBBBBBBBBBBB")
	if aIdx < 0 || bIdx < 0 || aIdx > bIdx {
		t.Fatalf("expected a.swift before b.swift, got:\n%s", gotStr)
	}
}

func TestSortFileChildrenArrayOrdersDirectoriesBeforeFiles(t *testing.T) {
	content := "" +
		"/* Begin PBXGroup section */\n" +
		"\t\tGGGGGGGGGGGGGGGGGGGGGGGG /* MyApp */ = {\n" +
		"\t\t\tisa = PBXGroup;\n" +
		"\t\t\tchildren = (\n" +
		"\t\t\t\tIIIIIIIIIIIIIIIIIIIIIIII /* README.md */,\n" +
		"\t\t\t\tHHHHHHHHHHHHHHHHHHHHHHHH /* Sources */,\n" +
		"\t\t\t);\n" +
		"\t\t\tsourceTree = \"<group>\";\n" +
		"\t\t};\n" +
		"/* End PBXGroup section */\n"

	path := writeTempProject(t, content)
	if _, err := sortFile(path, map[string]bool{}, false); err != nil {
		t.Fatalf("sortFile() error = %v", err)
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	gotStr := string(got)
	sourcesIdx := strings.Index(gotStr, "HHHHHHHHHHHHHHHHHHHHHHHH")
	readmeIdx := strings.Index(gotStr, "IIIIIIIIIIIIIIIIIIIIIIII")
	if sourcesIdx < 0 || readmeIdx < 0 || sourcesIdx > readmeIdx {
		t.Fatalf("expected directory-like entry (Sources) before dotted file (README.md), got:\n%s", gotStr)
	}
}

func TestSortFileSkipsChildrenOfPinnedGroup(t *testing.T) {
	content := "" +
		"/* Begin PBXGroup section */\n" +
		"\t\tGGGGGGGGGGGGGGGGGGGGGGGG /* Products */ = {\n" +
		"\t\t\tisa = PBXGroup;\n" +
		"\t\t\tchildren = (\n" +
		"\t\t\t\tIIIIIIIIIIIIIIIIIIIIIIII /* zzz.app */,\n" +
		"\t\t\t\tHHHHHHHHHHHHHHHHHHHHHHHH /* aaa.app */,\n" +
		"\t\t\t);\n" +
		"\t\t\tsourceTree = \"<group>\";\n" +
		"\t\t};\n" +
		"/* End PBXGroup section */\n"

	path := writeTempProject(t, content)
	noSort := map[string]bool{"GGGGGGGGGGGGGGGGGGGGGGGG": true}
	result, err := sortFile(path, noSort, false)
	if err != nil {
		t.Fatalf("sortFile() error = %v", err)
	}
	if result.Modified {
		t.Fatal("expected no modification: the pinned group's children must keep their original order")
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != content {
		t.Fatalf("pinned group's children were reordered:\n%s", got)
	}
}

func TestSortFileUnexpectedLine(t *testing.T) {
	content := "" +
		"/* Begin PBXGroup section */\n" +
		"\t\tthis is not a valid section item\n" +
		"/* End PBXGroup section */\n"

	path := writeTempProject(t, content)
	_, err := sortFile(path, map[string]bool{}, false)
	if err == nil {
		t.Fatal("expected an error")
	}
	if _, ok := err.(*UnexpectedLineError); !ok {
		t.Fatalf("expected *UnexpectedLineError, got %T: %v", err, err)
	}
}

func TestSortFileNoOpIsByteExact(t *testing.T) {
	content := "" +
		"/* Begin PBXBuildFile section */\n" +
		"\t\tAAAAAAAAAAAAAAAAAAAAAAAA /* a.swift in Sources */ = {isa = PBXBuildFile; fileRef = EEEEEEEEEEEEEEEEEEEEEEEE /* a.swift */; };\n" +
		"\t\tBBBBBBBBBBBBBBBBBBBBBBBB /* b.swift in Sources */ = {isa = PBXBuildFile; fileRef = FFFFFFFFFFFFFFFFFFFFFFFF /* b.swift */; };\n" +
		"/* End PBXBuildFile section */\n"

	path := writeTempProject(t, content)
	result, err := sortFile(path, map[string]bool{}, false)
	if err != nil {
		t.Fatalf("sortFile() error = %v", err)
	}
	if result.Modified {
		t.Fatal("expected Modified = false: the file is already sorted")
	}

	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != content {
		t.Fatalf("no-op sort must not change the file:\ngot:\n%s\nwant:\n%s", got, content)
	}
}
