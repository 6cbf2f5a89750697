package pbxproj

import (
	"fmt"
	"strings"
)

// PathNotFoundError is returned when the target path does not exist.
type PathNotFoundError struct {
	Path string
}

func (e *PathNotFoundError) Error() string {
	return fmt.Sprintf("path %q not found", e.Path)
}

// PathNotProjectError is returned when the target path is neither a
// '.xcodeproj' directory nor a 'project.pbxproj' file.
type PathNotProjectError struct {
	Path string
}

func (e *PathNotProjectError) Error() string {
	return fmt.Sprintf("path %q must be a '.xcodeproj' directory or a 'project.pbxproj' file", e.Path)
}

// LoaderFailureError is returned when the external text-to-tree converter
// (plutil) fails or is unavailable. Output carries the converter's own
// stderr so the caller can diagnose malformed input.
type LoaderFailureError struct {
	Output string
}

func (e *LoaderFailureError) Error() string {
	return fmt.Sprintf(`%s
Please check:
1. Xcode Command Line Tools are installed and 'plutil' is on $PATH;
2. the project file is not broken (merge conflicts, truncated content).`, e.Output)
}

// ProjectNameNotFoundError is returned when the root PBXProject name line
// cannot be found by scanning the raw project file.
type ProjectNameNotFoundError struct {
	Path string
}

func (e *ProjectNameNotFoundError) Error() string {
	msg := fmt.Sprintf("file %q is broken: cannot find PBXProject name", e.Path)
	if strings.Contains(e.Path, "Pods.xcodeproj") {
		msg += "\nPods project file should be in ASCII format, but CocoaPods may have converted it to XML. Install 'xcproj' via brew to fix."
	}
	return msg
}

// BrokenDependencyError is returned when a PBXTargetDependency lacks a
// targetProxy attribute.
type BrokenDependencyError struct {
	ID string
}

func (e *BrokenDependencyError) Error() string {
	return fmt.Sprintf("PBXTargetDependency %q is invalid: missing 'targetProxy' attribute", e.ID)
}

// UnexpectedLineError is returned when the structural sorter encounters a
// line that does not conform to the section/array grammar it recognizes.
type UnexpectedLineError struct {
	Line string
}

func (e *UnexpectedLineError) Error() string {
	return fmt.Sprintf("unexpected line:\n%s", e.Line)
}
