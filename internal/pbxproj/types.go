// Package pbxproj normalizes an Xcode project.pbxproj file so that it
// produces stable, deterministic content across machines, developers and
// branches. It uniquifies every object identifier to a content-derived
// hash of the object's logical position in the project graph, and sorts
// sections and intra-object collections by deterministic keys.
package pbxproj

import "fmt"

// Object is an untyped attribute bag as decoded from the project's JSON
// representation. Every object carries an "isa" entry identifying its kind.
type Object map[string]any

// Store maps an object's 24- or 32-hex-character identifier to its node.
type Store map[string]Object

// isa returns the object's kind tag, or "" if absent.
func (o Object) isa() string {
	s, _ := o["isa"].(string)
	return s
}

// str returns the string value at key, or "" if absent or not a string.
func (o Object) str(key string) string {
	s, _ := o[key].(string)
	return s
}

// ids returns the string-id list at key, ignoring non-string entries.
func (o Object) ids(key string) []string {
	raw, ok := o[key].([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(raw))
	for _, v := range raw {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// Kind constants for the closed set of isa tags this engine understands.
const (
	KindProject              = "PBXProject"
	KindGroup                = "PBXGroup"
	KindVariantGroup         = "PBXVariantGroup"
	KindVersionGroup         = "XCVersionGroup"
	KindFileReference        = "PBXFileReference"
	KindReferenceProxy       = "PBXReferenceProxy"
	KindBuildFile            = "PBXBuildFile"
	KindNativeTarget         = "PBXNativeTarget"
	KindAggregateTarget      = "PBXAggregateTarget"
	KindTargetDependency     = "PBXTargetDependency"
	KindContainerItemProxy   = "PBXContainerItemProxy"
	KindConfigurationList    = "XCConfigurationList"
	KindBuildConfiguration   = "XCBuildConfiguration"
	KindSourcesBuildPhase    = "PBXSourcesBuildPhase"
	KindFrameworksBuildPhase = "PBXFrameworksBuildPhase"
	KindResourcesBuildPhase  = "PBXResourcesBuildPhase"
	KindCopyFilesBuildPhase  = "PBXCopyFilesBuildPhase"
	KindHeadersBuildPhase    = "PBXHeadersBuildPhase"
	KindShellScriptPhase     = "PBXShellScriptBuildPhase"
	KindBuildRule            = "PBXBuildRule"
)

// isTarget reports whether isa names a target kind.
func isTarget(isa string) bool {
	return isa == KindNativeTarget || isa == KindAggregateTarget
}

// isGroupLike reports whether isa names a node walked by the
// group/file-reference/reference-proxy recursion.
func isGroupLike(isa string) bool {
	switch isa {
	case KindGroup, KindVariantGroup, KindVersionGroup, KindFileReference, KindReferenceProxy:
		return true
	default:
		return false
	}
}

// Entry is a Result Store record for one old identifier.
type Entry struct {
	Path  string // canonical path, e.g. "PBXFileReference[MyApp.xcodeproj/.../AppDelegate.swift]"
	NewID string // 32 uppercase hex characters
	Isa   string
}

// Warnings accumulates non-fatal conditions encountered during a run.
type Warnings []string

func (w *Warnings) add(format string, args ...any) {
	*w = append(*w, fmt.Sprintf(format, args...))
}
