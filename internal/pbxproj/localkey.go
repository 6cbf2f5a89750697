package pbxproj

import (
	"fmt"
	"strconv"
	"strings"
)

// keyOrLiteral returns node[key] when key names a present string (or
// scalar) attribute; otherwise it returns key itself as a literal. This
// mirrors the original tool's dual-purpose "current_path_key" argument,
// which is sometimes a dict key to look up and sometimes an already-
// resolved literal string to use verbatim (e.g. a target's canonical
// path passed in by the caller).
func (o Object) keyOrLiteral(key string) string {
	if v, ok := o[key]; ok {
		return anyToString(v)
	}
	return key
}

// anyToString renders a decoded plist/JSON scalar the way Python's str()
// would: integral floats print without a trailing ".0".
func anyToString(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		if t == float64(int64(t)) {
			return strconv.FormatInt(int64(t), 10)
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

func joinKeys(o Object, keys ...string) string {
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = anyToString(o[k])
	}
	return strings.Join(parts, "/")
}

// groupLikeLocalKey derives the local key for PBXGroup, PBXVariantGroup,
// XCVersionGroup, PBXFileReference and PBXReferenceProxy nodes: "name" if
// present and non-empty, else "path", else the literal "PBXRootGroup".
func groupLikeLocalKey(node Object) string {
	if name := node.str("name"); name != "" {
		return name
	}
	if p := node.str("path"); p != "" {
		return p
	}
	return "PBXRootGroup"
}

// buildPhaseLocalKey derives the local key for a PBX*BuildPhase node.
func buildPhaseLocalKey(node Object) string {
	switch node.isa() {
	case KindShellScriptPhase:
		return node.keyOrLiteral("shellScript")
	case KindCopyFilesBuildPhase:
		if name := node.str("name"); name != "" {
			return joinKeys(node, "name", "dstSubfolderSpec", "dstPath")
		}
		return joinKeys(node, "dstSubfolderSpec", "dstPath")
	default:
		return node.isa()
	}
}

// buildRuleLocalKey derives the local key for a PBXBuildRule node.
func buildRuleLocalKey(node Object) string {
	if node.str("fileType") == "pattern.proxy" {
		return joinKeys(node, "fileType", "filePatterns")
	}
	return node.keyOrLiteral("fileType")
}

// containerItemProxyLocalKey derives the local key for a
// PBXContainerItemProxy node: "<isa>/<remoteInfo>".
func containerItemProxyLocalKey(node Object) string {
	return joinKeys(node, "isa", "remoteInfo")
}

// targetLocalKey derives the pre-assignment local key for any target kind.
func targetLocalKey(node Object) string {
	return joinKeys(node, "productName", "name")
}
