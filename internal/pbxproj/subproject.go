package pbxproj

import (
	"path/filepath"
	"strconv"
)

// walkContainerItemProxy handles PBXContainerItemProxy nodes, including
// resolution of proxies that point into a sibling project.
func (p *pipeline) walkContainerItemProxy(parentID, id string) {
	node, ok := p.objects[id]
	if !ok {
		p.result.markRemoved(id)
		return
	}

	newID := p.assignChild(parentID, id, containerItemProxyLocalKey(node))

	remoteGlobalID := node.str("remoteGlobalIDString")
	if remoteGlobalID == "" {
		p.warnProxyNotNeeded(newID)
		return
	}
	if _, already := p.result.get(remoteGlobalID); already {
		return
	}

	portalID := node.str("containerPortal")
	if _, ok := p.result.get(portalID); portalID == "" || !ok {
		p.result.warn("dependency no longer needed")
		return
	}

	portal, ok := p.objects[portalID]
	if !ok || portal.str("path") == "" {
		return
	}

	abspath := filepath.Clean(filepath.Join(p.xcodeprojDir, "..", portal.str("path")))
	if abspath == filepath.Clean(p.xcodeprojDir) {
		// Proxy into the current project itself; ignore.
		return
	}

	remoteInfo := node.str("remoteInfo")
	if remoteInfo == "" {
		p.result.warn("dependency no longer needed")
		return
	}

	sub, err := p.subproject(abspath)
	if err != nil {
		p.result.warn("could not resolve subproject %q: %s", abspath, err)
		return
	}

	proxyType := -1
	if v, ok := node["proxyType"]; ok {
		if s := anyToString(v); s != "" {
			if n, err := strconv.Atoi(s); err == nil {
				proxyType = n
			}
		}
	}

	switch proxyType {
	case 1:
		p.result.setRemote(remoteGlobalID, sub.remoteTargetNewID(remoteInfo, remoteGlobalID))
	case 2:
		p.result.setRemote(remoteGlobalID, sub.remoteProductNewID(remoteInfo, remoteGlobalID))
	default:
		p.result.warn("PBXContainerItemProxy %q has unsupported proxyType; not uniquified", remoteGlobalID)
		p.result.setRemote(remoteGlobalID, remoteGlobalID)
	}
}

func (p *pipeline) warnProxyNotNeeded(newContainerItemProxyID string) {
	p.result.warn("PBXTargetDependency and its child PBXContainerItemProxy %q are not needed anymore, please remove their sections manually", newContainerItemProxyID)
}

// remoteTargetNewID finds the sibling target named remoteInfo and returns
// its new identifier (proxyType == 1).
func (p *pipeline) remoteTargetNewID(remoteInfo, fallback string) string {
	for _, targetID := range p.rootObject().ids("targets") {
		target, ok := p.objects[targetID]
		if !ok {
			continue
		}
		if target.str("name") == remoteInfo {
			if e, ok := p.result.get(targetID); ok {
				return e.NewID
			}
		}
	}
	return fallback
}

// remoteProductNewID finds the sibling target named remoteInfo and returns
// the new identifier of its productReference (proxyType == 2).
func (p *pipeline) remoteProductNewID(remoteInfo, fallback string) string {
	for _, targetID := range p.rootObject().ids("targets") {
		target, ok := p.objects[targetID]
		if !ok {
			continue
		}
		if target.str("name") == remoteInfo {
			productRef := target.str("productReference")
			if e, ok := p.result.get(productRef); ok {
				return e.NewID
			}
			return fallback
		}
	}
	return fallback
}

// subproject lazily instantiates (and memoizes) the full walker pipeline
// for the sibling project at abspath.
func (p *pipeline) subproject(abspath string) (*pipeline, error) {
	if sub, ok := p.cache.byPath[abspath]; ok {
		return sub, nil
	}
	sub, err := newPipelineWithCache(abspath, p.cache)
	if err != nil {
		return nil, err
	}
	p.cache.byPath[abspath] = sub
	if err := sub.walk(); err != nil {
		return nil, err
	}
	return sub, nil
}
