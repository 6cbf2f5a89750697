package pbxproj

import "log/slog"

// walk performs the full typed traversal from the project root, assigning
// a canonical path and new identifier to every reachable object. The root
// entry is already seeded by newPipeline.
func (p *pipeline) walk() error {
	return p.walkProject()
}

// assignChild implements the per-child procedure common to every kind:
// derive the child's canonical path from its parent's, hash it, and
// record the result. It does not recurse.
func (p *pipeline) assignChild(parentID, childID, localKey string) string {
	node := p.objects[childID]
	isa := node.isa()
	parentEntry, _ := p.result.get(parentID)
	childPath := parentEntry.Path + "/" + localKey
	canonical := isa + "[" + childPath + "]"
	return p.result.assign(childID, canonical, Hash(childPath), isa)
}

func (p *pipeline) walkProject() error {
	root := p.rootObject()

	if mainGroup := root.str("mainGroup"); mainGroup != "" {
		p.walkGroupOrRef(p.rootID, mainGroup)
	}

	if bcl := root.str("buildConfigurationList"); bcl != "" {
		p.walkBuildConfigurationList(p.rootID, bcl)
	}

	if refs, ok := root["projectReferences"].([]any); ok {
		for _, raw := range refs {
			ref, ok := raw.(map[string]any)
			if !ok {
				continue
			}
			refObj := Object(ref)
			productGroup := refObj.str("ProductGroup")
			projectRef := refObj.str("ProjectRef")
			if productGroup == "" || projectRef == "" {
				continue
			}
			p.walkGroupOrRef(projectRef, productGroup)
		}
	}

	targetIDs := root.ids("targets")
	// Pre-assign every target first so PBXTargetDependency can resolve a
	// canonical path even when walked before its referenced target has
	// been walked itself.
	for _, targetID := range targetIDs {
		if _, ok := p.objects[targetID]; !ok {
			continue
		}
		p.assignChild(p.rootID, targetID, targetLocalKey(p.objects[targetID]))
	}
	for _, targetID := range targetIDs {
		if _, ok := p.objects[targetID]; !ok {
			continue
		}
		if err := p.walkTarget(targetID); err != nil {
			return err
		}
	}

	return nil
}

// walkGroupOrRef handles PBXGroup, PBXVariantGroup, XCVersionGroup,
// PBXFileReference and PBXReferenceProxy nodes.
func (p *pipeline) walkGroupOrRef(parentID, id string) {
	node, ok := p.objects[id]
	if !ok {
		slog.Debug("group/file-reference/reference-proxy not found, removing", "id", id)
		p.result.markRemoved(id)
		return
	}

	p.assignChild(parentID, id, groupLikeLocalKey(node))

	for _, childID := range node.ids("children") {
		p.walkGroupOrRef(id, childID)
	}

	if node.isa() == KindReferenceProxy {
		if remoteRef := node.str("remoteRef"); remoteRef != "" {
			p.walkContainerItemProxy(parentID, remoteRef)
		}
	}
}

func (p *pipeline) walkBuildConfigurationList(parentID, id string) {
	node, ok := p.objects[id]
	if !ok {
		return
	}
	p.assignChild(parentID, id, node.keyOrLiteral("defaultConfigurationName"))
	for _, configID := range node.ids("buildConfigurations") {
		p.walkBuildConfiguration(id, configID)
	}
}

func (p *pipeline) walkBuildConfiguration(parentID, id string) {
	node, ok := p.objects[id]
	if !ok {
		return
	}
	p.assignChild(parentID, id, node.keyOrLiteral("name"))
}

func (p *pipeline) walkTarget(id string) error {
	node, ok := p.objects[id]
	if !ok {
		return nil
	}
	if bcl := node.str("buildConfigurationList"); bcl != "" {
		p.walkBuildConfigurationList(id, bcl)
	}
	for _, depID := range node.ids("dependencies") {
		if err := p.walkTargetDependency(id, depID); err != nil {
			return err
		}
	}
	for _, phaseID := range node.ids("buildPhases") {
		p.walkBuildPhase(id, phaseID)
	}
	for _, ruleID := range node.ids("buildRules") {
		p.walkBuildRule(id, ruleID)
	}
	return nil
}

func (p *pipeline) walkTargetDependency(parentID, id string) error {
	node, ok := p.objects[id]
	if !ok {
		p.result.markRemoved(id)
		return nil
	}

	var localKey string
	if targetHex := node.str("target"); targetHex != "" {
		if targetEntry, ok := p.result.get(targetHex); ok {
			localKey = targetEntry.Path
		} else {
			localKey = node.keyOrLiteral("name")
		}
	} else {
		localKey = node.keyOrLiteral("name")
	}
	p.assignChild(parentID, id, localKey)

	proxyID := node.str("targetProxy")
	if proxyID == "" {
		return &BrokenDependencyError{ID: id}
	}
	p.walkContainerItemProxy(id, proxyID)
	return nil
}

func (p *pipeline) walkBuildPhase(parentID, id string) {
	node, ok := p.objects[id]
	if !ok {
		return
	}
	p.assignChild(parentID, id, buildPhaseLocalKey(node))
	for _, fileID := range node.ids("files") {
		p.walkBuildFile(id, fileID)
	}
}

func (p *pipeline) walkBuildFile(parentID, id string) {
	node, ok := p.objects[id]
	if !ok {
		p.result.markRemoved(id)
		return
	}
	fileRefID := node.str("fileRef")
	if fileRefID == "" {
		p.result.markRemoved(id)
		return
	}
	fileRefEntry, ok := p.result.get(fileRefID)
	if !ok {
		p.result.markRemoved(id)
		p.result.markRemoved(fileRefID)
		return
	}
	p.assignChild(parentID, id, fileRefEntry.Path)
}

func (p *pipeline) walkBuildRule(parentID, id string) {
	node, ok := p.objects[id]
	if !ok {
		p.result.markRemoved(id)
		return
	}
	p.assignChild(parentID, id, buildRuleLocalKey(node))
}
