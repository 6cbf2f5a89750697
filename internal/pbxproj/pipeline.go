package pbxproj

import "path/filepath"

// pipeline is one run of the loader+walker over a single project file. The
// root pipeline owns a memoized cache of sibling-project pipelines reached
// through PBXContainerItemProxy cross-project references.
type pipeline struct {
	pbxprojPath  string
	xcodeprojDir string // absolute path to the ".xcodeproj" directory
	displayName  string // project name without the ".xcodeproj" suffix

	objects Store
	rootID  string

	result *resultStore

	// cache is shared with every pipeline reached transitively through
	// cross-project references, so a sibling project is materialized at
	// most once no matter how many proxies point at it.
	cache *subprojectCache
}

// subprojectCache memoizes sibling pipelines by their absolute xcodeproj
// directory path. It is created once by the root pipeline and threaded
// through every subproject it resolves.
type subprojectCache struct {
	byPath map[string]*pipeline
}

// newPipeline loads target (a '.xcodeproj' dir or 'project.pbxproj' file)
// and prepares an empty result store seeded with the project root entry.
func newPipeline(target string) (*pipeline, error) {
	return newPipelineWithCache(target, &subprojectCache{byPath: make(map[string]*pipeline)})
}

func newPipelineWithCache(target string, cache *subprojectCache) (*pipeline, error) {
	pbxprojPath, xcodeprojDir, err := resolveProjectPath(target)
	if err != nil {
		return nil, err
	}

	name, err := projectDisplayName(pbxprojPath)
	if err != nil {
		return nil, err
	}

	loaded, err := load(pbxprojPath)
	if err != nil {
		return nil, err
	}

	p := &pipeline{
		pbxprojPath:  pbxprojPath,
		xcodeprojDir: xcodeprojDir,
		displayName:  name,
		objects:      loaded.Objects,
		rootID:       loaded.RootID,
		result:       newResultStore(),
		cache:        cache,
	}

	rootPath := name + ".xcodeproj"
	rootIsa := p.objects[p.rootID].isa()
	p.result.assign(p.rootID, rootPath, Hash(rootPath), rootIsa)
	return p, nil
}

// parentDir is the directory containing the '.xcodeproj' directory,
// against which sibling project references are resolved.
func (p *pipeline) parentDir() string {
	return filepath.Dir(p.xcodeprojDir)
}

func (p *pipeline) rootObject() Object {
	return p.objects[p.rootID]
}

// rootPath returns the canonical path already assigned to the root object.
func (p *pipeline) rootPath() string {
	e, _ := p.result.get(p.rootID)
	return e.Path
}

// productGroupPins returns the set of ids, as they will actually appear in
// the rewritten file, of every group referenced as
// projectReferences[*].ProductGroup; the structural sorter must not reorder
// their children. It reads root.projectReferences directly rather than
// relying on a prior walk, so a sort-only run still honors the pin: when
// the walker has assigned ProductGroup a new id, that new id is used,
// otherwise the id falls back to the raw old id unchanged.
func (p *pipeline) productGroupPins() map[string]bool {
	pins := make(map[string]bool)
	refs, ok := p.rootObject()["projectReferences"].([]any)
	if !ok {
		return pins
	}
	for _, raw := range refs {
		ref, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		productGroup := Object(ref).str("ProductGroup")
		if productGroup == "" {
			continue
		}
		if e, ok := p.result.get(productGroup); ok {
			pins[e.NewID] = true
		} else {
			pins[productGroup] = true
		}
	}
	return pins
}
