package pbxproj

// Options controls which stages Run executes and how the Structural
// Sorter orders PBXFileReference/PBXBuildFile sections.
type Options struct {
	// Target is a '.xcodeproj' directory or 'project.pbxproj' file.
	Target string
	// Unique, if true, runs the Identifier Uniquifier (Walk+Substitute)
	// stage. Sort, if true, runs the Structural Sorter stage. When
	// neither is set, Run performs both, Unique before Sort.
	Unique bool
	Sort   bool
	// SortByFilename sorts PBXFileReference/PBXBuildFile sections by
	// their display name instead of by assigned identifier.
	SortByFilename bool
}

// Report summarizes what Run did to the target project file.
type Report struct {
	ProjectPath string
	Modified    bool
	Warnings    []string
	// RemovedLines holds every source line Run dropped: lines that
	// referenced a removed or dangling identifier, and duplicate entries
	// of a files/children array dropped by the sorter.
	RemovedLines []string
	// Result is populated only when the Unique stage ran, and is the raw
	// old-id -> {path, new_id, isa} map produced by the walk — consumed
	// by the CLI's --debug-result dump.
	Result map[string]Entry
}

// Run performs Walk -> Substitute -> Sort over opts.Target, in that
// order, folding every stage's "did anything change" signal into one
// Report.Modified flag.
func Run(opts Options) (Report, error) {
	runUnique, runSort := opts.Unique, opts.Sort
	if !runUnique && !runSort {
		runUnique, runSort = true, true
	}

	p, err := newPipeline(opts.Target)
	if err != nil {
		return Report{}, err
	}

	report := Report{ProjectPath: p.pbxprojPath}

	if runUnique {
		if err := p.walk(); err != nil {
			return Report{}, err
		}
		subResult, err := substitute(p.pbxprojPath, p.result)
		if err != nil {
			return Report{}, err
		}
		report.Modified = report.Modified || subResult.Modified
		report.RemovedLines = append(report.RemovedLines, subResult.RemovedLines...)
		report.Result = resultSnapshot(p.result)
	}

	if runSort {
		// productGroupPins is recomputed here rather than reused from the
		// Unique stage above, since a sort-only run (Unique: false) never
		// calls p.walk() and must still honor the pin.
		sortResult, err := sortFile(p.pbxprojPath, p.productGroupPins(), opts.SortByFilename)
		if err != nil {
			return Report{}, err
		}
		report.Modified = report.Modified || sortResult.Modified
		report.RemovedLines = append(report.RemovedLines, sortResult.RemovedLines...)
	}

	report.Warnings = append(report.Warnings, p.result.warnings...)
	return report, nil
}

// resultSnapshot copies the old-id -> Entry map out of a resultStore for
// external consumption (e.g. the CLI's --debug-result dump), without
// exposing the store's mutation methods.
func resultSnapshot(r *resultStore) map[string]Entry {
	out := make(map[string]Entry, len(r.byOldID))
	for id, entry := range r.byOldID {
		out[id] = entry
	}
	return out
}
