package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/k-kohey/xcuniq/internal/pbxproj"
)

func runRoot(cmd *cobra.Command, args []string) error {
	target := args[0]

	report, err := pbxproj.Run(pbxproj.Options{
		Target:         target,
		Unique:         onlyUnique,
		Sort:           onlySort,
		SortByFilename: sortByFilename,
	})
	if err != nil {
		return err
	}

	for _, w := range report.Warnings {
		slog.Warn(w)
	}
	for _, line := range report.RemovedLines {
		slog.Debug("removed line", "line", strings.TrimRight(line, "\n"))
	}

	if debugResult && verbose && report.Result != nil {
		if err := writeDebugResult(report); err != nil {
			return err
		}
	}

	if report.Modified {
		slog.Info("project file updated", "path", report.ProjectPath)
	} else {
		slog.Debug("project file already normalized", "path", report.ProjectPath)
	}

	if combineCommit && report.Modified {
		os.Exit(100)
	}
	return nil
}

// writeDebugResult dumps the uniquification result map as YAML next to
// the project file, for inspecting what path and new id each old
// identifier resolved to.
func writeDebugResult(report pbxproj.Report) error {
	yamlBytes, err := yaml.Marshal(report.Result)
	if err != nil {
		return fmt.Errorf("marshaling debug result: %w", err)
	}

	debugPath := filepath.Join(filepath.Dir(report.ProjectPath), "xcuniq_debug_result.yaml")
	if err := os.WriteFile(debugPath, yamlBytes, 0o644); err != nil {
		return fmt.Errorf("writing debug result: %w", err)
	}
	slog.Debug("wrote debug result", "path", debugPath)
	return nil
}
