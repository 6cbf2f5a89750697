// Command xcuniq normalizes a project.pbxproj file: it rewrites every
// object identifier to a content-derived hash of its position in the
// project graph, then sorts sections and collections into a deterministic
// order, so the file diffs cleanly across machines, developers and
// branches.
package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/k-kohey/xcuniq/internal/pbxproj/rc"
)

var (
	verbose        bool
	onlyUnique     bool
	onlySort       bool
	sortByFilename bool
	combineCommit  bool
	debugResult    bool
)

var rootCmd = &cobra.Command{
	Use:   "xcuniq [path/to/Project.xcodeproj | path/to/project.pbxproj]",
	Short: "Normalize an Xcode project.pbxproj file for clean diffs",
	Long: "xcuniq rewrites an Xcode project's object identifiers to content-derived\n" +
		"hashes and sorts its sections into a deterministic order, so the file\n" +
		"produces the same bytes no matter which machine or branch generated it.",
	Args: cobra.ExactArgs(1),
	RunE: runRoot,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rcMap := rc.Read()
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", rc.Bool(rcMap, "VERBOSE"), "verbose logging")
	rootCmd.Flags().BoolVar(&onlyUnique, "unique", false, "run uniquification only")
	rootCmd.Flags().BoolVar(&onlySort, "sort", false, "run sorting only")
	rootCmd.Flags().BoolVar(&sortByFilename, "sort-pbx-by-filename", rc.Bool(rcMap, "SORT_PBX_BY_FILENAME"), "sort PBXFileReference/PBXBuildFile sections by display name")
	rootCmd.Flags().BoolVar(&combineCommit, "combine-commit", false, "exit 100 instead of 0 when the file was modified")
	rootCmd.Flags().BoolVar(&debugResult, "debug-result", false, "dump the uniquification result map as YAML next to the project (verbose only)")
}

func initConfig() {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})))
}
