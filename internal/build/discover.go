package build

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/samber/oops"

	"github.com/g5becks/mdxc/internal/config"
)

// Discover returns the source files selected by the include and exclude
// patterns, as slash-separated paths relative to cfg.Root, sorted. Files
// inside the output directory, node_modules or a hidden directory are never
// selected.
func Discover(cfg *config.Config) ([]string, error) {
	for _, pattern := range cfg.Include {
		if !doublestar.ValidatePattern(pattern) {
			return nil, oops.
				Code("CONFIG_INVALID").
				With("pattern", pattern).
				Hint("Check the include patterns in mdxc.toml").
				Errorf("invalid include pattern %q", pattern)
		}
	}

	outputRel := outputPrefix(cfg)

	var (
		files    []string
		matchErr error
	)

	walkErr := fs.WalkDir(os.DirFS(cfg.Root), ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path != "." && (ignoredDir(d.Name()) || path == outputRel) {
				return fs.SkipDir
			}
			return nil
		}

		if !included(cfg.Include, path) {
			return nil
		}

		excluded, err := isExcluded(path, cfg.Exclude)
		if err != nil {
			matchErr = err
			return fs.SkipAll
		}

		if !excluded {
			files = append(files, path)
		}
		return nil
	})
	if matchErr != nil {
		return nil, matchErr
	}
	if walkErr != nil {
		return nil, oops.
			Code("INPUT_READ_ERROR").
			With("root", cfg.Root).
			Hint("Check that root in mdxc.toml points to a readable directory").
			Wrapf(walkErr, "searching %q for sources", cfg.Root)
	}

	slices.Sort(files)
	return files, nil
}

// checkOutputs fails when two sources compile to the same file, as
// page.md and page.mdx do.
func checkOutputs(cfg *config.Config, files []string) error {
	owners := make(map[string]string, len(files))

	for _, rel := range files {
		output, err := cfg.OutputPath(filepath.Join(cfg.Root, filepath.FromSlash(rel)))
		if err != nil {
			return err
		}

		if other, taken := owners[output]; taken {
			return oops.
				Code("CONFIG_INVALID").
				With("sources", []string{other, rel}).
				With("output", output).
				Hint("Rename one of the sources or add it to exclude in mdxc.toml").
				Errorf("%q and %q both compile to %q", other, rel, output)
		}
		owners[output] = rel
	}

	return nil
}

func included(patterns []string, path string) bool {
	return slices.ContainsFunc(patterns, func(pattern string) bool {
		matched, err := doublestar.Match(pattern, path)
		return err == nil && matched
	})
}

func isExcluded(path string, patterns []string) (bool, error) {
	for _, pattern := range patterns {
		matched, err := doublestar.Match(pattern, path)
		if err != nil {
			return false, oops.
				Code("CONFIG_INVALID").
				With("pattern", pattern).
				Wrapf(err, "matching exclude pattern %q", pattern)
		}

		if matched {
			return true, nil
		}
	}

	return false, nil
}

func ignoredDir(name string) bool {
	return name == "node_modules" || strings.HasPrefix(name, ".")
}

// inIgnoredDir reports whether a directory on the slash-separated path rel
// is one Discover does not enter.
func inIgnoredDir(rel string) bool {
	dirs := strings.Split(rel, "/")
	return slices.ContainsFunc(dirs[:len(dirs)-1], ignoredDir)
}

// outputPrefix is the output directory relative to the root, or "" when it
// lies outside the root.
func outputPrefix(cfg *config.Config) string {
	rel, err := filepath.Rel(cfg.Root, cfg.Output)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return ""
	}

	return filepath.ToSlash(rel)
}

// Selected reports whether the root-relative path rel would be picked up by
// Discover.
func Selected(cfg *config.Config, rel string) bool {
	if rel == "" || rel == "." || strings.HasPrefix(rel, "../") || inIgnoredDir(rel) {
		return false
	}

	if outputRel := outputPrefix(cfg); outputRel != "" && (rel == outputRel || strings.HasPrefix(rel, outputRel+"/")) {
		return false
	}

	if !included(cfg.Include, rel) {
		return false
	}

	excluded, err := isExcluded(rel, cfg.Exclude)
	return err == nil && !excluded
}
