package manifest

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// Generate builds a manifest from per-file results. Absolute paths are made
// relative to root and output, and compiled files get the size of their
// output on disk.
func Generate(root, output, options string, files []FileInfo) *Manifest {
	m := New(root, output)
	m.Options = options

	for _, f := range files {
		info := f
		info.Source = relativeTo(root, f.Source)

		if f.Output != "" {
			if info.Status == StatusCompiled || info.Status == StatusSkipped {
				if stat, err := os.Stat(f.Output); err == nil {
					info.Size = stat.Size()
				}
			}
			info.Output = relativeTo(output, f.Output)
		}

		m.Files = append(m.Files, info)
	}

	slices.SortFunc(m.Files, func(a, b FileInfo) int {
		return strings.Compare(a.Source, b.Source)
	})

	return m
}

func relativeTo(base, path string) string {
	if !filepath.IsAbs(path) {
		return filepath.ToSlash(path)
	}

	rel, err := filepath.Rel(base, path)
	if err != nil {
		return filepath.ToSlash(path)
	}

	return filepath.ToSlash(rel)
}
