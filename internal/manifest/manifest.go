package manifest

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"time"

	"github.com/samber/oops"

	"github.com/g5becks/mdxc/internal/lockfile"
)

const (
	CurrentVersion = "1.0.0"
	ManifestFile   = "manifest.json"
)

type Status string

const (
	StatusCompiled Status = "compiled"
	StatusSkipped  Status = "skipped"
	StatusFailed   Status = "failed"
	StatusPlanned  Status = "planned"
)

// Manifest describes the outcome of one build.
type Manifest struct {
	Version   string     `json:"version"`
	Generated time.Time  `json:"generated"`
	Root      string     `json:"root"`
	Output    string     `json:"output"`
	Options   string     `json:"options"`
	Files     []FileInfo `json:"files"`
}

// FileInfo is one source file. Paths are relative to Root and Output.
type FileInfo struct {
	Source string  `json:"source"`
	Output string  `json:"output,omitempty"`
	Size   int64   `json:"size"`
	Timing float64 `json:"timing"`
	Status Status  `json:"status"`
	Error  string  `json:"error,omitempty"`
}

func New(root, output string) *Manifest {
	return &Manifest{
		Version:   CurrentVersion,
		Generated: time.Now(),
		Root:      root,
		Output:    output,
		Files:     []FileInfo{},
	}
}

func Load(outputDir string) (*Manifest, error) {
	manifestPath := ManifestPath(outputDir)
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, oops.
				Code("MANIFEST_NOT_FOUND").
				With("path", manifestPath).
				Hint("Run 'mdxc build' to generate the manifest").
				Errorf("manifest not found at %q", manifestPath)
		}

		return nil, oops.
			Code("MANIFEST_READ_ERROR").
			With("path", manifestPath).
			Wrapf(err, "reading manifest file")
	}

	m := &Manifest{}
	if unmarshalErr := json.Unmarshal(data, m); unmarshalErr != nil {
		return nil, oops.
			Code("MANIFEST_CORRUPTED").
			With("path", manifestPath).
			Hint("Delete manifest.json and run 'mdxc build --force'").
			Wrapf(unmarshalErr, "parsing manifest file")
	}

	if m.Files == nil {
		m.Files = []FileInfo{}
	}

	return m, nil
}

func (m *Manifest) Save(outputDir string) error {
	if m == nil {
		return oops.
			Code("MANIFEST_WRITE_ERROR").
			Hint("Initialize manifest before saving").
			Errorf("cannot save nil manifest")
	}

	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return oops.
			Code("MANIFEST_WRITE_ERROR").
			Wrapf(err, "encoding manifest")
	}

	data = append(data, '\n')

	if writeErr := lockfile.WriteAtomic(ManifestPath(outputDir), data); writeErr != nil {
		return oops.
			Code("MANIFEST_WRITE_ERROR").
			With("path", outputDir).
			Wrapf(writeErr, "saving manifest")
	}

	return nil
}

// Count returns how many files ended with status s.
func (m *Manifest) Count(s Status) int {
	n := 0
	for _, f := range m.Files {
		if f.Status == s {
			n++
		}
	}
	return n
}

func ManifestPath(outputDir string) string {
	return filepath.Join(outputDir, ManifestFile)
}
