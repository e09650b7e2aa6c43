package lockfile

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/samber/oops"
)

const (
	FileName       = ".mdxc.lock"
	currentVersion = 1
)

type LockFile struct {
	Version int                   `json:"version"`
	Files   map[string]*LockEntry `json:"files"`
}

// LockEntry records the last successful compile of one source file. Source
// paths are relative to the project root.
type LockEntry struct {
	Hash       string    `json:"hash"`
	Options    string    `json:"options"`
	Output     string    `json:"output"`
	CompiledAt time.Time `json:"compiled_at"`
}

// Fingerprint hashes data with xxhash and returns it as hex.
func Fingerprint(data []byte) string {
	return strconv.FormatUint(xxhash.Sum64(data), 16)
}

// OptionsFingerprint hashes the JSON encoding of the compile configuration.
func OptionsFingerprint(v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", oops.
			Code("LOCK_ERROR").
			Wrapf(err, "encoding compile options")
	}

	return Fingerprint(data), nil
}

// Fresh reports whether the entry was produced from the same content and
// options, and its output still exists.
func (e *LockEntry) Fresh(hash, options string) bool {
	if e == nil || e.Hash != hash || e.Options != options {
		return false
	}

	_, err := os.Stat(e.Output)
	return err == nil
}

func Load(outputDir string) (*LockFile, error) {
	lockPath := filepath.Join(outputDir, FileName)
	data, err := os.ReadFile(lockPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return New(), nil
		}

		return nil, oops.
			Code("LOCK_ERROR").
			With("path", lockPath).
			Wrapf(err, "reading lock file")
	}

	lock := &LockFile{}
	if unmarshalErr := json.Unmarshal(data, lock); unmarshalErr != nil {
		return nil, oops.
			Code("LOCK_ERROR").
			With("path", lockPath).
			Hint("Delete the lock file or run 'mdxc build --force' to regenerate it").
			Wrapf(unmarshalErr, "parsing lock file")
	}

	if lock.Version == 0 {
		lock.Version = currentVersion
	}

	if lock.Files == nil {
		lock.Files = map[string]*LockEntry{}
	}

	return lock, nil
}

func New() *LockFile {
	return &LockFile{
		Version: currentVersion,
		Files:   map[string]*LockEntry{},
	}
}

func (l *LockFile) Save(outputDir string) error {
	if l == nil {
		return oops.
			Code("LOCK_ERROR").
			Hint("Initialize lock file state before saving").
			Errorf("cannot save nil lock file")
	}

	if l.Version == 0 {
		l.Version = currentVersion
	}

	if l.Files == nil {
		l.Files = map[string]*LockEntry{}
	}

	data, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return oops.
			Code("LOCK_ERROR").
			Wrapf(err, "encoding lock file")
	}

	data = append(data, '\n')

	if writeErr := WriteAtomic(filepath.Join(outputDir, FileName), data); writeErr != nil {
		return oops.
			Code("LOCK_ERROR").
			Wrapf(writeErr, "saving lock file")
	}

	return nil
}

func (l *LockFile) GetEntry(path string) *LockEntry {
	if l == nil {
		return nil
	}

	return l.Files[path]
}

func (l *LockFile) SetEntry(path string, entry *LockEntry) {
	if l == nil {
		return
	}

	if l.Files == nil {
		l.Files = map[string]*LockEntry{}
	}

	l.Files[path] = entry
}

func (l *LockFile) RemoveEntry(path string) {
	if l == nil || l.Files == nil {
		return
	}

	delete(l.Files, path)
}

// Prune drops entries whose source path is not in keep and returns them.
func (l *LockFile) Prune(keep []string) map[string]*LockEntry {
	if l == nil {
		return nil
	}

	wanted := make(map[string]struct{}, len(keep))
	for _, path := range keep {
		wanted[path] = struct{}{}
	}

	removed := map[string]*LockEntry{}
	for path, entry := range l.Files {
		if _, ok := wanted[path]; !ok {
			removed[path] = entry
			delete(l.Files, path)
		}
	}

	return removed
}

// WriteAtomic writes data to a temporary file next to path and renames it
// into place, creating parent directories as needed.
func WriteAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return oops.
			Code("WRITE_FAILED").
			With("path", dir).
			Wrapf(err, "creating directory")
	}

	tempFile, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return oops.
			Code("WRITE_FAILED").
			With("path", dir).
			Wrapf(err, "creating temporary file")
	}

	tempPath := tempFile.Name()
	defer func() {
		_ = os.Remove(tempPath)
	}()

	if _, writeErr := tempFile.Write(data); writeErr != nil {
		_ = tempFile.Close()
		return oops.
			Code("WRITE_FAILED").
			With("path", tempPath).
			Wrapf(writeErr, "writing temporary file")
	}

	if chmodErr := tempFile.Chmod(0o644); chmodErr != nil {
		_ = tempFile.Close()
		return oops.
			Code("WRITE_FAILED").
			With("path", tempPath).
			Wrapf(chmodErr, "setting permissions on temporary file")
	}

	if closeErr := tempFile.Close(); closeErr != nil {
		return oops.
			Code("WRITE_FAILED").
			With("path", tempPath).
			Wrapf(closeErr, "closing temporary file")
	}

	if renameErr := os.Rename(tempPath, path); renameErr != nil {
		return oops.
			Code("WRITE_FAILED").
			With("from", tempPath).
			With("to", path).
			Wrapf(renameErr, "replacing %s", filepath.Base(path))
	}

	return nil
}
