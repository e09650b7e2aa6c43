package lockfile_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/g5becks/mdxc/internal/lockfile"
)

func TestLoadReturnsEmptyLockWhenFileMissing(t *testing.T) {
	t.Parallel()

	outputDir := t.TempDir()

	lock, err := lockfile.Load(outputDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if lock.Version != 1 {
		t.Fatalf("Version = %d, want 1", lock.Version)
	}

	if len(lock.Files) != 0 {
		t.Fatalf("Files len = %d, want 0", len(lock.Files))
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	t.Parallel()

	outputDir := t.TempDir()
	now := time.Now().UTC().Truncate(time.Second)

	lock := lockfile.New()
	lock.SetEntry("docs/intro.mdx", &lockfile.LockEntry{
		Hash:       "abc123",
		Options:    "def456",
		Output:     filepath.Join(outputDir, "docs", "intro.js"),
		CompiledAt: now,
	})

	if err := lock.Save(outputDir); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	loaded, err := lockfile.Load(outputDir)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	entry := loaded.GetEntry("docs/intro.mdx")
	if entry == nil {
		t.Fatalf("GetEntry(docs/intro.mdx) = nil, want non-nil")
	}

	if entry.Hash != "abc123" || entry.Options != "def456" {
		t.Fatalf("entry = %+v, want hash abc123 and options def456", entry)
	}

	if !entry.CompiledAt.Equal(now) {
		t.Fatalf("CompiledAt = %v, want %v", entry.CompiledAt, now)
	}
}

func TestSaveWritesAtomicallyWithoutTempFilesLeft(t *testing.T) {
	t.Parallel()

	outputDir := t.TempDir()
	lock := lockfile.New()
	lock.SetEntry("a.mdx", &lockfile.LockEntry{Hash: "1", CompiledAt: time.Now().UTC()})

	if err := lock.Save(outputDir); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	tempMatches, err := filepath.Glob(filepath.Join(outputDir, ".mdxc.lock.*.tmp"))
	if err != nil {
		t.Fatalf("Glob() error = %v", err)
	}

	if len(tempMatches) != 0 {
		t.Fatalf("temporary files left behind: %v", tempMatches)
	}

	lockPath := filepath.Join(outputDir, lockfile.FileName)
	if _, statErr := os.Stat(lockPath); statErr != nil {
		t.Fatalf("expected lock file at %q: %v", lockPath, statErr)
	}
}

func TestLoadInvalidJSONReturnsError(t *testing.T) {
	t.Parallel()

	outputDir := t.TempDir()
	lockPath := filepath.Join(outputDir, lockfile.FileName)
	if err := os.WriteFile(lockPath, []byte("{invalid"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	_, err := lockfile.Load(outputDir)
	if err == nil {
		t.Fatalf("Load() error = nil, want non-nil")
	}

	if !strings.Contains(err.Error(), "parsing lock file") {
		t.Fatalf("Load() error = %q, expected parsing message", err.Error())
	}
}

func TestEntryCRUD(t *testing.T) {
	t.Parallel()

	lock := lockfile.New()
	if entry := lock.GetEntry("missing"); entry != nil {
		t.Fatalf("GetEntry(missing) = %v, want nil", entry)
	}

	lock.SetEntry("a.mdx", &lockfile.LockEntry{Hash: "1"})

	got := lock.GetEntry("a.mdx")
	if got == nil || got.Hash != "1" {
		t.Fatalf("GetEntry(a.mdx) = %v, want hash 1", got)
	}

	lock.RemoveEntry("a.mdx")
	if lock.GetEntry("a.mdx") != nil {
		t.Fatalf("GetEntry(a.mdx) after RemoveEntry() = non-nil, want nil")
	}
}

func TestPrune(t *testing.T) {
	t.Parallel()

	lock := lockfile.New()
	lock.SetEntry("keep.mdx", &lockfile.LockEntry{Hash: "1"})
	lock.SetEntry("gone.mdx", &lockfile.LockEntry{Hash: "2", Output: "gone.js"})

	removed := lock.Prune([]string{"keep.mdx"})

	if len(removed) != 1 || removed["gone.mdx"] == nil {
		t.Fatalf("Prune() removed = %v, want gone.mdx", removed)
	}

	if lock.GetEntry("keep.mdx") == nil {
		t.Fatalf("keep.mdx was pruned")
	}
}

func TestFresh(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	output := filepath.Join(dir, "page.js")
	if err := os.WriteFile(output, []byte("export default 1"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	entry := &lockfile.LockEntry{Hash: "h", Options: "o", Output: output}

	tests := []struct {
		name    string
		entry   *lockfile.LockEntry
		hash    string
		options string
		want    bool
	}{
		{name: "same", entry: entry, hash: "h", options: "o", want: true},
		{name: "content changed", entry: entry, hash: "x", options: "o", want: false},
		{name: "options changed", entry: entry, hash: "h", options: "x", want: false},
		{name: "nil entry", entry: nil, hash: "h", options: "o", want: false},
		{
			name:    "output missing",
			entry:   &lockfile.LockEntry{Hash: "h", Options: "o", Output: filepath.Join(dir, "missing.js")},
			hash:    "h",
			options: "o",
			want:    false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.entry.Fresh(tt.hash, tt.options); got != tt.want {
				t.Errorf("Fresh() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFingerprint(t *testing.T) {
	t.Parallel()

	a := lockfile.Fingerprint([]byte("# Hello"))
	b := lockfile.Fingerprint([]byte("# Hello"))
	c := lockfile.Fingerprint([]byte("# Hello!"))

	if a != b {
		t.Fatalf("Fingerprint() not stable: %q != %q", a, b)
	}

	if a == c {
		t.Fatalf("Fingerprint() collided for different input")
	}

	opts, err := lockfile.OptionsFingerprint(map[string]any{"jsx": true})
	if err != nil {
		t.Fatalf("OptionsFingerprint() error = %v", err)
	}

	if opts == "" {
		t.Fatalf("OptionsFingerprint() = empty")
	}
}

func TestWriteAtomicCreatesParents(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "a", "b", "out.js")
	if err := lockfile.WriteAtomic(path, []byte("x")); err != nil {
		t.Fatalf("WriteAtomic() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}

	if string(data) != "x" {
		t.Fatalf("content = %q, want %q", data, "x")
	}
}

func TestSaveOnNilLockReturnsError(t *testing.T) {
	t.Parallel()

	var lock *lockfile.LockFile

	err := lock.Save(t.TempDir())
	if err == nil {
		t.Fatalf("Save() error = nil, want non-nil")
	}

	if !strings.Contains(err.Error(), "cannot save nil lock file") {
		t.Fatalf("Save() error = %q, expected nil-lock message", err.Error())
	}
}
