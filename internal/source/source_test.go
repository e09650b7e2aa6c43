package source_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/g5becks/mdxc/internal/source"
)

func TestNewReadsFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "page.mdx")
	if err := os.WriteFile(path, []byte("# Page\n"), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}

	input, err := source.New(path, nil).Read(context.Background())
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if input.Name != path {
		t.Fatalf("Name = %q, want %q", input.Name, path)
	}

	if string(input.Content) != "# Page\n" {
		t.Fatalf("Content = %q", input.Content)
	}
}

func TestNewMissingFile(t *testing.T) {
	t.Parallel()

	_, err := source.New(filepath.Join(t.TempDir(), "missing.mdx"), nil).Read(context.Background())
	if err == nil {
		t.Fatalf("Read() error = nil, want non-nil")
	}

	if !strings.Contains(err.Error(), "missing.mdx") {
		t.Fatalf("Read() error = %q, expected path in message", err.Error())
	}
}

func TestNewReadsStdin(t *testing.T) {
	t.Parallel()

	for _, arg := range []string{"", "-"} {
		input, err := source.New(arg, strings.NewReader("hello")).Read(context.Background())
		if err != nil {
			t.Fatalf("Read(%q) error = %v", arg, err)
		}

		if input.Name != "<stdin>" || string(input.Content) != "hello" {
			t.Fatalf("Read(%q) = %+v", arg, input)
		}
	}
}
