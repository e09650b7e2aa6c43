package source

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/samber/oops"
)

// Input is one document to compile. Name is used in diagnostics and to
// detect the format.
type Input struct {
	Name    string
	Content []byte
}

// Source reads MDX input for the compile command.
type Source interface {
	Read(ctx context.Context) (*Input, error)
}

// New picks a Source for a command-line argument: "-" or "" reads stdin,
// http(s) URLs are downloaded and anything else is a file path.
func New(arg string, stdin io.Reader) Source {
	switch {
	case arg == "" || arg == "-":
		return &readerSource{name: "<stdin>", r: stdin}
	case strings.HasPrefix(arg, "http://"), strings.HasPrefix(arg, "https://"):
		return NewURL(arg)
	default:
		return &fileSource{path: arg}
	}
}

type fileSource struct {
	path string
}

func (s *fileSource) Read(_ context.Context) (*Input, error) {
	content, err := os.ReadFile(s.path)
	if err != nil {
		return nil, oops.
			Code("INPUT_READ_ERROR").
			With("path", s.path).
			Hint("Check that the file exists and is readable").
			Wrapf(err, "reading %q", s.path)
	}

	return &Input{Name: filepath.Clean(s.path), Content: content}, nil
}

type readerSource struct {
	name string
	r    io.Reader
}

func (s *readerSource) Read(_ context.Context) (*Input, error) {
	if s.r == nil {
		return nil, oops.
			Code("INPUT_READ_ERROR").
			Errorf("no input reader for %s", s.name)
	}

	content, err := io.ReadAll(s.r)
	if err != nil {
		return nil, oops.
			Code("INPUT_READ_ERROR").
			With("source", s.name).
			Wrapf(err, "reading %s", s.name)
	}

	return &Input{Name: s.name, Content: content}, nil
}
