package parser

import (
	"path/filepath"
	"sort"
	"strings"
)

// StripBOM removes a UTF-8 BOM (0xEF, 0xBB, 0xBF) if present.
func StripBOM(content string) string {
	return strings.TrimPrefix(content, "\uFEFF")
}

// NormalizeNewlines converts CRLF and lone CR line endings to LF.
func NormalizeNewlines(content string) string {
	if !strings.Contains(content, "\r") {
		return content
	}
	content = strings.ReplaceAll(content, "\r\n", "\n")
	return strings.ReplaceAll(content, "\r", "\n")
}

// DetectFileType maps file extension to type string.
// Returns: "md", "mdx", or "unknown".
func DetectFileType(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".md", ".markdown":
		return "md"
	case ".mdx":
		return "mdx"
	default:
		return "unknown"
	}
}

// ResolveFormat turns FormatDetect into a concrete format using the file path.
func ResolveFormat(format Format, path string) Format {
	if format != FormatDetect {
		return format
	}
	if DetectFileType(path) == "md" {
		return FormatMarkdown
	}
	return FormatMDX
}

// SplitFrontmatter separates a leading `---` delimited YAML block from the
// body. It returns the raw YAML, the offset where the body starts, and
// whether a block was found. An opening fence without a closing one is
// reported through ok=true and bodyStart=-1.
func SplitFrontmatter(content string) (yaml string, bodyStart int, ok bool) {
	if !strings.HasPrefix(content, "---\n") {
		return "", 0, false
	}

	start := len("---\n")
	if strings.HasPrefix(content[start:], "---\n") || content[start:] == "---" {
		return "", min(len(content), start+len("---\n")), true
	}

	end := strings.Index(content[start:], "\n---\n")
	skip := len("\n---\n")
	if end == -1 {
		if !strings.HasSuffix(content, "\n---") {
			return "", -1, true
		}
		end = len(content) - start - len("\n---")
		skip = len("\n---")
	}

	return content[start : start+end], start + end + skip, true
}

// lineIndex maps byte offsets to 1-based line and column numbers.
type lineIndex struct {
	starts []int
}

func newLineIndex(src string) *lineIndex {
	starts := []int{0}
	for i := 0; i < len(src); i++ {
		if src[i] == '\n' {
			starts = append(starts, i+1)
		}
	}
	return &lineIndex{starts: starts}
}

func (l *lineIndex) point(offset int) Point {
	line := sort.Search(len(l.starts), func(i int) bool { return l.starts[i] > offset }) - 1
	if line < 0 {
		line = 0
	}
	return Point{
		Line:   line + 1,
		Column: offset - l.starts[line] + 1,
		Offset: offset,
	}
}

func (l *lineIndex) position(start, end int) Position {
	return Position{Start: l.point(start), End: l.point(end)}
}
