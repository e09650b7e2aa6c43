package parser_test

import (
	"testing"

	"github.com/g5becks/mdxc/internal/parser"
)

func TestStripBOM(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{
			name:    "with BOM",
			content: "\uFEFFhello",
			want:    "hello",
		},
		{
			name:    "without BOM",
			content: "hello",
			want:    "hello",
		},
		{
			name:    "empty content",
			content: "",
			want:    "",
		},
		{
			name:    "BOM in the middle",
			content: "a\uFEFFb",
			want:    "a\uFEFFb",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parser.StripBOM(tt.content); got != tt.want {
				t.Errorf("StripBOM() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNormalizeNewlines(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{"unix", "a\nb", "a\nb"},
		{"windows", "a\r\nb\r\n", "a\nb\n"},
		{"old mac", "a\rb", "a\nb"},
		{"mixed", "a\r\nb\rc\n", "a\nb\nc\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parser.NormalizeNewlines(tt.content); got != tt.want {
				t.Errorf("NormalizeNewlines() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDetectFileType(t *testing.T) {
	tests := []struct {
		name string
		path string
		want string
	}{
		{
			name: "markdown file",
			path: "README.md",
			want: "md",
		},
		{
			name: "long markdown extension",
			path: "notes.markdown",
			want: "md",
		},
		{
			name: "mdx file",
			path: "component.mdx",
			want: "mdx",
		},
		{
			name: "unknown file",
			path: "file.go",
			want: "unknown",
		},
		{
			name: "uppercase extension",
			path: "README.MD",
			want: "md",
		},
		{
			name: "path with directory",
			path: "docs/guide.md",
			want: "md",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parser.DetectFileType(tt.path); got != tt.want {
				t.Errorf("DetectFileType() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestResolveFormat(t *testing.T) {
	tests := []struct {
		name   string
		format parser.Format
		path   string
		want   parser.Format
	}{
		{"explicit mdx wins", parser.FormatMDX, "README.md", parser.FormatMDX},
		{"explicit md wins", parser.FormatMarkdown, "page.mdx", parser.FormatMarkdown},
		{"detect markdown", parser.FormatDetect, "docs/README.md", parser.FormatMarkdown},
		{"detect mdx", parser.FormatDetect, "page.mdx", parser.FormatMDX},
		{"detect without path", parser.FormatDetect, "", parser.FormatMDX},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parser.ResolveFormat(tt.format, tt.path); got != tt.want {
				t.Errorf("ResolveFormat() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSplitFrontmatter(t *testing.T) {
	tests := []struct {
		name      string
		content   string
		wantYAML  string
		wantBody  string
		wantFound bool
	}{
		{
			name: "with title and description",
			content: `---
title: My Document
description: This is a test
---
# Content here`,
			wantYAML:  "title: My Document\ndescription: This is a test",
			wantBody:  "# Content here",
			wantFound: true,
		},
		{
			name:      "no frontmatter",
			content:   "# Just content",
			wantBody:  "# Just content",
			wantFound: false,
		},
		{
			name:      "empty block",
			content:   "---\n---\nBody",
			wantBody:  "Body",
			wantFound: true,
		},
		{
			name:      "closing fence at end of file",
			content:   "---\ntitle: x\n---",
			wantYAML:  "title: x",
			wantBody:  "",
			wantFound: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			yaml, bodyStart, found := parser.SplitFrontmatter(tt.content)
			if found != tt.wantFound {
				t.Fatalf("SplitFrontmatter() found = %v, want %v", found, tt.wantFound)
			}
			if yaml != tt.wantYAML {
				t.Errorf("SplitFrontmatter() yaml = %q, want %q", yaml, tt.wantYAML)
			}
			if body := tt.content[bodyStart:]; body != tt.wantBody {
				t.Errorf("SplitFrontmatter() body = %q, want %q", body, tt.wantBody)
			}
		})
	}
}

func TestSplitFrontmatter_Unclosed(t *testing.T) {
	_, bodyStart, found := parser.SplitFrontmatter("---\ntitle: x\n")
	if !found || bodyStart != -1 {
		t.Errorf("SplitFrontmatter() = (%d, %v), want (-1, true)", bodyStart, found)
	}
}
