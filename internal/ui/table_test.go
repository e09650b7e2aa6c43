package ui_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/g5becks/mdxc/internal/manifest"
	"github.com/g5becks/mdxc/internal/ui"
)

func testManifest() *manifest.Manifest {
	m := manifest.New("/src", "/src/dist")
	m.Files = []manifest.FileInfo{
		{Source: "index.mdx", Output: "index.js", Size: 2048, Timing: 3.25, Status: manifest.StatusCompiled},
		{Source: "bad.mdx", Status: manifest.StatusFailed, Error: "1:1: boom"},
	}
	return m
}

func TestRenderReportJSON(t *testing.T) {
	var buf bytes.Buffer

	if err := ui.RenderReport(&buf, testManifest(), true); err != nil {
		t.Fatalf("RenderReport(JSON) error = %v", err)
	}

	var decoded manifest.Manifest
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("JSON unmarshal error = %v, output:\n%s", err, buf.String())
	}

	if len(decoded.Files) != 2 {
		t.Errorf("decoded JSON has %d files, want 2", len(decoded.Files))
	}
}

func TestRenderReportTable(t *testing.T) {
	var buf bytes.Buffer

	if err := ui.RenderReport(&buf, testManifest(), false); err != nil {
		t.Fatalf("RenderReport() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"SOURCE", "index.mdx", "2.0 KB", "3.25ms", "failed"} {
		if !strings.Contains(out, want) {
			t.Errorf("table missing %q, got:\n%s", want, out)
		}
	}
}

func TestRenderBench(t *testing.T) {
	var buf bytes.Buffer

	ui.RenderBench(&buf, []ui.BenchRow{{
		Name:       "small",
		Size:       512,
		Iterations: 10,
		Avg:        1500 * time.Microsecond,
		Median:     time.Millisecond,
		Min:        500 * time.Microsecond,
		Max:        3 * time.Millisecond,
	}})

	out := buf.String()
	for _, want := range []string{"MEDIAN", "small", "512 B", "1.500ms", "3.000ms"} {
		if !strings.Contains(out, want) {
			t.Errorf("bench table missing %q, got:\n%s", want, out)
		}
	}
}
