package ui_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/g5becks/mdxc/internal/build"
	"github.com/g5becks/mdxc/internal/manifest"
	"github.com/g5becks/mdxc/internal/ui"
)

var errMock = errors.New("mock error")

func newTestPrinter(buf *bytes.Buffer, dryRun bool) *ui.BuildPrinter {
	return ui.NewBuildPrinterWithWriter(buf, dryRun, true)
}

func TestHandleEventStart(t *testing.T) {
	var buf bytes.Buffer
	p := newTestPrinter(&buf, false)

	p.HandleEvent(build.Event{
		Kind:   build.EventFileStart,
		Source: "docs/intro.mdx",
	})

	out := buf.String()
	if !strings.Contains(out, "docs/intro.mdx") {
		t.Errorf("start event output missing source name, got: %q", out)
	}
	if !strings.Contains(out, "compiling") {
		t.Errorf("start event output missing 'compiling', got: %q", out)
	}
}

func TestHandleEventStartQuiet(t *testing.T) {
	var buf bytes.Buffer
	p := ui.NewBuildPrinterWithWriter(&buf, false, false)

	p.HandleEvent(build.Event{Kind: build.EventFileStart, Source: "a.mdx"})

	if buf.Len() != 0 {
		t.Errorf("expected no start output when not verbose, got: %q", buf.String())
	}
}

func TestHandleEventDoneSuccess(t *testing.T) {
	var buf bytes.Buffer
	p := newTestPrinter(&buf, false)

	p.HandleEvent(build.Event{
		Kind:   build.EventFileDone,
		Source: "docs/intro.mdx",
		Result: &build.FileResult{Status: manifest.StatusCompiled, Output: "/out/docs/intro.js", Timing: 1.5},
	})

	out := buf.String()
	if !strings.Contains(out, "intro.js") {
		t.Errorf("done event output missing output name, got: %q", out)
	}
	if !strings.Contains(out, "1.50ms") {
		t.Errorf("done event output missing timing, got: %q", out)
	}
}

func TestHandleEventDoneSkipped(t *testing.T) {
	var buf bytes.Buffer
	p := newTestPrinter(&buf, false)

	p.HandleEvent(build.Event{
		Kind:   build.EventFileDone,
		Source: "a.mdx",
		Result: &build.FileResult{Status: manifest.StatusSkipped},
	})

	if out := buf.String(); !strings.Contains(out, "up to date") {
		t.Errorf("skipped event output missing 'up to date', got: %q", out)
	}
}

func TestHandleEventDoneError(t *testing.T) {
	var buf bytes.Buffer
	p := newTestPrinter(&buf, false)

	p.HandleEvent(build.Event{
		Kind:   build.EventFileDone,
		Source: "bad.mdx",
		Err:    errMock,
	})

	out := buf.String()
	if !strings.Contains(out, "bad.mdx") {
		t.Errorf("error event output missing source name, got: %q", out)
	}
	if !strings.Contains(out, "mock error") {
		t.Errorf("error event output missing error text, got: %q", out)
	}
}

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	p := newTestPrinter(&buf, false)

	p.PrintSummary(&build.RunResult{Files: 3, Compiled: 2, Skipped: 1})

	out := buf.String()
	if !strings.Contains(out, "build complete") {
		t.Errorf("summary missing 'build complete', got: %q", out)
	}
	if !strings.Contains(out, "3 file(s)") {
		t.Errorf("summary missing file count, got: %q", out)
	}
}

func TestPrintSummaryDryRun(t *testing.T) {
	var buf bytes.Buffer
	p := newTestPrinter(&buf, true)

	p.PrintSummary(&build.RunResult{Files: 2})

	out := buf.String()
	if !strings.Contains(out, "dry-run complete") {
		t.Errorf("dry-run summary missing label, got: %q", out)
	}
	if !strings.Contains(out, "no files were written or removed") {
		t.Errorf("dry-run summary missing disclaimer, got: %q", out)
	}
}

func TestPrintSummaryWithErrors(t *testing.T) {
	var buf bytes.Buffer
	p := newTestPrinter(&buf, false)

	p.PrintSummary(&build.RunResult{Files: 3, Failed: 2})

	if out := buf.String(); !strings.Contains(out, "2 failed") {
		t.Errorf("summary missing error count, got: %q", out)
	}
}

func TestPrintSummaryNilResult(t *testing.T) {
	var buf bytes.Buffer
	p := newTestPrinter(&buf, false)

	p.PrintSummary(nil)

	if buf.Len() != 0 {
		t.Errorf("expected no output for nil result, got: %q", buf.String())
	}
}

func TestWarn(t *testing.T) {
	var buf bytes.Buffer
	p := newTestPrinter(&buf, false)

	p.Warn(`unknown jsx_runtime "clasic" is ignored`)

	if out := buf.String(); !strings.Contains(out, "clasic") {
		t.Errorf("warning missing message, got: %q", out)
	}
}
