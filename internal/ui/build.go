package ui

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/fatih/color"

	"github.com/g5becks/mdxc/internal/build"
	"github.com/g5becks/mdxc/internal/manifest"
)

type styles struct {
	green  *color.Color
	red    *color.Color
	yellow *color.Color
	dim    *color.Color
	bold   *color.Color
}

func newStyles() styles {
	return styles{
		green:  color.New(color.FgGreen),
		red:    color.New(color.FgRed),
		yellow: color.New(color.FgYellow),
		dim:    color.New(color.Faint),
		bold:   color.New(color.Bold),
	}
}

// BuildPrinter renders build events to stderr with colored output.
type BuildPrinter struct {
	w       io.Writer
	dryRun  bool
	verbose bool
	mu      sync.Mutex
	s       styles
}

// NewBuildPrinter creates a BuildPrinter that writes to stderr.
func NewBuildPrinter(dryRun bool, verbose bool) *BuildPrinter {
	return NewBuildPrinterWithWriter(os.Stderr, dryRun, verbose)
}

// NewBuildPrinterWithWriter creates a BuildPrinter that writes to the given writer.
func NewBuildPrinterWithWriter(w io.Writer, dryRun bool, verbose bool) *BuildPrinter {
	return &BuildPrinter{
		w:       w,
		dryRun:  dryRun,
		verbose: verbose,
		s:       newStyles(),
	}
}

// HandleEvent is the callback wired into build.Options.OnEvent.
func (p *BuildPrinter) HandleEvent(e build.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()

	switch e.Kind {
	case build.EventFileStart:
		if p.verbose {
			fmt.Fprintf(p.w, "%s compiling %s...\n",
				p.s.dim.Sprint("⟳"),
				p.s.bold.Sprint(e.Source),
			)
		}

	case build.EventFileDone:
		p.handleDone(e)
	}
}

func (p *BuildPrinter) handleDone(e build.Event) {
	name := p.s.bold.Sprint(e.Source)

	if e.Err != nil {
		fmt.Fprintf(p.w, "%s %s: %s\n",
			p.s.red.Sprint("✗"),
			name,
			e.Err,
		)
		return
	}

	if e.Result == nil {
		return
	}

	switch e.Result.Status {
	case manifest.StatusSkipped:
		if p.verbose {
			fmt.Fprintf(p.w, "%s %s %s\n",
				p.s.dim.Sprint("—"),
				name,
				p.s.dim.Sprint("(up to date)"),
			)
		}

	case manifest.StatusPlanned:
		fmt.Fprintf(p.w, "%s %s %s\n",
			p.s.yellow.Sprint("~"),
			name,
			p.s.dim.Sprint("(would compile)"),
		)

	default:
		fmt.Fprintf(p.w, "%s %s %s\n",
			p.s.green.Sprint("✓"),
			name,
			p.s.dim.Sprintf("-> %s (%.2fms)", filepath.Base(e.Result.Output), e.Result.Timing),
		)
	}
}

// PrintSummary renders a final summary line after a build completes.
func (p *BuildPrinter) PrintSummary(r *build.RunResult) {
	if r == nil {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintln(p.w)

	label := "build complete"
	if p.dryRun {
		label = p.s.yellow.Sprint("dry-run complete")
	}

	parts := fmt.Sprintf("%s: %d file(s), %d compiled, %d up-to-date",
		label,
		r.Files,
		r.Compiled,
		r.Skipped,
	)

	if r.Removed > 0 {
		parts += fmt.Sprintf(", %d removed", r.Removed)
	}

	if r.Failed > 0 {
		parts += fmt.Sprintf(", %s",
			p.s.red.Sprintf("%d failed", r.Failed),
		)
	}

	fmt.Fprintln(p.w, parts)

	if p.dryRun {
		fmt.Fprintln(p.w, p.s.dim.Sprint("no files were written or removed"))
	}
}

// Warn prints a configuration or usage warning.
func (p *BuildPrinter) Warn(msg string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Fprintf(p.w, "%s %s\n", p.s.yellow.Sprint("warning:"), msg)
}
