// Package build compiles every MDX file of a project into the output
// directory, skipping files whose content and options are unchanged since
// the last build.
package build

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	stdsync "sync"
	"time"

	"github.com/samber/lo"
	"github.com/samber/oops"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/g5becks/mdxc"
	"github.com/g5becks/mdxc/internal/config"
	"github.com/g5becks/mdxc/internal/lockfile"
	"github.com/g5becks/mdxc/internal/manifest"
)

const defaultMaxParallel = 4

type Options struct {
	// Files restricts the build to these root-relative paths. Stale outputs
	// are only removed when Files is empty.
	Files       []string
	Force       bool
	DryRun      bool
	Clean       bool
	MaxParallel int
	OnEvent     func(Event)
	Logger      logrus.FieldLogger
}

type EventKind int

const (
	EventFileStart EventKind = iota
	EventFileDone
)

type Event struct {
	Kind   EventKind
	Source string
	Result *FileResult
	Err    error
}

type FileResult struct {
	Source string
	Output string
	Status manifest.Status
	Timing float64
	Err    error
}

type RunResult struct {
	Files    int
	Compiled int
	Skipped  int
	Failed   int
	Removed  int
	Results  []*FileResult
	Manifest *manifest.Manifest
}

func Run(ctx context.Context, cfg *config.Config, opts Options) (*RunResult, error) {
	if cfg == nil {
		return nil, oops.
			Code("CONFIG_INVALID").
			Errorf("config is required")
	}

	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	discovered, err := Discover(cfg)
	if err != nil {
		return nil, err
	}

	if err := checkOutputs(cfg, discovered); err != nil {
		return nil, err
	}

	if opts.Clean && !opts.DryRun {
		log.WithField("path", cfg.Output).Debug("cleaning output directory")
		if err := os.RemoveAll(cfg.Output); err != nil {
			return nil, oops.
				Code("WRITE_FAILED").
				With("path", cfg.Output).
				Wrapf(err, "cleaning output directory")
		}
	}

	lock, err := lockfile.Load(cfg.Output)
	if err != nil {
		return nil, err
	}

	optionsHash, err := lockfile.OptionsFingerprint(mdxc.Resolve(&cfg.Compile))
	if err != nil {
		return nil, err
	}

	files := selectFiles(discovered, opts.Files)
	log.WithFields(logrus.Fields{
		"root":  cfg.Root,
		"files": len(files),
	}).Debug("discovered sources")

	maxParallel := opts.MaxParallel
	if maxParallel <= 0 {
		maxParallel = cfg.Parallel
	}
	if maxParallel <= 0 {
		maxParallel = defaultMaxParallel
	}

	results := make(map[string]*FileResult, len(files))
	entries := make(map[string]*lockfile.LockEntry, len(files))
	var resultsMu stdsync.Mutex

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(maxParallel)

	for _, rel := range files {
		previous := lock.GetEntry(rel)

		group.Go(func() error {
			if err := groupCtx.Err(); err != nil {
				return err
			}

			emit(opts, Event{Kind: EventFileStart, Source: rel})

			result, entry := compileFile(cfg, rel, previous, optionsHash, opts)
			log.WithFields(logrus.Fields{
				"source": rel,
				"status": result.Status,
				"timing": result.Timing,
			}).Debug("processed source")

			resultsMu.Lock()
			results[rel] = result
			if entry != nil {
				entries[rel] = entry
			}
			resultsMu.Unlock()

			emit(opts, Event{Kind: EventFileDone, Source: rel, Result: result, Err: result.Err})
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, oops.
			Code("BUILD_FAILED").
			Wrapf(err, "waiting for compile workers")
	}

	for rel, entry := range entries {
		lock.SetEntry(rel, entry)
	}

	run := &RunResult{Files: len(files)}
	for _, rel := range files {
		result := results[rel]
		run.Results = append(run.Results, result)

		switch result.Status {
		case manifest.StatusCompiled:
			run.Compiled++
		case manifest.StatusSkipped:
			run.Skipped++
		case manifest.StatusFailed:
			run.Failed++
		}
	}

	if len(opts.Files) == 0 {
		run.Removed = removeStale(lock, discovered, opts.DryRun, log)
	}

	run.Manifest = manifest.Generate(cfg.Root, cfg.Output, optionsHash, lo.Map(run.Results, func(r *FileResult, _ int) manifest.FileInfo {
		info := manifest.FileInfo{
			Source: r.Source,
			Output: r.Output,
			Timing: r.Timing,
			Status: r.Status,
		}
		if r.Err != nil {
			info.Error = r.Err.Error()
		}
		return info
	}))

	if !opts.DryRun {
		if err := lock.Save(cfg.Output); err != nil {
			return nil, err
		}

		if err := run.Manifest.Save(cfg.Output); err != nil {
			return nil, err
		}
	}

	if run.Failed > 0 {
		return run, oops.
			Code("BUILD_FAILED").
			With("failed_files", run.Failed).
			Errorf("%d file(s) failed to compile", run.Failed)
	}

	return run, nil
}

func compileFile(
	cfg *config.Config,
	rel string,
	previous *lockfile.LockEntry,
	optionsHash string,
	opts Options,
) (*FileResult, *lockfile.LockEntry) {
	sourcePath := filepath.Join(cfg.Root, filepath.FromSlash(rel))
	result := &FileResult{Source: sourcePath}

	outputPath, err := cfg.OutputPath(sourcePath)
	if err != nil {
		result.Status = manifest.StatusFailed
		result.Err = err
		return result, nil
	}
	result.Output = outputPath

	content, err := os.ReadFile(sourcePath)
	if err != nil {
		result.Status = manifest.StatusFailed
		result.Err = oops.
			Code("INPUT_READ_ERROR").
			With("path", sourcePath).
			Wrapf(err, "reading %q", rel)
		return result, nil
	}

	hash := lockfile.Fingerprint(content)
	if !opts.Force && previous.Fresh(hash, optionsHash) {
		result.Status = manifest.StatusSkipped
		return result, nil
	}

	if opts.DryRun {
		result.Status = manifest.StatusPlanned
		return result, nil
	}

	compiled, err := mdxc.Compile(string(content), cfg.Compile.Merge(&mdxc.CompileOptions{Filepath: &rel}))
	if err != nil {
		result.Status = manifest.StatusFailed
		result.Err = err
		return result, nil
	}
	result.Timing = compiled.Timing

	if err := lockfile.WriteAtomic(outputPath, []byte(compiled.Code)); err != nil {
		result.Status = manifest.StatusFailed
		result.Err = err
		return result, nil
	}

	result.Status = manifest.StatusCompiled
	return result, &lockfile.LockEntry{
		Hash:       hash,
		Options:    optionsHash,
		Output:     outputPath,
		CompiledAt: time.Now().UTC(),
	}
}

// removeStale deletes outputs of sources that no longer exist. An output a
// live source also maps to, as after renaming page.md to page.mdx, is kept.
func removeStale(lock *lockfile.LockFile, discovered []string, dryRun bool, log logrus.FieldLogger) int {
	owned := map[string]struct{}{}
	for path, entry := range lock.Files {
		if slices.Contains(discovered, path) {
			owned[entry.Output] = struct{}{}
		}
	}

	var stale map[string]*lockfile.LockEntry
	if dryRun {
		stale = lo.OmitByKeys(lock.Files, discovered)
	} else {
		stale = lock.Prune(discovered)
	}

	removed := 0
	for path, entry := range stale {
		if entry.Output == "" {
			continue
		}

		if _, live := owned[entry.Output]; live {
			log.WithFields(logrus.Fields{
				"source": path,
				"output": entry.Output,
			}).Debug("keeping output owned by a live source")
			continue
		}

		if dryRun {
			removed++
			continue
		}

		if err := os.Remove(entry.Output); err != nil && !os.IsNotExist(err) {
			log.WithError(err).WithField("source", path).Warn("removing stale output")
			continue
		}

		log.WithField("source", path).Debug("removed stale output")
		removed++
	}

	return removed
}

func selectFiles(discovered, requested []string) []string {
	if len(requested) == 0 {
		return discovered
	}

	return lo.Filter(discovered, func(path string, _ int) bool {
		return slices.Contains(requested, path)
	})
}

func emit(opts Options, e Event) {
	if opts.OnEvent != nil {
		opts.OnEvent(e)
	}
}
