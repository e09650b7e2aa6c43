package build

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/samber/lo"
	"github.com/samber/oops"
	"github.com/sirupsen/logrus"

	"github.com/g5becks/mdxc/internal/config"
)

const DefaultDebounce = 100 * time.Millisecond

type WatchOptions struct {
	Build    Options
	Debounce time.Duration
	// OnBuild receives the outcome of the initial build and of every rebuild.
	OnBuild func(*RunResult, error)
}

// Watch runs a full build, then rebuilds whenever sources under cfg.Root
// change, until ctx is canceled. Edited files are rebuilt on their own; a
// removed or renamed file triggers a full build so its output is pruned.
func Watch(ctx context.Context, cfg *config.Config, opts WatchOptions) error {
	if cfg == nil {
		return oops.
			Code("CONFIG_INVALID").
			Errorf("config is required")
	}

	log := opts.Build.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return oops.
			Code("WATCH_FAILED").
			Wrapf(err, "creating file watcher")
	}
	defer watcher.Close()

	if err := watchDirs(watcher, cfg); err != nil {
		return oops.
			Code("WATCH_FAILED").
			With("root", cfg.Root).
			Wrapf(err, "watching %q", cfg.Root)
	}

	rebuild := func(files []string) {
		buildOpts := opts.Build
		buildOpts.Files = files
		result, err := Run(ctx, cfg, buildOpts)
		if opts.OnBuild != nil {
			opts.OnBuild(result, err)
		}
	}

	rebuild(nil)

	timer := time.NewTimer(debounce)
	timer.Stop()

	pending := map[string]struct{}{}
	full := false

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !isWatchEvent(event.Op) {
				continue
			}

			if shouldAddWatchDir(event, cfg) {
				if err := watchDirs(watcher, &config.Config{Root: event.Name, Output: cfg.Output}); err != nil {
					log.WithError(err).WithField("path", event.Name).Warn("watching new directory")
				}
				continue
			}

			rel, err := filepath.Rel(cfg.Root, event.Name)
			if err != nil {
				continue
			}
			rel = filepath.ToSlash(rel)

			if !Selected(cfg, rel) {
				continue
			}

			if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
				full = true
			} else {
				pending[rel] = struct{}{}
			}

			log.WithFields(logrus.Fields{
				"path": rel,
				"op":   event.Op.String(),
			}).Debug("source changed")
			timer.Reset(debounce)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.WithError(err).Warn("file watcher error")

		case <-timer.C:
			if full {
				rebuild(nil)
			} else if len(pending) > 0 {
				files := lo.Keys(pending)
				slices.Sort(files)
				rebuild(files)
			}

			pending = map[string]struct{}{}
			full = false
		}
	}
}

func watchDirs(watcher *fsnotify.Watcher, cfg *config.Config) error {
	return filepath.WalkDir(cfg.Root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}

		if !d.IsDir() {
			return nil
		}

		if path != cfg.Root && skipDir(path, cfg) {
			return filepath.SkipDir
		}

		return watcher.Add(path)
	})
}

func skipDir(path string, cfg *config.Config) bool {
	return ignoredDir(filepath.Base(path)) || filepath.Clean(path) == filepath.Clean(cfg.Output)
}

func isWatchEvent(op fsnotify.Op) bool {
	return op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) != 0
}

func shouldAddWatchDir(event fsnotify.Event, cfg *config.Config) bool {
	if event.Op&fsnotify.Create == 0 {
		return false
	}

	info, err := os.Stat(event.Name)
	if err != nil {
		return false
	}

	return info.IsDir() && !skipDir(event.Name, cfg)
}
