package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/g5becks/mdxc/internal/build"
	"github.com/g5becks/mdxc/internal/ui"
)

func newWatchCommand() *cli.Command {
	return &cli.Command{
		Name:  "watch",
		Usage: "Build, then rebuild whenever a source changes",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "Path to config file"},
			&cli.IntFlag{Name: "parallel", Aliases: []string{"p"}, Usage: "Maximum parallel compilations (0 = use config)"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Show every file, including up-to-date ones"},
			&cli.DurationFlag{Name: "debounce", Usage: "Wait this long after a change before rebuilding", Value: build.DefaultDebounce},
		},
		Action: watchAction,
	}
}

func watchAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadProjectConfig(cmd)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	printer := ui.NewBuildPrinterWithWriter(cmd.Root().ErrWriter, false, cmd.Bool("verbose"))
	for _, w := range cfg.Warnings() {
		printer.Warn(w)
	}

	logrus.WithField("root", cfg.Root).Info("watching for changes")

	return build.Watch(ctx, cfg, build.WatchOptions{
		Build: build.Options{
			MaxParallel: cmd.Int("parallel"),
			OnEvent:     printer.HandleEvent,
			Logger:      logrus.StandardLogger(),
		},
		Debounce: cmd.Duration("debounce"),
		OnBuild: func(run *build.RunResult, err error) {
			printer.PrintSummary(run)
			if err != nil && run == nil {
				printer.Warn(err.Error())
			}
		},
	})
}
