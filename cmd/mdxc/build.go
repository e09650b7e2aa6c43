package main

import (
	"context"

	"github.com/samber/oops"
	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/g5becks/mdxc/internal/build"
	"github.com/g5becks/mdxc/internal/config"
	"github.com/g5becks/mdxc/internal/ui"
)

func newBuildCommand() *cli.Command {
	return &cli.Command{
		Name:      "build",
		Usage:     "Compile every MDX file of the project",
		ArgsUsage: "[file...]",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "Path to config file"},
			&cli.BoolFlag{Name: "force", Aliases: []string{"f"}, Usage: "Recompile files even when they are up to date"},
			&cli.BoolFlag{Name: "clean", Usage: "Delete output directory before building"},
			&cli.BoolFlag{Name: "dry-run", Usage: "Show planned changes without writing files"},
			&cli.IntFlag{Name: "parallel", Aliases: []string{"p"}, Usage: "Maximum parallel compilations (0 = use config)"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "Show every file, including up-to-date ones"},
			&cli.BoolFlag{Name: "report", Usage: "Print a table of every file after the build"},
			&cli.BoolFlag{Name: "json", Usage: "Print the build manifest as JSON"},
		},
		Action: buildAction,
	}
}

func buildAction(ctx context.Context, cmd *cli.Command) error {
	cfg, err := loadProjectConfig(cmd)
	if err != nil {
		return err
	}

	dryRun := cmd.Bool("dry-run")
	printer := ui.NewBuildPrinterWithWriter(cmd.Root().ErrWriter, dryRun, cmd.Bool("verbose"))
	for _, w := range cfg.Warnings() {
		printer.Warn(w)
	}

	run, err := build.Run(ctx, cfg, build.Options{
		Files:       cmd.Args().Slice(),
		Force:       cmd.Bool("force"),
		DryRun:      dryRun,
		Clean:       cmd.Bool("clean"),
		MaxParallel: cmd.Int("parallel"),
		OnEvent:     printer.HandleEvent,
		Logger:      logrus.StandardLogger(),
	})

	printer.PrintSummary(run)

	if run != nil && run.Manifest != nil && (cmd.Bool("report") || cmd.Bool("json")) {
		if reportErr := ui.RenderReport(cmd.Root().Writer, run.Manifest, cmd.Bool("json")); reportErr != nil {
			return reportErr
		}
	}

	return err
}

func loadProjectConfig(cmd *cli.Command) (*config.Config, error) {
	cfg, err := config.LoadOptional(cmd.String("config"))
	if err != nil {
		return nil, err
	}

	if cmd.IsSet("parallel") && cmd.Int("parallel") < 0 {
		return nil, oops.
			Code("INVALID_ARGS").
			With("parallel", cmd.Int("parallel")).
			Errorf("parallel must not be negative")
	}

	logrus.WithFields(logrus.Fields{
		"root":   cfg.Root,
		"output": cfg.Output,
	}).Debug("loaded config")

	return cfg, nil
}
