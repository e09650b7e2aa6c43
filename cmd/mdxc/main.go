package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/g5becks/mdxc"
)

var (
	//nolint:gochecknoglobals // Build metadata is injected at build time with ldflags.
	version = "dev"
	//nolint:gochecknoglobals // Build metadata is injected at build time with ldflags.
	commit = "unknown"
	//nolint:gochecknoglobals // Build metadata is injected at build time with ldflags.
	buildTime = "unknown"
)

func main() {
	if err := run(os.Args); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) error {
	return newRootCommand().Run(context.Background(), args)
}

func newRootCommand() *cli.Command {
	return &cli.Command{
		Name:    "mdxc",
		Usage:   "Compile MDX documents to JavaScript",
		Version: versionString(),
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "debug",
				Usage:   "Enable debug logging",
				Sources: cli.EnvVars("MDXC_DEBUG"),
			},
		},
		Before: setupLogging,
		Commands: []*cli.Command{
			newCompileCommand(),
			newBuildCommand(),
			newWatchCommand(),
			newBenchCommand(),
			newAvailableCommand(),
			newInitCommand(),
		},
	}
}

func setupLogging(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	logrus.SetOutput(cmd.Root().ErrWriter)
	logrus.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
	logrus.SetLevel(logrus.WarnLevel)

	if cmd.Bool("debug") {
		logrus.SetLevel(logrus.DebugLevel)
	}

	return ctx, nil
}

func newAvailableCommand() *cli.Command {
	return &cli.Command{
		Name:  "available",
		Usage: "Report whether the compiler can be used",
		Action: func(_ context.Context, cmd *cli.Command) error {
			_, err := fmt.Fprintln(cmd.Root().Writer, mdxc.IsAvailable())
			return err
		},
	}
}

func versionString() string {
	return fmt.Sprintf("%s (commit %s, built %s)", version, commit, buildTime)
}
