package main

import (
	"context"
	"encoding/json"

	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/samber/lo"
	"github.com/samber/oops"
	"github.com/urfave/cli/v3"

	"github.com/g5becks/mdxc/internal/bench"
	"github.com/g5becks/mdxc/internal/source"
	"github.com/g5becks/mdxc/internal/ui"
)

func newBenchCommand() *cli.Command {
	return &cli.Command{
		Name:      "bench",
		Usage:     "Time repeated compilations of files or generated fixtures",
		ArgsUsage: "[file...]",
		Flags: append(compileFlags(),
			&cli.IntFlag{
				Name:    "iterations",
				Aliases: []string{"n"},
				Usage:   "Timed compilations per input",
				Value:   bench.DefaultIterations,
			},
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output results as JSON",
			},
		),
		Action: benchAction,
	}
}

func benchAction(ctx context.Context, cmd *cli.Command) error {
	iterations := cmd.Int("iterations")
	if iterations < 1 {
		return oops.
			Code("INVALID_ARGS").
			With("iterations", iterations).
			Errorf("iterations must be at least 1")
	}

	inputs, err := benchInputs(ctx, cmd)
	if err != nil {
		return err
	}

	opts := bench.Options{
		Iterations: iterations,
		Compile:    compileOptionsFromFlags(cmd),
	}

	if ui.Interactive() && !cmd.Bool("json") {
		pw := ui.NewProgressWriter()
		trackers := make(map[string]*progress.Tracker, len(inputs))
		for _, input := range inputs {
			tracker := &progress.Tracker{Message: input.Name, Total: int64(iterations), Units: progress.UnitsDefault}
			trackers[input.Name] = tracker
			pw.AppendTracker(tracker)
		}

		go pw.Render()
		defer pw.Stop()

		opts.OnIteration = func(name string, _ int) {
			trackers[name].Increment(1)
		}
	}

	results, err := bench.Run(ctx, inputs, opts)
	if err != nil {
		return err
	}

	rows := lo.Map(results, func(r bench.Result, _ int) ui.BenchRow {
		return ui.BenchRow{
			Name:       r.Name,
			Size:       r.Size,
			Iterations: r.Iterations,
			Avg:        r.Avg,
			Median:     r.Median,
			Min:        r.Min,
			Max:        r.Max,
		}
	})

	if cmd.Bool("json") {
		encoder := json.NewEncoder(cmd.Root().Writer)
		encoder.SetIndent("", "  ")
		return encoder.Encode(rows)
	}

	ui.RenderBench(cmd.Root().Writer, rows)
	return nil
}

func benchInputs(ctx context.Context, cmd *cli.Command) ([]bench.Input, error) {
	if cmd.Args().Len() == 0 {
		return bench.Fixtures(), nil
	}

	inputs := make([]bench.Input, 0, cmd.Args().Len())
	for _, arg := range cmd.Args().Slice() {
		input, err := source.New(arg, cmd.Root().Reader).Read(ctx)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, bench.Input{Name: input.Name, Content: string(input.Content)})
	}

	return inputs, nil
}
