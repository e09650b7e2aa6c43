// Package bench times repeated compilations of MDX documents.
package bench

import (
	"context"
	"slices"
	"time"

	"github.com/samber/lo"
	"github.com/samber/oops"

	"github.com/g5becks/mdxc"
)

const DefaultIterations = 10

type Input struct {
	Name    string
	Content string
}

// Result summarizes the timings of one input.
type Result struct {
	Name       string
	Size       int
	Iterations int
	Avg        time.Duration
	Median     time.Duration
	Min        time.Duration
	Max        time.Duration
}

type Options struct {
	Iterations int
	Compile    *mdxc.CompileOptions
	// OnIteration is called after every timed compilation.
	OnIteration func(input string, done int)
}

// Run compiles every input once to warm up, then Iterations more times,
// and reports the timing distribution per input.
func Run(ctx context.Context, inputs []Input, opts Options) ([]Result, error) {
	iterations := opts.Iterations
	if iterations <= 0 {
		iterations = DefaultIterations
	}

	results := make([]Result, 0, len(inputs))

	for _, input := range inputs {
		if _, err := mdxc.Compile(input.Content, opts.Compile); err != nil {
			return nil, oops.
				Code("BENCH_FAILED").
				With("input", input.Name).
				Wrapf(err, "compiling %q", input.Name)
		}

		samples := make([]time.Duration, 0, iterations)
		for i := range iterations {
			if err := ctx.Err(); err != nil {
				return nil, err
			}

			start := time.Now()
			if _, err := mdxc.Compile(input.Content, opts.Compile); err != nil {
				return nil, oops.
					Code("BENCH_FAILED").
					With("input", input.Name).
					Wrapf(err, "compiling %q", input.Name)
			}
			samples = append(samples, time.Since(start))

			if opts.OnIteration != nil {
				opts.OnIteration(input.Name, i+1)
			}
		}

		result := Summarize(samples)
		result.Name = input.Name
		result.Size = len(input.Content)
		results = append(results, result)
	}

	return results, nil
}

// Summarize computes the distribution of samples. The median of an even
// number of samples is the upper middle one.
func Summarize(samples []time.Duration) Result {
	if len(samples) == 0 {
		return Result{}
	}

	sorted := slices.Clone(samples)
	slices.Sort(sorted)

	return Result{
		Iterations: len(sorted),
		Avg:        lo.Sum(sorted) / time.Duration(len(sorted)),
		Median:     sorted[len(sorted)/2],
		Min:        sorted[0],
		Max:        sorted[len(sorted)-1],
	}
}
