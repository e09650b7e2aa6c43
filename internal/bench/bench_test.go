package bench_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/g5becks/mdxc"
	"github.com/g5becks/mdxc/internal/bench"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name    string
		samples []time.Duration
		want    bench.Result
	}{
		{
			name: "empty",
			want: bench.Result{},
		},
		{
			name:    "odd",
			samples: []time.Duration{3 * time.Millisecond, time.Millisecond, 2 * time.Millisecond},
			want: bench.Result{
				Iterations: 3,
				Avg:        2 * time.Millisecond,
				Median:     2 * time.Millisecond,
				Min:        time.Millisecond,
				Max:        3 * time.Millisecond,
			},
		},
		{
			name:    "even uses upper middle",
			samples: []time.Duration{4, 1, 3, 2},
			want: bench.Result{
				Iterations: 4,
				Avg:        2,
				Median:     3,
				Min:        1,
				Max:        4,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if diff := cmp.Diff(tt.want, bench.Summarize(tt.samples)); diff != "" {
				t.Errorf("Summarize() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestSummarizeDoesNotReorderInput(t *testing.T) {
	samples := []time.Duration{3, 1, 2}
	bench.Summarize(samples)
	assert.Equal(t, []time.Duration{3, 1, 2}, samples)
}

func TestFixturesCompile(t *testing.T) {
	fixtures := bench.Fixtures()
	require.Len(t, fixtures, 3)

	for _, f := range fixtures {
		t.Run(f.Name, func(t *testing.T) {
			_, err := mdxc.Compile(f.Content, nil)
			require.NoError(t, err)
		})
	}

	assert.Less(t, len(fixtures[0].Content), len(fixtures[1].Content))
	assert.Less(t, len(fixtures[1].Content), len(fixtures[2].Content))
}

func TestGenerateSections(t *testing.T) {
	doc := bench.Generate(10)

	assert.Equal(t, 10, strings.Count(doc, "<CustomComponent "))
	assert.Contains(t, doc, "## Section 10")
	assert.Contains(t, doc, "| Column 1 |")
	assert.NotContains(t, bench.Generate(9), "| Column 1 |")
}

func TestRun(t *testing.T) {
	var calls int

	results, err := bench.Run(context.Background(), []bench.Input{
		{Name: "tiny", Content: "# Hello\n"},
	}, bench.Options{
		Iterations:  3,
		OnIteration: func(string, int) { calls++ },
	})
	require.NoError(t, err)
	require.Len(t, results, 1)

	got := results[0]
	assert.Equal(t, "tiny", got.Name)
	assert.Equal(t, len("# Hello\n"), got.Size)
	assert.Equal(t, 3, got.Iterations)
	assert.Equal(t, 3, calls)
	assert.LessOrEqual(t, got.Min, got.Median)
	assert.LessOrEqual(t, got.Median, got.Max)
}

func TestRunDefaultIterations(t *testing.T) {
	results, err := bench.Run(context.Background(), []bench.Input{{Name: "a", Content: "a"}}, bench.Options{})
	require.NoError(t, err)
	assert.Equal(t, bench.DefaultIterations, results[0].Iterations)
}

func TestRunCompileError(t *testing.T) {
	_, err := bench.Run(context.Background(), []bench.Input{{Name: "bad", Content: "<Button>\n"}}, bench.Options{Iterations: 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "MDX compilation failed")
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := bench.Run(ctx, []bench.Input{{Name: "a", Content: "a"}}, bench.Options{Iterations: 2})
	require.ErrorIs(t, err, context.Canceled)
}
