package ui

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"github.com/g5becks/mdxc/internal/manifest"
)

// RenderReport writes the per-file outcome of a build as a table, or as the
// manifest JSON when asJSON is set.
func RenderReport(w io.Writer, m *manifest.Manifest, asJSON bool) error {
	if asJSON {
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")

		if err := encoder.Encode(m); err != nil {
			return fmt.Errorf("encode build report json: %w", err)
		}

		return nil
	}

	writer := table.NewWriter()
	writer.SetOutputMirror(w)
	writer.SetStyle(table.StyleRounded)
	writer.AppendHeader(table.Row{"SOURCE", "OUTPUT", "STATUS", "SIZE", "TIME"})
	writer.SetColumnConfigs([]table.ColumnConfig{
		{Number: 4, Align: text.AlignRight},
		{Number: 5, Align: text.AlignRight},
	})

	for _, f := range m.Files {
		writer.AppendRow(table.Row{
			f.Source,
			f.Output,
			f.Status,
			formatSize(f.Size),
			formatTiming(f.Timing),
		})
	}

	writer.Render()
	return nil
}

// BenchRow is the timing summary of one benchmark input.
type BenchRow struct {
	Name       string        `json:"name"`
	Size       int           `json:"size"`
	Iterations int           `json:"iterations"`
	Avg        time.Duration `json:"avg"`
	Median     time.Duration `json:"median"`
	Min        time.Duration `json:"min"`
	Max        time.Duration `json:"max"`
}

func RenderBench(w io.Writer, rows []BenchRow) {
	writer := table.NewWriter()
	writer.SetOutputMirror(w)
	writer.SetStyle(table.StyleRounded)
	writer.AppendHeader(table.Row{"INPUT", "SIZE", "RUNS", "AVG", "MEDIAN", "MIN", "MAX"})

	for _, row := range rows {
		writer.AppendRow(table.Row{
			row.Name,
			formatSize(int64(row.Size)),
			row.Iterations,
			formatDuration(row.Avg),
			formatDuration(row.Median),
			formatDuration(row.Min),
			formatDuration(row.Max),
		})
	}

	writer.Render()
}

func formatSize(size int64) string {
	const unit = 1024

	switch {
	case size < unit:
		return fmt.Sprintf("%d B", size)
	case size < unit*unit:
		return fmt.Sprintf("%.1f KB", float64(size)/unit)
	default:
		return fmt.Sprintf("%.1f MB", float64(size)/(unit*unit))
	}
}

func formatTiming(ms float64) string {
	if ms == 0 {
		return "-"
	}

	return fmt.Sprintf("%.2fms", ms)
}

func formatDuration(d time.Duration) string {
	return fmt.Sprintf("%.3fms", float64(d)/float64(time.Millisecond))
}
