package ui

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/mattn/go-isatty"
)

func NewProgressWriter() progress.Writer {
	writer := progress.NewWriter()
	writer.SetOutputWriter(os.Stderr)
	writer.SetAutoStop(true)
	writer.SetTrackerLength(30)
	writer.SetStyle(progress.StyleBlocks)
	writer.Style().Visibility.ETA = true
	writer.Style().Visibility.Value = true

	return writer
}

// Interactive reports whether stderr is a terminal, so progress bars and
// colors make sense.
func Interactive() bool {
	fd := os.Stderr.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
