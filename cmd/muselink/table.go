package main

import (
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"muselink/internal/latex"
)

// renderCandidateTable formats detected candidates as a rounded table.
// The span column is right-aligned so offsets line up.
func renderCandidateTable(entities []latex.MusicEntity) string {
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(table.Row{"#", "Kind", "Title", "Artist", "Year", "Span"})

	for i, e := range entities {
		year := ""
		if e.Year != 0 {
			year = fmt.Sprintf("%d", e.Year)
		}
		tw.AppendRow(table.Row{
			i + 1,
			string(e.Kind),
			e.Name,
			e.Artist,
			year,
			fmt.Sprintf("%d..%d", e.StartOffset, e.EndOffset),
		})
	}

	tw.SetColumnConfigs([]table.ColumnConfig{
		{Number: 1, Align: text.AlignRight, AlignHeader: text.AlignLeft},
		{Number: 6, Align: text.AlignRight, AlignHeader: text.AlignLeft},
	})
	return tw.Render()
}

// renderCandidateLines is the non-TTY fallback: one tab-separated line
// per candidate, easy to cut and grep.
func renderCandidateLines(w io.Writer, entities []latex.MusicEntity) {
	for _, e := range entities {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d..%d\n",
			string(e.Kind), e.Name, e.Artist, e.Year, e.StartOffset, e.EndOffset)
	}
}

func isTerminal(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
