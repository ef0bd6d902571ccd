package main

import (
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

// renderTable writes a Markdown-style table whose columns are padded to their
// display width, so county names with wide runes still line up.
func renderTable(w io.Writer, headers []string, rows [][]string) error {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = max(3, runewidth.StringWidth(h))
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			widths[i] = max(widths[i], runewidth.StringWidth(row[i]))
		}
	}

	var sb strings.Builder
	writeRow(&sb, headers, widths)
	sep := make([]string, len(widths))
	for i, n := range widths {
		sep[i] = strings.Repeat("-", n)
	}
	writeRow(&sb, sep, widths)
	for _, row := range rows {
		writeRow(&sb, row, widths)
	}

	_, err := io.WriteString(w, sb.String())
	return err
}

func writeRow(sb *strings.Builder, cells []string, widths []int) {
	sb.WriteString("|")
	for i, width := range widths {
		content := ""
		if i < len(cells) {
			content = cells[i]
		}
		sb.WriteString(" ")
		sb.WriteString(runewidth.FillRight(content, width))
		sb.WriteString(" |")
	}
	sb.WriteString("\n")
}
