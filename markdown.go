package regtab

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

func writeMarkdown(w io.Writer, l *Layout) error {
	numCols := l.Width() + 1

	header := append([]string{""}, l.Numbers...)
	var rows [][]string
	for _, h := range l.Headers {
		row := []string{""}
		for _, cell := range h {
			row = append(row, markdownEscape(cell))
		}
		rows = append(rows, row)
	}
	for _, r := range l.Rows {
		coefs := []string{r.Label}
		ses := []string{""}
		for _, c := range r.Cells {
			coefs = append(coefs, markdownEscape(c.CoefLine()))
			ses = append(ses, c.StdErrLine())
		}
		rows = append(rows, coefs, ses)
	}
	for _, s := range l.Stats {
		rows = append(rows, append([]string{s.Label}, s.Values...))
	}
	for _, r := range rows {
		r[0] = markdownEscape(r[0])
	}

	// Calculate column widths (minimum 3 for alignment markers).
	widths := make([]int, numCols)
	for _, r := range append([][]string{header}, rows...) {
		for i, cell := range r {
			if w := runewidth.StringWidth(cell); i < numCols && w > widths[i] {
				widths[i] = w
			}
		}
	}
	for i := range widths {
		if widths[i] < 3 {
			widths[i] = 3
		}
	}

	aligns := make([]Alignment, numCols)
	for i := 1; i < numCols; i++ {
		aligns[i] = AlignCenter
	}

	if l.Title != "" {
		if _, err := fmt.Fprintf(w, "**%s**\n\n", markdownEscape(l.Title)); err != nil {
			return err
		}
	}

	if err := writeMarkdownRow(w, header, widths, aligns); err != nil {
		return err
	}

	sep := make([]string, numCols)
	for i, width := range widths {
		switch aligns[i] {
		case AlignRight:
			sep[i] = strings.Repeat("-", width-1) + ":"
		case AlignCenter:
			sep[i] = ":" + strings.Repeat("-", width-2) + ":"
		default:
			sep[i] = strings.Repeat("-", width)
		}
	}
	if _, err := fmt.Fprintf(w, "| %s |\n", strings.Join(sep, " | ")); err != nil {
		return err
	}

	for _, row := range rows {
		if err := writeMarkdownRow(w, row, widths, aligns); err != nil {
			return err
		}
	}

	if _, err := fmt.Fprintln(w); err != nil {
		return err
	}
	for _, note := range l.Notes {
		if _, err := fmt.Fprintf(w, "%s  \n", markdownEscape(note)); err != nil {
			return err
		}
	}
	return nil
}

var markdownEscaper = strings.NewReplacer(`|`, `\|`, `*`, `\*`, `_`, `\_`)

func markdownEscape(s string) string { return markdownEscaper.Replace(s) }

func writeMarkdownRow(w io.Writer, cells []string, widths []int, aligns []Alignment) error {
	padded := make([]string, len(widths))
	for i, width := range widths {
		cell := ""
		if i < len(cells) {
			cell = cells[i]
		}
		padded[i] = alignCell(cell, width, aligns[i])
	}
	_, err := fmt.Fprintf(w, "| %s |\n", strings.Join(padded, " | "))
	return err
}
