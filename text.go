package regtab

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
)

const (
	bannerChar  = "="
	dividerChar = "-"
)

func writeText(w io.Writer, l *Layout) error {
	cfg := l.config.withDefaults()
	rule := cfg.LabelWidth + cfg.ColumnWidth*l.Width()
	banner := strings.Repeat(bannerChar, rule)
	divider := strings.Repeat(dividerChar, rule)

	lines := []string{banner}
	if l.Title != "" {
		lines = append(lines, "Table: "+l.Title, banner)
	}

	lines = append(lines, textRow(cfg, LabelVariable, l.Numbers))
	for _, h := range l.Headers {
		lines = append(lines, textRow(cfg, "", h))
	}
	lines = append(lines, divider)

	for _, row := range l.Rows {
		coefs := make([]string, len(row.Cells))
		ses := make([]string, len(row.Cells))
		for i, c := range row.Cells {
			coefs[i] = c.CoefLine()
			ses[i] = c.StdErrLine()
		}
		lines = append(lines, textRow(cfg, row.Label, coefs), textRow(cfg, "", ses))
	}
	lines = append(lines, divider)

	for _, s := range l.Stats {
		lines = append(lines, textRow(cfg, s.Label, s.Values))
	}
	lines = append(lines, banner)
	lines = append(lines, l.Notes...)
	lines = append(lines, banner)

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

// textRow lays out a label and one cell per model column using fixed
// widths. Trailing blanks are trimmed.
func textRow(cfg Config, label string, cells []string) string {
	var sb strings.Builder
	sb.WriteString(padCell(label, cfg.LabelWidth))
	for _, cell := range cells {
		sb.WriteString(padCell(cell, cfg.ColumnWidth))
	}
	return strings.TrimRight(sb.String(), " ")
}

// padCell left-aligns s in width columns. A cell that does not fit keeps
// one space so neighbouring cells never run together.
func padCell(s string, width int) string {
	if runewidth.StringWidth(s) >= width {
		return s + " "
	}
	return alignCell(s, width, AlignLeft)
}

// Alignment controls column text alignment.
type Alignment int

const (
	AlignLeft Alignment = iota
	AlignCenter
	AlignRight
)

func alignCell(s string, width int, align Alignment) string {
	pad := width - runewidth.StringWidth(s)
	if pad <= 0 {
		return s
	}
	switch align {
	case AlignRight:
		return strings.Repeat(" ", pad) + s
	case AlignCenter:
		left := pad / 2
		right := pad - left
		return strings.Repeat(" ", left) + s + strings.Repeat(" ", right)
	default:
		return s + strings.Repeat(" ", pad)
	}
}
