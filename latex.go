package regtab

import (
	"fmt"
	"io"
	"strings"
)

var latexEscaper = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`&`, `\&`,
	`%`, `\%`,
	`$`, `\$`,
	`#`, `\#`,
	`_`, `\_`,
	`{`, `\{`,
	`}`, `\}`,
	`~`, `\textasciitilde{}`,
	`^`, `\textasciicircum{}`,
)

func latexEscape(s string) string { return latexEscaper.Replace(s) }

func writeLaTeX(w io.Writer, l *Layout) error {
	n := l.Width()
	var lines []string
	add := func(format string, args ...any) {
		lines = append(lines, fmt.Sprintf(format, args...))
	}
	row := func(label string, cells []string) {
		add("%s & %s \\\\", label, strings.Join(cells, " & "))
	}

	add(`\begin{table}[!htbp] \centering`)
	if l.Title != "" {
		add(`  \caption{%s}`, latexEscape(l.Title))
	}
	add(`\begin{tabular}{l%s}`, strings.Repeat("c", n))
	add(`\hline \hline`)
	if l.Response != "" {
		add(`& \multicolumn{%d}{c}{\textit{Dependent variable: %s}} \\`, n, latexEscape(l.Response))
		add(`\cline{2-%d}`, n+1)
	}
	row("", l.Numbers)
	for _, h := range l.Headers {
		escaped := make([]string, len(h))
		for i, s := range h {
			escaped[i] = latexEscape(s)
		}
		row("", escaped)
	}
	add(`\hline`)

	for _, r := range l.Rows {
		coefs := make([]string, len(r.Cells))
		ses := make([]string, len(r.Cells))
		for i, c := range r.Cells {
			coefs[i] = c.Coef + latexStars(c.Stars)
			ses[i] = c.StdErrLine()
		}
		row(latexEscape(r.Label), coefs)
		row("", ses)
	}
	add(`\hline`)

	for _, s := range l.Stats {
		row(latexEscape(s.Label), s.Values)
	}
	add(`\hline \hline`)
	add(`\multicolumn{%d}{l}{\textit{%s}} \\`, n+1, latexEscape(NoteStdErr))
	add(`\multicolumn{%d}{l}{%s} \\`, n+1, latexLegend(l.config))
	add(`\end{tabular}`)
	add(`\end{table}`)

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func latexStars(stars string) string {
	if stars == "" {
		return ""
	}
	return "$^{" + stars + "}$"
}

func latexLegend(cfg Config) string {
	lv := cfg.levels()
	parts := make([]string, len(lv))
	for i, l := range lv {
		parts[i] = latexStars(l.Stars) + "p$<$" + l.Value
	}
	return strings.Join(parts, "; ")
}
