package regtab

import (
	"bytes"
	"fmt"
	"html"
	"io"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"
)

// DocumentStyle is the inline stylesheet of [WriteHTMLDocument].
const DocumentStyle = "table {font-family: Arial, sans-serif; border-collapse: collapse; margin: 20px;} " +
	"td, th {padding: 8px; text-align: center;}"

const leftStyle = ` style="text-align: left"`

var (
	inlinePolicyOnce sync.Once
	inlinePolicy     *bluemonday.Policy
)

// inlineMarkup sanitizes user-supplied text such as titles and labels.
// Inline formatting like R<sup>2</sup> survives, everything else is
// stripped or escaped.
func inlineMarkup(raw string) string {
	inlinePolicyOnce.Do(func() {
		policy := bluemonday.NewPolicy()
		policy.AllowElements("sup", "sub", "em", "i", "b", "strong")
		inlinePolicy = policy
	})
	return strings.TrimSpace(inlinePolicy.Sanitize(raw))
}

func writeHTML(w io.Writer, l *Layout) error {
	n := l.Width()
	var lines []string
	add := func(format string, args ...any) {
		lines = append(lines, fmt.Sprintf(format, args...))
	}

	add("<table>")
	if l.Title != "" {
		add("  <caption>%s</caption>", inlineMarkup(l.Title))
	}

	add("  <thead>")
	if l.Response != "" {
		add("    <tr>")
		add("      <th></th>")
		add(`      <th colspan="%d"><em>Dependent variable: %s</em></th>`, n, html.EscapeString(l.Response))
		add("    </tr>")
	}
	for _, hdr := range append([][]string{l.Numbers}, l.Headers...) {
		add("    <tr>")
		add("      <th></th>")
		for _, h := range hdr {
			add("      <th>%s</th>", inlineMarkup(h))
		}
		add("    </tr>")
	}
	add("  </thead>")

	add("  <tbody>")
	for _, row := range l.Rows {
		add("    <tr>")
		add("      <td%s>%s</td>", leftStyle, inlineMarkup(row.Label))
		for _, c := range row.Cells {
			add("      <td>%s%s</td>", html.EscapeString(c.Coef), sup(c.Stars))
		}
		add("    </tr>")
		add("    <tr>")
		add("      <td></td>")
		for _, c := range row.Cells {
			add("      <td>%s</td>", html.EscapeString(c.StdErrLine()))
		}
		add("    </tr>")
	}
	add("  </tbody>")

	add("  <tfoot>")
	for _, s := range l.Stats {
		add("    <tr>")
		add("      <td%s>%s</td>", leftStyle, html.EscapeString(s.Label))
		for _, v := range s.Values {
			add("      <td>%s</td>", html.EscapeString(v))
		}
		add("    </tr>")
	}
	add("    <tr>")
	add(`      <td colspan="%d"%s>%s</td>`, n+1, leftStyle, html.EscapeString(NoteStdErr))
	add("    </tr>")
	add("    <tr>")
	add(`      <td colspan="%d"%s>%s</td>`, n+1, leftStyle, htmlLegend(l.config))
	add("    </tr>")
	add("  </tfoot>")
	add("</table>")

	for _, line := range lines {
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func sup(stars string) string {
	if stars == "" {
		return ""
	}
	return "<sup>" + stars + "</sup>"
}

func htmlLegend(cfg Config) string {
	lv := cfg.levels()
	parts := make([]string, len(lv))
	for i, l := range lv {
		parts[i] = sup(l.Stars) + "p&lt;" + l.Value
	}
	return strings.Join(parts, "; ")
}

// WriteHTMLDocument renders t as a standalone HTML page with a minimal
// inline stylesheet. Nothing is written when validation fails.
func WriteHTMLDocument(w io.Writer, t Table) error {
	l, err := Build(t)
	if err != nil {
		return err
	}
	return l.WriteHTMLDocument(w)
}

// WriteHTMLDocument renders the layout as a standalone HTML page.
func (l *Layout) WriteHTMLDocument(w io.Writer) error {
	var buf bytes.Buffer
	buf.WriteString("<html><head><style>" + DocumentStyle + "</style></head><body>\n")
	if err := writeHTML(&buf, l); err != nil {
		return err
	}
	buf.WriteString("</body></html>\n")
	_, err := w.Write(buf.Bytes())
	return err
}
