package regtab

import (
	"bytes"
	"errors"
	"fmt"
	"io"
)

// Sentinel errors for programmatic error handling.
var (
	ErrUnsupportedFormat = errors.New("unsupported format")
	ErrEmptyTable        = errors.New("table has no model columns")
	ErrSpecMismatch      = errors.New("specification mismatch")
	ErrDuplicateVariable = errors.New("duplicate variable")
	ErrInvalidResult     = errors.New("invalid result")
)

// Format represents an output format.
type Format string

const (
	Text     Format = "text"
	HTML     Format = "html"
	LaTeX    Format = "latex"
	Markdown Format = "markdown"
	CSV      Format = "csv"
	TSV      Format = "tsv"
	JSON     Format = "json"
	YAML     Format = "yaml"
)

var formats = []Format{Text, HTML, LaTeX, Markdown, CSV, TSV, JSON, YAML}

// String returns the format name.
func (f Format) String() string { return string(f) }

// Formats returns all supported format names.
func Formats() []Format {
	out := make([]Format, len(formats))
	copy(out, formats)
	return out
}

// ParseFormat parses a format string.
func ParseFormat(s string) (Format, error) {
	for _, f := range formats {
		if string(f) == s {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

// Write validates t, renders it in format f and writes it to w. Nothing is
// written when validation fails.
func Write(w io.Writer, f Format, t Table) error {
	l, err := Build(t)
	if err != nil {
		return err
	}
	return l.Write(w, f)
}

// Write renders the layout in format f. The output is materialized in
// memory and handed to w in a single Write call.
func (l *Layout) Write(w io.Writer, f Format) error {
	var buf bytes.Buffer
	if err := l.render(&buf, f); err != nil {
		return err
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func (l *Layout) render(w io.Writer, f Format) error {
	switch f {
	case Text:
		return writeText(w, l)
	case HTML:
		return writeHTML(w, l)
	case LaTeX:
		return writeLaTeX(w, l)
	case Markdown:
		return writeMarkdown(w, l)
	case CSV:
		return writeCSV(w, l, ',')
	case TSV:
		return writeCSV(w, l, '\t')
	case JSON:
		return writeJSON(w, l)
	case YAML:
		return writeYAML(w, l)
	default:
		return fmt.Errorf("%w: %q", ErrUnsupportedFormat, f)
	}
}

// Marshal renders t in format f and returns the bytes.
func Marshal(f Format, t Table) ([]byte, error) {
	var buf bytes.Buffer
	if err := Write(&buf, f, t); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
