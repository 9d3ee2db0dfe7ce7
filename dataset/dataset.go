// Package dataset loads numeric cross-sectional data from CSV files.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cast"
)

// Sentinel errors for programmatic error handling.
var (
	ErrUnknownColumn = errors.New("unknown column")
	ErrNoHeader      = errors.New("missing header row")
	ErrParse         = errors.New("cannot parse value")
)

// missing lists the cell values read as NaN.
var missing = map[string]struct{}{"": {}, "NA": {}, "NaN": {}, "nan": {}, ".": {}}

// Frame is a column-oriented table of float64 values.
type Frame struct {
	names []string
	cols  map[string][]float64
	rows  int
}

// NewFrame builds a frame from equally long columns, kept in names order.
func NewFrame(names []string, cols map[string][]float64) (*Frame, error) {
	f := &Frame{names: append([]string(nil), names...), cols: make(map[string][]float64, len(names))}
	for i, name := range names {
		col, ok := cols[name]
		if !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
		}
		if i == 0 {
			f.rows = len(col)
		} else if len(col) != f.rows {
			return nil, fmt.Errorf("column %q has %d rows, want %d", name, len(col), f.rows)
		}
		f.cols[name] = col
	}
	return f, nil
}

// Load reads a CSV file from fs.
func Load(fs afero.Fs, path string) (*Frame, error) {
	file, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset: %w", err)
	}
	defer file.Close()

	f, err := ReadCSV(file)
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	return f, nil
}

// ReadCSV parses a CSV document with a header row. Every cell must be
// numeric; empty, "NA", "NaN" and "." cells read as NaN.
func ReadCSV(r io.Reader) (*Frame, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, err
	}
	names := make([]string, len(header))
	for i, h := range header {
		names[i] = strings.TrimSpace(h)
	}

	cols := make(map[string][]float64, len(names))
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		for i, cell := range rec {
			v, err := parseCell(cell)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d, column %q: %w", ErrParse, line, names[i], err)
			}
			cols[names[i]] = append(cols[names[i]], v)
		}
	}
	for _, name := range names {
		if cols[name] == nil {
			cols[name] = []float64{}
		}
	}
	return NewFrame(names, cols)
}

func parseCell(cell string) (float64, error) {
	cell = strings.TrimSpace(cell)
	if _, ok := missing[cell]; ok {
		return math.NaN(), nil
	}
	return cast.ToFloat64E(cell)
}

// Names returns the column names in file order.
func (f *Frame) Names() []string {
	return append([]string(nil), f.names...)
}

// Len returns the number of rows.
func (f *Frame) Len() int { return f.rows }

// Has reports whether the frame has a column called name.
func (f *Frame) Has(name string) bool {
	_, ok := f.cols[name]
	return ok
}

// Column returns the values of a column. The slice must not be modified.
func (f *Frame) Column(name string) ([]float64, error) {
	col, ok := f.cols[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	return col, nil
}

// Row returns the values of row i keyed by column name.
func (f *Frame) Row(i int) map[string]float64 {
	row := make(map[string]float64, len(f.names))
	for _, name := range f.names {
		row[name] = f.cols[name][i]
	}
	return row
}

// Filter returns the rows whose column equals value.
func (f *Frame) Filter(column string, value float64) (*Frame, error) {
	key, err := f.Column(column)
	if err != nil {
		return nil, err
	}
	cols := make(map[string][]float64, len(f.names))
	for _, name := range f.names {
		cols[name] = []float64{}
	}
	for i, v := range key {
		if v != value {
			continue
		}
		for _, name := range f.names {
			cols[name] = append(cols[name], f.cols[name][i])
		}
	}
	return NewFrame(f.names, cols)
}

// Reciprocal returns 1/x for every row of column.
func (f *Frame) Reciprocal(column string) ([]float64, error) {
	col, err := f.Column(column)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(col))
	for i, v := range col {
		out[i] = 1 / v
	}
	return out, nil
}
