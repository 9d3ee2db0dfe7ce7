package regtab

import (
	"fmt"
	"strconv"
)

// Summary row labels.
const (
	LabelRSquared     = "R-squared"
	LabelAdjRSquared  = "Adj. R-squared"
	LabelObservations = "Observations"
	LabelVariable     = "Variable"
)

// NoteStdErr is the first notes line of every table.
const NoteStdErr = "Notes: Standard errors in parentheses."

// MismatchError reports a display variable missing from one model column.
type MismatchError struct {
	Variable string
	// Column is the zero-based column index.
	Column int
}

func (e *MismatchError) Error() string {
	return fmt.Sprintf("%s: column (%d) has no coefficient %q", ErrSpecMismatch, e.Column+1, e.Variable)
}

// Is makes errors.Is(err, ErrSpecMismatch) hold.
func (e *MismatchError) Is(target error) bool {
	return target == ErrSpecMismatch
}

// Cell is the formatted content of one (variable, model) pair.
type Cell struct {
	Coef   string `json:"coef" yaml:"coef"`
	Stars  string `json:"stars,omitempty" yaml:"stars,omitempty"`
	StdErr string `json:"std_err" yaml:"std_err"`
}

// CoefLine returns the estimate immediately followed by its stars.
func (c Cell) CoefLine() string { return c.Coef + c.Stars }

// StdErrLine returns the standard error in parentheses.
func (c Cell) StdErrLine() string { return "(" + c.StdErr + ")" }

// VarRow is one variable of the table body.
type VarRow struct {
	Name  string `json:"name" yaml:"name"`
	Label string `json:"label" yaml:"label"`
	Cells []Cell `json:"cells" yaml:"cells"`
}

// StatRow is one summary statistic row of the table footer.
type StatRow struct {
	Label  string   `json:"label" yaml:"label"`
	Values []string `json:"values" yaml:"values"`
}

// Layout is a validated, fully formatted table shared by every back-end.
type Layout struct {
	Title    string     `json:"title,omitempty" yaml:"title,omitempty"`
	Response string     `json:"response,omitempty" yaml:"response,omitempty"`
	Numbers  []string   `json:"numbers" yaml:"numbers"`
	Headers  [][]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	Rows     []VarRow   `json:"rows" yaml:"rows"`
	Stats    []StatRow  `json:"stats" yaml:"stats"`
	Notes    []string   `json:"notes" yaml:"notes"`

	config Config
}

// Width returns the number of model columns.
func (l *Layout) Width() int { return len(l.Numbers) }

// Build validates t and formats every cell. No partial layout is returned:
// a specification mismatch anywhere fails the whole table.
func Build(t Table) (*Layout, error) {
	if len(t.Columns) == 0 {
		return nil, ErrEmptyTable
	}
	for i, c := range t.Columns {
		if err := c.Result.Validate(); err != nil {
			return nil, fmt.Errorf("column (%d): %w", i+1, err)
		}
	}

	vars := t.variables()
	seen := make(map[string]struct{}, len(vars))
	for _, name := range vars {
		if _, dup := seen[name]; dup {
			return nil, fmt.Errorf("%w: %q listed twice in display order", ErrDuplicateVariable, name)
		}
		seen[name] = struct{}{}
	}
	for _, name := range vars {
		for i, c := range t.Columns {
			if _, ok := c.Result.Lookup(name); !ok {
				return nil, &MismatchError{Variable: name, Column: i}
			}
		}
	}

	cfg := t.Config.withDefaults()
	l := &Layout{
		Title:    t.Title,
		Response: t.response(),
		Numbers:  make([]string, len(t.Columns)),
		Headers:  headerLines(t.Columns),
		Rows:     make([]VarRow, len(vars)),
		Notes:    []string{NoteStdErr, cfg.legend()},
		config:   cfg,
	}
	for i := range t.Columns {
		l.Numbers[i] = "(" + strconv.Itoa(i+1) + ")"
	}

	for r, name := range vars {
		row := VarRow{Name: name, Label: t.Labels.Label(name), Cells: make([]Cell, len(t.Columns))}
		for i, c := range t.Columns {
			e, _ := c.Result.Lookup(name)
			row.Cells[i] = cfg.cell(e)
		}
		l.Rows[r] = row
	}

	rsq := StatRow{Label: LabelRSquared, Values: make([]string, len(t.Columns))}
	adj := StatRow{Label: LabelAdjRSquared, Values: make([]string, len(t.Columns))}
	nobs := StatRow{Label: LabelObservations, Values: make([]string, len(t.Columns))}
	for i, c := range t.Columns {
		rsq.Values[i] = FormatNumber(c.Result.RSquared, cfg.Precision)
		adj.Values[i] = FormatNumber(c.Result.AdjRSquared, cfg.Precision)
		nobs.Values[i] = strconv.Itoa(c.Result.NObs)
	}
	l.Stats = []StatRow{rsq, adj, nobs}

	return l, nil
}

// headerLines transposes per-column header stacks into rows. Shorter
// stacks are padded with blanks at the bottom.
func headerLines(cols []Column) [][]string {
	depth := 0
	for _, c := range cols {
		if len(c.Header) > depth {
			depth = len(c.Header)
		}
	}
	lines := make([][]string, depth)
	for d := range depth {
		lines[d] = make([]string, len(cols))
		for i, c := range cols {
			if d < len(c.Header) {
				lines[d][i] = c.Header[d]
			}
		}
	}
	return lines
}
