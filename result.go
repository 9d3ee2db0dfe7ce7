package regtab

import "fmt"

// Estimate is the fitted value of one regressor.
type Estimate struct {
	Name   string  `json:"name" yaml:"name"`
	Coef   float64 `json:"coef" yaml:"coef"`
	StdErr float64 `json:"std_err" yaml:"std_err"`
	PValue float64 `json:"p_value" yaml:"p_value"`
}

// Result is a fitted regression model. Estimates keep the order in which
// the regressors entered the specification, constant term first.
type Result struct {
	Response    string
	Estimates   []Estimate
	RSquared    float64
	AdjRSquared float64
	NObs        int
}

// Names returns the regressor names in display order.
func (r Result) Names() []string {
	names := make([]string, len(r.Estimates))
	for i, e := range r.Estimates {
		names[i] = e.Name
	}
	return names
}

// Lookup returns the estimate for name.
func (r Result) Lookup(name string) (Estimate, bool) {
	for _, e := range r.Estimates {
		if e.Name == name {
			return e, true
		}
	}
	return Estimate{}, false
}

// Validate checks that regressor names are unique and the observation
// count is positive.
func (r Result) Validate() error {
	seen := make(map[string]struct{}, len(r.Estimates))
	for _, e := range r.Estimates {
		if _, ok := seen[e.Name]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateVariable, e.Name)
		}
		seen[e.Name] = struct{}{}
	}
	if r.NObs <= 0 {
		return fmt.Errorf("%w: %d observations", ErrInvalidResult, r.NObs)
	}
	return nil
}

// Labels maps raw regressor names to display labels. Names without an
// entry display as-is.
type Labels map[string]string

// Label returns the display label for name.
func (l Labels) Label(name string) string {
	if label, ok := l[name]; ok && label != "" {
		return label
	}
	return name
}

// Column is one model column of a comparison table. Header lines are
// stacked top to bottom above the shared divider.
type Column struct {
	Result Result
	Header []string
}

// Table describes a comparison table of fitted models.
type Table struct {
	Title   string
	Columns []Column
	Labels  Labels

	// Order overrides the display order of regressors. Empty means the key
	// order of the first column.
	Order []string

	Config Config
}

// variables returns the display order of regressors.
func (t Table) variables() []string {
	if len(t.Order) > 0 {
		return t.Order
	}
	if len(t.Columns) == 0 {
		return nil
	}
	return t.Columns[0].Result.Names()
}

// response returns the dependent variable shared by every column, or ""
// when the columns disagree.
func (t Table) response() string {
	if len(t.Columns) == 0 {
		return ""
	}
	dep := t.Columns[0].Result.Response
	for _, c := range t.Columns[1:] {
		if c.Result.Response != dep {
			return ""
		}
	}
	return dep
}
