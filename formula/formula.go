// Package formula parses Wilkinson-style model formulas such as
//
//	nettfa ~ inc + I((age-25)**2) + male + e401k
//
// and evaluates them against a dataset into a design matrix.
//
// The right-hand side is a sum of terms. A term is a column name, an
// inline transform wrapped in I(...), or a bare function call like
// log(inc). Transforms are arithmetic expressions over column names with
// the operators + - * / % ** and the functions log, exp, sqrt and abs.
// An intercept named "Intercept" is added first unless the formula
// contains "- 1", "+ 0" or starts with "0 +".
package formula

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gopkg.in/Knetic/govaluate.v3"

	"github.com/bjaus/regtab/dataset"
	"github.com/bjaus/regtab/fit"
)

// InterceptName is the name of the constant term.
const InterceptName = "Intercept"

// Sentinel errors for programmatic error handling.
var (
	ErrSyntax = errors.New("formula syntax error")
	ErrEval   = errors.New("cannot evaluate term")
	ErrNoRows = errors.New("no complete rows")
)

var identRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

var functions = map[string]govaluate.ExpressionFunction{
	"log":  unary(math.Log),
	"exp":  unary(math.Exp),
	"sqrt": unary(math.Sqrt),
	"abs":  unary(math.Abs),
}

func unary(fn func(float64) float64) govaluate.ExpressionFunction {
	return func(args ...any) (any, error) {
		if len(args) != 1 {
			return nil, fmt.Errorf("want 1 argument, got %d", len(args))
		}
		x, ok := args[0].(float64)
		if !ok {
			return nil, fmt.Errorf("argument %v is not a number", args[0])
		}
		return fn(x), nil
	}
}

// Term is one regressor or the response of a formula.
type Term struct {
	// Name is the display name, e.g. "inc" or "I((age - 25) ** 2)".
	Name string
	// Column is set for bare column references.
	Column string

	expr *govaluate.EvaluableExpression
}

// Vars returns the columns the term reads.
func (t Term) Vars() []string {
	if t.expr == nil {
		return []string{t.Column}
	}
	return t.expr.Vars()
}

func (t Term) eval(row map[string]any) (float64, error) {
	if t.expr == nil {
		return row[t.Column].(float64), nil
	}
	v, err := t.expr.Evaluate(row)
	if err != nil {
		return 0, fmt.Errorf("%w %s: %w", ErrEval, t.Name, err)
	}
	switch x := v.(type) {
	case float64:
		return x, nil
	case bool:
		if x {
			return 1, nil
		}
		return 0, nil
	}
	return 0, fmt.Errorf("%w %s: result %v is not numeric", ErrEval, t.Name, v)
}

// Formula is a parsed model specification.
type Formula struct {
	Response  Term
	Terms     []Term
	Intercept bool
}

// Parse parses a formula of the form "response ~ term + term ...".
func Parse(s string) (*Formula, error) {
	lhs, rhs, ok := strings.Cut(s, "~")
	if !ok || strings.Contains(rhs, "~") {
		return nil, fmt.Errorf("%w: want exactly one '~' in %q", ErrSyntax, s)
	}

	resp, err := parseTerm(strings.TrimSpace(lhs))
	if err != nil {
		return nil, err
	}
	f := &Formula{Response: resp, Intercept: true}

	parts, err := splitTerms(rhs)
	if err != nil {
		return nil, err
	}
	seen := map[string]struct{}{}
	for _, p := range parts {
		switch {
		case p.text == "1" && !p.minus:
			f.Intercept = true
			continue
		case p.text == "0" && !p.minus, p.text == "1" && p.minus:
			f.Intercept = false
			continue
		case p.minus:
			return nil, fmt.Errorf("%w: cannot remove term %q", ErrSyntax, p.text)
		}
		t, err := parseTerm(p.text)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[t.Name]; dup {
			continue
		}
		seen[t.Name] = struct{}{}
		f.Terms = append(f.Terms, t)
	}
	if len(f.Terms) == 0 && !f.Intercept {
		return nil, fmt.Errorf("%w: no regressors in %q", ErrSyntax, s)
	}
	return f, nil
}

// MustParse is like Parse but panics on error.
func MustParse(s string) *Formula {
	f, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return f
}

// Names returns the regressor names, constant term first.
func (f *Formula) Names() []string {
	var names []string
	if f.Intercept {
		names = append(names, InterceptName)
	}
	for _, t := range f.Terms {
		names = append(names, t.Name)
	}
	return names
}

// String returns the normalized formula.
func (f *Formula) String() string {
	names := make([]string, len(f.Terms))
	for i, t := range f.Terms {
		names[i] = t.Name
	}
	rhs := strings.Join(names, " + ")
	switch {
	case rhs == "":
		rhs = "1"
	case !f.Intercept:
		rhs += " - 1"
	}
	return f.Response.Name + " ~ " + rhs
}

// Design evaluates the formula on every row of frame. Rows where the
// response or any regressor is NaN are dropped.
func (f *Formula) Design(frame *dataset.Frame) (*fit.Design, error) {
	terms := append([]Term{f.Response}, f.Terms...)
	var vars []string
	seen := map[string]struct{}{}
	for _, t := range terms {
		for _, v := range t.Vars() {
			if !frame.Has(v) {
				return nil, fmt.Errorf("term %s: %w: %q", t.Name, dataset.ErrUnknownColumn, v)
			}
			if _, ok := seen[v]; !ok {
				seen[v] = struct{}{}
				vars = append(vars, v)
			}
		}
	}
	cols := make(map[string][]float64, len(vars))
	for _, v := range vars {
		cols[v], _ = frame.Column(v)
	}

	names := f.Names()
	k := len(names)
	var (
		y    []float64
		x    []float64
		rows []int
	)
	row := make(map[string]any, len(vars))
	values := make([]float64, len(terms))
	for i := range frame.Len() {
		for _, v := range vars {
			row[v] = cols[v][i]
		}
		keep := true
		for j, t := range terms {
			val, err := t.eval(row)
			if err != nil {
				return nil, fmt.Errorf("row %d: %w", i, err)
			}
			if math.IsNaN(val) {
				keep = false
				break
			}
			values[j] = val
		}
		if !keep {
			continue
		}
		rows = append(rows, i)
		y = append(y, values[0])
		if f.Intercept {
			x = append(x, 1)
		}
		x = append(x, values[1:]...)
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: %d rows, none without missing values", ErrNoRows, frame.Len())
	}
	return &fit.Design{
		Response:  f.Response.Name,
		Names:     names,
		Y:         y,
		X:         mat.NewDense(len(rows), k, x),
		Intercept: f.Intercept,
		Rows:      rows,
	}, nil
}

type part struct {
	text  string
	minus bool
}

// splitTerms splits the right-hand side on top-level '+' and '-'.
func splitTerms(rhs string) ([]part, error) {
	var (
		parts []part
		depth int
		start int
		minus bool
	)
	emit := func(end int) error {
		text := strings.TrimSpace(rhs[start:end])
		if text == "" {
			if start == 0 {
				// Leading sign, e.g. "y ~ -1 + x".
				return nil
			}
			return fmt.Errorf("%w: empty term in %q", ErrSyntax, strings.TrimSpace(rhs))
		}
		parts = append(parts, part{text: text, minus: minus})
		return nil
	}
	for i, r := range rhs {
		switch r {
		case '(':
			depth++
		case ')':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("%w: unbalanced ')' in %q", ErrSyntax, rhs)
			}
		case '+', '-':
			if depth > 0 {
				continue
			}
			if err := emit(i); err != nil {
				return nil, err
			}
			minus = r == '-'
			start = i + 1
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("%w: unbalanced '(' in %q", ErrSyntax, rhs)
	}
	if err := emit(len(rhs)); err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("%w: no terms", ErrSyntax)
	}
	return parts, nil
}

func parseTerm(s string) (Term, error) {
	if s == "" {
		return Term{}, fmt.Errorf("%w: empty term", ErrSyntax)
	}
	if identRe.MatchString(s) {
		return Term{Name: s, Column: s}, nil
	}

	src := s
	name := normalize(s)
	if inner, ok := strings.CutPrefix(s, "I("); ok && strings.HasSuffix(inner, ")") {
		src = strings.TrimSuffix(inner, ")")
		name = "I(" + normalize(src) + ")"
	}
	expr, err := govaluate.NewEvaluableExpressionWithFunctions(src, functions)
	if err != nil {
		return Term{}, fmt.Errorf("%w: term %q: %w", ErrSyntax, s, err)
	}
	return Term{Name: name, expr: expr}, nil
}
