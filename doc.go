// Package regtab renders fitted regression models as a side-by-side
// comparison table.
//
// A [Table] holds an ordered list of [Column] values, each carrying a
// [Result] and the header lines stacked above it. Every column must expose
// the same regressors; the display order is the key order of the first
// column unless [Table.Order] overrides it.
//
//	err := regtab.Write(os.Stdout, regtab.Text, regtab.Table{
//		Title:   "Net Financial Assets",
//		Columns: cols,
//		Labels:  regtab.Labels{"Intercept": "Constant"},
//	})
//
// # Cells
//
// Each (variable, model) pair renders as two lines: the estimate with four
// decimals followed by its significance stars, and the standard error in
// parentheses:
//
//	0.5000***
//	(0.0500)
//
// Stars follow [DefaultThresholds]: "***" for p<0.01, "**" for p<0.05 and
// "*" for p<0.1. NaN and infinite values render as "nan", "inf" and "-inf".
//
// # Formats
//
// [Text] is a fixed-width table for the terminal. [HTML] and [LaTeX] are
// fragments meant for reports and papers; [WriteHTMLDocument] wraps the HTML
// fragment in a minimal page. [Markdown], [CSV], [TSV], [JSON] and [YAML]
// cover the remaining uses. Use [ParseFormat] to convert a CLI flag.
//
// # Fitting
//
// The package only formats. Subpackages produce the results: dataset loads
// CSV data, formula turns "y ~ x + I((age-25)**2)" into a design matrix,
// fit estimates OLS and WLS models, and report wires them together from a
// YAML config for the regtab command.
//
// # Errors
//
// Tables are validated before anything is written:
//
//   - [ErrEmptyTable]: no model columns
//   - [ErrSpecMismatch]: a column lacks a displayed regressor; the
//     concrete error is a [*MismatchError]
//   - [ErrDuplicateVariable]: a result repeats a regressor name
//   - [ErrUnsupportedFormat]: unknown format string
package regtab
