package regtab

import (
	"math"
	"strconv"
)

// Stars returns the significance marker for p under [DefaultThresholds]:
// "***" below 0.01, "**" below 0.05, "*" below 0.10 and "" otherwise.
func Stars(p float64) string {
	return DefaultConfig().Stars(p)
}

// FormatNumber renders x with prec fractional digits. NaN and infinities
// render as "nan", "inf" and "-inf".
func FormatNumber(x float64, prec int) string {
	switch {
	case math.IsNaN(x):
		return "nan"
	case math.IsInf(x, 1):
		return "inf"
	case math.IsInf(x, -1):
		return "-inf"
	}
	return strconv.FormatFloat(x, 'f', prec, 64)
}

// FormatCell returns the coefficient line and the standard-error line of
// one table cell using the default configuration, e.g. "0.5000***" and
// "(0.0500)".
func FormatCell(coef, se, p float64) (string, string) {
	return DefaultConfig().FormatCell(coef, se, p)
}

// FormatCell returns the coefficient line and the standard-error line of
// one table cell.
func (c Config) FormatCell(coef, se, p float64) (string, string) {
	cell := c.cell(Estimate{Coef: coef, StdErr: se, PValue: p})
	return cell.Coef + cell.Stars, "(" + cell.StdErr + ")"
}

func (c Config) cell(e Estimate) Cell {
	c = c.withDefaults()
	return Cell{
		Coef:   FormatNumber(e.Coef, c.Precision),
		Stars:  c.Stars(e.PValue),
		StdErr: FormatNumber(e.StdErr, c.Precision),
	}
}
