package regtab

import (
	"strconv"
	"strings"
)

// Layout defaults.
const (
	DefaultLabelWidth  = 20
	DefaultColumnWidth = 15
	DefaultPrecision   = 4
)

// DefaultThresholds are the significance levels, most strict first. A
// p-value below the i-th threshold earns len(thresholds)-i stars.
var DefaultThresholds = []float64{0.01, 0.05, 0.10}

// Config controls number formatting, significance levels and text widths.
// Zero fields fall back to the defaults.
type Config struct {
	// LabelWidth is the width of the variable label column in text output.
	LabelWidth int
	// ColumnWidth is the width of each model column in text output. The
	// default fits a 4-decimal estimate of up to five integer digits plus
	// three stars.
	ColumnWidth int
	// Precision is the number of fractional digits for estimates,
	// standard errors and R-squared values.
	Precision int
	// Thresholds are the significance levels, most strict first.
	Thresholds []float64
}

// DefaultConfig returns the default formatter configuration.
func DefaultConfig() Config {
	return Config{
		LabelWidth:  DefaultLabelWidth,
		ColumnWidth: DefaultColumnWidth,
		Precision:   DefaultPrecision,
		Thresholds:  append([]float64(nil), DefaultThresholds...),
	}
}

func (c Config) withDefaults() Config {
	if c.LabelWidth <= 0 {
		c.LabelWidth = DefaultLabelWidth
	}
	if c.ColumnWidth <= 0 {
		c.ColumnWidth = DefaultColumnWidth
	}
	if c.Precision <= 0 {
		c.Precision = DefaultPrecision
	}
	if len(c.Thresholds) == 0 {
		c.Thresholds = DefaultThresholds
	}
	return c
}

// Stars returns the significance marker for p. Boundaries fall into the
// less significant bucket. NaN and out-of-range values never panic.
func (c Config) Stars(p float64) string {
	th := c.withDefaults().Thresholds
	for i, v := range th {
		if p < v {
			return strings.Repeat("*", len(th)-i)
		}
	}
	return ""
}

// level is one significance threshold as shown in table notes.
type level struct {
	Stars string
	Value string
}

// levels returns the thresholds most strict first, with their markers.
func (c Config) levels() []level {
	th := c.withDefaults().Thresholds
	out := make([]level, len(th))
	for i, v := range th {
		out[i] = level{
			Stars: strings.Repeat("*", len(th)-i),
			Value: strconv.FormatFloat(v, 'f', -1, 64),
		}
	}
	return out
}

// legend returns the significance legend, e.g. "*** p<0.01, ** p<0.05, * p<0.1".
func (c Config) legend() string {
	lv := c.levels()
	parts := make([]string, len(lv))
	for i, l := range lv {
		parts[i] = l.Stars + " p<" + l.Value
	}
	return strings.Join(parts, ", ")
}
