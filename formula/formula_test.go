package formula_test

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bjaus/regtab/dataset"
	"github.com/bjaus/regtab/formula"
)

const k401k = "nettfa ~ inc + I((age-25)**2) + male + e401k"

func TestParse(t *testing.T) {
	t.Parallel()
	tests := map[string]struct {
		input     string
		names     []string
		canonical string
	}{
		"401k": {
			input:     k401k,
			names:     []string{"Intercept", "inc", "I((age - 25) ** 2)", "male", "e401k"},
			canonical: "nettfa ~ inc + I((age - 25) ** 2) + male + e401k",
		},
		"spacing is normalized": {
			input:     "y~x+I( ( age - 25 ) ** 2 )",
			names:     []string{"Intercept", "x", "I((age - 25) ** 2)"},
			canonical: "y ~ x + I((age - 25) ** 2)",
		},
		"minus one": {
			input:     "y ~ x - 1",
			names:     []string{"x"},
			canonical: "y ~ x - 1",
		},
		"leading zero": {
			input:     "y ~ 0 + x",
			names:     []string{"x"},
			canonical: "y ~ x - 1",
		},
		"leading minus one": {
			input:     "y ~ -1 + x",
			names:     []string{"x"},
			canonical: "y ~ x - 1",
		},
		"explicit intercept": {
			input:     "y ~ 1 + x",
			names:     []string{"Intercept", "x"},
			canonical: "y ~ x",
		},
		"intercept only": {
			input:     "y ~ 1",
			names:     []string{"Intercept"},
			canonical: "y ~ 1",
		},
		"duplicates dropped": {
			input:     "y ~ x + x + I(x*2) + I(x * 2)",
			names:     []string{"Intercept", "x", "I(x * 2)"},
			canonical: "y ~ x + I(x * 2)",
		},
		"function call": {
			input:     "y ~ log(inc) + I(-x)",
			names:     []string{"Intercept", "log(inc)", "I(-x)"},
			canonical: "y ~ log(inc) + I(-x)",
		},
	}
	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			f, err := formula.Parse(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.names, f.Names())
			assert.Equal(t, tt.canonical, f.String())
		})
	}
}

func TestParseErrors(t *testing.T) {
	t.Parallel()
	for name, input := range map[string]string{
		"no tilde":         "y x",
		"two tildes":       "y ~ x ~ z",
		"empty rhs":        "y ~ ",
		"empty term":       "y ~ x + + z",
		"trailing plus":    "y ~ x +",
		"unbalanced open":  "y ~ I((x)",
		"unbalanced close": "y ~ x)",
		"remove term":      "y ~ x - z",
		"no regressors":    "y ~ 0",
		"empty response":   " ~ x",
		"bad expression":   "y ~ I(x +* 2)",
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()
			_, err := formula.Parse(input)
			require.ErrorIs(t, err, formula.ErrSyntax)
		})
	}
}

func TestMustParsePanics(t *testing.T) {
	t.Parallel()
	assert.Panics(t, func() { formula.MustParse("nope") })
	assert.NotPanics(t, func() { formula.MustParse(k401k) })
}

const rows = `nettfa,inc,age,male,e401k,fsize
10,20,30,1,0,1
-5,15,25,0,1,1
NA,30,40,1,1,1
7,40,45,0,0,2
`

func frame(t *testing.T) *dataset.Frame {
	t.Helper()
	f, err := dataset.ReadCSV(strings.NewReader(rows))
	require.NoError(t, err)
	return f
}

func TestDesign(t *testing.T) {
	t.Parallel()
	d, err := formula.MustParse(k401k).Design(frame(t))
	require.NoError(t, err)

	assert.Equal(t, "nettfa", d.Response)
	assert.True(t, d.Intercept)
	assert.Equal(t, []int{0, 1, 3}, d.Rows)
	assert.Equal(t, []float64{10, -5, 7}, d.Y)

	n, k := d.X.Dims()
	assert.Equal(t, 3, n)
	assert.Equal(t, 5, k)
	assert.Equal(t, []float64{1, 20, 25, 1, 0}, []float64{d.X.At(0, 0), d.X.At(0, 1), d.X.At(0, 2), d.X.At(0, 3), d.X.At(0, 4)})
	assert.Equal(t, 0.0, d.X.At(1, 2))
	assert.Equal(t, 400.0, d.X.At(2, 2))
}

func TestDesignFunctionsAndBooleans(t *testing.T) {
	t.Parallel()
	d, err := formula.MustParse("nettfa ~ log(inc) + I(age > 28) + sqrt(inc) - 1").Design(frame(t))
	require.NoError(t, err)
	assert.False(t, d.Intercept)
	assert.Equal(t, []string{"log(inc)", "I(age > 28)", "sqrt(inc)"}, d.Names)
	assert.InDelta(t, math.Log(20), d.X.At(0, 0), 1e-12)
	assert.Equal(t, 1.0, d.X.At(0, 1))
	assert.Equal(t, 0.0, d.X.At(1, 1))
	assert.InDelta(t, math.Sqrt(15), d.X.At(1, 2), 1e-12)
}

func TestDesignErrors(t *testing.T) {
	t.Parallel()
	_, err := formula.MustParse("nettfa ~ inc + missing").Design(frame(t))
	require.ErrorIs(t, err, dataset.ErrUnknownColumn)
	assert.Contains(t, err.Error(), `"missing"`)

	_, err = formula.MustParse("nettfa ~ I(unknown * 2)").Design(frame(t))
	require.ErrorIs(t, err, dataset.ErrUnknownColumn)

	empty, err := frame(t).Filter("fsize", 7)
	require.NoError(t, err)
	_, err = formula.MustParse(k401k).Design(empty)
	require.ErrorIs(t, err, formula.ErrNoRows)
}
