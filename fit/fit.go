// Package fit estimates linear regressions by ordinary and weighted least
// squares with classical or heteroskedasticity-robust (HC0) standard
// errors.
package fit

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/bjaus/regtab"
)

// Sentinel errors for programmatic error handling.
var (
	ErrTooFewObservations = errors.New("too few observations")
	ErrSingular           = errors.New("singular design matrix")
	ErrBadWeights         = errors.New("invalid weights")
	ErrDimension          = errors.New("dimension mismatch")
	ErrUnknownCovariance  = errors.New("unknown covariance type")
)

// Covariance selects the coefficient covariance estimator.
type Covariance string

const (
	// NonRobust is the classical estimator sigma^2 (X'X)^-1.
	NonRobust Covariance = "nonrobust"
	// HC0 is White's heteroskedasticity-consistent estimator.
	HC0 Covariance = "HC0"
)

// ParseCovariance parses a covariance name. The empty string means NonRobust.
func ParseCovariance(s string) (Covariance, error) {
	switch Covariance(s) {
	case "", NonRobust:
		return NonRobust, nil
	case HC0:
		return HC0, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCovariance, s)
}

// Design is a response vector and a regressor matrix ready to fit.
type Design struct {
	Response string
	// Names label the columns of X.
	Names []string
	Y     []float64
	X     *mat.Dense
	// Intercept reports whether one column of X is the constant term.
	Intercept bool
	// Rows are the source row indices retained in Y and X.
	Rows []int
}

// OLS fits d by ordinary least squares.
func OLS(d *Design, cov Covariance) (regtab.Result, error) {
	return estimate(d, nil, cov)
}

// WLS fits d by weighted least squares. Weights must be positive and
// finite, one per row of d.
func WLS(d *Design, weights []float64, cov Covariance) (regtab.Result, error) {
	n, _ := d.X.Dims()
	if len(weights) != n {
		return regtab.Result{}, fmt.Errorf("%w: %d weights for %d rows", ErrDimension, len(weights), n)
	}
	for i, w := range weights {
		if !(w > 0) || math.IsInf(w, 0) {
			return regtab.Result{}, fmt.Errorf("%w: weight %v at row %d", ErrBadWeights, w, i)
		}
	}
	return estimate(d, weights, cov)
}

func estimate(d *Design, weights []float64, cov Covariance) (regtab.Result, error) {
	n, k := d.X.Dims()
	if len(d.Y) != n || len(d.Names) != k {
		return regtab.Result{}, fmt.Errorf("%w: %d responses, %d names for a %dx%d design", ErrDimension, len(d.Y), len(d.Names), n, k)
	}
	if n <= k {
		return regtab.Result{}, fmt.Errorf("%w: %d rows for %d regressors", ErrTooFewObservations, n, k)
	}
	if cov != NonRobust && cov != HC0 {
		return regtab.Result{}, fmt.Errorf("%w: %q", ErrUnknownCovariance, cov)
	}

	w := weights
	if w == nil {
		w = make([]float64, n)
		for i := range w {
			w[i] = 1
		}
	}

	// Whiten: rows scaled by sqrt(w) turn WLS into OLS.
	xw := mat.NewDense(n, k, nil)
	yw := mat.NewVecDense(n, nil)
	for i := range n {
		s := math.Sqrt(w[i])
		for j := range k {
			xw.Set(i, j, s*d.X.At(i, j))
		}
		yw.SetVec(i, s*d.Y[i])
	}

	var xtx, xtxInv mat.Dense
	xtx.Mul(xw.T(), xw)
	if err := xtxInv.Inverse(&xtx); err != nil {
		return regtab.Result{}, fmt.Errorf("%w: %w", ErrSingular, err)
	}

	var xty, beta, fitted, resid mat.VecDense
	xty.MulVec(xw.T(), yw)
	beta.MulVec(&xtxInv, &xty)
	fitted.MulVec(xw, &beta)
	resid.SubVec(yw, &fitted)

	ssr := mat.Dot(&resid, &resid)
	dfResid := float64(n - k)

	var tss float64
	if d.Intercept {
		var sw, swy float64
		for i := range n {
			sw += w[i]
			swy += w[i] * d.Y[i]
		}
		mean := swy / sw
		for i := range n {
			dev := d.Y[i] - mean
			tss += w[i] * dev * dev
		}
	} else {
		tss = mat.Dot(yw, yw)
	}
	rsq := 1 - ssr/tss
	kConst := 0.0
	if d.Intercept {
		kConst = 1
	}
	adj := 1 - (float64(n)-kConst)/dfResid*(1-rsq)

	var vcov mat.Dense
	var dist interface{ Survival(float64) float64 }
	switch cov {
	case HC0:
		// Sandwich (X'X)^-1 X' diag(e^2) X (X'X)^-1.
		scaled := mat.NewDense(n, k, nil)
		for i := range n {
			e := resid.AtVec(i)
			for j := range k {
				scaled.Set(i, j, e*xw.At(i, j))
			}
		}
		var meat, left mat.Dense
		meat.Mul(scaled.T(), scaled)
		left.Mul(&xtxInv, &meat)
		vcov.Mul(&left, &xtxInv)
		dist = distuv.UnitNormal
	default:
		vcov.Scale(ssr/dfResid, &xtxInv)
		dist = distuv.StudentsT{Mu: 0, Sigma: 1, Nu: dfResid}
	}

	res := regtab.Result{
		Response:    d.Response,
		Estimates:   make([]regtab.Estimate, k),
		RSquared:    rsq,
		AdjRSquared: adj,
		NObs:        n,
	}
	for j := range k {
		coef := beta.AtVec(j)
		se := math.Sqrt(vcov.At(j, j))
		res.Estimates[j] = regtab.Estimate{
			Name:   d.Names[j],
			Coef:   coef,
			StdErr: se,
			PValue: 2 * dist.Survival(math.Abs(coef/se)),
		}
	}
	return res, nil
}
