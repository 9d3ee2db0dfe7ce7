package report

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/bjaus/regtab"
	"github.com/bjaus/regtab/dataset"
	"github.com/bjaus/regtab/fit"
	"github.com/bjaus/regtab/formula"
)

// LaTeXBanner introduces the LaTeX fragment appended to the main output.
const LaTeXBanner = "LaTeX output (for journal articles):"

// Build loads the dataset, applies the filter, fits every model and
// returns the comparison table.
func Build(fs afero.Fs, cfg Config, logger *zap.SugaredLogger) (regtab.Table, error) {
	frame, err := dataset.Load(fs, cfg.Dataset)
	if err != nil {
		return regtab.Table{}, err
	}
	logger.Debugf("Loaded %d rows, %d columns from %q.", frame.Len(), len(frame.Names()), cfg.Dataset)

	if cfg.Filter != nil {
		frame, err = frame.Filter(cfg.Filter.Column, cfg.Filter.Equals)
		if err != nil {
			return regtab.Table{}, fmt.Errorf("filter: %w", err)
		}
		logger.Debugf("Kept %d rows where %s == %v.", frame.Len(), cfg.Filter.Column, cfg.Filter.Equals)
	}

	f, err := formula.Parse(cfg.Formula)
	if err != nil {
		return regtab.Table{}, err
	}
	design, err := f.Design(frame)
	if err != nil {
		return regtab.Table{}, fmt.Errorf("formula %q: %w", cfg.Formula, err)
	}
	if dropped := frame.Len() - len(design.Rows); dropped > 0 {
		logger.Infof("Dropped %d rows with missing values.", dropped)
	}

	var weights []float64
	if cfg.Weights != nil {
		all, err := frame.Reciprocal(cfg.Weights.Reciprocal)
		if err != nil {
			return regtab.Table{}, fmt.Errorf("weights: %w", err)
		}
		weights = make([]float64, len(design.Rows))
		for i, row := range design.Rows {
			weights[i] = all[row]
		}
	}

	columns := make([]regtab.Column, 0, len(cfg.Models))
	for i, m := range cfg.Models {
		res, err := fitModel(design, weights, m)
		if err != nil {
			return regtab.Table{}, fmt.Errorf("model (%d): %w", i+1, err)
		}
		logger.Debugf("Fitted model (%d) %s/%s: n=%d, R-squared=%.4f.", i+1, m.Estimator, m.Covariance, res.NObs, res.RSquared)
		columns = append(columns, regtab.Column{Result: res, Header: m.Header})
	}

	return regtab.Table{
		Title:   cfg.Title,
		Columns: columns,
		Labels:  cfg.LabelMap(),
		Order:   cfg.Order,
		Config: regtab.Config{
			LabelWidth:  cfg.Layout.LabelWidth,
			ColumnWidth: cfg.Layout.ColumnWidth,
			Precision:   cfg.Layout.Precision,
		},
	}, nil
}

func fitModel(d *fit.Design, weights []float64, m Model) (regtab.Result, error) {
	cov, err := fit.ParseCovariance(m.Covariance)
	if err != nil {
		return regtab.Result{}, err
	}
	switch m.Estimator {
	case EstimatorOLS:
		return fit.OLS(d, cov)
	case EstimatorWLS:
		if weights == nil {
			return regtab.Result{}, fmt.Errorf("%w: wls without weights", fit.ErrBadWeights)
		}
		return fit.WLS(d, weights, cov)
	}
	return regtab.Result{}, fmt.Errorf("%w: %q", ErrUnknownEstimator, m.Estimator)
}

// Publish writes table to w in out.Format. When out.HTML is set, a
// standalone HTML document is written to that path on fs. When out.LaTeX is
// set, a banner and the LaTeX fragment follow the main output on w.
//
// The layout is built once, so a table that cannot be laid out fails
// before anything is written.
func Publish(w io.Writer, fs afero.Fs, out Output, table regtab.Table) error {
	format := regtab.Text
	if out.Format != "" {
		f, err := regtab.ParseFormat(out.Format)
		if err != nil {
			return err
		}
		format = f
	}

	layout, err := regtab.Build(table)
	if err != nil {
		return err
	}
	if err := layout.Write(w, format); err != nil {
		return err
	}

	if out.HTML != "" {
		var buf bytes.Buffer
		if err := layout.WriteHTMLDocument(&buf); err != nil {
			return err
		}
		if err := afero.WriteFile(fs, out.HTML, buf.Bytes(), 0o644); err != nil {
			return fmt.Errorf("write html: %w", err)
		}
	}

	if out.LaTeX {
		var buf bytes.Buffer
		banner := strings.Repeat("=", len(LaTeXBanner))
		fmt.Fprintf(&buf, "\n%s\n%s\n%s\n", banner, LaTeXBanner, banner)
		if err := layout.Write(&buf, regtab.LaTeX); err != nil {
			return err
		}
		if _, err := w.Write(buf.Bytes()); err != nil {
			return err
		}
	}
	return nil
}
