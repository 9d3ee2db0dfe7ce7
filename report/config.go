// Package report turns a declarative description of a regression
// comparison (dataset, sample filter, formula, weights and a list of
// models) into a regtab.Table and publishes it.
package report

import (
	"bytes"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/bjaus/regtab"
)

// EnvPrefix prefixes the environment variables that override config keys.
const EnvPrefix = "REGTAB"

// Estimators.
const (
	EstimatorOLS = "ols"
	EstimatorWLS = "wls"
)

// Sentinel errors for programmatic error handling.
var (
	ErrInvalidConfig    = errors.New("invalid config")
	ErrUnknownEstimator = errors.New("unknown estimator")
)

// Config describes one comparison table.
type Config struct {
	Title   string   `mapstructure:"title" yaml:"title"`
	Dataset string   `mapstructure:"dataset" yaml:"dataset" validate:"required"`
	Filter  *Filter  `mapstructure:"filter" yaml:"filter,omitempty"`
	Formula string   `mapstructure:"formula" yaml:"formula" validate:"required"`
	Weights *Weights `mapstructure:"weights" yaml:"weights,omitempty"`
	// Labels map regressor names to display labels. They are a list
	// rather than a map because config keys are case-insensitive.
	Labels []Label  `mapstructure:"labels" yaml:"labels,omitempty" validate:"dive"`
	Order  []string `mapstructure:"order" yaml:"order,omitempty"`
	Models []Model  `mapstructure:"models" yaml:"models" validate:"required,min=1,dive"`
	Layout Layout   `mapstructure:"layout" yaml:"layout"`
	Output Output   `mapstructure:"output" yaml:"output"`
}

// Filter keeps the rows where Column equals Equals.
type Filter struct {
	Column string  `mapstructure:"column" yaml:"column" validate:"required"`
	Equals float64 `mapstructure:"equals" yaml:"equals"`
}

// Weights configures WLS weights as the reciprocal of a column.
type Weights struct {
	Reciprocal string `mapstructure:"reciprocal" yaml:"reciprocal" validate:"required"`
}

// Label is the display label of one regressor.
type Label struct {
	Name  string `mapstructure:"name" yaml:"name" validate:"required"`
	Label string `mapstructure:"label" yaml:"label" validate:"required"`
}

// Model is one column of the table.
type Model struct {
	Estimator  string   `mapstructure:"estimator" yaml:"estimator" validate:"oneof=ols wls"`
	Covariance string   `mapstructure:"covariance" yaml:"covariance,omitempty" validate:"omitempty,oneof=nonrobust HC0"`
	Header     []string `mapstructure:"header" yaml:"header,omitempty"`
}

// Layout sets the text widths and decimal precision.
type Layout struct {
	LabelWidth  int `mapstructure:"label_width" yaml:"label_width" validate:"gte=1"`
	ColumnWidth int `mapstructure:"column_width" yaml:"column_width" validate:"gte=1"`
	Precision   int `mapstructure:"precision" yaml:"precision" validate:"gte=1,lte=15"`
}

// Output selects what is published and where.
type Output struct {
	Format string `mapstructure:"format" yaml:"format" validate:"omitempty,oneof=text html latex markdown csv tsv json yaml"`
	// HTML is a file path for a standalone HTML document.
	HTML string `mapstructure:"html" yaml:"html,omitempty"`
	// LaTeX appends a LaTeX fragment to the main output.
	LaTeX bool `mapstructure:"latex" yaml:"latex"`
}

// DefaultConfig returns the 401(k) eligibility comparison: net financial
// assets of single-person households regressed on income, age, sex and
// eligibility, by OLS and WLS with 1/income weights, each with classical
// and robust standard errors.
func DefaultConfig() Config {
	return Config{
		Title:   "Net Financial Assets Regression Results",
		Dataset: "401ksubs.csv",
		Filter:  &Filter{Column: "fsize", Equals: 1},
		Formula: "nettfa ~ inc + I((age-25)**2) + male + e401k",
		Weights: &Weights{Reciprocal: "inc"},
		Labels: []Label{
			{Name: "Intercept", Label: "Constant"},
			{Name: "inc", Label: "Income"},
			{Name: "I((age - 25) ** 2)", Label: "Age-25 squared"},
			{Name: "male", Label: "Male"},
			{Name: "e401k", Label: "401k eligible"},
		},
		Order: []string{"Intercept", "inc", "I((age - 25) ** 2)", "male", "e401k"},
		Models: []Model{
			{Estimator: EstimatorOLS, Covariance: "nonrobust", Header: []string{"OLS", "Plain SE"}},
			{Estimator: EstimatorOLS, Covariance: "HC0", Header: []string{"OLS", "Robust SE"}},
			{Estimator: EstimatorWLS, Covariance: "nonrobust", Header: []string{"WLS", "Plain SE"}},
			{Estimator: EstimatorWLS, Covariance: "HC0", Header: []string{"WLS", "Robust SE"}},
		},
		Layout: Layout{
			LabelWidth:  regtab.DefaultLabelWidth,
			ColumnWidth: regtab.DefaultColumnWidth,
			Precision:   regtab.DefaultPrecision,
		},
		Output: Output{Format: string(regtab.Text), HTML: "regression_table.html", LaTeX: true},
	}
}

// Load reads the YAML config at path from fs. An empty path starts from
// DefaultConfig. REGTAB_DATASET and REGTAB_OUTPUT_HTML override the
// dataset and HTML output paths. The result is validated.
func Load(fs afero.Fs, path string) (Config, error) {
	v := viper.New()
	v.SetFs(fs)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range []string{"dataset", "output.html"} {
		if err := v.BindEnv(key); err != nil {
			return Config{}, err
		}
	}

	def := DefaultConfig()
	v.SetDefault("layout.label_width", def.Layout.LabelWidth)
	v.SetDefault("layout.column_width", def.Layout.ColumnWidth)
	v.SetDefault("layout.precision", def.Layout.Precision)
	v.SetDefault("output.format", def.Output.Format)

	if path == "" {
		raw, err := yaml.Marshal(def)
		if err != nil {
			return Config{}, err
		}
		if err := v.ReadConfig(bytes.NewReader(raw)); err != nil {
			return Config{}, fmt.Errorf("read default config: %w", err)
		}
	} else {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks field constraints and that WLS models have weights.
func (c Config) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		// Use YAML key in error messages
		name := strings.SplitN(fld.Tag.Get("yaml"), ",", 2)[0]
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	var errs []error
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, e := range verrs {
			errs = append(errs, fmt.Errorf(
				"key=%q, value=%q, failed %q validation",
				strings.TrimPrefix(e.Namespace(), "Config."),
				fmt.Sprint(e.Value()),
				e.ActualTag(),
			))
		}
	}
	for i, m := range c.Models {
		if m.Estimator == EstimatorWLS && c.Weights == nil {
			errs = append(errs, fmt.Errorf("model (%d): wls needs weights", i+1))
		}
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w:\n%w", ErrInvalidConfig, errors.Join(errs...))
	}
	return nil
}

// LabelMap returns the labels keyed by regressor name.
func (c Config) LabelMap() regtab.Labels {
	labels := make(regtab.Labels, len(c.Labels))
	for _, l := range c.Labels {
		labels[l.Name] = l.Label
	}
	return labels
}
