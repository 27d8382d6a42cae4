package stats

import (
	"encoding/json"
	"math"
)

// Measure is a float statistic that encodes NaN and ±Inf as JSON null
// (e.g. the standard deviation of a single observation).
type Measure float64

// MarshalJSON implements json.Marshaler
func (m Measure) MarshalJSON() ([]byte, error) {
	f := float64(m)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

// UnmarshalJSON implements json.Unmarshaler
func (m *Measure) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*m = Measure(math.NaN())
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*m = Measure(f)
	return nil
}

// Valid reports whether the measure holds a finite number
func (m Measure) Valid() bool {
	f := float64(m)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// ============================================================================
// INTEGRITY
// ============================================================================

// MissingCount is one row of the missingness report
type MissingCount struct {
	Feature string `json:"feature"`
	Missing int    `json:"missing_values_count"`
}

// MissingnessReport lists missing cell counts per column, in column order
type MissingnessReport []MissingCount

// Total sums the missing cells across all columns
func (r MissingnessReport) Total() int {
	n := 0
	for _, m := range r {
		n += m.Missing
	}
	return n
}

// ============================================================================
// DESCRIPTIVE SUMMARY
// ============================================================================

// ContinuousSummary describes one continuous column
type ContinuousSummary struct {
	Feature       string  `json:"feature"`
	Mean          Measure `json:"mean"`
	StdDev        Measure `json:"standard_deviation"` // sample (n-1)
	Variance      Measure `json:"variance"`           // sample (n-1)
	Min           Measure `json:"min"`
	Max           Measure `json:"max"`
	FirstQuartile Measure `json:"first_quartile"`
	Median        Measure `json:"median"`
	ThirdQuartile Measure `json:"third_quartile"`
}

// CategoricalSummary describes one categorical column
type CategoricalSummary struct {
	Feature string      `json:"feature"`
	Count   int         `json:"count"`
	Unique  int         `json:"count_of_unique_values"`
	Mode    interface{} `json:"mode"` // nil when the column has no values
}

// DescriptiveSummary bundles both summary tables
type DescriptiveSummary struct {
	Continuous  []ContinuousSummary  `json:"continuous_summary"`
	Categorical []CategoricalSummary `json:"categorical_summary"`
}

// ============================================================================
// OUTLIERS
// ============================================================================

// OutlierBoundary holds the whisker fences computed for one column
type OutlierBoundary struct {
	Feature       string  `json:"feature"`
	FirstQuartile float64 `json:"first_quartile"`
	ThirdQuartile float64 `json:"third_quartile"`
	IQR           float64 `json:"iqr"`
	Factor        float64 `json:"whisker_factor"`
	Lower         float64 `json:"lower_bound"`
	Upper         float64 `json:"upper_bound"`
	Flagged       int     `json:"flagged"` // cells replaced with the missing-marker
}

// IsOutlier reports whether x falls outside the fences
func (b OutlierBoundary) IsOutlier(x float64) bool {
	return x < b.Lower || x > b.Upper
}

// OutlierReport is the payload of an outlier remediation pass
type OutlierReport struct {
	Boundaries []OutlierBoundary `json:"boundaries"`
	Imputed    string            `json:"imputed_feature,omitempty"`
	Method     string            `json:"imputation_method,omitempty"`
	Filled     int               `json:"imputed_cells"`
}

// ============================================================================
// CHART DATA
// ============================================================================

// HistogramBin is one bar of a histogram: [Lower, Upper)
type HistogramBin struct {
	Lower float64 `json:"lower"`
	Upper float64 `json:"upper"`
	Count float64 `json:"count"`
}

// CurvePoint is one sample of a smooth curve
type CurvePoint struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Distribution carries everything needed to draw a distribution plot
type Distribution struct {
	Feature   string         `json:"feature"`
	Values    []float64      `json:"values"`
	Bins      []HistogramBin `json:"bins"`
	Density   []CurvePoint   `json:"density"`
	Bandwidth Measure        `json:"bandwidth"`
}

// Trend carries a scatter of paired observations and their OLS fit
type Trend struct {
	XFeature  string       `json:"x_feature"`
	YFeature  string       `json:"y_feature"`
	Points    []CurvePoint `json:"points"`
	Intercept Measure      `json:"intercept"`
	Slope     Measure      `json:"slope"`
	RSquared  Measure      `json:"r_squared"`
}

// BoxPlot carries the five-number box with Tukey whiskers
type BoxPlot struct {
	Feature       string    `json:"feature"`
	FirstQuartile float64   `json:"first_quartile"`
	Median        float64   `json:"median"`
	ThirdQuartile float64   `json:"third_quartile"`
	LowerWhisker  float64   `json:"lower_whisker"`
	UpperWhisker  float64   `json:"upper_whisker"`
	Outliers      []float64 `json:"outliers"`
}
