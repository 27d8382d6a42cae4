package profiling

import (
	"math"
	"strconv"
	"time"

	"sheetlens/domain/core"
	"sheetlens/domain/dataset"

	"gonum.org/v1/gonum/stat"
)

// DataProfiler profiles label columns and paired numeric columns
type DataProfiler struct{}

// NewDataProfiler creates a new data profiler
func NewDataProfiler() *DataProfiler {
	return &DataProfiler{}
}

// Mode returns the most frequent non-missing value. Ties resolve to the
// smallest value in dataset.Value order.
func (dp *DataProfiler) Mode(values []dataset.Value) (dataset.Value, error) {
	counts := make(map[string]int)
	var mode dataset.Value
	best := 0
	for _, v := range values {
		if v.IsMissing() {
			continue
		}
		k := valueKey(v)
		counts[k]++
		n := counts[k]
		if n > best || (n == best && v.Less(mode)) {
			best = n
			mode = v
		}
	}
	if best == 0 {
		return dataset.NewMissingValue(), core.ErrNoValues
	}
	return mode, nil
}

// ProfileCategorical counts non-missing and distinct values and finds the
// mode. A column with no values has a nil mode.
func (dp *DataProfiler) ProfileCategorical(values []dataset.Value) CategoricalProfile {
	seen := make(map[string]struct{})
	profile := CategoricalProfile{}
	for _, v := range values {
		if v.IsMissing() {
			continue
		}
		profile.Count++
		seen[valueKey(v)] = struct{}{}
	}
	profile.Unique = len(seen)
	if mode, err := dp.Mode(values); err == nil {
		profile.Mode = mode.Interface()
	}
	return profile
}

// LinearFit regresses y on x by ordinary least squares
func (dp *DataProfiler) LinearFit(x, y []float64) (Fit, error) {
	if len(x) != len(y) || len(x) < 2 {
		return Fit{}, core.ErrInsufficientData
	}
	alpha, beta := stat.LinearRegression(x, y, nil, false)
	if math.IsNaN(beta) {
		return Fit{}, core.ErrInsufficientData
	}
	return Fit{
		Intercept: alpha,
		Slope:     beta,
		RSquared:  stat.RSquared(x, y, nil, alpha, beta),
	}, nil
}

// valueKey identifies a value by type and payload for counting
func valueKey(v dataset.Value) string {
	switch v.Type {
	case dataset.ValueTypeNumeric:
		return "n" + strconv.FormatFloat(v.NumericVal, 'g', -1, 64)
	case dataset.ValueTypeTimestamp:
		return "t" + v.TimestampVal.Format(time.RFC3339Nano)
	}
	return "s" + v.StringVal
}
