package profiling

import (
	"math"
	"testing"

	"sheetlens/domain/core"
	"sheetlens/domain/dataset"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func TestSummarizeOneToFive(t *testing.T) {
	s, err := NewDistributionAnalyzer().Summarize([]float64{5, 3, 1, 4, 2})
	require.NoError(t, err)

	assert.Equal(t, 5, s.Count)
	assert.Equal(t, 3.0, s.Mean)
	assert.Equal(t, 3.0, s.Median)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 5.0, s.Max)
	assert.Equal(t, 2.0, s.FirstQuartile)
	assert.Equal(t, 4.0, s.ThirdQuartile)
	assert.InDelta(t, 2.5, s.Variance, 1e-12)
	assert.InDelta(t, math.Sqrt(2.5), s.StdDev, 1e-12)
	assert.Equal(t, 2.0, s.IQR())
}

func TestSummarizeSingleValue(t *testing.T) {
	s, err := NewDistributionAnalyzer().Summarize([]float64{7})
	require.NoError(t, err)
	assert.Equal(t, 7.0, s.Mean)
	assert.True(t, math.IsNaN(s.StdDev))
	assert.True(t, math.IsNaN(s.Variance))
	assert.Equal(t, 7.0, s.FirstQuartile)
}

func TestSummarizeEmpty(t *testing.T) {
	_, err := NewDistributionAnalyzer().Summarize(nil)
	assert.ErrorIs(t, err, core.ErrInsufficientData)
}

func TestQuantile(t *testing.T) {
	tests := []struct {
		name   string
		sorted []float64
		p      float64
		want   float64
	}{
		{"lower quartile interpolates", []float64{1, 2, 3, 4}, 0.25, 1.75},
		{"upper quartile interpolates", []float64{1, 2, 3, 4}, 0.75, 3.25},
		{"median of even count", []float64{1, 2, 3, 4}, 0.5, 2.5},
		{"minimum", []float64{1, 2, 3, 4}, 0, 1},
		{"maximum", []float64{1, 2, 3, 4}, 1, 4},
		{"single", []float64{9}, 0.75, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Quantile(tt.sorted, tt.p), 1e-12)
		})
	}
	assert.True(t, math.IsNaN(Quantile(nil, 0.5)))
}

func TestQuartiles(t *testing.T) {
	q1, q3, err := Quartiles([]float64{20, 10, 10, 20, 15})
	require.NoError(t, err)
	assert.Equal(t, 10.0, q1)
	assert.Equal(t, 20.0, q3)

	_, _, err = Quartiles(nil)
	assert.Error(t, err)
}

func TestHistogram(t *testing.T) {
	data := []float64{0, 1, 2, 3, 4, 5, 6, 7, 8, 10}
	dividers, counts, err := NewDistributionAnalyzer().Histogram(data, 5)
	require.NoError(t, err)

	require.Len(t, dividers, 6)
	require.Len(t, counts, 5)
	assert.Equal(t, 0.0, dividers[0])
	assert.InDelta(t, 10.0, dividers[5], 1e-9)
	assert.Equal(t, []float64{2, 2, 2, 2, 2}, counts)
	assert.Equal(t, float64(len(data)), floats.Sum(counts))
}

func TestHistogramConstantColumn(t *testing.T) {
	dividers, counts, err := NewDistributionAnalyzer().Histogram([]float64{3, 3, 3}, 4)
	require.NoError(t, err)
	assert.Equal(t, 2.5, dividers[0])
	assert.Equal(t, 3.0, floats.Sum(counts))
}

func TestDensity(t *testing.T) {
	data := []float64{1, 2, 2, 3, 3, 3, 4, 4, 5}
	xs, ys, bw, err := NewDistributionAnalyzer().Density(data, 200)
	require.NoError(t, err)
	require.Len(t, xs, 200)
	require.Len(t, ys, 200)
	assert.Greater(t, bw, 0.0)

	// the curve integrates to roughly one
	area := 0.0
	for i := 1; i < len(xs); i++ {
		area += (xs[i] - xs[i-1]) * (ys[i] + ys[i-1]) / 2
	}
	assert.InDelta(t, 1.0, area, 0.01)

	_, _, _, err = NewDistributionAnalyzer().Density([]float64{2, 2}, 10)
	assert.Error(t, err)
}

func TestMode(t *testing.T) {
	p := NewDataProfiler()

	tests := []struct {
		name   string
		values []dataset.Value
		want   dataset.Value
	}{
		{
			"most frequent",
			[]dataset.Value{dataset.NewStringValue("b"), dataset.NewStringValue("a"), dataset.NewStringValue("b")},
			dataset.NewStringValue("b"),
		},
		{
			"tie goes to smallest",
			[]dataset.Value{dataset.NewStringValue("b"), dataset.NewStringValue("a"), dataset.NewStringValue("a"), dataset.NewStringValue("b")},
			dataset.NewStringValue("a"),
		},
		{
			"missing ignored",
			[]dataset.Value{dataset.NewMissingValue(), dataset.NewMissingValue(), dataset.NewNumericValue(4)},
			dataset.NewNumericValue(4),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.Mode(tt.values)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %v, got %v", tt.want, got)
		})
	}

	_, err := p.Mode([]dataset.Value{dataset.NewMissingValue()})
	assert.ErrorIs(t, err, core.ErrNoValues)
}

func TestProfileCategorical(t *testing.T) {
	profile := NewDataProfiler().ProfileCategorical([]dataset.Value{
		dataset.NewStringValue("x"),
		dataset.NewMissingValue(),
		dataset.NewStringValue("y"),
		dataset.NewStringValue("x"),
	})
	assert.Equal(t, 3, profile.Count)
	assert.Equal(t, 2, profile.Unique)
	assert.Equal(t, "x", profile.Mode)

	empty := NewDataProfiler().ProfileCategorical([]dataset.Value{dataset.NewMissingValue()})
	assert.Nil(t, empty.Mode)
}

func TestLinearFit(t *testing.T) {
	fit, err := NewDataProfiler().LinearFit([]float64{1, 2, 3, 4}, []float64{3, 5, 7, 9})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, fit.Intercept, 1e-9)
	assert.InDelta(t, 2.0, fit.Slope, 1e-9)
	assert.InDelta(t, 1.0, fit.RSquared, 1e-9)

	_, err = NewDataProfiler().LinearFit([]float64{1}, []float64{1})
	assert.Error(t, err)

	_, err = NewDataProfiler().LinearFit([]float64{2, 2, 2}, []float64{1, 2, 3})
	assert.Error(t, err)
}
