package profiling

import (
	"math"
	"sort"

	"sheetlens/domain/core"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// DistributionAnalyzer handles summary statistics and distribution shape
type DistributionAnalyzer struct{}

// NewDistributionAnalyzer creates a new distribution analyzer
func NewDistributionAnalyzer() *DistributionAnalyzer {
	return &DistributionAnalyzer{}
}

// Summarize computes the descriptive markers of data
func (da *DistributionAnalyzer) Summarize(data []float64) (Summary, error) {
	if len(data) == 0 {
		return Summary{}, core.ErrInsufficientData
	}

	mean, err := stats.Mean(data)
	if err != nil {
		return Summary{}, err
	}

	stdDev, err := stats.StandardDeviationSample(data)
	if err != nil {
		return Summary{}, err
	}

	variance, err := stats.SampleVariance(data)
	if err != nil {
		return Summary{}, err
	}

	min, err := stats.Min(data)
	if err != nil {
		return Summary{}, err
	}

	max, err := stats.Max(data)
	if err != nil {
		return Summary{}, err
	}

	sorted := sortedCopy(data)
	return Summary{
		Count:         len(data),
		Mean:          mean,
		StdDev:        stdDev,
		Variance:      variance,
		Min:           min,
		Max:           max,
		FirstQuartile: Quantile(sorted, 0.25),
		Median:        Quantile(sorted, 0.5),
		ThirdQuartile: Quantile(sorted, 0.75),
	}, nil
}

// Quartiles returns the 25th and 75th percentiles of data
func Quartiles(data []float64) (q1, q3 float64, err error) {
	if len(data) == 0 {
		return 0, 0, core.ErrInsufficientData
	}
	sorted := sortedCopy(data)
	return Quantile(sorted, 0.25), Quantile(sorted, 0.75), nil
}

// Quantile returns the p-quantile of ascending data, interpolating linearly
// between the two nearest order statistics at rank (n-1)*p. For [1 2 3 4 5]
// the quartiles are 2 and 4.
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	h := float64(n-1) * p
	lo := math.Floor(h)
	hi := math.Ceil(h)
	return sorted[int(lo)] + (h-lo)*(sorted[int(hi)]-sorted[int(lo)])
}

// Histogram splits data into bins equal-width bins spanning [min, max] and
// returns the bin edges (bins+1 of them) and the count in each bin. The
// last bin includes max.
func (da *DistributionAnalyzer) Histogram(data []float64, bins int) (dividers, counts []float64, err error) {
	if len(data) == 0 || bins <= 0 {
		return nil, nil, core.ErrInsufficientData
	}
	sorted := sortedCopy(data)
	lo, hi := sorted[0], sorted[len(sorted)-1]
	if lo == hi {
		lo, hi = lo-0.5, hi+0.5
	}

	dividers = make([]float64, bins+1)
	floats.Span(dividers, lo, hi)
	// stat.Histogram treats the last divider as exclusive
	dividers[bins] = math.Nextafter(dividers[bins], math.Inf(1))

	counts = stat.Histogram(nil, dividers, sorted, nil)
	return dividers, counts, nil
}

// Density estimates the probability density of data with a Gaussian kernel
// at points evenly spaced over the sample range padded by three bandwidths.
// The bandwidth follows Scott's rule, sigma * n^(-1/5).
func (da *DistributionAnalyzer) Density(data []float64, points int) (xs, ys []float64, bandwidth float64, err error) {
	if len(data) < 2 || points < 2 {
		return nil, nil, math.NaN(), core.ErrInsufficientData
	}
	sigma := stat.StdDev(data, nil)
	if sigma == 0 || math.IsNaN(sigma) {
		return nil, nil, math.NaN(), core.ErrInsufficientData
	}
	bandwidth = sigma * math.Pow(float64(len(data)), -0.2)

	kernel := distuv.Normal{Mu: 0, Sigma: bandwidth}
	xs = make([]float64, points)
	floats.Span(xs, floats.Min(data)-3*bandwidth, floats.Max(data)+3*bandwidth)

	ys = make([]float64, points)
	for i, x := range xs {
		sum := 0.0
		for _, d := range data {
			sum += kernel.Prob(x - d)
		}
		ys[i] = sum / float64(len(data))
	}
	return xs, ys, bandwidth, nil
}

func sortedCopy(data []float64) []float64 {
	sorted := make([]float64, len(data))
	copy(sorted, data)
	sort.Float64s(sorted)
	return sorted
}

// Median returns the middle of data, NaN when empty
func Median(data []float64) float64 {
	return Quantile(sortedCopy(data), 0.5)
}
