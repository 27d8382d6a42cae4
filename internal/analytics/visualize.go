package analytics

import (
	"math"

	"sheetlens/domain/core"
	"sheetlens/domain/stats"
	"sheetlens/internal/errors"
	"sheetlens/internal/profiling"
)

// densityPoints is the resolution of the estimated density curve
const densityPoints = 200

// boxWhiskerFactor is the conventional Tukey multiplier for box plots
const boxWhiskerFactor = 1.5

const (
	msgDistributionFail = "Plotting of distribution could not be performed"
	msgTrendFail        = "Plotting of trendline could not be performed"
	msgBoxPlotFail      = "Plotting of outliers could not be performed"
)

// Distribution returns the histogram and kernel density of a continuous
// column. bins <= 0 uses the engine default. Columns too small or too flat
// for a density estimate get an empty curve.
func (e *Engine) Distribution(feature string, bins int) Result[*stats.Distribution] {
	return run(e, "distribution", errors.CodeDistribution, msgDistributionFail, func() (*stats.Distribution, string, error) {
		if err := e.requireData(); err != nil {
			return nil, "", err
		}
		col, err := e.continuousColumn(feature)
		if err != nil {
			return nil, "", err
		}
		values := col.Numbers()
		if len(values) == 0 {
			return nil, "", errors.WithStack(core.NewNoValuesError(feature))
		}
		if bins <= 0 {
			bins = e.histogramBins
		}

		dividers, counts, err := e.analyzer.Histogram(values, bins)
		if err != nil {
			return nil, "", errors.WithStack(err)
		}
		dist := &stats.Distribution{
			Feature:   feature,
			Values:    values,
			Bins:      make([]stats.HistogramBin, len(counts)),
			Density:   []stats.CurvePoint{},
			Bandwidth: stats.Measure(math.NaN()),
		}
		for i, c := range counts {
			dist.Bins[i] = stats.HistogramBin{Lower: dividers[i], Upper: dividers[i+1], Count: c}
		}

		xs, ys, bw, err := e.analyzer.Density(values, densityPoints)
		if err == nil {
			dist.Bandwidth = stats.Measure(bw)
			dist.Density = make([]stats.CurvePoint, len(xs))
			for i := range xs {
				dist.Density[i] = stats.CurvePoint{X: xs[i], Y: ys[i]}
			}
		}
		return dist, "", nil
	})
}

// Trend pairs the rows where both continuous columns have numbers and fits
// an ordinary least squares line through them
func (e *Engine) Trend(xFeature, yFeature string) Result[*stats.Trend] {
	return run(e, "trend", errors.CodeTrend, msgTrendFail, func() (*stats.Trend, string, error) {
		if err := e.requireData(); err != nil {
			return nil, "", err
		}
		xc, err := e.continuousColumn(xFeature)
		if err != nil {
			return nil, "", err
		}
		yc, err := e.continuousColumn(yFeature)
		if err != nil {
			return nil, "", err
		}

		trend := &stats.Trend{XFeature: xFeature, YFeature: yFeature, Points: []stats.CurvePoint{}}
		var xs, ys []float64
		for i := range xc.Values {
			xv, yv := xc.Values[i], yc.Values[i]
			if !xv.IsNumeric() || !yv.IsNumeric() {
				continue
			}
			xs = append(xs, xv.NumericVal)
			ys = append(ys, yv.NumericVal)
			trend.Points = append(trend.Points, stats.CurvePoint{X: xv.NumericVal, Y: yv.NumericVal})
		}

		fit, err := e.profiler.LinearFit(xs, ys)
		if err != nil {
			return nil, "", errors.WithStack(err)
		}
		trend.Intercept = stats.Measure(fit.Intercept)
		trend.Slope = stats.Measure(fit.Slope)
		trend.RSquared = stats.Measure(fit.RSquared)
		return trend, "", nil
	})
}

// BoxPlot computes the box and Tukey whiskers of a continuous column. The
// whiskers reach the most extreme values inside 1.5 IQR of the box; values
// beyond them are listed as outliers in row order.
func (e *Engine) BoxPlot(feature string) Result[*stats.BoxPlot] {
	return run(e, "box_plot", errors.CodeBoxPlot, msgBoxPlotFail, func() (*stats.BoxPlot, string, error) {
		if err := e.requireData(); err != nil {
			return nil, "", err
		}
		col, err := e.continuousColumn(feature)
		if err != nil {
			return nil, "", err
		}
		values := col.Numbers()
		b, err := Bounds(feature, values, boxWhiskerFactor)
		if err != nil {
			return nil, "", errors.WithStack(err)
		}

		box := &stats.BoxPlot{
			Feature:       feature,
			FirstQuartile: b.FirstQuartile,
			Median:        profiling.Median(values),
			ThirdQuartile: b.ThirdQuartile,
			LowerWhisker:  b.FirstQuartile,
			UpperWhisker:  b.ThirdQuartile,
			Outliers:      []float64{},
		}
		for _, v := range values {
			if b.IsOutlier(v) {
				box.Outliers = append(box.Outliers, v)
				continue
			}
			box.LowerWhisker = math.Min(box.LowerWhisker, v)
			box.UpperWhisker = math.Max(box.UpperWhisker, v)
		}
		return box, "", nil
	})
}
