package analytics

import (
	"math"

	"sheetlens/domain/stats"
	"sheetlens/internal/errors"
)

const msgDescribeFail = "Descriptive statistics of data could not be performed"

// Describe summarises every continuous and categorical column. A continuous
// column with no numbers reports null measures; empty classification sets
// yield empty tables.
func (e *Engine) Describe() Result[*stats.DescriptiveSummary] {
	return run(e, "describe", errors.CodeStatistics, msgDescribeFail, func() (*stats.DescriptiveSummary, string, error) {
		if err := e.requireData(); err != nil {
			return nil, "", err
		}

		summary := &stats.DescriptiveSummary{
			Continuous:  make([]stats.ContinuousSummary, 0, len(e.schema.Continuous)),
			Categorical: make([]stats.CategoricalSummary, 0, len(e.schema.Categorical)),
		}

		for _, name := range e.schema.Continuous {
			col, _ := e.data.Column(name)
			row := stats.ContinuousSummary{Feature: name}
			nums := col.Numbers()
			if len(nums) == 0 {
				nan := stats.Measure(math.NaN())
				row.Mean, row.StdDev, row.Variance = nan, nan, nan
				row.Min, row.Max = nan, nan
				row.FirstQuartile, row.Median, row.ThirdQuartile = nan, nan, nan
			} else {
				s, err := e.analyzer.Summarize(nums)
				if err != nil {
					return nil, "", errors.WithStack(err)
				}
				row.Mean = stats.Measure(s.Mean)
				row.StdDev = stats.Measure(s.StdDev)
				row.Variance = stats.Measure(s.Variance)
				row.Min = stats.Measure(s.Min)
				row.Max = stats.Measure(s.Max)
				row.FirstQuartile = stats.Measure(s.FirstQuartile)
				row.Median = stats.Measure(s.Median)
				row.ThirdQuartile = stats.Measure(s.ThirdQuartile)
			}
			summary.Continuous = append(summary.Continuous, row)
		}

		for _, name := range e.schema.Categorical {
			col, _ := e.data.Column(name)
			profile := e.profiler.ProfileCategorical(col.Values)
			summary.Categorical = append(summary.Categorical, stats.CategoricalSummary{
				Feature: name,
				Count:   profile.Count,
				Unique:  profile.Unique,
				Mode:    profile.Mode,
			})
		}
		return summary, "", nil
	})
}
