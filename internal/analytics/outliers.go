package analytics

import (
	"fmt"
	"math"

	"sheetlens/domain/core"
	"sheetlens/domain/dataset"
	"sheetlens/domain/stats"
	"sheetlens/internal/errors"
	"sheetlens/internal/profiling"
)

// OutlierOptions selects the columns to clean and what to do with the cells
// flagged as outliers
type OutlierOptions struct {
	Columns       []string `json:"selected_columns" yaml:"selected_columns"`
	Method        string   `json:"imputation_method" yaml:"imputation_method"` // mean, median or empty
	WhiskerFactor float64  `json:"whisker_factor" yaml:"whisker_factor"`
}

// NewOutlierOptions selects columns with the default whisker factor and no
// imputation
func NewOutlierOptions(columns ...string) OutlierOptions {
	return OutlierOptions{Columns: columns, WhiskerFactor: DefaultWhiskerFactor}
}

const (
	msgOutlierFail     = "Outlier removal or imputation could not be performed"
	msgOutliersRemoved = " Outlier removal is performed."
	msgOutliersImputed = " Imputation is performed."
)

// Bounds computes the whisker fences of values: Q1 - f*IQR and Q3 + f*IQR
func Bounds(feature string, values []float64, factor float64) (stats.OutlierBoundary, error) {
	q1, q3, err := profiling.Quartiles(values)
	if err != nil {
		return stats.OutlierBoundary{}, core.NewNoValuesError(feature)
	}
	iqr := q3 - q1
	return stats.OutlierBoundary{
		Feature:       feature,
		FirstQuartile: q1,
		ThirdQuartile: q3,
		IQR:           iqr,
		Factor:        factor,
		Lower:         q1 - factor*iqr,
		Upper:         q3 + factor*iqr,
	}, nil
}

// RemoveOutliers replaces every value outside its column's whisker fences
// with the missing-marker, one selected column at a time. When a method is
// given, only the cells just flagged in the last selected column are
// imputed, from that column's remaining values; methods other than mean and
// median impute nothing. Columns are processed in order and a failing column
// leaves earlier columns already cleaned.
func (e *Engine) RemoveOutliers(opts OutlierOptions) Result[*stats.OutlierReport] {
	return run(e, "remove_outliers", errors.CodeOutlierRemediation, msgOutlierFail, func() (*stats.OutlierReport, string, error) {
		if err := e.requireData(); err != nil {
			return nil, "", err
		}
		if opts.WhiskerFactor < 0 || math.IsNaN(opts.WhiskerFactor) || math.IsInf(opts.WhiskerFactor, 0) {
			return nil, "", errors.WithStack(fmt.Errorf("%w: whisker factor %v", core.ErrInvalidArgument, opts.WhiskerFactor))
		}
		if len(opts.Columns) == 0 && opts.Method != "" {
			return nil, "", errors.WithStack(core.ErrEmptySelection)
		}

		report := &stats.OutlierReport{Boundaries: make([]stats.OutlierBoundary, 0, len(opts.Columns))}
		var (
			lastName string
			flagged  []int
		)
		for _, name := range opts.Columns {
			col, err := e.continuousColumn(name)
			if err != nil {
				return nil, "", err
			}
			b, err := Bounds(name, col.Numbers(), opts.WhiskerFactor)
			if err != nil {
				return nil, "", errors.WithStack(err)
			}

			flagged = nil
			for i, v := range col.Values {
				if v.IsNumeric() && b.IsOutlier(v.NumericVal) {
					col.Values[i] = dataset.NewMissingValue()
					flagged = append(flagged, i)
				}
			}
			b.Flagged = len(flagged)
			report.Boundaries = append(report.Boundaries, b)
			lastName = name
			e.logger.Debug("[Engine] %s: fences [%g, %g], %d outliers", name, b.Lower, b.Upper, b.Flagged)
		}
		status := msgOutliersRemoved

		if opts.Method != "" {
			col, _ := e.data.Column(lastName)
			fill, ok, err := e.centre(col, opts.Method)
			if err != nil {
				return nil, "", err
			}
			if ok {
				for _, i := range flagged {
					col.Values[i] = fill
				}
				report.Filled = len(flagged)
			}
			report.Imputed = lastName
			report.Method = opts.Method
			status += msgOutliersImputed
		}

		e.reclassify()
		return report, status, nil
	})
}
