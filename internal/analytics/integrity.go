package analytics

import (
	"regexp"
	"strings"

	"sheetlens/domain/core"
	"sheetlens/domain/dataset"
	"sheetlens/domain/stats"
	"sheetlens/internal/errors"
)

// Imputation methods. Any other value is accepted and performs no imputation.
const (
	MethodMean   = "mean"
	MethodMedian = "median"
	MethodMode   = "mode"
)

// RemediationOptions selects how missing and foreign values are handled
type RemediationOptions struct {
	RemoveMissingContinuous  bool   `json:"remove_missing_continuous" yaml:"remove_missing_continuous"`
	RemoveMissingCategorical bool   `json:"remove_missing_categorical" yaml:"remove_missing_categorical"`
	RemoveForeign            bool   `json:"remove_foreign" yaml:"remove_foreign"`
	ContinuousMethod         string `json:"impute_continuous_method" yaml:"impute_continuous_method"`
	CategoricalMethod        string `json:"impute_categorical_method" yaml:"impute_categorical_method"`
}

// DefaultRemediationOptions imputes continuous columns with the mean and
// categorical columns with the mode, removing nothing
func DefaultRemediationOptions() RemediationOptions {
	return RemediationOptions{
		ContinuousMethod:  MethodMean,
		CategoricalMethod: MethodMode,
	}
}

const (
	msgIntegrityFail = "Data missingness could not be performed"
	msgRemediateFail = "Removal of rows with missing data or imputation could not be performed"
	msgForeignFail   = "Removal of rows with foreign data or imputation could not be performed"

	msgRemovedContinuous  = " Missing rows have been removed from continuous features."
	msgImputedContinuous  = " Imputation performed on continuous features."
	msgRemovedCategorical = " Missing rows have been removed from categorical features."
	msgImputedCategorical = " Imputation performed on categorical features."
	msgRemovedForeign     = " Foreign values have been removed."
	msgImputedForeign     = " Foreign labels in categorical features have been imputed."
)

// wordChar matches letters, digits and underscore in any script
var wordChar = regexp.MustCompile(`[\p{L}\p{N}_]`)

// IsForeign reports whether s contains no word characters, e.g. "", "..."
// or "-"
func IsForeign(s string) bool {
	return !wordChar.MatchString(s)
}

// CheckIntegrity counts missing cells in every column, in column order
func (e *Engine) CheckIntegrity() Result[stats.MissingnessReport] {
	return run(e, "check_integrity", errors.CodeIntegrityCheck, msgIntegrityFail, func() (stats.MissingnessReport, string, error) {
		if err := e.requireData(); err != nil {
			return nil, "", err
		}
		report := make(stats.MissingnessReport, 0, e.data.NumColumns())
		for _, col := range e.data.Columns() {
			report = append(report, stats.MissingCount{Feature: col.Name, Missing: col.Missing()})
		}
		return report, "", nil
	})
}

// Remediate removes or imputes missing values, then sweeps foreign labels
// out of categorical columns, then reclassifies. The steps mutate the
// dataset in place and are not rolled back: a failure leaves the dataset as
// the failing step left it. The status message lists the steps that ran.
func (e *Engine) Remediate(opts RemediationOptions) Result[*dataset.Dataset] {
	return run(e, "remediate", errors.CodeIntegrityRemediation, msgRemediateFail, func() (*dataset.Dataset, string, error) {
		if err := e.requireData(); err != nil {
			return nil, "", err
		}

		var status strings.Builder
		if err := guard(errors.CodeIntegrityRemediation, msgRemediateFail, func() error {
			return e.remediateMissing(opts, &status)
		}); err != nil {
			return nil, "", err
		}
		if err := guard(errors.CodeForeignRemediation, msgForeignFail, func() error {
			return e.remediateForeign(opts, &status)
		}); err != nil {
			return nil, "", err
		}

		e.reclassify()
		return e.data.Clone(), status.String(), nil
	})
}

// guard runs one step, tagging its error or panic with the step's code
func guard(code errors.Code, msg string, step func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.FromPanic(code, msg, r)
		}
	}()
	if err := step(); err != nil {
		return errors.Wrap(code, err, msg)
	}
	return nil
}

func (e *Engine) remediateMissing(opts RemediationOptions, status *strings.Builder) error {
	continuous := e.schema.Continuous
	if opts.RemoveMissingContinuous {
		removed := e.dropRowsMissingIn(continuous)
		e.logger.Debug("[Engine] Removed %d rows missing continuous values", removed)
		status.WriteString(msgRemovedContinuous)
	} else {
		for _, name := range continuous {
			col, _ := e.data.Column(name)
			fill, ok, err := e.centre(col, opts.ContinuousMethod)
			if err != nil {
				return err
			}
			if ok {
				fillMissing(col, fill)
			}
		}
		status.WriteString(msgImputedContinuous)
	}

	categorical := e.schema.Categorical
	if opts.RemoveMissingCategorical {
		removed := e.dropRowsMissingIn(categorical)
		e.logger.Debug("[Engine] Removed %d rows missing categorical values", removed)
		status.WriteString(msgRemovedCategorical)
	} else if opts.CategoricalMethod == MethodMode {
		for _, name := range categorical {
			col, _ := e.data.Column(name)
			mode, err := e.profiler.Mode(col.Values)
			if err != nil {
				return errors.WithStack(core.NewNoValuesError(name))
			}
			fillMissing(col, mode)
		}
		status.WriteString(msgImputedCategorical)
	}
	return nil
}

func (e *Engine) remediateForeign(opts RemediationOptions, status *strings.Builder) error {
	foreign := make(map[string]struct{})
	for _, name := range e.schema.Categorical {
		col, _ := e.data.Column(name)
		for _, v := range col.Values {
			if v.IsString() && IsForeign(v.StringVal) {
				foreign[v.StringVal] = struct{}{}
			}
		}
	}

	replaced := e.data.ReplaceMatching(func(v dataset.Value) bool {
		if !v.IsString() {
			return false
		}
		_, ok := foreign[v.StringVal]
		return ok
	})
	e.logger.Debug("[Engine] Found %d distinct foreign values", len(foreign))

	if opts.RemoveForeign {
		removed := e.data.DropRows(func(i int) bool { return e.data.RowHasMissing(i) })
		e.logger.Debug("[Engine] Removed %d rows with missing or foreign values", removed)
		status.WriteString(msgRemovedForeign)
		return nil
	}

	for _, name := range e.data.ColumnNames() {
		rows := replaced[name]
		if len(rows) == 0 || !e.schema.IsCategorical(name) {
			continue
		}
		col, _ := e.data.Column(name)
		mode, err := e.profiler.Mode(col.Values)
		if err != nil {
			return errors.WithStack(core.NewNoValuesError(name))
		}
		for _, i := range rows {
			col.Values[i] = mode
		}
	}
	status.WriteString(msgImputedForeign)
	return nil
}

// dropRowsMissingIn drops rows with a missing cell in any of names. An
// empty name list drops nothing.
func (e *Engine) dropRowsMissingIn(names []string) int {
	if len(names) == 0 {
		return 0
	}
	return e.data.DropRows(func(i int) bool { return e.data.RowHasMissing(i, names...) })
}

// centre returns the mean or median of the column's numbers. ok is false
// for unsupported methods and for columns with no numbers.
func (e *Engine) centre(col *dataset.Column, method string) (fill dataset.Value, ok bool, err error) {
	if method != MethodMean && method != MethodMedian {
		return fill, false, nil
	}
	nums := col.Numbers()
	if len(nums) == 0 {
		return fill, false, nil
	}
	summary, err := e.analyzer.Summarize(nums)
	if err != nil {
		return fill, false, errors.WithStack(err)
	}
	if method == MethodMedian {
		return dataset.NewNumericValue(summary.Median), true, nil
	}
	return dataset.NewNumericValue(summary.Mean), true, nil
}

func fillMissing(col *dataset.Column, fill dataset.Value) int {
	n := 0
	for i, v := range col.Values {
		if v.IsMissing() {
			col.Values[i] = fill
			n++
		}
	}
	return n
}
