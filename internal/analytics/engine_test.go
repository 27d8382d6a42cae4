package analytics

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"sheetlens/adapters/excel"
	"sheetlens/domain/core"
	"sheetlens/domain/dataset"
	"sheetlens/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func loadCSV(t *testing.T, e *Engine, src string) *LoadSummary {
	t.Helper()
	res := e.Load(strings.NewReader(src), "data.csv")
	require.True(t, res.OK(), "load failed: %s\n%s", res.StatusMsg, res.ErrorTrace)
	return res.Output
}

func column(t *testing.T, e *Engine, name string) *dataset.Column {
	t.Helper()
	res := e.Data()
	require.True(t, res.OK())
	col, ok := res.Output.Column(name)
	require.True(t, ok, "column %s missing", name)
	return col
}

type recordingObserver struct {
	ops   []string
	codes []errors.Code
}

func (o *recordingObserver) ObserveOperation(op string, code errors.Code, _ time.Duration) {
	o.ops = append(o.ops, op)
	o.codes = append(o.codes, code)
}

func TestOperationsBeforeLoadFail(t *testing.T) {
	e := NewEngine()

	tests := []struct {
		name string
		call func() (errors.Code, string, string)
		want errors.Code
	}{
		{"data", func() (errors.Code, string, string) { r := e.Data(); return r.ErrorCode, r.StatusMsg, r.ErrorTrace }, errors.CodeIntegrityCheck},
		{"check integrity", func() (errors.Code, string, string) { r := e.CheckIntegrity(); return r.ErrorCode, r.StatusMsg, r.ErrorTrace }, errors.CodeIntegrityCheck},
		{"remediate", func() (errors.Code, string, string) {
			r := e.Remediate(DefaultRemediationOptions())
			return r.ErrorCode, r.StatusMsg, r.ErrorTrace
		}, errors.CodeIntegrityRemediation},
		{"describe", func() (errors.Code, string, string) { r := e.Describe(); return r.ErrorCode, r.StatusMsg, r.ErrorTrace }, errors.CodeStatistics},
		{"remove outliers", func() (errors.Code, string, string) {
			r := e.RemoveOutliers(NewOutlierOptions("x"))
			return r.ErrorCode, r.StatusMsg, r.ErrorTrace
		}, errors.CodeOutlierRemediation},
		{"export", func() (errors.Code, string, string) {
			r := e.Export(t.TempDir())
			return r.ErrorCode, r.StatusMsg, r.ErrorTrace
		}, errors.CodeExport},
		{"distribution", func() (errors.Code, string, string) {
			r := e.Distribution("x", 0)
			return r.ErrorCode, r.StatusMsg, r.ErrorTrace
		}, errors.CodeDistribution},
		{"trend", func() (errors.Code, string, string) { r := e.Trend("x", "y"); return r.ErrorCode, r.StatusMsg, r.ErrorTrace }, errors.CodeTrend},
		{"box plot", func() (errors.Code, string, string) { r := e.BoxPlot("x"); return r.ErrorCode, r.StatusMsg, r.ErrorTrace }, errors.CodeBoxPlot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var (
				code  errors.Code
				msg   string
				trace string
			)
			require.NotPanics(t, func() { code, msg, trace = tt.call() })
			assert.Equal(t, tt.want, code)
			assert.NotEmpty(t, msg)
			assert.Contains(t, trace, "no dataset loaded")
		})
	}
}

func TestLoadClassifiesEveryColumn(t *testing.T) {
	e := NewEngine()
	summary := loadCSV(t, e, "n,label,code,when,blank\n1,a,7,2024-01-01,\n2,b,x,2024-01-02,\n,c,9,,\n")

	assert.Equal(t, "data.csv", summary.File)
	assert.Equal(t, 3, summary.Rows)

	c := e.Classification()
	assert.Equal(t, []string{"n", "blank"}, c.Continuous)
	assert.Equal(t, []string{"label", "code"}, c.Categorical)
	assert.Equal(t, []string{"when"}, c.Temporal)

	seen := map[string]int{}
	for _, set := range [][]string{c.Continuous, c.Categorical, c.Temporal} {
		for _, name := range set {
			seen[name]++
		}
	}
	for _, name := range summary.Columns {
		assert.Equal(t, 1, seen[name], "column %s", name)
	}
	assert.Len(t, seen, len(summary.Columns))
}

func TestLoadPartitionsNumericAndTextColumns(t *testing.T) {
	e := NewEngine()
	summary := loadCSV(t, e, "a,b,c,d\n1,x,2.5,y\n2,z,3.5,w\n")

	c := e.Classification()
	all := append(append([]string{}, c.Continuous...), c.Categorical...)
	assert.ElementsMatch(t, summary.Columns, all)
	assert.Empty(t, c.Temporal)
	for _, name := range c.Continuous {
		assert.NotContains(t, c.Categorical, name)
	}
}

func TestLoadFailureResetsState(t *testing.T) {
	e := NewEngine()
	loadCSV(t, e, "a\n1\n")
	require.True(t, e.Loaded())

	res := e.Load(strings.NewReader("irrelevant"), "notes.txt")
	assert.Equal(t, errors.CodeLoad, res.ErrorCode)
	assert.Equal(t, msgLoadFail, res.StatusMsg)
	assert.NotEmpty(t, res.ErrorTrace)
	assert.Nil(t, res.Output)
	assert.False(t, e.Loaded())
	assert.Empty(t, e.Classification().Continuous)

	assert.Equal(t, errors.CodeStatistics, e.Describe().ErrorCode)
}

func TestLoadFileMissing(t *testing.T) {
	e := NewEngine()
	res := e.LoadFile(filepath.Join(t.TempDir(), "absent.xlsx"))
	assert.Equal(t, errors.CodeLoad, res.ErrorCode)
	assert.False(t, e.Loaded())
}

func TestLoadReplacesDataset(t *testing.T) {
	e := NewEngine()
	loadCSV(t, e, "a,b\n1,2\n")
	loadCSV(t, e, "c\nx\ny\n")

	data := e.Data()
	require.True(t, data.OK())
	assert.Equal(t, []string{"c"}, data.Output.ColumnNames())
	assert.Equal(t, []string{"c"}, e.Classification().Categorical)
	assert.Empty(t, e.Classification().Continuous)
}

func TestDataIsSnapshot(t *testing.T) {
	e := NewEngine()
	loadCSV(t, e, "a\n1\n2\n")

	snap := e.Data().Output
	col, _ := snap.Column("a")
	col.Values[0] = dataset.NewNumericValue(100)

	assert.Equal(t, 1.0, column(t, e, "a").Values[0].NumericVal)
}

func TestRunRecoversPanics(t *testing.T) {
	e := NewEngine()
	res := run(e, "explode", errors.CodeStatistics, msgDescribeFail, func() (int, string, error) {
		var m map[string]int
		m["boom"] = 1
		return 0, "", nil
	})
	assert.Equal(t, errors.CodeStatistics, res.ErrorCode)
	assert.Equal(t, msgDescribeFail, res.StatusMsg)
	assert.Contains(t, res.ErrorTrace, "assignment to entry in nil map")
	assert.Zero(t, res.Output)
}

func TestResultErr(t *testing.T) {
	e := NewEngine()
	res := e.Describe()
	err := res.Err()
	require.Error(t, err)
	assert.Equal(t, errors.CodeStatistics, errors.GetCode(err))

	loadCSV(t, e, "a\n1\n")
	assert.NoError(t, e.Describe().Err())
}

func TestObserverSeesEveryOperation(t *testing.T) {
	obs := &recordingObserver{}
	e := NewEngine(WithObserver(obs))

	e.Describe()
	loadCSV(t, e, "a\n1\n")
	e.CheckIntegrity()

	assert.Equal(t, []string{"describe", "load", "check_integrity"}, obs.ops)
	assert.Equal(t, []errors.Code{errors.CodeStatistics, errors.CodeOK, errors.CodeOK}, obs.codes)
}

func TestExportThenLoadIsIdempotent(t *testing.T) {
	e := NewEngine()
	loadCSV(t, e, "id,score,city\n1,3.5,Oslo\n2,,Bergen\n3,-7,\n4,12,Oslo\n")
	before := e.Data().Output

	dir := filepath.Join(t.TempDir(), "exports")
	res := e.Export(dir)
	require.True(t, res.OK(), res.ErrorTrace)
	assert.Equal(t, filepath.Join(dir, "file.xlsx"), res.Output.Path)
	assert.Equal(t, before.ColumnNames(), res.Output.Data.ColumnNames())

	reloaded := NewEngine()
	load := reloaded.LoadFile(res.Output.Path)
	require.True(t, load.OK(), load.ErrorTrace)
	after := reloaded.Data().Output

	assert.Equal(t, before.ColumnNames(), after.ColumnNames())
	require.Equal(t, before.NumRows(), after.NumRows())
	for _, col := range before.Columns() {
		got, _ := after.Column(col.Name)
		for i, v := range col.Values {
			assert.True(t, v.Equal(got.Values[i]), "%s[%d]: want %v, got %v", col.Name, i, v, got.Values[i])
		}
	}
	assert.Equal(t, e.Classification(), reloaded.Classification())
}

func TestExportUnwritableDestination(t *testing.T) {
	e := NewEngine()
	loadCSV(t, e, "a\n1\n")

	// a regular file where a directory is expected
	blocker := filepath.Join(t.TempDir(), "blocker")
	require.True(t, e.Export(blocker).OK())
	res := e.Export(filepath.Join(blocker, "file.xlsx", "nested"))
	assert.Equal(t, errors.CodeExport, res.ErrorCode)
	assert.Equal(t, msgExportFail, res.StatusMsg)
}

func TestFail(t *testing.T) {
	res := Fail[*LoadSummary](errors.CodeLoad, "upload rejected", core.ErrUnsupportedFormat)
	assert.Equal(t, errors.CodeLoad, res.ErrorCode)
	assert.Equal(t, "upload rejected", res.StatusMsg)
	assert.Contains(t, res.ErrorTrace, "unsupported file format")
	assert.Nil(t, res.Output)

	res = Fail[*LoadSummary](errors.CodeExport, "no file", nil)
	assert.Equal(t, errors.CodeExport, res.ErrorCode)
	assert.NotEmpty(t, res.ErrorTrace)
}

func TestWithExcelConfigLenientNumbers(t *testing.T) {
	src := "price,item\n\"$1,200\",a\n(3),b\n"

	strict := NewEngine()
	loadCSV(t, strict, src)
	assert.Equal(t, []string{"price", "item"}, strict.Classification().Categorical)

	cfg := excel.DefaultExcelConfig()
	cfg.CoercionConfig.LenientNumbers = true
	lenient := NewEngine(WithExcelConfig(cfg))
	loadCSV(t, lenient, src)
	assert.Equal(t, []string{"price"}, lenient.Classification().Continuous)
	assert.Equal(t, []float64{1200, -3}, column(t, lenient, "price").Numbers())
}
