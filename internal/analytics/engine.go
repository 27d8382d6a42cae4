// Package analytics holds the engine that owns the working dataset and runs
// the data-quality and descriptive-statistics operations over it.
package analytics

import (
	"io"
	"path/filepath"
	"time"

	"sheetlens/adapters/excel"
	"sheetlens/domain/core"
	"sheetlens/domain/dataset"
	"sheetlens/internal"
	"sheetlens/internal/errors"
	"sheetlens/internal/profiling"
)

// DefaultWhiskerFactor is the IQR multiplier used when the caller has no
// preference
const DefaultWhiskerFactor = 1.3

// DefaultHistogramBins is the bin count used when a distribution request
// asks for none
const DefaultHistogramBins = 20

// Observer receives the outcome of every engine operation
type Observer interface {
	ObserveOperation(operation string, code errors.Code, elapsed time.Duration)
}

// Engine owns one dataset and its column classification. It performs no
// locking: callers must serialise operations on one instance, and concurrent
// sessions need one engine each.
type Engine struct {
	data   *dataset.Dataset
	schema dataset.Classification

	reader   *excel.DataReader
	writer   *excel.DataWriter
	analyzer *profiling.DistributionAnalyzer
	profiler *profiling.DataProfiler

	excelConfig   excel.ExcelConfig
	histogramBins int
	logger        *internal.Logger
	observer      Observer
}

// Option configures an Engine
type Option func(*Engine)

// WithLogger sets the engine logger
func WithLogger(l *internal.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithObserver reports every operation's outcome to o
func WithObserver(o Observer) Option {
	return func(e *Engine) { e.observer = o }
}

// WithExcelConfig overrides how spreadsheets are parsed
func WithExcelConfig(cfg excel.ExcelConfig) Option {
	return func(e *Engine) { e.excelConfig = cfg }
}

// WithHistogramBins sets the default bin count for distributions
func WithHistogramBins(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.histogramBins = n
		}
	}
}

// NewEngine creates an engine with no dataset loaded
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		analyzer:      profiling.NewDistributionAnalyzer(),
		profiler:      profiling.NewDataProfiler(),
		excelConfig:   excel.DefaultExcelConfig(),
		histogramBins: DefaultHistogramBins,
		logger:        internal.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.reader = excel.NewDataReader(e.excelConfig, e.logger)
	e.writer = excel.NewDataWriter(e.logger)
	return e
}

// LoadSummary describes a freshly loaded dataset
type LoadSummary struct {
	File           string                 `json:"file"`
	Rows           int                    `json:"rows"`
	Columns        []string               `json:"columns"`
	Classification dataset.Classification `json:"classification"`
}

const (
	msgLoadOK   = "Function executed successfully"
	msgLoadFail = "Upload file with .xlsx or .csv format only"
	msgDataFail = "Data could not be displayed"
)

// Load parses src as an .xlsx workbook or .csv file, chosen by filename's
// extension, and replaces the current dataset. On failure no dataset is
// retained.
func (e *Engine) Load(src io.Reader, filename string) Result[*LoadSummary] {
	return run(e, "load", errors.CodeLoad, msgLoadFail, func() (*LoadSummary, string, error) {
		e.reset()
		ds, err := e.reader.Read(src, filename)
		if err != nil {
			return nil, "", errors.WithStack(err)
		}
		return e.install(ds, filename), msgLoadOK, nil
	})
}

// LoadFile is Load for a file on disk
func (e *Engine) LoadFile(path string) Result[*LoadSummary] {
	return run(e, "load", errors.CodeLoad, msgLoadFail, func() (*LoadSummary, string, error) {
		e.reset()
		ds, err := e.reader.ReadFile(path)
		if err != nil {
			return nil, "", errors.WithStack(err)
		}
		return e.install(ds, path), msgLoadOK, nil
	})
}

func (e *Engine) reset() {
	e.data = nil
	e.schema = dataset.Classification{}
}

func (e *Engine) install(ds *dataset.Dataset, filename string) *LoadSummary {
	e.data = ds
	e.reclassify()
	e.logger.Info("[Engine] Loaded %s (%d columns, %d rows, %d continuous, %d categorical)",
		filepath.Base(filename), ds.NumColumns(), ds.NumRows(), len(e.schema.Continuous), len(e.schema.Categorical))
	return &LoadSummary{
		File:           filepath.Base(filename),
		Rows:           ds.NumRows(),
		Columns:        ds.ColumnNames(),
		Classification: e.Classification(),
	}
}

// Data returns a snapshot of the current dataset
func (e *Engine) Data() Result[*dataset.Dataset] {
	return run(e, "data", errors.CodeIntegrityCheck, msgDataFail, func() (*dataset.Dataset, string, error) {
		if err := e.requireData(); err != nil {
			return nil, "", err
		}
		return e.data.Clone(), "", nil
	})
}

// Loaded reports whether a dataset is present
func (e *Engine) Loaded() bool {
	return e.data != nil
}

// Classification returns a copy of the current column classification
func (e *Engine) Classification() dataset.Classification {
	return dataset.Classification{
		Continuous:  append([]string{}, e.schema.Continuous...),
		Categorical: append([]string{}, e.schema.Categorical...),
		Temporal:    append([]string(nil), e.schema.Temporal...),
	}
}

func (e *Engine) reclassify() {
	e.schema = Classify(e.data)
}

func (e *Engine) requireData() error {
	if e.data == nil {
		return errors.WithStack(core.ErrNoDataset)
	}
	return nil
}

// continuousColumn resolves name to a continuous column of the dataset
func (e *Engine) continuousColumn(name string) (*dataset.Column, error) {
	col, ok := e.data.Column(name)
	if !ok {
		return nil, errors.WithStack(core.NewColumnNotFoundError(name))
	}
	if !e.schema.IsContinuous(name) {
		return nil, errors.WithStack(core.NewNotContinuousError(name))
	}
	return col, nil
}
