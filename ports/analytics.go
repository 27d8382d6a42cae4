package ports

import (
	"io"

	"sheetlens/domain/dataset"
	"sheetlens/domain/stats"
	"sheetlens/internal/analytics"
)

// AnalyticsEngine is the surface the front ends drive. Every call returns
// the uniform result envelope; none of them panics.
type AnalyticsEngine interface {
	// Ingestion
	Load(src io.Reader, filename string) analytics.Result[*analytics.LoadSummary]
	LoadFile(path string) analytics.Result[*analytics.LoadSummary]
	Data() analytics.Result[*dataset.Dataset]
	Loaded() bool
	Classification() dataset.Classification

	// Data quality
	CheckIntegrity() analytics.Result[stats.MissingnessReport]
	Remediate(opts analytics.RemediationOptions) analytics.Result[*dataset.Dataset]
	RemoveOutliers(opts analytics.OutlierOptions) analytics.Result[*stats.OutlierReport]

	// Statistics and chart data
	Describe() analytics.Result[*stats.DescriptiveSummary]
	Distribution(feature string, bins int) analytics.Result[*stats.Distribution]
	Trend(xFeature, yFeature string) analytics.Result[*stats.Trend]
	BoxPlot(feature string) analytics.Result[*stats.BoxPlot]

	// Output
	Export(dir string) analytics.Result[*analytics.ExportResult]
}

var _ AnalyticsEngine = (*analytics.Engine)(nil)
