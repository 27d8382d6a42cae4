package mcptools

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"sheetlens/domain/dataset"
	"sheetlens/domain/stats"
	"sheetlens/internal/analytics"
	"sheetlens/internal/report"
)

// LoadTool handles the sheet_load MCP tool.
type LoadTool struct{ s *Session }

// Definition returns the MCP tool definition for sheet_load.
func (t *LoadTool) Definition() mcp.Tool {
	return mcp.NewTool("sheet_load",
		mcp.WithDescription("Load an .xlsx or .csv file, replacing the current dataset, and classify its columns."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Path of the spreadsheet on the server's filesystem"),
		),
	)
}

// Handle processes the sheet_load tool call.
func (t *LoadTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path := req.GetString("path", "")
	if path == "" {
		return mcp.NewToolResultError("path is required"), nil
	}
	var res analytics.Result[*analytics.LoadSummary]
	t.s.locked(func() { res = t.s.engine.LoadFile(path) })
	return envelopeResult(res)
}

// IntegrityTool handles the sheet_integrity MCP tool.
type IntegrityTool struct{ s *Session }

// Definition returns the MCP tool definition for sheet_integrity.
func (t *IntegrityTool) Definition() mcp.Tool {
	return mcp.NewTool("sheet_integrity",
		mcp.WithDescription("Count missing values in every column of the loaded dataset."),
	)
}

// Handle processes the sheet_integrity tool call.
func (t *IntegrityTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var res analytics.Result[stats.MissingnessReport]
	t.s.locked(func() { res = t.s.engine.CheckIntegrity() })
	return envelopeResult(res)
}

// RemediateTool handles the sheet_remediate MCP tool.
type RemediateTool struct{ s *Session }

// Definition returns the MCP tool definition for sheet_remediate.
func (t *RemediateTool) Definition() mcp.Tool {
	return mcp.NewTool("sheet_remediate",
		mcp.WithDescription("Remove or impute missing values, then remove or impute foreign labels in categorical columns."),
		mcp.WithBoolean("remove_missing_continuous",
			mcp.Description("Drop rows missing any continuous value"),
		),
		mcp.WithBoolean("remove_missing_categorical",
			mcp.Description("Drop rows missing any categorical value"),
		),
		mcp.WithBoolean("remove_foreign",
			mcp.Description("Drop rows with foreign labels instead of imputing them"),
		),
		mcp.WithString("impute_continuous_method",
			mcp.Description("mean or median; anything else skips imputation (default: mean)"),
		),
		mcp.WithString("impute_categorical_method",
			mcp.Description("mode; anything else skips imputation (default: mode)"),
		),
	)
}

// Handle processes the sheet_remediate tool call.
func (t *RemediateTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	opts := analytics.RemediationOptions{
		RemoveMissingContinuous:  boolArg(req, "remove_missing_continuous", false),
		RemoveMissingCategorical: boolArg(req, "remove_missing_categorical", false),
		RemoveForeign:            boolArg(req, "remove_foreign", false),
		ContinuousMethod:         req.GetString("impute_continuous_method", analytics.MethodMean),
		CategoricalMethod:        req.GetString("impute_categorical_method", analytics.MethodMode),
	}
	var res analytics.Result[*dataset.Dataset]
	t.s.locked(func() { res = t.s.engine.Remediate(opts) })
	return envelopeResult(res)
}

// DescribeTool handles the sheet_describe MCP tool.
type DescribeTool struct{ s *Session }

// Definition returns the MCP tool definition for sheet_describe.
func (t *DescribeTool) Definition() mcp.Tool {
	return mcp.NewTool("sheet_describe",
		mcp.WithDescription("Descriptive statistics for continuous and categorical columns."),
	)
}

// Handle processes the sheet_describe tool call.
func (t *DescribeTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var res analytics.Result[*stats.DescriptiveSummary]
	t.s.locked(func() { res = t.s.engine.Describe() })
	return envelopeResult(res)
}

// OutliersTool handles the sheet_outliers MCP tool.
type OutliersTool struct{ s *Session }

// Definition returns the MCP tool definition for sheet_outliers.
func (t *OutliersTool) Definition() mcp.Tool {
	return mcp.NewTool("sheet_outliers",
		mcp.WithDescription("Blank out values outside the IQR whiskers of the selected continuous columns, optionally imputing the last one."),
		mcp.WithArray("selected_columns",
			mcp.Required(),
			mcp.Description("Continuous columns to process"),
			mcp.Items(map[string]interface{}{"type": "string"}),
		),
		mcp.WithString("imputation_method",
			mcp.Description("mean or median to refill the last column; empty leaves the values missing"),
		),
		mcp.WithNumber("whisker_factor",
			mcp.Description("IQR multiplier for the fences"),
		),
	)
}

// Handle processes the sheet_outliers tool call.
func (t *OutliersTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	opts := analytics.OutlierOptions{
		Columns:       stringsArg(req, "selected_columns"),
		Method:        req.GetString("imputation_method", ""),
		WhiskerFactor: t.s.whiskerFactor,
	}
	if f, ok := floatArg(req, "whisker_factor"); ok {
		opts.WhiskerFactor = f
	}
	var res analytics.Result[*stats.OutlierReport]
	t.s.locked(func() { res = t.s.engine.RemoveOutliers(opts) })
	return envelopeResult(res)
}

// DistributionTool handles the sheet_distribution MCP tool.
type DistributionTool struct{ s *Session }

// Definition returns the MCP tool definition for sheet_distribution.
func (t *DistributionTool) Definition() mcp.Tool {
	return mcp.NewTool("sheet_distribution",
		mcp.WithDescription("Histogram and density curve of a continuous column."),
		mcp.WithString("feature", mcp.Required(), mcp.Description("Continuous column")),
		mcp.WithNumber("bins", mcp.Description("Histogram bins (default from configuration)")),
	)
}

// Handle processes the sheet_distribution tool call.
func (t *DistributionTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	bins := 0
	if f, ok := floatArg(req, "bins"); ok {
		bins = int(f)
	}
	feature := req.GetString("feature", "")
	var res analytics.Result[*stats.Distribution]
	t.s.locked(func() { res = t.s.engine.Distribution(feature, bins) })
	return envelopeResult(res)
}

// TrendTool handles the sheet_trend MCP tool.
type TrendTool struct{ s *Session }

// Definition returns the MCP tool definition for sheet_trend.
func (t *TrendTool) Definition() mcp.Tool {
	return mcp.NewTool("sheet_trend",
		mcp.WithDescription("Scatter points of two continuous columns with their least-squares line."),
		mcp.WithString("x", mcp.Required(), mcp.Description("Continuous column on the x axis")),
		mcp.WithString("y", mcp.Required(), mcp.Description("Continuous column on the y axis")),
	)
}

// Handle processes the sheet_trend tool call.
func (t *TrendTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	x, y := req.GetString("x", ""), req.GetString("y", "")
	var res analytics.Result[*stats.Trend]
	t.s.locked(func() { res = t.s.engine.Trend(x, y) })
	return envelopeResult(res)
}

// BoxPlotTool handles the sheet_boxplot MCP tool.
type BoxPlotTool struct{ s *Session }

// Definition returns the MCP tool definition for sheet_boxplot.
func (t *BoxPlotTool) Definition() mcp.Tool {
	return mcp.NewTool("sheet_boxplot",
		mcp.WithDescription("Quartiles, whiskers and outlier values of a continuous column."),
		mcp.WithString("feature", mcp.Required(), mcp.Description("Continuous column")),
	)
}

// Handle processes the sheet_boxplot tool call.
func (t *BoxPlotTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	feature := req.GetString("feature", "")
	var res analytics.Result[*stats.BoxPlot]
	t.s.locked(func() { res = t.s.engine.BoxPlot(feature) })
	return envelopeResult(res)
}

// ExportTool handles the sheet_export MCP tool.
type ExportTool struct{ s *Session }

// Definition returns the MCP tool definition for sheet_export.
func (t *ExportTool) Definition() mcp.Tool {
	return mcp.NewTool("sheet_export",
		mcp.WithDescription("Write the current dataset to <dir>/file.xlsx."),
		mcp.WithString("dir", mcp.Description("Destination directory (default from configuration)")),
	)
}

// Handle processes the sheet_export tool call.
func (t *ExportTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dir := req.GetString("dir", t.s.exportDir)
	var res analytics.Result[*analytics.ExportResult]
	t.s.locked(func() { res = t.s.engine.Export(dir) })
	return envelopeResult(res)
}

// ReportTool handles the sheet_report MCP tool.
type ReportTool struct{ s *Session }

// Definition returns the MCP tool definition for sheet_report.
func (t *ReportTool) Definition() mcp.Tool {
	return mcp.NewTool("sheet_report",
		mcp.WithDescription("Markdown data-quality report: classification, missing values and summary statistics."),
	)
}

// Handle processes the sheet_report tool call.
func (t *ReportTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var (
		in  *report.Input
		err error
	)
	t.s.locked(func() { in, err = report.Collect(t.s.engine, "Data quality report") })
	if err != nil {
		return mcp.NewToolResultError("report unavailable: " + err.Error()), nil
	}
	return mcp.NewToolResultText(report.Build(in)), nil
}
