package excel

import (
	"sheetlens/adapters/datareadiness/coercer"
)

// ExportFileName is the fixed name of every exported workbook
const ExportFileName = "file.xlsx"

// ExportSheetName is the sheet the exported table is written to
const ExportSheetName = "Sheet1"

// ExcelConfig holds configuration for reading and writing tabular files
type ExcelConfig struct {
	SheetName      string                 `json:"sheet_name"` // empty means the first sheet
	CoercionConfig coercer.CoercionConfig `json:"coercion_config"`
}

// DefaultExcelConfig returns sensible defaults for spreadsheet processing
func DefaultExcelConfig() ExcelConfig {
	return ExcelConfig{
		CoercionConfig: coercer.DefaultCoercionConfig(),
	}
}
