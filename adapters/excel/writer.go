package excel

import (
	"fmt"
	"os"
	"path/filepath"

	"sheetlens/domain/dataset"
	"sheetlens/internal"

	"github.com/xuri/excelize/v2"
)

// DataWriter serializes datasets to Excel workbooks
type DataWriter struct {
	logger *internal.Logger
}

// NewDataWriter creates a writer
func NewDataWriter(logger *internal.Logger) *DataWriter {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	return &DataWriter{logger: logger}
}

// WriteFile writes ds to <dir>/file.xlsx on a single sheet with a header row
// and no index column, creating dir as needed. Missing cells are left blank.
// It returns the path written.
func (w *DataWriter) WriteFile(ds *dataset.Dataset, dir string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create export directory %s: %w", dir, err)
	}

	f := excelize.NewFile()
	defer f.Close()

	for j, col := range ds.Columns() {
		ref, err := excelize.CoordinatesToCellName(j+1, 1)
		if err != nil {
			return "", err
		}
		if err := f.SetCellStr(ExportSheetName, ref, col.Name); err != nil {
			return "", fmt.Errorf("failed to write header %s: %w", col.Name, err)
		}
		for i, v := range col.Values {
			if v.IsMissing() {
				continue
			}
			ref, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return "", err
			}
			if err := f.SetCellValue(ExportSheetName, ref, v.Interface()); err != nil {
				return "", fmt.Errorf("failed to write cell %s: %w", ref, err)
			}
		}
	}

	path := filepath.Join(dir, ExportFileName)
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", path, err)
	}
	w.logger.Debug("[DataWriter] Wrote %d columns, %d rows to %s", ds.NumColumns(), ds.NumRows(), path)
	return path, nil
}
