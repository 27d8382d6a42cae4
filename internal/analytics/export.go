package analytics

import (
	"sheetlens/domain/dataset"
	"sheetlens/internal/errors"
)

const msgExportFail = "Downloading of the file could not be performed"

// ExportResult pairs the written workbook with the dataset it holds
type ExportResult struct {
	Path string           `json:"path"`
	Data *dataset.Dataset `json:"data"`
}

// Export writes the current dataset to <dir>/file.xlsx, creating dir if
// needed, and returns a snapshot of what was written
func (e *Engine) Export(dir string) Result[*ExportResult] {
	return run(e, "export", errors.CodeExport, msgExportFail, func() (*ExportResult, string, error) {
		if err := e.requireData(); err != nil {
			return nil, "", err
		}
		path, err := e.writer.WriteFile(e.data, dir)
		if err != nil {
			return nil, "", errors.WithStack(err)
		}
		e.logger.Info("[Engine] Exported dataset to %s", path)
		return &ExportResult{Path: path, Data: e.data.Clone()}, "", nil
	})
}
