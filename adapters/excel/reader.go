package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"sheetlens/adapters/datareadiness/coercer"
	"sheetlens/domain/core"
	"sheetlens/domain/dataset"
	"sheetlens/internal"

	"github.com/xuri/excelize/v2"
)

// DataReader parses Excel and CSV sources into typed datasets
type DataReader struct {
	config  ExcelConfig
	coercer *coercer.TypeCoercer
	logger  *internal.Logger
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(config ExcelConfig, logger *internal.Logger) *DataReader {
	if logger == nil {
		logger = internal.NewNopLogger()
	}
	return &DataReader{
		config:  config,
		coercer: coercer.NewTypeCoercer(config.CoercionConfig),
		logger:  logger,
	}
}

// ReadFile opens path and parses it by extension
func (r *DataReader) ReadFile(path string) (*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()
	return r.Read(f, path)
}

// Read parses src as a single rectangular table with a header row. The
// format is chosen from filename's extension.
func (r *DataReader) Read(src io.Reader, filename string) (*dataset.Dataset, error) {
	format, ok := DetectFormat(filename)
	if !ok {
		return nil, fmt.Errorf("%w: %s", core.ErrUnsupportedFormat, filename)
	}
	r.logger.Debug("[DataReader] Starting to read %s file: %s", format, filename)

	switch format {
	case FormatCSV:
		return r.readCSVData(src)
	default:
		return r.readExcelData(src)
	}
}

// readExcelData reads the configured sheet (first sheet by default) using
// the workbook's native cell types
func (r *DataReader) readExcelData(src io.Reader) (*dataset.Dataset, error) {
	startTime := time.Now()
	f, err := excelize.OpenReader(src)
	if err != nil {
		return nil, fmt.Errorf("failed to open Excel file: %w", err)
	}
	defer f.Close()
	r.logger.Debug("[DataReader] Excel file opened in %.2fms", float64(time.Since(startTime).Nanoseconds())/1e6)

	sheet := r.config.SheetName
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, core.ErrEmptyTable
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %s: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, core.ErrEmptyTable
	}

	table := &rawTable{Headers: rows[0], Rows: rows[1:]}
	headers := normalizeHeaders(table.Headers, table.width())
	dates := make(map[int]bool)

	ds := dataset.New()
	for j, name := range headers {
		values := make([]dataset.Value, len(table.Rows))
		for i := range table.Rows {
			ref, err := excelize.CoordinatesToCellName(j+1, i+2)
			if err != nil {
				return nil, err
			}
			cellType, err := f.GetCellType(sheet, ref)
			if err != nil {
				return nil, fmt.Errorf("failed to read cell %s: %w", ref, err)
			}
			dateStyled, err := r.isDateCell(f, sheet, ref, dates)
			if err != nil {
				return nil, err
			}
			values[i] = r.typeCell(cellType, table.cell(i, j), dateStyled)
		}
		if err := ds.AddColumn(name, values); err != nil {
			return nil, err
		}
	}

	r.logger.Debug("[DataReader] Sheet %s read in %.2fms (%d columns, %d rows)",
		sheet, float64(time.Since(startTime).Nanoseconds())/1e6, ds.NumColumns(), ds.NumRows())
	return ds, nil
}

// typeCell converts one workbook cell using its native type. Numeric cells
// carrying a date number format become timestamps.
func (r *DataReader) typeCell(cellType excelize.CellType, raw string, dateStyled bool) dataset.Value {
	switch cellType {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		return dataset.NewStringValue(raw)
	case excelize.CellTypeError:
		return dataset.NewMissingValue()
	case excelize.CellTypeBool:
		if raw == "" {
			return dataset.NewMissingValue()
		}
		if raw == "1" || strings.EqualFold(raw, "TRUE") {
			return dataset.NewNumericValue(1)
		}
		return dataset.NewNumericValue(0)
	case excelize.CellTypeDate:
		if t, ok := r.coercer.TryParseTimestamp(raw); ok {
			return dataset.NewTimestampValue(t)
		}
	}

	if strings.TrimSpace(raw) == "" {
		return dataset.NewMissingValue()
	}
	num, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return dataset.NewStringValue(raw)
	}
	if dateStyled {
		if t, err := excelize.ExcelDateToTime(num, false); err == nil {
			return dataset.NewTimestampValue(t)
		}
	}
	return dataset.NewNumericValue(num)
}

// isDateCell reports whether the cell's number format renders a date or
// time. Results are cached per style index in seen.
func (r *DataReader) isDateCell(f *excelize.File, sheet, ref string, seen map[int]bool) (bool, error) {
	idx, err := f.GetCellStyle(sheet, ref)
	if err != nil {
		return false, fmt.Errorf("failed to read style of %s: %w", ref, err)
	}
	if idx == 0 {
		return false, nil
	}
	if isDate, ok := seen[idx]; ok {
		return isDate, nil
	}
	style, err := f.GetStyle(idx)
	if err != nil {
		return false, fmt.Errorf("failed to read style %d: %w", idx, err)
	}
	isDate := isDateNumFmt(style.NumFmt)
	if style.CustomNumFmt != nil {
		isDate = isDateLayout(*style.CustomNumFmt)
	}
	seen[idx] = isDate
	return isDate, nil
}

// isDateNumFmt covers the built-in date and time formats (14-22, 45-47)
func isDateNumFmt(id int) bool {
	return (id >= 14 && id <= 22) || (id >= 45 && id <= 47)
}

// isDateLayout reports whether a custom format code has date tokens outside
// quoted literals and bracketed sections
func isDateLayout(code string) bool {
	inQuote, inBracket := false, false
	for _, ch := range strings.ToLower(code) {
		switch {
		case ch == '"':
			inQuote = !inQuote
		case inQuote:
		case ch == '[':
			inBracket = true
		case ch == ']':
			inBracket = false
		case inBracket:
		case ch == 'y' || ch == 'd' || ch == 'h' || ch == 's':
			return true
		}
	}
	return false
}

// readCSVData reads CSV data and types each column as a whole
func (r *DataReader) readCSVData(src io.Reader) (*dataset.Dataset, error) {
	reader := csv.NewReader(src)
	reader.FieldsPerRecord = -1
	readStart := time.Now()
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV file: %w", err)
	}
	if len(rows) == 0 {
		return nil, core.ErrEmptyTable
	}
	if len(rows[0]) > 0 {
		rows[0][0] = strings.TrimPrefix(rows[0][0], "\ufeff")
	}
	r.logger.Debug("[DataReader] CSV file read in %.2fms (%d rows)", float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	table := &rawTable{Headers: rows[0], Rows: rows[1:]}
	headers := normalizeHeaders(table.Headers, table.width())

	ds := dataset.New()
	for j, name := range headers {
		cells := make([]string, len(table.Rows))
		for i := range table.Rows {
			cells[i] = table.cell(i, j)
		}
		if err := ds.AddColumn(name, r.coercer.CoerceColumn(cells)); err != nil {
			return nil, err
		}
	}

	r.logger.Debug("[DataReader] CSV file processed (%d columns, %d rows)", ds.NumColumns(), ds.NumRows())
	return ds, nil
}

// normalizeHeaders trims header cells, names blank ones "Unnamed: <index>"
// and suffixes repeats with ".1", ".2", ... so every column name is unique
func normalizeHeaders(headerRow []string, width int) []string {
	headers := make([]string, width)
	taken := make(map[string]bool, width)
	counts := make(map[string]int, width)
	for i := 0; i < width; i++ {
		name := ""
		if i < len(headerRow) {
			name = strings.TrimSpace(headerRow[i])
		}
		if name == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		base := name
		for taken[name] {
			counts[base]++
			name = fmt.Sprintf("%s.%d", base, counts[base])
		}
		taken[name] = true
		headers[i] = name
	}
	return headers
}
