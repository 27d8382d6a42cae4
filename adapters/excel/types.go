package excel

import (
	"path/filepath"
	"strings"
)

// Format identifies a supported tabular file format
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
)

// DetectFormat maps a file name to its format by extension. The second
// result is false for anything other than .xlsx or .csv.
func DetectFormat(filename string) (Format, bool) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx":
		return FormatXLSX, true
	case ".csv":
		return FormatCSV, true
	}
	return "", false
}

// rawTable is a sheet before column typing: a header plus ragged rows
type rawTable struct {
	Headers []string
	Rows    [][]string
}

// width is the widest row, header included
func (t *rawTable) width() int {
	w := len(t.Headers)
	for _, row := range t.Rows {
		if len(row) > w {
			w = len(row)
		}
	}
	return w
}

// cell returns row i, column j, or "" past the end of a short row
func (t *rawTable) cell(i, j int) string {
	if j < len(t.Rows[i]) {
		return t.Rows[i][j]
	}
	return ""
}
