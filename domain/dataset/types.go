package dataset

import (
	"encoding/json"
	"fmt"

	"sheetlens/domain/core"
)

// Column is a named, ordered sequence of cells
type Column struct {
	Name   string  `json:"name"`
	Values []Value `json:"values"`
}

// Missing counts missing-marker cells in the column
func (c *Column) Missing() int {
	n := 0
	for _, v := range c.Values {
		if v.IsMissing() {
			n++
		}
	}
	return n
}

// Numbers returns the numeric, non-missing cells in row order
func (c *Column) Numbers() []float64 {
	out := make([]float64, 0, len(c.Values))
	for _, v := range c.Values {
		if v.IsNumeric() {
			out = append(out, v.NumericVal)
		}
	}
	return out
}

// Dataset is an ordered collection of named columns with a uniform row count.
// It is not safe for concurrent use.
type Dataset struct {
	columns []*Column
	index   map[string]int
	rows    int
}

// New creates an empty dataset
func New() *Dataset {
	return &Dataset{index: make(map[string]int)}
}

// AddColumn appends a column. The first column fixes the row count.
func (d *Dataset) AddColumn(name string, values []Value) error {
	if _, exists := d.index[name]; exists {
		return fmt.Errorf("%w: %s", core.ErrDuplicateColumn, name)
	}
	if len(d.columns) > 0 && len(values) != d.rows {
		return fmt.Errorf("%w: column %s has %d rows, want %d", core.ErrRowCountMismatch, name, len(values), d.rows)
	}
	if len(d.columns) == 0 {
		d.rows = len(values)
	}
	d.index[name] = len(d.columns)
	d.columns = append(d.columns, &Column{Name: name, Values: values})
	return nil
}

// Column looks up a column by name
func (d *Dataset) Column(name string) (*Column, bool) {
	i, ok := d.index[name]
	if !ok {
		return nil, false
	}
	return d.columns[i], true
}

// Columns returns the columns in order. Callers may mutate cell values but
// must not change slice lengths.
func (d *Dataset) Columns() []*Column {
	return d.columns
}

// ColumnNames returns the header in order
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.columns))
	for i, c := range d.columns {
		names[i] = c.Name
	}
	return names
}

// NumRows returns the row count
func (d *Dataset) NumRows() int { return d.rows }

// NumColumns returns the column count
func (d *Dataset) NumColumns() int { return len(d.columns) }

// Row returns a copy of row i across all columns
func (d *Dataset) Row(i int) []Value {
	row := make([]Value, len(d.columns))
	for j, c := range d.columns {
		row[j] = c.Values[i]
	}
	return row
}

// RowHasMissing reports whether any of the named columns is missing at row i.
// With no names, every column is checked.
func (d *Dataset) RowHasMissing(i int, names ...string) bool {
	if len(names) == 0 {
		for _, c := range d.columns {
			if c.Values[i].IsMissing() {
				return true
			}
		}
		return false
	}
	for _, name := range names {
		if c, ok := d.Column(name); ok && c.Values[i].IsMissing() {
			return true
		}
	}
	return false
}

// DropRows removes every row for which drop returns true, preserving the
// order of the remaining rows. It returns the number of rows removed.
func (d *Dataset) DropRows(drop func(row int) bool) int {
	keep := make([]bool, d.rows)
	kept := 0
	for i := 0; i < d.rows; i++ {
		if !drop(i) {
			keep[i] = true
			kept++
		}
	}
	if kept == d.rows {
		return 0
	}
	for _, c := range d.columns {
		out := c.Values[:0]
		for i, v := range c.Values {
			if keep[i] {
				out = append(out, v)
			}
		}
		c.Values = out
	}
	removed := d.rows - kept
	d.rows = kept
	return removed
}

// ReplaceMatching swaps every cell for which match returns true with the
// missing-marker, across all columns. It returns the replaced row indexes
// keyed by column name; columns with no replacement are absent.
func (d *Dataset) ReplaceMatching(match func(Value) bool) map[string][]int {
	replaced := make(map[string][]int)
	for _, c := range d.columns {
		for i, v := range c.Values {
			if !v.IsMissing() && match(v) {
				c.Values[i] = NewMissingValue()
				replaced[c.Name] = append(replaced[c.Name], i)
			}
		}
	}
	return replaced
}

// Clone returns a deep copy
func (d *Dataset) Clone() *Dataset {
	out := &Dataset{
		columns: make([]*Column, len(d.columns)),
		index:   make(map[string]int, len(d.index)),
		rows:    d.rows,
	}
	for i, c := range d.columns {
		values := make([]Value, len(c.Values))
		copy(values, c.Values)
		out.columns[i] = &Column{Name: c.Name, Values: values}
		out.index[c.Name] = i
	}
	return out
}

// tableJSON is the row-major wire shape of a dataset
type tableJSON struct {
	Columns []string  `json:"columns"`
	Rows    [][]Value `json:"rows"`
}

// MarshalJSON encodes the dataset row-major: {"columns": [...], "rows": [[...]]}
func (d *Dataset) MarshalJSON() ([]byte, error) {
	t := tableJSON{Columns: d.ColumnNames(), Rows: make([][]Value, d.rows)}
	for i := 0; i < d.rows; i++ {
		t.Rows[i] = d.Row(i)
	}
	return json.Marshal(t)
}

// UnmarshalJSON decodes the row-major wire shape
func (d *Dataset) UnmarshalJSON(data []byte) error {
	var t tableJSON
	if err := json.Unmarshal(data, &t); err != nil {
		return err
	}
	out := New()
	for j, name := range t.Columns {
		values := make([]Value, len(t.Rows))
		for i, row := range t.Rows {
			if j < len(row) {
				values[i] = row[j]
			} else {
				values[i] = NewMissingValue()
			}
		}
		if err := out.AddColumn(name, values); err != nil {
			return err
		}
	}
	*d = *out
	return nil
}

// Classification splits columns into analytic groups. Continuous and
// Categorical are disjoint; Temporal holds timestamp columns, which take part
// in neither analysis.
type Classification struct {
	Continuous  []string `json:"continuous"`
	Categorical []string `json:"categorical"`
	Temporal    []string `json:"temporal,omitempty"`
}

// IsContinuous reports whether name is in the continuous set
func (c Classification) IsContinuous(name string) bool {
	return contains(c.Continuous, name)
}

// IsCategorical reports whether name is in the categorical set
func (c Classification) IsCategorical(name string) bool {
	return contains(c.Categorical, name)
}

func contains(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}
