package analytics

import (
	"sheetlens/domain/dataset"
)

// Classify derives the column classification from cell values alone:
// a column holding any text is categorical; otherwise a column holding any
// timestamp is temporal; every remaining column (numbers and missing cells
// only, including an entirely empty column) is continuous. Column order is
// preserved within each set.
func Classify(ds *dataset.Dataset) dataset.Classification {
	c := dataset.Classification{Continuous: []string{}, Categorical: []string{}}
	if ds == nil {
		return c
	}
	for _, col := range ds.Columns() {
		switch columnKind(col) {
		case dataset.ValueTypeString:
			c.Categorical = append(c.Categorical, col.Name)
		case dataset.ValueTypeTimestamp:
			c.Temporal = append(c.Temporal, col.Name)
		default:
			c.Continuous = append(c.Continuous, col.Name)
		}
	}
	return c
}

func columnKind(col *dataset.Column) dataset.ValueType {
	kind := dataset.ValueTypeNumeric
	for _, v := range col.Values {
		switch {
		case v.IsString():
			return dataset.ValueTypeString
		case v.IsTimestamp():
			kind = dataset.ValueTypeTimestamp
		}
	}
	return kind
}
