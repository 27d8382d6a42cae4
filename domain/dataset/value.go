package dataset

import (
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// ValueType defines the storage type of a cell
type ValueType string

const (
	ValueTypeString    ValueType = "string"
	ValueTypeNumeric   ValueType = "numeric"
	ValueTypeTimestamp ValueType = "timestamp"
	ValueTypeMissing   ValueType = "missing"
)

// Value is a single typed cell. The zero Value is the missing-marker.
type Value struct {
	Type         ValueType
	StringVal    string
	NumericVal   float64
	TimestampVal time.Time
}

// NewStringValue creates a string value. Empty strings are kept as strings,
// not folded into the missing-marker.
func NewStringValue(s string) Value {
	return Value{Type: ValueTypeString, StringVal: s}
}

// NewNumericValue creates a numeric value. NaN is treated as missing.
func NewNumericValue(n float64) Value {
	if math.IsNaN(n) {
		return NewMissingValue()
	}
	return Value{Type: ValueTypeNumeric, NumericVal: n}
}

// NewTimestampValue creates a timestamp value
func NewTimestampValue(t time.Time) Value {
	return Value{Type: ValueTypeTimestamp, TimestampVal: t}
}

// NewMissingValue creates the missing-marker
func NewMissingValue() Value {
	return Value{Type: ValueTypeMissing}
}

// IsMissing reports whether the cell holds the missing-marker
func (v Value) IsMissing() bool {
	return v.Type == ValueTypeMissing || v.Type == ""
}

// IsNumeric reports whether the cell holds a number
func (v Value) IsNumeric() bool { return v.Type == ValueTypeNumeric }

// IsString reports whether the cell holds text
func (v Value) IsString() bool { return v.Type == ValueTypeString }

// IsTimestamp reports whether the cell holds a timestamp
func (v Value) IsTimestamp() bool { return v.Type == ValueTypeTimestamp }

// Equal compares type and payload
func (v Value) Equal(o Value) bool {
	if v.IsMissing() || o.IsMissing() {
		return v.IsMissing() && o.IsMissing()
	}
	if v.Type != o.Type {
		return false
	}
	switch v.Type {
	case ValueTypeString:
		return v.StringVal == o.StringVal
	case ValueTypeNumeric:
		return v.NumericVal == o.NumericVal
	case ValueTypeTimestamp:
		return v.TimestampVal.Equal(o.TimestampVal)
	}
	return false
}

// Less orders values for deterministic mode tie-breaking: numbers before
// timestamps before strings, each compared naturally.
func (v Value) Less(o Value) bool {
	if v.Type != o.Type {
		return typeRank(v.Type) < typeRank(o.Type)
	}
	switch v.Type {
	case ValueTypeNumeric:
		return v.NumericVal < o.NumericVal
	case ValueTypeTimestamp:
		return v.TimestampVal.Before(o.TimestampVal)
	case ValueTypeString:
		return v.StringVal < o.StringVal
	}
	return false
}

func typeRank(t ValueType) int {
	switch t {
	case ValueTypeNumeric:
		return 0
	case ValueTypeTimestamp:
		return 1
	case ValueTypeString:
		return 2
	}
	return 3
}

// Interface returns the Go value for serializers: string, float64,
// time.Time or nil for missing.
func (v Value) Interface() interface{} {
	switch v.Type {
	case ValueTypeString:
		return v.StringVal
	case ValueTypeNumeric:
		return v.NumericVal
	case ValueTypeTimestamp:
		return v.TimestampVal
	}
	return nil
}

// String returns the string representation of the value
func (v Value) String() string {
	switch v.Type {
	case ValueTypeString:
		return v.StringVal
	case ValueTypeNumeric:
		return strconv.FormatFloat(v.NumericVal, 'g', -1, 64)
	case ValueTypeTimestamp:
		return v.TimestampVal.Format(time.RFC3339)
	}
	return ""
}

// MarshalJSON encodes the cell as a bare JSON scalar, null when missing
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Type {
	case ValueTypeString:
		return json.Marshal(v.StringVal)
	case ValueTypeNumeric:
		if math.IsInf(v.NumericVal, 0) {
			return []byte("null"), nil
		}
		return json.Marshal(v.NumericVal)
	case ValueTypeTimestamp:
		return json.Marshal(v.TimestampVal.Format(time.RFC3339))
	}
	return []byte("null"), nil
}

// UnmarshalJSON decodes a bare JSON scalar. Strings stay strings; the
// timestamp type does not survive a JSON round trip.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch t := raw.(type) {
	case nil:
		*v = NewMissingValue()
	case float64:
		*v = NewNumericValue(t)
	case string:
		*v = NewStringValue(t)
	case bool:
		if t {
			*v = NewNumericValue(1)
		} else {
			*v = NewNumericValue(0)
		}
	default:
		*v = NewStringValue(string(data))
	}
	return nil
}
