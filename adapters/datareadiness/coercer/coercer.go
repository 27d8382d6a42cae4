package coercer

import (
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"sheetlens/domain/dataset"
)

// TypeCoercer handles deterministic type coercion of raw text cells
type TypeCoercer struct {
	config CoercionConfig
}

// CoercionConfig defines the coercion thresholds and rules
type CoercionConfig struct {
	NumericThreshold   float64 `json:"numeric_threshold"`   // share of non-empty values that must parse as numbers
	TimestampThreshold float64 `json:"timestamp_threshold"` // share of non-empty values that must parse as timestamps
	NormalizeStrings   bool    `json:"normalize_strings"`   // whether to trim/lower strings
	LenientNumbers     bool    `json:"lenient_numbers"`     // accept currency, percent, grouping and (negative) forms
}

// DefaultCoercionConfig returns strict column-level coercion: a column is
// numeric only when every non-empty value is a number, so that text columns
// keep their labels verbatim.
func DefaultCoercionConfig() CoercionConfig {
	return CoercionConfig{
		NumericThreshold:   1.0,
		TimestampThreshold: 1.0,
		NormalizeStrings:   false,
		LenientNumbers:     false,
	}
}

// NewTypeCoercer creates a coercer with the given config
func NewTypeCoercer(config CoercionConfig) *TypeCoercer {
	return &TypeCoercer{config: config}
}

// CoerceValue deterministically converts one raw cell to a typed Value
func (c *TypeCoercer) CoerceValue(raw string) dataset.Value {
	if strings.TrimSpace(raw) == "" {
		return dataset.NewMissingValue()
	}
	if v, ok := c.TryParseNumeric(raw); ok {
		return dataset.NewNumericValue(v)
	}
	if t, ok := c.TryParseTimestamp(raw); ok {
		return dataset.NewTimestampValue(t)
	}
	return c.coerceToString(raw)
}

// CoerceColumn types a whole column at once. The column's recommended type
// wins; when it is string, every non-empty cell is kept as text, even the
// ones that look numeric.
func (c *TypeCoercer) CoerceColumn(raw []string) []dataset.Value {
	analysis := c.AnalyzeTypeDistribution(raw)
	out := make([]dataset.Value, len(raw))
	for i, s := range raw {
		if strings.TrimSpace(s) == "" {
			out[i] = dataset.NewMissingValue()
			continue
		}
		switch analysis.RecommendedType {
		case dataset.ValueTypeNumeric:
			if v, ok := c.TryParseNumeric(s); ok {
				out[i] = dataset.NewNumericValue(v)
				continue
			}
		case dataset.ValueTypeTimestamp:
			if t, ok := c.TryParseTimestamp(s); ok {
				out[i] = dataset.NewTimestampValue(t)
				continue
			}
		}
		out[i] = c.coerceToString(s)
	}
	return out
}

// AnalyzeTypeDistribution analyzes a sample to determine the best type coercion strategy
func (c *TypeCoercer) AnalyzeTypeDistribution(values []string) TypeAnalysis {
	analysis := TypeAnalysis{
		TotalCount: len(values),
	}

	for _, val := range values {
		if strings.TrimSpace(val) == "" {
			continue
		}
		analysis.ValidCount++

		if _, ok := c.TryParseNumeric(val); ok {
			analysis.NumericCount++
		}
		if _, ok := c.TryParseTimestamp(val); ok {
			analysis.TimestampCount++
		}
	}

	if analysis.ValidCount > 0 {
		analysis.NumericRatio = float64(analysis.NumericCount) / float64(analysis.ValidCount)
		analysis.TimestampRatio = float64(analysis.TimestampCount) / float64(analysis.ValidCount)
	}

	analysis.RecommendedType = c.determineRecommendedType(analysis)
	return analysis
}

// coerceToString keeps text, optionally normalized
func (c *TypeCoercer) coerceToString(strVal string) dataset.Value {
	if c.config.NormalizeStrings {
		strVal = c.normalizeString(strVal)
	}
	return dataset.NewStringValue(strVal)
}

// TryParseNumeric attempts to parse a number. In lenient mode it also handles
// parentheses for negatives, currency symbols, percent signs and European
// decimal commas.
func (c *TypeCoercer) TryParseNumeric(strVal string) (float64, bool) {
	cleanVal := strings.TrimSpace(strVal)
	if cleanVal == "" {
		return 0, false
	}

	if c.config.LenientNumbers {
		cleanVal = lenientNumber(cleanVal)
	}

	// Try parsing as float (handles scientific notation automatically)
	val, err := strconv.ParseFloat(cleanVal, 64)
	if err != nil || math.IsInf(val, 0) || math.IsNaN(val) {
		return 0, false
	}
	return val, true
}

func lenientNumber(cleanVal string) string {
	// Handle parentheses for negative numbers: (123) -> -123
	isNegative := false
	if strings.HasPrefix(cleanVal, "(") && strings.HasSuffix(cleanVal, ")") {
		cleanVal = strings.TrimSuffix(strings.TrimPrefix(cleanVal, "("), ")")
		isNegative = true
	}

	for _, symbol := range []string{"$", "€", "£", "¥", "USD", "EUR", "GBP", "JPY", "%"} {
		cleanVal = strings.ReplaceAll(cleanVal, symbol, "")
	}
	cleanVal = strings.TrimSpace(cleanVal)

	hasComma := strings.Contains(cleanVal, ",")
	hasPeriod := strings.Contains(cleanVal, ".")
	hasSpace := strings.Contains(cleanVal, " ")

	// European format: period or space groups thousands, comma is the decimal
	if hasComma && (hasPeriod || hasSpace) {
		commaIdx := strings.LastIndex(cleanVal, ",")
		if len(cleanVal[commaIdx+1:]) <= 2 {
			cleanVal = strings.ReplaceAll(cleanVal, ".", "")
			cleanVal = strings.ReplaceAll(cleanVal, " ", "")
			cleanVal = strings.ReplaceAll(cleanVal, ",", ".")
		} else {
			cleanVal = strings.ReplaceAll(cleanVal, ",", "")
			cleanVal = strings.ReplaceAll(cleanVal, " ", "")
		}
	} else {
		cleanVal = strings.ReplaceAll(cleanVal, ",", "")
		cleanVal = strings.ReplaceAll(cleanVal, " ", "")
	}

	if isNegative {
		cleanVal = "-" + cleanVal
	}
	return cleanVal
}

// timestampFormats are tried in order
var timestampFormats = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"01-02-06",
	"1/2/06",
	"2006/01/02",
	"02-Jan-2006",
	"2-Jan-06",
	"Jan 2, 2006",
}

// TryParseTimestamp attempts to parse as timestamp with multiple formats
func (c *TypeCoercer) TryParseTimestamp(strVal string) (time.Time, bool) {
	strVal = strings.TrimSpace(strVal)
	if strVal == "" {
		return time.Time{}, false
	}

	for _, format := range timestampFormats {
		if t, err := time.Parse(format, strVal); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// normalizeString applies deterministic string normalization
func (c *TypeCoercer) normalizeString(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = whitespaceRun.ReplaceAllString(s, " ")

	// Remove control characters
	return strings.Map(func(r rune) rune {
		if r < 32 || r == 127 {
			return -1
		}
		return r
	}, s)
}

// determineRecommendedType chooses the best type based on analysis
func (c *TypeCoercer) determineRecommendedType(analysis TypeAnalysis) dataset.ValueType {
	if analysis.ValidCount == 0 {
		return dataset.ValueTypeMissing
	}
	if analysis.NumericRatio >= c.config.NumericThreshold {
		return dataset.ValueTypeNumeric
	}
	if analysis.TimestampRatio >= c.config.TimestampThreshold {
		return dataset.ValueTypeTimestamp
	}
	return dataset.ValueTypeString
}

// TypeAnalysis contains the results of type distribution analysis
type TypeAnalysis struct {
	TotalCount      int               `json:"total_count"`
	ValidCount      int               `json:"valid_count"`
	NumericCount    int               `json:"numeric_count"`
	TimestampCount  int               `json:"timestamp_count"`
	NumericRatio    float64           `json:"numeric_ratio"`
	TimestampRatio  float64           `json:"timestamp_ratio"`
	RecommendedType dataset.ValueType `json:"recommended_type"`
}
