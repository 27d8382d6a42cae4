package coercer

import (
	"testing"
	"time"

	"sheetlens/domain/dataset"

	"github.com/stretchr/testify/assert"
)

func TestCoerceValue(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())

	tests := []struct {
		name string
		raw  string
		want dataset.Value
	}{
		{"empty", "", dataset.NewMissingValue()},
		{"blank", "   ", dataset.NewMissingValue()},
		{"integer", "42", dataset.NewNumericValue(42)},
		{"float", "-3.25", dataset.NewNumericValue(-3.25)},
		{"scientific", "1e3", dataset.NewNumericValue(1000)},
		{"date", "2024-05-06", dataset.NewTimestampValue(time.Date(2024, 5, 6, 0, 0, 0, 0, time.UTC))},
		{"text", "Oslo", dataset.NewStringValue("Oslo")},
		{"punctuation", "...", dataset.NewStringValue("...")},
		{"padded text kept verbatim", " Oslo ", dataset.NewStringValue(" Oslo ")},
		{"currency is text when strict", "$12", dataset.NewStringValue("$12")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.CoerceValue(tt.raw)
			assert.True(t, tt.want.Equal(got), "want %v, got %v", tt.want, got)
			assert.Equal(t, tt.want.Type, got.Type)
		})
	}
}

func TestLenientNumbers(t *testing.T) {
	cfg := DefaultCoercionConfig()
	cfg.LenientNumbers = true
	c := NewTypeCoercer(cfg)

	tests := []struct {
		raw  string
		want float64
	}{
		{"$1,234.50", 1234.5},
		{"(200)", -200},
		{"12%", 12},
		{"1.234,56", 1234.56},
		{"1 234,5", 1234.5},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := c.TryParseNumeric(tt.raw)
			assert.True(t, ok)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestCoerceColumn(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())

	numeric := c.CoerceColumn([]string{"1", "", "2.5"})
	assert.Equal(t, []dataset.Value{
		dataset.NewNumericValue(1), dataset.NewMissingValue(), dataset.NewNumericValue(2.5),
	}, numeric)

	mixed := c.CoerceColumn([]string{"1", "two", "3"})
	for _, v := range mixed {
		assert.True(t, v.IsString())
	}
	assert.Equal(t, "1", mixed[0].StringVal)

	empty := c.CoerceColumn([]string{"", ""})
	assert.True(t, empty[0].IsMissing())
	assert.True(t, empty[1].IsMissing())
}

func TestAnalyzeTypeDistribution(t *testing.T) {
	c := NewTypeCoercer(DefaultCoercionConfig())

	analysis := c.AnalyzeTypeDistribution([]string{"1", "2", "", "x"})
	assert.Equal(t, 4, analysis.TotalCount)
	assert.Equal(t, 3, analysis.ValidCount)
	assert.Equal(t, 2, analysis.NumericCount)
	assert.Equal(t, dataset.ValueTypeString, analysis.RecommendedType)

	relaxed := NewTypeCoercer(CoercionConfig{NumericThreshold: 0.5, TimestampThreshold: 1})
	assert.Equal(t, dataset.ValueTypeNumeric, relaxed.AnalyzeTypeDistribution([]string{"1", "2", "x"}).RecommendedType)
}

func TestNormalizeStrings(t *testing.T) {
	c := NewTypeCoercer(CoercionConfig{NumericThreshold: 1, TimestampThreshold: 1, NormalizeStrings: true})
	got := c.CoerceValue("  New   York ")
	assert.Equal(t, "new york", got.StringVal)
}
