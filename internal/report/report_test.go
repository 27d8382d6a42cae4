package report

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sheetlens/domain/dataset"
	"sheetlens/domain/stats"
	"sheetlens/internal/analytics"
)

func TestCollect(t *testing.T) {
	e := analytics.NewEngine()
	_, err := Collect(e, "empty")
	require.Error(t, err)

	require.True(t, e.Load(strings.NewReader("a,b\n1,x\n,y\n3,x\n"), "t.csv").OK())
	in, err := Collect(e, "t.csv")
	require.NoError(t, err)
	assert.Equal(t, 3, in.Rows)
	assert.Equal(t, 1, in.Missingness.Total())
	assert.Equal(t, []string{"a"}, in.Classification.Continuous)
	require.NotNil(t, in.Summary)
	assert.Equal(t, "x", in.Summary.Categorical[0].Mode)
}

func TestBuild(t *testing.T) {
	md := Build(&Input{
		Title: "sales",
		Rows:  2,
		Classification: dataset.Classification{
			Continuous:  []string{"price"},
			Categorical: []string{"a|b"},
		},
		Missingness: stats.MissingnessReport{{Feature: "price", Missing: 1}, {Feature: "a|b"}},
		Summary: &stats.DescriptiveSummary{
			Continuous: []stats.ContinuousSummary{{
				Feature: "price", Mean: 2.5, StdDev: stats.Measure(math.NaN()), Variance: stats.Measure(math.NaN()),
				Min: 2.5, Max: 2.5, FirstQuartile: 2.5, Median: 2.5, ThirdQuartile: 2.5,
			}},
			Categorical: []stats.CategoricalSummary{{Feature: "a|b", Count: 0, Unique: 0}},
		},
	})

	assert.True(t, strings.HasPrefix(md, "# sales\n"))
	assert.Contains(t, md, "- **Rows**: 2")
	assert.Contains(t, md, "| price | 1 |")
	assert.Contains(t, md, `| a\|b | 0 |`)
	assert.Contains(t, md, "| price | 2.5 | n/a | n/a |")
	assert.Contains(t, md, `| a\|b | 0 | 0 | n/a |`)
	assert.Contains(t, md, "Total missing cells: 1")
	assert.NotContains(t, md, "Temporal")
}

func TestBuildWithoutSummary(t *testing.T) {
	md := Build(&Input{Title: "t"})
	assert.Contains(t, md, "Total missing cells: 0")
	assert.Contains(t, md, "**Continuous features** (0): none")
	assert.NotContains(t, md, "## Continuous features")
}

func TestRenderHTML(t *testing.T) {
	page := string(RenderHTML("My report", "# Title\n\n| a | b |\n|---|---|\n| 1 | 2 |\n"))
	assert.Contains(t, page, "<title>My report</title>")
	assert.Contains(t, page, "<table>")
	assert.Contains(t, page, "<td>1</td>")
}
