// Package report renders a data-quality report of the loaded dataset as
// Markdown, and as HTML through gomarkdown.
package report

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gomarkdown/markdown"
	"github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"

	"sheetlens/domain/dataset"
	"sheetlens/domain/stats"
	"sheetlens/ports"
)

// Input gathers what a data-quality report shows
type Input struct {
	Title          string
	Rows           int
	Classification dataset.Classification
	Missingness    stats.MissingnessReport
	Summary        *stats.DescriptiveSummary
}

// Collect runs the read-only operations a report needs. It fails with
// the first failing envelope's error.
func Collect(engine ports.AnalyticsEngine, title string) (*Input, error) {
	data := engine.Data()
	if err := data.Err(); err != nil {
		return nil, err
	}
	integrity := engine.CheckIntegrity()
	if err := integrity.Err(); err != nil {
		return nil, err
	}
	summary := engine.Describe()
	if err := summary.Err(); err != nil {
		return nil, err
	}
	return &Input{
		Title:          title,
		Rows:           data.Output.NumRows(),
		Classification: engine.Classification(),
		Missingness:    integrity.Output,
		Summary:        summary.Output,
	}, nil
}

// Build renders the report as Markdown
func Build(in *Input) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", in.Title)
	fmt.Fprintf(&sb, "- **Rows**: %d\n", in.Rows)
	fmt.Fprintf(&sb, "- **Continuous features** (%d): %s\n", len(in.Classification.Continuous), joinOrNone(in.Classification.Continuous))
	fmt.Fprintf(&sb, "- **Categorical features** (%d): %s\n", len(in.Classification.Categorical), joinOrNone(in.Classification.Categorical))
	if len(in.Classification.Temporal) > 0 {
		fmt.Fprintf(&sb, "- **Temporal features** (%d): %s\n", len(in.Classification.Temporal), joinOrNone(in.Classification.Temporal))
	}

	sb.WriteString("\n## Missing values\n\n")
	sb.WriteString("| feature | missing values count |\n|---|---:|\n")
	for _, m := range in.Missingness {
		fmt.Fprintf(&sb, "| %s | %d |\n", escapeCell(m.Feature), m.Missing)
	}
	fmt.Fprintf(&sb, "\nTotal missing cells: %d\n", in.Missingness.Total())

	if in.Summary == nil {
		return sb.String()
	}

	sb.WriteString("\n## Continuous features\n\n")
	if len(in.Summary.Continuous) == 0 {
		sb.WriteString("No continuous features.\n")
	} else {
		sb.WriteString("| feature | mean | std | var | min | Q1 | median | Q3 | max |\n")
		sb.WriteString("|---|---:|---:|---:|---:|---:|---:|---:|---:|\n")
		for _, s := range in.Summary.Continuous {
			fmt.Fprintf(&sb, "| %s | %s | %s | %s | %s | %s | %s | %s | %s |\n", escapeCell(s.Feature),
				measure(s.Mean), measure(s.StdDev), measure(s.Variance), measure(s.Min),
				measure(s.FirstQuartile), measure(s.Median), measure(s.ThirdQuartile), measure(s.Max))
		}
	}

	sb.WriteString("\n## Categorical features\n\n")
	if len(in.Summary.Categorical) == 0 {
		sb.WriteString("No categorical features.\n")
	} else {
		sb.WriteString("| feature | count | unique | mode |\n|---|---:|---:|---|\n")
		for _, s := range in.Summary.Categorical {
			mode := "n/a"
			if s.Mode != nil {
				mode = escapeCell(fmt.Sprint(s.Mode))
			}
			fmt.Fprintf(&sb, "| %s | %d | %d | %s |\n", escapeCell(s.Feature), s.Count, s.Unique, mode)
		}
	}
	return sb.String()
}

// RenderHTML converts report Markdown into a complete HTML page
func RenderHTML(title, md string) []byte {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	renderer := html.NewRenderer(html.RendererOptions{
		Title: title,
		Flags: html.CommonFlags | html.CompletePage,
	})
	return markdown.ToHTML([]byte(md), p, renderer)
}

func measure(m stats.Measure) string {
	if !m.Valid() {
		return "n/a"
	}
	return strconv.FormatFloat(float64(m), 'g', 6, 64)
}

func joinOrNone(names []string) string {
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ", ")
}

func escapeCell(s string) string {
	return strings.ReplaceAll(s, "|", `\|`)
}
