package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/pterm/pterm"
	"gopkg.in/yaml.v3"

	"sheetlens/domain/stats"
)

// writeStructured prints v as JSON or YAML. YAML goes through the JSON
// encoding first so that both formats share field names and null measures.
func writeStructured(w io.Writer, format string, v interface{}) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	switch format {
	case "json":
		_, err = fmt.Fprintln(w, string(raw))
		return err
	case "yaml":
		var generic interface{}
		if err := json.Unmarshal(raw, &generic); err != nil {
			return err
		}
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(generic); err != nil {
			return err
		}
		return enc.Close()
	}
	return fmt.Errorf("unsupported output format: %s", format)
}

func missingnessTable(report stats.MissingnessReport) pterm.TableData {
	data := pterm.TableData{{"feature", "missing values count"}}
	for _, m := range report {
		data = append(data, []string{m.Feature, strconv.Itoa(m.Missing)})
	}
	return data
}

func continuousTable(rows []stats.ContinuousSummary) pterm.TableData {
	data := pterm.TableData{{"feature", "mean", "std", "var", "min", "Q1", "median", "Q3", "max"}}
	for _, s := range rows {
		data = append(data, []string{
			s.Feature, formatMeasure(s.Mean), formatMeasure(s.StdDev), formatMeasure(s.Variance),
			formatMeasure(s.Min), formatMeasure(s.FirstQuartile), formatMeasure(s.Median),
			formatMeasure(s.ThirdQuartile), formatMeasure(s.Max),
		})
	}
	return data
}

func categoricalTable(rows []stats.CategoricalSummary) pterm.TableData {
	data := pterm.TableData{{"feature", "count", "unique", "mode"}}
	for _, s := range rows {
		mode := "-"
		if s.Mode != nil {
			mode = fmt.Sprint(s.Mode)
		}
		data = append(data, []string{s.Feature, strconv.Itoa(s.Count), strconv.Itoa(s.Unique), mode})
	}
	return data
}

func formatMeasure(m stats.Measure) string {
	if !m.Valid() {
		return "-"
	}
	return formatFloat(float64(m))
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'g', 6, 64)
}

func renderTable(data pterm.TableData) error {
	return pterm.DefaultTable.WithHasHeader().WithData(data).Render()
}
