package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"sheetlens/domain/stats"
	"sheetlens/internal/analytics"
	"sheetlens/internal/report"
)

func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect <file>",
		Short: "Load a spreadsheet and report its columns and missing values",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, newEngine, err := setup()
			if err != nil {
				return err
			}
			engine := newEngine()
			load := engine.LoadFile(args[0])
			if err := load.Err(); err != nil {
				return err
			}
			integrity := engine.CheckIntegrity()
			if err := integrity.Err(); err != nil {
				return err
			}

			if outputFormat != "table" {
				return writeStructured(cmd.OutOrStdout(), outputFormat, map[string]interface{}{
					"load":      load,
					"integrity": integrity,
				})
			}
			c := load.Output.Classification
			pterm.Info.Printf("%s: %d rows, %d columns\n", load.Output.File, load.Output.Rows, len(load.Output.Columns))
			pterm.Info.Printf("continuous: %s\n", strings.Join(c.Continuous, ", "))
			pterm.Info.Printf("categorical: %s\n", strings.Join(c.Categorical, ", "))
			if len(c.Temporal) > 0 {
				pterm.Info.Printf("temporal: %s\n", strings.Join(c.Temporal, ", "))
			}
			return renderTable(missingnessTable(integrity.Output))
		},
	}
}

func newDescribeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "describe <file>",
		Short: "Print descriptive statistics for every column",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, newEngine, err := setup()
			if err != nil {
				return err
			}
			engine := newEngine()
			if err := engine.LoadFile(args[0]).Err(); err != nil {
				return err
			}
			res := engine.Describe()
			if err := res.Err(); err != nil {
				return err
			}

			if outputFormat != "table" {
				return writeStructured(cmd.OutOrStdout(), outputFormat, res)
			}
			return renderSummary(res.Output)
		},
	}
}

func renderSummary(summary *stats.DescriptiveSummary) error {
	if len(summary.Continuous) > 0 {
		pterm.DefaultSection.Println("Continuous features")
		if err := renderTable(continuousTable(summary.Continuous)); err != nil {
			return err
		}
	}
	if len(summary.Categorical) > 0 {
		pterm.DefaultSection.Println("Categorical features")
		if err := renderTable(categoricalTable(summary.Categorical)); err != nil {
			return err
		}
	}
	return nil
}

func newRunCmd() *cobra.Command {
	var (
		pipelineFile      string
		continuousMethod  string
		categoricalMethod string
		removeForeign     bool
		removeContinuous  bool
		removeCategorical bool
		outlierColumns    []string
		outlierMethod     string
		whiskerFactor     float64
		exportDir         string
	)

	cmd := &cobra.Command{
		Use:   "run <file>",
		Short: "Clean a spreadsheet: remediate, remove outliers, export",
		Long: `Run the cleaning pipeline over one file. Steps come from --pipeline
(a YAML file) or from flags; flags are ignored when a pipeline file is given.

Example: sheetlens run sales.xlsx --outliers price,units --outlier-method median --export out/`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, newEngine, err := setup()
			if err != nil {
				return err
			}

			var p *Pipeline
			if pipelineFile != "" {
				if p, err = LoadPipeline(pipelineFile); err != nil {
					return err
				}
			} else {
				p = &Pipeline{
					Remediate: &analytics.RemediationOptions{
						RemoveMissingContinuous:  removeContinuous,
						RemoveMissingCategorical: removeCategorical,
						RemoveForeign:            removeForeign,
						ContinuousMethod:         continuousMethod,
						CategoricalMethod:        categoricalMethod,
					},
					Export: exportDir,
				}
				if len(outlierColumns) > 0 {
					p.Outliers = &PipelineOutliers{Columns: outlierColumns, Method: outlierMethod}
					if cmd.Flags().Changed("whisker") {
						p.Outliers.WhiskerFactor = &whiskerFactor
					}
				}
			}

			steps := RunPipeline(newEngine(), args[0], p, cfg.Analytics.WhiskerFactor)
			if outputFormat != "table" {
				if err := writeStructured(cmd.OutOrStdout(), outputFormat, steps); err != nil {
					return err
				}
			} else {
				for _, s := range steps {
					if s.ErrorCode != 0 {
						pterm.Error.Printf("%s: %s (%s)\n", s.Step, s.StatusMsg, s.ErrorCode)
						continue
					}
					pterm.Success.Printf("%s:%s\n", s.Step, statusOrDone(s.StatusMsg))
				}
			}
			if last := steps[len(steps)-1]; last.ErrorCode != 0 {
				return fmt.Errorf("%s failed with code %d", last.Step, last.ErrorCode)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&pipelineFile, "pipeline", "", "YAML pipeline file")
	cmd.Flags().StringVar(&continuousMethod, "continuous-method", analytics.MethodMean, "Imputation for continuous features (mean, median, none)")
	cmd.Flags().StringVar(&categoricalMethod, "categorical-method", analytics.MethodMode, "Imputation for categorical features (mode, none)")
	cmd.Flags().BoolVar(&removeContinuous, "remove-missing-continuous", false, "Drop rows missing a continuous value instead of imputing")
	cmd.Flags().BoolVar(&removeCategorical, "remove-missing-categorical", false, "Drop rows missing a categorical value instead of imputing")
	cmd.Flags().BoolVar(&removeForeign, "remove-foreign", false, "Drop rows with foreign labels instead of imputing them")
	cmd.Flags().StringSliceVar(&outlierColumns, "outliers", nil, "Continuous columns to clear of outliers")
	cmd.Flags().StringVar(&outlierMethod, "outlier-method", "", "Imputation for the last outlier column (mean, median)")
	cmd.Flags().Float64Var(&whiskerFactor, "whisker", analytics.DefaultWhiskerFactor, "IQR whisker factor")
	cmd.Flags().StringVar(&exportDir, "export", "", "Directory to write file.xlsx into")

	return cmd
}

func statusOrDone(msg string) string {
	if msg == "" {
		return " done"
	}
	return msg
}

func newReportCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "report <file>",
		Short: "Write a Markdown or HTML data-quality report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, newEngine, err := setup()
			if err != nil {
				return err
			}
			engine := newEngine()
			if err := engine.LoadFile(args[0]).Err(); err != nil {
				return err
			}
			in, err := report.Collect(engine, filepath.Base(args[0]))
			if err != nil {
				return err
			}

			md := report.Build(in)
			if out == "" {
				_, err := fmt.Fprint(cmd.OutOrStdout(), md)
				return err
			}
			content := []byte(md)
			if strings.EqualFold(filepath.Ext(out), ".html") {
				content = report.RenderHTML(in.Title, md)
			}
			if err := os.WriteFile(out, content, 0644); err != nil {
				return err
			}
			pterm.Success.Printf("Report written to %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Output path (.md or .html); stdout when empty")
	return cmd
}

// BatchRow summarises one file of a batch
type BatchRow struct {
	File        string `json:"file" yaml:"file"`
	Rows        int    `json:"rows" yaml:"rows"`
	Continuous  int    `json:"continuous" yaml:"continuous"`
	Categorical int    `json:"categorical" yaml:"categorical"`
	Missing     int    `json:"missing_cells" yaml:"missing_cells"`
	Error       string `json:"error,omitempty" yaml:"error,omitempty"`
}

// summarizeFiles loads and checks each file on its own engine, at most limit
// at a time. Per-file failures are reported in the row, not returned.
func summarizeFiles(ctx context.Context, files []string, limit int, newEngine func() *analytics.Engine) ([]BatchRow, error) {
	rows := make([]BatchRow, len(files))

	g, ctx := errgroup.WithContext(ctx)
	if limit > 0 {
		g.SetLimit(limit)
	}
	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rows[i] = summarizeFile(newEngine(), file)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rows, nil
}

func summarizeFile(engine *analytics.Engine, file string) BatchRow {
	row := BatchRow{File: file}
	load := engine.LoadFile(file)
	if !load.OK() {
		row.Error = load.StatusMsg
		return row
	}
	integrity := engine.CheckIntegrity()
	if !integrity.OK() {
		row.Error = integrity.StatusMsg
		return row
	}
	c := engine.Classification()
	row.Rows = load.Output.Rows
	row.Continuous = len(c.Continuous)
	row.Categorical = len(c.Categorical)
	row.Missing = integrity.Output.Total()
	return row
}

func newBatchCmd() *cobra.Command {
	var concurrency int

	cmd := &cobra.Command{
		Use:   "batch <files...>",
		Short: "Summarise many spreadsheets concurrently",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, newEngine, err := setup()
			if err != nil {
				return err
			}
			files := expandGlobs(args)
			if len(files) == 0 {
				return fmt.Errorf("no input files matched")
			}

			rows, err := summarizeFiles(cmd.Context(), files, concurrency, newEngine)
			if err != nil {
				return err
			}
			if outputFormat != "table" {
				return writeStructured(cmd.OutOrStdout(), outputFormat, rows)
			}

			data := pterm.TableData{{"file", "rows", "continuous", "categorical", "missing", "error"}}
			for _, r := range rows {
				data = append(data, []string{
					r.File, fmt.Sprint(r.Rows), fmt.Sprint(r.Continuous),
					fmt.Sprint(r.Categorical), fmt.Sprint(r.Missing), r.Error,
				})
			}
			return renderTable(data)
		},
	}

	cmd.Flags().IntVar(&concurrency, "concurrency", 4, "Files processed at once")
	return cmd
}

// expandGlobs resolves each argument as a glob, keeping literal paths that
// exist, without duplicates and in argument order
func expandGlobs(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	return files
}
