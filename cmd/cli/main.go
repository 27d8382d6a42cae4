package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sheetlens/internal"
	"sheetlens/internal/analytics"
	"sheetlens/internal/config"
)

var (
	cfgFile      string
	logLevel     string
	outputFormat string
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "sheetlens",
		Short:         "Data-quality checks and descriptive statistics for spreadsheets",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Optional YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (ERROR, WARN, INFO, DEBUG, TRACE)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "Output format: table, json or yaml")

	rootCmd.AddCommand(
		newInspectCmd(),
		newDescribeCmd(),
		newRunCmd(),
		newReportCmd(),
		newBatchCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads configuration and builds an engine factory sharing one logger
func setup() (*config.Config, func() *analytics.Engine, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, err
	}
	level := cfg.Log.Level
	if logLevel != "" {
		level = logLevel
	}
	logger := internal.NewLogger(internal.ParseLogLevel(level))

	newEngine := func() *analytics.Engine {
		return analytics.NewEngine(
			analytics.WithLogger(logger),
			analytics.WithExcelConfig(cfg.Analytics.ExcelConfig()),
			analytics.WithHistogramBins(cfg.Analytics.HistogramBins),
		)
	}
	return cfg, newEngine, nil
}
