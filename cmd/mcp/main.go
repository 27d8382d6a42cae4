// Command sheetlens-mcp serves the analytics engine as MCP tools over stdio.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"sheetlens/adapters/mcptools"
	"sheetlens/internal"
	"sheetlens/internal/analytics"
	"sheetlens/internal/config"
)

// Version is set at build time via ldflags.
var Version = "dev"

func main() {
	cfgFile := flag.String("config", "", "Optional YAML config file")
	flag.Parse()

	if err := run(*cfgFile); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfgFile string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}

	// stdout carries the MCP protocol, so logs go to stderr only
	zcfg := zap.NewDevelopmentConfig()
	zcfg.OutputPaths = []string{"stderr"}
	zcfg.DisableStacktrace = true
	z, err := zcfg.Build()
	if err != nil {
		return err
	}
	logger := internal.NewZapLogger(z, internal.ParseLogLevel(cfg.Log.Level))
	defer logger.Sync()

	engine := analytics.NewEngine(
		analytics.WithLogger(logger),
		analytics.WithExcelConfig(cfg.Analytics.ExcelConfig()),
		analytics.WithHistogramBins(cfg.Analytics.HistogramBins),
	)
	session := mcptools.NewSession(engine, cfg.Export.Dir, cfg.Analytics.WhiskerFactor)

	s := server.NewMCPServer(
		"sheetlens",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)
	mcptools.Register(s, session)

	logger.Info("[MCP] Serving %d tools over stdio", len(mcptools.Tools(session)))
	return server.ServeStdio(s)
}
