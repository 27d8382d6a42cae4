package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"sheetlens/internal"
	"sheetlens/internal/analytics"
	"sheetlens/internal/config"
	"sheetlens/internal/metrics"
	"sheetlens/internal/storage"
	"sheetlens/ui"
)

func main() {
	cfgFile := flag.String("config", "", "Optional YAML config file")
	flag.Parse()

	cfg, err := config.Load(*cfgFile)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewLogger(internal.ParseLogLevel(cfg.Log.Level))
	defer logger.Sync()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewRecorder("sheetlens")
	if err := recorder.Register(reg); err != nil {
		log.Fatalf("Failed to register metrics: %v", err)
	}

	engine := analytics.NewEngine(
		analytics.WithLogger(logger),
		analytics.WithObserver(recorder),
		analytics.WithExcelConfig(cfg.Analytics.ExcelConfig()),
		analytics.WithHistogramBins(cfg.Analytics.HistogramBins),
	)
	server := ui.NewServer(cfg, engine, storage.NewLocalFileStorage(cfg.Storage), reg, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("[Main] sheetlens starting (uploads: %s, exports: %s)", cfg.Storage.UploadDir, cfg.Export.Dir)
	if err := server.Run(ctx); err != nil {
		logger.Error("[Main] Server stopped: %v", err)
		os.Exit(1)
	}
}
