package main

import (
	"fmt"
	"log"
	"time"

	"CallQualityAnalysis/src/analysis"
	"CallQualityAnalysis/src/config"
	"CallQualityAnalysis/src/datasource/file"
	"CallQualityAnalysis/src/storage"

	"github.com/robfig/cron"
)

func main() {
	jsonFolder := "./config"
	jsonFile := "config.json"
	dataJsonFile := "dataconfig.json"
	cfg, dcfg, err := config.LoadConfig(jsonFolder, jsonFile, dataJsonFile)
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	logger, err := storage.NewLogger(cfg.LogName)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}
	defer logger.Close()

	pipeline := analysis.New(cfg, dcfg, logger)

	if err := pipeline.Run(); err != nil {
		logger.Error("analysis failed: " + err.Error())
		log.Fatal("analysis failed:", err)
	}

	if !cfg.Watch.Enabled {
		return
	}

	// Watch mode: re-run on a schedule and whenever the spreadsheet is
	// rewritten.
	interval := time.Duration(cfg.Watch.CheckInterval)
	c := cron.New()
	err = c.AddFunc(fmt.Sprintf("@every %s", interval), func() {
		logger.Info(fmt.Sprintf("scheduled re-run (interval: %v)", interval))
		if err := pipeline.Run(); err != nil {
			logger.Error("scheduled run failed: " + err.Error())
		}
		if err := logger.CheckRotate(cfg.LogMaxSize); err != nil {
			logger.Error("log rotation failed: " + err.Error())
		}
	})
	if err != nil {
		logger.Error("failed to schedule re-runs: " + err.Error())
		return
	}
	c.Start()
	defer c.Stop()

	monitor, err := file.NewFileMonitor(cfg.DataFile)
	if err != nil {
		logger.Error("failed to watch data file: " + err.Error())
		return
	}
	defer monitor.Close()

	go func() {
		if err := monitor.Watch(func(path string) {
			logger.Info("data file rewritten: " + path)
			if err := pipeline.Run(); err != nil {
				logger.Error("watch-triggered run failed: " + err.Error())
			}
		}); err != nil {
			logger.Error("file monitoring error: " + err.Error())
		}
	}()

	logger.Info(fmt.Sprintf("watch mode enabled (interval: %v), press Ctrl+C to exit", interval))
	select {}
}
