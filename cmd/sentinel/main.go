package main

import (
	"context"
	"os"
	"os/signal"
	"strings"
	"syscall"

	log "github.com/sirupsen/logrus"

	"VolumeSentinel/internal/calculator"
	"VolumeSentinel/internal/classifier"
	"VolumeSentinel/internal/collector"
	"VolumeSentinel/internal/config"
	"VolumeSentinel/internal/notifier"
	"VolumeSentinel/internal/pipeline"
	"VolumeSentinel/internal/recorder"
	"VolumeSentinel/internal/saver"
	"VolumeSentinel/internal/scheduler"
)

func main() {
	log.SetReportCaller(true)
	log.Info("VolumeSentinel starting...")

	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("config validation: %v", err)
	}
	setupLogging(cfg)

	loc, err := cfg.Location()
	if err != nil {
		log.Fatal(err)
	}
	method, err := calculator.ParseMethod(cfg.Profile.Method)
	if err != nil {
		log.Fatal(err)
	}

	// Init fetcher
	var fetcher collector.Fetcher
	switch cfg.DataSource.Kind {
	case "csv":
		fetcher = collector.NewCSVFetcher(cfg.DataSource.Path, loc)
	case "parquet":
		fetcher = collector.NewParquetFetcher(cfg.DataSource.Path, loc)
	case "yahoo":
		fetcher = collector.NewYahooFetcher(cfg.DataSource.Interval, cfg.DataSource.Range, cfg.Proxy, loc)
	default:
		fetcher = &collector.MockFetcher{}
	}
	log.WithField("source", fetcher.Name()).Info("data source ready")
	col := collector.NewCollector(fetcher, cfg.DataSource.Symbol)

	sv, err := saver.NewTableSaver(cfg.Output.Format)
	if err != nil {
		log.Fatalf("init saver: %v", err)
	}

	clf, err := classifier.New(cfg.Classifier.Kind, cfg.Classifier.ModelPath)
	if err != nil {
		log.Fatalf("init classifier: %v", err)
	}

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath)
		if err != nil {
			log.WithError(err).Warn("init sqlite recorder failed, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}
	defer rec.Close()

	// Telegram is optional
	var sender scheduler.Sender
	if tn := notifier.NewTelegramNotifier(cfg.Telegram.BotToken, cfg.Telegram.ChatID, cfg.Proxy); tn != nil {
		sender = tn
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.NewScheduler(ctx, col, sv, rec, clf, sender, scheduler.Options{
		Pipeline:     pipeline.Options{ValueArea: cfg.Profile.ValueArea, Method: method},
		OutputDir:    cfg.Output.Dir,
		TestFraction: cfg.Classifier.TestFraction,
	})

	// Without a cron schedule the job runs once and exits.
	if cfg.Schedule.Cron == "" {
		if _, err := sched.RunNow(); err != nil {
			log.Errorf("run: %v", err)
			rec.Close()
			os.Exit(1)
		}
		return
	}

	if err := sched.Register(cfg.Schedule.Cron); err != nil {
		log.Fatalf("register cron task: %v", err)
	}
	sched.Start()
	defer sched.Stop()

	if os.Getenv("RUN_ON_START") == "true" {
		log.Info("RUN_ON_START enabled, executing job now")
		sched.RunInBackground()
	}

	log.WithField("cron", cfg.Schedule.Cron).Info("VolumeSentinel is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info("shutdown signal received, stopping...")
	cancel()
}

func setupLogging(cfg *config.Config) {
	if lvl, err := log.ParseLevel(cfg.Log.Level); err == nil {
		log.SetLevel(lvl)
	} else {
		log.WithError(err).Warn("unknown log level, keeping info")
	}
	if strings.EqualFold(cfg.Log.Format, "json") {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}
