// rentcheckd runs the daily rent check on a cron schedule.
package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"

	"github.com/rentcheck/rentcheck-backend/internal/adapters/bank"
	"github.com/rentcheck/rentcheck-backend/internal/adapters/notify"
	"github.com/rentcheck/rentcheck-backend/internal/application/check"
	"github.com/rentcheck/rentcheck-backend/internal/domain/matcher"
	"github.com/rentcheck/rentcheck-backend/internal/infrastructure/config"
	"github.com/rentcheck/rentcheck-backend/internal/infrastructure/logging"
	"github.com/rentcheck/rentcheck-backend/internal/infrastructure/storage"
)

func main() {
	var (
		configFile = flag.String("config", "", "Configuration file path")
		runNow     = flag.Bool("run-now", false, "Run one check immediately on startup")
	)
	flag.Parse()

	// .env is optional; real deployments set environment directly
	_ = godotenv.Load()

	var cfg *config.Config
	if *configFile != "" {
		loaded, err := config.Load(*configFile)
		if err != nil {
			slog.Error("Failed to load config file", "file", *configFile, "error", err)
			os.Exit(1)
		}
		cfg = loaded
	} else {
		cfg = config.LoadOrEnv()
	}

	logger := logging.NewLoggerWithSystem(cfg.Observability.Logging, "daemon")

	store, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Error("Failed to initialize storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	var client bank.Client
	if cfg.Akahu.UseMock {
		logger.Info("Using mock bank client")
		client = bank.NewMockClient()
	} else {
		client = bank.NewAkahuClient(cfg.Akahu.ClientID, cfg.Akahu.ClientSecret, cfg.Akahu.BaseURL, logger)
	}

	gateway := bank.NewGateway(client, store, logger)
	gateway.CostPerAPICall = cfg.Checker.CostPerAPICall

	notifier := notify.NewLogNotifier(store, logger)

	scheduler := check.NewScheduler(store, gateway, notifier, logger)
	scheduler.SetMatcher(matcher.NewMatcher(matcher.Config{
		AmountTolerance: cfg.Checker.SyncTolerance,
		MinConfidence:   matcher.DefaultSyncConfig().MinConfidence,
	}))

	runCheck := func() {
		summary, err := scheduler.RunDailyCheck(context.Background())
		if err != nil {
			logger.Error("Daily check failed", slog.String("error", err.Error()))
			return
		}
		logger.Info("Daily check run finished",
			"run_id", summary.RunID,
			"properties_checked", summary.PropertiesChecked,
			"total_cost", summary.TotalCost,
		)
	}

	if *runNow {
		runCheck()
	}

	c := cron.New()
	if _, err := c.AddFunc(cfg.Scheduler.DailyCheckCron, runCheck); err != nil {
		logger.Error("Invalid cron spec",
			slog.String("spec", cfg.Scheduler.DailyCheckCron),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}
	c.Start()

	logger.Info("Daemon started", "cron", cfg.Scheduler.DailyCheckCron)

	// Block until shutdown signal
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig

	logger.Info("Shutting down")
	ctx := c.Stop()
	<-ctx.Done()
}
