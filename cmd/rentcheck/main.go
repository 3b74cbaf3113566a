package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/rentcheck/rentcheck-backend/internal/adapters/bank"
	"github.com/rentcheck/rentcheck-backend/internal/adapters/notify"
	"github.com/rentcheck/rentcheck-backend/internal/application/check"
	"github.com/rentcheck/rentcheck-backend/internal/domain/matcher"
	"github.com/rentcheck/rentcheck-backend/internal/infrastructure/config"
	"github.com/rentcheck/rentcheck-backend/internal/infrastructure/logging"
	"github.com/rentcheck/rentcheck-backend/internal/infrastructure/storage"
)

func main() {
	// Parse flags
	var (
		configFile   = flag.String("config", "", "Configuration file path")
		useMock      = flag.Bool("mock", false, "Use the mock bank client instead of Akahu")
		showSchedule = flag.Bool("schedule", false, "Print the upcoming check schedule instead of running a check")
		horizonDays  = flag.Int("horizon", 0, "Schedule horizon in days (0 = config default)")
		jsonOut      = flag.Bool("json", false, "Print the run summary as JSON")
		verbose      = flag.Bool("verbose", false, "Enable verbose logging")
	)
	flag.Parse()

	// Setup logging
	logLevel := slog.LevelInfo
	if *verbose {
		logLevel = slog.LevelDebug
	}

	logger := logging.NewLoggerWithSystem(config.LoggingConfig{
		Level:  logLevel.String(),
		Format: "text",
	}, "check")

	// Load configuration
	cfg := loadConfig(*configFile)

	// Initialize storage
	store, err := storage.NewStorage(cfg.Storage.DatabasePath)
	if err != nil {
		logger.Error("Failed to initialize storage", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer store.Close()

	// Initialize bank client
	var client bank.Client
	if *useMock || cfg.Akahu.UseMock {
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

	if *showSchedule {
		horizon := *horizonDays
		if horizon == 0 {
			horizon = cfg.Checker.HorizonDays
		}
		printSchedule(scheduler, horizon, *jsonOut, logger)
		return
	}

	summary, err := scheduler.RunDailyCheck(context.Background())
	if err != nil {
		logger.Error("Daily check failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if *jsonOut {
		out, _ := json.MarshalIndent(summary, "", "  ")
		fmt.Println(string(out))
		return
	}

	fmt.Printf("Run %s: checked %d properties, %d API calls ($%.2f), %d notifications, %d failed\n",
		summary.RunID,
		summary.PropertiesChecked,
		summary.APICallsUsed,
		summary.TotalCost,
		summary.NotificationsSent,
		summary.FailedChecks,
	)
}

func printSchedule(scheduler *check.Scheduler, horizonDays int, jsonOut bool, logger *slog.Logger) {
	entries, err := scheduler.ScheduleUpcoming(horizonDays)
	if err != nil {
		logger.Error("Failed to build schedule", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if jsonOut {
		out, _ := json.MarshalIndent(entries, "", "  ")
		fmt.Println(string(out))
		return
	}

	if len(entries) == 0 {
		fmt.Printf("No checks scheduled in the next %d days\n", horizonDays)
		return
	}

	fmt.Printf("Upcoming checks (next %d days):\n", horizonDays)
	for _, e := range entries {
		fmt.Printf("  %s  property %d  %s  $%.2f %s\n",
			e.CheckDate.Format("2006-01-02"),
			e.PropertyID,
			e.PropertyAddress,
			e.RentAmount,
			e.Frequency,
		)
	}
	cost := float64(len(entries)) * bank.DefaultCostPerAPICall
	fmt.Printf("Projected API cost: $%.2f (%d calls)\n", cost, len(entries))
}

func loadConfig(configFile string) *config.Config {
	if configFile != "" {
		cfg, err := config.Load(configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load config file %s: %v\n", configFile, err)
			os.Exit(1)
		}
		return cfg
	}
	return config.LoadOrEnv()
}
