// Package config provides centralized configuration management.
//
// Configuration can be loaded from:
//  1. YAML file (config.yaml)
//  2. Environment variables (fallback)
//
// Example usage:
//
//	cfg := config.LoadOrEnv()
//	dbPath := cfg.Storage.DatabasePath
//	clientID := cfg.Akahu.ClientID
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config represents the entire application configuration.
type Config struct {
	Akahu         AkahuConfig         `yaml:"akahu"`
	Storage       StorageConfig       `yaml:"storage"`
	Checker       CheckerConfig       `yaml:"checker"`
	Scheduler     SchedulerConfig     `yaml:"scheduler"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// AkahuConfig holds bank-data provider credentials.
type AkahuConfig struct {
	ClientID     string `yaml:"client_id"`
	ClientSecret string `yaml:"client_secret"`
	BaseURL      string `yaml:"base_url"`
	UseMock      bool   `yaml:"use_mock"`
}

// StorageConfig holds database configuration.
type StorageConfig struct {
	DatabasePath string `yaml:"database_path"`
}

// CheckerConfig holds matching and cost-accounting settings.
type CheckerConfig struct {
	// SyncTolerance is the amount tolerance fraction for classifying
	// freshly fetched transactions.
	SyncTolerance float64 `yaml:"sync_tolerance"`
	// WindowTolerance is the looser fraction used by the stored-window
	// checker.
	WindowTolerance float64 `yaml:"window_tolerance"`
	// CostPerAPICall is the estimated provider charge per fetch.
	CostPerAPICall float64 `yaml:"cost_per_api_call"`
	// HorizonDays is how far ahead the schedule projection looks.
	HorizonDays int `yaml:"horizon_days"`
}

// SchedulerConfig holds the daemon trigger settings.
type SchedulerConfig struct {
	// DailyCheckCron is the cron spec for the daily check run.
	DailyCheckCron string `yaml:"daily_check_cron"`
}

// ObservabilityConfig holds observability settings.
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads and parses the config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	// Expand environment variables (e.g., ${AKAHU_CLIENT_SECRET})
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

// LoadFromEnv loads configuration from environment variables only.
func LoadFromEnv() *Config {
	cfg := &Config{
		Akahu: AkahuConfig{
			ClientID:     os.Getenv("AKAHU_CLIENT_ID"),
			ClientSecret: os.Getenv("AKAHU_CLIENT_SECRET"),
			BaseURL:      os.Getenv("AKAHU_BASE_URL"),
			UseMock:      getEnvBool("AKAHU_USE_MOCK", true),
		},
		Storage: StorageConfig{
			DatabasePath: getEnv("RENTCHECK_DB_PATH", "rentcheck.db"),
		},
		Checker: CheckerConfig{
			SyncTolerance:   getEnvFloat("RENTCHECK_SYNC_TOLERANCE", 0.05),
			WindowTolerance: getEnvFloat("RENTCHECK_WINDOW_TOLERANCE", 0.10),
			CostPerAPICall:  getEnvFloat("RENTCHECK_COST_PER_API_CALL", 0.10),
			HorizonDays:     getEnvInt("RENTCHECK_HORIZON_DAYS", 30),
		},
		Scheduler: SchedulerConfig{
			DailyCheckCron: getEnv("RENTCHECK_DAILY_CRON", "0 9 * * *"),
		},
		Observability: ObservabilityConfig{
			Logging: LoggingConfig{
				Level:  getEnv("LOG_LEVEL", "info"),
				Format: getEnv("LOG_FORMAT", "text"),
			},
		},
	}
	return cfg
}

// LoadOrEnv tries to load from config.yaml, falls back to environment
// variables.
func LoadOrEnv() *Config {
	return LoadOrEnvWithPath("config.yaml")
}

// LoadOrEnvWithPath tries to load from the specified path, falls back
// to environment variables.
func LoadOrEnvWithPath(path string) *Config {
	if cfg, err := Load(path); err == nil {
		return cfg
	}
	return LoadFromEnv()
}

// applyDefaults fills zero values a YAML file may have omitted.
func (c *Config) applyDefaults() {
	if c.Storage.DatabasePath == "" {
		c.Storage.DatabasePath = "rentcheck.db"
	}
	if c.Checker.SyncTolerance == 0 {
		c.Checker.SyncTolerance = 0.05
	}
	if c.Checker.WindowTolerance == 0 {
		c.Checker.WindowTolerance = 0.10
	}
	if c.Checker.CostPerAPICall == 0 {
		c.Checker.CostPerAPICall = 0.10
	}
	if c.Checker.HorizonDays == 0 {
		c.Checker.HorizonDays = 30
	}
	if c.Scheduler.DailyCheckCron == "" {
		c.Scheduler.DailyCheckCron = "0 9 * * *"
	}
	if c.Observability.Logging.Level == "" {
		c.Observability.Logging.Level = "info"
	}
}

// getEnv retrieves an environment variable with a fallback default.
func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

// getEnvInt retrieves an integer environment variable with a fallback
// default.
func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		var result int
		if _, err := fmt.Sscanf(val, "%d", &result); err == nil {
			return result
		}
	}
	return fallback
}

// getEnvFloat retrieves a float environment variable with a fallback
// default.
func getEnvFloat(key string, fallback float64) float64 {
	if val := os.Getenv(key); val != "" {
		if result, err := strconv.ParseFloat(val, 64); err == nil {
			return result
		}
	}
	return fallback
}

// getEnvBool retrieves a boolean environment variable with a fallback
// default.
func getEnvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if result, err := strconv.ParseBool(val); err == nil {
			return result
		}
	}
	return fallback
}
