package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Config holds all application configuration
type Config struct {
	TwelveAPIKey string

	// Analysis parameters
	EMAFastWeeks       int
	EMAMidWeeks        int
	EMASlowWeeks       int
	LevelLookbackWeeks int
	LevelUseClosesOnly bool
	HistoryYears       int

	// Fetch pacing
	RequestTimeoutSec int
	RequestDelaySec   float64

	// Scan execution
	ScanWorkers int

	// Artifact directories
	LogDir      string
	SnapshotDir string
	ReportDir   string

	LogLevel string

	// Optional Postgres archive
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	// Optional Telegram alerts
	TelegramBotToken string
	TelegramChatID   int64
}

// Load initializes configuration from environment variables
func Load() (*Config, error) {
	// Load environment variables from .env file if present
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg(".env file not found, relying on actual environment variables")
	}

	var cfg Config

	cfg.TwelveAPIKey = os.Getenv("TWELVE_API_KEY")
	cfg.EMAFastWeeks = getEnvIntWithDefault("EMA_FAST_WEEKS", 10)
	cfg.EMAMidWeeks = getEnvIntWithDefault("EMA_MID_WEEKS", 20)
	cfg.EMASlowWeeks = getEnvIntWithDefault("EMA_SLOW_WEEKS", 40)
	cfg.LevelLookbackWeeks = getEnvIntWithDefault("LEVEL_LOOKBACK_WEEKS", 52)
	cfg.LevelUseClosesOnly = getEnvBoolWithDefault("LEVEL_USE_CLOSES_ONLY", false)
	cfg.HistoryYears = getEnvIntWithDefault("HISTORY_YEARS", 2)
	cfg.RequestTimeoutSec = getEnvIntWithDefault("REQUEST_TIMEOUT", 30)
	cfg.RequestDelaySec = getEnvFloatWithDefault("REQUEST_DELAY_SECONDS", 2.0)
	cfg.ScanWorkers = getEnvIntWithDefault("SCAN_WORKERS", 4)
	cfg.LogDir = getEnvWithDefault("LOG_DIR", "logs")
	cfg.SnapshotDir = getEnvWithDefault("SNAPSHOT_DIR", "snapshots")
	cfg.ReportDir = getEnvWithDefault("REPORT_DIR", "reports")
	cfg.LogLevel = getEnvWithDefault("LOG_LEVEL", "info")

	cfg.DBHost = os.Getenv("DB_HOST")
	cfg.DBPort = getEnvWithDefault("DB_PORT", "5432")
	cfg.DBUser = os.Getenv("DB_USER")
	cfg.DBPassword = os.Getenv("DB_PASSWORD")
	cfg.DBName = os.Getenv("DB_NAME")
	cfg.DBSSLMode = getEnvWithDefault("DB_SSLMODE", "disable")

	cfg.TelegramBotToken = os.Getenv("TELEGRAM_BOT_TOKEN")
	cfg.TelegramChatID = getEnvInt64WithDefault("TELEGRAM_CHAT_ID", 0)

	return &cfg, nil
}

// ArchiveEnabled reports whether the Postgres archive is configured
func (c *Config) ArchiveEnabled() bool {
	return c.DBHost != "" && c.DBUser != "" && c.DBName != ""
}

// TelegramEnabled reports whether transition alerts are configured
func (c *Config) TelegramEnabled() bool {
	return c.TelegramBotToken != "" && c.TelegramChatID != 0
}

// Helper functions for environment variable handling
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntWithDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvInt64WithDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatWithDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolWithDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return value == "true" || value == "1" || value == "yes"
	}
	return defaultValue
}
