// Package config provides configuration management functionality.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	DataDir        string // Base directory for the databases (always absolute)
	Port           int
	LogLevel       string
	DevMode        bool
	FrontendOrigin string // Allowed CORS origin for the web frontend

	// Metrics engine conventions. Read-only after Load; the calculator
	// copies them at construction time.
	RiskFreeRate       float64 // Annual risk-free rate (default 3%)
	TradingDaysPerYear int     // Annualization convention for return statistics

	// Auth
	JWTSecret     string
	JWTExpiration time.Duration

	// External services
	OpenAIAPIKey string
	FredAPIKey   string

	// Backup
	Backup *BackupConfig
}

// BackupConfig holds S3 backup configuration
type BackupConfig struct {
	Enabled   bool
	Bucket    string
	Region    string
	Prefix    string
	AccessKey string
	SecretKey string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists
	_ = godotenv.Load()

	dataDir := getEnv("FINSIGHT_DATA_DIR", "./data")

	absDataDir, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data directory path: %w", err)
	}

	if err := os.MkdirAll(absDataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	cfg := &Config{
		DataDir:            absDataDir,
		Port:               getEnvAsInt("PORT", 8000),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		DevMode:            getEnvAsBool("DEV_MODE", false),
		FrontendOrigin:     getEnv("FRONTEND_URL", "http://localhost:3000"),
		RiskFreeRate:       getEnvAsFloat("RISK_FREE_RATE", 0.03),
		TradingDaysPerYear: getEnvAsInt("TRADING_DAYS_PER_YEAR", 252),
		JWTSecret:          getEnv("JWT_SECRET", ""),
		JWTExpiration:      time.Duration(getEnvAsInt("JWT_EXPIRATION_DAYS", 7)) * 24 * time.Hour,
		OpenAIAPIKey:       getEnv("OPENAI_API_KEY", ""),
		FredAPIKey:         getEnv("FRED_API_KEY", ""),
		Backup:             loadBackupConfig(),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks if required configuration is present
func (c *Config) Validate() error {
	if c.TradingDaysPerYear <= 0 {
		return fmt.Errorf("TRADING_DAYS_PER_YEAR must be positive, got %d", c.TradingDaysPerYear)
	}
	if c.JWTSecret == "" && !c.DevMode {
		return fmt.Errorf("JWT_SECRET is required outside dev mode")
	}
	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// loadBackupConfig loads S3 backup configuration. Backups are disabled unless
// a bucket is configured.
func loadBackupConfig() *BackupConfig {
	bucket := getEnv("BACKUP_S3_BUCKET", "")
	return &BackupConfig{
		Enabled:   bucket != "",
		Bucket:    bucket,
		Region:    getEnv("BACKUP_S3_REGION", "eu-central-1"),
		Prefix:    getEnv("BACKUP_S3_PREFIX", "finsight-backups"),
		AccessKey: getEnv("AWS_ACCESS_KEY_ID", ""),
		SecretKey: getEnv("AWS_SECRET_ACCESS_KEY", ""),
	}
}
