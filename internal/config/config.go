package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Server ServerConfig

	// Database configuration
	Database DatabaseConfig

	// JWT configuration
	JWT JWTConfig

	// Backup configuration
	Backup BackupConfig

	// Scheduler configuration
	Scheduler SchedulerConfig

	// Biometric event bridge configuration
	Biometric BiometricConfig

	// CORS configuration
	CORS CORSConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port        string
	Environment string // development, staging, production
	LogLevel    string // debug, info, warn, error
}

// DatabaseConfig holds database-related configuration
type DatabaseConfig struct {
	Path string // path to the SQLite database file
}

// JWTConfig holds JWT-related configuration
type JWTConfig struct {
	Secret            string
	AccessTokenExpiry time.Duration
}

// BackupConfig holds database backup configuration
type BackupConfig struct {
	Dir       string // backup directory, created if absent
	Retention int    // number of backup files to keep
}

// SchedulerConfig holds the cron expressions for the recurring jobs.
// These are trigger times only; the job set itself is fixed.
type SchedulerConfig struct {
	SweepSpec    string // expiry sweep
	ReminderSpec string // expiry reminder dispatch
	CleanupSpec  string // notification cleanup
	BackupSpec   string // database backup
}

// BiometricConfig holds the event bridge configuration. The shared token
// must match the one configured in the device-helper process.
type BiometricConfig struct {
	SharedToken string
}

// CORSConfig holds CORS-related configuration
type CORSConfig struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:        getEnv("PORT", "8080"),
			Environment: getEnv("ENVIRONMENT", "development"),
			LogLevel:    getEnv("LOG_LEVEL", "info"),
		},
		Database: DatabaseConfig{
			Path: getEnv("DATABASE_PATH", "data/membership.db"),
		},
		JWT: JWTConfig{
			Secret:            getEnv("JWT_SECRET", ""),
			AccessTokenExpiry: time.Duration(getEnvAsInt("JWT_ACCESS_TOKEN_EXPIRY", 28800)) * time.Second,
		},
		Backup: BackupConfig{
			Dir:       getEnv("BACKUP_DIR", "backups"),
			Retention: getEnvAsInt("BACKUP_RETENTION", 30),
		},
		Scheduler: SchedulerConfig{
			SweepSpec:    getEnv("SCHEDULE_EXPIRY_SWEEP", "0 * * * *"),    // hourly
			ReminderSpec: getEnv("SCHEDULE_EXPIRY_REMINDERS", "0 9 * * *"), // daily 9 AM
			CleanupSpec:  getEnv("SCHEDULE_NOTIFICATION_CLEANUP", "0 1 * * 0"), // Sunday 1 AM
			BackupSpec:   getEnv("SCHEDULE_BACKUP", "0 2 * * *"), // daily 2 AM
		},
		Biometric: BiometricConfig{
			SharedToken: getEnv("BIOMETRIC_HELPER_TOKEN", ""),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
			AllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}),
			AllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Content-Type", "Authorization"}),
		},
	}

	// Validate required configuration
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Path == "" {
		return fmt.Errorf("DATABASE_PATH is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.Biometric.SharedToken == "" {
		return fmt.Errorf("BIOMETRIC_HELPER_TOKEN is required")
	}
	if c.Backup.Retention <= 0 {
		return fmt.Errorf("BACKUP_RETENTION must be positive")
	}
	return nil
}

func getEnv(key string, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		log.Printf("Invalid integer value for %s, using default: %d", key, defaultValue)
		return defaultValue
	}
	return value
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var result []string
	for _, v := range strings.Split(valueStr, ",") {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return defaultValue
	}
	return result
}
