package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/amaumene/mediacleanerr/internal/models"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// Radarr (movies)
	RadarrHost   string
	RadarrAPIKey string

	// Sonarr (series)
	SonarrHost   string
	SonarrAPIKey string

	// qBittorrent
	QBitHost     string
	QBitUsername string
	QBitPassword string

	// Jellyfin
	JellyfinHost   string
	JellyfinAPIKey string

	// Deletion policy defaults, overridden by settings saved through the API
	DiskThreshold float64 // percent (default: 90)
	MinSeedWeeks  int     // (default: 4)
	MinRatio      float64 // (default: 1.0)

	// Matching
	HistoryPageSize  int    // history records requested per manager (default: 10000)
	DiskFallbackPath string // mount used when no volume contains the root folder (default: /media)

	// Collectors
	HTTPTimeout time.Duration

	// Scheduler
	ScanSchedule string // cron spec, empty disables (default: hourly)

	// Server
	ServerPort string

	// Paths
	DatabaseFile string // $CONFIG_DIR/mediacleanerr.db
	KeepListFile string // $CONFIG_DIR/keep.txt

	// Logging
	LogLevel  string
	LogFormat string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AutomaticEnv()

	// Load .env file if it exists (ignore if not found)
	_ = v.ReadInConfig()

	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Config, error) {
	v.SetDefault("DISK_THRESHOLD", 90)
	v.SetDefault("MIN_SEED_WEEKS", 4)
	v.SetDefault("MIN_RATIO", 1.0)
	v.SetDefault("HISTORY_PAGE_SIZE", 10000)
	v.SetDefault("DISK_FALLBACK_PATH", "/media")
	v.SetDefault("HTTP_TIMEOUT_SECONDS", 60)
	v.SetDefault("SCAN_SCHEDULE", "0 * * * *")
	v.SetDefault("SERVER_PORT", "5000")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "text")

	configDir, err := resolveConfigDir(v.GetString("CONFIG_DIR"))
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(configDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create config directory: %w", err)
	}

	config := &Config{
		RadarrHost:   v.GetString("RADARR_HOST"),
		RadarrAPIKey: v.GetString("RADARR_API_KEY"),

		SonarrHost:   v.GetString("SONARR_HOST"),
		SonarrAPIKey: v.GetString("SONARR_API_KEY"),

		QBitHost:     v.GetString("QBIT_HOST"),
		QBitUsername: v.GetString("QBIT_USERNAME"),
		QBitPassword: v.GetString("QBIT_PASSWORD"),

		JellyfinHost:   v.GetString("JELLYFIN_HOST"),
		JellyfinAPIKey: v.GetString("JELLYFIN_API_KEY"),

		DiskThreshold: v.GetFloat64("DISK_THRESHOLD"),
		MinSeedWeeks:  v.GetInt("MIN_SEED_WEEKS"),
		MinRatio:      v.GetFloat64("MIN_RATIO"),

		HistoryPageSize:  v.GetInt("HISTORY_PAGE_SIZE"),
		DiskFallbackPath: v.GetString("DISK_FALLBACK_PATH"),

		HTTPTimeout: time.Duration(v.GetInt("HTTP_TIMEOUT_SECONDS")) * time.Second,

		ScanSchedule: v.GetString("SCAN_SCHEDULE"),

		ServerPort: v.GetString("SERVER_PORT"),

		DatabaseFile: filepath.Join(configDir, "mediacleanerr.db"),
		KeepListFile: filepath.Join(configDir, "keep.txt"),

		LogLevel:  v.GetString("LOG_LEVEL"),
		LogFormat: v.GetString("LOG_FORMAT"),
	}

	if err := ValidatePolicy(config.Policy()); err != nil {
		return nil, err
	}
	if config.HistoryPageSize <= 0 {
		return nil, fmt.Errorf("HISTORY_PAGE_SIZE must be positive, got %d", config.HistoryPageSize)
	}
	if config.HTTPTimeout <= 0 {
		return nil, fmt.Errorf("HTTP_TIMEOUT_SECONDS must be positive")
	}

	return config, nil
}

func resolveConfigDir(configDir string) (string, error) {
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(homeDir, ".config", "mediacleanerr"), nil
	}

	absPath, err := filepath.Abs(configDir)
	if err != nil {
		return "", fmt.Errorf("failed to get absolute path for CONFIG_DIR: %w", err)
	}
	return absPath, nil
}

// Policy returns the deletion policy defaults from the environment
func (c *Config) Policy() models.Policy {
	return models.Policy{
		DiskThreshold: c.DiskThreshold,
		MinSeedWeeks:  c.MinSeedWeeks,
		MinRatio:      c.MinRatio,
	}
}

// ValidatePolicy rejects thresholds outside their meaningful range
func ValidatePolicy(p models.Policy) error {
	if p.DiskThreshold < 0 || p.DiskThreshold > 100 {
		return fmt.Errorf("disk threshold must be between 0 and 100, got %v", p.DiskThreshold)
	}
	if p.MinSeedWeeks < 0 {
		return fmt.Errorf("minimum seed weeks must not be negative, got %d", p.MinSeedWeeks)
	}
	if p.MinRatio < 0 {
		return fmt.Errorf("minimum ratio must not be negative, got %v", p.MinRatio)
	}
	return nil
}
