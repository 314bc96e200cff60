package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from files and environment variables.
type Config struct {
	AppName  string `mapstructure:"app_name"`
	Env      string `mapstructure:"app_env"`
	LogLevel string `mapstructure:"log_level"`

	InfomediaURL               string        `mapstructure:"infomedia_url"`
	InfomediaUsername          string        `mapstructure:"infomedia_username"`
	InfomediaPassword          string        `mapstructure:"infomedia_password"`
	InfomediaTimingLogLevel    string        `mapstructure:"infomedia_timing_log_level"`
	InfomediaPageSize          int           `mapstructure:"infomedia_page_size"`
	InfomediaTokenEncoding     string        `mapstructure:"infomedia_token_encoding"`
	InfomediaTimeoutSeconds    int64         `mapstructure:"infomedia_timeout_seconds"`
	InfomediaRetryCount        int           `mapstructure:"infomedia_retry_count"`
	InfomediaRetryDelaySeconds int64         `mapstructure:"infomedia_retry_delay_seconds"`
	InfomediaTimeout           time.Duration `mapstructure:"-"`
	InfomediaRetryDelay        time.Duration `mapstructure:"-"`

	SourcesFile    string `mapstructure:"sources_file"`
	PublishersFile string `mapstructure:"publishers_file"`

	HarvestIntervalSeconds int64         `mapstructure:"harvest_interval"`
	HarvestWindowHours     int64         `mapstructure:"harvest_window_hours"`
	HarvestConcurrency     int           `mapstructure:"harvest_concurrency"`
	HarvestInterval        time.Duration `mapstructure:"-"`
	HarvestWindow          time.Duration `mapstructure:"-"`

	StorageType            string        `mapstructure:"storage_type"`
	BBoltPath              string        `mapstructure:"bbolt_path"`
	StorageTTLSeconds      int64         `mapstructure:"storage_ttl_seconds"`
	StorageCleanupSeconds  int64         `mapstructure:"storage_cleanup_interval_seconds"`
	StorageTTL             time.Duration `mapstructure:"-"`
	StorageCleanupInterval time.Duration `mapstructure:"-"`
}

// Load reads configuration from environment variables and config files.
func Load() (*Config, error) {
	_ = godotenv.Load("configs/.env")

	v := viper.New()

	v.SetDefault("app_name", "infomedia-harvester")
	v.SetDefault("app_env", "development")
	v.SetDefault("log_level", "info")
	v.SetDefault("infomedia_url", "")
	v.SetDefault("infomedia_username", "")
	v.SetDefault("infomedia_password", "")
	v.SetDefault("infomedia_timing_log_level", "info")
	v.SetDefault("infomedia_page_size", 300)
	v.SetDefault("infomedia_token_encoding", "plain")
	v.SetDefault("infomedia_timeout_seconds", 30)
	v.SetDefault("infomedia_retry_count", 6)
	v.SetDefault("infomedia_retry_delay_seconds", 10)
	v.SetDefault("sources_file", "./configs/sources.yaml")
	v.SetDefault("publishers_file", "./configs/publishers.yaml")
	v.SetDefault("harvest_interval", 3600) // seconds
	v.SetDefault("harvest_window_hours", 24)
	v.SetDefault("harvest_concurrency", 2)
	v.SetDefault("storage_type", "bbolt")
	v.SetDefault("bbolt_path", "./data/harvested.db")
	v.SetDefault("storage_ttl_seconds", int64((14*24*time.Hour)/time.Second))
	v.SetDefault("storage_cleanup_interval_seconds", int64((12*time.Hour)/time.Second))

	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.finalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// finalize validates raw values and derives the duration fields.
func (cfg *Config) finalize() error {
	cfg.InfomediaURL = strings.TrimSpace(cfg.InfomediaURL)

	if cfg.InfomediaPageSize <= 0 {
		return fmt.Errorf("invalid infomedia_page_size (must be positive)")
	}
	if cfg.InfomediaTimeoutSeconds <= 0 {
		return fmt.Errorf("invalid infomedia_timeout_seconds (must be positive seconds)")
	}
	if cfg.InfomediaRetryCount < 0 {
		return fmt.Errorf("invalid infomedia_retry_count (must not be negative)")
	}
	if cfg.InfomediaRetryDelaySeconds < 0 {
		return fmt.Errorf("invalid infomedia_retry_delay_seconds (must not be negative)")
	}
	cfg.InfomediaTimeout = time.Duration(cfg.InfomediaTimeoutSeconds) * time.Second
	cfg.InfomediaRetryDelay = time.Duration(cfg.InfomediaRetryDelaySeconds) * time.Second

	if cfg.HarvestIntervalSeconds <= 0 {
		return fmt.Errorf("invalid harvest_interval (must be positive seconds)")
	}
	if cfg.HarvestWindowHours <= 0 {
		return fmt.Errorf("invalid harvest_window_hours (must be positive hours)")
	}
	if cfg.HarvestConcurrency <= 0 {
		return fmt.Errorf("invalid harvest_concurrency (must be positive)")
	}
	cfg.HarvestInterval = time.Duration(cfg.HarvestIntervalSeconds) * time.Second
	cfg.HarvestWindow = time.Duration(cfg.HarvestWindowHours) * time.Hour

	if cfg.StorageTTLSeconds <= 0 {
		return fmt.Errorf("invalid storage_ttl_seconds (must be positive seconds)")
	}
	if cfg.StorageCleanupSeconds <= 0 {
		return fmt.Errorf("invalid storage_cleanup_interval_seconds (must be positive seconds)")
	}
	cfg.StorageTTL = time.Duration(cfg.StorageTTLSeconds) * time.Second
	cfg.StorageCleanupInterval = time.Duration(cfg.StorageCleanupSeconds) * time.Second

	return nil
}

// RequireInfomedia reports missing connection settings. Only commands that talk
// to the API call it, so registry-only tooling can run without credentials.
func (cfg *Config) RequireInfomedia() error {
	var missing []string
	if cfg.InfomediaURL == "" {
		missing = append(missing, "INFOMEDIA_URL")
	}
	if cfg.InfomediaUsername == "" {
		missing = append(missing, "INFOMEDIA_USERNAME")
	}
	if cfg.InfomediaPassword == "" {
		missing = append(missing, "INFOMEDIA_PASSWORD")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing infomedia settings: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Redacted returns a copy safe to log.
func (cfg Config) Redacted() Config {
	if cfg.InfomediaPassword != "" {
		cfg.InfomediaPassword = "***"
	}
	return cfg
}
