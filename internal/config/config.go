package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// Shared static key published by regulations.gov for the commenting API.
const defaultAPIKey = "5F20SbTVakeYfU9i5gX1dxx96sw4KELUQxAHhcHa"

const (
	defaultAPIBaseURL = "https://api.regulations.gov/v4"
	defaultOutputDir  = "output"
	defaultPageSize   = 250
	defaultChunkSize  = 500
	defaultWindowDays = 30
	defaultCronSpec   = "@daily"
	defaultMinDelay   = 1
	defaultMaxDelay   = 2
)

type Config struct {
	DBDSN           string `json:"db_dsn"`
	APIKey          string `json:"api_key"`
	APIBaseURL      string `json:"api_base_url"`
	OutputDir       string `json:"output_dir"`
	PageSize        int    `json:"page_size"`
	ChunkSize       int    `json:"chunk_size"`
	WindowDays      int    `json:"window_days"`
	ExportXlsx      bool   `json:"export_xlsx"`
	CronSpec        string `json:"cron_spec"`
	MinDelaySeconds int    `json:"min_delay_seconds"`
	MaxDelaySeconds int    `json:"max_delay_seconds"`
}

func Load(path string) (Config, error) {
	if path == "" {
		return Config{}, fmt.Errorf("config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if dsn := os.Getenv("DB_DSN"); dsn != "" {
		cfg.DBDSN = dsn
	}
	if key := os.Getenv("REGS_API_KEY"); key != "" {
		cfg.APIKey = key
	}

	applyDefaults(&cfg)

	if cfg.DBDSN == "" {
		return Config{}, fmt.Errorf("db_dsn is required")
	}
	if cfg.PageSize < 5 || cfg.PageSize > 250 {
		return Config{}, fmt.Errorf("page_size must be between 5 and 250")
	}
	if cfg.ChunkSize < 0 {
		return Config{}, fmt.Errorf("chunk_size must not be negative")
	}
	if cfg.WindowDays <= 0 {
		return Config{}, fmt.Errorf("window_days must be positive")
	}
	if cfg.MinDelaySeconds < 0 || cfg.MaxDelaySeconds < cfg.MinDelaySeconds {
		return Config{}, fmt.Errorf("delay bounds are invalid")
	}

	return cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.APIKey == "" {
		cfg.APIKey = defaultAPIKey
	}
	if cfg.APIBaseURL == "" {
		cfg.APIBaseURL = defaultAPIBaseURL
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = defaultOutputDir
	}
	if cfg.PageSize == 0 {
		cfg.PageSize = defaultPageSize
	}
	if cfg.ChunkSize == 0 {
		cfg.ChunkSize = defaultChunkSize
	}
	if cfg.WindowDays == 0 {
		cfg.WindowDays = defaultWindowDays
	}
	if cfg.CronSpec == "" {
		cfg.CronSpec = defaultCronSpec
	}
	if cfg.MinDelaySeconds == 0 && cfg.MaxDelaySeconds == 0 {
		cfg.MinDelaySeconds = defaultMinDelay
		cfg.MaxDelaySeconds = defaultMaxDelay
	}
}
