package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

const postedDateLayout = "2006-01-02"

type DocketConfig struct {
	Docket DocketEntry `json:"docket"`
}

type DocketEntry struct {
	CommentOnID string `json:"comment_on_id"`
	DocketID    string `json:"docket_id"`
	PostedFrom  string `json:"posted_from"`
	PostedTo    string `json:"posted_to"`
	Comment     string `json:"comment"`
}

func LoadDocketConfig(path string) (DocketConfig, error) {
	if path == "" {
		return DocketConfig{}, fmt.Errorf("docket config path is empty")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return DocketConfig{}, fmt.Errorf("read docket config: %w", err)
	}

	var cfg DocketConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return DocketConfig{}, fmt.Errorf("parse docket config: %w", err)
	}

	if cfg.Docket.CommentOnID == "" {
		return DocketConfig{}, fmt.Errorf("docket.comment_on_id is required")
	}
	if err := validatePostedDate(cfg.Docket.PostedFrom); err != nil {
		return DocketConfig{}, fmt.Errorf("docket.posted_from: %w", err)
	}
	if err := validatePostedDate(cfg.Docket.PostedTo); err != nil {
		return DocketConfig{}, fmt.Errorf("docket.posted_to: %w", err)
	}

	return cfg, nil
}

func validatePostedDate(value string) error {
	if value == "" {
		return nil
	}
	if _, err := time.Parse(postedDateLayout, value); err != nil {
		return fmt.Errorf("invalid date %q, want YYYY-MM-DD", value)
	}
	return nil
}
