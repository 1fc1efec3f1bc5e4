package repo

import (
	"errors"
	"fmt"
	"strings"

	"regscrape/internal/config"
	"regscrape/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const defaultDocketConfigPath = "config.json"

func Connect(dsn string) (*gorm.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("dsn is empty")
	}

	db, err := gorm.Open(dialectorFor(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	return db, nil
}

// Postgres in deployment, sqlite for local one-shot runs.
func dialectorFor(dsn string) gorm.Dialector {
	if strings.HasPrefix(dsn, "file:") || strings.HasSuffix(dsn, ".db") || dsn == ":memory:" {
		return sqlite.Open(dsn)
	}
	return postgres.Open(dsn)
}

func Migrate(db *gorm.DB) error {
	if db == nil {
		return errors.New("db is nil")
	}

	if err := db.AutoMigrate(&models.Docket{}, &models.Log{}, &models.Comment{}, &models.ExportFile{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	if err := ensureDefaultDocket(db); err != nil {
		return fmt.Errorf("ensure default docket: %w", err)
	}

	return nil
}

func ensureDefaultDocket(db *gorm.DB) error {
	if db == nil {
		return errors.New("db is nil")
	}

	var count int64
	if err := db.Model(&models.Docket{}).Count(&count).Error; err != nil {
		return fmt.Errorf("count dockets: %w", err)
	}
	if count > 0 {
		return nil
	}

	cfg, err := config.LoadDocketConfig(defaultDocketConfigPath)
	if err != nil {
		return err
	}

	docket := models.Docket{
		CommentOnID: cfg.Docket.CommentOnID,
		DocketID:    cfg.Docket.DocketID,
	}
	if cfg.Docket.PostedFrom != "" {
		from := cfg.Docket.PostedFrom
		docket.PostedFrom = &from
	}
	if cfg.Docket.PostedTo != "" {
		to := cfg.Docket.PostedTo
		docket.PostedTo = &to
	}
	if cfg.Docket.Comment != "" {
		comment := cfg.Docket.Comment
		docket.Comment = &comment
	}

	if err := db.Create(&docket).Error; err != nil {
		return fmt.Errorf("create default docket: %w", err)
	}

	return nil
}
