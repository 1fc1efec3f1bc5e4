package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"regscrape/internal/models"

	"gorm.io/gorm"
)

type ExportService struct {
	db *gorm.DB
}

func NewExportService(db *gorm.DB) (*ExportService, error) {
	if db == nil {
		return nil, errors.New("db is nil")
	}

	return &ExportService{db: db}, nil
}

// RecordExport writes a ledger row for a produced result file. The
// unique filename index turns an accidental re-run collision into an
// error instead of a silent overwrite.
func (s *ExportService) RecordExport(ctx context.Context, file ResultFile, format string, eventID *string) error {
	if s == nil {
		return errors.New("export service is nil")
	}
	if s.db == nil {
		return errors.New("db is nil")
	}
	if file.Filename == "" {
		return errors.New("filename is empty")
	}
	if format == "" {
		return errors.New("format is empty")
	}

	entry := models.ExportFile{
		Filename:   file.Filename,
		Format:     format,
		Rows:       file.Rows,
		Checksum:   file.Checksum,
		EventID:    eventID,
		ExportedAt: time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(&entry).Error; err != nil {
		return fmt.Errorf("record export: %w", err)
	}

	return nil
}

func (s *ExportService) GetExports(ctx context.Context, limit int) ([]models.ExportFile, error) {
	if s == nil {
		return nil, errors.New("export service is nil")
	}
	if s.db == nil {
		return nil, errors.New("db is nil")
	}
	if limit <= 0 {
		return nil, errors.New("limit must be positive")
	}

	var exports []models.ExportFile
	if err := s.db.WithContext(ctx).Order("exported_at desc").Limit(limit).Find(&exports).Error; err != nil {
		return nil, fmt.Errorf("get exports: %w", err)
	}

	return exports, nil
}
