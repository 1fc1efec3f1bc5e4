package services

import (
	"context"
	"errors"
	"fmt"

	"regscrape/internal/models"

	"gorm.io/gorm"
)

type DocketService struct {
	db *gorm.DB
}

func NewDocketService(db *gorm.DB) (*DocketService, error) {
	if db == nil {
		return nil, errors.New("db is nil")
	}

	return &DocketService{db: db}, nil
}

func (s *DocketService) GetDockets(ctx context.Context) ([]models.Docket, error) {
	if s == nil {
		return nil, errors.New("docket service is nil")
	}
	if s.db == nil {
		return nil, errors.New("db is nil")
	}

	var dockets []models.Docket
	if err := s.db.WithContext(ctx).Find(&dockets).Error; err != nil {
		return nil, fmt.Errorf("get dockets: %w", err)
	}

	return dockets, nil
}
