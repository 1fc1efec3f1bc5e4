package services

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"regscrape/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrInvalidLimit = errors.New("invalid limit")
var ErrInvalidSort = errors.New("invalid sort")
var ErrInvalidDateRange = errors.New("invalid date range")
var ErrInvalidWithdrawn = errors.New("invalid withdrawn filter")

type DataService struct {
	db         *gorm.DB
	logService LogWriter
}

func NewDataService(db *gorm.DB, logService LogWriter) (*DataService, error) {
	if db == nil {
		return nil, errors.New("db is nil")
	}
	if logService == nil {
		return nil, errors.New("log service is nil")
	}

	return &DataService{
		db:         db,
		logService: logService,
	}, nil
}

// StoreComments inserts fetched records, silently skipping comment IDs
// already stored by an earlier run. Returns the number of new rows.
func (s *DataService) StoreComments(ctx context.Context, comments []models.Comment, eventID *string) (int, error) {
	if s == nil {
		return 0, errors.New("data service is nil")
	}
	if s.db == nil {
		return 0, errors.New("db is nil")
	}
	if s.logService == nil {
		return 0, errors.New("log service is nil")
	}
	if len(comments) == 0 {
		return 0, errors.New("comments are empty")
	}
	for _, comment := range comments {
		if comment.CommentID == "" {
			return 0, errors.New("comment id is empty")
		}
	}

	result := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "comment_id"}},
			DoNothing: true,
		}).
		Create(&comments)
	if result.Error != nil {
		failMsg := fmt.Sprintf("store comments rows=%d: %v", len(comments), result.Error)
		_ = s.logService.CreateLog(ctx, eventID, LogActionDataStore, LogOutcomeFail, &failMsg)
		return 0, fmt.Errorf("store comments: %w", result.Error)
	}

	inserted := int(result.RowsAffected)
	successMsg := fmt.Sprintf("stored rows=%d new=%d", len(comments), inserted)
	_ = s.logService.CreateLog(ctx, eventID, LogActionDataStore, LogOutcomeSuccess, &successMsg)

	return inserted, nil
}

// FilterNew returns the comment IDs that are not stored yet, keeping
// the listing order.
func (s *DataService) FilterNew(ctx context.Context, commentIDs []string) ([]string, error) {
	if s == nil {
		return nil, errors.New("data service is nil")
	}
	if s.db == nil {
		return nil, errors.New("db is nil")
	}
	if len(commentIDs) == 0 {
		return nil, nil
	}

	var existing []string
	if err := s.db.WithContext(ctx).Model(&models.Comment{}).
		Where("comment_id IN ?", commentIDs).
		Pluck("comment_id", &existing).Error; err != nil {
		return nil, fmt.Errorf("filter new comments: %w", err)
	}

	known := make(map[string]bool, len(existing))
	for _, id := range existing {
		known[id] = true
	}

	fresh := make([]string, 0, len(commentIDs))
	for _, id := range commentIDs {
		if !known[id] {
			fresh = append(fresh, id)
		}
	}

	return fresh, nil
}

func (s *DataService) GetComments(ctx context.Context, docketID string, country string, withdrawn string, from string, to string, sort string, limit string) ([]models.Comment, error) {
	if s == nil {
		return nil, errors.New("data service is nil")
	}
	if s.db == nil {
		return nil, errors.New("db is nil")
	}

	limitValue, err := parseCommentsLimit(limit)
	if err != nil {
		return nil, err
	}

	order, err := parseCommentsSort(sort)
	if err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).Model(&models.Comment{})

	docketID = strings.TrimSpace(docketID)
	if docketID != "" {
		query = query.Where("docket_id = ?", docketID)
	}

	country = strings.TrimSpace(country)
	if country != "" {
		query = query.Where("lower(country) = lower(?)", country)
	}

	withdrawnValue, hasWithdrawn, err := parseWithdrawn(withdrawn)
	if err != nil {
		return nil, err
	}
	if hasWithdrawn {
		query = query.Where("withdrawn = ?", withdrawnValue)
	}

	from = strings.TrimSpace(from)
	if from != "" {
		if err := validateReceivedDate(from); err != nil {
			return nil, err
		}
		query = query.Where("received_date >= ?", from)
	}
	to = strings.TrimSpace(to)
	if to != "" {
		if err := validateReceivedDate(to); err != nil {
			return nil, err
		}
		query = query.Where("received_date <= ?", to)
	}
	if from != "" && to != "" && from > to {
		return nil, ErrInvalidDateRange
	}

	query = query.Order(order)
	if limitValue > 0 {
		query = query.Limit(limitValue)
	}

	var comments []models.Comment
	if err := query.Find(&comments).Error; err != nil {
		return nil, fmt.Errorf("get comments: %w", err)
	}

	return comments, nil
}

func (s *DataService) DeleteComments(ctx context.Context) (int, error) {
	if s == nil {
		return 0, errors.New("data service is nil")
	}
	if s.db == nil {
		return 0, errors.New("db is nil")
	}
	if s.logService == nil {
		return 0, errors.New("log service is nil")
	}

	result := s.db.WithContext(ctx).Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&models.Comment{})
	if result.Error != nil {
		failMsg := fmt.Sprintf("delete comments: %v", result.Error)
		_ = s.logService.CreateLog(ctx, nil, LogActionDataStore, LogOutcomeFail, &failMsg)
		return 0, fmt.Errorf("delete comments: %w", result.Error)
	}

	count := int(result.RowsAffected)
	successMsg := fmt.Sprintf("deleted rows=%d", count)
	_ = s.logService.CreateLog(ctx, nil, LogActionDataStore, LogOutcomeSuccess, &successMsg)

	return count, nil
}

func parseCommentsLimit(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, nil
	}

	limit, err := strconv.Atoi(value)
	if err != nil || limit <= 0 {
		return 0, ErrInvalidLimit
	}

	return limit, nil
}

func parseCommentsSort(value string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "", "asc":
		return "received_date, comment_id", nil
	case "desc":
		return "received_date desc, comment_id", nil
	default:
		return "", ErrInvalidSort
	}
}

func parseWithdrawn(value string) (bool, bool, error) {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "":
		return false, false, nil
	case "true":
		return true, true, nil
	case "false":
		return false, true, nil
	default:
		return false, false, ErrInvalidWithdrawn
	}
}

func validateReceivedDate(value string) error {
	if _, err := time.Parse("2006-01-02", value); err != nil {
		return ErrInvalidDateRange
	}
	return nil
}
