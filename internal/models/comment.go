package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Comment is one public comment pulled from the regulations.gov API.
// Rows are immutable once fetched; comment_id deduplicates across runs.
type Comment struct {
	ID                  string    `gorm:"type:uuid;primaryKey" json:"id"`
	CommentID           string    `gorm:"type:text;not null;uniqueIndex" json:"comment_id"`
	TrackingNumber      string    `gorm:"type:text" json:"tracking_number"`
	Country             string    `gorm:"type:text" json:"country"`
	StateOrProvince     string    `gorm:"type:text" json:"state_or_province"`
	ZipCode             string    `gorm:"type:text" json:"zip_code"`
	DocumentCategory    string    `gorm:"type:text" json:"document_category"`
	DocumentSubtype     string    `gorm:"type:text" json:"document_subtype"`
	ReceivedDate        string    `gorm:"type:text" json:"received_date"`
	DetailURL           string    `gorm:"type:text" json:"url"`
	Title               string    `gorm:"type:text" json:"title"`
	ObjectID            string    `gorm:"type:text" json:"object_id"`
	AgencyID            string    `gorm:"type:text" json:"agency_id"`
	DocketID            string    `gorm:"type:text" json:"docket_id"`
	OpenForComment      *bool     `json:"open_for_comment,omitempty"`
	CommentOnDocumentID string    `gorm:"type:text" json:"comment_on_document_id"`
	Withdrawn           *bool     `json:"withdrawn,omitempty"`
	RestrictReason      string    `gorm:"type:text" json:"restrict_reason"`
	RestrictReasonType  string    `gorm:"type:text" json:"restrict_reason_type"`
	CommentText         string    `gorm:"type:text" json:"comment"`
	PlainText           string    `gorm:"type:text" json:"plain_text"`
	FetchedAt           time.Time `gorm:"not null" json:"fetched_at"`
}

// UUIDs are assigned in Go so the schema migrates on both postgres and
// sqlite.
func (c *Comment) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
