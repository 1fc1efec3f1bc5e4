package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Docket is a scrape source: the commentOnId object the listing endpoint
// filters on, plus an optional pinned posted-date range.
type Docket struct {
	ID          string  `gorm:"type:uuid;primaryKey" json:"id"`
	CommentOnID string  `gorm:"type:text;not null" json:"comment_on_id"`
	DocketID    string  `gorm:"type:text" json:"docket_id"`
	PostedFrom  *string `gorm:"type:text" json:"posted_from,omitempty"`
	PostedTo    *string `gorm:"type:text" json:"posted_to,omitempty"`
	Comment     *string `gorm:"type:text" json:"comment,omitempty"`
}

func (d *Docket) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}
